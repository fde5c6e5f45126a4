// Package http exposes the catalog over gin handlers. Raw payloads are bound
// and validated here; the application service only ever sees typed inputs.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emarket/emarket-api/internal/domains/catalog/application"
	"github.com/emarket/emarket-api/internal/domains/catalog/application/types"
	"github.com/emarket/emarket-api/internal/domains/catalog/ports"
	"github.com/emarket/emarket-api/internal/shared/respond"
)

// API carries the catalog handlers.
type API struct {
	service ports.Service
}

// NewAPI wires dependencies.
func NewAPI(service ports.Service) API {
	return API{service: service}
}

// Register mounts the catalog routes on the given group.
func (api API) Register(group *gin.RouterGroup) {
	group.GET("/categories", api.ListCategories)
	group.POST("/categories", api.CreateCategory)
	group.GET("/categories/:id", api.GetCategory)
	group.PUT("/categories/:id", api.UpdateCategory)
	group.DELETE("/categories/:id", api.DeleteCategory)

	group.GET("/products", api.ListProducts)
	group.POST("/products", api.CreateProduct)
	group.GET("/products/:id", api.GetProduct)
	group.PUT("/products/:id", api.UpdateProduct)
	group.DELETE("/products/:id", api.DeleteProduct)
}

type categoryPayload struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"is_active"`
}

type categoryUpdatePayload struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	IsActive    *bool   `json:"is_active"`
}

type productPayload struct {
	CategoryID  int64    `json:"category_id" binding:"required,gt=0"`
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	SalePrice   *float64 `json:"sale_price" binding:"omitempty,gte=0"`
	SKU         string   `json:"sku" binding:"required"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	IsFeatured  *bool    `json:"is_featured"`
	IsActive    *bool    `json:"is_active"`
}

type productUpdatePayload struct {
	CategoryID  *int64   `json:"category_id" binding:"omitempty,gt=0"`
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	SalePrice   *float64 `json:"sale_price" binding:"omitempty,gte=0"`
	SKU         *string  `json:"sku"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Image       *string  `json:"image"`
	Images      []string `json:"images"`
	IsFeatured  *bool    `json:"is_featured"`
	IsActive    *bool    `json:"is_active"`
}

// GET /categories
func (api API) ListCategories(c *gin.Context) {
	categories, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.OK(c, fromDomainCategories(categories))
}

// POST /categories
func (api API) CreateCategory(c *gin.Context) {
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	category, err := api.service.CreateCategory(c.Request.Context(), types.CategoryInput{
		Name:        payload.Name,
		Description: payload.Description,
		Image:       payload.Image,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.Created(c, "Category created successfully", fromDomainCategory(category))
}

// GET /categories/:id
func (api API) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, err := api.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.OK(c, fromDomainCategory(category))
}

// PUT /categories/:id
func (api API) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload categoryUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	category, err := api.service.UpdateCategory(c.Request.Context(), id, types.CategoryUpdate{
		Name:        payload.Name,
		Description: payload.Description,
		Image:       payload.Image,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.OKMessage(c, "Category updated successfully", fromDomainCategory(category))
}

// DELETE /categories/:id
func (api API) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := api.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.OKMessage(c, "Category deleted successfully", nil)
}

// GET /products
func (api API) ListProducts(c *gin.Context) {
	filter := ports.ProductFilter{
		Search:       c.Query("search"),
		FeaturedOnly: c.Query("featured") != "",
		SortBy:       c.DefaultQuery("sort_by", "created_at"),
		SortOrder:    c.DefaultQuery("sort_order", "desc"),
		Page:         intQuery(c, "page", 1),
		PerPage:      intQuery(c, "per_page", ports.DefaultPerPage),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.Fail(c, http.StatusBadRequest, "category_id must be an integer")
			return
		}
		filter.CategoryID = &id
	}
	page, err := api.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.OK(c, fromDomainProductPage(page))
}

// POST /products
func (api API) CreateProduct(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), types.ProductInput{
		CategoryID:  payload.CategoryID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		SalePrice:   payload.SalePrice,
		SKU:         payload.SKU,
		Stock:       payload.Stock,
		Image:       payload.Image,
		Images:      payload.Images,
		IsFeatured:  payload.IsFeatured,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.Created(c, "Product created successfully", fromDomainProduct(product))
}

// GET /products/:id
func (api API) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.OK(c, fromDomainProduct(product))
}

// PUT /products/:id
func (api API) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload productUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), id, types.ProductUpdate{
		CategoryID:  payload.CategoryID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		SalePrice:   payload.SalePrice,
		SKU:         payload.SKU,
		Stock:       payload.Stock,
		Image:       payload.Image,
		Images:      payload.Images,
		IsFeatured:  payload.IsFeatured,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.OKMessage(c, "Product updated successfully", fromDomainProduct(product))
}

// DELETE /products/:id
func (api API) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respond.Error(c, err, mapCatalogError)
		return
	}
	respond.OKMessage(c, "Product deleted successfully", nil)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Fail(c, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func mapCatalogError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, ports.ErrCategoryNotFound), errors.Is(err, ports.ErrProductNotFound):
		return http.StatusNotFound, err.Error(), true
	case errors.Is(err, application.ErrInvalidInput), errors.Is(err, ports.ErrDuplicateSKU):
		return http.StatusBadRequest, err.Error(), true
	}
	return 0, "", false
}
