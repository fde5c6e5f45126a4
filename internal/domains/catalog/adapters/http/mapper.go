package http

import (
	"time"

	"github.com/emarket/emarket-api/internal/domains/catalog/domain"
	"github.com/emarket/emarket-api/internal/domains/catalog/ports"
)

// Category is the transport shape for category payloads.
type Category struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	Image         string    `json:"image,omitempty"`
	IsActive      bool      `json:"is_active"`
	ProductsCount int64     `json:"products_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Product is the transport shape for product payloads.
type Product struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	SalePrice   *float64  `json:"sale_price,omitempty"`
	SKU         string    `json:"sku"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image,omitempty"`
	Images      []string  `json:"images,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
	IsActive    bool      `json:"is_active"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductPage is the transport shape for paginated product listings.
type ProductPage struct {
	Items   []Product `json:"items"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Total   int64     `json:"total"`
}

func fromDomainCategory(category *domain.Category) Category {
	return Category{
		ID:            category.ID,
		Name:          category.Name,
		Slug:          category.Slug,
		Description:   category.Description,
		Image:         category.Image,
		IsActive:      category.IsActive,
		ProductsCount: category.ProductsCount,
		CreatedAt:     category.CreatedAt,
		UpdatedAt:     category.UpdatedAt,
	}
}

func fromDomainCategories(categories []*domain.Category) []Category {
	result := make([]Category, 0, len(categories))
	for _, category := range categories {
		result = append(result, fromDomainCategory(category))
	}
	return result
}

func fromDomainProduct(product *domain.Product) Product {
	dto := Product{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price,
		SalePrice:   product.SalePrice,
		SKU:         product.SKU,
		Stock:       product.Stock,
		Image:       product.Image,
		Images:      product.Images,
		IsFeatured:  product.IsFeatured,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Category != nil {
		category := fromDomainCategory(product.Category)
		dto.Category = &category
	}
	return dto
}

func fromDomainProductPage(page *ports.ProductPage) ProductPage {
	items := make([]Product, 0, len(page.Items))
	for _, product := range page.Items {
		items = append(items, fromDomainProduct(product))
	}
	return ProductPage{Items: items, Page: page.Page, PerPage: page.PerPage, Total: page.Total}
}
