// Package http exposes order placement over gin handlers. The caller identity
// comes from the session middleware; every route is user-scoped.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emarket/emarket-api/internal/domains/orders/application"
	"github.com/emarket/emarket-api/internal/domains/orders/application/types"
	"github.com/emarket/emarket-api/internal/domains/orders/ports"
	usershttp "github.com/emarket/emarket-api/internal/domains/users/adapters/http"
	"github.com/emarket/emarket-api/internal/shared/respond"
)

// API carries the order handlers. Placement goes through the orchestrator so
// deployments with a workflow engine get durable execution; everything else
// hits the service directly.
type API struct {
	service      ports.Service
	orchestrator ports.PlacementOrchestrator
}

// NewAPI wires dependencies.
func NewAPI(service ports.Service, orchestrator ports.PlacementOrchestrator) API {
	return API{service: service, orchestrator: orchestrator}
}

// Register mounts the order routes on the given group.
func (api API) Register(group *gin.RouterGroup) {
	group.GET("/orders", api.ListOrders)
	group.POST("/orders", api.PlaceOrder)
	group.GET("/orders/:id", api.GetOrder)
	group.PATCH("/orders/:id", api.UpdateOrder)
	group.DELETE("/orders/:id", api.DeleteOrder)
}

type linePayload struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type placeOrderPayload struct {
	Lines           []linePayload `json:"lines" binding:"required,min=1,dive"`
	ShippingAddress string        `json:"shipping_address" binding:"required"`
	PaymentMethod   string        `json:"payment_method" binding:"required"`
	Notes           string        `json:"notes"`
}

type updateOrderPayload struct {
	Status string `json:"status" binding:"required"`
}

// POST /orders
func (api API) PlaceOrder(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var payload placeOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	input := types.PlaceOrderInput{
		UserID:          userID,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
		Notes:           payload.Notes,
	}
	for _, line := range payload.Lines {
		input.Lines = append(input.Lines, types.LineRequest{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	order, err := api.orchestrator.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		respond.Error(c, err, mapOrderError)
		return
	}
	respond.Created(c, "Order placed successfully", fromDomainOrder(order))
}

// GET /orders
func (api API) ListOrders(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	page, err := api.service.ListOrders(c.Request.Context(), userID, intQuery(c, "page", 1))
	if err != nil {
		respond.Error(c, err, mapOrderError)
		return
	}
	respond.OK(c, fromDomainOrderPage(page))
}

// GET /orders/:id
func (api API) GetOrder(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), userID, id)
	if err != nil {
		respond.Error(c, err, mapOrderError)
		return
	}
	respond.OK(c, fromDomainOrder(order))
}

// PATCH /orders/:id
//
// The only status transition a customer can request is cancellation.
func (api API) UpdateOrder(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload updateOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Status != "cancelled" {
		respond.Fail(c, http.StatusBadRequest, "Only cancellation is supported")
		return
	}
	order, err := api.service.CancelOrder(c.Request.Context(), userID, id)
	if err != nil {
		respond.Error(c, err, mapOrderError)
		return
	}
	respond.OKMessage(c, "Order cancelled successfully", fromDomainOrder(order))
}

// DELETE /orders/:id
func (api API) DeleteOrder(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), userID, id); err != nil {
		respond.Error(c, err, mapOrderError)
		return
	}
	respond.OKMessage(c, "Order deleted successfully", nil)
}

func caller(c *gin.Context) (int64, bool) {
	userID, ok := usershttp.CallerID(c)
	if !ok {
		respond.Fail(c, http.StatusUnauthorized, "Unauthenticated.")
		return 0, false
	}
	return userID, true
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

func mapOrderError(err error) (int, string, bool) {
	var stockErr *application.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return http.StatusBadRequest, stockErr.Error(), true
	case errors.Is(err, application.ErrInvalidInput), errors.Is(err, application.ErrInvalidState):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, ports.ErrOrderNotFound), errors.Is(err, ports.ErrProductNotFound):
		return http.StatusNotFound, err.Error(), true
	case errors.Is(err, ports.ErrUnavailable):
		return http.StatusServiceUnavailable, err.Error(), true
	}
	return 0, "", false
}
