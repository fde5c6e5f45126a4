package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/emarket/emarket-api/internal/domains/orders/application"
	"github.com/emarket/emarket-api/internal/domains/orders/application/types"
	ordersdomain "github.com/emarket/emarket-api/internal/domains/orders/domain"
	ordersports "github.com/emarket/emarket-api/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName reserves stock and persists the order aggregate.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
)

// Application error types carried across the workflow boundary so callers can
// rebuild the service's error taxonomy after durable execution.
const (
	ErrTypeInvalidInput      = "InvalidOrderInput"
	ErrTypeInvalidState      = "InvalidOrderState"
	ErrTypeInsufficientStock = "InsufficientStock"
	ErrTypeOrderNotFound     = "OrderNotFound"
	ErrTypeProductNotFound   = "ProductNotFound"
	ErrTypeUnavailable       = "StorageUnavailable"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the placement engine. Business rejections are returned as
// non-retryable application errors; retrying a validation failure or a stock
// shortage cannot succeed.
func (a *Activities) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "userId", input.UserID)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "userId", input.UserID, "lineCount", len(input.Lines))
	order, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "userId", input.UserID, "error", err)
		return nil, translateError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID, "orderNumber", order.Number)
	return order, nil
}

// translateError converts service errors into typed application errors so the
// taxonomy survives serialization. Unknown errors pass through and stay
// retryable.
func translateError(err error) error {
	var stockErr *application.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientStock, nil, stockErr.ProductName)
	case errors.Is(err, application.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, nil)
	case errors.Is(err, application.ErrInvalidState):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidState, nil)
	case errors.Is(err, ordersports.ErrOrderNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeOrderNotFound, nil)
	case errors.Is(err, ordersports.ErrProductNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeProductNotFound, nil)
	case errors.Is(err, ordersports.ErrUnavailable):
		// Contention is worth retrying; keep the type so the final error is
		// still recognizable.
		return temporal.NewApplicationError(err.Error(), ErrTypeUnavailable)
	}
	return err
}

// RestoreError rebuilds the service error taxonomy from a typed application
// error that crossed the workflow boundary.
func RestoreError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeInsufficientStock:
		var productName string
		if appErr.HasDetails() {
			_ = appErr.Details(&productName)
		}
		return &application.InsufficientStockError{ProductName: productName}
	case ErrTypeInvalidInput:
		return application.ErrInvalidInput
	case ErrTypeInvalidState:
		return application.ErrInvalidState
	case ErrTypeOrderNotFound:
		return ordersports.ErrOrderNotFound
	case ErrTypeProductNotFound:
		return ordersports.ErrProductNotFound
	case ErrTypeUnavailable:
		return ordersports.ErrUnavailable
	}
	return err
}
