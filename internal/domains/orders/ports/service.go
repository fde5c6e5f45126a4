package ports

import (
	"context"

	"github.com/emarket/emarket-api/internal/domains/orders/application/types"
	"github.com/emarket/emarket-api/internal/domains/orders/domain"
)

// Service exposes the order placement use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	DeleteOrder(ctx context.Context, userID, orderID int64) error
	GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64, page int) (*OrderPage, error)
}
