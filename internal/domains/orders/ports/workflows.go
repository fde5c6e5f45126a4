package ports

import (
	"context"

	"github.com/emarket/emarket-api/internal/domains/orders/application/types"
	"github.com/emarket/emarket-api/internal/domains/orders/domain"
)

// PlacementOrchestrator starts the order placement flow, either durably via a
// workflow engine or inline against the service.
type PlacementOrchestrator interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
}
