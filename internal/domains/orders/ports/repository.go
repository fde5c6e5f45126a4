package ports

import (
	"context"
	"errors"

	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	// ErrUnavailable marks persistence contention or lock-wait timeouts; the
	// caller decides whether to retry.
	ErrUnavailable = errors.New("order storage unavailable")
)

// PageSize is the fixed page size for order listings.
const PageSize = 15

// Tx is the write surface available inside one unit of work. Every mutation
// performed through a Tx becomes visible atomically when the enclosing
// Within call returns nil, and not at all otherwise.
type Tx interface {
	// ProductForUpdate loads a product under the transaction's row-level
	// write lock, serializing concurrent stock check-and-adjust sequences.
	ProductForUpdate(ctx context.Context, productID int64) (*catalogdomain.Product, error)
	// AdjustStock shifts a product's stock by delta (negative to reserve,
	// positive to restore).
	AdjustStock(ctx context.Context, productID int64, delta int) error
	// CreateOrder persists the order header and all of its lines, assigning
	// identifiers on the aggregate.
	CreateOrder(ctx context.Context, order *domain.Order) error
	// OrderForUpdate loads an order with its lines under a write lock,
	// scoped to the owning user.
	OrderForUpdate(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.Status) error
	DeleteOrder(ctx context.Context, orderID int64) error
}

// UnitOfWork runs fn inside a single transactional scope.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(tx Tx) error) error
}

// OrderPage is one page of a user's order history.
type OrderPage struct {
	Items   []*domain.Order
	Page    int
	PerPage int
	Total   int64
}

// Repository persists orders. Reads return fully hydrated aggregates: lines
// are loaded with the header and their products batch-fetched.
type Repository interface {
	UnitOfWork
	GetByUser(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64, page int) (*OrderPage, error)
}
