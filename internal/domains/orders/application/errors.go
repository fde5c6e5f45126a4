package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/emarket/emarket-api/internal/domains/orders/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a placement invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInvalidState signals the order's current status forbids the operation.
	ErrInvalidState = errors.New("order status does not allow this operation")
)

// InsufficientStockError reports a line whose requested quantity exceeds the
// product's available stock. It carries the product name for the caller.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product: %s", e.ProductName)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNoLines),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyShippingAddress),
		errors.Is(err, domain.ErrEmptyPaymentMethod),
		errors.Is(err, domain.ErrInvalidUser),
		errors.Is(err, domain.ErrTotalsMismatch):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrNotCancellable),
		errors.Is(err, domain.ErrNotDeletable):
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
	}
	return err
}
