package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/emarket/emarket-api/internal/domains/orders/application/types"
	"github.com/emarket/emarket-api/internal/domains/orders/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/ports"
)

// Service is the order placement engine: it validates line requests against
// current inventory, freezes pricing, reserves stock, and materializes order
// aggregates, all inside a single unit of work.
type Service struct {
	repo ports.Repository
}

// NewService wires the placement engine with its persistence port.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// PlaceOrder reserves stock for every requested line and persists the order
// atomically. Each product is read under the transaction's write lock before
// its stock is evaluated, so two concurrent placements against the same
// product serialize and neither can drive stock negative. Any failure rolls
// the whole unit of work back; no partial write is ever visible.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	if err := validatePlacement(input); err != nil {
		return nil, err
	}
	number := uuid.NewString()
	var placed *domain.Order
	err := s.repo.Within(ctx, func(tx ports.Tx) error {
		lines := make([]domain.Line, 0, len(input.Lines))
		for _, request := range input.Lines {
			product, err := tx.ProductForUpdate(ctx, request.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < request.Quantity {
				return &InsufficientStockError{ProductName: product.Name}
			}
			line, err := domain.NewLine(product, request.Quantity)
			if err != nil {
				return err
			}
			if err := tx.AdjustStock(ctx, product.ID, -request.Quantity); err != nil {
				return err
			}
			lines = append(lines, line)
		}
		order, err := domain.NewOrder(input.UserID, number, lines, input.ShippingAddress, input.PaymentMethod, input.Notes)
		if err != nil {
			return err
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	if hydrated, err := s.repo.GetByUser(ctx, input.UserID, placed.ID); err == nil {
		return hydrated, nil
	}
	// The commit succeeded; a failed re-read must not masquerade as a failed
	// placement.
	return placed, nil
}

// CancelOrder flips the order to cancelled and restores the exact quantities
// it reserved, for exactly the products it referenced. Both writes share one
// unit of work so neither can land without the other.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	var cancelled *domain.Order
	err := s.repo.Within(ctx, func(tx ports.Tx) error {
		order, err := tx.OrderForUpdate(ctx, userID, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		if err := tx.UpdateOrderStatus(ctx, order.ID, domain.StatusCancelled); err != nil {
			return err
		}
		for _, line := range order.Lines {
			if err := tx.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	if hydrated, err := s.repo.GetByUser(ctx, userID, cancelled.ID); err == nil {
		return hydrated, nil
	}
	return cancelled, nil
}

// DeleteOrder permanently removes an order and its lines. Only cancelled
// orders qualify; their stock was already restored at cancellation time.
func (s *Service) DeleteOrder(ctx context.Context, userID, orderID int64) error {
	err := s.repo.Within(ctx, func(tx ports.Tx) error {
		order, err := tx.OrderForUpdate(ctx, userID, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureDeletable(); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, order.ID)
	})
	return mapError(err)
}

// GetOrder loads one of the caller's orders. Orders owned by other users are
// reported as not found, never leaked.
func (s *Service) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.repo.GetByUser(ctx, userID, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// ListOrders returns one page of the caller's order history, newest first.
func (s *Service) ListOrders(ctx context.Context, userID int64, page int) (*ports.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	result, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// validatePlacement rejects malformed input before any mutating write.
func validatePlacement(input types.PlaceOrderInput) error {
	probe := domain.Order{
		UserID:          input.UserID,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
	}
	for _, request := range input.Lines {
		probe.Lines = append(probe.Lines, domain.Line{
			ProductID: request.ProductID,
			Quantity:  request.Quantity,
		})
	}
	if err := probe.Validate(); err != nil {
		return mapError(err)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
