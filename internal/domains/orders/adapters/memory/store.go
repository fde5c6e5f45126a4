package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
	catalogports "github.com/emarket/emarket-api/internal/domains/catalog/ports"
	"github.com/emarket/emarket-api/internal/domains/orders/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Store)(nil)

// Store is an in-memory order persistence adapter. Stock lives in the catalog
// repository; Store stages every write of a unit of work and flushes only on
// commit, so a failing placement leaves both orders and stock untouched. A
// single mutex serializes units of work, standing in for row-level locks.
type Store struct {
	mu          sync.Mutex
	catalog     catalogports.Repository
	orders      map[int64]*domain.Order
	nextOrderID int64
	nextLineID  int64
}

// NewStore wires the in-memory order store over a catalog repository.
func NewStore(catalog catalogports.Repository) *Store {
	return &Store{
		catalog: catalog,
		orders:  map[int64]*domain.Order{},
	}
}

// Within runs fn against a staged view of the store and commits its writes
// atomically when fn returns nil.
func (s *Store) Within(ctx context.Context, fn func(tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	scope := &txScope{
		store:    s,
		products: map[int64]*catalogdomain.Product{},
		statuses: map[int64]domain.Status{},
		deleted:  map[int64]bool{},
	}
	if err := fn(scope); err != nil {
		return err
	}
	return scope.commit(ctx)
}

// GetByUser fetches one of the user's orders with line products hydrated.
func (s *Store) GetByUser(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, ports.ErrOrderNotFound
	}
	clone := cloneOrder(order)
	s.hydrateLines(ctx, clone)
	return clone, nil
}

// ListByUser returns one page of the user's orders, newest first.
func (s *Store) ListByUser(ctx context.Context, userID int64, page int) (*ports.OrderPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	matched := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if order.UserID != userID {
			continue
		}
		matched = append(matched, cloneOrder(order))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	start := (page - 1) * ports.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + ports.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	items := matched[start:end]
	for _, order := range items {
		s.hydrateLines(ctx, order)
	}
	return &ports.OrderPage{Items: items, Page: page, PerPage: ports.PageSize, Total: total}, nil
}

func (s *Store) hydrateLines(ctx context.Context, order *domain.Order) {
	for i := range order.Lines {
		product, err := s.catalog.GetProduct(ctx, order.Lines[i].ProductID)
		if err != nil {
			// A line may outlive its product; the snapshot stands alone.
			continue
		}
		order.Lines[i].Product = product
	}
}

// txScope stages the writes of one unit of work.
type txScope struct {
	store    *Store
	products map[int64]*catalogdomain.Product
	created  []*domain.Order
	statuses map[int64]domain.Status
	deleted  map[int64]bool
}

var _ ports.Tx = (*txScope)(nil)

func (t *txScope) ProductForUpdate(ctx context.Context, productID int64) (*catalogdomain.Product, error) {
	product, err := t.workingProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	clone := *product
	return &clone, nil
}

func (t *txScope) AdjustStock(ctx context.Context, productID int64, delta int) error {
	product, err := t.workingProduct(ctx, productID)
	if err != nil {
		return err
	}
	product.Stock += delta
	return nil
}

func (t *txScope) CreateOrder(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	now := time.Now()
	t.store.nextOrderID++
	order.ID = t.store.nextOrderID
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Lines {
		t.store.nextLineID++
		order.Lines[i].ID = t.store.nextLineID
	}
	t.created = append(t.created, cloneOrder(order))
	return nil
}

func (t *txScope) OrderForUpdate(_ context.Context, userID, orderID int64) (*domain.Order, error) {
	if t.deleted[orderID] {
		return nil, ports.ErrOrderNotFound
	}
	order, ok := t.store.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, ports.ErrOrderNotFound
	}
	clone := cloneOrder(order)
	if status, ok := t.statuses[orderID]; ok {
		clone.Status = status
	}
	return clone, nil
}

func (t *txScope) UpdateOrderStatus(_ context.Context, orderID int64, status domain.Status) error {
	if _, ok := t.store.orders[orderID]; !ok || t.deleted[orderID] {
		return ports.ErrOrderNotFound
	}
	t.statuses[orderID] = status
	return nil
}

func (t *txScope) DeleteOrder(_ context.Context, orderID int64) error {
	if _, ok := t.store.orders[orderID]; !ok || t.deleted[orderID] {
		return ports.ErrOrderNotFound
	}
	t.deleted[orderID] = true
	return nil
}

// workingProduct returns the transaction's private copy of a product, loading
// it from the catalog on first touch.
func (t *txScope) workingProduct(ctx context.Context, productID int64) (*catalogdomain.Product, error) {
	if product, ok := t.products[productID]; ok {
		return product, nil
	}
	product, err := t.store.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrProductNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	t.products[productID] = product
	return product, nil
}

// commit flushes the staged writes. The store mutex is still held by Within.
func (t *txScope) commit(ctx context.Context) error {
	for _, product := range t.products {
		if _, err := t.store.catalog.SaveProduct(ctx, product); err != nil {
			return err
		}
	}
	now := time.Now()
	for _, order := range t.created {
		t.store.orders[order.ID] = order
	}
	for orderID, status := range t.statuses {
		if order, ok := t.store.orders[orderID]; ok {
			order.Status = status
			order.UpdatedAt = now
		}
	}
	for orderID := range t.deleted {
		delete(t.store.orders, orderID)
	}
	return nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = make([]domain.Line, len(order.Lines))
	copy(clone.Lines, order.Lines)
	for i := range clone.Lines {
		clone.Lines[i].Product = nil
	}
	return &clone
}
