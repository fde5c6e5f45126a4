package ports

import (
	"context"
	"errors"

	"github.com/emarket/emarket-api/internal/domains/catalog/domain"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateSKU     = errors.New("sku already exists")
)

// DefaultPerPage is the listing page size when none is requested.
const DefaultPerPage = 15

// ProductFilter narrows and orders product listings. Only active products are
// ever returned.
type ProductFilter struct {
	CategoryID   *int64
	Search       string
	FeaturedOnly bool
	SortBy       string
	SortOrder    string
	Page         int
	PerPage      int
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items   []*domain.Product
	Page    int
	PerPage int
	Total   int64
}

// Repository persists the catalog and returns hydrated aggregates; category
// references on products are batch-fetched, never lazily loaded.
type Repository interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
