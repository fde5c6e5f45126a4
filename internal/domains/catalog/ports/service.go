package ports

import (
	"context"

	"github.com/emarket/emarket-api/internal/domains/catalog/application/types"
	"github.com/emarket/emarket-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, input types.CategoryInput) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, input types.CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error)
	CreateProduct(ctx context.Context, input types.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input types.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
