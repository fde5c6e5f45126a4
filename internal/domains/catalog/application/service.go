package application

import (
	"context"

	"github.com/emarket/emarket-api/internal/domains/catalog/application/types"
	"github.com/emarket/emarket-api/internal/domains/catalog/domain"
	"github.com/emarket/emarket-api/internal/domains/catalog/ports"
)

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// ListCategories returns all active categories with product counts.
func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory persists a new category aggregate.
func (s *Service) CreateCategory(ctx context.Context, input types.CategoryInput) (*domain.Category, error) {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	category, err := domain.NewCategory(input.Name, input.Description, input.Image, active)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveCategory(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetCategory loads a single category.
func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// UpdateCategory applies a partial update to an existing category.
func (s *Service) UpdateCategory(ctx context.Context, id int64, input types.CategoryUpdate) (*domain.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := category.Rename(*input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Image != nil {
		category.Image = *input.Image
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	saved, err := s.repo.SaveCategory(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

// ListProducts returns a filtered, sorted page of active products.
func (s *Service) ListProducts(ctx context.Context, filter ports.ProductFilter) (*ports.ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = ports.DefaultPerPage
	}
	return s.repo.ListProducts(ctx, filter)
}

// CreateProduct persists a new product aggregate.
func (s *Service) CreateProduct(ctx context.Context, input types.ProductInput) (*domain.Product, error) {
	if _, err := s.repo.GetCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(input.CategoryID, input.Name, input.Description, input.SKU, input.Price, input.SalePrice, input.Stock)
	if err != nil {
		return nil, mapError(err)
	}
	product.Image = input.Image
	product.Images = input.Images
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	saved, err := s.repo.SaveProduct(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetProduct loads a single product with its category resolved.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// UpdateProduct applies a partial update to an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id int64, input types.ProductUpdate) (*domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = domain.Slugify(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.SalePrice != nil {
		product.SalePrice = input.SalePrice
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveProduct(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.DeleteProduct(ctx, id)
}

var _ ports.Service = (*Service)(nil)
