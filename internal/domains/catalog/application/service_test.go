package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emarket/emarket-api/internal/domains/catalog/adapters/memory"
	"github.com/emarket/emarket-api/internal/domains/catalog/application/types"
	"github.com/emarket/emarket-api/internal/domains/catalog/domain"
	"github.com/emarket/emarket-api/internal/domains/catalog/ports"
)

func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func newCatalog(t *testing.T) (*Service, *domain.Category) {
	t.Helper()
	svc := NewService(memory.NewRepository())
	category, err := svc.CreateCategory(context.Background(), types.CategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	return svc, category
}

func TestCreateCategory_DerivesSlug(t *testing.T) {
	svc := NewService(memory.NewRepository())

	category, err := svc.CreateCategory(context.Background(), types.CategoryInput{Name: "Home & Garden"})
	require.NoError(t, err)
	assert.Equal(t, "home-garden", category.Slug)
	assert.True(t, category.IsActive)
}

func TestCreateCategory_RejectsEmptyName(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.CreateCategory(context.Background(), types.CategoryInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateProduct_RequiresExistingCategory(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.CreateProduct(context.Background(), types.ProductInput{
		CategoryID: 42, Name: "Laptop", SKU: "SKU-1", Price: 100,
	})
	assert.ErrorIs(t, err, ports.ErrCategoryNotFound)
}

func TestCreateProduct_RejectsDuplicateSKU(t *testing.T) {
	svc, category := newCatalog(t)

	_, err := svc.CreateProduct(context.Background(), types.ProductInput{
		CategoryID: category.ID, Name: "Laptop", SKU: "SKU-1", Price: 100,
	})
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), types.ProductInput{
		CategoryID: category.ID, Name: "Other Laptop", SKU: "SKU-1", Price: 120,
	})
	assert.ErrorIs(t, err, ports.ErrDuplicateSKU)
}

func TestUpdateProduct_PartialUpdateRefreshesSlug(t *testing.T) {
	svc, category := newCatalog(t)
	product, err := svc.CreateProduct(context.Background(), types.ProductInput{
		CategoryID: category.ID, Name: "Laptop", SKU: "SKU-1", Price: 100,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(context.Background(), product.ID, types.ProductUpdate{
		Name:      strPtr("Gaming Laptop"),
		SalePrice: floatPtr(89.99),
	})
	require.NoError(t, err)
	assert.Equal(t, "gaming-laptop", updated.Slug)
	assert.Equal(t, 100.0, updated.Price)
	require.NotNil(t, updated.SalePrice)
	assert.Equal(t, 89.99, *updated.SalePrice)
	assert.Equal(t, "SKU-1", updated.SKU)
}

func TestListProducts_FiltersAndSorts(t *testing.T) {
	svc, category := newCatalog(t)
	other, err := svc.CreateCategory(context.Background(), types.CategoryInput{Name: "Fashion"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), types.ProductInput{
		CategoryID: category.ID, Name: "Laptop", SKU: "SKU-1", Price: 300, IsFeatured: boolPtr(true),
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), types.ProductInput{
		CategoryID: category.ID, Name: "Phone", SKU: "SKU-2", Price: 100,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), types.ProductInput{
		CategoryID: other.ID, Name: "Sneakers", SKU: "SKU-3", Price: 200,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), types.ProductInput{
		CategoryID: other.ID, Name: "Hidden Jacket", SKU: "SKU-4", Price: 50, IsActive: boolPtr(false),
	})
	require.NoError(t, err)

	all, err := svc.ListProducts(context.Background(), ports.ProductFilter{SortBy: "price", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "Phone", all.Items[0].Name)
	assert.Equal(t, "Laptop", all.Items[2].Name)

	byCategory, err := svc.ListProducts(context.Background(), ports.ProductFilter{CategoryID: &other.ID})
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	assert.Equal(t, "Sneakers", byCategory.Items[0].Name)

	featured, err := svc.ListProducts(context.Background(), ports.ProductFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured.Items, 1)
	assert.Equal(t, "Laptop", featured.Items[0].Name)

	searched, err := svc.ListProducts(context.Background(), ports.ProductFilter{Search: "lap"})
	require.NoError(t, err)
	require.Len(t, searched.Items, 1)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	svc := NewService(memory.NewRepository())
	assert.ErrorIs(t, svc.DeleteCategory(context.Background(), 9), ports.ErrCategoryNotFound)
}

func TestListCategories_CountsProducts(t *testing.T) {
	svc, category := newCatalog(t)
	_, err := svc.CreateProduct(context.Background(), types.ProductInput{
		CategoryID: category.ID, Name: "Laptop", SKU: "SKU-1", Price: 100,
	})
	require.NoError(t, err)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, int64(1), categories[0].ProductsCount)
}
