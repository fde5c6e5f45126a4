package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emarket/emarket-api/internal/domains/catalog/domain"
	"github.com/emarket/emarket-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog persistence adapter.
type Repository struct {
	mu             sync.RWMutex
	categories     map[int64]*domain.Category
	products       map[int64]*domain.Product
	nextCategoryID int64
	nextProductID  int64
}

func NewRepository() *Repository {
	return &Repository{
		categories: map[int64]*domain.Category{},
		products:   map[int64]*domain.Product{},
	}
}

func (r *Repository) ListCategories(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		if !category.IsActive {
			continue
		}
		clone := *category
		clone.ProductsCount = r.countProductsLocked(category.ID)
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, ports.ErrCategoryNotFound
	}
	clone := *category
	clone.ProductsCount = r.countProductsLocked(id)
	return &clone, nil
}

func (r *Repository) SaveCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *category
	now := time.Now()
	if clone.ID == 0 {
		r.nextCategoryID++
		clone.ID = r.nextCategoryID
		clone.CreatedAt = now
	} else if clone.ID > r.nextCategoryID {
		r.nextCategoryID = clone.ID
	}
	clone.UpdatedAt = now
	r.categories[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) DeleteCategory(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return ports.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *Repository) ListProducts(_ context.Context, filter ports.ProductFilter) (*ports.ProductPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if !product.IsActive {
			continue
		}
		if filter.CategoryID != nil && product.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.FeaturedOnly && !product.IsFeatured {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *product
		r.attachCategoryLocked(&clone)
		matched = append(matched, &clone)
	}
	sortProducts(matched, filter.SortBy, filter.SortOrder)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = ports.DefaultPerPage
	}
	total := int64(len(matched))
	start := (page - 1) * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	return &ports.ProductPage{Items: matched[start:end], Page: page, PerPage: perPage, Total: total}, nil
}

func (r *Repository) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := *product
	r.attachCategoryLocked(&clone)
	return &clone, nil
}

func (r *Repository) SaveProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.SKU == product.SKU && existing.ID != product.ID {
			return nil, ports.ErrDuplicateSKU
		}
	}
	clone := *product
	clone.Category = nil
	now := time.Now()
	if clone.ID == 0 {
		r.nextProductID++
		clone.ID = r.nextProductID
		clone.CreatedAt = now
	} else if clone.ID > r.nextProductID {
		r.nextProductID = clone.ID
	}
	clone.UpdatedAt = now
	r.products[clone.ID] = &clone
	result := clone
	r.attachCategoryLocked(&result)
	return &result, nil
}

func (r *Repository) DeleteProduct(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) countProductsLocked(categoryID int64) int64 {
	var count int64
	for _, product := range r.products {
		if product.CategoryID == categoryID {
			count++
		}
	}
	return count
}

func (r *Repository) attachCategoryLocked(product *domain.Product) {
	if category, ok := r.categories[product.CategoryID]; ok {
		clone := *category
		product.Category = &clone
	}
}

func sortProducts(list []*domain.Product, sortBy, sortOrder string) {
	desc := strings.EqualFold(sortOrder, "desc") || sortOrder == ""
	less := func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) }
	switch sortBy {
	case "name":
		less = func(i, j int) bool { return list[i].Name < list[j].Name }
	case "price":
		less = func(i, j int) bool { return list[i].Price < list[j].Price }
	}
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
}
