package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidCategory = errors.New("category id must be greater than zero")

// Product is a sellable catalog item. The orders context reads its price
// fields and mutates Stock through its own port; everything else is owned
// here.
type Product struct {
	ID          int64
	CategoryID  int64
	Name        string
	Slug        string
	Description string
	Price       float64
	SalePrice   *float64
	SKU         string
	Stock       int
	Image       string
	Images      []string
	IsFeatured  bool
	IsActive    bool
	// Category is hydrated on reads when available.
	Category  *Category
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct validates and constructs a product with a derived slug.
func NewProduct(categoryID int64, name, description, sku string, price float64, salePrice *float64, stock int) (*Product, error) {
	product := &Product{
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		SalePrice:   salePrice,
		SKU:         strings.TrimSpace(sku),
		Stock:       stock,
		IsActive:    true,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	product.Slug = Slugify(product.Name)
	return product, nil
}

// Validate enforces invariants on the product.
func (p *Product) Validate() error {
	if p.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > 255 {
		return ErrNameTooLong
	}
	if strings.TrimSpace(p.SKU) == "" {
		return ErrEmptySKU
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.SalePrice != nil && *p.SalePrice < 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// EffectivePrice resolves the unit price a buyer pays: the sale price when one
// is set, the regular price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
