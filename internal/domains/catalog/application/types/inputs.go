// Package types holds the already-validated inputs the catalog service
// accepts. The HTTP layer binds and validates raw payloads into these shapes
// before they reach the application core.
package types

// CategoryInput creates a category.
type CategoryInput struct {
	Name        string
	Description string
	Image       string
	IsActive    *bool
}

// CategoryUpdate partially updates a category; nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Image       *string
	IsActive    *bool
}

// ProductInput creates a product.
type ProductInput struct {
	CategoryID  int64
	Name        string
	Description string
	Price       float64
	SalePrice   *float64
	SKU         string
	Stock       int
	Image       string
	Images      []string
	IsFeatured  *bool
	IsActive    *bool
}

// ProductUpdate partially updates a product; nil fields are left untouched.
type ProductUpdate struct {
	CategoryID  *int64
	Name        *string
	Description *string
	Price       *float64
	SalePrice   *float64
	SKU         *string
	Stock       *int
	Image       *string
	Images      []string
	IsFeatured  *bool
	IsActive    *bool
}
