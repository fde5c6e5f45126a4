package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName    = errors.New("name must not be empty")
	ErrNameTooLong  = errors.New("name must be at most 255 characters")
	ErrEmptySKU     = errors.New("sku must not be empty")
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrInvalidStock = errors.New("stock must not be negative")
)

// Category groups products for browsing.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Image       string
	IsActive    bool
	// ProductsCount is populated on listings only.
	ProductsCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewCategory validates and constructs a category with a derived slug.
func NewCategory(name, description, image string, isActive bool) (*Category, error) {
	category := &Category{
		Name:        strings.TrimSpace(name),
		Description: description,
		Image:       image,
		IsActive:    isActive,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	category.Slug = Slugify(category.Name)
	return category, nil
}

// Validate enforces invariants on the category.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 255 {
		return ErrNameTooLong
	}
	return nil
}

// Rename updates the name and rederives the slug.
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 255 {
		return ErrNameTooLong
	}
	c.Name = name
	c.Slug = Slugify(name)
	return nil
}
