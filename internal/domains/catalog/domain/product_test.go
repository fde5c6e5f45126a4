package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_Validation(t *testing.T) {
	sale := 89.99

	product, err := NewProduct(1, "  Gaming Laptop ", "fast", "SKU-1", 99.99, &sale, 5)
	require.NoError(t, err)
	assert.Equal(t, "Gaming Laptop", product.Name)
	assert.Equal(t, "gaming-laptop", product.Slug)
	assert.True(t, product.IsActive)

	_, err = NewProduct(0, "Laptop", "", "SKU-1", 10, nil, 1)
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = NewProduct(1, " ", "", "SKU-1", 10, nil, 1)
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = NewProduct(1, "Laptop", "", " ", 10, nil, 1)
	assert.ErrorIs(t, err, ErrEmptySKU)
	_, err = NewProduct(1, "Laptop", "", "SKU-1", -1, nil, 1)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = NewProduct(1, "Laptop", "", "SKU-1", 10, nil, -1)
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestEffectivePrice(t *testing.T) {
	sale := 89.99
	withSale := Product{Price: 99.99, SalePrice: &sale}
	assert.Equal(t, 89.99, withSale.EffectivePrice())

	noSale := Product{Price: 99.99}
	assert.Equal(t, 99.99, noSale.EffectivePrice())
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Home & Garden":       "home-garden",
		"iPhone 15 Pro":       "iphone-15-pro",
		"  Trailing  Spaces ": "trailing-spaces",
		"Ünicode":             "nicode",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}
