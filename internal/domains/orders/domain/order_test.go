package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
)

func salePrice(v float64) *float64 { return &v }

func TestNewLine_FreezesEffectivePrice(t *testing.T) {
	product := &catalogdomain.Product{ID: 7, Name: "Laptop", Price: 100.0, SalePrice: salePrice(90.0), Stock: 10}

	line, err := NewLine(product, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), line.ProductID)
	assert.Equal(t, "Laptop", line.ProductName)
	assert.Equal(t, 90.0, line.Price)
	assert.Equal(t, 270.0, line.Total)
}

func TestNewLine_FallsBackToRegularPrice(t *testing.T) {
	product := &catalogdomain.Product{ID: 7, Name: "Laptop", Price: 100.0, Stock: 10}

	line, err := NewLine(product, 2)
	require.NoError(t, err)
	assert.Equal(t, 100.0, line.Price)
	assert.Equal(t, 200.0, line.Total)
}

func TestNewLine_RejectsNonPositiveQuantity(t *testing.T) {
	product := &catalogdomain.Product{ID: 7, Name: "Laptop", Price: 100.0}

	_, err := NewLine(product, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestNewOrder_DerivesTotals(t *testing.T) {
	product := &catalogdomain.Product{ID: 7, Name: "Laptop", Price: 100.0, SalePrice: salePrice(90.0)}
	line, err := NewLine(product, 3)
	require.NoError(t, err)

	order, err := NewOrder(1, "ord-1", []Line{line}, "12 Main St", "card", "")
	require.NoError(t, err)
	assert.Equal(t, 270.0, order.Subtotal)
	assert.Equal(t, 27.0, order.Tax)
	assert.Equal(t, 50.0, order.Shipping)
	assert.Equal(t, 347.0, order.Total)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PaymentUnpaid, order.PaymentStatus)
}

func TestNewOrder_Rejections(t *testing.T) {
	product := &catalogdomain.Product{ID: 7, Name: "Laptop", Price: 100.0}
	line, err := NewLine(product, 1)
	require.NoError(t, err)

	cases := []struct {
		name    string
		userID  int64
		lines   []Line
		address string
		payment string
		want    error
	}{
		{"no lines", 1, nil, "12 Main St", "card", ErrNoLines},
		{"empty address", 1, []Line{line}, "   ", "card", ErrEmptyShippingAddress},
		{"empty payment", 1, []Line{line}, "12 Main St", "", ErrEmptyPaymentMethod},
		{"invalid user", 0, []Line{line}, "12 Main St", "card", ErrInvalidUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder(tc.userID, "ord-1", tc.lines, tc.address, tc.payment, "")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOrder_CancelTransitions(t *testing.T) {
	product := &catalogdomain.Product{ID: 7, Name: "Laptop", Price: 100.0}
	line, err := NewLine(product, 1)
	require.NoError(t, err)
	order, err := NewOrder(1, "ord-1", []Line{line}, "12 Main St", "card", "")
	require.NoError(t, err)

	require.NoError(t, order.Cancel())
	assert.Equal(t, StatusCancelled, order.Status)
	assert.ErrorIs(t, order.Cancel(), ErrNotCancellable)

	order.Status = StatusCompleted
	assert.ErrorIs(t, order.Cancel(), ErrNotCancellable)
}

func TestOrder_EnsureDeletable(t *testing.T) {
	product := &catalogdomain.Product{ID: 7, Name: "Laptop", Price: 100.0}
	line, err := NewLine(product, 1)
	require.NoError(t, err)
	order, err := NewOrder(1, "ord-1", []Line{line}, "12 Main St", "card", "")
	require.NoError(t, err)

	assert.ErrorIs(t, order.EnsureDeletable(), ErrNotDeletable)
	require.NoError(t, order.Cancel())
	assert.NoError(t, order.EnsureDeletable())
}
