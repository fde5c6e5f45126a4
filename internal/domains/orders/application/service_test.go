package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/emarket/emarket-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
	ordersmemory "github.com/emarket/emarket-api/internal/domains/orders/adapters/memory"
	"github.com/emarket/emarket-api/internal/domains/orders/application/types"
	"github.com/emarket/emarket-api/internal/domains/orders/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/ports"
)

func salePrice(v float64) *float64 { return &v }

type testEnv struct {
	catalog *catalogmemory.Repository
	service *Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	catalog := catalogmemory.NewRepository()
	return testEnv{
		catalog: catalog,
		service: NewService(ordersmemory.NewStore(catalog)),
	}
}

func (e testEnv) seedProduct(t *testing.T, name, sku string, price float64, sale *float64, stock int) *catalogdomain.Product {
	t.Helper()
	saved, err := e.catalog.SaveProduct(context.Background(), &catalogdomain.Product{
		CategoryID: 1,
		Name:       name,
		SKU:        sku,
		Price:      price,
		SalePrice:  sale,
		Stock:      stock,
		IsActive:   true,
	})
	require.NoError(t, err)
	return saved
}

func (e testEnv) stock(t *testing.T, productID int64) int {
	t.Helper()
	product, err := e.catalog.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return product.Stock
}

func placement(userID int64, lines ...types.LineRequest) types.PlaceOrderInput {
	return types.PlaceOrderInput{
		UserID:          userID,
		Lines:           lines,
		ShippingAddress: "12 Main St",
		PaymentMethod:   "card",
	}
}

func TestPlaceOrder_ReservesStockAndDerivesTotals(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, salePrice(90.0), 10)
	phone := env.seedProduct(t, "Phone", "SKU-PHONE", 50.0, nil, 5)

	order, err := env.service.PlaceOrder(context.Background(), placement(1,
		types.LineRequest{ProductID: laptop.ID, Quantity: 3},
		types.LineRequest{ProductID: phone.ID, Quantity: 1},
	))
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.NotEmpty(t, order.Number)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, domain.PaymentUnpaid, order.PaymentStatus)
	assert.Equal(t, 320.0, order.Subtotal)
	assert.Equal(t, 32.0, order.Tax)
	assert.Equal(t, 50.0, order.Shipping)
	assert.Equal(t, 402.0, order.Total)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 90.0, order.Lines[0].Price)
	assert.Equal(t, "Laptop", order.Lines[0].ProductName)

	assert.Equal(t, 7, env.stock(t, laptop.ID))
	assert.Equal(t, 4, env.stock(t, phone.ID))
}

func TestPlaceOrder_InsufficientStockNamesTheProduct(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, nil, 2)

	_, err := env.service.PlaceOrder(context.Background(), placement(1,
		types.LineRequest{ProductID: laptop.ID, Quantity: 3},
	))
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Laptop", stockErr.ProductName)
	assert.Equal(t, "Insufficient stock for product: Laptop", stockErr.Error())

	assert.Equal(t, 2, env.stock(t, laptop.ID))
}

func TestPlaceOrder_RollsBackEveryLineOnFailure(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, nil, 10)
	phone := env.seedProduct(t, "Phone", "SKU-PHONE", 50.0, nil, 1)

	_, err := env.service.PlaceOrder(context.Background(), placement(1,
		types.LineRequest{ProductID: laptop.ID, Quantity: 2},
		types.LineRequest{ProductID: phone.ID, Quantity: 5},
	))
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// The first line's reservation must not leak out of the failed placement.
	assert.Equal(t, 10, env.stock(t, laptop.ID))
	assert.Equal(t, 1, env.stock(t, phone.ID))

	page, err := env.service.ListOrders(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.PlaceOrder(context.Background(), placement(1,
		types.LineRequest{ProductID: 99, Quantity: 1},
	))
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestPlaceOrder_ValidatesBeforeWriting(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, nil, 10)

	cases := []struct {
		name  string
		input types.PlaceOrderInput
	}{
		{"no lines", placement(1)},
		{"zero quantity", placement(1, types.LineRequest{ProductID: laptop.ID, Quantity: 0})},
		{"blank address", types.PlaceOrderInput{
			UserID:          1,
			Lines:           []types.LineRequest{{ProductID: laptop.ID, Quantity: 1}},
			ShippingAddress: "   ",
			PaymentMethod:   "card",
		}},
		{"blank payment method", types.PlaceOrderInput{
			UserID:          1,
			Lines:           []types.LineRequest{{ProductID: laptop.ID, Quantity: 1}},
			ShippingAddress: "12 Main St",
			PaymentMethod:   "",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.PlaceOrder(context.Background(), tc.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Equal(t, 10, env.stock(t, laptop.ID))
}

func TestCancelOrder_RestoresStockOnce(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, nil, 10)

	order, err := env.service.PlaceOrder(context.Background(), placement(1,
		types.LineRequest{ProductID: laptop.ID, Quantity: 4},
	))
	require.NoError(t, err)
	require.Equal(t, 6, env.stock(t, laptop.ID))

	cancelled, err := env.service.CancelOrder(context.Background(), 1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, 10, env.stock(t, laptop.ID))

	_, err = env.service.CancelOrder(context.Background(), 1, order.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 10, env.stock(t, laptop.ID))
}

func TestCancelOrder_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, nil, 10)

	order, err := env.service.PlaceOrder(context.Background(), placement(1,
		types.LineRequest{ProductID: laptop.ID, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = env.service.CancelOrder(context.Background(), 2, order.ID)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestDeleteOrder_RequiresCancelledStatus(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, nil, 10)

	order, err := env.service.PlaceOrder(context.Background(), placement(1,
		types.LineRequest{ProductID: laptop.ID, Quantity: 1},
	))
	require.NoError(t, err)

	err = env.service.DeleteOrder(context.Background(), 1, order.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = env.service.CancelOrder(context.Background(), 1, order.ID)
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteOrder(context.Background(), 1, order.ID))
	_, err = env.service.GetOrder(context.Background(), 1, order.ID)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestGetOrder_OtherUsersOrderIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, nil, 10)

	order, err := env.service.PlaceOrder(context.Background(), placement(1,
		types.LineRequest{ProductID: laptop.ID, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = env.service.GetOrder(context.Background(), 2, order.ID)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestListOrders_PaginatesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, nil, 100)

	var last *domain.Order
	for i := 0; i < ports.PageSize+1; i++ {
		order, err := env.service.PlaceOrder(context.Background(), placement(1,
			types.LineRequest{ProductID: laptop.ID, Quantity: 1},
		))
		require.NoError(t, err)
		last = order
	}

	page, err := env.service.ListOrders(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(ports.PageSize+1), page.Total)
	require.Len(t, page.Items, ports.PageSize)
	assert.Equal(t, last.ID, page.Items[0].ID)

	second, err := env.service.ListOrders(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, second.Items, 1)
}

func TestPlaceOrder_ConcurrentPlacementsNeverOversell(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", "SKU-LAPTOP", 100.0, nil, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.PlaceOrder(context.Background(), placement(int64(i+1),
				types.LineRequest{ProductID: laptop.ID, Quantity: 1},
			))
		}(i)
	}
	wg.Wait()

	var successes, shortages int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		shortages++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, shortages)
	assert.Equal(t, 0, env.stock(t, laptop.ID))
}
