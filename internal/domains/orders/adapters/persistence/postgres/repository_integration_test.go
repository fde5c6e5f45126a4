//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/emarket/emarket-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/application"
	"github.com/emarket/emarket-api/internal/domains/orders/application/types"
	"github.com/emarket/emarket-api/internal/domains/orders/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/ports"
	"github.com/emarket/emarket-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("emarket_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedProduct(t *testing.T, db *gorm.DB, name, sku string, price float64, stock int) *catalogdomain.Product {
	t.Helper()
	catalog := catalogpostgres.NewRepository(db)
	saved, err := catalog.SaveProduct(context.Background(), &catalogdomain.Product{
		CategoryID: 1, Name: name, Slug: catalogdomain.Slugify(name), SKU: sku,
		Price: price, Stock: stock, IsActive: true,
	})
	require.NoError(t, err)
	return saved
}

func productStock(t *testing.T, db *gorm.DB, productID int64) int {
	t.Helper()
	product, err := catalogpostgres.NewRepository(db).GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return product.Stock
}

func TestService_PlacementLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	product := seedProduct(t, db, "Laptop", "SKU-LAPTOP", 100.0, 10)
	svc := application.NewService(NewRepository(db))
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, types.PlaceOrderInput{
		UserID:          1,
		Lines:           []types.LineRequest{{ProductID: product.ID, Quantity: 3}},
		ShippingAddress: "12 Main St",
		PaymentMethod:   "card",
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, order.Subtotal)
	assert.Equal(t, 380.0, order.Total)
	assert.Equal(t, 7, productStock(t, db, product.ID))

	fetched, err := svc.GetOrder(ctx, 1, order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Lines, 1)
	assert.Equal(t, "Laptop", fetched.Lines[0].ProductName)
	require.NotNil(t, fetched.Lines[0].Product)

	_, err = svc.GetOrder(ctx, 2, order.ID)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)

	cancelled, err := svc.CancelOrder(ctx, 1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, 10, productStock(t, db, product.ID))

	require.NoError(t, svc.DeleteOrder(ctx, 1, order.ID))
	_, err = svc.GetOrder(ctx, 1, order.ID)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestService_FailedPlacementLeavesNoTrace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	plenty := seedProduct(t, db, "Laptop", "SKU-LAPTOP", 100.0, 10)
	scarce := seedProduct(t, db, "Phone", "SKU-PHONE", 50.0, 1)
	svc := application.NewService(NewRepository(db))
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, types.PlaceOrderInput{
		UserID: 1,
		Lines: []types.LineRequest{
			{ProductID: plenty.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 5},
		},
		ShippingAddress: "12 Main St",
		PaymentMethod:   "card",
	})
	var stockErr *application.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Phone", stockErr.ProductName)

	assert.Equal(t, 10, productStock(t, db, plenty.ID))
	assert.Equal(t, 1, productStock(t, db, scarce.ID))

	page, err := svc.ListOrders(ctx, 1, 1)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestService_ConcurrentPlacementsSerializeOnRowLock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	product := seedProduct(t, db, "Laptop", "SKU-LAPTOP", 100.0, 5)
	svc := application.NewService(NewRepository(db))

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), types.PlaceOrderInput{
				UserID:          int64(i + 1),
				Lines:           []types.LineRequest{{ProductID: product.ID, Quantity: 1}},
				ShippingAddress: "12 Main St",
				PaymentMethod:   "card",
			})
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var stockErr *application.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
	}
	assert.Equal(t, 5, successes)
	assert.Equal(t, 0, productStock(t, db, product.ID))
}
