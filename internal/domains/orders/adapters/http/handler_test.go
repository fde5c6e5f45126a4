package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/emarket/emarket-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
	ordersmemory "github.com/emarket/emarket-api/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/emarket/emarket-api/internal/domains/orders/adapters/workflows"
	"github.com/emarket/emarket-api/internal/domains/orders/application"
	usershttp "github.com/emarket/emarket-api/internal/domains/users/adapters/http"
	usersmemory "github.com/emarket/emarket-api/internal/domains/users/adapters/memory"
	"github.com/emarket/emarket-api/internal/shared/respond"
)

const testToken = "test-token"

type testServer struct {
	router  *gin.Engine
	catalog *catalogmemory.Repository
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := catalogmemory.NewRepository()
	service := application.NewService(ordersmemory.NewStore(catalog))
	sessions := usersmemory.NewSessionStore(0)
	require.NoError(t, sessions.Save(context.Background(), testToken, 1))

	api := NewAPI(service, ordersworkflows.NewInlineOrderPlacement(service))
	router := gin.New()
	group := router.Group("/api", usershttp.RequireSession(sessions))
	api.Register(group)
	return testServer{router: router, catalog: catalog}
}

func (s testServer) seedProduct(t *testing.T, name, sku string, price float64, stock int) *catalogdomain.Product {
	t.Helper()
	saved, err := s.catalog.SaveProduct(context.Background(), &catalogdomain.Product{
		CategoryID: 1, Name: name, SKU: sku, Price: price, Stock: stock, IsActive: true,
	})
	require.NoError(t, err)
	return saved
}

func (s testServer) do(t *testing.T, method, path, body string, authorized bool) (*httptest.ResponseRecorder, respond.Envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)

	var envelope respond.Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return recorder, envelope
}

func placeBody(productID int64, quantity int) string {
	return fmt.Sprintf(`{
		"lines": [{"product_id": %d, "quantity": %d}],
		"shipping_address": "12 Main St",
		"payment_method": "card"
	}`, productID, quantity)
}

func TestPlaceOrder_RequiresSession(t *testing.T) {
	server := newTestServer(t)
	product := server.seedProduct(t, "Laptop", "SKU-1", 100, 10)

	recorder, envelope := server.do(t, http.MethodPost, "/api/orders", placeBody(product.ID, 1), false)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, envelope.Success)
}

func TestPlaceOrder_Returns201WithEnvelope(t *testing.T) {
	server := newTestServer(t)
	product := server.seedProduct(t, "Laptop", "SKU-1", 100, 10)

	recorder, envelope := server.do(t, http.MethodPost, "/api/orders", placeBody(product.ID, 2), true)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Order placed successfully", envelope.Message)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["number"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "unpaid", data["payment_status"])
	assert.Equal(t, 200.0, data["subtotal"])
	assert.Equal(t, 20.0, data["tax"])
	assert.Equal(t, 50.0, data["shipping"])
	assert.Equal(t, 270.0, data["total"])
}

func TestPlaceOrder_InsufficientStockIs400(t *testing.T) {
	server := newTestServer(t)
	product := server.seedProduct(t, "Laptop", "SKU-1", 100, 1)

	recorder, envelope := server.do(t, http.MethodPost, "/api/orders", placeBody(product.ID, 5), true)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Insufficient stock for product: Laptop", envelope.Message)
}

func TestPlaceOrder_UnknownProductIs404(t *testing.T) {
	server := newTestServer(t)

	recorder, envelope := server.do(t, http.MethodPost, "/api/orders", placeBody(99, 1), true)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.False(t, envelope.Success)
}

func TestPlaceOrder_MalformedPayloadIs400(t *testing.T) {
	server := newTestServer(t)

	recorder, envelope := server.do(t, http.MethodPost, "/api/orders", `{"lines": []}`, true)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, envelope.Success)
}

func TestUpdateOrder_OnlyCancellationIsAccepted(t *testing.T) {
	server := newTestServer(t)
	product := server.seedProduct(t, "Laptop", "SKU-1", 100, 10)

	_, placed := server.do(t, http.MethodPost, "/api/orders", placeBody(product.ID, 1), true)
	data := placed.Data.(map[string]any)
	orderID := int64(data["id"].(float64))

	recorder, envelope := server.do(t, http.MethodPatch,
		fmt.Sprintf("/api/orders/%d", orderID), `{"status": "completed"}`, true)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, envelope.Success)

	recorder, envelope = server.do(t, http.MethodPatch,
		fmt.Sprintf("/api/orders/%d", orderID), `{"status": "cancelled"}`, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Order cancelled successfully", envelope.Message)
	cancelled := envelope.Data.(map[string]any)
	assert.Equal(t, "cancelled", cancelled["status"])
}

func TestDeleteOrder_PendingIs400CancelledIs200(t *testing.T) {
	server := newTestServer(t)
	product := server.seedProduct(t, "Laptop", "SKU-1", 100, 10)

	_, placed := server.do(t, http.MethodPost, "/api/orders", placeBody(product.ID, 1), true)
	data := placed.Data.(map[string]any)
	path := fmt.Sprintf("/api/orders/%v", data["id"])

	recorder, _ := server.do(t, http.MethodDelete, path, "", true)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	server.do(t, http.MethodPatch, path, `{"status": "cancelled"}`, true)
	recorder, envelope := server.do(t, http.MethodDelete, path, "", true)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Order deleted successfully", envelope.Message)

	recorder, _ = server.do(t, http.MethodGet, path, "", true)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListOrders_ReturnsPage(t *testing.T) {
	server := newTestServer(t)
	product := server.seedProduct(t, "Laptop", "SKU-1", 100, 10)
	server.do(t, http.MethodPost, "/api/orders", placeBody(product.ID, 1), true)

	recorder, envelope := server.do(t, http.MethodGet, "/api/orders", "", true)
	require.Equal(t, http.StatusOK, recorder.Code)
	page, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.0, page["total"])
	assert.Equal(t, 15.0, page["per_page"])
	items := page["items"].([]any)
	require.Len(t, items, 1)
}
