package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cataloghttp "github.com/emarket/emarket-api/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/emarket/emarket-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/emarket/emarket-api/internal/domains/catalog/application"
	ordershttp "github.com/emarket/emarket-api/internal/domains/orders/adapters/http"
	ordersmemory "github.com/emarket/emarket-api/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/emarket/emarket-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/emarket/emarket-api/internal/domains/orders/application"
	usershttp "github.com/emarket/emarket-api/internal/domains/users/adapters/http"
	usersmemory "github.com/emarket/emarket-api/internal/domains/users/adapters/memory"
	"github.com/emarket/emarket-api/internal/shared/respond"
)

const routerTestToken = "router-test-token"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogRepo := catalogmemory.NewRepository()
	catalogService := catalogapp.NewService(catalogRepo)
	orderService := ordersapp.NewService(ordersmemory.NewStore(catalogRepo))
	users := usersmemory.NewRepository()
	sessions := usersmemory.NewSessionStore(0)
	require.NoError(t, sessions.Save(context.Background(), routerTestToken, 1))

	return NewRouter(
		"emarket-api-test",
		cataloghttp.NewAPI(catalogService),
		ordershttp.NewAPI(orderService, ordersworkflows.NewInlineOrderPlacement(orderService)),
		usershttp.NewAPI(users),
		sessions,
	)
}

func routerDo(t *testing.T, router *gin.Engine, method, path, body string, authorized bool) (*httptest.ResponseRecorder, respond.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+routerTestToken)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var envelope respond.Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return recorder, envelope
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter(t)

	recorder, envelope := routerDo(t, router, http.MethodGet, "/api/health", "", false)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, envelope.Success)
}

func TestRouter_CatalogWritesRequireSession(t *testing.T) {
	router := newTestRouter(t)

	recorder, envelope := routerDo(t, router, http.MethodPost, "/api/categories", `{"name": "Electronics"}`, false)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Unauthenticated.", envelope.Message)

	recorder, envelope = routerDo(t, router, http.MethodPost, "/api/categories", `{"name": "Electronics"}`, true)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.True(t, envelope.Success)
}

func TestRouter_CatalogReadsRequireSession(t *testing.T) {
	router := newTestRouter(t)

	recorder, envelope := routerDo(t, router, http.MethodGet, "/api/products", "", false)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, envelope.Success)

	recorder, _ = routerDo(t, router, http.MethodGet, "/api/products", "", true)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
