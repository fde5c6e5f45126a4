package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cataloghttp "github.com/emarket/emarket-api/internal/domains/catalog/adapters/http"
	ordershttp "github.com/emarket/emarket-api/internal/domains/orders/adapters/http"
	usershttp "github.com/emarket/emarket-api/internal/domains/users/adapters/http"
	userports "github.com/emarket/emarket-api/internal/domains/users/ports"
	"github.com/emarket/emarket-api/internal/shared/respond"
)

// NewRouter assembles the HTTP surface. Only the health probe is public;
// catalog, order, and profile routes all require a resolved session.
func NewRouter(serviceName string, catalogAPI cataloghttp.API, ordersAPI ordershttp.API, usersAPI usershttp.API, sessions userports.SessionStore) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	root := router.Group("/api")
	root.GET("/health", func(c *gin.Context) {
		respond.OKMessage(c, "ok", nil)
	})

	authorized := root.Group("", usershttp.RequireSession(sessions))
	catalogAPI.Register(authorized)
	ordersAPI.Register(authorized)
	usersAPI.Register(authorized)

	router.NoRoute(func(c *gin.Context) {
		respond.Fail(c, http.StatusNotFound, "Not found.")
	})
	return router
}
