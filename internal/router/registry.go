package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/middleware"
	"github.com/shopmesh/storefront-backend/internal/registry"
)

// NewRegistryRouter wires the service registry. It carries no database
// and its endpoints use plain JSON rather than the service envelope,
// since callers include the raw proxy relay.
func NewRegistryRouter(cfg *config.Config) *gin.Engine {
	store := registry.NewSeededStore(cfg.Services)
	handler := registry.NewHandler(store, time.Duration(cfg.Registry.ClientTimeout)*time.Second)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger("service-registry"))
	r.Use(middleware.CORS())

	r.GET("/health", handler.Health)
	r.GET("/services", handler.ListServices)
	r.GET("/service/:name", handler.GetService)
	r.POST("/register", handler.Register)
	r.POST("/proxy/:service/:endpoint", handler.Proxy)

	return r
}
