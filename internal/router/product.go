package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/handlers"
	"github.com/shopmesh/storefront-backend/internal/middleware"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
	"github.com/shopmesh/storefront-backend/internal/services"
)

// NewProductRouter wires the catalog service. Reads are public; writes
// require a token validated against the auth service.
func NewProductRouter(db *gorm.DB, cfg *config.Config, rc *client.Client, storage *services.StorageService) *gin.Engine {
	productService := services.NewProductService(db, storage)
	productHandler := handlers.NewProductHandler(productService, storage)

	r := newEngine("product-service")

	// Locally stored images are served by the service itself outside
	// of production, where a CDN takes over.
	if cfg.Environment != "production" {
		r.Static("/uploads", cfg.Upload.Dir)
	}

	products := r.Group("/api/products")
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.GetByID)

		authed := products.Group("")
		authed.Use(middleware.RemoteAuthRequired(rc), middleware.UploadRateLimit())
		{
			authed.POST("", productHandler.Create)
			authed.PUT("/:id", productHandler.Update)
			authed.DELETE("/:id", productHandler.Delete)
		}
	}

	return r
}
