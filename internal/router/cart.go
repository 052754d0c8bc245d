package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/handlers"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
	"github.com/shopmesh/storefront-backend/internal/services"
)

// NewCartRouter wires the cart service. Requests carry the user id in
// the body; the frontend gateway is trusted to have authenticated them.
func NewCartRouter(db *gorm.DB, cfg *config.Config, rc *client.Client) *gin.Engine {
	cartService := services.NewCartService(db, rc)
	cartHandler := handlers.NewCartHandler(cartService)

	r := newEngine("cart-service")

	carts := r.Group("/api/carts")
	{
		carts.POST("/get", cartHandler.GetCart)
		carts.POST("/items", cartHandler.AddItem)
		carts.PUT("/items/:itemId", cartHandler.UpdateItem)
		carts.POST("/items/:itemId/remove", cartHandler.RemoveItem)
		carts.POST("/clear", cartHandler.Clear)
	}

	return r
}
