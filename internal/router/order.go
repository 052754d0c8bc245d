package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/handlers"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
	"github.com/shopmesh/storefront-backend/internal/services"
)

// NewOrderRouter wires the order service.
func NewOrderRouter(db *gorm.DB, cfg *config.Config, rc *client.Client) *gin.Engine {
	orderService := services.NewOrderService(db, rc)
	orderHandler := handlers.NewOrderHandler(orderService)

	r := newEngine("order-service")

	orders := r.Group("/api/orders")
	{
		orders.POST("", orderHandler.Create)
		orders.GET("", orderHandler.List)
		orders.GET("/:id", orderHandler.GetByID)
		orders.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
		orders.PATCH("/:id/payment", orderHandler.UpdatePaymentStatus)
		orders.PATCH("/:id/cancel", orderHandler.Cancel)
	}

	return r
}
