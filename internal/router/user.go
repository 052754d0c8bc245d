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

// NewUserRouter wires the profile service. Profile routes authenticate
// against the auth service through the registry.
func NewUserRouter(db *gorm.DB, cfg *config.Config, rc *client.Client) *gin.Engine {
	userService := services.NewUserService(db, rc)
	userHandler := handlers.NewUserHandler(userService)

	r := newEngine("user-service")

	users := r.Group("/api/users")
	{
		users.GET("/profile", middleware.RemoteAuthRequired(rc), userHandler.GetProfile)
		users.PUT("/profile", middleware.RemoteAuthRequired(rc), userHandler.UpdateProfile)
		users.GET("/:userId", userHandler.GetProfileByID)
	}

	return r
}
