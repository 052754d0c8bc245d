package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/handlers"
	"github.com/shopmesh/storefront-backend/internal/middleware"
	"github.com/shopmesh/storefront-backend/internal/services"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

// NewAuthRouter wires the authentication service. It is the only
// service that verifies tokens locally; everyone else defers to its
// validate-token endpoint.
func NewAuthRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	authService := services.NewAuthService(db, cfg)
	authHandler := handlers.NewAuthHandler(authService)

	r := newEngine("auth-service")

	auth := r.Group("/api/auth")
	{
		// Credential endpoints carry the strict limiter. validate-token
		// does not: every authenticated request to a peer service lands
		// there, so it only gets the general limit.
		auth.POST("/register", middleware.AuthRateLimit(), authHandler.Register)
		auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
		auth.POST("/google-login", middleware.AuthRateLimit(), authHandler.GoogleLogin)
		auth.GET("/validate-token", authHandler.ValidateToken)
		auth.GET("/user", middleware.AuthRequired(), authHandler.GetCurrentUser)
		auth.GET("/users/:userId", authHandler.GetUserByID)
	}

	return r
}
