package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/storefront-backend/internal/middleware"
)

// newEngine builds a gin engine with the middleware every service
// shares. Per-service routes are layered on by the New*Router
// constructors.
func newEngine(serviceName string) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(serviceName))
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	return r
}
