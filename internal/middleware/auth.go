package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/shopmesh/storefront-backend/internal/registry/client"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

// AuthRequired validates the bearer token locally against the shared signing
// secret. Only the auth service uses this; everything else goes through
// RemoteAuthRequired.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := utils.BearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c, "Authentication required. No token provided.")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// RemoteAuthRequired delegates token validation to the auth service via a
// live registry lookup and HTTP call per request. There is no local
// verification or caching, so every authenticated request costs one extra
// network round trip.
func RemoteAuthRequired(rc *client.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := utils.BearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c, "Authentication required. No token provided.")
			c.Abort()
			return
		}

		validation, err := rc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication failed")
			c.Abort()
			return
		}

		c.Set("user_id", validation.UserID)
		c.Set("username", validation.Username)
		c.Set("user_email", validation.Email)
		c.Set("user_role", validation.Role)
		c.Set("bearer_token", token)
		c.Next()
	}
}
