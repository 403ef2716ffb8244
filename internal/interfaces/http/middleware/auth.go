// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/apparel-storefront/internal/pkg/auth"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextRole      = "role"
)

const roleAdmin = "ADMIN"

// TokenValidator turns a bearer token into claims
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

func abortUnauthorized(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// AuthMiddleware requires a valid bearer token
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			abortUnauthorized(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// AdminMiddleware ensures the authenticated user is an admin. It must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			abortUnauthorized(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		if role != roleAdmin {
			abortUnauthorized(c, http.StatusForbidden, "Admin access required")
			return
		}

		c.Next()
	}
}
