package middleware

import (
	"net/http"

	"anoa.com/vidspace/internal/auth"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	strategy auth.Strategy
}

func NewAuthMiddleware(strategy auth.Strategy) *AuthMiddleware {
	return &AuthMiddleware{strategy: strategy}
}

// OptionalAuth sets user_id when the caller can be identified and lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := m.strategy.ResolveIdentity(c); ok {
			c.Set(response.UserIDKey, userID)
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous callers with 401. It reuses an identity
// OptionalAuth already resolved.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(response.UserIDKey) != "" {
			c.Next()
			return
		}
		userID, ok := m.strategy.ResolveIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(response.UserIDKey, userID)
		c.Next()
	}
}
