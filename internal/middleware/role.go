package middleware

import (
	"net/http" // HTTP status codes

	"voucher_market/internal/domain"     // Role and status enums
	"voucher_market/internal/repository" // Identity lookup

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRoles re-reads the caller's identity on each request and lets it
// through only when it is active and holds one of roles. The role stored
// in the context is replaced by the persisted one.
func RequireRoles(store repository.Store, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(UserIDKey) // Set by JWTAuthMiddleware
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := store.FindIdentity(c.Request.Context(), userID.(uint))
		if err != nil || id.Status != domain.StatusActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		if len(roles) > 0 && !hasRole(roles, id.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Set(RoleKey, id.Role)
		c.Next()
	}
}

func hasRole(roles []domain.Role, r domain.Role) bool {
	for _, want := range roles {
		if want == r {
			return true
		}
	}
	return false
}
