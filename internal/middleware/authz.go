package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleLookup resolves a user's role. Roles live in the application database
// rather than in token claims, so promotions take effect immediately.
type RoleLookup interface {
	RoleByID(ctx context.Context, userID string) (string, error)
}

// LoadRole resolves the caller's role into the context without restricting
// access. Banned accounts resolve to no role and are rejected here.
func LoadRole(lookup RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		role, err := lookup.RoleByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}
		c.Set("role", role)
		c.Next()
	}
}

// RequireRoles loads the caller's role and rejects the request unless it is in
// the allowed set. Must run after AuthMiddleware. The resolved role is stored
// in the context under "role".
func RequireRoles(lookup RoleLookup, allowed ...string) gin.HandlerFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		role, err := lookup.RoleByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		if _, ok := set[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Set("role", role)
		c.Next()
	}
}
