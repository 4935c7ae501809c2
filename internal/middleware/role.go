package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles rejects authenticated requests whose token role is not
// in the allowed set. Must run after AuthMiddleware.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	allowedSet := map[string]bool{}
	for _, r := range allowed {
		allowedSet[strings.ToLower(r)] = true
	}

	return func(c *gin.Context) {
		v, exists := c.Get(ContextUserRole)
		role, _ := v.(string)
		if !exists || !allowedSet[strings.ToLower(role)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient_role"})
			return
		}
		c.Next()
	}
}
