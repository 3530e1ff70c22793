package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles allows the request only when the caller's role is one of allowedRoles.
//
//	r.PUT("/shuttles/:id/location", RequireRoles("driver", "admin"), handler)
//
// It expects Authenticate to have set "userRole" on the context.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized: no role on request",
				"request_id": GetRequestID(c),
			})
			return
		}

		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden: role not allowed",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}
