package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"shuttlego/internal/auth"
	"shuttlego/internal/domain"
)

const (
	userIDKey    = "userID"
	userRoleKey  = "userRole"
	userEmailKey = "userEmail"
)

// Authenticate reads a Bearer token when present and stores the identity on
// the context. Anonymous requests pass through; a bad token is rejected.
func Authenticate(jwt *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || jwt == nil {
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "authorization header must be a Bearer token")
			return
		}
		claims, err := jwt.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, claims.Role)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// RequireAuth rejects anonymous callers with 401 and the sign-in redirect
// that brings them back to the page they asked for.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(userIDKey) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"code":       "auth_required",
				"redirect":   SignInRedirect(c.Request.URL.RequestURI()),
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

// SignInRedirect builds /auth?redirect=<path>.
func SignInRedirect(returnPath string) string {
	if returnPath == "" {
		returnPath = "/"
	}
	return "/auth?redirect=" + url.QueryEscape(returnPath)
}

// Identity returns the caller as a RequestContext; empty when anonymous.
func Identity(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID: c.GetString(userIDKey),
		Email:  c.GetString(userEmailKey),
		Role:   c.GetString(userRoleKey),
	}
}

// SetIdentity is used by tests and by handlers that authenticate out of band.
func SetIdentity(c *gin.Context, rc domain.RequestContext) {
	c.Set(userIDKey, rc.UserID)
	c.Set(userRoleKey, rc.Role)
	c.Set(userEmailKey, rc.Email)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"request_id": GetRequestID(c),
	})
}
