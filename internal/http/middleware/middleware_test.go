package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuttlego/internal/auth"
	"shuttlego/internal/clock"
	"shuttlego/internal/domain"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, Identity(c))
	})...)
	return r
}

func get(r *gin.Engine, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignInRedirect(t *testing.T) {
	assert.Equal(t, "/auth?redirect=%2Fbook%3Froute%3Dr1", SignInRedirect("/book?route=r1"))
	assert.Equal(t, "/auth?redirect=%2F", SignInRedirect(""))
}

func TestAuthenticate(t *testing.T) {
	jwt := auth.NewJWTService("secret", time.Hour)
	r := newEngine(Authenticate(jwt))

	w := get(r)
	require.Equal(t, http.StatusOK, w.Code, "anonymous passes through")

	tok, err := jwt.GenerateToken("u1", "u1@st.ug.edu.gh", domain.RoleDriver)
	require.NoError(t, err)
	w = get(r, "Authorization", "Bearer "+tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"u1"`)
	assert.Contains(t, w.Body.String(), `"role":"driver"`)

	assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Bearer nope").Code)

	other := auth.NewJWTService("other-secret", time.Hour)
	forged, err := other.GenerateToken("u1", "u1@st.ug.edu.gh", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Bearer "+forged).Code)
}

func TestRequireRoles(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				SetIdentity(c, domain.RequestContext{UserID: "u1", Role: role})
			}
		}
	}

	cases := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{domain.RoleStudent, http.StatusForbidden},
		{domain.RoleDriver, http.StatusOK},
		{"ADMIN", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			r := newEngine(withRole(tc.role), RequireRoles(domain.RoleDriver, domain.RoleAdmin))
			assert.Equal(t, tc.want, get(r).Code)
		})
	}
}

func TestRateLimiter_PerKeyAndRefill(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(2, clk)
	r := newEngine(rl.Handler())

	assert.Equal(t, http.StatusOK, get(r).Code)
	assert.Equal(t, http.StatusOK, get(r).Code)
	w := get(r)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))

	clk.Advance(30 * time.Second)
	assert.Equal(t, http.StatusOK, get(r).Code)
}

func TestRateLimiter_DisabledAndCleanup(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	off := NewRateLimiter(0, clk)
	r := newEngine(off.Handler())
	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, get(r).Code)
	}

	rl := NewRateLimiter(5, clk)
	rl.getLimiter("ip:1")
	rl.getLimiter("ip:2")
	clk.Advance(limiterIdleTTL / 2)
	rl.getLimiter("ip:2")
	clk.Advance(limiterIdleTTL/2 + time.Second)
	rl.cleanupOnce()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.NotContains(t, rl.limiters, "ip:1")
	assert.Contains(t, rl.limiters, "ip:2")

	rl.Stop()
	rl.Stop()
}
