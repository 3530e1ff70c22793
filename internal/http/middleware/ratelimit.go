package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shuttlego/internal/clock"
)

const limiterIdleTTL = 10 * time.Minute

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// RateLimiter gives every signed-in user (or client IP when anonymous) its
// own token bucket. Used on booking commit so one rider cannot drain a shuttle.
type RateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rateLimitClient
	limit    rate.Limit
	burst    int
	clock    clock.Clock

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows perMinute requests per key per minute. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.RealClock{}
	}
	limit := rate.Inf
	burst := 1
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
		burst = perMinute
	}
	return &RateLimiter{
		limiters: make(map[string]*rateLimitClient),
		limit:    limit,
		burst:    burst,
		clock:    clk,
		stop:     make(chan struct{}),
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.clock.Now().UnixNano()

	rl.mu.RLock()
	if client, ok := rl.limiters[key]; ok {
		client.lastSeen.Store(now)
		rl.mu.RUnlock()
		return client.limiter
	}
	rl.mu.RUnlock()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if client, ok := rl.limiters[key]; ok {
		client.lastSeen.Store(now)
		return client.limiter
	}
	client := &rateLimitClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
	client.lastSeen.Store(now)
	rl.limiters[key] = client
	return client.limiter
}

// Handler is the gin middleware.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(userIDKey)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !rl.getLimiter(key).AllowN(rl.clock.Now(), 1) {
			retry := time.Second
			if rl.limit > 0 && rl.limit != rate.Inf {
				retry = time.Duration(float64(time.Second) / float64(rl.limit))
			}
			c.Header("Retry-After", strconv.Itoa(max(1, int(retry.Seconds()))))
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many booking attempts, please wait a moment",
				"code":       "rate_limited",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

// cleanupOnce evicts limiters idle for longer than limiterIdleTTL.
func (rl *RateLimiter) cleanupOnce() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.clock.Now()
	for key, client := range rl.limiters {
		if now.Sub(time.Unix(0, client.lastSeen.Load())) > limiterIdleTTL {
			delete(rl.limiters, key)
		}
	}
}

// RunCleanup evicts idle limiters every interval until Stop is called.
func (rl *RateLimiter) RunCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanupOnce()
		case <-rl.stop:
			return
		}
	}
}

// Stop is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}
