package middleware

import (
	"net/http"
	"sync"
	"time"

	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type keyedLimiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	entries map[string]*limiterEntry
	swept   time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newKeyedLimiter(rps float64, burst int) *keyedLimiter {
	return &keyedLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		entries: make(map[string]*limiterEntry),
		swept:   time.Now(),
	}
}

func (k *keyedLimiter) allow(key string, now time.Time) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if now.Sub(k.swept) > limiterIdleTTL {
		for id, e := range k.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(k.entries, id)
			}
		}
		k.swept = now
	}

	e, ok := k.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(k.rps, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func rateLimit(rps float64, burst int, keyFn func(*gin.Context) string) gin.HandlerFunc {
	limiter := newKeyedLimiter(rps, burst)
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}
		if !limiter.allow(key, time.Now()) {
			response.Abort(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many requests", nil)
			return
		}
		c.Next()
	}
}

// RateLimitByIP allows rps requests per second per client IP with the given
// burst.
func RateLimitByIP(rps float64, burst int) gin.HandlerFunc {
	return rateLimit(rps, burst, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByCart limits per cart session. It must run after CartSession.
func RateLimitByCart(rps float64, burst int) gin.HandlerFunc {
	return rateLimit(rps, burst, func(c *gin.Context) string { return c.GetString(CartIDKey) })
}
