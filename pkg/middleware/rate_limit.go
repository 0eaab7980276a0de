package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/mobyapp/mobyapp/backend/go-services/pkg/metrics"
	"golang.org/x/time/rate"
)

// per-key limiter store (simple in-memory token-bucket)
var limiterStore sync.Map // map[string]*limiterEntry

type limiterEntry struct {
	rps   float64
	burst int
	lim   *rate.Limiter
}

// getLimiter returns (and lazily creates) a token-bucket limiter for the given
// key. A cached limiter is replaced when the configured rps/burst changed, so
// reconfigured limits apply to already-seen clients.
func getLimiter(key string, rps float64, burst int) *rate.Limiter {
	if v, ok := limiterStore.Load(key); ok {
		e := v.(*limiterEntry)
		if e.rps == rps && e.burst == burst {
			return e.lim
		}
	}
	e := &limiterEntry{rps: rps, burst: burst, lim: rate.NewLimiter(rate.Limit(rps), burst)}
	limiterStore.Store(key, e)
	return e.lim
}

// RateLimitMiddleware returns a Gin middleware enforcing a token-bucket limit
// per client IP. This service carries no authentication, so the IP is the only
// available key. rps = allowed events per second, burst = maximum tokens in bucket.
//
// Airtable itself allows 5 requests/second per base; keeping the inbound rate
// modest also protects the upstream quota.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		key := "ip:" + ip

		lim := getLimiter(key, rps, burst)
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
