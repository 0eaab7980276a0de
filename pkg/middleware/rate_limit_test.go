package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mobyapp/mobyapp/backend/go-services/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// sendFrom issues a request with a fixed RemoteAddr. Each test uses its own
// address so the package-level limiter store cannot leak state between tests.
func sendFrom(r *gin.Engine, path, remoteAddr string) int {
	req := httptest.NewRequest("GET", path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2)) // generous rate
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))

	// two quick requests should pass
	require.Equal(t, http.StatusOK, sendFrom(r, "/ok", "10.9.8.1:1111"))
	require.Equal(t, http.StatusOK, sendFrom(r, "/ok", "10.9.8.1:1111"))

	// verify metrics incremented for memory limiter
	after := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	require.Equal(t, 2.0, after-before)
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	// burst of one forces a rejection; at 2 rps a token replenishes in 500ms
	r.Use(RateLimitMiddleware(2, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// first request -> allowed
	require.Equal(t, http.StatusOK, sendFrom(r, "/limited", "10.9.8.2:2222"))

	// immediate second request -> should be rate-limited
	require.Equal(t, http.StatusTooManyRequests, sendFrom(r, "/limited", "10.9.8.2:2222"))

	// wait past the 500ms replenish interval and it should be allowed again
	time.Sleep(600 * time.Millisecond)
	require.Equal(t, http.StatusOK, sendFrom(r, "/limited", "10.9.8.2:2222"))
}

func TestRateLimitMiddleware_ReconfiguredLimitsApply(t *testing.T) {
	addr := "10.9.8.3:3333"

	// exhaust a tight limiter for the client
	strict := gin.New()
	strict.Use(RateLimitMiddleware(0.1, 1))
	strict.GET("/x", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	require.Equal(t, http.StatusOK, sendFrom(strict, "/x", addr))
	require.Equal(t, http.StatusTooManyRequests, sendFrom(strict, "/x", addr))

	// a middleware configured with new limits must not reuse the drained bucket
	loose := gin.New()
	loose.Use(RateLimitMiddleware(100, 10))
	loose.GET("/x", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	require.Equal(t, http.StatusOK, sendFrom(loose, "/x", addr))
}
