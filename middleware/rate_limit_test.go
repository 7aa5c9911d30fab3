package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestGetLimiterReusesPerKey(t *testing.T) {
	a := getLimiter("10.0.0.1", rate.Every(time.Second), 1)
	b := getLimiter("10.0.0.1", rate.Every(time.Second), 1)
	if a != b {
		t.Error("same key should reuse the same limiter")
	}

	c := getLimiter("10.0.0.2", rate.Every(time.Second), 1)
	if a == c {
		t.Error("different keys should get distinct limiters")
	}
}

func TestGetLimiterExpiry(t *testing.T) {
	l := getLimiter("10.0.0.3", rate.Every(time.Second), 1)
	limitersMu.Lock()
	l.expires = time.Now().Add(-time.Minute)
	limitersMu.Unlock()

	// Next lookup for any key cleans out expired entries.
	getLimiter("10.0.0.4", rate.Every(time.Second), 1)

	limitersMu.Lock()
	_, ok := limiters["10.0.0.3"]
	limitersMu.Unlock()
	if ok {
		t.Error("expired limiter should have been cleaned up")
	}
}

func TestRateLimitMiddlewareDeniesBurst(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "2") // burst of 1

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware())
	r.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "203.0.113.9:4711"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", code)
	}
}
