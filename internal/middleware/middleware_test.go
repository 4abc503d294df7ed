package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func newLimiter(t *testing.T, requests int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client, requests, time.Minute, zaptest.NewLogger(t)), mr
}

func post(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_Middleware(t *testing.T) {
	limiter, _ := newLimiter(t, 2)
	h := limiter.Middleware(okHandler())

	assert.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5000"))
	assert.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5001"))
	assert.Equal(t, http.StatusTooManyRequests, post(h, "203.0.113.7:5002"))

	// other clients have their own window
	assert.Equal(t, http.StatusCreated, post(h, "198.51.100.1:5000"))
}

func TestRateLimiter_SetsExpiry(t *testing.T) {
	limiter, mr := newLimiter(t, 5)

	allowed, err := limiter.Allow(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.Equal(t, time.Minute, mr.TTL("ratelimit:203.0.113.7"))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	limiter, mr := newLimiter(t, 1)
	h := limiter.Middleware(okHandler())

	assert.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5000"))
	assert.Equal(t, http.StatusTooManyRequests, post(h, "203.0.113.7:5000"))

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5000"))
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	limiter, mr := newLimiter(t, 1)
	h := limiter.Middleware(okHandler())
	mr.Close()

	assert.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5000"))
	assert.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5000"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	var nilLimiter *RateLimiter
	h := nilLimiter.Middleware(okHandler())
	assert.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5000"))

	h = NewRateLimiter(nil, 1, time.Minute, zap.NewNop()).Middleware(okHandler())
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5000"))
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(Logger(zap.New(core)))
	r.Get("/api/quotes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/abc", nil)
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "http request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/quotes/abc", fields["path"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "test-agent", fields["user_agent"])
	assert.NotEmpty(t, fields["request_id"])
}
