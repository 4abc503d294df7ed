package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/metrics"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimiter is a fixed-window request counter kept in Redis
type RateLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
	log      *zap.Logger
}

// NewRateLimiter allows requests per window for each client IP.
// A nil client disables limiting.
func NewRateLimiter(client *redis.Client, requests int, window time.Duration, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client:   client,
		requests: requests,
		window:   window,
		log:      log,
	}
}

// Allow counts a request from key and reports whether it is within the
// limit. The window starts with the first request from key.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := rateLimitKeyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, fmt.Errorf("failed to count request: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, fmt.Errorf("failed to set window: %w", err)
		}
	}

	return count <= int64(l.requests), nil
}

// Middleware rejects clients over the limit with 429. Redis errors let the
// request through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil || l.client == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := l.Allow(r.Context(), clientIP(r))
		if err != nil {
			l.log.Warn("rate limiter unavailable", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr, which RealIP has already
// rewritten from proxy headers
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
