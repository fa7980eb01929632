package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

// RateLimitOption configures the rate limiter.
type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	keyFunc func(*web.Request) string
	logger  Logger
}

// WithRateLimitKeyFunc sets a function to extract a rate limit key from
// requests. This allows per-client or per-path rate limiting.
func WithRateLimitKeyFunc(fn func(*web.Request) string) RateLimitOption {
	return func(c *rateLimitConfig) {
		c.keyFunc = fn
	}
}

// WithRateLimitLogger sets the logger for rate limit events.
func WithRateLimitLogger(l Logger) RateLimitOption {
	return func(c *rateLimitConfig) {
		c.logger = l
	}
}

// limiter is the slice of the fortify rate limiter the middleware uses.
type limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit returns middleware that limits request rate using a token bucket
// algorithm. The rate is specified as requests per second; burst allows short
// bursts above it. Rejected requests receive a 429 and unwind the chain.
func RateLimit(rate int, burst int, opts ...RateLimitOption) chain.Middleware {
	cfg := rateLimitConfig{
		keyFunc: func(*web.Request) string { return "global" }, // Global by default
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &rateLimitMiddleware{
		limiter: ratelimit.New(&ratelimit.Config{
			Rate:     rate,
			Burst:    burst,
			Interval: time.Second,
		}),
		cfg: cfg,
	}
}

// RateLimitByPath returns rate limiting middleware that applies per-path
// limits.
func RateLimitByPath(rate int, burst int, opts ...RateLimitOption) chain.Middleware {
	allOpts := append([]RateLimitOption{
		WithRateLimitKeyFunc(func(req *web.Request) string {
			return req.URL.Path
		}),
	}, opts...)
	return RateLimit(rate, burst, allOpts...)
}

// RateLimitByClient returns rate limiting middleware that applies per-client
// limits, keyed by the remote host.
func RateLimitByClient(rate int, burst int, opts ...RateLimitOption) chain.Middleware {
	allOpts := append([]RateLimitOption{
		WithRateLimitKeyFunc(func(req *web.Request) string {
			host, _, err := net.SplitHostPort(req.RemoteAddr)
			if err != nil {
				return req.RemoteAddr
			}
			return host
		}),
	}, opts...)
	return RateLimit(rate, burst, allOpts...)
}

type rateLimitMiddleware struct {
	chain.Base
	limiter limiter
	cfg     rateLimitConfig
}

func (m *rateLimitMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	key := m.cfg.keyFunc(req)

	if !m.limiter.Allow(req.Context(), key) {
		if m.cfg.logger != nil {
			m.cfg.logger.Warn("rate limit exceeded",
				F("path", req.URL.Path),
				F("key", key),
			)
		}
		res.Header().Set("Retry-After", "1")
		_ = res.Text(http.StatusTooManyRequests, "rate limit exceeded")
		return chain.Unwind()
	}

	return chain.Continue()
}

// Clone shares the limiter: the token buckets are concurrency-safe and must
// be global for the limit to mean anything across requests.
func (m *rateLimitMiddleware) Clone() chain.Middleware {
	dup := *m
	return &dup
}
