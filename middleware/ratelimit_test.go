package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/testutil"
	"github.com/anvil-web/anvil/web"
)

func TestRateLimit(t *testing.T) {
	t.Run("allows requests within the limit", func(t *testing.T) {
		c := chain.NewStack(RateLimit(100, 100), testutil.Terminal())

		req, res, rec := testutil.Exchange("GET", "/")
		status := c.Clone().Dispatch(req, res)

		if !status.IsUnwind() {
			t.Errorf("status = %v, want Unwind from terminal", status)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("code = %d, want 200", rec.Code)
		}
	})

	t.Run("rejects requests over the burst with 429", func(t *testing.T) {
		logger := &mockLogger{}
		tmpl := chain.NewStack(RateLimit(1, 1, WithRateLimitLogger(logger)), testutil.Terminal())

		req, res, _ := testutil.Exchange("GET", "/")
		_ = tmpl.Clone().Dispatch(req, res)

		req, res, rec := testutil.Exchange("GET", "/")
		status := tmpl.Clone().Dispatch(req, res)

		if !status.IsUnwind() {
			t.Errorf("status = %v, want Unwind", status)
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("code = %d, want 429", rec.Code)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Error("expected Retry-After header")
		}
		if len(logger.entries) != 1 || logger.entries[0].level != "warn" {
			t.Errorf("log entries = %+v, want one warn", logger.entries)
		}
	})

	t.Run("limit is shared across clones", func(t *testing.T) {
		// The whole point of the limiter: clones of one template count
		// against the same buckets.
		tmpl := chain.NewStack(RateLimit(1, 1), testutil.Terminal())

		req, res, _ := testutil.Exchange("GET", "/")
		first := tmpl.Clone().Dispatch(req, res)
		req, res, rec := testutil.Exchange("GET", "/")
		_ = tmpl.Clone().Dispatch(req, res)

		if !first.IsUnwind() {
			t.Errorf("first status = %v, want Unwind", first)
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("second request code = %d, want 429", rec.Code)
		}
	})

	t.Run("per-client keys are limited independently", func(t *testing.T) {
		tmpl := chain.NewStack(RateLimitByClient(1, 1), testutil.Terminal())

		dispatch := func(addr string) int {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = addr
			req, res, rec := testutil.ExchangeFor(r)
			_ = tmpl.Clone().Dispatch(req, res)
			return rec.Code
		}

		if code := dispatch("10.0.0.1:1111"); code != http.StatusOK {
			t.Errorf("first client first request = %d, want 200", code)
		}
		if code := dispatch("10.0.0.2:2222"); code != http.StatusOK {
			t.Errorf("second client first request = %d, want 200", code)
		}
		if code := dispatch("10.0.0.1:3333"); code != http.StatusTooManyRequests {
			t.Errorf("first client second request = %d, want 429", code)
		}
	})

	t.Run("custom key func", func(t *testing.T) {
		keyed := func(req *web.Request) string { return req.Header.Get("X-API-Key") }
		tmpl := chain.NewStack(RateLimit(1, 1, WithRateLimitKeyFunc(keyed)), testutil.Terminal())

		dispatch := func(key string) int {
			r := httptest.NewRequest("GET", "/", nil)
			r.Header.Set("X-API-Key", key)
			req, res, rec := testutil.ExchangeFor(r)
			_ = tmpl.Clone().Dispatch(req, res)
			return rec.Code
		}

		if code := dispatch("alpha"); code != http.StatusOK {
			t.Errorf("alpha first = %d, want 200", code)
		}
		if code := dispatch("beta"); code != http.StatusOK {
			t.Errorf("beta first = %d, want 200", code)
		}
		if code := dispatch("alpha"); code != http.StatusTooManyRequests {
			t.Errorf("alpha second = %d, want 429", code)
		}
	})
}
