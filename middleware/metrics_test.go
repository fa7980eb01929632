package middleware

import (
	"errors"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/testutil"
	"github.com/anvil-web/anvil/web"
)

func TestMetrics(t *testing.T) {
	t.Run("counts completed requests by status", func(t *testing.T) {
		before := promtestutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/items", "200"))

		req, res, _ := testutil.Exchange("GET", "/items")
		_ = chain.NewStack(Metrics(), testutil.Terminal()).Dispatch(req, res)

		after := promtestutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/items", "200"))
		if after != before+1 {
			t.Errorf("requests_total = %v, want %v", after, before+1)
		}
	})

	t.Run("in-flight gauge returns to zero", func(t *testing.T) {
		req, res, _ := testutil.Exchange("GET", "/items")
		_ = chain.NewStack(Metrics(), testutil.Terminal()).Dispatch(req, res)

		if v := promtestutil.ToFloat64(httpRequestsInFlight); v != 0 {
			t.Errorf("requests_in_flight = %v, want 0", v)
		}
	})

	t.Run("error traversal feeds the error counter and clears in-flight", func(t *testing.T) {
		before := promtestutil.ToFloat64(dispatchErrorsTotal.WithLabelValues("GET", "/broken"))

		req, res, _ := testutil.Exchange("GET", "/broken")
		_ = chain.NewStack(Metrics(), testutil.Failing(errors.New("x"))).Dispatch(req, res)

		after := promtestutil.ToFloat64(dispatchErrorsTotal.WithLabelValues("GET", "/broken"))
		if after != before+1 {
			t.Errorf("errors_total = %v, want %v", after, before+1)
		}
		if v := promtestutil.ToFloat64(httpRequestsInFlight); v != 0 {
			t.Errorf("requests_in_flight = %v, want 0", v)
		}
	})

	t.Run("path func collapses labels", func(t *testing.T) {
		collapse := func(*web.Request) string { return "/collapsed" }
		before := promtestutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/collapsed", "200"))

		req, res, _ := testutil.Exchange("GET", "/users/42/orders/17")
		_ = chain.NewStack(Metrics(WithMetricsPathFunc(collapse)), testutil.Terminal()).Dispatch(req, res)

		after := promtestutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/collapsed", "200"))
		if after != before+1 {
			t.Errorf("requests_total = %v, want %v", after, before+1)
		}
	})
}
