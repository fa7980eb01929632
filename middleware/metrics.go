package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anvil",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, path, and status code.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "anvil",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"method", "path"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "anvil",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})

	dispatchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anvil",
		Subsystem: "chain",
		Name:      "errors_total",
		Help:      "Total dispatches that ended in the error traversal.",
	}, []string{"method", "path"})
)

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*metricsMiddleware)

// WithMetricsPathFunc sets the function mapping a request to its path label.
// Use it to collapse high-cardinality paths into a fixed label set.
func WithMetricsPathFunc(fn func(*web.Request) string) MetricsOption {
	return func(m *metricsMiddleware) {
		m.pathFunc = fn
	}
}

// Metrics returns middleware that records Prometheus metrics for every
// request: an in-flight gauge across the two phases, a request counter by
// status, a latency histogram, and an error counter fed by the error
// traversal.
func Metrics(opts ...MetricsOption) chain.Middleware {
	m := &metricsMiddleware{
		pathFunc: func(req *web.Request) string { return req.URL.Path },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type metricsMiddleware struct {
	pathFunc func(*web.Request) string

	// per-request
	start time.Time
}

func (m *metricsMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	httpRequestsInFlight.Inc()
	m.start = time.Now()
	return chain.Continue()
}

func (m *metricsMiddleware) Exit(req *web.Request, res *web.Response) chain.Status {
	m.observe(req, res)
	return chain.Continue()
}

func (m *metricsMiddleware) OnError(req *web.Request, res *web.Response, err error) {
	dispatchErrorsTotal.WithLabelValues(req.Method, m.pathFunc(req)).Inc()
	m.observe(req, res)
}

func (m *metricsMiddleware) observe(req *web.Request, res *web.Response) {
	path := m.pathFunc(req)
	httpRequestsTotal.WithLabelValues(req.Method, path, strconv.Itoa(res.Status())).Inc()
	httpRequestDuration.WithLabelValues(req.Method, path).Observe(time.Since(m.start).Seconds())
	httpRequestsInFlight.Dec()
}

func (m *metricsMiddleware) Clone() chain.Middleware {
	dup := *m
	return &dup
}
