package middleware

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

const instrumentationName = "github.com/anvil-web/anvil"

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*otelConfig)

type otelConfig struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	serviceName    string
	skipPaths      map[string]bool
}

// WithTracerProvider sets a custom tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *otelConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider(mp metric.MeterProvider) OTelOption {
	return func(c *otelConfig) {
		c.meterProvider = mp
	}
}

// WithOTelServiceName sets the service name for telemetry.
func WithOTelServiceName(name string) OTelOption {
	return func(c *otelConfig) {
		c.serviceName = name
	}
}

// WithOTelSkipPaths specifies request paths to skip for tracing.
func WithOTelSkipPaths(paths ...string) OTelOption {
	return func(c *otelConfig) {
		for _, p := range paths {
			c.skipPaths[p] = true
		}
	}
}

// OTel returns middleware that adds OpenTelemetry tracing and metrics.
// A server span is started during Enter and ended during Exit; when a later
// middleware fails, the span instead records the error during the error
// traversal. Later middleware see the span through the request context.
func OTel(opts ...OTelOption) chain.Middleware {
	cfg := &otelConfig{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		serviceName:    "anvil-server",
		skipPaths:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tracer := cfg.tracerProvider.Tracer(
		instrumentationName,
		trace.WithInstrumentationVersion("1.0.0"),
	)

	meter := cfg.meterProvider.Meter(
		instrumentationName,
		metric.WithInstrumentationVersion("1.0.0"),
	)

	requestCounter, _ := meter.Int64Counter(
		"anvil.server.requests",
		metric.WithDescription("Total number of dispatched requests"),
		metric.WithUnit("{request}"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"anvil.server.request.duration",
		metric.WithDescription("Duration of dispatched requests"),
		metric.WithUnit("ms"),
	)

	errorCounter, _ := meter.Int64Counter(
		"anvil.server.errors",
		metric.WithDescription("Total number of failed dispatches"),
		metric.WithUnit("{error}"),
	)

	return &otelMiddleware{
		tracer:          tracer,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
		errorCounter:    errorCounter,
		serviceName:     cfg.serviceName,
		skipPaths:       cfg.skipPaths,
	}
}

type otelMiddleware struct {
	tracer          trace.Tracer
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCounter    metric.Int64Counter
	serviceName     string
	skipPaths       map[string]bool

	// per-request
	span    trace.Span
	attrs   []attribute.KeyValue
	start   time.Time
	skipped bool
}

func (m *otelMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	if m.skipPaths[req.URL.Path] {
		m.skipped = true
		return chain.Continue()
	}

	m.attrs = []attribute.KeyValue{
		attribute.String("http.method", req.Method),
		attribute.String("http.route", req.URL.Path),
		attribute.String("service.name", m.serviceName),
	}

	ctx, span := m.tracer.Start(req.Context(), req.Method+" "+req.URL.Path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(m.attrs...),
	)
	m.span = span
	m.start = time.Now()

	if id := req.GetString(RequestIDKey); id != "" {
		span.SetAttributes(attribute.String("anvil.request_id", id))
	}

	// Later middleware observe the span through the request context.
	req.Request = req.WithContext(ctx)

	m.requestCounter.Add(ctx, 1, metric.WithAttributes(m.attrs...))

	return chain.Continue()
}

func (m *otelMiddleware) Exit(req *web.Request, res *web.Response) chain.Status {
	if m.skipped {
		return chain.Continue()
	}

	m.recordDuration(req)

	m.span.SetAttributes(attribute.Int("http.status_code", res.Status()))
	if res.Status() >= 500 {
		m.span.SetStatus(codes.Error, "")
	} else {
		m.span.SetStatus(codes.Ok, "")
	}
	m.span.End()

	return chain.Continue()
}

func (m *otelMiddleware) OnError(req *web.Request, res *web.Response, err error) {
	if m.skipped {
		return
	}

	m.recordDuration(req)

	m.span.RecordError(err)
	m.span.SetStatus(codes.Error, err.Error())
	m.span.End()

	m.errorCounter.Add(req.Context(), 1, metric.WithAttributes(m.attrs...))
}

func (m *otelMiddleware) recordDuration(req *web.Request) {
	duration := float64(time.Since(m.start).Milliseconds())
	m.requestDuration.Record(req.Context(), duration, metric.WithAttributes(m.attrs...))
}

// Clone shares the tracer and instruments (they are concurrency-safe) and
// resets the per-request span state.
func (m *otelMiddleware) Clone() chain.Middleware {
	return &otelMiddleware{
		tracer:          m.tracer,
		requestCounter:  m.requestCounter,
		requestDuration: m.requestDuration,
		errorCounter:    m.errorCounter,
		serviceName:     m.serviceName,
		skipPaths:       m.skipPaths,
	}
}

// SpanFromRequest returns the current span from the request context.
// Returns a no-op span if no span is present.
func SpanFromRequest(req *web.Request) trace.Span {
	return trace.SpanFromContext(req.Context())
}
