package middleware

import (
	"time"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

// Logger is the interface for structured logging.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F creates a new Field with the given key and value.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logging returns middleware that logs request details. Completed requests
// are logged at info level during the exit phase; failures are logged at
// error level during the error traversal, with the payload attached.
func Logging(logger Logger) chain.Middleware {
	return &loggingMiddleware{logger: logger}
}

type loggingMiddleware struct {
	logger Logger

	// per-request
	start time.Time
}

func (m *loggingMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	m.start = time.Now()
	return chain.Continue()
}

func (m *loggingMiddleware) Exit(req *web.Request, res *web.Response) chain.Status {
	m.logger.Info("request completed", m.fields(req, res)...)
	return chain.Continue()
}

func (m *loggingMiddleware) OnError(req *web.Request, res *web.Response, err error) {
	fields := append(m.fields(req, res), F("error", err.Error()))
	m.logger.Error("request failed", fields...)
}

func (m *loggingMiddleware) fields(req *web.Request, res *web.Response) []Field {
	fields := []Field{
		F("method", req.Method),
		F("path", req.URL.Path),
		F("status", res.Status()),
		F("duration", time.Since(m.start)),
	}
	if id := req.GetString(RequestIDKey); id != "" {
		fields = append(fields, F("request_id", id))
	}
	return fields
}

func (m *loggingMiddleware) Clone() chain.Middleware {
	dup := *m
	return &dup
}

// NopLogger is a logger that discards all log entries.
type NopLogger struct{}

func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
