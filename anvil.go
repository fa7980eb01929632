// Package anvil provides a two-phase middleware framework for HTTP servers.
//
// Every request travels through an ordered chain of middleware twice: the
// enter phase walks forward until a middleware unwinds, errors, or the chain
// runs out, and the exit phase walks backward over the middleware that asked
// to continue. When a middleware reports an error, the backward walk becomes
// an error traversal instead, giving each earlier middleware a chance to
// observe the failure. This symmetry lets a single middleware own both sides
// of a request: start a timer on the way in, record the duration on the way
// out.
//
// Basic usage:
//
//	srv := anvil.NewServer(anvil.WithLogger(logger))
//	srv.Use(anvil.DefaultMiddleware(logger)...)
//	srv.Use(anvil.FromFunc(func(req *anvil.Request, res *anvil.Response) anvil.Status {
//	    _ = res.Text(http.StatusOK, "hello")
//	    return anvil.Unwind()
//	}))
//	log.Fatal(srv.Run(":8080"))
//
// The server clones its chain for every request, so middleware may keep
// per-request state in plain fields without locking.
package anvil

import (
	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/middleware"
	"github.com/anvil-web/anvil/server"
	"github.com/anvil-web/anvil/web"
)

// Re-export core types for convenience

// Status is the verdict a middleware phase returns.
type Status = chain.Status

// Middleware is the unit of request processing.
type Middleware = chain.Middleware

// Chain dispatches requests through linked middleware.
type Chain = chain.Chain

// Stack is the ordered Chain implementation.
type Stack = chain.Stack

// Base is an embeddable no-op middleware.
type Base = chain.Base

// Request and Response are the pair every phase receives.
type Request = web.Request
type Response = web.Response

// Server dispatches HTTP requests through a chain.
type Server = server.Server

// Option configures a Server.
type Option = server.Option

// Status constructors.
var (
	Continue = chain.Continue
	Unwind   = chain.Unwind
	Error    = chain.Error
)

// Chain construction.
var NewStack = chain.NewStack

// Server construction and options.
var (
	NewServer           = server.New
	WithLogger          = server.WithLogger
	WithNotFound        = server.WithNotFound
	WithoutRecovery     = server.WithoutRecovery
	WithReadTimeout     = server.WithReadTimeout
	WithWriteTimeout    = server.WithWriteTimeout
	WithShutdownTimeout = server.WithShutdownTimeout
	WithChain           = server.WithChain
	WithConfig          = server.WithConfig
)

// Function adapters.
var (
	FromFunc  = middleware.FromFunc
	FromFuncs = middleware.FromFuncs
)

// Funcs bundles optional per-phase functions for FromFuncs.
type Funcs = middleware.Funcs

// Logging types.
type Logger = middleware.Logger
type LogField = middleware.Field

// NopLogger discards all log output.
type NopLogger = middleware.NopLogger

// LogF creates a new log field with the given key and value.
func LogF(key string, value any) LogField {
	return middleware.F(key, value)
}

// Middleware re-exports for convenience.
var (
	Logging      = middleware.Logging
	RequestID    = middleware.RequestID
	ResponseTime = middleware.ResponseTime
	BasicAuth    = middleware.BasicAuth
	CORS         = middleware.CORS
	Metrics      = middleware.Metrics
	OTel         = middleware.OTel
	WebSocket    = middleware.WebSocket
)

// CORSConfig configures the CORS middleware.
type CORSConfig = middleware.CORSConfig

// DefaultCORSConfig returns a permissive CORS configuration.
var DefaultCORSConfig = middleware.DefaultCORSConfig

// Option types for the observability and transport middleware.
type OTelOption = middleware.OTelOption
type MetricsOption = middleware.MetricsOption
type WebSocketOption = middleware.WebSocketOption

// RateLimit re-exports for convenience.
type RateLimitOption = middleware.RateLimitOption

var (
	RateLimit            = middleware.RateLimit
	RateLimitByPath      = middleware.RateLimitByPath
	RateLimitByClient    = middleware.RateLimitByClient
	WithRateLimitKeyFunc = middleware.WithRateLimitKeyFunc
	WithRateLimitLogger  = middleware.WithRateLimitLogger
)

// DefaultMiddleware returns the recommended production middleware stack.
func DefaultMiddleware(logger Logger) []Middleware {
	return middleware.DefaultStack(logger)
}

// DefaultMiddlewareWithMetrics returns the default stack plus Prometheus
// request metrics.
func DefaultMiddlewareWithMetrics(logger Logger) []Middleware {
	return middleware.DefaultStackWithMetrics(logger)
}
