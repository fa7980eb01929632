// Package middleware provides built-in middleware for anvil chains.
//
// Every middleware here implements the chain.Middleware capability: Enter on
// the way into the chain, Exit on the way back out, OnError when a later
// middleware failed, and Clone for per-request duplication.
//
// # Basic Usage
//
// Link middleware to a chain in the order they should run:
//
//	c := chain.NewStack()
//	c.Link(middleware.RequestID())
//	c.Link(middleware.Logging(logger))
//	c.Link(middleware.FromFunc(func(req *web.Request, res *web.Response) chain.Status {
//	    res.Text(http.StatusOK, "hello")
//	    return chain.Unwind()
//	}))
//
// # Available Middleware
//
//   - RequestID: injects a unique request ID
//   - Logging: logs request details and timing
//   - ResponseTime: measures per-request latency
//   - RateLimit: token bucket rate limiting
//   - BasicAuth: HTTP basic authentication
//   - CORS: cross-origin resource sharing
//   - OTel: OpenTelemetry tracing and metrics
//   - Metrics: Prometheus metrics
//   - WebSocket: connection upgrades
//
// # Default Stacks
//
// Pre-configured stacks are available for common setups:
//
//	for _, m := range middleware.DefaultStack(logger) {
//	    c.Link(m)
//	}
//
// # Custom Middleware
//
// Bare functions can join a chain through FromFunc or Funcs without defining
// a type; stateful middleware embed chain.Base and implement Clone. See the
// chain package documentation for the full contract.
package middleware
