package middleware

import "github.com/anvil-web/anvil/chain"

// DefaultStack returns the recommended production middleware stack: request
// ID injection and structured logging, in that order. Link the returned
// middleware ahead of application middleware.
func DefaultStack(logger Logger) []chain.Middleware {
	return []chain.Middleware{
		RequestID(),
		Logging(logger),
	}
}

// DefaultStackWithMetrics returns the default stack with Prometheus metrics.
func DefaultStackWithMetrics(logger Logger) []chain.Middleware {
	return []chain.Middleware{
		RequestID(),
		Logging(logger),
		Metrics(),
	}
}
