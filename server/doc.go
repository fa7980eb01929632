// Package server connects a middleware chain to the HTTP transport.
//
// A Server owns a template chain configured at setup time. For every
// incoming request it clones the template, wraps the request and response,
// and dispatches exactly once, so per-request middleware state is never
// shared between concurrent requests. The chain decides the response; the
// server only fills the gaps the chain left: a 404 when no middleware
// claimed the request, a 500 when dispatch failed or panicked.
//
//	srv := server.New(server.WithLogger(logger))
//	srv.Use(middleware.RequestID(), middleware.Logging(logger))
//	srv.Use(middleware.FromFunc(handle))
//	log.Fatal(srv.Run(":8080"))
//
// Serve accepts a context for graceful shutdown: when the context is
// canceled the listener stops accepting connections and in-flight requests
// get ShutdownTimeout to finish.
package server
