package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/config"
	"github.com/anvil-web/anvil/middleware"
	"github.com/anvil-web/anvil/web"
)

// Server serves HTTP requests by dispatching each one on its own clone of a
// template chain.
type Server struct {
	// Chain is the template every request is dispatched against. Link
	// middleware at setup time, before the server starts accepting
	// requests.
	Chain chain.Chain

	logger   middleware.Logger
	notFound func(req *web.Request, res *web.Response)
	recover  bool

	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration

	mu         sync.RWMutex
	listenAddr string
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for dispatch failures and recovered
// panics.
func WithLogger(l middleware.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithNotFound sets the handler that runs when dispatch finishes without any
// middleware writing a response.
func WithNotFound(fn func(req *web.Request, res *web.Response)) Option {
	return func(s *Server) {
		s.notFound = fn
	}
}

// WithoutRecovery disables panic recovery during dispatch. Panics then
// propagate to net/http, which closes the connection.
func WithoutRecovery() Option {
	return func(s *Server) {
		s.recover = false
	}
}

// WithReadTimeout sets the read timeout for HTTP requests.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = d
	}
}

// WithWriteTimeout sets the write timeout for HTTP responses.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

// WithShutdownTimeout sets how long in-flight requests get to finish after
// the Serve context is canceled.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// WithChain replaces the template chain. Use it to serve a chain
// implementation other than the default Stack.
func WithChain(c chain.Chain) Option {
	return func(s *Server) {
		s.Chain = c
	}
}

// WithConfig applies listener settings from a loaded configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *Server) {
		s.readTimeout = cfg.Server.ReadTimeout
		s.writeTimeout = cfg.Server.WriteTimeout
		s.shutdownTimeout = cfg.Server.ShutdownTimeout
	}
}

// New creates a Server with an empty chain and production defaults: panic
// recovery on, plain 404 for unclaimed requests, 30 second read/write
// timeouts.
func New(opts ...Option) *Server {
	s := &Server{
		Chain:  chain.NewStack(),
		logger: middleware.NopLogger{},
		notFound: func(req *web.Request, res *web.Response) {
			_ = res.Text(http.StatusNotFound, "Not Found")
		},
		recover:         true,
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Use links middleware to the template chain in order.
func (s *Server) Use(ms ...chain.Middleware) {
	for _, m := range ms {
		s.Chain.Link(m)
	}
}

// ServeHTTP implements http.Handler. Each request is dispatched on a fresh
// clone of the template chain.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := web.NewRequest(r)
	res := web.NewResponse(w)

	if s.recover {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error("panic during dispatch",
					middleware.F("panic", fmt.Sprintf("%v", v)),
					middleware.F("method", req.Method),
					middleware.F("path", req.URL.Path),
				)
				if !res.Written() {
					_ = res.Text(http.StatusInternalServerError, "Internal Server Error")
				}
			}
		}()
	}

	status := s.Chain.Clone().Dispatch(req, res)

	switch {
	case status.IsError():
		s.logger.Error("dispatch failed",
			middleware.F("error", status.Err().Error()),
			middleware.F("method", req.Method),
			middleware.F("path", req.URL.Path),
		)
		if !res.Written() {
			_ = res.Text(http.StatusInternalServerError, "Internal Server Error")
		}
	default:
		// Continue with nothing written means no middleware claimed the
		// request.
		if !res.Written() {
			s.notFound(req, res)
		}
	}
}

// Run starts the server on addr and blocks until it fails.
func (s *Server) Run(addr string) error {
	return s.Serve(context.Background(), addr)
}

// Serve starts the server on addr, blocking until ctx is canceled or the
// listener fails. Cancellation triggers a graceful shutdown bounded by the
// shutdown timeout.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.mu.Lock()
	s.listenAddr = listener.Addr().String()
	s.httpServer = &http.Server{
		Handler:      s,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ListenAddr returns the actual address the server is listening on, or ""
// before Serve has bound the listener.
func (s *Server) ListenAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listenAddr
}
