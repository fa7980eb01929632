package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	// AllowOrigins is a list of origins that are allowed.
	// Use "*" to allow all origins, or specify exact origins.
	AllowOrigins []string

	// AllowMethods is a list of allowed HTTP methods.
	// Default: GET, POST, OPTIONS
	AllowMethods []string

	// AllowHeaders is a list of allowed request headers.
	// Default: Content-Type, Authorization, X-Request-ID
	AllowHeaders []string

	// ExposeHeaders is a list of headers the browser is allowed to access.
	ExposeHeaders []string

	// AllowCredentials indicates whether credentials are allowed.
	AllowCredentials bool

	// MaxAge indicates how long preflight results can be cached (in seconds).
	// Default: 86400 (24 hours)
	MaxAge int
}

// DefaultCORSConfig returns a permissive CORS configuration suitable for
// development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		MaxAge:       86400,
	}
}

// CORS returns middleware that applies the given CORS policy. Preflight
// OPTIONS requests from allowed origins are answered with 204 and unwind the
// chain; other requests get the response headers and continue.
func CORS(config CORSConfig) chain.Middleware {
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(config.AllowHeaders) == 0 {
		config.AllowHeaders = []string{"Content-Type", "Authorization", RequestIDHeader}
	}
	if config.MaxAge == 0 {
		config.MaxAge = 86400
	}

	allowed := make(map[string]bool, len(config.AllowOrigins))
	for _, origin := range config.AllowOrigins {
		allowed[origin] = true
	}

	return &corsMiddleware{
		config:          config,
		allowAllOrigins: len(config.AllowOrigins) == 1 && config.AllowOrigins[0] == "*",
		allowedOrigins:  allowed,
	}
}

type corsMiddleware struct {
	chain.Base
	config          CORSConfig
	allowAllOrigins bool
	allowedOrigins  map[string]bool
}

func (m *corsMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	origin := req.Header.Get("Origin")

	var allowOrigin string
	if m.allowAllOrigins {
		allowOrigin = "*"
	} else if origin != "" && m.allowedOrigins[origin] {
		allowOrigin = origin
	}

	if allowOrigin == "" {
		return chain.Continue()
	}

	header := res.Header()
	header.Set("Access-Control-Allow-Origin", allowOrigin)
	if m.config.AllowCredentials {
		header.Set("Access-Control-Allow-Credentials", "true")
	}

	// Preflight requests are fully answered here.
	if req.Method == http.MethodOptions {
		header.Set("Access-Control-Allow-Methods", strings.Join(m.config.AllowMethods, ", "))
		header.Set("Access-Control-Allow-Headers", strings.Join(m.config.AllowHeaders, ", "))
		if m.config.MaxAge > 0 {
			header.Set("Access-Control-Max-Age", strconv.Itoa(m.config.MaxAge))
		}
		res.WriteHeader(http.StatusNoContent)
		return chain.Unwind()
	}

	if len(m.config.ExposeHeaders) > 0 {
		header.Set("Access-Control-Expose-Headers", strings.Join(m.config.ExposeHeaders, ", "))
	}

	return chain.Continue()
}

// Clone shares the precomputed origin set; it is read-only after
// construction.
func (m *corsMiddleware) Clone() chain.Middleware {
	dup := *m
	return &dup
}
