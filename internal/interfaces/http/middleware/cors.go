package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// Default CORS preflight cache duration in seconds (1 hour).
const defaultCORSMaxAge = 3600

// CORSConfig holds configuration for Cross-Origin Resource Sharing (CORS).
type CORSConfig struct {
	// AllowedOrigins is the list of origins allowed to make cross-origin
	// requests. "*" allows all origins and is only valid without
	// credentials.
	AllowedOrigins []string

	// AllowedMethods is the list of HTTP methods allowed for CORS requests.
	AllowedMethods []string

	// AllowedHeaders is the list of request headers allowed in CORS requests.
	AllowedHeaders []string

	// ExposedHeaders is the list of response headers exposed to the client.
	ExposedHeaders []string

	// AllowCredentials indicates whether cookies and authorization headers
	// are allowed. Cannot be true when AllowedOrigins contains "*".
	AllowCredentials bool

	// MaxAge is how long (seconds) browsers may cache preflight responses.
	MaxAge int
}

// DefaultCORSConfig returns the production CORS configuration: a strict
// origin allowlist (populated from Cors:AllowedOrigins at wiring time) with
// credentials enabled, since the auth surface is cookie-based.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: nil, // populated from config; empty denies all cross-origin callers
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-Throttle-Delay",
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           defaultCORSMaxAge,
	}
}

// DevelopmentCORSConfig returns a permissive configuration for local
// development: all origins, no credentials (browsers reject the
// wildcard+credentials combination).
func DevelopmentCORSConfig() CORSConfig {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*"}
	cfg.AllowedHeaders = []string{"*"}
	cfg.AllowCredentials = false
	return cfg
}

// CORS creates a CORS middleware with the given configuration. Placed after
// the security-headers middleware and before authentication, so preflight
// requests never hit the auth stack.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if cfg.AllowCredentials && containsWildcard(cfg.AllowedOrigins) {
		panic("CORS configuration error: AllowCredentials cannot be true when AllowedOrigins contains '*'")
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}
