package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/yegamble/licensevault/internal/interfaces/http/middleware"
)

// MiddlewareConfig holds configuration for HTTP middleware shared across
// route groups.
type MiddlewareConfig struct {
	// JWTService for token signature/claims validation.
	JWTService middleware.JWTServiceInterface

	// Sessions checks session liveness for the session-validation filter.
	Sessions middleware.SessionChecker

	// Throttle holds the three-tier adaptive rate limiter configuration.
	Throttle middleware.ThrottleConfig

	// AllowedOrigins is the production CORS origin allowlist.
	AllowedOrigins []string

	// Logger for structured logging.
	Logger zerolog.Logger
}

// NewRouter creates a new chi router with all routes and middleware
// configured. This is the main entry point for HTTP routing.
//
// Middleware order (CRITICAL for security):
//  1. RequestID - generates correlation ID
//  2. Metrics - Prometheus metrics collection
//  3. Logger - structured request/response logging
//  4. Recovery - panic recovery
//  5. SecurityHeaders - defense headers (CSP, X-Frame-Options, etc.)
//  6. CORS - cross-origin resource sharing
//  7. GlobalThrottle - per-IP sliding-window rate limiting
//
// Route groups:
//   - Health/Metrics routes: /health, /health/details, /metrics (no authentication)
//   - Public routes: /api/v1/auth/* (login/register auth-tier throttled)
//   - Protected routes: /api/v1/users/*, /api/v1/licenses/* (JWT authentication required)
//   - Admin routes: /api/v1/audit, /api/v1/stats, /api/v1/users/{id}/licenses
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	licenseHandler *LicenseHandler,
	healthHandler *HealthHandler,
	metricsCollector *middleware.MetricsCollector,
	middlewareConfig MiddlewareConfig,
	isProd bool,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware (applies to all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.MetricsMiddleware(metricsCollector))
	r.Use(middleware.Logger(middlewareConfig.Logger))
	r.Use(middleware.Recovery(middlewareConfig.Logger))

	// Security headers with production config
	securityCfg := middleware.DefaultSecurityHeadersConfig(isProd)
	r.Use(middleware.SecurityHeaders(securityCfg))

	// CORS with appropriate config
	var corsCfg middleware.CORSConfig
	if isProd {
		corsCfg = middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = middlewareConfig.AllowedOrigins
	} else {
		corsCfg = middleware.DevelopmentCORSConfig()
	}
	r.Use(middleware.CORS(corsCfg))

	// Timeout middleware (prevent long-running requests)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// First throttle tier: global, keyed by client IP.
	r.Use(middleware.GlobalThrottle(middlewareConfig.Throttle))

	// Health check endpoints (no authentication required)
	r.Get("/health", healthHandler.Liveness)
	r.Get("/health/details", healthHandler.Details)

	// Prometheus metrics endpoint (no authentication required)
	r.Handle("/metrics", promhttp.Handler())

	authCfg := middleware.AuthConfig{
		JWTService:       middlewareConfig.JWTService,
		Sessions:         middlewareConfig.Sessions,
		MetricsCollector: metricsCollector,
		Logger:           middlewareConfig.Logger,
		Optional:         false,
	}
	jwtAuth := middleware.JWTAuth(authCfg)
	userThrottle := middleware.UserThrottle(middlewareConfig.Throttle)
	authThrottle := middleware.AuthThrottle(middlewareConfig.Throttle)
	requireAdmin := middleware.RequireRole(middlewareConfig.Logger, metricsCollector, "admin")

	// requireAuth chains JWT + session-liveness validation with the second
	// throttle tier, so every authenticated surface is user-throttled.
	requireAuth := func(next http.Handler) http.Handler {
		return jwtAuth(userThrottle(next))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// The auth surface manages its own tiers: login/register behind the
		// strict auth throttle, account routes behind requireAuth.
		r.Mount("/auth", authHandler.Routes(authThrottle, requireAuth))

		// Protected routes (JWT authentication required)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Mount("/users", userHandler.Routes())
			r.Mount("/licenses", licenseHandler.Routes(requireAdmin))

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/users/{id}/licenses", licenseHandler.ListForUser)
				r.Get("/audit", licenseHandler.ListAuditLog)
				r.Get("/stats", licenseHandler.Stats)
			})
		})
	})

	return r
}
