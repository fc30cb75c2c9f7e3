package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector holds all Prometheus metrics for the application.
// It provides centralized metric registration and collection.
type MetricsCollector struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge
	httpRequestSize      *prometheus.HistogramVec
	httpResponseSize     *prometheus.HistogramVec

	// Authentication / authorization metrics
	authFailuresTotal        *prometheus.CounterVec
	authorizationDeniedTotal *prometheus.CounterVec
	rateLimitExceededTotal   *prometheus.CounterVec

	// Token service metrics
	tokenOperationsTotal *prometheus.CounterVec

	// License engine metrics
	licenseActivationsTotal  *prometheus.CounterVec
	licenseValidationsTotal  *prometheus.CounterVec
	licensesExpiredTotal     prometheus.Counter

	// Database metrics
	dbConnectionsActive prometheus.Gauge
	dbConnectionsIdle   prometheus.Gauge
	dbConnectionsMax    prometheus.Gauge

	// Redis metrics
	redisConnectionsActive prometheus.Gauge
	redisHits              *prometheus.CounterVec
	redisMisses            *prometheus.CounterVec
}

// NewMetricsCollector creates and registers all application metrics with Prometheus.
// Uses promauto to automatically register metrics with the default registry.
//
// Metrics are organized by subsystem:
//   - http: HTTP server metrics (requests, latency, in-flight)
//   - auth: login/authorization/rate-limit outcomes
//   - token: access/refresh token operations
//   - license: activation/validation/expiration outcomes
//   - database: PostgreSQL connection pool metrics
//   - redis: Redis connection and cache metrics
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests, labeled by method, path, and status code",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "licensevault",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path", "status"},
		),

		httpRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "licensevault",
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being served",
			},
		),

		httpRequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "licensevault",
				Subsystem: "http",
				Name:      "request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   []float64{256, 1024, 4096, 16384, 65536},
			},
			[]string{"method", "path"},
		),

		httpResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "licensevault",
				Subsystem: "http",
				Name:      "response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{256, 1024, 4096, 16384, 65536},
			},
			[]string{"method", "path", "status"},
		),

		authFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "auth",
				Name:      "failures_total",
				Help:      "Total authentication failures, labeled by reason",
			},
			[]string{"reason"},
		),

		authorizationDeniedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "auth",
				Name:      "authorization_denied_total",
				Help:      "Total requests denied by role-based access control, labeled by actual and required role",
			},
			[]string{"role", "required"},
		),

		rateLimitExceededTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "throttle",
				Name:      "exceeded_total",
				Help:      "Total requests blocked by the throttle engine, labeled by tier (global/user/auth)",
			},
			[]string{"tier"},
		),

		tokenOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "token",
				Name:      "operations_total",
				Help:      "Total token-service operations, labeled by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		licenseActivationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "license",
				Name:      "activations_total",
				Help:      "Total license activation attempts, labeled by outcome",
			},
			[]string{"outcome"},
		),

		licenseValidationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "license",
				Name:      "validations_total",
				Help:      "Total license validation checks, labeled by validity",
			},
			[]string{"valid"},
		),

		licensesExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "license",
				Name:      "expired_total",
				Help:      "Total licenses transitioned from Active to Expired by the sweep worker",
			},
		),

		dbConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "licensevault",
				Subsystem: "database",
				Name:      "connections_active",
				Help:      "Number of active database connections currently in use",
			},
		),

		dbConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "licensevault",
				Subsystem: "database",
				Name:      "connections_idle",
				Help:      "Number of idle database connections in the pool",
			},
		),

		dbConnectionsMax: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "licensevault",
				Subsystem: "database",
				Name:      "connections_max",
				Help:      "Maximum number of open database connections allowed",
			},
		),

		redisConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "licensevault",
				Subsystem: "redis",
				Name:      "connections_active",
				Help:      "Number of active Redis connections from the pool",
			},
		),

		redisHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "redis",
				Name:      "cache_hits_total",
				Help:      "Total number of Redis cache hits",
			},
			[]string{"operation"},
		),

		redisMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "licensevault",
				Subsystem: "redis",
				Name:      "cache_misses_total",
				Help:      "Total number of Redis cache misses",
			},
			[]string{"operation"},
		),
	}
}

// MetricsMiddleware wraps HTTP handlers to automatically collect request metrics.
// It records request count, duration, in-flight gauge, and request/response sizes.
//
// This middleware should be placed early in the middleware chain (after RequestID
// but before authentication) to capture all requests including auth failures.
//
// Usage:
//
//	collector := middleware.NewMetricsCollector()
//	r.Use(middleware.MetricsMiddleware(collector))
func MetricsMiddleware(collector *MetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			collector.httpRequestsInFlight.Inc()
			defer collector.httpRequestsInFlight.Dec()

			if r.ContentLength > 0 {
				collector.httpRequestSize.WithLabelValues(
					r.Method,
					normalizePathForMetrics(r.URL.Path),
				).Observe(float64(r.ContentLength))
			}

			wrapped := &metricsResponseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			start := time.Now()
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start).Seconds()

			path := normalizePathForMetrics(r.URL.Path)
			method := r.Method
			status := strconv.Itoa(wrapped.statusCode)

			collector.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
			collector.httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
			collector.httpResponseSize.WithLabelValues(method, path, status).Observe(float64(wrapped.bytesWritten))
		})
	}
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code and bytes written.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func (mrw *metricsResponseWriter) WriteHeader(statusCode int) {
	if !mrw.wroteHeader {
		mrw.statusCode = statusCode
		mrw.wroteHeader = true
		mrw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (mrw *metricsResponseWriter) Write(b []byte) (int, error) {
	if !mrw.wroteHeader {
		mrw.WriteHeader(http.StatusOK)
	}
	n, err := mrw.ResponseWriter.Write(b)
	mrw.bytesWritten += int64(n)
	return n, err
}

// normalizePathForMetrics converts dynamic paths to static labels for Prometheus.
// This prevents cardinality explosion from path parameters like UUIDs.
func normalizePathForMetrics(path string) string {
	switch path {
	case "/health", "/health/details", "/metrics":
		return path
	}
	return path
}

// RecordAuthFailure records an authentication failure, labeled by reason
// (invalid_format, invalid_scheme, empty_token, token_invalid, token_revoked).
func (mc *MetricsCollector) RecordAuthFailure(reason string) {
	mc.authFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordAuthorizationDenied records an RBAC denial, labeled by the caller's
// actual role and the role/roles the route required.
func (mc *MetricsCollector) RecordAuthorizationDenied(role, required string) {
	mc.authorizationDeniedTotal.WithLabelValues(role, required).Inc()
}

// RecordRateLimitExceeded records a throttle-engine block, labeled by tier
// (global, user, auth).
func (mc *MetricsCollector) RecordRateLimitExceeded(tier string) {
	mc.rateLimitExceededTotal.WithLabelValues(tier).Inc()
}

// RecordTokenOperation records a token-service operation outcome (mint,
// refresh, revoke) labeled by its result (success, not_found, revoked, expired).
func (mc *MetricsCollector) RecordTokenOperation(operation, outcome string) {
	mc.tokenOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordLicenseActivation records a license activation attempt, labeled by
// outcome (activated, heartbeat, limit_reached, not_found, inactive).
func (mc *MetricsCollector) RecordLicenseActivation(outcome string) {
	mc.licenseActivationsTotal.WithLabelValues(outcome).Inc()
}

// RecordLicenseValidation records a license validation check, labeled by
// whether it succeeded.
func (mc *MetricsCollector) RecordLicenseValidation(valid bool) {
	mc.licenseValidationsTotal.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

// RecordLicensesExpired increments the count of licenses the expiration
// worker transitioned from Active to Expired in one sweep.
func (mc *MetricsCollector) RecordLicensesExpired(count int) {
	mc.licensesExpiredTotal.Add(float64(count))
}

// UpdateDatabaseStats updates database connection pool metrics.
// Call this periodically (e.g., every 30 seconds) from a background goroutine.
func (mc *MetricsCollector) UpdateDatabaseStats(active, idle, max int) {
	mc.dbConnectionsActive.Set(float64(active))
	mc.dbConnectionsIdle.Set(float64(idle))
	mc.dbConnectionsMax.Set(float64(max))
}

// UpdateRedisStats updates Redis connection pool metrics.
// Call this periodically (e.g., every 30 seconds) from a background goroutine.
func (mc *MetricsCollector) UpdateRedisStats(active int) {
	mc.redisConnectionsActive.Set(float64(active))
}

// RecordCacheHit records a Redis cache hit, labeled by operation
// ("get", "set", "delete", etc.).
func (mc *MetricsCollector) RecordCacheHit(operation string) {
	mc.redisHits.WithLabelValues(operation).Inc()
}

// RecordCacheMiss records a Redis cache miss, labeled by operation.
func (mc *MetricsCollector) RecordCacheMiss(operation string) {
	mc.redisMisses.WithLabelValues(operation).Inc()
}
