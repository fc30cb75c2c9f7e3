package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/yegamble/licensevault/internal/infrastructure/persistence/postgres"
	"github.com/yegamble/licensevault/internal/infrastructure/persistence/redis"
)

// HealthHandler handles health check endpoints for monitoring and orchestration.
// It provides liveness and readiness probes for Kubernetes/Docker health checks.
type HealthHandler struct {
	db     *sqlx.DB
	redis  *redis.Client
	logger zerolog.Logger
}

// NewHealthHandler creates a new HealthHandler with the given dependencies.
//
// Parameters:
//   - db: PostgreSQL database connection pool
//   - redisClient: Redis client backing the KV cache, session store and throttle engine
//   - logger: Structured logger for health check events
func NewHealthHandler(
	db *sqlx.DB,
	redisClient *redis.Client,
	logger zerolog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// LivenessResponse represents the response from the liveness endpoint.
type LivenessResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// DetailsResponse represents the response from the detailed health endpoint.
type DetailsResponse struct {
	Status    string                  `json:"status"`
	Timestamp string                  `json:"timestamp"`
	Checks    map[string]CheckDetails `json:"checks"`
}

// CheckDetails provides detailed information about a specific health check.
type CheckDetails struct {
	Status    string  `json:"status"` // "up" or "down"
	LatencyMs float64 `json:"latency_ms,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Liveness handles GET /health
// Returns 200 OK if the server is running. This is a simple liveness probe
// that indicates the HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	response := LivenessResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := EncodeJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to encode liveness response")
	}
}

// Details handles GET /health/details
// Checks if the application is ready to accept traffic by verifying its
// critical dependencies (database, Redis) are healthy.
//
// Status determination:
//   - "ok": both dependencies healthy
//   - "degraded": Redis down (sessions/throttle/cache degrade, DB still serves reads)
//   - "down": database down
//
// Response:
//   - 200 OK if status is "ok" or "degraded"
//   - 503 Service Unavailable if status is "down"
func (h *HealthHandler) Details(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := make(map[string]CheckDetails)

	dbStatus, dbLatency := h.checkDatabase(ctx)
	checks["database"] = dbStatus

	redisStatus, redisLatency := h.checkRedis(ctx)
	checks["redis"] = redisStatus

	criticalDown := dbStatus.Status == "down"
	redisDown := redisStatus.Status == "down"

	var status string
	var httpStatus int

	switch {
	case criticalDown:
		status = "down"
		httpStatus = http.StatusServiceUnavailable
	case redisDown:
		status = "degraded"
		httpStatus = http.StatusOK
	default:
		status = "ok"
		httpStatus = http.StatusOK
	}

	response := DetailsResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	logEvent := h.logger.With().
		Str("status", status).
		Float64("database_latency_ms", dbLatency).
		Float64("redis_latency_ms", redisLatency).
		Bool("database_healthy", dbStatus.Status == "up").
		Bool("redis_healthy", redisStatus.Status == "up").
		Logger()

	switch status {
	case "down":
		logEvent.Warn().Msg("readiness check failed: database down")
	case "degraded":
		logEvent.Warn().Msg("readiness check degraded: redis down")
	default:
		logEvent.Debug().Msg("readiness check succeeded")
	}

	if err := EncodeJSON(w, httpStatus, response); err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to encode readiness response")
	}
}

// checkDatabase verifies PostgreSQL database connectivity and measures latency.
func (h *HealthHandler) checkDatabase(ctx context.Context) (CheckDetails, float64) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := postgres.HealthCheck(checkCtx, h.db)
	latency := time.Since(start).Seconds() * 1000

	if err != nil {
		h.logger.Warn().
			Err(err).
			Float64("latency_ms", latency).
			Msg("database health check failed")

		return CheckDetails{
			Status:    "down",
			LatencyMs: latency,
			Error:     err.Error(),
		}, latency
	}

	return CheckDetails{
		Status:    "up",
		LatencyMs: latency,
	}, latency
}

// checkRedis verifies Redis connectivity and measures latency.
func (h *HealthHandler) checkRedis(ctx context.Context) (CheckDetails, float64) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()

	if h.redis == nil {
		latency := time.Since(start).Seconds() * 1000
		h.logger.Warn().
			Float64("latency_ms", latency).
			Msg("redis client is nil")

		return CheckDetails{
			Status:    "down",
			LatencyMs: latency,
			Error:     "redis client not configured",
		}, latency
	}

	err := h.redis.HealthCheck(checkCtx)
	latency := time.Since(start).Seconds() * 1000

	if err != nil {
		h.logger.Warn().
			Err(err).
			Float64("latency_ms", latency).
			Msg("redis health check failed")

		return CheckDetails{
			Status:    "down",
			LatencyMs: latency,
			Error:     err.Error(),
		}, latency
	}

	return CheckDetails{
		Status:    "up",
		LatencyMs: latency,
	}, latency
}
