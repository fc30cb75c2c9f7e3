package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/yegamble/licensevault/internal/application/throttle"
)

// ThrottleConfig holds the three tier configurations for the adaptive
// throttle engine plus the collaborators every tier's middleware needs.
type ThrottleConfig struct {
	// Engine evaluates sliding-window/penalty-mode decisions against the
	// shared KV cache. Tests may inject throttle.NoopEvaluator to disable
	// throttling without touching the middleware chain.
	Engine throttle.Evaluator

	// Global, User and Auth are the per-tier configurations described in
	// three tiers. User and Auth may be zero-valued if the corresponding
	// middleware is never mounted.
	Global throttle.TierConfig
	User   throttle.TierConfig
	Auth   throttle.TierConfig

	// MetricsCollector records throttle-exceeded metrics by tier.
	MetricsCollector *MetricsCollector

	// Logger is used to log throttle decisions.
	Logger zerolog.Logger

	// TrustProxy determines whether to trust X-Forwarded-For/X-Real-IP
	// headers for IP extraction. Only enable behind a trusted reverse
	// proxy.
	TrustProxy bool
}

// DefaultThrottleConfig returns the reference tier configuration:
// a permissive global tier, a
// more generous per-user tier, and a strict per-IP auth tier guarding
// login/register.
func DefaultThrottleConfig(engine *throttle.Engine, logger zerolog.Logger) ThrottleConfig {
	return ThrottleConfig{
		Engine: engine,
		Global: throttle.TierConfig{
			ThrottleThreshold:    60,
			MaxRequestsPerMinute: 100,
			WindowSeconds:        60,
			MaxDelayMs:           1000,
			PenaltySeconds:       300,
		},
		User: throttle.TierConfig{
			ThrottleThreshold:    200,
			MaxRequestsPerMinute: 300,
			WindowSeconds:        60,
			MaxDelayMs:           1000,
			PenaltySeconds:       300,
		},
		Auth: throttle.TierConfig{
			ThrottleThreshold:    3,
			MaxRequestsPerMinute: 5,
			WindowSeconds:        60,
			MaxDelayMs:           2000,
			PenaltySeconds:       900,
		},
		Logger:     logger,
		TrustProxy: false,
	}
}

// throttleResponseBody is the JSON body written on a Blocked decision:
// {statusCode, message, remainingAttempts, nextAttemptInSeconds,
// penaltyRemainingSeconds?, inPenalty}.
type throttleResponseBody struct {
	StatusCode              int    `json:"statusCode"`
	Message                 string `json:"message"`
	RemainingAttempts       int    `json:"remainingAttempts"`
	NextAttemptInSeconds    int    `json:"nextAttemptInSeconds"`
	PenaltyRemainingSeconds *int   `json:"penaltyRemainingSeconds,omitempty"`
	InPenalty               bool   `json:"inPenalty"`
}

// applyDecision sets the tier's response headers and, on Throttled, sleeps
// for the progressive delay before letting the request proceed. It returns
// false when the caller must stop processing (a Blocked response has
// already been written).
func applyDecision(w http.ResponseWriter, r *http.Request, cfg ThrottleConfig, tier string, res throttle.Result) bool {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

	switch res.Decision {
	case throttle.Allowed:
		return true

	case throttle.Throttled:
		w.Header().Set("X-Throttle-Delay", strconv.Itoa(res.DelayMs))
		sleepThrottleDelay(r.Context(), res.DelayMs)
		return true

	default: // throttle.Blocked
		if cfg.MetricsCollector != nil {
			cfg.MetricsCollector.RecordRateLimitExceeded(tier)
		}

		cfg.Logger.Warn().
			Str("event", "throttle_blocked").
			Str("tier", tier).
			Str("path", r.URL.Path).
			Bool("in_penalty", res.InPenalty).
			Str("request_id", GetRequestID(r.Context())).
			Msg("request blocked by throttle engine")

		w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfterSeconds))

		body := throttleResponseBody{
			StatusCode:           http.StatusTooManyRequests,
			Message:              fmt.Sprintf("Too many requests on the %s tier. Please slow down.", tier),
			RemainingAttempts:    0,
			NextAttemptInSeconds: res.RetryAfterSeconds,
			InPenalty:            res.InPenalty,
		}
		if res.InPenalty {
			remaining := res.PenaltyRemainingSeconds
			body.PenaltyRemainingSeconds = &remaining
		}

		writeThrottleBody(w, body)
		return false
	}
}

// GlobalThrottle creates the first-tier throttle middleware, keyed by
// client IP (throttle:global:{ip}).
func GlobalThrottle(cfg ThrottleConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := extractClientIP(r, cfg.TrustProxy)
			key := fmt.Sprintf("throttle:global:%s", ip)

			res, err := cfg.Engine.Evaluate(ctx, key, cfg.Global)
			if err != nil {
				cfg.Logger.Error().
					Err(err).
					Str("ip", ip).
					Str("request_id", GetRequestID(ctx)).
					Msg("global throttle evaluation failed")
				next.ServeHTTP(w, r)
				return
			}

			if applyDecision(w, r, cfg, "global", res) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// UserThrottle creates the second-tier throttle middleware, keyed by the
// authenticated subject (throttle:user:{userId}). Must be placed after
// JWTAuth.
func UserThrottle(cfg ThrottleConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := GetUserIDString(ctx)
			if !ok {
				// Unauthenticated requests skip the user tier entirely;
				// the global tier already covers them.
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("throttle:user:%s", userID)
			res, err := cfg.Engine.Evaluate(ctx, key, cfg.User)
			if err != nil {
				cfg.Logger.Error().
					Err(err).
					Str("user_id", userID).
					Str("request_id", GetRequestID(ctx)).
					Msg("user throttle evaluation failed")
				next.ServeHTTP(w, r)
				return
			}

			if applyDecision(w, r, cfg, "user", res) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// AuthThrottle creates the third-tier throttle middleware for login/register
// endpoints, keyed by IP+path (throttle:auth:{ip}:{path}).
func AuthThrottle(cfg ThrottleConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := extractClientIP(r, cfg.TrustProxy)
			key := fmt.Sprintf("throttle:auth:%s:%s", ip, r.URL.Path)

			res, err := cfg.Engine.Evaluate(ctx, key, cfg.Auth)
			if err != nil {
				cfg.Logger.Error().
					Err(err).
					Str("ip", ip).
					Str("path", r.URL.Path).
					Str("request_id", GetRequestID(ctx)).
					Msg("auth throttle evaluation failed")
				next.ServeHTTP(w, r)
				return
			}

			if applyDecision(w, r, cfg, "auth", res) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// sleepThrottleDelay blocks for the progressive delay assigned to a
// Throttled decision, honoring context cancellation so an aborted request
// doesn't hold a goroutine past its deadline.
func sleepThrottleDelay(ctx context.Context, delayMs int) {
	if delayMs <= 0 {
		return
	}
	timer := time.NewTimer(time.Duration(delayMs) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// writeThrottleBody writes the JSON body for a Blocked decision.
func writeThrottleBody(w http.ResponseWriter, body throttleResponseBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(body)
}

// extractClientIP extracts the client IP address from the request.
// If trustProxy is true, it checks X-Forwarded-For and X-Real-IP headers.
// Otherwise, it uses RemoteAddr directly.
func extractClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		return getClientIP(r) // Uses X-Forwarded-For logic
	}

	// Don't trust proxy headers - use RemoteAddr directly
	remoteAddr := r.RemoteAddr

	// Strip port if present
	for i := len(remoteAddr) - 1; i >= 0; i-- {
		if remoteAddr[i] == ':' {
			// IPv6 addresses are wrapped in brackets [::1]:8080
			if i > 0 && remoteAddr[0] == '[' {
				return remoteAddr[1 : i-1]
			}
			return remoteAddr[:i]
		}
	}

	return remoteAddr
}
