// Package throttle implements the three-tier adaptive rate limiter: a
// sliding-window counter per tier with a progressive delay band and a
// penalty mode that releases one attempt per minute once a client is
// blocked. All state lives behind the cache.Cache contract so the
// engine itself never talks to Redis directly.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/yegamble/licensevault/internal/application/cache"
)

// Decision is the outcome of evaluating a single tier.
type Decision int

const (
	// Allowed means the request may proceed without delay.
	Allowed Decision = iota
	// Throttled means the request may proceed after DelayMs has elapsed.
	Throttled
	// Blocked means the request must be rejected with 429.
	Blocked
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Throttled:
		return "throttled"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// TierConfig configures one tier of the throttle engine.
type TierConfig struct {
	// ThrottleThreshold is the request count within the window above which
	// requests start being delayed instead of allowed outright.
	ThrottleThreshold int
	// MaxRequestsPerMinute is the request count within the window above
	// which requests are blocked and a penalty begins.
	MaxRequestsPerMinute int
	// WindowSeconds is the sliding-window duration for the raw counter.
	WindowSeconds int
	// MaxDelayMs is the ceiling for the progressive delay applied to
	// Throttled requests.
	MaxDelayMs int
	// PenaltySeconds is the TTL applied to the penalty and penalty-used
	// counters once a tier transitions into penalty mode.
	PenaltySeconds int
}

func (c TierConfig) window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

func (c TierConfig) penalty() time.Duration {
	return time.Duration(c.PenaltySeconds) * time.Second
}

// Result carries the outcome of Engine.Evaluate plus the fields the HTTP
// layer needs to build headers and the 429 response body.
type Result struct {
	Decision                Decision
	DelayMs                 int
	Limit                   int
	Remaining               int
	RetryAfterSeconds       int
	InPenalty               bool
	PenaltyRemainingSeconds int
}

// Evaluator decides the fate of one request against a tier. Engine is the
// production implementation; NoopEvaluator disables throttling wholesale
// and is the seam integration tests inject instead of having business code
// inspect environment names.
type Evaluator interface {
	Evaluate(ctx context.Context, key string, cfg TierConfig) (Result, error)
}

// NoopEvaluator admits every request without counting.
type NoopEvaluator struct{}

// Evaluate implements Evaluator: always Allowed, window untouched.
func (NoopEvaluator) Evaluate(_ context.Context, _ string, cfg TierConfig) (Result, error) {
	return Result{
		Decision:  Allowed,
		Limit:     cfg.MaxRequestsPerMinute,
		Remaining: cfg.MaxRequestsPerMinute,
	}, nil
}

// Engine evaluates throttle tiers against a shared KV cache. It holds no
// per-request state; Key namespacing (global/user/auth) is the caller's
// responsibility.
type Engine struct {
	cache cache.Cache
	now   func() time.Time
}

// NewEngine builds an Engine backed by c.
func NewEngine(c cache.Cache) *Engine {
	return &Engine{cache: c, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the engine's time source, used by tests to exercise
// penalty decay without sleeping real wall-clock seconds.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Evaluate applies the sliding-window / penalty-mode algorithm
// to key under cfg and returns the decision for this request.
func (e *Engine) Evaluate(ctx context.Context, key string, cfg TierConfig) (Result, error) {
	penaltyKey := key + ":penalty"

	var penaltyStart int64
	err := e.cache.Get(ctx, penaltyKey, &penaltyStart)
	switch {
	case err == nil:
		return e.evaluatePenalty(ctx, key, cfg, penaltyStart)
	case errors.Is(err, cache.ErrKeyNotFound):
		return e.evaluateNormal(ctx, key, cfg)
	default:
		return Result{}, fmt.Errorf("throttle: read penalty marker: %w", err)
	}
}

func (e *Engine) evaluateNormal(ctx context.Context, key string, cfg TierConfig) (Result, error) {
	count, err := e.cache.Increment(ctx, key, cfg.window())
	if err != nil {
		return Result{}, fmt.Errorf("throttle: increment counter: %w", err)
	}

	switch {
	case count <= int64(cfg.ThrottleThreshold):
		return Result{
			Decision:  Allowed,
			Limit:     cfg.MaxRequestsPerMinute,
			Remaining: cfg.MaxRequestsPerMinute - int(count),
		}, nil

	case count <= int64(cfg.MaxRequestsPerMinute):
		delay := progressiveDelay(count, cfg)
		return Result{
			Decision:  Throttled,
			DelayMs:   delay,
			Limit:     cfg.MaxRequestsPerMinute,
			Remaining: cfg.MaxRequestsPerMinute - int(count),
		}, nil

	default:
		now := e.now().Unix()
		if err := e.cache.Set(ctx, key+":penalty", now, cfg.penalty()); err != nil {
			return Result{}, fmt.Errorf("throttle: set penalty marker: %w", err)
		}
		return Result{
			Decision:                Blocked,
			Limit:                   cfg.MaxRequestsPerMinute,
			RetryAfterSeconds:       cfg.WindowSeconds,
			InPenalty:               true,
			PenaltyRemainingSeconds: cfg.PenaltySeconds,
		}, nil
	}
}

// progressiveDelay computes the deterministic quadratic delay for a request
// count that has crossed the throttle threshold but not yet the block
// ceiling: ratio = clamp((count-threshold)/(max-threshold), 0, 1),
// delay = clamp(round(maxDelayMs * ratio^2), 0, maxDelayMs).
func progressiveDelay(count int64, cfg TierConfig) int {
	span := float64(cfg.MaxRequestsPerMinute - cfg.ThrottleThreshold)
	if span <= 0 {
		return cfg.MaxDelayMs
	}
	ratio := (float64(count) - float64(cfg.ThrottleThreshold)) / span
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	delay := int(math.Round(float64(cfg.MaxDelayMs) * ratio * ratio))
	if delay < 0 {
		delay = 0
	}
	if delay > cfg.MaxDelayMs {
		delay = cfg.MaxDelayMs
	}
	return delay
}

func (e *Engine) evaluatePenalty(ctx context.Context, key string, cfg TierConfig, penaltyStart int64) (Result, error) {
	now := e.now().Unix()
	elapsedSeconds := now - penaltyStart
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	elapsedMinutes := elapsedSeconds / 60

	usedKey := key + ":penalty_used"
	var used int64
	err := e.cache.Get(ctx, usedKey, &used)
	if err != nil && !errors.Is(err, cache.ErrKeyNotFound) {
		return Result{}, fmt.Errorf("throttle: read penalty_used: %w", err)
	}

	nextAttempt := 60 - int(elapsedSeconds%60)

	if used >= elapsedMinutes {
		if elapsedMinutes > 0 {
			// The released attempts for this penalty window are exhausted;
			// restart the penalty clock.
			if err := e.cache.Set(ctx, key+":penalty", now, cfg.penalty()); err != nil {
				return Result{}, fmt.Errorf("throttle: reset penalty marker: %w", err)
			}
			if err := e.cache.Delete(ctx, usedKey); err != nil {
				return Result{}, fmt.Errorf("throttle: clear penalty_used: %w", err)
			}
			return Result{
				Decision:                Blocked,
				InPenalty:               true,
				RetryAfterSeconds:       60,
				PenaltyRemainingSeconds: cfg.PenaltySeconds,
			}, nil
		}

		// First-minute hit: block without touching the original clock.
		return Result{
			Decision:                Blocked,
			InPenalty:               true,
			RetryAfterSeconds:       nextAttempt,
			PenaltyRemainingSeconds: cfg.PenaltySeconds - int(elapsedSeconds),
		}, nil
	}

	if _, err := e.cache.Increment(ctx, usedKey, cfg.penalty()); err != nil {
		return Result{}, fmt.Errorf("throttle: increment penalty_used: %w", err)
	}

	return Result{
		Decision:                Allowed,
		InPenalty:               true,
		Remaining:               int(elapsedMinutes - used - 1),
		PenaltyRemainingSeconds: cfg.PenaltySeconds - int(elapsedSeconds),
	}, nil
}
