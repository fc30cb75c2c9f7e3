package throttle_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/yegamble/licensevault/internal/application/throttle"
	infraredis "github.com/yegamble/licensevault/internal/infrastructure/persistence/redis"
)

// fakeClock lets tests advance the engine's notion of "now" without sleeping
// real wall-clock seconds; miniredis key TTLs are unaffected by it, which is
// fine since none of these tests rely on Redis-side expiry.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(t *testing.T) (*throttle.Engine, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)

	client, err := infraredis.NewClient(infraredis.Config{
		Host:     mr.Host(),
		Port:     mustAtoi(t, mr.Port()),
		PoolSize: 5,
		MinIdle:  1,
		MaxRetry: 1,
		Timeout:  1e9,
	})
	require.NoError(t, err)

	c := infraredis.NewCache(client)
	return throttle.NewEngine(c), mr
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	require.NoError(t, err)
	return n
}

func authTierConfig() throttle.TierConfig {
	return throttle.TierConfig{
		ThrottleThreshold:    3,
		MaxRequestsPerMinute: 5,
		WindowSeconds:        60,
		MaxDelayMs:           2000,
		PenaltySeconds:       300,
	}
}

func TestEngine_AllowedUnderThreshold(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	cfg := authTierConfig()

	for i := 0; i < 3; i++ {
		res, err := engine.Evaluate(ctx, "throttle:test:allowed", cfg)
		require.NoError(t, err)
		require.Equal(t, throttle.Allowed, res.Decision)
	}
}

func TestEngine_ThrottledBetweenThresholdAndMax(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	cfg := authTierConfig()
	key := "throttle:test:throttled"

	for i := 0; i < 3; i++ {
		_, err := engine.Evaluate(ctx, key, cfg)
		require.NoError(t, err)
	}

	res, err := engine.Evaluate(ctx, key, cfg) // count=4
	require.NoError(t, err)
	require.Equal(t, throttle.Throttled, res.Decision)
	require.Greater(t, res.DelayMs, 0)
	require.LessOrEqual(t, res.DelayMs, cfg.MaxDelayMs)

	res, err = engine.Evaluate(ctx, key, cfg) // count=5, still within max
	require.NoError(t, err)
	require.Equal(t, throttle.Throttled, res.Decision)
}

func TestEngine_BlockedAboveMax(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	cfg := authTierConfig()
	key := "throttle:test:blocked"

	for i := 0; i < 5; i++ {
		_, err := engine.Evaluate(ctx, key, cfg)
		require.NoError(t, err)
	}

	res, err := engine.Evaluate(ctx, key, cfg) // count=6
	require.NoError(t, err)
	require.Equal(t, throttle.Blocked, res.Decision)
	require.True(t, res.InPenalty, "the blocking request starts the penalty and must report it")
	require.Equal(t, cfg.WindowSeconds, res.RetryAfterSeconds)
}

func TestEngine_PenaltyFirstMinuteStaysBlocked(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(t)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	engine.WithClock(clock.now)
	ctx := context.Background()
	cfg := authTierConfig()
	key := "throttle:test:penalty-first"

	for i := 0; i < 6; i++ {
		_, err := engine.Evaluate(ctx, key, cfg)
		require.NoError(t, err)
	}

	clock.advance(30 * time.Second) // still within the first minute

	res, err := engine.Evaluate(ctx, key, cfg)
	require.NoError(t, err)
	require.Equal(t, throttle.Blocked, res.Decision)
	require.True(t, res.InPenalty)
}

func TestEngine_PenaltyDecayReleasesOneAttempt(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(t)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	engine.WithClock(clock.now)
	ctx := context.Background()
	cfg := authTierConfig()
	key := "throttle:test:penalty-decay"

	for i := 0; i < 6; i++ {
		_, err := engine.Evaluate(ctx, key, cfg)
		require.NoError(t, err)
	}

	clock.advance(65 * time.Second) // release one attempt past the penalty clock

	res, err := engine.Evaluate(ctx, key, cfg)
	require.NoError(t, err)
	require.Equal(t, throttle.Allowed, res.Decision)
	require.True(t, res.InPenalty)

	res, err = engine.Evaluate(ctx, key, cfg) // the released attempt is now consumed
	require.NoError(t, err)
	require.Equal(t, throttle.Blocked, res.Decision)
}
