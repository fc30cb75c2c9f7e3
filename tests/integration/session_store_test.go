//go:build integration
// +build integration

package integration_test

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegamble/licensevault/internal/application/cache"
	inframredis "github.com/yegamble/licensevault/internal/infrastructure/persistence/redis"
	"github.com/yegamble/licensevault/internal/infrastructure/security/jwt"
	"github.com/yegamble/licensevault/tests/integration/containers"
	"github.com/yegamble/licensevault/tests/integration/fixtures"
)

// newCache builds the typed KV cache over the suite's Redis container.
func newCache(t *testing.T, suite *containers.IntegrationTestSuite) cache.Cache {
	t.Helper()

	host, portStr, err := net.SplitHostPort(suite.Redis.Addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	client, err := inframredis.NewClient(inframredis.Config{
		Host:     host,
		Port:     port,
		PoolSize: 10,
		MinIdle:  2,
		MaxRetry: 3,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return inframredis.NewCache(client)
}

func newTokenService(t *testing.T, store *jwt.SessionStore) *jwt.TokenService {
	t.Helper()

	cfg := jwt.DefaultConfig()
	cfg.Secret = fixtures.TestJWTSecret
	cfg.Issuer = fixtures.TestJWTIssuer
	cfg.Audience = fixtures.TestJWTAudience
	svc, err := jwt.NewService(cfg)
	require.NoError(t, err)

	return jwt.NewTokenService(svc, store)
}

// TestSessionStore_ForwardReverseInvariant covers the two-index contract: a
// stored record is reachable both by (userID, jti) and by its token hash.
func TestSessionStore_ForwardReverseInvariant(t *testing.T) {
	suite := containers.NewIntegrationTestSuite(t)
	ctx := context.Background()

	store := jwt.NewSessionStore(newCache(t, suite))

	userID := uuid.New()
	session := fixtures.ValidSession(t, userID)
	require.NoError(t, store.Put(ctx, session.Record))

	byJTI, err := store.GetByJTI(ctx, session.Record.UserID, session.Record.JTI)
	require.NoError(t, err)
	assert.Equal(t, session.Record.TokenHash, byJTI.TokenHash)

	byHash, err := store.GetByTokenHash(ctx, jwt.HashToken(session.Token))
	require.NoError(t, err)
	assert.Equal(t, session.Record.JTI, byHash.JTI)
	assert.Equal(t, session.Record.UserID, byHash.UserID)
}

// TestSessionStore_RevokeDropsReverseEntry verifies that revocation marks
// the forward record and removes the O(1) lookup path, and that revoking
// twice is harmless.
func TestSessionStore_RevokeDropsReverseEntry(t *testing.T) {
	suite := containers.NewIntegrationTestSuite(t)
	ctx := context.Background()

	store := jwt.NewSessionStore(newCache(t, suite))

	userID := uuid.New()
	session := fixtures.ValidSession(t, userID)
	require.NoError(t, store.Put(ctx, session.Record))

	require.NoError(t, store.Revoke(ctx, session.Record.UserID, session.Record.JTI))

	_, err := store.GetByTokenHash(ctx, jwt.HashToken(session.Token))
	assert.ErrorIs(t, err, cache.ErrKeyNotFound, "reverse entry must be gone after revoke")

	rec, err := store.GetByJTI(ctx, session.Record.UserID, session.Record.JTI)
	require.NoError(t, err)
	assert.True(t, rec.Revoked, "forward record must carry the revoked tombstone")

	// Idempotence: a second revoke is a no-op, not an error.
	require.NoError(t, store.Revoke(ctx, session.Record.UserID, session.Record.JTI))

	live, err := store.IsLive(ctx, session.Record.UserID, session.Record.JTI)
	require.NoError(t, err)
	assert.False(t, live)
}

// TestSessionStore_RevokeAll verifies the pattern-scan bulk revocation used
// by logout-all and password changes.
func TestSessionStore_RevokeAll(t *testing.T) {
	suite := containers.NewIntegrationTestSuite(t)
	ctx := context.Background()

	store := jwt.NewSessionStore(newCache(t, suite))

	userID := uuid.New()
	sessions := make([]*fixtures.SessionFixture, 3)
	for i := range sessions {
		sessions[i] = fixtures.ValidSession(t, userID)
		require.NoError(t, store.Put(ctx, sessions[i].Record))
	}

	// Another user's session must be untouched by the scan.
	other := fixtures.ValidSession(t, uuid.New())
	require.NoError(t, store.Put(ctx, other.Record))

	revoked, err := store.RevokeAll(ctx, userID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, revoked)

	for _, s := range sessions {
		live, err := store.IsLive(ctx, s.Record.UserID, s.Record.JTI)
		require.NoError(t, err)
		assert.False(t, live)
	}

	live, err := store.IsLive(ctx, other.Record.UserID, other.Record.JTI)
	require.NoError(t, err)
	assert.True(t, live, "revoke-all must not cross user boundaries")
}

// TestTokenService_RefreshRotation covers the core rotation contract: a
// refresh token can be redeemed exactly once, the rotated token works, and
// the session keeps its jti across rotations.
func TestTokenService_RefreshRotation(t *testing.T) {
	suite := containers.NewIntegrationTestSuite(t)
	ctx := context.Background()

	store := jwt.NewSessionStore(newCache(t, suite))
	tokens := newTokenService(t, store)

	claims := jwt.UserClaims{
		UserID: uuid.New().String(),
		Email:  "test@example.com",
		Role:   "user",
	}

	_, refresh1, _, err := tokens.IssueSession(ctx, claims)
	require.NoError(t, err)

	rec1, err := store.GetByTokenHash(ctx, jwt.HashToken(refresh1))
	require.NoError(t, err)

	// First redemption succeeds and rotates.
	_, refresh2, _, err := tokens.Refresh(ctx, claims, refresh1)
	require.NoError(t, err)
	require.NotEqual(t, refresh1, refresh2)

	// The session survives rotation under the same jti.
	rec2, err := store.GetByTokenHash(ctx, jwt.HashToken(refresh2))
	require.NoError(t, err)
	assert.Equal(t, rec1.JTI, rec2.JTI)
	assert.False(t, rec2.Revoked)

	live, err := tokens.IsSessionLive(ctx, claims.UserID, rec1.JTI)
	require.NoError(t, err)
	assert.True(t, live, "rotation must not kill the session")

	// Second redemption of the original token fails.
	_, _, _, err = tokens.Refresh(ctx, claims, refresh1)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenNotFound)

	// The rotated token still works.
	_, refresh3, _, err := tokens.Refresh(ctx, claims, refresh2)
	require.NoError(t, err)
	require.NotEmpty(t, refresh3)
}

// TestTokenService_RevokeByRefreshToken covers the single-browser-session
// rule's primitive: revoking by presented token, no-op when unknown.
func TestTokenService_RevokeByRefreshToken(t *testing.T) {
	suite := containers.NewIntegrationTestSuite(t)
	ctx := context.Background()

	store := jwt.NewSessionStore(newCache(t, suite))
	tokens := newTokenService(t, store)

	claims := jwt.UserClaims{
		UserID: uuid.New().String(),
		Email:  "test@example.com",
		Role:   "user",
	}

	_, refresh, _, err := tokens.IssueSession(ctx, claims)
	require.NoError(t, err)

	ok, err := tokens.ValidateRefresh(ctx, refresh)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, tokens.RevokeByRefreshToken(ctx, refresh))

	ok, err = tokens.ValidateRefresh(ctx, refresh)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown tokens are a no-op, never an error.
	require.NoError(t, tokens.RevokeByRefreshToken(ctx, "not-a-real-token"))
}

// TestSessionStore_ListByUser verifies the account-surface session listing.
func TestSessionStore_ListByUser(t *testing.T) {
	suite := containers.NewIntegrationTestSuite(t)
	ctx := context.Background()

	store := jwt.NewSessionStore(newCache(t, suite))

	userID := uuid.New()
	live := fixtures.ValidSession(t, userID)
	revoked := fixtures.RevokedSession(t, userID)
	require.NoError(t, store.Put(ctx, live.Record))
	require.NoError(t, store.Put(ctx, revoked.Record))

	recs, err := store.ListByUser(ctx, userID.String())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	liveCount := 0
	for _, rec := range recs {
		if !rec.Revoked {
			liveCount++
			assert.Equal(t, live.Record.JTI, rec.JTI)
		}
	}
	assert.Equal(t, 1, liveCount)
}
