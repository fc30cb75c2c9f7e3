package verification_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	infraredis "github.com/yegamble/licensevault/internal/infrastructure/persistence/redis"
	"github.com/yegamble/licensevault/internal/infrastructure/security/verification"
)

func newTestStore(t *testing.T) *verification.Store {
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

	return verification.NewStore(infraredis.NewCache(client))
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	require.NoError(t, err)
	return n
}

func TestStore_EmailVerification_RoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutEmailVerification(ctx, "tok-1", "user-1"))

	userID, err := store.ConsumeEmailVerification(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestStore_EmailVerification_SingleUse(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutEmailVerification(ctx, "tok-1", "user-1"))
	_, err := store.ConsumeEmailVerification(ctx, "tok-1")
	require.NoError(t, err)

	_, err = store.ConsumeEmailVerification(ctx, "tok-1")
	require.Error(t, err)
}

func TestStore_PasswordReset_RoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutPasswordReset(ctx, "tok-2", "user-2"))

	userID, err := store.ConsumePasswordReset(ctx, "tok-2")
	require.NoError(t, err)
	require.Equal(t, "user-2", userID)
}

func TestStore_UnknownToken(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.ConsumeEmailVerification(ctx, "missing")
	require.Error(t, err)

	_, err = store.ConsumePasswordReset(ctx, "missing")
	require.Error(t, err)
}

func TestStore_KeyspacesDoNotCollide(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	// Same token value used for both kinds must resolve independently.
	require.NoError(t, store.PutEmailVerification(ctx, "shared-token", "user-a"))
	require.NoError(t, store.PutPasswordReset(ctx, "shared-token", "user-b"))

	emailUser, err := store.ConsumeEmailVerification(ctx, "shared-token")
	require.NoError(t, err)
	require.Equal(t, "user-a", emailUser)

	resetUser, err := store.ConsumePasswordReset(ctx, "shared-token")
	require.NoError(t, err)
	require.Equal(t, "user-b", resetUser)
}
