package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applicense "github.com/yegamble/licensevault/internal/application/license"
	"github.com/yegamble/licensevault/internal/application/license/commands"
	"github.com/yegamble/licensevault/internal/application/license/testhelpers"
)

func TestCreateLicenseHandler_Handle(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()

	t.Run("issues a new license", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		handler := commands.NewCreateLicenseHandler(repo, applicense.DefaultPolicy(), &logger)

		out, err := handler.Handle(context.Background(), commands.CreateLicenseCommand{
			UserID:         "user-1",
			ExpiresAt:      time.Now().UTC().Add(24 * time.Hour),
			MaxActivations: 3,
		})

		require.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, "user-1", out.UserID)
		assert.Equal(t, "active", out.Status)
	})

	t.Run("rejects a second active license when policy enforces one per user", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		handler := commands.NewCreateLicenseHandler(repo, applicense.Policy{EnforceSingleActiveLicensePerUser: true}, &logger)

		ctx := context.Background()
		_, err := handler.Handle(ctx, commands.CreateLicenseCommand{
			UserID:    "user-1",
			ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		})
		require.NoError(t, err)

		_, err = handler.Handle(ctx, commands.CreateLicenseCommand{
			UserID:    "user-1",
			ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		})
		require.ErrorIs(t, err, applicense.ErrConflict)
	})

	t.Run("allows a second active license when the policy is off", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		handler := commands.NewCreateLicenseHandler(repo, applicense.Policy{EnforceSingleActiveLicensePerUser: false}, &logger)

		ctx := context.Background()
		_, err := handler.Handle(ctx, commands.CreateLicenseCommand{
			UserID:    "user-1",
			ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		})
		require.NoError(t, err)

		_, err = handler.Handle(ctx, commands.CreateLicenseCommand{
			UserID:    "user-1",
			ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		})
		require.NoError(t, err)
	})

	t.Run("rejects an expiry in the past", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		handler := commands.NewCreateLicenseHandler(repo, applicense.DefaultPolicy(), &logger)

		_, err := handler.Handle(context.Background(), commands.CreateLicenseCommand{
			UserID:    "user-1",
			ExpiresAt: time.Now().UTC().Add(-time.Hour),
		})
		require.ErrorIs(t, err, applicense.ErrInvalidExpiry)
	})
}
