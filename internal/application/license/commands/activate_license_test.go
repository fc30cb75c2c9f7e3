package commands_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applicense "github.com/yegamble/licensevault/internal/application/license"
	"github.com/yegamble/licensevault/internal/application/license/commands"
	"github.com/yegamble/licensevault/internal/application/license/testhelpers"
	"github.com/yegamble/licensevault/internal/domain/license"
)

func TestActivateLicenseHandler_Handle(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()

	t.Run("activates a new device", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		lic, err := license.NewLicense("user-1", time.Now().UTC().Add(24*time.Hour), 2)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), lic))

		handler := commands.NewActivateLicenseHandler(repo, &logger)
		out, err := handler.Handle(context.Background(), commands.ActivateLicenseCommand{
			LicenseKey:  lic.Key().String(),
			Fingerprint: "device-a",
		})
		require.NoError(t, err)
		assert.Equal(t, "device-a", out.Fingerprint)
	})

	t.Run("heartbeats an existing activation instead of creating a new one", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		lic, err := license.NewLicense("user-1", time.Now().UTC().Add(24*time.Hour), 1)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), lic))

		handler := commands.NewActivateLicenseHandler(repo, &logger)
		ctx := context.Background()

		_, err = handler.Handle(ctx, commands.ActivateLicenseCommand{
			LicenseKey:  lic.Key().String(),
			Fingerprint: "device-a",
		})
		require.NoError(t, err)

		_, err = handler.Handle(ctx, commands.ActivateLicenseCommand{
			LicenseKey:  lic.Key().String(),
			Fingerprint: "device-a",
		})
		require.NoError(t, err, "re-activating the same fingerprint should heartbeat, not hit the cap")

		stored, err := repo.FindByID(ctx, lic.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, stored.LiveActivationCount())
	})

	t.Run("rejects activation once the license is at capacity", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		lic, err := license.NewLicense("user-1", time.Now().UTC().Add(24*time.Hour), 1)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), lic))

		handler := commands.NewActivateLicenseHandler(repo, &logger)
		ctx := context.Background()

		_, err = handler.Handle(ctx, commands.ActivateLicenseCommand{
			LicenseKey:  lic.Key().String(),
			Fingerprint: "device-a",
		})
		require.NoError(t, err)

		_, err = handler.Handle(ctx, commands.ActivateLicenseCommand{
			LicenseKey:  lic.Key().String(),
			Fingerprint: "device-b",
		})
		require.ErrorIs(t, err, applicense.ErrActivationLimitReached)
	})

	t.Run("never admits more than maxActivations concurrent devices", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		const maxActivations = 3
		lic, err := license.NewLicense("user-1", time.Now().UTC().Add(24*time.Hour), maxActivations)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), lic))

		handler := commands.NewActivateLicenseHandler(repo, &logger)

		const attempts = 20
		var wg sync.WaitGroup
		var succeeded, rejected int32
		var mu sync.Mutex

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := handler.Handle(context.Background(), commands.ActivateLicenseCommand{
					LicenseKey:  lic.Key().String(),
					Fingerprint: fmt.Sprintf("device-%d", i),
				})
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					succeeded++
				} else {
					rejected++
				}
			}(i)
		}
		wg.Wait()

		assert.EqualValues(t, maxActivations, succeeded, "exactly maxActivations distinct devices should be admitted")
		assert.EqualValues(t, attempts-maxActivations, rejected)

		stored, err := repo.FindByID(context.Background(), lic.ID())
		require.NoError(t, err)
		assert.Equal(t, maxActivations, stored.LiveActivationCount(), "live activation count must never exceed the cap")
	})

	t.Run("unknown license key", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		handler := commands.NewActivateLicenseHandler(repo, &logger)

		_, err := handler.Handle(context.Background(), commands.ActivateLicenseCommand{
			LicenseKey:  "ZZZZZ-ZZZZZ-ZZZZZ-ZZZZZ-ZZZZZ",
			Fingerprint: "device-a",
		})
		require.ErrorIs(t, err, applicense.ErrNotFound)
	})
}
