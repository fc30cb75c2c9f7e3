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
	"github.com/yegamble/licensevault/internal/domain/license"
)

func newTestLicense(t *testing.T, repo *testhelpers.FakeLicenseRepository) *license.License {
	t.Helper()
	lic, err := license.NewLicense("user-1", time.Now().UTC().Add(24*time.Hour), 5)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), lic))
	return lic
}

func TestRevokeLicenseHandler_Handle(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()

	t.Run("revokes an active license", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		lic := newTestLicense(t, repo)
		handler := commands.NewRevokeLicenseHandler(repo, &logger)

		out, err := handler.Handle(context.Background(), commands.RevokeLicenseCommand{
			LicenseID: lic.ID().String(),
			Reason:    "chargeback",
		})
		require.NoError(t, err)
		assert.Equal(t, "revoked", out.Status)
		assert.Equal(t, "chargeback", out.RevokedReason)
	})

	t.Run("revoking twice is idempotent", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		lic := newTestLicense(t, repo)
		handler := commands.NewRevokeLicenseHandler(repo, &logger)

		ctx := context.Background()
		_, err := handler.Handle(ctx, commands.RevokeLicenseCommand{LicenseID: lic.ID().String(), Reason: "fraud"})
		require.NoError(t, err)

		out, err := handler.Handle(ctx, commands.RevokeLicenseCommand{LicenseID: lic.ID().String(), Reason: "duplicate request"})
		require.NoError(t, err)
		assert.Equal(t, "revoked", out.Status)
		assert.Equal(t, "fraud", out.RevokedReason, "the original revocation reason is preserved, not overwritten")
	})

	t.Run("unknown license id", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		handler := commands.NewRevokeLicenseHandler(repo, &logger)

		_, err := handler.Handle(context.Background(), commands.RevokeLicenseCommand{
			LicenseID: license.NewLicenseID().String(),
			Reason:    "fraud",
		})
		require.ErrorIs(t, err, applicense.ErrNotFound)
	})

	t.Run("malformed license id", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		handler := commands.NewRevokeLicenseHandler(repo, &logger)

		_, err := handler.Handle(context.Background(), commands.RevokeLicenseCommand{
			LicenseID: "not-a-uuid",
		})
		require.ErrorIs(t, err, applicense.ErrNotFound)
	})
}

func TestBulkRevokeLicensesHandler_Handle(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()

	t.Run("revokes the valid ids and reports the rest as failed", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		licA := newTestLicense(t, repo)
		licB := newTestLicense(t, repo)
		handler := commands.NewBulkRevokeLicensesHandler(repo, &logger)

		out, err := handler.Handle(context.Background(), commands.BulkRevokeLicensesCommand{
			LicenseIDs: []string{licA.ID().String(), licB.ID().String(), "not-a-uuid", license.NewLicenseID().String()},
			Reason:     "platform migration",
		})

		require.NoError(t, err, "bulk revoke never fails the whole batch over individual errors")
		assert.Equal(t, 2, out.Revoked)
		assert.Len(t, out.Failed, 2)

		stored, err := repo.FindByID(context.Background(), licA.ID())
		require.NoError(t, err)
		assert.Equal(t, license.StatusRevoked, stored.Status())
	})

	t.Run("empty batch revokes nothing and fails nothing", func(t *testing.T) {
		t.Parallel()

		repo := testhelpers.NewFakeLicenseRepository()
		handler := commands.NewBulkRevokeLicensesHandler(repo, &logger)

		out, err := handler.Handle(context.Background(), commands.BulkRevokeLicensesCommand{})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Revoked)
		assert.Empty(t, out.Failed)
	})
}
