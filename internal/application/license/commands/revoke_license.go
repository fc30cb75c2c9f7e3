package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	applicense "github.com/yegamble/licensevault/internal/application/license"
	"github.com/yegamble/licensevault/internal/application/license/dto"
	"github.com/yegamble/licensevault/internal/domain/license"
)

// RevokeLicenseCommand represents the intent to revoke a single license
// (admin operation). Idempotent: revoking an already-Revoked license
// succeeds without error.
type RevokeLicenseCommand struct {
	LicenseID string
	Reason    string
}

// RevokeLicenseHandler moves a license to the terminal Revoked status.
type RevokeLicenseHandler struct {
	licenses license.Repository
	logger   *zerolog.Logger
}

// NewRevokeLicenseHandler creates a new RevokeLicenseHandler.
func NewRevokeLicenseHandler(licenses license.Repository, logger *zerolog.Logger) *RevokeLicenseHandler {
	return &RevokeLicenseHandler{licenses: licenses, logger: logger}
}

// Handle revokes the license identified by cmd.LicenseID.
func (h *RevokeLicenseHandler) Handle(ctx context.Context, cmd RevokeLicenseCommand) (*dto.LicenseDTO, error) {
	id, err := license.ParseLicenseID(cmd.LicenseID)
	if err != nil {
		return nil, applicense.ErrNotFound
	}

	lic, err := h.licenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, license.ErrLicenseNotFound) {
			return nil, applicense.ErrNotFound
		}
		return nil, fmt.Errorf("find license by id: %w", err)
	}

	if err := lic.Revoke(cmd.Reason); err != nil {
		return nil, fmt.Errorf("revoke: %w", err)
	}

	if err := h.licenses.Save(ctx, lic); err != nil {
		return nil, fmt.Errorf("save license: %w", err)
	}

	h.logger.Info().Str("license_id", lic.ID().String()).Msg("license revoked")

	out := dto.FromDomain(lic, false)
	return &out, nil
}

// BulkRevokeLicensesCommand represents the intent to revoke many licenses
// in one administrative action. Each license is revoked independently;
// failures on individual ids do not abort the rest.
type BulkRevokeLicensesCommand struct {
	LicenseIDs []string
	Reason     string
}

// BulkRevokeLicensesHandler revokes a batch of licenses by id.
type BulkRevokeLicensesHandler struct {
	licenses license.Repository
	logger   *zerolog.Logger
}

// NewBulkRevokeLicensesHandler creates a new BulkRevokeLicensesHandler.
func NewBulkRevokeLicensesHandler(licenses license.Repository, logger *zerolog.Logger) *BulkRevokeLicensesHandler {
	return &BulkRevokeLicensesHandler{licenses: licenses, logger: logger}
}

// Handle revokes every license in cmd.LicenseIDs, collecting the ids that
// could not be revoked (not found or save failure) rather than aborting.
func (h *BulkRevokeLicensesHandler) Handle(ctx context.Context, cmd BulkRevokeLicensesCommand) (*dto.BulkRevokeResultDTO, error) {
	result := &dto.BulkRevokeResultDTO{}

	for _, rawID := range cmd.LicenseIDs {
		id, err := license.ParseLicenseID(rawID)
		if err != nil {
			result.Failed = append(result.Failed, rawID)
			continue
		}

		lic, err := h.licenses.FindByID(ctx, id)
		if err != nil {
			result.Failed = append(result.Failed, rawID)
			continue
		}

		if err := lic.Revoke(cmd.Reason); err != nil {
			result.Failed = append(result.Failed, rawID)
			continue
		}

		if err := h.licenses.Save(ctx, lic); err != nil {
			result.Failed = append(result.Failed, rawID)
			continue
		}

		result.Revoked++
	}

	h.logger.Info().
		Int("revoked", result.Revoked).
		Int("failed", len(result.Failed)).
		Msg("bulk license revoke completed")

	return result, nil
}
