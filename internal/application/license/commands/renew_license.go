package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	applicense "github.com/yegamble/licensevault/internal/application/license"
	"github.com/yegamble/licensevault/internal/application/license/dto"
	"github.com/yegamble/licensevault/internal/domain/license"
)

// RenewLicenseCommand represents the intent to move an Expired license back
// to Active with a new expiry. Forbidden from Revoked.
type RenewLicenseCommand struct {
	LicenseID    string
	NewExpiresAt time.Time
}

// RenewLicenseHandler renews an Expired license.
type RenewLicenseHandler struct {
	licenses license.Repository
	logger   *zerolog.Logger
}

// NewRenewLicenseHandler creates a new RenewLicenseHandler.
func NewRenewLicenseHandler(licenses license.Repository, logger *zerolog.Logger) *RenewLicenseHandler {
	return &RenewLicenseHandler{licenses: licenses, logger: logger}
}

// Handle renews the license identified by cmd.LicenseID.
func (h *RenewLicenseHandler) Handle(ctx context.Context, cmd RenewLicenseCommand) (*dto.LicenseDTO, error) {
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

	if err := lic.Renew(cmd.NewExpiresAt); err != nil {
		switch {
		case errors.Is(err, license.ErrInvalidStatusTransition):
			return nil, applicense.ErrInvalidStatusTransition
		case errors.Is(err, license.ErrInvalidExpiry):
			return nil, applicense.ErrInvalidExpiry
		default:
			return nil, fmt.Errorf("renew: %w", err)
		}
	}

	if err := h.licenses.Save(ctx, lic); err != nil {
		return nil, fmt.Errorf("save license: %w", err)
	}

	h.logger.Info().Str("license_id", lic.ID().String()).Msg("license renewed")

	out := dto.FromDomain(lic, false)
	return &out, nil
}
