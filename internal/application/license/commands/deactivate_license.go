package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	applicense "github.com/yegamble/licensevault/internal/application/license"
	"github.com/yegamble/licensevault/internal/domain/license"
)

// DeactivateLicenseCommand represents the intent to release a device's
// activation slot on a license.
type DeactivateLicenseCommand struct {
	LicenseKey  string
	Fingerprint string
}

// DeactivateLicenseHandler releases a live activation, freeing its slot.
type DeactivateLicenseHandler struct {
	licenses license.Repository
	logger   *zerolog.Logger
}

// NewDeactivateLicenseHandler creates a new DeactivateLicenseHandler.
func NewDeactivateLicenseHandler(licenses license.Repository, logger *zerolog.Logger) *DeactivateLicenseHandler {
	return &DeactivateLicenseHandler{licenses: licenses, logger: logger}
}

// Handle releases the live activation for (licenseKey, fingerprint). A
// no-op (not an error) when no live activation matches.
func (h *DeactivateLicenseHandler) Handle(ctx context.Context, cmd DeactivateLicenseCommand) error {
	key, err := license.ParseLicenseKey(cmd.LicenseKey)
	if err != nil {
		return applicense.ErrNotFound
	}

	lic, err := h.licenses.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, license.ErrLicenseNotFound) {
			return applicense.ErrNotFound
		}
		return fmt.Errorf("find license by key: %w", err)
	}

	if err := lic.Deactivate(cmd.Fingerprint); err != nil {
		return fmt.Errorf("deactivate: %w", err)
	}

	if err := h.licenses.Save(ctx, lic); err != nil {
		return fmt.Errorf("save license: %w", err)
	}

	h.logger.Info().
		Str("license_id", lic.ID().String()).
		Str("fingerprint", cmd.Fingerprint).
		Msg("license activation deactivated")

	return nil
}
