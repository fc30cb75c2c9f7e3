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

// ActivateLicenseCommand represents the intent to claim an activation slot
// on a license for a device, or heartbeat an existing one.
type ActivateLicenseCommand struct {
	LicenseKey  string
	Fingerprint string
	Hostname    *string
	IPAddress   *string
}

// ActivateLicenseHandler runs the activation contract: the
// Save call is expected to serialize concurrent activations for the same
// license so the activation-cap check stays correct (per-license critical
// section, e.g. SELECT ... FOR UPDATE in the repository implementation).
type ActivateLicenseHandler struct {
	licenses license.Repository
	logger   *zerolog.Logger
}

// NewActivateLicenseHandler creates a new ActivateLicenseHandler.
func NewActivateLicenseHandler(licenses license.Repository, logger *zerolog.Logger) *ActivateLicenseHandler {
	return &ActivateLicenseHandler{licenses: licenses, logger: logger}
}

// Handle loads the license by key, runs the activation/heartbeat contract,
// and persists the result.
func (h *ActivateLicenseHandler) Handle(ctx context.Context, cmd ActivateLicenseCommand) (*dto.ActivationDTO, error) {
	key, err := license.ParseLicenseKey(cmd.LicenseKey)
	if err != nil {
		return nil, applicense.ErrNotFound
	}

	lic, err := h.licenses.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, license.ErrLicenseNotFound) {
			return nil, applicense.ErrNotFound
		}
		return nil, fmt.Errorf("find license by key: %w", err)
	}

	activation, err := lic.Activate(cmd.Fingerprint, cmd.Hostname, cmd.IPAddress)
	if err != nil {
		switch {
		case errors.Is(err, license.ErrActivationLimitReached):
			return nil, applicense.ErrActivationLimitReached
		case errors.Is(err, license.ErrLicenseNotActive):
			return nil, applicense.ErrLicenseNotActive
		default:
			return nil, fmt.Errorf("activate: %w", err)
		}
	}

	if err := h.licenses.Save(ctx, lic); err != nil {
		if errors.Is(err, license.ErrActivationLimitReached) {
			return nil, applicense.ErrActivationLimitReached
		}
		return nil, fmt.Errorf("save license: %w", err)
	}

	h.logger.Info().
		Str("license_id", lic.ID().String()).
		Str("fingerprint", cmd.Fingerprint).
		Msg("license activated")

	out := dto.ActivationFromDomain(*activation)
	return &out, nil
}
