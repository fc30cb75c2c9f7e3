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

// ValidateLicenseCommand represents the intent to confirm a license+device
// pair is currently usable. Despite being read-mostly, a successful
// validation bumps the activation's lastSeenAt, so it is modeled as a
// command rather than a query.
type ValidateLicenseCommand struct {
	LicenseKey  string
	Fingerprint string
}

// ValidateLicenseHandler runs the validation contract.
type ValidateLicenseHandler struct {
	licenses license.Repository
	logger   *zerolog.Logger
}

// NewValidateLicenseHandler creates a new ValidateLicenseHandler.
func NewValidateLicenseHandler(licenses license.Repository, logger *zerolog.Logger) *ValidateLicenseHandler {
	return &ValidateLicenseHandler{licenses: licenses, logger: logger}
}

// Handle returns the validation verdict for (licenseKey, fingerprint). An
// unknown license key maps to ErrNotFound; every other outcome is reported
// in the ValidationResultDTO itself (valid=false with a reason), never as
// an error, matching the client-SDK polling contract.
func (h *ValidateLicenseHandler) Handle(ctx context.Context, cmd ValidateLicenseCommand) (*dto.ValidationResultDTO, error) {
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

	result := lic.Validate(cmd.Fingerprint)

	if result.Valid {
		if err := h.licenses.Save(ctx, lic); err != nil {
			return nil, fmt.Errorf("save license: %w", err)
		}
	}

	out := dto.ValidationResultFromDomain(result)
	return &out, nil
}
