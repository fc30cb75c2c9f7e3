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

// CreateLicenseCommand represents the intent to issue a new license for a
// user (admin operation).
type CreateLicenseCommand struct {
	UserID         string
	ExpiresAt      time.Time
	MaxActivations int
}

// CreateLicenseHandler orchestrates license issuance, enforcing the
// single-active-license policy switch when enabled.
type CreateLicenseHandler struct {
	licenses license.Repository
	policy   applicense.Policy
	logger   *zerolog.Logger
}

// NewCreateLicenseHandler creates a new CreateLicenseHandler.
func NewCreateLicenseHandler(licenses license.Repository, policy applicense.Policy, logger *zerolog.Logger) *CreateLicenseHandler {
	return &CreateLicenseHandler{licenses: licenses, policy: policy, logger: logger}
}

// Handle issues a new Active license for cmd.UserID. When the
// EnforceSingleActiveLicensePerUser policy is on, a second concurrent
// Active license for the same user is rejected with ErrConflict.
func (h *CreateLicenseHandler) Handle(ctx context.Context, cmd CreateLicenseCommand) (*dto.LicenseDTO, error) {
	if h.policy.EnforceSingleActiveLicensePerUser {
		existing, err := h.licenses.ListByUser(ctx, cmd.UserID)
		if err != nil {
			return nil, fmt.Errorf("list existing licenses: %w", err)
		}
		for _, lic := range existing {
			if lic.Status() == license.StatusActive {
				return nil, applicense.ErrConflict
			}
		}
	}

	lic, err := license.NewLicense(cmd.UserID, cmd.ExpiresAt, cmd.MaxActivations)
	if err != nil {
		if errors.Is(err, license.ErrInvalidExpiry) {
			return nil, applicense.ErrInvalidExpiry
		}
		return nil, fmt.Errorf("construct license: %w", err)
	}

	if err := h.licenses.Save(ctx, lic); err != nil {
		return nil, fmt.Errorf("save license: %w", err)
	}

	h.logger.Info().
		Str("license_id", lic.ID().String()).
		Str("user_id", cmd.UserID).
		Msg("license issued")

	out := dto.FromDomain(lic, false)
	return &out, nil
}
