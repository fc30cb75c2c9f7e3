package license

import (
	"time"

	"github.com/yegamble/licensevault/internal/domain/shared"
)

// LicenseCreated is emitted when a new license is issued.
type LicenseCreated struct {
	shared.BaseEvent
	LicenseID LicenseID
	UserID    string
	ExpiresAt time.Time
}

// NewLicenseCreated creates a new LicenseCreated event.
func NewLicenseCreated(id LicenseID, userID string, expiresAt time.Time) LicenseCreated {
	return LicenseCreated{
		BaseEvent: shared.NewBaseEvent("license.created", id.String()),
		LicenseID: id,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
}

// LicenseRevoked is emitted when a license is revoked.
type LicenseRevoked struct {
	shared.BaseEvent
	LicenseID LicenseID
	Reason    string
}

// NewLicenseRevoked creates a new LicenseRevoked event.
func NewLicenseRevoked(id LicenseID, reason string) LicenseRevoked {
	return LicenseRevoked{
		BaseEvent: shared.NewBaseEvent("license.revoked", id.String()),
		LicenseID: id,
		Reason:    reason,
	}
}

// LicenseExpired is emitted when the expiration worker transitions a
// license to Expired.
type LicenseExpired struct {
	shared.BaseEvent
	LicenseID LicenseID
}

// NewLicenseExpired creates a new LicenseExpired event.
func NewLicenseExpired(id LicenseID) LicenseExpired {
	return LicenseExpired{
		BaseEvent: shared.NewBaseEvent("license.expired", id.String()),
		LicenseID: id,
	}
}

// LicenseRenewed is emitted when an Expired license is renewed back to Active.
type LicenseRenewed struct {
	shared.BaseEvent
	LicenseID    LicenseID
	NewExpiresAt time.Time
}

// NewLicenseRenewed creates a new LicenseRenewed event.
func NewLicenseRenewed(id LicenseID, newExpiresAt time.Time) LicenseRenewed {
	return LicenseRenewed{
		BaseEvent:    shared.NewBaseEvent("license.renewed", id.String()),
		LicenseID:    id,
		NewExpiresAt: newExpiresAt,
	}
}

// ActivationCreated is emitted when a device activates a license for the
// first time.
type ActivationCreated struct {
	shared.BaseEvent
	LicenseID   LicenseID
	Fingerprint string
}

// NewActivationCreated creates a new ActivationCreated event.
func NewActivationCreated(licenseID LicenseID, fingerprint string) ActivationCreated {
	return ActivationCreated{
		BaseEvent:   shared.NewBaseEvent("license.activation.created", licenseID.String()),
		LicenseID:   licenseID,
		Fingerprint: fingerprint,
	}
}

// ActivationDeactivated is emitted when a device activation is released.
type ActivationDeactivated struct {
	shared.BaseEvent
	LicenseID   LicenseID
	Fingerprint string
}

// NewActivationDeactivated creates a new ActivationDeactivated event.
func NewActivationDeactivated(licenseID LicenseID, fingerprint string) ActivationDeactivated {
	return ActivationDeactivated{
		BaseEvent:   shared.NewBaseEvent("license.activation.deactivated", licenseID.String()),
		LicenseID:   licenseID,
		Fingerprint: fingerprint,
	}
}
