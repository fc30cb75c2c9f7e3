// Package dto provides data transfer objects for license operations.
package dto

import (
	"time"

	"github.com/yegamble/licensevault/internal/domain/license"
)

// ActivationDTO represents a single device activation in API responses.
type ActivationDTO struct {
	ID            string     `json:"id"`
	Fingerprint   string     `json:"fingerprint"`
	Hostname      *string    `json:"hostname,omitempty"`
	IPAddress     *string    `json:"ip_address,omitempty"`
	ActivatedAt   time.Time  `json:"activated_at"`
	LastSeenAt    time.Time  `json:"last_seen_at"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}

// ActivationFromDomain converts a domain Activation entity to its DTO.
func ActivationFromDomain(a license.Activation) ActivationDTO {
	return ActivationDTO{
		ID:            a.ID().String(),
		Fingerprint:   a.Fingerprint(),
		Hostname:      a.Hostname(),
		IPAddress:     a.IPAddress(),
		ActivatedAt:   a.CreatedAt(),
		LastSeenAt:    a.LastSeenAt(),
		DeactivatedAt: a.DeactivatedAt(),
	}
}

// LicenseDTO represents a license in API responses.
type LicenseDTO struct {
	ID             string          `json:"id"`
	LicenseKey     string          `json:"license_key"`
	UserID         string          `json:"user_id"`
	Status         string          `json:"status"`
	MaxActivations int             `json:"max_activations"`
	ExpiresAt      time.Time       `json:"expires_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	RevokedAt      *time.Time      `json:"revoked_at,omitempty"`
	RevokedReason  string          `json:"revoked_reason,omitempty"`
	Activations    []ActivationDTO `json:"activations,omitempty"`
}

// FromDomain converts a domain License aggregate to a LicenseDTO. Activation
// history is included only when includeActivations is true (list/bulk
// endpoints omit it to keep payloads small).
func FromDomain(lic *license.License, includeActivations bool) LicenseDTO {
	out := LicenseDTO{
		ID:             lic.ID().String(),
		LicenseKey:     lic.Key().String(),
		UserID:         lic.UserID(),
		Status:         lic.Status().String(),
		MaxActivations: lic.MaxActivations(),
		ExpiresAt:      lic.ExpiresAt(),
		CreatedAt:      lic.CreatedAt(),
		UpdatedAt:      lic.UpdatedAt(),
		RevokedAt:      lic.RevokedAt(),
		RevokedReason:  lic.RevokedReason(),
	}

	if includeActivations {
		activations := lic.Activations()
		out.Activations = make([]ActivationDTO, len(activations))
		for i, a := range activations {
			out.Activations[i] = ActivationFromDomain(a)
		}
	}

	return out
}

// ValidationResultDTO mirrors license.ValidationResult for API responses.
type ValidationResultDTO struct {
	Valid     bool      `json:"valid"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	Reason    string    `json:"reason,omitempty"`
}

// ValidationResultFromDomain converts a domain ValidationResult to its DTO.
func ValidationResultFromDomain(r license.ValidationResult) ValidationResultDTO {
	return ValidationResultDTO{
		Valid:     r.Valid,
		Status:    r.Status.String(),
		ExpiresAt: r.ExpiresAt,
		Reason:    r.Reason,
	}
}

// CreateLicenseDTO represents the request to issue a new license.
type CreateLicenseDTO struct {
	UserID         string    `json:"user_id" validate:"required,uuid"`
	ExpiresAt      time.Time `json:"expires_at" validate:"required"`
	MaxActivations int       `json:"max_activations"`
}

// ActivateLicenseDTO represents the request to activate or heartbeat a
// license for a device.
type ActivateLicenseDTO struct {
	LicenseKey  string  `json:"license_key" validate:"required"`
	Fingerprint string  `json:"fingerprint" validate:"required,min=8,max=256"`
	Hostname    *string `json:"hostname,omitempty"`
	IPAddress   *string `json:"ip_address,omitempty"`
}

// ValidateLicenseDTO represents the request to validate a license+device
// pair.
type ValidateLicenseDTO struct {
	LicenseKey  string `json:"license_key" validate:"required"`
	Fingerprint string `json:"fingerprint" validate:"required,min=8,max=256"`
}

// DeactivateLicenseDTO represents the request to release a device's
// activation slot.
type DeactivateLicenseDTO struct {
	LicenseKey  string `json:"license_key" validate:"required"`
	Fingerprint string `json:"fingerprint" validate:"required,min=8,max=256"`
}

// RenewLicenseDTO represents the request to renew an Expired license.
type RenewLicenseDTO struct {
	NewExpiresAt time.Time `json:"new_expires_at" validate:"required"`
}

// RevokeLicenseDTO represents the request to revoke a license.
type RevokeLicenseDTO struct {
	Reason string `json:"reason,omitempty"`
}

// BulkRevokeLicensesDTO represents the request to revoke many licenses at
// once (admin operation).
type BulkRevokeLicensesDTO struct {
	LicenseIDs []string `json:"license_ids" validate:"required,min=1,dive,uuid"`
	Reason     string   `json:"reason,omitempty"`
}

// BulkRevokeResultDTO reports the outcome of a bulk revoke.
type BulkRevokeResultDTO struct {
	Revoked int      `json:"revoked"`
	Failed  []string `json:"failed,omitempty"`
}

// AuditEntryDTO represents one audit-log row in API responses.
type AuditEntryDTO struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	LicenseID *string   `json:"license_id,omitempty"`
	UserID    *string   `json:"user_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditEntryFromDomain converts a domain AuditEntry to its DTO.
func AuditEntryFromDomain(e license.AuditEntry) AuditEntryDTO {
	var licenseID *string
	if e.LicenseID != nil {
		s := e.LicenseID.String()
		licenseID = &s
	}
	return AuditEntryDTO{
		ID:        e.ID,
		Action:    e.Action,
		LicenseID: licenseID,
		UserID:    e.UserID,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}
