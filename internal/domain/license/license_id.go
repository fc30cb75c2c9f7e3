package license

import (
	"fmt"

	"github.com/google/uuid"
)

// LicenseID is a value object representing a unique license identifier.
type LicenseID struct {
	value uuid.UUID
}

// NewLicenseID creates a new LicenseID with a generated UUID.
func NewLicenseID() LicenseID {
	return LicenseID{value: uuid.New()}
}

// ParseLicenseID creates a LicenseID from a string representation.
func ParseLicenseID(s string) (LicenseID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return LicenseID{}, fmt.Errorf("invalid license id: %w", err)
	}
	return LicenseID{value: id}, nil
}

// String returns the string representation of the LicenseID.
func (id LicenseID) String() string {
	return id.value.String()
}

// IsZero returns true if the LicenseID is the zero value.
func (id LicenseID) IsZero() bool {
	return id.value == uuid.Nil
}

// Equals returns true if this LicenseID equals the other LicenseID.
func (id LicenseID) Equals(other LicenseID) bool {
	return id.value == other.value
}

// ActivationID is a value object representing a unique license activation identifier.
type ActivationID struct {
	value uuid.UUID
}

// NewActivationID creates a new ActivationID with a generated UUID.
func NewActivationID() ActivationID {
	return ActivationID{value: uuid.New()}
}

// ParseActivationID creates an ActivationID from a string representation.
func ParseActivationID(s string) (ActivationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ActivationID{}, fmt.Errorf("invalid activation id: %w", err)
	}
	return ActivationID{value: id}, nil
}

// String returns the string representation of the ActivationID.
func (id ActivationID) String() string {
	return id.value.String()
}

// IsZero returns true if the ActivationID is the zero value.
func (id ActivationID) IsZero() bool {
	return id.value == uuid.Nil
}
