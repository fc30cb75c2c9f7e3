// Package license implements application-layer use cases for license
// issuance, activation, and administration.
package license

import "errors"

// Application-level errors for the License application layer.
var (
	// ErrNotFound is returned when a license lookup fails.
	ErrNotFound = errors.New("license not found")

	// ErrForbidden is returned when the requestor does not own the license
	// and is not an admin.
	ErrForbidden = errors.New("forbidden - insufficient permissions")

	// ErrActivationLimitReached is returned when a license's concurrent
	// device cap has already been reached.
	ErrActivationLimitReached = errors.New("activation limit reached")

	// ErrLicenseNotActive is returned when an operation requires an Active,
	// unexpired license.
	ErrLicenseNotActive = errors.New("license is not active")

	// ErrInvalidStatusTransition is returned for a status change the state
	// machine forbids (e.g. renewing a Revoked license).
	ErrInvalidStatusTransition = errors.New("invalid license status transition")

	// ErrInvalidExpiry is returned when an expiry timestamp is not in the
	// future.
	ErrInvalidExpiry = errors.New("expiresAt must be in the future")

	// ErrConflict is returned when the single-active-license policy switch
	// rejects a second concurrent Active license for the same user.
	ErrConflict = errors.New("user already has an active license")
)
