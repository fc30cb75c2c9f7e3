package license

import (
	"time"

	"github.com/yegamble/licensevault/internal/domain/shared"
)

// ValidationResult is returned by License.Validate — the read-side contract
// a client SDK polls to confirm a license is still good.
type ValidationResult struct {
	Valid     bool
	Status    Status
	ExpiresAt time.Time
	Reason    string
}

// License is the aggregate root for the License bounded context. It owns
// its Activation entities and enforces the activation-limit and state
// machine invariants as a single consistency boundary.
type License struct {
	id             LicenseID
	userID         string
	key            LicenseKey
	status         Status
	maxActivations int
	expiresAt      time.Time
	createdAt      time.Time
	updatedAt      time.Time
	revokedAt      *time.Time
	revokedReason  string
	activations    []Activation
	events         []shared.DomainEvent
}

// NewLicense issues a new Active license for userID, generating a fresh
// LicenseKey. expiresAt must be strictly in the future; maxActivations <= 0
// means unlimited concurrent activations.
func NewLicense(userID string, expiresAt time.Time, maxActivations int) (*License, error) {
	now := time.Now().UTC()
	if !expiresAt.After(now) {
		return nil, ErrInvalidExpiry
	}

	key, err := GenerateLicenseKey()
	if err != nil {
		return nil, err
	}

	lic := &License{
		id:             NewLicenseID(),
		userID:         userID,
		key:            key,
		status:         StatusActive,
		maxActivations: maxActivations,
		expiresAt:      expiresAt,
		createdAt:      now,
		updatedAt:      now,
		activations:    []Activation{},
		events:         []shared.DomainEvent{},
	}

	lic.addEvent(NewLicenseCreated(lic.id, userID, expiresAt))
	return lic, nil
}

// ReconstructLicense rebuilds a License from persistence without validation or events.
func ReconstructLicense(
	id LicenseID,
	userID string,
	key LicenseKey,
	status Status,
	maxActivations int,
	expiresAt, createdAt, updatedAt time.Time,
	revokedAt *time.Time,
	revokedReason string,
	activations []Activation,
) *License {
	return &License{
		id:             id,
		userID:         userID,
		key:            key,
		status:         status,
		maxActivations: maxActivations,
		expiresAt:      expiresAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		revokedAt:      revokedAt,
		revokedReason:  revokedReason,
		activations:    activations,
		events:         []shared.DomainEvent{},
	}
}

// ID returns the license's unique identifier.
func (l *License) ID() LicenseID { return l.id }

// UserID returns the owning user's identifier.
func (l *License) UserID() string { return l.userID }

// Key returns the license key.
func (l *License) Key() LicenseKey { return l.key }

// Status returns the current lifecycle status.
func (l *License) Status() Status { return l.status }

// MaxActivations returns the configured activation ceiling (<=0 means unlimited).
func (l *License) MaxActivations() int { return l.maxActivations }

// ExpiresAt returns the expiry timestamp.
func (l *License) ExpiresAt() time.Time { return l.expiresAt }

// CreatedAt returns when the license was issued.
func (l *License) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns when the license was last modified.
func (l *License) UpdatedAt() time.Time { return l.updatedAt }

// RevokedAt returns when the license was revoked, if it has been.
func (l *License) RevokedAt() *time.Time { return l.revokedAt }

// RevokedReason returns the administrative reason recorded at revocation.
func (l *License) RevokedReason() string { return l.revokedReason }

// Activations returns all activation records, live and released.
func (l *License) Activations() []Activation { return l.activations }

// Events returns the domain events recorded on this aggregate.
func (l *License) Events() []shared.DomainEvent { return l.events }

// ClearEvents clears all domain events from this aggregate.
func (l *License) ClearEvents() { l.events = []shared.DomainEvent{} }

// LiveActivationCount returns the number of activations not yet deactivated.
func (l *License) LiveActivationCount() int {
	count := 0
	for _, a := range l.activations {
		if a.IsLive() {
			count++
		}
	}
	return count
}

// IsExpired reports whether expiresAt has passed as of now.
func (l *License) IsExpired(now time.Time) bool {
	return !l.expiresAt.After(now)
}

// Revoke moves the license to Revoked, terminal except for deletion. No-op
// if already Revoked.
func (l *License) Revoke(reason string) error {
	if l.status == StatusRevoked {
		return nil
	}

	now := time.Now().UTC()
	l.status = StatusRevoked
	l.revokedAt = &now
	l.revokedReason = reason
	l.updatedAt = now

	l.addEvent(NewLicenseRevoked(l.id, reason))
	return nil
}

// ExpireIfDue transitions an Active license whose expiresAt has passed into
// Expired, reporting whether a transition occurred. Used by the expiration
// worker's per-row path and by tests; the worker's bulk sweep performs the
// equivalent update directly in SQL for efficiency.
func (l *License) ExpireIfDue(now time.Time) bool {
	if l.status != StatusActive || !l.IsExpired(now) {
		return false
	}

	l.status = StatusExpired
	l.updatedAt = now
	l.addEvent(NewLicenseExpired(l.id))
	return true
}

// Renew transitions an Expired license back to Active with a new expiry.
// Forbidden from Revoked; newExpiresAt must be in the future.
func (l *License) Renew(newExpiresAt time.Time) error {
	if l.status == StatusRevoked {
		return ErrInvalidStatusTransition
	}
	if l.status == StatusActive {
		return nil
	}

	now := time.Now().UTC()
	if !newExpiresAt.After(now) {
		return ErrInvalidExpiry
	}

	l.status = StatusActive
	l.expiresAt = newExpiresAt
	l.updatedAt = now

	l.addEvent(NewLicenseRenewed(l.id, newExpiresAt))
	return nil
}

// Activate runs the activation contract: a heartbeat for a fingerprint that
// already holds a live activation, otherwise a new activation if the
// concurrent-device limit allows it.
func (l *License) Activate(fingerprint string, hostname, ipAddress *string) (*Activation, error) {
	if fingerprint == "" {
		return nil, ErrFingerprintEmpty
	}

	now := time.Now().UTC()
	if l.status != StatusActive || l.IsExpired(now) {
		return nil, ErrLicenseNotActive
	}

	for i := range l.activations {
		a := &l.activations[i]
		if a.fingerprint == fingerprint && a.IsLive() {
			a.touch(hostname, ipAddress, now)
			return a, nil
		}
	}

	if l.maxActivations > 0 && l.LiveActivationCount() >= l.maxActivations {
		return nil, ErrActivationLimitReached
	}

	activation := newActivation(l.id, fingerprint, hostname, ipAddress, now)
	l.activations = append(l.activations, activation)
	l.updatedAt = now

	l.addEvent(NewActivationCreated(l.id, fingerprint))
	return &l.activations[len(l.activations)-1], nil
}

// Validate reports whether the license is usable from the given fingerprint:
// Active, unexpired, and holding a live activation for it. On success it
// refreshes that activation's lastSeenAt.
func (l *License) Validate(fingerprint string) ValidationResult {
	now := time.Now().UTC()

	if l.status != StatusActive {
		return ValidationResult{Status: l.status, ExpiresAt: l.expiresAt, Reason: "license is " + l.status.String()}
	}
	if l.IsExpired(now) {
		return ValidationResult{Status: l.status, ExpiresAt: l.expiresAt, Reason: "license has expired"}
	}

	for i := range l.activations {
		a := &l.activations[i]
		if a.fingerprint == fingerprint && a.IsLive() {
			a.refreshLastSeen(now)
			return ValidationResult{Valid: true, Status: l.status, ExpiresAt: l.expiresAt}
		}
	}

	return ValidationResult{Status: l.status, ExpiresAt: l.expiresAt, Reason: "no active activation for this device"}
}

// Deactivate releases the live activation for fingerprint, if any. No-op
// when no live activation matches.
func (l *License) Deactivate(fingerprint string) error {
	now := time.Now().UTC()
	for i := range l.activations {
		a := &l.activations[i]
		if a.fingerprint == fingerprint && a.IsLive() {
			a.deactivate(now)
			l.updatedAt = now
			l.addEvent(NewActivationDeactivated(l.id, fingerprint))
			return nil
		}
	}
	return nil
}

func (l *License) addEvent(event shared.DomainEvent) {
	l.events = append(l.events, event)
}
