package license

import "time"

// Activation represents one device's claim on a license slot. A license can
// carry multiple Activation rows over its lifetime; only those with a nil
// DeactivatedAt count toward the live activation limit.
type Activation struct {
	id            ActivationID
	licenseID     LicenseID
	fingerprint   string
	hostname      *string
	ipAddress     *string
	createdAt     time.Time
	lastSeenAt    time.Time
	deactivatedAt *time.Time
}

// ReconstructActivation rebuilds an Activation from persistence without validation.
func ReconstructActivation(
	id ActivationID,
	licenseID LicenseID,
	fingerprint string,
	hostname, ipAddress *string,
	createdAt, lastSeenAt time.Time,
	deactivatedAt *time.Time,
) Activation {
	return Activation{
		id:            id,
		licenseID:     licenseID,
		fingerprint:   fingerprint,
		hostname:      hostname,
		ipAddress:     ipAddress,
		createdAt:     createdAt,
		lastSeenAt:    lastSeenAt,
		deactivatedAt: deactivatedAt,
	}
}

// ID returns the activation's unique identifier.
func (a Activation) ID() ActivationID { return a.id }

// LicenseID returns the owning license's identifier.
func (a Activation) LicenseID() LicenseID { return a.licenseID }

// Fingerprint returns the device fingerprint this activation is bound to.
func (a Activation) Fingerprint() string { return a.fingerprint }

// Hostname returns the last-reported hostname, if any.
func (a Activation) Hostname() *string { return a.hostname }

// IPAddress returns the last-reported IP address, if any.
func (a Activation) IPAddress() *string { return a.ipAddress }

// CreatedAt returns when the activation was first created.
func (a Activation) CreatedAt() time.Time { return a.createdAt }

// LastSeenAt returns the last heartbeat or validation timestamp.
func (a Activation) LastSeenAt() time.Time { return a.lastSeenAt }

// DeactivatedAt returns when the activation was released, if it has been.
func (a Activation) DeactivatedAt() *time.Time { return a.deactivatedAt }

// IsLive returns true if the activation has not been deactivated.
func (a Activation) IsLive() bool { return a.deactivatedAt == nil }

func newActivation(licenseID LicenseID, fingerprint string, hostname, ipAddress *string, now time.Time) Activation {
	return Activation{
		id:          NewActivationID(),
		licenseID:   licenseID,
		fingerprint: fingerprint,
		hostname:    hostname,
		ipAddress:   ipAddress,
		createdAt:   now,
		lastSeenAt:  now,
	}
}

// touch updates the heartbeat fields for a live activation on re-activation:
// the hostname is preserved when the new report omits it, the IP address is
// always taken from the new report, even when absent.
func (a *Activation) touch(hostname, ipAddress *string, now time.Time) {
	if hostname != nil {
		a.hostname = hostname
	}
	a.ipAddress = ipAddress
	a.lastSeenAt = now
}

// refreshLastSeen bumps only the heartbeat timestamp, used by validation,
// which reports no client metadata.
func (a *Activation) refreshLastSeen(now time.Time) {
	a.lastSeenAt = now
}

func (a *Activation) deactivate(now time.Time) {
	a.deactivatedAt = &now
}
