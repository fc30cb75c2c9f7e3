package license

import (
	"context"
	"time"
)

// Repository persists and retrieves License aggregates, including their
// Activation entities, as a single consistency boundary.
type Repository interface {
	// NextID generates the next available LicenseID.
	NextID() LicenseID

	// FindByID retrieves a license with its activations by ID.
	// Returns ErrLicenseNotFound if the license does not exist.
	FindByID(ctx context.Context, id LicenseID) (*License, error)

	// FindByKey retrieves a license with its activations by license key.
	// Returns ErrLicenseNotFound if no license with that key exists.
	FindByKey(ctx context.Context, key LicenseKey) (*License, error)

	// ListByUser returns every license owned by userID.
	ListByUser(ctx context.Context, userID string) ([]*License, error)

	// Save persists a license and its activations. If the license already
	// exists, it and its activation set are updated; otherwise both are
	// created. Implementations must serialize concurrent Save calls for the
	// same LicenseID (e.g. a transaction acquiring a row lock) so the
	// activation-count check in License.Activate stays correct under
	// concurrent activation attempts.
	Save(ctx context.Context, lic *License) error

	// Delete permanently removes a license and its activations.
	Delete(ctx context.Context, id LicenseID) error

	// ExpireDue transitions every Active license with expiresAt <= asOf to
	// Expired in a single batched write, returning the count updated. Safe
	// to call concurrently from multiple worker instances.
	ExpireDue(ctx context.Context, asOf time.Time) (int, error)
}

// Stats is the aggregate snapshot behind the admin dashboard endpoint.
type Stats struct {
	TotalUsers      int
	TotalLicenses   int
	ActiveLicenses  int
	ExpiredLicenses int
	RevokedLicenses int
	LiveActivations int
}

// StatsReader produces the dashboard aggregate. Kept separate from
// Repository: it spans users, licenses, and activations rather than a
// single aggregate boundary.
type StatsReader interface {
	ReadStats(ctx context.Context) (Stats, error)
}

// AuditEntry is a single row of the audit log: an immutable record of a
// license-affecting action.
type AuditEntry struct {
	ID        string
	LicenseID *LicenseID
	UserID    *string
	Action    string
	Detail    string
	CreatedAt time.Time
}

// AuditLog records license and account actions for the admin-facing audit
// trail (GET /audit).
type AuditLog interface {
	// Record appends an entry to the audit log.
	Record(ctx context.Context, entry AuditEntry) error

	// List returns the most recent entries, newest first, up to limit.
	List(ctx context.Context, limit, offset int) ([]AuditEntry, error)
}
