// Package testhelpers provides in-memory fakes for license application-layer
// tests, standing in for the postgres repository's per-license critical
// section.
package testhelpers

import (
	"context"
	"sync"
	"time"

	"github.com/yegamble/licensevault/internal/domain/license"
)

// FakeLicenseRepository is an in-memory license.Repository with a per-id
// mutex on Save, emulating the SELECT ... FOR UPDATE critical section the
// postgres repository provides, so handler-level concurrency tests (the
// activation-cap invariant) exercise real serialization rather than a
// single global lock.
type FakeLicenseRepository struct {
	mu       sync.Mutex
	licenses map[string]*license.License
	idMus    map[string]*sync.Mutex
}

// NewFakeLicenseRepository creates an empty FakeLicenseRepository.
func NewFakeLicenseRepository() *FakeLicenseRepository {
	return &FakeLicenseRepository{
		licenses: make(map[string]*license.License),
		idMus:    make(map[string]*sync.Mutex),
	}
}

// NextID generates the next available LicenseID.
func (r *FakeLicenseRepository) NextID() license.LicenseID {
	return license.NewLicenseID()
}

func (r *FakeLicenseRepository) lockFor(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.idMus[id]
	if !ok {
		m = &sync.Mutex{}
		r.idMus[id] = m
	}
	return m
}

// FindByID retrieves a license by id, blocking until any in-flight Save for
// the same id completes (matching a real row-lock's read-after-write
// ordering within a transaction).
func (r *FakeLicenseRepository) FindByID(ctx context.Context, id license.LicenseID) (*license.License, error) {
	lock := r.lockFor(id.String())
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	lic, ok := r.licenses[id.String()]
	if !ok {
		return nil, license.ErrLicenseNotFound
	}
	return cloneLicense(lic), nil
}

// FindByKey retrieves a license by key.
func (r *FakeLicenseRepository) FindByKey(ctx context.Context, key license.LicenseKey) (*license.License, error) {
	r.mu.Lock()
	var found *license.License
	for _, lic := range r.licenses {
		if lic.Key().Equals(key) {
			found = lic
			break
		}
	}
	r.mu.Unlock()

	if found == nil {
		return nil, license.ErrLicenseNotFound
	}

	lock := r.lockFor(found.ID().String())
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	lic, ok := r.licenses[found.ID().String()]
	if !ok {
		return nil, license.ErrLicenseNotFound
	}
	return cloneLicense(lic), nil
}

// ListByUser returns every license owned by userID.
func (r *FakeLicenseRepository) ListByUser(ctx context.Context, userID string) ([]*license.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*license.License
	for _, lic := range r.licenses {
		if lic.UserID() == userID {
			out = append(out, cloneLicense(lic))
		}
	}
	return out, nil
}

// Save persists lic under a per-id lock, re-validating the activation cap
// against the currently committed row before accepting any newly added live
// activation. This mirrors what a real transaction guards against with
// SELECT ... FOR UPDATE: a caller that read a stale snapshot, activated a
// device against it, and now races another caller's Save for the same
// license gets rejected rather than silently exceeding the cap.
func (r *FakeLicenseRepository) Save(ctx context.Context, lic *license.License) error {
	lock := r.lockFor(lic.ID().String())
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if committed, ok := r.licenses[lic.ID().String()]; ok {
		newFingerprints := newLiveFingerprints(committed, lic)
		if len(newFingerprints) > 0 && lic.MaxActivations() > 0 {
			if committed.LiveActivationCount()+len(newFingerprints) > lic.MaxActivations() {
				return license.ErrActivationLimitReached
			}
		}
	}

	r.licenses[lic.ID().String()] = cloneLicense(lic)
	return nil
}

// newLiveFingerprints returns the fingerprints that are live in next but were
// not live in prev, i.e. activations this Save call is trying to add anew.
func newLiveFingerprints(prev, next *license.License) []string {
	prevLive := make(map[string]struct{})
	for _, a := range prev.Activations() {
		if a.IsLive() {
			prevLive[a.Fingerprint()] = struct{}{}
		}
	}

	var added []string
	for _, a := range next.Activations() {
		if !a.IsLive() {
			continue
		}
		if _, ok := prevLive[a.Fingerprint()]; !ok {
			added = append(added, a.Fingerprint())
		}
	}
	return added
}

// Delete permanently removes a license.
func (r *FakeLicenseRepository) Delete(ctx context.Context, id license.LicenseID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.licenses, id.String())
	return nil
}

// ExpireDue transitions every Active license with expiresAt <= asOf to
// Expired.
func (r *FakeLicenseRepository) ExpireDue(ctx context.Context, asOf time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, lic := range r.licenses {
		if lic.ExpireIfDue(asOf) {
			count++
		}
	}
	return count, nil
}

// cloneLicense deep-copies the parts of License that tests mutate through,
// reconstructing from accessors so each caller gets an isolated instance.
func cloneLicense(lic *license.License) *license.License {
	activations := make([]license.Activation, len(lic.Activations()))
	copy(activations, lic.Activations())

	return license.ReconstructLicense(
		lic.ID(),
		lic.UserID(),
		lic.Key(),
		lic.Status(),
		lic.MaxActivations(),
		lic.ExpiresAt(),
		lic.CreatedAt(),
		lic.UpdatedAt(),
		lic.RevokedAt(),
		lic.RevokedReason(),
		activations,
	)
}

// FakeAuditLog is an in-memory license.AuditLog.
type FakeAuditLog struct {
	mu      sync.Mutex
	entries []license.AuditEntry
}

// NewFakeAuditLog creates an empty FakeAuditLog.
func NewFakeAuditLog() *FakeAuditLog {
	return &FakeAuditLog{}
}

// Record appends entry to the log.
func (a *FakeAuditLog) Record(ctx context.Context, entry license.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append([]license.AuditEntry{entry}, a.entries...)
	return nil
}

// List returns up to limit entries starting at offset, newest first.
func (a *FakeAuditLog) List(ctx context.Context, limit, offset int) ([]license.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if offset >= len(a.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(a.entries) {
		end = len(a.entries)
	}
	out := make([]license.AuditEntry, end-offset)
	copy(out, a.entries[offset:end])
	return out, nil
}
