package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/yegamble/licensevault/internal/domain/license"
)

// SQL queries for license operations.
const (
	sqlInsertLicense = `
		INSERT INTO licenses (
			id, user_id, license_key, status, max_activations,
			expires_at, created_at, updated_at, revoked_at, revoked_reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	sqlUpdateLicense = `
		UPDATE licenses
		SET status = $2,
		    max_activations = $3,
		    expires_at = $4,
		    updated_at = $5,
		    revoked_at = $6,
		    revoked_reason = $7
		WHERE id = $1
	`

	sqlSelectLicenseByID = `
		SELECT id, user_id, license_key, status, max_activations,
		       expires_at, created_at, updated_at, revoked_at, revoked_reason
		FROM licenses
		WHERE id = $1
	`

	// sqlSelectLicenseByIDForUpdate locks the license row for the duration of
	// the enclosing transaction, the critical section Save uses to keep the
	// activation cap correct under concurrent activation attempts.
	sqlSelectLicenseByIDForUpdate = sqlSelectLicenseByID + ` FOR UPDATE`

	sqlSelectLicenseByKey = `
		SELECT id, user_id, license_key, status, max_activations,
		       expires_at, created_at, updated_at, revoked_at, revoked_reason
		FROM licenses
		WHERE license_key = $1
	`

	sqlSelectLicensesByUser = `
		SELECT id, user_id, license_key, status, max_activations,
		       expires_at, created_at, updated_at, revoked_at, revoked_reason
		FROM licenses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	sqlExistsLicense = `SELECT EXISTS(SELECT 1 FROM licenses WHERE id = $1)`

	sqlDeleteLicense = `DELETE FROM licenses WHERE id = $1`

	sqlCountLiveActivations = `
		SELECT COUNT(*) FROM license_activations
		WHERE license_id = $1 AND deactivated_at IS NULL
	`

	sqlSelectLiveFingerprints = `
		SELECT fingerprint FROM license_activations
		WHERE license_id = $1 AND deactivated_at IS NULL
	`

	sqlDeleteActivationsByLicenseID = `DELETE FROM license_activations WHERE license_id = $1`

	sqlInsertActivation = `
		INSERT INTO license_activations (
			id, license_id, fingerprint, hostname, ip_address,
			created_at, last_seen_at, deactivated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	sqlExpireDue = `
		UPDATE licenses
		SET status = 'expired', updated_at = $2
		WHERE status = 'active' AND expires_at <= $1
	`
)

// licenseRow represents a license row in the database.
type licenseRow struct {
	ID             string       `db:"id"`
	UserID         string       `db:"user_id"`
	LicenseKey     string       `db:"license_key"`
	Status         string       `db:"status"`
	MaxActivations int          `db:"max_activations"`
	ExpiresAt      time.Time    `db:"expires_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
	RevokedAt      sql.NullTime `db:"revoked_at"`
	RevokedReason  string       `db:"revoked_reason"`
}

// activationRow represents a license_activations row in the database.
type activationRow struct {
	ID            string       `db:"id"`
	LicenseID     string       `db:"license_id"`
	Fingerprint   string       `db:"fingerprint"`
	Hostname      *string      `db:"hostname"`
	IPAddress     *string      `db:"ip_address"`
	CreatedAt     time.Time    `db:"created_at"`
	LastSeenAt    time.Time    `db:"last_seen_at"`
	DeactivatedAt sql.NullTime `db:"deactivated_at"`
}

// LicenseRepository implements license.Repository for PostgreSQL.
type LicenseRepository struct {
	db *sqlx.DB
}

// NewLicenseRepository creates a new LicenseRepository with the given database connection.
func NewLicenseRepository(db *sqlx.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

// NextID generates the next available LicenseID.
func (r *LicenseRepository) NextID() license.LicenseID {
	return license.NewLicenseID()
}

// FindByID retrieves a license, with its activation history, by id.
func (r *LicenseRepository) FindByID(ctx context.Context, id license.LicenseID) (*license.License, error) {
	var row licenseRow
	if err := r.db.GetContext(ctx, &row, sqlSelectLicenseByID, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, license.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("failed to find license by id: %w", err)
	}

	activations, err := r.loadActivations(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activations: %w", err)
	}

	lic, err := rowToLicense(row, activations)
	if err != nil {
		return nil, fmt.Errorf("failed to convert row to license: %w", err)
	}
	return lic, nil
}

// FindByKey retrieves a license, with its activation history, by key.
func (r *LicenseRepository) FindByKey(ctx context.Context, key license.LicenseKey) (*license.License, error) {
	var row licenseRow
	if err := r.db.GetContext(ctx, &row, sqlSelectLicenseByKey, key.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, license.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("failed to find license by key: %w", err)
	}

	activations, err := r.loadActivations(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activations: %w", err)
	}

	lic, err := rowToLicense(row, activations)
	if err != nil {
		return nil, fmt.Errorf("failed to convert row to license: %w", err)
	}
	return lic, nil
}

// ListByUser returns every license owned by userID, without activation history.
func (r *LicenseRepository) ListByUser(ctx context.Context, userID string) ([]*license.License, error) {
	var rows []licenseRow
	if err := r.db.SelectContext(ctx, &rows, sqlSelectLicensesByUser, userID); err != nil {
		return nil, fmt.Errorf("failed to list licenses by user: %w", err)
	}

	licenses := make([]*license.License, 0, len(rows))
	for _, row := range rows {
		lic, err := rowToLicense(row, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to convert row to license: %w", err)
		}
		licenses = append(licenses, lic)
	}
	return licenses, nil
}

// Save persists lic, locking the row (or asserting its absence) for the
// duration of the transaction so concurrent Activate calls on the same
// license can never together exceed maxActivations: a newly added live
// activation is only accepted if the live count observed under FOR UPDATE,
// plus the activations this call is adding, stays within the cap.
func (r *LicenseRepository) Save(ctx context.Context, lic *license.License) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists, sqlExistsLicense, lic.ID().String())
	if err != nil {
		return fmt.Errorf("failed to check license existence: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if exists {
		// Lock the row before re-validating the activation cap against the
		// committed set of fingerprints.
		var locked licenseRow
		if err = tx.GetContext(ctx, &locked, sqlSelectLicenseByIDForUpdate, lic.ID().String()); err != nil {
			return fmt.Errorf("failed to lock license row: %w", err)
		}

		if err = r.checkActivationCapInTx(ctx, tx, lic); err != nil {
			return err
		}

		err = r.updateInTx(ctx, tx, lic)
	} else {
		err = r.insertInTx(ctx, tx, lic)
	}
	if err != nil {
		return err
	}

	if err = r.saveActivationsInTx(ctx, tx, lic); err != nil {
		return fmt.Errorf("failed to save activations: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// checkActivationCapInTx rejects lic's save when it introduces a live
// activation for a fingerprint the committed row does not already hold live,
// and doing so would push the live count past maxActivations.
func (r *LicenseRepository) checkActivationCapInTx(ctx context.Context, tx *sqlx.Tx, lic *license.License) error {
	if lic.MaxActivations() <= 0 {
		return nil
	}

	var committedLive []string
	if err := tx.SelectContext(ctx, &committedLive, sqlSelectLiveFingerprints, lic.ID().String()); err != nil {
		return fmt.Errorf("failed to load committed activations: %w", err)
	}

	committed := make(map[string]struct{}, len(committedLive))
	for _, fp := range committedLive {
		committed[fp] = struct{}{}
	}

	newCount := 0
	for _, a := range lic.Activations() {
		if !a.IsLive() {
			continue
		}
		if _, ok := committed[a.Fingerprint()]; !ok {
			newCount++
		}
	}

	if len(committedLive)+newCount > lic.MaxActivations() {
		return license.ErrActivationLimitReached
	}
	return nil
}

func (r *LicenseRepository) insertInTx(ctx context.Context, tx *sqlx.Tx, lic *license.License) error {
	_, err := tx.ExecContext(
		ctx,
		sqlInsertLicense,
		lic.ID().String(),
		lic.UserID(),
		lic.Key().String(),
		lic.Status().String(),
		lic.MaxActivations(),
		lic.ExpiresAt(),
		lic.CreatedAt(),
		lic.UpdatedAt(),
		nullableTime(lic.RevokedAt()),
		lic.RevokedReason(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "licenses_license_key_key" {
			return license.ErrLicenseKeyInvalid
		}
		return fmt.Errorf("failed to insert license: %w", err)
	}
	return nil
}

func (r *LicenseRepository) updateInTx(ctx context.Context, tx *sqlx.Tx, lic *license.License) error {
	result, err := tx.ExecContext(
		ctx,
		sqlUpdateLicense,
		lic.ID().String(),
		lic.Status().String(),
		lic.MaxActivations(),
		lic.ExpiresAt(),
		lic.UpdatedAt(),
		nullableTime(lic.RevokedAt()),
		lic.RevokedReason(),
	)
	if err != nil {
		return fmt.Errorf("failed to update license: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return license.ErrLicenseNotFound
	}
	return nil
}

// saveActivationsInTx replaces the activation rows for lic wholesale,
// following the same delete-then-reinsert shape used for other
// aggregate-owned child tables.
func (r *LicenseRepository) saveActivationsInTx(ctx context.Context, tx *sqlx.Tx, lic *license.License) error {
	if _, err := tx.ExecContext(ctx, sqlDeleteActivationsByLicenseID, lic.ID().String()); err != nil {
		return fmt.Errorf("failed to delete existing activations: %w", err)
	}

	for _, a := range lic.Activations() {
		_, err := tx.ExecContext(
			ctx,
			sqlInsertActivation,
			a.ID().String(),
			lic.ID().String(),
			a.Fingerprint(),
			a.Hostname(),
			a.IPAddress(),
			a.CreatedAt(),
			a.LastSeenAt(),
			nullableTime(a.DeactivatedAt()),
		)
		if err != nil {
			return fmt.Errorf("failed to insert activation: %w", err)
		}
	}
	return nil
}

// Delete permanently removes a license; activations cascade via FK.
func (r *LicenseRepository) Delete(ctx context.Context, id license.LicenseID) error {
	result, err := r.db.ExecContext(ctx, sqlDeleteLicense, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete license: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return license.ErrLicenseNotFound
	}
	return nil
}

// ExpireDue transitions every Active license whose expiresAt has passed into
// Expired in a single batched statement, returning the number of rows
// changed.
func (r *LicenseRepository) ExpireDue(ctx context.Context, asOf time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, sqlExpireDue, asOf, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to expire due licenses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

func (r *LicenseRepository) loadActivations(ctx context.Context, licenseID string) ([]license.Activation, error) {
	var rows []activationRow
	if err := r.db.SelectContext(ctx, &rows, sqlSelectActivationsByLicenseID, licenseID); err != nil {
		return nil, fmt.Errorf("failed to select activations: %w", err)
	}

	activations := make([]license.Activation, 0, len(rows))
	for _, row := range rows {
		a, err := rowToActivation(row)
		if err != nil {
			return nil, fmt.Errorf("failed to convert row to activation: %w", err)
		}
		activations = append(activations, a)
	}
	return activations, nil
}

// sqlSelectActivationsByLicenseID selects full activation rows for a
// license, live and released, ordered oldest-first.
const sqlSelectActivationsByLicenseID = `
	SELECT id, license_id, fingerprint, hostname, ip_address,
	       created_at, last_seen_at, deactivated_at
	FROM license_activations
	WHERE license_id = $1
	ORDER BY created_at ASC
`

func rowToActivation(row activationRow) (license.Activation, error) {
	id, err := license.ParseActivationID(row.ID)
	if err != nil {
		return license.Activation{}, fmt.Errorf("invalid activation id: %w", err)
	}
	licenseID, err := license.ParseLicenseID(row.LicenseID)
	if err != nil {
		return license.Activation{}, fmt.Errorf("invalid license id: %w", err)
	}

	var deactivatedAt *time.Time
	if row.DeactivatedAt.Valid {
		deactivatedAt = &row.DeactivatedAt.Time
	}

	return license.ReconstructActivation(
		id,
		licenseID,
		row.Fingerprint,
		row.Hostname,
		row.IPAddress,
		row.CreatedAt,
		row.LastSeenAt,
		deactivatedAt,
	), nil
}

func rowToLicense(row licenseRow, activations []license.Activation) (*license.License, error) {
	id, err := license.ParseLicenseID(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid license id: %w", err)
	}
	key, err := license.ParseLicenseKey(row.LicenseKey)
	if err != nil {
		return nil, fmt.Errorf("invalid license key: %w", err)
	}
	status, err := license.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid license status: %w", err)
	}

	var revokedAt *time.Time
	if row.RevokedAt.Valid {
		revokedAt = &row.RevokedAt.Time
	}

	if activations == nil {
		activations = []license.Activation{}
	}

	return license.ReconstructLicense(
		id,
		row.UserID,
		key,
		status,
		row.MaxActivations,
		row.ExpiresAt,
		row.CreatedAt,
		row.UpdatedAt,
		revokedAt,
		row.RevokedReason,
		activations,
	), nil
}
