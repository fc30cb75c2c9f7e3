package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yegamble/licensevault/internal/domain/license"
)

const (
	sqlInsertAuditEntry = `
		INSERT INTO audit_entries (id, license_id, user_id, action, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	sqlSelectAuditEntries = `
		SELECT id, license_id, user_id, action, detail, created_at
		FROM audit_entries
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
)

// auditEntryRow represents an audit_entries row in the database.
type auditEntryRow struct {
	ID        string         `db:"id"`
	LicenseID sql.NullString `db:"license_id"`
	UserID    sql.NullString `db:"user_id"`
	Action    string         `db:"action"`
	Detail    string         `db:"detail"`
	CreatedAt time.Time      `db:"created_at"`
}

// AuditLog implements license.AuditLog for PostgreSQL.
type AuditLog struct {
	db *sqlx.DB
}

// NewAuditLog creates a new AuditLog with the given database connection.
func NewAuditLog(db *sqlx.DB) *AuditLog {
	return &AuditLog{db: db}
}

// Record appends entry to the audit log.
func (a *AuditLog) Record(ctx context.Context, entry license.AuditEntry) error {
	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}

	var licenseID sql.NullString
	if entry.LicenseID != nil {
		licenseID = sql.NullString{String: entry.LicenseID.String(), Valid: true}
	}
	var userID sql.NullString
	if entry.UserID != nil {
		userID = sql.NullString{String: *entry.UserID, Valid: true}
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := a.db.ExecContext(
		ctx,
		sqlInsertAuditEntry,
		id,
		licenseID,
		userID,
		entry.Action,
		entry.Detail,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// List returns up to limit audit entries starting at offset, newest first.
func (a *AuditLog) List(ctx context.Context, limit, offset int) ([]license.AuditEntry, error) {
	var rows []auditEntryRow
	if err := a.db.SelectContext(ctx, &rows, sqlSelectAuditEntries, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to select audit entries: %w", err)
	}

	entries := make([]license.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := rowToAuditEntry(row)
		if err != nil {
			return nil, fmt.Errorf("failed to convert row to audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func rowToAuditEntry(row auditEntryRow) (license.AuditEntry, error) {
	entry := license.AuditEntry{
		ID:        row.ID,
		Action:    row.Action,
		Detail:    row.Detail,
		CreatedAt: row.CreatedAt,
	}

	if row.LicenseID.Valid {
		id, err := license.ParseLicenseID(row.LicenseID.String)
		if err != nil {
			return license.AuditEntry{}, fmt.Errorf("invalid license id: %w", err)
		}
		entry.LicenseID = &id
	}
	if row.UserID.Valid {
		userID := row.UserID.String
		entry.UserID = &userID
	}

	return entry, nil
}
