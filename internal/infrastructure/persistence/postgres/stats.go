package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yegamble/licensevault/internal/domain/license"
)

const sqlSelectStats = `
	SELECT
		(SELECT COUNT(*) FROM users)                                          AS total_users,
		(SELECT COUNT(*) FROM licenses)                                       AS total_licenses,
		(SELECT COUNT(*) FROM licenses WHERE status = 'active')               AS active_licenses,
		(SELECT COUNT(*) FROM licenses WHERE status = 'expired')              AS expired_licenses,
		(SELECT COUNT(*) FROM licenses WHERE status = 'revoked')              AS revoked_licenses,
		(SELECT COUNT(*) FROM license_activations WHERE deactivated_at IS NULL) AS live_activations
`

type statsRow struct {
	TotalUsers      int `db:"total_users"`
	TotalLicenses   int `db:"total_licenses"`
	ActiveLicenses  int `db:"active_licenses"`
	ExpiredLicenses int `db:"expired_licenses"`
	RevokedLicenses int `db:"revoked_licenses"`
	LiveActivations int `db:"live_activations"`
}

// StatsReader aggregates the dashboard counters in a single round trip.
type StatsReader struct {
	db *sqlx.DB
}

// NewStatsReader creates a StatsReader backed by db.
func NewStatsReader(db *sqlx.DB) *StatsReader {
	return &StatsReader{db: db}
}

// ReadStats returns the current aggregate snapshot.
func (s *StatsReader) ReadStats(ctx context.Context) (license.Stats, error) {
	var row statsRow
	if err := s.db.GetContext(ctx, &row, sqlSelectStats); err != nil {
		return license.Stats{}, fmt.Errorf("read stats: %w", err)
	}
	return license.Stats{
		TotalUsers:      row.TotalUsers,
		TotalLicenses:   row.TotalLicenses,
		ActiveLicenses:  row.ActiveLicenses,
		ExpiredLicenses: row.ExpiredLicenses,
		RevokedLicenses: row.RevokedLicenses,
		LiveActivations: row.LiveActivations,
	}, nil
}
