package queries

import (
	"context"
	"fmt"

	"github.com/yegamble/licensevault/internal/domain/license"
)

// StatsDTO is the admin dashboard snapshot returned by GET /stats.
type StatsDTO struct {
	TotalUsers      int `json:"total_users"`
	TotalLicenses   int `json:"total_licenses"`
	ActiveLicenses  int `json:"active_licenses"`
	ExpiredLicenses int `json:"expired_licenses"`
	RevokedLicenses int `json:"revoked_licenses"`
	LiveActivations int `json:"live_activations"`
}

// GetStatsHandler produces the dashboard aggregate for admins.
type GetStatsHandler struct {
	stats license.StatsReader
}

// NewGetStatsHandler creates a new GetStatsHandler.
func NewGetStatsHandler(stats license.StatsReader) *GetStatsHandler {
	return &GetStatsHandler{stats: stats}
}

// Handle returns the current aggregate counters.
func (h *GetStatsHandler) Handle(ctx context.Context) (*StatsDTO, error) {
	s, err := h.stats.ReadStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &StatsDTO{
		TotalUsers:      s.TotalUsers,
		TotalLicenses:   s.TotalLicenses,
		ActiveLicenses:  s.ActiveLicenses,
		ExpiredLicenses: s.ExpiredLicenses,
		RevokedLicenses: s.RevokedLicenses,
		LiveActivations: s.LiveActivations,
	}, nil
}
