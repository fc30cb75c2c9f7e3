package queries

import (
	"context"
	"fmt"

	"github.com/yegamble/licensevault/internal/application/license/dto"
	"github.com/yegamble/licensevault/internal/domain/license"
)

// ListAuditLogQuery retrieves the most recent audit-log entries, newest
// first (admin-only, GET /audit).
type ListAuditLogQuery struct {
	Limit  int
	Offset int
}

// ListAuditLogHandler processes ListAuditLogQuery requests.
type ListAuditLogHandler struct {
	audit license.AuditLog
}

// NewListAuditLogHandler creates a new ListAuditLogHandler.
func NewListAuditLogHandler(audit license.AuditLog) *ListAuditLogHandler {
	return &ListAuditLogHandler{audit: audit}
}

// Handle returns up to q.Limit audit entries starting at q.Offset.
func (h *ListAuditLogHandler) Handle(ctx context.Context, q ListAuditLogQuery) ([]dto.AuditEntryDTO, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	entries, err := h.audit.List(ctx, limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}

	out := make([]dto.AuditEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = dto.AuditEntryFromDomain(e)
	}
	return out, nil
}
