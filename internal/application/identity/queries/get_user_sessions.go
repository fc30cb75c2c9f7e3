package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/application/identity/dto"
)

// GetUserSessionsQuery lists a user's live sessions. The ownership check
// (self or admin) is enforced at the HTTP layer before this query runs.
type GetUserSessionsQuery struct {
	UserID      uuid.UUID
	RequestorID uuid.UUID
}

// Implement Query interface
func (GetUserSessionsQuery) isQuery() {}

// GetUserSessionsHandler processes GetUserSessionsQuery requests against the
// token service's session scan.
type GetUserSessionsHandler struct {
	tokens appidentity.TokenService
}

// NewGetUserSessionsHandler creates a new GetUserSessionsHandler.
func NewGetUserSessionsHandler(tokens appidentity.TokenService) *GetUserSessionsHandler {
	return &GetUserSessionsHandler{tokens: tokens}
}

// Handle returns the user's live sessions, newest first is not guaranteed —
// the underlying scan has no ordering. Revoked tombstones awaiting TTL
// expiry and already-expired records are filtered out.
func (h *GetUserSessionsHandler) Handle(ctx context.Context, q GetUserSessionsQuery) ([]dto.SessionDTO, error) {
	sessions, err := h.tokens.ListSessions(ctx, q.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	now := time.Now().UTC()
	out := make([]dto.SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		if s.Revoked || now.After(s.ExpiresAt) {
			continue
		}
		out = append(out, dto.SessionDTO{
			SessionID: s.JTI,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}
	return out, nil
}
