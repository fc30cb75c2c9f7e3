package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/domain/identity"
)

// LogoutCommand represents the intent to end a session. When LogoutAll is
// set every live session for UserID is revoked instead of just the
// presented refresh token.
type LogoutCommand struct {
	UserID       string
	RefreshToken string
	LogoutAll    bool
}

// Implement Command interface from types.go
func (LogoutCommand) isCommand() {}

// LogoutHandler revokes sessions via the token service. Revocation is
// idempotent, so logging out twice or with a stale token is never an error.
type LogoutHandler struct {
	tokens appidentity.TokenService
	logger *zerolog.Logger
}

// NewLogoutHandler creates a new LogoutHandler.
func NewLogoutHandler(tokens appidentity.TokenService, logger *zerolog.Logger) *LogoutHandler {
	return &LogoutHandler{tokens: tokens, logger: logger}
}

// Handle executes the logout use case.
func (h *LogoutHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	if cmd.LogoutAll {
		if _, err := identity.ParseUserID(cmd.UserID); err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}

		count, err := h.tokens.RevokeAllSessions(ctx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("revoke all sessions: %w", err)
		}

		h.logger.Info().Str("user_id", cmd.UserID).Int("sessions_revoked", count).Msg("user logged out from all devices")
		return nil
	}

	if cmd.RefreshToken == "" {
		return nil
	}

	if err := h.tokens.RevokeByRefreshToken(ctx, cmd.RefreshToken); err != nil {
		h.logger.Error().Err(err).Str("user_id", cmd.UserID).Msg("failed to revoke session during logout")
		return fmt.Errorf("revoke session: %w", err)
	}

	h.logger.Info().Str("user_id", cmd.UserID).Msg("user logged out successfully")
	return nil
}
