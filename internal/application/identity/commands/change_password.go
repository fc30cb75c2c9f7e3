package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/application/identity/dto"
	"github.com/yegamble/licensevault/internal/domain/identity"
)

// ChangePasswordCommand represents the intent to change a known user's own
// password, presenting the current password as proof of ownership.
type ChangePasswordCommand struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordHandler verifies the current password, rewrites the hash,
// and revokes every live session belonging to the user: a password change
// forces re-authentication everywhere the account is signed in.
type ChangePasswordHandler struct {
	users  identity.UserRepository
	tokens appidentity.TokenService
	logger *zerolog.Logger
}

// NewChangePasswordHandler creates a new ChangePasswordHandler.
func NewChangePasswordHandler(users identity.UserRepository, tokens appidentity.TokenService, logger *zerolog.Logger) *ChangePasswordHandler {
	return &ChangePasswordHandler{users: users, tokens: tokens, logger: logger}
}

// Handle verifies cmd.CurrentPassword, writes cmd.NewPassword's hash, and
// revokes all of the user's sessions.
func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) (*dto.MessageDTO, error) {
	id, err := identity.ParseUserID(cmd.UserID)
	if err != nil {
		return nil, appidentity.ErrInvalidCredentials
	}

	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, appidentity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	if err := user.VerifyPassword(cmd.CurrentPassword); err != nil {
		h.logger.Warn().Str("user_id", user.ID().String()).Msg("change-password attempt with wrong current password")
		return nil, appidentity.ErrInvalidCredentials
	}

	newHash, err := identity.NewPasswordHash(cmd.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("invalid new password: %w", err)
	}

	if err := user.ChangePassword(newHash); err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}

	if err := h.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	revoked, err := h.tokens.RevokeAllSessions(ctx, user.ID().String())
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID().String()).Msg("failed to revoke sessions after password change")
	}

	h.logger.Info().Str("user_id", user.ID().String()).Int("sessions_revoked", revoked).Msg("password changed")

	msg := dto.NewMessageDTO("password changed")
	return &msg, nil
}
