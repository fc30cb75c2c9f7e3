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

// ResetPasswordCommand represents the intent to consume a password-reset
// token and set a new password.
type ResetPasswordCommand struct {
	Token       string
	NewPassword string
}

// ResetPasswordHandler consumes a single-use password-reset token, rehashes
// the password, and revokes all of the user's sessions.
type ResetPasswordHandler struct {
	users         identity.UserRepository
	verifications appidentity.VerificationStore
	tokens        appidentity.TokenService
	logger        *zerolog.Logger
}

// NewResetPasswordHandler creates a new ResetPasswordHandler.
func NewResetPasswordHandler(
	users identity.UserRepository,
	verifications appidentity.VerificationStore,
	tokens appidentity.TokenService,
	logger *zerolog.Logger,
) *ResetPasswordHandler {
	return &ResetPasswordHandler{users: users, verifications: verifications, tokens: tokens, logger: logger}
}

// Handle consumes cmd.Token, rewrites the resolved user's password hash to
// cmd.NewPassword, and revokes every live session.
func (h *ResetPasswordHandler) Handle(ctx context.Context, cmd ResetPasswordCommand) (*dto.MessageDTO, error) {
	userID, err := h.verifications.ConsumePasswordReset(ctx, cmd.Token)
	if err != nil {
		return nil, appidentity.ErrInvalidOrExpiredToken
	}

	id, err := identity.ParseUserID(userID)
	if err != nil {
		return nil, appidentity.ErrInvalidOrExpiredToken
	}

	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, appidentity.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("find user by id: %w", err)
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
		h.logger.Error().Err(err).Str("user_id", user.ID().String()).Msg("failed to revoke sessions after password reset")
	}

	h.logger.Info().Str("user_id", user.ID().String()).Int("sessions_revoked", revoked).Msg("password reset")

	msg := dto.NewMessageDTO("password reset")
	return &msg, nil
}
