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

// VerifyEmailCommand represents the intent to consume a single-use
// email-verification token.
type VerifyEmailCommand struct {
	Token string
}

// VerifyEmailHandler resolves a verification token to its owning user and
// transitions that user to Verified.
type VerifyEmailHandler struct {
	users         identity.UserRepository
	verifications appidentity.VerificationStore
	logger        *zerolog.Logger
}

// NewVerifyEmailHandler creates a new VerifyEmailHandler.
func NewVerifyEmailHandler(users identity.UserRepository, verifications appidentity.VerificationStore, logger *zerolog.Logger) *VerifyEmailHandler {
	return &VerifyEmailHandler{users: users, verifications: verifications, logger: logger}
}

// Handle consumes cmd.Token and verifies the user it resolves to. Returns
// ErrInvalidOrExpiredToken if the token is unknown or already consumed, and
// ErrAlreadyVerified if the user has already progressed past Unverified —
// the token is still consumed in that case, since it is single-use
// regardless of outcome.
func (h *VerifyEmailHandler) Handle(ctx context.Context, cmd VerifyEmailCommand) (*dto.MessageDTO, error) {
	userID, err := h.verifications.ConsumeEmailVerification(ctx, cmd.Token)
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

	switch user.Status() {
	case identity.StatusVerified, identity.StatusActive:
		return nil, appidentity.ErrAlreadyVerified
	}

	if err := user.Verify(); err != nil {
		return nil, fmt.Errorf("verify user: %w", err)
	}

	if err := h.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	h.logger.Info().Str("user_id", user.ID().String()).Msg("email verified")

	msg := dto.NewMessageDTO("email verified")
	return &msg, nil
}
