package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/domain/identity"
)

// ForgotPasswordCommand represents the intent to request a password-reset
// email for a given address.
type ForgotPasswordCommand struct {
	Email string
}

// ForgotPasswordHandler generates a fresh password-reset token and enqueues
// delivery. As with ResendVerificationHandler, the HTTP boundary must
// return the same outward response regardless of the error this returns,
// to avoid leaking which emails are registered.
type ForgotPasswordHandler struct {
	users         identity.UserRepository
	verifications appidentity.VerificationStore
	tokenGen      appidentity.TokenGenerator
	mail          appidentity.MailDispatcher
	logger        *zerolog.Logger
}

// NewForgotPasswordHandler creates a new ForgotPasswordHandler.
func NewForgotPasswordHandler(
	users identity.UserRepository,
	verifications appidentity.VerificationStore,
	tokenGen appidentity.TokenGenerator,
	mail appidentity.MailDispatcher,
	logger *zerolog.Logger,
) *ForgotPasswordHandler {
	return &ForgotPasswordHandler{
		users:         users,
		verifications: verifications,
		tokenGen:      tokenGen,
		mail:          mail,
		logger:        logger,
	}
}

// Handle looks up cmd.Email, generates a password-reset token, and enqueues
// delivery. Blocked accounts still receive a reset email; blocking a user
// does not require the ability to reset passwords, but it is a separate
// decision the login path enforces.
func (h *ForgotPasswordHandler) Handle(ctx context.Context, cmd ForgotPasswordCommand) error {
	email, err := identity.NewEmail(cmd.Email)
	if err != nil {
		return appidentity.ErrInvalidCredentials
	}

	user, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return identity.ErrUserNotFound
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	token, err := h.tokenGen.Generate(verificationTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	if err := h.verifications.PutPasswordReset(ctx, token, user.ID().String()); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := h.mail.Enqueue(ctx, appidentity.MailTask{
		Kind:  "password_reset",
		Email: user.Email().String(),
		Token: token,
	}); err != nil {
		h.logger.Warn().Err(err).Str("user_id", user.ID().String()).Msg("failed to enqueue password reset email")
	}

	h.logger.Info().Str("user_id", user.ID().String()).Msg("password reset requested")
	return nil
}
