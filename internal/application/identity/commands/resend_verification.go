package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/domain/identity"
)

// verificationTokenBytes is the random size (>= 256 bits) backing
// email-verification and password-reset tokens.
const verificationTokenBytes = 32

// ResendVerificationCommand represents the intent to re-issue an
// email-verification token for a given address.
type ResendVerificationCommand struct {
	Email string
}

// ResendVerificationHandler generates a fresh verification token and
// enqueues delivery. The HTTP boundary must return the same outward
// response regardless of the error this returns, so that the service's
// ErrUserNotFound/ErrAlreadyVerified cannot be used to enumerate accounts.
type ResendVerificationHandler struct {
	users         identity.UserRepository
	verifications appidentity.VerificationStore
	tokenGen      appidentity.TokenGenerator
	mail          appidentity.MailDispatcher
	logger        *zerolog.Logger
}

// NewResendVerificationHandler creates a new ResendVerificationHandler.
func NewResendVerificationHandler(
	users identity.UserRepository,
	verifications appidentity.VerificationStore,
	tokenGen appidentity.TokenGenerator,
	mail appidentity.MailDispatcher,
	logger *zerolog.Logger,
) *ResendVerificationHandler {
	return &ResendVerificationHandler{
		users:         users,
		verifications: verifications,
		tokenGen:      tokenGen,
		mail:          mail,
		logger:        logger,
	}
}

// Handle looks up cmd.Email, generates a fresh verification token for
// Unverified accounts, and enqueues delivery.
func (h *ResendVerificationHandler) Handle(ctx context.Context, cmd ResendVerificationCommand) error {
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

	if user.Status() != identity.StatusUnverified {
		return appidentity.ErrAlreadyVerified
	}

	token, err := h.tokenGen.Generate(verificationTokenBytes)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	if err := h.verifications.PutEmailVerification(ctx, token, user.ID().String()); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	if err := h.mail.Enqueue(ctx, appidentity.MailTask{
		Kind:  "verify_email",
		Email: user.Email().String(),
		Token: token,
	}); err != nil {
		h.logger.Warn().Err(err).Str("user_id", user.ID().String()).Msg("failed to enqueue verification email")
	}

	h.logger.Info().Str("user_id", user.ID().String()).Msg("verification email re-issued")
	return nil
}
