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

// LoginCommand represents the intent to authenticate a user.
// The identifier can be either an email address or username. A presented
// refresh-token cookie, if any, is revoked before a new session is issued
// so that at most one live session descends from a single browser.
type LoginCommand struct {
	Identifier           string // Email or username
	Password             string
	ExistingRefreshToken string
}

// LoginHandler orchestrates the login use case: credential verification,
// account-status enforcement, and session issuance.
type LoginHandler struct {
	users  identity.UserRepository
	tokens appidentity.TokenService
	logger *zerolog.Logger
}

// NewLoginHandler creates a new LoginHandler with the given dependencies.
func NewLoginHandler(users identity.UserRepository, tokens appidentity.TokenService, logger *zerolog.Logger) *LoginHandler {
	return &LoginHandler{users: users, tokens: tokens, logger: logger}
}

// Handle executes the login use case:
//  1. revoke any presented refresh token (single-browser-session rule)
//  2. load the user by username or email
//  3. verify the password
//  4. reject Blocked accounts
//  5. mint an access+refresh pair and record the login
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*dto.AuthResponseDTO, error) {
	if cmd.ExistingRefreshToken != "" {
		if err := h.tokens.RevokeByRefreshToken(ctx, cmd.ExistingRefreshToken); err != nil {
			h.logger.Warn().Err(err).Msg("failed to revoke existing refresh token before login")
		}
	}

	user, err := h.findUserByIdentifier(ctx, cmd.Identifier)
	if err != nil {
		h.logger.Debug().Err(err).Msg("login attempt with invalid identifier")
		return nil, appidentity.ErrInvalidCredentials
	}

	if err := user.VerifyPassword(cmd.Password); err != nil {
		h.logger.Warn().Str("user_id", user.ID().String()).Msg("login attempt with invalid password")
		return nil, appidentity.ErrInvalidCredentials
	}

	if user.Status() == identity.StatusBlocked {
		h.logger.Warn().Str("user_id", user.ID().String()).Msg("login attempt for blocked account")
		return nil, appidentity.ErrAccountBlocked
	}

	claims := appidentity.UserClaims{
		UserID: user.ID().String(),
		Email:  user.Email().String(),
		Role:   user.Role().String(),
	}

	access, refresh, accessExpiresAt, err := h.tokens.IssueSession(ctx, claims)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID().String()).Msg("failed to issue session")
		return nil, fmt.Errorf("%w: %v", appidentity.ErrTokenServiceFailure, err)
	}

	user.RecordLogin()
	if err := h.users.Save(ctx, user); err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID().String()).Msg("failed to persist last login")
	}

	h.logger.Info().Str("user_id", user.ID().String()).Msg("user logged in successfully")

	tokens := dto.NewTokenPairDTO(access, refresh, accessExpiresAt)
	authResponse := dto.NewAuthResponseDTO(user, tokens)
	return &authResponse, nil
}

// findUserByIdentifier attempts to find a user by email or username.
func (h *LoginHandler) findUserByIdentifier(ctx context.Context, ident string) (*identity.User, error) {
	if email, err := identity.NewEmail(ident); err == nil {
		user, err := h.users.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, identity.ErrUserNotFound) {
				return nil, appidentity.ErrInvalidCredentials
			}
			return nil, fmt.Errorf("find user by email: %w", err)
		}
		return user, nil
	}

	if username, err := identity.NewUsername(ident); err == nil {
		user, err := h.users.FindByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, identity.ErrUserNotFound) {
				return nil, appidentity.ErrInvalidCredentials
			}
			return nil, fmt.Errorf("find user by username: %w", err)
		}
		return user, nil
	}

	return nil, appidentity.ErrInvalidCredentials
}
