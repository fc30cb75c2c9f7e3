package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/application/identity/dto"
	"github.com/yegamble/licensevault/internal/domain/identity"
	infrajwt "github.com/yegamble/licensevault/internal/infrastructure/security/jwt"
)

// RefreshTokenCommand represents the intent to rotate a refresh token for a
// new access+refresh pair.
type RefreshTokenCommand struct {
	RefreshToken string
}

// Implement Command interface from types.go
func (RefreshTokenCommand) isCommand() {}

// RefreshTokenHandler processes token refresh commands, delegating rotation
// to the token service and re-checking account status on every
// refresh.
type RefreshTokenHandler struct {
	users  identity.UserRepository
	tokens appidentity.TokenService
	logger *zerolog.Logger
}

// NewRefreshTokenHandler creates a new RefreshTokenHandler.
func NewRefreshTokenHandler(users identity.UserRepository, tokens appidentity.TokenService, logger *zerolog.Logger) *RefreshTokenHandler {
	return &RefreshTokenHandler{users: users, tokens: tokens, logger: logger}
}

// Handle rotates cmd.RefreshToken: the token is resolved to its owning user
// via the session store's reverse index, the owner's account status is
// re-checked, and a fresh access+refresh pair is minted under the same
// session id.
func (h *RefreshTokenHandler) Handle(ctx context.Context, cmd RefreshTokenCommand) (*dto.TokenPairDTO, error) {
	userID, err := h.tokens.ResolveUserID(ctx, cmd.RefreshToken)
	if err != nil {
		return nil, mapTokenServiceErr(err)
	}

	id, err := identity.ParseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in refresh token: %w", err)
	}

	owner, err := h.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, appidentity.ErrTokenNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if owner.Status() == identity.StatusBlocked {
		h.logger.Warn().Str("user_id", owner.ID().String()).Msg("refresh attempted for blocked account")
		if err := h.tokens.RevokeByRefreshToken(ctx, cmd.RefreshToken); err != nil {
			h.logger.Error().Err(err).Msg("failed to revoke session for blocked account")
		}
		return nil, appidentity.ErrAccountBlocked
	}

	claims := appidentity.UserClaims{
		UserID: owner.ID().String(),
		Email:  owner.Email().String(),
		Role:   owner.Role().String(),
	}

	access, refresh, accessExpiresAt, err := h.tokens.Refresh(ctx, claims, cmd.RefreshToken)
	if err != nil {
		return nil, mapTokenServiceErr(err)
	}

	h.logger.Info().Str("user_id", owner.ID().String()).Msg("token refreshed successfully")

	tokenPair := dto.NewTokenPairDTO(access, refresh, accessExpiresAt)
	return &tokenPair, nil
}

// mapTokenServiceErr translates infrastructure-level token errors to the
// application error taxonomy.
func mapTokenServiceErr(err error) error {
	switch {
	case errors.Is(err, infrajwt.ErrTokenNotFound):
		return appidentity.ErrTokenNotFound
	case errors.Is(err, infrajwt.ErrTokenRevoked):
		return appidentity.ErrTokenRevoked
	case errors.Is(err, infrajwt.ErrTokenExpired):
		return appidentity.ErrTokenExpired
	default:
		return fmt.Errorf("%w: %v", appidentity.ErrTokenServiceFailure, err)
	}
}
