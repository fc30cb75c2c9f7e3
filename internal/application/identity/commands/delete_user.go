package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	domainIdentity "github.com/yegamble/licensevault/internal/domain/identity"
)

// DeleteUserCommand deletes a user account. Requires password confirmation
// to prevent accidental deletion; cascades to the user's licenses at the
// database level.
type DeleteUserCommand struct {
	UserID      uuid.UUID
	RequestorID uuid.UUID
	Password    string
}

// Implement Command interface
func (DeleteUserCommand) isCommand() {}

// DeleteUserHandler processes DeleteUserCommand requests.
type DeleteUserHandler struct {
	userRepo domainIdentity.UserRepository
	tokens   appidentity.TokenService
}

// NewDeleteUserHandler creates a new DeleteUserHandler with the given dependencies.
func NewDeleteUserHandler(userRepo domainIdentity.UserRepository, tokens appidentity.TokenService) *DeleteUserHandler {
	return &DeleteUserHandler{userRepo: userRepo, tokens: tokens}
}

// Handle executes the DeleteUserCommand:
//  1. verifies the requestor owns the account and the password
//  2. deletes the user
//  3. revokes all of the user's sessions
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if cmd.RequestorID != cmd.UserID {
		return fmt.Errorf("unauthorized: cannot delete another user's account")
	}

	userID, err := domainIdentity.ParseUserID(cmd.UserID.String())
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	user, err := h.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user by id: %w", err)
	}

	if err := user.VerifyPassword(cmd.Password); err != nil {
		return fmt.Errorf("password verification failed: %w", domainIdentity.ErrInvalidCredentials)
	}

	if err := h.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if _, err := h.tokens.RevokeAllSessions(ctx, cmd.UserID.String()); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}

	return nil
}
