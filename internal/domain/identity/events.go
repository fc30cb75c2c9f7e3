package identity

import (
	"github.com/yegamble/licensevault/internal/domain/shared"
)

// UserCreated is emitted when a new user is created.
type UserCreated struct {
	shared.BaseEvent
	UserID   UserID
	Email    Email
	Username Username
}

// NewUserCreated creates a new UserCreated event.
func NewUserCreated(userID UserID, email Email, username Username) UserCreated {
	return UserCreated{
		BaseEvent: shared.NewBaseEvent("identity.user.created", userID.String()),
		UserID:    userID,
		Email:     email,
		Username:  username,
	}
}

// UserRoleChanged is emitted when a user's role is changed.
type UserRoleChanged struct {
	shared.BaseEvent
	UserID  UserID
	OldRole Role
	NewRole Role
}

// NewUserRoleChanged creates a new UserRoleChanged event.
func NewUserRoleChanged(userID UserID, oldRole, newRole Role) UserRoleChanged {
	return UserRoleChanged{
		BaseEvent: shared.NewBaseEvent("identity.user.role_changed", userID.String()),
		UserID:    userID,
		OldRole:   oldRole,
		NewRole:   newRole,
	}
}

// UserVerified is emitted when a user confirms their email address.
type UserVerified struct {
	shared.BaseEvent
	UserID UserID
}

// NewUserVerified creates a new UserVerified event.
func NewUserVerified(userID UserID) UserVerified {
	return UserVerified{
		BaseEvent: shared.NewBaseEvent("identity.user.verified", userID.String()),
		UserID:    userID,
	}
}

// UserActivated is emitted when a user becomes able to log in.
type UserActivated struct {
	shared.BaseEvent
	UserID UserID
}

// NewUserActivated creates a new UserActivated event.
func NewUserActivated(userID UserID) UserActivated {
	return UserActivated{
		BaseEvent: shared.NewBaseEvent("identity.user.activated", userID.String()),
		UserID:    userID,
	}
}

// UserBlocked is emitted when a user is blocked by an administrator.
type UserBlocked struct {
	shared.BaseEvent
	UserID UserID
	Reason string
}

// NewUserBlocked creates a new UserBlocked event.
func NewUserBlocked(userID UserID, reason string) UserBlocked {
	return UserBlocked{
		BaseEvent: shared.NewBaseEvent("identity.user.blocked", userID.String()),
		UserID:    userID,
		Reason:    reason,
	}
}

// UserUnblocked is emitted when a blocked user is restored to active.
type UserUnblocked struct {
	shared.BaseEvent
	UserID UserID
}

// NewUserUnblocked creates a new UserUnblocked event.
func NewUserUnblocked(userID UserID) UserUnblocked {
	return UserUnblocked{
		BaseEvent: shared.NewBaseEvent("identity.user.unblocked", userID.String()),
		UserID:    userID,
	}
}

// UserPasswordChanged is emitted when a user's password is changed.
type UserPasswordChanged struct {
	shared.BaseEvent
	UserID UserID
}

// NewUserPasswordChanged creates a new UserPasswordChanged event.
func NewUserPasswordChanged(userID UserID) UserPasswordChanged {
	return UserPasswordChanged{
		BaseEvent: shared.NewBaseEvent("identity.user.password_changed", userID.String()),
		UserID:    userID,
	}
}
