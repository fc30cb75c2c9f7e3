package identity

import (
	"fmt"
	"time"

	"github.com/yegamble/licensevault/internal/domain/shared"
)

// NotificationPreferences controls which classes of notification emails a
// user receives. All three are opt-in by default.
type NotificationPreferences struct {
	Expiry        bool
	Activity      bool
	Announcements bool
}

// DefaultNotificationPreferences returns the preferences assigned to a newly
// registered user.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Expiry: true, Activity: true, Announcements: false}
}

// User is the aggregate root for the Identity bounded context.
// It represents a user account with authentication and authorization capabilities.
type User struct {
	id           UserID
	email        Email
	username     Username
	passwordHash PasswordHash
	role         Role
	status       UserStatus
	notifyPrefs  NotificationPreferences
	createdAt    time.Time
	updatedAt    time.Time
	verifiedAt   *time.Time
	blockedAt    *time.Time
	lastLogin    *time.Time
	events       []shared.DomainEvent
}

// NewUser creates a new User with the given email, username, and password hash.
// The user is created with RoleUser and StatusUnverified by default.
// Emits a UserCreated event.
func NewUser(email Email, username Username, passwordHash PasswordHash) (*User, error) {
	if email.IsEmpty() {
		return nil, fmt.Errorf("email is required")
	}
	if username.IsEmpty() {
		return nil, fmt.Errorf("username is required")
	}
	if passwordHash.IsEmpty() {
		return nil, fmt.Errorf("password hash is required")
	}

	now := time.Now().UTC()
	user := &User{
		id:           NewUserID(),
		email:        email,
		username:     username,
		passwordHash: passwordHash,
		role:         RoleUser,
		status:       StatusUnverified,
		notifyPrefs:  DefaultNotificationPreferences(),
		createdAt:    now,
		updatedAt:    now,
		events:       []shared.DomainEvent{},
	}

	user.addEvent(NewUserCreated(user.id, user.email, user.username))
	return user, nil
}

// ReconstructUser reconstitutes a User from persistence without validation or events.
// This should only be used by the repository layer when loading from storage.
func ReconstructUser(
	id UserID,
	email Email,
	username Username,
	passwordHash PasswordHash,
	role Role,
	status UserStatus,
	notifyPrefs NotificationPreferences,
	createdAt, updatedAt time.Time,
	verifiedAt, blockedAt, lastLogin *time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		username:     username,
		passwordHash: passwordHash,
		role:         role,
		status:       status,
		notifyPrefs:  notifyPrefs,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		verifiedAt:   verifiedAt,
		blockedAt:    blockedAt,
		lastLogin:    lastLogin,
		events:       []shared.DomainEvent{},
	}
}

// ID returns the user's unique identifier.
func (u *User) ID() UserID {
	return u.id
}

// Email returns the user's email address.
func (u *User) Email() Email {
	return u.email
}

// Username returns the user's username.
func (u *User) Username() Username {
	return u.username
}

// PasswordHash returns the user's password hash.
// This method is primarily for persistence and should not be used for business logic.
func (u *User) PasswordHash() PasswordHash {
	return u.passwordHash
}

// Role returns the user's role.
func (u *User) Role() Role {
	return u.role
}

// Status returns the user's status.
func (u *User) Status() UserStatus {
	return u.status
}

// NotificationPreferences returns the user's notification preferences.
func (u *User) NotificationPreferences() NotificationPreferences {
	return u.notifyPrefs
}

// CreatedAt returns when the user was created.
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the user was last updated.
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// VerifiedAt returns when the user's email was verified, if ever.
func (u *User) VerifiedAt() *time.Time {
	return u.verifiedAt
}

// BlockedAt returns when the user was blocked, if currently blocked.
func (u *User) BlockedAt() *time.Time {
	return u.blockedAt
}

// LastLogin returns the timestamp of the user's last successful login, if any.
func (u *User) LastLogin() *time.Time {
	return u.lastLogin
}

// Events returns the domain events that have occurred on this aggregate.
func (u *User) Events() []shared.DomainEvent {
	return u.events
}

// ClearEvents clears all domain events from this aggregate.
// This should be called after events have been dispatched.
func (u *User) ClearEvents() {
	u.events = []shared.DomainEvent{}
}

// UpdateNotificationPreferences replaces the user's notification preferences.
func (u *User) UpdateNotificationPreferences(prefs NotificationPreferences) {
	u.notifyPrefs = prefs
	u.updatedAt = time.Now().UTC()
}

// ChangeRole changes the user's role.
// Emits a UserRoleChanged event.
func (u *User) ChangeRole(newRole Role) error {
	if !newRole.IsValid() {
		return fmt.Errorf("invalid role")
	}

	if u.role == newRole {
		return nil // No-op if role is the same
	}

	oldRole := u.role
	u.role = newRole
	u.updatedAt = time.Now().UTC()

	u.addEvent(NewUserRoleChanged(u.id, oldRole, newRole))
	return nil
}

// Verify marks the user's email as confirmed.
// Valid from {Unverified, Blocked} -> Verified, setting verifiedAt.
// No-op if already Verified or Active.
func (u *User) Verify() error {
	switch u.status {
	case StatusVerified, StatusActive:
		return nil
	case StatusUnverified, StatusBlocked:
		now := time.Now().UTC()
		u.status = StatusVerified
		u.verifiedAt = &now
		u.updatedAt = now
		u.addEvent(NewUserVerified(u.id))
		return nil
	default:
		return ErrInvalidUserStatus
	}
}

// Activate transitions the user into the Active status, the only status
// from which login is permitted.
// Valid from {Unverified, Verified} -> Active. Fails from Blocked.
func (u *User) Activate() error {
	switch u.status {
	case StatusActive:
		return nil
	case StatusBlocked:
		return ErrInvalidUserStatus
	case StatusUnverified, StatusVerified:
		u.status = StatusActive
		u.updatedAt = time.Now().UTC()
		u.addEvent(NewUserActivated(u.id))
		return nil
	default:
		return ErrInvalidUserStatus
	}
}

// Block moves the user to Blocked from any other status, recording the
// administrative reason. No-op if already Blocked.
func (u *User) Block(reason string) error {
	if u.status == StatusBlocked {
		return nil
	}

	now := time.Now().UTC()
	u.status = StatusBlocked
	u.blockedAt = &now
	u.updatedAt = now

	u.addEvent(NewUserBlocked(u.id, reason))
	return nil
}

// Unblock restores a Blocked user to Active, clearing blockedAt.
// No-op from any other status.
func (u *User) Unblock() error {
	if u.status != StatusBlocked {
		return nil
	}

	u.status = StatusActive
	u.blockedAt = nil
	u.updatedAt = time.Now().UTC()

	u.addEvent(NewUserUnblocked(u.id))
	return nil
}

// RecordLogin stamps the user's lastLogin timestamp to now.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.lastLogin = &now
	u.updatedAt = now
}

// VerifyPassword verifies that the given plaintext password matches the stored hash.
func (u *User) VerifyPassword(plaintext string) error {
	return u.passwordHash.Verify(plaintext)
}

// ChangePassword changes the user's password to the new hash.
// Emits a UserPasswordChanged event.
func (u *User) ChangePassword(newHash PasswordHash) error {
	if newHash.IsEmpty() {
		return fmt.Errorf("password hash is required")
	}

	u.passwordHash = newHash
	u.updatedAt = time.Now().UTC()

	u.addEvent(NewUserPasswordChanged(u.id))
	return nil
}

// CanLogin returns true if the user can log in (status is active).
func (u *User) CanLogin() bool {
	return u.status.CanLogin()
}

// addEvent adds a domain event to the aggregate's event list.
func (u *User) addEvent(event shared.DomainEvent) {
	u.events = append(u.events, event)
}
