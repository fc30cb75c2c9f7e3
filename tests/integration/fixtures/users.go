package fixtures

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yegamble/licensevault/internal/domain/identity"
)

// UserFixture provides test user data and factory functions.
type UserFixture struct {
	ID           uuid.UUID
	Email        string
	Username     string
	Password     string
	Role         identity.Role
	Status       identity.UserStatus
	PasswordHash identity.PasswordHash
}

// ValidUser returns an Active user fixture with sensible defaults.
func ValidUser(t *testing.T) *UserFixture {
	t.Helper()

	passwordHash, err := identity.NewPasswordHash("ValidPass@123")
	require.NoError(t, err)

	return &UserFixture{
		ID:           uuid.New(),
		Email:        "test@example.com",
		Username:     "testuser",
		Password:     "ValidPass@123",
		Role:         identity.RoleUser,
		Status:       identity.StatusActive,
		PasswordHash: passwordHash,
	}
}

// AdminUser returns an Active user fixture with admin role.
func AdminUser(t *testing.T) *UserFixture {
	t.Helper()

	passwordHash, err := identity.NewPasswordHash("AdminPass@123")
	require.NoError(t, err)

	return &UserFixture{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		Username:     "adminuser",
		Password:     "AdminPass@123",
		Role:         identity.RoleAdmin,
		Status:       identity.StatusActive,
		PasswordHash: passwordHash,
	}
}

// UnverifiedUser returns a freshly registered user that has not yet
// confirmed their email address.
func UnverifiedUser(t *testing.T) *UserFixture {
	t.Helper()

	passwordHash, err := identity.NewPasswordHash("ValidPass@123")
	require.NoError(t, err)

	return &UserFixture{
		ID:           uuid.New(),
		Email:        "unverified@example.com",
		Username:     "unverified",
		Password:     "ValidPass@123",
		Role:         identity.RoleUser,
		Status:       identity.StatusUnverified,
		PasswordHash: passwordHash,
	}
}

// BlockedUser returns a user fixture with blocked status.
func BlockedUser(t *testing.T) *UserFixture {
	t.Helper()

	passwordHash, err := identity.NewPasswordHash("ValidPass@123")
	require.NoError(t, err)

	return &UserFixture{
		ID:           uuid.New(),
		Email:        "blocked@example.com",
		Username:     "blockeduser",
		Password:     "ValidPass@123",
		Role:         identity.RoleUser,
		Status:       identity.StatusBlocked,
		PasswordHash: passwordHash,
	}
}

// ToEntity converts the fixture to a domain User aggregate in the
// fixture's declared status, hydrated the way the repository would.
func (f *UserFixture) ToEntity(t *testing.T) *identity.User {
	t.Helper()

	userID, err := identity.ParseUserID(f.ID.String())
	require.NoError(t, err)

	email, err := identity.NewEmail(f.Email)
	require.NoError(t, err)

	username, err := identity.NewUsername(f.Username)
	require.NoError(t, err)

	now := time.Now().UTC()
	var verifiedAt, blockedAt *time.Time
	switch f.Status {
	case identity.StatusVerified, identity.StatusActive:
		verifiedAt = &now
	case identity.StatusBlocked:
		blockedAt = &now
	}

	return identity.ReconstructUser(
		userID,
		email,
		username,
		f.PasswordHash,
		f.Role,
		f.Status,
		identity.DefaultNotificationPreferences(),
		now, now,
		verifiedAt, blockedAt, nil,
	)
}

// WithEmail returns a copy of the fixture with a custom email.
func (f *UserFixture) WithEmail(email string) *UserFixture {
	clone := *f
	clone.Email = email
	return &clone
}

// WithUsername returns a copy of the fixture with a custom username.
func (f *UserFixture) WithUsername(username string) *UserFixture {
	clone := *f
	clone.Username = username
	return &clone
}

// UniqueUser returns a user fixture with a unique email and username,
// usable when a test needs several users side by side.
func UniqueUser(t *testing.T, prefix string) *UserFixture {
	t.Helper()

	f := ValidUser(t)
	suffix := uuid.New().String()[:8]
	f.ID = uuid.New()
	f.Email = prefix + suffix + "@example.com"
	f.Username = prefix + suffix
	return f
}
