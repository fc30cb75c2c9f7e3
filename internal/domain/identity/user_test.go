package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	t.Run("creates user with valid inputs", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)

		require.NoError(t, err)
		assert.False(t, user.ID().IsZero())
		assert.Equal(t, email, user.Email())
		assert.Equal(t, username, user.Username())
		assert.Equal(t, RoleUser, user.Role())
		assert.Equal(t, StatusUnverified, user.Status())
		assert.Equal(t, DefaultNotificationPreferences(), user.NotificationPreferences())
		assert.Nil(t, user.VerifiedAt())
		assert.Nil(t, user.BlockedAt())
		assert.Nil(t, user.LastLogin())
		assert.False(t, user.CreatedAt().IsZero())
		assert.False(t, user.UpdatedAt().IsZero())
		assert.Len(t, user.Events(), 1)
	})

	t.Run("emits UserCreated event", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)

		events := user.Events()
		require.Len(t, events, 1)

		event, ok := events[0].(UserCreated)
		require.True(t, ok)
		assert.Equal(t, "identity.user.created", event.EventType())
		assert.Equal(t, user.ID(), event.UserID)
		assert.Equal(t, email, event.Email)
		assert.Equal(t, username, event.Username)
	})

	t.Run("fails with empty email", func(t *testing.T) {
		t.Parallel()

		var emptyEmail Email
		_, err := NewUser(emptyEmail, username, passwordHash)

		require.Error(t, err)
	})

	t.Run("fails with empty username", func(t *testing.T) {
		t.Parallel()

		var emptyUsername Username
		_, err := NewUser(email, emptyUsername, passwordHash)

		require.Error(t, err)
	})

	t.Run("fails with empty password hash", func(t *testing.T) {
		t.Parallel()

		var emptyHash PasswordHash
		_, err := NewUser(email, username, emptyHash)

		require.Error(t, err)
	})
}

func TestReconstructUser(t *testing.T) {
	t.Parallel()

	id := NewUserID()
	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")
	role := RoleAdmin
	status := StatusActive
	prefs := NotificationPreferences{Expiry: true, Activity: false, Announcements: true}
	createdAt := time.Now().UTC().Add(-24 * time.Hour)
	updatedAt := time.Now().UTC()
	verifiedAt := createdAt.Add(time.Hour)

	user := ReconstructUser(id, email, username, passwordHash, role, status, prefs, createdAt, updatedAt, &verifiedAt, nil, nil)

	assert.Equal(t, id, user.ID())
	assert.Equal(t, email, user.Email())
	assert.Equal(t, username, user.Username())
	assert.Equal(t, role, user.Role())
	assert.Equal(t, status, user.Status())
	assert.Equal(t, prefs, user.NotificationPreferences())
	assert.Equal(t, createdAt, user.CreatedAt())
	assert.Equal(t, updatedAt, user.UpdatedAt())
	require.NotNil(t, user.VerifiedAt())
	assert.Equal(t, verifiedAt, *user.VerifiedAt())
	assert.Nil(t, user.BlockedAt())
	assert.Nil(t, user.LastLogin())
	assert.Len(t, user.Events(), 0) // No events on reconstruction
}

func TestUser_ChangeRole(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	t.Run("changes role successfully", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)
		user.ClearEvents()

		err = user.ChangeRole(RoleAdmin)
		require.NoError(t, err)

		assert.Equal(t, RoleAdmin, user.Role())
		assert.Len(t, user.Events(), 1)

		event, ok := user.Events()[0].(UserRoleChanged)
		require.True(t, ok)
		assert.Equal(t, "identity.user.role_changed", event.EventType())
		assert.Equal(t, RoleUser, event.OldRole)
		assert.Equal(t, RoleAdmin, event.NewRole)
	})

	t.Run("no-op when role is the same", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)
		user.ClearEvents()

		err = user.ChangeRole(RoleUser)
		require.NoError(t, err)

		assert.Len(t, user.Events(), 0)
	})

	t.Run("fails with invalid role", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)

		err = user.ChangeRole(Role("invalid"))
		require.Error(t, err)
	})
}

func TestUser_Verify(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	t.Run("verifies an unverified user", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)
		user.ClearEvents()

		err = user.Verify()
		require.NoError(t, err)

		assert.Equal(t, StatusVerified, user.Status())
		require.NotNil(t, user.VerifiedAt())
		assert.Len(t, user.Events(), 1)

		event, ok := user.Events()[0].(UserVerified)
		require.True(t, ok)
		assert.Equal(t, "identity.user.verified", event.EventType())
	})

	t.Run("verifies a blocked user", func(t *testing.T) {
		t.Parallel()

		user := ReconstructUser(
			NewUserID(), email, username, passwordHash,
			RoleUser, StatusBlocked, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
		)

		err := user.Verify()
		require.NoError(t, err)
		assert.Equal(t, StatusVerified, user.Status())
	})

	t.Run("no-op when already verified", func(t *testing.T) {
		t.Parallel()

		user := ReconstructUser(
			NewUserID(), email, username, passwordHash,
			RoleUser, StatusVerified, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
		)

		err := user.Verify()
		require.NoError(t, err)
		assert.Len(t, user.Events(), 0)
	})

	t.Run("no-op when already active", func(t *testing.T) {
		t.Parallel()

		user := ReconstructUser(
			NewUserID(), email, username, passwordHash,
			RoleUser, StatusActive, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
		)

		err := user.Verify()
		require.NoError(t, err)
		assert.Len(t, user.Events(), 0)
	})
}

func TestUser_Activate(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	t.Run("activates an unverified user", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)
		user.ClearEvents()

		err = user.Activate()
		require.NoError(t, err)

		assert.Equal(t, StatusActive, user.Status())
		assert.Len(t, user.Events(), 1)

		event, ok := user.Events()[0].(UserActivated)
		require.True(t, ok)
		assert.Equal(t, "identity.user.activated", event.EventType())
	})

	t.Run("activates a verified user", func(t *testing.T) {
		t.Parallel()

		user := ReconstructUser(
			NewUserID(), email, username, passwordHash,
			RoleUser, StatusVerified, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
		)

		err := user.Activate()
		require.NoError(t, err)
		assert.Equal(t, StatusActive, user.Status())
	})

	t.Run("no-op when already active", func(t *testing.T) {
		t.Parallel()

		user := ReconstructUser(
			NewUserID(), email, username, passwordHash,
			RoleUser, StatusActive, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
		)
		user.ClearEvents()

		err := user.Activate()
		require.NoError(t, err)

		assert.Len(t, user.Events(), 0)
	})

	t.Run("fails when user is blocked", func(t *testing.T) {
		t.Parallel()

		user := ReconstructUser(
			NewUserID(), email, username, passwordHash,
			RoleUser, StatusBlocked, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
		)

		err := user.Activate()
		require.ErrorIs(t, err, ErrInvalidUserStatus)
	})
}

func TestUser_Block(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	t.Run("blocks an active user", func(t *testing.T) {
		t.Parallel()

		user := ReconstructUser(
			NewUserID(), email, username, passwordHash,
			RoleUser, StatusActive, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
		)

		err := user.Block("Violation of terms")
		require.NoError(t, err)

		assert.Equal(t, StatusBlocked, user.Status())
		require.NotNil(t, user.BlockedAt())
		assert.Len(t, user.Events(), 1)

		event, ok := user.Events()[0].(UserBlocked)
		require.True(t, ok)
		assert.Equal(t, "identity.user.blocked", event.EventType())
		assert.Equal(t, "Violation of terms", event.Reason)
	})

	t.Run("no-op when already blocked", func(t *testing.T) {
		t.Parallel()

		user := ReconstructUser(
			NewUserID(), email, username, passwordHash,
			RoleUser, StatusBlocked, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
		)

		err := user.Block("Second reason")
		require.NoError(t, err)

		assert.Len(t, user.Events(), 0)
	})
}

func TestUser_Unblock(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	t.Run("unblocks a blocked user", func(t *testing.T) {
		t.Parallel()

		user := ReconstructUser(
			NewUserID(), email, username, passwordHash,
			RoleUser, StatusBlocked, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
		)

		err := user.Unblock()
		require.NoError(t, err)

		assert.Equal(t, StatusActive, user.Status())
		assert.Nil(t, user.BlockedAt())
		assert.Len(t, user.Events(), 1)

		event, ok := user.Events()[0].(UserUnblocked)
		require.True(t, ok)
		assert.Equal(t, "identity.user.unblocked", event.EventType())
	})

	t.Run("no-op when not blocked", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)
		user.ClearEvents()

		err = user.Unblock()
		require.NoError(t, err)

		assert.Len(t, user.Events(), 0)
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	password := "SecureP@ssw0rd123"
	passwordHash, _ := NewPasswordHash(password)

	t.Run("verifies correct password", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)

		err = user.VerifyPassword(password)
		assert.NoError(t, err)
	})

	t.Run("fails with incorrect password", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)

		err = user.VerifyPassword("WrongPassword123")
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	t.Run("changes password successfully", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)
		user.ClearEvents()

		newHash, _ := NewPasswordHash("NewSecureP@ssw0rd456")
		err = user.ChangePassword(newHash)
		require.NoError(t, err)

		// Verify old password no longer works
		err = user.VerifyPassword("SecureP@ssw0rd123")
		require.ErrorIs(t, err, ErrPasswordMismatch)

		// Verify new password works
		err = user.VerifyPassword("NewSecureP@ssw0rd456")
		assert.NoError(t, err)

		assert.Len(t, user.Events(), 1)
		event, ok := user.Events()[0].(UserPasswordChanged)
		require.True(t, ok)
		assert.Equal(t, "identity.user.password_changed", event.EventType())
	})

	t.Run("fails with empty password hash", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(email, username, passwordHash)
		require.NoError(t, err)

		var emptyHash PasswordHash
		err = user.ChangePassword(emptyHash)
		require.Error(t, err)
	})
}

func TestUser_RecordLogin(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	user, err := NewUser(email, username, passwordHash)
	require.NoError(t, err)
	assert.Nil(t, user.LastLogin())

	user.RecordLogin()
	require.NotNil(t, user.LastLogin())
	assert.WithinDuration(t, time.Now().UTC(), *user.LastLogin(), time.Second)
}

func TestUser_CanLogin(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	tests := []struct {
		name   string
		status UserStatus
		want   bool
	}{
		{
			name:   "active user can login",
			status: StatusActive,
			want:   true,
		},
		{
			name:   "unverified user cannot login",
			status: StatusUnverified,
			want:   false,
		},
		{
			name:   "verified user cannot login",
			status: StatusVerified,
			want:   false,
		},
		{
			name:   "blocked user cannot login",
			status: StatusBlocked,
			want:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user := ReconstructUser(
				NewUserID(), email, username, passwordHash,
				RoleUser, tt.status, DefaultNotificationPreferences(), time.Now(), time.Now(), nil, nil, nil,
			)

			assert.Equal(t, tt.want, user.CanLogin())
		})
	}
}

func TestUser_ClearEvents(t *testing.T) {
	t.Parallel()

	email, _ := NewEmail("test@example.com")
	username, _ := NewUsername("testuser")
	passwordHash, _ := NewPasswordHash("SecureP@ssw0rd123")

	user, err := NewUser(email, username, passwordHash)
	require.NoError(t, err)

	assert.Len(t, user.Events(), 1)

	user.ClearEvents()
	assert.Len(t, user.Events(), 0)
}
