package testhelpers

import (
	"time"

	"github.com/google/uuid"

	"github.com/yegamble/licensevault/internal/domain/identity"
	jwtpkg "github.com/yegamble/licensevault/internal/infrastructure/security/jwt"
)

// Test constants for consistent fixture data.
const (
	ValidEmail     = "test@example.com"
	ValidUsername  = "testuser"
	ValidPassword  = "SecureP@ssw0rd123"
	ValidIPAddress = "192.168.1.1"
	ValidUserAgent = "Mozilla/5.0 (Test Browser)"
)

var (
	// ValidUserID is a reusable user ID for tests.
	ValidUserID = identity.NewUserID()
	// ValidJTI is a reusable session identifier for tests.
	ValidJTI = uuid.New().String()
)

// ValidUser returns a valid user entity for testing.
func ValidUser() *identity.User {
	email, _ := identity.NewEmail(ValidEmail)
	username, _ := identity.NewUsername(ValidUsername)
	passwordHash, _ := identity.NewPasswordHash(ValidPassword)

	user, _ := identity.NewUser(email, username, passwordHash)
	user.ClearEvents() // Clear creation event for cleaner tests
	return user
}

// ValidUserWithID returns a valid user with a specific ID.
func ValidUserWithID(userID identity.UserID) *identity.User {
	email, _ := identity.NewEmail(ValidEmail)
	username, _ := identity.NewUsername(ValidUsername)
	passwordHash, _ := identity.NewPasswordHash(ValidPassword)

	user := identity.ReconstructUser(
		userID,
		email,
		username,
		passwordHash,
		identity.RoleUser,
		identity.StatusActive,
		identity.DefaultNotificationPreferences(),
		time.Now().UTC(),
		time.Now().UTC(),
		nil, nil, nil,
	)
	return user
}

// ValidActiveUser returns a user with active status.
func ValidActiveUser() *identity.User {
	user := ValidUser()
	_ = user.Activate()
	user.ClearEvents()
	return user
}

// ValidAdminUser returns a user with admin role.
func ValidAdminUser() *identity.User {
	user := ValidActiveUser()
	_ = user.ChangeRole(identity.RoleAdmin)
	user.ClearEvents()
	return user
}

// ValidBlockedUser returns a blocked user.
func ValidBlockedUser() *identity.User {
	user := ValidActiveUser()
	_ = user.Block("Test block")
	user.ClearEvents()
	return user
}

// ValidEmailVO returns a valid Email value object.
func ValidEmailVO() identity.Email {
	email, _ := identity.NewEmail(ValidEmail)
	return email
}

// ValidUsernameVO returns a valid Username value object.
func ValidUsernameVO() identity.Username {
	username, _ := identity.NewUsername(ValidUsername)
	return username
}

// ValidPasswordHashVO returns a valid PasswordHash value object.
func ValidPasswordHashVO() identity.PasswordHash {
	hash, _ := identity.NewPasswordHash(ValidPassword)
	return hash
}

// ValidTokenPair returns valid access and refresh tokens for testing.
func ValidTokenPair() (accessToken string, refreshToken string) {
	return "valid.access.token", "valid.refresh.token"
}

// ValidRefreshTokenRecord returns a live refresh-token record for testing.
func ValidRefreshTokenRecord() jwtpkg.RefreshTokenRecord {
	now := time.Now().UTC()
	return jwtpkg.RefreshTokenRecord{
		UserID:    ValidUserID.String(),
		JTI:       ValidJTI,
		TokenHash: jwtpkg.HashToken("valid.refresh.token"),
		CreatedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

// ExpiredRefreshTokenRecord returns an expired refresh-token record.
func ExpiredRefreshTokenRecord() jwtpkg.RefreshTokenRecord {
	now := time.Now().UTC()
	return jwtpkg.RefreshTokenRecord{
		UserID:    ValidUserID.String(),
		JTI:       ValidJTI,
		TokenHash: jwtpkg.HashToken("expired.refresh.token"),
		CreatedAt: now.Add(-8 * 24 * time.Hour),
		ExpiresAt: now.Add(-1 * time.Hour),
	}
}

// RevokedRefreshTokenRecord returns a revoked refresh-token record.
func RevokedRefreshTokenRecord() jwtpkg.RefreshTokenRecord {
	rec := ValidRefreshTokenRecord()
	rec.Revoked = true
	rec.RevokedAt = time.Now().UTC()
	return rec
}

// AlternateEmail returns an alternate email for testing uniqueness constraints.
func AlternateEmail() identity.Email {
	email, _ := identity.NewEmail("alternate@example.com")
	return email
}

// AlternateUsername returns an alternate username for testing uniqueness constraints.
func AlternateUsername() identity.Username {
	username, _ := identity.NewUsername("alternateuser")
	return username
}

// InvalidEmails returns various invalid email strings for testing validation.
func InvalidEmails() []string {
	return []string{
		"",                    // empty
		"notanemail",          // missing @
		"@example.com",        // missing local part
		"user@",               // missing domain
		"user name@test.com",  // spaces
		"user@mailinator.com", // disposable
	}
}

// InvalidUsernames returns various invalid username strings for testing validation.
func InvalidUsernames() []string {
	return []string{
		"",       // empty
		"ab",     // too short
		"user@",  // invalid character
		"user ",  // space
		"admin",  // reserved
		"system", // reserved
	}
}

// InvalidPasswords returns password strings the policy must reject, each
// failing a different rule.
func InvalidPasswords() []string {
	return []string{
		"",                 // empty
		"Sh0rt!pass",       // too short
		"nouppercase123!",  // missing uppercase
		"NOLOWERCASE123!",  // missing lowercase
		"NoDigitsInHere!",  // missing digit
		"NoSpecialChar123", // missing special character
	}
}

// WeakPasswords returns passwords long enough to pass the length check but
// rejected by the common-password blocklist.
func WeakPasswords() []string {
	return []string{
		"password1234",
		"123456789012",
		"qwertyuiop123",
		"welcomehome123",
	}
}
