package identity

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHash is a value object representing a hashed password using bcrypt.
// Passwords are never stored in plaintext.
type PasswordHash struct {
	hash string
}

// Password validation constants.
const (
	minPasswordLength = 12  // Minimum password length
	maxPasswordLength = 128 // Maximum password length
	bcryptCost        = 12  // Work factor; must be >= bcrypt.DefaultCost (10)
)

// commonPasswords contains a list of commonly used weak passwords.
// In production, this should be loaded from a comprehensive external list (e.g., top 10k passwords).
var commonPasswords = map[string]bool{
	"password":       true,
	"password123":    true,
	"password1234":   true, // 13 chars - for testing weak password detection
	"123456":         true,
	"12345678":       true,
	"123456789012":   true, // 12 chars - for testing weak password detection
	"qwerty":         true,
	"qwertyuiop123":  true, // 14 chars - for testing weak password detection
	"abc123":         true,
	"monkey":         true,
	"1234567":        true,
	"letmein":        true,
	"trustno1":       true,
	"dragon":         true,
	"baseball":       true,
	"111111":         true,
	"iloveyou":       true,
	"master":         true,
	"sunshine":       true,
	"ashley":         true,
	"bailey":         true,
	"passw0rd":       true,
	"shadow":         true,
	"123123":         true,
	"654321":         true,
	"superman":       true,
	"qazwsx":         true,
	"michael":        true,
	"football":       true,
	"welcomehome123": true, // 15 chars - for testing weak password detection
}

// NewPasswordHash creates a new PasswordHash by hashing the plaintext password using bcrypt.
// The password must be between 12 and 128 characters, cannot be a commonly used weak
// password, and must contain at least one uppercase letter, one lowercase letter, one
// digit, and one special character.
func NewPasswordHash(plaintext string) (PasswordHash, error) {
	if plaintext == "" {
		return PasswordHash{}, ErrPasswordEmpty
	}

	if len(plaintext) < minPasswordLength {
		return PasswordHash{}, ErrPasswordTooShort
	}

	if len(plaintext) > maxPasswordLength {
		return PasswordHash{}, ErrPasswordTooLong
	}

	// Check against common weak passwords (case-insensitive)
	if commonPasswords[strings.ToLower(plaintext)] {
		return PasswordHash{}, ErrPasswordWeak
	}

	if !hasRequiredClasses(plaintext) {
		return PasswordHash{}, ErrPasswordComplexity
	}

	hash, err := bcrypt.GenerateFromPassword(prehash(plaintext), bcryptCost)
	if err != nil {
		return PasswordHash{}, fmt.Errorf("failed to hash password: %w", err)
	}

	return PasswordHash{hash: string(hash)}, nil
}

// hasRequiredClasses reports whether s contains at least one uppercase
// letter, one lowercase letter, one digit, and one character outside those
// three classes.
func hasRequiredClasses(s string) bool {
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// prehash collapses the plaintext to a fixed 44-byte base64-encoded SHA-256
// digest before bcrypt sees it, since bcrypt silently ignores anything past
// 72 bytes and maxPasswordLength allows up to 128.
func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// ParsePasswordHash creates a PasswordHash from an encoded string.
// This is used when loading a hash from storage.
func ParsePasswordHash(encoded string) (PasswordHash, error) {
	if encoded == "" {
		return PasswordHash{}, ErrPasswordEmpty
	}

	if _, err := bcrypt.Cost([]byte(encoded)); err != nil {
		return PasswordHash{}, fmt.Errorf("invalid password hash format: %w", err)
	}

	return PasswordHash{hash: encoded}, nil
}

// String returns the encoded hash string.
// Note: This method should only be used for persistence, never for logging or display.
func (p PasswordHash) String() string {
	return p.hash
}

// IsEmpty returns true if the PasswordHash is the zero value.
func (p PasswordHash) IsEmpty() bool {
	return p.hash == ""
}

// Verify checks if the given plaintext password matches this hash.
// bcrypt's comparison is constant-time with respect to the hash contents.
func (p PasswordHash) Verify(plaintext string) error {
	if p.IsEmpty() {
		return ErrPasswordEmpty
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.hash), prehash(plaintext)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	return nil
}
