// Package dto provides data transfer objects for identity operations.
package dto

import (
	"time"

	"github.com/yegamble/licensevault/internal/domain/identity"
)

// NotificationPreferencesDTO mirrors identity.NotificationPreferences for API responses.
type NotificationPreferencesDTO struct {
	Expiry        bool `json:"expiry"`
	Activity      bool `json:"activity"`
	Announcements bool `json:"announcements"`
}

// UserDTO represents a user in API responses.
// It excludes sensitive fields like password hash and is safe for external consumption.
type UserDTO struct {
	ID                      string                     `json:"id"`
	Email                   string                     `json:"email"`
	Username                string                     `json:"username"`
	Role                    string                     `json:"role"`
	Status                  string                     `json:"status"`
	NotificationPreferences NotificationPreferencesDTO `json:"notification_preferences"`
	CreatedAt               time.Time                  `json:"created_at"`
	UpdatedAt               time.Time                  `json:"updated_at"`
	VerifiedAt              *time.Time                 `json:"verified_at,omitempty"`
	BlockedAt               *time.Time                 `json:"blocked_at,omitempty"`
	LastLogin               *time.Time                 `json:"last_login,omitempty"`
}

// FromDomain converts a domain User aggregate to a UserDTO.
func FromDomain(user *identity.User) UserDTO {
	prefs := user.NotificationPreferences()
	return UserDTO{
		ID:       user.ID().String(),
		Email:    user.Email().String(),
		Username: user.Username().String(),
		Role:     user.Role().String(),
		Status:   user.Status().String(),
		NotificationPreferences: NotificationPreferencesDTO{
			Expiry:        prefs.Expiry,
			Activity:      prefs.Activity,
			Announcements: prefs.Announcements,
		},
		CreatedAt:  user.CreatedAt(),
		UpdatedAt:  user.UpdatedAt(),
		VerifiedAt: user.VerifiedAt(),
		BlockedAt:  user.BlockedAt(),
		LastLogin:  user.LastLogin(),
	}
}

// TokenPairDTO contains access and refresh tokens returned after authentication.
type TokenPairDTO struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
	ExpiresIn    int64     `json:"expires_in"` // Access token expiry in seconds
	ExpiresAt    time.Time `json:"expires_at"` // Access token expiry timestamp
}

// NewTokenPairDTO creates a TokenPairDTO with the given tokens and expiry.
func NewTokenPairDTO(accessToken, refreshToken string, expiresAt time.Time) TokenPairDTO {
	now := time.Now().UTC()
	expiresIn := int64(expiresAt.Sub(now).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}

	return TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
		ExpiresAt:    expiresAt,
	}
}

// CreateUserDTO represents the request to create a new user account.
type CreateUserDTO struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginDTO represents the request to authenticate a user.
type LoginDTO struct {
	// Identifier can be either email or username
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
	IP         string `json:"-"` // Not from request body, set by middleware
	UserAgent  string `json:"-"` // Not from request body, set by middleware
}

// RefreshTokenDTO represents the request to refresh an access token.
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"` // Not from request body, set by middleware
	UserAgent    string `json:"-"` // Not from request body, set by middleware
}

// UpdateUserDTO represents the request to update a user's notification preferences.
// All fields are optional (pointer types indicate this).
type UpdateUserDTO struct {
	Expiry        *bool `json:"expiry,omitempty"`
	Activity      *bool `json:"activity,omitempty"`
	Announcements *bool `json:"announcements,omitempty"`
}

// ChangePasswordDTO represents the request to change a user's password.
type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}

// SessionDTO represents an active user session in API responses. Session
// records carry no client metadata (the KV store holds only what rotation
// and revocation need), so the listing is identity and lifetime only.
type SessionDTO struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsCurrent bool      `json:"is_current"` // Whether this is the current session
}

// ListUsersDTO represents the request to list users with filters and pagination.
type ListUsersDTO struct {
	Role   *string `json:"role"   validate:"omitempty,oneof=user admin"`
	Status *string `json:"status" validate:"omitempty,oneof=unverified verified active blocked"`
	Search string  `json:"search" validate:"omitempty,max=255"`
	Offset int     `json:"offset" validate:"min=0"`
	Limit  int     `json:"limit"  validate:"min=1,max=100"`
}

// ListUsersResultDTO represents the paginated response for listing users.
type ListUsersResultDTO struct {
	Users      []UserDTO `json:"users"`
	TotalCount int       `json:"total_count"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
}

// AuthResponseDTO represents the response after successful authentication or registration.
// It includes both the user data and token pair.
type AuthResponseDTO struct {
	User   UserDTO      `json:"user"`
	Tokens TokenPairDTO `json:"tokens"`
}

// NewAuthResponseDTO creates an AuthResponseDTO from a domain User and token pair.
func NewAuthResponseDTO(user *identity.User, tokens TokenPairDTO) AuthResponseDTO {
	return AuthResponseDTO{
		User:   FromDomain(user),
		Tokens: tokens,
	}
}

// MessageDTO represents a simple message response (e.g., success confirmations).
type MessageDTO struct {
	Message string `json:"message"`
}

// NewMessageDTO creates a MessageDTO with the given message.
func NewMessageDTO(message string) MessageDTO {
	return MessageDTO{
		Message: message,
	}
}
