package handlers

// HTTP-specific request DTOs for the handlers layer.
// These DTOs are separate from application-layer DTOs and represent the HTTP contract.
// They include JSON tags and validation rules using go-playground/validator.

// RegisterRequest represents the HTTP request body for user registration.
// POST /api/v1/auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=12,max=128"`
}

// LoginRequest represents the HTTP request body for user login.
// POST /api/v1/auth/login
//
// The username field accepts either a username or an email address.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the HTTP request body for token refresh.
// POST /api/v1/auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest represents the HTTP request body for logout.
// POST /api/v1/auth/logout
//
// Both fields are optional. If neither is provided, logout uses the session from JWT context.
// If logout_all is true, all sessions for the user are revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
	LogoutAll    bool   `json:"logout_all,omitempty"`
}

// VerifyEmailRequest represents the HTTP request body for consuming an
// email-verification token.
// POST /api/v1/auth/verify-email
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ResendVerificationRequest represents the HTTP request body for requesting
// a fresh email-verification token.
// POST /api/v1/auth/resend-verification
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordRequest represents the HTTP request body for requesting a
// password-reset token.
// POST /api/v1/auth/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the HTTP request body for consuming a
// password-reset token and setting a new password.
// POST /api/v1/auth/reset-password
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=12,max=128"`
}

// ChangePasswordRequest represents the HTTP request body for an
// authenticated user changing their own password.
// PUT /api/v1/users/{id}/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=12,max=128"`
}

// UpdateUserRequest represents the HTTP request body for updating a user's
// notification preferences.
// PUT /api/v1/users/{id}
//
// All fields are optional (use pointers to indicate "no change").
// Only provided fields will be updated.
type UpdateUserRequest struct {
	Expiry        *bool `json:"expiry,omitempty"`
	Activity      *bool `json:"activity,omitempty"`
	Announcements *bool `json:"announcements,omitempty"`
}

// DeleteUserRequest represents the HTTP request body for deleting a user account.
// DELETE /api/v1/users/{id}
//
// Requires password confirmation to prevent accidental deletion.
type DeleteUserRequest struct {
	Password string `json:"password" validate:"required"`
}
