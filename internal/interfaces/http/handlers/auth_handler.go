package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/application/identity/commands"
	"github.com/yegamble/licensevault/internal/application/identity/dto"
	"github.com/yegamble/licensevault/internal/application/identity/queries"
	"github.com/yegamble/licensevault/internal/domain/identity"
	"github.com/yegamble/licensevault/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP endpoints.
// It delegates to application layer command/query handlers for business
// logic; its own job is cookie handling and error mapping.
type AuthHandler struct {
	registerHandler           *commands.RegisterUserHandler
	loginHandler              *commands.LoginHandler
	refreshHandler            *commands.RefreshTokenHandler
	logoutHandler             *commands.LogoutHandler
	changePasswordHandler     *commands.ChangePasswordHandler
	verifyEmailHandler        *commands.VerifyEmailHandler
	resendVerificationHandler *commands.ResendVerificationHandler
	forgotPasswordHandler     *commands.ForgotPasswordHandler
	resetPasswordHandler      *commands.ResetPasswordHandler
	getUserHandler            *queries.GetUserHandler
	updateUserHandler         *commands.UpdateUserHandler
	cookies                   CookieConfig
	logger                    zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// All dependencies are injected via constructor for testability.
func NewAuthHandler(
	registerHandler *commands.RegisterUserHandler,
	loginHandler *commands.LoginHandler,
	refreshHandler *commands.RefreshTokenHandler,
	logoutHandler *commands.LogoutHandler,
	changePasswordHandler *commands.ChangePasswordHandler,
	verifyEmailHandler *commands.VerifyEmailHandler,
	resendVerificationHandler *commands.ResendVerificationHandler,
	forgotPasswordHandler *commands.ForgotPasswordHandler,
	resetPasswordHandler *commands.ResetPasswordHandler,
	getUserHandler *queries.GetUserHandler,
	updateUserHandler *commands.UpdateUserHandler,
	cookies CookieConfig,
	logger zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		registerHandler:           registerHandler,
		loginHandler:              loginHandler,
		refreshHandler:            refreshHandler,
		logoutHandler:             logoutHandler,
		changePasswordHandler:     changePasswordHandler,
		verifyEmailHandler:        verifyEmailHandler,
		resendVerificationHandler: resendVerificationHandler,
		forgotPasswordHandler:     forgotPasswordHandler,
		resetPasswordHandler:      resetPasswordHandler,
		getUserHandler:            getUserHandler,
		updateUserHandler:         updateUserHandler,
		cookies:                   cookies,
		logger:                    logger,
	}
}

// loginResponse is the body returned by Login and Refresh. The tokens
// themselves travel only as HTTP-only cookies.
type loginResponse struct {
	AccessTokenExpires time.Time    `json:"accessTokenExpires"`
	User               *dto.UserDTO `json:"user,omitempty"`
}

// Routes registers authentication routes with the chi router.
// Returns a chi.Router that can be mounted under /api/v1/auth.
//
// authThrottle is the strict third throttle tier (login/register only, per
// the tier's IP+path keying); requireAuth is the JWT + session-liveness
// middleware protecting the authenticated account surface. The token-based
// flows (refresh, logout, verify/reset) bypass JWT authentication: they
// identify the caller by refresh cookie or single-use token instead.
//
//nolint:ireturn // Returning chi.Router interface is chi's standard pattern for sub-routers
func (h *AuthHandler) Routes(authThrottle, requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Credential-presenting endpoints sit behind the strict auth tier.
	r.Group(func(r chi.Router) {
		r.Use(authThrottle)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	// Cookie- and token-identified flows (no JWT).
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
	r.Post("/verify-email", h.VerifyEmail)
	r.Post("/resend-verification", h.ResendVerification)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)

	// Authenticated account surface.
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/logout-all", h.LogoutAll)
		r.Post("/change-password", h.ChangePassword)
		r.Get("/me", h.Me)
		r.Put("/profile", h.UpdateProfile)
		r.Get("/notifications", h.GetNotifications)
		r.Put("/notifications", h.UpdateNotifications)
	})

	return r
}

// Register handles POST /api/v1/auth/register
// Creates a new user account (status Unverified) and enqueues the
// verification email.
//
// Request: RegisterRequest JSON body
// Response: 201 Created with UserDTO
// Errors:
//   - 400: Invalid request body or validation failure
//   - 409: Email or username already exists
//   - 500: Internal server error
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid register request")
		validationErrors := FormatValidationErrors(err)
		middleware.WriteErrorWithExtensions(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"Invalid registration data",
			validationErrors,
		)
		return
	}

	ipAddress := GetClientIP(r)
	userAgent := GetUserAgent(r)

	cmd := commands.RegisterUserCommand{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	userDTO, err := h.registerHandler.Handle(ctx, cmd)
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "registration")
		return
	}

	h.logger.Info().
		Str("user_id", userDTO.ID).
		Str("username", userDTO.Username).
		Str("ip_address", ipAddress).
		Msg("user registered successfully")

	if err := EncodeJSON(w, http.StatusCreated, userDTO); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode register response")
	}
}

// Login handles POST /api/v1/auth/login
// Authenticates a user and attaches the access/refresh pair as HTTP-only
// cookies. A refresh cookie presented alongside the credentials is revoked
// first, so one browser never accumulates sessions.
//
// Request: LoginRequest JSON body
// Response: 200 OK with {accessTokenExpires, user} + Set-Cookie
// Errors:
//   - 400: Invalid request body or validation failure
//   - 401: Invalid credentials
//   - 403: Account blocked
//   - 500: Internal server error
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid login request")
		validationErrors := FormatValidationErrors(err)
		middleware.WriteErrorWithExtensions(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"Invalid login data",
			validationErrors,
		)
		return
	}

	cmd := commands.LoginCommand{
		Identifier:           req.Username,
		Password:             req.Password,
		ExistingRefreshToken: readRefreshCookie(r),
	}

	authResponse, err := h.loginHandler.Handle(ctx, cmd)
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "login")
		return
	}

	setAuthCookies(w, h.cookies,
		authResponse.Tokens.AccessToken,
		authResponse.Tokens.ExpiresAt,
		authResponse.Tokens.RefreshToken,
	)

	h.logger.Info().
		Str("user_id", authResponse.User.ID).
		Str("ip_address", GetClientIP(r)).
		Msg("user logged in successfully")

	body := loginResponse{
		AccessTokenExpires: authResponse.Tokens.ExpiresAt,
		User:               &authResponse.User,
	}
	if err := EncodeJSON(w, http.StatusOK, body); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode login response")
	}
}

// Refresh handles POST /api/v1/auth/refresh
// Exchanges the refresh cookie for a rotated access+refresh pair. A JSON
// body with refresh_token is accepted as a fallback for non-browser clients.
//
// Response: 200 OK with {accessTokenExpires} + rotated cookies
// Errors:
//   - 401: Missing, invalid, expired, or revoked refresh token
//   - 500: Internal server error
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refreshToken := readRefreshCookie(r)
	if refreshToken == "" {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		middleware.WriteError(w, r,
			http.StatusUnauthorized,
			"Unauthorized",
			"No refresh token presented. Please log in.",
		)
		return
	}

	tokenPair, err := h.refreshHandler.Handle(ctx, commands.RefreshTokenCommand{RefreshToken: refreshToken})
	if err != nil {
		clearAuthCookies(w, h.cookies)
		h.mapErrorAndRespond(w, r, err, "token refresh")
		return
	}

	setAuthCookies(w, h.cookies, tokenPair.AccessToken, tokenPair.ExpiresAt, tokenPair.RefreshToken)

	h.logger.Info().
		Str("ip_address", GetClientIP(r)).
		Msg("token refreshed successfully")

	if err := EncodeJSON(w, http.StatusOK, loginResponse{AccessTokenExpires: tokenPair.ExpiresAt}); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode refresh response")
	}
}

// Logout handles POST /api/v1/auth/logout
// Revokes the session identified by the refresh cookie (or a refresh_token
// in the body) and clears both auth cookies. Revocation is idempotent, so
// logging out with a stale or missing token still succeeds.
//
// Response: 204 No Content
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refreshToken := readRefreshCookie(r)
	if refreshToken == "" {
		var req LogoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			h.logger.Debug().Err(err).Msg("invalid logout request")
			middleware.WriteError(w, r,
				http.StatusBadRequest,
				"Bad Request",
				"Invalid request body",
			)
			return
		} else if err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if err := h.logoutHandler.Handle(ctx, commands.LogoutCommand{RefreshToken: refreshToken}); err != nil {
		h.mapErrorAndRespond(w, r, err, "logout")
		return
	}

	clearAuthCookies(w, h.cookies)
	h.logger.Info().Msg("user logged out successfully")
	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll handles POST /api/v1/auth/logout-all
// Revokes every live session for the authenticated user, publishes a
// session invalidation for the account, and clears this browser's cookies.
//
// Response: 204 No Content
// Errors:
//   - 401: Missing or invalid authentication
//   - 500: Internal server error
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userCtx := MustGetUserFromContext(ctx)

	cmd := commands.LogoutCommand{
		UserID:    userCtx.UserID.String(),
		LogoutAll: true,
	}
	if err := h.logoutHandler.Handle(ctx, cmd); err != nil {
		h.mapErrorAndRespond(w, r, err, "logout all")
		return
	}

	clearAuthCookies(w, h.cookies)
	h.logger.Info().
		Str("user_id", userCtx.UserID.String()).
		Msg("user logged out from all devices")
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles POST /api/v1/auth/change-password
// Verifies the current password, writes the new hash, and revokes every
// live session so the new credential must be presented everywhere.
//
// Request: ChangePasswordRequest JSON body
// Response: 200 OK with a confirmation message; cookies cleared
// Errors:
//   - 400: Invalid request body or weak password
//   - 401: Current password is wrong
//   - 500: Internal server error
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userCtx := MustGetUserFromContext(ctx)

	var req ChangePasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid change-password request")
		validationErrors := FormatValidationErrors(err)
		middleware.WriteErrorWithExtensions(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"Invalid change-password data",
			validationErrors,
		)
		return
	}

	msg, err := h.changePasswordHandler.Handle(ctx, commands.ChangePasswordCommand{
		UserID:          userCtx.UserID.String(),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "change password")
		return
	}

	// Every session is gone, this one included.
	clearAuthCookies(w, h.cookies)

	h.logger.Info().Str("user_id", userCtx.UserID.String()).Msg("password changed successfully")

	if err := EncodeJSON(w, http.StatusOK, msg); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode change-password response")
	}
}

// Me handles GET /api/v1/auth/me
// Returns the authenticated caller's own record.
//
// Response: 200 OK with UserDTO
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userCtx := MustGetUserFromContext(ctx)

	userDTO, err := h.getUserHandler.Handle(ctx, queries.GetUserQuery{
		UserID:      userCtx.UserID,
		RequestorID: userCtx.UserID,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "get own profile")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, userDTO); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode me response")
	}
}

// UpdateProfile handles PUT /api/v1/auth/profile
// Updates the mutable parts of the caller's own record (notification
// preferences) and returns the updated record.
//
// Request: UpdateUserRequest JSON body
// Response: 200 OK with UserDTO
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userCtx := MustGetUserFromContext(ctx)

	var req UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid profile update request")
		middleware.WriteError(w, r, http.StatusBadRequest, "Bad Request", "Invalid profile data")
		return
	}

	userDTO, err := h.updateUserHandler.Handle(ctx, commands.UpdateUserCommand{
		UserID:        userCtx.UserID,
		RequestorID:   userCtx.UserID,
		Expiry:        req.Expiry,
		Activity:      req.Activity,
		Announcements: req.Announcements,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "update own profile")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, userDTO); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode profile response")
	}
}

// GetNotifications handles GET /api/v1/auth/notifications
// Returns only the caller's notification preferences.
//
// Response: 200 OK with NotificationPreferencesDTO
func (h *AuthHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userCtx := MustGetUserFromContext(ctx)

	userDTO, err := h.getUserHandler.Handle(ctx, queries.GetUserQuery{
		UserID:      userCtx.UserID,
		RequestorID: userCtx.UserID,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "get notification preferences")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, userDTO.NotificationPreferences); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode notifications response")
	}
}

// UpdateNotifications handles PUT /api/v1/auth/notifications
// Updates the caller's notification preferences and returns the result.
//
// Request: UpdateUserRequest JSON body
// Response: 200 OK with NotificationPreferencesDTO
func (h *AuthHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userCtx := MustGetUserFromContext(ctx)

	var req UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid notification preferences request")
		middleware.WriteError(w, r, http.StatusBadRequest, "Bad Request", "Invalid notification preferences")
		return
	}

	userDTO, err := h.updateUserHandler.Handle(ctx, commands.UpdateUserCommand{
		UserID:        userCtx.UserID,
		RequestorID:   userCtx.UserID,
		Expiry:        req.Expiry,
		Activity:      req.Activity,
		Announcements: req.Announcements,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "update notification preferences")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, userDTO.NotificationPreferences); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode notifications response")
	}
}

// VerifyEmail handles POST /api/v1/auth/verify-email
// Consumes a single-use email-verification token and activates the account.
//
// Request: VerifyEmailRequest JSON body
// Response: 200 OK with a confirmation message
// Errors:
//   - 400: Invalid request body
//   - 409: Token unknown/expired, or account already verified
//   - 500: Internal server error
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req VerifyEmailRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid verify-email request")
		middleware.WriteError(w, r, http.StatusBadRequest, "Validation Failed", "A verification token is required")
		return
	}

	msg, err := h.verifyEmailHandler.Handle(ctx, commands.VerifyEmailCommand{Token: req.Token})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "verify email")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, msg); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode verify-email response")
	}
}

// ResendVerification handles POST /api/v1/auth/resend-verification
// Re-issues an email-verification token for an unverified account.
//
// The response is identical regardless of whether the email is registered,
// already verified, or freshly issued a token, so this endpoint cannot be
// used to enumerate accounts.
//
// Request: ResendVerificationRequest JSON body
// Response: 202 Accepted with a generic confirmation message
// Errors:
//   - 400: Invalid request body
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResendVerificationRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid resend-verification request")
		middleware.WriteError(w, r, http.StatusBadRequest, "Validation Failed", "A valid email is required")
		return
	}

	if err := h.resendVerificationHandler.Handle(ctx, commands.ResendVerificationCommand{Email: req.Email}); err != nil {
		h.logger.Debug().Err(err).Msg("resend-verification request could not be fulfilled")
	}

	h.writeGenericAcceptedMessage(w, "If that email is registered and unverified, a new verification link has been sent.")
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
// Issues a password-reset token for a registered email address.
//
// The response is identical regardless of whether the email is registered,
// so this endpoint cannot be used to enumerate accounts.
//
// Request: ForgotPasswordRequest JSON body
// Response: 202 Accepted with a generic confirmation message
// Errors:
//   - 400: Invalid request body
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ForgotPasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid forgot-password request")
		middleware.WriteError(w, r, http.StatusBadRequest, "Validation Failed", "A valid email is required")
		return
	}

	if err := h.forgotPasswordHandler.Handle(ctx, commands.ForgotPasswordCommand{Email: req.Email}); err != nil {
		h.logger.Debug().Err(err).Msg("forgot-password request could not be fulfilled")
	}

	h.writeGenericAcceptedMessage(w, "If that email is registered, a password reset link has been sent.")
}

// ResetPassword handles POST /api/v1/auth/reset-password
// Consumes a single-use password-reset token and sets a new password,
// revoking every live session for the account.
//
// Request: ResetPasswordRequest JSON body
// Response: 200 OK with a confirmation message
// Errors:
//   - 400: Invalid request body or weak password
//   - 409: Token unknown or expired
//   - 500: Internal server error
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResetPasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid reset-password request")
		validationErrors := FormatValidationErrors(err)
		middleware.WriteErrorWithExtensions(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"Invalid reset-password data",
			validationErrors,
		)
		return
	}

	msg, err := h.resetPasswordHandler.Handle(ctx, commands.ResetPasswordCommand{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "reset password")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, msg); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode reset-password response")
	}
}

// writeGenericAcceptedMessage writes a 202 Accepted response carrying only
// message, used by the enumeration-safe resend-verification and
// forgot-password endpoints.
func (h *AuthHandler) writeGenericAcceptedMessage(w http.ResponseWriter, message string) {
	if err := EncodeJSON(w, http.StatusAccepted, dto.NewMessageDTO(message)); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode generic accepted response")
	}
}

// mapErrorAndRespond maps application/domain errors to HTTP responses using RFC 7807 Problem Details.
// This centralizes error mapping logic for consistency across all auth endpoints.
//
//nolint:funlen,cyclop // Comprehensive error mapping for all authentication error types.
func (h *AuthHandler) mapErrorAndRespond(w http.ResponseWriter, r *http.Request, err error, operation string) {
	h.logger.Error().
		Err(err).
		Str("operation", operation).
		Msg("authentication operation failed")

	// Map specific application errors to HTTP status codes
	switch {
	case errors.Is(err, appidentity.ErrEmailAlreadyExists):
		middleware.WriteError(w, r,
			http.StatusConflict,
			"Conflict",
			"Email address is already registered",
		)

	case errors.Is(err, appidentity.ErrUsernameAlreadyExists):
		middleware.WriteError(w, r,
			http.StatusConflict,
			"Conflict",
			"Username is already taken",
		)

	case errors.Is(err, appidentity.ErrInvalidCredentials):
		middleware.WriteError(w, r,
			http.StatusUnauthorized,
			"Unauthorized",
			"Invalid username or password",
		)

	case errors.Is(err, appidentity.ErrAccountBlocked):
		middleware.WriteError(w, r,
			http.StatusForbidden,
			"Forbidden",
			"Account has been blocked. Please contact support.",
		)

	case errors.Is(err, appidentity.ErrTokenExpired):
		middleware.WriteError(w, r,
			http.StatusUnauthorized,
			"Unauthorized",
			"Token has expired",
		)

	case errors.Is(err, appidentity.ErrTokenRevoked):
		middleware.WriteError(w, r,
			http.StatusUnauthorized,
			"Unauthorized",
			"Token has been revoked. Please log in again.",
		)

	case errors.Is(err, appidentity.ErrTokenNotFound):
		middleware.WriteError(w, r,
			http.StatusUnauthorized,
			"Unauthorized",
			"Refresh token is invalid or has already been used. Please log in again.",
		)

	case errors.Is(err, appidentity.ErrTokenServiceFailure):
		middleware.WriteError(w, r,
			http.StatusInternalServerError,
			"Internal Server Error",
			"Authentication service temporarily unavailable",
		)

	case errors.Is(err, appidentity.ErrInvalidOrExpiredToken):
		middleware.WriteError(w, r,
			http.StatusConflict,
			"Conflict",
			"This link is invalid or has expired",
		)

	case errors.Is(err, appidentity.ErrAlreadyVerified):
		middleware.WriteError(w, r,
			http.StatusConflict,
			"Conflict",
			"This account has already been verified",
		)

	case errors.Is(err, identity.ErrUserNotFound):
		middleware.WriteError(w, r,
			http.StatusNotFound,
			"Not Found",
			"User not found",
		)

	case errors.Is(err, identity.ErrEmailInvalid),
		errors.Is(err, identity.ErrEmailEmpty),
		errors.Is(err, identity.ErrEmailTooLong),
		errors.Is(err, identity.ErrUsernameInvalid),
		errors.Is(err, identity.ErrUsernameEmpty),
		errors.Is(err, identity.ErrUsernameTooShort),
		errors.Is(err, identity.ErrUsernameTooLong),
		errors.Is(err, identity.ErrPasswordEmpty),
		errors.Is(err, identity.ErrPasswordTooShort),
		errors.Is(err, identity.ErrPasswordTooLong),
		errors.Is(err, identity.ErrPasswordWeak),
		errors.Is(err, identity.ErrPasswordComplexity):
		middleware.WriteError(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			err.Error(),
		)

	default:
		// Unknown error - return generic 500 without exposing internal details
		middleware.WriteError(w, r,
			http.StatusInternalServerError,
			"Internal Server Error",
			"An unexpected error occurred. Please try again later.",
		)
	}
}
