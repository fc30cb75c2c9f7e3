package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yegamble/licensevault/internal/infrastructure/security/jwt"
)

// JWTServiceInterface defines the interface for JWT signature/claims
// verification. This allows for dependency injection and testing with mocks.
type JWTServiceInterface interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// SessionChecker reports whether the session identified by (userID, jti) is
// still live, i.e. has not been revoked. This is the session-validation
// filter: every authenticated request re-checks session-record presence
// instead of consulting a separate revocation blacklist.
type SessionChecker interface {
	IsSessionLive(ctx context.Context, userID, jti string) (bool, error)
}

// AuthConfig holds configuration for JWT authentication middleware.
type AuthConfig struct {
	// JWTService handles token validation and signature verification.
	JWTService JWTServiceInterface

	// Sessions checks whether a token's session record is still live.
	Sessions SessionChecker

	// MetricsCollector records authentication metrics.
	MetricsCollector *MetricsCollector

	// Logger is used to log authentication events.
	Logger zerolog.Logger

	// Optional determines whether authentication is optional for this route.
	// If true, missing or invalid tokens do not result in 401 error.
	// The handler can check if a user is authenticated using GetUserID(ctx).
	// Default: false (authentication required)
	Optional bool
}

// JWTAuth creates a JWT authentication middleware with the given configuration.
//
// Authentication flow:
// 1. Extract Bearer token from Authorization header
// 2. Validate token signature and expiration (HS512 verification)
// 3. Confirm the session record for (userID, jti) is still live
// 4. Set user context (user_id, email, role, session_id)
//
// Security considerations:
// - Signature verification happens before the session-liveness lookup
// - Logs all authentication failures for audit trail
// - Returns 401 for missing/invalid/revoked tokens (unless Optional=true)
//
// Usage (required authentication):
//
//	cfg := middleware.AuthConfig{
//	    JWTService: jwtService,
//	    Sessions: tokenService,
//	    Logger: logger,
//	    Optional: false,
//	}
//	r.Group(func(r chi.Router) {
//	    r.Use(middleware.JWTAuth(cfg))
//	    r.Get("/protected", handler)
//	})
//
// Usage (optional authentication):
//
//	cfg := middleware.AuthConfig{
//	    JWTService: jwtService,
//	    Sessions: tokenService,
//	    Logger: logger,
//	    Optional: true,
//	}
//	r.With(middleware.JWTAuth(cfg)).Get("/public-or-private", handler)
func JWTAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			// Step 1: Extract the access token: Bearer header first, then
			// the accessToken cookie (the browser surface is cookie-based).
			var tokenString string
			authHeader := r.Header.Get("Authorization")
			switch {
			case authHeader != "":
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 {
					if cfg.MetricsCollector != nil {
						cfg.MetricsCollector.RecordAuthFailure("invalid_format")
					}
					handleAuthError(w, r, cfg, "invalid_format", "Invalid authorization header format. Expected: Authorization: Bearer <token>")
					return
				}
				if !strings.EqualFold(parts[0], "Bearer") {
					if cfg.MetricsCollector != nil {
						cfg.MetricsCollector.RecordAuthFailure("invalid_scheme")
					}
					handleAuthError(w, r, cfg, "invalid_scheme", "Invalid authorization scheme. Expected: Bearer")
					return
				}
				tokenString = parts[1]
			default:
				if c, err := r.Cookie(accessTokenCookieName); err == nil {
					tokenString = c.Value
				}
			}

			if tokenString == "" {
				if cfg.Optional {
					next.ServeHTTP(w, r)
					return
				}

				cfg.Logger.Warn().
					Str("event", "auth_missing").
					Str("path", r.URL.Path).
					Str("request_id", requestID).
					Msg("no access token presented")

				WriteError(w, r,
					http.StatusUnauthorized,
					"Unauthorized",
					"Authentication required. Present a Bearer token or the accessToken cookie.",
				)
				return
			}

			// Step 2: Validate token signature and claims (HS512 verification)
			claims, err := cfg.JWTService.ValidateToken(tokenString)
			if err != nil {
				if cfg.MetricsCollector != nil {
					cfg.MetricsCollector.RecordAuthFailure("token_invalid")
				}

				cfg.Logger.Warn().
					Err(err).
					Str("event", "token_validation_failed").
					Str("path", r.URL.Path).
					Str("request_id", requestID).
					Msg("invalid token")

				handleAuthError(w, r, cfg, "token_invalid", "Invalid or expired token. Please log in again.")
				return
			}

			userID := claims.Subject
			jti := claims.ID

			// Step 3: Confirm the session this token belongs to is still live.
			// This is the filter: a forged-but-well-signed token is rejected
			// once its session record has been revoked or expired out of the cache.
			live, err := cfg.Sessions.IsSessionLive(ctx, userID, jti)
			if err != nil {
				cfg.Logger.Error().
					Err(err).
					Str("event", "session_check_failed").
					Str("request_id", requestID).
					Msg("failed to check session liveness")

				WriteError(w, r,
					http.StatusInternalServerError,
					"Internal Server Error",
					"Authentication service temporarily unavailable",
				)
				return
			}

			if !live {
				if cfg.MetricsCollector != nil {
					cfg.MetricsCollector.RecordAuthFailure("token_revoked")
				}

				cfg.Logger.Warn().
					Str("event", "session_revoked").
					Str("user_id", userID).
					Str("path", r.URL.Path).
					Str("request_id", requestID).
					Msg("attempt to use token from a revoked session")

				expireAuthCookies(w)
				WriteError(w, r,
					http.StatusUnauthorized,
					"Unauthorized",
					"Token has been revoked. Please log in again.",
				)
				return
			}

			// Step 4: Parse identifiers from claims
			userUUID, err := uuid.Parse(userID)
			if err != nil {
				cfg.Logger.Error().
					Err(err).
					Str("event", "invalid_user_id").
					Str("user_id", userID).
					Str("request_id", requestID).
					Msg("invalid user ID in token claims")

				WriteError(w, r,
					http.StatusUnauthorized,
					"Unauthorized",
					"Invalid token claims",
				)
				return
			}

			sessionUUID, err := uuid.Parse(jti)
			if err != nil {
				cfg.Logger.Error().
					Err(err).
					Str("event", "invalid_session_id").
					Str("jti", jti).
					Str("request_id", requestID).
					Msg("invalid jti in token claims")

				WriteError(w, r,
					http.StatusUnauthorized,
					"Unauthorized",
					"Invalid token claims",
				)
				return
			}

			// Step 5: Set user context for downstream handlers
			ctx = SetUserContext(ctx, userUUID, claims.Email, claims.Role, sessionUUID)

			// Step 6: Log successful authentication
			cfg.Logger.Debug().
				Str("event", "auth_success").
				Str("user_id", userID).
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Str("request_id", requestID).
				Msg("request authenticated")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Cookie names/paths mirror the handler layer's cookie surface. The filter
// clears both when it rejects a revoked session, so a browser stops
// replaying a dead token.
const (
	accessTokenCookieName  = "accessToken"
	refreshTokenCookieName = "refreshToken"
)

func expireAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookieName,
		Value:    "",
		Path:     "/api/v1",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// handleAuthError handles authentication errors based on Optional flag.
func handleAuthError(w http.ResponseWriter, r *http.Request, cfg AuthConfig, event, message string) {
	requestID := GetRequestID(r.Context())

	if cfg.Optional {
		cfg.Logger.Debug().
			Str("event", event).
			Str("path", r.URL.Path).
			Str("request_id", requestID).
			Msg("optional authentication failed")
		return
	}

	cfg.Logger.Warn().
		Str("event", event).
		Str("path", r.URL.Path).
		Str("request_id", requestID).
		Msg("authentication failed")

	WriteError(w, r, http.StatusUnauthorized, "Unauthorized", message)
}

// RequireRole creates a middleware that enforces role-based access control (RBAC).
// This middleware must be placed AFTER JWTAuth middleware.
//
// Roles (from least to most privileged):
// - "user": Regular user (can manage own licenses and account)
// - "admin": Full administrative access (user and license management)
//
// Usage:
//
//	// Admin-only routes
//	r.Group(func(r chi.Router) {
//	    r.Use(middleware.JWTAuth(cfg))
//	    r.Use(middleware.RequireRole(logger, collector, "admin"))
//	    r.Get("/admin/users", handlers.Admin.ListUsers)
//	})
func RequireRole(logger zerolog.Logger, metricsCollector *MetricsCollector, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			role, ok := GetUserRole(ctx)
			if !ok {
				logger.Error().
					Str("event", "role_check_no_context").
					Str("path", r.URL.Path).
					Str("request_id", requestID).
					Msg("role check called without user context")

				WriteError(w, r,
					http.StatusUnauthorized,
					"Unauthorized",
					"User role not found in context",
				)
				return
			}

			if role != requiredRole {
				userID, _ := GetUserIDString(ctx)

				if metricsCollector != nil {
					metricsCollector.RecordAuthorizationDenied(role, requiredRole)
				}

				logger.Warn().
					Str("event", "insufficient_role").
					Str("user_id", userID).
					Str("user_role", role).
					Str("required_role", requiredRole).
					Str("path", r.URL.Path).
					Str("request_id", requestID).
					Msg("access denied due to insufficient role")

				WriteError(w, r,
					http.StatusForbidden,
					"Forbidden",
					fmt.Sprintf("This action requires %s role", requiredRole),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole creates a middleware that accepts multiple roles (OR logic).
// User must have at least one of the specified roles.
//
// Usage:
//
//	r.Use(middleware.RequireAnyRole(logger, collector, "support", "admin"))
func RequireAnyRole(logger zerolog.Logger, metricsCollector *MetricsCollector, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			role, ok := GetUserRole(ctx)
			if !ok {
				logger.Error().
					Str("event", "role_check_no_context").
					Str("path", r.URL.Path).
					Str("request_id", requestID).
					Msg("role check called without user context")

				WriteError(w, r,
					http.StatusUnauthorized,
					"Unauthorized",
					"User role not found in context",
				)
				return
			}

			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			userID, _ := GetUserIDString(ctx)

			requiredPermission := fmt.Sprintf("role:%v", allowedRoles)
			if metricsCollector != nil {
				metricsCollector.RecordAuthorizationDenied(role, requiredPermission)
			}

			logger.Warn().
				Str("event", "insufficient_role").
				Str("user_id", userID).
				Str("user_role", role).
				Strs("allowed_roles", allowedRoles).
				Str("path", r.URL.Path).
				Str("request_id", requestID).
				Msg("access denied due to insufficient role")

			WriteError(w, r,
				http.StatusForbidden,
				"Forbidden",
				fmt.Sprintf("This action requires one of the following roles: %v", allowedRoles),
			)
		})
	}
}
