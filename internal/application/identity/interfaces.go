package identity

import (
	"context"
	"time"
)

// TokenPair is the result of minting or rotating a session: an access
// token, its expiry, and the opaque refresh token that rotates it.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// UserClaims is the minimal snapshot of a user needed to mint tokens.
type UserClaims struct {
	UserID string
	Email  string
	Role   string
}

// SessionInfo is the caller-facing view of one session record: enough to
// list a user's sessions without ever exposing the token hash.
type SessionInfo struct {
	JTI       string
	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// TokenService mints access tokens, rotates opaque refresh tokens, and
// revokes sessions. Implemented by internal/infrastructure/security/jwt.
type TokenService interface {
	// IssueSession mints a fresh access+refresh pair under a new session id.
	IssueSession(ctx context.Context, user UserClaims) (access, refresh string, accessExpiresAt time.Time, err error)

	// Refresh rotates refreshToken, returning a new access+refresh pair.
	Refresh(ctx context.Context, user UserClaims, refreshToken string) (access, refresh string, accessExpiresAt time.Time, err error)

	// RevokeSession revokes a single session by user id and session id.
	RevokeSession(ctx context.Context, userID, jti string) error

	// RevokeAllSessions revokes every live session for userID, returning the
	// count revoked.
	RevokeAllSessions(ctx context.Context, userID string) (int, error)

	// RevokeByRefreshToken revokes whatever session refreshToken resolves
	// to; a no-op if the token is unknown.
	RevokeByRefreshToken(ctx context.Context, refreshToken string) error

	// ValidateRefresh reports whether refreshToken currently resolves to a
	// live, unexpired session.
	ValidateRefresh(ctx context.Context, refreshToken string) (bool, error)

	// ResolveUserID returns the user id that refreshToken belongs to.
	ResolveUserID(ctx context.Context, refreshToken string) (string, error)

	// ListSessions returns every stored session record for userID, live and
	// recently revoked alike, via the authoritative session:{userID}:* scan.
	ListSessions(ctx context.Context, userID string) ([]SessionInfo, error)
}

// TokenGenerator issues single-use, random tokens for email verification and
// password reset flows.
type TokenGenerator interface {
	// Generate returns a new base64url-encoded random token of size bytes.
	Generate(size int) (string, error)
}

// VerificationStore persists single-use email-verification and
// password-reset tokens, keyed in the KV cache.
type VerificationStore interface {
	// PutEmailVerification stores token -> userID with a 24h TTL.
	PutEmailVerification(ctx context.Context, token, userID string) error

	// ConsumeEmailVerification retrieves and deletes the userID for token.
	ConsumeEmailVerification(ctx context.Context, token string) (string, error)

	// PutPasswordReset stores token -> userID with a 1h TTL.
	PutPasswordReset(ctx context.Context, token, userID string) error

	// ConsumePasswordReset retrieves and deletes the userID for token.
	ConsumePasswordReset(ctx context.Context, token string) (string, error)
}

// MailTask describes a fire-and-forget transactional email to enqueue.
type MailTask struct {
	Kind  string // "verify_email" | "password_reset"
	Email string
	Token string
}

// MailDispatcher enqueues transactional email delivery as a background task.
// Failures are logged by the dispatcher and never surfaced to the caller.
type MailDispatcher interface {
	Enqueue(ctx context.Context, task MailTask) error
}
