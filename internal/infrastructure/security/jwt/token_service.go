package jwt

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
)

// Errors returned by TokenService.Refresh and friends.
var (
	ErrTokenNotFound = errors.New("token service: refresh token not found")
	ErrTokenRevoked  = errors.New("token service: refresh token revoked")
	ErrTokenExpired  = errors.New("token service: refresh token expired")
)

// refreshTokenBytes is the number of random bytes backing an opaque refresh
// token (>= 32 required).
const refreshTokenBytes = 32

// UserClaims is the minimal user snapshot the token service needs to mint
// tokens. Aliased to the application layer's claims type so TokenService
// satisfies appidentity.TokenService directly, without an adapter.
type UserClaims = appidentity.UserClaims

// TokenService mints access tokens, rotates opaque refresh tokens, and
// revokes sessions. It is the C4 component: the JWT Service handles
// signing, SessionStore holds the refresh-token records, HashToken
// fingerprints opaque tokens for O(1) lookup.
type TokenService struct {
	jwt   *Service
	store *SessionStore
}

// NewTokenService builds a TokenService from a JWT signer and session store.
func NewTokenService(jwtSvc *Service, store *SessionStore) *TokenService {
	return &TokenService{jwt: jwtSvc, store: store}
}

func newOpaqueToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token service: generate random token: %w", err)
	}
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(buf), nil
}

// MintAccess signs a new access token for user under a fresh jti.
func (s *TokenService) MintAccess(user UserClaims) (token string, jti string, expiresAt time.Time, err error) {
	jti = NewJTI()
	token, expiresAt, err = s.jwt.GenerateAccessToken(user.UserID, user.Email, user.Role, jti)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, jti, expiresAt, nil
}

// MintRefresh mints a new opaque refresh token bound to jti and stores its
// forward+reverse session records.
func (s *TokenService) MintRefresh(ctx context.Context, userID, jti string) (token string, expiresAt time.Time, err error) {
	token, err = newOpaqueToken()
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now().UTC()
	expiresAt = now.Add(s.jwt.RefreshTTL())

	rec := RefreshTokenRecord{
		UserID:    userID,
		JTI:       jti,
		TokenHash: HashToken(token),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := s.store.Put(ctx, rec); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// IssueSession mints a fresh access+refresh pair under a new jti, the
// combined operation the auth service performs at login.
func (s *TokenService) IssueSession(ctx context.Context, user UserClaims) (access, refresh string, accessExpiresAt time.Time, err error) {
	access, jti, accessExpiresAt, err := s.MintAccess(user)
	if err != nil {
		return "", "", time.Time{}, err
	}

	refresh, _, err = s.MintRefresh(ctx, user.UserID, jti)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return access, refresh, accessExpiresAt, nil
}

// Refresh rotates an opaque refresh token: the old forward/reverse pair is
// revoked and a new refresh token is minted under the same jti, so the
// still-valid access token's jti claim keeps identifying the live session.
// The new pair is written before the old record is revoked.
func (s *TokenService) Refresh(ctx context.Context, user UserClaims, refreshToken string) (access, refresh string, accessExpiresAt time.Time, err error) {
	tokenHash := HashToken(refreshToken)

	rec, err := s.store.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return "", "", time.Time{}, ErrTokenNotFound
	}
	if rec.Revoked {
		return "", "", time.Time{}, ErrTokenRevoked
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		return "", "", time.Time{}, ErrTokenExpired
	}

	newRefresh, err := newOpaqueToken()
	if err != nil {
		return "", "", time.Time{}, err
	}

	now := time.Now().UTC()
	newExpiresAt := now.Add(s.jwt.RefreshTTL())
	newRec := RefreshTokenRecord{
		UserID:    rec.UserID,
		JTI:       rec.JTI,
		TokenHash: HashToken(newRefresh),
		CreatedAt: now,
		ExpiresAt: newExpiresAt,
	}

	// Write the new pair first so a crash between writes never leaves the
	// session without a live forward/reverse record. The forward slot is
	// shared across rotations (same jti), so Put has already replaced the
	// old record; retiring the old token is then just dropping its reverse
	// entry, after which presenting it resolves to nothing.
	if err := s.store.Put(ctx, newRec); err != nil {
		return "", "", time.Time{}, err
	}

	if err := s.store.DeleteReverse(ctx, tokenHash); err != nil {
		return "", "", time.Time{}, err
	}

	newAccess, accessExpiresAt, err := s.jwt.GenerateAccessToken(user.UserID, user.Email, user.Role, rec.JTI)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return newAccess, newRefresh, accessExpiresAt, nil
}

// RevokeSession revokes a single (userID, jti) session. Idempotent.
func (s *TokenService) RevokeSession(ctx context.Context, userID, jti string) error {
	return s.store.Revoke(ctx, userID, jti)
}

// RevokeAllSessions revokes every live session for userID, returning the
// count revoked.
func (s *TokenService) RevokeAllSessions(ctx context.Context, userID string) (int, error) {
	return s.store.RevokeAll(ctx, userID)
}

// RevokeByRefreshToken revokes whatever session refreshToken resolves to.
// No-op if the token is unknown.
func (s *TokenService) RevokeByRefreshToken(ctx context.Context, refreshToken string) error {
	return s.store.RevokeByTokenHash(ctx, HashToken(refreshToken))
}

// ValidateRefresh reports whether refreshToken currently resolves to a live,
// unexpired session.
func (s *TokenService) ValidateRefresh(ctx context.Context, refreshToken string) (bool, error) {
	rec, err := s.store.GetByTokenHash(ctx, HashToken(refreshToken))
	if err != nil {
		return false, nil
	}
	if rec.Revoked || time.Now().UTC().After(rec.ExpiresAt) {
		return false, nil
	}
	return true, nil
}

// ResolveUserID returns the user id that refreshToken currently belongs to.
func (s *TokenService) ResolveUserID(ctx context.Context, refreshToken string) (string, error) {
	rec, err := s.store.GetByTokenHash(ctx, HashToken(refreshToken))
	if err != nil {
		return "", ErrTokenNotFound
	}
	if rec.Revoked {
		return "", ErrTokenRevoked
	}
	return rec.UserID, nil
}

// IsSessionLive reports whether (userID, jti) still has a live session
// record, used by the session-validation filter.
func (s *TokenService) IsSessionLive(ctx context.Context, userID, jti string) (bool, error) {
	return s.store.IsLive(ctx, userID, jti)
}

// ListSessions returns every stored session record for userID as
// caller-facing SessionInfo values. Token hashes never leave this package.
func (s *TokenService) ListSessions(ctx context.Context, userID string) ([]appidentity.SessionInfo, error) {
	recs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]appidentity.SessionInfo, 0, len(recs))
	for _, rec := range recs {
		out = append(out, appidentity.SessionInfo{
			JTI:       rec.JTI,
			CreatedAt: rec.CreatedAt,
			ExpiresAt: rec.ExpiresAt,
			Revoked:   rec.Revoked,
		})
	}
	return out, nil
}
