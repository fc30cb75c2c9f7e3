package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/yegamble/licensevault/internal/application/cache"
)

// RefreshTokenRecord is the KV-store representation of a live or recently
// rotated refresh token.
type RefreshTokenRecord struct {
	UserID    string    `json:"user_id"`
	JTI       string    `json:"jti"`
	TokenHash string    `json:"token_hash"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	RevokedAt time.Time `json:"revoked_at,omitempty"`
}

// SessionStore holds refresh-token records in two coordinated keyspaces: a
// forward index keyed by user+session, and a reverse index keyed by token
// hash for O(1) lookup on refresh.
type SessionStore struct {
	cache cache.Cache
}

// NewSessionStore creates a session store backed by c.
func NewSessionStore(c cache.Cache) *SessionStore {
	return &SessionStore{cache: c}
}

func forwardKey(userID, jti string) string {
	return fmt.Sprintf("session:%s:%s", userID, jti)
}

func reverseKey(tokenHash string) string {
	return fmt.Sprintf("tokenindex:%s", tokenHash)
}

// Put writes the forward and reverse index entries for rec. Both entries
// share a TTL derived from rec.ExpiresAt.
func (s *SessionStore) Put(ctx context.Context, rec RefreshTokenRecord) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session store: record already expired")
	}

	fKey := forwardKey(rec.UserID, rec.JTI)
	if err := s.cache.Set(ctx, fKey, rec, ttl); err != nil {
		return fmt.Errorf("session store: write forward record: %w", err)
	}
	if err := s.cache.Set(ctx, reverseKey(rec.TokenHash), fKey, ttl); err != nil {
		return fmt.Errorf("session store: write reverse index: %w", err)
	}
	return nil
}

// GetByJTI returns the forward record for (userID, jti).
func (s *SessionStore) GetByJTI(ctx context.Context, userID, jti string) (*RefreshTokenRecord, error) {
	var rec RefreshTokenRecord
	if err := s.cache.Get(ctx, forwardKey(userID, jti), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByTokenHash resolves a presented token hash to its forward record via
// the reverse index in a single round trip.
func (s *SessionStore) GetByTokenHash(ctx context.Context, tokenHash string) (*RefreshTokenRecord, error) {
	var fKey string
	if err := s.cache.Get(ctx, reverseKey(tokenHash), &fKey); err != nil {
		return nil, err
	}

	var rec RefreshTokenRecord
	if err := s.cache.Get(ctx, fKey, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Revoke marks the forward record as revoked and deletes its reverse entry,
// so a presented token can no longer resolve to it via the O(1) path. It is
// idempotent: revoking an already-revoked or missing record is not an error.
func (s *SessionStore) Revoke(ctx context.Context, userID, jti string) error {
	rec, err := s.GetByJTI(ctx, userID, jti)
	if err != nil {
		if err == cache.ErrKeyNotFound {
			return nil
		}
		return fmt.Errorf("session store: load record for revoke: %w", err)
	}

	if err := s.cache.Delete(ctx, reverseKey(rec.TokenHash)); err != nil {
		return fmt.Errorf("session store: delete reverse index: %w", err)
	}

	rec.Revoked = true
	rec.RevokedAt = time.Now().UTC()
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return s.cache.Delete(ctx, forwardKey(userID, jti))
	}
	if err := s.cache.Set(ctx, forwardKey(userID, jti), rec, ttl); err != nil {
		return fmt.Errorf("session store: write revoked record: %w", err)
	}
	return nil
}

// DeleteReverse drops the reverse-index entry for tokenHash, retiring the
// token it fingerprints without touching the forward record. Used on
// rotation, where the forward slot has already been replaced under the same
// jti. Missing entries are not an error.
func (s *SessionStore) DeleteReverse(ctx context.Context, tokenHash string) error {
	if err := s.cache.Delete(ctx, reverseKey(tokenHash)); err != nil {
		return fmt.Errorf("session store: delete reverse index: %w", err)
	}
	return nil
}

// ListByUser returns every stored session record for userID via the
// authoritative session:{userID}:* scan. Like RevokeAll, this is an O(N)
// path reserved for the account-management surface, never the refresh path.
func (s *SessionStore) ListByUser(ctx context.Context, userID string) ([]RefreshTokenRecord, error) {
	keys, err := s.cache.SearchKeys(ctx, fmt.Sprintf("session:%s:*", userID))
	if err != nil {
		return nil, fmt.Errorf("session store: scan user sessions: %w", err)
	}

	recs := make([]RefreshTokenRecord, 0, len(keys))
	for _, key := range keys {
		var rec RefreshTokenRecord
		if err := s.cache.Get(ctx, key, &rec); err != nil {
			// Keys can expire between scan and read.
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// RevokeByTokenHash revokes whatever session the given token hash resolves
// to, or no-ops if it resolves to nothing.
func (s *SessionStore) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	rec, err := s.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if err == cache.ErrKeyNotFound {
			return nil
		}
		return fmt.Errorf("session store: resolve token hash: %w", err)
	}
	return s.Revoke(ctx, rec.UserID, rec.JTI)
}

// RevokeAll revokes every live session belonging to userID via a pattern
// scan. This is the one sanctioned O(N) path, used only on
// logout-all/password-change and not on the hot refresh path.
func (s *SessionStore) RevokeAll(ctx context.Context, userID string) (int, error) {
	keys, err := s.cache.SearchKeys(ctx, fmt.Sprintf("session:%s:*", userID))
	if err != nil {
		return 0, fmt.Errorf("session store: scan user sessions: %w", err)
	}

	revoked := 0
	for _, key := range keys {
		var rec RefreshTokenRecord
		if err := s.cache.Get(ctx, key, &rec); err != nil {
			continue
		}
		if rec.Revoked {
			continue
		}
		if err := s.Revoke(ctx, rec.UserID, rec.JTI); err != nil {
			return revoked, err
		}
		revoked++
	}

	if revoked > 0 {
		// Best-effort notice so other nodes drop any locally cached
		// session state for this user.
		_ = s.cache.PublishInvalidation(ctx, fmt.Sprintf("session:%s:*", userID))
	}
	return revoked, nil
}

// IsLive reports whether a live (present, non-revoked) session record exists
// for (userID, jti). Used by the session-validation filter on every
// authenticated request.
func (s *SessionStore) IsLive(ctx context.Context, userID, jti string) (bool, error) {
	rec, err := s.GetByJTI(ctx, userID, jti)
	if err != nil {
		if err == cache.ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}
	return !rec.Revoked, nil
}
