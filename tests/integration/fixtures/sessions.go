package fixtures

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yegamble/licensevault/internal/infrastructure/security/jwt"
)

// SessionFixture builds RefreshTokenRecord values for session-store tests.
// The opaque token is kept alongside the record so tests can exercise the
// reverse index with the real hash.
type SessionFixture struct {
	Token  string
	Record jwt.RefreshTokenRecord
}

// ValidSession returns a live session fixture for userID.
func ValidSession(t *testing.T, userID uuid.UUID) *SessionFixture {
	t.Helper()

	now := time.Now().UTC()
	token := "refresh-token-" + uuid.New().String()

	return &SessionFixture{
		Token: token,
		Record: jwt.RefreshTokenRecord{
			UserID:    userID.String(),
			JTI:       uuid.New().String(),
			TokenHash: jwt.HashToken(token),
			CreatedAt: now,
			ExpiresAt: now.Add(7 * 24 * time.Hour),
		},
	}
}

// ShortLivedSession returns a session fixture expiring after ttl, for tests
// that need to observe TTL-driven eviction.
func ShortLivedSession(t *testing.T, userID uuid.UUID, ttl time.Duration) *SessionFixture {
	t.Helper()

	f := ValidSession(t, userID)
	f.Record.ExpiresAt = time.Now().UTC().Add(ttl)
	return f
}

// RevokedSession returns a session fixture already marked revoked.
func RevokedSession(t *testing.T, userID uuid.UUID) *SessionFixture {
	t.Helper()

	f := ValidSession(t, userID)
	f.Record.Revoked = true
	f.Record.RevokedAt = time.Now().UTC()
	return f
}
