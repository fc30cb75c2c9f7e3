// Package verification implements the cache-backed store for single-use
// email-verification and password-reset tokens.
package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/yegamble/licensevault/internal/application/cache"
)

const (
	emailVerificationTTL = 24 * time.Hour
	passwordResetTTL     = 1 * time.Hour
)

// Store persists token -> userID mappings in the KV cache, one keyspace
// per token kind so an email-verification token and a password-reset token
// can never collide even if minted with the same random value.
type Store struct {
	cache cache.Cache
}

// NewStore creates a Store backed by c.
func NewStore(c cache.Cache) *Store {
	return &Store{cache: c}
}

func emailVerificationKey(token string) string {
	return fmt.Sprintf("verify-email:%s", token)
}

func passwordResetKey(token string) string {
	return fmt.Sprintf("reset-password:%s", token)
}

// PutEmailVerification stores token -> userID with a 24h TTL.
func (s *Store) PutEmailVerification(ctx context.Context, token, userID string) error {
	if err := s.cache.Set(ctx, emailVerificationKey(token), userID, emailVerificationTTL); err != nil {
		return fmt.Errorf("verification store: put email verification: %w", err)
	}
	return nil
}

// ConsumeEmailVerification retrieves and deletes the userID for token.
func (s *Store) ConsumeEmailVerification(ctx context.Context, token string) (string, error) {
	key := emailVerificationKey(token)
	var userID string
	if err := s.cache.Get(ctx, key, &userID); err != nil {
		return "", fmt.Errorf("verification store: consume email verification: %w", err)
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return "", fmt.Errorf("verification store: delete consumed email verification: %w", err)
	}
	return userID, nil
}

// PutPasswordReset stores token -> userID with a 1h TTL.
func (s *Store) PutPasswordReset(ctx context.Context, token, userID string) error {
	if err := s.cache.Set(ctx, passwordResetKey(token), userID, passwordResetTTL); err != nil {
		return fmt.Errorf("verification store: put password reset: %w", err)
	}
	return nil
}

// ConsumePasswordReset retrieves and deletes the userID for token.
func (s *Store) ConsumePasswordReset(ctx context.Context, token string) (string, error) {
	key := passwordResetKey(token)
	var userID string
	if err := s.cache.Get(ctx, key, &userID); err != nil {
		return "", fmt.Errorf("verification store: consume password reset: %w", err)
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return "", fmt.Errorf("verification store: delete consumed password reset: %w", err)
	}
	return userID, nil
}
