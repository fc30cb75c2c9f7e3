package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenGenerator mints single-use, base64url-encoded random tokens for the
// email-verification and password-reset flows, using the same crypto/rand
// + base64url encoding as the opaque refresh token.
type TokenGenerator struct{}

// NewTokenGenerator creates a TokenGenerator.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{}
}

// Generate returns a new base64url-encoded random token of size bytes.
func (TokenGenerator) Generate(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token generator: generate random token: %w", err)
	}
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(buf), nil
}
