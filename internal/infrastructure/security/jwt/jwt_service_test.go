package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Secret = strings.Repeat("a", 64)
	return cfg
}

func TestNewService_RejectsShortSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Secret = "too-short"

	_, err := NewService(cfg)
	require.Error(t, err)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc, err := NewService(testConfig())
	require.NoError(t, err)

	jti := NewJTI()
	token, expiresAt, err := svc.GenerateAccessToken("user-1", "user@example.com", "User", jti)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(svc.AccessTTL()), expiresAt, time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "User", claims.Role)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateToken_RejectsTampered(t *testing.T) {
	svc, err := NewService(testConfig())
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken("user-1", "user@example.com", "User", NewJTI())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	require.Error(t, err)
}

func TestValidateToken_RejectsWrongIssuer(t *testing.T) {
	cfg := testConfig()
	svc, err := NewService(cfg)
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone-else"
	otherSvc, err := NewService(other)
	require.NoError(t, err)

	token, _, err := otherSvc.GenerateAccessToken("user-1", "user@example.com", "User", NewJTI())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}
