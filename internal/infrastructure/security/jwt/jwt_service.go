// Package jwt implements access-token signing and the refresh-token
// lifecycle (hashing, session storage, rotation) for the authentication core.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// minSecretBytes is the minimum length, in bytes, required of the HS512
	// signing secret.
	minSecretBytes = 64

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Config holds JWT service configuration.
type Config struct {
	Secret     string        // Symmetric HS512 signing secret, >= 64 bytes.
	AccessTTL  time.Duration // Access token time-to-live (default: 15 minutes)
	RefreshTTL time.Duration // Refresh token time-to-live (default: 7 days)
	Issuer     string        // Token issuer
	Audience   string        // Token audience
}

// DefaultConfig returns a Config with secure defaults; Secret must still be
// supplied by the caller.
func DefaultConfig() Config {
	return Config{
		AccessTTL:  defaultAccessTTL,
		RefreshTTL: defaultRefreshTTL,
		Issuer:     "licensevault",
		Audience:   "licensevault-api",
	}
}

// Claims represents the JWT claims carried by an access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and parses access tokens using HS512.
type Service struct {
	secret []byte
	config Config
}

// NewService creates a new JWT service with the given configuration.
func NewService(cfg Config) (*Service, error) {
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("jwt issuer cannot be empty")
	}
	if cfg.Audience == "" {
		return nil, fmt.Errorf("jwt audience cannot be empty")
	}
	if cfg.AccessTTL <= 0 {
		return nil, fmt.Errorf("jwt access TTL must be positive")
	}
	if cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("jwt refresh TTL must be positive")
	}
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes (got %d)", minSecretBytes, len(cfg.Secret))
	}

	return &Service{
		secret: []byte(cfg.Secret),
		config: cfg,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (s *Service) AccessTTL() time.Duration {
	return s.config.AccessTTL
}

// RefreshTTL returns the configured refresh-token lifetime.
func (s *Service) RefreshTTL() time.Duration {
	return s.config.RefreshTTL
}

// GenerateAccessToken signs a new access token binding userID/email/role to
// jti, the session identifier shared with the refresh-token record.
func (s *Service) GenerateAccessToken(userID, email, role, jti string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("user id cannot be empty")
	}
	if jti == "" {
		return "", time.Time{}, fmt.Errorf("jti cannot be empty")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.config.AccessTTL)

	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Audience},
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken validates a JWT and returns its claims. No clock-skew
// allowance is granted.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token cannot be empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithAudience(s.config.Audience))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid claims")
	}

	return claims, nil
}

// NewJTI returns a fresh session identifier.
func NewJTI() string {
	return uuid.NewString()
}
