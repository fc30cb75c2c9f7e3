package fixtures

// JWT test configuration. The service signs access tokens with HS512, so
// tests only need a shared symmetric secret of at least 64 bytes.

const (
	// TestJWTSecret is a 64-byte HS512 signing secret for tests.
	// DO NOT USE IN PRODUCTION!
	//nolint:gosec // G101: This is a test fixture, not production credentials
	TestJWTSecret = "integration-test-secret-0123456789abcdef0123456789abcdef01234567"

	// TestJWTIssuer is the issuer claim for test JWTs.
	TestJWTIssuer = "licensevault-test"

	// TestJWTAudience is the audience claim for test JWTs.
	TestJWTAudience = "licensevault-api-test"

	// TestAccessTokenDuration is the default duration for test access tokens (15 minutes).
	TestAccessTokenDuration = 15 * 60 // 15 minutes in seconds

	// TestRefreshTokenDuration is the default duration for test refresh tokens (7 days).
	TestRefreshTokenDuration = 7 * 24 * 60 * 60 // 7 days in seconds
)

// JWTClaimsFixture provides test JWT claims.
type JWTClaimsFixture struct {
	UserID string
	Email  string
	Role   string
}

// ValidClaims returns valid JWT claims for testing.
func ValidClaims() *JWTClaimsFixture {
	return &JWTClaimsFixture{
		UserID: "00000000-0000-0000-0000-000000000001",
		Email:  "test@example.com",
		Role:   "user",
	}
}

// AdminClaims returns JWT claims with admin role.
func AdminClaims() *JWTClaimsFixture {
	return &JWTClaimsFixture{
		UserID: "00000000-0000-0000-0000-000000000002",
		Email:  "admin@example.com",
		Role:   "admin",
	}
}
