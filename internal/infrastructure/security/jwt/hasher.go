package jwt

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashToken computes a deterministic, one-way fingerprint of an opaque
// refresh token: SHA-256 of its UTF-8 bytes, base64url-encoded. The result
// is used as the session record's tokenHash field and as the reverse-index
// key component, so that a presented token never needs to be stored or
// compared in the clear.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.URLEncoding.EncodeToString(sum[:])
}
