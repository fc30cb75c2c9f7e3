package license

import (
	"crypto/rand"
	"regexp"
	"strings"
)

// keyAlphabet is the 36-symbol alphabet license keys are drawn from.
const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	keyGroupCount  = 5
	keyGroupLength = 5
)

// keyFormat validates the five-groups-of-five shape, e.g. "7F3KX-9QWM2-...".
var keyFormat = regexp.MustCompile(`^[A-Z0-9]{5}(-[A-Z0-9]{5}){4}$`)

// LicenseKey is a value object representing a license activation key in the
// canonical XXXXX-XXXXX-XXXXX-XXXXX-XXXXX form.
type LicenseKey struct {
	value string
}

// GenerateLicenseKey draws five groups of five characters from crypto/rand,
// each uniformly sampled from keyAlphabet, and joins them with hyphens. No
// database uniqueness check is performed here; the keyspace (36^25) makes
// collision negligible, and callers may still enforce a unique constraint.
func GenerateLicenseKey() (LicenseKey, error) {
	groups := make([]string, keyGroupCount)
	for i := range groups {
		group, err := randomGroup(keyGroupLength)
		if err != nil {
			return LicenseKey{}, err
		}
		groups[i] = group
	}
	return LicenseKey{value: strings.Join(groups, "-")}, nil
}

func randomGroup(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = keyAlphabet[int(b)%len(keyAlphabet)]
	}
	return string(out), nil
}

// ParseLicenseKey validates and wraps an existing key string.
func ParseLicenseKey(value string) (LicenseKey, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if !keyFormat.MatchString(value) {
		return LicenseKey{}, ErrLicenseKeyInvalid
	}
	return LicenseKey{value: value}, nil
}

// String returns the canonical key string.
func (k LicenseKey) String() string {
	return k.value
}

// IsEmpty returns true if the LicenseKey is the zero value.
func (k LicenseKey) IsEmpty() bool {
	return k.value == ""
}

// Equals returns true if this LicenseKey equals the other LicenseKey.
func (k LicenseKey) Equals(other LicenseKey) bool {
	return k.value == other.value
}
