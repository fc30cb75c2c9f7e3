package license

// Policy carries deployment-level switches for license issuance.
// EnforceSingleActiveLicensePerUser controls whether CreateLicenseHandler
// rejects issuing a second concurrently-Active license for the same user.
type Policy struct {
	// EnforceSingleActiveLicensePerUser, when true, rejects CreateLicense
	// if the user already holds another Active license. Default true.
	EnforceSingleActiveLicensePerUser bool
}

// DefaultPolicy returns the reference policy: one Active license per user
// is enforced.
func DefaultPolicy() Policy {
	return Policy{EnforceSingleActiveLicensePerUser: true}
}
