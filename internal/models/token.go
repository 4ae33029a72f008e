package models

// DashboardToken is a capability granting read-only access to one user's
// ledger for a single period. Only the digest of the token is persisted;
// the plaintext is handed to the issuer once.
type DashboardToken struct {
	// Digest is the hex-encoded BLAKE2b-256 digest of the plaintext token.
	Digest string

	// UserID is the user whose ledger the token exposes.
	UserID string

	// Month and Year are the period bound at issuance.
	Month int
	Year  int

	// CreatedAt is the Unix timestamp (microseconds) of issuance.
	CreatedAt int64

	// ExpiresAt is the Unix timestamp (microseconds) after which the token stops
	// resolving. Zero means the token never expires.
	ExpiresAt int64

	// RevokedAt is the Unix timestamp (microseconds) of revocation, zero if active.
	RevokedAt int64
}

// Period returns the bound period.
func (t DashboardToken) Period() Period {
	return Period{Month: t.Month, Year: t.Year}
}

// Active reports whether the token may still be used at time now (Unix microseconds).
func (t DashboardToken) Active(now int64) bool {
	if t.RevokedAt != 0 {
		return false
	}
	return t.ExpiresAt == 0 || now < t.ExpiresAt
}
