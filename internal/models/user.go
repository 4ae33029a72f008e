package models

// User represents an identity that has signed in through the identity provider.
//
// Accounts are created lazily: a row appears the first time a valid session
// for the user is seen, never by invitation. Sharing a bill by email can only
// target users that exist here.
type User struct {
	// ID is the opaque subject identifier issued by the identity provider.
	ID string

	// Email is the user's email address (unique, stored lower-cased).
	Email string

	// CreatedAt is the Unix timestamp (microseconds) of the first sign-in.
	CreatedAt int64

	// LastSeenAt is the Unix timestamp (microseconds) of the latest authenticated request.
	LastSeenAt int64
}
