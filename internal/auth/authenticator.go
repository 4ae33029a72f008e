package auth

import "context"

// Identity is the caller established from a session credential.
type Identity struct {
	UserID string
	Email  string
}

// Authenticator defines the interface for session validation.
// This abstraction allows swapping the identity provider (HS256 JWTs today)
// without changing the middleware or service layer code.
type Authenticator interface {
	// Authenticate validates a bearer credential and returns the caller's identity.
	Authenticate(ctx context.Context, credential string) (Identity, error)
}
