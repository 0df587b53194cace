// Package session holds the server-side session state binding an opaque
// cookie token to an authenticated identity for a fixed time window. The
// store is an explicit dependency injected into the request layer, never a
// package global.
package session

import (
	"context"
	"time"
)

// Identity is the set of claims a session carries. The password hash is
// deliberately not part of this type.
type Identity struct {
	UserID   uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Store persists sessions keyed by opaque token. Lifetime is a fixed TTL
// from creation, not sliding: Get never extends a session.
type Store interface {
	// Create stores the identity under a fresh token and returns the token.
	Create(ctx context.Context, id Identity) (string, error)
	// Get resolves a token. The bool reports whether a live session exists.
	Get(ctx context.Context, token string) (Identity, bool, error)
	// Destroy removes a session. Destroying an absent token is not an error.
	Destroy(ctx context.Context, token string) error
}

// DefaultTTL is the session lifetime used when configuration does not
// override it.
const DefaultTTL = 24 * time.Hour
