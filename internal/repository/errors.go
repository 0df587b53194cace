// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific error text: ErrNotFound signals that an
// operation targeted an id with no matching row, while the identity
// errors report which unique constraint a registration collided with.
package repository

import "errors"

// ErrNotFound is returned when an update or delete matched no row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a registration reuses an email address.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when a registration reuses a username.
var ErrUsernameExists = errors.New("username already exists")
