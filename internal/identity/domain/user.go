// Package domain defines the identity entities: users and bearer tokens.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/errors"
)

// User represents an account that can own a vault.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for identity operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates a failed email/password or token check.
	// Deliberately generic so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrTokenNotFound indicates the bearer token hash has no matching row.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")
)
