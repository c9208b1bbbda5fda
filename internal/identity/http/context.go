// Package http provides HTTP handlers and middleware for identity operations.
package http

import (
	"context"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// userKey is a context key type for storing authenticated users.
type userKey struct{}

// WithUser stores an authenticated user in the context.
func WithUser(ctx context.Context, user *identityDomain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser retrieves the authenticated user from the context.
// Returns (user, true) if present, or (nil, false) if no user was set.
func GetUser(ctx context.Context) (*identityDomain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*identityDomain.User)
	return user, ok
}
