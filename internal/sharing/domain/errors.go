package domain

import (
	"github.com/credvault/credvault/internal/errors"
)

// Sharing-specific error definitions.
var (
	// ErrLinkInvalid indicates the share does not exist (revoked or never created).
	ErrLinkInvalid = errors.Wrap(errors.ErrNotFound, "share link is invalid")

	// ErrLinkExpired indicates the acceptance window has passed.
	ErrLinkExpired = errors.Wrap(errors.ErrExpired, "share link has expired")

	// ErrLinkExpiredOrMissing indicates accept was called without a prior
	// resolve in this session, or the pending key was discarded by a lock.
	ErrLinkExpiredOrMissing = errors.Wrap(errors.ErrExpired, "share link expired or not resolved in this session")

	// ErrShareNotFound indicates no share exists with the given ID.
	ErrShareNotFound = errors.Wrap(errors.ErrNotFound, "share not found")
)
