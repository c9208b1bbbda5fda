package domain

import (
	"github.com/credvault/credvault/internal/errors"
)

// Credential-specific error definitions.
var (
	// ErrCredentialNotFound indicates no credential exists with the given ID.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrDuplicateCredential indicates another credential already exists for
	// the same (owner, site, username).
	ErrDuplicateCredential = errors.Wrap(errors.ErrConflict, "credential already exists for this site and username")

	// ErrNotOwner indicates the caller does not own the credential.
	ErrNotOwner = errors.Wrap(errors.ErrForbidden, "credential belongs to another user")
)
