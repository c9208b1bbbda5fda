package domain

import (
	"github.com/credvault/credvault/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrVaultNotFound indicates no vault record exists for the identity.
	ErrVaultNotFound = errors.Wrap(errors.ErrNotFound, "vault not found")

	// ErrVaultExists indicates setup was attempted over an existing vault.
	ErrVaultExists = errors.Wrap(errors.ErrConflict, "vault already exists")

	// ErrVaultLocked indicates the operation needs the master key and none is
	// held in memory for the identity.
	ErrVaultLocked = errors.Wrap(errors.ErrLocked, "vault is locked")

	// ErrIncorrectPassword indicates the candidate secret failed to decrypt
	// the stored validator.
	ErrIncorrectPassword = errors.Wrap(errors.ErrUnauthorized, "incorrect vault password")
)
