// Package domain defines the vault domain model: the per-user vault record
// and the session states of the unlock state machine.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

// ValidatorPlaintext is the fixed known plaintext encrypted under the master
// key at setup time. Successfully decrypting it is the only way a candidate
// password is ever verified; no password hash is stored anywhere.
const ValidatorPlaintext = "VALID"

// VaultRecord is the single persisted artifact of a user's vault: the KDF
// salt and the validator envelope. It contains no secret material; deriving
// the master key from it still costs the full KDF work per password guess.
type VaultRecord struct {
	// UserID scopes the record to one authenticated identity.
	UserID uuid.UUID
	// Salt is the 16-byte KDF salt, generated once per vault.
	Salt []byte
	// Validator is ValidatorPlaintext encrypted under the master key.
	Validator cryptoDomain.Envelope
	// CreatedAt is the UTC timestamp of initial vault setup.
	CreatedAt time.Time
	// UpdatedAt is bumped when the vault is re-keyed (password change).
	UpdatedAt time.Time
}

// Status is the observable state of a user's vault.
type Status string

const (
	// StatusNoVault means no vault record exists for the identity.
	StatusNoVault Status = "no_vault"
	// StatusLocked means a vault record exists but no master key is in memory.
	StatusLocked Status = "locked"
	// StatusUnlocked means a live master key is held for the identity.
	StatusUnlocked Status = "unlocked"
)
