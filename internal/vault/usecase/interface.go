// Package usecase implements the vault session state machine: setup, unlock,
// lock, status, and password change with full key re-wrapping.
package usecase

import (
	"context"

	"github.com/google/uuid"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// VaultRepository defines the interface for remote vault record persistence.
type VaultRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*vaultDomain.VaultRecord, error)
	Create(ctx context.Context, record *vaultDomain.VaultRecord) error
	Update(ctx context.Context, record *vaultDomain.VaultRecord) error
}

// VaultCache defines the interface for the local vault record cache.
// Implementations return ErrNotFound on a miss.
type VaultCache interface {
	Get(userID uuid.UUID) (*vaultDomain.VaultRecord, error)
	Set(record *vaultDomain.VaultRecord) error
	Remove(userID uuid.UUID) error
}

// CredentialKeyStore is the slice of credential persistence a password change
// needs: every owned record's key material has to be re-wrapped.
type CredentialKeyStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*credentialsDomain.Credential, error)
	Update(ctx context.Context, credential *credentialsDomain.Credential) error
}

// ShareKeyStore is the slice of share persistence a password change needs:
// every share accepted by the user carries an item key wrapped under the old
// master key.
type ShareKeyStore interface {
	ListForRecipient(ctx context.Context, userID uuid.UUID) ([]*sharingDomain.Share, error)
	AddRecipient(
		ctx context.Context,
		shareID uuid.UUID,
		userID uuid.UUID,
		wrappedKey cryptoDomain.Envelope,
	) error
}

// VaultUseCase defines the interface for the vault lifecycle business logic.
type VaultUseCase interface {
	// Status reports the vault state for the user: no_vault, locked or unlocked.
	Status(ctx context.Context, userID uuid.UUID) (vaultDomain.Status, error)

	// Setup creates a vault for a user who has none and leaves it unlocked.
	Setup(ctx context.Context, userID uuid.UUID, secret string) error

	// Unlock derives a candidate key from the secret and verifies it against
	// the stored validator. Returns ErrIncorrectPassword on a wrong secret.
	Unlock(ctx context.Context, userID uuid.UUID, secret string) error

	// Lock discards all in-memory key material for the user. Idempotent.
	Lock(ctx context.Context, userID uuid.UUID) error

	// ChangePassword re-keys the vault: verifies the current secret, derives a
	// key from the new secret under a fresh salt, and re-wraps every owned
	// item key and every accepted-share key under it.
	ChangePassword(ctx context.Context, userID uuid.UUID, currentSecret, newSecret string) error
}
