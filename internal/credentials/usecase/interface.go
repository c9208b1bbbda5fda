// Package usecase implements the credential store business logic: encrypted
// save and update with lazy legacy migration, and the decrypted listing that
// merges owned items with accepted shares.
package usecase

import (
	"context"

	"github.com/google/uuid"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
)

// CredentialRepository defines the interface for credential persistence.
type CredentialRepository interface {
	Create(ctx context.Context, credential *credentialsDomain.Credential) error
	GetByID(ctx context.Context, id uuid.UUID) (*credentialsDomain.Credential, error)
	GetByOwnerSiteUsername(
		ctx context.Context,
		ownerID uuid.UUID,
		site string,
		username string,
	) (*credentialsDomain.Credential, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*credentialsDomain.Credential, error)
	Update(ctx context.Context, credential *credentialsDomain.Credential) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ShareReader is the slice of share persistence the decrypted listing needs.
type ShareReader interface {
	ListForRecipient(ctx context.Context, userID uuid.UUID) ([]*sharingDomain.Share, error)
}

// Session exposes the in-memory master key of an unlocked vault.
type Session interface {
	MasterKey(userID uuid.UUID) (cryptoDomain.SealedKey, error)
}

// SaveInput carries the plaintext fields of a new credential.
type SaveInput struct {
	Site     string
	Username string
	Password string
	Color    string
	Logo     string
}

// UpdateInput carries partial updates; nil fields are left unchanged.
type UpdateInput struct {
	Site     *string
	Username *string
	Password *string
	Color    *string
	Logo     *string
}

// CredentialUseCase defines the interface for credential store business logic.
type CredentialUseCase interface {
	// Save encrypts and stores a new credential. Requires an unlocked vault.
	Save(ctx context.Context, ownerID uuid.UUID, input SaveInput) (*credentialsDomain.Credential, error)

	// Update re-encrypts and stores changed fields. Requires an unlocked
	// vault and ownership. Legacy records are migrated to a per-item key as
	// a side effect.
	Update(
		ctx context.Context,
		userID uuid.UUID,
		id uuid.UUID,
		input UpdateInput,
	) (*credentialsDomain.Credential, error)

	// Delete removes an owned credential. Works on a locked vault.
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error

	// ListDecrypted returns the caller's own items and their accepted shares
	// with plaintext passwords. Items that fail to decrypt are skipped.
	ListDecrypted(ctx context.Context, userID uuid.UUID) ([]*credentialsDomain.DecryptedCredential, error)
}
