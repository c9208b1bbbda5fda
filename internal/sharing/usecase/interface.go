// Package usecase implements the sharing protocol: time-boxed link creation,
// anonymous-viewer resolution, recipient acceptance, and revocation.
package usecase

import (
	"context"

	"github.com/google/uuid"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
)

// ShareRepository defines the interface for share persistence.
type ShareRepository interface {
	Create(ctx context.Context, share *sharingDomain.Share) error
	GetByID(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error)
	GetByCredentialAndOwner(
		ctx context.Context,
		credentialID uuid.UUID,
		ownerID uuid.UUID,
	) (*sharingDomain.Share, error)
	RefreshLink(ctx context.Context, share *sharingDomain.Share) error
	AddRecipient(
		ctx context.Context,
		shareID uuid.UUID,
		userID uuid.UUID,
		wrappedKey cryptoDomain.Envelope,
	) error
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]*sharingDomain.OwnedShare, error)
	ListForRecipient(ctx context.Context, userID uuid.UUID) ([]*sharingDomain.Share, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CredentialStore is the slice of credential persistence the protocol needs:
// reading the shared item and persisting a lazy item-key migration.
type CredentialStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*credentialsDomain.Credential, error)
	Update(ctx context.Context, credential *credentialsDomain.Credential) error
}

// Session exposes the master key of an unlocked vault and the per-share
// pending item keys bridging resolve and accept.
type Session interface {
	MasterKey(userID uuid.UUID) (cryptoDomain.SealedKey, error)
	HoldPendingKey(userID, shareID uuid.UUID, key cryptoDomain.ItemKey)
	TakePendingKey(userID, shareID uuid.UUID) (cryptoDomain.ItemKey, bool)
}

// CreatedShare is the result of creating or refreshing a share link.
type CreatedShare struct {
	ShareID uuid.UUID `json:"share_id"`
	// Link carries the share ID and link password in the URL fragment, so the
	// password never reaches server logs.
	Link string `json:"link"`
}

// ShareUseCase defines the interface for the sharing protocol business logic.
type ShareUseCase interface {
	// Create builds (or refreshes) a time-boxed share link for an owned
	// credential. Requires an unlocked vault. Refreshing restarts the
	// acceptance window and invalidates the previous link.
	Create(ctx context.Context, ownerID uuid.UUID, credentialID uuid.UUID) (*CreatedShare, error)

	// Resolve previews a share for a link viewer and parks the unwrapped item
	// key for a later Accept. Fails ErrLinkInvalid on a missing share or a
	// wrong link password, ErrLinkExpired past the acceptance window.
	Resolve(
		ctx context.Context,
		viewerID uuid.UUID,
		shareID uuid.UUID,
		linkPassword string,
	) (*sharingDomain.SharePreview, error)

	// Accept grants the caller persistent access: the pending item key from a
	// prior Resolve is re-wrapped under their master key and merged into the
	// share record. Requires an unlocked vault.
	Accept(ctx context.Context, userID uuid.UUID, shareID uuid.UUID) error

	// Revoke deletes an owned share; all recipients lose access immediately.
	Revoke(ctx context.Context, userID uuid.UUID, shareID uuid.UUID) error

	// ListOwned lists the caller's shares for the management view.
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]*sharingDomain.OwnedShare, error)
}
