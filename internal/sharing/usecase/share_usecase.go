package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
	apperrors "github.com/credvault/credvault/internal/errors"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
)

// shareUseCase implements the ShareUseCase interface.
type shareUseCase struct {
	shareRepo      ShareRepository
	credentialRepo CredentialStore
	session        Session
	keyDeriver     cryptoService.KeyDeriver
	cipher         cryptoService.Cipher
	keyWrapper     cryptoService.KeyWrapper
	// linkHost is the public host embedded in share links.
	linkHost string
	// now is injectable for expiry tests.
	now func() time.Time
}

// NewShareUseCase creates a new share use case instance with the provided dependencies.
func NewShareUseCase(
	shareRepo ShareRepository,
	credentialRepo CredentialStore,
	session Session,
	keyDeriver cryptoService.KeyDeriver,
	cipher cryptoService.Cipher,
	keyWrapper cryptoService.KeyWrapper,
	linkHost string,
) ShareUseCase {
	return &shareUseCase{
		shareRepo:      shareRepo,
		credentialRepo: credentialRepo,
		session:        session,
		keyDeriver:     keyDeriver,
		cipher:         cipher,
		keyWrapper:     keyWrapper,
		linkHost:       linkHost,
		now:            time.Now,
	}
}

// Create builds or refreshes a time-boxed share link for an owned credential.
func (s *shareUseCase) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	credentialID uuid.UUID,
) (*CreatedShare, error) {
	masterKey, err := s.session.MasterKey(ownerID)
	if err != nil {
		return nil, err
	}

	credential, err := s.credentialRepo.GetByID(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if credential.OwnerID != ownerID {
		return nil, credentialsDomain.ErrNotOwner
	}

	itemKey, err := s.itemKeyForShare(ctx, credential, masterKey)
	if err != nil {
		return nil, err
	}
	defer itemKey.Destroy()

	linkPassword, err := s.keyDeriver.GenerateLinkPassword()
	if err != nil {
		return nil, err
	}
	salt, err := s.keyDeriver.GenerateSalt()
	if err != nil {
		return nil, err
	}
	linkKey, err := s.keyDeriver.DeriveKey(linkPassword, salt)
	if err != nil {
		return nil, err
	}
	encryptedData, err := s.keyWrapper.WrapKey(itemKey, linkKey)
	if err != nil {
		return nil, err
	}

	// One share per (credential, owner): re-sharing refreshes the link in
	// place, restarting the window and orphaning the previous link password.
	share, err := s.shareRepo.GetByCredentialAndOwner(ctx, credentialID, ownerID)
	switch {
	case err == nil:
		share.EncryptedData = encryptedData
		share.Salt = salt
		share.CreatedAt = s.now().UTC()
		if err := s.shareRepo.RefreshLink(ctx, share); err != nil {
			return nil, err
		}
	case apperrors.Is(err, apperrors.ErrNotFound):
		share = &sharingDomain.Share{
			ID:            uuid.Must(uuid.NewV7()),
			CredentialID:  credentialID,
			OwnerID:       ownerID,
			SharedTo:      []uuid.UUID{},
			RecipientKeys: map[uuid.UUID]cryptoDomain.Envelope{},
			EncryptedData: encryptedData,
			Salt:          salt,
			CreatedAt:     s.now().UTC(),
		}
		if err := s.shareRepo.Create(ctx, share); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &CreatedShare{
		ShareID: share.ID,
		Link:    s.buildLink(share.ID, linkPassword),
	}, nil
}

// buildLink places the share ID and link password in the URL fragment, which
// browsers never send to the server.
func (s *shareUseCase) buildLink(shareID uuid.UUID, linkPassword string) string {
	return fmt.Sprintf("https://%s/#share_id=%s&key=%s", s.linkHost, shareID, linkPassword)
}

// itemKeyForShare returns the credential's item key, migrating legacy records
// the same way a write does.
func (s *shareUseCase) itemKeyForShare(
	ctx context.Context,
	credential *credentialsDomain.Credential,
	masterKey cryptoDomain.SealedKey,
) (cryptoDomain.ItemKey, error) {
	if !credential.IsLegacy() {
		return s.keyWrapper.UnwrapKey(*credential.ItemKeyBlob, masterKey)
	}

	password, err := s.cipher.Decrypt(credential.Password, masterKey)
	if err != nil {
		return cryptoDomain.ItemKey{}, apperrors.Wrap(err, "failed to decrypt legacy credential")
	}

	itemKey, err := s.keyWrapper.GenerateItemKey()
	if err != nil {
		return cryptoDomain.ItemKey{}, err
	}
	encrypted, err := s.cipher.Encrypt(password, itemKey)
	if err != nil {
		itemKey.Destroy()
		return cryptoDomain.ItemKey{}, err
	}
	blob, err := s.keyWrapper.WrapKey(itemKey, masterKey)
	if err != nil {
		itemKey.Destroy()
		return cryptoDomain.ItemKey{}, err
	}

	credential.Password = encrypted
	credential.ItemKeyBlob = &blob
	credential.UpdatedAt = s.now().UTC()
	if err := s.credentialRepo.Update(ctx, credential); err != nil {
		itemKey.Destroy()
		return cryptoDomain.ItemKey{}, err
	}
	return itemKey, nil
}

// Resolve previews a share for a link viewer and parks the unwrapped item key
// for a later Accept.
func (s *shareUseCase) Resolve(
	ctx context.Context,
	viewerID uuid.UUID,
	shareID uuid.UUID,
	linkPassword string,
) (*sharingDomain.SharePreview, error) {
	share, err := s.shareRepo.GetByID(ctx, shareID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, sharingDomain.ErrLinkInvalid
		}
		return nil, err
	}
	if share.Expired(s.now()) {
		return nil, sharingDomain.ErrLinkExpired
	}

	linkKey, err := s.keyDeriver.DeriveKey(linkPassword, share.Salt)
	if err != nil {
		return nil, err
	}
	itemKey, err := s.keyWrapper.UnwrapKey(share.EncryptedData, linkKey)
	if err != nil {
		// A failed unwrap means a wrong link password; an attacker learns
		// nothing beyond that.
		return nil, sharingDomain.ErrLinkInvalid
	}

	credential, err := s.credentialRepo.GetByID(ctx, share.CredentialID)
	if err != nil {
		itemKey.Destroy()
		return nil, err
	}
	password, err := s.cipher.Decrypt(credential.Password, itemKey)
	if err != nil {
		itemKey.Destroy()
		return nil, apperrors.Wrap(err, "failed to decrypt shared credential")
	}

	// The session owns the pending key until Accept or lock.
	s.session.HoldPendingKey(viewerID, shareID, itemKey)

	return &sharingDomain.SharePreview{
		ShareID:  share.ID,
		Site:     credential.Site,
		Username: credential.Username,
		Password: password,
		Color:    credential.Color,
		Logo:     credential.Logo,
	}, nil
}

// Accept re-wraps the pending item key under the caller's master key and
// merges them into the share record, granting access that outlives the link.
func (s *shareUseCase) Accept(ctx context.Context, userID uuid.UUID, shareID uuid.UUID) error {
	masterKey, err := s.session.MasterKey(userID)
	if err != nil {
		return err
	}

	itemKey, ok := s.session.TakePendingKey(userID, shareID)
	if !ok {
		return sharingDomain.ErrLinkExpiredOrMissing
	}
	defer itemKey.Destroy()

	wrapped, err := s.keyWrapper.WrapKey(itemKey, masterKey)
	if err != nil {
		return err
	}

	return s.shareRepo.AddRecipient(ctx, shareID, userID, wrapped)
}

// Revoke deletes an owned share.
func (s *shareUseCase) Revoke(ctx context.Context, userID uuid.UUID, shareID uuid.UUID) error {
	share, err := s.shareRepo.GetByID(ctx, shareID)
	if err != nil {
		return err
	}
	if share.OwnerID != userID {
		return apperrors.Wrap(apperrors.ErrForbidden, "share belongs to another user")
	}

	return s.shareRepo.Delete(ctx, shareID)
}

// ListOwned lists the caller's shares for the management view.
func (s *shareUseCase) ListOwned(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.OwnedShare, error) {
	return s.shareRepo.ListOwned(ctx, ownerID)
}
