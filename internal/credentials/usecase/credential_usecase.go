package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
	apperrors "github.com/credvault/credvault/internal/errors"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
)

// credentialUseCase implements the CredentialUseCase interface.
type credentialUseCase struct {
	credentialRepo CredentialRepository
	shareRepo      ShareReader
	session        Session
	cipher         cryptoService.Cipher
	keyWrapper     cryptoService.KeyWrapper
	logger         *slog.Logger
}

// NewCredentialUseCase creates a new credential use case instance with the provided dependencies.
func NewCredentialUseCase(
	credentialRepo CredentialRepository,
	shareRepo ShareReader,
	session Session,
	cipher cryptoService.Cipher,
	keyWrapper cryptoService.KeyWrapper,
	logger *slog.Logger,
) CredentialUseCase {
	return &credentialUseCase{
		credentialRepo: credentialRepo,
		shareRepo:      shareRepo,
		session:        session,
		cipher:         cipher,
		keyWrapper:     keyWrapper,
		logger:         logger,
	}
}

// Save encrypts and stores a new credential under a fresh item key.
func (c *credentialUseCase) Save(
	ctx context.Context,
	ownerID uuid.UUID,
	input SaveInput,
) (*credentialsDomain.Credential, error) {
	masterKey, err := c.session.MasterKey(ownerID)
	if err != nil {
		return nil, err
	}

	// Application-level duplicate check; the unique index closes the race.
	_, err = c.credentialRepo.GetByOwnerSiteUsername(ctx, ownerID, input.Site, input.Username)
	if err == nil {
		return nil, credentialsDomain.ErrDuplicateCredential
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	itemKey, err := c.keyWrapper.GenerateItemKey()
	if err != nil {
		return nil, err
	}
	defer itemKey.Destroy()

	encrypted, err := c.cipher.Encrypt(input.Password, itemKey)
	if err != nil {
		return nil, err
	}
	blob, err := c.keyWrapper.WrapKey(itemKey, masterKey)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	credential := &credentialsDomain.Credential{
		ID:          uuid.Must(uuid.NewV7()),
		OwnerID:     ownerID,
		Site:        input.Site,
		Username:    input.Username,
		Password:    encrypted,
		ItemKeyBlob: &blob,
		Color:       input.Color,
		Logo:        input.Logo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.credentialRepo.Create(ctx, credential); err != nil {
		return nil, err
	}
	return credential, nil
}

// Update re-encrypts and stores the changed fields of an owned credential,
// migrating legacy records to a per-item key along the way.
func (c *credentialUseCase) Update(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
	input UpdateInput,
) (*credentialsDomain.Credential, error) {
	masterKey, err := c.session.MasterKey(userID)
	if err != nil {
		return nil, err
	}

	credential, err := c.credentialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if credential.OwnerID != userID {
		return nil, credentialsDomain.ErrNotOwner
	}

	itemKey, err := c.itemKeyForWrite(credential, masterKey)
	if err != nil {
		return nil, err
	}
	defer itemKey.Destroy()

	if input.Password != nil {
		encrypted, err := c.cipher.Encrypt(*input.Password, itemKey)
		if err != nil {
			return nil, err
		}
		credential.Password = encrypted
	}
	if input.Site != nil {
		credential.Site = *input.Site
	}
	if input.Username != nil {
		credential.Username = *input.Username
	}
	if input.Color != nil {
		credential.Color = *input.Color
	}
	if input.Logo != nil {
		credential.Logo = *input.Logo
	}

	credential.UpdatedAt = time.Now().UTC()
	if err := c.credentialRepo.Update(ctx, credential); err != nil {
		return nil, err
	}
	return credential, nil
}

// itemKeyForWrite returns the credential's item key, creating one for legacy
// records. Migration re-encrypts the stored password under the new item key
// and sets the wrapped blob on the credential; the caller persists both.
// Repeating the migration is safe, just wasteful.
func (c *credentialUseCase) itemKeyForWrite(
	credential *credentialsDomain.Credential,
	masterKey cryptoDomain.SealedKey,
) (cryptoDomain.ItemKey, error) {
	if !credential.IsLegacy() {
		return c.keyWrapper.UnwrapKey(*credential.ItemKeyBlob, masterKey)
	}

	password, err := c.cipher.Decrypt(credential.Password, masterKey)
	if err != nil {
		return cryptoDomain.ItemKey{}, apperrors.Wrap(err, "failed to decrypt legacy credential")
	}

	itemKey, err := c.keyWrapper.GenerateItemKey()
	if err != nil {
		return cryptoDomain.ItemKey{}, err
	}
	encrypted, err := c.cipher.Encrypt(password, itemKey)
	if err != nil {
		itemKey.Destroy()
		return cryptoDomain.ItemKey{}, err
	}
	blob, err := c.keyWrapper.WrapKey(itemKey, masterKey)
	if err != nil {
		itemKey.Destroy()
		return cryptoDomain.ItemKey{}, err
	}

	credential.Password = encrypted
	credential.ItemKeyBlob = &blob
	return itemKey, nil
}

// Delete removes an owned credential. No key material is read, so a locked
// vault can still delete.
func (c *credentialUseCase) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	credential, err := c.credentialRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if credential.OwnerID != userID {
		return credentialsDomain.ErrNotOwner
	}

	return c.credentialRepo.Delete(ctx, id)
}

// ListDecrypted returns the caller's own items and accepted shares with
// plaintext passwords. Entries that fail to decrypt are logged and skipped so
// one corrupted row cannot take down the whole listing.
func (c *credentialUseCase) ListDecrypted(
	ctx context.Context,
	userID uuid.UUID,
) ([]*credentialsDomain.DecryptedCredential, error) {
	masterKey, err := c.session.MasterKey(userID)
	if err != nil {
		return nil, err
	}

	owned, err := c.credentialRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*credentialsDomain.DecryptedCredential, 0, len(owned))
	for _, credential := range owned {
		entry, err := c.decryptOwned(credential, masterKey)
		if err != nil {
			c.logger.Warn("skipping undecryptable credential",
				slog.String("credential_id", credential.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		result = append(result, entry)
	}

	shares, err := c.shareRepo.ListForRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, share := range shares {
		entry, err := c.decryptShared(ctx, share, userID, masterKey)
		if err != nil {
			c.logger.Warn("skipping undecryptable share",
				slog.String("share_id", share.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		result = append(result, entry)
	}

	return result, nil
}

// decryptOwned decrypts one owned credential, handling legacy records.
func (c *credentialUseCase) decryptOwned(
	credential *credentialsDomain.Credential,
	masterKey cryptoDomain.SealedKey,
) (*credentialsDomain.DecryptedCredential, error) {
	var password string
	var err error

	if credential.IsLegacy() {
		password, err = c.cipher.Decrypt(credential.Password, masterKey)
	} else {
		var itemKey cryptoDomain.ItemKey
		itemKey, err = c.keyWrapper.UnwrapKey(*credential.ItemKeyBlob, masterKey)
		if err == nil {
			password, err = c.cipher.Decrypt(credential.Password, itemKey)
			itemKey.Destroy()
		}
	}
	if err != nil {
		return nil, err
	}

	return &credentialsDomain.DecryptedCredential{
		ID:       credential.ID,
		OwnerID:  credential.OwnerID,
		Site:     credential.Site,
		Username: credential.Username,
		Password: password,
		Color:    credential.Color,
		Logo:     credential.Logo,
		IsShared: false,
	}, nil
}

// decryptShared decrypts one accepted share via the caller's recipient entry.
func (c *credentialUseCase) decryptShared(
	ctx context.Context,
	share *sharingDomain.Share,
	userID uuid.UUID,
	masterKey cryptoDomain.SealedKey,
) (*credentialsDomain.DecryptedCredential, error) {
	wrapped, ok := share.RecipientKey(userID)
	if !ok {
		return nil, apperrors.New("no recipient key for user")
	}

	credential, err := c.credentialRepo.GetByID(ctx, share.CredentialID)
	if err != nil {
		return nil, err
	}

	itemKey, err := c.keyWrapper.UnwrapKey(wrapped, masterKey)
	if err != nil {
		return nil, err
	}
	defer itemKey.Destroy()

	password, err := c.cipher.Decrypt(credential.Password, itemKey)
	if err != nil {
		return nil, err
	}

	shareID := share.ID
	return &credentialsDomain.DecryptedCredential{
		ID:       credential.ID,
		OwnerID:  credential.OwnerID,
		Site:     credential.Site,
		Username: credential.Username,
		Password: password,
		Color:    credential.Color,
		Logo:     credential.Logo,
		IsShared: true,
		ShareID:  &shareID,
	}, nil
}
