package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// vaultUseCase implements the VaultUseCase interface.
type vaultUseCase struct {
	txManager      database.TxManager
	vaultRepo      VaultRepository
	vaultCache     VaultCache
	credentialRepo CredentialKeyStore
	shareRepo      ShareKeyStore
	sessions       *SessionManager
	keyDeriver     cryptoService.KeyDeriver
	cipher         cryptoService.Cipher
	keyWrapper     cryptoService.KeyWrapper
	loadGroup      singleflight.Group
}

// NewVaultUseCase creates a new vault use case instance with the provided dependencies.
func NewVaultUseCase(
	txManager database.TxManager,
	vaultRepo VaultRepository,
	vaultCache VaultCache,
	credentialRepo CredentialKeyStore,
	shareRepo ShareKeyStore,
	sessions *SessionManager,
	keyDeriver cryptoService.KeyDeriver,
	cipher cryptoService.Cipher,
	keyWrapper cryptoService.KeyWrapper,
) VaultUseCase {
	return &vaultUseCase{
		txManager:      txManager,
		vaultRepo:      vaultRepo,
		vaultCache:     vaultCache,
		credentialRepo: credentialRepo,
		shareRepo:      shareRepo,
		sessions:       sessions,
		keyDeriver:     keyDeriver,
		cipher:         cipher,
		keyWrapper:     keyWrapper,
	}
}

// Status reports the vault state for the user.
func (v *vaultUseCase) Status(ctx context.Context, userID uuid.UUID) (vaultDomain.Status, error) {
	if v.sessions.IsUnlocked(userID) {
		return vaultDomain.StatusUnlocked, nil
	}

	_, err := v.loadRecord(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return vaultDomain.StatusNoVault, nil
		}
		return "", err
	}
	return vaultDomain.StatusLocked, nil
}

// loadRecord fetches the vault record from the local cache, falling back to
// the remote repository and populating the cache on a hit.
func (v *vaultUseCase) loadRecord(
	ctx context.Context,
	userID uuid.UUID,
) (*vaultDomain.VaultRecord, error) {
	record, err := v.vaultCache.Get(userID)
	if err == nil {
		return record, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Concurrent misses for the same user share one remote fetch.
	result, err, _ := v.loadGroup.Do(userID.String(), func() (any, error) {
		record, err := v.vaultRepo.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if cacheErr := v.vaultCache.Set(record); cacheErr != nil {
			return nil, apperrors.Wrap(cacheErr, "failed to cache vault record")
		}
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*vaultDomain.VaultRecord), nil
}

// Setup creates a vault for a user who has none and leaves it unlocked.
func (v *vaultUseCase) Setup(ctx context.Context, userID uuid.UUID, secret string) error {
	_, err := v.loadRecord(ctx, userID)
	if err == nil {
		return vaultDomain.ErrVaultExists
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	salt, err := v.keyDeriver.GenerateSalt()
	if err != nil {
		return err
	}

	key, err := v.keyDeriver.DeriveKey(secret, salt)
	if err != nil {
		return err
	}

	validator, err := v.cipher.Encrypt(vaultDomain.ValidatorPlaintext, key)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	record := &vaultDomain.VaultRecord{
		UserID:    userID,
		Salt:      salt,
		Validator: validator,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The primary key on user_id closes the race between two concurrent
	// setups; the loser surfaces as a conflict.
	if err := v.vaultRepo.Create(ctx, record); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return vaultDomain.ErrVaultExists
		}
		return err
	}
	if err := v.vaultCache.Set(record); err != nil {
		return apperrors.Wrap(err, "failed to cache vault record")
	}

	v.sessions.Hold(userID, key)
	return nil
}

// Unlock verifies the secret against the stored validator and, on success,
// holds the derived key in the session.
func (v *vaultUseCase) Unlock(ctx context.Context, userID uuid.UUID, secret string) error {
	record, err := v.loadRecord(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return vaultDomain.ErrVaultNotFound
		}
		return err
	}

	key, err := v.verifySecret(record, secret)
	if err != nil {
		return err
	}

	v.sessions.Hold(userID, key)
	return nil
}

// verifySecret derives a candidate key and checks it by decrypting the
// validator. A failed decryption is the only wrong-password signal; the
// candidate key is discarded on failure.
func (v *vaultUseCase) verifySecret(
	record *vaultDomain.VaultRecord,
	secret string,
) (cryptoDomain.SealedKey, error) {
	key, err := v.keyDeriver.DeriveKey(secret, record.Salt)
	if err != nil {
		return cryptoDomain.SealedKey{}, err
	}

	plaintext, err := v.cipher.Decrypt(record.Validator, key)
	if err != nil || plaintext != vaultDomain.ValidatorPlaintext {
		return cryptoDomain.SealedKey{}, vaultDomain.ErrIncorrectPassword
	}
	return key, nil
}

// Lock discards all in-memory key material for the user.
func (v *vaultUseCase) Lock(_ context.Context, userID uuid.UUID) error {
	v.sessions.Release(userID)
	return nil
}

// ChangePassword re-keys the vault under a new secret, re-wrapping every
// owned item key and every accepted-share key. Payload ciphertexts are left
// untouched except for legacy records, which are migrated to item keys.
func (v *vaultUseCase) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	currentSecret string,
	newSecret string,
) error {
	record, err := v.loadRecord(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return vaultDomain.ErrVaultNotFound
		}
		return err
	}

	oldKey, err := v.verifySecret(record, currentSecret)
	if err != nil {
		return err
	}

	newSalt, err := v.keyDeriver.GenerateSalt()
	if err != nil {
		return err
	}
	newKey, err := v.keyDeriver.DeriveKey(newSecret, newSalt)
	if err != nil {
		return err
	}
	newValidator, err := v.cipher.Encrypt(vaultDomain.ValidatorPlaintext, newKey)
	if err != nil {
		return err
	}

	err = v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := v.rewrapCredentials(txCtx, userID, oldKey, newKey); err != nil {
			return err
		}
		if err := v.rewrapAcceptedShares(txCtx, userID, oldKey, newKey); err != nil {
			return err
		}

		record.Salt = newSalt
		record.Validator = newValidator
		record.UpdatedAt = time.Now().UTC()
		return v.vaultRepo.Update(txCtx, record)
	})
	if err != nil {
		return err
	}

	if err := v.vaultCache.Set(record); err != nil {
		return apperrors.Wrap(err, "failed to cache vault record")
	}

	v.sessions.Hold(userID, newKey)
	return nil
}

// rewrapCredentials re-wraps every owned item key under the new master key.
// Legacy records get an item key as part of the pass.
func (v *vaultUseCase) rewrapCredentials(
	ctx context.Context,
	userID uuid.UUID,
	oldKey cryptoDomain.SealedKey,
	newKey cryptoDomain.SealedKey,
) error {
	credentials, err := v.credentialRepo.ListByOwner(ctx, userID)
	if err != nil {
		return err
	}

	for _, credential := range credentials {
		if credential.IsLegacy() {
			// Password sits directly under the old master key. Migrate to a
			// per-item key while we hold both master keys.
			password, err := v.cipher.Decrypt(credential.Password, oldKey)
			if err != nil {
				return apperrors.Wrap(err, "failed to decrypt legacy credential")
			}

			itemKey, err := v.keyWrapper.GenerateItemKey()
			if err != nil {
				return err
			}
			encrypted, err := v.cipher.Encrypt(password, itemKey)
			if err != nil {
				itemKey.Destroy()
				return err
			}
			blob, err := v.keyWrapper.WrapKey(itemKey, newKey)
			itemKey.Destroy()
			if err != nil {
				return err
			}

			credential.Password = encrypted
			credential.ItemKeyBlob = &blob
		} else {
			itemKey, err := v.keyWrapper.UnwrapKey(*credential.ItemKeyBlob, oldKey)
			if err != nil {
				return apperrors.Wrap(err, "failed to unwrap item key")
			}
			blob, err := v.keyWrapper.WrapKey(itemKey, newKey)
			itemKey.Destroy()
			if err != nil {
				return err
			}
			credential.ItemKeyBlob = &blob
		}

		credential.UpdatedAt = time.Now().UTC()
		if err := v.credentialRepo.Update(ctx, credential); err != nil {
			return err
		}
	}
	return nil
}

// rewrapAcceptedShares re-wraps the user's recipient entries on shares they
// have accepted. Shares without an entry for the user are skipped.
func (v *vaultUseCase) rewrapAcceptedShares(
	ctx context.Context,
	userID uuid.UUID,
	oldKey cryptoDomain.SealedKey,
	newKey cryptoDomain.SealedKey,
) error {
	shares, err := v.shareRepo.ListForRecipient(ctx, userID)
	if err != nil {
		return err
	}

	for _, share := range shares {
		wrapped, ok := share.RecipientKey(userID)
		if !ok {
			continue
		}

		itemKey, err := v.keyWrapper.UnwrapKey(wrapped, oldKey)
		if err != nil {
			return apperrors.Wrap(err, "failed to unwrap shared item key")
		}
		rewrapped, err := v.keyWrapper.WrapKey(itemKey, newKey)
		itemKey.Destroy()
		if err != nil {
			return err
		}

		if err := v.shareRepo.AddRecipient(ctx, share.ID, userID, rewrapped); err != nil {
			return err
		}
	}
	return nil
}
