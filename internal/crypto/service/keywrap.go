package service

import (
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

// KeyWrapService implements KeyWrapper.
//
// The indirection through a per-item key is the load-bearing design decision
// of the vault: sharing a credential or changing the vault password only ever
// re-encrypts the 32-byte item key, never the payload, so one payload can be
// unlocked through any number of wrapped-key blobs.
type KeyWrapService struct {
	cipher Cipher
}

// NewKeyWrapper creates a KeyWrapService using the provided cipher for the
// wrap/unwrap encryption.
func NewKeyWrapper(cipher Cipher) *KeyWrapService {
	return &KeyWrapService{cipher: cipher}
}

// GenerateItemKey creates a fresh random 256-bit item key.
func (s *KeyWrapService) GenerateItemKey() (cryptoDomain.ItemKey, error) {
	raw := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(raw); err != nil {
		return cryptoDomain.ItemKey{}, fmt.Errorf("failed to generate item key: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	return cryptoDomain.NewItemKey(raw)
}

// WrapKey exports the item key to raw bytes and encrypts them under the
// wrapping key, producing a standard envelope.
func (s *KeyWrapService) WrapKey(
	itemKey cryptoDomain.ItemKey,
	wrappingKey cryptoDomain.Key,
) (cryptoDomain.Envelope, error) {
	return s.cipher.EncryptBytes(itemKey.Raw(), wrappingKey)
}

// UnwrapKey decrypts a wrapped-key envelope and imports the bytes as an item
// key. Returns ErrDecryptionFailed if the blob was wrapped under a different
// key.
func (s *KeyWrapService) UnwrapKey(
	env cryptoDomain.Envelope,
	unwrappingKey cryptoDomain.Key,
) (cryptoDomain.ItemKey, error) {
	raw, err := s.cipher.DecryptBytes(env, unwrappingKey)
	if err != nil {
		return cryptoDomain.ItemKey{}, err
	}
	defer cryptoDomain.Zero(raw)

	return cryptoDomain.NewItemKey(raw)
}
