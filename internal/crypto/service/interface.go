// Package service provides the cryptographic services for the vault core:
// key derivation, the authenticated envelope cipher, and item-key wrapping.
package service

import (
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

// KeyDeriver stretches a low-entropy secret into a symmetric key.
type KeyDeriver interface {
	// GenerateSalt returns a fresh cryptographically random 16-byte salt.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives a non-extractable 256-bit key from the secret and
	// salt. Deterministic: the same (secret, salt) pair always yields a key
	// that decrypts the same ciphertexts.
	DeriveKey(secret string, salt []byte) (cryptoDomain.SealedKey, error)

	// GenerateLinkPassword returns a fresh high-entropy URL-safe password
	// for embedding in a share link fragment.
	GenerateLinkPassword() (string, error)
}

// Cipher performs authenticated encryption of opaque payloads into
// self-describing envelopes.
type Cipher interface {
	// Encrypt encrypts plaintext under key with a fresh random IV.
	Encrypt(plaintext string, key cryptoDomain.Key) (cryptoDomain.Envelope, error)

	// EncryptBytes is Encrypt for raw byte payloads (key wrapping).
	EncryptBytes(plaintext []byte, key cryptoDomain.Key) (cryptoDomain.Envelope, error)

	// Decrypt opens an envelope. Returns ErrDecryptionFailed when the
	// authentication tag check fails (wrong key or tampered data).
	Decrypt(env cryptoDomain.Envelope, key cryptoDomain.Key) (string, error)

	// DecryptBytes is Decrypt for raw byte payloads.
	DecryptBytes(env cryptoDomain.Envelope, key cryptoDomain.Key) ([]byte, error)
}

// KeyWrapper manages per-credential item keys: generation, and wrapping and
// unwrapping under arbitrary other keys.
type KeyWrapper interface {
	// GenerateItemKey creates a fresh random extractable 256-bit item key.
	GenerateItemKey() (cryptoDomain.ItemKey, error)

	// WrapKey encrypts the item key's raw bytes under the wrapping key.
	WrapKey(itemKey cryptoDomain.ItemKey, wrappingKey cryptoDomain.Key) (cryptoDomain.Envelope, error)

	// UnwrapKey decrypts a wrapped key blob and imports it as an item key.
	UnwrapKey(env cryptoDomain.Envelope, unwrappingKey cryptoDomain.Key) (cryptoDomain.ItemKey, error)
}
