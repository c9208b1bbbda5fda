package service

import (
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

// CipherService implements Cipher using AES-256-GCM.
//
// Each encryption generates a unique 12-byte IV with crypto/rand. With GCM it
// is critical that IVs are never reused under the same key; envelopes are
// self-describing so the IV travels with the ciphertext.
//
// The service is stateless and safe for concurrent use; the per-key AEAD
// state lives in the key handles themselves.
type CipherService struct{}

// NewCipher creates a new CipherService.
func NewCipher() *CipherService {
	return &CipherService{}
}

// Encrypt encrypts plaintext under key into a fresh envelope.
func (c *CipherService) Encrypt(plaintext string, key cryptoDomain.Key) (cryptoDomain.Envelope, error) {
	return c.EncryptBytes([]byte(plaintext), key)
}

// EncryptBytes encrypts a raw byte payload under key into a fresh envelope.
func (c *CipherService) EncryptBytes(plaintext []byte, key cryptoDomain.Key) (cryptoDomain.Envelope, error) {
	aead := key.AEAD()
	if aead == nil {
		return cryptoDomain.Envelope{}, cryptoDomain.ErrInvalidKeySize
	}

	iv := make([]byte, aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext := aead.Seal(nil, iv, plaintext, nil)
	return cryptoDomain.Envelope{IV: iv, Ciphertext: ciphertext}, nil
}

// Decrypt opens an envelope and returns the plaintext string.
// Returns ErrDecryptionFailed when the tag check fails.
func (c *CipherService) Decrypt(env cryptoDomain.Envelope, key cryptoDomain.Key) (string, error) {
	plaintext, err := c.DecryptBytes(env, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// DecryptBytes opens an envelope and returns the raw plaintext bytes.
func (c *CipherService) DecryptBytes(env cryptoDomain.Envelope, key cryptoDomain.Key) ([]byte, error) {
	aead := key.AEAD()
	if aead == nil {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	plaintext, err := aead.Open(nil, env.IV, env.Ciphertext, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
