package domain

import (
	"crypto/aes"
	"crypto/cipher"
)

// KeySize is the symmetric key size in bytes (AES-256).
const KeySize = 32

// Key is a usable symmetric key handle. Both key kinds expose an initialized
// AEAD for encryption and decryption; only ItemKey exposes raw bytes.
type Key interface {
	// AEAD returns the AES-256-GCM instance bound to this key.
	AEAD() cipher.AEAD
}

// SealedKey is a non-extractable symmetric key: it holds only the expanded
// AEAD state and provides no way to read the raw key bytes back. The master
// key and share link keys are SealedKeys, so a compromised caller cannot
// exfiltrate them. The zero value is unusable; check IsZero.
type SealedKey struct {
	aead cipher.AEAD
}

// NewSealedKey builds a SealedKey from raw key material. The caller should
// zero raw immediately after this returns; the key bytes are not retained.
func NewSealedKey(raw []byte) (SealedKey, error) {
	aead, err := newGCM(raw)
	if err != nil {
		return SealedKey{}, err
	}
	return SealedKey{aead: aead}, nil
}

// AEAD returns the AES-256-GCM instance bound to this key.
func (k SealedKey) AEAD() cipher.AEAD {
	return k.aead
}

// IsZero reports whether the key holds no material.
func (k SealedKey) IsZero() bool {
	return k.aead == nil
}

// ItemKey is an extractable per-credential symmetric key. Unlike the master
// key it must be exportable, because its raw bytes get wrapped (encrypted)
// under multiple different keys over its lifetime: the owner's master key,
// share link keys, and recipients' master keys.
type ItemKey struct {
	raw  []byte
	aead cipher.AEAD
}

// NewItemKey builds an ItemKey from raw key material. The bytes are copied;
// call Destroy when the key is no longer needed.
func NewItemKey(raw []byte) (ItemKey, error) {
	aead, err := newGCM(raw)
	if err != nil {
		return ItemKey{}, err
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return ItemKey{raw: buf, aead: aead}, nil
}

// AEAD returns the AES-256-GCM instance bound to this key.
func (k ItemKey) AEAD() cipher.AEAD {
	return k.aead
}

// Raw returns the raw key bytes for wrapping. The returned slice aliases the
// key's internal buffer; do not persist it.
func (k ItemKey) Raw() []byte {
	return k.raw
}

// IsZero reports whether the key holds no material.
func (k ItemKey) IsZero() bool {
	return k.aead == nil
}

// Destroy zeroes the raw key bytes. The AEAD state remains usable until the
// key goes out of scope.
func (k ItemKey) Destroy() {
	Zero(k.raw)
}

// newGCM validates the key size and builds the AES-256-GCM instance.
func newGCM(raw []byte) (cipher.AEAD, error) {
	if len(raw) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
