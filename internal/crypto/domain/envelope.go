// Package domain defines the core cryptographic domain models for the vault.
//
// It implements a two-tier key hierarchy: a master key derived from the user's
// secret wraps per-credential item keys, and item keys encrypt the credential
// payloads. Wrapping the small item key instead of re-encrypting payloads is
// what makes sharing and re-keying cheap.
package domain

import (
	"encoding/base64"
	"strings"
)

// IVSize is the AES-GCM nonce size in bytes.
const IVSize = 12

// Envelope is the ciphertext wire format: a fresh random IV plus the
// AEAD ciphertext (authentication tag appended), serialized as
// "ivBase64:ciphertextBase64".
type Envelope struct {
	IV         []byte
	Ciphertext []byte
}

// ParseEnvelope parses the "ivBase64:ciphertextBase64" wire format.
// Returns ErrMalformedEnvelope unless the string contains exactly one
// separator and both parts are valid standard base64.
func ParseEnvelope(s string) (Envelope, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Envelope{}, ErrMalformedEnvelope
	}

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return Envelope{}, ErrMalformedEnvelope
	}

	ciphertext, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return Envelope{}, ErrMalformedEnvelope
	}

	if len(iv) != IVSize {
		return Envelope{}, ErrMalformedEnvelope
	}

	return Envelope{IV: iv, Ciphertext: ciphertext}, nil
}

// String serializes the envelope to its wire format.
func (e Envelope) String() string {
	return base64.StdEncoding.EncodeToString(e.IV) + ":" + base64.StdEncoding.EncodeToString(e.Ciphertext)
}

// IsZero reports whether the envelope is empty.
func (e Envelope) IsZero() bool {
	return len(e.IV) == 0 && len(e.Ciphertext) == 0
}
