package domain

import (
	"github.com/credvault/credvault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so that handlers can map them to HTTP status codes without inspecting
// crypto internals.
var (
	// ErrMalformedEnvelope indicates a ciphertext string that does not match
	// the "ivBase64:ciphertextBase64" wire format.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrInvalidKeySize indicates key material that is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidSaltSize indicates a KDF salt that is not exactly 16 bytes.
	ErrInvalidSaltSize = errors.Wrap(errors.ErrInvalidInput, "invalid salt size")

	// ErrDecryptionFailed indicates an AEAD open failure: wrong key, or a
	// tampered/corrupted envelope. The specific cause is deliberately not
	// disclosed. Elsewhere in the system this failure is the sole
	// password-verification mechanism (via the vault validator), so no
	// separately attackable password hash is ever stored.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)
