package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

const (
	// SaltSize is the KDF salt size in bytes, one salt per vault record.
	SaltSize = 16

	// DefaultIterations is the PBKDF2 iteration count (OWASP minimum for
	// PBKDF2-HMAC-SHA256). The cost is the whole point: an attacker with the
	// stored validator needs this many hash iterations per password guess.
	DefaultIterations = 100000

	// linkPasswordBytes is the entropy of a generated share-link password.
	linkPasswordBytes = 32
)

// KDFService implements KeyDeriver using PBKDF2-HMAC-SHA256.
//
// PBKDF2 is memory-light but CPU-hard, which matches the deployment target:
// derivation must also run inside low-memory extension contexts that unlock
// against the same vault record.
type KDFService struct {
	iterations int
}

// NewKDF creates a KDFService. Iteration counts below DefaultIterations are
// raised to it; weakening the KDF via configuration is not allowed.
func NewKDF(iterations int) *KDFService {
	if iterations < DefaultIterations {
		iterations = DefaultIterations
	}
	return &KDFService{iterations: iterations}
}

// GenerateSalt returns a fresh cryptographically random 16-byte salt.
func (k *KDFService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches the secret into a sealed 256-bit key. The intermediate
// key bytes are zeroed before returning; only the sealed handle survives.
func (k *KDFService) DeriveKey(secret string, salt []byte) (cryptoDomain.SealedKey, error) {
	if len(salt) != SaltSize {
		return cryptoDomain.SealedKey{}, cryptoDomain.ErrInvalidSaltSize
	}

	raw := pbkdf2.Key([]byte(secret), salt, k.iterations, cryptoDomain.KeySize, sha256.New)
	defer cryptoDomain.Zero(raw)

	return cryptoDomain.NewSealedKey(raw)
}

// GenerateLinkPassword returns a URL-safe base64 encoding of 32 random bytes.
// The password travels only in the share URL fragment and is never persisted.
func (k *KDFService) GenerateLinkPassword() (string, error) {
	buf := make([]byte, linkPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate link password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
