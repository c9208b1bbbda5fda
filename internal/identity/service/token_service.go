// Package service provides token generation and hashing for identity.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/credvault/credvault/internal/errors"
)

// TokenService generates bearer tokens and hashes them for storage.
type TokenService interface {
	GenerateToken() (plainToken string, tokenHash string, err error)
	HashToken(plainToken string) string
}

type tokenService struct{}

// NewTokenService creates a TokenService using SHA-256 for token hashing.
func NewTokenService() TokenService {
	return &tokenService{}
}

// GenerateToken creates a new 32-byte random token, base64 URL-encoded.
// Returns the plain token and its SHA-256 hash.
func (t *tokenService) GenerateToken() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken := base64.URLEncoding.EncodeToString(randomBytes)
	return plainToken, t.HashToken(plainToken), nil
}

// HashToken hashes a plain token using SHA-256, hex encoded.
func (t *tokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}
