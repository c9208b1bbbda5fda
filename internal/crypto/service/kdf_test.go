package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

func TestNewKDF_ClampsIterations(t *testing.T) {
	kdf := NewKDF(1000)
	assert.Equal(t, DefaultIterations, kdf.iterations)

	kdf = NewKDF(210000)
	assert.Equal(t, 210000, kdf.iterations)
}

func TestKDFService_GenerateSalt(t *testing.T) {
	kdf := NewKDF(DefaultIterations)

	salt1, err := kdf.GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt1, SaltSize)

	salt2, err := kdf.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt1, salt2)
}

func TestKDFService_DeriveKey_Deterministic(t *testing.T) {
	kdf := NewKDF(DefaultIterations)
	cipher := NewCipher()

	salt, err := kdf.GenerateSalt()
	require.NoError(t, err)

	key1, err := kdf.DeriveKey("1234", salt)
	require.NoError(t, err)

	// Encrypt a validator under the first derivation; the second derivation
	// of the same (secret, salt) must decrypt it.
	validator, err := cipher.Encrypt("VALID", key1)
	require.NoError(t, err)

	key2, err := kdf.DeriveKey("1234", salt)
	require.NoError(t, err)

	plaintext, err := cipher.Decrypt(validator, key2)
	require.NoError(t, err)
	assert.Equal(t, "VALID", plaintext)

	// And it must decrypt twice in a row with the same key instance.
	plaintext, err = cipher.Decrypt(validator, key2)
	require.NoError(t, err)
	assert.Equal(t, "VALID", plaintext)
}

func TestKDFService_DeriveKey_WrongSecret(t *testing.T) {
	kdf := NewKDF(DefaultIterations)
	cipher := NewCipher()

	salt, err := kdf.GenerateSalt()
	require.NoError(t, err)

	rightKey, err := kdf.DeriveKey("1234", salt)
	require.NoError(t, err)

	validator, err := cipher.Encrypt("VALID", rightKey)
	require.NoError(t, err)

	wrongKey, err := kdf.DeriveKey("9999", salt)
	require.NoError(t, err)

	_, err = cipher.Decrypt(validator, wrongKey)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestKDFService_DeriveKey_InvalidSalt(t *testing.T) {
	kdf := NewKDF(DefaultIterations)

	_, err := kdf.DeriveKey("1234", []byte("short"))
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidSaltSize)

	_, err = kdf.DeriveKey("1234", nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidSaltSize)
}

func TestKDFService_GenerateLinkPassword(t *testing.T) {
	kdf := NewKDF(DefaultIterations)

	pw1, err := kdf.GenerateLinkPassword()
	require.NoError(t, err)
	pw2, err := kdf.GenerateLinkPassword()
	require.NoError(t, err)

	assert.NotEqual(t, pw1, pw2)
	// URL-safe: must survive a URL fragment without escaping.
	assert.NotContains(t, pw1, "+")
	assert.NotContains(t, pw1, "/")
	assert.NotContains(t, pw1, "=")
	assert.GreaterOrEqual(t, len(pw1), 40)
}
