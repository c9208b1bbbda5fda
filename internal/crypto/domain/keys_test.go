package domain

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSealedKey(t *testing.T) {
	t.Run("valid 32-byte key", func(t *testing.T) {
		raw := make([]byte, KeySize)
		_, err := rand.Read(raw)
		require.NoError(t, err)

		key, err := NewSealedKey(raw)
		require.NoError(t, err)
		assert.False(t, key.IsZero())
		assert.NotNil(t, key.AEAD())
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := NewSealedKey(make([]byte, 16))
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("zero value is unusable", func(t *testing.T) {
		var key SealedKey
		assert.True(t, key.IsZero())
		assert.Nil(t, key.AEAD())
	})
}

func TestNewItemKey(t *testing.T) {
	raw := make([]byte, KeySize)
	_, err := rand.Read(raw)
	require.NoError(t, err)

	key, err := NewItemKey(raw)
	require.NoError(t, err)
	assert.False(t, key.IsZero())
	assert.Equal(t, raw, key.Raw())

	t.Run("raw bytes are copied", func(t *testing.T) {
		original := make([]byte, KeySize)
		copy(original, raw)
		Zero(raw)
		assert.Equal(t, original, key.Raw())
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := NewItemKey(make([]byte, 31))
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})
}

func TestItemKey_Destroy(t *testing.T) {
	raw := make([]byte, KeySize)
	_, err := rand.Read(raw)
	require.NoError(t, err)

	key, err := NewItemKey(raw)
	require.NoError(t, err)

	key.Destroy()
	assert.Equal(t, make([]byte, KeySize), key.Raw())
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0}, b)

	// Must not panic on nil.
	Zero(nil)
}
