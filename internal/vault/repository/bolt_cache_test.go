package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

func newTestCache(t *testing.T) *BoltVaultCache {
	t.Helper()

	cache, err := OpenBoltVaultCache(filepath.Join(t.TempDir(), "vault-cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, cache.Close())
	})
	return cache
}

func newTestRecord(t *testing.T) *vaultDomain.VaultRecord {
	t.Helper()

	userID, err := uuid.NewV7()
	require.NoError(t, err)

	validator, err := cryptoDomain.ParseEnvelope("AAAAAAAAAAAAAAAA:c29tZWNpcGhlcnRleHQ=")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Millisecond)
	return &vaultDomain.VaultRecord{
		UserID:    userID,
		Salt:      []byte("0123456789abcdef"),
		Validator: validator,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestBoltVaultCache(t *testing.T) {
	t.Run("miss returns not found", func(t *testing.T) {
		cache := newTestCache(t)

		userID, err := uuid.NewV7()
		require.NoError(t, err)

		_, err = cache.Get(userID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("set then get round-trips the record", func(t *testing.T) {
		cache := newTestCache(t)
		record := newTestRecord(t)

		require.NoError(t, cache.Set(record))

		got, err := cache.Get(record.UserID)
		require.NoError(t, err)
		assert.Equal(t, record.UserID, got.UserID)
		assert.Equal(t, record.Salt, got.Salt)
		assert.Equal(t, record.Validator.String(), got.Validator.String())
		assert.True(t, record.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, record.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("set replaces an existing entry", func(t *testing.T) {
		cache := newTestCache(t)
		record := newTestRecord(t)

		require.NoError(t, cache.Set(record))

		updated := *record
		updated.Salt = []byte("fedcba9876543210")
		updated.UpdatedAt = updated.UpdatedAt.Add(time.Minute)
		require.NoError(t, cache.Set(&updated))

		got, err := cache.Get(record.UserID)
		require.NoError(t, err)
		assert.Equal(t, updated.Salt, got.Salt)
	})

	t.Run("records are namespaced per user", func(t *testing.T) {
		cache := newTestCache(t)
		first := newTestRecord(t)
		second := newTestRecord(t)
		second.Salt = []byte("second-user-salt")

		require.NoError(t, cache.Set(first))
		require.NoError(t, cache.Set(second))

		got, err := cache.Get(first.UserID)
		require.NoError(t, err)
		assert.Equal(t, first.Salt, got.Salt)

		got, err = cache.Get(second.UserID)
		require.NoError(t, err)
		assert.Equal(t, second.Salt, got.Salt)
	})

	t.Run("remove deletes the entry", func(t *testing.T) {
		cache := newTestCache(t)
		record := newTestRecord(t)

		require.NoError(t, cache.Set(record))
		require.NoError(t, cache.Remove(record.UserID))

		_, err := cache.Get(record.UserID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("remove on absent key is a no-op", func(t *testing.T) {
		cache := newTestCache(t)

		userID, err := uuid.NewV7()
		require.NoError(t, err)
		assert.NoError(t, cache.Remove(userID))
	})
}
