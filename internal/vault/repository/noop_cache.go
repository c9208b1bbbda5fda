package repository

import (
	"github.com/google/uuid"

	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// NoopVaultCache is a cache that never holds anything. It is used when no
// local cache path is configured, so every status check hits the remote
// repository.
type NoopVaultCache struct{}

// NewNoopVaultCache creates a new no-op vault cache.
func NewNoopVaultCache() *NoopVaultCache {
	return &NoopVaultCache{}
}

// Get always reports a cache miss.
func (c *NoopVaultCache) Get(userID uuid.UUID) (*vaultDomain.VaultRecord, error) {
	return nil, vaultDomain.ErrVaultNotFound
}

// Set discards the record.
func (c *NoopVaultCache) Set(record *vaultDomain.VaultRecord) error {
	return nil
}

// Remove is a no-op.
func (c *NoopVaultCache) Remove(userID uuid.UUID) error {
	return nil
}
