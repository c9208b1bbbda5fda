package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// vaultBucket holds cached vault records, keyed "vault_<userID>".
var vaultBucket = []byte("vault_records")

// cachedRecord is the JSON shape of a cached vault record. The validator is
// stored in its wire format; the record contains no secret material.
type cachedRecord struct {
	UserID    uuid.UUID `json:"user_id"`
	Salt      []byte    `json:"salt"`
	Validator string    `json:"validator"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoltVaultCache is a local key-value cache of vault records, so that status
// and unlock don't need a remote round-trip once a record has been seen.
// Keys are namespaced per user identity, so switching accounts in one
// installation never confuses vault material across identities.
type BoltVaultCache struct {
	db *bolt.DB
}

// OpenBoltVaultCache opens (or creates) the cache file and its bucket.
func OpenBoltVaultCache(path string) (*BoltVaultCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open vault cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(vaultBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create vault cache bucket: %w", err)
	}

	return &BoltVaultCache{db: db}, nil
}

// Close closes the cache file.
func (c *BoltVaultCache) Close() error {
	return c.db.Close()
}

// Get retrieves a cached vault record. Returns ErrNotFound on a cache miss.
func (c *BoltVaultCache) Get(userID uuid.UUID) (*vaultDomain.VaultRecord, error) {
	var raw []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(vaultBucket).Get(cacheKey(userID)); value != nil {
			raw = make([]byte, len(value))
			copy(raw, value)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read vault cache")
	}
	if raw == nil {
		return nil, apperrors.ErrNotFound
	}

	var cached cachedRecord
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode cached vault record")
	}

	validator, err := cryptoDomain.ParseEnvelope(cached.Validator)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse cached validator")
	}

	return &vaultDomain.VaultRecord{
		UserID:    cached.UserID,
		Salt:      cached.Salt,
		Validator: validator,
		CreatedAt: cached.CreatedAt,
		UpdatedAt: cached.UpdatedAt,
	}, nil
}

// Set stores a vault record in the cache, replacing any previous entry.
func (c *BoltVaultCache) Set(record *vaultDomain.VaultRecord) error {
	raw, err := json.Marshal(cachedRecord{
		UserID:    record.UserID,
		Salt:      record.Salt,
		Validator: record.Validator.String(),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode vault record")
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(vaultBucket).Put(cacheKey(record.UserID), raw)
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to write vault cache")
	}
	return nil
}

// Remove deletes a cached vault record. Removing an absent key is a no-op.
func (c *BoltVaultCache) Remove(userID uuid.UUID) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(vaultBucket).Delete(cacheKey(userID))
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to delete from vault cache")
	}
	return nil
}

func cacheKey(userID uuid.UUID) []byte {
	return []byte("vault_" + userID.String())
}
