// Package domain defines the credential domain model: the stored encrypted
// item and its decrypted listing shape.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

// Credential is a stored login item. The password is encrypted under the
// per-item key referenced by ItemKeyBlob; the plaintext never touches the
// database.
type Credential struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Site     string
	Username string
	// Password is the login password encrypted under the item key, or
	// directly under the master key for legacy records.
	Password cryptoDomain.Envelope
	// ItemKeyBlob is the per-item key wrapped under the owner's master key.
	// A nil blob marks a legacy record that is migrated on first write access.
	ItemKeyBlob *cryptoDomain.Envelope
	Color       string
	Logo        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLegacy reports whether the record predates per-item keys.
func (c *Credential) IsLegacy() bool {
	return c.ItemKeyBlob == nil
}

// DecryptedCredential is a listing entry with the password in plaintext.
// It exists only in memory on its way to the caller.
type DecryptedCredential struct {
	ID       uuid.UUID `json:"id"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Site     string    `json:"site"`
	Username string    `json:"username"`
	Password string    `json:"password"`
	Color    string    `json:"color"`
	Logo     string    `json:"logo"`
	// IsShared is true when the entry comes from an accepted share rather
	// than the caller's own items.
	IsShared bool `json:"is_shared"`
	// ShareID is set only for shared entries.
	ShareID *uuid.UUID `json:"share_id,omitempty"`
}
