// Package domain defines the sharing domain model: the time-boxed share
// record and its per-recipient key material.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

// LinkValidity is how long a share link stays acceptable after creation.
// Recipients who accept in time keep access after the link itself expires.
const LinkValidity = 10 * time.Minute

// Share is a record granting other users access to one credential's item key.
// EncryptedData is the item key wrapped under the one-time link key; each
// RecipientKeys entry is the same item key re-wrapped under that recipient's
// own master key, added when the recipient accepts.
type Share struct {
	ID           uuid.UUID
	CredentialID uuid.UUID
	OwnerID      uuid.UUID
	// SharedTo lists users who have accepted the share.
	SharedTo []uuid.UUID
	// RecipientKeys maps an accepting user's ID to the item key wrapped
	// under that user's master key.
	RecipientKeys map[uuid.UUID]cryptoDomain.Envelope
	// EncryptedData is the item key wrapped under the link key derived from
	// the link password and Salt.
	EncryptedData cryptoDomain.Envelope
	// Salt is the KDF salt for the link key.
	Salt      []byte
	CreatedAt time.Time
}

// Expired reports whether the link's acceptance window has passed at now.
// Accepted recipients are unaffected; only link-based resolution stops working.
func (s *Share) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > LinkValidity
}

// RecipientKey returns the wrapped item key for a recipient, if they accepted.
func (s *Share) RecipientKey(userID uuid.UUID) (cryptoDomain.Envelope, bool) {
	envelope, ok := s.RecipientKeys[userID]
	return envelope, ok
}

// SharePreview is what a link viewer sees before accepting: the decrypted
// credential fields for the confirmation prompt.
type SharePreview struct {
	ShareID  uuid.UUID `json:"share_id"`
	Site     string    `json:"site"`
	Username string    `json:"username"`
	Password string    `json:"password"`
	Color    string    `json:"color"`
	Logo     string    `json:"logo"`
}

// OwnedShare is a listing entry for the owner's share-management view,
// joining the share with its credential's display fields.
type OwnedShare struct {
	ID           uuid.UUID   `json:"id"`
	CredentialID uuid.UUID   `json:"credential_id"`
	Site         string      `json:"site"`
	Username     string      `json:"username"`
	SharedTo     []uuid.UUID `json:"shared_to"`
	CreatedAt    time.Time   `json:"created_at"`
}
