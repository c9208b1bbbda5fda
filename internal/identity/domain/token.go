package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a bearer token record. Only the SHA-256 hash of the token is
// stored; the plain token is returned once at issue time.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
