package dto

import (
	"time"

	"github.com/google/uuid"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
)

// CredentialResponse is the ciphertext-free summary of a stored credential.
type CredentialResponse struct {
	ID        uuid.UUID `json:"id"`
	Site      string    `json:"site"`
	Username  string    `json:"username"`
	Color     string    `json:"color"`
	Logo      string    `json:"logo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCredentialResponse maps a stored credential to its response shape.
// Ciphertext and key material never leave the service.
func NewCredentialResponse(credential *credentialsDomain.Credential) CredentialResponse {
	return CredentialResponse{
		ID:        credential.ID,
		Site:      credential.Site,
		Username:  credential.Username,
		Color:     credential.Color,
		Logo:      credential.Logo,
		CreatedAt: credential.CreatedAt,
		UpdatedAt: credential.UpdatedAt,
	}
}

// ListCredentialsResponse wraps the decrypted listing.
type ListCredentialsResponse struct {
	Credentials []*credentialsDomain.DecryptedCredential `json:"credentials"`
}
