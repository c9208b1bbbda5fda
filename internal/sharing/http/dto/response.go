package dto

import (
	"github.com/google/uuid"

	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
)

// CreateShareResponse carries the share ID and the one-time link.
type CreateShareResponse struct {
	ShareID uuid.UUID `json:"share_id"`
	Link    string    `json:"link"`
}

// SharePreviewResponse is the decrypted preview returned by resolve.
type SharePreviewResponse struct {
	ShareID  uuid.UUID `json:"share_id"`
	Site     string    `json:"site"`
	Username string    `json:"username"`
	Password string    `json:"password"`
	Color    string    `json:"color"`
	Logo     string    `json:"logo,omitempty"`
}

// NewSharePreviewResponse maps a domain preview to its response shape.
func NewSharePreviewResponse(preview *sharingDomain.SharePreview) SharePreviewResponse {
	return SharePreviewResponse{
		ShareID:  preview.ShareID,
		Site:     preview.Site,
		Username: preview.Username,
		Password: preview.Password,
		Color:    preview.Color,
		Logo:     preview.Logo,
	}
}

// ListSharesResponse wraps the owned-share listing.
type ListSharesResponse struct {
	Shares []*sharingDomain.OwnedShare `json:"shares"`
}
