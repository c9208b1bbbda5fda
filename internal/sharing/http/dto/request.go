// Package dto defines request and response payloads for sharing endpoints.
package dto

import (
	validation "github.com/jellydator/validation"
)

// CreateShareRequest is the payload for POST /v1/shares.
type CreateShareRequest struct {
	CredentialID string `json:"credential_id"`
}

// Validate checks the request fields. The credential_id format is checked by
// the handler when parsing it into a UUID.
func (r CreateShareRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CredentialID,
			validation.Required.Error("credential_id is required"),
		),
	)
}

// ResolveShareRequest is the payload for POST /v1/shares/:id/resolve.
// Key is the link password from the share URL fragment.
type ResolveShareRequest struct {
	Key string `json:"key"`
}

// Validate checks the request fields.
func (r ResolveShareRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Key,
			validation.Required.Error("key is required"),
		),
	)
}
