// Package dto defines request and response payloads for credential endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/credvault/credvault/internal/validation"
)

// SaveCredentialRequest is the payload for POST /v1/credentials.
type SaveCredentialRequest struct {
	Site     string `json:"site"`
	Username string `json:"username"`
	Password string `json:"password"`
	Color    string `json:"color"`
	Logo     string `json:"logo"`
}

// Validate checks the request fields.
func (r SaveCredentialRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Site,
			validation.Required.Error("site is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("site must be between 1 and 255 characters"),
		),
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("username must be between 1 and 255 characters"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
}

// UpdateCredentialRequest is the payload for PUT /v1/credentials/:id.
// Nil fields are left unchanged.
type UpdateCredentialRequest struct {
	Site     *string `json:"site"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Color    *string `json:"color"`
	Logo     *string `json:"logo"`
}

// Validate checks the request fields.
func (r UpdateCredentialRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Site,
			validation.NilOrNotEmpty.Error("site must not be empty"),
		),
		validation.Field(&r.Username,
			validation.NilOrNotEmpty.Error("username must not be empty"),
		),
		validation.Field(&r.Password,
			validation.NilOrNotEmpty.Error("password must not be empty"),
		),
	)
}
