// Package dto defines request and response payloads for identity endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/credvault/credvault/internal/validation"
)

// RegisterUserRequest is the payload for POST /v1/users.
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the request fields.
func (r RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
}

// IssueTokenRequest is the payload for POST /v1/token.
type IssueTokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the request fields.
func (r IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
}
