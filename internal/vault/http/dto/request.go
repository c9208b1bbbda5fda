// Package dto defines request and response payloads for vault endpoints.
package dto

import (
	validation "github.com/jellydator/validation"
)

// SetupVaultRequest is the payload for POST /v1/vault.
type SetupVaultRequest struct {
	Pin string `json:"pin"`
}

// Validate checks the request fields.
func (r SetupVaultRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Pin,
			validation.Required.Error("pin is required"),
			validation.Length(4, 128).Error("pin must be between 4 and 128 characters"),
		),
	)
}

// UnlockVaultRequest is the payload for POST /v1/vault/unlock.
type UnlockVaultRequest struct {
	Pin string `json:"pin"`
}

// Validate checks the request fields.
func (r UnlockVaultRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Pin,
			validation.Required.Error("pin is required"),
		),
	)
}

// ChangePasswordRequest is the payload for POST /v1/vault/password.
type ChangePasswordRequest struct {
	CurrentPin string `json:"current_pin"`
	NewPin     string `json:"new_pin"`
}

// Validate checks the request fields.
func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPin,
			validation.Required.Error("current_pin is required"),
		),
		validation.Field(&r.NewPin,
			validation.Required.Error("new_pin is required"),
			validation.Length(4, 128).Error("new_pin must be between 4 and 128 characters"),
		),
	)
}
