package dto

import (
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// VaultStatusResponse reports the observable vault state.
type VaultStatusResponse struct {
	Status vaultDomain.Status `json:"status"`
}
