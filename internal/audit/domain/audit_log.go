// Package domain defines the audit log entities for security-relevant operations.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Operation identifies a security-relevant action recorded in the audit log.
type Operation string

// Recorded operations.
const (
	OperationVaultSetup          Operation = "vault_setup"
	OperationVaultUnlockSuccess  Operation = "vault_unlock_success"
	OperationVaultUnlockFailure  Operation = "vault_unlock_failure"
	OperationVaultLock           Operation = "vault_lock"
	OperationVaultPasswordChange Operation = "vault_password_change"
	OperationCredentialSave      Operation = "credential_save"
	OperationCredentialUpdate    Operation = "credential_update"
	OperationCredentialDelete    Operation = "credential_delete"
	OperationShareCreate         Operation = "share_create"
	OperationShareAccept         Operation = "share_accept"
	OperationShareRevoke         Operation = "share_revoke"
)

// AuditLog records a security-relevant operation performed by a user.
// Metadata never contains plaintext secrets or key material.
type AuditLog struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Operation Operation
	Metadata  map[string]any
	CreatedAt time.Time
}
