// Package http provides HTTP handlers for vault lifecycle operations.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/credvault/credvault/internal/audit/domain"
	auditUseCase "github.com/credvault/credvault/internal/audit/usecase"
	apperrors "github.com/credvault/credvault/internal/errors"
	"github.com/credvault/credvault/internal/httputil"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
	"github.com/credvault/credvault/internal/vault/http/dto"
	vaultUseCase "github.com/credvault/credvault/internal/vault/usecase"
	appValidation "github.com/credvault/credvault/internal/validation"
)

// VaultHandler handles HTTP requests for the vault lifecycle.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	audit        auditUseCase.AuditLogUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler.
func NewVaultHandler(
	useCase vaultUseCase.VaultUseCase,
	audit auditUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: useCase,
		audit:        audit,
		logger:       logger,
	}
}

// currentUser extracts the authenticated user ID, or writes a 401.
func (h *VaultHandler) currentUser(c *gin.Context) (uuid.UUID, bool) {
	user, ok := identityHTTP.GetUser(c.Request.Context())
	if !ok || user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return user.ID, true
}

// recordAudit persists an audit entry; failures are logged, never surfaced.
func (h *VaultHandler) recordAudit(
	c *gin.Context,
	userID uuid.UUID,
	operation auditDomain.Operation,
	metadata map[string]any,
) {
	if err := h.audit.Record(c.Request.Context(), userID, operation, metadata); err != nil {
		h.logger.Warn("failed to record audit log",
			slog.String("operation", string(operation)),
			slog.Any("error", err))
	}
}

// StatusHandler reports the vault state.
// GET /v1/vault
func (h *VaultHandler) StatusHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	status, err := h.vaultUseCase.Status(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, http.StatusOK, dto.VaultStatusResponse{Status: status})
}

// SetupHandler creates a vault and leaves it unlocked.
// POST /v1/vault
func (h *VaultHandler) SetupHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.SetupVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, appValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.vaultUseCase.Setup(c.Request.Context(), userID, req.Pin); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationVaultSetup, nil)
	httputil.Success(c, http.StatusCreated, dto.VaultStatusResponse{Status: vaultDomain.StatusUnlocked})
}

// UnlockHandler verifies the pin and holds the master key in memory.
// POST /v1/vault/unlock
func (h *VaultHandler) UnlockHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.UnlockVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, appValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.vaultUseCase.Unlock(c.Request.Context(), userID, req.Pin); err != nil {
		if errors.Is(err, vaultDomain.ErrIncorrectPassword) {
			h.recordAudit(c, userID, auditDomain.OperationVaultUnlockFailure, nil)
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationVaultUnlockSuccess, nil)
	httputil.Success(c, http.StatusOK, dto.VaultStatusResponse{Status: vaultDomain.StatusUnlocked})
}

// LockHandler discards the in-memory key material. Idempotent.
// POST /v1/vault/lock
func (h *VaultHandler) LockHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.vaultUseCase.Lock(c.Request.Context(), userID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationVaultLock, nil)
	httputil.Success(c, http.StatusOK, dto.VaultStatusResponse{Status: vaultDomain.StatusLocked})
}

// ChangePasswordHandler re-keys the vault under a new pin.
// POST /v1/vault/password
func (h *VaultHandler) ChangePasswordHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, appValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.vaultUseCase.ChangePassword(c.Request.Context(), userID, req.CurrentPin, req.NewPin)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationVaultPasswordChange, nil)
	httputil.Success(c, http.StatusOK, dto.VaultStatusResponse{Status: vaultDomain.StatusUnlocked})
}
