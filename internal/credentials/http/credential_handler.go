// Package http provides HTTP handlers for credential operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/credvault/credvault/internal/audit/domain"
	auditUseCase "github.com/credvault/credvault/internal/audit/usecase"
	"github.com/credvault/credvault/internal/credentials/http/dto"
	credentialUseCase "github.com/credvault/credvault/internal/credentials/usecase"
	apperrors "github.com/credvault/credvault/internal/errors"
	"github.com/credvault/credvault/internal/httputil"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	appValidation "github.com/credvault/credvault/internal/validation"
)

// CredentialHandler handles HTTP requests for credential operations.
type CredentialHandler struct {
	credentialUseCase credentialUseCase.CredentialUseCase
	audit             auditUseCase.AuditLogUseCase
	logger            *slog.Logger
}

// NewCredentialHandler creates a new credential handler.
func NewCredentialHandler(
	useCase credentialUseCase.CredentialUseCase,
	audit auditUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *CredentialHandler {
	return &CredentialHandler{
		credentialUseCase: useCase,
		audit:             audit,
		logger:            logger,
	}
}

func (h *CredentialHandler) currentUser(c *gin.Context) (uuid.UUID, bool) {
	user, ok := identityHTTP.GetUser(c.Request.Context())
	if !ok || user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return user.ID, true
}

func (h *CredentialHandler) recordAudit(
	c *gin.Context,
	userID uuid.UUID,
	operation auditDomain.Operation,
	credentialID uuid.UUID,
) {
	metadata := map[string]any{"credential_id": credentialID.String()}
	if err := h.audit.Record(c.Request.Context(), userID, operation, metadata); err != nil {
		h.logger.Warn("failed to record audit log",
			slog.String("operation", string(operation)),
			slog.Any("error", err))
	}
}

// pathID parses the :id path parameter, or writes a 422.
func (h *CredentialHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "id must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// SaveHandler encrypts and stores a new credential.
// POST /v1/credentials - requires an unlocked vault.
func (h *CredentialHandler) SaveHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.SaveCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, appValidation.WrapValidationError(err), h.logger)
		return
	}

	credential, err := h.credentialUseCase.Save(c.Request.Context(), userID, credentialUseCase.SaveInput{
		Site:     req.Site,
		Username: req.Username,
		Password: req.Password,
		Color:    req.Color,
		Logo:     req.Logo,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationCredentialSave, credential.ID)
	httputil.Success(c, http.StatusCreated, dto.NewCredentialResponse(credential))
}

// ListHandler returns the caller's decrypted credentials, own and shared.
// GET /v1/credentials - requires an unlocked vault.
func (h *CredentialHandler) ListHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	credentials, err := h.credentialUseCase.ListDecrypted(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, http.StatusOK, dto.ListCredentialsResponse{Credentials: credentials})
}

// UpdateHandler re-encrypts changed fields of an owned credential.
// PUT /v1/credentials/:id - requires an unlocked vault.
func (h *CredentialHandler) UpdateHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, appValidation.WrapValidationError(err), h.logger)
		return
	}
	if req.Site == nil && req.Username == nil && req.Password == nil &&
		req.Color == nil && req.Logo == nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("at least one field must be provided"), h.logger)
		return
	}

	credential, err := h.credentialUseCase.Update(c.Request.Context(), userID, id, credentialUseCase.UpdateInput{
		Site:     req.Site,
		Username: req.Username,
		Password: req.Password,
		Color:    req.Color,
		Logo:     req.Logo,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationCredentialUpdate, credential.ID)
	httputil.Success(c, http.StatusOK, dto.NewCredentialResponse(credential))
}

// DeleteHandler removes an owned credential. Works on a locked vault.
// DELETE /v1/credentials/:id
func (h *CredentialHandler) DeleteHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.credentialUseCase.Delete(c.Request.Context(), userID, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationCredentialDelete, id)
	httputil.Success(c, http.StatusOK, gin.H{"deleted": true})
}
