// Package http provides HTTP handlers for the sharing protocol.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/credvault/credvault/internal/audit/domain"
	auditUseCase "github.com/credvault/credvault/internal/audit/usecase"
	apperrors "github.com/credvault/credvault/internal/errors"
	"github.com/credvault/credvault/internal/httputil"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	"github.com/credvault/credvault/internal/sharing/http/dto"
	shareUseCase "github.com/credvault/credvault/internal/sharing/usecase"
	appValidation "github.com/credvault/credvault/internal/validation"
)

// ShareHandler handles HTTP requests for the sharing protocol.
type ShareHandler struct {
	shareUseCase shareUseCase.ShareUseCase
	audit        auditUseCase.AuditLogUseCase
	logger       *slog.Logger
}

// NewShareHandler creates a new share handler.
func NewShareHandler(
	useCase shareUseCase.ShareUseCase,
	audit auditUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *ShareHandler {
	return &ShareHandler{
		shareUseCase: useCase,
		audit:        audit,
		logger:       logger,
	}
}

func (h *ShareHandler) currentUser(c *gin.Context) (uuid.UUID, bool) {
	user, ok := identityHTTP.GetUser(c.Request.Context())
	if !ok || user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return user.ID, true
}

func (h *ShareHandler) recordAudit(
	c *gin.Context,
	userID uuid.UUID,
	operation auditDomain.Operation,
	shareID uuid.UUID,
) {
	metadata := map[string]any{"share_id": shareID.String()}
	if err := h.audit.Record(c.Request.Context(), userID, operation, metadata); err != nil {
		h.logger.Warn("failed to record audit log",
			slog.String("operation", string(operation)),
			slog.Any("error", err))
	}
}

func (h *ShareHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "id must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// CreateHandler builds or refreshes a time-boxed share link.
// POST /v1/shares - requires an unlocked vault.
func (h *ShareHandler) CreateHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, appValidation.WrapValidationError(err), h.logger)
		return
	}

	credentialID, err := uuid.Parse(req.CredentialID)
	if err != nil {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("invalid credential_id: %s", req.CredentialID)),
			h.logger)
		return
	}

	created, err := h.shareUseCase.Create(c.Request.Context(), userID, credentialID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationShareCreate, created.ShareID)
	httputil.Success(c, http.StatusCreated, dto.CreateShareResponse{
		ShareID: created.ShareID,
		Link:    created.Link,
	})
}

// ResolveHandler previews a share for a link viewer.
// POST /v1/shares/:id/resolve - authenticated, vault unlock not required.
func (h *ShareHandler) ResolveHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	shareID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req dto.ResolveShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, appValidation.WrapValidationError(err), h.logger)
		return
	}

	preview, err := h.shareUseCase.Resolve(c.Request.Context(), userID, shareID, req.Key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, http.StatusOK, dto.NewSharePreviewResponse(preview))
}

// AcceptHandler grants the caller persistent access to a resolved share.
// POST /v1/shares/:id/accept - requires an unlocked vault.
func (h *ShareHandler) AcceptHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	shareID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.shareUseCase.Accept(c.Request.Context(), userID, shareID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationShareAccept, shareID)
	httputil.Success(c, http.StatusOK, gin.H{"accepted": true})
}

// RevokeHandler deletes an owned share.
// DELETE /v1/shares/:id
func (h *ShareHandler) RevokeHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	shareID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.shareUseCase.Revoke(c.Request.Context(), userID, shareID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, userID, auditDomain.OperationShareRevoke, shareID)
	httputil.Success(c, http.StatusOK, gin.H{"revoked": true})
}

// ListOwnedHandler lists the caller's shares.
// GET /v1/shares
func (h *ShareHandler) ListOwnedHandler(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	shares, err := h.shareUseCase.ListOwned(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, http.StatusOK, dto.ListSharesResponse{Shares: shares})
}
