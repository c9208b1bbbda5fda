// Package http provides the HTTP handler for audit log listing.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/credvault/credvault/internal/audit/domain"
	auditUseCase "github.com/credvault/credvault/internal/audit/usecase"
	apperrors "github.com/credvault/credvault/internal/errors"
	"github.com/credvault/credvault/internal/httputil"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
)

// AuditLogHandler handles HTTP requests for audit log listing.
type AuditLogHandler struct {
	auditUseCase auditUseCase.AuditLogUseCase
	logger       *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler.
func NewAuditLogHandler(useCase auditUseCase.AuditLogUseCase, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditUseCase: useCase,
		logger:       logger,
	}
}

// AuditLogEntry is the response representation of an audit log entry.
type AuditLogEntry struct {
	ID        uuid.UUID             `json:"id"`
	Operation auditDomain.Operation `json:"operation"`
	Metadata  map[string]any        `json:"metadata,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// ListAuditLogsResponse wraps the audit log listing.
type ListAuditLogsResponse struct {
	AuditLogs []AuditLogEntry `json:"audit_logs"`
}

// ListHandler lists the caller's audit logs, newest first.
// GET /v1/audit-logs
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	user, ok := identityHTTP.GetUser(c.Request.Context())
	if !ok || user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	entries, err := h.auditUseCase.ListByUser(c.Request.Context(), user.ID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := ListAuditLogsResponse{AuditLogs: make([]AuditLogEntry, 0, len(entries))}
	for _, entry := range entries {
		response.AuditLogs = append(response.AuditLogs, AuditLogEntry{
			ID:        entry.ID,
			Operation: entry.Operation,
			Metadata:  entry.Metadata,
			CreatedAt: entry.CreatedAt,
		})
	}

	httputil.Success(c, http.StatusOK, response)
}
