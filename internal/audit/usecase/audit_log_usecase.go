// Package usecase implements the audit log business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/credvault/credvault/internal/audit/domain"
	apperrors "github.com/credvault/credvault/internal/errors"
)

// AuditLogRepository defines audit log persistence operations.
type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *auditDomain.AuditLog) error
	ListByUser(
		ctx context.Context,
		userID uuid.UUID,
		offset, limit int,
	) ([]*auditDomain.AuditLog, error)
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditLogUseCase records and lists security-relevant operations.
type AuditLogUseCase interface {
	Record(
		ctx context.Context,
		userID uuid.UUID,
		operation auditDomain.Operation,
		metadata map[string]any,
	) error
	ListByUser(
		ctx context.Context,
		userID uuid.UUID,
		offset, limit int,
	) ([]*auditDomain.AuditLog, error)
	Cleanup(ctx context.Context, days int, dryRun bool) (int64, error)
}

type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
}

// NewAuditLogUseCase creates a new AuditLogUseCase.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository) AuditLogUseCase {
	return &auditLogUseCase{auditLogRepo: auditLogRepo}
}

// Record persists an audit log entry for an operation. The metadata parameter
// is optional and can be nil; it must never carry plaintext secrets.
func (a *auditLogUseCase) Record(
	ctx context.Context,
	userID uuid.UUID,
	operation auditDomain.Operation,
	metadata map[string]any,
) error {
	auditLog := &auditDomain.AuditLog{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Operation: operation,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to record audit log")
	}
	return nil
}

// ListByUser retrieves a user's audit logs, newest first, with pagination.
func (a *auditLogUseCase) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*auditDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	return auditLogs, nil
}

// Cleanup deletes audit logs older than the given number of days. In dry-run
// mode it only counts the rows that would be deleted.
func (a *auditLogUseCase) Cleanup(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must not be negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	if dryRun {
		count, err := a.auditLogRepo.CountOlderThan(ctx, cutoff)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit logs")
		}
		return count, nil
	}

	count, err := a.auditLogRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}
	return count, nil
}
