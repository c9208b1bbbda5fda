package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/metrics"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
)

// shareUseCaseWithMetrics decorates ShareUseCase with metrics instrumentation.
type shareUseCaseWithMetrics struct {
	next    ShareUseCase
	metrics metrics.BusinessMetrics
}

// NewShareUseCaseWithMetrics wraps a ShareUseCase with metrics recording.
func NewShareUseCaseWithMetrics(useCase ShareUseCase, m metrics.BusinessMetrics) ShareUseCase {
	return &shareUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for share creation operations.
func (s *shareUseCaseWithMetrics) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	credentialID uuid.UUID,
) (*CreatedShare, error) {
	start := time.Now()
	created, err := s.next.Create(ctx, ownerID, credentialID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "sharing", "share_create", status)
	s.metrics.RecordDuration(ctx, "sharing", "share_create", time.Since(start), status)

	return created, err
}

// Resolve records metrics for share resolution operations.
func (s *shareUseCaseWithMetrics) Resolve(
	ctx context.Context,
	viewerID uuid.UUID,
	shareID uuid.UUID,
	linkPassword string,
) (*sharingDomain.SharePreview, error) {
	start := time.Now()
	preview, err := s.next.Resolve(ctx, viewerID, shareID, linkPassword)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "sharing", "share_resolve", status)
	s.metrics.RecordDuration(ctx, "sharing", "share_resolve", time.Since(start), status)

	return preview, err
}

// Accept records metrics for share acceptance operations.
func (s *shareUseCaseWithMetrics) Accept(ctx context.Context, userID uuid.UUID, shareID uuid.UUID) error {
	start := time.Now()
	err := s.next.Accept(ctx, userID, shareID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "sharing", "share_accept", status)
	s.metrics.RecordDuration(ctx, "sharing", "share_accept", time.Since(start), status)

	return err
}

// Revoke records metrics for share revocation operations.
func (s *shareUseCaseWithMetrics) Revoke(ctx context.Context, userID uuid.UUID, shareID uuid.UUID) error {
	start := time.Now()
	err := s.next.Revoke(ctx, userID, shareID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "sharing", "share_revoke", status)
	s.metrics.RecordDuration(ctx, "sharing", "share_revoke", time.Since(start), status)

	return err
}

// ListOwned records metrics for share listing operations.
func (s *shareUseCaseWithMetrics) ListOwned(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.OwnedShare, error) {
	start := time.Now()
	shares, err := s.next.ListOwned(ctx, ownerID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "sharing", "share_list", status)
	s.metrics.RecordDuration(ctx, "sharing", "share_list", time.Since(start), status)

	return shares, err
}
