package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	"github.com/credvault/credvault/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(
	useCase CredentialUseCase,
	m metrics.BusinessMetrics,
) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Save records metrics for credential save operations.
func (c *credentialUseCaseWithMetrics) Save(
	ctx context.Context,
	ownerID uuid.UUID,
	input SaveInput,
) (*credentialsDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Save(ctx, ownerID, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credentials", "credential_save", status)
	c.metrics.RecordDuration(ctx, "credentials", "credential_save", time.Since(start), status)

	return credential, err
}

// Update records metrics for credential update operations.
func (c *credentialUseCaseWithMetrics) Update(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
	input UpdateInput,
) (*credentialsDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Update(ctx, userID, id, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credentials", "credential_update", status)
	c.metrics.RecordDuration(ctx, "credentials", "credential_update", time.Since(start), status)

	return credential, err
}

// Delete records metrics for credential deletion operations.
func (c *credentialUseCaseWithMetrics) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	start := time.Now()
	err := c.next.Delete(ctx, userID, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credentials", "credential_delete", status)
	c.metrics.RecordDuration(ctx, "credentials", "credential_delete", time.Since(start), status)

	return err
}

// ListDecrypted records metrics for decrypted listing operations.
func (c *credentialUseCaseWithMetrics) ListDecrypted(
	ctx context.Context,
	userID uuid.UUID,
) ([]*credentialsDomain.DecryptedCredential, error) {
	start := time.Now()
	items, err := c.next.ListDecrypted(ctx, userID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credentials", "credential_list", status)
	c.metrics.RecordDuration(ctx, "credentials", "credential_list", time.Since(start), status)

	return items, err
}
