// Package repository implements share persistence for PostgreSQL and MySQL.
// The shared_to set and recipient_metadata map are stored as JSON columns and
// mutated with single-statement server-side merges, so concurrent accepts
// never lose updates to a read-modify-write race.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
)

// PostgreSQLShareRepository implements Share persistence for PostgreSQL.
type PostgreSQLShareRepository struct {
	db *sql.DB
}

// NewPostgreSQLShareRepository creates a PostgreSQL-backed share repository.
func NewPostgreSQLShareRepository(db *sql.DB) *PostgreSQLShareRepository {
	return &PostgreSQLShareRepository{db: db}
}

// Create inserts a new share record.
func (p *PostgreSQLShareRepository) Create(ctx context.Context, share *sharingDomain.Share) error {
	querier := database.GetTx(ctx, p.db)

	sharedTo, metadata, err := marshalRecipients(share)
	if err != nil {
		return err
	}

	query := `INSERT INTO shares
			  (id, credential_id, owner_id, shared_to, recipient_metadata, encrypted_data, salt, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		share.ID,
		share.CredentialID,
		share.OwnerID,
		sharedTo,
		metadata,
		share.EncryptedData.String(),
		share.Salt,
		share.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create share")
	}
	return nil
}

// GetByID retrieves a share by its ID.
func (p *PostgreSQLShareRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*sharingDomain.Share, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, credential_id, owner_id, shared_to, recipient_metadata, encrypted_data, salt, created_at
			  FROM shares
			  WHERE id = $1`

	share, err := scanShare(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharingDomain.ErrShareNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get share")
	}
	return share, nil
}

// GetByCredentialAndOwner retrieves the share for one credential, if any.
// At most one share exists per (credential, owner).
func (p *PostgreSQLShareRepository) GetByCredentialAndOwner(
	ctx context.Context,
	credentialID uuid.UUID,
	ownerID uuid.UUID,
) (*sharingDomain.Share, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, credential_id, owner_id, shared_to, recipient_metadata, encrypted_data, salt, created_at
			  FROM shares
			  WHERE credential_id = $1 AND owner_id = $2`

	share, err := scanShare(querier.QueryRowContext(ctx, query, credentialID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharingDomain.ErrShareNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get share by credential and owner")
	}
	return share, nil
}

// RefreshLink replaces the link key material and restarts the acceptance
// window. Accepted recipients are untouched.
func (p *PostgreSQLShareRepository) RefreshLink(
	ctx context.Context,
	share *sharingDomain.Share,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE shares
			  SET encrypted_data = $1, salt = $2, created_at = $3
			  WHERE id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		share.EncryptedData.String(),
		share.Salt,
		share.CreatedAt,
		share.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to refresh share link")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return sharingDomain.ErrShareNotFound
	}
	return nil
}

// AddRecipient merges a recipient into shared_to and recipient_metadata in a
// single statement. Idempotent: a recipient already in shared_to is not
// appended again, and their metadata entry is overwritten (re-key).
func (p *PostgreSQLShareRepository) AddRecipient(
	ctx context.Context,
	shareID uuid.UUID,
	userID uuid.UUID,
	wrappedKey cryptoDomain.Envelope,
) error {
	querier := database.GetTx(ctx, p.db)

	userJSON, err := json.Marshal([]string{userID.String()})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode recipient")
	}

	query := `UPDATE shares
			  SET shared_to = CASE
					  WHEN shared_to @> $1::jsonb THEN shared_to
					  ELSE shared_to || $1::jsonb
				  END,
				  recipient_metadata = jsonb_set(recipient_metadata, ARRAY[$2], to_jsonb($3::text))
			  WHERE id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(userJSON),
		userID.String(),
		wrappedKey.String(),
		shareID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to add share recipient")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return sharingDomain.ErrShareNotFound
	}
	return nil
}

// ListOwned lists an owner's shares joined with credential display fields.
func (p *PostgreSQLShareRepository) ListOwned(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.OwnedShare, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT s.id, s.credential_id, c.site, c.username, s.shared_to, s.created_at
			  FROM shares s
			  JOIN credentials c ON c.id = s.credential_id
			  WHERE s.owner_id = $1
			  ORDER BY s.created_at DESC`

	rows, err := querier.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list owned shares")
	}
	defer rows.Close()

	var shares []*sharingDomain.OwnedShare
	for rows.Next() {
		var owned sharingDomain.OwnedShare
		var sharedTo []byte
		err := rows.Scan(
			&owned.ID,
			&owned.CredentialID,
			&owned.Site,
			&owned.Username,
			&sharedTo,
			&owned.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan owned share")
		}
		owned.SharedTo, err = unmarshalSharedTo(sharedTo)
		if err != nil {
			return nil, err
		}
		shares = append(shares, &owned)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate owned shares")
	}
	return shares, nil
}

// ListForRecipient lists shares whose shared_to set contains the user.
func (p *PostgreSQLShareRepository) ListForRecipient(
	ctx context.Context,
	userID uuid.UUID,
) ([]*sharingDomain.Share, error) {
	querier := database.GetTx(ctx, p.db)

	userJSON, err := json.Marshal([]string{userID.String()})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode recipient")
	}

	query := `SELECT id, credential_id, owner_id, shared_to, recipient_metadata, encrypted_data, salt, created_at
			  FROM shares
			  WHERE shared_to @> $1::jsonb`

	rows, err := querier.QueryContext(ctx, query, string(userJSON))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shares for recipient")
	}
	defer rows.Close()

	var shares []*sharingDomain.Share
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan share")
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate shares")
	}
	return shares, nil
}

// Delete removes a share record. Recipient access vanishes with the row.
func (p *PostgreSQLShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM shares WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete share")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return sharingDomain.ErrShareNotFound
	}
	return nil
}
