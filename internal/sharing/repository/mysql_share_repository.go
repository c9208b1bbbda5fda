package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
)

// MySQLShareRepository implements Share persistence for MySQL.
type MySQLShareRepository struct {
	db *sql.DB
}

// NewMySQLShareRepository creates a MySQL-backed share repository.
func NewMySQLShareRepository(db *sql.DB) *MySQLShareRepository {
	return &MySQLShareRepository{db: db}
}

// Create inserts a new share record.
func (m *MySQLShareRepository) Create(ctx context.Context, share *sharingDomain.Share) error {
	querier := database.GetTx(ctx, m.db)

	sharedTo, metadata, err := marshalRecipients(share)
	if err != nil {
		return err
	}

	query := `INSERT INTO shares
			  (id, credential_id, owner_id, shared_to, recipient_metadata, encrypted_data, salt, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

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
func (m *MySQLShareRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*sharingDomain.Share, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, credential_id, owner_id, shared_to, recipient_metadata, encrypted_data, salt, created_at
			  FROM shares
			  WHERE id = ?`

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
func (m *MySQLShareRepository) GetByCredentialAndOwner(
	ctx context.Context,
	credentialID uuid.UUID,
	ownerID uuid.UUID,
) (*sharingDomain.Share, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, credential_id, owner_id, shared_to, recipient_metadata, encrypted_data, salt, created_at
			  FROM shares
			  WHERE credential_id = ? AND owner_id = ?`

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
func (m *MySQLShareRepository) RefreshLink(ctx context.Context, share *sharingDomain.Share) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE shares
			  SET encrypted_data = ?, salt = ?, created_at = ?
			  WHERE id = ?`

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
// single statement, mirroring the PostgreSQL merge semantics.
func (m *MySQLShareRepository) AddRecipient(
	ctx context.Context,
	shareID uuid.UUID,
	userID uuid.UUID,
	wrappedKey cryptoDomain.Envelope,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE shares
			  SET shared_to = IF(
					  JSON_CONTAINS(shared_to, JSON_QUOTE(?)),
					  shared_to,
					  JSON_ARRAY_APPEND(shared_to, '$', ?)
				  ),
				  recipient_metadata = JSON_SET(recipient_metadata, ?, ?)
			  WHERE id = ?`

	metadataPath := fmt.Sprintf(`$."%s"`, userID.String())
	result, err := querier.ExecContext(
		ctx,
		query,
		userID.String(),
		userID.String(),
		metadataPath,
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
func (m *MySQLShareRepository) ListOwned(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.OwnedShare, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT s.id, s.credential_id, c.site, c.username, s.shared_to, s.created_at
			  FROM shares s
			  JOIN credentials c ON c.id = s.credential_id
			  WHERE s.owner_id = ?
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
func (m *MySQLShareRepository) ListForRecipient(
	ctx context.Context,
	userID uuid.UUID,
) ([]*sharingDomain.Share, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, credential_id, owner_id, shared_to, recipient_metadata, encrypted_data, salt, created_at
			  FROM shares
			  WHERE JSON_CONTAINS(shared_to, JSON_QUOTE(?))`

	rows, err := querier.QueryContext(ctx, query, userID.String())
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
func (m *MySQLShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM shares WHERE id = ?`

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
