package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
)

// MySQLCredentialRepository implements Credential persistence for MySQL.
type MySQLCredentialRepository struct {
	db *sql.DB
}

// NewMySQLCredentialRepository creates a MySQL-backed credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

// Create inserts a new credential.
func (m *MySQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialsDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO credentials
			  (id, owner_id, site, username, password, item_key_blob, color, logo, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.OwnerID,
		credential.Site,
		credential.Username,
		credential.Password.String(),
		itemKeyBlobValue(credential),
		credential.Color,
		credential.Logo,
		credential.CreatedAt,
		credential.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return credentialsDomain.ErrDuplicateCredential
		}
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// GetByID retrieves a credential by its ID.
func (m *MySQLCredentialRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*credentialsDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, site, username, password, item_key_blob, color, logo, created_at, updated_at
			  FROM credentials
			  WHERE id = ?`

	credential, err := scanCredential(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialsDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}
	return credential, nil
}

// GetByOwnerSiteUsername retrieves a credential by its uniqueness key.
func (m *MySQLCredentialRepository) GetByOwnerSiteUsername(
	ctx context.Context,
	ownerID uuid.UUID,
	site string,
	username string,
) (*credentialsDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, site, username, password, item_key_blob, color, logo, created_at, updated_at
			  FROM credentials
			  WHERE owner_id = ? AND site = ? AND username = ?`

	credential, err := scanCredential(querier.QueryRowContext(ctx, query, ownerID, site, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialsDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential by owner, site and username")
	}
	return credential, nil
}

// ListByOwner retrieves all credentials owned by a user, newest first.
func (m *MySQLCredentialRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*credentialsDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, site, username, password, item_key_blob, color, logo, created_at, updated_at
			  FROM credentials
			  WHERE owner_id = ?
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	var credentials []*credentialsDomain.Credential
	for rows.Next() {
		credential, err := scanCredential(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential")
		}
		credentials = append(credentials, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}
	return credentials, nil
}

// Update persists the mutable fields of a credential.
func (m *MySQLCredentialRepository) Update(
	ctx context.Context,
	credential *credentialsDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE credentials
			  SET site = ?, username = ?, password = ?, item_key_blob = ?,
				  color = ?, logo = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		credential.Site,
		credential.Username,
		credential.Password.String(),
		itemKeyBlobValue(credential),
		credential.Color,
		credential.Logo,
		credential.UpdatedAt,
		credential.ID,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return credentialsDomain.ErrDuplicateCredential
		}
		return apperrors.Wrap(err, "failed to update credential")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return credentialsDomain.ErrCredentialNotFound
	}
	return nil
}

// Delete removes a credential.
func (m *MySQLCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM credentials WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return credentialsDomain.ErrCredentialNotFound
	}
	return nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
