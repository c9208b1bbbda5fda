// Package repository implements credential persistence for PostgreSQL and
// MySQL databases.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
)

// PostgreSQLCredentialRepository implements Credential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// NewPostgreSQLCredentialRepository creates a PostgreSQL-backed credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

// Create inserts a new credential. The unique index on (owner_id, site,
// username) backs the application-level duplicate check under concurrency.
func (p *PostgreSQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialsDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credentials
			  (id, owner_id, site, username, password, item_key_blob, color, logo, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

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
		if isPostgreSQLUniqueViolation(err) {
			return credentialsDomain.ErrDuplicateCredential
		}
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// GetByID retrieves a credential by its ID.
func (p *PostgreSQLCredentialRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*credentialsDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, site, username, password, item_key_blob, color, logo, created_at, updated_at
			  FROM credentials
			  WHERE id = $1`

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
func (p *PostgreSQLCredentialRepository) GetByOwnerSiteUsername(
	ctx context.Context,
	ownerID uuid.UUID,
	site string,
	username string,
) (*credentialsDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, site, username, password, item_key_blob, color, logo, created_at, updated_at
			  FROM credentials
			  WHERE owner_id = $1 AND site = $2 AND username = $3`

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
func (p *PostgreSQLCredentialRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*credentialsDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, site, username, password, item_key_blob, color, logo, created_at, updated_at
			  FROM credentials
			  WHERE owner_id = $1
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
func (p *PostgreSQLCredentialRepository) Update(
	ctx context.Context,
	credential *credentialsDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credentials
			  SET site = $1, username = $2, password = $3, item_key_blob = $4,
				  color = $5, logo = $6, updated_at = $7
			  WHERE id = $8`

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
		if isPostgreSQLUniqueViolation(err) {
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
func (p *PostgreSQLCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM credentials WHERE id = $1`

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

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCredential scans one credential row, parsing the envelope columns.
func scanCredential(row rowScanner) (*credentialsDomain.Credential, error) {
	var credential credentialsDomain.Credential
	var password string
	var itemKeyBlob sql.NullString

	err := row.Scan(
		&credential.ID,
		&credential.OwnerID,
		&credential.Site,
		&credential.Username,
		&password,
		&itemKeyBlob,
		&credential.Color,
		&credential.Logo,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	credential.Password, err = cryptoDomain.ParseEnvelope(password)
	if err != nil {
		return nil, err
	}
	if itemKeyBlob.Valid {
		blob, err := cryptoDomain.ParseEnvelope(itemKeyBlob.String)
		if err != nil {
			return nil, err
		}
		credential.ItemKeyBlob = &blob
	}
	return &credential, nil
}

// itemKeyBlobValue maps a nil blob to SQL NULL for legacy records.
func itemKeyBlobValue(credential *credentialsDomain.Credential) any {
	if credential.ItemKeyBlob == nil {
		return nil
	}
	return credential.ItemKeyBlob.String()
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: `duplicate key value violates unique constraint` (SQLSTATE 23505)
	return strings.Contains(errMsg, "duplicate key value") || strings.Contains(errMsg, "23505")
}
