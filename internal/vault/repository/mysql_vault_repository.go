package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// MySQLVaultRepository implements VaultRecord persistence for MySQL.
type MySQLVaultRepository struct {
	db *sql.DB
}

// NewMySQLVaultRepository creates a MySQL-backed vault repository.
func NewMySQLVaultRepository(db *sql.DB) *MySQLVaultRepository {
	return &MySQLVaultRepository{db: db}
}

// Get retrieves the vault record for a user.
func (m *MySQLVaultRepository) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*vaultDomain.VaultRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT user_id, salt, validator, created_at, updated_at
			  FROM vault_records
			  WHERE user_id = ?`

	var record vaultDomain.VaultRecord
	var validator string
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&record.UserID,
		&record.Salt,
		&validator,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault record")
	}

	record.Validator, err = cryptoDomain.ParseEnvelope(validator)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse stored validator")
	}

	return &record, nil
}

// Create inserts a new vault record.
func (m *MySQLVaultRepository) Create(
	ctx context.Context,
	record *vaultDomain.VaultRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO vault_records (user_id, salt, validator, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.UserID,
		record.Salt,
		record.Validator.String(),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create vault record")
	}
	return nil
}

// Update replaces the salt and validator of an existing vault record (re-key).
func (m *MySQLVaultRepository) Update(
	ctx context.Context,
	record *vaultDomain.VaultRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE vault_records
			  SET salt = ?, validator = ?, updated_at = ?
			  WHERE user_id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		record.Salt,
		record.Validator.String(),
		record.UpdatedAt,
		record.UserID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault record")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
