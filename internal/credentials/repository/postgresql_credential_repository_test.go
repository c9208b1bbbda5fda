package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

const (
	testPasswordEnvelope = "AAAAAAAAAAAAAAAA:cGFzc3dvcmQtY2lwaGVydGV4dA=="
	testItemKeyEnvelope  = "AAAAAAAAAAAAAAAB:aXRlbS1rZXktY2lwaGVydGV4dA=="
)

func newMockRepository(t *testing.T) (*PostgreSQLCredentialRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgreSQLCredentialRepository(db), mock
}

func newStoredCredential(t *testing.T) *credentialsDomain.Credential {
	t.Helper()

	password, err := cryptoDomain.ParseEnvelope(testPasswordEnvelope)
	require.NoError(t, err)
	blob, err := cryptoDomain.ParseEnvelope(testItemKeyEnvelope)
	require.NoError(t, err)

	now := time.Now().UTC()
	return &credentialsDomain.Credential{
		ID:          uuid.Must(uuid.NewV7()),
		OwnerID:     uuid.Must(uuid.NewV7()),
		Site:        "example.com",
		Username:    "bob",
		Password:    password,
		ItemKeyBlob: &blob,
		Color:       "#336699",
		Logo:        "https://example.com/favicon.ico",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func credentialColumns() []string {
	return []string{
		"id", "owner_id", "site", "username", "password",
		"item_key_blob", "color", "logo", "created_at", "updated_at",
	}
}

func credentialRow(credential *credentialsDomain.Credential) *sqlmock.Rows {
	var blob any
	if credential.ItemKeyBlob != nil {
		blob = credential.ItemKeyBlob.String()
	}
	return sqlmock.NewRows(credentialColumns()).AddRow(
		credential.ID,
		credential.OwnerID,
		credential.Site,
		credential.Username,
		credential.Password.String(),
		blob,
		credential.Color,
		credential.Logo,
		credential.CreatedAt,
		credential.UpdatedAt,
	)
}

func TestPostgreSQLCredentialRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts the row", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		credential := newStoredCredential(t)

		mock.ExpectExec(`INSERT INTO credentials`).
			WithArgs(
				credential.ID,
				credential.OwnerID,
				credential.Site,
				credential.Username,
				credential.Password.String(),
				credential.ItemKeyBlob.String(),
				credential.Color,
				credential.Logo,
				credential.CreatedAt,
				credential.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, credential))
	})

	t.Run("legacy record stores a NULL item key blob", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		credential := newStoredCredential(t)
		credential.ItemKeyBlob = nil

		mock.ExpectExec(`INSERT INTO credentials`).
			WithArgs(
				credential.ID,
				credential.OwnerID,
				credential.Site,
				credential.Username,
				credential.Password.String(),
				nil,
				credential.Color,
				credential.Logo,
				credential.CreatedAt,
				credential.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, credential))
	})

	t.Run("maps a unique violation to duplicate credential", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		credential := newStoredCredential(t)

		mock.ExpectExec(`INSERT INTO credentials`).
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "credentials_owner_site_username_key"`))

		err := repo.Create(ctx, credential)
		assert.ErrorIs(t, err, credentialsDomain.ErrDuplicateCredential)
	})
}

func TestPostgreSQLCredentialRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the credential", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		credential := newStoredCredential(t)

		mock.ExpectQuery(`SELECT .+ FROM credentials`).
			WithArgs(credential.ID).
			WillReturnRows(credentialRow(credential))

		got, err := repo.GetByID(ctx, credential.ID)
		require.NoError(t, err)
		assert.Equal(t, credential.ID, got.ID)
		assert.Equal(t, credential.Password.String(), got.Password.String())
		require.NotNil(t, got.ItemKeyBlob)
		assert.Equal(t, credential.ItemKeyBlob.String(), got.ItemKeyBlob.String())
	})

	t.Run("NULL item key blob scans as legacy", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		credential := newStoredCredential(t)
		credential.ItemKeyBlob = nil

		mock.ExpectQuery(`SELECT .+ FROM credentials`).
			WithArgs(credential.ID).
			WillReturnRows(credentialRow(credential))

		got, err := repo.GetByID(ctx, credential.ID)
		require.NoError(t, err)
		assert.True(t, got.IsLegacy())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(`SELECT .+ FROM credentials`).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, credentialsDomain.ErrCredentialNotFound)
	})
}

func TestPostgreSQLCredentialRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("returns all rows", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		first := newStoredCredential(t)
		second := newStoredCredential(t)
		second.OwnerID = first.OwnerID
		second.Site = "other.example.com"

		rows := credentialRow(first)
		rows.AddRow(
			second.ID, second.OwnerID, second.Site, second.Username,
			second.Password.String(), second.ItemKeyBlob.String(),
			second.Color, second.Logo, second.CreatedAt, second.UpdatedAt,
		)

		mock.ExpectQuery(`SELECT .+ FROM credentials`).
			WithArgs(first.OwnerID).
			WillReturnRows(rows)

		credentials, err := repo.ListByOwner(ctx, first.OwnerID)
		require.NoError(t, err)
		assert.Len(t, credentials, 2)
	})

	t.Run("no rows yields an empty list", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(`SELECT .+ FROM credentials`).
			WillReturnRows(sqlmock.NewRows(credentialColumns()))

		credentials, err := repo.ListByOwner(ctx, uuid.Must(uuid.NewV7()))
		require.NoError(t, err)
		assert.Empty(t, credentials)
	})
}

func TestPostgreSQLCredentialRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the row", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		credential := newStoredCredential(t)

		mock.ExpectExec(`UPDATE credentials`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, credential))
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		credential := newStoredCredential(t)

		mock.ExpectExec(`UPDATE credentials`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, credential)
		assert.ErrorIs(t, err, credentialsDomain.ErrCredentialNotFound)
	})
}

func TestPostgreSQLCredentialRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the row", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec(`DELETE FROM credentials`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, uuid.Must(uuid.NewV7())))
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec(`DELETE FROM credentials`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, credentialsDomain.ErrCredentialNotFound)
	})
}
