package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/secretstore/internal/errors"
	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
	"github.com/allisson/secretstore/internal/testutil"
)

var secretColumns = []string{
	"id", "name", "version", "encrypted_content", "creator", "metadata", "description",
	"tags", "expiry", "created_at",
}

func newMockRepository(t *testing.T) (*PostgreSQLSecretRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewPostgreSQLSecretRepository(db), mock
}

func newRow(name string, version secretsDomain.Version) *secretsDomain.SecretRow {
	return &secretsDomain.SecretRow{
		Name:             name,
		Version:          version,
		EncryptedContent: "ZW5jcnlwdGVk",
		Metadata:         map[string]string{"mode": "0400"},
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPostgreSQLSecretRepository_Create_Mock(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta("INSERT INTO secrets")

	t.Run("returns assigned id", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		row := newRow("db-pass", secretsDomain.MustVersion("1"))

		mock.ExpectQuery(insert).
			WithArgs(
				"db-pass", "1", row.EncryptedContent, "", `{"mode":"0400"}`, "", `{}`, nil, row.CreatedAt,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

		id, err := repo.Create(ctx, row)
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation is a conflict", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(insert).WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Create(ctx, newRow("db-pass", secretsDomain.MustVersion("1")))
		assert.ErrorIs(t, err, secretsDomain.ErrSecretConflict)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("driver failure is a persistence error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		cause := errors.New("connection reset by peer")

		mock.ExpectQuery(insert).WillReturnError(cause)

		_, err := repo.Create(ctx, newRow("db-pass", secretsDomain.MustVersion("1")))
		assert.ErrorIs(t, err, secretsDomain.ErrSecretPersistence)
		assert.ErrorIs(t, err, apperrors.ErrStorage)
		assert.ErrorIs(t, err, cause)
	})
}

func TestPostgreSQLSecretRepository_GetByIDAndVersion_Mock(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("FROM secrets WHERE id = $1 AND version = $2")
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("scans row", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(query).
			WithArgs(int64(7), "").
			WillReturnRows(sqlmock.NewRows(secretColumns).AddRow(
				int64(7), "db-pass", "", "ZW5jcnlwdGVk", "alice", []byte(`{"mode":"0400"}`),
				"primary", []byte(`{"team":"payments"}`), expiry, createdAt,
			))

		row, err := repo.GetByIDAndVersion(ctx, 7, secretsDomain.Unversioned())
		require.NoError(t, err)
		assert.Equal(t, int64(7), row.ID)
		assert.False(t, row.Version.IsSet())
		assert.Equal(t, "alice", row.Creator)
		assert.Equal(t, map[string]string{"mode": "0400"}, row.Metadata)
		assert.Equal(t, map[string]string{"team": "payments"}, row.Tags)
		require.NotNil(t, row.Expiry)
		assert.True(t, expiry.Equal(*row.Expiry))
		assert.Equal(t, createdAt, row.CreatedAt)
	})

	t.Run("no rows is not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(query).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByIDAndVersion(ctx, 7, secretsDomain.Unversioned())
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("corrupted metadata is a persistence error", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows(secretColumns).AddRow(
				int64(7), "db-pass", "", "ZW5jcnlwdGVk", "", []byte(`not-json`),
				"", []byte(`{}`), nil, createdAt,
			))

		_, err := repo.GetByIDAndVersion(ctx, 7, secretsDomain.Unversioned())
		assert.ErrorIs(t, err, secretsDomain.ErrSecretPersistence)
	})
}

func TestPostgreSQLSecretRepository_ListByName_Mock(t *testing.T) {
	repo, mock := newMockRepository(t)
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE name = $1 ORDER BY id ASC")).
		WithArgs("db-pass").
		WillReturnRows(sqlmock.NewRows(secretColumns).
			AddRow(int64(1), "db-pass", "1", "YQ==", "", []byte(`{}`), "", []byte(`{}`), nil, createdAt).
			AddRow(int64(2), "db-pass", "2", "Yg==", "", []byte(`{}`), "", []byte(`{}`), nil, createdAt))

	rows, err := repo.ListByName(context.Background(), "db-pass")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].Version.String())
	assert.Equal(t, "2", rows[1].Version.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSecretRepository_Integration(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, newRow("db-pass", secretsDomain.MustVersion("1")))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newRow("db-pass", secretsDomain.Unversioned()))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = repo.Create(ctx, newRow("db-pass", secretsDomain.MustVersion("1")))
	assert.ErrorIs(t, err, secretsDomain.ErrSecretConflict)
	_, err = repo.Create(ctx, newRow("db-pass", secretsDomain.Unversioned()))
	assert.ErrorIs(t, err, secretsDomain.ErrSecretConflict)

	row, err := repo.GetByIDAndVersion(ctx, first, secretsDomain.MustVersion("1"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mode": "0400"}, row.Metadata)

	row, err = repo.GetByNameAndVersion(ctx, "db-pass", secretsDomain.Unversioned())
	require.NoError(t, err)
	assert.Equal(t, second, row.ID)

	_, err = repo.GetByIDAndVersion(ctx, first, secretsDomain.MustVersion("9"))
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)

	rows, err := repo.ListByName(ctx, "db-pass")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first, rows[0].ID)
}
