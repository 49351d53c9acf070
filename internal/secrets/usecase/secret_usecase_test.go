package usecase

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/secretstore/internal/crypto/domain"
	cryptoService "github.com/allisson/secretstore/internal/crypto/service"
	apperrors "github.com/allisson/secretstore/internal/errors"
	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
	secretsService "github.com/allisson/secretstore/internal/secrets/service"
	"github.com/allisson/secretstore/internal/secrets/usecase/mocks"
)

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newCryptographer(t *testing.T) *cryptoService.HKDFContentCryptographer {
	t.Helper()

	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cryptographer, err := cryptoService.NewContentCryptographer(
		&cryptoDomain.MasterKey{Key: key},
		cryptoDomain.AESGCM,
		cryptoService.NewAEADManager(),
	)
	require.NoError(t, err)
	return cryptographer
}

type fixture struct {
	repo          *mocks.MockSecretRepository
	cryptographer *cryptoService.HKDFContentCryptographer
	logs          *syncBuffer
	useCase       SecretUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := mocks.NewMockSecretRepository(t)
	cryptographer := newCryptographer(t)
	logs := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return &fixture{
		repo:          repo,
		cryptographer: cryptographer,
		logs:          logs,
		useCase: NewSecretUseCase(
			repo,
			cryptographer,
			secretsService.NewTransformer(cryptographer),
			logger,
		),
	}
}

func (f *fixture) storedRow(t *testing.T, id int64, name string, version secretsDomain.Version, content string) *secretsDomain.SecretRow {
	t.Helper()

	encrypted, err := f.cryptographer.KeyDerivedFrom(name).Encrypt([]byte(content))
	require.NoError(t, err)

	return &secretsDomain.SecretRow{
		ID:               id,
		Name:             name,
		Version:          version,
		EncryptedContent: encrypted,
		Metadata:         map[string]string{},
		Tags:             map[string]string{},
		CreatedAt:        time.Now().UTC(),
	}
}

func TestSecretUseCase_Create(t *testing.T) {
	ctx := context.Background()
	version := secretsDomain.MustVersion("1")

	t.Run("encrypts inserts and reads back", func(t *testing.T) {
		f := newFixture(t)

		f.repo.On("Create", ctx, mock.MatchedBy(func(row *secretsDomain.SecretRow) bool {
			plaintext, err := f.cryptographer.KeyDerivedFrom("db-pass").Decrypt(row.EncryptedContent)
			return err == nil &&
				string(plaintext) == "s3cr3t" &&
				row.Name == "db-pass" &&
				row.Version == version &&
				row.Creator == "alice" &&
				!row.CreatedAt.IsZero()
		})).Return(int64(11), nil).Once()
		f.repo.On("GetByIDAndVersion", ctx, int64(11), version).
			Return(f.storedRow(t, 11, "db-pass", version, "s3cr3t"), nil).
			Once()

		secret, err := f.useCase.Create(ctx, &secretsDomain.CreateSecretInput{
			Name:    "db-pass",
			Content: []byte("s3cr3t"),
			Version: version,
			Creator: "alice",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), secret.ID)
		assert.Equal(t, "db-pass", secret.Name)
		assert.Equal(t, version, secret.Version)
		assert.Equal(t, []byte("s3cr3t"), secret.Content)
	})

	t.Run("invalid input never reaches the backend", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.useCase.Create(ctx, &secretsDomain.CreateSecretInput{Content: []byte("s3cr3t")})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("conflict propagates unchanged", func(t *testing.T) {
		f := newFixture(t)

		f.repo.On("Create", ctx, mock.Anything).Return(int64(0), secretsDomain.ErrSecretConflict).Once()

		_, err := f.useCase.Create(ctx, &secretsDomain.CreateSecretInput{
			Name:    "db-pass",
			Content: []byte("s3cr3t"),
			Version: version,
		})
		assert.ErrorIs(t, err, secretsDomain.ErrSecretConflict)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		f.repo.AssertNotCalled(t, "GetByIDAndVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("persistence failure propagates unchanged", func(t *testing.T) {
		f := newFixture(t)

		f.repo.On("Create", ctx, mock.Anything).Return(int64(0), secretsDomain.ErrSecretPersistence).Once()

		_, err := f.useCase.Create(ctx, &secretsDomain.CreateSecretInput{Name: "db-pass", Content: []byte("x")})
		assert.ErrorIs(t, err, secretsDomain.ErrSecretPersistence)
		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})

	t.Run("missing row after insert is a consistency violation", func(t *testing.T) {
		f := newFixture(t)

		f.repo.On("Create", ctx, mock.Anything).Return(int64(5), nil).Once()
		f.repo.On("GetByIDAndVersion", ctx, int64(5), version).
			Return(nil, secretsDomain.ErrSecretNotFound).
			Once()

		_, err := f.useCase.Create(ctx, &secretsDomain.CreateSecretInput{
			Name:    "db-pass",
			Content: []byte("s3cr3t"),
			Version: version,
		})
		assert.ErrorIs(t, err, secretsDomain.ErrConsistencyViolation)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
		assert.ErrorIs(t, err, apperrors.ErrInconsistent)
		assert.NotErrorIs(t, err, secretsDomain.ErrSecretConflict)

		logs := f.logs.String()
		assert.Contains(t, logs, `"level":"ERROR"`)
		assert.Contains(t, logs, "secret missing after successful insert")
		assert.Contains(t, logs, `"id":5`)
		assert.NotContains(t, logs, "s3cr3t")
	})

	t.Run("read back storage failure is not a consistency violation", func(t *testing.T) {
		f := newFixture(t)
		cause := apperrors.WrapWith(secretsDomain.ErrSecretPersistence, errors.New("timeout"), "read back")

		f.repo.On("Create", ctx, mock.Anything).Return(int64(5), nil).Once()
		f.repo.On("GetByIDAndVersion", ctx, int64(5), version).Return(nil, cause).Once()

		_, err := f.useCase.Create(ctx, &secretsDomain.CreateSecretInput{
			Name:    "db-pass",
			Content: []byte("s3cr3t"),
			Version: version,
		})
		assert.ErrorIs(t, err, secretsDomain.ErrSecretPersistence)
		assert.NotErrorIs(t, err, secretsDomain.ErrConsistencyViolation)
	})

	t.Run("undecryptable read back is a decryption failure", func(t *testing.T) {
		f := newFixture(t)

		row := f.storedRow(t, 5, "db-pass", version, "s3cr3t")
		row.EncryptedContent = f.storedRow(t, 5, "api-key", version, "s3cr3t").EncryptedContent

		f.repo.On("Create", ctx, mock.Anything).Return(int64(5), nil).Once()
		f.repo.On("GetByIDAndVersion", ctx, int64(5), version).Return(row, nil).Once()

		_, err := f.useCase.Create(ctx, &secretsDomain.CreateSecretInput{
			Name:    "db-pass",
			Content: []byte("s3cr3t"),
			Version: version,
		})
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestSecretUseCase_CreateUnversioned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.repo.On("Create", ctx, mock.MatchedBy(func(row *secretsDomain.SecretRow) bool {
		return row.Name == "db-pass" &&
			!row.Version.IsSet() &&
			row.Creator == "" &&
			row.Description == "" &&
			row.Expiry == nil &&
			len(row.Metadata) == 0 &&
			len(row.Tags) == 0
	})).Return(int64(1), nil).Once()
	f.repo.On("GetByIDAndVersion", ctx, int64(1), secretsDomain.Unversioned()).
		Return(f.storedRow(t, 1, "db-pass", secretsDomain.Unversioned(), "s3cr3t"), nil).
		Once()

	secret, err := f.useCase.CreateUnversioned(ctx, "db-pass", []byte("s3cr3t"))
	require.NoError(t, err)
	assert.False(t, secret.Version.IsSet())
	assert.Equal(t, []byte("s3cr3t"), secret.Content)
}

func TestSecretUseCase_Reads(t *testing.T) {
	ctx := context.Background()
	version := secretsDomain.MustVersion("2")

	t.Run("get by id and version", func(t *testing.T) {
		f := newFixture(t)

		f.repo.On("GetByIDAndVersion", ctx, int64(3), version).
			Return(f.storedRow(t, 3, "db-pass", version, "s3cr3t"), nil).
			Once()

		secret, err := f.useCase.GetByIDAndVersion(ctx, 3, version)
		require.NoError(t, err)
		assert.Equal(t, []byte("s3cr3t"), secret.Content)
	})

	t.Run("get by name and version not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.On("GetByNameAndVersion", ctx, "db-pass", version).
			Return(nil, secretsDomain.ErrSecretNotFound).
			Once()

		_, err := f.useCase.GetByNameAndVersion(ctx, "db-pass", version)
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
		assert.NotErrorIs(t, err, secretsDomain.ErrConsistencyViolation)
	})

	t.Run("list versions leaves content encrypted", func(t *testing.T) {
		f := newFixture(t)

		rows := []*secretsDomain.SecretRow{
			{ID: 1, Name: "db-pass", Version: secretsDomain.MustVersion("1"), EncryptedContent: "opaque"},
			{ID: 2, Name: "db-pass", Version: version, EncryptedContent: "opaque"},
		}
		f.repo.On("ListByName", ctx, "db-pass").Return(rows, nil).Once()

		secrets, err := f.useCase.ListVersions(ctx, "db-pass")
		require.NoError(t, err)
		require.Len(t, secrets, 2)
		assert.Equal(t, int64(1), secrets[0].ID)
		assert.Equal(t, version, secrets[1].Version)
		assert.Nil(t, secrets[1].Content)
	})
}
