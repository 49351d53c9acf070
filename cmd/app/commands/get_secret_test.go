package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
	secretsUsecaseMocks "github.com/allisson/secretstore/internal/secrets/usecase/mocks"
)

func TestRunGetSecret(t *testing.T) {
	ctx := context.Background()

	t.Run("by-id-text", func(t *testing.T) {
		useCase := secretsUsecaseMocks.NewMockSecretUseCase(t)
		secret := storedSecret(secretsDomain.MustVersion("1"))
		secret.Creator = "alice"
		secret.Metadata = map[string]string{"b": "2", "a": "1"}
		useCase.On("GetByIDAndVersion", ctx, int64(12), secretsDomain.MustVersion("1")).Return(secret, nil).Once()

		var out bytes.Buffer
		err := RunGetSecret(ctx, useCase, discardLogger(), &out, 12, "", "1", FormatText)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Content:     s3cr3t")
		assert.Contains(t, out.String(), "Creator:     alice")
		assert.Contains(t, out.String(), "Metadata:\n  a=1\n  b=2\n")
	})

	t.Run("by-name-unversioned-json", func(t *testing.T) {
		useCase := secretsUsecaseMocks.NewMockSecretUseCase(t)
		useCase.On("GetByNameAndVersion", ctx, "db-pass", secretsDomain.Unversioned()).
			Return(storedSecret(secretsDomain.Unversioned()), nil).
			Once()

		var out bytes.Buffer
		err := RunGetSecret(ctx, useCase, discardLogger(), &out, 0, "db-pass", "", FormatJSON)
		require.NoError(t, err)

		var output secretOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &output))
		assert.Equal(t, "", output.Version)
		assert.Equal(t, []byte("s3cr3t"), output.Content)
		assert.Contains(t, out.String(), base64.StdEncoding.EncodeToString([]byte("s3cr3t")))
		assert.False(t, output.Expired)
	})

	t.Run("expired secret is still returned", func(t *testing.T) {
		useCase := secretsUsecaseMocks.NewMockSecretUseCase(t)
		secret := storedSecret(secretsDomain.MustVersion("1"))
		past := time.Now().Add(-time.Hour).UTC()
		secret.Expiry = &past
		useCase.On("GetByNameAndVersion", ctx, "db-pass", secretsDomain.MustVersion("1")).Return(secret, nil).Once()

		var out bytes.Buffer
		err := RunGetSecret(ctx, useCase, discardLogger(), &out, 0, "db-pass", "1", FormatText)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "(expired)")
	})

	t.Run("not found", func(t *testing.T) {
		useCase := secretsUsecaseMocks.NewMockSecretUseCase(t)
		useCase.On("GetByNameAndVersion", ctx, "db-pass", secretsDomain.MustVersion("9")).
			Return(nil, secretsDomain.ErrSecretNotFound).
			Once()

		err := RunGetSecret(ctx, useCase, discardLogger(), io.Discard, 0, "db-pass", "9", FormatText)
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
	})

	t.Run("needs id or name", func(t *testing.T) {
		err := RunGetSecret(ctx, secretsUsecaseMocks.NewMockSecretUseCase(t), discardLogger(), io.Discard,
			0, "", "", FormatText)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--id or --name")
	})
}
