package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/secretstore/internal/crypto/domain"
	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
	secretsUseCase "github.com/allisson/secretstore/internal/secrets/usecase"
)

// RunGetSecret prints one decrypted secret, looked up by id when id is positive and by
// name otherwise. An empty version selects the unversioned revision.
func RunGetSecret(
	ctx context.Context,
	useCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	id int64,
	name string,
	versionTag string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if id <= 0 && name == "" {
		return fmt.Errorf("either --id or --name is required")
	}

	version := secretsDomain.ParseVersion(versionTag)

	var (
		secret *secretsDomain.Secret
		err    error
	)
	if id > 0 {
		secret, err = useCase.GetByIDAndVersion(ctx, id, version)
	} else {
		secret, err = useCase.GetByNameAndVersion(ctx, name, version)
	}
	if err != nil {
		return fmt.Errorf("failed to get secret: %w", err)
	}
	defer cryptoDomain.Zero(secret.Content)

	now := time.Now()
	if secret.IsExpired(now) {
		logger.Warn("secret is past its expiry",
			slog.Int64("id", secret.ID),
			slog.String("name", secret.Name),
		)
	}

	if format == FormatJSON {
		return writeJSON(writer, newSecretOutput(secret, now))
	}
	writeSecretText(writer, secret, now, true)
	return nil
}
