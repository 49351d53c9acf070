package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	secretsUseCase "github.com/allisson/secretstore/internal/secrets/usecase"
)

// RunListVersions prints every version stored under name, oldest first, without content.
func RunListVersions(
	ctx context.Context,
	useCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	secrets, err := useCase.ListVersions(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to list secret versions: %w", err)
	}
	logger.Debug("listed secret versions", slog.String("name", name), slog.Int("count", len(secrets)))

	now := time.Now()
	if format == FormatJSON {
		outputs := make([]secretOutput, 0, len(secrets))
		for _, secret := range secrets {
			outputs = append(outputs, newSecretOutput(secret, now))
		}
		return writeJSON(writer, outputs)
	}

	if len(secrets) == 0 {
		_, _ = fmt.Fprintf(writer, "No versions found for %q\n", name)
		return nil
	}
	_, _ = fmt.Fprintf(writer, "%-8s %-20s %-25s %s\n", "ID", "VERSION", "CREATED AT", "CREATOR")
	for _, secret := range secrets {
		created := secret.CreatedAt.Format(time.RFC3339)
		if secret.IsExpired(now) {
			created += " *"
		}
		_, _ = fmt.Fprintf(writer, "%-8d %-20s %-25s %s\n",
			secret.ID, versionLabel(secret.Version), created, secret.Creator)
	}
	return nil
}
