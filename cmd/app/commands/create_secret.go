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

// CreateSecretOptions collects the create-secret flags.
type CreateSecretOptions struct {
	Name        string
	Version     string
	Content     string
	Creator     string
	Description string
	Metadata    []string
	Tags        []string
	Expiry      string
	Format      string
}

// hasOptionalFields reports whether anything beyond name and content was given.
func (o CreateSecretOptions) hasOptionalFields() bool {
	return o.Version != "" || o.Creator != "" || o.Description != "" ||
		len(o.Metadata) > 0 || len(o.Tags) > 0 || o.Expiry != ""
}

// RunCreateSecret stores a new secret and prints it as read back from the backend.
//
// Content comes from opts.Content, or from reader when that is empty. Without a version
// or any optional field the unversioned revision of the name is created.
func RunCreateSecret(
	ctx context.Context,
	useCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	reader io.Reader,
	writer io.Writer,
	opts CreateSecretOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	content := []byte(opts.Content)
	if opts.Content == "" {
		var err error
		content, err = io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("failed to read secret content: %w", err)
		}
	}
	defer cryptoDomain.Zero(content)

	logger.Info("creating secret",
		slog.String("name", opts.Name),
		slog.String("version", opts.Version),
	)

	var (
		secret *secretsDomain.Secret
		err    error
	)
	if opts.hasOptionalFields() {
		input, inputErr := opts.toInput(content)
		if inputErr != nil {
			return inputErr
		}
		secret, err = useCase.Create(ctx, input)
	} else {
		secret, err = useCase.CreateUnversioned(ctx, opts.Name, content)
	}
	if err != nil {
		return fmt.Errorf("failed to create secret: %w", err)
	}
	defer cryptoDomain.Zero(secret.Content)

	logger.Info("secret created",
		slog.Int64("id", secret.ID),
		slog.String("name", secret.Name),
		slog.String("version", secret.Version.String()),
	)

	now := time.Now()
	if opts.Format == FormatJSON {
		output := newSecretOutput(secret, now)
		output.Content = nil
		return writeJSON(writer, output)
	}
	writeSecretText(writer, secret, now, false)
	return nil
}

func (o CreateSecretOptions) toInput(content []byte) (*secretsDomain.CreateSecretInput, error) {
	version := secretsDomain.Unversioned()
	if o.Version != "" {
		var err error
		if version, err = secretsDomain.NewVersion(o.Version); err != nil {
			return nil, err
		}
	}

	metadata, err := parseKeyValues("metadata", o.Metadata)
	if err != nil {
		return nil, err
	}
	tags, err := parseKeyValues("tag", o.Tags)
	if err != nil {
		return nil, err
	}

	var expiry *time.Time
	if o.Expiry != "" {
		parsed, err := time.Parse(time.RFC3339, o.Expiry)
		if err != nil {
			return nil, fmt.Errorf("invalid --expiry %q (expected RFC3339): %w", o.Expiry, err)
		}
		expiry = &parsed
	}

	return &secretsDomain.CreateSecretInput{
		Name:        o.Name,
		Content:     content,
		Version:     version,
		Creator:     o.Creator,
		Metadata:    metadata,
		Description: o.Description,
		Expiry:      expiry,
		Tags:        tags,
	}, nil
}
