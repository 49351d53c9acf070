package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cryptoService "github.com/allisson/secretstore/internal/crypto/service"
	apperrors "github.com/allisson/secretstore/internal/errors"
	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
	secretsService "github.com/allisson/secretstore/internal/secrets/service"
)

// secretUseCase implements the SecretUseCase interface for managing secrets.
type secretUseCase struct {
	secretRepo    SecretRepository
	cryptographer cryptoService.ContentCryptographer
	transformer   SecretTransformer
	logger        *slog.Logger
	now           func() time.Time
}

// Create runs the creation protocol: derive the key from the name, encrypt, insert,
// read the row back by its new id and transform it. No step is retried.
func (s *secretUseCase) Create(
	ctx context.Context,
	input *secretsDomain.CreateSecretInput,
) (*secretsDomain.Secret, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	encrypted, err := s.cryptographer.KeyDerivedFrom(input.Name).Encrypt(input.Content)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt secret content")
	}

	row := &secretsDomain.SecretRow{
		Name:             input.Name,
		Version:          input.Version,
		EncryptedContent: encrypted,
		Creator:          input.Creator,
		Metadata:         secretsDomain.CloneMap(input.Metadata),
		Description:      input.Description,
		Expiry:           input.Expiry,
		Tags:             secretsDomain.CloneMap(input.Tags),
		CreatedAt:        s.now().UTC(),
	}

	id, err := s.secretRepo.Create(ctx, row)
	if err != nil {
		return nil, err
	}

	stored, err := s.secretRepo.GetByIDAndVersion(ctx, id, input.Version)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error("secret missing after successful insert",
				slog.Int64("id", id),
				slog.String("name", input.Name),
				slog.String("version", input.Version.String()))
			return nil, apperrors.Wrap(
				secretsDomain.ErrConsistencyViolation,
				fmt.Sprintf("secret %q id %d", input.Name, id),
			)
		}
		return nil, err
	}

	return s.transformer.Transform(stored)
}

// CreateUnversioned creates the unversioned revision of name.
func (s *secretUseCase) CreateUnversioned(
	ctx context.Context,
	name string,
	content []byte,
) (*secretsDomain.Secret, error) {
	return s.Create(ctx, &secretsDomain.CreateSecretInput{
		Name:     name,
		Content:  content,
		Version:  secretsDomain.Unversioned(),
		Metadata: map[string]string{},
		Tags:     map[string]string{},
	})
}

// GetByIDAndVersion retrieves and decrypts the secret with the given id and version.
func (s *secretUseCase) GetByIDAndVersion(
	ctx context.Context,
	id int64,
	version secretsDomain.Version,
) (*secretsDomain.Secret, error) {
	row, err := s.secretRepo.GetByIDAndVersion(ctx, id, version)
	if err != nil {
		return nil, err
	}
	return s.transformer.Transform(row)
}

// GetByNameAndVersion retrieves and decrypts the secret with the given name and version.
func (s *secretUseCase) GetByNameAndVersion(
	ctx context.Context,
	name string,
	version secretsDomain.Version,
) (*secretsDomain.Secret, error) {
	row, err := s.secretRepo.GetByNameAndVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}
	return s.transformer.Transform(row)
}

// ListVersions lists every version of name without touching the cryptographer.
func (s *secretUseCase) ListVersions(ctx context.Context, name string) ([]*secretsDomain.Secret, error) {
	rows, err := s.secretRepo.ListByName(ctx, name)
	if err != nil {
		return nil, err
	}

	secrets := make([]*secretsDomain.Secret, 0, len(rows))
	for _, row := range rows {
		secrets = append(secrets, secretsService.TransformWithoutContent(row))
	}
	return secrets, nil
}

// NewSecretUseCase creates a new SecretUseCase bound to one persistence backend.
func NewSecretUseCase(
	secretRepo SecretRepository,
	cryptographer cryptoService.ContentCryptographer,
	transformer SecretTransformer,
	logger *slog.Logger,
) SecretUseCase {
	return &secretUseCase{
		secretRepo:    secretRepo,
		cryptographer: cryptographer,
		transformer:   transformer,
		logger:        logger,
		now:           time.Now,
	}
}
