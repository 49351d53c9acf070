package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/secretstore/internal/crypto/domain"
	apperrors "github.com/allisson/secretstore/internal/errors"
	"github.com/allisson/secretstore/internal/metrics"
	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
)

const metricsDomain = "secrets"

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// operationStatus labels an outcome by error kind. Decryption failures are checked before
// ErrInvalidInput, which they wrap.
func operationStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.Is(err, cryptoDomain.ErrDecryptionFailed):
		return "decryption_failure"
	case apperrors.Is(err, apperrors.ErrInconsistent):
		return "consistency_violation"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case apperrors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return "invalid_input"
	case apperrors.Is(err, apperrors.ErrStorage):
		return "persistence_failure"
	default:
		return "error"
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := operationStatus(err)
	s.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	s.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Create records metrics for secret creation.
func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	input *secretsDomain.CreateSecretInput,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

// CreateUnversioned records metrics under the same operation as Create.
func (s *secretUseCaseWithMetrics) CreateUnversioned(
	ctx context.Context,
	name string,
	content []byte,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.CreateUnversioned(ctx, name, content)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

// GetByIDAndVersion records metrics for retrieval by id.
func (s *secretUseCaseWithMetrics) GetByIDAndVersion(
	ctx context.Context,
	id int64,
	version secretsDomain.Version,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.GetByIDAndVersion(ctx, id, version)
	s.record(ctx, "secret_get", start, err)
	return secret, err
}

// GetByNameAndVersion records metrics for retrieval by name.
func (s *secretUseCaseWithMetrics) GetByNameAndVersion(
	ctx context.Context,
	name string,
	version secretsDomain.Version,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.GetByNameAndVersion(ctx, name, version)
	s.record(ctx, "secret_get_by_name", start, err)
	return secret, err
}

// ListVersions records metrics for version listings.
func (s *secretUseCaseWithMetrics) ListVersions(ctx context.Context, name string) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.ListVersions(ctx, name)
	s.record(ctx, "secret_list_versions", start, err)
	return secrets, err
}
