// Package usecase defines the interfaces and implementations for secret management use cases.
// Use cases orchestrate the cryptographer, the transformer and exactly one persistence
// backend to create and read immutable, versioned secrets.
package usecase

import (
	"context"

	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
)

// SecretRepository defines the interface for SecretRow persistence operations.
// The database/sql and bun backends implement it with identical semantics.
type SecretRepository interface {
	// Create inserts row and returns the backend-assigned id. A duplicate (name, version)
	// fails with secretsDomain.ErrSecretConflict; any other storage failure with
	// secretsDomain.ErrSecretPersistence.
	Create(ctx context.Context, row *secretsDomain.SecretRow) (int64, error)
	GetByIDAndVersion(
		ctx context.Context,
		id int64,
		version secretsDomain.Version,
	) (*secretsDomain.SecretRow, error)
	GetByNameAndVersion(
		ctx context.Context,
		name string,
		version secretsDomain.Version,
	) (*secretsDomain.SecretRow, error)
	ListByName(ctx context.Context, name string) ([]*secretsDomain.SecretRow, error)
}

// SecretTransformer turns a persisted row into a decrypted Secret.
type SecretTransformer interface {
	Transform(row *secretsDomain.SecretRow) (*secretsDomain.Secret, error)
}

// SecretUseCase defines the interface for secret management business logic.
//
// Security Note: returned Secrets carry plaintext in Content. Callers should zero it
// with cryptoDomain.Zero once done.
type SecretUseCase interface {
	// Create encrypts and stores a new secret version, then returns it as read back
	// from the backend.
	Create(ctx context.Context, input *secretsDomain.CreateSecretInput) (*secretsDomain.Secret, error)
	// CreateUnversioned stores content under name with no version and no optional fields.
	CreateUnversioned(ctx context.Context, name string, content []byte) (*secretsDomain.Secret, error)
	GetByIDAndVersion(ctx context.Context, id int64, version secretsDomain.Version) (*secretsDomain.Secret, error)
	GetByNameAndVersion(
		ctx context.Context,
		name string,
		version secretsDomain.Version,
	) (*secretsDomain.Secret, error)
	// ListVersions returns every version of name, oldest first, without decrypting content.
	ListVersions(ctx context.Context, name string) ([]*secretsDomain.Secret, error)
}
