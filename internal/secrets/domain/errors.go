package domain

import (
	"github.com/allisson/secretstore/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no row matches the requested id/name and version.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretConflict indicates the (name, version) pair already exists.
	ErrSecretConflict = errors.Wrap(errors.ErrConflict, "secret name and version already exist")

	// ErrSecretPersistence indicates the storage layer failed while reading or writing.
	ErrSecretPersistence = errors.Wrap(errors.ErrStorage, "secret persistence failed")

	// ErrConsistencyViolation indicates a row was not readable right after the backend
	// reported a successful insert. It is never retried and needs operator attention.
	ErrConsistencyViolation = errors.Wrap(errors.ErrInconsistent, "secret missing after successful insert")

	// ErrEmptyVersion indicates an explicit version was requested with an empty tag.
	ErrEmptyVersion = errors.Wrap(errors.ErrInvalidInput, "version tag must not be empty")
)
