package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/secretstore/internal/validation"
)

// Column limits shared by every persistence backend.
const (
	MaxNameLength    = 255
	MaxVersionLength = 64
	MaxCreatorLength = 255
)

// CreateSecretInput carries everything needed to create one secret version.
type CreateSecretInput struct {
	Name        string
	Content     []byte
	Version     Version
	Creator     string
	Metadata    map[string]string
	Description string
	Expiry      *time.Time
	Tags        map[string]string
}

// Validate checks the input against the storage limits.
// Failures are reported wrapped in errors.ErrInvalidInput.
func (i *CreateSecretInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&i.Creator, validation.Length(0, MaxCreatorLength)),
		validation.Field(&i.Metadata, customValidation.NonEmptyKeys),
		validation.Field(&i.Tags, customValidation.NonEmptyKeys),
	)
	if err == nil && len(i.Version.String()) > MaxVersionLength {
		err = validation.Errors{"Version": validation.NewError(
			"validation_version_length",
			"the length must be no more than 64",
		)}
	}
	return customValidation.WrapValidationError(err)
}
