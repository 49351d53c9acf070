// Package validation provides the custom jellydator/validation rules shared by config
// and domain input checks.
package validation

import (
	"encoding/base64"
	"net/url"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/secretstore/internal/errors"
)

// WrapValidationError wraps validation errors as apperrors.ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Base64 validates that a string is standard base64. Empty strings pass; pair with
// validation.Required when needed.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// URLScheme validates that a string parses as a URL with one of schemes. Empty strings pass.
func URLScheme(schemes ...string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_url_type", "must be a string")
		}
		if s == "" {
			return nil
		}
		u, err := url.Parse(s)
		if err != nil {
			return validation.NewError("validation_url", "must be a valid URL")
		}
		for _, scheme := range schemes {
			if u.Scheme == scheme {
				return nil
			}
		}
		return validation.NewError("validation_url_scheme", "has an unsupported scheme")
	})
}

// NonEmptyKeys rejects a map[string]string holding the empty key.
var NonEmptyKeys = validation.By(func(value interface{}) error {
	m, _ := value.(map[string]string)
	if _, ok := m[""]; ok {
		return validation.NewError("validation_empty_key", "keys must not be empty")
	}
	return nil
})
