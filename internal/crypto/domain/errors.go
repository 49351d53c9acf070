package domain

import (
	"github.com/allisson/secretstore/internal/errors"
)

// Cryptographic operation error definitions.
//
// These wrap the standard errors from internal/errors so callers can classify
// failures without depending on this package.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates encrypted content could not be opened.
	//
	// This covers tampered or corrupted ciphertext, content sealed under a different
	// derived key, and malformed envelopes. The specific cause is not reported.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrCryptographerClosed indicates a content key was requested after the master key
	// was released.
	ErrCryptographerClosed = errors.New("content cryptographer is closed")

	// ErrMasterKeyNotSet indicates no master key material was configured.
	ErrMasterKeyNotSet = errors.New("MASTER_KEY is not set")

	// ErrInvalidMasterKeyBase64 indicates the configured master key is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.New("invalid base64 encoding for master key")
)
