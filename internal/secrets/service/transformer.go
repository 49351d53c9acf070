// Package service provides stateless helpers for secret rows, most notably the
// transformer that turns a persisted row into a decrypted domain Secret.
package service

import (
	"time"

	cryptoDomain "github.com/allisson/secretstore/internal/crypto/domain"
	cryptoService "github.com/allisson/secretstore/internal/crypto/service"
	apperrors "github.com/allisson/secretstore/internal/errors"
	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
)

// Transformer converts persisted rows into domain secrets.
type Transformer struct {
	cryptographer cryptoService.ContentCryptographer
}

// NewTransformer creates a Transformer that decrypts with cryptographer.
func NewTransformer(cryptographer cryptoService.ContentCryptographer) *Transformer {
	return &Transformer{cryptographer: cryptographer}
}

// Transform decrypts row.EncryptedContent with the key derived from row.Name and
// returns a Secret carrying every row field. The row is not modified.
//
// A row that cannot be decrypted means corrupted data or a derivation mismatch; the
// error always matches cryptoDomain.ErrDecryptionFailed.
func (t *Transformer) Transform(row *secretsDomain.SecretRow) (*secretsDomain.Secret, error) {
	content, err := t.cryptographer.KeyDerivedFrom(row.Name).Decrypt(row.EncryptedContent)
	if err != nil {
		if !apperrors.Is(err, cryptoDomain.ErrDecryptionFailed) {
			err = apperrors.WrapWith(cryptoDomain.ErrDecryptionFailed, err, "failed to decrypt secret content")
		}
		return nil, err
	}

	secret := TransformWithoutContent(row)
	secret.Content = content
	return secret, nil
}

// TransformWithoutContent maps a row to a Secret leaving Content empty. It is used for
// listings where plaintext is not needed.
func TransformWithoutContent(row *secretsDomain.SecretRow) *secretsDomain.Secret {
	var expiry *time.Time
	if row.Expiry != nil {
		e := *row.Expiry
		expiry = &e
	}

	return &secretsDomain.Secret{
		ID:          row.ID,
		Name:        row.Name,
		Version:     row.Version,
		Creator:     row.Creator,
		Metadata:    secretsDomain.CloneMap(row.Metadata),
		Description: row.Description,
		Expiry:      expiry,
		Tags:        secretsDomain.CloneMap(row.Tags),
		CreatedAt:   row.CreatedAt,
	}
}
