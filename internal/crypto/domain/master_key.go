package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// KMSKeeper is the subset of a gocloud.dev secrets.Keeper used to unwrap the master key.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// MasterKey is the root secret from which every per-secret content key is derived.
//
// The key is supplied by an external keying source, either directly as base64 or as a
// KMS ciphertext. It is read-only after loading and must never be logged or persisted.
type MasterKey struct {
	Key []byte
}

// Close zeroes the key material.
func (m *MasterKey) Close() {
	if m == nil {
		return
	}
	Zero(m.Key)
	m.Key = nil
}

// LoadMasterKey decodes the configured master key.
//
// When keeper is nil, encoded must be the base64 form of KeySize raw bytes. Otherwise
// encoded is the base64 form of a KMS ciphertext, which is decrypted through keeper.
// Intermediate buffers are zeroed before returning.
func LoadMasterKey(ctx context.Context, encoded string, keeper KMSKeeper) (*MasterKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrMasterKeyNotSet
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}

	key := decoded
	if keeper != nil {
		key, err = keeper.Decrypt(ctx, decoded)
		Zero(decoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt master key with KMS: %w", err)
		}
	}

	if len(key) != KeySize {
		Zero(key)
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}

	return &MasterKey{Key: key}, nil
}
