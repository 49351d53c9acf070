// Package service provides the cryptographic services behind secret content:
// AEAD ciphers, per-name key derivation and master key unwrapping through a KMS.
package service

import (
	cryptoDomain "github.com/allisson/secretstore/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyHandle seals and opens secret content under one derived key.
type KeyHandle interface {
	// Encrypt seals plaintext and returns the encoded envelope. Two calls with the same
	// plaintext return different envelopes.
	Encrypt(plaintext []byte) (string, error)

	// Decrypt opens an envelope produced by Encrypt on a handle for the same name.
	// Any failure is reported as cryptoDomain.ErrDecryptionFailed.
	Decrypt(encrypted string) ([]byte, error)
}

// ContentCryptographer derives per-secret key handles from a secret name.
type ContentCryptographer interface {
	// KeyDerivedFrom returns the handle for name. The same name always yields the same
	// key material for the lifetime of the master key.
	KeyDerivedFrom(name string) KeyHandle
}
