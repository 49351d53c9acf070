package service

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/secretstore/internal/crypto/domain"
)

// derivationLabel separates content keys from any other HKDF output of the same master key.
const derivationLabel = "secretstore/content-key/v1:"

// HKDFContentCryptographer derives one content key per secret name with HKDF-SHA256 and
// seals content with the configured AEAD algorithm.
//
// The master key is copied at construction and only read until Close, so a single
// instance can be shared by any number of goroutines.
type HKDFContentCryptographer struct {
	mu          sync.RWMutex
	closed      bool
	masterKey   []byte
	algorithm   cryptoDomain.Algorithm
	aeadManager AEADManager
}

// NewContentCryptographer creates a cryptographer bound to masterKey.
// The algorithm is used for new envelopes; existing envelopes are opened with the
// algorithm they record.
func NewContentCryptographer(
	masterKey *cryptoDomain.MasterKey,
	algorithm cryptoDomain.Algorithm,
	aeadManager AEADManager,
) (*HKDFContentCryptographer, error) {
	if masterKey == nil || len(masterKey.Key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if _, err := cryptoDomain.ParseAlgorithm(string(algorithm)); err != nil {
		return nil, err
	}

	key := make([]byte, len(masterKey.Key))
	copy(key, masterKey.Key)

	return &HKDFContentCryptographer{
		masterKey:   key,
		algorithm:   algorithm,
		aeadManager: aeadManager,
	}, nil
}

// KeyDerivedFrom returns the key handle for name.
func (c *HKDFContentCryptographer) KeyDerivedFrom(name string) KeyHandle {
	key, err := c.derive(name)
	return &derivedKey{
		name:        name,
		key:         key,
		err:         err,
		algorithm:   c.algorithm,
		aeadManager: c.aeadManager,
	}
}

// Close zeroes the cryptographer's copy of the master key. Handles derived afterwards
// fail with cryptoDomain.ErrCryptographerClosed. Close is idempotent.
func (c *HKDFContentCryptographer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	cryptoDomain.Zero(c.masterKey)
	c.masterKey = nil
}

func (c *HKDFContentCryptographer) derive(name string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, cryptoDomain.ErrCryptographerClosed
	}
	reader := hkdf.New(sha256.New, c.masterKey, nil, []byte(derivationLabel+name))
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive content key: %w", err)
	}
	return key, nil
}

// derivedKey is the KeyHandle for a single secret name. The name doubles as associated
// data, so an envelope moved onto a row with another name fails authentication even
// before the key mismatch is considered.
type derivedKey struct {
	name        string
	key         []byte
	err         error
	algorithm   cryptoDomain.Algorithm
	aeadManager AEADManager
}

// Encrypt seals plaintext into an encoded envelope.
func (d *derivedKey) Encrypt(plaintext []byte) (string, error) {
	if d.err != nil {
		return "", d.err
	}

	aead, err := d.aeadManager.CreateCipher(d.key, d.algorithm)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, []byte(d.name))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt content: %w", err)
	}

	envelope := cryptoDomain.EncryptedContent{
		DerivationInfo: d.name,
		Algorithm:      d.algorithm,
		Nonce:          nonce,
		Content:        ciphertext,
	}
	return envelope.Encode()
}

// Decrypt opens an encoded envelope.
func (d *derivedKey) Decrypt(encrypted string) ([]byte, error) {
	if d.err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrDecryptionFailed, d.err)
	}

	envelope, err := cryptoDomain.DecodeEncryptedContent(encrypted)
	if err != nil {
		return nil, err
	}
	if envelope.DerivationInfo != d.name {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	aead, err := d.aeadManager.CreateCipher(d.key, envelope.Algorithm)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := aead.Decrypt(envelope.Content, envelope.Nonce, []byte(d.name))
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
