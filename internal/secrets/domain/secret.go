// Package domain defines the core domain models and types for secret management.
// Secrets are immutable and versioned: each (name, version) pair is a separate row,
// and a new revision is always a new row rather than an update.
package domain

import (
	"maps"
	"time"
)

// Secret is a decrypted, fully materialized secret version.
type Secret struct {
	// ID is the backend-assigned identifier of this row.
	ID int64
	// Name is the logical secret name; also the key derivation input.
	Name string
	// Version distinguishes revisions of the same name.
	Version Version
	// Content is the decrypted secret value; never serialized.
	Content []byte `json:"-"`
	// Creator identifies the principal that created this version.
	Creator string
	// Metadata holds arbitrary string attributes.
	Metadata map[string]string
	// Description is free text and may be empty.
	Description string
	// Expiry is nil when the secret never expires.
	Expiry *time.Time
	// Tags holds grouping and ownership attributes.
	Tags map[string]string
	// CreatedAt is the UTC timestamp when the row was written.
	CreatedAt time.Time
}

// SecretRow is the persisted form of a Secret. It carries the encrypted envelope
// instead of plaintext and is owned by the persistence backend.
type SecretRow struct {
	ID               int64
	Name             string
	Version          Version
	EncryptedContent string
	Creator          string
	Metadata         map[string]string
	Description      string
	Expiry           *time.Time
	Tags             map[string]string
	CreatedAt        time.Time
}

// IsExpired reports whether the secret has an expiry at or before now.
func (s *Secret) IsExpired(now time.Time) bool {
	return s.Expiry != nil && !s.Expiry.After(now)
}

// CloneMap returns a non-nil copy of m.
func CloneMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}
