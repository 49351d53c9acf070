package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// EncryptedContent is the self-describing envelope persisted in place of plaintext.
//
// It records the derivation input (the secret name) and the algorithm next to the
// nonce and sealed bytes, so a row can be opened later without consulting anything
// but the master key.
type EncryptedContent struct {
	DerivationInfo string    `json:"derivation_info"`
	Algorithm      Algorithm `json:"algorithm"`
	Nonce          []byte    `json:"nonce"`
	Content        []byte    `json:"content"`
}

// Encode serializes the envelope as base64 of its JSON form.
func (e *EncryptedContent) Encode() (string, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to encode encrypted content: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeEncryptedContent parses an envelope produced by Encode.
// Only the exact bytes Encode emits are accepted; any other spelling of the same
// envelope and any malformed input are reported as ErrDecryptionFailed.
func DecodeEncryptedContent(encoded string) (*EncryptedContent, error) {
	raw, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	var envelope EncryptedContent
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(envelope.Nonce) == 0 || len(envelope.Content) == 0 {
		return nil, ErrDecryptionFailed
	}
	if canonical, err := envelope.Encode(); err != nil || canonical != encoded {
		return nil, ErrDecryptionFailed
	}

	return &envelope, nil
}
