package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/secretstore/internal/errors"
)

func TestVersion(t *testing.T) {
	t.Run("unversioned", func(t *testing.T) {
		v := Unversioned()
		assert.False(t, v.IsSet())
		assert.Equal(t, "", v.String())
		assert.Equal(t, Version{}, v)
	})

	t.Run("explicit version", func(t *testing.T) {
		v, err := NewVersion("1")
		require.NoError(t, err)
		assert.True(t, v.IsSet())
		assert.Equal(t, "1", v.String())
	})

	t.Run("empty tag is rejected", func(t *testing.T) {
		_, err := NewVersion("")
		assert.ErrorIs(t, err, ErrEmptyVersion)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Panics(t, func() { MustVersion("") })
	})

	t.Run("parse", func(t *testing.T) {
		assert.Equal(t, Unversioned(), ParseVersion(""))
		assert.Equal(t, MustVersion("2"), ParseVersion("2"))
	})

	t.Run("sql value and scan", func(t *testing.T) {
		value, err := MustVersion("3").Value()
		require.NoError(t, err)
		assert.Equal(t, "3", value)

		value, err = Unversioned().Value()
		require.NoError(t, err)
		assert.Equal(t, "", value)

		var v Version
		require.NoError(t, v.Scan([]byte("4")))
		assert.Equal(t, MustVersion("4"), v)
		require.NoError(t, v.Scan(""))
		assert.Equal(t, Unversioned(), v)
		require.NoError(t, v.Scan(nil))
		assert.Equal(t, Unversioned(), v)
		assert.Error(t, v.Scan(42))
	})

	t.Run("json", func(t *testing.T) {
		raw, err := json.Marshal(struct{ Version Version }{MustVersion("5")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"Version":"5"}`, string(raw))

		var decoded struct{ Version Version }
		require.NoError(t, json.Unmarshal([]byte(`{"Version":""}`), &decoded))
		assert.False(t, decoded.Version.IsSet())
	})
}

func TestSecret_IsExpired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&Secret{}).IsExpired(now))
	assert.True(t, (&Secret{Expiry: &past}).IsExpired(now))
	assert.True(t, (&Secret{Expiry: &now}).IsExpired(now))
	assert.False(t, (&Secret{Expiry: &future}).IsExpired(now))
}

func TestCloneMap(t *testing.T) {
	assert.Equal(t, map[string]string{}, CloneMap(nil))

	original := map[string]string{"owner": "payments"}
	clone := CloneMap(original)
	clone["owner"] = "other"
	assert.Equal(t, "payments", original["owner"])
}

func TestCreateSecretInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateSecretInput
		wantErr string
	}{
		{
			name:  "minimal",
			input: CreateSecretInput{Name: "db-pass", Content: []byte("s3cr3t")},
		},
		{
			name: "full",
			input: CreateSecretInput{
				Name:        "db-pass",
				Content:     []byte("s3cr3t"),
				Version:     MustVersion("1"),
				Creator:     "alice",
				Metadata:    map[string]string{"mode": "0400"},
				Description: "primary database password",
				Tags:        map[string]string{"team": "payments"},
			},
		},
		{
			name:    "missing name",
			input:   CreateSecretInput{Content: []byte("s3cr3t")},
			wantErr: "Name",
		},
		{
			name:    "name too long",
			input:   CreateSecretInput{Name: strings.Repeat("a", MaxNameLength+1)},
			wantErr: "Name",
		},
		{
			name:    "creator too long",
			input:   CreateSecretInput{Name: "db-pass", Creator: strings.Repeat("a", MaxCreatorLength+1)},
			wantErr: "Creator",
		},
		{
			name:    "version too long",
			input:   CreateSecretInput{Name: "db-pass", Version: MustVersion(strings.Repeat("9", MaxVersionLength+1))},
			wantErr: "Version",
		},
		{
			name:    "empty metadata key",
			input:   CreateSecretInput{Name: "db-pass", Metadata: map[string]string{"": "x"}},
			wantErr: "Metadata",
		},
		{
			name:    "empty tag key",
			input:   CreateSecretInput{Name: "db-pass", Tags: map[string]string{"": "x"}},
			wantErr: "Tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
