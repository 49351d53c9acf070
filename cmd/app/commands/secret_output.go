package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
)

// secretOutput is the JSON shape of a secret. Content is base64 encoded by encoding/json.
type secretOutput struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Content     []byte            `json:"content,omitempty"`
	Creator     string            `json:"creator,omitempty"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata"`
	Tags        map[string]string `json:"tags"`
	Expiry      *time.Time        `json:"expiry,omitempty"`
	Expired     bool              `json:"expired"`
	CreatedAt   time.Time         `json:"created_at"`
}

func newSecretOutput(secret *secretsDomain.Secret, now time.Time) secretOutput {
	return secretOutput{
		ID:          secret.ID,
		Name:        secret.Name,
		Version:     secret.Version.String(),
		Content:     secret.Content,
		Creator:     secret.Creator,
		Description: secret.Description,
		Metadata:    secret.Metadata,
		Tags:        secret.Tags,
		Expiry:      secret.Expiry,
		Expired:     secret.IsExpired(now),
		CreatedAt:   secret.CreatedAt,
	}
}

func versionLabel(version secretsDomain.Version) string {
	if !version.IsSet() {
		return "(unversioned)"
	}
	return version.String()
}

// writeSecretText prints secret as aligned key: value lines. Content is printed verbatim
// and only when includeContent is set.
func writeSecretText(w io.Writer, secret *secretsDomain.Secret, now time.Time, includeContent bool) {
	_, _ = fmt.Fprintf(w, "ID:          %d\n", secret.ID)
	_, _ = fmt.Fprintf(w, "Name:        %s\n", secret.Name)
	_, _ = fmt.Fprintf(w, "Version:     %s\n", versionLabel(secret.Version))
	if secret.Creator != "" {
		_, _ = fmt.Fprintf(w, "Creator:     %s\n", secret.Creator)
	}
	if secret.Description != "" {
		_, _ = fmt.Fprintf(w, "Description: %s\n", secret.Description)
	}
	writeMapText(w, "Metadata:", secret.Metadata)
	writeMapText(w, "Tags:", secret.Tags)
	if secret.Expiry != nil {
		_, _ = fmt.Fprintf(w, "Expiry:      %s", secret.Expiry.Format(time.RFC3339))
		if secret.IsExpired(now) {
			_, _ = fmt.Fprint(w, " (expired)")
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintf(w, "Created At:  %s\n", secret.CreatedAt.Format(time.RFC3339))
	if includeContent {
		_, _ = fmt.Fprintf(w, "Content:     %s\n", secret.Content)
	}
}

func writeMapText(w io.Writer, label string, values map[string]string) {
	if len(values) == 0 {
		return
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	_, _ = fmt.Fprintln(w, label)
	for _, key := range keys {
		_, _ = fmt.Fprintf(w, "  %s=%s\n", key, values[key])
	}
}
