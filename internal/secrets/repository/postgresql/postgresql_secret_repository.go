// Package postgresql implements secret persistence for PostgreSQL with database/sql.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/allisson/secretstore/internal/database"
	apperrors "github.com/allisson/secretstore/internal/errors"
	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
)

const selectColumns = `SELECT id, name, version, encrypted_content, creator, metadata, description,
			  tags, expiry, created_at
			  FROM secrets`

// PostgreSQLSecretRepository implements SecretRow persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// Create inserts a new row and returns the id assigned by the database.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, row *secretsDomain.SecretRow) (int64, error) {
	metadata, tags, err := encodeMaps(row)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO secrets (name, version, encrypted_content, creator, metadata, description,
			  tags, expiry, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`

	var id int64
	err = p.db.QueryRowContext(
		ctx,
		query,
		row.Name,
		row.Version,
		row.EncryptedContent,
		row.Creator,
		metadata,
		row.Description,
		tags,
		row.Expiry,
		row.CreatedAt,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, apperrors.WrapWith(secretsDomain.ErrSecretConflict, err, "failed to create secret")
		}
		return 0, apperrors.WrapWith(secretsDomain.ErrSecretPersistence, err, "failed to create secret")
	}

	return id, nil
}

// GetByIDAndVersion retrieves the row with the given id and version.
func (p *PostgreSQLSecretRepository) GetByIDAndVersion(
	ctx context.Context,
	id int64,
	version secretsDomain.Version,
) (*secretsDomain.SecretRow, error) {
	query := selectColumns + ` WHERE id = $1 AND version = $2`

	row, err := scanSecretRow(p.db.QueryRowContext(ctx, query, id, version))
	if err != nil {
		return nil, wrapReadError(err, "failed to get secret by id and version")
	}
	return row, nil
}

// GetByNameAndVersion retrieves the row with the given name and version.
func (p *PostgreSQLSecretRepository) GetByNameAndVersion(
	ctx context.Context,
	name string,
	version secretsDomain.Version,
) (*secretsDomain.SecretRow, error) {
	query := selectColumns + ` WHERE name = $1 AND version = $2`

	row, err := scanSecretRow(p.db.QueryRowContext(ctx, query, name, version))
	if err != nil {
		return nil, wrapReadError(err, "failed to get secret by name and version")
	}
	return row, nil
}

// ListByName retrieves every version stored under name, oldest first.
func (p *PostgreSQLSecretRepository) ListByName(
	ctx context.Context,
	name string,
) ([]*secretsDomain.SecretRow, error) {
	query := selectColumns + ` WHERE name = $1 ORDER BY id ASC`

	rows, err := p.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, wrapReadError(err, "failed to list secrets by name")
	}
	defer func() {
		_ = rows.Close()
	}()

	secretRows := make([]*secretsDomain.SecretRow, 0)
	for rows.Next() {
		row, err := scanSecretRow(rows)
		if err != nil {
			return nil, wrapReadError(err, "failed to scan secret")
		}
		secretRows = append(secretRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapReadError(err, "failed to iterate secrets")
	}

	return secretRows, nil
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSecretRow(s scanner) (*secretsDomain.SecretRow, error) {
	var (
		row            secretsDomain.SecretRow
		metadata, tags []byte
		expiry         sql.NullTime
	)

	err := s.Scan(
		&row.ID,
		&row.Name,
		&row.Version,
		&row.EncryptedContent,
		&row.Creator,
		&metadata,
		&row.Description,
		&tags,
		&expiry,
		&row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if row.Metadata, err = decodeMap(metadata); err != nil {
		return nil, err
	}
	if row.Tags, err = decodeMap(tags); err != nil {
		return nil, err
	}
	if expiry.Valid {
		t := expiry.Time.UTC()
		row.Expiry = &t
	}
	row.CreatedAt = row.CreatedAt.UTC()

	return &row, nil
}

// encodeMaps serializes metadata and tags as JSON documents. Text is returned rather
// than bytes so the driver does not send them as binary.
func encodeMaps(row *secretsDomain.SecretRow) (metadata, tags string, err error) {
	rawMetadata, err := json.Marshal(secretsDomain.CloneMap(row.Metadata))
	if err != nil {
		return "", "", apperrors.WrapWith(secretsDomain.ErrSecretPersistence, err, "failed to encode metadata")
	}
	rawTags, err := json.Marshal(secretsDomain.CloneMap(row.Tags))
	if err != nil {
		return "", "", apperrors.WrapWith(secretsDomain.ErrSecretPersistence, err, "failed to encode tags")
	}
	return string(rawMetadata), string(rawTags), nil
}

func decodeMap(raw []byte) (map[string]string, error) {
	m := map[string]string{}
	if len(raw) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func wrapReadError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return secretsDomain.ErrSecretNotFound
	}
	return apperrors.WrapWith(secretsDomain.ErrSecretPersistence, err, message)
}
