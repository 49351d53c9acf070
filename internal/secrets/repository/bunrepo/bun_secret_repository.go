// Package bunrepo implements secret persistence on top of the bun query builder.
// It serves PostgreSQL, MySQL and SQLite through bun's dialects with the same code.
package bunrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/allisson/secretstore/internal/database"
	apperrors "github.com/allisson/secretstore/internal/errors"
	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
)

// secretRecord is the bun model for the secrets table.
type secretRecord struct {
	bun.BaseModel `bun:"table:secrets,alias:s"`

	ID               int64             `bun:"id,pk,autoincrement"`
	Name             string            `bun:"name,notnull,unique:secrets_name_version_key"`
	Version          string            `bun:"version,notnull,unique:secrets_name_version_key"`
	EncryptedContent string            `bun:"encrypted_content,notnull"`
	Creator          string            `bun:"creator,notnull"`
	Metadata         map[string]string `bun:"metadata,notnull"`
	Description      string            `bun:"description,notnull"`
	Tags             map[string]string `bun:"tags,notnull"`
	Expiry           *time.Time        `bun:"expiry,nullzero"`
	CreatedAt        time.Time         `bun:"created_at,notnull"`
}

func newSecretRecord(row *secretsDomain.SecretRow) *secretRecord {
	return &secretRecord{
		Name:             row.Name,
		Version:          row.Version.String(),
		EncryptedContent: row.EncryptedContent,
		Creator:          row.Creator,
		Metadata:         secretsDomain.CloneMap(row.Metadata),
		Description:      row.Description,
		Tags:             secretsDomain.CloneMap(row.Tags),
		Expiry:           row.Expiry,
		CreatedAt:        row.CreatedAt,
	}
}

func (r *secretRecord) toRow() *secretsDomain.SecretRow {
	var expiry *time.Time
	if r.Expiry != nil {
		t := r.Expiry.UTC()
		expiry = &t
	}

	return &secretsDomain.SecretRow{
		ID:               r.ID,
		Name:             r.Name,
		Version:          secretsDomain.ParseVersion(r.Version),
		EncryptedContent: r.EncryptedContent,
		Creator:          r.Creator,
		Metadata:         secretsDomain.CloneMap(r.Metadata),
		Description:      r.Description,
		Expiry:           expiry,
		Tags:             secretsDomain.CloneMap(r.Tags),
		CreatedAt:        r.CreatedAt.UTC(),
	}
}

// CreateSchema creates the secrets table and its indexes when they do not exist.
// PostgreSQL and MySQL deployments use the SQL migrations instead; this is how SQLite
// databases are provisioned.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*secretRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secrets table")
	}

	_, err = db.NewCreateIndex().
		Model((*secretRecord)(nil)).
		Index("secrets_name_idx").
		Column("name").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secrets name index")
	}

	return nil
}

// BunSecretRepository implements SecretRow persistence with bun.
type BunSecretRepository struct {
	db bun.IDB
}

// Create inserts a new row and returns the id assigned by the database.
func (b *BunSecretRepository) Create(ctx context.Context, row *secretsDomain.SecretRow) (int64, error) {
	record := newSecretRecord(row)

	if _, err := b.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			return 0, apperrors.WrapWith(secretsDomain.ErrSecretConflict, err, "failed to create secret")
		}
		return 0, apperrors.WrapWith(secretsDomain.ErrSecretPersistence, err, "failed to create secret")
	}

	return record.ID, nil
}

// GetByIDAndVersion retrieves the row with the given id and version.
func (b *BunSecretRepository) GetByIDAndVersion(
	ctx context.Context,
	id int64,
	version secretsDomain.Version,
) (*secretsDomain.SecretRow, error) {
	var record secretRecord
	err := b.db.NewSelect().
		Model(&record).
		Where("s.id = ?", id).
		Where("s.version = ?", version.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapReadError(err, "failed to get secret by id and version")
	}
	return record.toRow(), nil
}

// GetByNameAndVersion retrieves the row with the given name and version.
func (b *BunSecretRepository) GetByNameAndVersion(
	ctx context.Context,
	name string,
	version secretsDomain.Version,
) (*secretsDomain.SecretRow, error) {
	var record secretRecord
	err := b.db.NewSelect().
		Model(&record).
		Where("s.name = ?", name).
		Where("s.version = ?", version.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapReadError(err, "failed to get secret by name and version")
	}
	return record.toRow(), nil
}

// ListByName retrieves every version stored under name, oldest first.
func (b *BunSecretRepository) ListByName(
	ctx context.Context,
	name string,
) ([]*secretsDomain.SecretRow, error) {
	var records []secretRecord
	err := b.db.NewSelect().
		Model(&records).
		Where("s.name = ?", name).
		Order("s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrapReadError(err, "failed to list secrets by name")
	}

	rows := make([]*secretsDomain.SecretRow, 0, len(records))
	for i := range records {
		rows = append(rows, records[i].toRow())
	}
	return rows, nil
}

// NewBunSecretRepository creates a new bun secret repository instance.
func NewBunSecretRepository(db bun.IDB) *BunSecretRepository {
	return &BunSecretRepository{db: db}
}

func wrapReadError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return secretsDomain.ErrSecretNotFound
	}
	return apperrors.WrapWith(secretsDomain.ErrSecretPersistence, err, message)
}
