package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/uptrace/bun"

	"github.com/allisson/secretstore/internal/database"
	"github.com/allisson/secretstore/internal/secrets/repository/bunrepo"
)

// RunMigrations applies pending SQL migrations from migrations/<driver> and returns nil
// when the schema is already current. SQLite has no migration files; use
// RunCreateSQLiteSchema for it.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	logger.Info("running database migrations", slog.String("driver", dbDriver))

	migrationsPath := "file://migrations/postgresql"
	if dbDriver == database.DriverMySQL {
		migrationsPath = "file://migrations/mysql"
	}

	// golang-migrate selects its driver from the URL scheme; mysql DSNs carry none.
	databaseURL := dbConnectionString
	if dbDriver == database.DriverMySQL {
		databaseURL = "mysql://" + dbConnectionString
	}

	m, err := migrate.New(migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// RunCreateSQLiteSchema provisions the secrets table through bun. It is idempotent.
func RunCreateSQLiteSchema(ctx context.Context, db bun.IDB, logger *slog.Logger) error {
	logger.Info("creating sqlite schema")

	if err := bunrepo.CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to create sqlite schema: %w", err)
	}

	logger.Info("sqlite schema ready")
	return nil
}
