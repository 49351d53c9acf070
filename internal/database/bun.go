package database

import (
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"
)

// ConnectBun wraps an open connection in a bun.DB using the dialect for driver.
// When debug is true every query is printed through bundebug.
func ConnectBun(sqlDB *sql.DB, driver string, debug bool) (*bun.DB, error) {
	dialect, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqlDB, dialect)
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

func dialectFor(driver string) (schema.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return pgdialect.New(), nil
	case DriverMySQL:
		return mysqldialect.New(), nil
	case DriverSQLite:
		return sqlitedialect.New(), nil
	default:
		return nil, fmt.Errorf("unsupported bun dialect for driver %q", driver)
	}
}
