// Package migrations holds the SQL schema for each supported dialect and runs it.
package migrations

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// Dialect names a SQL flavour with its own migration directory.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Run performs all pending migrations for the dialect.
func Run(dbx *sqlx.DB, dialect Dialect) error {
	d, err := iofs.New(migrationsFS, string(dialect))
	if err != nil {
		return fmt.Errorf("error creating migrations source: %s", err)
	}

	var (
		instance database.Driver
		name     string
	)
	switch dialect {
	case SQLite:
		instance, err = sqlite.WithInstance(dbx.DB, &sqlite.Config{})
		name = "sqlite3"
	case Postgres:
		instance, err = pgxmigrate.WithInstance(dbx.DB, &pgxmigrate.Config{})
		name = "pgx5"
	default:
		return fmt.Errorf("unknown dialect %q", dialect)
	}
	if err != nil {
		return fmt.Errorf("error creating %s instance for migration: %s", dialect, err)
	}

	migrator, err := migrate.NewWithInstance("iofs", d, name, instance)
	if err != nil {
		return fmt.Errorf("error creating migrator: %s", err)
	}
	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("error migrating: %s", err)
	}
	slog.Info("migrated", "dialect", dialect)

	return nil
}
