package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/user/*.sql
var userMigrations embed.FS

//go:embed migrations/system/*.sql
var systemMigrations embed.FS

// MigrateUser brings a per-user ledger database up to the current schema.
func MigrateUser(conn *sqlx.DB) error {
	return runMigrations(conn, userMigrations, "migrations/user")
}

// MigrateSystem brings the shared accounts database up to the current schema.
func MigrateSystem(conn *sqlx.DB) error {
	return runMigrations(conn, systemMigrations, "migrations/system")
}

func runMigrations(conn *sqlx.DB, fs embed.FS, dir string) error {
	source, err := iofs.New(fs, dir)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(conn.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
