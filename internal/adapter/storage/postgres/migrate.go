package postgres

import (
	"errors"
	"fmt"

	"ricemill-erp/config"
	"ricemill-erp/internal/adapter/storage/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// RunMigrations applies ("up") or rolls back ("down") the embedded schema.
func RunMigrations(cfg config.DatabaseConfig, direction string) error {
	m, closeFn, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	switch direction {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("run migrations: %w", err)
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("rollback migrations: %w", err)
		}
	default:
		return fmt.Errorf("invalid migration direction: %s (must be 'up' or 'down')", direction)
	}
	return nil
}

// MigrationVersion returns the applied schema version.
func MigrationVersion(cfg config.DatabaseConfig) (uint, bool, error) {
	m, closeFn, err := newMigrator(cfg)
	if err != nil {
		return 0, false, err
	}
	defer closeFn()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, fmt.Errorf("get migration version: %w", err)
	}
	return version, dirty, nil
}

func newMigrator(cfg config.DatabaseConfig) (*migrate.Migrate, func(), error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("parse database config: %w", err)
	}
	db := stdlib.OpenDB(*connCfg)

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		db.Close()
		return nil, nil, &ConnectionError{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Err: err}
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create migration instance: %w", err)
	}

	return m, func() { m.Close() }, nil
}
