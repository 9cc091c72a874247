package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Anvoria/dashboard/internal/config"
)

//go:embed sql/*.sql
var migrationFS embed.FS

func newMigrate(cfg *config.Config) (*migrate.Migrate, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	source, err := iofs.New(migrationFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration files: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending migrations. Being up to date is not an error.
func RunMigrations(cfg *config.Config) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if version, dirty, err := m.Version(); err == nil {
		slog.Info("Database schema ready", "version", version, "dirty", dirty)
	}
	return nil
}

// Rollback reverts the most recent migration.
func Rollback(cfg *config.Config) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}
