package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed schema/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema to a PostgreSQL database.
type Migrator struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewMigrator creates a migrator that runs over connections from pool.
func NewMigrator(pool *pgxpool.Pool, logger *zap.Logger) *Migrator {
	return &Migrator{
		pool:   pool,
		logger: logger,
	}
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	m.logger.Info("starting database migrations")

	instance, err := m.instance()
	if err != nil {
		return err
	}
	defer instance.Close()

	err = instance.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("no migrations to apply")

		return nil
	}

	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	m.logger.Info("migrations applied")

	return nil
}

// Version returns the current schema version and whether it is dirty.
func (m *Migrator) Version() (uint, bool, error) {
	instance, err := m.instance()
	if err != nil {
		return 0, false, err
	}
	defer instance.Close()

	return instance.Version()
}

func (m *Migrator) instance() (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "schema")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	driver, err := migratepgx.WithInstance(stdlib.OpenDBFromPool(m.pool), &migratepgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("create pgx migration driver: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return instance, nil
}
