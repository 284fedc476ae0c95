// Package db opens the PostgreSQL database behind the review journal.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	// import db drivers
	_ "github.com/lib/pq"

	"github.com/sevigo/codewise/internal/config"
)

// MigrationsTable records the journal schema version.
const MigrationsTable = "journal_schema_migrations"

const connectTimeout = 5 * time.Second

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB is the journal's connection pool.
type DB struct {
	*sqlx.DB
}

// DSN builds the lib/pq connection string.
func DSN(cfg *config.DBConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
}

// NewDatabase connects to PostgreSQL and brings the journal schema up to date.
// The returned func closes the pool.
func NewDatabase(cfg *config.DBConfig, logger *slog.Logger) (*DB, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	conn, err := sqlx.ConnectContext(ctx, "postgres", DSN(cfg))
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to connect to journal database at %s: %w", cfg.Host, err)
	}
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	version, err := migrateJournal(conn)
	if err != nil {
		_ = conn.Close()
		return nil, func() {}, err
	}
	logger.Info("journal schema ready", "host", cfg.Host, "database", cfg.Database, "version", version)

	return &DB{DB: conn}, func() {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close journal database", "error", err)
		}
	}, nil
}

// migrateJournal applies the embedded migrations and returns the schema
// version. A dirty schema is reported, never forced.
func migrateJournal(conn *sqlx.DB) (uint, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("failed to read journal migrations: %w", err)
	}
	driver, err := postgres.WithInstance(conn.DB, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return 0, fmt.Errorf("failed to prepare journal migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare journal migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to migrate journal schema (fix it, then run 'migrate force <version>'): %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read journal schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("journal schema version %d is dirty", version)
	}
	return version, nil
}
