package db

import (
	"io"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewise/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.DBConfig{Host: "db.local", Port: 5433, Username: "warden", Password: "pw", Database: "codewise"}
	assert.Equal(t, "host=db.local port=5433 user=warden password=pw dbname=codewise sslmode=disable", DSN(cfg))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_reviews.up.sql")
	assert.Contains(t, names, "000001_create_reviews.down.sql")

	up, err := fs.ReadFile(migrationsFS, "migrations/000001_create_reviews.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS reviews")
}

func TestMigrationsApplyInOrder(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "create_reviews", ident)
}

func TestNewDatabaseUnreachable(t *testing.T) {
	cfg := &config.DBConfig{Host: "127.0.0.1", Port: 1, Username: "u", Password: "p", Database: "d"}
	_, cleanup, err := NewDatabase(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal database")
	require.NotNil(t, cleanup)
	cleanup()
}
