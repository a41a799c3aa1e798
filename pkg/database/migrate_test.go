package database

import (
	"context"
	"io"
	"io/fs"
	"net/url"
	"testing"

	"trainer-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationSourceVersions(t *testing.T) {
	src, err := MigrationSource()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, identifier, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "init", identifier)

	body, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE EXTENSION IF NOT EXISTS btree_gist")
	assert.Contains(t, string(body), "bookings_no_overlap")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	defer down.Close()
	body, err = io.ReadAll(down)
	require.NoError(t, err)
	assert.Contains(t, string(body), "DROP TABLE IF EXISTS bookings")

	_, err = src.Next(first)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMigrationURL(t *testing.T) {
	raw := MigrationURL(utils.DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		Name:     "trainer",
		User:     "app",
		Password: "p@ss/word",
	})

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "pgx5", parsed.Scheme)
	assert.Equal(t, "db.internal:5433", parsed.Host)
	assert.Equal(t, "/trainer", parsed.Path)
	assert.Equal(t, "app", parsed.User.Username())
	password, _ := parsed.User.Password()
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
}

func TestMigrateReportsUnreachableDatabase(t *testing.T) {
	err := Migrate(context.Background(), utils.DatabaseConfig{
		Host: "127.0.0.1",
		Port: "1",
		Name: "trainer",
		User: "app",
	}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open migration target")
}
