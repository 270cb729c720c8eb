package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	"github.com/angelmondragon/ayurcart-backend/pkg/db"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func sqliteClient(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db.Wrap(conn)
}

func TestRunDBSyncsSQLiteFromModels(t *testing.T) {
	client := sqliteClient(t)
	require.Equal(t, db.DialectSQLite, client.Dialect())

	err := runDB(context.Background(), client, logger.Nop(), options{cmd: "up"}, false)
	require.NoError(t, err)
	for _, model := range models.All() {
		assert.True(t, client.DB().Migrator().HasTable(model), "%T", model)
	}
}

func TestRunDBRejectsGooseCommandsOnSQLite(t *testing.T) {
	client := sqliteClient(t)
	ctx := context.Background()

	for _, opts := range []options{
		{cmd: "down"},
		{cmd: "status"},
		{cmd: "version", version: "20260105090000"},
		{cmd: "version"},
		{cmd: "sideways"},
	} {
		err := runDB(ctx, client, logger.Nop(), opts, false)
		require.ErrorIs(t, err, errUsage, "cmd %s", opts.cmd)
	}

	err := runDB(ctx, client, logger.Nop(), options{cmd: "version"}, false)
	assert.Contains(t, err.Error(), "missing -version")
	err = runDB(ctx, client, logger.Nop(), options{cmd: "sideways"}, false)
	assert.Contains(t, err.Error(), "unknown -cmd")
}

func TestRunOfflineCommands(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	dir := t.TempDir()

	require.ErrorIs(t, run(ctx, cfg, logger.Nop(), options{cmd: "create", dir: dir}), errUsage)

	require.NoError(t, run(ctx, cfg, logger.Nop(), options{cmd: "create", dir: dir, name: "add wishlist"}))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "add_wishlist")

	require.NoError(t, run(ctx, cfg, logger.Nop(), options{cmd: "validate", dir: filepath.Join("..", "..", "pkg", "migrate", "migrations")}))
}
