package migrate

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/angelmondragon/packfinderz-cart/pkg/config"
	"github.com/angelmondragon/packfinderz-cart/pkg/db"
	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, Validate())
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	bad := fstest.MapFS{
		"migrations/create_things.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, ValidateFS(bad, "migrations"))

	missingDown := fstest.MapFS{
		"migrations/20260101000000_things.sql": {Data: []byte("-- +goose Up\n")},
	}
	assert.Error(t, ValidateFS(missingDown, "migrations"))

	dup := fstest.MapFS{
		"migrations/20260101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"migrations/20260101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, ValidateFS(dup, "migrations"))
}

func TestDialect(t *testing.T) {
	got, err := Dialect(config.StorageDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", got)

	got, err = Dialect(config.StorageDriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "postgres", got)

	_, err = Dialect(config.StorageDriverRedis)
	assert.Error(t, err)
}

func TestMaybeRunCreatesCartTableOnSQLite(t *testing.T) {
	ctx := context.Background()
	client, err := db.New(ctx, config.StorageConfig{
		Driver:     config.StorageDriverSQLite,
		SQLitePath: "file:migrate_test?mode=memory&cache=shared",
	}, config.DBConfig{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		App:     config.AppConfig{Env: "prod"},
		Storage: config.StorageConfig{Driver: config.StorageDriverSQLite, AutoMigrate: true},
	}
	require.NoError(t, MaybeRun(ctx, cfg, logger.Nop(), client))

	assert.True(t, client.DB().Migrator().HasTable("cart_kv_entries"))
}

func TestMaybeRunSkipsWhenDisabled(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "prod"}}
	require.NoError(t, MaybeRun(context.Background(), cfg, logger.Nop(), nil))
}
