package database

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchemaPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	schema := "mig_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	config, err := pgxpool.ParseConfig(url)
	require.NoError(t, err)
	config.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, config)
	require.NoError(t, err)
	return pool
}

func TestMigrateReportsVersion(t *testing.T) {
	pool := newSchemaPool(t)
	defer pool.Close()
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "re-running is a no-op")

	version, err := Version(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestVersionFailsOnClosedPool(t *testing.T) {
	pool := newSchemaPool(t)
	require.NoError(t, Migrate(context.Background(), pool))
	pool.Close()

	version, err := Version(context.Background(), pool)

	require.Error(t, err)
	assert.Zero(t, version)
}
