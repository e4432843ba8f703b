package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/agrodesk/farmers-api/internal/app"
	"github.com/agrodesk/farmers-api/internal/config"
	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(yieldDSN, farmersDSN string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{
			Type:        "sqlite",
			AutoMigrate: true,
			Yield: config.StoreConfig{
				DSN:            yieldDSN,
				MigrationsPath: "../../migrations/sqlite/yield",
			},
			Farmers: config.StoreConfig{
				DSN:            farmersDSN,
				MigrationsPath: "../../migrations/sqlite/farmers",
			},
		},
	}
}

func newTestContainer(t *testing.T, cfg *config.Config) *app.Container {
	t.Helper()
	c, err := app.NewContainer(cfg, app.WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewContainer(t *testing.T) {
	c := newTestContainer(t, testConfig(":memory:", ":memory:"))

	// Assert that all fields are initialized
	assert.NotNil(t, c.YieldDB)
	assert.NotNil(t, c.FarmersDB)
	assert.NotNil(t, c.FarmerRepo)
	assert.NotNil(t, c.YieldRepo)
	assert.NotNil(t, c.FarmerSvc)
	assert.NotNil(t, c.YieldSvc)
	assert.NotNil(t, c.Metrics)
	assert.NotNil(t, c.Gatherer)
	assert.False(t, c.StartedAt.IsZero())

	for name, conn := range c.Databases() {
		assert.NoError(t, conn.Ping(), name)
	}

	// The two stores are separate databases
	_, err := c.FarmersDB.Exec("SELECT Date FROM yield_history")
	assert.Error(t, err)
	_, err = c.YieldDB.Exec("SELECT id FROM farmers")
	assert.Error(t, err)
}

func TestContainer_ServicesAreWired(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, testConfig(":memory:", ":memory:"))

	id, err := c.FarmerSvc.Create(ctx, domain.NewFarmer{Name: "Wanjiru", CropType: "tea"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	n, err := c.YieldSvc.Import(ctx, []domain.YieldRecord{{Date: "2024-03-01", YieldKgPerHectare: 2400}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	history, err := c.YieldSvc.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestNewContainer_MigrationFailure(t *testing.T) {
	cfg := testConfig(":memory:", ":memory:")
	cfg.Database.Farmers.MigrationsPath = filepath.Join(t.TempDir(), "missing")

	_, err := app.NewContainer(cfg, app.WithRegistry(prometheus.NewRegistry()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "farmers store")
}

func TestNewContainer_WithoutAutoMigrate(t *testing.T) {
	cfg := testConfig(":memory:", ":memory:")
	cfg.Database.AutoMigrate = false

	c := newTestContainer(t, cfg)

	_, err := c.FarmerSvc.List(context.Background())
	require.Error(t, err, "schema is not created without auto_migrate")
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))
}
