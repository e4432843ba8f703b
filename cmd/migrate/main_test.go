package main

import (
	"testing"

	"github.com/agrodesk/farmers-api/internal/config"
	"github.com/agrodesk/farmers-api/internal/repository/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectStores(t *testing.T) {
	stores, err := selectStores("all")
	require.NoError(t, err)
	assert.Equal(t, []string{"yield", "farmers"}, stores)

	stores, err = selectStores("farmers")
	require.NoError(t, err)
	assert.Equal(t, []string{"farmers"}, stores)

	_, err = selectStores("users")
	assert.Error(t, err)
}

func TestMigrateStore_UpDownOnFile(t *testing.T) {
	sc := config.StoreConfig{
		DSN:            t.TempDir() + "/farmers.db",
		MigrationsPath: "../../migrations/sqlite/farmers",
	}

	require.NoError(t, migrateStore(db.SQLite, "farmers", sc, "up", 0))
	require.NoError(t, migrateStore(db.SQLite, "farmers", sc, "version", 0))
	require.NoError(t, migrateStore(db.SQLite, "farmers", sc, "down", 1))
	assert.Error(t, migrateStore(db.SQLite, "farmers", sc, "sideways", 0))
}
