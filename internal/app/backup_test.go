package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agrodesk/farmers-api/internal/app"
	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_FileStores(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(filepath.Join(dir, "yield_data.db"), filepath.Join(dir, "farmers.db"))
	cfg.Backup.Path = filepath.Join(dir, "backups")
	c := newTestContainer(t, cfg)

	_, err := c.FarmerSvc.Create(context.Background(), domain.NewFarmer{Name: "Otieno", CropType: "maize"})
	require.NoError(t, err)

	written, err := c.Backup(context.Background())
	require.NoError(t, err)
	require.Len(t, written, 2)

	for _, path := range written {
		base := filepath.Base(path)
		assert.Contains(t, base, ".backup-")
		assert.True(t, strings.HasSuffix(base, ".db"))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.True(t, strings.HasPrefix(filepath.Base(written[0]), "yield_data.db"))
	assert.True(t, strings.HasPrefix(filepath.Base(written[1]), "farmers.db"))
}

func TestBackup_InMemoryRejected(t *testing.T) {
	cfg := testConfig(":memory:", ":memory:")
	cfg.Backup.Path = t.TempDir()
	c := newTestContainer(t, cfg)

	written, err := c.Backup(context.Background())
	require.Error(t, err)
	assert.Empty(t, written)
	assert.True(t, errors.Is(err, app.ErrBackupUnsupported))
}
