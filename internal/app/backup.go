package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agrodesk/farmers-api/internal/repository/db"
	"github.com/dustin/go-humanize"
)

// ErrBackupUnsupported is returned when a store cannot be copied with VACUUM INTO.
var ErrBackupUnsupported = errors.New("backup is only supported for file based SQLite stores")

const backupTimeLayout = "20060102-150405"

// startBackupRoutine starts automatic backup routine / Démarre la routine de backup automatique
func (c *Container) startBackupRoutine(ctx context.Context) {
	go func() {
		c.Metrics.SetBackgroundTaskStatus("database_backup", true)
		ticker := time.NewTicker(c.Config.Backup.Interval)
		defer ticker.Stop()

		slog.Info("automatic database backup enabled",
			"interval", c.Config.Backup.Interval,
			"retention_days", c.Config.Backup.RetentionDays)

		for {
			select {
			case <-ticker.C:
				if _, err := c.Backup(ctx); err != nil {
					slog.Error("backup failed", "err", err)
				}
				// Clean old backups after creating new one / Nettoie les anciens backups après création
				if err := c.cleanOldBackups(); err != nil {
					slog.Error("backup cleanup failed", "err", err)
				}
			case <-ctx.Done():
				c.Metrics.SetBackgroundTaskStatus("database_backup", false)
				slog.Info("backup goroutine stopped")
				return
			}
		}
	}()
}

// Backup copies both stores into the backup directory and returns the files
// written. A failing store does not prevent the other from being saved.
func (c *Container) Backup(ctx context.Context) ([]string, error) {
	if c.DBType != db.SQLite {
		return nil, ErrBackupUnsupported
	}

	// Create backup directory if not exists / Crée le répertoire de backup s'il n'existe pas
	if err := os.MkdirAll(c.Config.Backup.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	var written []string
	var errs []error
	for _, name := range []string{StoreYield, StoreFarmers} {
		path, err := c.backupStore(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s store: %w", name, err))
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func (c *Container) backupStore(ctx context.Context, name string) (string, error) {
	// Extract database filename from DSN / Extrait le nom du fichier depuis le DSN
	dbName := strings.TrimPrefix(c.storeConfig(name).DSN, "file:")
	if idx := strings.Index(dbName, "?"); idx >= 0 {
		dbName = dbName[:idx]
	}
	if dbName == "" || dbName == ":memory:" {
		return "", ErrBackupUnsupported
	}

	timestamp := time.Now().Format(backupTimeLayout)
	backupPath := filepath.Join(c.Config.Backup.Path,
		fmt.Sprintf("%s.backup-%s.db", filepath.Base(dbName), timestamp))

	// VACUUM INTO needs SQLite 3.27.0+
	query := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(backupPath, "'", "''"))
	if _, err := c.Databases()[name].ExecContext(ctx, query); err != nil {
		return "", fmt.Errorf("backup execution failed: %w", err)
	}

	var size uint64
	if info, err := os.Stat(backupPath); err == nil {
		size = uint64(info.Size())
	}
	slog.Info("database backup created", "store", name, "path", backupPath, "size", humanize.Bytes(size))
	return backupPath, nil
}

// cleanOldBackups removes old backups / Supprime les anciens backups
func (c *Container) cleanOldBackups() error {
	if c.Config.Backup.RetentionDays <= 0 {
		return nil // No cleanup if retention is 0 or negative / Pas de nettoyage si rétention <= 0
	}

	cutoffTime := time.Now().AddDate(0, 0, -c.Config.Backup.RetentionDays)

	entries, err := os.ReadDir(c.Config.Backup.Path)
	if err != nil {
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	deletedCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Only delete .backup-*.db files / Ne supprime que les fichiers .backup-*.db
		if !strings.Contains(entry.Name(), ".backup-") || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			slog.Warn("failed to stat backup", "file", entry.Name(), "err", err)
			continue
		}

		if info.ModTime().Before(cutoffTime) {
			backupPath := filepath.Join(c.Config.Backup.Path, entry.Name())
			if err := os.Remove(backupPath); err != nil {
				slog.Warn("failed to delete old backup", "file", entry.Name(), "err", err)
				continue
			}
			deletedCount++
			slog.Info("deleted old backup", "file", entry.Name(),
				"age", humanize.RelTime(info.ModTime(), time.Now(), "ago", "from now"))
		}
	}

	if deletedCount > 0 {
		slog.Info("cleaned up old backups", "count", deletedCount)
	}

	return nil
}
