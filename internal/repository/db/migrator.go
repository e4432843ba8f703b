package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file" // Required for file-based migrations
)

// Migrator applies the migration files of one store to an open connection.
type Migrator struct {
	m    *migrate.Migrate
	path string
}

// NewMigrator binds the migrations found in dir to conn. Applied versions are
// tracked in table; an empty table means the driver default.
func NewMigrator(conn *sql.DB, dbType DatabaseType, dir, table string) (*Migrator, error) {
	factory, err := NewMigrationDriverRegistry().GetFactory(dbType)
	if err != nil {
		return nil, err
	}

	driver, err := factory.CreateDriverForTable(conn, table)
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", dbType, err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid migrations path %q: %w", dir, err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(abs), factory.DriverName(), driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}

	return &Migrator{m: m, path: abs}, nil
}

// MigratesOnOwnHandle reports whether migrations for dbType run on a handle
// opened just for them. The PostgreSQL and MySQL drivers pin a connection
// until Close, and Close also closes the handle. The SQLite driver holds no
// connection, and a ":memory:" database is only reachable through the
// handle that created it.
func MigratesOnOwnHandle(dbType DatabaseType) bool {
	return dbType != SQLite
}

// MigrateUp applies the pending migrations in dir to the store behind conn and
// returns the absolute migrations path. conn's pool is left as it was.
func MigrateUp(conn *sql.DB, cfg DatabaseConfig, dir, table string) (string, error) {
	target := conn
	if MigratesOnOwnHandle(cfg.Type) {
		own, err := Open(DatabaseConfig{Type: cfg.Type, Name: cfg.Name + "-migrate", DSN: cfg.DSN, MaxOpenConns: 2})
		if err != nil {
			return "", err
		}
		defer own.Close()
		target = own
	}

	m, err := NewMigrator(target, cfg.Type, dir, table)
	if err != nil {
		return "", err
	}
	if target != conn {
		defer m.Close()
	}
	return m.Path(), m.Up()
}

// Close releases the migration source and the database driver. The driver
// closes the handle the migrator was built on.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Up applies every pending migration. Being already current is not an error.
func (mg *Migrator) Up() error {
	return ignoreNoChange(mg.m.Up())
}

// Down reverts every applied migration.
func (mg *Migrator) Down() error {
	return ignoreNoChange(mg.m.Down())
}

// Steps moves n migrations forward, or backward when n is negative.
func (mg *Migrator) Steps(n int) error {
	return ignoreNoChange(mg.m.Steps(n))
}

// Version returns the current schema version. ok is false on a blank database.
func (mg *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

// Path is the absolute directory the migrations are read from.
func (mg *Migrator) Path() string {
	return mg.path
}

func ignoreNoChange(err error) error {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
