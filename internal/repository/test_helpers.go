package repository

import (
	"database/sql"
	"fmt"

	"github.com/agrodesk/farmers-api/internal/repository/db"
)

// OpenSQLiteMemory opens a private in-memory SQLite store and applies the
// migrations found in migrationsDir. Used by tests across packages.
func OpenSQLiteMemory(name, migrationsDir string) (*sql.DB, error) {
	conn, err := db.Open(db.DatabaseConfig{Type: db.SQLite, Name: name, DSN: ":memory:"})
	if err != nil {
		return nil, err
	}

	m, err := db.NewMigrator(conn, db.SQLite, migrationsDir, "schema_migrations_"+name)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := m.Up(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s store: %w", name, err)
	}
	return conn, nil
}
