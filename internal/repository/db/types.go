package db

import "strings"

// DatabaseType represents supported database types
type DatabaseType string

const (
	SQLite     DatabaseType = "sqlite"
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
)

// ParseDatabaseType normalizes a configured type name. Empty means SQLite.
func ParseDatabaseType(s string) DatabaseType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return SQLite
	case "postgresql":
		return PostgreSQL
	default:
		return DatabaseType(strings.ToLower(strings.TrimSpace(s)))
	}
}

// String returns string representation
func (dt DatabaseType) String() string {
	return string(dt)
}

// IsValid checks if database type is valid
func (dt DatabaseType) IsValid() bool {
	switch dt {
	case SQLite, MySQL, PostgreSQL:
		return true
	default:
		return false
	}
}
