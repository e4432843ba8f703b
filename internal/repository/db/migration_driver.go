package db

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
)

// DriverConfig holds driver metadata / Contient les métadonnées du driver.
// NewConfig builds a fresh driver config bound to a migrations table.
type DriverConfig[T any] struct {
	Name       string
	DBType     DatabaseType
	NewConfig  func(table string) T
	CreateFunc func(*sql.DB, T) (database.Driver, error)
}

// MigrationDriver creates migration driver using generics / Crée un driver de migration avec génériques
type MigrationDriver[T any] struct {
	config DriverConfig[T]
}

// NewMigrationDriver creates migration driver / Crée un driver de migration
func NewMigrationDriver[T any](config DriverConfig[T]) *MigrationDriver[T] {
	return &MigrationDriver[T]{config: config}
}

// CreateDriver creates a driver tracking versions in the default table.
func (d *MigrationDriver[T]) CreateDriver(db *sql.DB) (database.Driver, error) {
	return d.CreateDriverForTable(db, "")
}

// CreateDriverForTable creates a driver tracking versions in table.
// Stores sharing one server database need distinct tables.
func (d *MigrationDriver[T]) CreateDriverForTable(db *sql.DB, table string) (database.Driver, error) {
	return d.config.CreateFunc(db, d.config.NewConfig(table))
}

// DriverName returns driver name / Retourne le nom du driver
func (d *MigrationDriver[T]) DriverName() string {
	return d.config.Name
}

// Type returns database type / Retourne le type de base de données
func (d *MigrationDriver[T]) Type() DatabaseType {
	return d.config.DBType
}

// MigrationDriverFactory creates migration drivers / Crée les drivers de migration
type MigrationDriverFactory interface {
	CreateDriver(db *sql.DB) (database.Driver, error)
	CreateDriverForTable(db *sql.DB, table string) (database.Driver, error)
	DriverName() string
	Type() DatabaseType
}

// MigrationDriverRegistry manages migration drivers / Gère les drivers de migration
type MigrationDriverRegistry struct {
	factories map[DatabaseType]MigrationDriverFactory
}

// NewMigrationDriverRegistry creates registry / Crée le registre
func NewMigrationDriverRegistry() *MigrationDriverRegistry {
	registry := &MigrationDriverRegistry{
		factories: make(map[DatabaseType]MigrationDriverFactory),
	}

	registry.Register(SQLite, NewMigrationDriver(DriverConfig[*sqlite.Config]{
		Name:   "sqlite",
		DBType: SQLite,
		NewConfig: func(table string) *sqlite.Config {
			return &sqlite.Config{MigrationsTable: table}
		},
		CreateFunc: sqlite.WithInstance,
	}))

	registry.Register(MySQL, NewMigrationDriver(DriverConfig[*mysql.Config]{
		Name:   "mysql",
		DBType: MySQL,
		NewConfig: func(table string) *mysql.Config {
			return &mysql.Config{MigrationsTable: table}
		},
		CreateFunc: mysql.WithInstance,
	}))

	registry.Register(PostgreSQL, NewMigrationDriver(DriverConfig[*postgres.Config]{
		Name:   "postgres",
		DBType: PostgreSQL,
		NewConfig: func(table string) *postgres.Config {
			return &postgres.Config{MigrationsTable: table}
		},
		CreateFunc: postgres.WithInstance,
	}))

	return registry
}

// Register adds migration driver factory / Ajoute une factory de migration
func (r *MigrationDriverRegistry) Register(dbType DatabaseType, factory MigrationDriverFactory) {
	r.factories[dbType] = factory
}

// GetFactory retrieves migration driver factory / Récupère la factory de migration
func (r *MigrationDriverRegistry) GetFactory(dbType DatabaseType) (MigrationDriverFactory, error) {
	factory, exists := r.factories[dbType]
	if !exists {
		return nil, fmt.Errorf("unsupported database type for migrations: %s", dbType)
	}
	return factory, nil
}
