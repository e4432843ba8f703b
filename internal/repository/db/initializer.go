package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	mysqldrv "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// DatabaseConfig holds database connection config / Contient la config de connexion BD
type DatabaseConfig struct {
	Type         DatabaseType
	Name         string // Store name used in logs (yield, farmers)
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// DatabaseInitializer initializes database connections / Initialise les connexions BD
type DatabaseInitializer interface {
	Initialize(config DatabaseConfig) (*sql.DB, error)
	ConfigureConnection(db *sql.DB, config DatabaseConfig) error
	Type() DatabaseType
}

// InitializerRegistry manages database initializers / Gère les initialiseurs de BD
type InitializerRegistry[T DatabaseInitializer] struct {
	factories map[DatabaseType]func() T
}

// NewInitializerRegistry creates registry / Crée le registre
func NewInitializerRegistry[T DatabaseInitializer]() *InitializerRegistry[T] {
	return &InitializerRegistry[T]{
		factories: make(map[DatabaseType]func() T),
	}
}

// Register registers initializer factory / Enregistre une factory d'initialiseur
func (r *InitializerRegistry[T]) Register(dbType DatabaseType, factory func() T) {
	r.factories[dbType] = factory
}

// Get retrieves initializer / Récupère l'initialiseur
func (r *InitializerRegistry[T]) Get(dbType DatabaseType, fallback func() T) T {
	if factory, exists := r.factories[dbType]; exists {
		return factory()
	}
	return fallback()
}

var initializerRegistry = func() *InitializerRegistry[DatabaseInitializer] {
	registry := NewInitializerRegistry[DatabaseInitializer]()
	registry.Register(MySQL, func() DatabaseInitializer { return &mysqlInitializer{} })
	registry.Register(PostgreSQL, func() DatabaseInitializer { return &postgresInitializer{} })
	registry.Register(SQLite, func() DatabaseInitializer { return &sqliteInitializer{} })
	return registry
}()

// NewDatabaseInitializer creates initializer for database type / Crée l'initialiseur pour le type de BD
func NewDatabaseInitializer(dbType DatabaseType) DatabaseInitializer {
	return initializerRegistry.Get(dbType, func() DatabaseInitializer { return &sqliteInitializer{} })
}

// Open is a shortcut for NewDatabaseInitializer(config.Type).Initialize(config).
func Open(config DatabaseConfig) (*sql.DB, error) {
	return NewDatabaseInitializer(config.Type).Initialize(config)
}

// baseInitializer provides common functionality / Fournit les fonctionnalités communes
type baseInitializer struct{}

func (b *baseInitializer) setConnectionPool(db *sql.DB, config DatabaseConfig, defaultOpen int) {
	maxOpen := config.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultOpen
	}
	maxIdle := config.MaxIdleConns
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
}

func (b *baseInitializer) open(driver string, dsn string, init DatabaseInitializer, config DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}

	if err := init.ConfigureConnection(db, config); err != nil {
		db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	slog.Info("database connected", "type", init.Type(), "store", config.Name)
	return db, nil
}

// MySQL initializer / Initialiseur MySQL
type mysqlInitializer struct {
	baseInitializer
}

// Initialize forces clientFoundRows so that an UPDATE matching a row with
// unchanged values still reports it as affected.
func (i *mysqlInitializer) Initialize(config DatabaseConfig) (*sql.DB, error) {
	cfg, err := mysqldrv.ParseDSN(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	return i.open("mysql", cfg.FormatDSN(), i, config)
}

func (i *mysqlInitializer) ConfigureConnection(db *sql.DB, config DatabaseConfig) error {
	i.setConnectionPool(db, config, 5)

	_, err := db.Exec("SET SESSION sql_mode='TRADITIONAL,NO_AUTO_VALUE_ON_ZERO'")
	if err != nil {
		slog.Warn("failed to set MySQL sql_mode", "store", config.Name, "err", err)
	}

	return nil
}

func (i *mysqlInitializer) Type() DatabaseType {
	return MySQL
}

// PostgreSQL initializer / Initialiseur PostgreSQL
type postgresInitializer struct {
	baseInitializer
}

func (i *postgresInitializer) Initialize(config DatabaseConfig) (*sql.DB, error) {
	return i.open("postgres", config.DSN, i, config)
}

func (i *postgresInitializer) ConfigureConnection(db *sql.DB, config DatabaseConfig) error {
	i.setConnectionPool(db, config, 5)

	_, err := db.Exec("SET TIME ZONE 'UTC'")
	if err != nil {
		slog.Warn("failed to set PostgreSQL timezone", "store", config.Name, "err", err)
	}

	return nil
}

func (i *postgresInitializer) Type() DatabaseType {
	return PostgreSQL
}

// SQLite initializer / Initialiseur SQLite
type sqliteInitializer struct {
	baseInitializer
}

func (i *sqliteInitializer) Initialize(config DatabaseConfig) (*sql.DB, error) {
	return i.open("sqlite", config.DSN, i, config)
}

// ConfigureConnection keeps a single connection by default. The PRAGMAs below
// are per connection and a ":memory:" database lives only as long as it.
func (i *sqliteInitializer) ConfigureConnection(db *sql.DB, config DatabaseConfig) error {
	i.setConnectionPool(db, config, 1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA automatic_index=true;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA trusted_schema=OFF;",
		"PRAGMA wal_autocheckpoint=1000;",
		"PRAGMA cache_size=10000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			slog.Warn("failed to execute pragma", "store", config.Name, "pragma", pragma, "err", err)
		}
	}

	return nil
}

func (i *sqliteInitializer) Type() DatabaseType {
	return SQLite
}
