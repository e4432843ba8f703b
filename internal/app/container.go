package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrodesk/farmers-api/internal/config"
	"github.com/agrodesk/farmers-api/internal/metrics"
	"github.com/agrodesk/farmers-api/internal/ports"
	"github.com/agrodesk/farmers-api/internal/repository"
	"github.com/agrodesk/farmers-api/internal/repository/db"
	"github.com/agrodesk/farmers-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

// Store names, used as labels and migration table suffixes
const (
	StoreYield   = "yield"
	StoreFarmers = "farmers"
)

// Container holds application dependencies / Contient les dépendances de l'application
type Container struct {
	YieldDB    *sql.DB
	FarmersDB  *sql.DB
	DBType     db.DatabaseType
	FarmerRepo ports.FarmerRepository
	YieldRepo  ports.YieldRepository
	FarmerSvc  *service.FarmerService
	YieldSvc   *service.YieldService
	Config     *config.Config
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	StartedAt  time.Time
	ctxCancel  context.CancelFunc
}

// Option customizes container construction
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

// WithRegistry registers metrics on reg instead of the process-wide default.
// Tests use it to build several containers in one binary.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registerer = reg
		o.gatherer = reg
	}
}

// NewContainer initializes application container / Initialise le conteneur de l'application
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	o := options{
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		Config:    cfg,
		DBType:    db.ParseDatabaseType(cfg.Database.Type),
		Gatherer:  o.gatherer,
		StartedAt: time.Now(),
	}

	// Initialize metrics first (no dependencies)
	c.Metrics = metrics.NewMetrics(o.registerer)

	if err := c.initDatabases(); err != nil {
		c.Close()
		return nil, fmt.Errorf("database init: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := c.runMigrations(); err != nil {
			c.Close() // Ensure database connections are closed on migration failure
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	c.initRepositories()
	c.initServices()

	// Update database connection metrics
	c.updateDatabaseMetrics()

	return c, nil
}

// Databases returns the open store connections keyed by store name.
func (c *Container) Databases() map[string]*sql.DB {
	return map[string]*sql.DB{
		StoreYield:   c.YieldDB,
		StoreFarmers: c.FarmersDB,
	}
}

func (c *Container) storeConfig(name string) config.StoreConfig {
	if name == StoreYield {
		return c.Config.Database.Yield
	}
	return c.Config.Database.Farmers
}

// initDatabases opens one connection pool per store / Ouvre un pool par stockage
func (c *Container) initDatabases() error {
	open := func(name string) (*sql.DB, error) {
		conn, err := db.Open(db.DatabaseConfig{
			Type:         c.DBType,
			Name:         name,
			DSN:          c.storeConfig(name).DSN,
			MaxOpenConns: c.Config.Database.MaxOpenConns,
			MaxIdleConns: c.Config.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s %s store: %w", c.DBType, name, err)
		}
		return conn, nil
	}

	var err error
	if c.YieldDB, err = open(StoreYield); err != nil {
		return err
	}
	if c.FarmersDB, err = open(StoreFarmers); err != nil {
		return err
	}
	return nil
}

// runMigrations applies pending migrations to both stores / Applique les migrations
func (c *Container) runMigrations() error {
	for name, conn := range c.Databases() {
		sc := c.storeConfig(name)
		cfg := db.DatabaseConfig{Type: c.DBType, Name: name, DSN: sc.DSN}
		abs, err := db.MigrateUp(conn, cfg, sc.MigrationsPath, "schema_migrations_"+name)
		if err != nil {
			return fmt.Errorf("%s store: %w", name, err)
		}
		slog.Info("migrations applied", "store", name, "type", c.DBType, "path", abs)
	}

	slog.Info("database migrations applied")
	return nil
}

// initRepositories initializes repositories / Initialise les repositories
func (c *Container) initRepositories() {
	c.FarmerRepo = repository.NewAdapter(c.FarmersDB, string(c.DBType)).FarmerRepository()
	c.YieldRepo = repository.NewAdapter(c.YieldDB, string(c.DBType)).YieldRepository()

	slog.Info("repositories initialized", "type", c.DBType)
}

// initServices initializes application services / Initialise les services applicatifs
func (c *Container) initServices() {
	c.FarmerSvc = service.NewFarmerService(c.FarmerRepo, c.Metrics)
	c.YieldSvc = service.NewYieldService(c.YieldRepo, c.Metrics)

	ctx, cancel := context.WithCancel(context.Background())
	c.ctxCancel = cancel

	go c.poolStatsRoutine(ctx)

	// Start automatic backup goroutine if enabled / Démarre la goroutine de backup automatique si activée
	if c.Config.Backup.Enabled {
		c.startBackupRoutine(ctx)
	}
}

// updateDatabaseMetrics updates database metrics / Met à jour les métriques de la BD
func (c *Container) updateDatabaseMetrics() {
	for name, conn := range c.Databases() {
		c.Metrics.UpdateDatabaseConnections(name, conn.Stats().OpenConnections)
	}
}

func (c *Container) poolStatsRoutine(ctx context.Context) {
	c.Metrics.SetBackgroundTaskStatus("pool_stats", true)
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.updateDatabaseMetrics()
		case <-ctx.Done():
			c.Metrics.SetBackgroundTaskStatus("pool_stats", false)
			return
		}
	}
}

// Close performs graceful shutdown / Effectue un arrêt gracieux
func (c *Container) Close() error {
	if c.ctxCancel != nil {
		c.ctxCancel()
	}

	var firstErr error
	for name, conn := range c.Databases() {
		if conn == nil {
			continue
		}
		slog.Info("closing database", "store", name)
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
