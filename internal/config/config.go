// Package config provides application configuration management using Viper.
// Configuration is read from an optional .env file, a config.yaml file and
// environment variables, then validated. Each of the two stores (yield
// history and farmers) has its own DSN and migrations directory; both use
// the same database type (SQLite, MySQL or PostgreSQL).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration / Contient toute la configuration de l'application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Environment string            `mapstructure:"environment"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Backup      BackupConfig      `mapstructure:"backup"`
	Security    SecurityConfig    `mapstructure:"security"`
	Cors        CorsConfig        `mapstructure:"cors"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds server configuration / Configuration serveur
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // Per request deadline propagated to the stores
	StaticDir      string        `mapstructure:"static_dir"`      // Front-end bundle served under /static/ and /
}

// DatabaseConfig holds database-specific configuration / Configuration de la base de données
type DatabaseConfig struct {
	Type         string      `mapstructure:"type"`           // Database type: "sqlite", "mysql", or "postgres"
	AutoMigrate  bool        `mapstructure:"auto_migrate"`   // Apply pending migrations on startup
	MaxOpenConns int         `mapstructure:"max_open_conns"` // 0 means the driver default (1 for SQLite)
	MaxIdleConns int         `mapstructure:"max_idle_conns"`
	Yield        StoreConfig `mapstructure:"yield"`
	Farmers      StoreConfig `mapstructure:"farmers"`
}

// StoreConfig addresses one store / Adresse d'un stockage
type StoreConfig struct {
	DSN            string `mapstructure:"dsn"`             // Data Source Name for connecting to the store
	MigrationsPath string `mapstructure:"migrations_path"` // Path to the store's migration files
}

const redacted = "xxxxx"

// RedactedDSN returns the DSN with its password masked so it can be logged.
// URL, key=value (PostgreSQL) and user:pass@tcp(...) (MySQL) forms are handled.
func (s StoreConfig) RedactedDSN() string {
	dsn := s.DSN
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		return u.Redacted()
	}
	if strings.Contains(dsn, "password=") {
		fields := strings.Fields(dsn)
		for i, f := range fields {
			if strings.HasPrefix(f, "password=") {
				fields[i] = "password=" + redacted
			}
		}
		return strings.Join(fields, " ")
	}
	if strings.Contains(dsn, "@") {
		if c, err := mysql.ParseDSN(dsn); err == nil && c.Passwd != "" {
			c.Passwd = redacted
			return c.FormatDSN()
		}
	}
	return dsn
}

// BackupConfig holds database backup configuration / Configuration des sauvegardes de la base de données
type BackupConfig struct {
	Enabled       bool          `mapstructure:"enabled"`        // Enable automatic backups
	Interval      time.Duration `mapstructure:"interval"`       // Backup interval (default: 24h)
	Path          string        `mapstructure:"path"`           // Directory to store backups
	RetentionDays int           `mapstructure:"retention_days"` // Number of days to keep backups
}

// SecurityConfig holds security settings / Paramètres de sécurité
type SecurityConfig struct {
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// CorsConfig holds CORS configuration / Configuration CORS
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimiterConfig holds rate limiter configuration / Configuration limiteur de débit
type RateLimiterConfig struct {
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
	Enabled bool    `mapstructure:"enabled"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration / Configuration logging
type LoggingConfig struct {
	Level         string            `mapstructure:"level"`
	Format        string            `mapstructure:"format"`
	LokiEnabled   bool              `mapstructure:"loki_enabled"`
	LokiURL       string            `mapstructure:"loki_url"`
	LokiLabels    map[string]string `mapstructure:"loki_labels"`
	LokiBatchSize int               `mapstructure:"loki_batch_size"`
}

// IsProduction checks if environment is production / Vérifie si l'environnement est production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig loads configuration from .env, config.yaml and env vars in the working directory.
func LoadConfig() (*Config, error) {
	return Load(".")
}

// Load loads configuration, looking for .env and config.yaml in dir.
// Variables already set in the environment win over .env entries.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")
	v.BindEnv("database.type", "APP_DATABASE_TYPE", "DATABASE_TYPE")
	v.BindEnv("database.yield.dsn", "APP_DATABASE_YIELD_DSN", "YIELD_DB_DSN")
	v.BindEnv("database.farmers.dsn", "APP_DATABASE_FARMERS_DSN", "FARMERS_DB_DSN")

	var cfg Config
	err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("environment", "development")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.yield.dsn", "yield_data.db")
	v.SetDefault("database.yield.migrations_path", "migrations/sqlite/yield")
	v.SetDefault("database.farmers.dsn", "farmers.db")
	v.SetDefault("database.farmers.migrations_path", "migrations/sqlite/farmers")

	v.SetDefault("security.trusted_proxies", []string{}) // Don't trust proxy headers unless configured
	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("rate_limiter.rps", 10)
	v.SetDefault("rate_limiter.burst", 20)
	v.SetDefault("rate_limiter.enabled", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.interval", "24h")
	v.SetDefault("backup.path", "./backups")
	v.SetDefault("backup.retention_days", 7)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.loki_enabled", false)
	v.SetDefault("logging.loki_url", "http://localhost:3100")
	v.SetDefault("logging.loki_labels", map[string]string{
		"app":         "farmers-api",
		"environment": "development",
	})
	v.SetDefault("logging.loki_batch_size", 10)
}

// Validate validates configuration / Valide la configuration
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateRateLimiter(); err != nil {
		return err
	}

	if err := c.validateBackup(); err != nil {
		return err
	}

	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New("server.request_timeout must not be negative")
	}
	return nil
}

// validateDatabase validates database configuration
func (c *Config) validateDatabase() error {
	validDBTypes := []string{"sqlite", "sqlite3", "mysql", "postgres", "postgresql", ""}
	dbType := strings.ToLower(c.Database.Type)

	if !slices.Contains(validDBTypes, dbType) {
		return errors.New("database.type must be one of: sqlite, mysql, postgres")
	}

	if c.Database.Yield.DSN == "" {
		return errors.New("database.yield.dsn is required")
	}
	if c.Database.Farmers.DSN == "" {
		return errors.New("database.farmers.dsn is required")
	}

	if c.Database.AutoMigrate {
		if c.Database.Yield.MigrationsPath == "" || c.Database.Farmers.MigrationsPath == "" {
			return errors.New("database migrations_path is required for both stores when auto_migrate is on")
		}
	}

	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return errors.New("database connection limits must not be negative")
	}

	return nil
}

// validateRateLimiter validates rate limiter configuration
func (c *Config) validateRateLimiter() error {
	if !c.RateLimiter.Enabled {
		return nil
	}

	if c.RateLimiter.RPS <= 0 {
		return errors.New("rate_limiter.rps must be positive when enabled")
	}

	if c.RateLimiter.Burst <= 0 {
		return errors.New("rate_limiter.burst must be positive when enabled")
	}

	return nil
}

// validateBackup validates backup configuration
func (c *Config) validateBackup() error {
	if !c.Backup.Enabled {
		return nil
	}

	if c.Backup.Interval <= 0 {
		return errors.New("backup.interval must be positive when enabled")
	}

	if c.Backup.Path == "" {
		return errors.New("backup.path is required when enabled")
	}

	return nil
}
