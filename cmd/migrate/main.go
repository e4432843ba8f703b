// Command migrate provisions the yield and farmers stores.
//
//	migrate -direction up                  apply every pending migration
//	migrate -direction down -steps 1       roll back one migration
//	migrate -direction version -store yield
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/agrodesk/farmers-api/internal/app"
	"github.com/agrodesk/farmers-api/internal/config"
	"github.com/agrodesk/farmers-api/internal/logging"
	"github.com/agrodesk/farmers-api/internal/repository/db"
)

func main() {
	direction := flag.String("direction", "up", "up, down or version")
	steps := flag.Int("steps", 0, "number of migrations to apply (up) or roll back (down); 0 means all")
	store := flag.String("store", "all", "yield, farmers or all")
	flag.Parse()

	if err := run(*direction, *steps, *store); err != nil {
		log.Fatal(err)
	}
}

func run(direction string, steps int, store string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	defer logging.Setup(cfg.Logging, cfg.IsProduction())()

	stores, err := selectStores(store)
	if err != nil {
		return err
	}

	dbType := db.ParseDatabaseType(cfg.Database.Type)
	for _, name := range stores {
		sc := cfg.Database.Yield
		if name == app.StoreFarmers {
			sc = cfg.Database.Farmers
		}
		if err := migrateStore(dbType, name, sc, direction, steps); err != nil {
			return fmt.Errorf("%s store: %w", name, err)
		}
	}
	return nil
}

func selectStores(store string) ([]string, error) {
	switch store {
	case "all":
		return []string{app.StoreYield, app.StoreFarmers}, nil
	case app.StoreYield, app.StoreFarmers:
		return []string{store}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", store)
	}
}

func migrateStore(dbType db.DatabaseType, name string, sc config.StoreConfig, direction string, steps int) error {
	conn, err := db.Open(db.DatabaseConfig{Type: dbType, Name: name, DSN: sc.DSN})
	if err != nil {
		return err
	}
	defer conn.Close()

	m, err := db.NewMigrator(conn, dbType, sc.MigrationsPath, "schema_migrations_"+name)
	if err != nil {
		return err
	}
	defer m.Close()

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}
	if err != nil {
		return err
	}

	version, dirty, ok, err := m.Version()
	if err != nil {
		return err
	}
	if !ok {
		slog.Info("no migration applied", "store", name, "path", m.Path())
		fmt.Fprintf(os.Stdout, "%s: no migration applied\n", name)
		return nil
	}
	slog.Info("migration state", "store", name, "version", version, "dirty", dirty)
	fmt.Fprintf(os.Stdout, "%s: version %d (dirty=%t)\n", name, version, dirty)
	return nil
}
