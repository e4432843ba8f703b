package repository

import (
	"database/sql"

	"github.com/agrodesk/farmers-api/internal/ports"
	"github.com/agrodesk/farmers-api/internal/repository/db"
	"github.com/agrodesk/farmers-api/internal/repository/mysql"
	"github.com/agrodesk/farmers-api/internal/repository/postgres"
	"github.com/agrodesk/farmers-api/internal/repository/sqlite"
)

// Compile-time checks that every driver package satisfies DatabaseFactory
var (
	_ DatabaseFactory = (*sqlite.Factory)(nil)
	_ DatabaseFactory = (*mysql.Factory)(nil)
	_ DatabaseFactory = (*postgres.Factory)(nil)
)

// factoryRegistry holds all database factories / Registre de toutes les factories de BD
var factoryRegistry = map[db.DatabaseType]DatabaseFactory{
	db.SQLite:     &sqlite.Factory{},
	db.MySQL:      &mysql.Factory{},
	db.PostgreSQL: &postgres.Factory{},
}

// Adapter adapts a database connection to repositories / Adapte la connexion BD vers les repositories
type Adapter struct {
	db      *sql.DB
	factory DatabaseFactory
}

// NewAdapter creates a repository adapter; unknown drivers fall back to SQLite.
func NewAdapter(conn *sql.DB, driver string) *Adapter {
	factory := factoryRegistry[db.ParseDatabaseType(driver)]
	if factory == nil {
		factory = &sqlite.Factory{}
	}

	return &Adapter{
		db:      conn,
		factory: factory,
	}
}

// FarmerRepository returns the farmers repository for the adapted connection
func (a *Adapter) FarmerRepository() ports.FarmerRepository {
	return a.factory.NewFarmerRepository(a.db)
}

// YieldRepository returns the yield history repository for the adapted connection
func (a *Adapter) YieldRepository() ports.YieldRepository {
	return a.factory.NewYieldRepository(a.db)
}
