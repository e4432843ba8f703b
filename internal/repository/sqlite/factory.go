package sqlite

import (
	"database/sql"

	"github.com/agrodesk/farmers-api/internal/ports"
	"github.com/agrodesk/farmers-api/internal/repository/sqlstore"
)

// Dialect is the sqlstore dialect for SQLite.
var Dialect = sqlstore.Dialect{
	Name:      "sqlite",
	Rebind:    sqlstore.KeepQuestion,
	Translate: handleError,
}

// Factory implements DatabaseFactory for SQLite / Implémente DatabaseFactory pour SQLite
// The compile-time check is in adapter.go to avoid import cycles
type Factory struct{}

// NewFarmerRepository creates the farmers repository / Crée le repository des agriculteurs
func (f *Factory) NewFarmerRepository(conn *sql.DB) ports.FarmerRepository {
	return sqlstore.NewFarmerRepository(conn, Dialect)
}

// NewYieldRepository creates the yield history repository
func (f *Factory) NewYieldRepository(conn *sql.DB) ports.YieldRepository {
	return sqlstore.NewYieldRepository(conn, Dialect)
}
