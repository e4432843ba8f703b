package postgres

import (
	"database/sql"

	"github.com/agrodesk/farmers-api/internal/ports"
	"github.com/agrodesk/farmers-api/internal/repository/sqlstore"
)

// Dialect is the sqlstore dialect for PostgreSQL: numbered placeholders and RETURNING ids.
var Dialect = sqlstore.Dialect{
	Name:        "postgres",
	Rebind:      sqlstore.DollarNumbered,
	ReturningID: true,
	Translate:   handleError,
}

// Factory implements DatabaseFactory for PostgreSQL
type Factory struct{}

func (f *Factory) NewFarmerRepository(conn *sql.DB) ports.FarmerRepository {
	return sqlstore.NewFarmerRepository(conn, Dialect)
}

func (f *Factory) NewYieldRepository(conn *sql.DB) ports.YieldRepository {
	return sqlstore.NewYieldRepository(conn, Dialect)
}
