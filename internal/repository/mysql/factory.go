package mysql

import (
	"database/sql"

	"github.com/agrodesk/farmers-api/internal/ports"
	"github.com/agrodesk/farmers-api/internal/repository/sqlstore"
)

// Dialect is the sqlstore dialect for MySQL. Affected-row counts rely on the
// clientFoundRows flag set by the db initializer.
var Dialect = sqlstore.Dialect{
	Name:      "mysql",
	Rebind:    sqlstore.KeepQuestion,
	Translate: handleError,
}

// Factory implements DatabaseFactory for MySQL
type Factory struct{}

func (f *Factory) NewFarmerRepository(conn *sql.DB) ports.FarmerRepository {
	return sqlstore.NewFarmerRepository(conn, Dialect)
}

func (f *Factory) NewYieldRepository(conn *sql.DB) ports.YieldRepository {
	return sqlstore.NewYieldRepository(conn, Dialect)
}
