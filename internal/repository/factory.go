package repository

import (
	"database/sql"

	"github.com/agrodesk/farmers-api/internal/ports"
)

// DatabaseFactory must be implemented by each database package / Doit être implémenté par chaque package de BD
// Adding a repository here forces every driver package (sqlite, mysql, postgres) to provide it.
type DatabaseFactory interface {
	// NewFarmerRepository creates the farmers repository
	NewFarmerRepository(db *sql.DB) ports.FarmerRepository

	// NewYieldRepository creates the yield history repository
	NewYieldRepository(db *sql.DB) ports.YieldRepository
}
