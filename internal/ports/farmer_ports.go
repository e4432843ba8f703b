package ports

import (
	"context"

	"github.com/agrodesk/farmers-api/internal/domain"
)

// FarmerReader reads farmer rows / Lit les agriculteurs
type FarmerReader interface {
	// List returns every farmer, active and deactivated / Retourne tous les agriculteurs
	List(ctx context.Context) ([]domain.Farmer, error)

	// CropDistribution counts farmers per crop type over all rows
	CropDistribution(ctx context.Context) ([]domain.CropCount, error)
}

// FarmerWriter creates and changes farmer rows. Rows are never physically deleted.
type FarmerWriter interface {
	// Create inserts a farmer and returns the id assigned by the store
	Create(ctx context.Context, f domain.NewFarmer) (int64, error)

	// Update sets the non-nil columns of u. Returns db.ErrNoRecord when id matches nothing.
	Update(ctx context.Context, id int64, u domain.FarmerUpdate) error

	// Deactivate sets the soft delete flag. Returns db.ErrNoRecord when id matches nothing.
	Deactivate(ctx context.Context, id int64) error
}

// FarmerRepository combines all farmer storage operations
type FarmerRepository interface {
	FarmerReader
	FarmerWriter
}

// YieldRepository reads and appends to the yield history
type YieldRepository interface {
	// History returns all records, most recent date first
	History(ctx context.Context) ([]domain.YieldRecord, error)

	// Append inserts records in a single transaction
	Append(ctx context.Context, records []domain.YieldRecord) (int, error)
}
