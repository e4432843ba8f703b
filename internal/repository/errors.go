package repository

import "github.com/agrodesk/farmers-api/internal/repository/db"

// Re-export common errors for convenience
var (
	ErrNoRecord = db.ErrNoRecord
	ErrDup      = db.ErrDup
	ErrBusy     = db.ErrBusy
	ErrLocked   = db.ErrLocked
)
