package postgres

import (
	"database/sql"
	"errors"

	"github.com/agrodesk/farmers-api/internal/repository/db"
	"github.com/lib/pq"
)

// handleError tags PostgreSQL errors with the db sentinels / Traduit les erreurs PostgreSQL
func handleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNoRecord
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return db.Classify(db.ErrDup, err)
		case "55P03": // lock_not_available
			return db.Classify(db.ErrLocked, err)
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return db.Classify(db.ErrBusy, err)
		}
	}
	return err
}
