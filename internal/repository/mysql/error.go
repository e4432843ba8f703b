package mysql

import (
	"database/sql"
	"errors"

	"github.com/agrodesk/farmers-api/internal/repository/db"
	"github.com/go-sql-driver/mysql"
)

// handleError tags MySQL errors with the db sentinels / Traduit les erreurs MySQL
func handleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNoRecord
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062: // ER_DUP_ENTRY
			return db.Classify(db.ErrDup, err)
		case 1205: // ER_LOCK_WAIT_TIMEOUT
			return db.Classify(db.ErrLocked, err)
		case 1213: // ER_LOCK_DEADLOCK
			return db.Classify(db.ErrBusy, err)
		}
	}
	return err
}
