package sqlite

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/agrodesk/farmers-api/internal/repository/db"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// handleError tags SQLite errors with the db sentinels. The original message is kept.
func handleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNoRecord
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return db.Classify(db.ErrDup, err)
		case sqlite3.SQLITE_BUSY:
			slog.Warn("database is busy", "err", liteErr.Error())
			return db.Classify(db.ErrBusy, err)
		case sqlite3.SQLITE_LOCKED:
			slog.Warn("database is locked", "err", liteErr.Error())
			return db.Classify(db.ErrLocked, err)
		}
		slog.Debug("sqlite error", "code", code, "err", liteErr.Error())
	}
	return err
}
