package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/agrodesk/farmers-api/internal/ports"
)

var _ ports.YieldRepository = (*yieldRepository)(nil)

type yieldRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewYieldRepository returns the yield_history repository for dialect.
func NewYieldRepository(conn *sql.DB, dialect Dialect) ports.YieldRepository {
	return &yieldRepository{db: conn, dialect: dialect}
}

func (r *yieldRepository) History(ctx context.Context) ([]domain.YieldRecord, error) {
	query := `SELECT Date, Yield_kg_per_hectare FROM yield_history ORDER BY Date DESC`
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query))
	if err != nil {
		return nil, r.dialect.translate(err)
	}
	defer rows.Close()

	records := make([]domain.YieldRecord, 0)
	for rows.Next() {
		var (
			date  sql.NullString
			value sql.NullFloat64
		)
		if err := rows.Scan(&date, &value); err != nil {
			return nil, r.dialect.translate(err)
		}
		records = append(records, domain.YieldRecord{Date: date.String, YieldKgPerHectare: value.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, r.dialect.translate(err)
	}
	return records, nil
}

// Append inserts all records or none.
func (r *yieldRepository) Append(ctx context.Context, records []domain.YieldRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, r.dialect.translate(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, r.dialect.rebind(`INSERT INTO yield_history (Date, Yield_kg_per_hectare) VALUES (?, ?)`))
	if err != nil {
		return 0, r.dialect.translate(err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Date, rec.YieldKgPerHectare); err != nil {
			return 0, fmt.Errorf("record %d (%s): %w", i+1, rec.Date, r.dialect.translate(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, r.dialect.translate(err)
	}
	return len(records), nil
}
