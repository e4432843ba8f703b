package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/agrodesk/farmers-api/internal/ports"
	"github.com/agrodesk/farmers-api/internal/repository/db"
)

var _ ports.FarmerRepository = (*farmerRepository)(nil)

const farmerColumns = `id, Name, Location, Crop_Type, Phone_Number, Farm_Size, Average_Yield, deactivated`

type farmerRepository struct {
	db      ports.DBTX
	dialect Dialect
}

// NewFarmerRepository returns the farmers table repository for dialect.
func NewFarmerRepository(conn ports.DBTX, dialect Dialect) ports.FarmerRepository {
	return &farmerRepository{db: conn, dialect: dialect}
}

func (r *farmerRepository) List(ctx context.Context) ([]domain.Farmer, error) {
	query := `SELECT ` + farmerColumns + ` FROM farmers ORDER BY id`
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query))
	if err != nil {
		return nil, r.dialect.translate(err)
	}
	defer rows.Close()

	farmers := make([]domain.Farmer, 0)
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, r.dialect.translate(err)
		}
		farmers = append(farmers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, r.dialect.translate(err)
	}
	return farmers, nil
}

// scanFarmer tolerates NULL columns left by rows written outside this service.
func scanFarmer(rows *sql.Rows) (domain.Farmer, error) {
	var (
		f                           domain.Farmer
		name, location, crop, phone sql.NullString
		farmSize, averageYield      sql.NullFloat64
		deactivated                 sql.NullInt64
	)
	err := rows.Scan(&f.ID, &name, &location, &crop, &phone, &farmSize, &averageYield, &deactivated)
	if err != nil {
		return f, err
	}
	f.Name = name.String
	f.Location = location.String
	f.CropType = crop.String
	f.PhoneNumber = phone.String
	f.FarmSize = farmSize.Float64
	f.AverageYield = averageYield.Float64
	f.Deactivated = deactivated.Int64 != 0
	return f, nil
}

func (r *farmerRepository) Create(ctx context.Context, f domain.NewFarmer) (int64, error) {
	query := `INSERT INTO farmers (Name, Location, Crop_Type, Phone_Number, Farm_Size, Average_Yield, deactivated)
	          VALUES (?, ?, ?, ?, ?, ?, 0)`
	args := []any{f.Name, f.Location, f.CropType, f.PhoneNumber, f.FarmSize, f.AverageYield}

	if r.dialect.ReturningID {
		var id int64
		err := r.db.QueryRowContext(ctx, r.dialect.rebind(query+` RETURNING id`), args...).Scan(&id)
		if err != nil {
			return 0, r.dialect.translate(err)
		}
		return id, nil
	}

	result, err := r.db.ExecContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return 0, r.dialect.translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, r.dialect.translate(err)
	}
	return id, nil
}

// Update writes only the columns set in u, in a fixed column order.
func (r *farmerRepository) Update(ctx context.Context, id int64, u domain.FarmerUpdate) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		sets = append(sets, column+` = ?`)
		args = append(args, value)
	}

	if u.Name != nil {
		add("Name", *u.Name)
	}
	if u.Location != nil {
		add("Location", *u.Location)
	}
	if u.CropType != nil {
		add("Crop_Type", *u.CropType)
	}
	if u.PhoneNumber != nil {
		add("Phone_Number", *u.PhoneNumber)
	}
	if u.FarmSize != nil {
		add("Farm_Size", *u.FarmSize)
	}
	if u.AverageYield != nil {
		add("Average_Yield", *u.AverageYield)
	}
	if u.Deactivated != nil {
		add("deactivated", boolToInt(*u.Deactivated))
	}

	if len(sets) == 0 {
		return domain.NewValidationError(domain.MsgNoFieldsToUpdate)
	}

	query := `UPDATE farmers SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	return r.execAffectingOne(ctx, query, args...)
}

// Deactivate flags the row; deactivating twice still finds the row.
func (r *farmerRepository) Deactivate(ctx context.Context, id int64) error {
	return r.execAffectingOne(ctx, `UPDATE farmers SET deactivated = 1 WHERE id = ?`, id)
}

func (r *farmerRepository) execAffectingOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return r.dialect.translate(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return r.dialect.translate(err)
	}
	if n == 0 {
		return db.ErrNoRecord
	}
	return nil
}

func (r *farmerRepository) CropDistribution(ctx context.Context) ([]domain.CropCount, error) {
	query := `SELECT Crop_Type, COUNT(*) FROM farmers GROUP BY Crop_Type ORDER BY Crop_Type`
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query))
	if err != nil {
		return nil, r.dialect.translate(err)
	}
	defer rows.Close()

	counts := make([]domain.CropCount, 0)
	for rows.Next() {
		var (
			crop sql.NullString
			c    domain.CropCount
		)
		if err := rows.Scan(&crop, &c.Count); err != nil {
			return nil, r.dialect.translate(err)
		}
		c.CropType = crop.String
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.dialect.translate(err)
	}
	return counts, nil
}
