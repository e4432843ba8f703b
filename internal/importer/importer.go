// Package importer reads yield history rows from spreadsheets.
//
// Both formats expect a header row naming the Date and
// Yield_kg_per_hectare columns, in any order and any letter case. Other
// columns are ignored. Dates are normalized to YYYY-MM-DD.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Column headers
const (
	ColDate  = "Date"
	ColYield = "Yield_kg_per_hectare"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")
	ErrMissingColumns    = errors.New("header must contain Date and Yield_kg_per_hectare")
)

// Layouts tried after ISO, in order
var dateLayouts = []string{
	domain.YieldDateLayout,
	"2006/01/02",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	time.RFC3339,
}

// ReadFile dispatches on the file extension. sheet is only used for .xlsx;
// an empty sheet means the first one.
func ReadFile(path, sheet string) ([]domain.YieldRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, sheet)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// ReadXLSX reads the records of one worksheet.
func ReadXLSX(path, sheet string) ([]domain.YieldRecord, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()

	if sheet == "" {
		sheet = x.GetSheetName(0)
	}

	rows, err := x.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return parseRows(rows)
}

// ReadCSV reads comma separated records.
func ReadCSV(r io.Reader) ([]domain.YieldRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) ([]domain.YieldRecord, error) {
	if len(rows) == 0 {
		return nil, ErrMissingColumns
	}

	dateCol, yieldCol := -1, -1
	for i, h := range rows[0] {
		switch {
		case strings.EqualFold(strings.TrimSpace(h), ColDate):
			dateCol = i
		case strings.EqualFold(strings.TrimSpace(h), ColYield):
			yieldCol = i
		}
	}
	if dateCol < 0 || yieldCol < 0 {
		return nil, ErrMissingColumns
	}

	records := make([]domain.YieldRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		if blank(row) {
			continue
		}

		date, err := normalizeDate(cell(row, dateCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		raw := cell(row, yieldCol)
		yield, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid yield %q", line, raw)
		}

		records = append(records, domain.YieldRecord{Date: date, YieldKgPerHectare: yield})
	}
	return records, nil
}

// normalizeDate accepts the common text layouts and raw Excel serial numbers.
func normalizeDate(s string) (string, error) {
	if s == "" {
		return "", errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(domain.YieldDateLayout), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.Format(domain.YieldDateLayout), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
