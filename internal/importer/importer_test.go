package importer_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/agrodesk/farmers-api/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	path := filepath.Join(t.TempDir(), "yield.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"Region", "Yield_kg_per_hectare", "Date"},
		{"Rift", 1850.5, "2023-04-01"},
		{"Coast", 1200, 45292.0},
		{nil, nil, nil},
		{"Central", "2,100", "4/1/2022"},
	})

	records, err := importer.ReadXLSX(path, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.YieldRecord{
		{Date: "2023-04-01", YieldKgPerHectare: 1850.5},
		{Date: "2024-01-01", YieldKgPerHectare: 1200},
		{Date: "2022-04-01", YieldKgPerHectare: 2100},
	}, records)
}

func TestReadXLSX_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "History", [][]any{
		{"date", "YIELD_KG_PER_HECTARE"},
		{"2021-09-30", 990},
	})

	records, err := importer.ReadFile(path, "History")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2021-09-30", records[0].Date)

	_, err = importer.ReadXLSX(path, "Missing")
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	input := "Date,Yield_kg_per_hectare\n2020-01-15, 1500\n\n2020-02-15,1625.25\n"

	records, err := importer.ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []domain.YieldRecord{
		{Date: "2020-01-15", YieldKgPerHectare: 1500},
		{Date: "2020-02-15", YieldKgPerHectare: 1625.25},
	}, records)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"missing header column", "Date,Yield\n2020-01-01,1\n", "header must contain"},
		{"empty input", "", "header must contain"},
		{"bad date", "Date,Yield_kg_per_hectare\nyesterday,1\n", `row 2: invalid date "yesterday"`},
		{"bad yield", "Date,Yield_kg_per_hectare\n2020-01-01,lots\n", `row 2: invalid yield "lots"`},
		{"missing date", "Date,Yield_kg_per_hectare\n2020-01-01,1\n,2\n", "row 3: missing date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadFile_Dispatch(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "yield.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("Date,Yield_kg_per_hectare\n2019-05-05,700\n"), 0o600))
	records, err := importer.ReadFile(csvPath, "")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = importer.ReadFile(filepath.Join(dir, "yield.json"), "")
	assert.True(t, errors.Is(err, importer.ErrUnsupportedFormat))
}
