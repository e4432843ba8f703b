package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/agrodesk/farmers-api/internal/mocks"
	"github.com/agrodesk/farmers-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYieldService_History(t *testing.T) {
	repo := mocks.NewMockYieldRepository(
		domain.YieldRecord{Date: "2021-05-01", YieldKgPerHectare: 900},
		domain.YieldRecord{Date: "2023-05-01", YieldKgPerHectare: 1100},
	)
	svc := service.NewYieldService(repo, mocks.NewMockMetrics())

	records, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2023-05-01", records[0].Date)
}

func TestYieldService_HistoryStorageError(t *testing.T) {
	repo := mocks.NewMockYieldRepository()
	repo.HistoryError = errors.New("unable to open database file")
	m := mocks.NewMockMetrics()
	svc := service.NewYieldService(repo, m)

	_, err := svc.History(context.Background())
	require.Error(t, err)
	assert.Equal(t, "unable to open database file", err.Error())
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))
	assert.Equal(t, 1, m.StorageErrors["yield/history"])
}

func TestYieldService_Import(t *testing.T) {
	repo := mocks.NewMockYieldRepository()
	m := mocks.NewMockMetrics()
	svc := service.NewYieldService(repo, m)

	n, err := svc.Import(context.Background(), []domain.YieldRecord{
		{Date: "2024-01-01", YieldKgPerHectare: 10},
		{Date: "2024-02-01", YieldKgPerHectare: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, m.ImportedRows)
	assert.Len(t, repo.Records, 2)
}

func TestYieldService_ImportRejectsInvalidBatch(t *testing.T) {
	repo := mocks.NewMockYieldRepository()
	svc := service.NewYieldService(repo, mocks.NewMockMetrics())

	_, err := svc.Import(context.Background(), []domain.YieldRecord{
		{Date: "2024-01-01", YieldKgPerHectare: 10},
		{Date: "01/02/2024", YieldKgPerHectare: 5},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Contains(t, err.Error(), "record 2")
	assert.Equal(t, 0, repo.AppendCalls, "nothing written on invalid input")
}

func TestYieldService_ImportStorageError(t *testing.T) {
	repo := mocks.NewMockYieldRepository()
	repo.AppendError = errors.New("database is locked")
	m := mocks.NewMockMetrics()
	svc := service.NewYieldService(repo, m)

	_, err := svc.Import(context.Background(), []domain.YieldRecord{{Date: "2024-01-01", YieldKgPerHectare: 1}})
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))
	assert.Equal(t, 1, m.StorageErrors["yield/import"])
	assert.Equal(t, 0, m.ImportedRows)
}
