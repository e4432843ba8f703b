package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/agrodesk/farmers-api/internal/ports"
)

const yieldStore = "yield"

// YieldMetricsRecorder records yield history metrics
type YieldMetricsRecorder interface {
	RecordStorageError(store, operation string)
	RecordYieldImport(rows int)
}

// YieldService serves the read-only yield history and its offline import.
type YieldService struct {
	repo    ports.YieldRepository
	metrics YieldMetricsRecorder
}

// NewYieldService creates the yield history service
func NewYieldService(repo ports.YieldRepository, metrics YieldMetricsRecorder) *YieldService {
	return &YieldService{repo: repo, metrics: metrics}
}

// History returns the yield records, most recent date first.
func (s *YieldService) History(ctx context.Context) ([]domain.YieldRecord, error) {
	records, err := s.repo.History(ctx)
	if err != nil {
		slog.Error("yield store failed", "op", "history", "err", err)
		s.metrics.RecordStorageError(yieldStore, "history")
		return nil, domain.NewStorageError(err)
	}
	return records, nil
}

// Import validates every record, then appends them all in one transaction.
// Nothing is written when any record is invalid.
func (s *YieldService) Import(ctx context.Context, records []domain.YieldRecord) (int, error) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return 0, domain.NewValidationError(fmt.Sprintf("record %d: %s", i+1, err.Error()))
		}
	}

	n, err := s.repo.Append(ctx, records)
	if err != nil {
		slog.Error("yield import failed", "records", len(records), "outcome", storeOutcome(err), "err", err)
		s.metrics.RecordStorageError(yieldStore, "import")
		return 0, domain.NewStorageError(err)
	}
	s.metrics.RecordYieldImport(n)
	return n, nil
}
