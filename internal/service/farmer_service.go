package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/agrodesk/farmers-api/internal/ports"
	"github.com/agrodesk/farmers-api/internal/repository"
)

// Client-facing messages
const (
	MsgNoFieldsToUpdate = domain.MsgNoFieldsToUpdate
	MsgFarmerNotFound   = "Farmer not found"
)

const farmersStore = "farmers"

// FarmerMetricsRecorder records farmer metrics / Enregistre les métriques des agriculteurs
type FarmerMetricsRecorder interface {
	RecordFarmerWrite(operation, outcome string)
	RecordStorageError(store, operation string)
}

// FarmerService implements the farmer registry rules / Règles du registre des agriculteurs
type FarmerService struct {
	reader  ports.FarmerReader
	writer  ports.FarmerWriter
	metrics FarmerMetricsRecorder
}

// NewFarmerService creates the farmer registry service
func NewFarmerService(repo ports.FarmerRepository, metrics FarmerMetricsRecorder) *FarmerService {
	return &FarmerService{
		reader:  repo,
		writer:  repo,
		metrics: metrics,
	}
}

// List returns every farmer, deactivated ones included.
func (s *FarmerService) List(ctx context.Context) ([]domain.Farmer, error) {
	farmers, err := s.reader.List(ctx)
	if err != nil {
		return nil, s.storageError("list", err)
	}
	return farmers, nil
}

// CropDistribution counts farmers per crop over all rows.
func (s *FarmerService) CropDistribution(ctx context.Context) ([]domain.CropCount, error) {
	counts, err := s.reader.CropDistribution(ctx)
	if err != nil {
		return nil, s.storageError("crop_distribution", err)
	}
	return counts, nil
}

// Create registers a farmer and returns its new id.
func (s *FarmerService) Create(ctx context.Context, f domain.NewFarmer) (int64, error) {
	id, err := s.writer.Create(ctx, f)
	if err != nil {
		s.metrics.RecordFarmerWrite("create", storeOutcome(err))
		return 0, s.storageError("create", err)
	}
	s.metrics.RecordFarmerWrite("create", "success")
	slog.Info("farmer created", "id", id, "crop", f.CropType)
	return id, nil
}

// Update applies a partial update. String fields are kept only when non-empty,
// numbers whenever present (zero included), deactivated whenever present.
func (s *FarmerService) Update(ctx context.Context, id int64, u domain.FarmerUpdate) error {
	u = filterUpdate(u)
	if u.IsEmpty() {
		s.metrics.RecordFarmerWrite("update", "invalid")
		return domain.NewValidationError(MsgNoFieldsToUpdate)
	}

	if err := s.writer.Update(ctx, id, u); err != nil {
		return s.writeError("update", id, err)
	}
	s.metrics.RecordFarmerWrite("update", "success")
	return nil
}

// Deactivate soft deletes a farmer. Deactivating twice succeeds.
func (s *FarmerService) Deactivate(ctx context.Context, id int64) error {
	if err := s.writer.Deactivate(ctx, id); err != nil {
		return s.writeError("deactivate", id, err)
	}
	s.metrics.RecordFarmerWrite("deactivate", "success")
	slog.Info("farmer deactivated", "id", id)
	return nil
}

func (s *FarmerService) writeError(op string, id int64, err error) error {
	if errors.Is(err, repository.ErrNoRecord) {
		s.metrics.RecordFarmerWrite(op, "not_found")
		return domain.NewNotFoundError(MsgFarmerNotFound)
	}
	var derr *domain.Error
	if errors.As(err, &derr) {
		s.metrics.RecordFarmerWrite(op, "invalid")
		return derr
	}
	s.metrics.RecordFarmerWrite(op, storeOutcome(err))
	return s.storageError(op, err, "id", id)
}

func (s *FarmerService) storageError(op string, err error, attrs ...any) error {
	attrs = append(attrs, "op", op, "err", err)
	if outcome := storeOutcome(err); outcome != "error" {
		// Contention clears on its own; the caller may simply retry.
		slog.Warn("farmers store "+outcome, attrs...)
	} else {
		slog.Error("farmers store failed", attrs...)
	}
	s.metrics.RecordStorageError(farmersStore, op)
	return domain.NewStorageError(err)
}

// storeOutcome names the class of a store failure for metrics and logs.
func storeOutcome(err error) string {
	switch {
	case errors.Is(err, repository.ErrBusy), errors.Is(err, repository.ErrLocked):
		return "busy"
	case errors.Is(err, repository.ErrDup):
		return "duplicate"
	default:
		return "error"
	}
}

// filterUpdate drops empty strings; numbers and the flag pass through.
func filterUpdate(u domain.FarmerUpdate) domain.FarmerUpdate {
	nonEmpty := func(p *string) *string {
		if p == nil || *p == "" {
			return nil
		}
		return p
	}
	u.Name = nonEmpty(u.Name)
	u.Location = nonEmpty(u.Location)
	u.CropType = nonEmpty(u.CropType)
	u.PhoneNumber = nonEmpty(u.PhoneNumber)
	return u
}
