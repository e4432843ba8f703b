package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/agrodesk/farmers-api/internal/ports"
)

var _ ports.YieldRepository = (*MockYieldRepository)(nil)

// MockYieldRepository is an in-memory ports.YieldRepository for testing
type MockYieldRepository struct {
	mu      sync.Mutex
	Records []domain.YieldRecord

	HistoryError error
	AppendError  error
	AppendCalls  int
}

func NewMockYieldRepository(records ...domain.YieldRecord) *MockYieldRepository {
	return &MockYieldRepository{Records: records}
}

func (m *MockYieldRepository) History(ctx context.Context) ([]domain.YieldRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HistoryError != nil {
		return nil, m.HistoryError
	}
	out := make([]domain.YieldRecord, len(m.Records))
	copy(out, m.Records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *MockYieldRepository) Append(ctx context.Context, records []domain.YieldRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls++
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	m.Records = append(m.Records, records...)
	return len(records), nil
}
