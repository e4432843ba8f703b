package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/agrodesk/farmers-api/internal/ports"
	"github.com/agrodesk/farmers-api/internal/repository/db"
)

var _ ports.FarmerRepository = (*MockFarmerRepository)(nil)

// MockFarmerRepository is an in-memory ports.FarmerRepository for testing
type MockFarmerRepository struct {
	mu      sync.Mutex
	Farmers map[int64]*domain.Farmer
	nextID  int64

	// Mock behavior flags
	ListError       error
	CreateError     error
	UpdateError     error
	DeactivateError error
	CropError       error

	// Call tracking
	CreateCalls     int
	UpdateCalls     int
	DeactivateCalls int
	LastUpdate      domain.FarmerUpdate
}

// NewMockFarmerRepository creates a new mock farmer repository
func NewMockFarmerRepository() *MockFarmerRepository {
	return &MockFarmerRepository{
		Farmers: make(map[int64]*domain.Farmer),
		nextID:  1,
	}
}

func (m *MockFarmerRepository) List(ctx context.Context) ([]domain.Farmer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]domain.Farmer, 0, len(m.Farmers))
	for _, f := range m.Farmers {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockFarmerRepository) CropDistribution(ctx context.Context) ([]domain.CropCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CropError != nil {
		return nil, m.CropError
	}
	byCrop := make(map[string]int64)
	for _, f := range m.Farmers {
		byCrop[f.CropType]++
	}
	out := make([]domain.CropCount, 0, len(byCrop))
	for crop, n := range byCrop {
		out = append(out, domain.CropCount{CropType: crop, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CropType < out[j].CropType })
	return out, nil
}

func (m *MockFarmerRepository) Create(ctx context.Context, f domain.NewFarmer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	id := m.nextID
	m.nextID++
	m.Farmers[id] = &domain.Farmer{
		ID:           id,
		Name:         f.Name,
		Location:     f.Location,
		CropType:     f.CropType,
		PhoneNumber:  f.PhoneNumber,
		FarmSize:     f.FarmSize,
		AverageYield: f.AverageYield,
	}
	return id, nil
}

func (m *MockFarmerRepository) Update(ctx context.Context, id int64, u domain.FarmerUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	m.LastUpdate = u
	if m.UpdateError != nil {
		return m.UpdateError
	}
	f, ok := m.Farmers[id]
	if !ok {
		return db.ErrNoRecord
	}
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Location != nil {
		f.Location = *u.Location
	}
	if u.CropType != nil {
		f.CropType = *u.CropType
	}
	if u.PhoneNumber != nil {
		f.PhoneNumber = *u.PhoneNumber
	}
	if u.FarmSize != nil {
		f.FarmSize = *u.FarmSize
	}
	if u.AverageYield != nil {
		f.AverageYield = *u.AverageYield
	}
	if u.Deactivated != nil {
		f.Deactivated = *u.Deactivated
	}
	return nil
}

func (m *MockFarmerRepository) Deactivate(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeactivateCalls++
	if m.DeactivateError != nil {
		return m.DeactivateError
	}
	f, ok := m.Farmers[id]
	if !ok {
		return db.ErrNoRecord
	}
	f.Deactivated = true
	return nil
}
