package mocks

import "sync"

// MockMetrics is a mock implementation of the service metrics recorders for testing
type MockMetrics struct {
	mu            sync.Mutex
	FarmerWrites  map[string]int // "operation/outcome" -> count
	StorageErrors map[string]int // "store/operation" -> count
	ImportedRows  int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		FarmerWrites:  make(map[string]int),
		StorageErrors: make(map[string]int),
	}
}

func (m *MockMetrics) RecordFarmerWrite(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FarmerWrites[operation+"/"+outcome]++
}

func (m *MockMetrics) RecordStorageError(store, operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageErrors[store+"/"+operation]++
}

func (m *MockMetrics) RecordYieldImport(rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImportedRows += rows
}
