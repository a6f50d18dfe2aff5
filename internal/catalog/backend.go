package catalog

import (
	"sync"

	"github.com/ishu524/productr/internal/domain"
)

// Backend is the narrow persistence contract the store writes through: the
// full collection in, the full collection out. There is no delta persistence;
// every mutation rewrites the whole blob.
type Backend interface {
	Load() ([]domain.Product, error)
	Save(collection []domain.Product) error
}

// Memory is an in-process Backend used by tests. FailLoad/FailSave inject
// storage faults.
type Memory struct {
	mu       sync.Mutex
	data     []domain.Product
	FailLoad error
	FailSave error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailLoad != nil {
		return nil, m.FailLoad
	}
	out := make([]domain.Product, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *Memory) Save(collection []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.data = make([]domain.Product, len(collection))
	copy(m.data, collection)
	return nil
}
