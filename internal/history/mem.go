package history

import (
	"context"
	"sync"
	"time"

	"github.com/mithrel/marketeer/pkg/api"
)

type memStore struct {
	mu    sync.RWMutex
	cap   int
	items []Item // newest first
	now   func() time.Time
}

// NewMem returns an in-memory Store.
func NewMem(capacity int) Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &memStore{cap: capacity, now: time.Now}
}

func (m *memStore) Add(ctx context.Context, r api.AnalysisResult) (Item, error) {
	it := newItem(r, m.now())
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make([]Item, 0, m.cap)
	next = append(next, it)
	for _, old := range m.items {
		if len(next) == m.cap {
			break
		}
		if old.ID == it.ID {
			continue
		}
		next = append(next, old)
	}
	m.items = next
	return it, nil
}

func (m *memStore) List(ctx context.Context, limit int) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clip(append([]Item(nil), m.items...), limit), nil
}

func (m *memStore) Get(ctx context.Context, id string) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) Len(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

func (m *memStore) Close() error { return nil }
