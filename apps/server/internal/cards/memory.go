package cards

import (
	"context"
	"sync"

	"war-lite/card"
)

// MemoryStore keeps cards in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   []StoredCard
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Create(_ context.Context, c card.Card) (StoredCard, error) {
	if err := validate(c); err != nil {
		return StoredCard{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(c), nil
}

func (m *MemoryStore) CreateMany(_ context.Context, cs []card.Card) error {
	for _, c := range cs {
		if err := validate(c); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cs {
		m.insertLocked(c)
	}
	return nil
}

func (m *MemoryStore) insertLocked(c card.Card) StoredCard {
	m.nextID++
	row := StoredCard{ID: m.nextID, Card: c}
	m.rows = append(m.rows, row)
	return row
}

func (m *MemoryStore) List(_ context.Context) ([]StoredCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]StoredCard(nil), m.rows...), nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}

func (m *MemoryStore) Close() error { return nil }
