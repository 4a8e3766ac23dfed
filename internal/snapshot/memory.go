package snapshot

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore keeps snapshots in process memory. Used by tests and by
// deployments that opt out of persistence.
func NewMemoryStore() Store {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Save(_ context.Context, profile string, s Snapshot) error {
	buf, err := s.Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[profile] = buf
	return nil
}

func (m *memoryStore) Load(_ context.Context, profile string) (Snapshot, error) {
	m.mu.RLock()
	buf, ok := m.data[profile]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return Decode(buf)
}
