package kvstore

import (
	"context"
	"sync"

	"love-story/memories-api/internal/domain/persistence"
)

// MemoryStore is an in-memory implementation of the Store contract. It backs
// the ephemeral demo mode and deterministic tests. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte // "partition/key" -> value
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func recordKey(partition, key string) string {
	return partition + "/" + key
}

// Get returns the stored value for key, or persistence.ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, partition, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[recordKey(partition, key)]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under key, overwriting any previous value.
func (m *MemoryStore) Set(ctx context.Context, partition, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[recordKey(partition, key)] = stored
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (m *MemoryStore) Remove(ctx context.Context, partition, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, recordKey(partition, key))
	return nil
}

// Compile-time check that MemoryStore implements the Store contract
var _ persistence.Store = (*MemoryStore)(nil)
