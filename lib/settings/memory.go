package settings

import (
	"context"
	"sync"
)

// MemoryStore keeps the record in process memory. It is the test double for
// the persistent store and the fallback when no database path is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return decode(func(key string) (string, bool) {
		v, ok := m.values[key]
		return v, ok
	}), nil
}

// Save replaces all four keys under one lock so readers never see a mix of
// old and new values.
func (m *MemoryStore) Save(_ context.Context, s Settings) error {
	enc := encode(s)
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range enc {
		m.values[k] = v
	}
	return nil
}

// SetRaw writes a single key verbatim, bypassing clamping.
func (m *MemoryStore) SetRaw(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Raw returns the stored string for key.
func (m *MemoryStore) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}
