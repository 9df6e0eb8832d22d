package statestore

import "sync"

// MemoryStore is a map-backed Store for tests and the one-shot CLI path.
type MemoryStore struct {
	mu     sync.RWMutex
	groups map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{groups: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(group, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.groups[group][key]
	return v, ok
}

func (m *MemoryStore) Set(group, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[group]
	if !ok {
		g = make(map[string]string)
		m.groups[group] = g
	}
	g[key] = value
	return nil
}

func (m *MemoryStore) Close() error { return nil }
