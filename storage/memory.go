package storage

import (
	"sort"
	"sync"
)

// Memory is a map-backed Backend used by tests and ephemeral runs.
type Memory struct {
	mu      sync.RWMutex
	records map[string]string

	// FailWrites makes every Write return an error, for exercising the
	// best-effort durability path.
	FailWrites error
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]string)}
}

// Read returns the value stored under key.
func (m *Memory) Read(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.records[key]
	return value, ok, nil
}

// Write stores value under key.
func (m *Memory) Write(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.records[key] = value
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// Keys returns every key present, sorted.
func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.records))
	for key := range m.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
