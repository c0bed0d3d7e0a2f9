// Package kv provides the key-value stores settings are persisted in.
package kv

import (
	"context"
	"sync"
)

// Store is a string key-value store.
type Store interface {
	// GetValue returns the value stored under key, or def if there is none.
	GetValue(ctx context.Context, key, def string) (string, error)
	// SetValue stores value under key.
	SetValue(ctx context.Context, key, value string) error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) GetValue(_ context.Context, key, def string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *MemoryStore) SetValue(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
