package store

import (
	"context"
	"sync"

	"github.com/serroba/shortkey/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu   sync.RWMutex
	urls map[string]string // key -> url
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls: make(map[string]string),
	}
}

func (m *MemoryStore) TryInsert(_ context.Context, key, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.urls[key]; ok {
		return existing == url, nil
	}

	m.urls[key] = url

	return true, nil
}

func (m *MemoryStore) Lookup(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[key]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return url, nil
}

// Len returns the number of stored bindings.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.urls)
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
