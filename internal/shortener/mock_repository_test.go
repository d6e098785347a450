package shortener_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/shortkey/internal/shortener"
)

var errMock = errors.New("mock error")

// mockRepository is a test double for shortener.Repository. Keys listed in
// taken are bound to another url; everything else binds on first insert.
type mockRepository struct {
	mu        sync.Mutex
	taken     map[string]bool
	insertErr error
	lookupErr error
	inserts   []string
	lookups   int
	bound     map[string]string
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		taken: make(map[string]bool),
		bound: make(map[string]string),
	}
}

func (m *mockRepository) TryInsert(_ context.Context, key, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inserts = append(m.inserts, key)

	if m.insertErr != nil {
		return false, m.insertErr
	}

	if m.taken[key] {
		return false, nil
	}

	m.bound[key] = url

	return true, nil
}

func (m *mockRepository) Lookup(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookups++

	if m.lookupErr != nil {
		return "", m.lookupErr
	}

	url, ok := m.bound[key]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return url, nil
}
