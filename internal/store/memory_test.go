package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/serroba/shortkey/internal/shortener"
	"github.com/serroba/shortkey/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_TryInsert(t *testing.T) {
	t.Run("binds a free key", func(t *testing.T) {
		s := store.NewMemoryStore()

		ok, err := s.TryInsert(context.Background(), "abc1234", "https://example.com")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("same binding is idempotent", func(t *testing.T) {
		s := store.NewMemoryStore()
		_, _ = s.TryInsert(context.Background(), "abc1234", "https://example.com")

		ok, err := s.TryInsert(context.Background(), "abc1234", "https://example.com")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("never rebinds a key", func(t *testing.T) {
		s := store.NewMemoryStore()
		_, _ = s.TryInsert(context.Background(), "abc1234", "https://example.com")

		ok, err := s.TryInsert(context.Background(), "abc1234", "https://other.com")
		require.NoError(t, err)
		assert.False(t, ok)

		url, _ := s.Lookup(context.Background(), "abc1234")
		assert.Equal(t, "https://example.com", url)
	})

	t.Run("one winner under concurrent inserts", func(t *testing.T) {
		s := store.NewMemoryStore()

		var (
			wg   sync.WaitGroup
			wins atomic.Int32
		)

		for i := range 32 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				url := "https://example.com/a"
				if i%2 == 1 {
					url = "https://example.com/b"
				}

				ok, err := s.TryInsert(context.Background(), "race123", url)
				if err == nil && ok {
					wins.Add(1)
				}
			}()
		}

		wg.Wait()

		// every caller with the winning url succeeds, every other caller fails
		assert.Equal(t, int32(16), wins.Load())
		assert.Equal(t, 1, s.Len())
	})
}

func TestMemoryStore_Lookup(t *testing.T) {
	t.Run("returns url when found", func(t *testing.T) {
		s := store.NewMemoryStore()
		_, _ = s.TryInsert(context.Background(), "abc1234", "https://example.com")

		url, err := s.Lookup(context.Background(), "abc1234")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
	})

	t.Run("returns ErrNotFound when key does not exist", func(t *testing.T) {
		s := store.NewMemoryStore()

		url, err := s.Lookup(context.Background(), "notfound")

		assert.Empty(t, url)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}
