package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortkey/internal/shortener"
)

// RedisCacheRepository wraps a Repository with Redis caching for reads.
// Bindings are immutable, so cached entries never go stale; the TTL only
// bounds memory.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "cache:url:",
		ttl:    ttl,
	}
}

// TryInsert inserts through the underlying store and caches a confirmed binding.
func (r *RedisCacheRepository) TryInsert(ctx context.Context, key, url string) (bool, error) {
	ok, err := r.store.TryInsert(ctx, key, url)
	if err != nil || !ok {
		return ok, err
	}

	// Write-through: update cache after successful insert
	r.cacheURL(ctx, key, url)

	return true, nil
}

// Lookup retrieves a url by key, checking cache first.
func (r *RedisCacheRepository) Lookup(ctx context.Context, key string) (string, error) {
	if url, err := r.client.Get(ctx, r.prefix+key).Result(); err == nil {
		return url, nil
	}

	// Cache miss - fetch from store
	url, err := r.store.Lookup(ctx, key)
	if err != nil {
		return "", err
	}

	r.cacheURL(ctx, key, url)

	return url, nil
}

func (r *RedisCacheRepository) cacheURL(ctx context.Context, key, url string) {
	_ = r.client.Set(ctx, r.prefix+key, url, r.ttl).Err()
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
