package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortkey/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Repository.
// Bindings are plain string keys written with SETNX and never expire.
type RedisStore struct {
	client *redis.Client
	prefix string // "url:" for key->url
}

// NewRedisStore creates a new Redis-backed URL store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "url:",
	}
}

func (r *RedisStore) TryInsert(ctx context.Context, key, url string) (bool, error) {
	set, err := r.client.SetNX(ctx, r.prefix+key, url, 0).Result()
	if err != nil {
		return false, err
	}

	if set {
		return true, nil
	}

	existing, err := r.Lookup(ctx, key)
	if err != nil {
		return false, err
	}

	return existing == url, nil
}

func (r *RedisStore) Lookup(ctx context.Context, key string) (string, error) {
	url, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return url, nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisStore)(nil)
