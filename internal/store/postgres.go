package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortkey/internal/shortener"
)

// PostgresMaxKeyLength is the width of the short_urls.key column.
const PostgresMaxKeyLength = 10

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
// The primary key on short_urls.key makes TryInsert atomic.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) TryInsert(ctx context.Context, key, url string) (bool, error) {
	query := `
		INSERT INTO short_urls (key, url)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query, key, url)
	if err != nil {
		return false, fmt.Errorf("insert short url: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Rows are never updated, so the committed binding read here is final.
	existing, err := p.Lookup(ctx, key)
	if err != nil {
		return false, err
	}

	return existing == url, nil
}

func (p *PostgresStore) Lookup(ctx context.Context, key string) (string, error) {
	query := `
		SELECT url
		FROM short_urls
		WHERE key = $1
	`

	var url string

	err := p.pool.QueryRow(ctx, query, key).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", fmt.Errorf("select short url: %w", err)
	}

	return url, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
