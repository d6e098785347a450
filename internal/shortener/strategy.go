package shortener

import (
	"context"
	"crypto/sha1" //nolint:gosec // keys are derived, not secured, by the digest
	"fmt"

	"go.uber.org/zap"
)

// Service shortens URLs into deterministic keys and resolves them back.
// It holds no mutable state; concurrent callers coordinate through the
// Repository's TryInsert.
type Service struct {
	store        Repository
	alphabet     *Alphabet
	codec        *Codec
	keyLength    int
	maxKeyLength int
	logger       *zap.Logger
}

// NewService creates a shortener service backed by store.
func NewService(store Repository, cfg Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	alphabet := MustAlphabet(cfg.Alphabet)

	return &Service{
		store:        store,
		alphabet:     alphabet,
		codec:        NewCodec(alphabet),
		keyLength:    cfg.KeyLength,
		maxKeyLength: cfg.MaxKeyLength,
		logger:       logger,
	}, nil
}

// Shorten binds rawURL, once normalized, to a short key and returns the key.
func (s *Service) Shorten(ctx context.Context, rawURL string) (string, error) {
	bound, err := s.ShortenURL(ctx, rawURL)
	if err != nil {
		return "", err
	}

	return bound.Key, nil
}

// ShortenURL is Shorten returning the whole binding, including the
// normalized URL that was stored.
//
// Keys are tried in a fixed order derived from the URL alone: first every
// window of the candidate string, left to right, then the keys following the
// last window in alphabet order, wrapping around once. The same URL therefore
// always lands on the same key, and a repeated call finds its own binding.
func (s *Service) ShortenURL(ctx context.Context, rawURL string) (ShortURL, error) {
	normalizedURL, err := ValidateURL(rawURL)
	if err != nil {
		return ShortURL{}, err
	}

	candidates := s.candidates(normalizedURL)

	var key string

	for i := 0; i+s.keyLength <= len(candidates); i++ {
		key = candidates[i : i+s.keyLength]

		ok, err := s.store.TryInsert(ctx, key, normalizedURL)
		if err != nil {
			return ShortURL{}, fmt.Errorf("insert key %s: %w", key, err)
		}

		if ok {
			return ShortURL{Key: key, URL: normalizedURL}, nil
		}

		s.logger.Debug("short key collision", zap.String("key", key))
	}

	s.logger.Warn("candidate keys exhausted, enumerating keyspace",
		zap.String("url", normalizedURL),
		zap.String("start", key),
	)

	key, err = s.enumerate(ctx, key, normalizedURL)
	if err != nil {
		return ShortURL{}, err
	}

	return ShortURL{Key: key, URL: normalizedURL}, nil
}

// enumerate walks successors of start until a key can be bound or the walk
// is back at start.
func (s *Service) enumerate(ctx context.Context, start, url string) (string, error) {
	key := start

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		next, ok := s.codec.Successor(key)
		if !ok {
			next = s.codec.Zero(s.keyLength)
		}

		if next == start {
			return "", ErrOutOfKeys
		}

		bound, err := s.store.TryInsert(ctx, next, url)
		if err != nil {
			return "", fmt.Errorf("insert key %s: %w", next, err)
		}

		if bound {
			return next, nil
		}

		key = next
	}
}

// candidates returns the candidate string for a normalized URL, padded with
// the first symbol when it is shorter than one key.
func (s *Service) candidates(normalizedURL string) string {
	digest := sha1.Sum([]byte(normalizedURL)) //nolint:gosec

	candidates := s.codec.Candidates(digest[:])
	if len(candidates) < s.keyLength {
		candidates += s.alphabet.Repeat(0, s.keyLength-len(candidates))
	}

	return candidates
}

// Lengthen returns the URL bound to key. It fails with ErrInvalidKey for
// malformed keys without touching the store, and with ErrNotFound when the
// key is well formed but unbound.
func (s *Service) Lengthen(ctx context.Context, key string) (string, error) {
	if !s.alphabet.ValidKey(key, s.keyLength, s.maxKeyLength) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return s.store.Lookup(ctx, key)
}

// ValidKey reports whether key is syntactically acceptable to Lengthen.
func (s *Service) ValidKey(key string) bool {
	return s.alphabet.ValidKey(key, s.keyLength, s.maxKeyLength)
}
