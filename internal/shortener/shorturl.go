package shortener

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("short url not found")
	ErrInvalidURL = errors.New("invalid url")
	ErrInvalidKey = errors.New("invalid short key")
	ErrOutOfKeys  = errors.New("no short keys available")
)

// ShortURL is an immutable binding of a key to a normalized URL.
type ShortURL struct {
	Key string
	URL string
}

// Repository stores immutable key -> url bindings.
type Repository interface {
	// TryInsert binds key to url unless key is already bound to a different url.
	// It reports true when the binding exists after the call, either because it
	// was created or because the identical binding was already present.
	// Implementations must make the check and the write a single atomic step.
	TryInsert(ctx context.Context, key, url string) (bool, error)

	// Lookup returns the url bound to key, or ErrNotFound.
	Lookup(ctx context.Context, key string) (string, error)
}
