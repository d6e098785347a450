package shortener

import (
	"errors"
	"fmt"
)

const (
	DefaultKeyLength    = 7
	DefaultMaxKeyLength = 10
)

var ErrInvalidConfig = errors.New("invalid shortener config")

// Config holds the key settings of a Service.
type Config struct {
	// Alphabet orders the symbols keys are built from.
	Alphabet string
	// KeyLength is the length of newly issued keys.
	KeyLength int
	// MaxKeyLength is the longest key Lengthen accepts.
	MaxKeyLength int
}

// DefaultConfig returns 7-symbol keys over DefaultAlphabet, accepting up to 10 on lookup.
func DefaultConfig() Config {
	return Config{
		Alphabet:     DefaultAlphabet,
		KeyLength:    DefaultKeyLength,
		MaxKeyLength: DefaultMaxKeyLength,
	}
}

func (c Config) Validate() error {
	if _, err := NewAlphabet(c.Alphabet); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.KeyLength < 1 {
		return fmt.Errorf("%w: key length must be positive, got %d", ErrInvalidConfig, c.KeyLength)
	}

	if c.MaxKeyLength < c.KeyLength {
		return fmt.Errorf("%w: max key length %d is below key length %d",
			ErrInvalidConfig, c.MaxKeyLength, c.KeyLength)
	}

	return nil
}
