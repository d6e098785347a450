package shortener

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultAlphabet lists digits, then upper case, then lower case letters.
// Key order, and therefore successor enumeration, follows this ordering.
const DefaultAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var ErrInvalidAlphabet = errors.New("invalid alphabet")

// Alphabet is an ordered set of distinct single-byte key symbols.
type Alphabet struct {
	symbols string
	index   [256]int16
}

// NewAlphabet builds an alphabet from symbols. Symbols must be distinct
// URL-unreserved ASCII characters so that keys can be used as path segments.
func NewAlphabet(symbols string) (*Alphabet, error) {
	if len(symbols) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 symbols, got %d", ErrInvalidAlphabet, len(symbols))
	}

	a := &Alphabet{symbols: symbols}
	for i := range a.index {
		a.index[i] = -1
	}

	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		if !isUnreserved(c) {
			return nil, fmt.Errorf("%w: symbol %q is not url-safe", ErrInvalidAlphabet, c)
		}

		if a.index[c] != -1 {
			return nil, fmt.Errorf("%w: duplicate symbol %q", ErrInvalidAlphabet, c)
		}

		a.index[c] = int16(i)
	}

	return a, nil
}

// MustAlphabet is like NewAlphabet but panics on error.
func MustAlphabet(symbols string) *Alphabet {
	a, err := NewAlphabet(symbols)
	if err != nil {
		panic(err)
	}

	return a
}

func (a *Alphabet) Len() int {
	return len(a.symbols)
}

func (a *Alphabet) String() string {
	return a.symbols
}

// Symbol returns the symbol at position i.
func (a *Alphabet) Symbol(i int) byte {
	return a.symbols[i]
}

// Index returns the position of c, or -1 when c is not a symbol.
func (a *Alphabet) Index(c byte) int {
	return int(a.index[c])
}

// Repeat returns the key made of n copies of the symbol at position i.
func (a *Alphabet) Repeat(i, n int) string {
	return strings.Repeat(string(a.symbols[i]), n)
}

// ValidKey reports whether key has a length in [minLen, maxLen] and holds only alphabet symbols.
func (a *Alphabet) ValidKey(key string, minLen, maxLen int) bool {
	if len(key) < minLen || len(key) > maxLen {
		return false
	}

	for i := 0; i < len(key); i++ {
		if a.index[key[i]] < 0 {
			return false
		}
	}

	return true
}

func isUnreserved(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}

	return false
}
