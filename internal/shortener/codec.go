package shortener

import (
	"math/big"
	"math/bits"
)

// Codec maps hash digests onto alphabet symbols and walks the key order.
type Codec struct {
	alphabet *Alphabet
	width    int // bits consumed per symbol
}

// NewCodec creates a codec over alphabet. Each symbol consumes as many digest
// bits as are needed to index the alphabet (6 for the default alphabet).
func NewCodec(alphabet *Alphabet) *Codec {
	return &Codec{
		alphabet: alphabet,
		width:    bits.Len(uint(alphabet.Len() - 1)),
	}
}

// Candidates derives the candidate string for digest.
//
// The digest is read as one big-endian bit string and cut into groups of
// width bits, the last group padded on the right with zeros. A group whose
// value indexes the alphabet becomes that symbol. Any other group becomes the
// fallback symbol, chosen once per call as the whole digest modulo the
// alphabet size, so the output depends on nothing but digest.
func (c *Codec) Candidates(digest []byte) string {
	total := len(digest) * 8
	if total == 0 {
		return ""
	}

	size := big.NewInt(int64(c.alphabet.Len()))
	fallback := c.alphabet.Symbol(int(new(big.Int).Mod(new(big.Int).SetBytes(digest), size).Int64()))

	n := (total + c.width - 1) / c.width
	out := make([]byte, n)

	for i := range n {
		v := readBits(digest, i*c.width, c.width)
		if v < c.alphabet.Len() {
			out[i] = c.alphabet.Symbol(v)
		} else {
			out[i] = fallback
		}
	}

	return string(out)
}

// Successor returns the key that follows key in alphabet order, treating key
// as a big-endian number in base len(alphabet). It returns false when key is
// the largest key of its length or holds a symbol outside the alphabet.
func (c *Codec) Successor(key string) (string, bool) {
	if !c.alphabet.ValidKey(key, 1, len(key)) {
		return "", false
	}

	next := []byte(key)
	last := c.alphabet.Len() - 1

	for i := len(next) - 1; i >= 0; i-- {
		idx := c.alphabet.Index(next[i])
		if idx < last {
			next[i] = c.alphabet.Symbol(idx + 1)

			return string(next), true
		}

		next[i] = c.alphabet.Symbol(0)
	}

	return "", false
}

// Zero returns the smallest key of length n.
func (c *Codec) Zero(n int) string {
	return c.alphabet.Repeat(0, n)
}

// readBits reads width bits starting at bit offset off, most significant
// first. Bits past the end of b read as zero.
func readBits(b []byte, off, width int) int {
	v := 0

	for i := off; i < off+width; i++ {
		v <<= 1

		if i < len(b)*8 && b[i/8]&(0x80>>(i%8)) != 0 {
			v |= 1
		}
	}

	return v
}
