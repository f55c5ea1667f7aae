package assets

import "github.com/opencontainers/go-digest"

// defaultHashLength is the number of hex characters kept from the digest.
// Eight characters of sha256 give 32 bits, enough to make accidental
// collisions within one asset tree vanishingly unlikely while keeping
// public names short.
const defaultHashLength = 8

// Addresser computes the content identifier for an asset's final bytes.
//
// It is a pure function of its input: identical bytes always produce the
// same identifier, independent of time, host, or map iteration order.
type Addresser struct {
	algorithm digest.Algorithm
	length    int
}

// NewAddresser creates an Addresser using the given digest algorithm and
// truncation length. A zero length selects the default; a length longer
// than the full hex encoding keeps the whole digest.
func NewAddresser(algorithm digest.Algorithm, length int) Addresser {
	if algorithm == "" {
		algorithm = digest.SHA256
	}
	if length <= 0 {
		length = defaultHashLength
	}
	return Addresser{algorithm: algorithm, length: length}
}

// Hash returns the truncated hex identifier for content.
func (a Addresser) Hash(content []byte) string {
	encoded := a.algorithm.FromBytes(content).Encoded()
	if a.length < len(encoded) {
		return encoded[:a.length]
	}
	return encoded
}

// Length returns the identifier length in hex characters.
func (a Addresser) Length() int { return a.length }
