// Package hash provides the default key-hashing primitives shared by the
// container packages, in particular dictmap's chained hash table.
package hash

import "github.com/cespare/xxhash/v2"

// Bytes computes the 64-bit xxHash of data, truncated to 32 bits.
//
// dictmap's hash callback is declared as hash(key) -> u32 per the wire
// contract in spec section 6; xxHash64 truncated to the low 32 bits keeps
// the same diffusion quality as the 64-bit digest while matching that
// signature.
func Bytes(data []byte) uint32 {
	return uint32(xxhash.Sum64(data)) //nolint:gosec
}

// String computes the 32-bit hash of a string key without a copy to []byte.
func String(data string) uint32 {
	return uint32(xxhash.Sum64String(data)) //nolint:gosec
}

// FoldedString computes the case-insensitive hash of a string key by
// ASCII-folding it to lowercase before mixing.
//
// Folding happens on a stack-local copy for short keys to avoid an
// allocation in the common case of command/field names.
func FoldedString(data string) uint32 {
	const stackThreshold = 64
	if len(data) <= stackThreshold {
		var buf [stackThreshold]byte
		for i := 0; i < len(data); i++ {
			buf[i] = foldByte(data[i])
		}

		return uint32(xxhash.Sum64(buf[:len(data)])) //nolint:gosec
	}

	folded := make([]byte, len(data))
	for i := 0; i < len(data); i++ {
		folded[i] = foldByte(data[i])
	}

	return uint32(xxhash.Sum64(folded)) //nolint:gosec
}

func foldByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}

	return b
}
