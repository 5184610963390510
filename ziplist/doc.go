// Package ziplist implements a packed, doubly traversable sequence of
// small string-or-integer entries in a single contiguous byte buffer.
//
// Wire layout (part of the persistence contract, top-level spec section
// 6, byte-exact, header fields little-endian):
//
//	zlbytes:u32le | zltail:u32le | zllen:u16le | entry* | 0xFF
//
// Each entry is `prevrawlen | encoding | data`. prevrawlen is 1 byte when
// the previous entry's total raw size is below 254, otherwise 0xFE
// followed by a 4-byte little-endian length. The encoding byte (or short
// prefix) self-describes whether the entry holds a string (6/14/32-bit
// length prefix) or one of six integer widths (4-bit immediate, int8,
// int16, int24, int32, int64); multi-byte integer payloads and the 14/32
// bit string length prefixes are big-endian, per spec section 6.
//
// Inserting or deleting an entry can force its successor's prevrawlen
// field to change size, which changes the successor's own total raw size,
// which can in turn force the entry after *that* to change — the cascade
// update described in spec section 4.3. This package runs a bounded
// forward pass after every structural mutation to restore the invariant
// that every entry's prevrawlen field equals its predecessor's true raw
// size, terminating early when a field already has sufficient width
// (never shrinking it back down, per spec section 9 — avoids oscillation
// on repeated insert/delete at the same boundary).
package ziplist
