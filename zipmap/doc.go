// Package zipmap implements a packed key-to-value association list for
// maps small enough that linear scan beats hashing.
//
// Wire layout (part of the persistence contract, top-level spec section 6,
// byte-exact):
//
//	zmlen:u8 | entry* | 0xFF
//
// Each entry is `klen | key | vlen | free:u8 | value | pad(free)`. klen and
// vlen use the same variable-width length prefix: a single byte for
// lengths below 254, or 0xFE followed by a 4-byte little-endian length.
// free counts trailing padding bytes left after a value shrinks in place;
// an update that would leave 4 or more free bytes compacts the entry back
// to free=0 instead. zmlen saturates at 254 once the map holds 254 or more
// entries; Length then counts by a full scan and writes the count back once
// it fits, mirroring ziplist's zllen saturation policy at a different
// threshold.
package zipmap
