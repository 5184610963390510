// Package intset implements a sorted, encoding-promoting packed integer
// set: a single flat byte buffer holding a little-endian encoding width, a
// little-endian element count, and that many sorted signed integers packed
// at the current width.
//
// The buffer layout is part of the persistence contract (top-level spec
// section 6) and must stay byte-exact:
//
//	encoding:u32le | length:u32le | element*encoding bytes, signed little-endian
//
// encoding is always the narrowest of {2, 4, 8} bytes sufficient to hold
// every element currently stored; inserting a value that needs a wider
// encoding promotes the whole set in place (widening every existing
// element) and never demotes it back down, even after removals.
package intset
