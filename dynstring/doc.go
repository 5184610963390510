// Package dynstring implements a binary-safe, growable byte string with an
// amortized growth policy, modeled on the source system's header-tagged
// "simple dynamic string" but collapsed to a single concrete Go type.
//
// The source keeps five header layouts (tiny/small/short/medium/large)
// picked by capacity class so the header itself costs as little as
// possible for short strings. Because DynString is never part of the
// on-disk contract (only ziplist, zipmap and intset are, see the top-level
// spec's persistence notes), this package keeps that growth-tier *policy*
// without literally reproducing the packed header bytes: a *DynString
// wraps an internal/pool.ByteBuffer and leaves the amortized-growth
// decisions (how much headroom to add on each grow) to
// that shared buffer type, rather than hand-rolling a second growth curve
// here. ziplist and zipmap splice their fixed on-disk layouts directly and
// have no use for amortized growth, so DynString is that buffer's one
// consumer among the container packages.
//
// A DynString always keeps the invariant Len() <= AllocSize().
package dynstring
