package dictmap

import (
	"math/bits"

	"github.com/arloliu/packedstore/errs"
)

// Iterator walks every entry in a Dict. An unsafe iterator promises the
// caller won't mutate the map while holding it; a safe iterator (from
// GetSafeIterator) suppresses incremental rehashing for its lifetime
// instead, so inserts and deletes are permitted mid-walk.
type Iterator struct {
	d           *Dict
	safe        bool
	table       int
	index       int
	entry       *Entry
	nextEntry   *Entry
	fingerprint uint64
}

// fingerprint mixes both tables' sizes and occupancy into a single value
// cheap enough to recompute on every release. It changes whenever a
// rehash or resize touches the map, which is what an unsafe iterator
// needs to detect to catch caller misuse.
func (d *Dict) fingerprint() uint64 {
	mix := func(acc, v uint64) uint64 {
		acc ^= v
		acc *= 1099511628211

		return bits.RotateLeft64(acc, 13)
	}

	fp := uint64(14695981039346656037)
	fp = mix(fp, uint64(d.ht[0].size))
	fp = mix(fp, uint64(d.ht[0].used)) //nolint:gosec
	fp = mix(fp, uint64(d.ht[1].size))
	fp = mix(fp, uint64(d.ht[1].used)) //nolint:gosec

	return fp
}

// GetIterator returns an unsafe iterator. The caller must not mutate the
// map until ReleaseIterator is called.
func (d *Dict) GetIterator() *Iterator {
	return &Iterator{d: d, table: 0, index: -1, fingerprint: d.fingerprint()}
}

// GetSafeIterator returns an iterator that permits mutation of the map
// while it is held, at the cost of suppressing incremental rehashing
// until it is released.
func (d *Dict) GetSafeIterator() *Iterator {
	d.iterators++

	return &Iterator{d: d, safe: true, table: 0, index: -1}
}

// Next advances the iterator, returning the next entry or ok=false once
// every entry has been visited.
func (it *Iterator) Next() (*Entry, bool) {
	for {
		if it.entry == nil {
			tbl := &it.d.ht[it.table]
			it.index++
			if it.index >= tbl.size {
				if it.d.isRehashing() && it.table == 0 {
					it.table = 1
					it.index = 0
					tbl = &it.d.ht[1]
				} else {
					return nil, false
				}
			}
			if tbl.size == 0 {
				return nil, false
			}
			it.entry = tbl.buckets[it.index]
		} else {
			it.entry = it.nextEntry
		}

		if it.entry != nil {
			it.nextEntry = it.entry.next

			return it.entry, true
		}
	}
}

// ReleaseIterator releases it. For a safe iterator, this may resume
// incremental rehashing. For an unsafe iterator, this reports
// errs.ErrIteratorStale if the map was mutated (resized or rehashed)
// while the iterator was held.
func (d *Dict) ReleaseIterator(it *Iterator) error {
	if it.safe {
		d.iterators--

		return nil
	}
	if it.fingerprint != d.fingerprint() {
		return errs.ErrIteratorStale
	}

	return nil
}

// Scan visits a bounded slice of the map's entries, calling fn for each,
// and returns the cursor to pass on the next call. A full iteration
// completes when Scan returns 0, mirroring the reverse-bit-increment scan
// cursor: an in-flight rehash does not prevent a caller from completing a
// full scan across both tables, and entries present for an entire scan's
// duration are visited at least once even as the map resizes underneath.
func (d *Dict) Scan(cursor uint32, fn func(key, val any)) uint32 {
	if d.Size() == 0 {
		return 0
	}

	if !d.isRehashing() {
		t0 := &d.ht[0]
		m0 := t0.sizemask
		for e := t0.buckets[cursor&m0]; e != nil; e = e.next {
			fn(e.key, e.val)
		}

		cursor |= ^m0
		cursor = bits.Reverse32(cursor)
		cursor++

		return bits.Reverse32(cursor)
	}

	t0, t1 := &d.ht[0], &d.ht[1]
	if t0.size > t1.size {
		t0, t1 = t1, t0
	}
	m0, m1 := t0.sizemask, t1.sizemask

	for e := t0.buckets[cursor&m0]; e != nil; e = e.next {
		fn(e.key, e.val)
	}

	for {
		for e := t1.buckets[cursor&m1]; e != nil; e = e.next {
			fn(e.key, e.val)
		}

		cursor |= ^m1
		cursor = bits.Reverse32(cursor)
		cursor++
		cursor = bits.Reverse32(cursor)

		if cursor&(m0^m1) == 0 {
			break
		}
	}

	return cursor
}
