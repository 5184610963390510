package dictmap

import (
	"time"

	"github.com/arloliu/packedstore/errs"
	"github.com/arloliu/packedstore/internal/prng"
)

// initialSize is the smallest table size a Dict ever allocates.
const initialSize = 4

// forceResizeRatio is the load factor beyond which expand() runs even
// when resizing has been administratively disabled.
const forceResizeRatio = 5.0

type table struct {
	buckets  []*Entry
	size     int
	sizemask uint32
	used     int
}

// Dict is a chained hash map with incremental two-table rehashing.
type Dict struct {
	typ       *Type
	privdata  any
	ht        [2]table
	rehashidx int // -1 when not rehashing
	iterators int
	noResize  bool
}

// New returns an empty Dict using typ's callbacks.
func New(typ *Type, privdata any) *Dict {
	return &Dict{typ: typ, privdata: privdata, rehashidx: -1}
}

func nextPow2(n int) int {
	if n < initialSize {
		return initialSize
	}
	size := initialSize
	for size < n {
		size <<= 1
	}

	return size
}

func (d *Dict) isRehashing() bool { return d.rehashidx != -1 }

func (d *Dict) dupKey(key any) any {
	if d.typ.KeyDup != nil {
		return d.typ.KeyDup(d.privdata, key)
	}

	return key
}

func (d *Dict) dupVal(val any) any {
	if d.typ.ValDup != nil {
		return d.typ.ValDup(d.privdata, val)
	}

	return val
}

func (d *Dict) compareKeys(a, b any) bool {
	if d.typ.KeyCompare != nil {
		return d.typ.KeyCompare(d.privdata, a, b)
	}

	return a == b
}

func (d *Dict) destroyKey(key any) {
	if d.typ.KeyDestroy != nil {
		d.typ.KeyDestroy(d.privdata, key)
	}
}

func (d *Dict) destroyVal(val any) {
	if d.typ.ValDestroy != nil {
		d.typ.ValDestroy(d.privdata, val)
	}
}

// Size returns the total number of entries across both tables.
func (d *Dict) Size() int { return d.ht[0].used + d.ht[1].used }

// SlotCount returns the total number of buckets across both tables.
func (d *Dict) SlotCount() int { return d.ht[0].size + d.ht[1].size }

// EnableResize allows load-factor-triggered growth again.
func (d *Dict) EnableResize() { d.noResize = false }

// DisableResize suppresses load-factor-triggered growth, except when the
// load ratio exceeds forceResizeRatio.
func (d *Dict) DisableResize() { d.noResize = true }

func (d *Dict) expand(size int) error {
	if d.isRehashing() {
		return errs.ErrAllocFailed
	}
	if size < d.ht[0].used {
		return errs.ErrAllocFailed
	}

	realSize := nextPow2(size)
	if realSize == d.ht[0].size {
		return nil
	}

	newTable := table{
		buckets:  make([]*Entry, realSize),
		size:     realSize,
		sizemask: uint32(realSize - 1), //nolint:gosec
	}

	if d.ht[0].buckets == nil {
		d.ht[0] = newTable

		return nil
	}

	d.ht[1] = newTable
	d.rehashidx = 0

	return nil
}

// ExpandTo grows the map to hold at least size buckets, starting an
// incremental rehash if the map is already populated.
func (d *Dict) ExpandTo(size int) error { return d.expand(size) }

// ResizeToFit shrinks the map to the smallest power of two that still
// holds its current entries, unless a rehash is already in flight.
func (d *Dict) ResizeToFit() error {
	if d.isRehashing() {
		return nil
	}
	minimal := d.ht[0].used
	if minimal < initialSize {
		minimal = initialSize
	}

	return d.expand(minimal)
}

func (d *Dict) expandIfNeeded() error {
	if d.isRehashing() {
		return nil
	}
	if d.ht[0].size == 0 {
		return d.expand(initialSize)
	}
	if d.ht[0].used >= d.ht[0].size {
		if !d.noResize {
			return d.expand(d.ht[0].used * 2)
		}
		if float64(d.ht[0].used)/float64(d.ht[0].size) > forceResizeRatio {
			return d.expand(d.ht[0].used * 2)
		}
	}

	return nil
}

// rehash performs up to n units of migration work, scanning at most 10*n
// consecutive empty buckets before giving up for this call. Returns true
// if more rehashing work remains.
func (d *Dict) rehash(n int) bool {
	emptyVisits := n * 10
	for ; n > 0 && d.ht[0].used != 0; n-- {
		for d.ht[0].buckets[d.rehashidx] == nil {
			d.rehashidx++
			emptyVisits--
			if emptyVisits == 0 {
				return true
			}
		}

		entry := d.ht[0].buckets[d.rehashidx]
		for entry != nil {
			next := entry.next
			idx := d.typ.HashKey(entry.key) & d.ht[1].sizemask
			entry.next = d.ht[1].buckets[idx]
			d.ht[1].buckets[idx] = entry
			d.ht[0].used--
			d.ht[1].used++
			entry = next
		}
		d.ht[0].buckets[d.rehashidx] = nil
		d.rehashidx++
	}

	if d.ht[0].used == 0 {
		d.ht[0] = d.ht[1]
		d.ht[1] = table{}
		d.rehashidx = -1

		return false
	}

	return true
}

// rehashStep performs exactly one step of incremental rehashing, unless
// an iterator is active.
func (d *Dict) rehashStep() {
	if d.iterators != 0 || !d.isRehashing() {
		return
	}
	d.rehash(1)
}

// RehashMillis runs rehash in batches of 100 steps until no work remains
// or the given duration elapses, returning early in either case.
func (d *Dict) RehashMillis(budget time.Duration) {
	if d.iterators != 0 {
		return
	}
	deadline := time.Now().Add(budget)
	for d.isRehashing() {
		if !d.rehash(100) {
			return
		}
		if time.Now().After(deadline) {
			return
		}
	}
}

// keyIndex locates key's existing entry if present, else the (table,
// index) pair where a new entry for key should be linked. Callers must
// have already run expandIfNeeded.
func (d *Dict) keyIndex(key any) (tbl int, idx int, existing *Entry) {
	hashv := d.typ.HashKey(key)

	tables := 1
	if d.isRehashing() {
		tables = 2
	}
	for t := 0; t < tables; t++ {
		i := hashv & d.ht[t].sizemask
		for e := d.ht[t].buckets[i]; e != nil; e = e.next {
			if d.compareKeys(key, e.key) {
				return t, int(i), e
			}
		}
	}

	target := 0
	if d.isRehashing() {
		target = 1
	}

	return target, int(hashv & d.ht[target].sizemask), nil
}

// AddRaw inserts a bare entry for key and returns it, or returns (nil,
// nil) if key already exists.
func (d *Dict) AddRaw(key any) (*Entry, error) {
	d.rehashStep()
	if err := d.expandIfNeeded(); err != nil {
		return nil, err
	}

	t, idx, existing := d.keyIndex(key)
	if existing != nil {
		return nil, nil
	}

	entry := &Entry{key: d.dupKey(key)}
	entry.next = d.ht[t].buckets[idx]
	d.ht[t].buckets[idx] = entry
	d.ht[t].used++

	return entry, nil
}

// Add inserts key/val, failing with errs.ErrKeyExists if key is already
// present.
func (d *Dict) Add(key, val any) error {
	entry, err := d.AddRaw(key)
	if err != nil {
		return err
	}
	if entry == nil {
		return errs.ErrKeyExists
	}
	entry.val = d.dupVal(val)

	return nil
}

// Replace inserts or overwrites key/val, returning inserted=true only
// when key was not already present.
func (d *Dict) Replace(key, val any) (inserted bool, err error) {
	d.rehashStep()
	if err := d.expandIfNeeded(); err != nil {
		return false, err
	}

	t, idx, existing := d.keyIndex(key)
	if existing != nil {
		old := existing.val
		existing.val = d.dupVal(val)
		d.destroyVal(old)

		return false, nil
	}

	entry := &Entry{key: d.dupKey(key), val: d.dupVal(val)}
	entry.next = d.ht[t].buckets[idx]
	d.ht[t].buckets[idx] = entry
	d.ht[t].used++

	return true, nil
}

func (d *Dict) findEntry(key any) *Entry {
	if d.ht[0].size == 0 {
		return nil
	}

	hashv := d.typ.HashKey(key)
	tables := 1
	if d.isRehashing() {
		tables = 2
	}
	for t := 0; t < tables; t++ {
		idx := hashv & d.ht[t].sizemask
		for e := d.ht[t].buckets[idx]; e != nil; e = e.next {
			if d.compareKeys(key, e.key) {
				return e
			}
		}
	}

	return nil
}

// Find looks up key, running one rehash step along the way.
func (d *Dict) Find(key any) (*Entry, bool) {
	d.rehashStep()
	e := d.findEntry(key)

	return e, e != nil
}

// FetchValue is a convenience wrapper around Find returning just the
// value.
func (d *Dict) FetchValue(key any) (any, bool) {
	e, ok := d.Find(key)
	if !ok {
		return nil, false
	}

	return e.val, true
}

// Delete removes key if present, running the key/value destroy callbacks
// and one rehash step.
func (d *Dict) Delete(key any) bool {
	d.rehashStep()
	if d.ht[0].size == 0 {
		return false
	}

	hashv := d.typ.HashKey(key)
	tables := 1
	if d.isRehashing() {
		tables = 2
	}
	for t := 0; t < tables; t++ {
		idx := hashv & d.ht[t].sizemask
		var prev *Entry
		e := d.ht[t].buckets[idx]
		for e != nil {
			if d.compareKeys(key, e.key) {
				if prev != nil {
					prev.next = e.next
				} else {
					d.ht[t].buckets[idx] = e.next
				}
				d.destroyKey(e.key)
				d.destroyVal(e.val)
				d.ht[t].used--

				return true
			}
			prev = e
			e = e.next
		}
	}

	return false
}

// Empty removes every entry, invoking fn (if non-nil) for each one before
// it is discarded.
func (d *Dict) Empty(fn func(key, val any)) {
	if fn != nil {
		for t := range d.ht {
			for _, bucket := range d.ht[t].buckets {
				for e := bucket; e != nil; e = e.next {
					fn(e.key, e.val)
				}
			}
		}
	}
	d.ht[0] = table{}
	d.ht[1] = table{}
	d.rehashidx = -1
}

// ForEach runs fn for every entry using a safe iterator, stopping early
// if fn returns false.
func (d *Dict) ForEach(fn func(key, val any) bool) {
	it := d.GetSafeIterator()
	defer d.ReleaseIterator(it)
	for {
		e, ok := it.Next()
		if !ok {
			return
		}
		if !fn(e.key, e.val) {
			return
		}
	}
}

// GetRandomKey returns a uniformly chosen entry, weighted by how many
// slots each non-empty bucket could have come from. Returns ok=false on
// an empty map.
func (d *Dict) GetRandomKey(src prng.Source) (*Entry, bool) {
	if d.Size() == 0 {
		return nil, false
	}

	maxAttempts := d.SlotCount()*2 + 16
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var e *Entry
		if d.isRehashing() {
			remaining := d.ht[0].size - d.rehashidx
			total := remaining + d.ht[1].size
			if total <= 0 {
				continue
			}
			pick := src.Intn(total)
			if pick < remaining {
				e = d.ht[0].buckets[d.rehashidx+pick]
			} else {
				e = d.ht[1].buckets[pick-remaining]
			}
		} else {
			if d.ht[0].size == 0 {
				return nil, false
			}
			e = d.ht[0].buckets[src.Intn(d.ht[0].size)]
		}
		if e == nil {
			continue
		}

		n := 0
		for c := e; c != nil; c = c.next {
			n++
		}
		skip := src.Intn(n)
		for ; skip > 0; skip-- {
			e = e.next
		}

		return e, true
	}

	return nil, false
}

// GetSomeKeys samples up to n entries by walking contiguous buckets from
// a random starting offset, stopping early once a safety bound of n*10
// steps is reached.
func (d *Dict) GetSomeKeys(n int, src prng.Source) []*Entry {
	if d.Size() == 0 || n <= 0 {
		return nil
	}

	result := make([]*Entry, 0, n)
	maxSteps := n * 10

	bigger := &d.ht[0]
	if d.ht[1].size > bigger.size {
		bigger = &d.ht[1]
	}
	i := src.Intn(bigger.size)

	for steps := 0; len(result) < n && steps < maxSteps; steps++ {
		tables := 1
		if d.isRehashing() {
			tables = 2
		}
		for t := 0; t < tables; t++ {
			cur := &d.ht[t]
			if cur.size == 0 {
				continue
			}
			idx := i & int(cur.sizemask)
			for e := cur.buckets[idx]; e != nil && len(result) < n; e = e.next {
				result = append(result, e)
			}
		}
		i++
	}

	return result
}
