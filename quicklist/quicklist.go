package quicklist

import (
	"strconv"

	"github.com/arloliu/packedstore/compress"
	"github.com/arloliu/packedstore/ziplist"
)

// Side selects an end of the list.
type Side = ziplist.Side

const (
	Head = ziplist.Head
	Tail = ziplist.Tail
)

// QuickList is a doubly linked list of ziplist-backed nodes.
type QuickList struct {
	head, tail *node
	len        int // node count
	count      int // total entry count across all nodes

	fill          int
	compressDepth int
	codec         compress.Codec
}

// New returns an empty QuickList. Default fill is -2 (8 KiB per-node
// budget); compression is disabled by default (compressDepth=0).
func New(opts ...Option) *QuickList {
	q := &QuickList{fill: defaultFill}
	for _, opt := range opts {
		opt(q)
	}

	return q
}

func (q *QuickList) codecOrDefault() compress.Codec {
	if q.codec == nil {
		q.codec, _ = compress.New(compress.LZ4)
	}

	return q.codec
}

// Count returns the total number of entries.
func (q *QuickList) Count() int { return q.count }

// Len returns the number of nodes.
func (q *QuickList) Len() int { return q.len }

func estimatedEntrySize(data []byte) int {
	// Worst case: 5-byte prevrawlen + 5-byte string length prefix.
	return len(data) + 10
}

// Push appends data to the given side of the list, spilling into a new
// node if the edge node's fill policy would be exceeded.
func (q *QuickList) Push(side Side, data []byte) error {
	var n *node
	if side == Head {
		n = q.head
	} else {
		n = q.tail
	}

	if n == nil {
		n = newNode(ziplist.New())
		q.head, q.tail = n, n
		q.len++
	} else {
		zl, err := n.ensureRaw(q.codecOrDefault())
		if err != nil {
			return err
		}
		if !q.fitsInNode(zl.BlobLength(), n.count, estimatedEntrySize(data)) {
			fresh := newNode(ziplist.New())
			if side == Head {
				fresh.next = q.head
				q.head.prev = fresh
				q.head = fresh
			} else {
				fresh.prev = q.tail
				q.tail.next = fresh
				q.tail = fresh
			}
			n = fresh
			q.len++
		}
	}

	n.zl.Push(side, data)
	n.count++
	q.count++
	q.fixupCompression()

	return nil
}

// Pop removes and returns the entry at the given side.
func (q *QuickList) Pop(side Side) (ziplist.Entry, bool, error) {
	var n *node
	if side == Head {
		n = q.head
	} else {
		n = q.tail
	}
	if n == nil {
		return ziplist.Entry{}, false, nil
	}

	zl, err := n.ensureRaw(q.codecOrDefault())
	if err != nil {
		return ziplist.Entry{}, false, err
	}

	var p int
	var ok bool
	if side == Head {
		p, ok = zl.Index(0)
	} else {
		p, ok = zl.Index(-1)
	}
	if !ok {
		return ziplist.Entry{}, false, nil
	}

	e, err := zl.Get(p)
	if err != nil {
		return ziplist.Entry{}, false, err
	}
	out := e
	if !e.IsInt {
		out.Bytes = append([]byte(nil), e.Bytes...)
	}

	if err := zl.Delete(p); err != nil {
		return ziplist.Entry{}, false, err
	}
	n.count--
	q.count--
	if n.count == 0 {
		q.removeNode(n)
	}
	q.fixupCompression()

	return out, true, nil
}

// Rotate moves the tail entry to the head.
func (q *QuickList) Rotate() error {
	e, ok, err := q.Pop(Tail)
	if err != nil || !ok {
		return err
	}
	if e.IsInt {
		return q.Push(Head, []byte(strconv.FormatInt(e.Int, 10)))
	}

	return q.Push(Head, e.Bytes)
}

func (q *QuickList) removeNode(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		q.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		q.tail = n.prev
	}
	q.len--
}

// Cursor identifies one entry's position: a node plus an offset into
// that node's ziplist. A cursor is invalidated by any mutation of its
// node and should not be retained across calls other than the one that
// produced it.
type Cursor struct {
	n      *node
	offset int
}

// Index returns a cursor to the i-th entry (0-based), with negative i
// counting from the tail.
func (q *QuickList) Index(i int) (Cursor, bool) {
	if i < 0 {
		i += q.count
	}
	if i < 0 || i >= q.count {
		return Cursor{}, false
	}

	n := q.head
	for n != nil {
		if i < n.count {
			zl, err := n.ensureRaw(q.codecOrDefault())
			if err != nil {
				return Cursor{}, false
			}
			p, ok := zl.Index(i)
			if !ok {
				return Cursor{}, false
			}

			return Cursor{n: n, offset: p}, true
		}
		i -= n.count
		n = n.next
	}

	return Cursor{}, false
}

// Get decodes the entry at a cursor.
func (q *QuickList) Get(c Cursor) (ziplist.Entry, error) {
	return c.n.zl.Get(c.offset)
}

func pushEntry(zl *ziplist.ZipList, side Side, e ziplist.Entry) {
	if e.IsInt {
		zl.Push(side, []byte(strconv.FormatInt(e.Int, 10)))

		return
	}
	zl.Push(side, e.Bytes)
}

// splitNode divides n's ziplist at offset into two new nodes (entries
// before offset, entries from offset onward), replacing n in the list.
func (q *QuickList) splitNode(n *node, offset int) (left, right *node) {
	zl := n.zl
	leftZL, rightZL := ziplist.New(), ziplist.New()

	p, ok := zl.Index(0)
	for ok && p != offset {
		e, _ := zl.Get(p)
		pushEntry(leftZL, Tail, e)
		p, ok = zl.Next(p)
	}
	for ok {
		e, _ := zl.Get(p)
		pushEntry(rightZL, Tail, e)
		p, ok = zl.Next(p)
	}

	left = newNode(leftZL)
	right = newNode(rightZL)
	left.prev = n.prev
	right.next = n.next
	left.next = right
	right.prev = left
	if n.prev != nil {
		n.prev.next = left
	} else {
		q.head = left
	}
	if n.next != nil {
		n.next.prev = right
	} else {
		q.tail = right
	}
	q.len++

	return left, right
}

// InsertBefore inserts data immediately before the entry at c, splitting
// c's node if the fill policy would otherwise be exceeded.
func (q *QuickList) InsertBefore(c Cursor, data []byte) {
	n := c.n
	if q.fitsInNode(n.zl.BlobLength(), n.count, estimatedEntrySize(data)) {
		n.zl.InsertBefore(c.offset, data)
		n.count++
		q.count++
		q.fixupCompression()

		return
	}

	left, _ := q.splitNode(n, c.offset)
	left.zl.Push(Tail, data)
	left.count++
	q.count++
	q.fixupCompression()
}

// InsertAfter inserts data immediately after the entry at c.
func (q *QuickList) InsertAfter(c Cursor, data []byte) {
	if next, ok := c.n.zl.Next(c.offset); ok {
		q.InsertBefore(Cursor{n: c.n, offset: next}, data)

		return
	}

	n := c.n
	if q.fitsInNode(n.zl.BlobLength(), n.count, estimatedEntrySize(data)) {
		n.zl.Push(Tail, data)
		n.count++
		q.count++
		q.fixupCompression()

		return
	}

	if n.next != nil {
		nz, err := n.next.ensureRaw(q.codecOrDefault())
		if err == nil && q.fitsInNode(nz.BlobLength(), n.next.count, estimatedEntrySize(data)) {
			nz.Push(Head, data)
			n.next.count++
			q.count++
			q.fixupCompression()

			return
		}
	}

	fresh := newNode(ziplist.New())
	fresh.zl.Push(Tail, data)
	fresh.count = 1
	fresh.prev = n
	fresh.next = n.next
	if n.next != nil {
		n.next.prev = fresh
	} else {
		q.tail = fresh
	}
	n.next = fresh
	q.len++
	q.count++
	q.fixupCompression()
}

// Delete removes the entry at c.
func (q *QuickList) Delete(c Cursor) error {
	if err := c.n.zl.Delete(c.offset); err != nil {
		return err
	}
	c.n.count--
	q.count--
	if c.n.count == 0 {
		q.removeNode(c.n)
	}
	q.fixupCompression()

	return nil
}

// DeleteRange removes up to count entries starting at index start.
func (q *QuickList) DeleteRange(start, count int) {
	for i := 0; i < count; i++ {
		c, ok := q.Index(start)
		if !ok {
			return
		}
		if err := q.Delete(c); err != nil {
			return
		}
	}
}

// ReplaceAtIndex overwrites the entry at index i with data, reporting
// ok=false if i is out of range.
func (q *QuickList) ReplaceAtIndex(i int, data []byte) bool {
	c, ok := q.Index(i)
	if !ok {
		return false
	}
	if err := q.Delete(c); err != nil {
		return false
	}
	if i >= q.count {
		_ = q.Push(Tail, data)

		return true
	}
	if c2, ok2 := q.Index(i); ok2 {
		q.InsertBefore(c2, data)
	} else {
		_ = q.Push(Tail, data)
	}

	return true
}

// AppendZiplist adopts an entire raw ziplist buffer as a single new tail
// node, without re-encoding its entries.
func (q *QuickList) AppendZiplist(raw []byte) error {
	zl, err := ziplist.Parse(append([]byte(nil), raw...))
	if err != nil {
		return err
	}

	n := newNode(zl)
	if q.tail == nil {
		q.head, q.tail = n, n
	} else {
		n.prev = q.tail
		q.tail.next = n
		q.tail = n
	}
	q.len++
	q.count += n.count
	q.fixupCompression()

	return nil
}

// ValuesFromZiplist explodes a raw ziplist into individual tail pushes.
func (q *QuickList) ValuesFromZiplist(raw []byte) error {
	zl, err := ziplist.Parse(raw)
	if err != nil {
		return err
	}
	for p, ok := zl.Index(0); ok; p, ok = zl.Next(p) {
		e, err := zl.Get(p)
		if err != nil {
			return err
		}
		if e.IsInt {
			if err := q.Push(Tail, []byte(strconv.FormatInt(e.Int, 10))); err != nil {
				return err
			}

			continue
		}
		if err := q.Push(Tail, e.Bytes); err != nil {
			return err
		}
	}

	return nil
}

func (q *QuickList) nextCursor(c Cursor) (Cursor, bool) {
	if p, ok := c.n.zl.Next(c.offset); ok {
		return Cursor{n: c.n, offset: p}, true
	}
	for n := c.n.next; n != nil; n = n.next {
		zl, err := n.ensureRaw(q.codecOrDefault())
		if err != nil {
			return Cursor{}, false
		}
		if p, ok := zl.Index(0); ok {
			return Cursor{n: n, offset: p}, true
		}
	}

	return Cursor{}, false
}

func (q *QuickList) prevCursor(c Cursor) (Cursor, bool) {
	if p, ok := c.n.zl.Prev(c.offset); ok {
		return Cursor{n: c.n, offset: p}, true
	}
	for n := c.n.prev; n != nil; n = n.prev {
		zl, err := n.ensureRaw(q.codecOrDefault())
		if err != nil {
			return Cursor{}, false
		}
		if p, ok := zl.Index(-1); ok {
			return Cursor{n: n, offset: p}, true
		}
	}

	return Cursor{}, false
}

func (q *QuickList) firstCursor() (Cursor, bool) {
	for n := q.head; n != nil; n = n.next {
		zl, err := n.ensureRaw(q.codecOrDefault())
		if err != nil {
			return Cursor{}, false
		}
		if p, ok := zl.Index(0); ok {
			return Cursor{n: n, offset: p}, true
		}
	}

	return Cursor{}, false
}

func (q *QuickList) lastCursor() (Cursor, bool) {
	for n := q.tail; n != nil; n = n.prev {
		zl, err := n.ensureRaw(q.codecOrDefault())
		if err != nil {
			return Cursor{}, false
		}
		if p, ok := zl.Index(-1); ok {
			return Cursor{n: n, offset: p}, true
		}
	}

	return Cursor{}, false
}

// Iterator walks the list forward or backward.
type Iterator struct {
	q       *QuickList
	cur     Cursor
	ok      bool
	started bool
	reverse bool
}

// NewIterator returns an iterator starting before the first entry (or,
// if reverse, after the last).
func (q *QuickList) NewIterator(reverse bool) *Iterator {
	return &Iterator{q: q, reverse: reverse}
}

// NewIteratorAt returns an iterator positioned at index i.
func (q *QuickList) NewIteratorAt(i int, reverse bool) (*Iterator, bool) {
	c, ok := q.Index(i)
	if !ok {
		return nil, false
	}

	return &Iterator{q: q, cur: c, ok: true, started: true, reverse: reverse}, true
}

// Next advances the iterator and returns the entry it now points to.
func (it *Iterator) Next() (ziplist.Entry, bool) {
	if !it.started {
		it.started = true
		if it.reverse {
			it.cur, it.ok = it.q.lastCursor()
		} else {
			it.cur, it.ok = it.q.firstCursor()
		}
	} else if it.ok {
		if it.reverse {
			it.cur, it.ok = it.q.prevCursor(it.cur)
		} else {
			it.cur, it.ok = it.q.nextCursor(it.cur)
		}
	}
	if !it.ok {
		return ziplist.Entry{}, false
	}

	e, err := it.cur.n.zl.Get(it.cur.offset)
	if err != nil {
		it.ok = false

		return ziplist.Entry{}, false
	}

	return e, true
}

func entryText(e ziplist.Entry) string {
	if e.IsInt {
		return strconv.FormatInt(e.Int, 10)
	}

	return string(e.Bytes)
}

// Compare reports whether a and b hold the same sequence of values.
func Compare(a, b *QuickList) bool {
	if a.count != b.count {
		return false
	}

	ca, oka := a.firstCursor()
	cb, okb := b.firstCursor()
	for oka && okb {
		ea, err := a.Get(ca)
		if err != nil {
			return false
		}
		eb, err := b.Get(cb)
		if err != nil {
			return false
		}
		if entryText(ea) != entryText(eb) {
			return false
		}
		ca, oka = a.nextCursor(ca)
		cb, okb = b.nextCursor(cb)
	}

	return oka == okb
}

// fixupCompression keeps the first and last compressDepth nodes raw and
// compresses everything strictly between them. compressDepth <= 0
// disables compression entirely.
func (q *QuickList) fixupCompression() {
	if q.compressDepth <= 0 {
		return
	}

	codec := q.codecOrDefault()
	pos := 0
	for n := q.head; n != nil; n = n.next {
		keepRaw := pos < q.compressDepth || (q.len-1-pos) < q.compressDepth
		if keepRaw {
			if n.encoding != encRaw {
				_, _ = n.ensureRaw(codec)
			}
		} else {
			n.tryCompress(codec)
		}
		pos++
	}
}
