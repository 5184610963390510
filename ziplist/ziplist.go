package ziplist

import (
	"strconv"

	"github.com/arloliu/packedstore/endian"
	"github.com/arloliu/packedstore/errs"
)

// headerEngine decodes/encodes the fixed zlbytes/zltail/zllen header, which
// the wire format fixes as little-endian.
var headerEngine = endian.GetLittleEndianEngine()

// HeaderSize is the fixed size of the zlbytes/zltail/zllen header.
const HeaderSize = 4 + 4 + 2

// LenUnknown is the sentinel zllen value meaning "overflowed past 65534
// entries, scan to count".
const LenUnknown = 0xFFFF

// Side selects which end of the list an operation targets.
type Side int

const (
	Head Side = iota
	Tail
)

// ZipList is a packed, doubly traversable sequence of string-or-integer
// entries backed by a single contiguous buffer.
type ZipList struct {
	buf []byte
}

// Entry is the decoded value at a ziplist position: either bytes or an
// integer, never both.
type Entry struct {
	Bytes []byte
	Int   int64
	IsInt bool
}

// New returns an empty ziplist.
func New() *ZipList {
	z := &ZipList{buf: make([]byte, HeaderSize+1)}
	z.buf[HeaderSize] = zlEnd
	z.setZlbytes(HeaderSize + 1)
	z.setZltail(HeaderSize)
	z.setZllen(0)

	return z
}

// Parse wraps an existing byte-exact buffer as a ZipList without copying.
func Parse(data []byte) (*ZipList, error) {
	if len(data) < HeaderSize+1 {
		return nil, errs.ErrTruncatedBuffer
	}
	if data[len(data)-1] != zlEnd {
		return nil, errs.ErrBadSentinel
	}
	z := &ZipList{buf: data}
	if int(z.zlbytes()) != len(data) {
		return nil, errs.ErrTruncatedBuffer
	}

	return z, nil
}

// Bytes returns the ziplist's on-disk representation.
func (z *ZipList) Bytes() []byte { return z.buf }

// BlobLength returns the total buffer size (zlbytes).
func (z *ZipList) BlobLength() int { return int(z.zlbytes()) }

func (z *ZipList) zlbytes() uint32  { return headerEngine.Uint32(z.buf[0:4]) }
func (z *ZipList) zltail() uint32   { return headerEngine.Uint32(z.buf[4:8]) }
func (z *ZipList) zllenRaw() uint16 { return headerEngine.Uint16(z.buf[8:10]) }
func (z *ZipList) setZlbytes(v int) { headerEngine.PutUint32(z.buf[0:4], uint32(v)) } //nolint:gosec
func (z *ZipList) setZltail(v int)  { headerEngine.PutUint32(z.buf[4:8], uint32(v)) } //nolint:gosec
func (z *ZipList) setZllen(v int) {
	if v >= LenUnknown {
		headerEngine.PutUint16(z.buf[8:10], LenUnknown)

		return
	}
	headerEngine.PutUint16(z.buf[8:10], uint16(v)) //nolint:gosec
}

// Length returns the number of entries, scanning the buffer if the header
// count has saturated at LenUnknown.
func (z *ZipList) Length() int {
	if z.zllenRaw() != LenUnknown {
		return int(z.zllenRaw())
	}

	n := 0
	for p := HeaderSize; z.buf[p] != zlEnd; {
		h, err := parseEntryHeader(z.buf, p)
		if err != nil {
			break
		}
		p += h.rawSize()
		n++
	}
	// Narrow back now that an exact count is known. Only this rescan writes
	// the count back; mutations leave a saturated zllen at LenUnknown.
	z.setZllen(n)

	return n
}

func (z *ZipList) firstOffset() int { return HeaderSize }

func (z *ZipList) lastOffset() int { return int(z.zltail()) }

// Index returns the offset of the i-th entry (0-based), or supports
// negative indices counting from the tail (-1 is the last entry). Reports
// ok=false if out of range.
func (z *ZipList) Index(i int) (offset int, ok bool) {
	if i >= 0 {
		p := z.firstOffset()
		for ; i > 0 && z.buf[p] != zlEnd; i-- {
			h, err := parseEntryHeader(z.buf, p)
			if err != nil {
				return 0, false
			}
			p += h.rawSize()
		}
		if z.buf[p] == zlEnd {
			return 0, false
		}

		return p, true
	}

	// Negative index: walk backward from the tail.
	p := z.lastOffset()
	steps := -i - 1
	for ; steps > 0; steps-- {
		prev, ok := z.Prev(p)
		if !ok {
			return 0, false
		}
		p = prev
	}
	if p < z.firstOffset() || p >= int(z.zlbytes())-1 {
		return 0, false
	}

	return p, true
}

// Next returns the offset of the entry following p, or ok=false if p is
// the last entry.
func (z *ZipList) Next(p int) (int, bool) {
	h, err := parseEntryHeader(z.buf, p)
	if err != nil {
		return 0, false
	}
	next := p + h.rawSize()
	if z.buf[next] == zlEnd {
		return 0, false
	}

	return next, true
}

// Prev returns the offset of the entry preceding p, or ok=false if p is
// the first entry. It walks using the predecessor's recorded raw size, so
// it is O(1) regardless of buffer size.
func (z *ZipList) Prev(p int) (int, bool) {
	if p <= z.firstOffset() {
		return 0, false
	}
	_, prevLen := readPrevLen(z.buf, p)

	return p - prevLen, true
}

// Get decodes the value stored at offset p.
func (z *ZipList) Get(p int) (Entry, error) {
	h, err := parseEntryHeader(z.buf, p)
	if err != nil {
		return Entry{}, err
	}
	if h.isInt {
		return Entry{Int: h.intVal, IsInt: true}, nil
	}
	start := p + h.headerSize()

	return Entry{Bytes: z.buf[start : start+h.payloadSize]}, nil
}

// Compare reports whether the entry at p equals data, decoding integers
// back to their decimal text form for the comparison (spec's zlCompare
// semantics: an int-encoded "123" entry compares equal to the bytes
// "123").
func (z *ZipList) Compare(p int, data []byte) (bool, error) {
	e, err := z.Get(p)
	if err != nil {
		return false, err
	}
	if !e.IsInt {
		return string(e.Bytes) == string(data), nil
	}
	if v, ok := tryParseInt(data); ok {
		return v == e.Int, nil
	}

	return false, nil
}

// Find scans forward from p looking for an entry equal to needle, visiting
// every (skip+1)-th entry (skip=0 checks every entry). Returns ok=false if
// not found before the end of the list.
func (z *ZipList) Find(p int, needle []byte, skip int) (int, bool) {
	count := 0
	for {
		if z.buf[p] == zlEnd {
			return 0, false
		}
		if count == 0 {
			if eq, err := z.Compare(p, needle); err == nil && eq {
				return p, true
			}
			count = skip
		} else {
			count--
		}
		next, ok := z.Next(p)
		if !ok {
			return 0, false
		}
		p = next
	}
}

// spliceInsert grows the buffer by len(data), inserting data at offset and
// shifting everything from offset onward to the right.
func (z *ZipList) spliceInsert(offset int, data []byte) {
	newBuf := make([]byte, len(z.buf)+len(data))
	copy(newBuf, z.buf[:offset])
	copy(newBuf[offset:], data)
	copy(newBuf[offset+len(data):], z.buf[offset:])
	z.buf = newBuf
}

// spliceDelete shrinks the buffer by removing the n bytes starting at
// offset.
func (z *ZipList) spliceDelete(offset, n int) {
	newBuf := make([]byte, len(z.buf)-n)
	copy(newBuf, z.buf[:offset])
	copy(newBuf[offset:], z.buf[offset+n:])
	z.buf = newBuf
}

// fixPrevLenAt rewrites the prevrawlen field at offset to record rawLen,
// widening the field in place if its current width is insufficient. The
// field is never narrowed, even when rawLen would now fit a smaller width
// (spec section 9: avoids oscillation on repeated insert/delete at the
// same boundary). Reports whether the field grew, and by how much.
func (z *ZipList) fixPrevLenAt(offset, rawLen int) (grew bool, amount int) {
	existingSize, _ := readPrevLen(z.buf, offset)
	required := prevLenFieldSize(rawLen)
	if existingSize >= required {
		writePrevLen(z.buf, offset, existingSize, rawLen)

		return false, 0
	}

	grow := required - existingSize
	z.spliceInsert(offset, make([]byte, grow))
	writePrevLen(z.buf, offset, required, rawLen)
	z.setZlbytes(len(z.buf))
	if int(z.zltail()) > offset {
		z.setZltail(int(z.zltail()) + grow)
	}

	return true, grow
}

// cascadeUpdate propagates offset's entry's raw size forward into its
// successor's prevrawlen field, continuing for as long as each fix forces
// the next field to widen too. It stops as soon as a field already has
// sufficient width, or the 0xFF sentinel is reached.
func (z *ZipList) cascadeUpdate(offset int) {
	for {
		h, err := parseEntryHeader(z.buf, offset)
		if err != nil {
			return
		}
		next := offset + h.rawSize()
		if next >= len(z.buf) || z.buf[next] == zlEnd {
			return
		}
		grew, _ := z.fixPrevLenAt(next, h.rawSize())
		if !grew {
			return
		}
		offset = next
	}
}

// insertEntryAt splices a new entry encoding data immediately before the
// entry currently at offset (or at the tail, if offset is the sentinel's
// position).
func (z *ZipList) insertEntryAt(offset int, data []byte) {
	atEnd := z.buf[offset] == zlEnd

	var prevRawLen int
	switch {
	case offset == z.firstOffset():
		prevRawLen = 0
	case atEnd:
		h, _ := parseEntryHeader(z.buf, z.lastOffset())
		prevRawLen = h.rawSize()
	default:
		_, prevRawLen = readPrevLen(z.buf, offset)
	}

	plSize := prevLenFieldSize(prevRawLen)
	plBytes := make([]byte, plSize)
	writePrevLen(plBytes, 0, plSize, prevRawLen)

	header, payload := buildEncoding(data)
	entry := make([]byte, 0, plSize+len(header)+len(payload))
	entry = append(entry, plBytes...)
	entry = append(entry, header...)
	entry = append(entry, payload...)

	oldZltail := int(z.zltail())
	z.spliceInsert(offset, entry)
	z.setZlbytes(len(z.buf))

	switch {
	case atEnd:
		z.setZltail(offset)
	case oldZltail >= offset:
		z.setZltail(oldZltail + len(entry))
	}

	if raw := z.zllenRaw(); raw != LenUnknown {
		z.setZllen(int(raw) + 1)
	}

	z.cascadeUpdate(offset)
}

// Push appends data as a new entry at the given side of the list.
func (z *ZipList) Push(side Side, data []byte) {
	var offset int
	if side == Head {
		offset = z.firstOffset()
	} else {
		offset = int(z.zlbytes()) - 1
	}
	z.insertEntryAt(offset, data)
}

// InsertBefore inserts data as a new entry immediately before the entry at
// offset p.
func (z *ZipList) InsertBefore(p int, data []byte) {
	z.insertEntryAt(p, data)
}

// Delete removes the entry at offset p.
func (z *ZipList) Delete(p int) error {
	return z.DeleteRange(p, 1)
}

// DeleteRange removes up to count consecutive entries starting at offset
// p. Fewer than count entries are removed if the list ends first.
func (z *ZipList) DeleteRange(p int, count int) error {
	if count <= 0 {
		return nil
	}

	offset := p
	removed := 0
	for i := 0; i < count; i++ {
		h, err := parseEntryHeader(z.buf, offset)
		if err != nil {
			return err
		}
		offset += h.rawSize()
		removed++
		if z.buf[offset] == zlEnd {
			break
		}
	}

	span := offset - p
	atEnd := z.buf[offset] == zlEnd

	predOffset, hasPred := z.Prev(p)
	oldZltail := int(z.zltail())

	z.spliceDelete(p, span)
	z.setZlbytes(len(z.buf))

	switch {
	case atEnd && hasPred:
		z.setZltail(predOffset)
	case atEnd:
		z.setZltail(z.firstOffset())
	default:
		z.setZltail(oldZltail - span)
	}

	if raw := z.zllenRaw(); raw != LenUnknown {
		n := int(raw) - removed
		if n < 0 {
			n = 0
		}
		z.setZllen(n)
	}

	if !atEnd {
		if hasPred {
			z.cascadeUpdate(predOffset)
		} else {
			z.fixPrevLenAt(z.firstOffset(), 0)
		}
	}

	return nil
}

// Merge returns a new ziplist holding every entry of a followed by every
// entry of b. Integer-encoded entries are re-recognized rather than copied
// as opaque bytes, matching Push's own encoding choice.
func Merge(a, b *ZipList) *ZipList {
	out := New()
	appendAll(out, a)
	appendAll(out, b)

	return out
}

func appendAll(out *ZipList, z *ZipList) {
	for p, ok := z.Index(0); ok; p, ok = z.Next(p) {
		e, err := z.Get(p)
		if err != nil {
			break
		}
		if e.IsInt {
			out.Push(Tail, []byte(strconv.FormatInt(e.Int, 10)))

			continue
		}
		out.Push(Tail, e.Bytes)
	}
}
