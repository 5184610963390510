package intset

import (
	"fmt"
	"math"
	"sort"

	"github.com/arloliu/packedstore/endian"
	"github.com/arloliu/packedstore/errs"
	"github.com/arloliu/packedstore/internal/prng"
)

// wireEngine encodes the header and every element, fixed little-endian by
// the wire format.
var wireEngine = endian.GetLittleEndianEngine()

// Encoding is the per-element byte width of a packed set.
type Encoding uint32

// The three supported encoding widths, never any other value.
const (
	Enc16 Encoding = 2
	Enc32 Encoding = 4
	Enc64 Encoding = 8
)

// HeaderSize is the fixed size, in bytes, of the encoding+length header
// preceding the packed elements.
const HeaderSize = 8

// IntSet is a sorted packed integer set backed by a single flat buffer.
type IntSet struct {
	buf []byte
}

// New returns an empty IntSet with the narrowest encoding (2 bytes).
func New() *IntSet {
	s := &IntSet{buf: make([]byte, HeaderSize)}
	wireEngine.PutUint32(s.buf[0:4], uint32(Enc16))
	wireEngine.PutUint32(s.buf[4:8], 0)

	return s
}

// Parse validates and wraps an existing buffer as an IntSet without
// copying. The buffer must be exactly HeaderSize + length*encoding bytes.
func Parse(data []byte) (*IntSet, error) {
	if len(data) < HeaderSize {
		return nil, errs.ErrTruncatedBuffer
	}

	enc := Encoding(wireEngine.Uint32(data[0:4]))
	if enc != Enc16 && enc != Enc32 && enc != Enc64 {
		return nil, fmt.Errorf("intset: encoding %d: %w", enc, errs.ErrInvalidEncoding)
	}

	length := wireEngine.Uint32(data[4:8])
	want := HeaderSize + int(length)*int(enc)
	if len(data) != want {
		return nil, errs.ErrTruncatedBuffer
	}

	return &IntSet{buf: data}, nil
}

// Bytes returns the set's on-disk representation. The returned slice
// aliases the set's internal buffer.
func (s *IntSet) Bytes() []byte { return s.buf }

// ByteSize returns the total size of the packed buffer in bytes.
func (s *IntSet) ByteSize() int { return len(s.buf) }

// Encoding returns the current per-element width (2, 4 or 8).
func (s *IntSet) Encoding() Encoding {
	return Encoding(wireEngine.Uint32(s.buf[0:4]))
}

// Length returns the number of elements currently stored.
func (s *IntSet) Length() int {
	return int(wireEngine.Uint32(s.buf[4:8]))
}

func (s *IntSet) setHeader(enc Encoding, length int) {
	wireEngine.PutUint32(s.buf[0:4], uint32(enc))
	wireEngine.PutUint32(s.buf[4:8], uint32(length)) //nolint:gosec
}

// valueAt reads the signed integer stored at element index i under the
// set's current encoding.
func (s *IntSet) valueAt(i int) int64 {
	enc := s.Encoding()
	off := HeaderSize + i*int(enc)
	switch enc {
	case Enc16:
		return int64(int16(wireEngine.Uint16(s.buf[off : off+2])))
	case Enc32:
		return int64(int32(wireEngine.Uint32(s.buf[off : off+4])))
	default:
		return int64(wireEngine.Uint64(s.buf[off : off+8]))
	}
}

func (s *IntSet) writeAt(i int, v int64, enc Encoding) {
	off := HeaderSize + i*int(enc)
	switch enc {
	case Enc16:
		wireEngine.PutUint16(s.buf[off:off+2], uint16(int16(v)))
	case Enc32:
		wireEngine.PutUint32(s.buf[off:off+4], uint32(int32(v)))
	default:
		wireEngine.PutUint64(s.buf[off:off+8], uint64(v))
	}
}

// requiredEncoding returns the narrowest encoding able to represent v.
func requiredEncoding(v int64) Encoding {
	switch {
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return Enc16
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return Enc32
	default:
		return Enc64
	}
}

// search performs a binary search for v over the current elements.
// Returns the index of v if found, or the index at which v should be
// inserted to keep the set sorted, plus whether v was found.
func (s *IntSet) search(v int64) (idx int, found bool) {
	n := s.Length()
	i := sort.Search(n, func(i int) bool { return s.valueAt(i) >= v })
	if i < n && s.valueAt(i) == v {
		return i, true
	}

	return i, false
}

// Contains reports whether v is a member of the set.
func (s *IntSet) Contains(v int64) bool {
	_, found := s.search(v)

	return found
}

// GetAt returns the element at position pos in ascending order, or false
// if pos is out of range.
func (s *IntSet) GetAt(pos int) (int64, bool) {
	if pos < 0 || pos >= s.Length() {
		return 0, false
	}

	return s.valueAt(pos), true
}

// Random returns a uniformly chosen element using src. Returns
// errs.ErrEmptyContainer if the set has no elements, per spec's
// "empty-container sampling is a programmer error, callers must check
// length first" — the Go port still reports it instead of leaving undefined
// behavior.
func (s *IntSet) Random(src prng.Source) (int64, error) {
	n := s.Length()
	if n == 0 {
		return 0, errs.ErrEmptyContainer
	}

	return s.valueAt(src.Intn(n)), nil
}

// upgrade reallocates the buffer at a wider encoding and widens every
// existing element into its new slot, iterating from the highest index to
// the lowest so in-place-style widening never overwrites an element still
// to be read (mirrors the source's right-to-left widening pass, though Go's
// allocator makes a fresh buffer rather than realloc-in-place).
func (s *IntSet) upgrade(newEnc Encoding) {
	n := s.Length()
	newBuf := make([]byte, HeaderSize+n*int(newEnc))
	copy(newBuf, s.buf[:HeaderSize])
	wireEngine.PutUint32(newBuf[0:4], uint32(newEnc))

	tmp := &IntSet{buf: newBuf}
	for i := n - 1; i >= 0; i-- {
		tmp.writeAt(i, s.valueAt(i), newEnc)
	}

	s.buf = newBuf
}

// Add inserts v into the set, promoting the encoding first if v requires a
// wider width than the set currently uses. Returns inserted=false if v was
// already a member.
func (s *IntSet) Add(v int64) (inserted bool, err error) {
	need := requiredEncoding(v)
	cur := s.Encoding()

	if need > cur {
		// v is outside the representable range of the current encoding,
		// so by construction it is either below every current element or
		// above every current element (sorted order preserved either way).
		below := v < 0
		s.upgrade(need)
		n := s.Length()
		grown := make([]byte, len(s.buf)+int(need))
		copy(grown, s.buf)
		s.buf = grown
		if below {
			copy(s.buf[HeaderSize+int(need):], s.buf[HeaderSize:HeaderSize+n*int(need)])
			s.writeAt(0, v, need)
		} else {
			s.writeAt(n, v, need)
		}
		s.setHeader(need, n+1)

		return true, nil
	}

	idx, found := s.search(v)
	if found {
		return false, nil
	}

	n := s.Length()
	grown := make([]byte, len(s.buf)+int(cur))
	copy(grown, s.buf[:HeaderSize+idx*int(cur)])
	copy(grown[HeaderSize+(idx+1)*int(cur):], s.buf[HeaderSize+idx*int(cur):])
	s.buf = grown
	s.writeAt(idx, v, cur)
	s.setHeader(cur, n+1)

	return true, nil
}

// Remove deletes v from the set if present. The encoding is never
// demoted, even if every remaining element would fit a narrower width.
func (s *IntSet) Remove(v int64) (removed bool) {
	idx, found := s.search(v)
	if !found {
		return false
	}

	enc := s.Encoding()
	n := s.Length()
	shrunk := make([]byte, len(s.buf)-int(enc))
	copy(shrunk, s.buf[:HeaderSize+idx*int(enc)])
	copy(shrunk[HeaderSize+idx*int(enc):], s.buf[HeaderSize+(idx+1)*int(enc):])
	s.buf = shrunk
	s.setHeader(enc, n-1)

	return true
}

// All returns every element in ascending order. The returned slice is a
// fresh copy, safe to retain.
func (s *IntSet) All() []int64 {
	n := s.Length()
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = s.valueAt(i)
	}

	return out
}

// Intersect returns a new IntSet containing elements present in both a
// and b.
func Intersect(a, b *IntSet) *IntSet {
	out := New()
	ea, eb := a.All(), b.All()
	i, j := 0, 0
	for i < len(ea) && j < len(eb) {
		switch {
		case ea[i] == eb[j]:
			_, _ = out.Add(ea[i])
			i++
			j++
		case ea[i] < eb[j]:
			i++
		default:
			j++
		}
	}

	return out
}

// Union returns a new IntSet containing every element present in a or b.
func Union(a, b *IntSet) *IntSet {
	out := New()
	for _, v := range a.All() {
		_, _ = out.Add(v)
	}
	for _, v := range b.All() {
		_, _ = out.Add(v)
	}

	return out
}

// Difference returns a new IntSet containing elements of a not present in
// b.
func Difference(a, b *IntSet) *IntSet {
	out := New()
	bSet := make(map[int64]struct{}, b.Length())
	for _, v := range b.All() {
		bSet[v] = struct{}{}
	}
	for _, v := range a.All() {
		if _, in := bSet[v]; !in {
			_, _ = out.Add(v)
		}
	}

	return out
}
