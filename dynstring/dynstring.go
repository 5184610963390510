package dynstring

import (
	"bytes"
	"fmt"

	"github.com/arloliu/packedstore/errs"
	"github.com/arloliu/packedstore/internal/pool"
)

// DynString is a growable, binary-safe byte string. The zero value is not
// usable; construct one with New, NewFromBytes or NewFromString.
type DynString struct {
	buf *pool.ByteBuffer
}

// New returns an empty DynString with no backing allocation yet.
func New() *DynString {
	return &DynString{buf: pool.NewByteBuffer(0)}
}

// NewFromBytes returns a DynString holding a copy of b.
func NewFromBytes(b []byte) *DynString {
	s := New()
	s.buf.MustWrite(b)

	return s
}

// NewFromString returns a DynString holding a copy of s's bytes, the
// create-from-C-string equivalent for a Go string input.
func NewFromString(s string) *DynString {
	return NewFromBytes([]byte(s))
}

// Dup returns an independent copy of s.
func (s *DynString) Dup() *DynString {
	return NewFromBytes(s.Bytes())
}

// Len returns the current content length in bytes.
func (s *DynString) Len() int {
	return s.buf.Len()
}

// Avail returns the spare capacity beyond the current content length.
func (s *DynString) Avail() int {
	return s.buf.Cap() - s.buf.Len()
}

// AllocSize returns the total backing allocation size in bytes.
func (s *DynString) AllocSize() int {
	return s.buf.Cap()
}

// Bytes returns the content as a byte slice. The slice aliases s's backing
// array and must not be retained across further mutation of s.
func (s *DynString) Bytes() []byte {
	return s.buf.Bytes()
}

// String returns the content as a string (copies the bytes).
func (s *DynString) String() string {
	return string(s.buf.Bytes())
}

// MakeRoomFor ensures s can accept addlen more bytes without a further
// reallocation, following internal/pool.ByteBuffer's amortized growth
// policy.
func (s *DynString) MakeRoomFor(addlen int) {
	s.buf.Grow(addlen)
}

// ShrinkToFit reallocates s's backing array to exactly its content length,
// releasing any spare capacity.
func (s *DynString) ShrinkToFit() {
	if s.Avail() == 0 {
		return
	}
	tight := pool.NewByteBuffer(s.Len())
	tight.MustWrite(s.Bytes())
	s.buf = tight
}

// SetLen sets the content length directly without touching the bytes
// beyond the old length. n must be within [0, AllocSize()]; SetLen panics
// otherwise, mirroring the source's "caller already validated capacity"
// contract for this low-level primitive.
func (s *DynString) SetLen(n int) {
	s.buf.SetLength(n)
}

// IncrLen adjusts the content length by delta, which may be negative. It
// is used after writing directly into the spare capacity returned by
// MakeRoomFor + Bytes()[Len():AllocSize()].
func (s *DynString) IncrLen(delta int) {
	s.SetLen(s.Len() + delta)
}

// Append appends b to s, growing the backing array as needed, and returns
// s for chaining.
func (s *DynString) Append(b []byte) *DynString {
	s.buf.MustWrite(b)

	return s
}

// AppendString appends the bytes of str to s.
func (s *DynString) AppendString(str string) *DynString {
	return s.Append([]byte(str))
}

// AppendDynString appends other's content to s.
func (s *DynString) AppendDynString(other *DynString) *DynString {
	return s.Append(other.Bytes())
}

// AppendFormatted appends the result of fmt.Sprintf(format, args...) to s.
//
// This is the "slow but general" formatted append; callers on a hot path
// with simple integer/string arguments should prefer Append/AppendString
// directly (the source's "fast" append path exists only to skip the
// fmt machinery, which Go's fmt package already amortizes reasonably well).
func (s *DynString) AppendFormatted(format string, args ...any) *DynString {
	return s.AppendString(fmt.Sprintf(format, args...))
}

// CopyBytes overwrites s's content with a copy of b, reusing the backing
// array when it already has enough capacity.
func (s *DynString) CopyBytes(b []byte) *DynString {
	s.buf.Reset()
	s.buf.MustWrite(b)

	return s
}

// GrowZero grows s's content length to n, zero-filling any newly exposed
// bytes. If n <= Len(), GrowZero is a no-op.
func (s *DynString) GrowZero(n int) *DynString {
	old := s.Len()
	if n <= old {
		return s
	}
	s.buf.ExtendOrGrow(n - old)
	buf := s.Bytes()
	for i := old; i < n; i++ {
		buf[i] = 0
	}

	return s
}

// Trim removes leading and trailing bytes found in cutset, in place.
func (s *DynString) Trim(cutset []byte) *DynString {
	trimmed := bytes.Trim(s.Bytes(), string(cutset))
	copy(s.Bytes(), trimmed)
	s.buf.SetLength(len(trimmed))

	return s
}

// Range replaces s's content with the in-place slice [start, end), where
// negative indices count from the end of the string (as in Python-style
// slicing: -1 is the last byte). Out-of-range indices are clamped rather
// than erroring, matching the source's forgiving range semantics.
func (s *DynString) Range(start, end int) *DynString {
	n := s.Len()
	start = clampIndex(start, n)
	end = clampIndex(end, n)

	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		s.buf.SetLength(0)

		return s
	}

	buf := s.Bytes()
	copy(buf, buf[start:end])
	s.buf.SetLength(end - start)

	return s
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}

	return i
}

// Clear resets the content length to zero, retaining the backing capacity.
func (s *DynString) Clear() *DynString {
	s.buf.Reset()

	return s
}

// Compare performs a binary lexicographic comparison between s and other,
// with ties broken by length (the shorter of two otherwise-equal-prefix
// strings sorts first). It returns a value <0, 0 or >0 exactly like
// bytes.Compare.
func (s *DynString) Compare(other *DynString) int {
	return bytes.Compare(s.Bytes(), other.Bytes())
}

// SplitBySeparator splits s's content on every occurrence of sep, binary
// safe (sep and the content may contain zero bytes). An empty sep returns
// a single-element split containing a copy of the whole string (unlike
// bytes.Split, which splits after each UTF-8 sequence for an empty sep).
func (s *DynString) SplitBySeparator(sep []byte) []*DynString {
	if len(sep) == 0 {
		return []*DynString{s.Dup()}
	}

	parts := bytes.Split(s.Bytes(), sep)
	out := make([]*DynString, len(parts))
	for i, p := range parts {
		out[i] = NewFromBytes(p)
	}

	return out
}

// JoinCStrings concatenates strs with sep between each element into a new
// DynString.
func JoinCStrings(strs []string, sep string) *DynString {
	out := New()
	for i, str := range strs {
		if i > 0 {
			out.AppendString(sep)
		}
		out.AppendString(str)
	}

	return out
}

// JoinDynStrings concatenates strs with sep between each element into a
// new DynString.
func JoinDynStrings(strs []*DynString, sep string) *DynString {
	out := New()
	for i, str := range strs {
		if i > 0 {
			out.AppendString(sep)
		}
		out.AppendDynString(str)
	}

	return out
}

// ToUpper ASCII-uppercases the content in place, leaving non-ASCII-letter
// bytes untouched (per spec's non-goal of Unicode-aware operations).
func (s *DynString) ToUpper() *DynString {
	buf := s.Bytes()
	for i, b := range buf {
		if b >= 'a' && b <= 'z' {
			buf[i] = b - ('a' - 'A')
		}
	}

	return s
}

// ToLower ASCII-lowercases the content in place.
func (s *DynString) ToLower() *DynString {
	buf := s.Bytes()
	for i, b := range buf {
		if b >= 'A' && b <= 'Z' {
			buf[i] = b + ('a' - 'A')
		}
	}

	return s
}

// MapChars translates every byte in s's content found in from to the byte
// at the same index in to, in place. Panics if from and to have different
// lengths.
func (s *DynString) MapChars(from, to []byte) *DynString {
	if len(from) != len(to) {
		panic("dynstring: MapChars from/to length mismatch")
	}

	var table [256]byte
	for i := range table {
		table[i] = byte(i)
	}
	for i, f := range from {
		table[f] = to[i]
	}

	buf := s.Bytes()
	for i, b := range buf {
		buf[i] = table[b]
	}

	return s
}

// Repr returns a quoted, escape-encoded representation of s's content
// suitable for round-tripping through SplitArgs, with non-printable and
// reserved bytes escaped using \xHH.
func (s *DynString) Repr() string {
	var out bytes.Buffer
	out.WriteByte('"')
	for _, b := range s.Bytes() {
		switch b {
		case '"':
			out.WriteString(`\"`)
		case '\\':
			out.WriteString(`\\`)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case '\t':
			out.WriteString(`\t`)
		case '\a':
			out.WriteString(`\a`)
		case '\b':
			out.WriteString(`\b`)
		default:
			if b < 0x20 || b >= 0x7f {
				fmt.Fprintf(&out, `\x%02x`, b)
			} else {
				out.WriteByte(b)
			}
		}
	}
	out.WriteByte('"')

	return out.String()
}

// ErrUnbalancedQuotes is returned by SplitArgs when a quoted token is never
// closed.
var ErrUnbalancedQuotes = errs.ErrInvalidEncoding
