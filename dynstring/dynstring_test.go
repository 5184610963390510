package dynstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromBytes_Basics(t *testing.T) {
	s := NewFromBytes([]byte("hello"))
	assert.Equal(t, 5, s.Len())
	assert.LessOrEqual(t, s.Len(), s.AllocSize())
	assert.Equal(t, "hello", s.String())
}

func TestAppend_GrowsAndPreservesInvariant(t *testing.T) {
	s := New()
	for i := 0; i < 1000; i++ {
		s.AppendString("x")
		require.LessOrEqual(t, s.Len(), s.AllocSize())
	}
	assert.Equal(t, 1000, s.Len())
}

func TestAppend_BinarySafe(t *testing.T) {
	s := New()
	s.Append([]byte{0, 1, 2, 0, 3})
	assert.Equal(t, []byte{0, 1, 2, 0, 3}, s.Bytes())
}

func TestDup_Independent(t *testing.T) {
	s := NewFromString("abc")
	d := s.Dup()
	d.AppendString("def")
	assert.Equal(t, "abc", s.String())
	assert.Equal(t, "abcdef", d.String())
}

func TestGrowZero(t *testing.T) {
	s := NewFromString("ab")
	s.GrowZero(5)
	assert.Equal(t, []byte{'a', 'b', 0, 0, 0}, s.Bytes())

	s.GrowZero(2) // no-op, smaller than current
	assert.Equal(t, 5, s.Len())
}

func TestRange_PositiveAndNegative(t *testing.T) {
	s := NewFromString("Hello World")
	s.Range(0, 5)
	assert.Equal(t, "Hello", s.String())

	s2 := NewFromString("Hello World")
	s2.Range(-5, -1)
	assert.Equal(t, "Worl", s2.String())
}

func TestClear_RetainsCapacity(t *testing.T) {
	s := NewFromString("hello world")
	capBefore := s.AllocSize()
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, capBefore, s.AllocSize())
}

func TestCompare_TieBreakByLength(t *testing.T) {
	a := NewFromString("abc")
	b := NewFromString("abcd")
	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(NewFromString("abc")))
}

func TestSplitBySeparator_BinarySafe(t *testing.T) {
	s := NewFromBytes([]byte("a\x00b,c,,d"))
	parts := s.SplitBySeparator([]byte(","))
	require.Len(t, parts, 4)
	assert.Equal(t, "a\x00b", parts[0].String())
	assert.Equal(t, "c", parts[1].String())
	assert.Equal(t, "", parts[2].String())
	assert.Equal(t, "d", parts[3].String())
}

func TestJoinCStrings(t *testing.T) {
	out := JoinCStrings([]string{"a", "b", "c"}, "-")
	assert.Equal(t, "a-b-c", out.String())
}

func TestJoinDynStrings(t *testing.T) {
	out := JoinDynStrings([]*DynString{NewFromString("x"), NewFromString("y")}, ",")
	assert.Equal(t, "x,y", out.String())
}

func TestToUpperToLower(t *testing.T) {
	s := NewFromString("Hello, World! 123")
	s.ToUpper()
	assert.Equal(t, "HELLO, WORLD! 123", s.String())
	s.ToLower()
	assert.Equal(t, "hello, world! 123", s.String())
}

func TestMapChars(t *testing.T) {
	s := NewFromString("hello")
	s.MapChars([]byte("el"), []byte("ip"))
	assert.Equal(t, "hippo", s.String())
}

func TestTrim(t *testing.T) {
	s := NewFromString("  hello  ")
	s.Trim([]byte(" "))
	assert.Equal(t, "hello", s.String())
}

func TestRepr_EscapesSpecialBytes(t *testing.T) {
	s := NewFromBytes([]byte("a\nb\"c\\d"))
	assert.Equal(t, `"a\nb\"c\\d"`, s.Repr())
}

func TestIncrLenSetLen(t *testing.T) {
	s := New()
	s.MakeRoomFor(10)
	n := copy(s.Bytes()[:cap(s.Bytes())][s.Len():10], "abcde")
	s.IncrLen(n)
	assert.Equal(t, "abcde", s.String())
}

func TestSetLen_PanicsOutOfRange(t *testing.T) {
	s := NewFromString("abc")
	assert.Panics(t, func() { s.SetLen(-1) })
	assert.Panics(t, func() { s.SetLen(s.AllocSize() + 1) })
}
