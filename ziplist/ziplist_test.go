package ziplist

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, z *ZipList) []string {
	t.Helper()
	var out []string
	for p, ok := z.Index(0); ok; p, ok = z.Next(p) {
		e, err := z.Get(p)
		require.NoError(t, err)
		if e.IsInt {
			out = append(out, strconv.FormatInt(e.Int, 10))

			continue
		}
		out = append(out, string(e.Bytes))
	}

	return out
}

func TestZipList_EmptyLayout(t *testing.T) {
	z := New()
	assert.Equal(t, 0, z.Length())
	assert.Equal(t, HeaderSize+1, z.BlobLength())
	assert.Equal(t, byte(zlEnd), z.Bytes()[HeaderSize])
}

func TestZipList_PushTailAndHead(t *testing.T) {
	z := New()
	z.Push(Tail, []byte("a"))
	z.Push(Tail, []byte("b"))
	z.Push(Head, []byte("z"))

	assert.Equal(t, []string{"z", "a", "b"}, collect(t, z))
	assert.Equal(t, 3, z.Length())
}

func TestZipList_IntegerRoundTrip(t *testing.T) {
	z := New()
	for _, v := range []int64{0, 12, 13, 127, 128, -129, 32767, 8388607, 2147483647, -9999999999} {
		z.Push(Tail, []byte(strconv.FormatInt(v, 10)))
	}

	p, ok := z.Index(0)
	require.True(t, ok)
	i := 0
	want := []int64{0, 12, 13, 127, 128, -129, 32767, 8388607, 2147483647, -9999999999}
	for ok {
		e, err := z.Get(p)
		require.NoError(t, err)
		require.True(t, e.IsInt)
		assert.Equal(t, want[i], e.Int)
		i++
		p, ok = z.Next(p)
	}
	assert.Equal(t, len(want), i)
}

func TestZipList_NegativeIndex(t *testing.T) {
	z := New()
	z.Push(Tail, []byte("a"))
	z.Push(Tail, []byte("b"))
	z.Push(Tail, []byte("c"))

	p, ok := z.Index(-1)
	require.True(t, ok)
	e, err := z.Get(p)
	require.NoError(t, err)
	assert.Equal(t, "c", string(e.Bytes))

	p, ok = z.Index(-3)
	require.True(t, ok)
	e, err = z.Get(p)
	require.NoError(t, err)
	assert.Equal(t, "a", string(e.Bytes))

	_, ok = z.Index(-4)
	assert.False(t, ok)
}

func TestZipList_DeleteMiddle(t *testing.T) {
	z := New()
	for _, s := range []string{"a", "b", "c", "d"} {
		z.Push(Tail, []byte(s))
	}
	p, ok := z.Index(1)
	require.True(t, ok)
	require.NoError(t, z.Delete(p))

	assert.Equal(t, []string{"a", "c", "d"}, collect(t, z))
	assert.Equal(t, 3, z.Length())
}

func TestZipList_DeleteHead(t *testing.T) {
	z := New()
	for _, s := range []string{"a", "b", "c"} {
		z.Push(Tail, []byte(s))
	}
	p, _ := z.Index(0)
	require.NoError(t, z.Delete(p))
	assert.Equal(t, []string{"b", "c"}, collect(t, z))
}

func TestZipList_DeleteTail(t *testing.T) {
	z := New()
	for _, s := range []string{"a", "b", "c"} {
		z.Push(Tail, []byte(s))
	}
	p, _ := z.Index(2)
	require.NoError(t, z.Delete(p))
	assert.Equal(t, []string{"a", "b"}, collect(t, z))

	tailP, ok := z.Index(-1)
	require.True(t, ok)
	e, err := z.Get(tailP)
	require.NoError(t, err)
	assert.Equal(t, "b", string(e.Bytes))
}

func TestZipList_DeleteRange(t *testing.T) {
	z := New()
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		z.Push(Tail, []byte(s))
	}
	p, _ := z.Index(1)
	require.NoError(t, z.DeleteRange(p, 2))
	assert.Equal(t, []string{"a", "d", "e"}, collect(t, z))
}

func TestZipList_DeleteDownToEmpty(t *testing.T) {
	z := New()
	z.Push(Tail, []byte("only"))
	p, _ := z.Index(0)
	require.NoError(t, z.Delete(p))
	assert.Equal(t, 0, z.Length())
	assert.Equal(t, []string(nil), collect(t, z))
}

func TestZipList_Find(t *testing.T) {
	z := New()
	for _, s := range []string{"a", "b", "c"} {
		z.Push(Tail, []byte(s))
	}
	start, _ := z.Index(0)
	p, ok := z.Find(start, []byte("c"), 0)
	require.True(t, ok)
	e, err := z.Get(p)
	require.NoError(t, err)
	assert.Equal(t, "c", string(e.Bytes))

	_, ok = z.Find(start, []byte("nope"), 0)
	assert.False(t, ok)
}

func TestZipList_CompareIntAndText(t *testing.T) {
	z := New()
	z.Push(Tail, []byte("123"))
	p, _ := z.Index(0)
	eq, err := z.Compare(p, []byte("123"))
	require.NoError(t, err)
	assert.True(t, eq)
}

// TestZipList_CascadePropagatesToTail exercises the adversarial case where
// every prevrawlen field sits exactly at the 1-byte/5-byte threshold, so a
// single head insert forces the cascade through every remaining entry.
func TestZipList_CascadePropagatesToTail(t *testing.T) {
	z := New()

	// Build 200 entries whose raw size is exactly 250 bytes: 1-byte
	// prevrawlen + 2-byte string-length-14 encoding + 247-byte payload.
	body := make([]byte, 247)
	for i := range body {
		body[i] = 'x'
	}
	for i := 0; i < 200; i++ {
		z.Push(Tail, body)
	}

	for p, ok := z.Index(0); ok; p, ok = z.Next(p) {
		h, err := parseEntryHeader(z.Bytes(), p)
		require.NoError(t, err)
		assert.Equal(t, 250, h.rawSize())
	}

	big := make([]byte, 300)
	for i := range big {
		big[i] = 'y'
	}
	z.Push(Head, big)

	assert.Equal(t, 201, z.Length())

	p, ok := z.Index(1)
	require.True(t, ok)
	size, val := readPrevLen(z.Bytes(), p)
	assert.Equal(t, 5, size, "the first follower's prevrawlen must have widened to fit the 300+ byte head entry")
	assert.Equal(t, 303, val)

	last, ok := z.Index(-1)
	require.True(t, ok)
	e, err := z.Get(last)
	require.NoError(t, err)
	assert.Equal(t, string(body), string(e.Bytes))
}

func TestZipList_Merge(t *testing.T) {
	a := New()
	a.Push(Tail, []byte("1"))
	a.Push(Tail, []byte("2"))
	b := New()
	b.Push(Tail, []byte("3"))
	b.Push(Tail, []byte("4"))

	m := Merge(a, b)
	assert.Equal(t, []string{"1", "2", "3", "4"}, collect(t, m))
}

func TestZipList_ParseRoundTrip(t *testing.T) {
	z := New()
	z.Push(Tail, []byte("hello"))
	z.Push(Tail, []byte("42"))

	parsed, err := Parse(z.Bytes())
	require.NoError(t, err)
	assert.Equal(t, collect(t, z), collect(t, parsed))
}

func TestZipList_Parse_BadSentinel(t *testing.T) {
	buf := New().Bytes()
	buf[len(buf)-1] = 0x00
	_, err := Parse(buf)
	require.Error(t, err)
}
