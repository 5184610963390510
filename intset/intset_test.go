package intset

import (
	"testing"

	"github.com/arloliu/packedstore/internal/prng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntSet_PromotionScenario(t *testing.T) {
	s := New()

	for _, v := range []int64{1, 2, 3} {
		inserted, err := s.Add(v)
		require.NoError(t, err)
		assert.True(t, inserted)
	}
	assert.Equal(t, Enc16, s.Encoding())
	assert.Equal(t, 14, s.ByteSize())
	assert.Equal(t, []int64{1, 2, 3}, s.All())

	inserted, err := s.Add(70000)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, Enc32, s.Encoding())
	assert.Equal(t, 24, s.ByteSize())
	assert.Equal(t, []int64{1, 2, 3, 70000}, s.All())

	inserted, err = s.Add(-5000000000)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, Enc64, s.Encoding())
	assert.Equal(t, 48, s.ByteSize())
	assert.Equal(t, []int64{-5000000000, 1, 2, 3, 70000}, s.All())

	removed := s.Remove(2)
	assert.True(t, removed)
	assert.Equal(t, []int64{-5000000000, 1, 3, 70000}, s.All())
	assert.Equal(t, Enc64, s.Encoding(), "encoding must never demote")
}

func TestIntSet_AddDuplicate(t *testing.T) {
	s := New()
	_, _ = s.Add(5)
	inserted, err := s.Add(5)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, 1, s.Length())
}

func TestIntSet_RemoveMissing(t *testing.T) {
	s := New()
	_, _ = s.Add(1)
	assert.False(t, s.Remove(99))
}

func TestIntSet_Contains(t *testing.T) {
	s := New()
	for _, v := range []int64{5, 1, 9, -3} {
		_, _ = s.Add(v)
	}
	assert.True(t, s.Contains(5))
	assert.True(t, s.Contains(-3))
	assert.False(t, s.Contains(100))
}

func TestIntSet_AddRemoveIsNoOp(t *testing.T) {
	s := New()
	before := append([]byte(nil), s.Bytes()...)
	_, _ = s.Add(42)
	s.Remove(42)
	assert.Equal(t, before, s.Bytes())
}

func TestIntSet_GetAt_OutOfRange(t *testing.T) {
	s := New()
	_, _ = s.Add(1)
	_, ok := s.GetAt(5)
	assert.False(t, ok)
	v, ok := s.GetAt(0)
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestIntSet_SortedInvariant(t *testing.T) {
	s := New()
	for _, v := range []int64{50, -10, 3, 1000000, -99999999999, 0} {
		_, _ = s.Add(v)
	}
	all := s.All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1], all[i])
	}
}

func TestIntSet_Random_EmptyErrors(t *testing.T) {
	s := New()
	_, err := s.Random(prng.New(1))
	require.Error(t, err)
}

func TestIntSet_Random_ReturnsMember(t *testing.T) {
	s := New()
	for _, v := range []int64{1, 2, 3, 4, 5} {
		_, _ = s.Add(v)
	}
	v, err := s.Random(prng.New(7))
	require.NoError(t, err)
	assert.True(t, s.Contains(v))
}

func TestIntSet_ParseRoundTrip(t *testing.T) {
	s := New()
	for _, v := range []int64{1, 2, 3, 70000} {
		_, _ = s.Add(v)
	}
	parsed, err := Parse(s.Bytes())
	require.NoError(t, err)
	assert.Equal(t, s.All(), parsed.All())
}

func TestIntSet_Parse_Truncated(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestSetAlgebra(t *testing.T) {
	a := New()
	for _, v := range []int64{1, 2, 3, 4} {
		_, _ = a.Add(v)
	}
	b := New()
	for _, v := range []int64{3, 4, 5, 6} {
		_, _ = b.Add(v)
	}

	assert.Equal(t, []int64{3, 4}, Intersect(a, b).All())
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, Union(a, b).All())
	assert.Equal(t, []int64{1, 2}, Difference(a, b).All())
}
