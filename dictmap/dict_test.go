package dictmap

import (
	"testing"

	"github.com/arloliu/packedstore/errs"
	"github.com/arloliu/packedstore/internal/prng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDict_AddFindDelete(t *testing.T) {
	d := New(StringType(), nil)
	require.NoError(t, d.Add("a", 1))
	require.NoError(t, d.Add("b", 2))

	v, ok := d.FetchValue("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	err := d.Add("a", 99)
	assert.ErrorIs(t, err, errs.ErrKeyExists)

	assert.True(t, d.Delete("a"))
	_, ok = d.FetchValue("a")
	assert.False(t, ok)
	assert.False(t, d.Delete("a"))
}

func TestDict_Replace(t *testing.T) {
	d := New(StringType(), nil)
	inserted, err := d.Replace("k", 1)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = d.Replace("k", 2)
	require.NoError(t, err)
	assert.False(t, inserted)

	v, _ := d.FetchValue("k")
	assert.Equal(t, 2, v)
}

func TestDict_GrowthTriggersRehash(t *testing.T) {
	d := New(StringType(), nil)
	for i := 0; i < 1000; i++ {
		require.NoError(t, d.Add(string(rune('a'))+itoa(i), i))
	}
	assert.Equal(t, 1000, d.Size())

	for i := 0; i < 1000; i++ {
		v, ok := d.FetchValue(string(rune('a')) + itoa(i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}

func TestDict_RehashInFlightLookupsBothTables(t *testing.T) {
	d := New(StringType(), nil)
	for i := 0; i < 200; i++ {
		require.NoError(t, d.Add(itoa(i), i))
	}
	// Drive one rehash step manually without completing it.
	d.rehash(1)
	assert.True(t, d.isRehashing())

	for i := 0; i < 200; i++ {
		v, ok := d.FetchValue(itoa(i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestDict_ForEachVisitsEveryEntry(t *testing.T) {
	d := New(StringType(), nil)
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		require.NoError(t, d.Add(k, v))
	}

	got := map[string]int{}
	d.ForEach(func(k, v any) bool {
		got[k.(string)] = v.(int)

		return true
	})
	assert.Equal(t, want, got)
}

func TestDict_UnsafeIteratorDetectsMutation(t *testing.T) {
	d := New(StringType(), nil)
	for i := 0; i < 10; i++ {
		require.NoError(t, d.Add(itoa(i), i))
	}

	it := d.GetIterator()
	// Force enough growth to change the fingerprint.
	for i := 10; i < 200; i++ {
		require.NoError(t, d.Add(itoa(i), i))
	}
	err := d.ReleaseIterator(it)
	assert.ErrorIs(t, err, errs.ErrIteratorStale)
}

func TestDict_SafeIteratorSuppressesRehash(t *testing.T) {
	d := New(StringType(), nil)
	for i := 0; i < 200; i++ {
		require.NoError(t, d.Add(itoa(i), i))
	}
	d.rehash(1)
	require.True(t, d.isRehashing())

	it := d.GetSafeIterator()
	require.NoError(t, d.Add("extra-key", 1))
	assert.True(t, d.isRehashing(), "rehash must not advance while a safe iterator is held")
	require.NoError(t, d.ReleaseIterator(it))
}

func TestDict_GetRandomKey(t *testing.T) {
	d := New(StringType(), nil)
	for i := 0; i < 20; i++ {
		require.NoError(t, d.Add(itoa(i), i))
	}
	e, ok := d.GetRandomKey(prng.New(3))
	require.True(t, ok)
	v, found := d.FetchValue(e.Key())
	require.True(t, found)
	assert.Equal(t, e.Value(), v)
}

func TestDict_GetRandomKey_Empty(t *testing.T) {
	d := New(StringType(), nil)
	_, ok := d.GetRandomKey(prng.New(1))
	assert.False(t, ok)
}

func TestDict_GetSomeKeys(t *testing.T) {
	d := New(StringType(), nil)
	for i := 0; i < 50; i++ {
		require.NoError(t, d.Add(itoa(i), i))
	}
	keys := d.GetSomeKeys(10, prng.New(9))
	assert.LessOrEqual(t, len(keys), 50)
	seen := map[string]bool{}
	for _, e := range keys {
		seen[e.Key().(string)] = true
	}
	assert.NotEmpty(t, seen)
}

func TestDict_ScanVisitsEveryEntryEventually(t *testing.T) {
	d := New(StringType(), nil)
	want := map[string]bool{}
	for i := 0; i < 100; i++ {
		k := itoa(i)
		want[k] = true
		require.NoError(t, d.Add(k, i))
	}

	seen := map[string]bool{}
	var cursor uint32
	for iterations := 0; iterations < 10000; iterations++ {
		cursor = d.Scan(cursor, func(k, _ any) { seen[k.(string)] = true })
		if cursor == 0 {
			break
		}
	}

	assert.Equal(t, want, seen)
}

func TestDict_Empty(t *testing.T) {
	d := New(StringType(), nil)
	require.NoError(t, d.Add("a", 1))
	require.NoError(t, d.Add("b", 2))

	var cleared []string
	d.Empty(func(k, _ any) { cleared = append(cleared, k.(string)) })

	assert.ElementsMatch(t, []string{"a", "b"}, cleared)
	assert.Equal(t, 0, d.Size())
}

func TestDict_DisableResizeForcesOnlyAtHighLoad(t *testing.T) {
	d := New(StringType(), nil)
	d.DisableResize()
	for i := 0; i < 4; i++ {
		require.NoError(t, d.Add(itoa(i), i))
	}
	assert.Equal(t, 4, d.ht[0].size, "table should not have grown past the load factor yet")

	for i := 4; i < 30; i++ {
		require.NoError(t, d.Add(itoa(i), i))
	}
	assert.Greater(t, d.ht[0].size+d.ht[1].size, 4, "forced expansion must still occur past the 5:1 ratio")
}
