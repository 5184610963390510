package hash

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestString_Deterministic(t *testing.T) {
	assert.Equal(t, String("hello"), String("hello"))
	assert.NotEqual(t, String("hello"), String("world"))
}

func TestBytes_MatchesString(t *testing.T) {
	assert.Equal(t, String("field-name"), Bytes([]byte("field-name")))
}

func TestFoldedString_CaseInsensitive(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"Hello", "hello"},
		{"HELLO", "hello"},
		{"MixedCase123", "mixedcase123"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, FoldedString(tt.a), FoldedString(tt.b), "%q vs %q", tt.a, tt.b)
	}

	assert.NotEqual(t, FoldedString("abc"), FoldedString("abd"))
}

func TestFoldedString_LongKey(t *testing.T) {
	long := "THIS-IS-A-VERY-LONG-KEY-THAT-EXCEEDS-THE-STACK-BUFFER-THRESHOLD-BY-A-LOT"
	lower := "this-is-a-very-long-key-that-exceeds-the-stack-buffer-threshold-by-a-lot"
	assert.Equal(t, FoldedString(long), FoldedString(lower))
}

func randString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range b {
		b[i] = letters[seededRand.Intn(len(letters))]
	}

	return string(b)
}

func BenchmarkString(b *testing.B) {
	randStr := randString(20)
	b.ResetTimer()
	for b.Loop() {
		String(randStr)
	}
}
