package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeatable(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 7)
	}

	return out
}

func TestCodecs_RoundTrip(t *testing.T) {
	for _, kind := range []Kind{LZ4, ZstdPure, S2} {
		t.Run(kind.String(), func(t *testing.T) {
			codec, err := New(kind)
			require.NoError(t, err)

			data := repeatable(4096)
			compressed, ok := codec.Compress(data)
			require.True(t, ok, "compressible repetitive data should compress")

			restored, err := codec.Decompress(compressed, len(data))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(data, restored))
		})
	}
}

func TestNoOpCodec(t *testing.T) {
	codec, err := New(None)
	require.NoError(t, err)

	data := []byte("hello")
	_, ok := codec.Compress(data)
	assert.False(t, ok)

	restored, err := codec.Decompress(data, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, restored)
}

func TestZstdCGO_NotBuiltWithoutTag(t *testing.T) {
	_, err := New(ZstdCGO)
	require.Error(t, err)
}

func TestUnknownKind(t *testing.T) {
	_, err := New(Kind(99))
	assert.Error(t, err)
}
