//go:build gozstd

package compress

import "github.com/valyala/gozstd"

// zstdCGOCodec wraps valyala/gozstd's cgo binding to the reference zstd
// library. Only built with the gozstd tag, since it requires a working
// cgo toolchain and links libzstd.
type zstdCGOCodec struct{}

func newZstdCGOCodec() (Codec, error) {
	return zstdCGOCodec{}, nil
}

func (zstdCGOCodec) Compress(data []byte) ([]byte, bool) {
	out := gozstd.Compress(nil, data)
	if len(out) >= len(data) {
		return nil, false
	}

	return out, true
}

func (zstdCGOCodec) Decompress(data []byte, outLen int) ([]byte, error) {
	return gozstd.Decompress(make([]byte, 0, outLen), data)
}
