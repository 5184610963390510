package compress

import "github.com/klauspost/compress/zstd"

// zstdCodec wraps klauspost/compress's pure-Go zstd implementation.
// Better ratio than lz4 at the cost of slower decompression; worth it
// for quicklists whose interior nodes are expected to stay compressed
// for a long time between accesses.
type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCodec() (Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (c *zstdCodec) Compress(data []byte) ([]byte, bool) {
	out := c.enc.EncodeAll(data, make([]byte, 0, len(data)))
	if len(out) >= len(data) {
		return nil, false
	}

	return out, true
}

func (c *zstdCodec) Decompress(data []byte, outLen int) ([]byte, error) {
	return c.dec.DecodeAll(data, make([]byte, 0, outLen))
}
