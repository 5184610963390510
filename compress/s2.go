package compress

import "github.com/klauspost/compress/s2"

// s2Codec trades zstd's ratio for throughput, useful for quicklists built
// from append-heavy workloads where compression runs far more often than
// decompression.
type s2Codec struct{}

func (s2Codec) Compress(data []byte) ([]byte, bool) {
	out := s2.Encode(make([]byte, s2.MaxEncodedLen(len(data))), data)
	if len(out) >= len(data) {
		return nil, false
	}

	return out, true
}

func (s2Codec) Decompress(data []byte, outLen int) ([]byte, error) {
	dst := make([]byte, outLen)

	return s2.Decode(dst, data)
}
