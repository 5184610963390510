package compress

import "github.com/pierrec/lz4/v4"

// lz4Codec is quicklist's default compressor: fast decompression at the
// cost of a weaker ratio than zstd, a reasonable tradeoff for a structure
// whose compressed nodes exist only to save memory on interior entries
// that are already expected to be touched rarely.
type lz4Codec struct{}

func (lz4Codec) Compress(data []byte) ([]byte, bool) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	var c lz4.Compressor
	n, err := c.CompressBlock(data, dst)
	if err != nil || n == 0 || n >= len(data) {
		return nil, false
	}

	return dst[:n], true
}

func (lz4Codec) Decompress(data []byte, outLen int) ([]byte, error) {
	dst := make([]byte, outLen)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}
