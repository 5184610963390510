package compress

import "fmt"

// Kind identifies a compression algorithm a quicklist node can be packed
// with.
type Kind int

const (
	None Kind = iota
	LZ4
	ZstdPure
	ZstdCGO
	S2
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZstdPure:
		return "zstd"
	case ZstdCGO:
		return "zstd-cgo"
	case S2:
		return "s2"
	default:
		return "unknown"
	}
}

// Codec compresses and decompresses quicklist node buffers.
type Codec interface {
	// Compress attempts to shrink data. It reports ok=false if the
	// result would not be smaller than data, in which case the caller
	// should keep data raw rather than pay decompression cost for no
	// space savings.
	Compress(data []byte) (compressed []byte, ok bool)

	// Decompress restores data compressed by Compress. outLen is the
	// exact length of the original uncompressed buffer, which quicklist
	// always has on hand (it's the node's recorded entry-buffer size).
	Decompress(data []byte, outLen int) ([]byte, error)
}

// New returns the Codec for kind.
func New(kind Kind) (Codec, error) {
	switch kind {
	case None:
		return noopCodec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	case ZstdPure:
		return newZstdCodec()
	case ZstdCGO:
		return newZstdCGOCodec()
	case S2:
		return s2Codec{}, nil
	default:
		return nil, fmt.Errorf("compress: unknown codec kind %d", kind)
	}
}
