package quicklist

import "github.com/arloliu/packedstore/compress"

// fillByteLimits maps a negative fill value to the maximum raw ziplist
// byte size a node may reach.
var fillByteLimits = map[int]int{
	-1: 4 * 1024,
	-2: 8 * 1024,
	-3: 16 * 1024,
	-4: 32 * 1024,
	-5: 64 * 1024,
}

// safeSizeBytes is the hard per-node byte cap applied in addition to a
// non-negative fill's entry-count limit, bounding cascade cost inside any
// one node's ziplist.
const safeSizeBytes = 8 * 1024

const defaultFill = -2

// Option configures a QuickList at construction time.
type Option func(*QuickList)

// WithFill sets the per-node size policy: negative values select one of
// five fixed byte-budget tiers (-1 through -5), non-negative values cap
// node entry count (with an 8 KiB hard byte cap applied regardless).
func WithFill(fill int) Option {
	return func(q *QuickList) { q.fill = fill }
}

// WithCompressDepth sets how many nodes at each end stay uncompressed.
// depth=0 disables compression entirely.
func WithCompressDepth(depth int) Option {
	return func(q *QuickList) { q.compressDepth = depth }
}

// WithCodec overrides the compressor used for interior nodes. The
// default is LZ4.
func WithCodec(codec compress.Codec) Option {
	return func(q *QuickList) { q.codec = codec }
}

func (q *QuickList) nodeByteLimit() (limit int, ok bool) {
	if q.fill >= 0 {
		return safeSizeBytes, true
	}
	limit, ok = fillByteLimits[q.fill]
	if !ok {
		limit = fillByteLimits[-5]
	}

	return limit, true
}

// fitsInNode reports whether a node currently occupying curBytes bytes
// with curCount entries may accept one more entry of addBytes bytes.
func (q *QuickList) fitsInNode(curBytes, curCount, addBytes int) bool {
	limit, _ := q.nodeByteLimit()
	if curBytes+addBytes > limit {
		return false
	}
	if q.fill >= 0 && curCount+1 > q.fill {
		return false
	}

	return true
}
