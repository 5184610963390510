// Package compress provides the LZF-class compressor quicklist nodes use
// to shrink interior, rarely-touched ziplist buffers.
//
// A Codec exposes exactly the two operations quicklist needs: Compress,
// which may decline to compress data that wouldn't shrink, and
// Decompress, which needs the original length up front since compressed
// quicklist nodes record it alongside the compressed bytes.
//
//	codec, _ := compress.New(compress.LZ4)
//	packed, ok := codec.Compress(rawZiplist)
//	if ok {
//	    restored, _ := codec.Decompress(packed, len(rawZiplist))
//	}
//
// LZ4 is the default: fast decompression matters more than ratio for a
// structure whose whole point is O(1) access to the uncompressed ends.
// Zstd (pure Go, via klauspost/compress) and S2 are available for
// workloads that favor ratio or raw throughput respectively; a cgo-backed
// zstd binding is available behind the gozstd build tag for callers who
// can pay the cgo cost for a tighter ratio.
package compress
