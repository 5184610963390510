package quicklist

import (
	"github.com/arloliu/packedstore/compress"
	"github.com/arloliu/packedstore/ziplist"
)

// nodeEncoding records whether a node's buffer is the raw ziplist
// encoding or a compressed form of it.
type nodeEncoding int

const (
	encRaw nodeEncoding = iota
	encLZF
)

// node is one link in the quicklist. Exactly one of zl (when raw) or
// packed (when compressed) is populated at a time.
type node struct {
	prev, next *node

	zl     *ziplist.ZipList
	packed []byte
	rawLen int // byte length of the ziplist the ziplist would decompress to

	count    int // cached entry count, valid regardless of encoding
	encoding nodeEncoding

	// recompress marks a node that was temporarily decompressed to
	// service an access and must be packed again once the caller is
	// done with it.
	recompress bool
	// attemptedCompress marks a node compression was tried on but
	// declined because the result wasn't smaller. It is a record only:
	// tryCompress does not consult it, so the next pass tries again.
	attemptedCompress bool
}

func newNode(zl *ziplist.ZipList) *node {
	return &node{zl: zl, count: zl.Length(), encoding: encRaw}
}

// ensureRaw decompresses the node in place if it is currently packed,
// returning its ziplist. A node it decompresses gets its recompress bit
// set; the next fixupCompression pass packs it again if it is interior.
func (n *node) ensureRaw(codec compress.Codec) (*ziplist.ZipList, error) {
	if n.encoding == encRaw {
		return n.zl, nil
	}

	raw, err := codec.Decompress(n.packed, n.rawLen)
	if err != nil {
		return nil, err
	}
	zl, err := ziplist.Parse(raw)
	if err != nil {
		return nil, err
	}
	n.zl = zl
	n.packed = nil
	n.encoding = encRaw
	n.recompress = true

	return n.zl, nil
}

// tryCompress attempts to pack the node's current ziplist, below a
// minimum-bytes threshold compression is skipped (not worth the CPU for
// tiny nodes) and above it a compression that doesn't shrink the buffer
// leaves the node raw with attemptedCompress set. The flag does not stop
// a later call from trying again.
func (n *node) tryCompress(codec compress.Codec) {
	const minCompressBytes = 48
	if n.encoding != encRaw || codec == nil {
		return
	}
	raw := n.zl.Bytes()
	if len(raw) < minCompressBytes {
		return
	}

	packed, ok := codec.Compress(raw)
	if !ok {
		n.attemptedCompress = true

		return
	}

	n.packed = packed
	n.rawLen = len(raw)
	n.zl = nil
	n.encoding = encLZF
	n.recompress = false
	n.attemptedCompress = false
}

func (n *node) byteSize() int {
	if n.encoding == encRaw {
		return n.zl.BlobLength()
	}

	return len(n.packed)
}
