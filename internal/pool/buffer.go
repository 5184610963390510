// Package pool provides a pooled, amortized-growth byte buffer. dynstring
// is its only user; ziplist, zipmap and quicklist manage their own slices.
package pool

import "sync"

// Default and max sizes for buffers drawn from the pool. Buffers larger than
// BufferMaxThreshold are not returned to the pool on Put; they are left for
// the garbage collector so one oversized container doesn't keep a huge slab
// pinned in the pool indefinitely.
const (
	BufferDefaultSize  = 1024 * 4  // 4KiB, also the smallest quicklist node budget (fill -1)
	BufferMaxThreshold = 1024 * 64 // 64KiB
)

// ByteBuffer is a growable byte slice wrapper with an amortized growth
// policy: small buffers grow by a fixed increment, larger ones by a
// fraction of current capacity, to bound the number of reallocations a
// long sequence of appends incurs.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the given initial capacity.
func NewByteBuffer(initialCap int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, initialCap)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// Reset empties the buffer but retains its backing array.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// SetLength sets the buffer's length to n. Panics if n is out of [0, cap].
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("pool: SetLength out of range")
	}
	bb.B = bb.B[:n]
}

// Extend grows the length by n bytes if there is sufficient spare capacity,
// reporting whether it could. It never reallocates.
func (bb *ByteBuffer) Extend(n int) bool {
	if cap(bb.B)-len(bb.B) < n {
		return false
	}
	bb.B = bb.B[:len(bb.B)+n]

	return true
}

// ExtendOrGrow extends the buffer by n bytes, reallocating if needed.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	if bb.Extend(n) {
		return
	}
	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
}

// Grow ensures the buffer can accept at least n more bytes without a
// further reallocation.
//
// Growth strategy: buffers under 4x BufferDefaultSize grow by
// BufferDefaultSize at a time; larger buffers grow by 25% of their current
// capacity, whichever is bigger than the requested n.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := BufferDefaultSize
	if cap(bb.B) > 4*BufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	newBuf := make([]byte, len(bb.B), cap(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

var bufferPool = sync.Pool{
	New: func() any { return NewByteBuffer(BufferDefaultSize) },
}

// Get returns a reset ByteBuffer from the shared pool.
func Get() *ByteBuffer {
	bb, _ := bufferPool.Get().(*ByteBuffer)

	return bb
}

// Put returns bb to the shared pool for reuse. Buffers grown past
// BufferMaxThreshold are dropped instead of pooled.
func Put(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > BufferMaxThreshold {
		return
	}
	bb.Reset()
	bufferPool.Put(bb)
}
