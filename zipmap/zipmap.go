package zipmap

import (
	"github.com/arloliu/packedstore/endian"
	"github.com/arloliu/packedstore/errs"
)

// LenUnknown is the sentinel zmlen value meaning "254 or more entries,
// count by scan."
const LenUnknown = 254

const zmEnd = 0xFF

// lenEngine encodes the long form of a klen/vlen field, fixed little-endian
// by the wire format.
var lenEngine = endian.GetLittleEndianEngine()

// ZipMap is a packed key-to-value association list, linear-scanned, meant
// for maps small enough that hashing overhead isn't worth paying.
type ZipMap struct {
	buf []byte
}

// New returns an empty zipmap.
func New() *ZipMap {
	return &ZipMap{buf: []byte{0, zmEnd}}
}

// Parse wraps an existing byte-exact buffer as a ZipMap without copying.
func Parse(data []byte) (*ZipMap, error) {
	if len(data) < 2 {
		return nil, errs.ErrTruncatedBuffer
	}
	if data[len(data)-1] != zmEnd {
		return nil, errs.ErrBadSentinel
	}

	return &ZipMap{buf: data}, nil
}

// Bytes returns the zipmap's on-disk representation.
func (m *ZipMap) Bytes() []byte { return m.buf }

// BlobLength returns the total buffer size.
func (m *ZipMap) BlobLength() int { return len(m.buf) }

// readLen parses a klen/vlen field at offset.
func readLen(buf []byte, offset int) (fieldSize, value int) {
	if buf[offset] < 0xFE {
		return 1, int(buf[offset])
	}

	return 5, int(lenEngine.Uint32(buf[offset+1 : offset+5]))
}

func lenFieldSize(n int) int {
	if n < 254 {
		return 1
	}

	return 5
}

func writeLen(buf []byte, offset, fieldSize, value int) {
	if fieldSize == 1 {
		buf[offset] = byte(value)

		return
	}
	buf[offset] = 0xFE
	lenEngine.PutUint32(buf[offset+1:offset+5], uint32(value)) //nolint:gosec
}

type entryLayout struct {
	klenSize, keyOff, keyLen   int
	vlenSize, valOff, valLen   int
	freeOff, free, entrySize   int
}

func parseEntry(buf []byte, offset int) (entryLayout, error) {
	if offset >= len(buf) || buf[offset] == zmEnd {
		return entryLayout{}, errs.ErrIndexOutOfRange
	}

	klenSize, keyLen := readLen(buf, offset)
	keyOff := offset + klenSize
	if keyOff+keyLen > len(buf) {
		return entryLayout{}, errs.ErrTruncatedBuffer
	}

	vlenOff := keyOff + keyLen
	vlenSize, valLen := readLen(buf, vlenOff)
	freeOff := vlenOff + vlenSize
	if freeOff >= len(buf) {
		return entryLayout{}, errs.ErrTruncatedBuffer
	}
	free := int(buf[freeOff])
	valOff := freeOff + 1
	entrySize := klenSize + keyLen + vlenSize + 1 + valLen + free
	if offset+entrySize > len(buf) {
		return entryLayout{}, errs.ErrTruncatedBuffer
	}

	return entryLayout{
		klenSize: klenSize, keyOff: keyOff, keyLen: keyLen,
		vlenSize: vlenSize, valOff: valOff, valLen: valLen,
		freeOff: freeOff, free: free, entrySize: entrySize,
	}, nil
}

// find returns the offset of key's entry and its layout, or ok=false.
func (m *ZipMap) find(key []byte) (offset int, layout entryLayout, ok bool) {
	p := 1
	for p < len(m.buf) && m.buf[p] != zmEnd {
		e, err := parseEntry(m.buf, p)
		if err != nil {
			return 0, entryLayout{}, false
		}
		if string(m.buf[e.keyOff:e.keyOff+e.keyLen]) == string(key) {
			return p, e, true
		}
		p += e.entrySize
	}

	return 0, entryLayout{}, false
}

// Get returns the value associated with key, if present.
func (m *ZipMap) Get(key []byte) ([]byte, bool) {
	_, e, ok := m.find(key)
	if !ok {
		return nil, false
	}

	return m.buf[e.valOff : e.valOff+e.valLen], true
}

// Exists reports whether key is present.
func (m *ZipMap) Exists(key []byte) bool {
	_, _, ok := m.find(key)

	return ok
}

// encodeEntry builds a fresh entry for key/val with zero free bytes.
func encodeEntry(key, val []byte) []byte {
	klenSize := lenFieldSize(len(key))
	vlenSize := lenFieldSize(len(val))
	out := make([]byte, 0, klenSize+len(key)+vlenSize+1+len(val))
	klenBuf := make([]byte, klenSize)
	writeLen(klenBuf, 0, klenSize, len(key))
	out = append(out, klenBuf...)
	out = append(out, key...)
	vlenBuf := make([]byte, vlenSize)
	writeLen(vlenBuf, 0, vlenSize, len(val))
	out = append(out, vlenBuf...)
	out = append(out, 0) // free
	out = append(out, val...)

	return out
}

// Set associates key with val, returning updated=true if key already
// existed. An in-place update that leaves free bytes below the 4-byte
// compaction threshold avoids any reallocation; free growing to 4 or more
// triggers a compaction that rewrites the entry with free=0.
func (m *ZipMap) Set(key, val []byte) (updated bool) {
	offset, e, ok := m.find(key)
	if !ok {
		entry := encodeEntry(key, val)
		newBuf := make([]byte, 0, len(m.buf)+len(entry))
		newBuf = append(newBuf, m.buf[:len(m.buf)-1]...)
		newBuf = append(newBuf, entry...)
		newBuf = append(newBuf, zmEnd)
		m.buf = newBuf
		if m.buf[0] < LenUnknown {
			m.buf[0]++
		}

		return false
	}

	available := e.valLen + e.free
	if len(val) <= available {
		newFree := available - len(val)
		copy(m.buf[e.valOff:e.valOff+len(val)], val)
		if newFree >= 4 {
			m.compactEntry(offset, e, val, 0)
		} else {
			m.buf[e.freeOff] = byte(newFree)
			// vlen field may need rewriting if width differs, but value
			// length only shrank/grew within the same allocation, and the
			// vlen field width was already sized for valLen+free's prior
			// occupant; update the stored vlen to the new value length.
			writeLen(m.buf, offset+e.klenSize+e.keyLen, e.vlenSize, len(val))
		}

		return true
	}

	m.compactEntry(offset, e, val, 0)

	return true
}

// compactEntry splices entry at offset (described by e, whose key is
// unchanged) to hold val with the given free padding, reallocating the
// buffer to fit.
func (m *ZipMap) compactEntry(offset int, e entryLayout, val []byte, free int) {
	key := append([]byte(nil), m.buf[e.keyOff:e.keyOff+e.keyLen]...)
	entry := encodeEntry(key, val)
	if free > 0 {
		entry = append(entry, make([]byte, free)...)
		vlenOff := e.klenSize + e.keyLen
		// entry already has vlen=len(val); free byte sits right after vlen field.
		freeOff := vlenOff + lenFieldSize(len(val))
		entry[freeOff] = byte(free)
	}

	newBuf := make([]byte, 0, len(m.buf)-e.entrySize+len(entry))
	newBuf = append(newBuf, m.buf[:offset]...)
	newBuf = append(newBuf, entry...)
	newBuf = append(newBuf, m.buf[offset+e.entrySize:]...)
	m.buf = newBuf
}

// Delete removes key's entry if present.
func (m *ZipMap) Delete(key []byte) (deleted bool) {
	offset, e, ok := m.find(key)
	if !ok {
		return false
	}

	newBuf := make([]byte, 0, len(m.buf)-e.entrySize)
	newBuf = append(newBuf, m.buf[:offset]...)
	newBuf = append(newBuf, m.buf[offset+e.entrySize:]...)
	m.buf = newBuf

	if m.buf[0] < LenUnknown {
		m.buf[0]--
	}

	return true
}

// Length returns the number of entries, scanning the buffer if the header
// count has saturated at LenUnknown.
func (m *ZipMap) Length() int {
	if m.buf[0] < LenUnknown {
		return int(m.buf[0])
	}

	n := 0
	p := 1
	for p < len(m.buf) && m.buf[p] != zmEnd {
		e, err := parseEntry(m.buf, p)
		if err != nil {
			break
		}
		p += e.entrySize
		n++
	}
	if n < LenUnknown {
		m.buf[0] = byte(n)
	}

	return n
}

// Pair is a decoded key/value entry yielded by Rewind/Next.
type Pair struct {
	Key, Value []byte
}

// Rewind returns the offset of the first entry, or ok=false if empty.
func (m *ZipMap) Rewind() (offset int, ok bool) {
	if m.buf[1] == zmEnd {
		return 0, false
	}

	return 1, true
}

// Next decodes the entry at offset and returns the offset of the
// following one.
func (m *ZipMap) Next(offset int) (pair Pair, nextOffset int, ok bool) {
	e, err := parseEntry(m.buf, offset)
	if err != nil {
		return Pair{}, 0, false
	}
	pair = Pair{
		Key:   m.buf[e.keyOff : e.keyOff+e.keyLen],
		Value: m.buf[e.valOff : e.valOff+e.valLen],
	}
	next := offset + e.entrySize
	if next >= len(m.buf) || m.buf[next] == zmEnd {
		return pair, 0, false
	}

	return pair, next, true
}
