package ziplist

import (
	"strconv"

	"github.com/arloliu/packedstore/endian"
	"github.com/arloliu/packedstore/errs"
)

// prevLenEngine encodes the long form of a prevrawlen field, which the wire
// format fixes as little-endian (matching the zlbytes/zltail/zllen header).
// payloadEngine encodes multi-byte integer payloads and 14/32-bit string
// length prefixes, which the wire format fixes as big-endian.
var (
	prevLenEngine = endian.GetLittleEndianEngine()
	payloadEngine = endian.GetBigEndianEngine()
)

// Encoding byte prefixes, matching the wire layout documented in doc.go.
const (
	encStr6Mask  = 0xC0
	encStr6Type  = 0x00 // 00pppppp: 6-bit string length
	encStr14Type = 0x40 // 01pppppp qqqqqqqq: 14-bit string length
	encStr32Type = 0x80 // 10______ + 4 BE bytes: 32-bit string length

	encInt16 = 0xC0
	encInt32 = 0xD0
	encInt64 = 0xE0
	encInt24 = 0xF0
	encInt8  = 0xFE

	// Immediate 4-bit integers occupy 0xF1..0xFD (1111xxxx, xxxx in
	// 0001..1101), value = xxxx-1, representable range 0..12.
	encImmMin = 0xF1
	encImmMax = 0xFD

	zlEnd = 0xFF
)

// entryHeader describes the parsed shape of one entry without copying its
// payload bytes.
type entryHeader struct {
	prevLenSize int // 1 or 5
	prevLen     int // raw size of the predecessor entry
	encSize     int // size of the encoding prefix itself
	payloadSize int // bytes following the encoding prefix
	isInt       bool
	intVal      int64
}

// headerSize returns the number of bytes occupied by this entry's own
// prevrawlen+encoding header, excluding the payload.
func (h entryHeader) headerSize() int { return h.prevLenSize + h.encSize }

// rawSize returns the entry's total footprint in bytes: the value the next
// entry's prevrawlen field must record.
func (h entryHeader) rawSize() int { return h.headerSize() + h.payloadSize }

// readPrevLen parses the prevrawlen field at offset.
func readPrevLen(buf []byte, offset int) (size, value int) {
	if buf[offset] < 0xFE {
		return 1, int(buf[offset])
	}

	return 5, int(prevLenEngine.Uint32(buf[offset+1 : offset+5]))
}

// prevLenFieldSize returns the field width (1 or 5) needed to record rawLen.
func prevLenFieldSize(rawLen int) int {
	if rawLen < 254 {
		return 1
	}

	return 5
}

// writePrevLen writes rawLen into a field of exactly size bytes (1 or 5) at
// offset. size must already be sufficient to hold rawLen (callers enforce
// the "never shrink" policy before calling this).
func writePrevLen(buf []byte, offset, size, rawLen int) {
	if size == 1 {
		buf[offset] = byte(rawLen)

		return
	}
	buf[offset] = 0xFE
	prevLenEngine.PutUint32(buf[offset+1:offset+5], uint32(rawLen)) //nolint:gosec
}

// parseEntryHeader parses the full prevrawlen+encoding header at offset,
// without touching the payload bytes beyond reading integer payloads
// (which are part of the header for encoding purposes).
func parseEntryHeader(buf []byte, offset int) (entryHeader, error) {
	if offset >= len(buf) || buf[offset] == zlEnd {
		return entryHeader{}, errs.ErrIndexOutOfRange
	}

	plSize, plVal := readPrevLen(buf, offset)
	encOff := offset + plSize
	if encOff >= len(buf) {
		return entryHeader{}, errs.ErrTruncatedBuffer
	}
	b0 := buf[encOff]

	switch {
	case b0&encStr6Mask == encStr6Type:
		return entryHeader{prevLenSize: plSize, prevLen: plVal, encSize: 1, payloadSize: int(b0 & 0x3F)}, nil
	case b0&encStr6Mask == encStr14Type:
		if encOff+1 >= len(buf) {
			return entryHeader{}, errs.ErrTruncatedBuffer
		}
		length := (int(b0&0x3F) << 8) | int(buf[encOff+1])

		return entryHeader{prevLenSize: plSize, prevLen: plVal, encSize: 2, payloadSize: length}, nil
	case b0&encStr6Mask == encStr32Type:
		if encOff+4 >= len(buf) {
			return entryHeader{}, errs.ErrTruncatedBuffer
		}
		length := int(payloadEngine.Uint32(buf[encOff+1 : encOff+5]))

		return entryHeader{prevLenSize: plSize, prevLen: plVal, encSize: 5, payloadSize: length}, nil
	case b0 == encInt16:
		v := int64(int16(payloadEngine.Uint16(buf[encOff+1 : encOff+3])))

		return entryHeader{prevLenSize: plSize, prevLen: plVal, encSize: 3, isInt: true, intVal: v}, nil
	case b0 == encInt32:
		v := int64(int32(payloadEngine.Uint32(buf[encOff+1 : encOff+5])))

		return entryHeader{prevLenSize: plSize, prevLen: plVal, encSize: 5, isInt: true, intVal: v}, nil
	case b0 == encInt64:
		v := int64(payloadEngine.Uint64(buf[encOff+1 : encOff+9])) //nolint:gosec

		return entryHeader{prevLenSize: plSize, prevLen: plVal, encSize: 9, isInt: true, intVal: v}, nil
	case b0 == encInt24:
		v := decodeInt24(buf[encOff+1 : encOff+4])

		return entryHeader{prevLenSize: plSize, prevLen: plVal, encSize: 4, isInt: true, intVal: v}, nil
	case b0 == encInt8:
		v := int64(int8(buf[encOff+1]))

		return entryHeader{prevLenSize: plSize, prevLen: plVal, encSize: 2, isInt: true, intVal: v}, nil
	case b0 >= encImmMin && b0 <= encImmMax:
		v := int64(b0&0x0F) - 1

		return entryHeader{prevLenSize: plSize, prevLen: plVal, encSize: 1, isInt: true, intVal: v}, nil
	default:
		return entryHeader{}, errs.ErrInvalidEncoding
	}
}

func decodeInt24(b []byte) int64 {
	v := int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
	if v&0x800000 != 0 {
		v |= ^int32(0xFFFFFF) // sign-extend
	}

	return int64(v)
}

// tryParseInt recognizes a decimal integer with no leading zeros (other
// than a single "0") that fits in int64, mirroring the source's integer
// recognition rule for ziplist push/insert.
func tryParseInt(data []byte) (int64, bool) {
	if len(data) == 0 {
		return 0, false
	}

	s := string(data)
	start := 0
	if s[0] == '-' {
		start = 1
		if len(s) == 1 {
			return 0, false
		}
	}
	if s[start] == '0' && len(s)-start > 1 {
		return 0, false
	}
	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// buildEncoding returns the encoding prefix bytes and payload bytes for
// data, choosing the narrowest representation: an integer encoding if
// data parses as one, else the narrowest string length prefix.
func buildEncoding(data []byte) (header []byte, payload []byte) {
	if v, ok := tryParseInt(data); ok {
		return buildIntEncoding(v)
	}

	return buildStringEncoding(data), data
}

func buildIntEncoding(v int64) (header, payload []byte) {
	switch {
	case v >= 0 && v <= 12:
		return []byte{byte(0xF0 | (v + 1))}, nil
	case v >= -128 && v <= 127:
		return []byte{encInt8}, []byte{byte(int8(v))}
	case v >= -32768 && v <= 32767:
		b := make([]byte, 2)
		payloadEngine.PutUint16(b, uint16(int16(v)))

		return []byte{encInt16}, b
	case v >= -8388608 && v <= 8388607:
		b := make([]byte, 3)
		u := uint32(int32(v)) & 0xFFFFFF
		b[0] = byte(u >> 16)
		b[1] = byte(u >> 8)
		b[2] = byte(u)

		return []byte{encInt24}, b
	case v >= -2147483648 && v <= 2147483647:
		b := make([]byte, 4)
		payloadEngine.PutUint32(b, uint32(int32(v)))

		return []byte{encInt32}, b
	default:
		b := make([]byte, 8)
		payloadEngine.PutUint64(b, uint64(v))

		return []byte{encInt64}, b
	}
}

func buildStringEncoding(data []byte) []byte {
	n := len(data)
	switch {
	case n <= 63:
		return []byte{byte(encStr6Type | n)}
	case n <= 16383:
		return []byte{byte(encStr14Type | (n >> 8)), byte(n)}
	default:
		b := make([]byte, 5)
		b[0] = encStr32Type
		payloadEngine.PutUint32(b[1:], uint32(n)) //nolint:gosec

		return b
	}
}
