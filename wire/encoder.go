package wire

import (
	"encoding/binary"
	"math"
)

// Encoder appends typed values to a growable output buffer in wire format.
// It is a primitive writer only: tag bytes and length prefixes for
// length-delimited fields are emitted by the caller, which computes lengths
// up front with the sizer functions. That split is what lets message code
// frame nested bodies in a single pass, with no rewind-and-patch.
type Encoder struct {
	buf []byte
}

// NewEncoder creates a new wire format encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0),
	}
}

// NewEncoderAppend creates an encoder that appends to buf, so sibling
// messages can accumulate into one growing buffer.
func NewEncoderAppend(buf []byte) *Encoder {
	return &Encoder{
		buf: buf,
	}
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset clears the encoder buffer, keeping its capacity.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// ===== VARINT WRITES =====

// WriteVarint appends a uint64 as a LEB128 varint.
func (e *Encoder) WriteVarint(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

// WriteTag appends the tag varint for a field.
func (e *Encoder) WriteTag(fieldNumber FieldNumber, wireType WireType) {
	e.WriteVarint(uint64(MakeTag(fieldNumber, wireType)))
}

// WriteInt32 appends an int32 as varint. Negative values sign-extend to 64
// bits and occupy 10 bytes, per standard proto encoding.
func (e *Encoder) WriteInt32(v int32) {
	e.WriteVarint(uint64(int64(v)))
}

// WriteInt64 appends an int64 as varint.
func (e *Encoder) WriteInt64(v int64) {
	e.WriteVarint(uint64(v))
}

// WriteUint32 appends a uint32 as varint.
func (e *Encoder) WriteUint32(v uint32) {
	e.WriteVarint(uint64(v))
}

// WriteUint64 appends a uint64 as varint.
func (e *Encoder) WriteUint64(v uint64) {
	e.WriteVarint(v)
}

// WriteSint32 appends a signed int32 with zigzag encoding.
func (e *Encoder) WriteSint32(v int32) {
	e.WriteVarint(EncodeZigZag32(v))
}

// WriteSint64 appends a signed int64 with zigzag encoding.
func (e *Encoder) WriteSint64(v int64) {
	e.WriteVarint(EncodeZigZag64(v))
}

// WriteBool appends a bool as a single varint byte.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.WriteVarint(1)
	} else {
		e.WriteVarint(0)
	}
}

// ===== FIXED-WIDTH WRITES =====

// WriteFixed32 appends 4 bytes little-endian.
func (e *Encoder) WriteFixed32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

// WriteFixed64 appends 8 bytes little-endian.
func (e *Encoder) WriteFixed64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// WriteSfixed32 reinterprets signed as unsigned and appends fixed32.
func (e *Encoder) WriteSfixed32(v int32) {
	e.WriteFixed32(uint32(v))
}

// WriteSfixed64 reinterprets signed as unsigned and appends fixed64.
func (e *Encoder) WriteSfixed64(v int64) {
	e.WriteFixed64(uint64(v))
}

// WriteFloat appends the IEEE-754 bit pattern as fixed32.
func (e *Encoder) WriteFloat(v float32) {
	e.WriteFixed32(math.Float32bits(v))
}

// WriteDouble appends the IEEE-754 bit pattern as fixed64.
func (e *Encoder) WriteDouble(v float64) {
	e.WriteFixed64(math.Float64bits(v))
}

// ===== RAW WRITES =====

// WriteBytes appends raw bytes verbatim. The caller emits the length-prefix
// varint first.
func (e *Encoder) WriteBytes(data []byte) {
	e.buf = append(e.buf, data...)
}

// WriteString appends the UTF-8 bytes of s verbatim. The caller emits the
// length-prefix varint first.
func (e *Encoder) WriteString(s string) {
	e.buf = append(e.buf, s...)
}
