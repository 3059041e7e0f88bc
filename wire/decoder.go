package wire

import (
	"encoding/binary"
	"math"
)

// Decoder is a cursor over a borrowed byte buffer. It never mutates the
// buffer, so any number of decoders may coexist over overlapping views of the
// same allocation. The cursor only moves forward; nested messages are decoded
// by constructing a child Decoder over a window of the parent buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a new wire format decoder over data. The buffer is
// borrowed and must outlive the decoder.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{
		buf: data,
		pos: 0,
	}
}

// AtEnd reports whether the cursor has consumed the whole view. It is the
// termination test of the standard decode loop.
func (d *Decoder) AtEnd() bool {
	return d.pos >= len(d.buf)
}

// Pos returns the current cursor position relative to the view start.
func (d *Decoder) Pos() int {
	return d.pos
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

func (d *Decoder) outOfRange(need int) error {
	return &OutOfRangeError{Offset: d.pos, Need: need}
}

// ===== VARINT READS =====

// ReadVarint decodes a LEB128 varint from the current position. At most 10
// bytes are consumed for a 64-bit value.
func (d *Decoder) ReadVarint() (uint64, error) {
	var result uint64
	var shift uint

	for i := 0; i < 10; i++ {
		if d.pos >= len(d.buf) {
			return 0, d.outOfRange(1)
		}

		b := d.buf[d.pos]
		d.pos++

		result |= uint64(b&0x7F) << shift

		// MSB clear terminates the varint
		if (b & 0x80) == 0 {
			return result, nil
		}

		shift += 7
	}

	return 0, ErrVarintOverflow
}

// ReadTag reads one varint and returns it as a field tag. Callers split it
// with ParseTag.
func (d *Decoder) ReadTag() (Tag, error) {
	v, err := d.ReadVarint()
	if err != nil {
		return 0, err
	}
	return Tag(v), nil
}

// ReadInt32 reads a varint as int32. The 64-bit varint result is truncated,
// not range-checked: negative int32 values arrive as 10-byte varints and the
// truncation recovers them, matching standard proto semantics.
func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadVarint()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadInt64 reads a varint as int64.
func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadVarint()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadUint32 reads a varint as uint32, truncating to 32 bits.
func (d *Decoder) ReadUint32() (uint32, error) {
	v, err := d.ReadVarint()
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// ReadUint64 reads a varint as uint64.
func (d *Decoder) ReadUint64() (uint64, error) {
	return d.ReadVarint()
}

// ReadSint32 reads a zigzag-encoded signed varint as int32.
func (d *Decoder) ReadSint32() (int32, error) {
	v, err := d.ReadVarint()
	if err != nil {
		return 0, err
	}
	return DecodeZigZag32(v), nil
}

// ReadSint64 reads a zigzag-encoded signed varint as int64.
func (d *Decoder) ReadSint64() (int64, error) {
	v, err := d.ReadVarint()
	if err != nil {
		return 0, err
	}
	return DecodeZigZag64(v), nil
}

// ReadBool reads a varint as bool, true iff nonzero.
func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadVarint()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ===== FIXED-WIDTH READS =====

// ReadFixed32 reads 4 bytes little-endian, unsigned.
func (d *Decoder) ReadFixed32() (uint32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, d.outOfRange(4 - d.Remaining())
	}

	value := binary.LittleEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return value, nil
}

// ReadFixed64 reads 8 bytes little-endian, unsigned.
func (d *Decoder) ReadFixed64() (uint64, error) {
	if d.pos+8 > len(d.buf) {
		return 0, d.outOfRange(8 - d.Remaining())
	}

	value := binary.LittleEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return value, nil
}

// ReadSfixed32 reads a fixed32 and reinterprets it as signed.
func (d *Decoder) ReadSfixed32() (int32, error) {
	v, err := d.ReadFixed32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadSfixed64 reads a fixed64 and reinterprets it as signed.
func (d *Decoder) ReadSfixed64() (int64, error) {
	v, err := d.ReadFixed64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadFloat reads a fixed32 and reinterprets the bit pattern as IEEE-754
// single precision.
func (d *Decoder) ReadFloat() (float32, error) {
	v, err := d.ReadFixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadDouble reads a fixed64 and reinterprets the bit pattern as IEEE-754
// double precision.
func (d *Decoder) ReadDouble() (float64, error) {
	v, err := d.ReadFixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ===== LENGTH-DELIMITED READS =====

// ReadBytes reads a length-prefix varint followed by that many bytes,
// returned as an owned copy that does not alias the input buffer.
func (d *Decoder) ReadBytes() ([]byte, error) {
	raw, err := d.ReadRawBytes()
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(raw))
	copy(data, raw)
	return data, nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (d *Decoder) ReadString() (string, error) {
	raw, err := d.ReadRawBytes()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ReadRawBytes reads a length-prefixed payload without copying; the returned
// slice aliases the decoder's buffer. It is the windowing primitive for
// nested-message decode: the parent cursor lands exactly past the payload
// regardless of how much of the window a child decoder consumes.
func (d *Decoder) ReadRawBytes() ([]byte, error) {
	length, err := d.ReadVarint()
	if err != nil {
		return nil, err
	}

	if length > uint64(d.Remaining()) {
		return nil, d.outOfRange(int(length) - d.Remaining())
	}

	data := d.buf[d.pos : d.pos+int(length)]
	d.pos += int(length)
	return data, nil
}

// ===== SKIPPING =====

// Skip advances the cursor by n bytes, bounds-checked.
func (d *Decoder) Skip(n int) error {
	if n > d.Remaining() {
		return d.outOfRange(n - d.Remaining())
	}
	d.pos += n
	return nil
}

// SkipField discards the value of an unrecognized field, dispatching on the
// wire type. Deprecated groups are skipped by reading tags until the matching
// end-group marker.
func (d *Decoder) SkipField(wireType WireType) error {
	switch wireType {
	case WireVarint:
		return d.skipVarint()
	case WireFixed64:
		return d.Skip(8)
	case WireBytes:
		length, err := d.ReadVarint()
		if err != nil {
			return err
		}
		if length > uint64(d.Remaining()) {
			return d.outOfRange(int(length) - d.Remaining())
		}
		d.pos += int(length)
		return nil
	case WireStartGroup:
		return d.skipGroup()
	case WireFixed32:
		return d.Skip(4)
	default:
		// A bare end-group marker, or wire types 6/7, cannot start a field.
		return &InvalidWireTypeError{WireType: wireType, Offset: d.pos}
	}
}

// skipVarint discards one varint without assembling its value.
func (d *Decoder) skipVarint() error {
	for i := 0; i < 10; i++ {
		if d.pos >= len(d.buf) {
			return d.outOfRange(1)
		}

		b := d.buf[d.pos]
		d.pos++

		if (b & 0x80) == 0 {
			return nil
		}
	}
	return ErrVarintOverflow
}

// skipGroup consumes fields until the end-group tag that closes the group
// opened just before the call. Nested groups recurse.
func (d *Decoder) skipGroup() error {
	for {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}

		_, wireType := ParseTag(tag)
		if wireType == WireEndGroup {
			return nil
		}

		if err := d.SkipField(wireType); err != nil {
			return err
		}
	}
}
