package wire

// Sizer functions compute the exact number of bytes the matching Encoder
// operation appends, without writing anything. Message code sums these over
// populated fields to learn a body's length before emitting its prefix.

// VarintSize returns the number of bytes needed to encode v as a varint.
// A fixed comparison ladder rather than a shift loop; the encoder's hot path
// calls this for every length prefix.
func VarintSize(v uint64) int {
	switch {
	case v < 1<<7:
		return 1
	case v < 1<<14:
		return 2
	case v < 1<<21:
		return 3
	case v < 1<<28:
		return 4
	case v < 1<<35:
		return 5
	case v < 1<<42:
		return 6
	case v < 1<<49:
		return 7
	case v < 1<<56:
		return 8
	case v < 1<<63:
		return 9
	default:
		return 10
	}
}

// TagSize returns the size of the tag varint for a field number. The wire
// type lives in the low 3 bits and never changes the varint length.
func TagSize(fieldNumber FieldNumber) int {
	return VarintSize(uint64(MakeTag(fieldNumber, 0)))
}

// Int32Size returns the varint size of an int32. Negatives sign-extend and
// cost 10 bytes, mirroring WriteInt32.
func Int32Size(v int32) int {
	return VarintSize(uint64(int64(v)))
}

// Int64Size returns the varint size of an int64.
func Int64Size(v int64) int {
	return VarintSize(uint64(v))
}

// Uint32Size returns the varint size of a uint32.
func Uint32Size(v uint32) int {
	return VarintSize(uint64(v))
}

// Uint64Size returns the varint size of a uint64.
func Uint64Size(v uint64) int {
	return VarintSize(v)
}

// Sint32Size returns the varint size of a zigzag-encoded int32.
func Sint32Size(v int32) int {
	return VarintSize(EncodeZigZag32(v))
}

// Sint64Size returns the varint size of a zigzag-encoded int64.
func Sint64Size(v int64) int {
	return VarintSize(EncodeZigZag64(v))
}

// BoolSize returns the size of an encoded bool (always 1 byte).
func BoolSize() int {
	return 1
}

// Fixed32Size returns the size of a fixed32 value (always 4 bytes).
func Fixed32Size() int {
	return 4
}

// Fixed64Size returns the size of a fixed64 value (always 8 bytes).
func Fixed64Size() int {
	return 8
}

// BytesSize returns the raw payload size of a byte field. The length-prefix
// varint is accounted for separately, consistent with WriteBytes.
func BytesSize(data []byte) int {
	return len(data)
}

// StringSize returns the raw payload size of a string field.
func StringSize(s string) int {
	return len(s)
}

// LenPrefixedSize returns the full on-wire size of a length-delimited payload
// of n bytes: the length varint plus the payload itself.
func LenPrefixedSize(n int) int {
	return VarintSize(uint64(n)) + n
}
