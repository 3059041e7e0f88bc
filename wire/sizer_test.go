package wire

import (
	"math"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// varintBoundaries holds the first and last value of every varint byte length.
var varintBoundaries = []struct {
	value uint64
	size  int
}{
	{0, 1},
	{127, 1},
	{128, 2},
	{16383, 2},
	{16384, 3},
	{1<<21 - 1, 3},
	{1 << 21, 4},
	{1<<28 - 1, 4},
	{1 << 28, 5},
	{1<<35 - 1, 5},
	{1 << 35, 6},
	{1<<42 - 1, 6},
	{1 << 42, 7},
	{1<<49 - 1, 7},
	{1 << 49, 8},
	{1<<56 - 1, 8},
	{1 << 56, 9},
	{1<<63 - 1, 9},
	{1 << 63, 10},
	{math.MaxUint64, 10},
}

func TestVarintSize(t *testing.T) {
	for _, tt := range varintBoundaries {
		if got := VarintSize(tt.value); got != tt.size {
			t.Errorf("VarintSize(%d) = %d, want %d", tt.value, got, tt.size)
		}
		if got := protowire.SizeVarint(tt.value); got != tt.size {
			t.Errorf("reference disagrees for %d: protowire says %d", tt.value, got)
		}
	}
}

func TestSizerMatchesEncoder(t *testing.T) {
	for _, tt := range varintBoundaries {
		e := NewEncoder()
		e.WriteVarint(tt.value)
		if e.Len() != VarintSize(tt.value) {
			t.Errorf("value %d: encoder wrote %d bytes, sizer says %d", tt.value, e.Len(), VarintSize(tt.value))
		}
	}

	for _, v := range []int32{0, -1, 1, math.MinInt32, math.MaxInt32} {
		e := NewEncoder()
		e.WriteInt32(v)
		if e.Len() != Int32Size(v) {
			t.Errorf("int32 %d: encoder wrote %d bytes, sizer says %d", v, e.Len(), Int32Size(v))
		}

		e = NewEncoder()
		e.WriteSint32(v)
		if e.Len() != Sint32Size(v) {
			t.Errorf("sint32 %d: encoder wrote %d bytes, sizer says %d", v, e.Len(), Sint32Size(v))
		}
	}

	for _, v := range []int64{0, -1, math.MinInt64, math.MaxInt64} {
		e := NewEncoder()
		e.WriteInt64(v)
		if e.Len() != Int64Size(v) {
			t.Errorf("int64 %d: encoder wrote %d bytes, sizer says %d", v, e.Len(), Int64Size(v))
		}

		e = NewEncoder()
		e.WriteSint64(v)
		if e.Len() != Sint64Size(v) {
			t.Errorf("sint64 %d: encoder wrote %d bytes, sizer says %d", v, e.Len(), Sint64Size(v))
		}
	}
}

func TestInt32SizeNegative(t *testing.T) {
	// Negative int32 sign-extends to 64 bits, so it always costs 10 bytes.
	if got := Int32Size(-1); got != 10 {
		t.Errorf("Int32Size(-1) = %d, want 10", got)
	}
	// ZigZag keeps small negatives small.
	if got := Sint32Size(-1); got != 1 {
		t.Errorf("Sint32Size(-1) = %d, want 1", got)
	}
}

func TestTagSize(t *testing.T) {
	tests := []struct {
		number FieldNumber
		size   int
	}{
		{1, 1},
		{15, 1},
		{16, 2},
		{2047, 2},
		{2048, 3},
	}
	for _, tt := range tests {
		if got := TagSize(tt.number); got != tt.size {
			t.Errorf("TagSize(%d) = %d, want %d", tt.number, got, tt.size)
		}
		if got := protowire.SizeTag(protowire.Number(tt.number)); got != tt.size {
			t.Errorf("reference disagrees for field %d: protowire says %d", tt.number, got)
		}
	}
}

func TestFixedAndPayloadSizes(t *testing.T) {
	if BoolSize() != 1 || Fixed32Size() != 4 || Fixed64Size() != 8 {
		t.Fatalf("fixed sizes: bool=%d fixed32=%d fixed64=%d", BoolSize(), Fixed32Size(), Fixed64Size())
	}

	if got := BytesSize([]byte{1, 2, 3}); got != 3 {
		t.Errorf("BytesSize = %d, want 3", got)
	}
	if got := StringSize("hello"); got != 5 {
		t.Errorf("StringSize = %d, want 5", got)
	}

	// Prefix plus payload, checked at the varint length step.
	if got := LenPrefixedSize(0); got != 1 {
		t.Errorf("LenPrefixedSize(0) = %d, want 1", got)
	}
	if got := LenPrefixedSize(127); got != 128 {
		t.Errorf("LenPrefixedSize(127) = %d, want 128", got)
	}
	if got := LenPrefixedSize(128); got != 130 {
		t.Errorf("LenPrefixedSize(128) = %d, want 130", got)
	}
}

func BenchmarkVarintSize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = VarintSize(uint64(i) << 20)
	}
}
