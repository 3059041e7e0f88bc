package wire

import (
	"bytes"
	"math"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestEncodeKnownVector(t *testing.T) {
	// Message with field 1 = varint 300 and field 2 = "hi". The byte layout
	// is pinned by the protobuf encoding docs.
	e := NewEncoder()
	e.WriteTag(1, WireVarint)
	e.WriteUint64(300)
	e.WriteTag(2, WireBytes)
	e.WriteVarint(2)
	e.WriteString("hi")

	want := []byte{0x08, 0xAC, 0x02, 0x12, 0x02, 0x68, 0x69}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("encoded % X, want % X", e.Bytes(), want)
	}

	// And the same bytes decode back to the same two fields.
	d := NewDecoder(want)
	tag, err := d.ReadTag()
	if err != nil {
		t.Fatal(err)
	}
	if num, wt := ParseTag(tag); num != 1 || wt != WireVarint {
		t.Fatalf("first tag = %d/%d", num, wt)
	}
	v, err := d.ReadUint64()
	if err != nil || v != 300 {
		t.Fatalf("field 1 = %d, %v", v, err)
	}
	tag, err = d.ReadTag()
	if err != nil {
		t.Fatal(err)
	}
	if num, wt := ParseTag(tag); num != 2 || wt != WireBytes {
		t.Fatalf("second tag = %d/%d", num, wt)
	}
	s, err := d.ReadString()
	if err != nil || s != "hi" {
		t.Fatalf("field 2 = %q, %v", s, err)
	}
	if !d.AtEnd() {
		t.Fatal("trailing bytes after known vector")
	}
}

func TestWriteVarintMatchesProtowire(t *testing.T) {
	values := []uint64{
		0, 1, 127, 128, 300, 16383, 16384,
		1<<21 - 1, 1 << 21, 1<<28 - 1, 1 << 28,
		1<<35 - 1, 1 << 35, 1<<42 - 1, 1 << 42,
		1<<49 - 1, 1 << 49, 1<<56 - 1, 1 << 56,
		1<<63 - 1, 1 << 63, math.MaxUint64,
	}
	for _, v := range values {
		e := NewEncoder()
		e.WriteVarint(v)
		want := protowire.AppendVarint(nil, v)
		if !bytes.Equal(e.Bytes(), want) {
			t.Errorf("WriteVarint(%d) = % X, want % X", v, e.Bytes(), want)
		}
	}
}

func TestWriteInt32NegativeSignExtends(t *testing.T) {
	e := NewEncoder()
	e.WriteInt32(-1)
	if len(e.Bytes()) != 10 {
		t.Fatalf("WriteInt32(-1) wrote %d bytes, want 10", len(e.Bytes()))
	}
	neg := int64(-1)
	want := protowire.AppendVarint(nil, uint64(neg))
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("WriteInt32(-1) = % X, want % X", e.Bytes(), want)
	}
}

func TestWriteFixedMatchesProtowire(t *testing.T) {
	e := NewEncoder()
	e.WriteFixed32(0xDEADBEEF)
	if !bytes.Equal(e.Bytes(), protowire.AppendFixed32(nil, 0xDEADBEEF)) {
		t.Errorf("fixed32 mismatch: % X", e.Bytes())
	}

	e = NewEncoder()
	e.WriteFixed64(0xDEADBEEFCAFEF00D)
	if !bytes.Equal(e.Bytes(), protowire.AppendFixed64(nil, 0xDEADBEEFCAFEF00D)) {
		t.Errorf("fixed64 mismatch: % X", e.Bytes())
	}
}

func TestWriteSintMatchesProtowire(t *testing.T) {
	for _, v := range []int64{0, -1, 1, -64, 63, math.MinInt64, math.MaxInt64} {
		e := NewEncoder()
		e.WriteSint64(v)
		want := protowire.AppendVarint(nil, protowire.EncodeZigZag(v))
		if !bytes.Equal(e.Bytes(), want) {
			t.Errorf("WriteSint64(%d) = % X, want % X", v, e.Bytes(), want)
		}
	}
}

func TestWriteStringAndBytesAreRaw(t *testing.T) {
	// No implicit length prefix: framing is the caller's job.
	e := NewEncoder()
	e.WriteString("abc")
	if !bytes.Equal(e.Bytes(), []byte("abc")) {
		t.Fatalf("WriteString emitted % X", e.Bytes())
	}

	e = NewEncoder()
	e.WriteBytes([]byte{0x01, 0x02})
	if !bytes.Equal(e.Bytes(), []byte{0x01, 0x02}) {
		t.Fatalf("WriteBytes emitted % X", e.Bytes())
	}

	e = NewEncoder()
	e.WriteString("")
	e.WriteBytes(nil)
	if e.Len() != 0 {
		t.Fatalf("empty writes emitted %d bytes", e.Len())
	}
}

func TestEncoderAppendMode(t *testing.T) {
	prefix := []byte{0xAA, 0xBB}
	e := NewEncoderAppend(prefix)
	e.WriteVarint(1)
	want := []byte{0xAA, 0xBB, 0x01}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("append mode = % X, want % X", e.Bytes(), want)
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder()
	e.WriteVarint(300)
	if e.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", e.Len())
	}
	e.Reset()
	if e.Len() != 0 {
		t.Fatalf("Len() after Reset = %d", e.Len())
	}
	e.WriteBool(true)
	if !bytes.Equal(e.Bytes(), []byte{0x01}) {
		t.Fatalf("post-reset bytes = % X", e.Bytes())
	}
}

func TestWriteBool(t *testing.T) {
	e := NewEncoder()
	e.WriteBool(true)
	e.WriteBool(false)
	if !bytes.Equal(e.Bytes(), []byte{0x01, 0x00}) {
		t.Fatalf("bool bytes = % X", e.Bytes())
	}
}
