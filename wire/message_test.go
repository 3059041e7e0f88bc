package wire

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/blockwire/blockwire/registry"
	"github.com/blockwire/blockwire/schema"
)

func primField(name string, number int32, pt schema.PrimitiveType) *schema.Field {
	return &schema.Field{
		Name:   name,
		Number: number,
		Label:  schema.LabelOptional,
		Type:   schema.FieldType{Kind: schema.KindPrimitive, PrimitiveType: pt},
	}
}

func repeatedField(name string, number int32, pt schema.PrimitiveType) *schema.Field {
	f := primField(name, number, pt)
	f.Label = schema.LabelRepeated
	return f
}

func loadRegistry(t *testing.T, protoSrc string) *registry.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.proto")
	if err := os.WriteFile(path, []byte(protoSrc), 0o644); err != nil {
		t.Fatal(err)
	}
	r := registry.NewRegistry()
	if err := r.LoadSchema(path); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestSchemaRoundTripScalars(t *testing.T) {
	msg := &schema.Message{
		Name: "Scalars",
		Fields: []*schema.Field{
			primField("s", 1, schema.TypeString),
			primField("b", 2, schema.TypeBytes),
			primField("i32", 3, schema.TypeInt32),
			primField("i64", 4, schema.TypeInt64),
			primField("u32", 5, schema.TypeUint32),
			primField("u64", 6, schema.TypeUint64),
			primField("si32", 7, schema.TypeSint32),
			primField("si64", 8, schema.TypeSint64),
			primField("f32", 9, schema.TypeFixed32),
			primField("f64", 10, schema.TypeFixed64),
			primField("sf32", 11, schema.TypeSfixed32),
			primField("sf64", 12, schema.TypeSfixed64),
			primField("flag", 13, schema.TypeBool),
			primField("fl", 14, schema.TypeFloat),
			primField("db", 15, schema.TypeDouble),
		},
	}

	in := map[string]any{
		"s":    "gas",
		"b":    []byte{0xDE, 0xAD},
		"i32":  int32(-7),
		"i64":  int64(-9000000000),
		"u32":  uint32(4000000000),
		"u64":  uint64(1) << 60,
		"si32": int32(-63),
		"si64": int64(-1) << 40,
		"f32":  uint32(12345),
		"f64":  uint64(1) << 50,
		"sf32": int32(-2),
		"sf64": int64(-3),
		"flag": true,
		"fl":   float32(1.5),
		"db":   2.25,
	}

	data, err := EncodeMessage(in, msg, nil)
	if err != nil {
		t.Fatalf("EncodeMessage() error = %v", err)
	}

	got, err := DecodeMessage(data, msg, nil)
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}

	want := map[string]any{
		"s":    "gas",
		"b":    []byte{0xDE, 0xAD},
		"i32":  int32(-7),
		"i64":  int64(-9000000000),
		"u32":  uint32(4000000000),
		"u64":  uint64(1) << 60,
		"si32": int32(-63),
		"si64": int64(-1) << 40,
		"f32":  uint32(12345),
		"f64":  uint64(1) << 50,
		"sf32": int32(-2),
		"sf64": int64(-3),
		"flag": true,
		"fl":   float32(1.5),
		"db":   float64(2.25),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, want)
	}
}

func TestEncodeOrdersByFieldNumber(t *testing.T) {
	msg := &schema.Message{
		Name: "Ordered",
		Fields: []*schema.Field{
			primField("third", 3, schema.TypeUint64),
			primField("first", 1, schema.TypeUint64),
			primField("second", 2, schema.TypeUint64),
		},
	}
	in := map[string]any{"third": 3, "second": 2, "first": 1}

	want := []byte{0x08, 0x01, 0x10, 0x02, 0x18, 0x03}
	for i := 0; i < 8; i++ {
		data, err := EncodeMessage(in, msg, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, want) {
			t.Fatalf("encoded % X, want % X", data, want)
		}
	}
}

func TestEncodeSkipsUnknownKeys(t *testing.T) {
	msg := &schema.Message{Name: "One", Fields: []*schema.Field{primField("known", 1, schema.TypeUint64)}}
	data, err := EncodeMessage(map[string]any{"known": 5, "mystery": "x"}, msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte{0x08, 0x05}) {
		t.Fatalf("encoded % X", data)
	}
}

func TestPackedRepeated(t *testing.T) {
	msg := &schema.Message{
		Name:   "Packed",
		Fields: []*schema.Field{repeatedField("ordinals", 1, schema.TypeUint64)},
	}

	data, err := EncodeMessage(map[string]any{"ordinals": []uint64{1, 300, 2}}, msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	// One length-delimited block: tag 0x0A, length 4, then 1, 300, 2.
	want := []byte{0x0A, 0x04, 0x01, 0xAC, 0x02, 0x02}
	if !bytes.Equal(data, want) {
		t.Fatalf("packed encoding % X, want % X", data, want)
	}

	got, err := DecodeMessage(data, msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got["ordinals"], []any{uint64(1), uint64(300), uint64(2)}) {
		t.Errorf("decoded %#v", got["ordinals"])
	}

	// Empty lists vanish entirely.
	data, err = EncodeMessage(map[string]any{"ordinals": []uint64{}}, msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("empty repeated encoded % X", data)
	}
}

func TestPackedDecodeAcceptsUnpackedElements(t *testing.T) {
	msg := &schema.Message{
		Name:   "Packed",
		Fields: []*schema.Field{repeatedField("ordinals", 1, schema.TypeUint64)},
	}

	e := NewEncoder()
	e.WriteTag(1, WireVarint)
	e.WriteUint64(5)
	e.WriteTag(1, WireVarint)
	e.WriteUint64(6)

	got, err := DecodeMessage(e.Bytes(), msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got["ordinals"], []any{uint64(5), uint64(6)}) {
		t.Errorf("decoded %#v", got["ordinals"])
	}
}

func TestPackedDecodeTruncatedElement(t *testing.T) {
	msg := &schema.Message{
		Name:   "Packed",
		Fields: []*schema.Field{repeatedField("ordinals", 1, schema.TypeUint64)},
	}

	// Block of length 1 holding a continuation byte with no terminator. The
	// element straddling the block end is an error, not a silent drop.
	data := []byte{0x0A, 0x01, 0x80}
	_, err := DecodeMessage(data, msg, nil)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("want ErrOutOfRange, got %v", err)
	}

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("want *FieldError, got %v", err)
	}
	if len(fe.FieldPath) != 1 || fe.FieldPath[0] != "ordinals" {
		t.Errorf("field path = %v", fe.FieldPath)
	}
}

func TestRepeatedStringsNotPacked(t *testing.T) {
	msg := &schema.Message{
		Name:   "Names",
		Fields: []*schema.Field{repeatedField("names", 1, schema.TypeString)},
	}

	data, err := EncodeMessage(map[string]any{"names": []string{"ab", "c"}}, msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x0A, 0x02, 'a', 'b', 0x0A, 0x01, 'c'}
	if !bytes.Equal(data, want) {
		t.Fatalf("encoded % X, want % X", data, want)
	}

	got, err := DecodeMessage(data, msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got["names"], []any{"ab", "c"}) {
		t.Errorf("decoded %#v", got["names"])
	}
}

func TestDecodeSkipsUnknownFieldNumbers(t *testing.T) {
	writer := &schema.Message{
		Name: "Wide",
		Fields: []*schema.Field{
			primField("a", 1, schema.TypeUint64),
			primField("keep", 2, schema.TypeString),
			primField("c", 3, schema.TypeFixed64),
			primField("d", 4, schema.TypeBytes),
		},
	}
	reader := &schema.Message{
		Name:   "Narrow",
		Fields: []*schema.Field{primField("keep", 2, schema.TypeString)},
	}

	data, err := EncodeMessage(map[string]any{
		"a": 9, "keep": "yes", "c": uint64(7), "d": []byte{1, 2, 3},
	}, writer, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeMessage(data, reader, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, map[string]any{"keep": "yes"}) {
		t.Errorf("decoded %#v", got)
	}
}

func TestDecodeNestedWithoutRegistry(t *testing.T) {
	inner := NewEncoder()
	inner.WriteTag(1, WireVarint)
	inner.WriteUint64(5)

	outer := NewEncoder()
	outer.WriteTag(1, WireBytes)
	outer.WriteVarint(uint64(inner.Len()))
	outer.WriteBytes(inner.Bytes())

	msg := &schema.Message{
		Name: "Outer",
		Fields: []*schema.Field{{
			Name:   "child",
			Number: 1,
			Label:  schema.LabelOptional,
			Type:   schema.FieldType{Kind: schema.KindMessage, MessageType: "Inner"},
		}},
	}

	got, err := DecodeMessage(outer.Bytes(), msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	raw, ok := got["child"].([]byte)
	if !ok {
		t.Fatalf("child = %#v, want raw bytes", got["child"])
	}
	if !bytes.Equal(raw, inner.Bytes()) {
		t.Errorf("child bytes = % X", raw)
	}
}

const nestedProto = `syntax = "proto3";
package codec.test;

message Outer {
  repeated Inner items = 1;
  uint64 after = 2;
}

message Inner {
  string name = 1;
  uint64 n = 2;
}
`

func TestNestedMessageWindowing(t *testing.T) {
	reg := loadRegistry(t, nestedProto)
	outer, err := reg.GetMessage("Outer")
	if err != nil {
		t.Fatal(err)
	}

	// Two nested items of different encoded lengths, then a scalar after
	// them. Decoding only succeeds if each child window advances the parent
	// cursor exactly past its own payload.
	in := map[string]any{
		"items": []any{
			map[string]any{"name": "first-item-with-a-long-name", "n": 1},
			map[string]any{"name": "x", "n": 2},
		},
		"after": 77,
	}
	data, err := EncodeMessage(in, outer, reg)
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeMessage(data, outer, reg)
	if err != nil {
		t.Fatal(err)
	}
	if got["after"] != uint64(77) {
		t.Errorf("after = %#v", got["after"])
	}
	items, ok := got["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("items = %#v", got["items"])
	}
	first := items[0].(map[string]any)
	second := items[1].(map[string]any)
	if first["name"] != "first-item-with-a-long-name" || first["n"] != uint64(1) {
		t.Errorf("first item = %#v", first)
	}
	if second["name"] != "x" || second["n"] != uint64(2) {
		t.Errorf("second item = %#v", second)
	}
}

func TestNestedDecodeErrorCarriesFieldPath(t *testing.T) {
	reg := loadRegistry(t, nestedProto)
	outer, err := reg.GetMessage("Outer")
	if err != nil {
		t.Fatal(err)
	}

	// Child window holds a bare continuation byte, so the inner tag read runs
	// out of buffer.
	e := NewEncoder()
	e.WriteTag(1, WireBytes)
	e.WriteVarint(1)
	e.WriteBytes([]byte{0x80})

	_, err = DecodeMessage(e.Bytes(), outer, reg)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("want ErrOutOfRange, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("want *FieldError, got %v", err)
	}
	if len(fe.FieldPath) == 0 || fe.FieldPath[0] != "items" {
		t.Errorf("field path = %v", fe.FieldPath)
	}
}

const enumProto = `syntax = "proto3";
package codec.test;

message Tx {
  Status status = 1;
}

enum Status {
  STATUS_UNKNOWN = 0;
  STATUS_OK = 1;
  STATUS_REVERTED = 2;
}
`

func TestEnumDecodeLenient(t *testing.T) {
	reg := loadRegistry(t, enumProto)
	tx, err := reg.GetMessage("Tx")
	if err != nil {
		t.Fatal(err)
	}

	data, err := EncodeMessage(map[string]any{"status": "STATUS_REVERTED"}, tx, reg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeMessage(data, tx, reg)
	if err != nil {
		t.Fatal(err)
	}
	if got["status"] != "STATUS_REVERTED" {
		t.Errorf("status = %#v", got["status"])
	}

	// A number the schema has never heard of stays numeric.
	e := NewEncoder()
	e.WriteTag(1, WireVarint)
	e.WriteInt32(99)
	got, err = DecodeMessage(e.Bytes(), tx, reg)
	if err != nil {
		t.Fatal(err)
	}
	if got["status"] != int32(99) {
		t.Errorf("unknown enum number = %#v", got["status"])
	}
}

func TestMapRoundTrip(t *testing.T) {
	mapField := &schema.Field{
		Name:   "balances",
		Number: 1,
		Label:  schema.LabelOptional,
		Type: schema.FieldType{
			Kind:     schema.KindMap,
			MapKey:   &schema.FieldType{Kind: schema.KindPrimitive, PrimitiveType: schema.TypeString},
			MapValue: &schema.FieldType{Kind: schema.KindPrimitive, PrimitiveType: schema.TypeUint64},
		},
	}
	msg := &schema.Message{Name: "State", Fields: []*schema.Field{mapField}}

	in := map[string]any{"balances": map[string]uint64{"alice": 10, "bob": 0}}
	data, err := EncodeMessage(in, msg, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Entries sort by key, so the encoding is stable.
	again, err := EncodeMessage(in, msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Fatal("map encoding is not deterministic")
	}

	got, err := DecodeMessage(data, msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[any]any{"alice": uint64(10), "bob": uint64(0)}
	if !reflect.DeepEqual(got["balances"], want) {
		t.Errorf("decoded %#v, want %#v", got["balances"], want)
	}
}

func TestMapEntryMissingValueDefaults(t *testing.T) {
	mapField := &schema.Field{
		Name:   "balances",
		Number: 1,
		Label:  schema.LabelOptional,
		Type: schema.FieldType{
			Kind:     schema.KindMap,
			MapKey:   &schema.FieldType{Kind: schema.KindPrimitive, PrimitiveType: schema.TypeString},
			MapValue: &schema.FieldType{Kind: schema.KindPrimitive, PrimitiveType: schema.TypeUint64},
		},
	}
	msg := &schema.Message{Name: "State", Fields: []*schema.Field{mapField}}

	// Entry holding only the key field; the value decodes to its proto3 zero.
	entry := NewEncoder()
	entry.WriteTag(1, WireBytes)
	entry.WriteVarint(1)
	entry.WriteString("k")

	outer := NewEncoder()
	outer.WriteTag(1, WireBytes)
	outer.WriteVarint(uint64(entry.Len()))
	outer.WriteBytes(entry.Bytes())

	got, err := DecodeMessage(outer.Bytes(), msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[any]any{"k": uint64(0)}
	if !reflect.DeepEqual(got["balances"], want) {
		t.Errorf("decoded %#v, want %#v", got["balances"], want)
	}
}

func BenchmarkSchemaDecode(b *testing.B) {
	msg := &schema.Message{
		Name: "Bench",
		Fields: []*schema.Field{
			primField("a", 1, schema.TypeUint64),
			primField("b", 2, schema.TypeString),
			repeatedField("c", 3, schema.TypeUint64),
		},
	}
	data, err := EncodeMessage(map[string]any{
		"a": uint64(123456),
		"b": "benchmark payload",
		"c": []uint64{1, 2, 3, 4, 5, 6, 7, 8},
	}, msg, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeMessage(data, msg, nil); err != nil {
			b.Fatal(err)
		}
	}
}
