package wire

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/blockwire/blockwire/schema"
)

// Maps travel as a repeated field of 2-entry sub-messages: key on field 1,
// value on field 2, per the standard protobuf map convention.

// decodeMapEntry reads one length-delimited map entry. Absent key or value
// fields decode as the zero value of their declared type.
func (sd *SchemaDecoder) decodeMapEntry(d *Decoder, keyType, valueType *schema.FieldType) (any, any, error) {
	window, err := d.ReadRawBytes()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode map entry: %w", err)
	}

	key := zeroValue(keyType)
	value := zeroValue(valueType)

	ed := NewDecoder(window)
	for !ed.AtEnd() {
		tag, err := ed.ReadTag()
		if err != nil {
			return nil, nil, err
		}
		fieldNumber, wireType := ParseTag(tag)

		switch fieldNumber {
		case 1:
			key, err = sd.decodeValue(ed, keyType, wireType)
		case 2:
			value, err = sd.decodeValue(ed, valueType, wireType)
		default:
			err = ed.SkipField(wireType)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	return key, value, nil
}

// encodeMap emits one tag + entry message per key. Entries are ordered by
// the rendered key so output is deterministic.
func (se *SchemaEncoder) encodeMap(e *Encoder, value any, field *schema.Field) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return fmt.Errorf("map field value must be a map, got %T", value)
	}

	type pair struct {
		sortKey string
		key     any
		value   any
	}
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		pairs = append(pairs, pair{
			sortKey: fmt.Sprint(k),
			key:     k,
			value:   iter.Value().Interface(),
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].sortKey < pairs[j].sortKey })

	for _, p := range pairs {
		entry := NewEncoder()
		entry.WriteTag(1, wireTypeFor(field.Type.MapKey))
		if err := se.encodeValue(entry, p.key, field.Type.MapKey); err != nil {
			return fmt.Errorf("map key: %w", err)
		}
		entry.WriteTag(2, wireTypeFor(field.Type.MapValue))
		if err := se.encodeValue(entry, p.value, field.Type.MapValue); err != nil {
			return fmt.Errorf("map value: %w", err)
		}

		e.WriteTag(FieldNumber(field.Number), WireBytes)
		e.WriteVarint(uint64(entry.Len()))
		e.WriteBytes(entry.Bytes())
	}
	return nil
}

// zeroValue returns the proto3 default for a declared type, used when a map
// entry omits its key or value field.
func zeroValue(fieldType *schema.FieldType) any {
	switch fieldType.Kind {
	case schema.KindPrimitive:
		switch fieldType.PrimitiveType {
		case schema.TypeString:
			return ""
		case schema.TypeBytes:
			return []byte(nil)
		case schema.TypeInt32, schema.TypeSint32, schema.TypeSfixed32:
			return int32(0)
		case schema.TypeInt64, schema.TypeSint64, schema.TypeSfixed64:
			return int64(0)
		case schema.TypeUint32, schema.TypeFixed32:
			return uint32(0)
		case schema.TypeUint64, schema.TypeFixed64:
			return uint64(0)
		case schema.TypeBool:
			return false
		case schema.TypeFloat:
			return float32(0)
		case schema.TypeDouble:
			return float64(0)
		}
	case schema.KindEnum:
		return int32(0)
	}
	return nil
}
