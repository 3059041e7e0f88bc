package wire

import (
	"fmt"
	"sort"

	"github.com/blockwire/blockwire/registry"
	"github.com/blockwire/blockwire/schema"
)

// SchemaDecoder decodes wire data into generic maps, driven by a runtime
// schema instead of generated code. Nested message and enum references are
// resolved through the registry.
type SchemaDecoder struct {
	reg *registry.Registry
}

// SchemaEncoder is the encoding counterpart of SchemaDecoder.
type SchemaEncoder struct {
	reg *registry.Registry
}

// NewSchemaDecoder creates a schema-driven decoder. reg may be nil, in which
// case nested messages surface as raw bytes and enums as numbers.
func NewSchemaDecoder(reg *registry.Registry) *SchemaDecoder {
	return &SchemaDecoder{reg: reg}
}

// NewSchemaEncoder creates a schema-driven encoder.
func NewSchemaEncoder(reg *registry.Registry) *SchemaEncoder {
	return &SchemaEncoder{reg: reg}
}

// DecodeMessage decodes protobuf bytes against msg. Main entry point.
func DecodeMessage(data []byte, msg *schema.Message, reg *registry.Registry) (map[string]any, error) {
	return NewSchemaDecoder(reg).Decode(data, msg)
}

// EncodeMessage encodes a generic map against msg. Main entry point.
func EncodeMessage(data map[string]any, msg *schema.Message, reg *registry.Registry) ([]byte, error) {
	e := NewEncoder()
	if err := NewSchemaEncoder(reg).EncodeTo(e, data, msg); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Decode runs the standard decode loop over data: read a tag, dispatch on
// the field number, skip what the schema does not know.
func (sd *SchemaDecoder) Decode(data []byte, msg *schema.Message) (map[string]any, error) {
	return sd.decodeInto(NewDecoder(data), msg)
}

func (sd *SchemaDecoder) decodeInto(d *Decoder, msg *schema.Message) (map[string]any, error) {
	result := make(map[string]any)
	repeated := make(map[string][]any)
	mapped := make(map[string]map[any]any)

	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return nil, fmt.Errorf("failed to decode message %s: %w", msg.Name, err)
		}
		fieldNumber, wireType := ParseTag(tag)

		field := msg.FieldByNumber(int32(fieldNumber))
		if field == nil {
			// Unknown field - skip it
			if err := d.SkipField(wireType); err != nil {
				return nil, fmt.Errorf("failed to decode message %s: %w", msg.Name, err)
			}
			continue
		}

		switch {
		case field.Type.Kind == schema.KindMap:
			key, value, err := sd.decodeMapEntry(d, field.Type.MapKey, field.Type.MapValue)
			if err != nil {
				return nil, wrapWithField(err, field.Name)
			}
			m := mapped[field.Name]
			if m == nil {
				m = make(map[any]any)
				mapped[field.Name] = m
			}
			m[key] = value

		case field.Label == schema.LabelRepeated && isPackedBlock(field, wireType):
			values, err := sd.decodePacked(d, field.Type.PrimitiveType)
			if err != nil {
				return nil, wrapWithField(err, field.Name)
			}
			repeated[field.Name] = append(repeated[field.Name], values...)

		case field.Label == schema.LabelRepeated:
			value, err := sd.decodeValue(d, &field.Type, wireType)
			if err != nil {
				return nil, wrapWithField(err, field.Name)
			}
			repeated[field.Name] = append(repeated[field.Name], value)

		default:
			value, err := sd.decodeValue(d, &field.Type, wireType)
			if err != nil {
				return nil, wrapWithField(err, field.Name)
			}
			result[field.Name] = value
		}
	}

	for name, m := range mapped {
		result[name] = m
	}
	for name, s := range repeated {
		result[name] = s
	}

	return result, nil
}

// isPackedBlock reports whether a repeated field arrived in the packed
// encoding: a length-delimited block for a scalar whose natural wire type is
// not itself length-delimited.
func isPackedBlock(field *schema.Field, wireType WireType) bool {
	return wireType == WireBytes &&
		field.Type.Kind == schema.KindPrimitive &&
		schema.IsPackedType(field.Type.PrimitiveType) &&
		scalarWireType(field.Type.PrimitiveType) != WireBytes
}

// decodePacked reads one length-delimited block of concatenated unprefixed
// scalar encodings.
func (sd *SchemaDecoder) decodePacked(d *Decoder, primitiveType schema.PrimitiveType) ([]any, error) {
	body, err := d.ReadRawBytes()
	if err != nil {
		return nil, err
	}

	elementWire := scalarWireType(primitiveType)
	pd := NewDecoder(body)

	var values []any
	for !pd.AtEnd() {
		v, err := decodeScalar(pd, primitiveType, elementWire)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// decodeValue routes one field value to the matching decode primitive.
func (sd *SchemaDecoder) decodeValue(d *Decoder, fieldType *schema.FieldType, wireType WireType) (any, error) {
	switch fieldType.Kind {
	case schema.KindPrimitive:
		return decodeScalar(d, fieldType.PrimitiveType, wireType)

	case schema.KindMessage:
		if wireType != WireBytes {
			return nil, fmt.Errorf("message field must be length-delimited, got wire type %d", wireType)
		}
		// Window the parent buffer; the parent cursor has already advanced
		// past the whole sub-message, whatever the child consumes.
		window, err := d.ReadRawBytes()
		if err != nil {
			return nil, err
		}
		if sd.reg == nil {
			return cloneBytes(window), nil
		}
		nested, err := sd.reg.GetMessage(fieldType.MessageType)
		if err != nil {
			// Schema not found, surface raw bytes
			return cloneBytes(window), nil
		}
		return sd.decodeInto(NewDecoder(window), nested)

	case schema.KindEnum:
		n, err := d.ReadInt32()
		if err != nil {
			return nil, err
		}
		if sd.reg != nil {
			if enum, err := sd.reg.GetEnum(fieldType.EnumType); err == nil {
				if name, ok := enum.ValueName(n); ok {
					return name, nil
				}
			}
		}
		// Numbers the schema does not know yet stay numeric, tolerating
		// enum values added by newer schema versions.
		return n, nil

	default:
		return nil, fmt.Errorf("unsupported field kind: %s", fieldType.Kind)
	}
}

// decodeScalar decodes one primitive value, validating the wire type the
// field arrived with against the declared scalar type.
func decodeScalar(d *Decoder, primitiveType schema.PrimitiveType, wireType WireType) (any, error) {
	switch wireType {
	case WireVarint:
		v, err := d.ReadVarint()
		if err != nil {
			return nil, err
		}
		switch primitiveType {
		case schema.TypeInt32:
			return int32(v), nil
		case schema.TypeInt64:
			return int64(v), nil
		case schema.TypeUint32:
			return uint32(v), nil
		case schema.TypeUint64:
			return v, nil
		case schema.TypeSint32:
			return DecodeZigZag32(v), nil
		case schema.TypeSint64:
			return DecodeZigZag64(v), nil
		case schema.TypeBool:
			return v != 0, nil
		default:
			return nil, fmt.Errorf("wire type varint does not encode %s", primitiveType)
		}

	case WireFixed32:
		switch primitiveType {
		case schema.TypeFloat:
			return d.ReadFloat()
		case schema.TypeFixed32:
			return d.ReadFixed32()
		case schema.TypeSfixed32:
			return d.ReadSfixed32()
		default:
			return nil, fmt.Errorf("wire type fixed32 does not encode %s", primitiveType)
		}

	case WireFixed64:
		switch primitiveType {
		case schema.TypeDouble:
			return d.ReadDouble()
		case schema.TypeFixed64:
			return d.ReadFixed64()
		case schema.TypeSfixed64:
			return d.ReadSfixed64()
		default:
			return nil, fmt.Errorf("wire type fixed64 does not encode %s", primitiveType)
		}

	case WireBytes:
		switch primitiveType {
		case schema.TypeString:
			return d.ReadString()
		case schema.TypeBytes:
			return d.ReadBytes()
		default:
			return nil, fmt.Errorf("wire type bytes does not encode %s", primitiveType)
		}

	default:
		return nil, fmt.Errorf("invalid wire type %d for primitive %s", wireType, primitiveType)
	}
}

// EncodeTo appends data encoded against msg. Fields are emitted in field
// number order so output is deterministic regardless of map iteration.
func (se *SchemaEncoder) EncodeTo(e *Encoder, data map[string]any, msg *schema.Message) error {
	type fieldEntry struct {
		value any
		field *schema.Field
	}
	var entries []fieldEntry
	for name, value := range data {
		field := findFieldByName(msg, name)
		if field == nil {
			continue // skip keys the schema does not know
		}
		entries = append(entries, fieldEntry{value: value, field: field})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].field.Number < entries[j].field.Number
	})

	for _, entry := range entries {
		if err := se.encodeField(e, entry.value, entry.field); err != nil {
			return wrapWithField(err, entry.field.Name)
		}
	}
	return nil
}

func (se *SchemaEncoder) encodeField(e *Encoder, value any, field *schema.Field) error {
	switch {
	case field.Type.Kind == schema.KindMap:
		return se.encodeMap(e, value, field)
	case field.Label == schema.LabelRepeated:
		return se.encodeRepeated(e, value, field)
	default:
		e.WriteTag(FieldNumber(field.Number), wireTypeFor(&field.Type))
		return se.encodeValue(e, value, &field.Type)
	}
}

func (se *SchemaEncoder) encodeRepeated(e *Encoder, value any, field *schema.Field) error {
	elements, err := toSlice(value)
	if err != nil {
		return err
	}

	// Packed emit for eligible scalars: one length-delimited block of
	// unprefixed element encodings.
	if field.Type.Kind == schema.KindPrimitive && schema.IsPackedType(field.Type.PrimitiveType) {
		if len(elements) == 0 {
			return nil
		}
		body := NewEncoder()
		for _, element := range elements {
			if err := se.encodeValue(body, element, &field.Type); err != nil {
				return err
			}
		}
		e.WriteTag(FieldNumber(field.Number), WireBytes)
		e.WriteVarint(uint64(body.Len()))
		e.WriteBytes(body.Bytes())
		return nil
	}

	for _, element := range elements {
		e.WriteTag(FieldNumber(field.Number), wireTypeFor(&field.Type))
		if err := se.encodeValue(e, element, &field.Type); err != nil {
			return err
		}
	}
	return nil
}

// encodeValue appends one value's wire representation, length prefix
// included for length-delimited kinds.
func (se *SchemaEncoder) encodeValue(e *Encoder, value any, fieldType *schema.FieldType) error {
	switch fieldType.Kind {
	case schema.KindPrimitive:
		return encodeScalar(e, value, fieldType.PrimitiveType)

	case schema.KindMessage:
		// Pre-encoded bytes pass through untouched.
		if raw, ok := value.([]byte); ok {
			e.WriteVarint(uint64(len(raw)))
			e.WriteBytes(raw)
			return nil
		}
		nested, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("message value must be map[string]any or []byte, got %T", value)
		}
		if se.reg == nil {
			return fmt.Errorf("registry is required to encode message fields")
		}
		nestedSchema, err := se.reg.GetMessage(fieldType.MessageType)
		if err != nil {
			return fmt.Errorf("failed to get message schema for %s: %w", fieldType.MessageType, err)
		}
		child := NewEncoder()
		if err := se.EncodeTo(child, nested, nestedSchema); err != nil {
			return err
		}
		e.WriteVarint(uint64(child.Len()))
		e.WriteBytes(child.Bytes())
		return nil

	case schema.KindEnum:
		if name, ok := value.(string); ok {
			if se.reg == nil {
				return fmt.Errorf("registry is required to encode enum %s by name", fieldType.EnumType)
			}
			enum, err := se.reg.GetEnum(fieldType.EnumType)
			if err != nil {
				return err
			}
			number, ok := enum.ValueNumber(name)
			if !ok {
				return fmt.Errorf("unknown value %q for enum %s", name, fieldType.EnumType)
			}
			e.WriteInt32(number)
			return nil
		}
		number, err := coerceInt64(value)
		if err != nil {
			return err
		}
		e.WriteInt32(int32(number))
		return nil

	default:
		return fmt.Errorf("unsupported field kind: %s", fieldType.Kind)
	}
}

// encodeScalar appends one primitive payload, coercing loosely typed inputs
// (ints from JSON arrive as float64, for instance).
func encodeScalar(e *Encoder, value any, primitiveType schema.PrimitiveType) error {
	switch primitiveType {
	case schema.TypeString:
		s, err := coerceString(value)
		if err != nil {
			return err
		}
		e.WriteVarint(uint64(len(s)))
		e.WriteString(s)
	case schema.TypeBytes:
		b, err := coerceBytes(value)
		if err != nil {
			return err
		}
		e.WriteVarint(uint64(len(b)))
		e.WriteBytes(b)
	case schema.TypeInt32:
		v, err := coerceInt64(value)
		if err != nil {
			return err
		}
		e.WriteInt32(int32(v))
	case schema.TypeInt64:
		v, err := coerceInt64(value)
		if err != nil {
			return err
		}
		e.WriteInt64(v)
	case schema.TypeUint32:
		v, err := coerceUint64(value)
		if err != nil {
			return err
		}
		e.WriteUint32(uint32(v))
	case schema.TypeUint64:
		v, err := coerceUint64(value)
		if err != nil {
			return err
		}
		e.WriteUint64(v)
	case schema.TypeSint32:
		v, err := coerceInt64(value)
		if err != nil {
			return err
		}
		e.WriteSint32(int32(v))
	case schema.TypeSint64:
		v, err := coerceInt64(value)
		if err != nil {
			return err
		}
		e.WriteSint64(v)
	case schema.TypeFixed32:
		v, err := coerceUint64(value)
		if err != nil {
			return err
		}
		e.WriteFixed32(uint32(v))
	case schema.TypeFixed64:
		v, err := coerceUint64(value)
		if err != nil {
			return err
		}
		e.WriteFixed64(v)
	case schema.TypeSfixed32:
		v, err := coerceInt64(value)
		if err != nil {
			return err
		}
		e.WriteSfixed32(int32(v))
	case schema.TypeSfixed64:
		v, err := coerceInt64(value)
		if err != nil {
			return err
		}
		e.WriteSfixed64(v)
	case schema.TypeBool:
		v, err := coerceBool(value)
		if err != nil {
			return err
		}
		e.WriteBool(v)
	case schema.TypeFloat:
		v, err := coerceFloat64(value)
		if err != nil {
			return err
		}
		e.WriteFloat(float32(v))
	case schema.TypeDouble:
		v, err := coerceFloat64(value)
		if err != nil {
			return err
		}
		e.WriteDouble(v)
	default:
		return fmt.Errorf("unsupported primitive type: %s", primitiveType)
	}
	return nil
}

// ===== UTILITY FUNCTIONS =====

// scalarWireType returns the natural wire type of a primitive.
func scalarWireType(primitiveType schema.PrimitiveType) WireType {
	switch primitiveType {
	case schema.TypeString, schema.TypeBytes:
		return WireBytes
	case schema.TypeFloat, schema.TypeFixed32, schema.TypeSfixed32:
		return WireFixed32
	case schema.TypeDouble, schema.TypeFixed64, schema.TypeSfixed64:
		return WireFixed64
	default:
		return WireVarint
	}
}

// wireTypeFor returns the wire type a field of this type is emitted with.
func wireTypeFor(fieldType *schema.FieldType) WireType {
	switch fieldType.Kind {
	case schema.KindPrimitive:
		return scalarWireType(fieldType.PrimitiveType)
	case schema.KindMessage, schema.KindMap:
		return WireBytes
	case schema.KindEnum:
		return WireVarint
	default:
		return WireVarint
	}
}

func findFieldByName(msg *schema.Message, fieldName string) *schema.Field {
	for _, field := range msg.Fields {
		if field.Name == fieldName {
			return field
		}
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
