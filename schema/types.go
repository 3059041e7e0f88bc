package schema

// Message represents a protobuf message definition
type Message struct {
	Name        string     `json:"name"`         // "BlockHeader"
	Fields      []*Field   `json:"fields"`       // message fields
	NestedTypes []*Message `json:"nested_types"` // nested messages
	NestedEnums []*Enum    `json:"nested_enums"` // nested enums
	MapEntry    bool       `json:"map_entry"`    // is this a synthetic map entry?
}

// FieldByNumber returns the field with the given number, or nil.
func (m *Message) FieldByNumber(number int32) *Field {
	for _, f := range m.Fields {
		if f.Number == number {
			return f
		}
	}
	return nil
}

// Field represents a message field
type Field struct {
	Name   string     `json:"name"`   // "gas_used"
	Number int32      `json:"number"` // 11
	Label  FieldLabel `json:"label"`  // optional, repeated
	Type   FieldType  `json:"type"`   // field type information
}

// FieldLabel represents field labels
type FieldLabel string

const (
	LabelOptional FieldLabel = "optional"
	LabelRepeated FieldLabel = "repeated"
)

// FieldType represents field type information
type FieldType struct {
	Kind          TypeKind      `json:"kind"`                     // primitive, message, enum, map
	PrimitiveType PrimitiveType `json:"primitive_type,omitempty"` // for primitive types
	MessageType   string        `json:"message_type,omitempty"`   // for message types: "BlockHeader"
	EnumType      string        `json:"enum_type,omitempty"`      // for enum types
	MapKey        *FieldType    `json:"map_key,omitempty"`        // for map key type
	MapValue      *FieldType    `json:"map_value,omitempty"`      // for map value type
}

// TypeKind represents the kind of field type
type TypeKind string

const (
	KindPrimitive TypeKind = "primitive"
	KindMessage   TypeKind = "message"
	KindEnum      TypeKind = "enum"
	KindMap       TypeKind = "map"
)

// PrimitiveType represents protobuf primitive types
type PrimitiveType string

const (
	TypeDouble   PrimitiveType = "double"
	TypeFloat    PrimitiveType = "float"
	TypeInt64    PrimitiveType = "int64"
	TypeUint64   PrimitiveType = "uint64"
	TypeInt32    PrimitiveType = "int32"
	TypeFixed64  PrimitiveType = "fixed64"
	TypeFixed32  PrimitiveType = "fixed32"
	TypeBool     PrimitiveType = "bool"
	TypeString   PrimitiveType = "string"
	TypeBytes    PrimitiveType = "bytes"
	TypeUint32   PrimitiveType = "uint32"
	TypeSfixed32 PrimitiveType = "sfixed32"
	TypeSfixed64 PrimitiveType = "sfixed64"
	TypeSint32   PrimitiveType = "sint32"
	TypeSint64   PrimitiveType = "sint64"
)

// PrimitiveByName maps .proto type names onto PrimitiveType; ok is false for
// non-scalar type references.
func PrimitiveByName(name string) (PrimitiveType, bool) {
	t := PrimitiveType(name)
	switch t {
	case TypeDouble, TypeFloat, TypeInt64, TypeUint64, TypeInt32,
		TypeFixed64, TypeFixed32, TypeBool, TypeString, TypeBytes,
		TypeUint32, TypeSfixed32, TypeSfixed64, TypeSint32, TypeSint64:
		return t, true
	}
	return "", false
}

var packedEligible = map[PrimitiveType]struct{}{
	TypeDouble:   {},
	TypeFloat:    {},
	TypeInt64:    {},
	TypeUint64:   {},
	TypeInt32:    {},
	TypeFixed64:  {},
	TypeFixed32:  {},
	TypeBool:     {},
	TypeUint32:   {},
	TypeSfixed32: {},
	TypeSfixed64: {},
	TypeSint32:   {},
	TypeSint64:   {},
}

// IsPackedType reports whether a repeated field of this primitive type uses
// the packed encoding.
func IsPackedType(t PrimitiveType) bool {
	_, ok := packedEligible[t]
	return ok
}

// Enum represents an enum definition
type Enum struct {
	Name   string       `json:"name"`   // "TransactionTraceStatus"
	Values []*EnumValue `json:"values"` // enum values
}

// ValueName returns the symbolic name for an enum number, or ok=false.
func (e *Enum) ValueName(number int32) (string, bool) {
	for _, v := range e.Values {
		if v.Number == number {
			return v.Name, true
		}
	}
	return "", false
}

// ValueNumber returns the number for a symbolic enum name, or ok=false.
func (e *Enum) ValueNumber(name string) (int32, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Number, true
		}
	}
	return 0, false
}

// EnumValue represents an enum value
type EnumValue struct {
	Name   string `json:"name"`   // "SUCCEEDED"
	Number int32  `json:"number"` // 1
}
