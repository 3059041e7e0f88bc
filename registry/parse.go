package registry

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	"github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/blockwire/blockwire/schema"
)

// protoFile is one parsed .proto file awaiting registration.
type protoFile struct {
	path  string
	pkg   string
	proto *parser.Proto
}

// parseProtoFile reads and parses a single .proto file with go-protoparser.
func parseProtoFile(path string) (*protoFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	proto, err := protoparser.Parse(bytes.NewBuffer(content))
	if err != nil {
		return nil, err
	}

	pf := &protoFile{path: path, proto: proto}
	for _, body := range proto.ProtoBody {
		if pkg, ok := body.(*parser.Package); ok {
			pf.pkg = pkg.Name
		}
	}
	return pf, nil
}

// registerEnums registers every enum name in the file, including enums nested
// inside messages.
func (r *Registry) registerEnums(pf *protoFile) {
	for _, body := range pf.proto.ProtoBody {
		switch b := body.(type) {
		case *parser.Enum:
			r.enums.Store(qualify(pf.pkg, "", b.EnumName), buildEnum(b))
		case *parser.Message:
			r.registerNestedEnums(pf.pkg, b.MessageName, b)
		}
	}
}

func (r *Registry) registerNestedEnums(pkg, prefix string, pm *parser.Message) {
	for _, body := range pm.MessageBody {
		switch b := body.(type) {
		case *parser.Enum:
			r.enums.Store(qualify(pkg, prefix, b.EnumName), buildEnum(b))
		case *parser.Message:
			r.registerNestedEnums(pkg, prefix+"."+b.MessageName, b)
		}
	}
}

// registerMessages builds and registers every message in the file.
func (r *Registry) registerMessages(pf *protoFile) error {
	for _, body := range pf.proto.ProtoBody {
		if pm, ok := body.(*parser.Message); ok {
			if _, err := r.buildMessage(pf.pkg, "", pm); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildMessage converts one parsed message into the schema model, registers
// it under its fully qualified name, and recurses into nested types.
func (r *Registry) buildMessage(pkg, prefix string, pm *parser.Message) (*schema.Message, error) {
	msg := &schema.Message{Name: pm.MessageName}
	qualified := pm.MessageName
	if prefix != "" {
		qualified = prefix + "." + pm.MessageName
	}

	for _, body := range pm.MessageBody {
		switch b := body.(type) {
		case *parser.Field:
			field, err := r.buildField(b)
			if err != nil {
				return nil, fmt.Errorf("message %s: %w", pm.MessageName, err)
			}
			msg.Fields = append(msg.Fields, field)

		case *parser.MapField:
			number, err := strconv.ParseInt(b.FieldNumber, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("message %s: bad field number %q: %w", pm.MessageName, b.FieldNumber, err)
			}
			keyType := r.resolveFieldType(b.KeyType)
			valueType := r.resolveFieldType(b.Type)
			msg.Fields = append(msg.Fields, &schema.Field{
				Name:   b.MapName,
				Number: int32(number),
				Label:  schema.LabelOptional,
				Type: schema.FieldType{
					Kind:     schema.KindMap,
					MapKey:   &keyType,
					MapValue: &valueType,
				},
			})

		case *parser.Enum:
			msg.NestedEnums = append(msg.NestedEnums, buildEnum(b))

		case *parser.Message:
			nested, err := r.buildMessage(pkg, qualified, b)
			if err != nil {
				return nil, err
			}
			msg.NestedTypes = append(msg.NestedTypes, nested)
		}
	}

	r.messages.Store(qualify(pkg, prefix, pm.MessageName), msg)
	return msg, nil
}

// buildField converts one parsed scalar/message/enum field.
func (r *Registry) buildField(pf *parser.Field) (*schema.Field, error) {
	number, err := strconv.ParseInt(pf.FieldNumber, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("bad field number %q for %s: %w", pf.FieldNumber, pf.FieldName, err)
	}

	label := schema.LabelOptional
	if pf.IsRepeated {
		label = schema.LabelRepeated
	}

	return &schema.Field{
		Name:   pf.FieldName,
		Number: int32(number),
		Label:  label,
		Type:   r.resolveFieldType(pf.Type),
	}, nil
}

// resolveFieldType classifies a .proto type name as primitive, enum, or
// message. Enum classification relies on pass 1 having registered all enum
// names; anything unknown is treated as a message reference resolved lazily
// at decode time.
func (r *Registry) resolveFieldType(name string) schema.FieldType {
	if pt, ok := schema.PrimitiveByName(name); ok {
		return schema.FieldType{Kind: schema.KindPrimitive, PrimitiveType: pt}
	}
	if _, err := r.GetEnum(name); err == nil {
		return schema.FieldType{Kind: schema.KindEnum, EnumType: name}
	}
	return schema.FieldType{Kind: schema.KindMessage, MessageType: name}
}

func buildEnum(pe *parser.Enum) *schema.Enum {
	enum := &schema.Enum{Name: pe.EnumName}
	for _, body := range pe.EnumBody {
		if ef, ok := body.(*parser.EnumField); ok {
			number, err := strconv.ParseInt(ef.Number, 10, 32)
			if err != nil {
				continue
			}
			enum.Values = append(enum.Values, &schema.EnumValue{
				Name:   ef.Ident,
				Number: int32(number),
			})
		}
	}
	return enum
}

func qualify(pkg, prefix, name string) string {
	full := name
	if prefix != "" {
		full = prefix + "." + name
	}
	if pkg == "" {
		return full
	}
	return pkg + "." + full
}
