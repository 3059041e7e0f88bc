// Package blockwire is a schema-driven protobuf wire codec for blockchain
// block data. It decodes binary payloads into generic maps and encodes maps
// back, driven by .proto schemas loaded at runtime, with no code generation
// step.
// The statically typed message set for Ethereum block traces lives in the
// blocks sub-package; the low-level primitives live in wire.
package blockwire

import (
	"github.com/blockwire/blockwire/registry"
	"github.com/blockwire/blockwire/wire"
)

// Codec is the schema-driven entry point.
type Codec interface {
	// LoadSchema parses a .proto file or a directory of them and registers
	// every message and enum found. Callable multiple times to accumulate
	// schemas.
	LoadSchema(protoPath string) error

	// Parse decodes protobuf bytes into a generic map keyed by field name.
	// messageType may be fully qualified (pkg.Message) or a bare name.
	Parse(data []byte, messageType string) (map[string]any, error)

	// Marshal encodes a generic map into protobuf bytes against the named
	// message schema.
	Marshal(data map[string]any, messageType string) ([]byte, error)

	// Messages lists every registered fully qualified message name.
	Messages() []string

	// Enums lists every registered fully qualified enum name.
	Enums() []string

	// Registry exposes the underlying schema registry for callers that
	// drive the wire package directly.
	Registry() *registry.Registry
}

type codec struct {
	reg *registry.Registry
}

// New creates a Codec with an empty registry.
func New() Codec {
	return &codec{reg: registry.NewRegistry()}
}

func (c *codec) LoadSchema(protoPath string) error {
	return c.reg.LoadSchema(protoPath)
}

func (c *codec) Parse(data []byte, messageType string) (map[string]any, error) {
	msg, err := c.reg.GetMessage(messageType)
	if err != nil {
		return nil, err
	}
	return wire.DecodeMessage(data, msg, c.reg)
}

func (c *codec) Marshal(data map[string]any, messageType string) ([]byte, error) {
	msg, err := c.reg.GetMessage(messageType)
	if err != nil {
		return nil, err
	}
	return wire.EncodeMessage(data, msg, c.reg)
}

func (c *codec) Messages() []string {
	return c.reg.ListMessages()
}

func (c *codec) Enums() []string {
	return c.reg.ListEnums()
}

func (c *codec) Registry() *registry.Registry {
	return c.reg
}
