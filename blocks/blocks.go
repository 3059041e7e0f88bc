// Package blocks holds the static message types for Ethereum block trace
// payloads: header, transaction traces, the call tree, and state change
// records. Each type drives the wire codec directly: a decode loop over
// tags, a size pass summing sizer outputs, and an encode pass that frames
// nested bodies with the sizes computed up front.
package blocks

import (
	"github.com/blockwire/blockwire/wire"
)

// Message is the contract every block data type implements. Size reports the
// exact encoded byte length so callers can emit length prefixes before the
// body; EncodeTo appends the body to a shared encoder.
type Message interface {
	Size() int
	EncodeTo(e *wire.Encoder)
	DecodeFrom(d *wire.Decoder) error
}

// Marshal encodes m into a fresh buffer.
func Marshal(m Message) []byte {
	e := wire.NewEncoder()
	m.EncodeTo(e)
	return e.Bytes()
}

// MarshalAppend encodes m onto buf, for accumulating sibling messages into
// one growing buffer.
func MarshalAppend(buf []byte, m Message) []byte {
	e := wire.NewEncoderAppend(buf)
	m.EncodeTo(e)
	return e.Bytes()
}

// Unmarshal decodes data into m. On error m is in an undefined partial state
// and must not be used.
func Unmarshal(data []byte, m Message) error {
	return m.DecodeFrom(wire.NewDecoder(data))
}
