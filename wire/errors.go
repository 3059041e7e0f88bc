package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel targets for errors.Is. The typed errors below unwrap to these.
var (
	ErrOutOfRange      = errors.New("wire: read past end of buffer")
	ErrInvalidWireType = errors.New("wire: invalid wire type")
	ErrVarintOverflow  = errors.New("wire: varint exceeds 10 bytes")
)

// OutOfRangeError reports a read or skip whose required byte count would
// advance the cursor past the end of the buffer. Offset is the cursor
// position at the time of failure, Need the number of bytes the operation
// still required.
type OutOfRangeError struct {
	Offset int
	Need   int
}

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	if e.Need > 0 {
		return fmt.Sprintf("wire: read past end of buffer at offset %d (need %d more bytes)", e.Offset, e.Need)
	}
	return fmt.Sprintf("wire: read past end of buffer at offset %d", e.Offset)
}

// Unwrap returns the sentinel so errors.Is(err, ErrOutOfRange) matches.
func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// InvalidWireTypeError reports a skip over a field whose wire type is not one
// the format defines.
type InvalidWireTypeError struct {
	WireType WireType
	Offset   int
}

// Error implements the error interface.
func (e *InvalidWireTypeError) Error() string {
	return fmt.Sprintf("wire: invalid wire type %d at offset %d", e.WireType, e.Offset)
}

// Unwrap returns the sentinel so errors.Is(err, ErrInvalidWireType) matches.
func (e *InvalidWireTypeError) Unwrap() error { return ErrInvalidWireType }

// FieldError represents an encoding/decoding error with a field path.
type FieldError struct {
	FieldPath []string // e.g., ["transaction_traces", "calls", "gas_changes", "reason"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("error at proto path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// wrapWithField wraps an error with a field name, prepending to an existing
// path when the error already carries one.
func wrapWithField(err error, fieldName string) error {
	if err == nil {
		return nil
	}

	if fe, ok := err.(*FieldError); ok {
		return &FieldError{
			FieldPath: append([]string{fieldName}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{fieldName},
		Err:       err,
	}
}
