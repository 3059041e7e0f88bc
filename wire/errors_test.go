package wire

import (
	"errors"
	"strings"
	"testing"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	var err error = &OutOfRangeError{Offset: 12, Need: 3}
	if !errors.Is(err, ErrOutOfRange) {
		t.Error("OutOfRangeError does not match ErrOutOfRange")
	}
	if !strings.Contains(err.Error(), "offset 12") || !strings.Contains(err.Error(), "3 more bytes") {
		t.Errorf("message = %q", err.Error())
	}

	err = &InvalidWireTypeError{WireType: 6, Offset: 4}
	if !errors.Is(err, ErrInvalidWireType) {
		t.Error("InvalidWireTypeError does not match ErrInvalidWireType")
	}
	if !strings.Contains(err.Error(), "wire type 6") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestWrapWithFieldBuildsPath(t *testing.T) {
	if wrapWithField(nil, "x") != nil {
		t.Fatal("nil error must stay nil")
	}

	base := &OutOfRangeError{Offset: 2, Need: 1}
	err := wrapWithField(base, "reason")
	err = wrapWithField(err, "gas_changes")
	err = wrapWithField(err, "calls")

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("want *FieldError, got %T", err)
	}
	wantPath := []string{"calls", "gas_changes", "reason"}
	if len(fe.FieldPath) != len(wantPath) {
		t.Fatalf("path = %v", fe.FieldPath)
	}
	for i := range wantPath {
		if fe.FieldPath[i] != wantPath[i] {
			t.Fatalf("path = %v, want %v", fe.FieldPath, wantPath)
		}
	}

	if !strings.Contains(err.Error(), "calls.gas_changes.reason") {
		t.Errorf("message = %q", err.Error())
	}

	// The sentinel stays reachable through the path wrapper.
	if !errors.Is(err, ErrOutOfRange) {
		t.Error("wrapped error lost its sentinel")
	}
	var oor *OutOfRangeError
	if !errors.As(err, &oor) || oor.Offset != 2 {
		t.Error("wrapped error lost its typed cause")
	}
}

func TestFieldErrorWithoutPath(t *testing.T) {
	fe := &FieldError{Err: ErrVarintOverflow}
	if fe.Error() != ErrVarintOverflow.Error() {
		t.Errorf("message = %q", fe.Error())
	}
}
