// Package relerr is the structured error taxonomy of the relation and grid
// layers: each error carries its taxonomy type plus a message that names the
// offending input.
package relerr

import (
	"fmt"

	"github.com/pkg/errors"

	"relcore/internal/types"
)

// ErrorType identifies which of the taxonomy's four error members an error
// is. A range search disjoint from the grid is not an error value: grid.Search
// returns an empty iterator for it.
type ErrorType string

const (
	UnsupportedValueType ErrorType = "UnsupportedValueType"
	OperationNotSupported ErrorType = "OperationNotSupported"
	AllocationFailed      ErrorType = "AllocationFailed"
	ShapeMismatch         ErrorType = "ShapeMismatch"
)

// RelError is a structured error carrying the offending input, per spec's
// "fails fast with a structured error carrying the offending input" policy.
type RelError struct {
	Type    ErrorType
	Message string
	cause   error
}

func (e *RelError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *RelError) Unwrap() error { return e.cause }

// NewUnsupportedValueType is raised by append_object when the value's
// runtime type has no entry in the dispatch table.
func NewUnsupportedValueType(value interface{}, computedArrow string) *RelError {
	return &RelError{
		Type:    UnsupportedValueType,
		Message: fmt.Sprintf("value of class %T has no append_object dispatch entry (arrow type %s)", value, computedArrow),
	}
}

// NewUnsupportedTypeID is raised when an object dispatch type-id is not in
// the table of internal/types.
func NewUnsupportedTypeID(id types.TypeID) *RelError {
	return &RelError{
		Type:    UnsupportedValueType,
		Message: fmt.Sprintf("type-id %d has no append_object dispatch entry", id),
	}
}

// NewOperationNotSupported is raised by grid Insert/Delete: the grid is
// sealed at build time.
func NewOperationNotSupported(op string) *RelError {
	return &RelError{
		Type:    OperationNotSupported,
		Message: fmt.Sprintf("%s is not supported on a sealed grid", op),
	}
}

// NewAllocationFailed wraps an allocator failure without altering it;
// the core propagates allocation failures unchanged, per spec.
func NewAllocationFailed(requestedBytes int, cause error) *RelError {
	return &RelError{
		Type:    AllocationFailed,
		Message: fmt.Sprintf("allocator could not satisfy a %d byte request", requestedBytes),
		cause:   errors.WithStack(cause),
	}
}

// NewShapeMismatch is raised by append-relation Read() when columns have
// unequal value-counts.
func NewShapeMismatch(column string, got, want int) *RelError {
	return &RelError{
		Type:    ShapeMismatch,
		Message: fmt.Sprintf("column %q has %d rows, relation expects %d", column, got, want),
	}
}
