package column

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"relcore/internal/relerr"
	"relcore/internal/types"
	"relcore/internal/vector"
)

// AppendColumn is the write-only builder interface shared by the
// homogeneous and heterogeneous variants.
type AppendColumn interface {
	AppendNull()
	AppendBool(v bool)
	AppendLong(v int64)
	AppendDouble(v float64)
	AppendString(v string)
	AppendBytes(v []byte)
	AppendDate(v time.Time)
	AppendDuration(v time.Duration)
	// AppendObject dispatches by the runtime type of v through the
	// type-id table in SPEC_FULL.md §3.1; an unmapped type fails with
	// UnsupportedValueType.
	AppendObject(v interface{}) error
	AppendFrom(src ReadColumn, i int)
	ValueCount() int
	// Read returns a read-column view of what has been appended so far.
	// Appending further after Read is not supported: Read finalizes the
	// underlying vector buffers exactly once, mirroring arrow's
	// Builder.NewArray semantics.
	Read() ReadColumn
	Close()
}

// appendObjectDispatch realizes SPEC_FULL.md's type-id dispatch table at
// the Go-value level: Go's runtime type stands in for the wire type-id,
// since a Go interface{} carries no explicit discriminant of its own.
func appendObjectDispatch(c AppendColumn, val interface{}) error {
	switch v := val.(type) {
	case nil:
		c.AppendNull()
	case bool:
		c.AppendBool(v)
	case int:
		c.AppendLong(int64(v))
	case int8:
		c.AppendLong(int64(v))
	case int16:
		c.AppendLong(int64(v))
	case int32:
		c.AppendLong(int64(v))
	case int64:
		c.AppendLong(v)
	case float32:
		c.AppendDouble(float64(v))
	case float64:
		c.AppendDouble(v)
	case string:
		c.AppendString(v)
	case []byte:
		c.AppendBytes(v)
	case time.Time:
		c.AppendDate(v)
	case time.Duration:
		c.AppendDuration(v)
	default:
		return relerr.NewUnsupportedValueType(val, "")
	}
	return nil
}

// Homogeneous is a write-only builder bound at construction to one minor
// type with its own freshly-allocated value vector.
type Homogeneous struct {
	name string
	b    *vector.Builder
}

func NewHomogeneous(mem memory.Allocator, name string, mt types.MinorType) *Homogeneous {
	return &Homogeneous{name: name, b: vector.NewBuilder(mem, mt)}
}

func (h *Homogeneous) AppendNull()                    { h.b.AppendNull() }
func (h *Homogeneous) AppendBool(v bool)               { h.b.AppendBool(v) }
func (h *Homogeneous) AppendLong(v int64)              { h.b.AppendLong(v) }
func (h *Homogeneous) AppendDouble(v float64)          { h.b.AppendDouble(v) }
func (h *Homogeneous) AppendString(v string)           { h.b.AppendString(v) }
func (h *Homogeneous) AppendBytes(v []byte)            { h.b.AppendBytes(v) }
func (h *Homogeneous) AppendDate(v time.Time)          { h.b.AppendDate(v) }
func (h *Homogeneous) AppendDuration(v time.Duration)  { h.b.AppendDuration(v) }
func (h *Homogeneous) AppendObject(v interface{}) error {
	return appendObjectDispatch(h, v)
}
func (h *Homogeneous) ValueCount() int { return h.b.Len() }

// AppendFrom reads src.internal_vector(i)/internal_index(i) and copies via
// copy_from_safe into a newly-appended row, per SPEC_FULL.md §4.2.
func (h *Homogeneous) AppendFrom(src ReadColumn, i int) {
	h.b.CopyFromSafe(src.InternalVector(i), src.InternalIndex(i))
}

func (h *Homogeneous) Read() ReadColumn {
	return FromVectorOwned(h.name, h.b.NewVector())
}

func (h *Homogeneous) Close() { h.b.Release() }
