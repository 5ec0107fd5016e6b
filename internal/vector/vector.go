// Package vector is the opaque, reference-counted buffer sequence of the
// data model: a thin typed wrapper over apache/arrow-go arrays and builders,
// giving every minor type the same read/append surface.
package vector

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"relcore/internal/types"
)

// Vector is a read-only view over one physical value vector: a validity
// bitmap, an optional offset buffer, and a data buffer, laid out exactly as
// Arrow lays them out.
type Vector struct {
	arr arrow.Array
	mt  types.MinorType
}

// Wrap adapts a built arrow.Array into a Vector. The minor type is derived
// from the array's DataType.
func Wrap(arr arrow.Array) *Vector {
	mt, _ := types.FromArrow(arr.DataType())
	return &Vector{arr: arr, mt: mt}
}

func (v *Vector) MinorType() types.MinorType { return v.mt }
func (v *Vector) ValueCount() int            { return v.arr.Len() }
func (v *Vector) IsNull(i int) bool          { return v.arr.IsNull(i) }
func (v *Vector) Array() arrow.Array         { return v.arr }

// Retain/Release follow Arrow's refcounting discipline. Double-release must
// be safe: arrow.Array.Release() is itself idempotent once the refcount
// reaches zero, so callers that close a vector twice do not double-free.
func (v *Vector) Retain()  { v.arr.Retain() }
func (v *Vector) Release() { v.arr.Release() }

func (v *Vector) GetBool(i int) bool {
	if a, ok := v.arr.(*array.Boolean); ok {
		return a.Value(i)
	}
	return false
}

func (v *Vector) GetLong(i int) int64 {
	switch a := v.arr.(type) {
	case *array.Int64:
		return a.Value(i)
	case *array.Int8:
		return int64(a.Value(i))
	default:
		return 0
	}
}

func (v *Vector) GetDouble(i int) float64 {
	if a, ok := v.arr.(*array.Float64); ok {
		return a.Value(i)
	}
	return 0
}

func (v *Vector) GetString(i int) string {
	if a, ok := v.arr.(*array.String); ok {
		return a.Value(i)
	}
	return ""
}

func (v *Vector) GetBytes(i int) []byte {
	switch a := v.arr.(type) {
	case *array.Binary:
		return a.Value(i)
	case *array.String:
		return []byte(a.Value(i))
	default:
		return nil
	}
}

func (v *Vector) GetDate(i int) time.Time {
	if a, ok := v.arr.(*array.Timestamp); ok {
		return a.Value(i).ToTime(arrow.Millisecond)
	}
	return time.Time{}
}

func (v *Vector) GetDuration(i int) time.Duration {
	if a, ok := v.arr.(*array.Duration); ok {
		return time.Duration(a.Value(i)) * time.Millisecond
	}
	return 0
}

// GetObject dispatches on the leaf vector's minor type and returns the
// canonical host value, including null as a distinguished absent value.
func (v *Vector) GetObject(i int) interface{} {
	if v.IsNull(i) {
		return nil
	}
	switch v.mt {
	case types.Bit:
		return v.GetBool(i)
	case types.TinyInt:
		return int8(v.GetLong(i))
	case types.BigInt:
		return v.GetLong(i)
	case types.Float8:
		return v.GetDouble(i)
	case types.VarChar, types.Keyword:
		return v.GetString(i)
	case types.VarBinary, types.ExtensionType:
		return v.GetBytes(i)
	case types.TimestampMilli:
		return v.GetDate(i)
	case types.Duration:
		return v.GetDuration(i)
	default:
		return nil
	}
}

// Builder is a write-only handle on one freshly-allocated value vector,
// bound at construction to a single minor type.
type Builder struct {
	b  array.Builder
	mt types.MinorType
}

// NewBuilder allocates a builder for the given minor type through the
// caller-supplied allocator; no process-wide default allocator exists.
func NewBuilder(mem memory.Allocator, mt types.MinorType) *Builder {
	return &Builder{b: array.NewBuilder(mem, mt.Arrow()), mt: mt}
}

func (b *Builder) MinorType() types.MinorType { return b.mt }
func (b *Builder) Len() int                   { return b.b.Len() }
func (b *Builder) Release()                   { b.b.Release() }

func (b *Builder) AppendNull() { b.b.AppendNull() }

func (b *Builder) AppendBool(v bool) {
	if bb, ok := b.b.(*array.BooleanBuilder); ok {
		bb.Append(v)
	}
}

func (b *Builder) AppendLong(v int64) {
	switch bb := b.b.(type) {
	case *array.Int64Builder:
		bb.Append(v)
	case *array.Int8Builder:
		bb.Append(int8(v))
	}
}

func (b *Builder) AppendDouble(v float64) {
	if bb, ok := b.b.(*array.Float64Builder); ok {
		bb.Append(v)
	}
}

func (b *Builder) AppendString(v string) {
	if bb, ok := b.b.(*array.StringBuilder); ok {
		bb.Append(v)
	}
}

func (b *Builder) AppendBytes(v []byte) {
	switch bb := b.b.(type) {
	case *array.BinaryBuilder:
		bb.Append(v)
	case *array.StringBuilder:
		bb.Append(string(v))
	}
}

func (b *Builder) AppendDate(v time.Time) {
	if bb, ok := b.b.(*array.TimestampBuilder); ok {
		bb.Append(arrow.Timestamp(v.UnixMilli()))
	}
}

func (b *Builder) AppendDuration(v time.Duration) {
	if bb, ok := b.b.(*array.DurationBuilder); ok {
		bb.Append(arrow.Duration(v.Milliseconds()))
	}
}

// CopyFromSafe copies the value at src[srcIdx] into a newly-appended row of
// this builder. Per spec, behavior when src's leaf minor type does not
// match this builder's minor type is undefined but safe: the builder falls
// back to GetObject-style best-effort coercion rather than corrupting the
// buffer, since `minor_types` is the caller's contract to check first.
func (b *Builder) CopyFromSafe(src *Vector, srcIdx int) {
	if src.IsNull(srcIdx) {
		b.AppendNull()
		return
	}
	switch b.mt {
	case types.Bit:
		b.AppendBool(src.GetBool(srcIdx))
	case types.TinyInt, types.BigInt:
		b.AppendLong(src.GetLong(srcIdx))
	case types.Float8:
		b.AppendDouble(src.GetDouble(srcIdx))
	case types.VarChar, types.Keyword:
		b.AppendString(src.GetString(srcIdx))
	case types.VarBinary, types.ExtensionType:
		b.AppendBytes(src.GetBytes(srcIdx))
	case types.TimestampMilli:
		b.AppendDate(src.GetDate(srcIdx))
	case types.Duration:
		b.AppendDuration(src.GetDuration(srcIdx))
	default:
		b.AppendNull()
	}
}

// NewVector finishes the builder into an immutable Vector and resets the
// builder for reuse, matching arrow.Builder.NewArray semantics.
func (b *Builder) NewVector() *Vector {
	arr := b.b.NewArray()
	return Wrap(arr)
}
