package vector

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"relcore/internal/types"
)

// DenseUnion is a composite value vector: an array of child value vectors
// (one per present minor type), a per-row type-id byte, and a per-row
// offset into the child of that type-id.
type DenseUnion struct {
	arr *array.DenseUnion
}

func WrapDenseUnion(arr *array.DenseUnion) *DenseUnion {
	return &DenseUnion{arr: arr}
}

func (d *DenseUnion) ValueCount() int { return d.arr.Len() }
func (d *DenseUnion) Retain()         { d.arr.Retain() }
func (d *DenseUnion) Release()        { d.arr.Release() }

// TypeID returns the per-row type-id byte.
func (d *DenseUnion) TypeID(row int) types.TypeID {
	return types.TypeID(d.arr.TypeCode(row))
}

// Offset returns the per-row offset into the child of that row's type-id.
func (d *DenseUnion) Offset(row int) int {
	return int(d.arr.ValueOffset(row))
}

// Child returns the leaf value vector for a given type-id.
func (d *DenseUnion) Child(id types.TypeID) *Vector {
	childIdx := d.arr.ChildID(int8(id))
	if childIdx < 0 {
		return nil
	}
	return Wrap(d.arr.Field(childIdx))
}

// GetChild is the (child, offset) accessor the spec calls for row i.
func (d *DenseUnion) GetChild(row int) (*Vector, int) {
	return d.Child(d.TypeID(row)), d.Offset(row)
}

// ObservedMinorTypes is the set of minor types of children whose value
// count is positive: a cache of observed content, not the union's declared
// schema.
func (d *DenseUnion) ObservedMinorTypes() []types.MinorType {
	ut, ok := d.arr.DataType().(*arrow.DenseUnionType)
	if !ok {
		return nil
	}
	seen := make(map[types.MinorType]bool)
	var out []types.MinorType
	for i, f := range ut.Fields() {
		child := d.arr.Field(i)
		if child == nil || child.Len() == 0 {
			continue
		}
		if mt, ok := types.FromArrow(f.Type); ok && !seen[mt] {
			seen[mt] = true
			out = append(out, mt)
		}
	}
	return out
}

// DenseUnionBuilder constructs dense-union vectors, for callers that need
// to materialize a tagged-union column.
type DenseUnionBuilder struct {
	b        *array.DenseUnionBuilder
	children map[types.MinorType]int8
}

// NewDenseUnionBuilder allocates a dense-union builder with one child per
// minor type in members, keyed by that minor type's type-id.
func NewDenseUnionBuilder(mem memory.Allocator, members []types.MinorType) *DenseUnionBuilder {
	fields := make([]arrow.Field, len(members))
	codes := make([]arrow.UnionTypeCode, len(members))
	children := make(map[types.MinorType]int8, len(members))
	for i, mt := range members {
		fields[i] = arrow.Field{Name: mt.String(), Type: mt.Arrow()}
		codes[i] = arrow.UnionTypeCode(mt.ID())
		children[mt] = int8(mt.ID())
	}
	ut := arrow.DenseUnionOf(fields, codes)
	b := array.NewBuilder(mem, ut).(*array.DenseUnionBuilder)
	return &DenseUnionBuilder{b: b, children: children}
}

// Child returns the typed builder for one member's child vector so callers
// can append a value before calling Append.
func (db *DenseUnionBuilder) Child(mt types.MinorType) *Builder {
	code, ok := db.children[mt]
	if !ok {
		return nil
	}
	pos := db.b.ChildID(arrow.UnionTypeCode(code))
	return &Builder{b: db.b.Child(pos), mt: mt}
}

// Append records that the next row's discriminant is mt; the caller must
// also have appended exactly one value to Child(mt) beforehand.
func (db *DenseUnionBuilder) Append(mt types.MinorType) {
	db.b.Append(arrow.UnionTypeCode(db.children[mt]))
}

func (db *DenseUnionBuilder) Release() { db.b.Release() }

func (db *DenseUnionBuilder) NewDenseUnion() *DenseUnion {
	return WrapDenseUnion(db.b.NewArray().(*array.DenseUnion))
}
