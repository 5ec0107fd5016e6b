// Package relation implements the insertion-ordered name-to-column mapping
// that sits above internal/column: read relations snapshot a fixed row
// count across all their columns, append relations grow columns lazily by
// name, and select/copy operators compose new relations from existing ones.
package relation

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"relcore/internal/column"
	"relcore/internal/relerr"
	"relcore/internal/vector"
)

// ReadRelation is an insertion-ordered set of read columns that all share
// one row count.
type ReadRelation struct {
	names    []string
	cols     map[string]column.ReadColumn
	rowCount int
}

func NewReadRelation(rowCount int) *ReadRelation {
	return &ReadRelation{cols: make(map[string]column.ReadColumn), rowCount: rowCount}
}

// AddColumn appends a column to the relation in call order. Callers are
// responsible for ensuring col.ValueCount() matches the relation's
// row_count; AppendRelation.Read enforces this for the append path.
func (r *ReadRelation) AddColumn(col column.ReadColumn) {
	if _, exists := r.cols[col.Name()]; !exists {
		r.names = append(r.names, col.Name())
	}
	r.cols[col.Name()] = col
}

func (r *ReadRelation) Column(name string) (column.ReadColumn, bool) {
	c, ok := r.cols[name]
	return c, ok
}

// MustColumn panics if name is absent; used where the caller has already
// validated the relation's shape (e.g. iterating r.Names()).
func (r *ReadRelation) MustColumn(name string) column.ReadColumn {
	c, ok := r.cols[name]
	if !ok {
		panic("relation: no such column " + name)
	}
	return c
}

func (r *ReadRelation) Names() []string { return r.names }
func (r *ReadRelation) RowCount() int   { return r.rowCount }

func (r *ReadRelation) Columns() []column.ReadColumn {
	out := make([]column.ReadColumn, len(r.names))
	for i, name := range r.names {
		out[i] = r.cols[name]
	}
	return out
}

// Close releases every column exactly once.
func (r *ReadRelation) Close() {
	for _, name := range r.names {
		r.cols[name].Close()
	}
}

// ColumnFactory builds a fresh append column for a name first seen by an
// AppendRelation. Two shapes are supplied: HeterogeneousFactory (a
// tagged-union builder per column) and HomogeneousFactory (one fixed minor
// type per column, falling back to heterogeneous for unlisted names).
type ColumnFactory func(name string) column.AppendColumn

// AppendRelation is an insertion-ordered set of append columns, each
// created on first touch by calling the relation's column factory.
type AppendRelation struct {
	names   []string
	cols    map[string]column.AppendColumn
	factory ColumnFactory
}

func NewAppendRelation(factory ColumnFactory) *AppendRelation {
	return &AppendRelation{cols: make(map[string]column.AppendColumn), factory: factory}
}

// AppendColumn returns the named append column, creating it via the
// relation's factory on first use.
func (r *AppendRelation) AppendColumn(name string) column.AppendColumn {
	if c, ok := r.cols[name]; ok {
		return c
	}
	c := r.factory(name)
	r.cols[name] = c
	r.names = append(r.names, name)
	return c
}

// Read snapshots every column. All columns must agree on row count;
// disagreement is a ShapeMismatch, since every append relation is expected
// to be fed row-wise (relation.RowCopier) or column-wise in lockstep.
func (r *AppendRelation) Read() (*ReadRelation, error) {
	out := NewReadRelation(0)
	rowCount := -1
	for _, name := range r.names {
		rc := r.cols[name].Read()
		if rowCount == -1 {
			rowCount = rc.ValueCount()
		} else if rc.ValueCount() != rowCount {
			rc.Close()
			out.Close()
			return nil, relerr.NewShapeMismatch(name, rc.ValueCount(), rowCount)
		}
		out.AddColumn(rc)
	}
	out.rowCount = rowCount
	return out, nil
}

func (r *AppendRelation) Close() {
	for _, c := range r.cols {
		c.Close()
	}
}

// FromRecord wraps an arrow Record's field vectors as direct (or dense
// union) read columns, preserving the record's field order.
func FromRecord(rec arrow.Record) *ReadRelation {
	rel := NewReadRelation(int(rec.NumRows()))
	schema := rec.Schema()
	for i := 0; i < int(rec.NumCols()); i++ {
		name := schema.Field(i).Name
		rel.AddColumn(columnFromArrowArray(name, rec.Column(i)))
	}
	return rel
}

func columnFromArrowArray(name string, arr arrow.Array) column.ReadColumn {
	if du, ok := arr.(*array.DenseUnion); ok {
		return column.FromDenseUnion(name, vector.WrapDenseUnion(du))
	}
	return column.FromVector(name, vector.Wrap(arr))
}
