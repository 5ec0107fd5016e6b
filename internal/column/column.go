// Package column implements the five read-column variants and the append
// columns of the relation layer (homogeneous, heterogeneous, and the
// indirect builder behind relation.Select): a polymorphic, zero-copy
// view over value vectors that unifies direct, indirectly-indexed, and
// tagged-union backing storage behind one interface.
package column

import (
	"time"

	"relcore/internal/types"
	"relcore/internal/vector"
)

// ReadColumn is the common capability interface every physical variant
// implements: name, cheap rename, size, the observed type set, typed
// getters, and the two leaf-locating accessors used by downstream copy.
type ReadColumn interface {
	Name() string
	Rename(name string) ReadColumn
	ValueCount() int
	MinorTypes() []types.MinorType

	GetBool(i int) bool
	GetLong(i int) int64
	GetDouble(i int) float64
	GetString(i int) string
	GetBytes(i int) []byte
	GetDate(i int) time.Time
	GetDuration(i int) time.Duration
	GetObject(i int) interface{}

	// InternalVector/InternalIndex together locate the underlying cell,
	// unwrapping any indirection or union dispatch. For non-union variants
	// InternalVector ignores i.
	InternalVector(i int) *vector.Vector
	InternalIndex(i int) int

	// Close releases the vectors this column owns, exactly once. Safe to
	// call more than once.
	Close()
}

// Every typed getter is expressed in terms of InternalVector/InternalIndex
// so the five variants share one definition of "what a row means" (spec
// invariant 1): c.internal_vector(i).get(c.internal_index(i)) always equals
// c.get_<minor>(i) when the minor type matches.
func getBool(c ReadColumn, i int) bool         { return c.InternalVector(i).GetBool(c.InternalIndex(i)) }
func getLong(c ReadColumn, i int) int64        { return c.InternalVector(i).GetLong(c.InternalIndex(i)) }
func getDouble(c ReadColumn, i int) float64    { return c.InternalVector(i).GetDouble(c.InternalIndex(i)) }
func getString(c ReadColumn, i int) string     { return c.InternalVector(i).GetString(c.InternalIndex(i)) }
func getBytes(c ReadColumn, i int) []byte      { return c.InternalVector(i).GetBytes(c.InternalIndex(i)) }
func getDate(c ReadColumn, i int) time.Time    { return c.InternalVector(i).GetDate(c.InternalIndex(i)) }
func getDuration(c ReadColumn, i int) time.Duration {
	return c.InternalVector(i).GetDuration(c.InternalIndex(i))
}
func getObject(c ReadColumn, i int) interface{} {
	return c.InternalVector(i).GetObject(c.InternalIndex(i))
}

// owned tracks the (possibly empty) set of vectors a read column will
// release on Close, and makes double-close safe.
type owned struct {
	vecs   []*vector.Vector
	closed bool
}

func (o *owned) close() {
	if o.closed {
		return
	}
	o.closed = true
	for _, v := range o.vecs {
		v.Release()
	}
}

// Direct is a read column backed by one value vector with 1:1 rows.
type Direct struct {
	name string
	vec  *vector.Vector
	owned
}

func (d *Direct) Name() string { return d.name }
func (d *Direct) Rename(name string) ReadColumn {
	return &Direct{name: name, vec: d.vec}
}
func (d *Direct) ValueCount() int                   { return d.vec.ValueCount() }
func (d *Direct) MinorTypes() []types.MinorType     { return []types.MinorType{d.vec.MinorType()} }
func (d *Direct) InternalVector(i int) *vector.Vector { return d.vec }
func (d *Direct) InternalIndex(i int) int           { return i }
func (d *Direct) GetBool(i int) bool                { return getBool(d, i) }
func (d *Direct) GetLong(i int) int64               { return getLong(d, i) }
func (d *Direct) GetDouble(i int) float64           { return getDouble(d, i) }
func (d *Direct) GetString(i int) string            { return getString(d, i) }
func (d *Direct) GetBytes(i int) []byte             { return getBytes(d, i) }
func (d *Direct) GetDate(i int) time.Time           { return getDate(d, i) }
func (d *Direct) GetDuration(i int) time.Duration   { return getDuration(d, i) }
func (d *Direct) GetObject(i int) interface{}       { return getObject(d, i) }
func (d *Direct) Close()                            { d.owned.close() }

// Indirect is a read column backed by one value vector plus an i32 index
// array recording, for each logical row, which physical row to read.
type Indirect struct {
	name string
	vec  *vector.Vector
	idxs []int32
	owned
}

func (c *Indirect) Name() string { return c.name }
func (c *Indirect) Rename(name string) ReadColumn {
	return &Indirect{name: name, vec: c.vec, idxs: c.idxs}
}
func (c *Indirect) ValueCount() int               { return len(c.idxs) }
func (c *Indirect) MinorTypes() []types.MinorType { return []types.MinorType{c.vec.MinorType()} }
func (c *Indirect) InternalVector(i int) *vector.Vector { return c.vec }
func (c *Indirect) InternalIndex(i int) int       { return int(c.idxs[i]) }
func (c *Indirect) GetBool(i int) bool              { return getBool(c, i) }
func (c *Indirect) GetLong(i int) int64             { return getLong(c, i) }
func (c *Indirect) GetDouble(i int) float64         { return getDouble(c, i) }
func (c *Indirect) GetString(i int) string          { return getString(c, i) }
func (c *Indirect) GetBytes(i int) []byte           { return getBytes(c, i) }
func (c *Indirect) GetDate(i int) time.Time         { return getDate(c, i) }
func (c *Indirect) GetDuration(i int) time.Duration { return getDuration(c, i) }
func (c *Indirect) GetObject(i int) interface{}     { return getObject(c, i) }
func (c *Indirect) Close()                          { c.owned.close() }

// FromVector wraps a built value vector as a read column. Callers with a
// dense-union-backed array should use FromDenseUnion instead; FromVector is kept
// separate (rather than accepting arrow.Array directly) to keep this
// package independent of which concrete arrow array kind produced v.
func FromVector(name string, v *vector.Vector) ReadColumn {
	return &Direct{name: name, vec: v}
}

// FromVectorOwned wraps a freshly-built value vector as a read column that
// owns it: Close releases v exactly once. Used where nothing else holds a
// reference to v, e.g. a builder's just-finalized vector.
func FromVectorOwned(name string, v *vector.Vector) ReadColumn {
	return &Direct{name: name, vec: v, owned: owned{vecs: []*vector.Vector{v}}}
}

// FromVectorWithIndices wraps a value vector plus a selection of its rows,
// in the order given by idxs.
func FromVectorWithIndices(name string, v *vector.Vector, idxs []int32) ReadColumn {
	return &Indirect{name: name, vec: v, idxs: idxs}
}
