package column

import (
	"time"

	"relcore/internal/types"
	"relcore/internal/vector"
)

// DenseUnionColumn is a read column backed directly by a dense-union value
// vector: row i's value lives in child(typeid(i)) at offset(i).
type DenseUnionColumn struct {
	name string
	du   *vector.DenseUnion
	owned
}

func (c *DenseUnionColumn) Name() string { return c.name }
func (c *DenseUnionColumn) Rename(name string) ReadColumn {
	return &DenseUnionColumn{name: name, du: c.du}
}
func (c *DenseUnionColumn) ValueCount() int { return c.du.ValueCount() }
func (c *DenseUnionColumn) MinorTypes() []types.MinorType { return c.du.ObservedMinorTypes() }
func (c *DenseUnionColumn) InternalVector(i int) *vector.Vector {
	child, _ := c.du.GetChild(i)
	return child
}
func (c *DenseUnionColumn) InternalIndex(i int) int {
	_, off := c.du.GetChild(i)
	return off
}
func (c *DenseUnionColumn) GetBool(i int) bool              { return getBool(c, i) }
func (c *DenseUnionColumn) GetLong(i int) int64             { return getLong(c, i) }
func (c *DenseUnionColumn) GetDouble(i int) float64         { return getDouble(c, i) }
func (c *DenseUnionColumn) GetString(i int) string          { return getString(c, i) }
func (c *DenseUnionColumn) GetBytes(i int) []byte           { return getBytes(c, i) }
func (c *DenseUnionColumn) GetDate(i int) time.Time         { return getDate(c, i) }
func (c *DenseUnionColumn) GetDuration(i int) time.Duration { return getDuration(c, i) }
func (c *DenseUnionColumn) GetObject(i int) interface{}     { return getObject(c, i) }
func (c *DenseUnionColumn) Close()                          { c.owned.close() }

// IndirectDenseUnionColumn is a dense-union vector plus an index array:
// row i reads du's row idxs[i].
type IndirectDenseUnionColumn struct {
	name string
	du   *vector.DenseUnion
	idxs []int32
	owned
}

func (c *IndirectDenseUnionColumn) Name() string { return c.name }
func (c *IndirectDenseUnionColumn) Rename(name string) ReadColumn {
	return &IndirectDenseUnionColumn{name: name, du: c.du, idxs: c.idxs}
}
func (c *IndirectDenseUnionColumn) ValueCount() int { return len(c.idxs) }
func (c *IndirectDenseUnionColumn) MinorTypes() []types.MinorType {
	return c.du.ObservedMinorTypes()
}
func (c *IndirectDenseUnionColumn) InternalVector(i int) *vector.Vector {
	child, _ := c.du.GetChild(int(c.idxs[i]))
	return child
}
func (c *IndirectDenseUnionColumn) InternalIndex(i int) int {
	_, off := c.du.GetChild(int(c.idxs[i]))
	return off
}
func (c *IndirectDenseUnionColumn) GetBool(i int) bool              { return getBool(c, i) }
func (c *IndirectDenseUnionColumn) GetLong(i int) int64             { return getLong(c, i) }
func (c *IndirectDenseUnionColumn) GetDouble(i int) float64         { return getDouble(c, i) }
func (c *IndirectDenseUnionColumn) GetString(i int) string          { return getString(c, i) }
func (c *IndirectDenseUnionColumn) GetBytes(i int) []byte           { return getBytes(c, i) }
func (c *IndirectDenseUnionColumn) GetDate(i int) time.Time         { return getDate(c, i) }
func (c *IndirectDenseUnionColumn) GetDuration(i int) time.Duration { return getDuration(c, i) }
func (c *IndirectDenseUnionColumn) GetObject(i int) interface{}     { return getObject(c, i) }
func (c *IndirectDenseUnionColumn) Close()                          { c.owned.close() }

// FromDenseUnion wraps a dense-union value vector as a read column.
func FromDenseUnion(name string, du *vector.DenseUnion) ReadColumn {
	return &DenseUnionColumn{name: name, du: du}
}

// FromDenseUnionWithIndices wraps a dense-union value vector plus a
// selection of its rows.
func FromDenseUnionWithIndices(name string, du *vector.DenseUnion, idxs []int32) ReadColumn {
	return &IndirectDenseUnionColumn{name: name, du: du, idxs: idxs}
}
