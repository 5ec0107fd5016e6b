package column

import (
	"time"

	"relcore/internal/types"
	"relcore/internal/vector"
)

// Materialized is a read column whose every logical row points to a
// possibly-distinct (vector, index) pair. It is the shape produced by
// select() and by the heterogeneous append column's read().
type Materialized struct {
	name string
	vecs []*vector.Vector // parallel to idxs, one entry per logical row
	idxs []int
	owned
}

// Materialize builds a Materialized read column. ownedVecs is the
// de-duplicated set of vectors this column will release on Close; vecs and
// idxs must have equal length (one pair per row).
func Materialize(name string, ownedVecs []*vector.Vector, vecs []*vector.Vector, idxs []int) ReadColumn {
	return &Materialized{
		name:  name,
		vecs:  vecs,
		idxs:  idxs,
		owned: owned{vecs: ownedVecs},
	}
}

func (c *Materialized) Name() string { return c.name }
func (c *Materialized) Rename(name string) ReadColumn {
	// A renamed view shares all backing storage and owns nothing: closing
	// it must not double-free the vectors the original column still owns.
	return &Materialized{name: name, vecs: c.vecs, idxs: c.idxs}
}
func (c *Materialized) ValueCount() int { return len(c.idxs) }
func (c *Materialized) MinorTypes() []types.MinorType {
	seen := make(map[types.MinorType]bool)
	var out []types.MinorType
	for _, v := range dedupeVectors(c.vecs) {
		if mt := v.MinorType(); !seen[mt] {
			seen[mt] = true
			out = append(out, mt)
		}
	}
	return out
}
func (c *Materialized) InternalVector(i int) *vector.Vector { return c.vecs[i] }
func (c *Materialized) InternalIndex(i int) int             { return c.idxs[i] }
func (c *Materialized) GetBool(i int) bool                  { return getBool(c, i) }
func (c *Materialized) GetLong(i int) int64                 { return getLong(c, i) }
func (c *Materialized) GetDouble(i int) float64             { return getDouble(c, i) }
func (c *Materialized) GetString(i int) string              { return getString(c, i) }
func (c *Materialized) GetBytes(i int) []byte               { return getBytes(c, i) }
func (c *Materialized) GetDate(i int) time.Time             { return getDate(c, i) }
func (c *Materialized) GetDuration(i int) time.Duration     { return getDuration(c, i) }
func (c *Materialized) GetObject(i int) interface{}         { return getObject(c, i) }
func (c *Materialized) Close()                              { c.owned.close() }

// dedupeVectors returns vecs with duplicates removed by identity, preserving
// first-seen order. Used by MinorTypes(), and exposed as DedupeOwned for
// computing an owned set from a vector trail.
func dedupeVectors(vecs []*vector.Vector) []*vector.Vector {
	seen := make(map[*vector.Vector]bool, len(vecs))
	out := make([]*vector.Vector, 0, len(vecs))
	for _, v := range vecs {
		if v == nil || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// DedupeOwned is exported for append-column producers that need to compute
// the owned set of distinct vectors in a per-append trail before calling
// Materialize.
func DedupeOwned(vecs []*vector.Vector) []*vector.Vector {
	return dedupeVectors(vecs)
}
