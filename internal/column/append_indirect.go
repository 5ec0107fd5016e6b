package column

import (
	"time"

	"relcore/internal/vector"
)

// IndirectAppendColumn records (vector, index) pairs without copying,
// retaining each distinct source vector once so the produced column can be
// closed independently of the relation it was selected from. This is the
// builder behind relation.Select's "indirect selection": the spec's
// zero-copy alternative to fresh materialization.
type IndirectAppendColumn struct {
	name     string
	vecs     []*vector.Vector
	idxs     []int
	retained map[*vector.Vector]bool
}

func NewIndirectAppendColumn(name string) *IndirectAppendColumn {
	return &IndirectAppendColumn{name: name, retained: make(map[*vector.Vector]bool)}
}

// AppendFrom is the only supported way to populate an indirect append
// column: it records src's leaf (vector, index) for row i without copying.
func (c *IndirectAppendColumn) AppendFrom(src ReadColumn, i int) {
	v := src.InternalVector(i)
	idx := src.InternalIndex(i)
	if !c.retained[v] {
		v.Retain()
		c.retained[v] = true
	}
	c.vecs = append(c.vecs, v)
	c.idxs = append(c.idxs, idx)
}

func (c *IndirectAppendColumn) ValueCount() int { return len(c.idxs) }

// Read hands the retained vector set to the resulting Materialized column,
// which will release them on Close.
func (c *IndirectAppendColumn) Read() ReadColumn {
	owned := make([]*vector.Vector, 0, len(c.retained))
	for v := range c.retained {
		owned = append(owned, v)
	}
	return Materialize(c.name, owned, c.vecs, c.idxs)
}

// Close releases the retained set without ever having produced a read
// column; used if a selection is abandoned before Read is called.
func (c *IndirectAppendColumn) Close() {
	for v := range c.retained {
		v.Release()
	}
}

const indirectAppendMsg = "IndirectAppendColumn only supports AppendFrom (zero-copy selection), not direct value append"

func (c *IndirectAppendColumn) AppendNull()                   { panic(indirectAppendMsg) }
func (c *IndirectAppendColumn) AppendBool(bool)                { panic(indirectAppendMsg) }
func (c *IndirectAppendColumn) AppendLong(int64)               { panic(indirectAppendMsg) }
func (c *IndirectAppendColumn) AppendDouble(float64)           { panic(indirectAppendMsg) }
func (c *IndirectAppendColumn) AppendString(string)            { panic(indirectAppendMsg) }
func (c *IndirectAppendColumn) AppendBytes([]byte)             { panic(indirectAppendMsg) }
func (c *IndirectAppendColumn) AppendDate(time.Time)           { panic(indirectAppendMsg) }
func (c *IndirectAppendColumn) AppendDuration(time.Duration)   { panic(indirectAppendMsg) }
func (c *IndirectAppendColumn) AppendObject(interface{}) error { panic(indirectAppendMsg) }
