package column

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"relcore/internal/types"
	"relcore/internal/vector"
)

// trailEntry is one logical append: which minor type it went to, and which
// row of that minor type's builder it landed on. SPEC_FULL.md's open
// question on _getAppendVector is resolved here as a per-append trail
// (rather than a deduplicated vector set), because Read() needs trail[i]
// and idxs[i] parallel to reconstruct row i.
type trailEntry struct {
	mt        types.MinorType
	rowInType int
}

// Heterogeneous lazily allocates one value vector per minor type
// encountered and tracks, for every appended logical row, the
// (vector, row-in-that-vector) pair so Read() can yield a materialized
// column of length equal to appends so far.
type Heterogeneous struct {
	name     string
	mem      memory.Allocator
	builders map[types.MinorType]*vector.Builder
	order    []types.MinorType
	trail    []trailEntry
}

func NewHeterogeneous(mem memory.Allocator, name string) *Heterogeneous {
	return &Heterogeneous{
		name:     name,
		mem:      mem,
		builders: make(map[types.MinorType]*vector.Builder),
	}
}

func (h *Heterogeneous) builderFor(mt types.MinorType) *vector.Builder {
	b, ok := h.builders[mt]
	if !ok {
		b = vector.NewBuilder(h.mem, mt)
		h.builders[mt] = b
		h.order = append(h.order, mt)
	}
	return b
}

func (h *Heterogeneous) record(mt types.MinorType, row int) {
	h.trail = append(h.trail, trailEntry{mt: mt, rowInType: row})
}

func (h *Heterogeneous) AppendNull() {
	b := h.builderFor(types.Null)
	row := b.Len()
	b.AppendNull()
	h.record(types.Null, row)
}

func (h *Heterogeneous) AppendBool(v bool) {
	b := h.builderFor(types.Bit)
	row := b.Len()
	b.AppendBool(v)
	h.record(types.Bit, row)
}

func (h *Heterogeneous) AppendLong(v int64) {
	b := h.builderFor(types.BigInt)
	row := b.Len()
	b.AppendLong(v)
	h.record(types.BigInt, row)
}

func (h *Heterogeneous) AppendDouble(v float64) {
	b := h.builderFor(types.Float8)
	row := b.Len()
	b.AppendDouble(v)
	h.record(types.Float8, row)
}

func (h *Heterogeneous) AppendString(v string) {
	b := h.builderFor(types.VarChar)
	row := b.Len()
	b.AppendString(v)
	h.record(types.VarChar, row)
}

func (h *Heterogeneous) AppendBytes(v []byte) {
	b := h.builderFor(types.VarBinary)
	row := b.Len()
	b.AppendBytes(v)
	h.record(types.VarBinary, row)
}

func (h *Heterogeneous) AppendDate(v time.Time) {
	b := h.builderFor(types.TimestampMilli)
	row := b.Len()
	b.AppendDate(v)
	h.record(types.TimestampMilli, row)
}

func (h *Heterogeneous) AppendDuration(v time.Duration) {
	b := h.builderFor(types.Duration)
	row := b.Len()
	b.AppendDuration(v)
	h.record(types.Duration, row)
}

func (h *Heterogeneous) AppendObject(v interface{}) error {
	return appendObjectDispatch(h, v)
}

func (h *Heterogeneous) ValueCount() int { return len(h.trail) }

// AppendFrom looks up or creates the destination vector for the source's
// leaf minor type, records the pair, and copies.
func (h *Heterogeneous) AppendFrom(src ReadColumn, i int) {
	srcVec := src.InternalVector(i)
	srcIdx := src.InternalIndex(i)
	mt := srcVec.MinorType()
	b := h.builderFor(mt)
	row := b.Len()
	b.CopyFromSafe(srcVec, srcIdx)
	h.record(mt, row)
}

// Read finalizes every per-type builder exactly once and returns a
// Materialized read column that keeps all of them alive.
func (h *Heterogeneous) Read() ReadColumn {
	finals := make(map[types.MinorType]*vector.Vector, len(h.order))
	ownedSet := make([]*vector.Vector, 0, len(h.order))
	for _, mt := range h.order {
		v := h.builders[mt].NewVector()
		finals[mt] = v
		ownedSet = append(ownedSet, v)
	}

	vecs := make([]*vector.Vector, len(h.trail))
	idxs := make([]int, len(h.trail))
	for i, e := range h.trail {
		vecs[i] = finals[e.mt]
		idxs[i] = e.rowInType
	}
	return Materialize(h.name, ownedSet, vecs, idxs)
}

func (h *Heterogeneous) Close() {
	for _, b := range h.builders {
		b.Release()
	}
}
