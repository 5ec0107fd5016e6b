package relation

import "relcore/internal/column"

// Select materializes a new indirect read relation over the chosen rows:
// for each column, an indirect append column is fed AppendFrom(col, idx)
// in idxs order, so the result shares storage with rel rather than copying
// values — rel and the result can be closed independently of one another.
func Select(rel *ReadRelation, idxs []int) *ReadRelation {
	out := NewReadRelation(len(idxs))
	for _, name := range rel.Names() {
		src := rel.MustColumn(name)
		ic := column.NewIndirectAppendColumn(name)
		for _, idx := range idxs {
			ic.AppendFrom(src, idx)
		}
		out.AddColumn(ic.Read())
	}
	return out
}
