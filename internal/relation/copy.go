package relation

import "relcore/internal/column"

// CopyRelFrom appends rows [offset, offset+length) of every column in src
// into the correspondingly-named column of dst, creating columns in dst on
// first touch via its factory.
func CopyRelFrom(dst *AppendRelation, src *ReadRelation, offset, length int) {
	for _, name := range src.Names() {
		srcCol := src.MustColumn(name)
		dstCol := dst.AppendColumn(name)
		for i := offset; i < offset+length; i++ {
			dstCol.AppendFrom(srcCol, i)
		}
	}
}

// RowCopier amortizes column lookup across many CopyRow calls: construct
// once per (dst, src) pair, then call CopyRow for each row index to copy.
type RowCopier struct {
	pairs []rowCopierPair
}

type rowCopierPair struct {
	dst column.AppendColumn
	src column.ReadColumn
}

func NewRowCopier(dst *AppendRelation, src *ReadRelation) *RowCopier {
	rc := &RowCopier{pairs: make([]rowCopierPair, 0, len(src.Names()))}
	for _, name := range src.Names() {
		srcCol := src.MustColumn(name)
		dstCol := dst.AppendColumn(name)
		rc.pairs = append(rc.pairs, rowCopierPair{dst: dstCol, src: srcCol})
	}
	return rc
}

func (rc *RowCopier) CopyRow(i int) {
	for _, p := range rc.pairs {
		p.dst.AppendFrom(p.src, i)
	}
}
