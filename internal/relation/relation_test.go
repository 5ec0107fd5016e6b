package relation

import (
	"testing"

	"relcore/internal/alloc"
	"relcore/internal/types"
)

func buildLongColumn(t *testing.T, rel *AppendRelation, name string, vals []int64) {
	t.Helper()
	c := rel.AppendColumn(name)
	for _, v := range vals {
		c.AppendLong(v)
	}
}

// TestSelect is scenario S1 from spec.md §8: selecting idxs=[3,1,1] from
// a=[10,20,30,40] yields row_count 3 and a=[40,20,20].
func TestSelect(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	ar := NewAppendRelation(HomogeneousFactory(mem, map[string]types.MinorType{"a": types.BigInt}))
	buildLongColumn(t, ar, "a", []int64{10, 20, 30, 40})
	rel, err := ar.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	defer rel.Close()

	sel := Select(rel, []int{3, 1, 1})
	defer sel.Close()

	if sel.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", sel.RowCount())
	}
	a := sel.MustColumn("a")
	want := []int64{40, 20, 20}
	for i, w := range want {
		if got := a.GetLong(i); got != w {
			t.Errorf("a.GetLong(%d) = %d, want %d", i, got, w)
		}
	}

	// sel must be independently closeable: closing rel afterward must not
	// double-release anything sel still needs (already closed above via defer
	// ordering — sel closes before rel since defers run LIFO).
}

// TestCopyRelFrom is scenario S3: copying a contiguous slice of rows from
// one relation into a fresh append relation round-trips the values.
func TestCopyRelFrom(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	srcAR := NewAppendRelation(HomogeneousFactory(mem, map[string]types.MinorType{"a": types.BigInt}))
	buildLongColumn(t, srcAR, "a", []int64{1, 2, 3, 4, 5})
	src, err := srcAR.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	defer src.Close()

	dstMem := alloc.NewChecked()
	t.Cleanup(func() { dstMem.AssertSize(t, 0) })
	dstAR := NewAppendRelation(HeterogeneousFactory(dstMem))
	CopyRelFrom(dstAR, src, 1, 3)
	dst, err := dstAR.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	defer dst.Close()

	if dst.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", dst.RowCount())
	}
	want := []interface{}{int64(2), int64(3), int64(4)}
	a := dst.MustColumn("a")
	for i, w := range want {
		if got := a.GetObject(i); got != w {
			t.Errorf("a.GetObject(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestRowCopier(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	srcAR := NewAppendRelation(HomogeneousFactory(mem, map[string]types.MinorType{
		"a": types.BigInt,
		"b": types.VarChar,
	}))
	buildLongColumn(t, srcAR, "a", []int64{1, 2, 3})
	bCol := srcAR.AppendColumn("b")
	for _, s := range []string{"x", "y", "z"} {
		bCol.AppendString(s)
	}
	src, err := srcAR.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	defer src.Close()

	dstMem := alloc.NewChecked()
	t.Cleanup(func() { dstMem.AssertSize(t, 0) })
	dstAR := NewAppendRelation(HeterogeneousFactory(dstMem))
	rc := NewRowCopier(dstAR, src)
	rc.CopyRow(2)
	rc.CopyRow(0)
	dst, err := dstAR.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	defer dst.Close()

	if dst.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", dst.RowCount())
	}
	if got := dst.MustColumn("a").GetObject(0); got != int64(3) {
		t.Errorf("a.GetObject(0) = %v, want 3", got)
	}
	if got := dst.MustColumn("b").GetObject(1); got != "x" {
		t.Errorf("b.GetObject(1) = %v, want x", got)
	}
}

func TestAppendRelationShapeMismatch(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	ar := NewAppendRelation(HeterogeneousFactory(mem))
	a := ar.AppendColumn("a")
	a.AppendLong(1)
	a.AppendLong(2)
	b := ar.AppendColumn("b")
	b.AppendLong(1)

	if _, err := ar.Read(); err == nil {
		t.Fatal("Read() = nil error, want ShapeMismatch")
	}
	ar.Close()
}
