package column

import (
	"testing"

	"relcore/internal/alloc"
	"relcore/internal/types"
)

// S1 — select semantics are exercised in package relation; here we cover the
// column-level primitives S1 depends on.

func TestHomogeneousRoundTrip(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	ac := NewHomogeneous(mem, "a", types.BigInt)
	for _, v := range []int64{10, 20, 30, 40} {
		ac.AppendLong(v)
	}
	rc := ac.Read()
	defer rc.Close()

	if rc.ValueCount() != 4 {
		t.Fatalf("ValueCount() = %d, want 4", rc.ValueCount())
	}
	for i, want := range []int64{10, 20, 30, 40} {
		if got := rc.GetLong(i); got != want {
			t.Errorf("GetLong(%d) = %d, want %d", i, got, want)
		}
	}
}

// TestHeterogeneousAppend is scenario S2 from spec.md §8.
func TestHeterogeneousAppend(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	ac := NewHeterogeneous(mem, "mixed")
	ac.AppendLong(1)
	ac.AppendString("hi")
	ac.AppendNull()
	ac.AppendDouble(2.5)
	ac.AppendLong(1)

	rc := ac.Read()
	defer rc.Close()

	if rc.ValueCount() != 5 {
		t.Fatalf("ValueCount() = %d, want 5", rc.ValueCount())
	}
	want := []interface{}{int64(1), "hi", nil, 2.5, int64(1)}
	for i, w := range want {
		if got := rc.GetObject(i); got != w {
			t.Errorf("GetObject(%d) = %v, want %v", i, got, w)
		}
	}

	seen := map[types.MinorType]bool{}
	for _, mt := range rc.MinorTypes() {
		seen[mt] = true
	}
	for _, want := range []types.MinorType{types.BigInt, types.VarChar, types.Null, types.Float8} {
		if !seen[want] {
			t.Errorf("MinorTypes() missing %v, got %v", want, rc.MinorTypes())
		}
	}
}

func TestRenameIsCheapAndPreservesContent(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	ac := NewHomogeneous(mem, "a", types.VarChar)
	ac.AppendString("x")
	ac.AppendString("y")
	rc := ac.Read()
	defer rc.Close()

	renamed := rc.Rename("b")
	if renamed.Name() != "b" {
		t.Fatalf("Name() = %q, want b", renamed.Name())
	}
	for i := 0; i < rc.ValueCount(); i++ {
		if renamed.GetObject(i) != rc.GetObject(i) {
			t.Errorf("renamed.GetObject(%d) = %v, want %v", i, renamed.GetObject(i), rc.GetObject(i))
		}
	}
	// Renamed view owns nothing; closing it must not affect rc.
	renamed.Close()
	if rc.GetObject(0) != "x" {
		t.Errorf("closing renamed view corrupted original column")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	ac := NewHomogeneous(mem, "a", types.BigInt)
	ac.AppendLong(1)
	rc := ac.Read()
	rc.Close()
	rc.Close() // must not panic or double-free
}

func TestAppendObjectUnsupportedType(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	ac := NewHeterogeneous(mem, "a")
	type weird struct{ X int }
	if err := ac.AppendObject(weird{X: 1}); err == nil {
		t.Fatal("AppendObject(weird{}) = nil error, want UnsupportedValueType")
	}
}

func TestInternalVectorInvariant(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	ac := NewHomogeneous(mem, "a", types.BigInt)
	ac.AppendLong(42)
	rc := ac.Read()
	defer rc.Close()

	v := rc.InternalVector(0)
	idx := rc.InternalIndex(0)
	if got, want := v.GetLong(idx), rc.GetLong(0); got != want {
		t.Errorf("internal_vector(0).get(internal_index(0)) = %d, want %d", got, want)
	}
}
