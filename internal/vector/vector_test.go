package vector

import (
	"testing"

	"relcore/internal/alloc"
	"relcore/internal/types"
)

func TestBuilderRoundTripLong(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	b := NewBuilder(mem, types.BigInt)
	for _, v := range []int64{10, 20, 30, 40} {
		b.AppendLong(v)
	}
	vec := b.NewVector()
	defer vec.Release()

	if vec.ValueCount() != 4 {
		t.Fatalf("ValueCount = %d, want 4", vec.ValueCount())
	}
	for i, want := range []int64{10, 20, 30, 40} {
		if got := vec.GetLong(i); got != want {
			t.Errorf("GetLong(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestGetObjectNull(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	b := NewBuilder(mem, types.Float8)
	b.AppendDouble(2.5)
	b.AppendNull()
	vec := b.NewVector()
	defer vec.Release()

	if got := vec.GetObject(0); got != 2.5 {
		t.Errorf("GetObject(0) = %v, want 2.5", got)
	}
	if got := vec.GetObject(1); got != nil {
		t.Errorf("GetObject(1) = %v, want nil", got)
	}
}

func TestCopyFromSafe(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	src := NewBuilder(mem, types.VarChar)
	src.AppendString("hello")
	srcVec := src.NewVector()
	defer srcVec.Release()

	dst := NewBuilder(mem, types.VarChar)
	dst.CopyFromSafe(srcVec, 0)
	dstVec := dst.NewVector()
	defer dstVec.Release()

	if got := dstVec.GetString(0); got != "hello" {
		t.Errorf("GetString(0) = %q, want hello", got)
	}
}

func TestPointListRoundTrip(t *testing.T) {
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	pb := NewPointListBuilder(mem, 4)
	pb.Append([]int64{0, 0, 0, 0})
	pb.Append([]int64{10, 10, 10, 11})
	pl := pb.NewPointList()
	defer pl.Release()

	if pl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", pl.Len())
	}
	got := pl.Point(1)
	want := []int64{10, 10, 10, 11}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Point(1)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
