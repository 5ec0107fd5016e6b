package grid

import (
	"fmt"
	"sort"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"relcore/internal/alloc"
)

func closeChecked(t *testing.T, mem *memory.CheckedAllocator, g *Grid) {
	t.Helper()
	t.Cleanup(func() {
		g.Close()
		mem.AssertSize(t, 0)
	})
}

// TestGridPointLookup is scenario S4 from spec.md §8.
func TestGridPointLookup(t *testing.T) {
	mem := alloc.NewChecked()
	pts := SlicePointSource{
		{0, 0, 0, 0},
		{0, 0, 0, 1},
		{10, 10, 10, 10},
		{10, 10, 10, 11},
	}
	g, err := Build(mem, 4, pts, Options{MaxHistogramBins: 32, CellSize: 16})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	defer closeChecked(t, mem, g)

	idxs, err := g.SearchAll([]int64{10, 10, 10, 10}, []int64{10, 10, 10, 11})
	if err != nil {
		t.Fatalf("SearchAll() error: %v", err)
	}
	if len(idxs) != 2 {
		t.Fatalf("SearchAll() returned %d indices, want 2 (got %v)", len(idxs), idxs)
	}
	want := [][]int64{{10, 10, 10, 10}, {10, 10, 10, 11}}
	for i, idx := range idxs {
		got := g.Point(idx)
		if !equalPoint(got, want[i]) {
			t.Errorf("Point(%d) = %v, want %v", idx, got, want[i])
		}
	}
}

// TestGridRouteRetrieve is invariant 5: every inserted point is found by
// range_search(p, p).
func TestGridRouteRetrieve(t *testing.T) {
	mem := alloc.NewChecked()
	var pts SlicePointSource
	for x := int64(0); x < 6; x++ {
		for y := int64(0); y < 6; y++ {
			pts = append(pts, []int64{x, y, x + y})
		}
	}
	g, err := Build(mem, 3, pts, Options{MaxHistogramBins: 16, CellSize: 4})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	defer closeChecked(t, mem, g)

	for _, p := range pts {
		idxs, err := g.SearchAll(p, p)
		if err != nil {
			t.Fatalf("SearchAll(%v,%v) error: %v", p, p, err)
		}
		found := false
		for _, idx := range idxs {
			if equalPoint(g.Point(idx), p) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("point %v not found by range_search(p,p); got %d candidates", p, len(idxs))
		}
	}
}

// TestGridCovering is invariant 6: range_search(mins, maxs) yields all
// total global indices exactly once.
func TestGridCovering(t *testing.T) {
	mem := alloc.NewChecked()
	var pts SlicePointSource
	for i := int64(0); i < 40; i++ {
		pts = append(pts, []int64{i % 7, i % 5, i})
	}
	g, err := Build(mem, 3, pts, Options{MaxHistogramBins: 16, CellSize: 4})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	defer closeChecked(t, mem, g)

	mins := []int64{0, 0, 0}
	maxs := []int64{6, 4, 39}
	idxs, err := g.SearchAll(mins, maxs)
	if err != nil {
		t.Fatalf("SearchAll() error: %v", err)
	}
	if len(idxs) != len(pts) {
		t.Fatalf("SearchAll(mins,maxs) returned %d indices, want %d", len(idxs), len(pts))
	}

	seen := make(map[int64]bool, len(idxs))
	for _, idx := range idxs {
		if seen[idx] {
			t.Fatalf("duplicate global index %d", idx)
		}
		seen[idx] = true
	}

	gotPoints := make([]string, len(idxs))
	for i, idx := range idxs {
		gotPoints[i] = pointKey(g.Point(idx))
	}
	wantPoints := make([]string, len(pts))
	for i, p := range pts {
		wantPoints[i] = pointKey(p)
	}
	sort.Strings(gotPoints)
	sort.Strings(wantPoints)
	for i := range gotPoints {
		if gotPoints[i] != wantPoints[i] {
			t.Fatalf("covering set mismatch at %d: %s vs %s", i, gotPoints[i], wantPoints[i])
			break
		}
	}
}

// TestGridMonotoneIntraCell is invariant 7: within each cell, coordinates
// on the last axis are non-decreasing.
func TestGridMonotoneIntraCell(t *testing.T) {
	mem := alloc.NewChecked()
	var pts SlicePointSource
	for i := int64(0); i < 50; i++ {
		pts = append(pts, []int64{i % 9, (i * 37) % 101})
	}
	g, err := Build(mem, 2, pts, Options{MaxHistogramBins: 16, CellSize: 4})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	defer closeChecked(t, mem, g)

	lastAxis := g.k - 1
	for _, c := range g.cells {
		if c == nil {
			continue
		}
		for i := 1; i < c.Len(); i++ {
			if c.Axis(i, lastAxis) < c.Axis(i-1, lastAxis) {
				t.Fatalf("cell not sorted on last axis at %d: %d < %d", i, c.Axis(i, lastAxis), c.Axis(i-1, lastAxis))
			}
		}
	}
}

// TestGridPartialAxisRange is scenario S5: narrowing one routing axis to a
// single bucket while the last axis stays fully covered should only return
// rows whose narrowed-axis coordinate is in range.
func TestGridPartialAxisRange(t *testing.T) {
	mem := alloc.NewChecked()
	var pts SlicePointSource
	for x := int64(0); x < 8; x++ {
		for y := int64(0); y < 8; y++ {
			pts = append(pts, []int64{x, y})
		}
	}
	g, err := Build(mem, 2, pts, Options{MaxHistogramBins: 16, CellSize: 4})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	defer closeChecked(t, mem, g)

	minRange := []int64{3, 0}
	maxRange := []int64{3, 7}
	idxs, err := g.SearchAll(minRange, maxRange)
	if err != nil {
		t.Fatalf("SearchAll() error: %v", err)
	}
	if len(idxs) == 0 {
		t.Fatal("SearchAll() returned no results for a non-empty axis-0 slice")
	}
	for _, idx := range idxs {
		p := g.Point(idx)
		if p[0] != 3 {
			t.Errorf("Point(%d) = %v, x-coordinate outside narrowed range [3,3]", idx, p)
		}
	}
}

func TestGridInsertDeleteUnsupported(t *testing.T) {
	mem := alloc.NewChecked()
	pts := SlicePointSource{{0, 0}, {1, 1}}
	g, err := Build(mem, 2, pts, Options{MaxHistogramBins: 8, CellSize: 2})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	defer closeChecked(t, mem, g)

	if err := g.Insert([]int64{2, 2}); err == nil {
		t.Error("Insert() = nil error, want OperationNotSupported")
	}
	if err := g.Delete([]int64{0, 0}); err == nil {
		t.Error("Delete() = nil error, want OperationNotSupported")
	}
}

func equalPoint(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func pointKey(p []int64) string {
	return fmt.Sprint(p)
}
