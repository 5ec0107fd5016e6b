// Package grid implements the multi-dimensional learned grid index: a
// static, histogram-calibrated spatial index over fixed-arity integer
// points, with equi-partitioned cell routing and sorted intra-cell binary
// search on the last axis.
package grid

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"

	"relcore/internal/histogram"
	"relcore/internal/relerr"
	"relcore/internal/vector"
)

// PointSource is any finite, randomly-accessible source of k-arrays of i64
// fed to Build. A pre-existing k-d tree can satisfy this by exposing
// point_access directly; SlicePointSource covers the common in-memory case.
type PointSource interface {
	Count() int
	Point(i int) []int64
}

// SlicePointSource adapts a plain slice of points to PointSource.
type SlicePointSource [][]int64

func (s SlicePointSource) Count() int          { return len(s) }
func (s SlicePointSource) Point(i int) []int64 { return s[i] }

// Options configures Build. CellSize must be a power of two.
type Options struct {
	MaxHistogramBins int
	CellSize         int
}

// Grid is an immutable, histogram-calibrated spatial index. Build is the
// only way to construct one; insert/delete are unsupported after that.
type Grid struct {
	mem               memory.Allocator
	k                 int
	cellSize          int
	cellsPerDimension int
	numberOfCells     int
	axisShift         uint
	cellShift         uint
	scales            [][]float64 // length k-1, each of length cellsPerDimension
	mins              []int64     // length k
	maxs              []int64     // length k
	cells             []*Cell     // length numberOfCells, nil where empty
	total             int
}

func (g *Grid) K() int         { return g.k }
func (g *Grid) Total() int     { return g.total }
func (g *Grid) CellShift() uint { return g.cellShift }
func (g *Grid) NumberOfCells() int { return g.numberOfCells }

// Insert always fails: the grid is built once and is immutable thereafter.
func (g *Grid) Insert(point []int64) error {
	return relerr.NewOperationNotSupported("grid.Insert")
}

// Delete always fails, for the same reason as Insert.
func (g *Grid) Delete(point []int64) error {
	return relerr.NewOperationNotSupported("grid.Delete")
}

// Close releases every populated cell's backing point-list vector.
func (g *Grid) Close() {
	for _, c := range g.cells {
		if c != nil {
			c.Close()
		}
	}
}

// Point decodes the point stored at a global index produced by Search, by
// splitting it back into (cell index, intra-cell index) per spec.md §4.5:
// global = (cell_idx << cell_shift) | intra_cell_idx.
func (g *Grid) Point(globalIdx int64) []int64 {
	cellIdx := int(globalIdx >> g.cellShift)
	intra := int(globalIdx & ((1 << g.cellShift) - 1))
	return g.cells[cellIdx].Point(intra)
}

// Build constructs a grid over every point in src, per spec.md §4.4.
func Build(mem memory.Allocator, k int, src PointSource, opts Options) (*Grid, error) {
	if k < 1 {
		return nil, errors.Errorf("grid: arity k must be >= 1, got %d", k)
	}
	if opts.CellSize < 1 || opts.CellSize&(opts.CellSize-1) != 0 {
		return nil, errors.Errorf("grid: cell_size must be a power of two, got %d", opts.CellSize)
	}
	total := src.Count()

	// Step 1 — histograms, one per axis.
	hists := make([]*histogram.Histogram, k)
	for d := 0; d < k; d++ {
		hists[d] = histogram.New(opts.MaxHistogramBins)
	}
	for i := 0; i < total; i++ {
		p := src.Point(i)
		for d := 0; d < k; d++ {
			hists[d].Update(float64(p[d]))
		}
	}

	// Step 2 — geometry.
	routingAxes := k - 1
	cellsPerDimension := 1
	if routingAxes > 0 {
		numberOfCellsTarget := ceilDiv(total, opts.CellSize)
		if numberOfCellsTarget < 1 {
			numberOfCellsTarget = 1
		}
		root := ceilNthRoot(numberOfCellsTarget, routingAxes)
		cellsPerDimension = nextPowerOfTwo(root)
	}
	numberOfCells := ipow(cellsPerDimension, routingAxes)
	axisShift := log2(cellsPerDimension)
	cellShift := log2(nextPowerOfTwo(opts.CellSize << 12))

	// Step 3 — scales and per-axis bounds.
	scales := make([][]float64, routingAxes)
	for d := 0; d < routingAxes; d++ {
		scales[d] = hists[d].Uniform(cellsPerDimension)
	}
	mins := make([]int64, k)
	maxs := make([]int64, k)
	for d := 0; d < k; d++ {
		mins[d] = floorInt64(hists[d].Min())
		maxs[d] = ceilInt64(hists[d].Max())
	}

	g := &Grid{
		mem:               mem,
		k:                 k,
		cellSize:          opts.CellSize,
		cellsPerDimension: cellsPerDimension,
		numberOfCells:     numberOfCells,
		axisShift:         axisShift,
		cellShift:         cellShift,
		scales:            scales,
		mins:              mins,
		maxs:              maxs,
		total:             total,
	}

	// Step 4/5 — route and populate.
	buckets := make([][][]int64, numberOfCells)
	for i := 0; i < total; i++ {
		p := src.Point(i)
		idx := g.routeCell(p)
		buckets[idx] = append(buckets[idx], p)
	}

	// Step 6 — per-cell finish: interpolation fit, then sort on the last axis.
	lastAxis := k - 1
	denom := float64(maxs[lastAxis] - mins[lastAxis])
	cells := make([]*Cell, numberOfCells)
	for idx, pts := range buckets {
		if len(pts) == 0 {
			continue
		}
		slope := 0.0
		if denom != 0 {
			slope = float64(len(pts)) / denom
		}
		base := -slope * float64(mins[lastAxis])

		sortPointsByLastAxis(pts, lastAxis)

		pb := vector.NewPointListBuilder(mem, k)
		for _, p := range pts {
			pb.Append(p)
		}
		cells[idx] = &Cell{points: pb.NewPointList(), slope: slope, base: base}
		pb.Release()
	}
	g.cells = cells

	return g, nil
}

// routeCell packs a point's first k-1 axis-indices into a cell index,
// little-endian base-cells_per_dimension, via left-shift-or by axis_shift.
func (g *Grid) routeCell(p []int64) int {
	idx := 0
	for d := 0; d < len(g.scales); d++ {
		axisIdx := searchInsertPos(g.scales[d], p[d])
		idx |= axisIdx << (g.axisShift * uint(d))
	}
	return idx
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// ceilNthRoot returns ceil(n^(1/root)) for root >= 1 via integer search.
func ceilNthRoot(n, root int) int {
	if root <= 1 {
		return n
	}
	r := 1
	for ipow(r, root) < n {
		r++
	}
	return r
}

func ipow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
