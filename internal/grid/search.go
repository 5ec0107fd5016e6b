package grid

import (
	"golang.org/x/sync/errgroup"
)

// candidateCell is one (cell index, boundary mask) pair produced by
// Cartesian range enumeration: mask has a bit set for every routing axis
// where this cell sits on the query's boundary and therefore needs a
// per-row coordinate check rather than a blanket emit.
type candidateCell struct {
	cellIdx int
	mask    uint64
}

// Iterator is the lazy, restartable sequence of global point indices
// produced by Search. Stepping is O(log n_cell) amortized and does not
// allocate beyond the iterator itself.
type Iterator struct {
	g          *Grid
	cells      []candidateCell
	minRange   []int64
	maxRange   []int64
	lastAxis   int
	exactLast  bool
	cellPos    int
	cur        *Cell
	curMask    uint64
	curCellIdx int
	row        int
	end        int
}

// Next advances the iterator and reports whether a value was produced.
func (it *Iterator) Next() (int64, bool) {
	for {
		if it.cur == nil {
			if !it.advanceCell() {
				return 0, false
			}
		}
		for it.row <= it.end {
			row := it.row
			it.row++
			if it.curMask != 0 && !it.rowInRange(row) {
				continue
			}
			return (int64(it.curCellIdx) << it.g.cellShift) | int64(row), true
		}
		it.cur = nil
	}
}

func (it *Iterator) rowInRange(row int) bool {
	for d := 0; d < it.g.k; d++ {
		if it.curMask&(1<<uint(d)) == 0 {
			continue
		}
		v := it.cur.Axis(row, d)
		if v < it.minRange[d] || v > it.maxRange[d] {
			return false
		}
	}
	return true
}

func (it *Iterator) advanceCell() bool {
	for it.cellPos < len(it.cells) {
		cc := it.cells[it.cellPos]
		it.cellPos++
		cell := it.g.cells[cc.cellIdx]
		if cell == nil || cell.Len() == 0 {
			continue
		}
		it.cur = cell
		it.curMask = cc.mask
		it.curCellIdx = cc.cellIdx
		if it.exactLast {
			it.row, it.end = 0, cell.Len()-1
		} else {
			it.row = cell.searchLeftmost(it.lastAxis, it.minRange[it.lastAxis])
			it.end = cell.searchRightmost(it.lastAxis, it.maxRange[it.lastAxis])
		}
		if it.row <= it.end {
			return true
		}
		it.cur = nil
	}
	return false
}

// Reset rewinds the iterator so the same sequence can be traversed again
// from its first global index.
func (it *Iterator) Reset() {
	it.cellPos = 0
	it.cur = nil
}

// ForEach drains the iterator, calling fn for every global index until fn
// returns false or the sequence is exhausted.
func (it *Iterator) ForEach(fn func(int64) bool) {
	for {
		idx, ok := it.Next()
		if !ok {
			return
		}
		if !fn(idx) {
			return
		}
	}
}

// Search returns a lazy iterator over global indices in minRange..maxRange
// (inclusive per axis), per spec.md §4.5. A disjoint axis yields an empty
// iterator rather than an error (spec's RangeDisjoint sentinel).
func (g *Grid) Search(minRange, maxRange []int64) *Iterator {
	lastAxis := g.k - 1
	empty := &Iterator{g: g}

	// Step 1/2 — axis_mask and disjoint check over the first k-1 routing
	// axes, plus the last axis's own coverage (used to pick exact vs.
	// interpolated intra-cell search).
	axisRanges := make([][2]int, len(g.scales)) // inclusive axis-index range per routing axis
	globalFull := make([]bool, len(g.scales))
	for d := 0; d < len(g.scales); d++ {
		if maxRange[d] < g.mins[d] || minRange[d] > g.maxs[d] {
			return empty
		}
		lo := searchInsertPos(g.scales[d], minRange[d])
		hi := searchInsertPos(g.scales[d], maxRange[d])
		axisRanges[d] = [2]int{lo, hi}
		globalFull[d] = minRange[d] <= g.mins[d] && maxRange[d] >= g.maxs[d]
	}
	exactLast := minRange[lastAxis] <= g.mins[lastAxis] && maxRange[lastAxis] >= g.maxs[lastAxis]

	// Step 3 — Cartesian enumeration of axis-index ranges, last axis most
	// significant in iteration order per spec's ordering rule.
	var cells []candidateCell
	var enumerate func(d int, idx int, mask uint64)
	enumerate = func(d int, idx int, mask uint64) {
		if d < 0 {
			cells = append(cells, candidateCell{cellIdx: idx, mask: mask})
			return
		}
		lo, hi := axisRanges[d][0], axisRanges[d][1]
		for axisIdx := lo; axisIdx <= hi; axisIdx++ {
			m := mask
			if !globalFull[d] && (axisIdx == lo || axisIdx == hi) {
				m |= 1 << uint(d)
			}
			enumerate(d-1, idx|(axisIdx<<(g.axisShift*uint(d))), m)
		}
	}
	if len(g.scales) == 0 {
		enumerate(-1, 0, 0)
	} else {
		enumerate(len(g.scales)-1, 0, 0)
	}

	return &Iterator{
		g:         g,
		cells:     cells,
		minRange:  minRange,
		maxRange:  maxRange,
		lastAxis:  lastAxis,
		exactLast: exactLast,
	}
}

// SearchAll drains Search's result into a slice, fanning the per-cell work
// out across goroutines once the candidate cell count passes a threshold
// where parallel dispatch outweighs its own overhead.
const parallelCellThreshold = 256

func (g *Grid) SearchAll(minRange, maxRange []int64) ([]int64, error) {
	it := g.Search(minRange, maxRange)
	if len(it.cells) < parallelCellThreshold {
		var out []int64
		it.ForEach(func(idx int64) bool {
			out = append(out, idx)
			return true
		})
		return out, nil
	}

	results := make([][]int64, len(it.cells))
	var eg errgroup.Group
	for pos, cc := range it.cells {
		pos, cc := pos, cc
		eg.Go(func() error {
			cell := g.cells[cc.cellIdx]
			if cell == nil || cell.Len() == 0 {
				return nil
			}
			var row, end int
			if it.exactLast {
				row, end = 0, cell.Len()-1
			} else {
				row = cell.searchLeftmost(it.lastAxis, minRange[it.lastAxis])
				end = cell.searchRightmost(it.lastAxis, maxRange[it.lastAxis])
			}
			var local []int64
			for r := row; r <= end; r++ {
				if cc.mask != 0 {
					inRange := true
					for d := 0; d < g.k; d++ {
						if cc.mask&(1<<uint(d)) == 0 {
							continue
						}
						v := cell.Axis(r, d)
						if v < minRange[d] || v > maxRange[d] {
							inRange = false
							break
						}
					}
					if !inRange {
						continue
					}
				}
				local = append(local, (int64(cc.cellIdx)<<g.cellShift)|int64(r))
			}
			results[pos] = local
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []int64
	for _, local := range results {
		out = append(out, local...)
	}
	return out, nil
}
