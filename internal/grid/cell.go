package grid

import "relcore/internal/vector"

// Cell is one finished grid cell: its points sorted ascending on the last
// axis, plus the interpolation hint used to seed binary search into them.
type Cell struct {
	points *vector.PointList
	slope  float64
	base   float64
}

func (c *Cell) Len() int                   { return c.points.Len() }
func (c *Cell) Point(i int) []int64        { return c.points.Point(i) }
func (c *Cell) Axis(i, axis int) int64     { return c.points.Axis(i, axis) }
func (c *Cell) Close()                     { c.points.Release() }

// interpolate maps a last-axis coordinate to an index hint via the cell's
// per-cell linear fit: slope*v + base.
func (c *Cell) interpolate(v int64) int {
	hint := int(c.slope*float64(v) + c.base)
	return clamp(hint, 0, c.Len()-1)
}

// searchLeftmost finds the smallest index i such that Axis(i, lastAxis) >=
// target, seeding the search with the cell's interpolation hint (one probe
// at the hint halves the range) and then narrowing by plain binary search.
func (c *Cell) searchLeftmost(lastAxis int, target int64) int {
	n := c.Len()
	if n == 0 {
		return 0
	}
	lo, hi := 0, n
	m := c.interpolate(target)
	if c.Axis(m, lastAxis) >= target {
		hi = m
	} else {
		lo = m + 1
	}
	for lo < hi {
		mid := (lo + hi) / 2
		if c.Axis(mid, lastAxis) >= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// searchRightmost finds the largest index i such that Axis(i, lastAxis) <=
// target, or -1 if none. Seeded the same way as searchLeftmost.
func (c *Cell) searchRightmost(lastAxis int, target int64) int {
	n := c.Len()
	if n == 0 {
		return -1
	}
	lo, hi := -1, n-1
	m := c.interpolate(target)
	if c.Axis(m, lastAxis) <= target {
		lo = m
	} else {
		hi = m - 1
	}
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.Axis(mid, lastAxis) <= target {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// sortPointsByLastAxis performs a three-way (Dutch national flag)
// quicksort over pts keyed on coordinate `axis`, recursing into the
// smaller partition first so the worst-case stack depth is O(log n) even
// for adversarial input. Used once, on the raw Go slice, before the sorted
// result is flushed into the cell's immutable point-list vector.
func sortPointsByLastAxis(pts [][]int64, axis int) {
	var quicksort func(lo, hi int)
	quicksort = func(lo, hi int) {
		for lo < hi {
			pivot := pts[lo+(hi-lo)/2][axis]
			lt, gt := lo, hi
			i := lo
			for i <= gt {
				switch {
				case pts[i][axis] < pivot:
					pts[lt], pts[i] = pts[i], pts[lt]
					lt++
					i++
				case pts[i][axis] > pivot:
					pts[gt], pts[i] = pts[i], pts[gt]
					gt--
				default:
					i++
				}
			}
			// [lo,lt) < pivot, [lt,gt] == pivot, (gt,hi] > pivot.
			// Recurse into the smaller side, loop into the larger one.
			if lt-lo < hi-gt {
				quicksort(lo, lt-1)
				lo = gt + 1
			} else {
				quicksort(gt+1, hi)
				hi = lt - 1
			}
		}
	}
	quicksort(0, len(pts)-1)
}
