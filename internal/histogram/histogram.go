// Package histogram implements a bin-merging streaming quantile sketch
// (Ben-Haim / Tom-Tov), used by internal/grid to calibrate per-axis cell
// boundaries from an unbounded stream of points without buffering them.
package histogram

import "sort"

// bin is one (value, count) centroid.
type bin struct {
	value float64
	count float64
}

// Histogram holds at most maxBins centroids, merging the two nearest
// whenever a new point would exceed that bound.
type Histogram struct {
	maxBins int
	bins    []bin
	min     float64
	max     float64
	seen    bool
}

// New allocates a histogram that keeps at most maxBins centroids.
func New(maxBins int) *Histogram {
	if maxBins < 1 {
		maxBins = 1
	}
	return &Histogram{maxBins: maxBins}
}

// Update inserts x as a new unit-count centroid, then merges the closest
// pair of centroids until the bin count is back within maxBins.
func (h *Histogram) Update(x float64) {
	if !h.seen {
		h.min, h.max = x, x
		h.seen = true
	} else {
		if x < h.min {
			h.min = x
		}
		if x > h.max {
			h.max = x
		}
	}

	i := sort.Search(len(h.bins), func(i int) bool { return h.bins[i].value >= x })
	h.bins = append(h.bins, bin{})
	copy(h.bins[i+1:], h.bins[i:])
	h.bins[i] = bin{value: x, count: 1}

	for len(h.bins) > h.maxBins {
		h.mergeClosestPair()
	}
}

// mergeClosestPair finds the adjacent pair of centroids with the smallest
// gap and replaces them with their count-weighted average.
func (h *Histogram) mergeClosestPair() {
	best := 0
	bestGap := h.bins[1].value - h.bins[0].value
	for i := 1; i < len(h.bins)-1; i++ {
		gap := h.bins[i+1].value - h.bins[i].value
		if gap < bestGap {
			bestGap = gap
			best = i
		}
	}
	a, b := h.bins[best], h.bins[best+1]
	total := a.count + b.count
	merged := bin{
		value: (a.value*a.count + b.value*b.count) / total,
		count: total,
	}
	h.bins[best] = merged
	h.bins = append(h.bins[:best+1], h.bins[best+2:]...)
}

// Min returns the smallest value observed so far.
func (h *Histogram) Min() float64 { return h.min }

// Max returns the largest value observed so far.
func (h *Histogram) Max() float64 { return h.max }

// Count returns the total number of points folded into the sketch.
func (h *Histogram) Count() float64 {
	total := 0.0
	for _, b := range h.bins {
		total += b.count
	}
	return total
}

// Uniform returns n approximately equi-count quantiles: the values at
// cumulative frequencies (j+1)/n for j in [0, n). Interpolates within the
// centroid trapezoid the way a merging digest reconstructs a CDF. Result
// is non-decreasing by construction since both the centroids and the
// requested cumulative frequencies are traversed in increasing order.
func (h *Histogram) Uniform(n int) []float64 {
	out := make([]float64, n)
	if len(h.bins) == 0 || n <= 0 {
		return out
	}
	total := h.Count()
	if len(h.bins) == 1 {
		for j := range out {
			out[j] = h.bins[0].value
		}
		return out
	}

	// cum[i] is the cumulative count through bin i inclusive, i.e. the
	// counts of bins 0..i summed.
	cum := make([]float64, len(h.bins))
	running := 0.0
	for i, b := range h.bins {
		running += b.count
		cum[i] = running
	}

	quantileAt := func(target float64) float64 {
		if target <= cum[0]/2 {
			return h.bins[0].value
		}
		last := len(h.bins) - 1
		if target >= total-h.bins[last].count/2 {
			return h.bins[last].value
		}
		// find the trapezoid [i, i+1] straddling target, where the
		// midpoint cumulative mass of bin i is cum[i]-bins[i].count/2.
		for i := 0; i < last; i++ {
			loMass := cum[i] - h.bins[i].count/2
			hiMass := cum[i+1] - h.bins[i+1].count/2
			if target >= loMass && target <= hiMass {
				if hiMass == loMass {
					return h.bins[i].value
				}
				frac := (target - loMass) / (hiMass - loMass)
				return h.bins[i].value + frac*(h.bins[i+1].value-h.bins[i].value)
			}
		}
		return h.bins[last].value
	}

	for j := 0; j < n; j++ {
		target := total * float64(j+1) / float64(n)
		out[j] = quantileAt(target)
	}
	return out
}
