package histogram

import (
	"math/rand"
	"testing"
)

func TestMinMax(t *testing.T) {
	h := New(32)
	vals := []float64{5, 1, 9, 3, 7}
	for _, v := range vals {
		h.Update(v)
	}
	if h.Min() != 1 {
		t.Errorf("Min() = %v, want 1", h.Min())
	}
	if h.Max() != 9 {
		t.Errorf("Max() = %v, want 9", h.Max())
	}
}

// TestUniformMonotone is invariant 8 from spec.md §8: uniform(n)[i] <=
// uniform(n)[j] for all i < j.
func TestUniformMonotone(t *testing.T) {
	h := New(24)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		h.Update(r.NormFloat64() * 100)
	}
	q := h.Uniform(16)
	for i := 1; i < len(q); i++ {
		if q[i] < q[i-1] {
			t.Fatalf("Uniform(16) not monotone at %d: %v < %v (full=%v)", i, q[i], q[i-1], q)
		}
	}
}

func TestUniformBoundsWithinRange(t *testing.T) {
	h := New(16)
	for i := 0; i < 1000; i++ {
		h.Update(float64(i))
	}
	q := h.Uniform(10)
	for i, v := range q {
		if v < h.Min()-1 || v > h.Max()+1 {
			t.Errorf("Uniform(10)[%d] = %v out of observed range [%v, %v]", i, v, h.Min(), h.Max())
		}
	}
}

func TestBinCountBounded(t *testing.T) {
	h := New(8)
	for i := 0; i < 1000; i++ {
		h.Update(float64(i % 50))
	}
	if len(h.bins) > 8 {
		t.Errorf("bin count = %d, want <= 8", len(h.bins))
	}
}

func TestSingleValueHistogram(t *testing.T) {
	h := New(16)
	h.Update(42)
	q := h.Uniform(4)
	for i, v := range q {
		if v != 42 {
			t.Errorf("Uniform(4)[%d] = %v, want 42", i, v)
		}
	}
}
