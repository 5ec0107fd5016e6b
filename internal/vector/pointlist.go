package vector

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// PointList is a fixed-size-list vector of k-tuples: the storage backing one
// grid cell. Values are stored flat (row-major) in a single Int64 child.
type PointList struct {
	arr *array.FixedSizeList
	k   int
}

func WrapPointList(arr *array.FixedSizeList, k int) *PointList {
	return &PointList{arr: arr, k: k}
}

// Len is the number of k-tuples (rows), not the flat value count.
func (p *PointList) Len() int { return p.arr.Len() }

func (p *PointList) K() int { return p.k }

func (p *PointList) values() *array.Int64 {
	return p.arr.ListValues().(*array.Int64)
}

// Axis returns coordinate `axis` of tuple `i`.
func (p *PointList) Axis(i, axis int) int64 {
	return p.values().Value(i*p.k + axis)
}

// Point returns the full k-tuple at row i as a freshly-allocated slice.
func (p *PointList) Point(i int) []int64 {
	out := make([]int64, p.k)
	v := p.values()
	base := i * p.k
	for j := 0; j < p.k; j++ {
		out[j] = v.Value(base + j)
	}
	return out
}

func (p *PointList) Retain()  { p.arr.Retain() }
func (p *PointList) Release() { p.arr.Release() }

// PointListBuilder appends k-tuples into a growing fixed-size-list vector.
type PointListBuilder struct {
	b  *array.FixedSizeListBuilder
	vb *array.Int64Builder
	k  int
}

func NewPointListBuilder(mem memory.Allocator, k int) *PointListBuilder {
	b := array.NewFixedSizeListBuilder(mem, int32(k), arrow.PrimitiveTypes.Int64)
	return &PointListBuilder{b: b, vb: b.ValueBuilder().(*array.Int64Builder), k: k}
}

func (pb *PointListBuilder) Len() int { return pb.b.Len() }

// Append appends one k-tuple. len(point) must equal k.
func (pb *PointListBuilder) Append(point []int64) {
	pb.b.Append(true)
	for _, v := range point {
		pb.vb.Append(v)
	}
}

func (pb *PointListBuilder) Release() { pb.b.Release() }

func (pb *PointListBuilder) NewPointList() *PointList {
	arr := pb.b.NewArray().(*array.FixedSizeList)
	return WrapPointList(arr, pb.k)
}
