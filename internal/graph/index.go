package graph

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// nodePoint is a graph node in projected meters.
type nodePoint struct {
	id int64
	xy [2]float64
}

func (p nodePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(nodePoint)
	return p.xy[d] - q.xy[d]
}

func (p nodePoint) Dims() int { return 2 }

// Distance is the squared euclidean distance, as kdtree expects.
func (p nodePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(nodePoint)
	dx := p.xy[0] - q.xy[0]
	dy := p.xy[1] - q.xy[1]
	return dx*dx + dy*dy
}

type nodePoints []nodePoint

func (p nodePoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p nodePoints) Len() int                              { return len(p) }
func (p nodePoints) Pivot(d kdtree.Dim) int                { return nodePlane{dim: d, points: p}.Pivot() }
func (p nodePoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// nodePlane sorts points along one dimension for median selection.
type nodePlane struct {
	dim    kdtree.Dim
	points nodePoints
}

func (p nodePlane) Len() int { return len(p.points) }

func (p nodePlane) Less(i, j int) bool {
	a, b := p.points[i], p.points[j]
	if a.xy[p.dim] != b.xy[p.dim] {
		return a.xy[p.dim] < b.xy[p.dim]
	}
	return a.id < b.id
}

func (p nodePlane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }

func (p nodePlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

func (p nodePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func buildIndex(points nodePoints) *kdtree.Tree {
	if len(points) == 0 {
		return nil
	}
	return kdtree.New(points, false)
}
