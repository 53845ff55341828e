package systems

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/pthm-cable/plife/components"
)

// KDTreeIndex is a SpatialIndex backed by a gonum k-d tree.
type KDTreeIndex struct {
	tree *kdtree.Tree
	buf  indexedPoints
}

// NewKDTreeIndex returns an empty k-d tree index.
func NewKDTreeIndex() *KDTreeIndex {
	return &KDTreeIndex{}
}

// Rebuild builds a fresh tree over points.
func (k *KDTreeIndex) Rebuild(points []components.Vec2) {
	// kdtree.New reorders its input, so build from a private copy.
	k.buf = k.buf[:0]
	for i, p := range points {
		k.buf = append(k.buf, indexedPoint{x: p.X, y: p.Y, idx: i})
	}
	if len(k.buf) == 0 {
		k.tree = nil
		return
	}
	k.tree = kdtree.New(k.buf, false)
}

// Len returns the number of indexed points.
func (k *KDTreeIndex) Len() int { return len(k.buf) }

// QueryRadius appends every indexed point within radius of p to dst.
func (k *KDTreeIndex) QueryRadius(p components.Vec2, radius float64, dst []int) []int {
	if k.tree == nil || !(radius >= 0) {
		return dst
	}

	keeper := kdtree.NewDistKeeper(radius * radius)
	k.tree.NearestSet(keeper, indexedPoint{x: p.X, y: p.Y, idx: -1})
	for _, cd := range keeper.Heap {
		// The keeper seeds its heap with a nil sentinel at the radius bound.
		if cd.Comparable == nil {
			continue
		}
		dst = append(dst, cd.Comparable.(indexedPoint).idx)
	}
	return dst
}

// indexedPoint is a 2D kdtree.Comparable that remembers its source index.
type indexedPoint struct {
	x, y float64
	idx  int
}

func (p indexedPoint) coord(d kdtree.Dim) float64 {
	if d == 0 {
		return p.x
	}
	return p.y
}

// Compare returns the signed distance of p from the plane through c along d.
func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.coord(d) - c.(indexedPoint).coord(d)
}

// Dims returns the number of dimensions.
func (p indexedPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between p and c.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

// indexedPoints is the kdtree.Interface collection.
type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexedPoints) Len() int                      { return len(p) }
func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, indexedPoints: p}.Pivot()
}
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts indexedPoints along one dimension.
type plane struct {
	kdtree.Dim
	indexedPoints
}

func (p plane) Less(i, j int) bool {
	return p.indexedPoints[i].coord(p.Dim) < p.indexedPoints[j].coord(p.Dim)
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.indexedPoints = p.indexedPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}
