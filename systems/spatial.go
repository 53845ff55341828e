// Package systems provides the field, spatial indexes and interaction passes.
package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/config"
)

// SpatialIndex answers radius queries over a snapshot of particle positions.
// Indices refer to positions in the slice passed to the last Rebuild.
type SpatialIndex interface {
	// Rebuild discards the previous structure and indexes points.
	Rebuild(points []components.Vec2)
	// QueryRadius appends to dst every index within radius of p (Euclidean, inclusive).
	QueryRadius(p components.Vec2, radius float64, dst []int) []int
	// Len returns the number of indexed points.
	Len() int
}

// NewSpatialIndex creates the index selected by the physics config.
func NewSpatialIndex(cfg config.PhysicsConfig, width, height float64) (SpatialIndex, error) {
	switch cfg.Index {
	case config.IndexKDTree:
		return NewKDTreeIndex(), nil
	case config.IndexGrid:
		if cfg.GridCellSize <= 0 {
			return nil, fmt.Errorf("grid index: cell size %g must be positive", cfg.GridCellSize)
		}
		return NewGridIndex(width, height, cfg.GridCellSize), nil
	}
	return nil, fmt.Errorf("unknown spatial index %q", cfg.Index)
}

// GridIndex provides neighbor lookups using a uniform cell grid.
// Queries are plain Euclidean; they do not wrap across field edges.
type GridIndex struct {
	cellSize float64
	cols     int
	rows     int
	width    float64
	height   float64
	cells    [][]int // flat grid of point indices
	points   []components.Vec2
}

// NewGridIndex creates a grid covering the given field size.
func NewGridIndex(width, height, cellSize float64) *GridIndex {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}

	return &GridIndex{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Rebuild clears the grid and inserts a copy of points.
func (g *GridIndex) Rebuild(points []components.Vec2) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.points = append(g.points[:0], points...)
	for i, p := range g.points {
		idx := g.cellIndex(p.X, p.Y)
		g.cells[idx] = append(g.cells[idx], i)
	}
}

// Len returns the number of indexed points.
func (g *GridIndex) Len() int { return len(g.points) }

// QueryRadius appends every indexed point within radius of p to dst.
// Reuse dst across calls to avoid allocations.
func (g *GridIndex) QueryRadius(p components.Vec2, radius float64, dst []int) []int {
	if len(g.points) == 0 || !(radius >= 0) {
		return dst
	}

	minCol, maxCol := g.span(p.X-radius, p.X+radius, g.cols)
	minRow, maxRow := g.span(p.Y-radius, p.Y+radius, g.rows)
	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, i := range g.cells[row*g.cols+col] {
				q := g.points[i]
				dx := q.X - p.X
				dy := q.Y - p.Y
				if dx*dx+dy*dy <= radiusSq {
					dst = append(dst, i)
				}
			}
		}
	}
	return dst
}

// span converts a coordinate interval to a clamped cell range.
func (g *GridIndex) span(lo, hi float64, n int) (int, int) {
	return clampCell(math.Floor(lo/g.cellSize), n), clampCell(math.Floor(hi/g.cellSize), n)
}

// cellIndex returns the flat index for a field position.
func (g *GridIndex) cellIndex(x, y float64) int {
	col := clampCell(math.Floor(x/g.cellSize), g.cols)
	row := clampCell(math.Floor(y/g.cellSize), g.rows)
	return row*g.cols + col
}

func clampCell(v float64, n int) int {
	if v < 0 {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}
