// Package grid implements the uniform spatial grid that accelerates
// neighbor searches: cell geometry, a stable parallel sort-by-key that
// groups particles by cell, and the per-cell range index derived from the
// sorted order.
package grid

import (
	"math"

	"github.com/pthm-cable/flock/geom"
)

// Geometry describes a uniform cubic grid covering the simulation domain.
// The grid is sized once at startup and never changes during a run.
type Geometry struct {
	SideCount    int32
	CellCount    int32
	CellWidth    float32
	InvCellWidth float32
	Min          geom.Vec3
}

// NewGeometry builds a grid enclosing the cube [-halfWidth, +halfWidth]
// on every axis with cells of the given width. Nearest-block neighbor
// scans (see NeighborBlock) only see every neighbor when cellWidth is at
// least twice the largest interaction radius; callers must guarantee that
// when they choose cellWidth.
func NewGeometry(halfWidth, cellWidth float32) Geometry {
	halfSide := int32(halfWidth/cellWidth) + 1
	side := 2 * halfSide
	min := -cellWidth * float32(halfSide)

	return Geometry{
		SideCount:    side,
		CellCount:    side * side * side,
		CellWidth:    cellWidth,
		InvCellWidth: 1 / cellWidth,
		Min:          geom.Vec3{X: min, Y: min, Z: min},
	}
}

// CellCoord returns the integer cell coordinate of pos on each axis.
// No bounds clamping is applied, so ids derived from positions outside
// the grid are not valid against the cell range index. NewGeometry
// sizes the grid with margin beyond [-halfWidth, +halfWidth]; every
// position inside the domain cube maps to an in-range coordinate.
func (g Geometry) CellCoord(pos geom.Vec3) (x, y, z int32) {
	x = int32(math.Floor(float64((pos.X - g.Min.X) * g.InvCellWidth)))
	y = int32(math.Floor(float64((pos.Y - g.Min.Y) * g.InvCellWidth)))
	z = int32(math.Floor(float64((pos.Z - g.Min.Z) * g.InvCellWidth)))
	return x, y, z
}

// CellID linearizes a cell coordinate to id = x + y*side + z*side*side.
func (g Geometry) CellID(x, y, z int32) int32 {
	return x + y*g.SideCount + z*g.SideCount*g.SideCount
}

// CellIDOf returns the linear cell id of pos.
func (g Geometry) CellIDOf(pos geom.Vec3) int32 {
	return g.CellID(g.CellCoord(pos))
}

// Contains reports whether the cell coordinate lies inside the grid.
func (g Geometry) Contains(x, y, z int32) bool {
	return x >= 0 && x < g.SideCount &&
		y >= 0 && y < g.SideCount &&
		z >= 0 && z < g.SideCount
}

// NeighborBlock returns the lower corner of the 2x2x2 cell block nearest
// pos. Per axis the block spans the particle's own cell plus the adjacent
// cell on whichever side of the cell center the particle sits, so the
// block covers everything within half a cell width of the particle.
// Corner cells of the returned block may lie outside the grid; callers
// filter with Contains.
func (g Geometry) NeighborBlock(pos geom.Vec3) (x, y, z int32) {
	x = blockLow((pos.X - g.Min.X) * g.InvCellWidth)
	y = blockLow((pos.Y - g.Min.Y) * g.InvCellWidth)
	z = blockLow((pos.Z - g.Min.Z) * g.InvCellWidth)
	return x, y, z
}

// blockLow maps a fractional cell coordinate to the lower cell of its
// 2-cell window: the cell below when the position is in the lower half of
// its cell, the cell itself otherwise.
func blockLow(fc float32) int32 {
	c := int32(math.Floor(float64(fc)))
	if fc-float32(c) >= 0.5 {
		return c
	}
	return c - 1
}
