// Package voxel turns attributed triangle meshes into dense
// voxel grids.
package voxel

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// MaxCells is the largest number of cells a Grid may hold.
const MaxCells = math.MaxInt32

// A VoxelCoord is an (i, j, k) position in a Grid.
type VoxelCoord [3]int

// A Grid is a dense 3D array of attributes covering an
// axis-aligned box.
//
// Cells are stored with x varying fastest, then y, then z.
type Grid[A Attribute[A]] struct {
	Min      model3d.Coord3D
	Max      model3d.Coord3D
	CellSize float64
	Dims     VoxelCoord

	empty  A
	values []A
}

// NewGrid creates a grid covering the box from min to max,
// with every cell set to empty.
//
// The number of cells along each axis is rounded down, so
// a box which is not a multiple of cellSize leaves a sliver
// at the max side which maps to the last cell.
func NewGrid[A Attribute[A]](min, max model3d.Coord3D, cellSize float64,
	empty A) (*Grid[A], error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, errors.Errorf("new grid: invalid cell size %v", cellSize)
	}
	size := max.Sub(min)
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		return nil, errors.New("new grid: max is below min")
	}
	fdims := size.Scale(1 / cellSize).Array()
	count := 1.0
	for i, x := range fdims {
		fdims[i] = math.Floor(x)
		count *= fdims[i]
	}
	if !(count <= MaxCells) {
		return nil, errors.Errorf("new grid: %v cells is too many", count)
	}
	dims := VoxelCoord{int(fdims[0]), int(fdims[1]), int(fdims[2])}
	values := make([]A, dims[0]*dims[1]*dims[2])
	for i := range values {
		values[i] = empty
	}
	return &Grid[A]{
		Min:      min,
		Max:      max,
		CellSize: cellSize,
		Dims:     dims,
		empty:    empty,
		values:   values,
	}, nil
}

// NewColorGrid creates a Grid of colors.
func NewColorGrid(b Bounds, cellSize float64) (*Grid[Color], error) {
	return NewGrid(b.Min, b.Max, cellSize, NoColor)
}

// NewClassGrid creates a Grid of class ids.
func NewClassGrid(b Bounds, cellSize float64) (*Grid[Class], error) {
	return NewGrid(b.Min, b.Max, cellSize, NoClass)
}

// Len gets the total number of cells.
func (g *Grid[A]) Len() int {
	return len(g.values)
}

// Empty gets the value of unwritten cells.
func (g *Grid[A]) Empty() A {
	return g.empty
}

// CellID finds the index of the cell containing c.
//
// The second return value is false if c is outside of the
// grid's bounds along any axis. Points on the max face are
// placed in the last cell along that axis.
func (g *Grid[A]) CellID(c model3d.Coord3D) (int, bool) {
	if len(g.values) == 0 {
		return 0, false
	}
	// Written as negations so that NaN fails.
	if !(c.X >= g.Min.X && c.Y >= g.Min.Y && c.Z >= g.Min.Z &&
		c.X <= g.Max.X && c.Y <= g.Max.Y && c.Z <= g.Max.Z) {
		return 0, false
	}
	offset := c.Sub(g.Min).Scale(1 / g.CellSize)
	var coord VoxelCoord
	for i, x := range offset.Array() {
		idx := int(math.Floor(x))
		if idx >= g.Dims[i] {
			idx = g.Dims[i] - 1
		}
		coord[i] = idx
	}
	return g.Index(coord)
}

// Index flattens a voxel coordinate.
// The second return value is false if the coordinate is
// out of bounds.
func (g *Grid[A]) Index(c VoxelCoord) (int, bool) {
	for i, x := range c {
		if x < 0 || x >= g.Dims[i] {
			return 0, false
		}
	}
	return g.Dims[0]*g.Dims[1]*c[2] + g.Dims[0]*c[1] + c[0], true
}

// Coord expands a cell index into a voxel coordinate.
func (g *Grid[A]) Coord(index int) VoxelCoord {
	plane := g.Dims[0] * g.Dims[1]
	return VoxelCoord{
		index % g.Dims[0],
		(index % plane) / g.Dims[0],
		index / plane,
	}
}

// Center gets the world-space center of a cell.
func (g *Grid[A]) Center(c VoxelCoord) model3d.Coord3D {
	unit := model3d.Coord3D{X: 1, Y: 1, Z: 1}
	idxCoord := model3d.Coord3D{X: float64(c[0]), Y: float64(c[1]), Z: float64(c[2])}
	return g.Min.Add(idxCoord.Add(unit.Scale(0.5)).Scale(g.CellSize))
}

// Set writes the attribute of a cell.
// Out of range indices are ignored.
func (g *Grid[A]) Set(index int, a A) {
	if index < 0 || index >= len(g.values) {
		return
	}
	g.values[index] = a
}

// At gets the attribute of a cell.
// If the index is out of range, the empty value is
// returned.
func (g *Grid[A]) At(index int) A {
	if index < 0 || index >= len(g.values) {
		return g.empty
	}
	return g.values[index]
}

// Occupied checks if a cell has been written.
func (g *Grid[A]) Occupied(index int) bool {
	return g.At(index).Occupied()
}

// OccupiedAt checks if the cell containing c has been
// written.
func (g *Grid[A]) OccupiedAt(c model3d.Coord3D) bool {
	idx, ok := g.CellID(c)
	if !ok {
		return false
	}
	return g.Occupied(idx)
}

// CountOccupied counts the written cells.
func (g *Grid[A]) CountOccupied() int {
	var n int
	for _, v := range g.values {
		if v.Occupied() {
			n++
		}
	}
	return n
}

// A Point is one exported cell.
type Point[A any] struct {
	Index  int
	Center model3d.Coord3D
	Value  A
}

// Points lists cells in storage order.
//
// If dense is true, every cell is listed. Otherwise, only
// occupied cells are.
func (g *Grid[A]) Points(dense bool) []Point[A] {
	n := len(g.values)
	if !dense {
		n = g.CountOccupied()
	}
	res := make([]Point[A], 0, n)
	for i, v := range g.values {
		if !dense && !v.Occupied() {
			continue
		}
		res = append(res, Point[A]{
			Index:  i,
			Center: g.Center(g.Coord(i)),
			Value:  v,
		})
	}
	return res
}

// Values gets the cells in storage order.
// The slice is shared with the grid.
func (g *Grid[A]) Values() []A {
	return g.values
}
