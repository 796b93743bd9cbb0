package main

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"

	"github.com/drethage/ClassyVoxelizer/gridexport"
	"github.com/drethage/ClassyVoxelizer/meshload"
)

// A VoxelGrid is an occupancy grid rebuilt from the cell
// centers of a voxel point file.
//
// It implements model3d.Solid by interpolating occupancy
// between cell centers.
type VoxelGrid struct {
	Origin   model3d.Coord3D
	CellSize float64
	Dims     [3]int

	// Threshold can be set to change the behavior of the
	// solid containment check.
	Threshold float64

	values []float64
}

// NewVoxelGrid builds a grid from the vertex element of a
// point file.
//
// Points with label 0, or with the white color used for
// empty cells of dense exports, are skipped. The grid gets
// one empty cell of padding on every side so that the
// surface is closed.
func NewVoxelGrid(f *meshload.File, cellSize float64) (*VoxelGrid, error) {
	if !(cellSize > 0) {
		return nil, errors.Errorf("read voxel grid: invalid cell size %v", cellSize)
	}
	vertex, ok := f.Data["vertex"]
	if !ok {
		return nil, errors.New("read voxel grid: missing vertex element")
	}
	xs, ys, zs := vertex.Scalars["x"], vertex.Scalars["y"], vertex.Scalars["z"]
	if xs == nil || ys == nil || zs == nil {
		return nil, errors.New("read voxel grid: vertex element needs x, y and z")
	}

	var centers []model3d.Coord3D
	for i := range xs {
		if !occupiedPoint(vertex, i) {
			continue
		}
		centers = append(centers, model3d.XYZ(xs[i], ys[i], zs[i]))
	}
	if len(centers) == 0 {
		return nil, errors.New("read voxel grid: no occupied cells")
	}

	min, max := centers[0], centers[0]
	for _, c := range centers {
		min = min.Min(c)
		max = max.Max(c)
	}
	pad := model3d.XYZ(1.5, 1.5, 1.5).Scale(cellSize)
	grid := &VoxelGrid{
		Origin:    min.Sub(pad),
		CellSize:  cellSize,
		Threshold: 0.5,
	}
	maxCoord := grid.cellCoord(max)
	for i, x := range maxCoord {
		grid.Dims[i] = x + 2
	}
	grid.values = make([]float64, grid.Dims[0]*grid.Dims[1]*grid.Dims[2])
	for _, c := range centers {
		coord := grid.cellCoord(c)
		grid.values[coord[0]+grid.Dims[0]*(coord[1]+coord[2]*grid.Dims[1])] = 1
	}
	return grid, nil
}

func occupiedPoint(vertex *meshload.Columns, i int) bool {
	if labels := vertex.Scalars["label"]; labels != nil {
		return labels[i] != 0
	}
	rs, gs, bs := vertex.Scalars["red"], vertex.Scalars["green"], vertex.Scalars["blue"]
	if rs == nil || gs == nil || bs == nil {
		return true
	}
	white := gridexport.EmptyColor
	return rs[i] != float64(white[0]) || gs[i] != float64(white[1]) || bs[i] != float64(white[2])
}

func (v *VoxelGrid) cellCoord(c model3d.Coord3D) [3]int {
	offset := c.Sub(v.Origin).Scale(1 / v.CellSize)
	var res [3]int
	for i, x := range offset.Array() {
		res[i] = int(math.Round(x - 0.5))
	}
	return res
}

// Min gets the minimum of the bounding box.
func (v *VoxelGrid) Min() model3d.Coord3D {
	return v.Origin
}

// Max gets the maximum of the bounding box.
func (v *VoxelGrid) Max() model3d.Coord3D {
	dims := model3d.XYZ(float64(v.Dims[0]), float64(v.Dims[1]), float64(v.Dims[2]))
	return v.Origin.Add(dims.Scale(v.CellSize))
}

// Contains checks if the value at the point is greater
// than the threshold.
func (v *VoxelGrid) Contains(c model3d.Coord3D) bool {
	return v.Interp(c) >= v.Threshold
}

// Interp gets a trilinear interpolated value for the grid
// at the given point, where each cell's value sits at the
// cell's center.
func (v *VoxelGrid) Interp(c model3d.Coord3D) float64 {
	c = c.Sub(v.Origin).Scale(1 / v.CellSize).Sub(model3d.XYZ(0.5, 0.5, 0.5))

	xs, xFracs := roundedCoords(c.X)
	ys, yFracs := roundedCoords(c.Y)
	zs, zFracs := roundedCoords(c.Z)
	var value float64
	for i, x := range xs {
		xFrac := xFracs[i]
		for j, y := range ys {
			yFrac := yFracs[j]
			for k, z := range zs {
				zFrac := zFracs[k]
				value += xFrac * yFrac * zFrac * v.Get(x, y, z)
			}
		}
	}
	return value
}

// Get gets the exact value at integer coordinates.
// If a coordinate is out of bounds, 0 is returned.
func (v *VoxelGrid) Get(x, y, z int) float64 {
	if x < 0 || y < 0 || z < 0 || x >= v.Dims[0] || y >= v.Dims[1] || z >= v.Dims[2] {
		return 0
	}
	return v.values[x+v.Dims[0]*(y+z*v.Dims[1])]
}

func roundedCoords(c float64) (vals [2]int, fracs [2]float64) {
	min := int(math.Floor(c))
	max := min + 1
	minFrac := float64(max) - c
	maxFrac := 1 - minFrac
	return [2]int{min, max}, [2]float64{minFrac, maxFrac}
}
