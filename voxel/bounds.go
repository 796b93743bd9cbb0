package voxel

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// Bounds is an axis-aligned box.
type Bounds struct {
	Min model3d.Coord3D
	Max model3d.Coord3D
}

// MeshBounds computes a box around the vertices, padded by
// one cell on every side so that geometry touching the box
// always has an empty cell next to it.
func MeshBounds(vertices []model3d.Coord3D, cellSize float64) (Bounds, error) {
	if len(vertices) == 0 {
		return Bounds{}, errors.New("mesh bounds: no vertices")
	}
	if !(cellSize > 0) {
		return Bounds{}, errors.Errorf("mesh bounds: invalid cell size %v", cellSize)
	}

	var centroid model3d.Coord3D
	for _, v := range vertices {
		centroid = centroid.Add(v)
	}
	centroid = centroid.Scale(1 / float64(len(vertices)))

	// Extents are measured relative to the centroid, which
	// lies inside the hull, so both corners start there.
	min, max := centroid, centroid
	for _, v := range vertices {
		min = min.Min(v)
		max = max.Max(v)
	}

	pad := model3d.Coord3D{X: cellSize, Y: cellSize, Z: cellSize}
	return Bounds{
		Min: min.Sub(pad),
		Max: max.Add(pad),
	}, nil
}
