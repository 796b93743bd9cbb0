package voxel

import (
	"github.com/pkg/errors"
)

// DefaultMinTriangleArea is the area below which triangles
// are no longer subdivided.
const DefaultMinTriangleArea = 1e-5

// Stats summarizes one voxelization.
type Stats struct {
	Faces         int
	TerminalFaces int
	Midpoints     int
	Degenerate    int
	Writes        int
	DroppedWrites int
}

// A Voxelizer rasterizes the faces of a mesh into a grid by
// splitting each face until every piece lies within a
// single cell.
//
// Midpoint vertices created by splitting are appended to
// Mesh.
type Voxelizer[A Attribute[A]] struct {
	Grid *Grid[A]
	Mesh *Mesh[A]

	// MinTriangleArea stops subdivision of slivers.
	// If 0, DefaultMinTriangleArea is used.
	MinTriangleArea float64

	Stats Stats
}

// NewVoxelizer creates a Voxelizer writing into grid.
func NewVoxelizer[A Attribute[A]](m *Mesh[A], grid *Grid[A]) *Voxelizer[A] {
	return &Voxelizer[A]{Grid: grid, Mesh: m}
}

// Voxelize creates a grid for the mesh's bounds and fills
// it with the mesh's attributes.
func Voxelize[A Attribute[A]](m *Mesh[A], b Bounds, cellSize float64,
	empty A) (*Grid[A], Stats, error) {
	grid, err := NewGrid(b.Min, b.Max, cellSize, empty)
	if err != nil {
		return nil, Stats{}, errors.Wrap(err, "voxelize")
	}
	v := NewVoxelizer(m, grid)
	if _, err := v.Run(); err != nil {
		return nil, Stats{}, err
	}
	return grid, v.Stats, nil
}

// Run splits every face of the mesh, writes the resulting
// vertices into the grid, and returns the terminal faces.
//
// When several vertices fall into the same cell, the last
// write wins. Writes happen in face order, then in split
// order, then in vertex order, so the result is
// deterministic for a given mesh.
func (v *Voxelizer[A]) Run() ([]Face, error) {
	if err := v.Mesh.Validate(); err != nil {
		return nil, errors.Wrap(err, "voxelize")
	}
	faces := v.Mesh.Faces
	v.Stats.Faces += len(faces)

	var terminal []Face
	for _, f := range faces {
		terminal = v.Split(f, terminal)
	}
	v.Assign(terminal)
	return terminal, nil
}

// Split subdivides a face and appends the terminal faces
// to out, depth first.
func (v *Voxelizer[A]) Split(f Face, out []Face) []Face {
	m := v.Mesh
	if m.Triangle(f).Area() < v.minArea() {
		v.Stats.Degenerate++
		v.Stats.TerminalFaces++
		return append(out, f)
	}

	edge, ok := v.splitEdge(f)
	if !ok {
		v.Stats.TerminalFaces++
		return append(out, f)
	}

	a, b, c := f[edge], f[(edge+1)%3], f[(edge+2)%3]
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	mid := m.AddVertex(
		m.Vertices[a].Mid(m.Vertices[b]),
		m.Attributes[lo].Mid(m.Attributes[hi]),
	)
	v.Stats.Midpoints++

	out = v.Split(Face{a, c, mid}, out)
	return v.Split(Face{b, c, mid}, out)
}

// splitEdge picks the longest edge whose endpoints lie in
// different cells. The first of equally long edges wins.
func (v *Voxelizer[A]) splitEdge(f Face) (int, bool) {
	m := v.Mesh
	var lengths [3]float64
	crossing := false
	for i := 0; i < 3; i++ {
		p1 := m.Vertices[f[i]]
		p2 := m.Vertices[f[(i+1)%3]]
		id1, ok1 := v.Grid.CellID(p1)
		id2, ok2 := v.Grid.CellID(p2)
		if id1 != id2 || ok1 != ok2 {
			lengths[i] = p1.Dist(p2)
			crossing = true
		}
	}
	if !crossing {
		return 0, false
	}

	var longest int
	var longestLength float64
	for i, l := range lengths {
		if l > longestLength {
			longestLength = l
			longest = i
		}
	}
	if longestLength == 0 {
		// Coincident points reported in different cells.
		return 0, false
	}
	return longest, true
}

// Assign writes the attributes of the faces' vertices into
// the grid.
func (v *Voxelizer[A]) Assign(faces []Face) {
	for _, f := range faces {
		for _, idx := range f {
			cell, ok := v.Grid.CellID(v.Mesh.Vertices[idx])
			if !ok {
				v.Stats.DroppedWrites++
				continue
			}
			v.Grid.Set(cell, v.Mesh.Attributes[idx])
			v.Stats.Writes++
		}
	}
}

func (v *Voxelizer[A]) minArea() float64 {
	if v.MinTriangleArea == 0 {
		return DefaultMinTriangleArea
	}
	return v.MinTriangleArea
}
