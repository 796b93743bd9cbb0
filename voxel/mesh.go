package voxel

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// A Face is a triangle given by three vertex indices.
type Face [3]int

// A Mesh is an indexed triangle mesh with one attribute
// per vertex.
//
// Vertices are only ever appended, so indices stay valid
// while faces are being subdivided.
type Mesh[A any] struct {
	Vertices   []model3d.Coord3D
	Attributes []A
	Faces      []Face
}

// AddVertex appends a vertex and its attribute and returns
// the index of the new vertex.
func (m *Mesh[A]) AddVertex(c model3d.Coord3D, a A) int {
	m.Vertices = append(m.Vertices, c)
	m.Attributes = append(m.Attributes, a)
	return len(m.Vertices) - 1
}

// Triangle gets the coordinates of a face.
func (m *Mesh[A]) Triangle(f Face) *model3d.Triangle {
	return &model3d.Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// Validate checks that every vertex has an attribute and
// every face refers to existing vertices.
func (m *Mesh[A]) Validate() error {
	if len(m.Vertices) != len(m.Attributes) {
		return errors.Errorf("validate mesh: %d vertices but %d attributes",
			len(m.Vertices), len(m.Attributes))
	}
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return errors.Errorf("validate mesh: face %d refers to vertex %d of %d",
					i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}
