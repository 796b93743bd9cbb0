// Package meshload builds attributed meshes from PLY files.
package meshload

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/fileformats"
	"github.com/unixpickle/model3d/model3d"

	"github.com/drethage/ClassyVoxelizer/voxel"
)

// Mode selects which vertex property becomes the voxel
// attribute.
type Mode int

const (
	// ModeColorClass maps each distinct vertex color to a
	// class id.
	ModeColorClass Mode = iota

	// ModeColor keeps raw vertex colors.
	ModeColor

	// ModeLabel reads an integer label property.
	ModeLabel
)

func (m Mode) String() string {
	switch m {
	case ModeColorClass:
		return "class"
	case ModeColor:
		return "color"
	case ModeLabel:
		return "label"
	}
	return "unknown"
}

// ParseMode parses the name returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeColorClass, ModeColor, ModeLabel} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, errors.Errorf("unknown attribute mode %q (expected class, color or label)", s)
}

// Geometry is the attribute-free part of a mesh.
type Geometry struct {
	Vertices []model3d.Coord3D
	Faces    []voxel.Face
}

// ReadGeometry extracts vertex positions and triangles.
//
// Polygons with more than three corners are split into a
// triangle fan.
func ReadGeometry(f *File) (*Geometry, error) {
	vertex, err := elementData(f, "vertex")
	if err != nil {
		return nil, err
	}
	xs, ys, zs := vertex.Scalars["x"], vertex.Scalars["y"], vertex.Scalars["z"]
	if xs == nil || ys == nil || zs == nil {
		return nil, errors.New("read geometry: vertex element needs x, y and z")
	}
	g := &Geometry{Vertices: make([]model3d.Coord3D, len(xs))}
	for i := range xs {
		g.Vertices[i] = model3d.Coord3D{X: xs[i], Y: ys[i], Z: zs[i]}
	}

	faceData, ok := f.Data["face"]
	if !ok {
		return g, nil
	}
	polys := faceData.Lists["vertex_indices"]
	if polys == nil {
		polys = faceData.Lists["vertex_index"]
	}
	if polys == nil {
		return nil, errors.New("read geometry: face element has no vertex_indices list")
	}
	for i, poly := range polys {
		if len(poly) < 3 {
			return nil, errors.Errorf("read geometry: face %d has %d vertices", i, len(poly))
		}
		idxs := make([]int, len(poly))
		for j, x := range poly {
			if x < 0 || x >= float64(len(g.Vertices)) || x != math.Trunc(x) {
				return nil, errors.Errorf("read geometry: face %d has invalid vertex index %v", i, x)
			}
			idxs[j] = int(x)
		}
		for j := 1; j+1 < len(idxs); j++ {
			g.Faces = append(g.Faces, voxel.Face{idxs[0], idxs[j], idxs[j+1]})
		}
	}
	return g, nil
}

// ReadColors reads the red, green and blue properties of
// every vertex. Alpha is ignored.
func ReadColors(f *File) ([]voxel.Color, error) {
	vertex, err := elementData(f, "vertex")
	if err != nil {
		return nil, err
	}
	rs, gs, bs := vertex.Scalars["red"], vertex.Scalars["green"], vertex.Scalars["blue"]
	if rs == nil || gs == nil || bs == nil {
		return nil, errors.New("read colors: vertex element needs red, green and blue")
	}
	scale := 1.0
	if isFloat(vertex.Property("red").ElemType) {
		// Floating point colors are stored in [0, 1].
		scale = 255
	}
	colors := make([]voxel.Color, len(rs))
	for i := range rs {
		colors[i] = voxel.Color{
			int(math.Round(rs[i] * scale)),
			int(math.Round(gs[i] * scale)),
			int(math.Round(bs[i] * scale)),
		}
	}
	return colors, nil
}

// ReadLabels reads the label property of every vertex.
func ReadLabels(f *File) ([]voxel.Class, error) {
	vertex, err := elementData(f, "vertex")
	if err != nil {
		return nil, err
	}
	labels := vertex.Scalars["label"]
	if labels == nil {
		return nil, errors.New("read labels: vertex element has no label property")
	}
	res := make([]voxel.Class, len(labels))
	for i, l := range labels {
		if l < 0 || l > voxel.MaxClasses || l != math.Trunc(l) {
			return nil, errors.Wrapf(ErrTooManyClasses, "read labels: vertex %d has label %v", i, l)
		}
		res[i] = voxel.Class(l)
	}
	return res, nil
}

// ColorMesh builds a mesh of raw vertex colors.
func ColorMesh(f *File) (*voxel.Mesh[voxel.Color], error) {
	g, err := ReadGeometry(f)
	if err != nil {
		return nil, err
	}
	colors, err := ReadColors(f)
	if err != nil {
		return nil, err
	}
	return &voxel.Mesh[voxel.Color]{Vertices: g.Vertices, Attributes: colors, Faces: g.Faces}, nil
}

// ClassMesh builds a mesh of class ids by assigning one
// class to every distinct vertex color.
//
// The returned palette holds the color of each class. If
// the mesh has more than voxel.MaxClasses colors, an error
// with cause ErrTooManyClasses is returned.
func ClassMesh(f *File) (*voxel.Mesh[voxel.Class], []voxel.Color, error) {
	g, err := ReadGeometry(f)
	if err != nil {
		return nil, nil, err
	}
	colors, err := ReadColors(f)
	if err != nil {
		return nil, nil, err
	}
	dict := NewClassDictionary()
	classes := make([]voxel.Class, len(colors))
	for i, c := range colors {
		classes[i], err = dict.Class(c)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "class mesh: vertex %d", i)
		}
	}
	m := &voxel.Mesh[voxel.Class]{Vertices: g.Vertices, Attributes: classes, Faces: g.Faces}
	return m, dict.Palette(), nil
}

// LabelMesh builds a mesh of class ids from the label
// property.
func LabelMesh(f *File) (*voxel.Mesh[voxel.Class], error) {
	g, err := ReadGeometry(f)
	if err != nil {
		return nil, err
	}
	labels, err := ReadLabels(f)
	if err != nil {
		return nil, err
	}
	return &voxel.Mesh[voxel.Class]{Vertices: g.Vertices, Attributes: labels, Faces: g.Faces}, nil
}

func elementData(f *File, name string) (*Columns, error) {
	data, ok := f.Data[name]
	if !ok {
		return nil, errors.Errorf("missing %s element", name)
	}
	return data, nil
}

func isFloat(t fileformats.PLYPropertyType) bool {
	switch t {
	case fileformats.PLYPropertyTypeFloat, fileformats.PLYPropertyTypeFloat32,
		fileformats.PLYPropertyTypeDouble, fileformats.PLYPropertyTypeFloat64:
		return true
	}
	return false
}
