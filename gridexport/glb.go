package gridexport

import (
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/drethage/ClassyVoxelizer/voxel"
)

// WriteColorGLB writes the occupied cells of a color grid
// as a glTF binary point cloud.
func WriteColorGLB(w io.Writer, g *voxel.Grid[voxel.Color]) error {
	points := g.Points(false)
	positions := make([][3]float32, len(points))
	colors := make([][4]float32, len(points))
	for i, p := range points {
		positions[i] = pointPosition(p.Center.Array())
		colors[i] = glbColor(p.Value)
	}
	return writeGLB(w, positions, colors)
}

// WriteClassGLB writes the occupied cells of a class grid
// as a glTF binary point cloud colored by palette.
func WriteClassGLB(w io.Writer, g *voxel.Grid[voxel.Class], palette []voxel.Color) error {
	points := g.Points(false)
	positions := make([][3]float32, len(points))
	colors := make([][4]float32, len(points))
	for i, p := range points {
		positions[i] = pointPosition(p.Center.Array())
		colors[i] = glbColor(PaletteColor(palette, p.Value))
	}
	return writeGLB(w, positions, colors)
}

func pointPosition(c [3]float64) [3]float32 {
	return [3]float32{float32(c[0]), float32(c[1]), float32(c[2])}
}

func glbColor(c voxel.Color) [4]float32 {
	rgb := c.RGB()
	return [4]float32{float32(rgb[0]) / 255, float32(rgb[1]) / 255, float32(rgb[2]) / 255, 1}
}

func writeGLB(w io.Writer, positions [][3]float32, colors [][4]float32) error {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "classy voxelizer"
	if len(positions) > 0 {
		posAccessor := modeler.WritePosition(doc, positions)
		colorAccessor := modeler.WriteColor(doc, colors)
		prim := &gltf.Primitive{
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION: posAccessor,
				gltf.COLOR_0:  colorAccessor,
			},
			Mode: gltf.PrimitivePoints,
		}
		doc.Meshes = []*gltf.Mesh{{Name: "Voxels", Primitives: []*gltf.Primitive{prim}}}
		doc.Nodes = []*gltf.Node{{Name: "Voxels", Mesh: gltf.Index(0)}}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return errors.Wrap(enc.Encode(doc), "write glb")
}
