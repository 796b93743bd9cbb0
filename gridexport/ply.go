// Package gridexport saves voxel grids as point files.
package gridexport

import (
	"io"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/fileformats"
	"github.com/unixpickle/model3d/model3d"

	"github.com/drethage/ClassyVoxelizer/voxel"
)

// Options controls which cells are exported and how.
type Options struct {
	// Dense exports every cell instead of only occupied
	// ones.
	Dense bool

	// ASCII selects the ascii PLY encoding instead of
	// binary_little_endian.
	ASCII bool
}

// EmptyColor is used for cells without a color.
var EmptyColor = voxel.Color{255, 255, 255}

// PaletteColor looks up the color of a class, falling back
// to EmptyColor for unset or unknown classes.
func PaletteColor(palette []voxel.Color, c voxel.Class) voxel.Color {
	if c == voxel.NoClass || int(c) > len(palette) {
		return EmptyColor
	}
	return palette[c-1]
}

// WriteColorPLY writes a color grid as a PLY point file
// with one colored vertex per exported cell.
func WriteColorPLY(w io.Writer, g *voxel.Grid[voxel.Color], opts Options) error {
	points := g.Points(opts.Dense)
	pw, err := newPointWriter(w, len(points), true, opts)
	if err != nil {
		return err
	}
	for _, p := range points {
		c := p.Value
		if !c.Occupied() {
			c = EmptyColor
		}
		if err := pw.Write(colorRow(p.Center, c)); err != nil {
			return errors.Wrap(err, "write ply")
		}
	}
	return nil
}

// WriteClassPLY writes a class grid as a PLY point file.
//
// If palette is non-empty, each vertex is colored by its
// class, where class i has color palette[i-1]. Otherwise,
// class ids are written to a label property.
func WriteClassPLY(w io.Writer, g *voxel.Grid[voxel.Class], palette []voxel.Color,
	opts Options) error {
	points := g.Points(opts.Dense)
	colored := len(palette) > 0
	pw, err := newPointWriter(w, len(points), colored, opts)
	if err != nil {
		return err
	}
	for _, p := range points {
		var row []fileformats.PLYValue
		if colored {
			row = colorRow(p.Center, PaletteColor(palette, p.Value))
		} else {
			row = append(positionRow(p.Center), fileformats.PLYValueUint8{Value: uint8(p.Value)})
		}
		if err := pw.Write(row); err != nil {
			return errors.Wrap(err, "write ply")
		}
	}
	return nil
}

func newPointWriter(w io.Writer, count int, colored bool,
	opts Options) (*fileformats.PLYWriter, error) {
	vertex := &fileformats.PLYElement{
		Name:  "vertex",
		Count: int64(count),
		Properties: []*fileformats.PLYProperty{
			{Name: "x", ElemType: fileformats.PLYPropertyTypeFloat},
			{Name: "y", ElemType: fileformats.PLYPropertyTypeFloat},
			{Name: "z", ElemType: fileformats.PLYPropertyTypeFloat},
		},
	}
	if colored {
		for _, name := range []string{"red", "green", "blue", "alpha"} {
			vertex.Properties = append(vertex.Properties, &fileformats.PLYProperty{
				Name:     name,
				ElemType: fileformats.PLYPropertyTypeUchar,
			})
		}
	} else {
		vertex.Properties = append(vertex.Properties, &fileformats.PLYProperty{
			Name:     "label",
			ElemType: fileformats.PLYPropertyTypeUchar,
		})
	}

	header := &fileformats.PLYHeader{
		Format:   fileformats.PLYFormatBinaryLittle,
		Elements: []*fileformats.PLYElement{vertex},
	}
	if opts.ASCII {
		header.Format = fileformats.PLYFormatASCII
	}
	pw, err := fileformats.NewPLYWriter(w, header)
	if err != nil {
		return nil, errors.Wrap(err, "write ply")
	}
	return pw, nil
}

func positionRow(c model3d.Coord3D) []fileformats.PLYValue {
	return []fileformats.PLYValue{
		fileformats.PLYValueFloat32{Value: float32(c.X)},
		fileformats.PLYValueFloat32{Value: float32(c.Y)},
		fileformats.PLYValueFloat32{Value: float32(c.Z)},
	}
}

func colorRow(center model3d.Coord3D, c voxel.Color) []fileformats.PLYValue {
	rgb := c.RGB()
	return append(
		positionRow(center),
		fileformats.PLYValueUint8{Value: rgb[0]},
		fileformats.PLYValueUint8{Value: rgb[1]},
		fileformats.PLYValueUint8{Value: rgb[2]},
		fileformats.PLYValueUint8{Value: 255},
	)
}
