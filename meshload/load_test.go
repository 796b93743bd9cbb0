package meshload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"

	"github.com/drethage/ClassyVoxelizer/voxel"
)

const quadPLY = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
property uchar alpha
property int label
element face 1
property list uchar int vertex_indices
end_header
0 0 0 255 0 0 255 3
1 0 0 255 0 0 255 3
1 1 0 0 0 255 255 9
0 1 0 0 255 0 255 1
4 0 1 2 3
`

func readString(t *testing.T, s string) *File {
	f, err := ReadPLY(strings.NewReader(s))
	require.NoError(t, err)
	return f
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeColorClass, ModeColor, ModeLabel} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err := ParseMode("rgb")
	assert.Error(t, err)
}

func TestColorMesh(t *testing.T) {
	m, err := ColorMesh(readString(t, quadPLY))
	require.NoError(t, err)
	assert.Equal(t, []voxel.Face{{0, 1, 2}, {0, 2, 3}}, m.Faces)
	assert.Equal(t, model3d.Coord3D{X: 1, Y: 1}, m.Vertices[2])
	assert.Equal(t, []voxel.Color{{255, 0, 0}, {255, 0, 0}, {0, 0, 255}, {0, 255, 0}}, m.Attributes)
	assert.NoError(t, m.Validate())
}

func TestClassMesh(t *testing.T) {
	m, palette, err := ClassMesh(readString(t, quadPLY))
	require.NoError(t, err)
	assert.Equal(t, []voxel.Class{1, 1, 2, 3}, m.Attributes)
	assert.Equal(t, []voxel.Color{{255, 0, 0}, {0, 0, 255}, {0, 255, 0}}, palette)
}

func TestLabelMesh(t *testing.T) {
	m, err := LabelMesh(readString(t, quadPLY))
	require.NoError(t, err)
	assert.Equal(t, []voxel.Class{3, 3, 9, 1}, m.Attributes)

	bad := strings.Replace(quadPLY, "255 3\n1 0 0", "255 300\n1 0 0", 1)
	_, err = LabelMesh(readString(t, bad))
	assert.Error(t, err)

	noLabel := strings.Replace(quadPLY, "property int label", "property int other", 1)
	_, err = LabelMesh(readString(t, noLabel))
	assert.Error(t, err)
}

func TestFloatColors(t *testing.T) {
	f := readString(t, `ply
format ascii 1.0
element vertex 1
property double x
property double y
property double z
property float red
property float green
property float blue
end_header
1 2 3 1.0 0.5 0
`)
	colors, err := ReadColors(f)
	require.NoError(t, err)
	assert.Equal(t, []voxel.Color{{255, 128, 0}}, colors)
}

func TestReadGeometryErrors(t *testing.T) {
	noZ := `ply
format ascii 1.0
element vertex 1
property float x
property float y
end_header
1 2
`
	_, err := ReadGeometry(readString(t, noZ))
	assert.Error(t, err)

	badIndex := strings.Replace(quadPLY, "4 0 1 2 3", "4 0 1 2 7", 1)
	_, err = ReadGeometry(readString(t, badIndex))
	assert.Error(t, err)

	line := strings.Replace(quadPLY, "4 0 1 2 3", "2 0 1", 1)
	_, err = ReadGeometry(readString(t, line))
	assert.Error(t, err)

	_, err = ReadGeometry(&File{Data: map[string]*Columns{}})
	assert.Error(t, err)
}

func TestClassDictionary(t *testing.T) {
	d := NewClassDictionary()
	for i := 0; i < voxel.MaxClasses; i++ {
		id, err := d.Class(voxel.Color{i, 0, 0})
		require.NoError(t, err)
		require.Equal(t, voxel.Class(i+1), id)
	}
	id, err := d.Class(voxel.Color{7, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, voxel.Class(8), id)

	_, err = d.Class(voxel.Color{0, 1, 0})
	assert.Equal(t, ErrTooManyClasses, err)
	assert.Equal(t, voxel.MaxClasses, d.Len())
	assert.Len(t, d.Palette(), voxel.MaxClasses)
}

func TestClassMeshTooManyColors(t *testing.T) {
	var b strings.Builder
	const numColors = 257
	fmt.Fprintf(&b, "ply\nformat ascii 1.0\nelement vertex %d\n", numColors)
	b.WriteString("property float x\nproperty float y\nproperty float z\n")
	b.WriteString("property uchar red\nproperty uchar green\nproperty uchar blue\n")
	b.WriteString("element face 1\nproperty list uchar int vertex_indices\nend_header\n")
	for i := 0; i < numColors; i++ {
		fmt.Fprintf(&b, "%d 0 0 %d %d 0\n", i, i%256, i/256)
	}
	b.WriteString("3 0 1 2\n")

	path := filepath.Join(t.TempDir(), "colors.ply")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	f, err := ReadFile(path)
	require.NoError(t, err)

	_, _, err = ClassMesh(f)
	require.Error(t, err)
	assert.Equal(t, ErrTooManyClasses, errors.Cause(err))
	assert.True(t, errors.Is(err, ErrTooManyClasses))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.ply"))
	assert.Error(t, err)
}
