package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drethage/ClassyVoxelizer/config"
	"github.com/drethage/ClassyVoxelizer/meshload"
	"github.com/drethage/ClassyVoxelizer/voxel"
)

const trianglePLY = `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
property uchar label
element face 1
property list uchar int vertex_indices
end_header
0 0 0 255 0 0 4
3 0 0 0 255 0 5
0 3 0 255 0 0 4
3 0 1 2
`

func writeMesh(t *testing.T, dir string) string {
	path := filepath.Join(dir, "mesh.ply")
	require.NoError(t, os.WriteFile(path, []byte(trianglePLY), 0644))
	return path
}

func TestConvertModel(t *testing.T) {
	dir := t.TempDir()
	inPath := writeMesh(t, dir)

	for _, mode := range []string{"class", "color", "label"} {
		t.Run(mode, func(t *testing.T) {
			cfg := &config.Config{
				CellSize: config.Float64(0.5),
				Mode:     config.String(mode),
				ASCII:    config.Bool(true),
			}
			outPath := filepath.Join(dir, mode+".ply")
			require.NoError(t, ConvertModel(inPath, outPath, cfg))

			f, err := meshload.ReadFile(outPath)
			require.NoError(t, err)
			v := f.Data["vertex"]
			assert.Greater(t, v.Len(), 3)
			if mode == "label" {
				assert.Contains(t, v.Scalars["label"], 5.0)
				assert.NotContains(t, v.Scalars["label"], 0.0)
			} else {
				assert.Contains(t, v.Scalars["green"], 255.0)
			}
		})
	}
}

func TestVoxelizeMesh(t *testing.T) {
	f, err := meshload.ReadFile(writeMesh(t, t.TempDir()))
	require.NoError(t, err)
	mesh, err := meshload.ColorMesh(f)
	require.NoError(t, err)

	cfg := &config.Config{CellSize: config.Float64(1)}
	grid, err := VoxelizeMesh(mesh, cfg, voxel.NoColor)
	require.NoError(t, err)
	for _, c := range []voxel.VoxelCoord{{1, 1, 1}, {4, 1, 1}, {1, 4, 1}} {
		idx, ok := grid.Index(c)
		require.True(t, ok)
		assert.True(t, grid.Occupied(idx), "cell %v", c)
	}

	_, err = VoxelizeMesh(mesh, &config.Config{}, voxel.NoColor)
	assert.Error(t, err)
}

func TestConvertDir(t *testing.T) {
	inDir := t.TempDir()
	nested := filepath.Join(inDir, "scenes", "a")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeMesh(t, nested)
	require.NoError(t, os.WriteFile(filepath.Join(nested, "notes.txt"), []byte("x"), 0644))

	outDir := filepath.Join(t.TempDir(), "out")
	cfg := &config.Config{CellSize: config.Float64(0.5), Format: config.String("npz")}
	require.NoError(t, ConvertDir(inDir, outDir, cfg))

	_, err := os.Stat(filepath.Join(outDir, "scenes", "a", "mesh.npz"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "scenes", "a", "notes.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertDirCompressedRAW(t *testing.T) {
	inDir := t.TempDir()
	writeMesh(t, inDir)

	outDir := t.TempDir()
	cfg := &config.Config{CellSize: config.Float64(0.5), Format: config.String("raw.zst")}
	require.NoError(t, ConvertDir(inDir, outDir, cfg))
	_, err := os.Stat(filepath.Join(outDir, "mesh.raw"))
	assert.True(t, os.IsNotExist(err))

	f, err := os.Open(filepath.Join(outDir, "mesh.raw.zst"))
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()
	data, err := io.ReadAll(dec)
	require.NoError(t, err)

	plainPath := filepath.Join(t.TempDir(), "mesh.raw")
	require.NoError(t, ConvertModel(filepath.Join(inDir, "mesh.ply"), plainPath, cfg))
	plain, err := os.ReadFile(plainPath)
	require.NoError(t, err)
	assert.NotEmpty(t, plain)
	assert.Equal(t, string(plain), string(data))
}
