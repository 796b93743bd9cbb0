package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"

	"github.com/drethage/ClassyVoxelizer/gridexport"
	"github.com/drethage/ClassyVoxelizer/meshload"
	"github.com/drethage/ClassyVoxelizer/voxel"
)

func exportedFile(t *testing.T, dense bool) *meshload.File {
	g, err := voxel.NewColorGrid(voxel.Bounds{Max: model3d.XYZ(4, 4, 4)}, 1)
	require.NoError(t, err)
	for _, c := range []voxel.VoxelCoord{{1, 1, 1}, {2, 1, 1}} {
		idx, ok := g.Index(c)
		require.True(t, ok)
		g.Set(idx, voxel.Color{200, 10, 10})
	}
	var buf bytes.Buffer
	require.NoError(t, gridexport.WriteColorPLY(&buf, g, gridexport.Options{Dense: dense}))
	f, err := meshload.ReadPLY(&buf)
	require.NoError(t, err)
	return f
}

func TestNewVoxelGrid(t *testing.T) {
	for _, dense := range []bool{false, true} {
		grid, err := NewVoxelGrid(exportedFile(t, dense), 1)
		require.NoError(t, err)
		assert.Equal(t, [3]int{4, 3, 3}, grid.Dims)
		assert.Equal(t, model3d.XYZ(0, 0, 0), grid.Min())
		assert.Equal(t, model3d.XYZ(4, 3, 3), grid.Max())

		assert.True(t, grid.Contains(model3d.XYZ(1.5, 1.5, 1.5)))
		assert.True(t, grid.Contains(model3d.XYZ(2.5, 1.5, 1.5)))
		assert.True(t, grid.Contains(model3d.XYZ(2, 1.5, 1.5)))
		assert.False(t, grid.Contains(model3d.XYZ(0.5, 1.5, 1.5)))
		assert.False(t, grid.Contains(model3d.XYZ(2, 2.5, 1.5)))
		assert.InDelta(t, 0.5, grid.Interp(model3d.XYZ(1.5, 2, 1.5)), 1e-8)
	}
}

func TestNewVoxelGridErrors(t *testing.T) {
	f := exportedFile(t, false)
	_, err := NewVoxelGrid(f, 0)
	assert.Error(t, err)

	labels, err := voxel.NewClassGrid(voxel.Bounds{Max: model3d.XYZ(2, 2, 2)}, 1)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, gridexport.WriteClassPLY(&buf, labels, nil, gridexport.Options{Dense: true}))
	empty, err := meshload.ReadPLY(&buf)
	require.NoError(t, err)
	_, err = NewVoxelGrid(empty, 1)
	assert.Error(t, err)
}

func TestMarchingCubes(t *testing.T) {
	grid, err := NewVoxelGrid(exportedFile(t, false), 1)
	require.NoError(t, err)
	mesh := model3d.MarchingCubesSearch(grid, 0.5, 8)
	assert.NotEmpty(t, mesh.TriangleSlice())
}
