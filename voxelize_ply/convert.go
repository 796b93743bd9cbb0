package main

import (
	"log"

	"github.com/pkg/errors"

	"github.com/drethage/ClassyVoxelizer/config"
	"github.com/drethage/ClassyVoxelizer/gridexport"
	"github.com/drethage/ClassyVoxelizer/meshload"
	"github.com/drethage/ClassyVoxelizer/voxel"
)

// ConvertModel voxelizes one PLY mesh and saves the grid in
// the format implied by outPath.
func ConvertModel(inPath, outPath string, cfg *config.Config) error {
	log.Println("Converting", inPath, "...")

	f, err := meshload.ReadFile(inPath)
	if err != nil {
		return err
	}

	switch mode := cfg.GetMode(); mode {
	case meshload.ModeColor:
		mesh, err := meshload.ColorMesh(f)
		if err != nil {
			return err
		}
		grid, err := VoxelizeMesh(mesh, cfg, voxel.NoColor)
		if err != nil {
			return err
		}
		return gridexport.SaveColorGrid(outPath, grid, cfg.ExportOptions())
	case meshload.ModeColorClass, meshload.ModeLabel:
		var mesh *voxel.Mesh[voxel.Class]
		var palette []voxel.Color
		if mode == meshload.ModeLabel {
			mesh, err = meshload.LabelMesh(f)
		} else {
			mesh, palette, err = meshload.ClassMesh(f)
		}
		if err != nil {
			return err
		}
		if palette != nil {
			log.Println("  found", len(palette), "classes")
		}
		grid, err := VoxelizeMesh(mesh, cfg, voxel.NoClass)
		if err != nil {
			return err
		}
		return gridexport.SaveClassGrid(outPath, grid, palette, cfg.ExportOptions())
	default:
		return errors.Errorf("unsupported mode: %s", mode)
	}
}

// VoxelizeMesh creates a grid around the mesh and fills it
// with the mesh's attributes.
func VoxelizeMesh[A voxel.Attribute[A]](m *voxel.Mesh[A], cfg *config.Config,
	empty A) (*voxel.Grid[A], error) {
	cellSize := cfg.GetCellSize()
	bounds, err := voxel.MeshBounds(m.Vertices, cellSize)
	if err != nil {
		return nil, err
	}
	grid, err := voxel.NewGrid(bounds.Min, bounds.Max, cellSize, empty)
	if err != nil {
		return nil, err
	}
	log.Printf("  grid of %dx%dx%d cells", grid.Dims[0], grid.Dims[1], grid.Dims[2])

	v := voxel.NewVoxelizer(m, grid)
	v.MinTriangleArea = cfg.GetMinTriangleArea()
	if _, err := v.Run(); err != nil {
		return nil, err
	}
	s := v.Stats
	log.Printf("  split %d faces into %d (%d midpoints, %d degenerate)", s.Faces,
		s.TerminalFaces, s.Midpoints, s.Degenerate)
	if s.DroppedWrites > 0 {
		log.Printf("  dropped %d writes outside of the grid", s.DroppedWrites)
	}
	log.Printf("  %d of %d cells occupied (checksum %016x)", grid.CountOccupied(), grid.Len(),
		grid.Checksum())
	return grid, nil
}
