// Command grid_to_stl converts a voxel point file, as
// written by voxelize_ply, into a triangle mesh and saves
// it as an STL file.
//
// The cell size must match the one used for voxelization,
// since point files only store cell centers.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"

	"github.com/drethage/ClassyVoxelizer/meshload"
)

func main() {
	var threshold float64
	var cellSize float64
	flag.Float64Var(&threshold, "threshold", 0.5, "minimum value for containment")
	flag.Float64Var(&cellSize, "cell-size", 0, "edge length of the voxels in the input")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags] <input.ply> <output.stl>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()
	if len(flag.Args()) != 2 || cellSize <= 0 {
		flag.Usage()
	}

	f, err := meshload.ReadFile(flag.Args()[0])
	essentials.Must(err)
	grid, err := NewVoxelGrid(f, cellSize)
	essentials.Must(err)
	grid.Threshold = threshold

	log.Printf("Meshing %dx%dx%d grid ...", grid.Dims[0], grid.Dims[1], grid.Dims[2])
	mesh := model3d.MarchingCubesSearch(grid, cellSize/2, 8)
	essentials.Must(mesh.SaveGroupedSTL(flag.Args()[1]))
}
