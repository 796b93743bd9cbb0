// Command voxelize_ply converts colored or labeled PLY
// meshes into voxel grids.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/unixpickle/essentials"

	"github.com/drethage/ClassyVoxelizer/config"
)

func main() {
	var configPath string
	var mode string
	var format string
	var dense bool
	var ascii bool
	var minArea float64

	flag.StringVar(&configPath, "config", "", "optional JSON file with default settings")
	flag.StringVar(&mode, "mode", "class", "vertex attribute to voxelize: class, color or label")
	flag.StringVar(&format, "format", "ply", "output format for directories: ply, raw, npz or glb")
	flag.BoolVar(&dense, "dense", false, "export every cell, not only occupied ones")
	flag.BoolVar(&ascii, "ascii", false, "write ascii instead of binary PLY files")
	flag.Float64Var(&minArea, "min-area", 1e-5, "triangle area below which faces are not split")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags] <input> <output> [cell_size]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "If <input> is a directory, every .ply file inside of it is")
		fmt.Fprintln(os.Stderr, "converted into the same relative path under <output>.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()
	if len(flag.Args()) != 2 && len(flag.Args()) != 3 {
		flag.Usage()
	}

	cfg := &config.Config{}
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		essentials.Must(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = config.String(mode)
		case "format":
			cfg.Format = config.String(format)
		case "dense":
			cfg.Dense = config.Bool(dense)
		case "ascii":
			cfg.ASCII = config.Bool(ascii)
		case "min-area":
			cfg.MinTriangleArea = config.Float64(minArea)
		}
	})
	if len(flag.Args()) == 3 {
		cellSize, err := strconv.ParseFloat(flag.Args()[2], 64)
		if err != nil {
			essentials.Die("invalid cell size:", flag.Args()[2])
		}
		cfg.CellSize = config.Float64(cellSize)
	}
	if cfg.CellSize == nil {
		essentials.Die("no cell size given as an argument or in the config")
	}
	essentials.Must(cfg.Validate())

	inPath := flag.Args()[0]
	outPath := flag.Args()[1]

	info, err := os.Stat(inPath)
	essentials.Must(err)
	if !info.IsDir() {
		essentials.Must(ConvertModel(inPath, outPath, cfg))
		return
	}
	essentials.Must(ConvertDir(inPath, outPath, cfg))
}

// ConvertDir converts every PLY file in a directory tree,
// mirroring the tree under outDir.
func ConvertDir(inDir, outDir string, cfg *config.Config) error {
	ext := cfg.GetFormat().Extension()
	return filepath.Walk(inDir, func(inPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(inDir, inPath)
		essentials.Must(err)
		outPath := filepath.Join(outDir, relPath)

		if info.IsDir() {
			return os.MkdirAll(outPath, 0755)
		}

		if strings.ToLower(filepath.Ext(inPath)) == ".ply" {
			outPath = outPath[:len(outPath)-len(filepath.Ext(outPath))] + ext
			return essentials.AddCtx(inPath, ConvertModel(inPath, outPath, cfg))
		}
		return nil
	})
}
