package gridexport

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/drethage/ClassyVoxelizer/voxel"
)

// Format is an output file type.
type Format int

const (
	FormatPLY Format = iota
	FormatRAW
	FormatCompressedRAW
	FormatNumpy
	FormatGLB
)

// Extension gets the file extension written for a format.
func (f Format) Extension() string {
	switch f {
	case FormatPLY:
		return ".ply"
	case FormatRAW:
		return ".raw"
	case FormatCompressedRAW:
		return ".raw.zst"
	case FormatNumpy:
		return ".npz"
	case FormatGLB:
		return ".glb"
	}
	return ""
}

// ParseFormat parses a format name, with or without a
// leading dot.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	switch name {
	case "ply":
		return FormatPLY, nil
	case "raw":
		return FormatRAW, nil
	case "raw.zst":
		return FormatCompressedRAW, nil
	case "npz", "numpy":
		return FormatNumpy, nil
	case "glb", "gltf":
		return FormatGLB, nil
	}
	return 0, errors.Errorf("unknown output format: %s", name)
}

// FormatForPath picks a format from a file extension.
//
// Only RAW files may carry the ".zst" suffix.
func FormatForPath(path string) (Format, error) {
	path = strings.ToLower(path)
	if strings.HasSuffix(path, ".raw.zst") {
		return FormatCompressedRAW, nil
	}
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, errors.Errorf("no file extension: %s", path)
	}
	return ParseFormat(ext)
}

// SaveColorGrid saves a color grid in the format implied by
// the path.
func SaveColorGrid(path string, g *voxel.Grid[voxel.Color], opts Options) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatRAW, FormatCompressedRAW:
		return SaveRAW(path, g)
	case FormatNumpy:
		return SaveNumpy(path, ColorArray(g))
	case FormatGLB:
		return saveFile(path, func(w *bufio.Writer) error {
			return WriteColorGLB(w, g)
		})
	default:
		return saveFile(path, func(w *bufio.Writer) error {
			return WriteColorPLY(w, g, opts)
		})
	}
}

// SaveClassGrid saves a class grid in the format implied by
// the path.
//
// The palette may be nil for grids of raw labels.
func SaveClassGrid(path string, g *voxel.Grid[voxel.Class], palette []voxel.Color,
	opts Options) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatRAW, FormatCompressedRAW:
		return SaveRAW(path, g)
	case FormatNumpy:
		return SaveNumpy(path, ClassArray(g))
	case FormatGLB:
		return saveFile(path, func(w *bufio.Writer) error {
			return WriteClassGLB(w, g, palette)
		})
	default:
		return saveFile(path, func(w *bufio.Writer) error {
			return WriteClassPLY(w, g, palette, opts)
		})
	}
}

func saveFile(path string, write func(w *bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save grid")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "save grid")
	}
	return errors.Wrap(f.Close(), "save grid")
}
