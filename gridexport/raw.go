package gridexport

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/drethage/ClassyVoxelizer/voxel"
)

// WriteRAW writes one line of text per cell, in storage
// order.
//
// Color cells are written as "r g b" and class cells as
// their id.
func WriteRAW[A voxel.Attribute[A]](w io.Writer, g *voxel.Grid[A]) error {
	bw := bufio.NewWriter(w)
	for _, v := range g.Values() {
		switch v := any(v).(type) {
		case voxel.Color:
			fmt.Fprintf(bw, "%d %d %d\n", v[0], v[1], v[2])
		case voxel.Class:
			fmt.Fprintf(bw, "%d\n", v)
		default:
			fmt.Fprintln(bw, v)
		}
	}
	return errors.Wrap(bw.Flush(), "write raw")
}

// SaveRAW writes a RAW file to disk.
// If the path ends in ".zst", the text is zstd compressed.
func SaveRAW[A voxel.Attribute[A]](path string, g *voxel.Grid[A]) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save raw")
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "save raw")
		}
	}()

	if !strings.HasSuffix(strings.ToLower(path), ".zst") {
		return WriteRAW(f, g)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errors.Wrap(err, "save raw")
	}
	if err := WriteRAW(enc, g); err != nil {
		enc.Close()
		return err
	}
	return errors.Wrap(enc.Close(), "save raw")
}
