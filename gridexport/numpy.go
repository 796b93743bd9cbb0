package gridexport

import (
	"archive/zip"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/drethage/ClassyVoxelizer/voxel"
)

// NumpyArray is an array ready to be saved as a .npy file.
type NumpyArray struct {
	// Descr is the numpy dtype string, such as "|u1".
	Descr string

	// Shape is the C-order shape of the array.
	Shape []int

	// Data holds the raw array elements.
	Data []byte
}

// ClassArray stores class ids as a (dz, dy, dx) array of
// uint8.
func ClassArray(g *voxel.Grid[voxel.Class]) *NumpyArray {
	values := g.Values()
	data := make([]byte, len(values))
	for i, v := range values {
		data[i] = byte(v)
	}
	return &NumpyArray{Descr: "|u1", Shape: gridShape(g.Dims), Data: data}
}

// ColorArray stores colors as a (dz, dy, dx, 3) array of
// little-endian int16, with -1 in empty cells.
func ColorArray(g *voxel.Grid[voxel.Color]) *NumpyArray {
	values := g.Values()
	data := make([]byte, 0, len(values)*6)
	for _, v := range values {
		for _, x := range v {
			data = binary.LittleEndian.AppendUint16(data, uint16(int16(x)))
		}
	}
	return &NumpyArray{Descr: "<i2", Shape: append(gridShape(g.Dims), 3), Data: data}
}

// OccupancyArray stores a (dz, dy, dx) array of booleans.
func OccupancyArray[A voxel.Attribute[A]](g *voxel.Grid[A]) *NumpyArray {
	values := g.Values()
	data := make([]byte, len(values))
	for i, v := range values {
		if v.Occupied() {
			data[i] = 1
		}
	}
	return &NumpyArray{Descr: "|b1", Shape: gridShape(g.Dims), Data: data}
}

func gridShape(dims voxel.VoxelCoord) []int {
	return []int{dims[2], dims[1], dims[0]}
}

// EncodeNumpy encodes an array in the .npy format.
func EncodeNumpy(a *NumpyArray) []byte {
	shape := make([]string, len(a.Shape))
	for i, x := range a.Shape {
		shape[i] = fmt.Sprint(x)
	}
	shapeStr := strings.Join(shape, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}
	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", a.Descr,
		shapeStr)

	// The magic, version and length take 10 bytes, and the
	// whole header must be padded to a multiple of 64.
	headerLen := len(dict) + 1
	for (10+headerLen)%64 != 0 {
		headerLen++
	}
	header := []byte("\x93NUMPY\x01\x00")
	header = binary.LittleEndian.AppendUint16(header, uint16(headerLen))
	header = append(header, dict...)
	for len(header) < 10+headerLen-1 {
		header = append(header, ' ')
	}
	header = append(header, '\n')
	return append(header, a.Data...)
}

// SaveNumpy writes an .npz archive holding the array as
// "voxels.npy".
func SaveNumpy(path string, a *NumpyArray) error {
	w, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save numpy")
	}
	defer w.Close()
	zipWriter := zip.NewWriter(w)
	fileWriter, err := zipWriter.Create("voxels.npy")
	if err != nil {
		return errors.Wrap(err, "save numpy")
	}
	if _, err := fileWriter.Write(EncodeNumpy(a)); err != nil {
		return errors.Wrap(err, "save numpy")
	}
	if err := zipWriter.Close(); err != nil {
		return errors.Wrap(err, "save numpy")
	}
	return w.Close()
}
