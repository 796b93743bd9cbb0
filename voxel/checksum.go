package voxel

import (
	"encoding/binary"
	"fmt"
	"math"

	xxhash "github.com/cespare/xxhash/v2"
)

// Checksum hashes the grid's geometry and cell values.
//
// Two grids with the same bounds, cell size and contents
// always have the same checksum.
func (g *Grid[A]) Checksum() uint64 {
	h := xxhash.New()
	var buf [8]byte
	putFloat := func(x float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		h.Write(buf[:])
	}
	for _, c := range []float64{g.Min.X, g.Min.Y, g.Min.Z, g.Max.X, g.Max.Y, g.Max.Z, g.CellSize} {
		putFloat(c)
	}
	for _, d := range g.Dims {
		binary.LittleEndian.PutUint64(buf[:], uint64(d))
		h.Write(buf[:])
	}
	for _, v := range g.values {
		writeValue(h, v)
	}
	return h.Sum64()
}

func writeValue(h *xxhash.Digest, v any) {
	var buf [8]byte
	switch v := v.(type) {
	case Color:
		for _, c := range v {
			binary.LittleEndian.PutUint32(buf[:4], uint32(int32(c)))
			h.Write(buf[:4])
		}
	case Class:
		buf[0] = byte(v)
		h.Write(buf[:1])
	default:
		fmt.Fprint(h, v, ";")
	}
}
