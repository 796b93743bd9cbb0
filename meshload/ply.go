package meshload

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/fileformats"
)

const maxPrealloc = 1 << 20

// A File holds every row of a PLY file, grouped into one
// column per property.
type File struct {
	Header fileformats.PLYHeader
	Data   map[string]*Columns
}

// Columns holds the values of one element.
//
// Scalar properties are stored in Scalars and list
// properties in Lists, both converted to float64.
type Columns struct {
	Element *fileformats.PLYElement
	Scalars map[string][]float64
	Lists   map[string][][]float64
}

func newColumns(e *fileformats.PLYElement) *Columns {
	n := int(e.Count)
	if e.Count > maxPrealloc {
		n = maxPrealloc
	}
	c := &Columns{
		Element: e,
		Scalars: map[string][]float64{},
		Lists:   map[string][][]float64{},
	}
	for _, p := range e.Properties {
		if p.LenType == fileformats.PLYPropertyTypeNone {
			c.Scalars[p.Name] = make([]float64, 0, n)
		} else {
			c.Lists[p.Name] = make([][]float64, 0, n)
		}
	}
	return c
}

// Property finds a property of the element by name.
func (c *Columns) Property(name string) *fileformats.PLYProperty {
	for _, p := range c.Element.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Len gets the number of rows that were read.
func (c *Columns) Len() int {
	for _, p := range c.Element.Properties {
		if p.LenType == fileformats.PLYPropertyTypeNone {
			return len(c.Scalars[p.Name])
		}
		return len(c.Lists[p.Name])
	}
	return 0
}

// ReadFile reads and decodes a PLY file from disk.
func ReadFile(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadPLY(r)
}

// ReadPLY decodes a PLY file in any of the three formats.
//
// Elements which are not used by a mesh are still decoded
// so that later elements can be reached. Elements with a
// count of zero take up no rows.
func ReadPLY(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(4); err != nil || string(magic[:3]) != "ply" ||
		(magic[3] != '\n' && magic[3] != '\r') {
		return nil, errors.New("read ply: missing ply magic number")
	}
	header, err := fileformats.NewPLYHeaderRead(br)
	if err != nil {
		return nil, errors.Wrap(err, "read ply")
	}
	f := &File{Header: *header, Data: map[string]*Columns{}}
	for _, e := range header.Elements {
		if e.Count < 0 {
			return nil, errors.Errorf("read ply: element %s has negative count", e.Name)
		}
		cols := newColumns(e)
		f.Data[e.Name] = cols
		for i := int64(0); i < e.Count; i++ {
			row, err := readRow(br, header.Format, e)
			if err != nil {
				return nil, errors.Wrapf(err, "read ply: element %s row %d", e.Name, i)
			}
			if err := cols.appendRow(row); err != nil {
				return nil, errors.Wrapf(err, "read ply: element %s row %d", e.Name, i)
			}
		}
	}
	return f, nil
}

func readRow(r *bufio.Reader, format fileformats.PLYFormat,
	e *fileformats.PLYElement) ([]fileformats.PLYValue, error) {
	switch format {
	case fileformats.PLYFormatBinaryLittle:
		return e.DecodeInstanceBinary(binary.LittleEndian, r)
	case fileformats.PLYFormatBinaryBig:
		return e.DecodeInstanceBinary(binary.BigEndian, r)
	}
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if line == "" || strings.HasPrefix(line, "comment") {
			continue
		}
		return e.DecodeInstanceString(line)
	}
}

func (c *Columns) appendRow(row []fileformats.PLYValue) error {
	for i, p := range c.Element.Properties {
		if p.LenType == fileformats.PLYPropertyTypeNone {
			x, err := Number(row[i])
			if err != nil {
				return err
			}
			c.Scalars[p.Name] = append(c.Scalars[p.Name], x)
			continue
		}
		list, ok := row[i].(fileformats.PLYValueList)
		if !ok {
			return errors.Errorf("property %s is not a list", p.Name)
		}
		values := make([]float64, len(list.Values))
		for j, v := range list.Values {
			x, err := Number(v)
			if err != nil {
				return err
			}
			values[j] = x
		}
		c.Lists[p.Name] = append(c.Lists[p.Name], values)
	}
	return nil
}

// Number converts a scalar PLY value to a float64.
func Number(v fileformats.PLYValue) (float64, error) {
	switch v := v.(type) {
	case fileformats.PLYValueInt8:
		return float64(v.Value), nil
	case fileformats.PLYValueUint8:
		return float64(v.Value), nil
	case fileformats.PLYValueInt16:
		return float64(v.Value), nil
	case fileformats.PLYValueUint16:
		return float64(v.Value), nil
	case fileformats.PLYValueInt32:
		return float64(v.Value), nil
	case fileformats.PLYValueUint32:
		return float64(v.Value), nil
	case fileformats.PLYValueInt64:
		return float64(v.Value), nil
	case fileformats.PLYValueUint64:
		return float64(v.Value), nil
	case fileformats.PLYValueFloat32:
		return float64(v.Value), nil
	case fileformats.PLYValueFloat64:
		return v.Value, nil
	}
	return 0, errors.Errorf("unsupported PLY value: %T", v)
}
