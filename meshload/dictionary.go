package meshload

import (
	"github.com/pkg/errors"

	"github.com/drethage/ClassyVoxelizer/voxel"
)

// ErrTooManyClasses is returned when a mesh has more
// distinct colors than there are class ids.
var ErrTooManyClasses = errors.Errorf("more than %d classes", voxel.MaxClasses)

// A ClassDictionary assigns class ids to colors in the
// order they are first seen.
//
// Ids start at 1; 0 is left for unset cells.
type ClassDictionary struct {
	ids    map[voxel.Color]voxel.Class
	colors []voxel.Color
}

// NewClassDictionary creates an empty dictionary.
func NewClassDictionary() *ClassDictionary {
	return &ClassDictionary{ids: map[voxel.Color]voxel.Class{}}
}

// Class gets the id of a color, adding it if necessary.
func (c *ClassDictionary) Class(color voxel.Color) (voxel.Class, error) {
	if id, ok := c.ids[color]; ok {
		return id, nil
	}
	if len(c.colors) >= voxel.MaxClasses {
		return voxel.NoClass, ErrTooManyClasses
	}
	c.colors = append(c.colors, color)
	id := voxel.Class(len(c.colors))
	c.ids[color] = id
	return id, nil
}

// Len gets the number of classes.
func (c *ClassDictionary) Len() int {
	return len(c.colors)
}

// Palette gets the color of each class, where class i is
// at index i-1.
func (c *ClassDictionary) Palette() []voxel.Color {
	return append([]voxel.Color{}, c.colors...)
}
