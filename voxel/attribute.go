package voxel

// An Attribute is a per-vertex value that can be stored in
// a Grid.
type Attribute[A any] interface {
	comparable

	// Occupied returns false for the value which marks a
	// cell that was never written.
	Occupied() bool

	// Mid computes the attribute of a new vertex halfway
	// between a vertex with this attribute and a vertex
	// with other.
	//
	// The voxelizer always calls Mid on the endpoint with
	// the lower vertex index.
	Mid(other A) A
}

// Color is an RGB vertex color.
type Color [3]int

// NoColor is the empty value of a color Grid.
var NoColor = Color{-1, -1, -1}

// Occupied checks if any channel is set.
func (c Color) Occupied() bool {
	return c[0] != -1 || c[1] != -1 || c[2] != -1
}

// Mid averages the two colors per channel, truncating.
func (c Color) Mid(other Color) Color {
	return Color{
		(c[0] + other[0]) / 2,
		(c[1] + other[1]) / 2,
		(c[2] + other[2]) / 2,
	}
}

// RGB clamps the color into byte channels.
func (c Color) RGB() [3]uint8 {
	var res [3]uint8
	for i, x := range c {
		if x < 0 {
			x = 0
		} else if x > 255 {
			x = 255
		}
		res[i] = uint8(x)
	}
	return res
}

// Class is a discrete class label.
//
// Zero is reserved for unset cells, so a Grid holds at
// most MaxClasses distinct labels.
type Class uint8

// NoClass is the empty value of a class Grid.
const NoClass Class = 0

// MaxClasses is the number of usable class ids (1..255).
const MaxClasses = 255

// Occupied checks if the class is not NoClass.
func (c Class) Occupied() bool {
	return c != NoClass
}

// Mid keeps the receiver's class, so a midpoint inherits
// the class of the lower-index endpoint of the split edge.
func (c Class) Mid(other Class) Class {
	return c
}
