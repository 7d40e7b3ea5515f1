// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package geom provides the integer grid geometry used by the circuit
// core: coordinates, directions, orientations and rectangles.
//
package geom

// Coords locates a single cell on the circuit board grid.
//
type Coords struct {
	X int32
	Y int32
}

// Add returns the cell at c offset by d.
func (c Coords) Add(d Delta) Coords {
	return Coords{X: c.X + d.X, Y: c.Y + d.Y}
}

// Sub returns the offset from o to c.
func (c Coords) Sub(o Coords) Delta {
	return Delta{X: c.X - o.X, Y: c.Y - o.Y}
}

// A Delta is an offset between two cells.
//
type Delta struct {
	X int32
	Y int32
}

// Add returns the sum of two offsets.
func (d Delta) Add(o Delta) Delta {
	return Delta{X: d.X + o.X, Y: d.Y + o.Y}
}

// Neg returns the opposite offset.
func (d Delta) Neg() Delta {
	return Delta{X: -d.X, Y: -d.Y}
}

// A Size is a width and height measured in cells.
//
type Size struct {
	Width  int32
	Height int32
}

// IsEmpty reports whether the size covers no cells.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Area returns the number of cells covered by the size.
func (s Size) Area() int32 {
	if s.IsEmpty() {
		return 0
	}
	return s.Width * s.Height
}

// A Rect is an axis-aligned rectangle of cells.
//
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// RectWithSize returns the rectangle with top-left corner tl covering sz.
func RectWithSize(tl Coords, sz Size) Rect {
	return Rect{X: tl.X, Y: tl.Y, Width: sz.Width, Height: sz.Height}
}

// TopLeft returns the rectangle's top-left cell.
func (r Rect) TopLeft() Coords {
	return Coords{X: r.X, Y: r.Y}
}

// Size returns the rectangle's size.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right returns the x coordinate just past the rectangle's right edge.
func (r Rect) Right() int32 { return r.X + r.Width }

// Bottom returns the y coordinate just past the rectangle's bottom edge.
func (r Rect) Bottom() int32 { return r.Y + r.Height }

// Contains reports whether cell c lies inside the rectangle.
func (r Rect) Contains(c Coords) bool {
	return c.X >= r.X && c.X < r.Right() && c.Y >= r.Y && c.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside the rectangle.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Right() <= r.Right() &&
		o.Y >= r.Y && o.Bottom() <= r.Bottom()
}

// Intersects reports whether the two rectangles share any cell.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Expand grows the rectangle by margin cells on every side.
func (r Rect) Expand(margin int32) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Cells calls fn for every cell in the rectangle, row by row.
func (r Rect) Cells(fn func(Coords)) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			fn(Coords{X: x, Y: y})
		}
	}
}
