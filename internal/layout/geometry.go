// internal/layout/geometry.go
package layout

import "github.com/Ancillary-AGI/titan/internal/style"

// Point is a position in viewport pixels.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in viewport pixels.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle positioned in viewport coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether the point lies inside the rectangle. The top and
// left edges are inclusive, the bottom and right edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width && other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height && other.Y < r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// ExpandedBy grows the rectangle outward by the given edges.
func (r Rect) ExpandedBy(e style.Edges) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Horizontal(),
		Height: r.Height + e.Vertical(),
	}
}
