// pkg/physics/bound.go
package physics

import (
	"errors"
	"fmt"
)

// ErrNegativeExtent is returned when a bound is built with a negative width or height
var ErrNegativeExtent = errors.New("bound extents must be non-negative")

// Bound is an axis-aligned rectangle anchored at its top-left corner.
// Arenas are Bounds; each ball keeps its own copy for wall tests.
type Bound struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewBound creates a bound, rejecting negative extents
func NewBound(x, y, width, height float64) (Bound, error) {
	if width < 0 || height < 0 {
		return Bound{}, fmt.Errorf("invalid bound %vx%v: %w", width, height, ErrNegativeExtent)
	}
	return Bound{X: x, Y: y, Width: width, Height: height}, nil
}

// Right returns the x coordinate of the right edge
func (b Bound) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the y coordinate of the bottom edge
func (b Bound) Bottom() float64 {
	return b.Y + b.Height
}

// Center returns the midpoint of the bound
func (b Bound) Center() Vector2D {
	return Vector2D{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains reports whether point lies inside the bound (edges inclusive)
func (b Bound) Contains(point Vector2D) bool {
	return point.X >= b.X && point.X <= b.Right() &&
		point.Y >= b.Y && point.Y <= b.Bottom()
}

// ContainsCircle reports whether the whole circle lies inside the bound
func (b Bound) ContainsCircle(c Circle) bool {
	return c.Center.X-c.Radius >= b.X && c.Center.X+c.Radius <= b.Right() &&
		c.Center.Y-c.Radius >= b.Y && c.Center.Y+c.Radius <= b.Bottom()
}
