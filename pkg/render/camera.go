package render

import "github.com/opd-ai/go-bumpers/pkg/physics"

// DefaultZoom is the number of world units that span the reference
// viewport dimension at scale 1.
const DefaultZoom = 1000.0

// Camera maps world coordinates onto a viewport centered on a focus point.
// The reference dimension is the larger of the viewport height and the
// height a 16:9 viewport of the same width would have, so widening a window
// past 16:9 zooms in rather than revealing more arena.
type Camera struct {
	ViewportWidth  float64
	ViewportHeight float64
	Zoom           float64
}

// NewCamera creates a camera for a viewport of the given size
func NewCamera(width, height, zoom float64) Camera {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return Camera{ViewportWidth: width, ViewportHeight: height, Zoom: zoom}
}

// FitCamera returns a camera whose scale shows the whole arena inside the viewport
func FitCamera(width, height float64, arena physics.Bound) Camera {
	c := Camera{ViewportWidth: width, ViewportHeight: height, Zoom: DefaultZoom}
	if arena.Width <= 0 || arena.Height <= 0 || width <= 0 || height <= 0 {
		return c
	}
	fit := min(width/arena.Width, height/arena.Height)
	c.Zoom = c.reference() / fit
	return c
}

func (c Camera) reference() float64 {
	return max(c.ViewportHeight, c.ViewportWidth*9/16)
}

// Scale returns screen pixels per world unit
func (c Camera) Scale() float64 {
	if c.Zoom <= 0 {
		return c.reference() / DefaultZoom
	}
	return c.reference() / c.Zoom
}

// Center returns the viewport center in screen coordinates
func (c Camera) Center() physics.Vector2D {
	return physics.Vector2D{X: c.ViewportWidth / 2, Y: c.ViewportHeight / 2}
}

// WorldToScreen converts a world position to screen coordinates with focus
// drawn at the viewport center.
func (c Camera) WorldToScreen(world, focus physics.Vector2D) physics.Vector2D {
	return world.Sub(focus).Scale(c.Scale()).Add(c.Center())
}

// ScreenToWorld is the inverse of WorldToScreen
func (c Camera) ScreenToWorld(screen, focus physics.Vector2D) physics.Vector2D {
	return screen.Sub(c.Center()).Scale(1 / c.Scale()).Add(focus)
}

// ScaleLength converts a world length to screen pixels
func (c Camera) ScaleLength(length float64) float64 {
	return length * c.Scale()
}

// ControlVector turns a pointer position into the player control vector:
// the offset of the pointer from the viewport center, in screen pixels.
func (c Camera) ControlVector(pointer physics.Vector2D) physics.Vector2D {
	return pointer.Sub(c.Center())
}
