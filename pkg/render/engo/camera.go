// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-bumpers/pkg/physics"
	"github.com/opd-ai/go-bumpers/pkg/render"
)

// Zoom limits, in world units across the reference viewport dimension
const (
	MinZoom = 200.0
	MaxZoom = 5000.0
)

// CameraSystem keeps the view centered on the player. The control vector is
// measured from the viewport center, so the focus snaps to the target unless
// smoothing is explicitly enabled.
type CameraSystem struct {
	camera render.Camera

	target    physics.Vector2D
	targetSet bool

	followSpeed float64
	smoothing   bool

	currentPos physics.Vector2D
}

// NewCameraSystem creates a camera system for a viewport of the given size
func NewCameraSystem(width, height, zoom float64) *CameraSystem {
	return &CameraSystem{
		camera:      render.NewCamera(width, height, zoom),
		followSpeed: 8.0,
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update follows the target and applies zoom input
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()
	cs.SetViewport(float64(engo.GameWidth()), float64(engo.GameHeight()))
	cs.follow(float64(dt))
}

// handleZoomInput processes the mouse wheel and the reset key
func (cs *CameraSystem) handleZoomInput() {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.camera.Zoom * (1 - float64(scrollY)*0.1))
	}
	if engo.Input.Button(ButtonResetZoom).JustPressed() {
		cs.SetZoom(render.DefaultZoom)
	}
}

// follow moves the focus toward the target
func (cs *CameraSystem) follow(dt float64) {
	if !cs.targetSet {
		return
	}
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}
	step := min(cs.followSpeed*dt, 1)
	cs.currentPos = cs.currentPos.Add(cs.target.Sub(cs.currentPos).Scale(step))
}

// SetTarget sets the position the camera follows
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	first := !cs.targetSet
	cs.target = target
	cs.targetSet = true
	if first || !cs.smoothing {
		cs.currentPos = target
	}
}

// ClearTarget stops following
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetViewport resizes the viewport, ignoring empty sizes
func (cs *CameraSystem) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	cs.camera.ViewportWidth = width
	cs.camera.ViewportHeight = height
}

// SetZoom sets the zoom, clamped to [MinZoom, MaxZoom]
func (cs *CameraSystem) SetZoom(zoom float64) {
	cs.camera.Zoom = min(max(zoom, MinZoom), MaxZoom)
}

// GetZoom returns the current zoom
func (cs *CameraSystem) GetZoom() float64 {
	return cs.camera.Zoom
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// Camera returns the underlying viewport camera
func (cs *CameraSystem) Camera() render.Camera {
	return cs.camera
}

// GetCurrentPosition returns the current focus
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// WorldToScreen converts world coordinates to screen coordinates
func (cs *CameraSystem) WorldToScreen(worldPos physics.Vector2D) physics.Vector2D {
	return cs.camera.WorldToScreen(worldPos, cs.currentPos)
}

// ScreenToWorld converts screen coordinates to world coordinates
func (cs *CameraSystem) ScreenToWorld(screenPos physics.Vector2D) physics.Vector2D {
	return cs.camera.ScreenToWorld(screenPos, cs.currentPos)
}

// ScaleLength converts a world length to screen pixels
func (cs *CameraSystem) ScaleLength(length float64) float64 {
	return cs.camera.ScaleLength(length)
}
