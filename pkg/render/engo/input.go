// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// Button names registered by SetupInputBindings
const (
	ButtonBoost     = "boost"
	ButtonDebug     = "debug"
	ButtonResetZoom = "resetZoom"
	ButtonQuit      = "quit"
)

// InputSystem samples the pointer and boost button once per frame
type InputSystem struct {
	camera *CameraSystem

	pointer    physics.Vector2D
	mouseDown  bool
	keyBoost   bool
	debugFlips int
	quit       bool
}

// NewInputSystem creates an input system measuring the pointer against camera
func NewInputSystem(camera *CameraSystem) *InputSystem {
	return &InputSystem{camera: camera}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reads the engo input state
func (is *InputSystem) Update(dt float32) {
	mouse := engo.Input.Mouse
	is.pointer = physics.Vector2D{X: float64(mouse.X), Y: float64(mouse.Y)}
	if mouse.Button == engo.MouseButtonLeft {
		switch mouse.Action {
		case engo.Press:
			is.mouseDown = true
		case engo.Release:
			is.mouseDown = false
		}
	}

	is.keyBoost = engo.Input.Button(ButtonBoost).Down()
	if engo.Input.Button(ButtonDebug).JustPressed() {
		is.debugFlips++
	}
	if engo.Input.Button(ButtonQuit).JustPressed() {
		is.quit = true
	}
}

// Input returns the control for the frame: the pointer offset from the
// viewport center, with boost held by the left button or the boost key.
func (is *InputSystem) Input() entity.ControlInput {
	return entity.ControlInput{
		Control:      is.camera.Camera().ControlVector(is.pointer),
		BoostTrigger: is.mouseDown || is.keyBoost,
	}
}

// TakeDebugToggle reports whether the debug overlay should flip, once per press
func (is *InputSystem) TakeDebugToggle() bool {
	if is.debugFlips == 0 {
		return false
	}
	is.debugFlips--
	return true
}

// QuitRequested reports whether the quit key was pressed
func (is *InputSystem) QuitRequested() bool {
	return is.quit
}

// SetupInputBindings registers the scene's key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonBoost, engo.KeySpace, engo.KeyLeftShift)
	engo.Input.RegisterButton(ButtonDebug, engo.KeyF3)
	engo.Input.RegisterButton(ButtonResetZoom, engo.KeyR)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape)
}
