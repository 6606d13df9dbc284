// pkg/render/engo/hud.go
package engo

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/go-bumpers/pkg/engine"
)

const hudFontURL = "goregular.ttf"

// HUDSystem draws a status line in the top-left corner, plus a debug
// block while the overlay is on.
type HUDSystem struct {
	renderSystem *common.RenderSystem
	font         *common.Font
	text         *sprite

	state  engine.State
	energy float64
	zoom   float64
	fps    float64
	debug  bool
}

// NewHUDSystem creates a HUD. renderSystem may be nil, in which case the HUD
// only tracks its lines.
func NewHUDSystem(renderSystem *common.RenderSystem) *HUDSystem {
	return &HUDSystem{renderSystem: renderSystem}
}

// LoadFont loads the bundled Go font. It needs a GL context.
func (hud *HUDSystem) LoadFont() error {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(goregular.TTF)); err != nil {
		return fmt.Errorf("failed to load HUD font: %w", err)
	}
	font := &common.Font{URL: hudFontURL, FG: HUDColor, Size: 16}
	if err := font.CreatePreloaded(); err != nil {
		return fmt.Errorf("failed to load HUD font: %w", err)
	}
	hud.font = font
	return nil
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the text entity
func (hud *HUDSystem) Update(dt float32) {
	if dt > 0 {
		hud.fps = 1 / float64(dt)
	}
	if hud.font == nil || hud.renderSystem == nil {
		return
	}
	if hud.text == nil {
		hud.text = &sprite{BasicEntity: ecs.NewBasic()}
		hud.text.SetZIndex(10)
		hud.text.SetShader(common.HUDShader)
		hud.text.Position = engo.Point{X: 10, Y: 10}
		hud.renderSystem.Add(&hud.text.BasicEntity, &hud.text.RenderComponent, &hud.text.SpaceComponent)
	}
	hud.text.Drawable = common.Text{Font: hud.font, Text: strings.Join(hud.Lines(), "\n")}
}

// UpdateState records the latest snapshot for display
func (hud *HUDSystem) UpdateState(state engine.State, energy, zoom float64) {
	hud.state = state
	hud.energy = energy
	hud.zoom = zoom
}

// ToggleDebug flips the debug overlay
func (hud *HUDSystem) ToggleDebug() {
	hud.debug = !hud.debug
}

// SetDebug sets the debug overlay
func (hud *HUDSystem) SetDebug(enabled bool) {
	hud.debug = enabled
}

// IsDebug reports whether the debug overlay is on
func (hud *HUDSystem) IsDebug() bool {
	return hud.debug
}

// Lines returns the text the HUD shows
func (hud *HUDSystem) Lines() []string {
	status := fmt.Sprintf("t %.1fs  balls %d", hud.state.Elapsed, len(hud.state.Balls))
	if hud.state.Player.Boost {
		status += "  BOOST"
	}
	lines := []string{status}
	if !hud.debug {
		return lines
	}

	p := hud.state.Player
	return append(lines,
		fmt.Sprintf("tick %d  fps %.0f  zoom %.0f", hud.state.Tick, hud.fps, hud.zoom),
		fmt.Sprintf("energy %.0f", hud.energy),
		fmt.Sprintf("player pos (%.1f, %.1f) vel (%.1f, %.1f) r %.1f",
			p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y, p.Radius),
	)
}
