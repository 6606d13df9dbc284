// Package ebiten runs the arena in an Ebiten window.
package ebiten

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-bumpers/pkg/engine"
	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/logging"
	"github.com/opd-ai/go-bumpers/pkg/physics"
	"github.com/opd-ai/go-bumpers/pkg/render"
)

var (
	backgroundColor = color.RGBA{16, 16, 24, 255}
	floorColor      = color.RGBA{28, 28, 40, 255}
	wallColor       = color.RGBA{200, 200, 220, 255}
	ballColor       = color.RGBA{230, 120, 40, 255}
	playerColor     = color.RGBA{60, 170, 255, 255}
	boostColor      = color.RGBA{255, 230, 80, 255}
)

// InputReader is the slice of window input the game needs
type InputReader interface {
	Cursor() (int, int)
	BoostHeld() bool
	DebugPressed() bool
	QuitPressed() bool
}

type windowInput struct{}

func (windowInput) Cursor() (int, int) { return ebiten.CursorPosition() }

func (windowInput) BoostHeld() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsKeyPressed(ebiten.KeySpace)
}

func (windowInput) DebugPressed() bool { return inpututil.IsKeyJustPressed(ebiten.KeyF3) }

func (windowInput) QuitPressed() bool { return inpututil.IsKeyJustPressed(ebiten.KeyEscape) }

// Game implements ebiten.Game for a Simulation
type Game struct {
	sim    *engine.Simulation
	ctx    context.Context
	logger *logging.Logger
	camera render.Camera
	input  InputReader
	now    func() time.Time

	last  time.Time
	debug bool
	state engine.State
}

// NewGame creates a game for sim sized from its display config
func NewGame(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) *Game {
	if logger == nil {
		logger = logging.Discard()
	}
	display := sim.Config.Display
	return &Game{
		sim:    sim,
		ctx:    ctx,
		logger: logger,
		camera: render.NewCamera(float64(display.Width), float64(display.Height), display.Zoom),
		input:  windowInput{},
		now:    time.Now,
		debug:  display.Debug,
		state:  sim.Snapshot(),
	}
}

// Update samples input and steps the simulation with the time since the
// previous update. Long frames are split only when physics.maxSubstep is set.
func (g *Game) Update() error {
	if g.input.QuitPressed() {
		return ebiten.Termination
	}
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	if g.input.DebugPressed() {
		g.debug = !g.debug
	}

	now := g.now()
	if g.last.IsZero() {
		g.last = now
		return nil
	}
	delta := now.Sub(g.last).Seconds()
	g.last = now
	if delta <= 0 {
		return nil
	}

	x, y := g.input.Cursor()
	input := entity.ControlInput{
		Control:      g.camera.ControlVector(physics.Vector2D{X: float64(x), Y: float64(y)}),
		BoostTrigger: g.input.BoostHeld(),
	}
	if err := g.sim.Step(delta, input); err != nil {
		g.logger.Error(g.ctx, "frame skipped", err)
	}
	g.state = g.sim.Snapshot()
	return nil
}

// Draw paints the latest snapshot
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	for _, s := range g.shapes() {
		s.draw(screen)
	}
	if g.debug {
		ebitenutil.DebugPrint(screen, g.debugText())
	}
}

// Layout tracks the window size so the camera stays centered on the player
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.camera.ViewportWidth = float64(outsideWidth)
		g.camera.ViewportHeight = float64(outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) debugText() string {
	p := g.state.Player
	return fmt.Sprintf("tick %d  t %.1fs  tps %.0f\nenergy %.0f  balls %d\nplayer (%.1f, %.1f) v (%.1f, %.1f) r %.1f",
		g.state.Tick, g.state.Elapsed, ebiten.ActualTPS(),
		g.state.KineticEnergy(), len(g.state.Balls),
		p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y, p.Radius)
}

type shapeKind int

const (
	filledRect shapeKind = iota
	strokedRect
	filledCircle
	strokedCircle
)

// shape is one vector primitive in screen space
type shape struct {
	kind          shapeKind
	x, y, w, h, r float32
	stroke        float32
	color         color.Color
}

func (s shape) draw(screen *ebiten.Image) {
	switch s.kind {
	case filledRect:
		vector.DrawFilledRect(screen, s.x, s.y, s.w, s.h, s.color, false)
	case strokedRect:
		vector.StrokeRect(screen, s.x, s.y, s.w, s.h, s.stroke, s.color, false)
	case filledCircle:
		vector.DrawFilledCircle(screen, s.x, s.y, s.r, s.color, true)
	case strokedCircle:
		vector.StrokeCircle(screen, s.x, s.y, s.r, s.stroke, s.color, true)
	}
}

// shapes lays out the arena, balls, then the player, focused on the player
func (g *Game) shapes() []shape {
	focus := g.state.Player.Position
	arena := g.state.Arena
	origin := g.camera.WorldToScreen(physics.Vector2D{X: arena.X, Y: arena.Y}, focus)
	w := float32(g.camera.ScaleLength(arena.Width))
	h := float32(g.camera.ScaleLength(arena.Height))

	shapes := make([]shape, 0, len(g.state.Balls)+4)
	shapes = append(shapes,
		shape{kind: filledRect, x: float32(origin.X), y: float32(origin.Y), w: w, h: h, color: floorColor},
		shape{kind: strokedRect, x: float32(origin.X), y: float32(origin.Y), w: w, h: h, stroke: 2, color: wallColor},
	)

	for _, b := range g.state.Balls {
		c := g.camera.WorldToScreen(b.Position, focus)
		shapes = append(shapes, shape{kind: filledCircle, x: float32(c.X), y: float32(c.Y),
			r: float32(g.camera.ScaleLength(b.Radius)), color: ballColor})
	}

	p := g.state.Player
	c := g.camera.WorldToScreen(p.Position, focus)
	r := float32(g.camera.ScaleLength(p.Radius))
	shapes = append(shapes, shape{kind: filledCircle, x: float32(c.X), y: float32(c.Y), r: r, color: playerColor})
	if p.Boost {
		shapes = append(shapes, shape{kind: strokedCircle, x: float32(c.X), y: float32(c.Y), r: r + 4, stroke: 3, color: boostColor})
	}
	return shapes
}

// Run opens the window and blocks until it closes. Closing the window or
// pressing Escape is a normal stop.
func Run(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) error {
	display := sim.Config.Display
	ebiten.SetWindowSize(display.Width, display.Height)
	ebiten.SetWindowTitle("go-bumpers")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(display.Fullscreen)
	if tps := sim.Config.Simulation.TickRate; tps > 0 {
		ebiten.SetTPS(tps)
	}

	sim.Start(ctx)
	defer sim.Stop()

	if err := ebiten.RunGame(NewGame(ctx, sim, logger)); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("ebiten window failed: %w", err)
	}
	return nil
}
