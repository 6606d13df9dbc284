package ebiten

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-bumpers/pkg/config"
	"github.com/opd-ai/go-bumpers/pkg/engine"
)

type fakeInput struct {
	x, y  int
	boost bool
	debug bool
	quit  bool
}

func (f *fakeInput) Cursor() (int, int) { return f.x, f.y }
func (f *fakeInput) BoostHeld() bool    { return f.boost }
func (f *fakeInput) DebugPressed() bool { return f.debug }
func (f *fakeInput) QuitPressed() bool  { return f.quit }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGame(t *testing.T, ctx context.Context) (*Game, *fakeInput, *fakeClock) {
	t.Helper()
	sim, err := engine.NewSimulation(config.DefaultConfig(), rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}
	game := NewGame(ctx, sim, nil)
	input := &fakeInput{x: 640, y: 360}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	game.input = input
	game.now = clock.now
	return game, input, clock
}

func TestGame_UpdateStepsWithMeasuredDelta(t *testing.T) {
	game, input, clock := newTestGame(t, context.Background())

	if err := game.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if game.state.Tick != 0 {
		t.Fatalf("Expected the first update to only start the clock, got tick %d", game.state.Tick)
	}

	input.x = 720
	clock.advance(20 * time.Millisecond)
	if err := game.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if game.state.Tick != 1 {
		t.Errorf("Expected tick 1, got %d", game.state.Tick)
	}
	if math.Abs(game.state.Elapsed-0.02) > 1e-9 {
		t.Errorf("Expected elapsed 0.02, got %v", game.state.Elapsed)
	}
	if game.state.Player.Velocity.X <= 0 {
		t.Errorf("Expected pointer right of center to push the player right, got %v", game.state.Player.Velocity)
	}
}

func TestGame_StallPassesFullDelta(t *testing.T) {
	game, _, clock := newTestGame(t, context.Background())
	game.Update()

	clock.advance(5 * time.Second)
	game.Update()

	if game.state.Tick != 1 {
		t.Errorf("Expected one frame for the stall, got tick %d", game.state.Tick)
	}
	if math.Abs(game.state.Elapsed-5) > 1e-9 {
		t.Errorf("Expected elapsed 5, got %v", game.state.Elapsed)
	}
}

func TestGame_StallSplitByMaxSubstep(t *testing.T) {
	game, _, clock := newTestGame(t, context.Background())
	game.sim.Config.Physics.MaxSubstep = 0.01
	game.Update()

	clock.advance(500 * time.Millisecond)
	game.Update()

	if game.state.Tick != 1 {
		t.Errorf("Expected one frame, got tick %d", game.state.Tick)
	}
	if math.Abs(game.state.Elapsed-0.5) > 1e-9 {
		t.Errorf("Expected elapsed 0.5, got %v", game.state.Elapsed)
	}
	for _, b := range game.state.Balls {
		if !game.state.Arena.Contains(b.Position) {
			t.Errorf("Expected ball %d inside the arena, got %v", b.ID, b.Position)
		}
	}
}

func TestGame_ZeroDeltaSkipsStep(t *testing.T) {
	game, _, _ := newTestGame(t, context.Background())
	game.Update()
	game.Update()

	if game.state.Tick != 0 {
		t.Errorf("Expected no step without elapsed time, got tick %d", game.state.Tick)
	}
}

func TestGame_QuitTerminates(t *testing.T) {
	game, input, _ := newTestGame(t, context.Background())
	input.quit = true

	if err := game.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Expected ebiten.Termination, got %v", err)
	}
}

func TestGame_CancelledContextTerminates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	game, _, _ := newTestGame(t, ctx)
	cancel()

	if err := game.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Expected ebiten.Termination, got %v", err)
	}
}

func TestGame_DebugToggle(t *testing.T) {
	game, input, _ := newTestGame(t, context.Background())
	input.debug = true

	game.Update()
	if !game.debug {
		t.Error("Expected debug overlay on")
	}
	game.Update()
	if game.debug {
		t.Error("Expected debug overlay off after second press")
	}
}

func TestGame_Shapes(t *testing.T) {
	game, _, _ := newTestGame(t, context.Background())

	shapes := game.shapes()
	want := 2 + len(game.state.Balls) + 1
	if len(shapes) != want {
		t.Fatalf("Expected %d shapes, got %d", want, len(shapes))
	}
	player := shapes[len(shapes)-1]
	if player.kind != filledCircle || math.Abs(float64(player.x)-640) > 1e-3 || math.Abs(float64(player.y)-360) > 1e-3 {
		t.Errorf("Expected player circle at the viewport center, got %+v", player)
	}

	game.state.Player.Boost = true
	shapes = game.shapes()
	if ring := shapes[len(shapes)-1]; ring.kind != strokedCircle || ring.r <= player.r {
		t.Errorf("Expected a boost ring around the player, got %+v", ring)
	}
}

func TestGame_Layout(t *testing.T) {
	game, _, _ := newTestGame(t, context.Background())

	w, h := game.Layout(800, 600)
	if w != 800 || h != 600 {
		t.Errorf("Expected 800x600, got %dx%d", w, h)
	}
	if game.camera.ViewportWidth != 800 || game.camera.ViewportHeight != 600 {
		t.Errorf("Expected camera resized, got %vx%v", game.camera.ViewportWidth, game.camera.ViewportHeight)
	}
}
