// Package engine provides unit tests for simulation.go
package engine

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/opd-ai/go-bumpers/pkg/config"
	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/event"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

const frame = 1.0 / 60

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func newTestSimulation(t *testing.T, seed uint64, modify func(*config.GameConfig)) *Simulation {
	t.Helper()
	cfg := config.DefaultConfig()
	if modify != nil {
		modify(cfg)
	}
	sim, err := NewSimulation(cfg, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}
	return sim
}

// emptyArena has no spawned balls so tests can place their own
func emptyArena(cfg *config.GameConfig) {
	cfg.Ball.Count = 0
}

func placeBall(sim *Simulation, position, velocity physics.Vector2D) *entity.Ball {
	ball := &entity.Ball{
		Body:   physics.Body{Position: position, Velocity: velocity, Radius: sim.Config.Ball.Radius},
		Bound:  sim.Arena,
		Params: sim.Config.BallParams(),
	}
	sim.Balls.Add(ball)
	return ball
}

// recorder is an entity.Renderer that logs calls in order
type recorder struct {
	calls []string
	balls []entity.ID
}

func (r *recorder) RenderArena(physics.Bound)  { r.calls = append(r.calls, "arena") }
func (r *recorder) RenderPlayer(*entity.Player) { r.calls = append(r.calls, "player") }
func (r *recorder) Clear()                      { r.calls = append(r.calls, "clear") }
func (r *recorder) Present()                    { r.calls = append(r.calls, "present") }
func (r *recorder) RenderBall(b *entity.Ball) {
	r.calls = append(r.calls, "ball")
	r.balls = append(r.balls, b.ID)
}

func TestNewSimulation_InitializesState(t *testing.T) {
	sim := newTestSimulation(t, 1, nil)

	if sim.Balls.Len() != 2 {
		t.Fatalf("expected 2 balls, got %d", sim.Balls.Len())
	}
	if sim.Player.Position != sim.Arena.Center() {
		t.Errorf("expected player at arena center %v, got %v", sim.Arena.Center(), sim.Player.Position)
	}
	if sim.Player.Velocity != (physics.Vector2D{}) {
		t.Errorf("expected player at rest, got %v", sim.Player.Velocity)
	}
	for i, ball := range sim.Balls.All() {
		if ball.ID != entity.ID(i) {
			t.Errorf("expected slot ID %d, got %d", i, ball.ID)
		}
		if ball.Bound != sim.Arena {
			t.Errorf("ball %d bound %v differs from arena %v", i, ball.Bound, sim.Arena)
		}
		if !near(ball.Velocity.Length(), entity.BallSpeed) {
			t.Errorf("ball %d speed %v, want %v", i, ball.Velocity.Length(), entity.BallSpeed)
		}
		if !sim.Arena.Contains(ball.Position) {
			t.Errorf("ball %d spawned outside arena at %v", i, ball.Position)
		}
	}
	if sim.CurrentTick != 0 || sim.ElapsedTime != 0 {
		t.Errorf("expected zero clock, got tick %d elapsed %v", sim.CurrentTick, sim.ElapsedTime)
	}
}

func TestNewSimulation_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ball.Friction = 0

	sim, err := NewSimulation(cfg, rand.New(rand.NewPCG(1, 1)))
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	if sim != nil {
		t.Error("expected nil simulation on error")
	}
}

func TestNewSimulation_MixedCaseSweep(t *testing.T) {
	sim := newTestSimulation(t, 1, func(c *config.GameConfig) {
		c.Ball.Count = 0
		c.Physics.Sweep = "LEGACY"
	})
	if sim.Config.Physics.Sweep != config.SweepLegacy {
		t.Fatalf("Expected sweep %q, got %q", config.SweepLegacy, sim.Config.Physics.Sweep)
	}

	sim.Balls.Add(restingBall(100, 500))
	sim.Balls.Add(restingBall(160, 500))
	sim.Balls.Add(restingBall(220, 500))
	got := pairs(sim.Balls.Collide(sim.Config.Physics.Sweep))
	want := [][2]entity.ID{{0, 1}, {1, 2}, {2, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected legacy pairs %v, got %v", want, got)
	}
}

func TestNewSimulation_SameSeedSameArena(t *testing.T) {
	a := newTestSimulation(t, 99, nil)
	b := newTestSimulation(t, 99, nil)
	c := newTestSimulation(t, 100, nil)

	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("same seed produced different arenas")
	}
	if reflect.DeepEqual(a.Snapshot(), c.Snapshot()) {
		t.Error("different seeds produced identical arenas")
	}
}

// A ball at rest in the center; the player coasts into it from the left.
func TestSimulation_PlayerPushesBall(t *testing.T) {
	sim := newTestSimulation(t, 1, emptyArena)
	center := sim.Arena.Center()
	ball := placeBall(sim, center, physics.Vector2D{})
	sim.Player.Position = physics.Vector2D{X: center.X - 60, Y: center.Y}
	sim.Player.Velocity = physics.Vector2D{X: 240}

	var contacts []*event.ContactEvent
	sim.EventBus.Subscribe(event.PlayerContact, func(e event.Event) {
		contacts = append(contacts, e.(*event.ContactEvent))
	})

	if err := sim.Step(frame, entity.ControlInput{}); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	// Zero control still accelerates along +x before friction
	playerV := (240 + entity.PlayerAccel*frame) * math.Pow(entity.PlayerFriction, frame*entity.PlayerFrictionRate)
	impulse := 2 * playerV / (entity.BallRadius + entity.PlayerRadius - entity.MassOffset)

	if !near(ball.Velocity.X, impulse*entity.PlayerRadius*entity.PlayerKick) {
		t.Errorf("expected ball velocity %v, got %v", impulse*entity.PlayerRadius*entity.PlayerKick, ball.Velocity.X)
	}
	if !near(sim.Player.Velocity.X, playerV-impulse*entity.BallRadius) {
		t.Errorf("expected player velocity %v, got %v", playerV-impulse*entity.BallRadius, sim.Player.Velocity.X)
	}
	if sim.Player.Position.X != center.X-60 {
		t.Errorf("centered pointer should not move the player, got %v", sim.Player.Position)
	}

	if len(contacts) != 1 {
		t.Fatalf("expected 1 player contact event, got %d", len(contacts))
	}
	if contacts[0].EntityA != 0 || contacts[0].EntityB != uint64(entity.PlayerID) {
		t.Errorf("unexpected contact entities %d/%d", contacts[0].EntityA, contacts[0].EntityB)
	}
	if !near(contacts[0].Impulse, impulse) || contacts[0].NormalX != -1 {
		t.Errorf("unexpected contact %+v", contacts[0])
	}
}

func TestSimulation_WallBounceEvent(t *testing.T) {
	sim := newTestSimulation(t, 1, emptyArena)
	placeBall(sim, physics.Vector2D{X: sim.Arena.Right() - entity.BallRadius, Y: 200}, physics.Vector2D{X: 100})

	var walls []*event.WallEvent
	sim.EventBus.Subscribe(event.WallBounce, func(e event.Event) {
		walls = append(walls, e.(*event.WallEvent))
	})

	if err := sim.Step(frame, entity.ControlInput{}); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if len(walls) != 1 {
		t.Fatalf("expected 1 wall event, got %d", len(walls))
	}
	if walls[0].Wall != "right" || walls[0].EntityID != 0 {
		t.Errorf("unexpected wall event %+v", walls[0])
	}
	if ball := sim.Balls.At(0); ball.Velocity.X >= 0 {
		t.Errorf("expected reflected velocity, got %v", ball.Velocity)
	}
}

func TestSimulation_HandlersMaySnapshot(t *testing.T) {
	sim := newTestSimulation(t, 1, emptyArena)
	placeBall(sim, physics.Vector2D{X: sim.Arena.X + entity.BallRadius, Y: 300}, physics.Vector2D{X: -50})

	var seenTick uint64
	sim.EventBus.Subscribe(event.WallBounce, func(e event.Event) {
		seenTick = sim.Snapshot().Tick
	})

	if err := sim.Step(frame, entity.ControlInput{}); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if seenTick != 1 {
		t.Errorf("expected handler to observe tick 1, got %d", seenTick)
	}
}

func TestSimulation_StepRejectsInvalidFrames(t *testing.T) {
	tests := []struct {
		name    string
		delta   float64
		control physics.Vector2D
		want    error
	}{
		{"zero_delta", 0, physics.Vector2D{}, ErrInvalidDelta},
		{"negative_delta", -frame, physics.Vector2D{}, ErrInvalidDelta},
		{"nan_delta", math.NaN(), physics.Vector2D{}, ErrInvalidDelta},
		{"inf_delta", math.Inf(1), physics.Vector2D{}, ErrInvalidDelta},
		{"nan_control", frame, physics.Vector2D{X: math.NaN()}, ErrInvalidControl},
		{"inf_control", frame, physics.Vector2D{Y: math.Inf(-1)}, ErrInvalidControl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulation(t, 3, nil)
			before := sim.Snapshot()

			err := sim.Step(tt.delta, entity.ControlInput{Control: tt.control, BoostTrigger: true})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if after := sim.Snapshot(); !reflect.DeepEqual(before, after) {
				t.Errorf("rejected frame changed state:\nbefore %+v\nafter  %+v", before, after)
			}
			if sim.Player.Timer != 0 {
				t.Errorf("rejected frame advanced the player timer to %v", sim.Player.Timer)
			}
		})
	}
}

func TestSimulation_StepAdvancesClock(t *testing.T) {
	sim := newTestSimulation(t, 1, nil)
	for i := 0; i < 30; i++ {
		if err := sim.Step(0.02, entity.ControlInput{}); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
	if sim.CurrentTick != 30 {
		t.Errorf("expected tick 30, got %d", sim.CurrentTick)
	}
	if !near(sim.ElapsedTime, 0.6) {
		t.Errorf("expected elapsed 0.6, got %v", sim.ElapsedTime)
	}
	if !near(sim.Player.Timer, 0.6) {
		t.Errorf("expected player timer 0.6, got %v", sim.Player.Timer)
	}
}

func TestSimulation_SubstepsMatchSmallerFrames(t *testing.T) {
	control := entity.ControlInput{Control: physics.Vector2D{X: 50, Y: -20}}

	split := newTestSimulation(t, 5, func(c *config.GameConfig) { c.Physics.MaxSubstep = 0.125 })
	fine := newTestSimulation(t, 5, nil)

	if err := split.Step(0.5, control); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := fine.Step(0.125, control); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}

	a, b := split.Snapshot(), fine.Snapshot()
	if !reflect.DeepEqual(a.Player, b.Player) || !reflect.DeepEqual(a.Balls, b.Balls) {
		t.Errorf("substepped frame diverged:\nsplit %+v\nfine  %+v", a, b)
	}
	if a.Tick != 1 || b.Tick != 4 {
		t.Errorf("expected ticks 1 and 4, got %d and %d", a.Tick, b.Tick)
	}
}

func TestSimulation_SubstepCount(t *testing.T) {
	sim := newTestSimulation(t, 1, func(c *config.GameConfig) { c.Physics.MaxSubstep = 0.01 })

	tests := []struct {
		delta float64
		want  int
	}{
		{0.005, 1},
		{0.01, 1},
		{0.025, 3},
		{1000, MaxSubsteps},
	}
	for _, tt := range tests {
		if got := sim.substeps(tt.delta); got != tt.want {
			t.Errorf("substeps(%v) = %d, want %d", tt.delta, got, tt.want)
		}
	}

	sim.Config.Physics.MaxSubstep = 0
	if got := sim.substeps(1000); got != 1 {
		t.Errorf("expected substepping disabled, got %d", got)
	}
}

func TestSimulation_SpeedCap(t *testing.T) {
	sim := newTestSimulation(t, 1, func(c *config.GameConfig) { c.Physics.MaxSpeed = 500 })
	sim.Player.Velocity = physics.Vector2D{X: 3000, Y: 4000}
	sim.Balls.At(0).Velocity = physics.Vector2D{X: -9000}

	if err := sim.Step(frame, entity.ControlInput{BoostTrigger: true}); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if speed := sim.Player.Velocity.Length(); speed > 500+1e-9 {
		t.Errorf("player speed %v exceeds cap", speed)
	}
	for _, ball := range sim.Balls.All() {
		if speed := ball.Velocity.Length(); speed > 500+1e-9 {
			t.Errorf("ball %d speed %v exceeds cap", ball.ID, speed)
		}
	}
}

func TestSimulation_WallsKeepSpeedFrictionDecays(t *testing.T) {
	sim := newTestSimulation(t, 1, func(c *config.GameConfig) {
		emptyArena(c)
		c.Player.Accel = 0
		c.Player.BoostAccel = 0
	})
	// Horizontal lanes far from the player and from each other
	placeBall(sim, physics.Vector2D{X: 300, Y: 150}, physics.Vector2D{X: 900})
	placeBall(sim, physics.Vector2D{X: 1100, Y: 850}, physics.Vector2D{X: -700})

	previous := sim.KineticEnergy()
	bounces := 0
	sim.EventBus.Subscribe(event.WallBounce, func(event.Event) { bounces++ })

	for i := 0; i < 600; i++ {
		if err := sim.Step(frame, entity.ControlInput{}); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		energy := sim.KineticEnergy()
		if energy >= previous {
			t.Fatalf("frame %d: energy rose from %v to %v", i, previous, energy)
		}
		previous = energy
	}
	if bounces == 0 {
		t.Error("expected the balls to reach a wall")
	}
}

func TestSimulation_LongRunStaysBounded(t *testing.T) {
	const maxSpeed = 4000
	sim := newTestSimulation(t, 7, func(c *config.GameConfig) {
		c.Ball.Count = 6
		c.Physics.MaxSpeed = maxSpeed
	})
	input := DefaultScriptedInput()

	for i := 0; i < 3600; i++ {
		if err := sim.Step(frame, input.Input(sim.Snapshot())); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}

	state := sim.Snapshot()
	if !insideArena(state.Arena, state.Player.Position, state.Player.Radius) {
		t.Errorf("player left arena: %+v", state.Player)
	}
	for _, b := range state.Balls {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			t.Fatalf("ball %d went non-finite: %+v", b.ID, b)
		}
		if !insideArena(state.Arena, b.Position, b.Radius) {
			t.Errorf("ball %d left arena: %+v", b.ID, b)
		}
		if b.Velocity.Length() > maxSpeed+1e-6 {
			t.Errorf("ball %d speed %v above cap", b.ID, b.Velocity.Length())
		}
	}
	if energy := state.KineticEnergy(); math.IsNaN(energy) || math.IsInf(energy, 0) {
		t.Errorf("energy went non-finite: %v", energy)
	}
}

func TestSimulation_StockConfigStaysBounded(t *testing.T) {
	const energyLimit = 1e9
	for _, seed := range []uint64{1, 7, 42} {
		sim := newTestSimulation(t, seed, nil)
		input := DefaultScriptedInput()

		peak := 0.0
		for i := 0; i < 36000; i++ {
			if err := sim.Step(frame, input.Input(sim.Snapshot())); err != nil {
				t.Fatalf("seed %d frame %d: %v", seed, i, err)
			}
			if i%60 != 0 {
				continue
			}
			energy := sim.KineticEnergy()
			if math.IsNaN(energy) || math.IsInf(energy, 0) {
				t.Fatalf("seed %d frame %d: energy went non-finite", seed, i)
			}
			peak = math.Max(peak, energy)
		}

		if peak > energyLimit {
			t.Errorf("seed %d: peak energy %v above %v", seed, peak, energyLimit)
		}
		state := sim.Snapshot()
		if !insideArena(state.Arena, state.Player.Position, state.Player.Radius) {
			t.Errorf("seed %d: player left arena: %+v", seed, state.Player)
		}
		for _, b := range state.Balls {
			if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
				t.Fatalf("seed %d: ball %d went non-finite: %+v", seed, b.ID, b)
			}
			if !insideArena(state.Arena, b.Position, b.Radius) {
				t.Errorf("seed %d: ball %d left arena: %+v", seed, b.ID, b)
			}
		}
	}
}

func insideArena(arena physics.Bound, position physics.Vector2D, radius float64) bool {
	return arena.ContainsCircle(physics.Circle{Center: position, Radius: radius - 1e-6})
}

func TestSimulation_Render_Order(t *testing.T) {
	sim := newTestSimulation(t, 1, nil)
	r := &recorder{}

	sim.Render(r)

	want := []string{"clear", "arena", "ball", "ball", "player", "present"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("expected calls %v, got %v", want, r.calls)
	}
	if !reflect.DeepEqual(r.balls, []entity.ID{0, 1}) {
		t.Errorf("expected balls in slot order, got %v", r.balls)
	}
}

func TestSimulation_Snapshot(t *testing.T) {
	sim := newTestSimulation(t, 2, nil)
	if err := sim.Step(frame, entity.ControlInput{Control: physics.Vector2D{X: 10}, BoostTrigger: true}); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	state := sim.Snapshot()
	if state.Tick != 1 || !near(state.Elapsed, frame) {
		t.Errorf("unexpected clock %d/%v", state.Tick, state.Elapsed)
	}
	if state.Arena != sim.Arena {
		t.Errorf("expected arena %v, got %v", sim.Arena, state.Arena)
	}
	if !state.Player.Boost || state.Player.Position != sim.Player.Position {
		t.Errorf("unexpected player state %+v", state.Player)
	}
	if len(state.Balls) != 2 {
		t.Fatalf("expected 2 ball states, got %d", len(state.Balls))
	}
	for i, b := range state.Balls {
		live := sim.Balls.At(i)
		if b.ID != live.ID || b.Position != live.Position || b.Radius != live.Radius {
			t.Errorf("ball state %d %+v does not match %+v", i, b, live.Body)
		}
	}

	// Snapshots are copies
	state.Balls[0].Position.X = -1
	if sim.Balls.At(0).Position.X == -1 {
		t.Error("mutating the snapshot changed the simulation")
	}
	if !near(state.KineticEnergy(), sim.KineticEnergy()) {
		t.Errorf("snapshot energy %v differs from live %v", state.KineticEnergy(), sim.KineticEnergy())
	}
}

func TestSimulation_StartStop_Transitions(t *testing.T) {
	sim := newTestSimulation(t, 1, nil)
	var lifecycle []event.Type
	record := func(e event.Event) { lifecycle = append(lifecycle, e.GetType()) }
	sim.EventBus.Subscribe(event.SimulationStarted, record)
	sim.EventBus.Subscribe(event.SimulationStopped, record)

	sim.Start(context.Background())
	if !sim.Running {
		t.Error("simulation did not start")
	}
	sim.Stop()
	if sim.Running {
		t.Error("simulation did not stop")
	}

	want := []event.Type{event.SimulationStarted, event.SimulationStopped}
	if !reflect.DeepEqual(lifecycle, want) {
		t.Errorf("expected %v, got %v", want, lifecycle)
	}
}
