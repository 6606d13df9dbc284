// pkg/engine/simulation.go
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/opd-ai/go-bumpers/pkg/config"
	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/event"
	"github.com/opd-ai/go-bumpers/pkg/logging"
	"github.com/opd-ai/go-bumpers/pkg/physics"
	"github.com/opd-ai/go-bumpers/pkg/validation"
)

// MaxSubsteps bounds the work a single stalled frame can cause
const MaxSubsteps = 240

// Frame input errors returned by Step
var (
	ErrInvalidDelta   = validation.ErrInvalidDelta
	ErrInvalidControl = validation.ErrInvalidControl
)

// Simulation owns the arena, the player and the balls, and advances them
// in a fixed order each frame.
type Simulation struct {
	Config      *config.GameConfig
	Arena       physics.Bound
	Player      *entity.Player
	Balls       *BallRegistry
	EventBus    *event.Bus
	Logger      *logging.Logger
	EntityLock  sync.RWMutex
	Running     bool
	CurrentTick uint64
	ElapsedTime float64

	ctx     context.Context
	pending []event.Event
}

// NewSimulation validates cfg and populates the arena. The player starts at
// rest in the arena center; balls take slots 0..n-1 and draw spawn positions
// and headings from rng.
func NewSimulation(cfg *config.GameConfig, rng entity.RandomSource) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}
	arena, err := cfg.ArenaBound()
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	sim := &Simulation{
		Config:   cfg,
		Arena:    arena,
		Player:   entity.NewPlayer(arena.Center(), cfg.PlayerParams()),
		Balls:    NewBallRegistry(cfg.Simulation.BroadphaseThreshold),
		EventBus: event.NewEventBus(),
		Logger:   logging.Discard(),
		ctx:      context.Background(),
	}

	params := cfg.BallParams()
	for i := 0; i < cfg.Ball.Count; i++ {
		sim.Balls.Spawn(arena, params, rng)
	}

	return sim, nil
}

// Start marks the simulation running and announces it
func (s *Simulation) Start(ctx context.Context) {
	s.EntityLock.Lock()
	s.Running = true
	s.ctx = ctx
	tick, elapsed := s.CurrentTick, s.ElapsedTime
	s.EntityLock.Unlock()

	s.Logger.Info(ctx, "simulation started",
		"balls", s.Balls.Len(),
		"arena_width", s.Arena.Width,
		"arena_height", s.Arena.Height,
		"sweep", s.Config.Physics.Sweep)
	s.EventBus.Publish(event.NewLifecycleEvent(event.SimulationStarted, s, tick, elapsed))
}

// Stop marks the simulation stopped and announces it
func (s *Simulation) Stop() {
	s.EntityLock.Lock()
	s.Running = false
	ctx := s.ctx
	tick, elapsed := s.CurrentTick, s.ElapsedTime
	s.EntityLock.Unlock()

	s.Logger.Info(ctx, "simulation stopped", "tick", tick, "elapsed", elapsed)
	s.EventBus.Publish(event.NewLifecycleEvent(event.SimulationStopped, s, tick, elapsed))
}

// Step advances the simulation by delta seconds. A rejected frame leaves
// all state untouched. Events raised during the frame are published after
// the lock is released, so handlers may read a Snapshot.
func (s *Simulation) Step(delta float64, input entity.ControlInput) error {
	s.EntityLock.Lock()
	if err := s.validateFrame(delta, input); err != nil {
		s.EntityLock.Unlock()
		return err
	}

	steps := s.substeps(delta)
	sub := delta / float64(steps)
	for i := 0; i < steps; i++ {
		s.substep(sub, input)
	}
	s.CurrentTick++
	s.ElapsedTime += delta
	pending := s.pending
	s.pending = nil
	s.EntityLock.Unlock()

	for _, e := range pending {
		s.EventBus.Publish(e)
	}
	return nil
}

func (s *Simulation) validateFrame(delta float64, input entity.ControlInput) error {
	if err := validation.ValidateDelta(delta); err != nil {
		s.Logger.Warn(s.ctx, "frame rejected", "tick", s.CurrentTick, "delta", delta)
		return err
	}
	if err := validation.ValidateControl(input.Control); err != nil {
		s.Logger.Warn(s.ctx, "frame rejected", "tick", s.CurrentTick,
			"control_x", input.Control.X, "control_y", input.Control.Y)
		return err
	}
	return nil
}

func (s *Simulation) substeps(delta float64) int {
	maxSubstep := s.Config.Physics.MaxSubstep
	if maxSubstep <= 0 || delta <= maxSubstep {
		return 1
	}
	steps := math.Ceil(delta / maxSubstep)
	if steps > MaxSubsteps {
		return MaxSubsteps
	}
	return int(steps)
}

// substep runs player, balls, then the ball-ball pass
func (s *Simulation) substep(delta float64, input entity.ControlInput) {
	s.Player.Update(s.Arena, input, delta)

	for _, ball := range s.Balls.All() {
		result := ball.Update(s.Player, delta)
		s.recordBall(ball, result)
	}

	for _, pair := range s.Balls.Collide(s.Config.Physics.Sweep) {
		s.recordContact(event.BallContact, pair.A, pair.B, pair.Contact)
	}

	if maxSpeed := s.Config.Physics.MaxSpeed; maxSpeed > 0 {
		s.Player.ClampVelocity(maxSpeed)
		s.Balls.ClampSpeed(maxSpeed)
	}
}

func (s *Simulation) recordBall(ball *entity.Ball, result entity.BallUpdate) {
	for _, wall := range []physics.Wall{result.WallX, result.WallY} {
		if wall == physics.WallNone {
			continue
		}
		if s.EventBus.HasSubscribers(event.WallBounce) {
			s.pending = append(s.pending, event.NewWallEvent(s, uint64(ball.ID), wall.String(), ball.Position.X, ball.Position.Y))
		}
	}
	if result.HitPlayer {
		s.recordContact(event.PlayerContact, ball.ID, entity.PlayerID, result.Contact)
	}
}

func (s *Simulation) recordContact(eventType event.Type, a, b entity.ID, contact physics.Contact) {
	s.Logger.Debug(s.ctx, "contact resolved",
		"type", string(eventType),
		"a", uint64(a),
		"b", uint64(b),
		"closing", contact.ClosingSpeed,
		"impulse", contact.Impulse)
	if !s.EventBus.HasSubscribers(eventType) {
		return
	}
	s.pending = append(s.pending, event.NewContactEvent(eventType, s, uint64(a), uint64(b),
		contact.Normal.X, contact.Normal.Y, contact.ClosingSpeed, contact.Impulse))
}

// Render draws the current state: clear, arena, balls in slot order, player, present
func (s *Simulation) Render(r entity.Renderer) {
	s.EntityLock.RLock()
	defer s.EntityLock.RUnlock()

	r.Clear()
	r.RenderArena(s.Arena)
	for _, ball := range s.Balls.All() {
		ball.Render(r)
	}
	s.Player.Render(r)
	r.Present()
}

// KineticEnergy returns the total energy of player and balls, using radius as mass
func (s *Simulation) KineticEnergy() float64 {
	s.EntityLock.RLock()
	defer s.EntityLock.RUnlock()

	return s.Player.KineticEnergy() + s.Balls.KineticEnergy()
}
