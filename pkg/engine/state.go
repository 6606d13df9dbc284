package engine

import (
	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// State represents a snapshot of the simulation
type State struct {
	Tick    uint64
	Elapsed float64
	Arena   physics.Bound
	Player  PlayerState
	Balls   []BallState
}

// PlayerState represents a snapshot of the player
type PlayerState struct {
	Position physics.Vector2D
	Velocity physics.Vector2D
	Radius   float64
	Boost    bool
}

// BallState represents a snapshot of one ball
type BallState struct {
	ID       entity.ID
	Position physics.Vector2D
	Velocity physics.Vector2D
	Radius   float64
}

// Snapshot copies the current state under the read lock, so callers never
// observe a half-applied frame.
func (s *Simulation) Snapshot() State {
	s.EntityLock.RLock()
	defer s.EntityLock.RUnlock()

	state := State{
		Tick:    s.CurrentTick,
		Elapsed: s.ElapsedTime,
		Arena:   s.Arena,
		Player: PlayerState{
			Position: s.Player.Position,
			Velocity: s.Player.Velocity,
			Radius:   s.Player.Radius,
			Boost:    s.Player.Boost,
		},
		Balls: make([]BallState, 0, s.Balls.Len()),
	}
	for _, ball := range s.Balls.All() {
		state.Balls = append(state.Balls, BallState{
			ID:       ball.ID,
			Position: ball.Position,
			Velocity: ball.Velocity,
			Radius:   ball.Radius,
		})
	}
	return state
}

// KineticEnergy sums the energy captured in the snapshot
func (st State) KineticEnergy() float64 {
	total := 0.5 * st.Player.Radius * st.Player.Velocity.LengthSquared()
	for _, b := range st.Balls {
		total += 0.5 * b.Radius * b.Velocity.LengthSquared()
	}
	return total
}
