// pkg/entity/player.go
package entity

import (
	"math"

	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// Player tuning defaults
const (
	PlayerAccel        = 3000.0
	PlayerBoostAccel   = 6000.0
	PlayerRadius       = 30.0
	PlayerRadiusPulse  = 0.0
	PlayerFriction     = 0.9
	PlayerFrictionRate = 60.0
	PlayerControlCap   = 80.0
)

// PlayerParams holds the tunable constants of the player body
type PlayerParams struct {
	Accel        float64
	BoostAccel   float64
	Radius       float64
	RadiusPulse  float64
	Friction     float64
	FrictionRate float64
	ControlCap   float64
}

// DefaultPlayerParams returns the stock player tuning
func DefaultPlayerParams() PlayerParams {
	return PlayerParams{
		Accel:        PlayerAccel,
		BoostAccel:   PlayerBoostAccel,
		Radius:       PlayerRadius,
		RadiusPulse:  PlayerRadiusPulse,
		Friction:     PlayerFriction,
		FrictionRate: PlayerFrictionRate,
		ControlCap:   PlayerControlCap,
	}
}

// Player is the steerable body. It is clamped to the arena rather than bounced.
type Player struct {
	physics.Body
	Accel  float64
	Timer  float64
	Boost  bool
	Params PlayerParams
}

// NewPlayer creates a player at rest at position
func NewPlayer(position physics.Vector2D, params PlayerParams) *Player {
	return &Player{
		Body: physics.Body{
			Position: position,
			Radius:   params.Radius,
		},
		Accel:  params.Accel,
		Params: params,
	}
}

// Update advances the player by delta seconds under input, then clamps it into arena
func (p *Player) Update(arena physics.Bound, input ControlInput, delta float64) {
	p.Timer += delta

	if input.BoostTrigger {
		p.Accel = p.Params.BoostAccel
		p.Boost = true
	} else {
		p.Accel = p.Params.Accel
		p.Boost = false
	}

	fraction := input.SpeedFraction(p.Params.ControlCap)

	p.Accelerate(input.Control, p.Accel, delta)
	p.Damp(p.Params.Friction, p.Params.FrictionRate, delta)
	// Velocity integrates fully; displacement is scaled by how far the pointer is pushed
	p.Integrate(delta, fraction)

	p.Radius = p.Params.Radius + math.Sin(p.Timer)*p.Params.RadiusPulse

	p.ClampWithin(arena)
}

// GetID returns the player identifier
func (p *Player) GetID() ID {
	return PlayerID
}

// GetPosition returns the player's center
func (p *Player) GetPosition() physics.Vector2D {
	return p.Position
}

// GetCollider returns the player's collision circle
func (p *Player) GetCollider() physics.Circle {
	return p.Circle()
}

// Render implements Entity
func (p *Player) Render(r Renderer) {
	r.RenderPlayer(p)
}
