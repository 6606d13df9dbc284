// pkg/entity/ball.go
package entity

import (
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// Ball tuning defaults
const (
	BallSpeed        = 100.0
	BallRadius       = 35.0
	BallCount        = 2
	BallFriction     = 0.99
	BallFrictionRate = 20.0

	// MassOffset is subtracted from the summed radii in the impulse denominator
	MassOffset = 8.0
	// PlayerKick scales the impulse a ball receives from the player
	PlayerKick = 1.2
)

// BallParams holds the tunable constants of a ball
type BallParams struct {
	Speed        float64
	Radius       float64
	Friction     float64
	FrictionRate float64
	MassOffset   float64
	PlayerKick   float64
}

// DefaultBallParams returns the stock ball tuning
func DefaultBallParams() BallParams {
	return BallParams{
		Speed:        BallSpeed,
		Radius:       BallRadius,
		Friction:     BallFriction,
		FrictionRate: BallFrictionRate,
		MassOffset:   MassOffset,
		PlayerKick:   PlayerKick,
	}
}

// RandomSource yields uniform values in [0,1)
type RandomSource interface {
	Float64() float64
}

// Ball is a free-moving body that bounces off the walls of its own Bound
type Ball struct {
	physics.Body
	ID     ID
	Bound  physics.Bound
	Params BallParams
}

// BallUpdate reports what happened to a ball during one Update
type BallUpdate struct {
	WallX     physics.Wall
	WallY     physics.Wall
	HitPlayer bool
	Contact   physics.Contact
}

// NewBall spawns a ball at a random spot in bound heading in a random direction.
// The bound is copied and never re-read from the arena.
func NewBall(id ID, bound physics.Bound, params BallParams, rng RandomSource) *Ball {
	angle := rng.Float64() * 360 // radians, kept for parity with the stock spawn spread
	r := params.Radius
	x := rng.Float64()*(bound.Width-r) + bound.X + r
	y := rng.Float64()*(bound.Height-r*2) + bound.Y + r

	return &Ball{
		Body: physics.Body{
			Position: physics.Vector2D{X: x, Y: y},
			Velocity: physics.FromAngle(angle, params.Speed),
			Radius:   r,
		},
		ID:     id,
		Bound:  bound,
		Params: params,
	}
}

// Update damps and moves the ball one axis at a time, bouncing off its bound,
// then resolves contact with the player.
func (b *Ball) Update(player *Player, delta float64) BallUpdate {
	var result BallUpdate

	b.Damp(b.Params.Friction, b.Params.FrictionRate, delta)

	b.Position.X += b.Velocity.X * delta
	result.WallX = b.BounceX(b.Bound)

	b.Position.Y += b.Velocity.Y * delta
	result.WallY = b.BounceY(b.Bound)

	if player != nil && b.Circle().Intersects(player.Circle()) {
		result.Contact, result.HitPlayer = physics.ResolveImpulse(&b.Body, &player.Body, physics.ImpulseParams{
			MassOffset: b.Params.MassOffset,
			KickA:      b.Params.PlayerKick,
		})
	}

	return result
}

// Collide resolves a ball-ball contact. A ball never collides with itself;
// identity is the ball itself, not its ID value.
func (b *Ball) Collide(other *Ball) (physics.Contact, bool) {
	if b == other || !b.Circle().Intersects(other.Circle()) {
		return physics.Contact{}, false
	}
	return physics.ResolveImpulse(&b.Body, &other.Body, physics.ImpulseParams{
		MassOffset: b.Params.MassOffset,
		KickA:      1,
	})
}

// GetID returns the ball's slot identifier
func (b *Ball) GetID() ID {
	return b.ID
}

// GetPosition returns the ball's center
func (b *Ball) GetPosition() physics.Vector2D {
	return b.Position
}

// GetCollider returns the ball's collision circle
func (b *Ball) GetCollider() physics.Circle {
	return b.Circle()
}

// Render implements Entity
func (b *Ball) Render(r Renderer) {
	r.RenderBall(b)
}
