package config

import (
	"fmt"

	"github.com/opd-ai/go-bumpers/pkg/validation"
)

// Validate normalizes the config, then checks that every value can drive a
// stable simulation
func (c *GameConfig) Validate() error {
	c.Normalize()
	checks := []error{
		validation.ValidatePositive("arena.width", c.Arena.Width),
		validation.ValidatePositive("arena.height", c.Arena.Height),

		validation.ValidateNonNegative("player.accel", c.Player.Accel),
		validation.ValidateNonNegative("player.boostAccel", c.Player.BoostAccel),
		validation.ValidatePositive("player.radius", c.Player.Radius),
		validation.ValidateNonNegative("player.radiusPulse", c.Player.RadiusPulse),
		validation.ValidateFriction("player.friction", c.Player.Friction),
		validation.ValidateNonNegative("player.frictionRate", c.Player.FrictionRate),
		validation.ValidatePositive("player.controlCap", c.Player.ControlCap),

		validation.ValidateCount("ball.count", c.Ball.Count, 0, validation.MaxBallCount),
		validation.ValidateNonNegative("ball.speed", c.Ball.Speed),
		validation.ValidatePositive("ball.radius", c.Ball.Radius),
		validation.ValidateFriction("ball.friction", c.Ball.Friction),
		validation.ValidateNonNegative("ball.frictionRate", c.Ball.FrictionRate),

		validation.ValidateNonNegative("physics.massOffset", c.Physics.MassOffset),
		validation.ValidatePositive("physics.playerKick", c.Physics.PlayerKick),
		validation.ValidateOneOf("physics.sweep", c.Physics.Sweep, SweepUnique, SweepLegacy),
		validation.ValidateNonNegative("physics.maxSubstep", c.Physics.MaxSubstep),
		validation.ValidateNonNegative("physics.maxSpeed", c.Physics.MaxSpeed),

		validation.ValidateCount("simulation.tickRate", c.Simulation.TickRate, 1, validation.MaxTickRate),
		validation.ValidateCount("simulation.broadphaseThreshold", c.Simulation.BroadphaseThreshold, 0, validation.MaxBallCount),
		validation.ValidateCount("simulation.maxFrames", c.Simulation.MaxFrames, 0, int(^uint(0)>>1)),

		validation.ValidateOneOf("display.renderer", c.Display.Renderer,
			RendererEngo, RendererEbiten, RendererTerminal, RendererHeadless),
		validation.ValidateCount("display.width", c.Display.Width, 1, 16384),
		validation.ValidateCount("display.height", c.Display.Height, 1, 16384),
		validation.ValidatePositive("display.zoom", c.Display.Zoom),
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}

	// Balls spawn with a full diameter of clearance on each axis
	if 2*c.Ball.Radius > c.Arena.Width || 2*c.Ball.Radius > c.Arena.Height {
		return fmt.Errorf("invalid config: ball diameter %v exceeds arena %vx%v: %w",
			2*c.Ball.Radius, c.Arena.Width, c.Arena.Height, validation.ErrOutOfRange)
	}

	// Impulse denominators must stay positive for every pairing
	if 2*c.Ball.Radius <= c.Physics.MassOffset {
		return fmt.Errorf("invalid config: ball-ball denominator %v-%v is not positive: %w",
			2*c.Ball.Radius, c.Physics.MassOffset, validation.ErrOutOfRange)
	}
	minPlayer := c.Player.Radius - c.Player.RadiusPulse
	if minPlayer <= 0 {
		return fmt.Errorf("invalid config: player radius pulse %v reaches radius %v: %w",
			c.Player.RadiusPulse, c.Player.Radius, validation.ErrOutOfRange)
	}
	if c.Ball.Radius+minPlayer <= c.Physics.MassOffset {
		return fmt.Errorf("invalid config: ball-player denominator %v-%v is not positive: %w",
			c.Ball.Radius+minPlayer, c.Physics.MassOffset, validation.ErrOutOfRange)
	}

	return nil
}
