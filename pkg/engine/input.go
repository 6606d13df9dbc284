package engine

import (
	"math"

	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// InputSource supplies the control input for each frame
type InputSource interface {
	Input(state State) entity.ControlInput
}

// InputFunc adapts a function to InputSource
type InputFunc func(state State) entity.ControlInput

// Input implements InputSource
func (f InputFunc) Input(state State) entity.ControlInput {
	return f(state)
}

// StaticInput replays the same input every frame
type StaticInput entity.ControlInput

// Input implements InputSource
func (s StaticInput) Input(State) entity.ControlInput {
	return entity.ControlInput(s)
}

// ScriptedInput steers the player around a circle, for demos and headless runs
type ScriptedInput struct {
	// Reach is the pointer distance from the viewport center
	Reach float64
	// AngularSpeed is the steering rotation in radians per second
	AngularSpeed float64
	// BoostEvery holds boost for the first quarter of each period; 0 never boosts
	BoostEvery float64
}

// DefaultScriptedInput orbits at full speed and boosts briefly every four seconds
func DefaultScriptedInput() ScriptedInput {
	return ScriptedInput{
		Reach:        entity.PlayerControlCap * 2,
		AngularSpeed: 1.5,
		BoostEvery:   4,
	}
}

// Input implements InputSource
func (s ScriptedInput) Input(state State) entity.ControlInput {
	input := entity.ControlInput{
		Control: physics.FromAngle(state.Elapsed*s.AngularSpeed, s.Reach),
	}
	if s.BoostEvery > 0 {
		input.BoostTrigger = math.Mod(state.Elapsed, s.BoostEvery) < s.BoostEvery/4
	}
	return input
}
