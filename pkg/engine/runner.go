package engine

import (
	"context"
	"errors"
	"time"

	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/logging"
)

// Runner drives a Simulation from a ticker for the windowless front ends.
// Each tick renders the previous state, samples input and steps with the
// measured delta.
type Runner struct {
	Sim       *Simulation
	Renderer  entity.Renderer
	Input     InputSource
	TickRate  int
	MaxFrames int
	Logger    *logging.Logger

	frames int
}

// NewRunner creates a runner using the simulation's tick rate and frame limit.
// renderer may be nil.
func NewRunner(sim *Simulation, renderer entity.Renderer, input InputSource) *Runner {
	return &Runner{
		Sim:       sim,
		Renderer:  renderer,
		Input:     input,
		TickRate:  sim.Config.Simulation.TickRate,
		MaxFrames: sim.Config.Simulation.MaxFrames,
		Logger:    sim.Logger,
	}
}

// Frames returns how many frames have been stepped
func (r *Runner) Frames() int {
	return r.frames
}

// Run steps the simulation in real time until ctx is cancelled or MaxFrames
// is reached. Cancellation is a normal stop and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	tickRate := r.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	r.Sim.Start(ctx)
	defer r.Sim.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil
			}
			return ctx.Err()
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now
			if delta <= 0 {
				continue
			}
			if r.frame(ctx, delta) {
				return nil
			}
		}
	}
}

// RunFixed steps frames times with a constant delta and no waiting, for
// reproducible headless runs.
func (r *Runner) RunFixed(ctx context.Context, frames int, delta float64) error {
	r.Sim.Start(ctx)
	defer r.Sim.Stop()

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.step(ctx, delta); err != nil {
			return err
		}
	}
	return nil
}

// frame runs one real-time tick and reports whether the frame limit was hit
func (r *Runner) frame(ctx context.Context, delta float64) bool {
	if err := r.step(ctx, delta); err != nil {
		r.Logger.Error(ctx, "frame skipped", err, "frame", r.frames)
	}
	return r.MaxFrames > 0 && r.frames >= r.MaxFrames
}

func (r *Runner) step(ctx context.Context, delta float64) error {
	if r.Renderer != nil {
		r.Sim.Render(r.Renderer)
	}

	var input entity.ControlInput
	if r.Input != nil {
		input = r.Input.Input(r.Sim.Snapshot())
	}

	if err := r.Sim.Step(delta, input); err != nil {
		return err
	}
	r.frames++
	return nil
}
