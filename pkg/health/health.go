// Package health checks a running simulation for broken invariants.
// Headless runs execute the checks after the last frame and fail the run
// when any of them reports a problem.
package health

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/opd-ai/go-bumpers/pkg/engine"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// containmentSlack absorbs rounding in wall reflection
const containmentSlack = 1e-6

// Status values
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check inspects state and returns an error if an invariant is broken
	Check(ctx context.Context, state engine.State) error
}

// HealthStatus represents the aggregated result of every check.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the result of one check.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Healthy reports whether every check passed
func (s HealthStatus) Healthy() bool {
	return s.Status == StatusHealthy
}

// Err joins the failing checks into one error, in name order, or returns nil
func (s HealthStatus) Err() error {
	names := make([]string, 0, len(s.Checks))
	for name, c := range s.Checks {
		if c.Status != StatusHealthy {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+s.Checks[name].Message)
	}
	return errors.New("simulation unhealthy: " + strings.Join(parts, "; "))
}

// HealthChecker manages and executes health checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// NewDefaultChecker returns a checker with the finite, containment and,
// when maxSpeed is positive, speed checks registered.
func NewDefaultChecker(maxSpeed float64) *HealthChecker {
	hc := NewHealthChecker()
	hc.AddCheck(FiniteStateCheck{})
	hc.AddCheck(ContainmentCheck{})
	if maxSpeed > 0 {
		hc.AddCheck(SpeedCheck{MaxSpeed: maxSpeed})
	}
	return hc
}

// AddCheck registers a new health check.
// If a check with the same name already exists, it will be replaced.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth runs every registered check against state.
// The overall status is healthy only if all individual checks pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context, state engine.State) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx, state); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{
				Status:  StatusUnhealthy,
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: StatusHealthy,
			}
		}
	}

	return status
}

// FiniteStateCheck fails when any position, velocity or radius is NaN or infinite.
type FiniteStateCheck struct{}

// Name returns the name of this health check.
func (FiniteStateCheck) Name() string {
	return "finite_state"
}

// Check implements HealthCheck.
func (FiniteStateCheck) Check(ctx context.Context, state engine.State) error {
	p := state.Player
	if !p.Position.IsFinite() || !p.Velocity.IsFinite() || !isFinite(p.Radius) {
		return fmt.Errorf("player state is not finite: pos %v vel %v r %v", p.Position, p.Velocity, p.Radius)
	}
	for _, b := range state.Balls {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() || !isFinite(b.Radius) {
			return fmt.Errorf("ball %d state is not finite: pos %v vel %v", b.ID, b.Position, b.Velocity)
		}
	}
	return nil
}

// ContainmentCheck fails when a circle has left the arena.
type ContainmentCheck struct{}

// Name returns the name of this health check.
func (ContainmentCheck) Name() string {
	return "containment"
}

// Check implements HealthCheck.
func (ContainmentCheck) Check(ctx context.Context, state engine.State) error {
	p := state.Player
	if !inside(state.Arena, p.Position, p.Radius) {
		return fmt.Errorf("player at %v outside arena", p.Position)
	}
	for _, b := range state.Balls {
		if !inside(state.Arena, b.Position, b.Radius) {
			return fmt.Errorf("ball %d at %v outside arena", b.ID, b.Position)
		}
	}
	return nil
}

// SpeedCheck fails when a body moves faster than MaxSpeed.
type SpeedCheck struct {
	MaxSpeed float64
}

// Name returns the name of this health check.
func (SpeedCheck) Name() string {
	return "speed"
}

// Check implements HealthCheck.
func (s SpeedCheck) Check(ctx context.Context, state engine.State) error {
	limit := s.MaxSpeed * (1 + 1e-9)
	if speed := state.Player.Velocity.Length(); speed > limit {
		return fmt.Errorf("player speed %.1f exceeds limit %.1f", speed, s.MaxSpeed)
	}
	for _, b := range state.Balls {
		if speed := b.Velocity.Length(); speed > limit {
			return fmt.Errorf("ball %d speed %.1f exceeds limit %.1f", b.ID, speed, s.MaxSpeed)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func inside(arena physics.Bound, center physics.Vector2D, radius float64) bool {
	return center.X-radius >= arena.X-containmentSlack &&
		center.X+radius <= arena.Right()+containmentSlack &&
		center.Y-radius >= arena.Y-containmentSlack &&
		center.Y+radius <= arena.Bottom()+containmentSlack
}
