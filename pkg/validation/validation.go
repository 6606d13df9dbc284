// Package validation provides range checks for frame inputs and configuration values.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// Limits for configuration values
const (
	MaxBallCount = 10000
	MaxTickRate  = 1000
)

// Sentinel errors, wrapped with the offending value
var (
	ErrInvalidDelta   = errors.New("frame delta must be positive and finite")
	ErrInvalidControl = errors.New("control vector must be finite")
	ErrOutOfRange     = errors.New("value out of range")
)

// ValidateDelta checks a frame delta in seconds
func ValidateDelta(delta float64) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta <= 0 {
		return fmt.Errorf("delta %v: %w", delta, ErrInvalidDelta)
	}
	return nil
}

// ValidateControl checks the pointer-derived control vector
func ValidateControl(control physics.Vector2D) error {
	if !control.IsFinite() {
		return fmt.Errorf("control %v: %w", control, ErrInvalidControl)
	}
	return nil
}

// ValidatePositive requires a finite value greater than zero
func ValidatePositive(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("%s must be positive, got %v: %w", name, value, ErrOutOfRange)
	}
	return nil
}

// ValidateNonNegative requires a finite value of zero or more
func ValidateNonNegative(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%s must be non-negative, got %v: %w", name, value, ErrOutOfRange)
	}
	return nil
}

// ValidateFriction requires a damping base in (0, 1].
// 1 means frictionless.
func ValidateFriction(name string, value float64) error {
	if math.IsNaN(value) || value <= 0 || value > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v: %w", name, value, ErrOutOfRange)
	}
	return nil
}

// ValidateCount requires an integer within [min, max]
func ValidateCount(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d: %w", name, min, max, value, ErrOutOfRange)
	}
	return nil
}

// ValidateOneOf requires value to match one of options exactly
func ValidateOneOf(name, value string, options ...string) error {
	for _, option := range options {
		if value == option {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of [%s], got %q: %w", name, strings.Join(options, ", "), value, ErrOutOfRange)
}
