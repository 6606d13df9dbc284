// pkg/physics/body.go
package physics

import "math"

// Wall identifies which side of a bound a body touched
type Wall int

const (
	WallNone Wall = iota
	WallLeft
	WallRight
	WallTop
	WallBottom
)

// String returns a lowercase name for logs and events
func (w Wall) String() string {
	switch w {
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	case WallTop:
		return "top"
	case WallBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Body is a circular physical entity. Player and Ball both build on it.
type Body struct {
	Position Vector2D
	Velocity Vector2D
	Radius   float64
}

// Circle returns the collision shape at the body's current position
func (b *Body) Circle() Circle {
	return Circle{Center: b.Position, Radius: b.Radius}
}

// DampingFactor returns friction^(delta*rate), the per-step exponential decay
func DampingFactor(friction, rate, delta float64) float64 {
	return math.Pow(friction, delta*rate)
}

// Damp applies frame-rate independent exponential friction to the velocity
func (b *Body) Damp(friction, rate, delta float64) {
	factor := DampingFactor(friction, rate, delta)
	b.Velocity.X *= factor
	b.Velocity.Y *= factor
}

// Accelerate adds accel along direction for delta seconds.
// Only the direction's angle matters; a zero vector points along +x.
func (b *Body) Accelerate(direction Vector2D, accel, delta float64) {
	angle := direction.Angle()
	b.Velocity.X += math.Cos(angle) * accel * delta
	b.Velocity.Y += math.Sin(angle) * accel * delta
}

// Integrate advances the position with explicit Euler, scaled by scale
func (b *Body) Integrate(delta, scale float64) {
	b.Position.X += b.Velocity.X * scale * delta
	b.Position.Y += b.Velocity.Y * scale * delta
}

// ClampVelocity limits the speed to maxSpeed. Zero or negative disables the cap.
func (b *Body) ClampVelocity(maxSpeed float64) bool {
	if maxSpeed <= 0 {
		return false
	}
	if b.Velocity.LengthSquared() <= maxSpeed*maxSpeed {
		return false
	}
	b.Velocity = b.Velocity.Normalize().Scale(maxSpeed)
	return true
}

// ClampWithin snaps the body back inside bound so its edge touches the wall.
// Velocity is left untouched.
func (b *Body) ClampWithin(bound Bound) {
	if b.Position.X+b.Radius > bound.Right() {
		b.Position.X = bound.Right() - b.Radius
	}
	if b.Position.X-b.Radius < bound.X {
		b.Position.X = bound.X + b.Radius
	}
	if b.Position.Y+b.Radius > bound.Bottom() {
		b.Position.Y = bound.Bottom() - b.Radius
	}
	if b.Position.Y-b.Radius < bound.Y {
		b.Position.Y = bound.Y + b.Radius
	}
}

// BounceX reflects the body off the left or right wall.
// The position is mirrored about the wall line so the edge lands tangent to it.
func (b *Body) BounceX(bound Bound) Wall {
	if b.Position.X+b.Radius >= bound.Right() {
		b.Velocity.X = -b.Velocity.X
		b.Position.X = bound.Right()*2 - b.Position.X - b.Radius*2
		return WallRight
	} else if b.Position.X-b.Radius <= bound.X {
		b.Velocity.X = -b.Velocity.X
		b.Position.X = bound.X*2 - b.Position.X + b.Radius*2
		return WallLeft
	}
	return WallNone
}

// BounceY reflects the body off the top or bottom wall
func (b *Body) BounceY(bound Bound) Wall {
	if b.Position.Y+b.Radius >= bound.Bottom() {
		b.Velocity.Y = -b.Velocity.Y
		b.Position.Y = bound.Bottom()*2 - b.Position.Y - b.Radius*2
		return WallBottom
	} else if b.Position.Y-b.Radius <= bound.Y {
		b.Velocity.Y = -b.Velocity.Y
		b.Position.Y = bound.Y*2 - b.Position.Y + b.Radius*2
		return WallTop
	}
	return WallNone
}

// KineticEnergy uses radius as mass: ½·r·|v|²
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Radius * b.Velocity.LengthSquared()
}
