// pkg/physics/collision.go
package physics

import "math"

// FallbackNormal is used when two centers coincide and no direction can be derived
var FallbackNormal = Vector2D{X: 1, Y: 0}

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Intersects checks if two circles overlap. Touching circles count as colliding.
func (c Circle) Intersects(other Circle) bool {
	reach := c.Radius + other.Radius
	return c.Center.DistanceSquared(other.Center) <= reach*reach
}

// CollisionNormal returns the unit vector pointing from one center to another.
// Coincident centers yield FallbackNormal instead of a non-finite vector.
func CollisionNormal(from, to Vector2D) Vector2D {
	delta := to.Sub(from)
	distance := delta.Length()
	if distance == 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return FallbackNormal
	}
	return Vector2D{X: delta.X / distance, Y: delta.Y / distance}
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       Vector2D
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs detailed collision detection between two circles
func CheckCollision(a, b Circle) CollisionResult {
	if !a.Intersects(b) {
		return CollisionResult{Collided: false}
	}

	distance := a.Center.Distance(b.Center)
	normal := CollisionNormal(a.Center, b.Center)

	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  a.Radius + b.Radius - distance,
		ContactPoint: a.Center.Add(normal.Scale(a.Radius)),
	}
}

// ImpulseParams tunes the impulse response.
//
// Radii stand in for mass. MassOffset shrinks the combined "mass" and KickA
// scales only the change applied to the first body.
type ImpulseParams struct {
	MassOffset float64
	KickA      float64
}

// Contact describes a resolved collision
type Contact struct {
	Normal       Vector2D
	ClosingSpeed float64
	Impulse      float64
}

// ResolveImpulse applies an impulse along the normal from a to b.
// It returns false without touching either body when they are already separating.
// Callers are expected to have checked overlap first.
func ResolveImpulse(a, b *Body, p ImpulseParams) (Contact, bool) {
	normal := CollisionNormal(a.Position, b.Position)
	closing := a.Velocity.Sub(b.Velocity).Dot(normal)
	if closing < 0 {
		return Contact{Normal: normal, ClosingSpeed: closing}, false
	}

	impulse := 2 * closing / (a.Radius + b.Radius - p.MassOffset)

	a.Velocity = a.Velocity.Sub(normal.Scale(impulse * b.Radius * p.KickA))
	b.Velocity = b.Velocity.Add(normal.Scale(impulse * a.Radius))

	return Contact{Normal: normal, ClosingSpeed: closing, Impulse: impulse}, true
}
