// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// ID is the arena-assigned identifier of an entity. Balls use their slot index.
type ID uint64

// PlayerID is the fixed identifier of the single player body
const PlayerID ID = ^ID(0)

// Entity is the base interface for all arena objects
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector2D
	GetCollider() physics.Circle
	Render(r Renderer)
}

// ControlInput is the per-frame steering supplied by the presentation layer.
// Control is the pointer offset from the viewport center.
type ControlInput struct {
	Control      physics.Vector2D
	BoostTrigger bool
}

// SpeedFraction maps the control magnitude onto [0,1], saturating at limit
func (in ControlInput) SpeedFraction(limit float64) float64 {
	if limit <= 0 {
		return 1
	}
	return min(in.Control.Length(), limit) / limit
}
