package entity

import "github.com/opd-ai/go-bumpers/pkg/physics"

// Renderer handles rendering arena entities
type Renderer interface {
	RenderArena(arena physics.Bound)
	RenderBall(ball *Ball)
	RenderPlayer(player *Player)
	Clear()
	Present()
}
