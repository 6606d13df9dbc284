// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// Draw order, back to front
const (
	zFloor  = 0
	zArena  = 1
	zBall   = 2
	zPlayer = 3
	zBoost  = 4
)

// sprite is one drawable ECS entity
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer implements entity.Renderer by mirroring the arena onto ECS
// entities. Entities persist across frames and are moved in place.
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	camera       *CameraSystem
	assets       *AssetManager

	floor  *sprite
	arena  *sprite
	player *sprite
	boost  *sprite
	balls  map[entity.ID]*sprite
	seen   map[entity.ID]bool
}

// NewEngoRenderer creates a renderer. renderSystem may be nil, in which case
// entities are positioned but never handed to engo.
func NewEngoRenderer(renderSystem *common.RenderSystem, camera *CameraSystem, assets *AssetManager) *EngoRenderer {
	return &EngoRenderer{
		renderSystem: renderSystem,
		camera:       camera,
		assets:       assets,
		balls:        make(map[entity.ID]*sprite),
		seen:         make(map[entity.ID]bool),
	}
}

func (r *EngoRenderer) newSprite(drawable common.Drawable, c color.Color, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{Drawable: drawable, Color: c}
	s.RenderComponent.SetZIndex(z)
	if r.renderSystem != nil {
		r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
	return s
}

func (r *EngoRenderer) removeSprite(s *sprite) {
	if r.renderSystem != nil {
		r.renderSystem.Remove(s.BasicEntity)
	}
}

// placeRect positions s over the world rectangle with top-left corner at origin
func (r *EngoRenderer) placeRect(s *sprite, origin physics.Vector2D, width, height float64) {
	pos := r.camera.WorldToScreen(origin)
	s.Position = engo.Point{X: float32(pos.X), Y: float32(pos.Y)}
	s.Width = float32(r.camera.ScaleLength(width))
	s.Height = float32(r.camera.ScaleLength(height))
}

// placeCircle positions s over the circle's bounding square
func (r *EngoRenderer) placeCircle(s *sprite, c physics.Circle) {
	r.placeRect(s, c.Center.Sub(physics.Vector2D{X: c.Radius, Y: c.Radius}), 2*c.Radius, 2*c.Radius)
}

// Clear implements entity.Renderer
func (r *EngoRenderer) Clear() {
	clear(r.seen)
}

// Present implements entity.Renderer. Balls not drawn this frame are removed.
func (r *EngoRenderer) Present() {
	r.cleanupInactiveEntities()
}

// RenderArena implements entity.Renderer
func (r *EngoRenderer) RenderArena(arena physics.Bound) {
	origin := physics.Vector2D{X: arena.X, Y: arena.Y}

	if r.arena == nil {
		r.arena = r.newSprite(r.assets.Arena(), BackgroundColor, zArena)
	}
	r.placeRect(r.arena, origin, arena.Width, arena.Height)

	if texture := r.assets.FloorTexture(); texture != nil {
		if r.floor == nil {
			r.floor = r.newSprite(texture, HUDColor, zFloor)
		}
		r.placeRect(r.floor, origin, arena.Width, arena.Height)
		r.floor.Scale = engo.Point{X: r.floor.Width / floorTile, Y: r.floor.Height / floorTile}
	}
}

// RenderBall implements entity.Renderer
func (r *EngoRenderer) RenderBall(ball *entity.Ball) {
	s, ok := r.balls[ball.ID]
	if !ok {
		s = r.newSprite(r.assets.Ball(), BallColor, zBall)
		r.balls[ball.ID] = s
	}
	r.seen[ball.ID] = true
	r.placeCircle(s, ball.GetCollider())
}

// RenderPlayer implements entity.Renderer
func (r *EngoRenderer) RenderPlayer(player *entity.Player) {
	if r.player == nil {
		r.player = r.newSprite(r.assets.Player(), PlayerColor, zPlayer)
		r.boost = r.newSprite(r.assets.BoostRing(), BoostColor, zBoost)
	}
	collider := player.GetCollider()
	r.placeCircle(r.player, collider)

	collider.Radius += 6
	r.placeCircle(r.boost, collider)
	r.boost.Hidden = !player.Boost
}

// cleanupInactiveEntities removes balls that were not drawn since Clear
func (r *EngoRenderer) cleanupInactiveEntities() {
	for id, s := range r.balls {
		if !r.seen[id] {
			r.removeSprite(s)
			delete(r.balls, id)
		}
	}
}

// BallCount returns the number of ball entities alive
func (r *EngoRenderer) BallCount() int {
	return len(r.balls)
}
