// pkg/render/engo/renderer_test.go
package engo

import (
	"math"
	"testing"

	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

func newTestRenderer() (*EngoRenderer, *CameraSystem) {
	camera := NewCameraSystem(1280, 720, 1000)
	camera.SetTarget(physics.Vector2D{X: 750, Y: 500})
	return NewEngoRenderer(nil, camera, NewAssetManager()), camera
}

func testBall(id entity.ID, x, y float64) *entity.Ball {
	return &entity.Ball{
		Body: physics.Body{Position: physics.Vector2D{X: x, Y: y}, Radius: entity.BallRadius},
		ID:   id,
	}
}

func TestEngoRenderer_RenderBall_PositionsSprite(t *testing.T) {
	renderer, camera := newTestRenderer()

	renderer.RenderBall(testBall(0, 750, 500))

	s := renderer.balls[0]
	if s == nil {
		t.Fatal("Expected a sprite for ball 0")
	}
	diameter := float32(camera.ScaleLength(2 * entity.BallRadius))
	if math.Abs(float64(s.Width-diameter)) > 1e-3 || s.Width != s.Height {
		t.Errorf("Expected a %v square, got %vx%v", diameter, s.Width, s.Height)
	}
	centerX := s.Position.X + s.Width/2
	centerY := s.Position.Y + s.Height/2
	if math.Abs(float64(centerX)-640) > 1e-3 || math.Abs(float64(centerY)-360) > 1e-3 {
		t.Errorf("Expected ball centered on screen, got (%v, %v)", centerX, centerY)
	}
}

func TestEngoRenderer_ReusesAndRemovesBallSprites(t *testing.T) {
	renderer, _ := newTestRenderer()

	renderer.Clear()
	renderer.RenderBall(testBall(0, 100, 100))
	renderer.RenderBall(testBall(1, 200, 100))
	renderer.Present()
	first := renderer.balls[0]

	renderer.Clear()
	renderer.RenderBall(testBall(0, 120, 100))
	renderer.Present()

	if renderer.BallCount() != 1 {
		t.Errorf("Expected undrawn ball to be removed, got %d sprites", renderer.BallCount())
	}
	if renderer.balls[0] != first {
		t.Error("Expected ball 0 to keep its sprite")
	}
}

func TestEngoRenderer_RenderPlayer_BoostRing(t *testing.T) {
	renderer, _ := newTestRenderer()
	player := entity.NewPlayer(physics.Vector2D{X: 750, Y: 500}, entity.DefaultPlayerParams())

	renderer.RenderPlayer(player)
	if !renderer.boost.Hidden {
		t.Error("Expected boost ring hidden while idle")
	}
	if renderer.boost.Width <= renderer.player.Width {
		t.Errorf("Expected ring wider than player, got %v vs %v", renderer.boost.Width, renderer.player.Width)
	}

	player.Boost = true
	renderer.RenderPlayer(player)
	if renderer.boost.Hidden {
		t.Error("Expected boost ring visible while boosting")
	}
}

func TestEngoRenderer_RenderArena(t *testing.T) {
	renderer, camera := newTestRenderer()
	arena := physics.Bound{Width: 1500, Height: 1000}

	renderer.RenderArena(arena)

	if renderer.arena == nil {
		t.Fatal("Expected an arena sprite")
	}
	if math.Abs(float64(renderer.arena.Width)-camera.ScaleLength(1500)) > 1e-3 {
		t.Errorf("Expected arena width %v, got %v", camera.ScaleLength(1500), renderer.arena.Width)
	}
	if renderer.floor != nil {
		t.Error("Expected no floor sprite without a loaded texture")
	}
}

func TestEngoRenderer_ImplementsRenderer(t *testing.T) {
	var _ entity.Renderer = (*EngoRenderer)(nil)
}
