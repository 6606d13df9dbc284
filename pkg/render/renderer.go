// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/logging"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// NullRenderer is an entity.Renderer that only logs what it is asked to draw.
// Headless runs use it to trace frames at debug level.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a NullRenderer. A nil logger discards everything.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(context.Background(), "Present called")
}

// RenderArena implements entity.Renderer.
func (d *NullRenderer) RenderArena(arena physics.Bound) {
	d.logger.Debug(context.Background(), "RenderArena called",
		"x", arena.X,
		"y", arena.Y,
		"width", arena.Width,
		"height", arena.Height,
	)
}

// RenderBall implements entity.Renderer.
func (d *NullRenderer) RenderBall(ball *entity.Ball) {
	ctx := context.Background()
	if ball == nil {
		d.logger.Debug(ctx, "RenderBall called with nil ball")
		return
	}
	d.logger.Debug(ctx, "RenderBall called",
		"ball_id", uint64(ball.ID),
		"x", ball.Position.X,
		"y", ball.Position.Y,
		"radius", ball.Radius,
	)
}

// RenderPlayer implements entity.Renderer.
func (d *NullRenderer) RenderPlayer(player *entity.Player) {
	ctx := context.Background()
	if player == nil {
		d.logger.Debug(ctx, "RenderPlayer called with nil player")
		return
	}
	d.logger.Debug(ctx, "RenderPlayer called",
		"x", player.Position.X,
		"y", player.Position.Y,
		"radius", player.Radius,
		"boost", player.Boost,
	)
}
