package render

import (
	"io"
	"math"
	"os"
	"strings"

	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// cellAspect is how much taller a terminal cell is than it is wide
const cellAspect = 2.0

// Glyphs drawn by the terminal renderer
const (
	GlyphEmpty  = ' '
	GlyphWall   = '#'
	GlyphBall   = 'o'
	GlyphPlayer = '@'
	GlyphBoost  = '*'
)

// TerminalRenderer provides a simple ASCII-based rendering for terminals
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	camera    Camera
	centerPos physics.Vector2D
	out       io.Writer
	status    string
	err       error
}

// NewTerminalRenderer creates a terminal renderer of width x height cells
// that fits the whole arena on screen and writes to stdout.
func NewTerminalRenderer(width, height int, arena physics.Bound) *TerminalRenderer {
	return NewTerminalRendererWithWriter(os.Stdout, width, height, arena)
}

// NewTerminalRendererWithWriter creates a terminal renderer that writes frames to out
func NewTerminalRendererWithWriter(out io.Writer, width, height int, arena physics.Bound) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		width:     width,
		height:    height,
		buffer:    buffer,
		camera:    FitCamera(float64(width), float64(height)*cellAspect, arena),
		centerPos: arena.Center(),
		out:       out,
	}
	r.Clear()
	return r
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// SetStatus sets a line printed under the frame
func (r *TerminalRenderer) SetStatus(status string) {
	r.status = status
}

// Err returns the last write error from Present
func (r *TerminalRenderer) Err() error {
	return r.err
}

// worldToScreen converts world coordinates to a cell
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screen := r.camera.WorldToScreen(pos, r.centerPos)
	return int(math.Floor(screen.X)), int(math.Floor(screen.Y / cellAspect))
}

// cellToWorld returns the world position of a cell's center
func (r *TerminalRenderer) cellToWorld(x, y int) physics.Vector2D {
	screen := physics.Vector2D{X: float64(x) + 0.5, Y: (float64(y) + 0.5) * cellAspect}
	return r.camera.ScreenToWorld(screen, r.centerPos)
}

func (r *TerminalRenderer) set(x, y int, glyph rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = glyph
	}
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = GlyphEmpty
		}
	}
}

// Frame returns the buffer as text, one line per row
func (r *TerminalRenderer) Frame() string {
	var sb strings.Builder
	for y := range r.buffer {
		sb.WriteString(string(r.buffer[y]))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	var sb strings.Builder
	sb.WriteString("\033[H\033[2J")
	sb.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	for y := range r.buffer {
		sb.WriteString("|")
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	if r.status != "" {
		sb.WriteString(r.status)
		sb.WriteByte('\n')
	}

	_, r.err = io.WriteString(r.out, sb.String())
}

// RenderArena implements entity.Renderer
func (r *TerminalRenderer) RenderArena(arena physics.Bound) {
	x0, y0 := r.worldToScreen(physics.Vector2D{X: arena.X, Y: arena.Y})
	x1, y1 := r.worldToScreen(physics.Vector2D{X: arena.Right(), Y: arena.Bottom()})
	// A fitted arena's edges land on the buffer edges, give or take rounding
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, r.width-1), min(y1, r.height-1)

	for x := x0; x <= x1; x++ {
		r.set(x, y0, GlyphWall)
		r.set(x, y1, GlyphWall)
	}
	for y := y0; y <= y1; y++ {
		r.set(x0, y, GlyphWall)
		r.set(x1, y, GlyphWall)
	}
}

// RenderBall implements entity.Renderer
func (r *TerminalRenderer) RenderBall(ball *entity.Ball) {
	r.fillCircle(ball.GetCollider(), GlyphBall)
}

// RenderPlayer implements entity.Renderer
func (r *TerminalRenderer) RenderPlayer(player *entity.Player) {
	glyph := rune(GlyphPlayer)
	if player.Boost {
		glyph = GlyphBoost
	}
	r.fillCircle(player.GetCollider(), glyph)
}

// fillCircle marks every cell whose center lies inside c, and always the
// cell holding c's center so small circles stay visible.
func (r *TerminalRenderer) fillCircle(c physics.Circle, glyph rune) {
	cx, cy := r.worldToScreen(c.Center)
	r.set(cx, cy, glyph)

	reach := r.camera.ScaleLength(c.Radius)
	x0, x1 := int(math.Floor(float64(cx)-reach)), int(math.Ceil(float64(cx)+reach))
	y0, y1 := int(math.Floor(float64(cy)-reach/cellAspect)), int(math.Ceil(float64(cy)+reach/cellAspect))
	for y := max(y0, 0); y <= min(y1, r.height-1); y++ {
		for x := max(x0, 0); x <= min(x1, r.width-1); x++ {
			if r.cellToWorld(x, y).DistanceSquared(c.Center) <= c.Radius*c.Radius {
				r.buffer[y][x] = glyph
			}
		}
	}
}
