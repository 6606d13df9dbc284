// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"
)

// floorTile is the edge length in pixels of the arena floor texture
const floorTile = 64

// Palette used by the window scene
var (
	BackgroundColor = color.RGBA{16, 16, 24, 255}
	WallColor       = color.RGBA{200, 200, 220, 255}
	BallColor       = color.RGBA{230, 120, 40, 255}
	PlayerColor     = color.RGBA{60, 170, 255, 255}
	BoostColor      = color.RGBA{255, 230, 80, 255}
	HUDColor        = color.RGBA{255, 255, 255, 255}
)

// AssetManager handles the drawables used by the scene. Circles and the arena
// outline are vector shapes; the floor is a generated texture and needs a GL
// context, so it is only built by LoadAssets.
type AssetManager struct {
	ball   common.Drawable
	player common.Drawable
	boost  common.Drawable
	arena  common.Drawable

	floorTexture common.Drawable
}

// NewAssetManager creates an asset manager with the vector drawables ready
func NewAssetManager() *AssetManager {
	return &AssetManager{
		ball:   common.Circle{},
		player: common.Circle{},
		boost:  common.Circle{BorderWidth: 3, BorderColor: BoostColor},
		arena:  common.Rectangle{BorderWidth: 2, BorderColor: WallColor},
	}
}

// LoadAssets builds the textures that need a GL context
func (am *AssetManager) LoadAssets() error {
	img := am.createBaseImage(floorTile, floorTile)
	am.drawPatternOnImage(img, floorPattern(floorTile, 16), color.RGBA{28, 28, 40, 255})
	am.floorTexture = am.convertToEngoTexture(img)
	return nil
}

// floorPattern returns a grid of one-pixel lines every spacing pixels
func floorPattern(size, spacing int) [][]int {
	pattern := make([][]int, size)
	for y := range pattern {
		pattern[y] = make([]int, size)
		for x := range pattern[y] {
			if x%spacing == 0 || y%spacing == 0 {
				pattern[y][x] = 1
			}
		}
	}
	return pattern
}

// createBaseImage creates a transparent RGBA image with the specified dimensions.
func (am *AssetManager) createBaseImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// drawPatternOnImage paints every set cell of pattern in c, clipped to img.
func (am *AssetManager) drawPatternOnImage(img *image.RGBA, pattern [][]int, c color.Color) {
	bounds := img.Bounds()
	for y, row := range pattern {
		if y >= bounds.Dy() {
			break
		}
		for x, pixel := range row {
			if x >= bounds.Dx() {
				break
			}
			if pixel == 1 {
				img.Set(x, y, c)
			}
		}
	}
}

// convertToEngoTexture converts an RGBA image to an Engo-compatible texture.
func (am *AssetManager) convertToEngoTexture(img *image.RGBA) common.Drawable {
	bounds := img.Bounds()
	nrgbaImg := image.NewNRGBA(bounds)
	draw.Draw(nrgbaImg, bounds, img, bounds.Min, draw.Src)

	texture := common.NewImageObject(nrgbaImg)
	return common.NewTextureSingle(texture)
}

// Ball returns the ball drawable
func (am *AssetManager) Ball() common.Drawable {
	return am.ball
}

// Player returns the player drawable
func (am *AssetManager) Player() common.Drawable {
	return am.player
}

// BoostRing returns the outline drawn around a boosting player
func (am *AssetManager) BoostRing() common.Drawable {
	return am.boost
}

// Arena returns the arena outline drawable
func (am *AssetManager) Arena() common.Drawable {
	return am.arena
}

// FloorTexture returns the floor texture, or nil before LoadAssets
func (am *AssetManager) FloorTexture() common.Drawable {
	return am.floorTexture
}
