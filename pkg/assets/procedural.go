package assets

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/warren/pkg/render"
)

// goldenAngle spreads consecutive hues far apart.
const goldenAngle = 137.50776

func hue(i int) float64 {
	return math.Mod(float64(i)*goldenAngle, 360)
}

func rgba(c colorful.Color, a uint8) render.Color {
	r, g, b := c.Clamped().RGB255()
	return render.Color{R: r, G: g, B: b, A: a}
}

// Tile generates a size x size checkerboard in a hue unique to handle i.
func Tile(i, size int) *render.Texture {
	h := hue(i)
	light := rgba(colorful.Hsv(h, 0.45, 0.85), 255)
	dark := rgba(colorful.Hsv(h, 0.45, 0.6), 255)
	return render.NewCheckerTexture(size, size, max(size/4, 1), light, dark)
}

// Sprite generates a size x size disc in a hue unique to handle i, shaded
// towards its rim, with transparent corners.
func Sprite(i, size int) *render.Texture {
	tex := render.NewTexture(size, size)
	base := colorful.Hsv(hue(i), 0.7, 0.95)
	rim := colorful.Hsv(hue(i), 0.8, 0.4)
	r := float64(size) / 2
	for y := range size {
		for x := range size {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			d := math.Hypot(dx, dy) / r
			if d > 1 {
				continue
			}
			tex.SetPixel(x, y, rgba(base.BlendLab(rim, d*d), 255))
		}
	}
	return tex
}

// ProceduralTiles fills a table with generated tiles.
func ProceduralTiles(count, size int) *Table {
	t := NewTable(count, Missing(size))
	for i := range count {
		t.Set(i, Tile(i, size))
	}
	return t
}

// ProceduralSprites fills a table with generated sprites.
func ProceduralSprites(count, size int) *Table {
	t := NewTable(count, nil)
	for i := range count {
		t.Set(i, Sprite(i, size))
	}
	return t
}

// Missing is the magenta and black checkerboard drawn for absent textures.
func Missing(size int) *render.Texture {
	return render.NewCheckerTexture(size, size, max(size/8, 1), render.RGB(255, 0, 255), render.ColorBlack)
}
