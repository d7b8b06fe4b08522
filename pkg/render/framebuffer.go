// Package render rasterizes the scene's draw calls into a framebuffer and
// presents it on the terminal.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Color is the framebuffer and texel colour type.
type Color = color.RGBA

var (
	ColorBlack = Color{R: 0, G: 0, B: 0, A: 255}
	ColorWhite = Color{R: 255, G: 255, B: 255, A: 255}
	ColorSky   = Color{R: 135, G: 206, B: 235, A: 255}
	ColorNight = Color{R: 8, G: 8, B: 24, A: 255}
	ColorHaze  = Color{R: 200, G: 220, B: 235, A: 255}
)

// RGB creates an opaque colour.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Framebuffer is the frame the rasterizer paints. On a terminal each cell
// shows two pixels stacked with a half block, so Height is twice the row
// count. It is an image.Image, which is how snapshots get encoded.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
}

var _ image.Image = (*Framebuffer)(nil)

// NewFramebuffer creates a black, transparent framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize changes the frame size, reusing the pixel slice when it is large
// enough. The contents are undefined until the next Clear.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	n := width * height
	if cap(fb.Pixels) < n {
		fb.Pixels = make([]Color, n)
	}
	fb.Pixels = fb.Pixels[:n]
	fb.Width, fb.Height = width, height
}

func (fb *Framebuffer) inside(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Clear fills the frame with c.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// ClearGradient fills the frame with rows fading from top to bottom; the
// daytime sky.
func (fb *Framebuffer) ClearGradient(top, bottom Color) {
	for y := range fb.Height {
		t := 0.0
		if fb.Height > 1 {
			t = float64(y) / float64(fb.Height-1)
		}
		c := lerpColor(top, bottom, t)
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x := range row {
			row[x] = c
		}
	}
}

// SetPixel overwrites one pixel; off-frame writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if fb.inside(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// BlendPixel mixes c over the pixel at (x, y) with opacity alpha/255.
func (fb *Framebuffer) BlendPixel(x, y int, c Color, alpha uint8) {
	if !fb.inside(x, y) {
		return
	}
	i := y*fb.Width + x
	switch alpha {
	case 255:
		fb.Pixels[i] = c
	case 0:
	default:
		fb.Pixels[i] = lerpColor(fb.Pixels[i], c, float64(alpha)/255)
	}
}

// GetPixel returns the pixel at (x, y), or transparent black off-frame.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.inside(x, y) {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine steps from (x0, y0) to (x1, y1) one pixel at a time along the
// longer axis.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		fb.SetPixel(x0, y0, c)
		return
	}
	for i := range steps + 1 {
		t := float64(i) / float64(steps)
		fb.SetPixel(x0+int(math.Round(float64(dx)*t)), y0+int(math.Round(float64(dy)*t)), c)
	}
}

// DrawCrosshair marks (x, y) with a plus sign of arm length size.
func (fb *Framebuffer) DrawCrosshair(x, y, size int, c Color) {
	fb.DrawLine(x-size, y, x+size, y, c)
	fb.DrawLine(x, y-size, x, y+size, c)
}

// DrawRectOutline frames the w x h rectangle at (x, y).
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x1, y1 := x+w-1, y+h-1
	fb.DrawLine(x, y, x1, y, c)
	fb.DrawLine(x, y1, x1, y1, c)
	fb.DrawLine(x, y, x, y1, c)
	fb.DrawLine(x1, y, x1, y1, c)
}

// DrawTexture blits tex scaled into the w x h rectangle at (x, y), honouring
// texel alpha. The HUD's texture swatch uses it.
func (fb *Framebuffer) DrawTexture(tex *Texture, x, y, w, h int) {
	if tex == nil || w <= 0 || h <= 0 {
		return
	}
	for py := range h {
		for px := range w {
			c := tex.Sample((float64(px)+0.5)/float64(w), (float64(py)+0.5)/float64(h))
			fb.BlendPixel(x+px, y+py, c, c.A)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ColorModel implements image.Image.
func (fb *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (fb *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.Width, fb.Height) }

// At implements image.Image.
func (fb *Framebuffer) At(x, y int) color.Color { return fb.GetPixel(x, y) }

// SavePNG writes the frame to path.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
