package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"math"
	"os"
	"strings"
)

// WrapMode says what happens to texture coordinates outside [0,1].
type WrapMode uint8

const (
	WrapClamp  WrapMode = iota // Clamp to the edge texel
	WrapRepeat                 // Tile the texture
)

// FilterMode selects how a texel is looked up.
type FilterMode uint8

const (
	FilterNearest  FilterMode = iota // Blocky texels, the classic look
	FilterBilinear                   // Blend the four nearest texels
)

// ParseFilter maps "nearest" or "bilinear" to a FilterMode.
func ParseFilter(name string) (FilterMode, error) {
	switch strings.ToLower(name) {
	case "", "nearest":
		return FilterNearest, nil
	case "bilinear":
		return FilterBilinear, nil
	}
	return FilterNearest, fmt.Errorf("unknown texture filter %q", name)
}

func (f FilterMode) String() string {
	if f == FilterBilinear {
		return "bilinear"
	}
	return "nearest"
}

// AlphaCutoff is the alpha below which a sprite texel is see-through.
const AlphaCutoff = 128

// Texture is a tile or sprite image. Pixels are row-major with straight
// (non-premultiplied) alpha; row 0 is the top and v grows downward, the same
// way tile texel coordinates run.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
	Wrap   WrapMode
	Filter FilterMode
}

// NewTexture creates a transparent texture.
func NewTexture(width, height int) *Texture {
	width, height = max(width, 0), max(height, 0)
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes a PNG or JPEG file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	tex, err := DecodeTexture(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return tex, nil
}

// DecodeTexture decodes any registered image format.
func DecodeTexture(r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies img, un-premultiplying its alpha so sprite edges
// keep their colour.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	if src, ok := img.(*image.NRGBA); ok {
		for y := range tex.Height {
			row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride:]
			for x := range tex.Width {
				i := (x + b.Min.X - src.Rect.Min.X) * 4
				tex.Pixels[y*tex.Width+x] = Color{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]}
			}
		}
		return tex
	}
	for y := range tex.Height {
		for x := range tex.Width {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			tex.Pixels[y*tex.Width+x] = Color(c)
		}
	}
	return tex
}

// NewCheckerTexture creates a checkerboard with squares of checkSize texels.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	checkSize = max(checkSize, 1)
	for y := range tex.Height {
		for x := range tex.Width {
			c := c2
			if (x/checkSize+y/checkSize)%2 == 0 {
				c = c1
			}
			tex.Pixels[y*tex.Width+x] = c
		}
	}
	return tex
}

// SetPixel sets a texel; out-of-range writes are dropped.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns a texel, or transparent black out of range.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the colour at (u, v), both in [0,1] across the texture.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	fx := u * float64(t.Width)
	fy := v * float64(t.Height)
	if t.Filter == FilterNearest {
		return t.texel(int(math.Floor(fx)), int(math.Floor(fy)))
	}

	fx, fy = fx-0.5, fy-0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0
	x, y := int(x0), int(y0)
	top := lerpColor(t.texel(x, y), t.texel(x+1, y), tx)
	bot := lerpColor(t.texel(x, y+1), t.texel(x+1, y+1), tx)
	return lerpColor(top, bot, ty)
}

// Cutout samples (u, v) and reports whether the texel is solid enough to
// draw.
func (t *Texture) Cutout(u, v float64) (Color, bool) {
	c := t.Sample(u, v)
	return c, c.A >= AlphaCutoff
}

// texel fetches a texel with the wrap mode applied.
func (t *Texture) texel(x, y int) Color {
	switch t.Wrap {
	case WrapRepeat:
		x = ((x % t.Width) + t.Width) % t.Width
		y = ((y % t.Height) + t.Height) % t.Height
	default:
		x = min(max(x, 0), t.Width-1)
		y = min(max(y, 0), t.Height-1)
	}
	return t.Pixels[y*t.Width+x]
}

// lerpColor linearly interpolates between two colours.
func lerpColor(a, b Color, t float64) Color {
	mix := func(p, q uint8) uint8 {
		return uint8(float64(p) + (float64(q)-float64(p))*t + 0.5)
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// ModulateColor multiplies a texel by a tint channel-wise.
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8(int(a.R) * int(b.R) / 255),
		G: uint8(int(a.G) * int(b.G) / 255),
		B: uint8(int(a.B) * int(b.B) / 255),
		A: uint8(int(a.A) * int(b.A) / 255),
	}
}
