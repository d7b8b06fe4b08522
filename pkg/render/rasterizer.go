package render

import (
	"math"

	"github.com/taigrr/warren/pkg/math3d"
	"github.com/taigrr/warren/pkg/scene"
)

// Textures looks textures up by handle. A nil result draws the tint alone.
type Textures interface {
	Texture(handle int) *Texture
}

// DrawStats counts what one frame drew.
type DrawStats struct {
	Quads   int
	Sprites int
	Pixels  int
}

// Rasterizer draws the scene's quads and sprites into a framebuffer in the
// order they arrive. There is no depth buffer: callers send primitives far
// to near.
type Rasterizer struct {
	fb         *Framebuffer
	tiles      Textures
	sprites    Textures
	tileSize   float64
	spriteSize float64

	Stats DrawStats
}

var _ scene.Drawer = (*Rasterizer)(nil)

// NewRasterizer creates a rasterizer. tileSize and spriteSize are the texel
// extents the scene's texture coordinates are measured in.
func NewRasterizer(fb *Framebuffer, tiles, sprites Textures, tileSize, spriteSize float64) *Rasterizer {
	return &Rasterizer{
		fb:         fb,
		tiles:      tiles,
		sprites:    sprites,
		tileSize:   tileSize,
		spriteSize: spriteSize,
	}
}

// ResetStats zeroes the counters (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = DrawStats{}
}

func lookup(t Textures, handle int) *Texture {
	if t == nil {
		return nil
	}
	return t.Texture(handle)
}

// screenVertex holds a quad corner in screen space.
type screenVertex struct {
	X, Y float64
	InvW float64
	UV   math3d.Vec2
}

// DrawQuad rasterizes a textured quad as the triangles (0,1,2) and (0,2,3),
// interpolating texture coordinates perspective-correctly.
func (r *Rasterizer) DrawQuad(q scene.ScreenQuad) {
	if r.fb == nil {
		return
	}
	r.Stats.Quads++
	var sv [4]screenVertex
	for i := range 4 {
		if q.Depth[i] <= 0 {
			return
		}
		sv[i] = screenVertex{X: q.Points[i].X, Y: q.Points[i].Y, InvW: 1 / q.Depth[i], UV: q.UV[i]}
	}
	tex := lookup(r.tiles, q.Texture)
	tint := Color{R: q.Tint.R, G: q.Tint.G, B: q.Tint.B, A: 255}
	r.drawTriangle(sv[0], sv[1], sv[2], tex, tint, q.Tint.A, false)
	// The diagonal belongs to the first triangle only, or translucent
	// quads would blend it twice.
	r.drawTriangle(sv[0], sv[2], sv[3], tex, tint, q.Tint.A, true)
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C, whose sign
// tells which side of the edge (x0,y0)->(x1,y1) a point lies on.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// drawTriangle fills the pixels whose centres lie inside v0 v1 v2. With
// openFirst set, centres on the edge v0->v1 are left out.
func (r *Rasterizer) drawTriangle(v0, v1, v2 screenVertex, tex *Texture, tint Color, alpha uint8, openFirst bool) {
	a0, b0, c0 := edgeCoeffs(v1.X, v1.Y, v2.X, v2.Y)
	a1, b1, c1 := edgeCoeffs(v2.X, v2.Y, v0.X, v0.Y)
	a2, b2, c2 := edgeCoeffs(v0.X, v0.Y, v1.X, v1.Y)
	area := a0*v0.X + b0*v0.Y + c0
	if math.Abs(area) < 1e-9 || math.IsNaN(area) {
		return
	}
	inv := 1 / area

	minX := int(math.Max(0, math.Floor(min3(v0.X, v1.X, v2.X))))
	maxX := int(math.Min(float64(r.fb.Width-1), math.Ceil(max3(v0.X, v1.X, v2.X))))
	minY := int(math.Max(0, math.Floor(min3(v0.Y, v1.Y, v2.Y))))
	maxY := int(math.Min(float64(r.fb.Height-1), math.Ceil(max3(v0.Y, v1.Y, v2.Y))))

	const eps = -1e-9
	edge2 := eps
	if openFirst {
		edge2 = -eps
	}
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			// Normalised by the signed area, so either winding works.
			w0 := (a0*px + b0*py + c0) * inv
			w1 := (a1*px + b1*py + c1) * inv
			w2 := (a2*px + b2*py + c2) * inv
			if w0 < eps || w1 < eps || w2 < edge2 {
				continue
			}

			c := tint
			if tex != nil {
				p0, p1, p2 := w0*v0.InvW, w1*v1.InvW, w2*v2.InvW
				oneOverW := p0 + p1 + p2
				u := (p0*v0.UV.X + p1*v1.UV.X + p2*v2.UV.X) / oneOverW
				v := (p0*v0.UV.Y + p1*v1.UV.Y + p2*v2.UV.Y) / oneOverW
				c = ModulateColor(tex.Sample(u/r.tileSize, v/r.tileSize), tint)
			}
			r.fb.BlendPixel(x, y, c, alpha)
			r.Stats.Pixels++
		}
	}
}

// DrawSprite blits a billboard scaled by s.Scale. Texels below AlphaCutoff
// are transparent.
func (r *Rasterizer) DrawSprite(s scene.ScreenSprite) {
	if r.fb == nil {
		return
	}
	size := r.spriteSize * s.Scale
	if !(size > 0) {
		return
	}
	r.Stats.Sprites++
	tex := lookup(r.sprites, s.Sprite)
	tint := Color{R: s.Tint.R, G: s.Tint.G, B: s.Tint.B, A: 255}

	minX := int(math.Max(0, math.Floor(s.Pos.X)))
	maxX := int(math.Min(float64(r.fb.Width-1), math.Ceil(s.Pos.X+size)))
	minY := int(math.Max(0, math.Floor(s.Pos.Y)))
	maxY := int(math.Min(float64(r.fb.Height-1), math.Ceil(s.Pos.Y+size)))

	for y := minY; y <= maxY; y++ {
		v := (float64(y) + 0.5 - s.Pos.Y) / size
		if v < 0 || v >= 1 {
			continue
		}
		for x := minX; x <= maxX; x++ {
			u := (float64(x) + 0.5 - s.Pos.X) / size
			if u < 0 || u >= 1 {
				continue
			}
			c := tint
			if tex != nil {
				texel, solid := tex.Cutout(u, v)
				if !solid {
					continue
				}
				c = ModulateColor(texel, tint)
			}
			r.fb.BlendPixel(x, y, c, s.Tint.A)
			r.Stats.Pixels++
		}
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
