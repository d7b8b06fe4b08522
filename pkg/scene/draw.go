package scene

import (
	"image/color"

	"github.com/taigrr/warren/pkg/math3d"
)

// ScreenQuad is a textured quadrilateral ready to rasterize. Point k shows
// texel UV[k] of Texture; Depth[k] is its perspective divisor. Source is
// the texel rectangle the UVs span.
type ScreenQuad struct {
	Points  [4]math3d.Vec2
	Depth   [4]float64
	UV      [4]math3d.Vec2
	Source  math3d.Rect
	Texture int
	Tint    color.NRGBA
}

// ScreenSprite is a billboard whose top-left corner is at Pos, drawn at
// Scale screen pixels per sprite texel.
type ScreenSprite struct {
	Pos    math3d.Vec2
	Scale  float64
	Sprite int
	Tint   color.NRGBA
}

// Drawer rasterizes what the scene hands it. Calls arrive far to near.
type Drawer interface {
	DrawQuad(ScreenQuad)
	DrawSprite(ScreenSprite)
}

// Draw issues the items of a DrawList to d, one call per quad piece or
// sprite.
func (s *Scene) Draw(d Drawer, items []DrawItem) {
	for _, it := range items {
		if it.Entity >= 0 {
			e := &s.entities[it.Entity]
			d.DrawSprite(ScreenSprite{Pos: e.Screen, Scale: e.Scale, Sprite: e.Sprite, Tint: it.Tint})
			continue
		}
		q := &s.quads[it.Quad]
		for _, p := range q.Clip.Pieces() {
			d.DrawQuad(ScreenQuad{
				Points:  p.Screen,
				Depth:   p.Depth,
				UV:      p.UV,
				Source:  p.Source,
				Texture: q.Texture,
				Tint:    it.Tint,
			})
		}
	}
}
