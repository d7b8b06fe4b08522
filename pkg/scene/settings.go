// Package scene runs the per-frame pipeline that turns the level's quads and
// sprites into an ordered list of screen-space draw calls: viewer transform,
// near-plane clip, back-face test, projection, cursor pick and painter's
// sort.
package scene

import (
	"math"

	"github.com/taigrr/warren/pkg/math3d"
)

// Settings holds the constants every pipeline stage shares.
type Settings struct {
	Omega        float64 // near plane depth in viewer space
	Unit         float64 // world size of one map cell
	TileSize     float64 // texels along one tile edge
	SpriteSize   float64 // texels along one sprite edge
	EntityScale  float64 // billboard scale numerator
	DrawDistance float64 // world units; farther primitives are dropped
	Zoom         float64 // pixels per unit at depth one
	Width        float64 // screen width in pixels
	Height       float64 // screen height in pixels
}

// DefaultSettings returns the stock constants for a w x h pixel screen.
func DefaultSettings(w, h int) Settings {
	const unit = 100
	return Settings{
		Omega:        0.1,
		Unit:         unit,
		TileSize:     64,
		SpriteSize:   64,
		EntityScale:  5 * 64,
		DrawDistance: 30 * unit,
		Zoom:         float64(w) / 2,
		Width:        float64(w),
		Height:       float64(h),
	}
}

// Project maps a viewer-space point to the screen. The second result is the
// perspective divisor y + Omega.
func (s Settings) Project(p math3d.Vec3) (math3d.Vec2, float64) {
	w := p.Y + s.Omega
	return math3d.Vec2{
		X: s.Width/2 - p.X*s.Zoom/w,
		Y: s.Height/2 + p.Z*s.Zoom/w,
	}, w
}

// Fade returns 1 at the viewer falling to 0 at the draw distance. Beyond it
// the result is negative.
func (s Settings) Fade(dSquared float64) float64 {
	return 1 - math.Sqrt(dSquared)/s.DrawDistance
}
