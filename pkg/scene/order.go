package scene

import (
	"cmp"
	"image"
	"image/color"
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Highlight colours, in priority order.
var (
	PlayerColour    = color.NRGBA{R: 64, G: 255, B: 64, A: 255}
	PreviewColour   = color.NRGBA{R: 255, G: 64, B: 255, A: 255}
	SelectionColour = color.NRGBA{R: 64, G: 255, B: 255, A: 255}
	CursorDay       = color.NRGBA{R: 128, G: 128, B: 255, A: 255}
	CursorNight     = color.NRGBA{R: 255, G: 255, B: 128, A: 255}
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	grey  = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	black = colorful.Color{}
)

// Marks are the map cells whose quads are drawn in a highlight colour
// instead of the distance tint. Nil points and empty rectangles mark
// nothing.
type Marks struct {
	Day       bool
	Player    *image.Point
	Cursor    *image.Point
	Selection image.Rectangle
	Preview   image.Rectangle
}

func (m Marks) colour(x, y int) (color.NRGBA, bool) {
	p := image.Pt(x, y)
	switch {
	case m.Player != nil && *m.Player == p:
		return PlayerColour, true
	case p.In(m.Preview):
		return PreviewColour, true
	case p.In(m.Selection):
		return SelectionColour, true
	case m.Cursor != nil && *m.Cursor == p:
		if m.Day {
			return CursorDay, true
		}
		return CursorNight, true
	}
	return color.NRGBA{}, false
}

// Tint returns the distance colour for fade in [0, 1]. By day surfaces
// brighten from grey and the farthest quarter fades out; by night they
// brighten from black.
func Tint(fade float64, day bool) color.NRGBA {
	f := fade * fade
	if !day {
		r, g, b := black.BlendRgb(white, f).RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	r, g, b := grey.BlendRgb(white, f).RGB255()
	a := uint8(255)
	if fade < 0.25 {
		a = uint8(255 * 4 * fade)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// DrawItem is one primitive in painter's order. Exactly one of Quad and
// Entity is a valid index; the other is -1.
type DrawItem struct {
	Quad     int
	Entity   int
	DSquared float64
	Tint     color.NRGBA
}

// DrawList returns the visible quads and entities ordered far to near,
// with entities merged in before every quad nearer than them. Clipped
// quads are left out while the viewer is pitched.
func (s *Scene) DrawList(m Marks) []DrawItem {
	limit := s.Settings.DrawDistance * s.Settings.DrawDistance

	quads := make([]DrawItem, 0, len(s.quads)/4)
	for i := range s.quads {
		q := &s.quads[i]
		if !q.Visible || q.OutOfRange || q.DSquared > limit {
			continue
		}
		if q.Clip.Clipped() && s.pitch != 0 {
			continue
		}
		fade := s.Settings.Fade(q.DSquared)
		if fade < 0 {
			continue
		}
		tint, ok := m.colour(q.CellX, q.CellY)
		if !ok {
			tint = Tint(fade, m.Day)
		}
		quads = append(quads, DrawItem{Quad: i, Entity: -1, DSquared: q.DSquared, Tint: tint})
	}

	var sprites []DrawItem
	for i := range s.entities {
		e := &s.entities[i]
		if !e.Visible || e.OutOfRange || e.DSquared > limit {
			continue
		}
		fade := s.Settings.Fade(e.DSquared)
		if fade < 0 {
			continue
		}
		sprites = append(sprites, DrawItem{Quad: -1, Entity: i, DSquared: e.DSquared, Tint: Tint(fade, m.Day)})
	}

	farFirst := func(a, b DrawItem) int { return cmp.Compare(b.DSquared, a.DSquared) }
	slices.SortStableFunc(quads, farFirst)
	slices.SortStableFunc(sprites, farFirst)

	out := make([]DrawItem, 0, len(quads)+len(sprites))
	for _, q := range quads {
		for len(sprites) > 0 && sprites[0].DSquared > q.DSquared {
			out = append(out, sprites[0])
			sprites = sprites[1:]
		}
		out = append(out, q)
	}
	return append(out, sprites...)
}
