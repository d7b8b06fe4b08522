package scene

import (
	"math"

	"github.com/taigrr/warren/pkg/math3d"
)

// ClipKind tags the outcome of near-plane clipping.
type ClipKind uint8

const (
	// ClipCulled means nothing of the quad is in front of the near plane, or
	// its geometry was degenerate.
	ClipCulled ClipKind = iota
	// ClipWhole means all four corners are in front of the plane.
	ClipWhole
	// ClipTrimmed is a wall with its lost corners slid along their pairs.
	ClipTrimmed
	// ClipSplit is a flat quad cut into up to three convex pieces. A
	// triangular piece repeats its last corner.
	ClipSplit
)

func (k ClipKind) String() string {
	switch k {
	case ClipWhole:
		return "whole"
	case ClipTrimmed:
		return "trimmed"
	case ClipSplit:
		return "split"
	default:
		return "culled"
	}
}

// Piece is one convex quadrilateral left after clipping. Corner k carries
// its viewer-space position, texel coordinate, projected screen point and
// perspective divisor.
type Piece struct {
	View   [4]math3d.Vec3
	UV     [4]math3d.Vec2
	Screen [4]math3d.Vec2
	Depth  [4]float64
	Source math3d.Rect
}

// Clip is the tagged result of clipping one quad. Only the pieces are
// meant to be drawn; a whole quad has exactly one piece.
type Clip struct {
	Kind   ClipKind
	n      int
	pieces [3]Piece
}

// Pieces returns the drawable pieces. The slice aliases c.
func (c *Clip) Pieces() []Piece {
	return c.pieces[:c.n]
}

// Drawable reports whether anything survived.
func (c *Clip) Drawable() bool {
	return c.n > 0
}

// Clipped reports whether the pieces differ from the source quad.
func (c *Clip) Clipped() bool {
	return c.Kind == ClipTrimmed || c.Kind == ClipSplit
}

func (c *Clip) add(view [4]math3d.Vec3, uv [4]math3d.Vec2) {
	c.pieces[c.n] = Piece{View: view, UV: uv, Source: math3d.Bounds(uv[:]...)}
	c.n++
}

func whole(view [4]math3d.Vec3, uv [4]math3d.Vec2) Clip {
	c := Clip{Kind: ClipWhole}
	c.add(view, uv)
	return c
}

func distances(view [4]math3d.Vec3, near Plane) (d [4]float64, lost int, ok bool) {
	for i, v := range view {
		d[i] = near.DistanceToPoint(v)
		if !finite(d[i]) {
			return d, 0, false
		}
		if d[i] < 0 {
			lost++
		}
	}
	return d, lost, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ClipFlat clips a horizontal quad against the near plane. The quad is
// parameterised from its anchor corner n (the one deepest in front of the
// plane) as P(s,t) = V[n] + s(V[n+1]-V[n]) + t(V[n+3]-V[n]). The first
// piece is the square [0,tau]^2 whose far corner lies on the plane. The
// second and third pieces cover what is left on the n+1 and n+3 sides, each
// closed by the plane itself: a trapezoid when that corner survives, a
// triangle (its last corner repeated) when it does not.
func ClipFlat(view [4]math3d.Vec3, uv [4]math3d.Vec2, near Plane) Clip {
	d, lost, ok := distances(view, near)
	switch {
	case !ok || lost == 4:
		return Clip{}
	case lost == 0:
		return whole(view, uv)
	}

	n := 0
	for i := 1; i < 4; i++ {
		if d[i] > d[n] {
			n = i
		}
	}
	n1, n3 := (n+1)%4, (n+3)%4
	e1 := view[n1].Sub(view[n])
	e2 := view[n3].Sub(view[n])
	if e1.LenSq() == 0 || e2.LenSq() == 0 {
		return Clip{}
	}

	// Depth is affine over the quad: d(s,t) = d0 + s*g1 + t*g2 with g1, g2 <= 0.
	d0, g1, g2 := d[n], d[n1]-d[n], d[n3]-d[n]
	tau := -d0 / (g1 + g2)
	if !finite(tau) || tau <= 0 || tau > 1 {
		return Clip{}
	}

	at := func(s, t float64) (math3d.Vec3, math3d.Vec2) {
		p := view[n].Add(e1.Scale(s)).Add(e2.Scale(t))
		q := uv[n].Add(uv[n1].Sub(uv[n]).Scale(s)).Add(uv[n3].Sub(uv[n]).Scale(t))
		return p, q
	}
	emit := func(c *Clip, st [4]math3d.Vec2) {
		var v [4]math3d.Vec3
		var u [4]math3d.Vec2
		for k, p := range st {
			v[k], u[k] = at(p.X, p.Y)
		}
		c.add(v, u)
	}
	const sliver = 1e-9

	c := Clip{Kind: ClipSplit}
	emit(&c, [4]math3d.Vec2{{X: 0, Y: 0}, {X: tau, Y: 0}, {X: tau, Y: tau}, {X: 0, Y: tau}})
	if d[n1] >= 0 {
		theta := -(d0 + g1) / g2
		if finite(theta) && theta >= 0 {
			theta = math.Min(theta, tau)
			emit(&c, [4]math3d.Vec2{{X: tau, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: theta}, {X: tau, Y: tau}})
		}
	} else if s := -d0 / g1; finite(s) && s-tau > sliver {
		// The plane meets the t=0 edge before n+1.
		s = math.Min(s, 1)
		emit(&c, [4]math3d.Vec2{{X: tau, Y: 0}, {X: s, Y: 0}, {X: tau, Y: tau}, {X: tau, Y: tau}})
	}
	if d[n3] >= 0 {
		phi := -(d0 + g2) / g1
		if finite(phi) && phi >= 0 {
			phi = math.Min(phi, tau)
			emit(&c, [4]math3d.Vec2{{X: 0, Y: tau}, {X: tau, Y: tau}, {X: phi, Y: 1}, {X: 0, Y: 1}})
		}
	} else if t := -d0 / g2; finite(t) && t-tau > sliver {
		t = math.Min(t, 1)
		emit(&c, [4]math3d.Vec2{{X: 0, Y: tau}, {X: tau, Y: tau}, {X: 0, Y: t}, {X: 0, Y: t}})
	}
	return c
}

// ClipWall clips a vertical quad against the near plane by sliding each
// corner behind it towards its pair until it meets the plane. pairs[k] is
// the corner sharing corner k's height on the opposite edge. The trimmed
// source follows the corner deepest behind the plane.
func ClipWall(view [4]math3d.Vec3, uv [4]math3d.Vec2, pairs [4]int, near Plane) Clip {
	d, lost, ok := distances(view, near)
	switch {
	case !ok || lost > 2:
		return Clip{}
	case lost == 0:
		return whole(view, uv)
	}

	key := -1
	for k := range 4 {
		if d[k] >= 0 {
			continue
		}
		if key < 0 || d[k] < d[key] {
			key = k
		}
		p := pairs[k]
		if p < 0 || p > 3 || d[p] < 0 {
			return Clip{}
		}
		if view[k].Sub(view[p]).LenSq() == 0 {
			return Clip{}
		}
		delta := d[k] / (d[k] - d[p])
		if !finite(delta) || delta < 0 || delta > 1 {
			return Clip{}
		}
		view[k] = view[k].Lerp(view[p], delta)
		uv[k] = uv[k].Lerp(uv[p], delta)
	}

	// The source spans the trimmed edge from the key corner to its pair.
	c := Clip{Kind: ClipTrimmed}
	c.add(view, uv)
	a, b := uv[key].X, uv[pairs[key]].X
	c.pieces[0].Source.X = math.Min(a, b)
	c.pieces[0].Source.W = math.Abs(a - b)
	return c
}
