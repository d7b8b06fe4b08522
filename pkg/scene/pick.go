package scene

import "github.com/taigrr/warren/pkg/math3d"

// Pick returns the nearest whole, visible quad under the screen point p.
// Split or trimmed quads are never picked.
func (s *Scene) Pick(p math3d.Vec2) (QuadRef, bool) {
	best := s.Settings.DrawDistance * s.Settings.DrawDistance
	ref, found := QuadRef{}, false
	for i := range s.quads {
		q := &s.quads[i]
		if !q.Visible || q.Clip.Kind != ClipWhole || q.DSquared >= best {
			continue
		}
		if !q.Bounds.Contains(p) || !insideConvex(q.Clip.pieces[0].Screen, p) {
			continue
		}
		best = q.DSquared
		ref, found = QuadRef{Index: i, Generation: s.generation}, true
	}
	return ref, found
}

// insideConvex reports whether p lies in the convex quad pts, edges
// included, whichever way it winds.
func insideConvex(pts [4]math3d.Vec2, p math3d.Vec2) bool {
	var pos, neg bool
	for k := range pts {
		a, b := pts[k], pts[(k+1)%4]
		c := b.Sub(a).Cross(p.Sub(a))
		switch {
		case c > 0:
			pos = true
		case c < 0:
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}
