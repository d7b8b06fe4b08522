package scene

import (
	"testing"

	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/math3d"
)

func newGrid(t *testing.T, w, h int) *level.Grid {
	t.Helper()
	g, err := level.New(w, h)
	if err != nil {
		t.Fatalf("level.New: %v", err)
	}
	return g
}

func normalOf(q *Quad) math3d.Vec3 {
	v := q.Vertices
	return v[1].Pos.Sub(v[0].Pos).Cross(v[3].Pos.Sub(v[0].Pos))
}

func centreOf(q *Quad) math3d.Vec3 {
	v := q.Vertices
	return math3d.Mean(v[0].Pos, v[1].Pos, v[2].Pos, v[3].Pos)
}

func TestBuildQuadsSingleRoom(t *testing.T) {
	// One sky cell ringed by eight wall cells: eight roofs, one floor and
	// three bands of wall on each side of the sky cell.
	s := DefaultSettings(200, 100)
	quads := BuildQuads(newGrid(t, 1, 1), s)

	var roofs, floors, walls int
	for i := range quads {
		q := &quads[i]
		switch {
		case q.IsWall():
			walls++
		case q.Level == level.FlatCeiling:
			roofs++
		case q.Level == level.FlatFloor:
			floors++
			if q.CellX != 1 || q.CellY != 1 {
				t.Errorf("floor in cell (%d,%d), want (1,1)", q.CellX, q.CellY)
			}
			want := math3d.V3(0, 0, s.Unit)
			if q.Vertices[0].Pos != want {
				t.Errorf("floor corner 0 = %v, want %v", q.Vertices[0].Pos, want)
			}
		}
		if q.Texture == 0 {
			t.Errorf("quad %d has no texture", i)
		}
	}
	if roofs != 8 || floors != 1 || walls != 12 || len(quads) != 21 {
		t.Errorf("roofs=%d floors=%d walls=%d total=%d, want 8 1 12 21", roofs, floors, walls, len(quads))
	}
}

func TestBuildQuadsFacing(t *testing.T) {
	g := newGrid(t, 3, 3)
	g.SetKind(3, 3, level.Corridor)
	g.SetKind(4, 3, level.LowRoomSingleBlock)
	g.SetKind(2, 2, level.SkyFloatingBlock)
	g.SetKind(5, 5, level.HighRoomFloatingBlock)
	s := DefaultSettings(200, 100)
	u := s.Unit

	for _, q := range BuildQuads(g, s) {
		n := normalOf(&q)
		c := centreOf(&q)
		if !q.IsWall() {
			// Seen from the side the tile faces, never from the other.
			side := math3d.V3(0, 0, u/2)
			if n.Z < 0 {
				side = side.Negate()
			}
			if !FacesViewer(side, n) || FacesViewer(side.Negate(), n) {
				t.Errorf("flat %d of (%d,%d) faces the wrong way", q.Level, q.CellX, q.CellY)
			}
			continue
		}

		// Visible from the open neighbour, hidden from inside the cell.
		off := neighbours[q.Direction]
		nx, ny := g.Origin(q.CellX+off[0], q.CellY+off[1], u)
		outside := math3d.V3(nx+u/2, ny+u/2, c.Z)
		ox, oy := g.Origin(q.CellX, q.CellY, u)
		inside := math3d.V3(ox+u/2, oy+u/2, c.Z)
		if !FacesViewer(c.Sub(outside), n) {
			t.Errorf("wall %d/%d of (%d,%d) hidden from outside", q.Level, q.Direction, q.CellX, q.CellY)
		}
		if FacesViewer(c.Sub(inside), n) {
			t.Errorf("wall %d/%d of (%d,%d) visible from inside", q.Level, q.Direction, q.CellX, q.CellY)
		}
		for k, v := range q.Vertices {
			if p := q.Vertices[v.Pair]; p.Pos.Z != v.Pos.Z {
				t.Errorf("corner %d paired across heights", k)
			}
		}
	}
}

func TestBuildQuadsWallNeedsNeighbour(t *testing.T) {
	// The border is solid, so no wall faces out of the map.
	g := newGrid(t, 2, 2)
	for _, q := range BuildQuads(g, DefaultSettings(200, 100)) {
		if !q.IsWall() {
			continue
		}
		off := neighbours[q.Direction]
		if !g.InBounds(q.CellX+off[0], q.CellY+off[1]) {
			t.Errorf("wall of (%d,%d) faces out of the map", q.CellX, q.CellY)
		}
	}
}

func TestBackFaceSymmetry(t *testing.T) {
	tests := []struct {
		centre, normal math3d.Vec3
	}{
		{math3d.V3(0, 10, 0), math3d.V3(0, 1, 0)},
		{math3d.V3(3, 5, -2), math3d.V3(-1, 0.5, 2)},
		{math3d.V3(-7, 1, 4), math3d.V3(0, -3, 1)},
	}
	for _, tc := range tests {
		a := FacesViewer(tc.centre, tc.normal)
		b := FacesViewer(tc.centre, tc.normal.Negate())
		if a == b {
			t.Errorf("centre %v normal %v: negating the normal kept visibility %v", tc.centre, tc.normal, a)
		}
	}
}
