package scene

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/math3d"
	"github.com/taigrr/warren/pkg/maze"
)

// roomScene is a 1x1 level with the viewer standing mid-height in the only
// open cell, looking south.
func roomScene(t *testing.T) (*Scene, *Viewer) {
	t.Helper()
	log, _ := test.NewNullLogger()
	sc := New(newGrid(t, 1, 1), DefaultSettings(200, 100), log)
	v := NewViewer(math3d.V3(50, 50, 50))
	sc.Update(v)
	return sc, v
}

type recorder struct {
	quads   []ScreenQuad
	sprites []ScreenSprite
}

func (r *recorder) DrawQuad(q ScreenQuad)     { r.quads = append(r.quads, q) }
func (r *recorder) DrawSprite(s ScreenSprite) { r.sprites = append(r.sprites, s) }

func TestProjectCentredSquare(t *testing.T) {
	s := DefaultSettings(200, 100)
	prev := math.Inf(1)
	for _, depth := range []float64{100, 150, 300, 1000} {
		view := [4]math3d.Vec3{
			math3d.V3(-0.5, depth, -0.5), math3d.V3(0.5, depth, -0.5),
			math3d.V3(0.5, depth, 0.5), math3d.V3(-0.5, depth, 0.5),
		}
		c := ClipFlat(view, tileUV(), NearPlane(s.Omega))
		if c.Kind != ClipWhole {
			t.Fatalf("depth %v: kind = %v, want whole", depth, c.Kind)
		}
		var pts [4]math3d.Vec2
		for k, p := range c.Pieces()[0].View {
			pts[k], _ = s.Project(p)
		}
		box := math3d.Bounds(pts[:]...)
		cx, cy := box.X+box.W/2, box.Y+box.H/2
		if math.Abs(cx-s.Width/2) > 1e-9 || math.Abs(cy-s.Height/2) > 1e-9 {
			t.Errorf("depth %v: centre (%v, %v), want (%v, %v)", depth, cx, cy, s.Width/2, s.Height/2)
		}
		if math.Abs(box.W-box.H) > 1e-9 {
			t.Errorf("depth %v: %vx%v is not square", depth, box.W, box.H)
		}
		if box.W >= prev {
			t.Errorf("depth %v: width %v did not shrink from %v", depth, box.W, prev)
		}
		prev = box.W
	}
}

func TestSceneUpdate(t *testing.T) {
	sc, _ := roomScene(t)
	var floor, south *Quad
	for i := range sc.Quads() {
		q := &sc.Quads()[i]
		switch {
		case !q.IsWall() && q.Level == level.FlatFloor:
			floor = q
		case q.IsWall() && q.Direction == level.North && q.Level == level.BandWall:
			south = q
		}
	}
	if floor == nil || south == nil {
		t.Fatal("missing floor or south wall")
	}
	if floor.Clip.Kind != ClipSplit || !floor.Visible {
		t.Errorf("floor under the viewer: kind %v visible %v, want visible split", floor.Clip.Kind, floor.Visible)
	}
	if south.Clip.Kind != ClipWhole || !south.Visible {
		t.Errorf("wall ahead: kind %v visible %v, want visible whole", south.Clip.Kind, south.Visible)
	}
	if math.Abs(south.DSquared-50*50) > 1e-9 {
		t.Errorf("wall ahead dSquared = %v, want 2500", south.DSquared)
	}
	if !south.Bounds.Contains(math3d.V2(100, 50)) {
		t.Errorf("wall ahead bounds %+v miss the screen centre", south.Bounds)
	}
	if floor.Bounds != (math3d.Rect{}) {
		t.Errorf("split floor kept bounds %+v", floor.Bounds)
	}
}

func TestScenePickAndResolve(t *testing.T) {
	sc, _ := roomScene(t)
	ref, ok := sc.Pick(math3d.V2(100, 50))
	if !ok {
		t.Fatal("nothing picked at the screen centre")
	}
	q, ok := sc.Resolve(ref)
	if !ok {
		t.Fatal("fresh ref did not resolve")
	}
	if q.CellX != 1 || q.CellY != 2 || q.Direction != level.North || q.Level != level.BandWall {
		t.Errorf("picked (%d,%d) dir %d level %d, want south wall", q.CellX, q.CellY, q.Direction, q.Level)
	}

	sc.Rebuild()
	if _, ok := sc.Resolve(ref); ok {
		t.Error("ref survived a rebuild")
	}
	if _, ok := sc.Resolve(QuadRef{Index: -1, Generation: sc.Generation()}); ok {
		t.Error("negative index resolved")
	}
}

func TestScenePickMiss(t *testing.T) {
	sc, v := roomScene(t)
	v.SetPose(math3d.V3(50, 50, 50), 0, -MaxPitch)
	sc.Update(v)
	// Looking straight up at the open sky.
	if _, ok := sc.Pick(math3d.V2(100, 50)); ok {
		t.Error("picked a quad in the sky")
	}
}

func TestDrawListFarToNear(t *testing.T) {
	g := newGrid(t, 4, 4)
	m, err := maze.Kruskal(4, 4, maze.NewSource(7), 0)
	if err != nil {
		t.Fatalf("Kruskal: %v", err)
	}
	if err := m.Apply(g, maze.Dungeon); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	log, _ := test.NewNullLogger()
	sc := New(g, DefaultSettings(200, 100), log)
	sc.SetEntities(PlaceEntities(g, 5, sc.Settings.Unit, maze.NewSource(3)))
	v := NewViewer(math3d.V3(-250, -250, 50))
	v.SetPose(v.Position, math.Pi/4, 0)
	sc.Update(v)

	items := sc.DrawList(Marks{Day: true})
	if len(items) == 0 {
		t.Fatal("nothing to draw")
	}
	for i := 1; i < len(items); i++ {
		if items[i].DSquared > items[i-1].DSquared {
			t.Fatalf("item %d (%v) drawn after nearer item %d (%v)", i, items[i].DSquared, i-1, items[i-1].DSquared)
		}
	}
	for _, it := range items {
		if (it.Quad < 0) == (it.Entity < 0) {
			t.Fatalf("item %+v must name exactly one primitive", it)
		}
	}

	r := &recorder{}
	sc.Draw(r, items)
	var pieces, sprites int
	for _, it := range items {
		if it.Entity >= 0 {
			sprites++
			continue
		}
		pieces += len(sc.quads[it.Quad].Clip.Pieces())
	}
	if len(r.quads) != pieces || len(r.sprites) != sprites {
		t.Errorf("drew %d quads %d sprites, want %d %d", len(r.quads), len(r.sprites), pieces, sprites)
	}
}

func TestDrawListPitchedSkipsClipped(t *testing.T) {
	sc, v := roomScene(t)
	flat := sc.DrawList(Marks{})
	v.Rotate(0, 0.2)
	sc.Update(v)
	pitched := sc.DrawList(Marks{})

	clipped := func(items []DrawItem) int {
		n := 0
		for _, it := range items {
			if it.Quad >= 0 && sc.quads[it.Quad].Clip.Clipped() {
				n++
			}
		}
		return n
	}
	if clipped(flat) == 0 {
		t.Error("level view drew no clipped quads")
	}
	if n := clipped(pitched); n != 0 {
		t.Errorf("pitched view drew %d clipped quads", n)
	}
}

func TestDrawListMergesEntities(t *testing.T) {
	sc, v := roomScene(t)
	// One sprite between the viewer and the wall ahead.
	sc.SetEntities([]Entity{{Pos: math3d.V3(50, 80, 87.5), Sprite: 4}})
	sc.Update(v)
	e := sc.Entities()[0]
	if !e.Visible {
		t.Fatal("sprite ahead is not visible")
	}
	wantScale := sc.Settings.EntityScale / (30 + sc.Settings.Omega)
	if math.Abs(e.Scale-wantScale) > 1e-9 {
		t.Errorf("scale = %v, want %v", e.Scale, wantScale)
	}

	items := sc.DrawList(Marks{})
	at := -1
	for i, it := range items {
		if it.Entity == 0 {
			at = i
		}
	}
	if at < 0 {
		t.Fatal("sprite missing from draw list")
	}
	for i, it := range items {
		if it.Quad < 0 {
			continue
		}
		d := sc.quads[it.Quad].DSquared
		if d > e.DSquared && i > at || d < e.DSquared && i < at {
			t.Errorf("quad at distance² %v misordered around sprite at %v", d, e.DSquared)
		}
	}
}

func TestEntityBehindViewer(t *testing.T) {
	sc, v := roomScene(t)
	sc.SetEntities([]Entity{{Pos: math3d.V3(50, 20, 87.5)}})
	sc.Update(v)
	if sc.Entities()[0].Visible {
		t.Error("sprite behind the viewer is visible")
	}
}

func TestMarksPriority(t *testing.T) {
	p := image.Pt(2, 3)
	tests := []struct {
		name  string
		marks Marks
		want  color.NRGBA
	}{
		{"player wins", Marks{Player: &p, Cursor: &p, Selection: image.Rect(0, 0, 5, 5), Preview: image.Rect(2, 3, 4, 4)}, PlayerColour},
		{"preview over selection", Marks{Cursor: &p, Selection: image.Rect(0, 0, 5, 5), Preview: image.Rect(2, 3, 4, 4)}, PreviewColour},
		{"selection over cursor", Marks{Cursor: &p, Selection: image.Rect(2, 3, 3, 4)}, SelectionColour},
		{"cursor by day", Marks{Day: true, Cursor: &p}, CursorDay},
		{"cursor by night", Marks{Cursor: &p}, CursorNight},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.marks.colour(p.X, p.Y)
			if !ok || got != tc.want {
				t.Errorf("got %v %v, want %v", got, ok, tc.want)
			}
		})
	}
	if _, ok := (Marks{Selection: image.Rect(0, 0, 2, 3)}).colour(p.X, p.Y); ok {
		t.Error("selection rectangle includes its max corner")
	}
}

func TestTint(t *testing.T) {
	tests := []struct {
		name    string
		fade    float64
		day     bool
		rgb, a  uint8
		rgbSlop uint8
	}{
		{"day near", 1, true, 255, 255, 0},
		{"day far", 0, true, 128, 0, 1},
		{"day fading", 0.125, true, 130, 127, 1},
		{"night near", 1, false, 255, 255, 0},
		{"night half", 0.5, false, 64, 255, 1},
		{"night far", 0, false, 0, 255, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Tint(tc.fade, tc.day)
			if c.R != c.G || c.G != c.B {
				t.Errorf("tint %v is not grey", c)
			}
			if diff := int(c.R) - int(tc.rgb); diff > int(tc.rgbSlop) || -diff > int(tc.rgbSlop) {
				t.Errorf("rgb = %d, want %d", c.R, tc.rgb)
			}
			if c.A != tc.a {
				t.Errorf("alpha = %d, want %d", c.A, tc.a)
			}
		})
	}
}

func TestPlaceEntities(t *testing.T) {
	g := newGrid(t, 2, 2)
	unit := 100.0
	es := PlaceEntities(g, 20, unit, maze.NewSource(11))
	if len(es) != 9 {
		t.Fatalf("placed %d entities, want one per open cell (9)", len(es))
	}
	seen := map[[2]int]bool{}
	for _, e := range es {
		c := [2]int{e.CellX, e.CellY}
		if seen[c] {
			t.Errorf("two entities in cell %v", c)
		}
		seen[c] = true
		if g.Bits(e.CellX, e.CellY).Has(level.WallBit) {
			t.Errorf("entity inside wall cell %v", c)
		}
		if x, y := g.CellAt(e.Pos.X, e.Pos.Y, unit); x != e.CellX || y != e.CellY {
			t.Errorf("entity at %v lies in (%d,%d), not %v", e.Pos, x, y, c)
		}
		if e.Pos.Z != unit*7/8 || e.Sprite < 0 || e.Sprite >= SpriteCount {
			t.Errorf("entity %+v has bad height or sprite", e)
		}
	}
}

func TestNewDefaultsLogger(t *testing.T) {
	sc := New(newGrid(t, 1, 1), DefaultSettings(10, 10), nil)
	if sc.log != logrus.StandardLogger() {
		t.Error("nil logger did not fall back to the standard logger")
	}
	if sc.Generation() != 1 {
		t.Errorf("generation = %d, want 1", sc.Generation())
	}
}

func BenchmarkSceneFrame(b *testing.B) {
	g, _ := level.New(20, 20)
	m, _ := maze.Kruskal(20, 20, maze.NewSource(1), 0)
	_ = m.Apply(g, maze.Dungeon)
	log, _ := test.NewNullLogger()
	sc := New(g, DefaultSettings(320, 200), log)
	v := NewViewer(math3d.V3(50, 50, 50))
	for b.Loop() {
		v.Rotate(0.01, 0)
		sc.Update(v)
		_ = sc.DrawList(Marks{Day: true})
	}
}
