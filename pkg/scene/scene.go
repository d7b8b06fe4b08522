package scene

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/math3d"
)

// Scene owns the quads built from a level grid and the entities standing
// in it. It is driven by one goroutine: Rebuild after the grid changes,
// then Update, Pick and DrawList once per frame.
type Scene struct {
	Settings Settings

	grid       *level.Grid
	quads      []Quad
	entities   []Entity
	generation uint64
	pitch      float64
	log        logrus.FieldLogger
}

// QuadRef names a quad of one particular build. It goes stale when the
// scene is rebuilt.
type QuadRef struct {
	Index      int
	Generation uint64
}

// New builds the quads for g. A nil logger uses the standard logger.
func New(g *level.Grid, s Settings, log logrus.FieldLogger) *Scene {
	if log == nil {
		log = logrus.StandardLogger()
	}
	sc := &Scene{Settings: s, log: log}
	sc.SetGrid(g)
	return sc
}

// Grid returns the level the scene was built from.
func (s *Scene) Grid() *level.Grid { return s.grid }

// SetGrid swaps in a new level, rebuilds its quads and drops the entities,
// which belonged to the old layout.
func (s *Scene) SetGrid(g *level.Grid) {
	s.grid = g
	s.entities = nil
	s.Rebuild()
}

// Rebuild regenerates every quad from the grid. Outstanding QuadRefs become
// stale.
func (s *Scene) Rebuild() {
	s.quads = BuildQuads(s.grid, s.Settings)
	s.generation++
	s.log.WithFields(logrus.Fields{
		"quads":      len(s.quads),
		"generation": s.generation,
	}).Debug("rebuilt quads")
}

// Generation counts rebuilds.
func (s *Scene) Generation() uint64 { return s.generation }

// Quads returns the current quads. The slice is replaced on Rebuild.
func (s *Scene) Quads() []Quad { return s.quads }

// Entities returns the billboards.
func (s *Scene) Entities() []Entity { return s.entities }

// SetEntities replaces the billboards.
func (s *Scene) SetEntities(e []Entity) { s.entities = e }

// Resolve returns the quad ref names if it is from the current build.
func (s *Scene) Resolve(ref QuadRef) (*Quad, bool) {
	if ref.Generation != s.generation || ref.Index < 0 || ref.Index >= len(s.quads) {
		return nil, false
	}
	return &s.quads[ref.Index], true
}

// Update transforms, clips, culls and projects every quad and entity for
// the viewer's current pose.
func (s *Scene) Update(v *Viewer) {
	rot := v.Rotation()
	near := NearPlane(s.Settings.Omega)
	s.pitch = v.Pitch
	for i := range s.quads {
		s.updateQuad(&s.quads[i], v.Position, rot, near)
	}
	for i := range s.entities {
		s.updateEntity(&s.entities[i], v.Position, rot)
	}
}

func (s *Scene) outOfRange(p, cam math3d.Vec3) bool {
	d := s.Settings.DrawDistance
	return math.Abs(p.X-cam.X) > d || math.Abs(p.Y-cam.Y) > d
}

func (s *Scene) beyond(p math3d.Vec3) bool {
	d := s.Settings.DrawDistance
	return math.Abs(p.X) > d || math.Abs(p.Y) > d || math.Abs(p.Z) > d
}

func (s *Scene) updateQuad(q *Quad, cam math3d.Vec3, rot math3d.Mat3, near Plane) {
	q.Clip = Clip{}
	q.Visible = false
	q.Bounds = math3d.Rect{}
	q.OutOfRange = s.outOfRange(q.Vertices[0].Pos, cam)
	if q.OutOfRange {
		return
	}
	for k, vtx := range q.Vertices {
		q.View[k] = rot.Apply(vtx.Pos.Sub(cam))
		if s.beyond(q.View[k]) {
			return
		}
	}

	if q.IsWall() {
		q.Clip = ClipWall(q.View, q.uvs(), q.pairs(), near)
	} else {
		q.Clip = ClipFlat(q.View, q.uvs(), near)
	}
	if !q.Clip.Drawable() {
		return
	}

	// A trimmed wall is judged by what is left of it; split flats keep the
	// plane and centre of the whole tile.
	ref := q.View
	if q.Clip.Kind == ClipTrimmed {
		ref = q.Clip.pieces[0].View
	}
	q.Normal = ref[1].Sub(ref[0]).Cross(ref[3].Sub(ref[0]))
	q.Centre = math3d.Mean(ref[:]...)
	q.DSquared = q.Centre.LenSq()
	q.Visible = FacesViewer(q.Centre, q.Normal)
	if !q.Visible {
		return
	}

	pieces := q.Clip.Pieces()
	for p := range pieces {
		pc := &pieces[p]
		for k, v := range pc.View {
			pc.Screen[k], pc.Depth[k] = s.Settings.Project(v)
		}
	}
	if q.Clip.Kind == ClipWhole {
		q.Bounds = math3d.Bounds(pieces[0].Screen[:]...)
	}
}

func (s *Scene) updateEntity(e *Entity, cam math3d.Vec3, rot math3d.Mat3) {
	e.Visible = false
	e.OutOfRange = s.outOfRange(e.Pos, cam)
	if e.OutOfRange {
		return
	}
	e.View = rot.Apply(e.Pos.Sub(cam))
	if e.View.Y < s.Settings.Omega || s.beyond(e.View) {
		return
	}
	e.DSquared = e.View.LenSq()
	p, w := s.Settings.Project(e.View)
	e.Scale = s.Settings.EntityScale / w
	half := s.Settings.SpriteSize / 2 * e.Scale
	e.Screen = math3d.V2(p.X-half, p.Y-half)
	e.Visible = true
}
