package main

import (
	"fmt"
	"image"
	"math"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/warren/pkg/editor"
	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/math3d"
	"github.com/taigrr/warren/pkg/maze"
	"github.com/taigrr/warren/pkg/render"
	"github.com/taigrr/warren/pkg/scene"
)

// Input strengths, per second of held key.
const (
	turnStrength = 0.6
	lookStrength = 0.4
	walkStrength = 0.5
	liftStrength = 0.5
	mouseLook    = 0.01
)

// session is the interactive crawler and editor state. It only touches the
// terminal through the events it is handed.
type session struct {
	w      *world
	ed     *editor.Editor
	motion *Motion
	hud    *HUD
	slot   int

	mouse     image.Point
	looking   bool
	extending bool
	preview   bool
	picked    scene.QuadRef
	hasPick   bool

	input struct{ turn, look, walk, strafe, lift float64 }
	quit  bool
}

func newSession(w *world, fps int) *session {
	ed := editor.New(w.grid(), w.log)
	ed.TextureCount = w.tiles.Len()
	ed.OnChange = w.scene.Rebuild
	return &session{
		w:      w,
		ed:     ed,
		motion: NewMotion(fps, w.scene.Settings.Unit),
		hud:    NewHUD(),
		slot:   1,
	}
}

// target returns the quad under the mouse, if it is still current.
func (s *session) target() (*scene.Quad, bool) {
	if !s.hasPick {
		return nil, false
	}
	return s.w.scene.Resolve(s.picked)
}

// cell returns the map cell under the mouse.
func (s *session) cell() (image.Point, bool) {
	q, ok := s.target()
	if !ok {
		return image.Point{}, false
	}
	return image.Pt(q.CellX, q.CellY), true
}

func (s *session) flash(format string, args ...any) {
	s.hud.Flash(fmt.Sprintf(format, args...), time.Now())
}

// setGrid swaps in a new level and puts the viewer back at the spawn.
func (s *session) setGrid(g *level.Grid) {
	s.w.scene.SetGrid(g)
	s.ed.SetGrid(g)
	s.w.populate(s.w.cfg.Render.Entities)
	s.w.viewer.SetPose(s.w.spawn(), 0, 0)
	s.motion.Reset()
	s.hasPick = false
}

func (s *session) save() {
	path := level.Path(s.w.cfg.Levels.Dir, s.slot)
	if err := level.Save(path, s.w.grid()); err != nil {
		s.w.log.WithError(err).WithField("path", path).Error("save level")
		s.flash("save failed")
		return
	}
	s.w.log.WithField("path", path).Info("level saved")
	s.flash("saved level %d", s.slot)
}

func (s *session) load() {
	path := level.Path(s.w.cfg.Levels.Dir, s.slot)
	g, err := level.Load(path)
	if err != nil {
		s.w.log.WithError(err).WithField("path", path).Warn("load level")
		s.flash("no level %d", s.slot)
		return
	}
	s.setGrid(g)
	s.w.log.WithField("path", path).Info("level loaded")
	s.flash("loaded level %d", s.slot)
}

func (s *session) newMaze() {
	c := s.w.cfg.Maze
	p, _ := maze.PaletteByName(c.Palette)
	st, err := s.ed.NewMaze(maze.Config{Rooms: c.Rooms, MaxAttempts: c.MaxAttempts, Palette: p}, s.w.src)
	if err != nil {
		s.w.log.WithError(err).Error("new maze")
		s.flash("maze failed")
		return
	}
	s.w.populate(s.w.cfg.Render.Entities)
	s.w.viewer.SetPose(s.w.spawn(), 0, 0)
	s.flash("maze: %d passages, %d rooms", st.Passages, len(st.Rooms))
}

// onCell runs fn on the cell under the mouse.
func (s *session) onCell(fn func(x, y int)) {
	if c, ok := s.cell(); ok {
		fn(c.X, c.Y)
	}
}

func (s *session) handleKey(ev uv.KeyPressEvent) {
	sc := &s.w.scene.Settings
	switch {
	case ev.MatchString("ctrl+c"):
		s.quit = true
	case ev.MatchString("esc"):
		if s.ed.Selecting() {
			s.ed.Cancel()
			s.extending = false
		} else {
			s.quit = true
		}
	case ev.MatchString("ctrl+z"):
		if !s.ed.Undo() {
			s.flash("nothing to undo")
		}
	case ev.MatchString("ctrl+s"):
		s.save()
	case ev.MatchString("ctrl+o"):
		s.load()
	case ev.MatchString("ctrl+n"):
		s.ed.NewEmpty()
		s.w.populate(s.w.cfg.Render.Entities)
		s.flash("new map")
	case ev.MatchString("ctrl+g"):
		s.newMaze()

	case ev.MatchString("w"):
		s.input.walk = walkStrength
	case ev.MatchString("s"):
		s.input.walk = -walkStrength
	case ev.MatchString("a"):
		s.input.strafe = walkStrength
	case ev.MatchString("d"):
		s.input.strafe = -walkStrength
	case ev.MatchString("left"):
		s.input.turn = -turnStrength
	case ev.MatchString("right"):
		s.input.turn = turnStrength
	case ev.MatchString("up"):
		s.input.look = -lookStrength
	case ev.MatchString("down"):
		s.input.look = lookStrength
	case ev.MatchString("pgup"):
		s.input.lift = liftStrength
	case ev.MatchString("pgdown"):
		s.input.lift = -liftStrength
	case ev.MatchString("home"):
		v := s.w.viewer
		v.SetPose(v.Position, v.Yaw, 0)
		s.motion.Pitch.Stop()
	case ev.MatchString("x"):
		s.motion.Fly = !s.motion.Fly

	case ev.MatchString("["):
		sc.DrawDistance = math.Max(sc.Unit, sc.DrawDistance/1.1)
	case ev.MatchString("]"):
		g := s.w.grid()
		sc.DrawDistance = math.Min(sc.Unit*float64(max(g.Cols(), g.Rows())), sc.DrawDistance*1.1)
	case ev.MatchString(","):
		sc.Zoom = math.Max(sc.Width/4, sc.Zoom/1.05)
	case ev.MatchString("."):
		sc.Zoom = math.Min(sc.Width*5, sc.Zoom*1.05)

	case ev.Text == "+" || ev.MatchString("="):
		s.ed.SelectTexture(s.ed.Texture + 1)
	case ev.MatchString("-"):
		s.ed.SelectTexture(s.ed.Texture - 1)
	case ev.MatchString("}"):
		s.ed.CycleKind(true)
	case ev.MatchString("{"):
		s.ed.CycleKind(false)
	case ev.MatchString("q"):
		if q, ok := s.target(); ok {
			s.ed.PickSurface(editor.SurfaceOf(q))
		}
	case ev.MatchString("k"):
		s.onCell(s.ed.PickKind)
	case ev.MatchString("t"):
		s.onCell(func(x, y int) { s.ed.Paint(x, y, editor.TargetWalls) })
	case ev.MatchString("f"):
		s.onCell(func(x, y int) { s.ed.Paint(x, y, editor.TargetFloor) })
	case ev.MatchString("c"):
		s.onCell(func(x, y int) { s.ed.Paint(x, y, editor.TargetCeiling) })
	case ev.MatchString("space"):
		s.onCell(s.ed.SetKind)
	case ev.MatchString("v"):
		if s.extending {
			s.extending = false
		} else {
			s.onCell(s.ed.Begin)
			s.extending = s.ed.Selecting()
		}
	case ev.MatchString("y"):
		if s.ed.Copy() {
			w, h := s.ed.ClipboardSize()
			s.flash("copied %dx%d", w, h)
		}
	case ev.MatchString("p"):
		s.onCell(s.ed.Paste)
	case ev.MatchString("P"):
		s.preview = !s.preview
	case ev.MatchString("r"):
		s.ed.Rotate(true)
	case ev.MatchString("R"):
		s.ed.Rotate(false)

	case ev.MatchString("n"):
		s.ed.ToggleDay()
	case ev.MatchString("e"):
		s.w.populate(s.w.cfg.Render.Entities)
	case ev.MatchString("?"):
		s.hud.Visible = !s.hud.Visible
	default:
		for n := range 10 {
			if ev.MatchString(fmt.Sprint(n)) {
				s.slot = n
				if n == 0 {
					s.slot = 10
				}
				s.flash("slot %d", s.slot)
			}
		}
	}
}

// handle applies one terminal event.
func (s *session) handle(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		s.handleKey(ev)
	case uv.MouseClickEvent:
		switch ev.Button {
		case uv.MouseLeft:
			if q, ok := s.target(); ok {
				s.ed.PaintSurface(editor.SurfaceOf(q))
			}
		case uv.MouseRight:
			s.looking = true
		}
		s.mouse = image.Pt(ev.X, ev.Y)
	case uv.MouseReleaseEvent:
		s.looking = false
	case uv.MouseMotionEvent:
		p := image.Pt(ev.X, ev.Y)
		if s.looking {
			d := p.Sub(s.mouse)
			s.motion.Impulse(float64(d.X)*mouseLook, float64(d.Y)*mouseLook, 0, 0, 0)
		}
		s.mouse = p
	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.ed.SelectTexture(s.ed.Texture + 1)
		case uv.MouseWheelDown:
			s.ed.SelectTexture(s.ed.Texture - 1)
		}
	}
}

// marks highlights the player, cursor, selection and paste preview.
func (s *session) marks() scene.Marks {
	var m scene.Marks
	if c, ok := s.cell(); ok {
		m.Cursor = &c
		if s.preview {
			m.Preview = s.ed.Preview(c.X, c.Y)
		}
	}
	m.Selection = s.ed.Selection()
	if s.motion.Fly {
		v := s.w.viewer.Position
		x, y := s.w.grid().CellAt(v.X, v.Y, s.w.scene.Settings.Unit)
		m.Player = &image.Point{X: x, Y: y}
	}
	return m
}

// step advances one frame of dt seconds and draws it.
func (s *session) step(dt float64, r *render.Rasterizer, fb *render.Framebuffer) hudState {
	in := &s.input
	s.motion.Impulse(in.turn*dt, in.look*dt, in.walk*dt, in.strafe*dt, in.lift*dt)
	// Key releases are unreliable, so held keys decay instead.
	in.turn *= 0.9
	in.look *= 0.9
	in.walk *= 0.9
	in.strafe *= 0.9
	in.lift *= 0.9
	s.motion.Apply(s.w.viewer, s.w.grid())

	s.w.prepare(fb)

	// A terminal cell covers two pixel rows.
	at := math3d.V2(float64(s.mouse.X)+0.5, float64(s.mouse.Y*2)+1)
	s.picked, s.hasPick = s.w.scene.Pick(at)
	if s.extending {
		s.onCell(s.ed.Extend)
	}
	marks := s.marks()
	items := s.w.draw(r, marks)

	fb.DrawCrosshair(int(at.X), int(at.Y), 2, render.ColorWhite)
	if swatch := s.w.tiles.Texture(s.ed.Texture); swatch != nil {
		x := fb.Width - 20
		fb.DrawTexture(swatch, x, 4, 16, 16)
		fb.DrawRectOutline(x-1, 3, 18, 18, render.ColorWhite)
	}

	w, h := s.ed.ClipboardSize()
	return hudState{
		Slot:      s.slot,
		Day:       s.w.grid().Day,
		Fly:       s.motion.Fly,
		Texture:   s.ed.Texture,
		Kind:      s.ed.Kind,
		Rotation:  s.ed.Rotation(),
		Selection: s.ed.Selection(),
		Cursor:    marks.Cursor,
		ClipW:     w,
		ClipH:     h,
		Quads:     len(s.w.scene.Quads()),
		Drawn:     len(items),
	}
}
