// Package editor applies editing commands to a level grid: texture painting,
// cell kinds, rectangular selections, copy and paste, and grouped undo.
// Every mutation ends with a call to the change callback so the caller can
// rebuild its quads.
package editor

import (
	"image"

	"github.com/sirupsen/logrus"

	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/maze"
	"github.com/taigrr/warren/pkg/scene"
)

// DefaultTextureCount is the size of the stock texture table.
const DefaultTextureCount = 176

// MaxRegion caps both sides of a selection that is painted or copied.
const MaxRegion = 100

// Target chooses which surfaces of a cell a paint command covers.
type Target int

const (
	// TargetWalls covers every band in every direction.
	TargetWalls Target = iota
	// TargetFloor covers the ground flat.
	TargetFloor
	// TargetCeiling covers the three flats above the ground.
	TargetCeiling
)

// Surface is a single quad of a cell. Direction is -1 for flats.
type Surface struct {
	X, Y      int
	Level     int
	Direction int
}

// IsWall reports whether the surface is a wall band.
func (s Surface) IsWall() bool { return s.Direction >= 0 }

// SurfaceOf returns the surface a scene quad was built from.
func SurfaceOf(q *scene.Quad) Surface {
	return Surface{X: q.CellX, Y: q.CellY, Level: q.Level, Direction: q.Direction}
}

// Editor edits a grid in place.
type Editor struct {
	grid *level.Grid

	// Texture is the selected texture handle.
	Texture int
	// Kind is the selected cell kind.
	Kind level.Kind
	// AutoTexture repaints every surface of a cell whose kind is set.
	AutoTexture bool
	// TextureCount bounds Texture.
	TextureCount int
	// OnChange runs after every mutation.
	OnChange func()

	selecting bool
	selStart  image.Point
	selEnd    image.Point

	clipboard [][]level.Cell
	rotation  Rotation

	history history
	log     logrus.FieldLogger
}

// New creates an editor over g.
func New(g *level.Grid, log logrus.FieldLogger) *Editor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Editor{
		grid:         g,
		Texture:      level.DefaultWall,
		Kind:         level.Wall,
		TextureCount: DefaultTextureCount,
		log:          log,
	}
}

// Grid returns the grid being edited.
func (e *Editor) Grid() *level.Grid { return e.grid }

// SetGrid switches to g, dropping the selection and the undo history.
func (e *Editor) SetGrid(g *level.Grid) {
	e.grid = g
	e.selecting = false
	e.history.clear()
	e.changed()
}

func (e *Editor) changed() {
	if e.OnChange != nil {
		e.OnChange()
	}
}

// SelectTexture sets the texture handle, clamped to the table.
func (e *Editor) SelectTexture(t int) {
	e.Texture = min(max(t, 0), max(e.TextureCount-1, 0))
}

// CycleKind moves the selected kind forwards or backwards.
func (e *Editor) CycleKind(forward bool) {
	if forward {
		e.Kind = e.Kind.Next()
	} else {
		e.Kind = e.Kind.Prev()
	}
}

// PaintSurface sets the texture of one surface.
func (e *Editor) PaintSurface(s Surface) {
	c := e.grid.At(s.X, s.Y)
	if c == nil {
		return
	}
	e.history.begin()
	e.history.record(s.X, s.Y, *c)
	tex := uint8(e.Texture)
	switch {
	case s.IsWall():
		if s.Level >= 0 && s.Level < len(c.Wall) && s.Direction < len(c.Wall[0]) {
			c.Wall[s.Level][s.Direction] = tex
		}
	case s.Level >= 0 && s.Level < len(c.Flat):
		c.Flat[s.Level] = tex
	}
	e.changed()
}

// PickSurface selects the texture of one surface.
func (e *Editor) PickSurface(s Surface) {
	c := e.grid.At(s.X, s.Y)
	if c == nil {
		return
	}
	switch {
	case s.IsWall():
		if s.Level >= 0 && s.Level < len(c.Wall) && s.Direction < len(c.Wall[0]) {
			e.Texture = int(c.Wall[s.Level][s.Direction])
		}
	case s.Level >= 0 && s.Level < len(c.Flat):
		e.Texture = int(c.Flat[s.Level])
	}
}

// PickKind selects the kind of (x, y).
func (e *Editor) PickKind(x, y int) {
	c := e.grid.At(x, y)
	if c == nil {
		return
	}
	if k, ok := c.Kind(); ok {
		e.Kind = k
	}
}

func paint(c *level.Cell, t Target, tex uint8) {
	switch t {
	case TargetWalls:
		for b := range c.Wall {
			for d := range c.Wall[b] {
				c.Wall[b][d] = tex
			}
		}
	case TargetFloor:
		c.Flat[level.FlatFloor] = tex
	case TargetCeiling:
		for f := level.FlatSingle; f <= level.FlatCeiling; f++ {
			c.Flat[f] = tex
		}
	}
}

// Paint applies the selected texture to target on every cell of the live
// selection, or on (x, y) when nothing is selected.
func (e *Editor) Paint(x, y int, t Target) {
	e.each(x, y, func(c *level.Cell) {
		paint(c, t, uint8(e.Texture))
	})
}

// SetKind applies the selected kind to the live selection or (x, y). With
// AutoTexture every surface also takes the selected texture.
func (e *Editor) SetKind(x, y int) {
	e.each(x, y, func(c *level.Cell) {
		c.Bits = e.Kind.Bits()
		if e.AutoTexture {
			tex := uint8(e.Texture)
			paint(c, TargetWalls, tex)
			paint(c, TargetFloor, tex)
			paint(c, TargetCeiling, tex)
		}
	})
}

func (e *Editor) each(x, y int, fn func(c *level.Cell)) {
	r := e.Region(x, y)
	if r.Empty() {
		return
	}
	e.history.begin()
	for cy := r.Min.Y; cy < r.Max.Y; cy++ {
		for cx := r.Min.X; cx < r.Max.X; cx++ {
			c := e.grid.At(cx, cy)
			e.history.record(cx, cy, *c)
			fn(c)
		}
	}
	e.selecting = false
	e.changed()
}

// NewEmpty resets the grid to an open daytime map with walled borders.
func (e *Editor) NewEmpty() {
	e.grid.Clear()
	e.grid.Day = true
	e.selecting = false
	e.history.clear()
	e.changed()
}

// NewMaze carves a fresh maze into the grid. On error the grid
// and the history are left as they were.
func (e *Editor) NewMaze(cfg maze.Config, src maze.Source) (maze.Stats, error) {
	if cfg.Log == nil {
		cfg.Log = e.log
	}
	st, err := maze.Generate(e.grid, cfg, src)
	if err != nil {
		return st, err
	}
	e.selecting = false
	e.history.clear()
	e.changed()
	return st, nil
}

// ToggleDay flips between day and night.
func (e *Editor) ToggleDay() {
	e.grid.Day = !e.grid.Day
	e.changed()
}
