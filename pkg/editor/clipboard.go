package editor

import (
	"fmt"
	"image"

	"github.com/taigrr/warren/pkg/level"
)

// Rotation is one of the eight ways a clipboard can be laid down: four
// quarter turns, each optionally mirrored.
type Rotation int

const rotations = 8

// offset maps clipboard cell (i, j) to its offset from the paste anchor.
func (r Rotation) offset(i, j int) image.Point {
	switch r {
	case 1:
		return image.Pt(j, i)
	case 2:
		return image.Pt(-j, i)
	case 3:
		return image.Pt(-i, j)
	case 4:
		return image.Pt(-i, -j)
	case 5:
		return image.Pt(-j, -i)
	case 6:
		return image.Pt(j, -i)
	case 7:
		return image.Pt(i, -j)
	}
	return image.Pt(i, j)
}

// Next returns the following rotation, wrapping after the last.
func (r Rotation) Next() Rotation { return (r + 1) % rotations }

// Prev returns the preceding rotation, wrapping before the first.
func (r Rotation) Prev() Rotation { return (r + rotations - 1) % rotations }

func (r Rotation) String() string { return fmt.Sprintf("R%d", int(r)) }

// Rotation returns the current paste rotation.
func (e *Editor) Rotation() Rotation { return e.rotation }

// Rotate steps the paste rotation.
func (e *Editor) Rotate(forward bool) {
	if forward {
		e.rotation = e.rotation.Next()
	} else {
		e.rotation = e.rotation.Prev()
	}
}

// ClipboardSize returns the clipboard width and height in cells.
func (e *Editor) ClipboardSize() (w, h int) {
	if len(e.clipboard) == 0 {
		return 0, 0
	}
	return len(e.clipboard), len(e.clipboard[0])
}

// Copy stores the live selection, trimmed to MaxRegion, and resets the
// rotation. It reports false when nothing is selected.
func (e *Editor) Copy() bool {
	if !e.selecting {
		return false
	}
	r := e.Region(e.selStart.X, e.selStart.Y)
	if r.Empty() {
		return false
	}
	clip := make([][]level.Cell, r.Dx())
	for i := range clip {
		clip[i] = make([]level.Cell, r.Dy())
		for j := range clip[i] {
			clip[i][j] = *e.grid.At(r.Min.X+i, r.Min.Y+j)
		}
	}
	e.clipboard = clip
	e.rotation = 0
	return true
}

// Preview returns the cells a paste anchored at (x, y) would write, clipped
// to the grid.
func (e *Editor) Preview(x, y int) image.Rectangle {
	w, h := e.ClipboardSize()
	if w == 0 || h == 0 {
		return image.Rectangle{}
	}
	anchor := image.Pt(x, y)
	a := anchor.Add(e.rotation.offset(0, 0))
	b := anchor.Add(e.rotation.offset(w-1, h-1))
	r := image.Rectangle{Min: a, Max: b}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r.Intersect(image.Rect(0, 0, e.grid.Cols(), e.grid.Rows()))
}

// Paste writes the clipboard anchored at (x, y) under the current rotation.
// Cells that land outside the grid are dropped. Cell textures are copied
// as they are.
func (e *Editor) Paste(x, y int) {
	if len(e.clipboard) == 0 {
		return
	}
	e.history.begin()
	anchor := image.Pt(x, y)
	for i, col := range e.clipboard {
		for j, cell := range col {
			p := anchor.Add(e.rotation.offset(i, j))
			c := e.grid.At(p.X, p.Y)
			if c == nil {
				continue
			}
			e.history.record(p.X, p.Y, *c)
			*c = cell
		}
	}
	e.changed()
}
