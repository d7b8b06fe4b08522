package editor

import "image"

// Begin starts a selection at (x, y).
func (e *Editor) Begin(x, y int) {
	if !e.grid.InBounds(x, y) {
		return
	}
	e.selecting = true
	e.selStart = image.Pt(x, y)
	e.selEnd = e.selStart
}

// Extend moves the free corner of the live selection.
func (e *Editor) Extend(x, y int) {
	if e.selecting && e.grid.InBounds(x, y) {
		e.selEnd = image.Pt(x, y)
	}
}

// Cancel drops the selection.
func (e *Editor) Cancel() { e.selecting = false }

// Selecting reports whether a selection is live.
func (e *Editor) Selecting() bool { return e.selecting }

// Selection returns the live selection as a half-open rectangle of cells,
// or the empty rectangle.
func (e *Editor) Selection() image.Rectangle {
	if !e.selecting {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: e.selStart, Max: e.selEnd}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// Region returns the cells a command at (x, y) covers: the live selection
// trimmed to MaxRegion on each side, or the single cell.
func (e *Editor) Region(x, y int) image.Rectangle {
	bounds := image.Rect(0, 0, e.grid.Cols(), e.grid.Rows())
	if !e.selecting {
		if !e.grid.InBounds(x, y) {
			return image.Rectangle{}
		}
		return image.Rect(x, y, x+1, y+1)
	}
	r := e.Selection()
	r.Max.X = min(r.Max.X, r.Min.X+MaxRegion)
	r.Max.Y = min(r.Max.Y, r.Min.Y+MaxRegion)
	return r.Intersect(bounds)
}
