package editor

import "github.com/taigrr/warren/pkg/level"

// change is the state of one cell before an edit.
type change struct {
	x, y  int
	cell  level.Cell
	group uint64
}

// history is the undo stack. Changes recorded between two begin calls share
// a group and are undone together.
type history struct {
	changes []change
	group   uint64
}

func (h *history) begin() { h.group++ }

func (h *history) record(x, y int, c level.Cell) {
	h.changes = append(h.changes, change{x: x, y: y, cell: c, group: h.group})
}

func (h *history) clear() { h.changes = h.changes[:0] }

// pop removes the newest group, newest change first.
func (h *history) pop() []change {
	n := len(h.changes)
	if n == 0 {
		return nil
	}
	g := h.changes[n-1].group
	i := n - 1
	for i > 0 && h.changes[i-1].group == g {
		i--
	}
	group := make([]change, 0, n-i)
	for j := n - 1; j >= i; j-- {
		group = append(group, h.changes[j])
	}
	h.changes = h.changes[:i]
	return group
}

// Undo reverts the most recent command. It reports false when there is
// nothing to undo.
func (e *Editor) Undo() bool {
	group := e.history.pop()
	if len(group) == 0 {
		return false
	}
	for _, c := range group {
		e.grid.Set(c.x, c.y, c.cell)
	}
	e.changed()
	return true
}

// UndoDepth returns the number of recorded cell changes.
func (e *Editor) UndoDepth() int { return len(e.history.changes) }
