// Package maze carves a spanning-tree maze with randomized Kruskal and writes
// it into a level grid.
package maze

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

var (
	ErrBadSize   = errors.New("maze dimensions must be positive")
	ErrExhausted = errors.New("maze attempt budget exhausted")
)

// Source supplies uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG-backed source. A zero seed is replaced by the
// current time.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Cell is the generation-time state of one maze cell.
type Cell struct {
	Set   int
	Right bool
	Down  bool
}

// Maze is a W x H grid of cells joined by right and down passages.
type Maze struct {
	W, H     int
	Attempts int
	cells    []Cell
}

// DefaultAttempts is the attempt budget used when none is configured.
func DefaultAttempts(w, h int) int {
	return 64 * w * h * (w + h)
}

// Kruskal builds a spanning tree over a w x h grid. Every attempt draws a
// column, a row and a direction (0 right, 1 down) from src, in that order.
// Attempts that would leave the grid, reopen a passage or close a cycle are
// rejected. maxAttempts <= 0 selects DefaultAttempts.
func Kruskal(w, h int, src Source, maxAttempts int) (*Maze, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("kruskal %dx%d: %w", w, h, ErrBadSize)
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultAttempts(w, h)
	}
	m := &Maze{W: w, H: h, cells: make([]Cell, w*h)}
	for i := range m.cells {
		m.cells[i].Set = i
	}

	need := w*h - 1
	for unions := 0; unions < need; {
		if m.Attempts >= maxAttempts {
			return nil, fmt.Errorf("kruskal %dx%d after %d attempts: %w", w, h, m.Attempts, ErrExhausted)
		}
		m.Attempts++

		x, y := src.IntN(w), src.IntN(h)
		right := src.IntN(2) == 0

		c := m.cell(x, y)
		nx, ny := x, y
		if right {
			if c.Right || x == w-1 {
				continue
			}
			nx++
		} else {
			if c.Down || y == h-1 {
				continue
			}
			ny++
		}

		a, b := c.Set, m.cell(nx, ny).Set
		if a == b {
			continue
		}
		if right {
			c.Right = true
		} else {
			c.Down = true
		}
		for i := range m.cells {
			if m.cells[i].Set == b {
				m.cells[i].Set = a
			}
		}
		unions++
	}
	return m, nil
}

func (m *Maze) cell(x, y int) *Cell {
	return &m.cells[y*m.W+x]
}

// At returns a copy of the cell at (x, y).
func (m *Maze) At(x, y int) Cell {
	return *m.cell(x, y)
}

// Passage is an opened edge from (X, Y) to its right or lower neighbour.
type Passage struct {
	X, Y  int
	Right bool
}

// Passages lists every opened edge in row-major order.
func (m *Maze) Passages() []Passage {
	var ps []Passage
	for y := range m.H {
		for x := range m.W {
			c := m.cell(x, y)
			if c.Right {
				ps = append(ps, Passage{X: x, Y: y, Right: true})
			}
			if c.Down {
				ps = append(ps, Passage{X: x, Y: y})
			}
		}
	}
	return ps
}

// Connected reports whether every cell shares one set.
func (m *Maze) Connected() bool {
	for _, c := range m.cells {
		if c.Set != m.cells[0].Set {
			return false
		}
	}
	return true
}
