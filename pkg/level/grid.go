package level

import (
	"fmt"
	"math"
)

// Default texture indices for freshly cleared or generated cells.
const (
	DefaultFlat = 97
	DefaultWall = 154
)

// Flat surface levels, bottom to top.
const (
	FlatFloor   = 0 // floor, or the top of nothing
	FlatSingle  = 1 // single block top, corridor ceiling
	FlatDouble  = 2 // double block top, low room ceiling
	FlatCeiling = 3 // roof, high room ceiling
)

// Wall bands, bottom to top. Each band is one unit tall.
const (
	BandWall = 0
	BandLow  = 1
	BandHigh = 2
)

// Wall directions, matching the order neighbours are visited.
const (
	North = 0
	East  = 1
	South = 2
	West  = 3
)

// BandBit returns the bit that makes band solid.
func BandBit(band int) Bits {
	switch band {
	case BandWall:
		return WallBit
	case BandLow:
		return LowBit
	case BandHigh:
		return HighBit
	}
	return 0
}

// Cell is one map square.
type Cell struct {
	Bits Bits
	Flat [4]uint8
	Wall [3][4]uint8
}

// Kind reports the named kind of the cell's bits.
func (c Cell) Kind() (Kind, bool) {
	return KindFromBits(c.Bits)
}

// DefaultCell returns a cell of kind k with default textures everywhere.
func DefaultCell(k Kind) Cell {
	c := Cell{Bits: k.Bits()}
	for f := range c.Flat {
		c.Flat[f] = DefaultFlat
	}
	for b := range c.Wall {
		for d := range c.Wall[b] {
			c.Wall[b][d] = DefaultWall
		}
	}
	return c
}

// Grid is the (2W+1) x (2H+1) map built around a W x H maze. Cells are
// addressed by column x and row y, both starting at zero.
type Grid struct {
	W, H  int
	Day   bool
	cells []Cell
}

// New returns a cleared grid for a w x h maze.
func New(w, h int) (*Grid, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("new grid %dx%d: %w", w, h, ErrBadDimensions)
	}
	g := &Grid{W: w, H: h, Day: true, cells: make([]Cell, (2*w+1)*(2*h+1))}
	g.Clear()
	return g, nil
}

// Cols returns the number of columns.
func (g *Grid) Cols() int { return 2*g.W + 1 }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return 2*g.H + 1 }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Cols() && y < g.Rows()
}

// At returns the cell at (x, y), or nil when out of bounds.
func (g *Grid) At(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.cells[y*g.Cols()+x]
}

// Set replaces the cell at (x, y). Out of bounds writes are ignored.
func (g *Grid) Set(x, y int, c Cell) {
	if p := g.At(x, y); p != nil {
		*p = c
	}
}

// Bits returns the band field at (x, y), or zero when out of bounds.
func (g *Grid) Bits(x, y int) Bits {
	if p := g.At(x, y); p != nil {
		return p.Bits
	}
	return 0
}

// SetKind changes the kind of (x, y) and leaves its textures alone.
func (g *Grid) SetKind(x, y int, k Kind) {
	if p := g.At(x, y); p != nil && k.Valid() {
		p.Bits = k.Bits()
	}
}

// Clear walls in the border, opens the interior to the sky and resets every
// texture to its default.
func (g *Grid) Clear() {
	for y := range g.Rows() {
		for x := range g.Cols() {
			k := Sky
			if x == 0 || y == 0 || x == g.Cols()-1 || y == g.Rows()-1 {
				k = Wall
			}
			g.Set(x, y, DefaultCell(k))
		}
	}
}

// Fill sets every cell to kind k with default textures.
func (g *Grid) Fill(k Kind) {
	for i := range g.cells {
		g.cells[i] = DefaultCell(k)
	}
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = make([]Cell, len(g.cells))
	copy(c.cells, g.cells)
	return &c
}

// Equal reports whether both grids have the same size, day flag and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g.W != o.W || g.H != o.H || g.Day != o.Day || len(g.cells) != len(o.cells) {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// CellAt maps a world position to the cell containing it. unit is the world
// size of one cell; the grid is centred on the world origin.
func (g *Grid) CellAt(wx, wy, unit float64) (x, y int) {
	return int(math.Floor(wx/unit)) + g.W, int(math.Floor(wy/unit)) + g.H
}

// Origin returns the world position of the north-west corner of (x, y).
func (g *Grid) Origin(x, y int, unit float64) (wx, wy float64) {
	return unit * float64(x-g.W), unit * float64(y-g.H)
}
