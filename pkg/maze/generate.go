package maze

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/taigrr/warren/pkg/level"
)

// Palette picks the cell kinds a generated level is written with.
type Palette struct {
	Wall  level.Kind
	Path  level.Kind
	Rooms []level.Kind
}

var (
	// Dungeon roofs every corridor and mixes low and high rooms.
	Dungeon = Palette{
		Wall:  level.Wall,
		Path:  level.Corridor,
		Rooms: []level.Kind{level.LowRoom, level.HighRoom},
	}
	// Outdoor leaves everything open to the sky behind single blocks.
	Outdoor = Palette{
		Wall:  level.SkySingleBlock,
		Path:  level.Sky,
		Rooms: []level.Kind{level.Sky},
	}
)

// PaletteByName resolves "dungeon" or "outdoor".
func PaletteByName(name string) (Palette, bool) {
	switch name {
	case "dungeon", "":
		return Dungeon, true
	case "outdoor":
		return Outdoor, true
	}
	return Palette{}, false
}

// Config controls Generate.
type Config struct {
	Rooms       int
	MaxAttempts int
	Palette     Palette
	Log         logrus.FieldLogger
}

// Room is a rectangle of cells overwritten after carving. Both ends are
// inclusive.
type Room struct {
	X, Y, W, H int
	Kind       level.Kind
}

// Stats summarises one Generate call.
type Stats struct {
	Attempts int
	Passages int
	Rooms    []Room
}

// Apply writes m into g: odd/odd cells and opened passages become path, the
// rest wall, all with default textures. g must be built for the same maze
// size.
func (m *Maze) Apply(g *level.Grid, p Palette) error {
	if g.W != m.W || g.H != m.H {
		return fmt.Errorf("apply %dx%d maze to %dx%d grid: %w", m.W, m.H, g.W, g.H, ErrBadSize)
	}
	for y := range g.Rows() {
		for x := range g.Cols() {
			k := p.Wall
			if x%2 == 1 && y%2 == 1 {
				k = p.Path
			}
			g.Set(x, y, level.DefaultCell(k))
		}
	}
	for _, ps := range m.Passages() {
		if ps.Right {
			g.Set(2*ps.X+2, 2*ps.Y+1, level.DefaultCell(p.Path))
		} else {
			g.Set(2*ps.X+1, 2*ps.Y+2, level.DefaultCell(p.Path))
		}
	}
	return nil
}

// ScatterRooms places n rooms of 6 to 15 cells a side inside the border of g.
// Each room draws its width, height, column, row and kind from src in that
// order. A room too large for the grid is skipped after its size draws.
func ScatterRooms(g *level.Grid, n int, p Palette, src Source) []Room {
	var rooms []Room
	for range n {
		rw := src.IntN(10) + 5
		rh := src.IntN(10) + 5
		spanX := g.Cols() - 2 - rw
		spanY := g.Rows() - 2 - rh
		if spanX <= 0 || spanY <= 0 || len(p.Rooms) == 0 {
			continue
		}
		r := Room{
			X:    1 + src.IntN(spanX),
			Y:    1 + src.IntN(spanY),
			W:    rw,
			H:    rh,
			Kind: p.Rooms[src.IntN(len(p.Rooms))],
		}
		for y := r.Y; y <= r.Y+r.H; y++ {
			for x := r.X; x <= r.X+r.W; x++ {
				g.Set(x, y, level.DefaultCell(r.Kind))
			}
		}
		rooms = append(rooms, r)
	}
	return rooms
}

// Generate carves a maze the size of g, writes it with cfg.Palette and then
// scatters cfg.Rooms rooms. Mazes are night levels. On error g is left
// untouched.
func Generate(g *level.Grid, cfg Config, src Source) (Stats, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := cfg.Palette
	if !p.Wall.Valid() || !p.Path.Valid() {
		p = Dungeon
	}

	m, err := Kruskal(g.W, g.H, src, cfg.MaxAttempts)
	if err != nil {
		return Stats{}, err
	}
	if err := m.Apply(g, p); err != nil {
		return Stats{}, err
	}
	g.Day = false
	st := Stats{
		Attempts: m.Attempts,
		Passages: len(m.Passages()),
		Rooms:    ScatterRooms(g, cfg.Rooms, p, src),
	}
	log.WithFields(logrus.Fields{
		"width":    g.W,
		"height":   g.H,
		"attempts": st.Attempts,
		"passages": st.Passages,
		"rooms":    len(st.Rooms),
	}).Info("maze generated")
	return st, nil
}
