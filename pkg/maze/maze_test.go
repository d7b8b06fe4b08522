package maze

import (
	"errors"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/taigrr/warren/pkg/level"
)

// script replays fixed draws, recording how many were consumed.
type script struct {
	t     *testing.T
	draws []int
	used  int
}

func (s *script) IntN(n int) int {
	if s.used >= len(s.draws) {
		s.t.Fatalf("script exhausted after %d draws", s.used)
	}
	v := s.draws[s.used]
	s.used++
	if v < 0 || v >= n {
		s.t.Fatalf("draw %d = %d outside [0,%d)", s.used, v, n)
	}
	return v
}

type constant int

func (c constant) IntN(n int) int { return int(c) % n }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestKruskalSpanningTree(t *testing.T) {
	sizes := []struct{ w, h int }{{1, 1}, {1, 5}, {6, 1}, {8, 8}, {13, 7}}

	for _, sz := range sizes {
		m, err := Kruskal(sz.w, sz.h, NewSource(42), 0)
		if err != nil {
			t.Fatalf("%dx%d: %v", sz.w, sz.h, err)
		}
		if got, want := len(m.Passages()), sz.w*sz.h-1; got != want {
			t.Errorf("%dx%d: %d passages, want %d", sz.w, sz.h, got, want)
		}
		if !m.Connected() {
			t.Errorf("%dx%d: more than one set remains", sz.w, sz.h)
		}
		for _, p := range m.Passages() {
			if p.Right && p.X == sz.w-1 || !p.Right && p.Y == sz.h-1 {
				t.Errorf("%dx%d: passage %+v leaves the grid", sz.w, sz.h, p)
			}
		}
	}
}

func TestKruskalDrawOrder(t *testing.T) {
	s := &script{t: t, draws: []int{
		0, 0, 0, // (0,0) right: opened
		0, 0, 0, // (0,0) right again: rejected
		1, 0, 0, // (1,0) right: off the grid
		0, 0, 1, // (0,0) down: opened
		1, 0, 1, // (1,0) down: opened, tree complete
	}}
	m, err := Kruskal(2, 2, s, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.used != len(s.draws) {
		t.Errorf("consumed %d draws, want %d", s.used, len(s.draws))
	}
	if m.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", m.Attempts)
	}
	want := []Passage{{0, 0, true}, {0, 0, false}, {1, 0, false}}
	if got := m.Passages(); !slices.Equal(got, want) {
		t.Errorf("Passages = %+v, want %+v", got, want)
	}
}

func TestKruskalRejectsCycle(t *testing.T) {
	s := &script{t: t, draws: []int{
		0, 0, 0, // (0,0)-(1,0)
		0, 0, 1, // (0,0)-(0,1)
		0, 1, 0, // (0,1)-(1,1)
		1, 0, 1, // (1,0)-(1,1): same set, rejected
		0, 1, 1, // (0,1)-(0,2)
		1, 1, 1, // (1,1)-(1,2): tree complete
	}}
	m, err := Kruskal(2, 3, s, 0)
	if err != nil {
		t.Fatal(err)
	}
	if m.At(1, 0).Down {
		t.Error("cycle closing passage opened")
	}
	if m.Attempts != 6 || s.used != len(s.draws) {
		t.Errorf("Attempts = %d, draws used = %d", m.Attempts, s.used)
	}
}

func TestKruskalDeterministic(t *testing.T) {
	a, err := Kruskal(12, 9, NewSource(7), 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Kruskal(12, 9, NewSource(7), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Passages(), b.Passages()) {
		t.Error("same seed produced different passages")
	}
}

func TestZeroSeedSource(t *testing.T) {
	// A zero seed falls back to the clock rather than a fixed stream.
	m, err := Kruskal(12, 9, NewSource(0), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(m.Passages()); got != 12*9-1 || !m.Connected() {
		t.Errorf("zero seed: %d passages, connected %v", got, m.Connected())
	}
}

func TestKruskalErrors(t *testing.T) {
	if _, err := Kruskal(0, 3, constant(0), 0); !errors.Is(err, ErrBadSize) {
		t.Errorf("zero width err = %v", err)
	}
	// a single column only ever draws "right", which never fits
	if _, err := Kruskal(1, 2, constant(0), 10); !errors.Is(err, ErrExhausted) {
		t.Errorf("stuck source err = %v", err)
	}
}

func TestApplyLayout(t *testing.T) {
	s := &script{t: t, draws: []int{0, 0, 0, 0, 0, 1, 1, 0, 1}}
	m, err := Kruskal(2, 2, s, 0)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := level.New(2, 2)
	if err := m.Apply(g, Dungeon); err != nil {
		t.Fatal(err)
	}

	path := map[[2]int]bool{
		{1, 1}: true, {3, 1}: true, {1, 3}: true, {3, 3}: true,
		{2, 1}: true, {1, 2}: true, {3, 2}: true,
	}
	for y := range g.Rows() {
		for x := range g.Cols() {
			want := level.Wall
			if path[[2]int{x, y}] {
				want = level.Corridor
			}
			if k, _ := g.At(x, y).Kind(); k != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, k, want)
			}
		}
	}

	small, _ := level.New(3, 2)
	if err := m.Apply(small, Dungeon); !errors.Is(err, ErrBadSize) {
		t.Errorf("mismatched grid err = %v", err)
	}
}

// reachable counts open cells reachable from the first open cell.
func reachable(g *level.Grid) (reached, open int) {
	var start [2]int
	found := false
	for y := range g.Rows() {
		for x := range g.Cols() {
			if !g.Bits(x, y).Has(level.WallBit) {
				open++
				if !found {
					start, found = [2]int{x, y}, true
				}
			}
		}
	}
	if !found {
		return 0, 0
	}
	seen := map[[2]int]bool{start: true}
	queue := [][2]int{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := [2]int{c[0] + d[0], c[1] + d[1]}
			if seen[n] || !g.InBounds(n[0], n[1]) || g.Bits(n[0], n[1]).Has(level.WallBit) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen), open
}

func TestGenerateConnected(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		rooms int
	}{
		{"maze only", 10, 10, 0},
		{"with rooms", 20, 15, 10},
		{"rooms too big to fit", 3, 3, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := level.New(tc.w, tc.h)
			st, err := Generate(g, Config{Rooms: tc.rooms, Palette: Dungeon, Log: quietLogger()}, NewSource(99))
			if err != nil {
				t.Fatal(err)
			}
			if st.Passages != tc.w*tc.h-1 {
				t.Errorf("Passages = %d", st.Passages)
			}
			if g.Day {
				t.Error("generated maze is a day level")
			}
			reached, open := reachable(g)
			if reached != open {
				t.Errorf("reached %d of %d open cells", reached, open)
			}
			for _, r := range st.Rooms {
				if r.X < 1 || r.Y < 1 || r.X+r.W > g.Cols()-2 || r.Y+r.H > g.Rows()-2 {
					t.Errorf("room %+v crosses the border", r)
				}
			}
			for x := range g.Cols() {
				if !g.Bits(x, 0).Has(level.WallBit) || !g.Bits(x, g.Rows()-1).Has(level.WallBit) {
					t.Errorf("border opened at column %d", x)
				}
			}
		})
	}
}

func TestGenerateLeavesGridOnError(t *testing.T) {
	g, _ := level.New(1, 3)
	before := g.Clone()
	_, err := Generate(g, Config{MaxAttempts: 5, Log: quietLogger()}, constant(0))
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v", err)
	}
	if !g.Equal(before) {
		t.Error("failed generation modified the grid")
	}
}

func TestPaletteByName(t *testing.T) {
	if p, ok := PaletteByName("outdoor"); !ok || p.Path != level.Sky {
		t.Error("outdoor palette not found")
	}
	if _, ok := PaletteByName("swamp"); ok {
		t.Error("unknown palette accepted")
	}
}
