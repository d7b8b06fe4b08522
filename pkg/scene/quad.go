package scene

import (
	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/math3d"
)

// Vertex is one immutable corner of a quad.
type Vertex struct {
	Pos  math3d.Vec3 // world space
	UV   math3d.Vec2 // texels
	Pair int         // wall corner at the same height on the other edge, or -1
}

// Quad is one floor, ceiling or wall tile. Vertices, Cell, Level, Direction
// and Texture are fixed when the quad is built; everything below them is
// rewritten by Scene.Update each frame.
type Quad struct {
	Vertices  [4]Vertex
	CellX     int
	CellY     int
	Level     int // flat level, or wall band
	Direction int // wall direction, -1 for flats
	Texture   int

	View       [4]math3d.Vec3
	Clip       Clip
	Normal     math3d.Vec3
	Centre     math3d.Vec3
	DSquared   float64
	Bounds     math3d.Rect // screen box, whole quads only
	Visible    bool
	OutOfRange bool
}

// IsWall reports whether q is a vertical quad.
func (q *Quad) IsWall() bool {
	return q.Direction >= 0
}

// FacesViewer reports whether a surface with the given viewer-space centre
// and normal is seen from its front. The viewer sits at the origin.
func FacesViewer(centre, normal math3d.Vec3) bool {
	return centre.Dot(normal) > 0
}

func (q *Quad) uvs() (uv [4]math3d.Vec2) {
	for i, v := range q.Vertices {
		uv[i] = v.UV
	}
	return uv
}

func (q *Quad) pairs() (p [4]int) {
	for i, v := range q.Vertices {
		p[i] = v.Pair
	}
	return p
}

// wallPairs links each wall corner to its partner on the opposite edge.
var wallPairs = [4]int{3, 2, 1, 0}

// BuildQuads emits every surface of g. Cell (i,j) spans world x from
// unit*(i-W) to unit*(i-W+1), likewise y, with z growing downward: floor at
// +unit, block tops at 0 and -unit, roof at -2*unit. Walls are emitted only
// between in-bounds neighbours that differ in the band's bit.
func BuildQuads(g *level.Grid, s Settings) []Quad {
	quads := make([]Quad, 0, g.Cols()*g.Rows()*3)
	u, t := s.Unit, s.TileSize

	for j := range g.Rows() {
		for i := range g.Cols() {
			c := g.At(i, j)
			b := c.Bits
			x1, y1 := g.Origin(i, j, u)

			flat := func(z float64, lvl int, up bool) {
				q := flatQuad(x1, y1, z, u, t, up)
				q.CellX, q.CellY, q.Level, q.Direction = i, j, lvl, -1
				q.Texture = int(c.Flat[lvl])
				quads = append(quads, q)
			}

			// Upward-facing surfaces, seen from above.
			if b.Has(level.CeilingBit) {
				flat(-2*u, level.FlatCeiling, true)
			}
			if b.Has(level.LowBit) && !b.Has(level.HighBit) {
				flat(-u, level.FlatDouble, true)
			}
			if b.Has(level.WallBit) && !b.Has(level.LowBit) {
				flat(0, level.FlatSingle, true)
			}
			if !b.Has(level.WallBit) {
				flat(u, level.FlatFloor, true)
			}

			// Downward-facing surfaces, seen from below.
			if b.Has(level.LowBit) && !b.Has(level.WallBit) {
				flat(0, level.FlatSingle, false)
			}
			if b.Has(level.HighBit) && !b.Has(level.LowBit) {
				flat(-u, level.FlatDouble, false)
			}
			if b.Has(level.CeilingBit) && !b.Has(level.HighBit) {
				flat(-2*u, level.FlatCeiling, false)
			}

			for band := level.BandWall; band <= level.BandHigh; band++ {
				bit := level.BandBit(band)
				if !b.Has(bit) {
					continue
				}
				for dir, off := range neighbours {
					nx, ny := i+off[0], j+off[1]
					if !g.InBounds(nx, ny) || g.Bits(nx, ny).Has(bit) {
						continue
					}
					q := wallQuad(x1, y1, band, dir, u, t)
					q.CellX, q.CellY, q.Level, q.Direction = i, j, band, dir
					q.Texture = int(c.Wall[band][dir])
					quads = append(quads, q)
				}
			}
		}
	}
	return quads
}

// neighbours is indexed by wall direction.
var neighbours = [4][2]int{
	level.North: {0, -1},
	level.East:  {1, 0},
	level.South: {0, 1},
	level.West:  {-1, 0},
}

// flatQuad builds a horizontal tile at height z. Corners run around the
// cell so the normal points down (+z) for up-facing tiles and up for the
// reversed order.
func flatQuad(x1, y1, z, u, t float64, up bool) Quad {
	corners := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if !up {
		corners = [4][2]float64{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	}
	var q Quad
	for k, c := range corners {
		q.Vertices[k] = Vertex{
			Pos:  math3d.V3(x1+c[0]*u, y1+c[1]*u, z),
			UV:   math3d.V2(c[0]*t, c[1]*t),
			Pair: -1,
		}
	}
	return q
}

// wallEdges gives, per direction, the two cell corners a wall spans,
// as offsets in cells from the cell origin.
var wallEdges = [4][2][2]float64{
	level.North: {{1, 0}, {0, 0}},
	level.East:  {{1, 1}, {1, 0}},
	level.South: {{0, 1}, {1, 1}},
	level.West:  {{0, 0}, {0, 1}},
}

// wallQuad builds the outward face of one band of a solid cell. The
// corners go bottom-left, top-left, top-right, bottom-right as seen from
// outside.
func wallQuad(x1, y1 float64, band, dir int, u, t float64) Quad {
	top := -float64(band) * u
	bottom := top + u
	a, b := wallEdges[dir][0], wallEdges[dir][1]
	ax, ay := x1+a[0]*u, y1+a[1]*u
	bx, by := x1+b[0]*u, y1+b[1]*u

	var q Quad
	q.Vertices = [4]Vertex{
		{Pos: math3d.V3(ax, ay, bottom), UV: math3d.V2(0, t)},
		{Pos: math3d.V3(ax, ay, top), UV: math3d.V2(0, 0)},
		{Pos: math3d.V3(bx, by, top), UV: math3d.V2(t, 0)},
		{Pos: math3d.V3(bx, by, bottom), UV: math3d.V2(t, t)},
	}
	for k := range q.Vertices {
		q.Vertices[k].Pair = wallPairs[k]
	}
	return q
}
