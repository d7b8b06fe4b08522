package scene

import (
	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/math3d"
	"github.com/taigrr/warren/pkg/maze"
)

// SpriteCount is the number of sprites PlaceEntities picks from.
const SpriteCount = 50

// Entity is a camera-facing billboard. Pos, Sprite and the cell are fixed;
// the rest is rewritten by Scene.Update each frame.
type Entity struct {
	Pos    math3d.Vec3
	Sprite int
	CellX  int
	CellY  int

	View       math3d.Vec3
	Screen     math3d.Vec2 // top-left corner of the scaled sprite
	Scale      float64
	DSquared   float64
	Visible    bool
	OutOfRange bool
}

// PlaceEntities scatters up to count billboards over distinct open cells
// of g, standing just above the floor. Fewer are placed when g has fewer
// open cells.
func PlaceEntities(g *level.Grid, count int, unit float64, src maze.Source) []Entity {
	var open [][2]int
	for y := range g.Rows() {
		for x := range g.Cols() {
			if !g.Bits(x, y).Has(level.WallBit) {
				open = append(open, [2]int{x, y})
			}
		}
	}

	count = min(count, len(open))
	entities := make([]Entity, 0, count)
	for range count {
		k := src.IntN(len(open))
		c := open[k]
		open[k] = open[len(open)-1]
		open = open[:len(open)-1]

		wx, wy := g.Origin(c[0], c[1], unit)
		entities = append(entities, Entity{
			Pos:    math3d.V3(wx+unit/2, wy+unit/2, unit*7/8),
			Sprite: src.IntN(SpriteCount),
			CellX:  c[0],
			CellY:  c[1],
		})
	}
	return entities
}
