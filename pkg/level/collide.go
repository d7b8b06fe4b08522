package level

import (
	"math"

	"github.com/taigrr/warren/pkg/math3d"
)

// Margin is the fraction of a cell a walker keeps between itself and a
// solid neighbour.
const Margin = 0.25

// BandAt returns the wall band a walker at height z collides with, or -1
// when z is above the highest band or below the floor.
func BandAt(z, unit float64) int {
	switch {
	case z < -5*unit/2 || z > unit/2:
		return -1
	case z < -3*unit/2:
		return BandHigh
	case z < -unit/2:
		return BandLow
	}
	return BandWall
}

// ResolveMove slides a walker that moved from prev to next so it keeps Margin
// of a cell away from every solid neighbour in the band at height z. The
// corrected position is returned.
func (g *Grid) ResolveMove(prev, next math3d.Vec2, z, unit float64) math3d.Vec2 {
	band := BandAt(z, unit)
	if band < 0 {
		return next
	}
	bit := BandBit(band)
	cx, cy := g.CellAt(next.X, next.Y, unit)
	if !g.InBounds(cx, cy) {
		return next
	}
	solid := func(dx, dy int) bool {
		return g.Bits(cx+dx, cy+dy).Has(bit)
	}
	ox, oy := g.Origin(cx, cy, unit)
	lo, hi := Margin, 1-Margin
	loX, hiX := ox+lo*unit, ox+hi*unit
	loY, hiY := oy+lo*unit, oy+hi*unit

	dx, dy := next.X-prev.X, next.Y-prev.Y
	p := next
	fx := (p.X - ox) / unit
	fy := (p.Y - oy) / unit

	type corner struct {
		sx, sy   int
		inX, inY bool
		edgeX    float64
		edgeY    float64
		towardX  bool
		towardY  bool
	}
	corners := [4]corner{
		{-1, -1, fx < lo, fy < lo, loX, loY, dx < 0, dy < 0},
		{+1, -1, fx > hi, fy < lo, hiX, loY, dx > 0, dy < 0},
		{-1, +1, fx < lo, fy > hi, loX, hiY, dx < 0, dy > 0},
		{+1, +1, fx > hi, fy > hi, hiX, hiY, dx > 0, dy > 0},
	}
	for _, c := range corners {
		if !c.inX || !c.inY || solid(c.sx, 0) || solid(0, c.sy) || !solid(c.sx, c.sy) {
			continue
		}
		if c.towardX && c.towardY {
			if math.Abs(dx) > math.Abs(dy) {
				p.X = c.edgeX
			} else {
				p.Y = c.edgeY
			}
			continue
		}
		if c.towardX {
			p.X = c.edgeX
		}
		if c.towardY {
			p.Y = c.edgeY
		}
	}

	fx = (p.X - ox) / unit
	fy = (p.Y - oy) / unit
	if fy < lo && solid(0, -1) && dy < 0 {
		p.Y = loY
	}
	if fy > hi && solid(0, 1) && dy > 0 {
		p.Y = hiY
	}
	if fx < lo && solid(-1, 0) && dx < 0 {
		p.X = loX
	}
	if fx > hi && solid(1, 0) && dx > 0 {
		p.X = hiX
	}
	return p
}
