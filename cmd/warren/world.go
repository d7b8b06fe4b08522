package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/taigrr/warren/pkg/assets"
	"github.com/taigrr/warren/pkg/config"
	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/math3d"
	"github.com/taigrr/warren/pkg/maze"
	"github.com/taigrr/warren/pkg/render"
	"github.com/taigrr/warren/pkg/scene"
)

// world is everything a frame is drawn from: the level, its scene, the
// viewer and the texture tables.
type world struct {
	cfg     *config.Config
	log     logrus.FieldLogger
	src     *rand.Rand
	scene   *scene.Scene
	viewer  *scene.Viewer
	loader  *assets.Loader
	tiles   *assets.Table
	sprites *assets.Table
}

// generateGrid builds a maze level from the maze settings.
func generateGrid(c config.Maze, src maze.Source, log logrus.FieldLogger) (*level.Grid, maze.Stats, error) {
	g, err := level.New(c.Width, c.Height)
	if err != nil {
		return nil, maze.Stats{}, err
	}
	p, ok := maze.PaletteByName(c.Palette)
	if !ok {
		return nil, maze.Stats{}, fmt.Errorf("unknown palette %q", c.Palette)
	}
	st, err := maze.Generate(g, maze.Config{
		Rooms:       c.Rooms,
		MaxAttempts: c.MaxAttempts,
		Palette:     p,
		Log:         log,
	}, src)
	if err != nil {
		return nil, st, fmt.Errorf("generate maze: %w", err)
	}
	return g, st, nil
}

// newWorld loads levelPath, or generates a maze when it is empty, and sets
// up a scene for a w x h framebuffer.
func newWorld(cfg *config.Config, log logrus.FieldLogger, levelPath string, w, h int) (*world, error) {
	src := maze.NewSource(cfg.Maze.Seed)

	var (
		g   *level.Grid
		err error
	)
	if levelPath != "" {
		g, err = level.Load(levelPath)
	} else {
		g, _, err = generateGrid(cfg.Maze, src, log)
	}
	if err != nil {
		return nil, err
	}

	loader, err := assets.NewLoader(int64(cfg.Assets.CacheMB)<<20, log)
	if err != nil {
		return nil, err
	}
	loader.Filter = cfg.Assets.FilterMode()
	tileSize, spriteSize := cfg.Render.TileSize, cfg.Render.SpriteSize
	tiles := loader.Load(cfg.Assets.Tiles, "tile", cfg.Assets.TileCount, func(n int) *assets.Table {
		return assets.ProceduralTiles(n, tileSize)
	})
	sprites := loader.Load(cfg.Assets.Sprites, "sprite", cfg.Assets.SpriteCount, func(n int) *assets.Table {
		return assets.ProceduralSprites(n, spriteSize)
	})

	wd := &world{
		cfg:     cfg,
		log:     log,
		src:     src,
		scene:   scene.New(g, cfg.Render.Settings(w, h), log),
		loader:  loader,
		tiles:   tiles,
		sprites: sprites,
	}
	wd.viewer = scene.NewViewer(wd.spawn())
	wd.populate(cfg.Render.Entities)
	return wd, nil
}

func (w *world) close() { w.loader.Close() }

func (w *world) grid() *level.Grid { return w.scene.Grid() }

// spawn returns eye height in the open cell nearest the map centre.
func (w *world) spawn() math3d.Vec3 {
	g, unit := w.grid(), w.scene.Settings.Unit
	cx, cy := g.Cols()/2, g.Rows()/2
	best, bestD := [2]int{cx, cy}, -1
	for y := range g.Rows() {
		for x := range g.Cols() {
			if g.Bits(x, y).Has(level.WallBit) {
				continue
			}
			d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			if bestD < 0 || d < bestD {
				best, bestD = [2]int{x, y}, d
			}
		}
	}
	wx, wy := g.Origin(best[0], best[1], unit)
	return math3d.V3(wx+unit/2, wy+unit/2, unit/2)
}

// populate scatters n billboards over the open cells.
func (w *world) populate(n int) {
	w.scene.SetEntities(scene.PlaceEntities(w.grid(), n, w.scene.Settings.Unit, w.src))
}

// resize adapts the projection to a new framebuffer, keeping the zoom as
// the same fraction of the width.
func (w *world) resize(width, height int) {
	frac := w.scene.Settings.Zoom / max(w.scene.Settings.Width, 1)
	w.scene.Settings.Width, w.scene.Settings.Height = float64(width), float64(height)
	w.scene.Settings.Zoom = frac * float64(width)
}

// prepare clears the frame and moves the scene into view space. Picking is
// valid from here on.
func (w *world) prepare(fb *render.Framebuffer) {
	if w.grid().Day {
		fb.ClearGradient(render.ColorSky, render.ColorHaze)
	} else {
		fb.Clear(render.ColorNight)
	}
	w.scene.Update(w.viewer)
}

// draw sorts the prepared scene and rasterizes it, returning the draw list.
func (w *world) draw(r *render.Rasterizer, marks scene.Marks) []scene.DrawItem {
	marks.Day = w.grid().Day
	items := w.scene.DrawList(marks)
	r.ResetStats()
	w.scene.Draw(r, items)
	return items
}

// frame draws one frame into fb and returns the draw list.
func (w *world) frame(r *render.Rasterizer, fb *render.Framebuffer, marks scene.Marks) []scene.DrawItem {
	w.prepare(fb)
	return w.draw(r, marks)
}

func (w *world) rasterizer(fb *render.Framebuffer) *render.Rasterizer {
	return render.NewRasterizer(fb, w.tiles, w.sprites, w.scene.Settings.TileSize, w.scene.Settings.SpriteSize)
}
