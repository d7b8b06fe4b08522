package main

import (
	"fmt"
	"math"
	"slices"

	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/maze"
	"github.com/taigrr/warren/pkg/render"
	"github.com/taigrr/warren/pkg/scene"
)

var (
	infoKey   = lipgloss.NewStyle().Bold(true).Width(12)
	infoValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#40ffff"))
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		out    string
		slot   int
		empty  bool
		width  int
		height int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a maze level and save it",
		Example: `  warren generate --slot 2
  warren generate --width 20 --height 10 --seed 7 -o small.dat
  warren generate --empty -o blank.dat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			defer a.close()

			c := a.cfg.Maze
			if width > 0 {
				c.Width = width
			}
			if height > 0 {
				c.Height = height
			}
			if seed > 0 {
				c.Seed = seed
			}
			if out == "" {
				out = level.Path(a.cfg.Levels.Dir, slot)
			}

			var g *level.Grid
			if empty {
				var err error
				if g, err = level.New(c.Width, c.Height); err != nil {
					return errorf(cmd, err)
				}
				g.Clear()
				g.Day = true
			} else {
				var err error
				g, _, err = generateGrid(c, maze.NewSource(c.Seed), a.log)
				if err != nil {
					return errorf(cmd, err)
				}
			}
			if err := level.Save(out, g); err != nil {
				return errorf(cmd, err)
			}
			a.log.WithFields(logrus.Fields{"path": out, "width": g.W, "height": g.H}).Info("level written")
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "", "output file (default the slot's file in levels.dir)")
	f.IntVar(&slot, "slot", 1, "level slot used when --out is empty")
	f.BoolVar(&empty, "empty", false, "write an open daytime map instead of a maze")
	f.IntVar(&width, "width", 0, "override maze.width")
	f.IntVar(&height, "height", 0, "override maze.height")
	f.Uint64Var(&seed, "seed", 0, "override maze.seed")
	return cmd
}

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		out           string
		levelPath     string
		width, height int
		yaw, pitch    float64
		flying        float64
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame to a PNG",
		Example: `  warren snapshot -o frame.png
  warren snapshot --level maps/level1.dat --yaw 90 --pitch 20 -o frame.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			defer a.close()
			if width <= 0 || height <= 0 {
				return errorf(cmd, fmt.Errorf("bad size %dx%d", width, height))
			}

			w, err := newWorld(a.cfg, a.log, levelPath, width, height)
			if err != nil {
				return errorf(cmd, err)
			}
			defer w.close()

			pos := w.viewer.Position
			pos.Z -= flying * w.scene.Settings.Unit
			w.viewer.SetPose(pos, yaw*math.Pi/180, pitch*math.Pi/180)

			fb := render.NewFramebuffer(width, height)
			r := w.rasterizer(fb)
			items := w.frame(r, fb, scene.Marks{})
			if err := fb.SavePNG(out); err != nil {
				return errorf(cmd, err)
			}
			a.log.WithFields(logrus.Fields{
				"path":    out,
				"items":   len(items),
				"quads":   r.Stats.Quads,
				"sprites": r.Stats.Sprites,
				"pixels":  r.Stats.Pixels,
			}).Info("snapshot written")
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "snapshot.png", "output PNG")
	f.StringVar(&levelPath, "level", "", "level file (default a generated maze)")
	f.IntVar(&width, "width", 320, "image width in pixels")
	f.IntVar(&height, "height", 200, "image height in pixels")
	f.Float64Var(&yaw, "yaw", 0, "view yaw in degrees")
	f.Float64Var(&pitch, "pitch", 0, "view pitch in degrees, positive looks down")
	f.Float64Var(&flying, "rise", 0, "cells to rise above eye height")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <level>",
		Short: "Describe a level file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			defer a.close()

			g, err := level.Load(args[0])
			if err != nil {
				return errorf(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), describe(args[0], g))
			return nil
		},
	}
}

// describe summarises g: size, day flag and how many cells of each kind.
func describe(name string, g *level.Grid) string {
	counts := map[level.Kind]int{}
	unknown := 0
	for y := range g.Rows() {
		for x := range g.Cols() {
			k, ok := g.At(x, y).Kind()
			if !ok {
				unknown++
				continue
			}
			counts[k]++
		}
	}
	kinds := make([]level.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	sky := "night"
	if g.Day {
		sky = "day"
	}
	line := func(k, v string) string {
		return infoKey.Render(k) + infoValue.Render(v) + "\n"
	}
	s := line("level", name)
	s += line("maze", fmt.Sprintf("%dx%d (%dx%d cells)", g.W, g.H, g.Cols(), g.Rows()))
	s += line("sky", sky)
	for _, k := range kinds {
		s += line(k.String(), fmt.Sprint(counts[k]))
	}
	if unknown > 0 {
		s += line("unknown", fmt.Sprint(unknown))
	}
	return s
}
