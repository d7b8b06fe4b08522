// Package config loads warren's settings from defaults, an optional config
// file, an optional .env file and WARREN_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/render"
	"github.com/taigrr/warren/pkg/scene"
)

// EnvPrefix prefixes every environment override, e.g. WARREN_MAZE_WIDTH.
const EnvPrefix = "WARREN"

// Render holds the projection and drawing settings.
type Render struct {
	Omega        float64 `mapstructure:"omega"`
	TileSize     int     `mapstructure:"tile_size"`
	SpriteSize   int     `mapstructure:"sprite_size"`
	Unit         float64 `mapstructure:"unit"`
	DrawDistance float64 `mapstructure:"draw_distance"` // in cells
	Zoom         float64 `mapstructure:"zoom"`          // fraction of framebuffer width
	FPS          int     `mapstructure:"fps"`
	Entities     int     `mapstructure:"entities"`
}

// Maze holds the generator settings.
type Maze struct {
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	Rooms       int    `mapstructure:"rooms"`
	Seed        uint64 `mapstructure:"seed"`
	MaxAttempts int    `mapstructure:"max_attempts"`
	Palette     string `mapstructure:"palette"`
}

// Assets names the texture sources. Empty sources are generated.
type Assets struct {
	Tiles       string `mapstructure:"tiles"`
	Sprites     string `mapstructure:"sprites"`
	TileCount   int    `mapstructure:"tile_count"`
	SpriteCount int    `mapstructure:"sprite_count"`
	CacheMB     int    `mapstructure:"cache_mb"`
	Filter      string `mapstructure:"filter"`
}

// FilterMode returns the texture filter; unknown names mean nearest.
func (a Assets) FilterMode() render.FilterMode {
	f, _ := render.ParseFilter(a.Filter)
	return f
}

// Levels locates saved level files.
type Levels struct {
	Dir string `mapstructure:"dir"`
}

// Log configures logging. An empty File logs to stderr.
type Log struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Config is the full configuration.
type Config struct {
	Render Render `mapstructure:"render"`
	Maze   Maze   `mapstructure:"maze"`
	Assets Assets `mapstructure:"assets"`
	Levels Levels `mapstructure:"levels"`
	Log    Log    `mapstructure:"log"`
}

var defaults = map[string]any{
	"render.omega":         0.1,
	"render.tile_size":     64,
	"render.sprite_size":   64,
	"render.unit":          100.0,
	"render.draw_distance": 30.0,
	"render.zoom":          0.5,
	"render.fps":           30,
	"render.entities":      1000,
	"maze.width":           40,
	"maze.height":          40,
	"maze.rooms":           10,
	"maze.seed":            0,
	"maze.max_attempts":    0,
	"maze.palette":         "dungeon",
	"assets.tiles":         "",
	"assets.sprites":       "",
	"assets.tile_count":    176,
	"assets.sprite_count":  scene.SpriteCount,
	"assets.cache_mb":      64,
	"assets.filter":        "nearest",
	"levels.dir":           "maps",
	"log.file":             "",
	"log.level":            "info",
	"log.max_size_mb":      10,
	"log.max_backups":      3,
}

// Options says where Load looks beyond the defaults.
type Options struct {
	// File is an explicit config file. When empty, warren.{yaml,toml,json}
	// is searched for in the working directory and ~/.config/warren.
	File string
	// EnvFile is loaded into the environment first. When empty, .env is
	// used if present.
	EnvFile string
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	if err := loadEnv(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("warren")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "warren"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load env file: %w", err)
}

// Validate rejects settings the renderer or generator cannot work with.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	r := c.Render
	check(r.Omega > 0, "render.omega must be positive, got %v", r.Omega)
	check(r.TileSize > 0, "render.tile_size must be positive, got %d", r.TileSize)
	check(r.SpriteSize > 0, "render.sprite_size must be positive, got %d", r.SpriteSize)
	check(r.Unit > 0, "render.unit must be positive, got %v", r.Unit)
	check(r.DrawDistance > 0, "render.draw_distance must be positive, got %v", r.DrawDistance)
	check(r.Zoom > 0, "render.zoom must be positive, got %v", r.Zoom)
	check(r.FPS > 0, "render.fps must be positive, got %d", r.FPS)
	check(r.Entities >= 0, "render.entities must not be negative, got %d", r.Entities)

	m := c.Maze
	check(m.Width > 0 && m.Width <= level.MaxDimension, "maze.width must be in 1..%d, got %d", level.MaxDimension, m.Width)
	check(m.Height > 0 && m.Height <= level.MaxDimension, "maze.height must be in 1..%d, got %d", level.MaxDimension, m.Height)
	check(m.Rooms >= 0, "maze.rooms must not be negative, got %d", m.Rooms)
	check(m.Palette == "dungeon" || m.Palette == "outdoor", "maze.palette must be dungeon or outdoor, got %q", m.Palette)

	a := c.Assets
	check(a.TileCount > 0 && a.TileCount <= 256, "assets.tile_count must be in 1..256, got %d", a.TileCount)
	check(a.SpriteCount > 0, "assets.sprite_count must be positive, got %d", a.SpriteCount)
	if _, err := render.ParseFilter(a.Filter); err != nil {
		errs = append(errs, fmt.Errorf("assets.filter: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Settings returns the scene settings for a w x h framebuffer.
func (r Render) Settings(w, h int) scene.Settings {
	s := scene.DefaultSettings(w, h)
	s.Omega = r.Omega
	s.Unit = r.Unit
	s.TileSize = float64(r.TileSize)
	s.SpriteSize = float64(r.SpriteSize)
	s.EntityScale = 5 * float64(r.SpriteSize)
	s.DrawDistance = r.DrawDistance * r.Unit
	s.Zoom = r.Zoom * float64(w)
	return s
}
