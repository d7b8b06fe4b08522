package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"

	"github.com/taigrr/warren/pkg/render"
)

// ErrNoImages is returned when a source yields no usable images at all.
var ErrNoImages = errors.New("assets: no images found")

// DefaultCacheBytes bounds the decoded textures kept by a Loader.
const DefaultCacheBytes = 64 << 20

// Loader decodes texture files into tables, keeping decoded textures in a
// cost-bounded cache so reloading a tile set is cheap.
type Loader struct {
	cache  *ristretto.Cache[string, *render.Texture]
	log    logrus.FieldLogger
	Filter render.FilterMode
}

// NewLoader creates a loader whose cache holds at most maxBytes of texels.
func NewLoader(maxBytes int64, log logrus.FieldLogger) (*Loader, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultCacheBytes
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *render.Texture]{
		NumCounters: 10000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("texture cache: %w", err)
	}
	return &Loader{cache: cache, log: log}, nil
}

// Close releases the cache.
func (l *Loader) Close() {
	l.cache.Close()
}

func (l *Loader) cached(key string) (*render.Texture, bool) {
	l.cache.Wait()
	return l.cache.Get(key)
}

func (l *Loader) store(key string, tex *render.Texture) {
	cost := int64(tex.Width * tex.Height * 4)
	if cost <= 0 {
		cost = 1
	}
	l.cache.Set(key, tex, cost)
	l.cache.Wait()
}

func (l *Loader) file(path string) (*render.Texture, error) {
	if tex, ok := l.cached(path); ok {
		return tex, nil
	}
	tex, err := render.LoadTexture(path)
	if err != nil {
		return nil, err
	}
	tex.Filter = l.Filter
	l.store(path, tex)
	return tex, nil
}

// LoadDir loads <prefix><n>.png for each handle n below size. Missing files
// leave the handle on the fallback; a directory with none of them is an
// error.
func (l *Loader) LoadDir(dir, prefix string, size int, fallback *render.Texture) (*Table, error) {
	table := NewTable(size, fallback)
	for i := range size {
		path := filepath.Join(dir, prefix+strconv.Itoa(i)+".png")
		tex, err := l.file(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			l.log.WithError(err).WithField("path", path).Warn("skipping texture")
			continue
		}
		table.Set(i, tex)
	}
	if table.Loaded() == 0 {
		return nil, fmt.Errorf("%s/%s*.png: %w", dir, prefix, ErrNoImages)
	}
	l.log.WithFields(logrus.Fields{
		"dir":    dir,
		"prefix": prefix,
		"loaded": table.Loaded(),
		"size":   size,
		"filter": l.Filter.String(),
	}).Debug("loaded texture directory")
	return table, nil
}

// LoadGLTF fills a table from the images embedded in or referenced by a
// glTF document. Image n becomes handle n.
func (l *Loader) LoadGLTF(path string, size int, fallback *render.Texture) (*Table, error) {
	table := NewTable(size, fallback)
	key := func(i int) string { return path + "#" + strconv.Itoa(i) }

	hit := true
	for i := range size {
		tex, ok := l.cached(key(i))
		if !ok {
			hit = false
			break
		}
		table.Set(i, tex)
	}
	if hit && table.Loaded() > 0 {
		return table, nil
	}

	images, err := GLTFImages(path)
	if err != nil {
		return nil, err
	}
	for i, img := range images {
		if i >= size || img == nil {
			continue
		}
		tex := render.TextureFromImage(img)
		tex.Filter = l.Filter
		l.store(key(i), tex)
		table.Set(i, tex)
	}
	if table.Loaded() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoImages)
	}
	l.log.WithFields(logrus.Fields{
		"path":   path,
		"images": len(images),
		"loaded": table.Loaded(),
	}).Debug("loaded glTF textures")
	return table, nil
}

// Load resolves a texture source. An empty source, or one that fails to
// load, gives the generated table from gen.
func (l *Loader) Load(source, prefix string, size int, gen func(count int) *Table) *Table {
	fallback := gen(size)
	if source == "" {
		return fallback
	}

	var (
		table *Table
		err   error
	)
	info, statErr := os.Stat(source)
	switch {
	case statErr != nil:
		err = statErr
	case info.IsDir():
		table, err = l.LoadDir(source, prefix, size, fallback.fallback)
	case isGLTF(source):
		table, err = l.LoadGLTF(source, size, fallback.fallback)
	default:
		err = fmt.Errorf("unsupported texture source %q", source)
	}
	if err != nil {
		l.log.WithError(err).WithField("source", source).Warn("using generated textures")
		return fallback
	}
	return table
}

func isGLTF(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		return true
	}
	return false
}
