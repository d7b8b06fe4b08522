// Package assets fills the fixed-size texture and sprite tables the renderer
// looks handles up in. Tables come from a directory of numbered PNGs, the
// images embedded in a glTF/GLB file, or are generated.
package assets

import (
	"github.com/taigrr/warren/pkg/render"
)

// Table maps small integer handles to textures. Missing entries resolve to
// the fallback so a sparse asset set still draws.
type Table struct {
	textures []*render.Texture
	fallback *render.Texture
}

// NewTable creates an empty table of size handles.
func NewTable(size int, fallback *render.Texture) *Table {
	return &Table{textures: make([]*render.Texture, max(size, 0)), fallback: fallback}
}

// Texture returns the texture for handle, or the fallback.
func (t *Table) Texture(handle int) *render.Texture {
	if t == nil {
		return nil
	}
	if handle < 0 || handle >= len(t.textures) || t.textures[handle] == nil {
		return t.fallback
	}
	return t.textures[handle]
}

// Set stores tex under handle. Out of range handles are ignored.
func (t *Table) Set(handle int, tex *render.Texture) {
	if handle >= 0 && handle < len(t.textures) {
		t.textures[handle] = tex
	}
}

// Len returns the number of handles.
func (t *Table) Len() int { return len(t.textures) }

// Loaded counts the handles that have their own texture.
func (t *Table) Loaded() int {
	n := 0
	for _, tex := range t.textures {
		if tex != nil {
			n++
		}
	}
	return n
}
