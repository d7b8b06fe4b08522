package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// GLTFImages decodes every image a glTF or GLB document carries, in document
// order. Images live either in a buffer view or in a file next to the
// document. Entries that cannot be decoded are nil.
func GLTFImages(path string) ([]image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	if len(doc.Images) == 0 {
		return nil, ErrNoImages
	}

	images := make([]image.Image, len(doc.Images))
	for i, img := range doc.Images {
		data, err := imageData(doc, img, filepath.Dir(path))
		if err != nil || len(data) == 0 {
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			continue
		}
		images[i] = decoded
	}
	return images, nil
}

func imageData(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		idx := *img.BufferView
		if idx < 0 || idx >= len(doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d out of range", idx)
		}
		bv := doc.BufferViews[idx]
		if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
			return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
		}
		buf := doc.Buffers[bv.Buffer]
		start, end := bv.ByteOffset, bv.ByteOffset+bv.ByteLength
		if start < 0 || end > len(buf.Data) {
			return nil, fmt.Errorf("buffer view %d exceeds buffer", idx)
		}
		return buf.Data[start:end], nil
	case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
		return os.ReadFile(filepath.Join(dir, img.URI))
	}
	return nil, nil
}
