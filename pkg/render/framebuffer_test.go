package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestBlendPixel(t *testing.T) {
	tests := []struct {
		name  string
		alpha uint8
		want  uint8
		slop  uint8
	}{
		{"opaque", 255, 200, 0},
		{"transparent", 0, 0, 0},
		{"half", 128, 100, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(2, 2)
			fb.Clear(ColorBlack)
			fb.BlendPixel(1, 1, RGB(200, 200, 200), tc.alpha)
			got := fb.GetPixel(1, 1).R
			if absInt(int(got)-int(tc.want)) > int(tc.slop) {
				t.Errorf("R = %d, want %d", got, tc.want)
			}
			if fb.GetPixel(0, 0) != ColorBlack {
				t.Error("neighbouring pixel changed")
			}
		})
	}

	// Out of bounds writes are ignored.
	fb := NewFramebuffer(1, 1)
	fb.BlendPixel(-1, 5, ColorWhite, 255)
}

func TestClearGradient(t *testing.T) {
	fb := NewFramebuffer(3, 5)
	fb.ClearGradient(ColorBlack, ColorWhite)
	if got := fb.GetPixel(2, 0); got != ColorBlack {
		t.Errorf("top = %v, want black", got)
	}
	if got := fb.GetPixel(0, 4); got != ColorWhite {
		t.Errorf("bottom = %v, want white", got)
	}
	if mid := fb.GetPixel(1, 2).R; mid < 126 || mid > 128 {
		t.Errorf("middle R = %d, want about 127", mid)
	}
}

func TestDrawCrosshair(t *testing.T) {
	fb := NewFramebuffer(9, 9)
	fb.DrawCrosshair(4, 4, 2, ColorWhite)
	for _, p := range [][2]int{{2, 4}, {6, 4}, {4, 2}, {4, 6}, {4, 4}} {
		if fb.GetPixel(p[0], p[1]) != ColorWhite {
			t.Errorf("pixel %v not set", p)
		}
	}
	if fb.GetPixel(3, 3) == ColorWhite {
		t.Error("diagonal pixel set")
	}
}

func TestSavePNG(t *testing.T) {
	fb := NewFramebuffer(4, 2)
	fb.Clear(ColorSky)
	fb.SetPixel(3, 1, RGB(10, 20, 30))

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("size = %v, want 4x2", b)
	}
	r, g, b, _ := img.At(3, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = %d,%d,%d, want 10,20,30", r>>8, g>>8, b>>8)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestFramebufferResize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	backing := &fb.Pixels[0]
	fb.Resize(2, 3)
	if fb.Width != 2 || fb.Height != 3 || len(fb.Pixels) != 6 {
		t.Fatalf("resized to %dx%d with %d pixels", fb.Width, fb.Height, len(fb.Pixels))
	}
	if &fb.Pixels[0] != backing {
		t.Error("shrinking reallocated the pixels")
	}
	fb.Resize(8, 8)
	if len(fb.Pixels) != 64 || fb.Bounds().Dx() != 8 {
		t.Errorf("grown to %d pixels, bounds %v", len(fb.Pixels), fb.Bounds())
	}
}

func TestDrawRectOutline(t *testing.T) {
	fb := NewFramebuffer(6, 6)
	fb.DrawRectOutline(1, 1, 4, 3, ColorWhite)
	for _, p := range [][2]int{{1, 1}, {4, 1}, {1, 3}, {4, 3}, {2, 1}, {1, 2}} {
		if fb.GetPixel(p[0], p[1]) != ColorWhite {
			t.Errorf("edge pixel %v not set", p)
		}
	}
	if fb.GetPixel(2, 2) == ColorWhite || fb.GetPixel(5, 4) == ColorWhite {
		t.Error("outline spilled")
	}
}

func TestDrawLineDiagonal(t *testing.T) {
	fb := NewFramebuffer(5, 5)
	fb.DrawLine(4, 0, 0, 4, ColorWhite)
	for i := range 5 {
		if fb.At(4-i, i) != ColorWhite {
			t.Errorf("pixel (%d,%d) not set", 4-i, i)
		}
	}
}
