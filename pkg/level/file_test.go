package level

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func sampleGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := New(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	g.Day = false
	for i, k := range Kinds() {
		c := DefaultCell(k)
		c.Flat[i%4] = uint8(i)
		c.Wall[i%3][(i+1)%4] = uint8(100 + i)
		g.Set(1+i%5, 1+i/5, c)
	}
	return g
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := sampleGrid(t)

	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		t.Fatal(err)
	}

	cellBytes := 1 + 4 + 12
	wantLen := 13 + g.Cols()*g.Rows()*cellBytes
	if buf.Len() != wantLen {
		t.Errorf("encoded %d bytes, want %d", buf.Len(), wantLen)
	}
	if v := binary.LittleEndian.Uint32(buf.Bytes()[:4]); v != FormatVersion {
		t.Errorf("version tag = %d", v)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(g) {
		t.Error("decoded grid differs from the encoded one")
	}
}

func TestDecodeErrors(t *testing.T) {
	g := sampleGrid(t)
	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		t.Fatal(err)
	}
	good := buf.Bytes()

	badVersion := bytes.Clone(good)
	binary.LittleEndian.PutUint32(badVersion, 7)

	badSize := bytes.Clone(good)
	binary.LittleEndian.PutUint32(badSize[4:], 0)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"short header", good[:6], ErrTruncated},
		{"short cells", good[:len(good)-3], ErrTruncated},
		{"version", badVersion, ErrBadVersion},
		{"dimensions", badSize, ErrBadDimensions},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(bytes.NewReader(tc.data))
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
			if got != nil {
				t.Error("a grid was returned alongside an error")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := Path(filepath.Join(dir, "maps"), 3)
	g := sampleGrid(t)

	if err := Save(path, g); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(g) {
		t.Error("loaded grid differs from the saved one")
	}

	if err := os.WriteFile(path, []byte{1, 0}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrTruncated) {
		t.Errorf("corrupt load err = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.dat")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing load err = %v", err)
	}
}
