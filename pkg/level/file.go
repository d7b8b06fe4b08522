package level

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FormatVersion is written at the head of every level file.
const FormatVersion = 1

// MaxDimension bounds the maze size accepted from a level file.
const MaxDimension = 512

var (
	ErrBadVersion    = errors.New("unsupported level version")
	ErrBadDimensions = errors.New("bad maze dimensions")
	ErrTruncated     = errors.New("truncated level data")
)

type header struct {
	Version int32
	W, H    int32
	Day     uint8
}

// Encode writes g in the little-endian level format: version, maze width,
// maze height, day flag, then every cell row by row as bits, 4 flat and 12
// wall texture bytes.
func Encode(w io.Writer, g *Grid) error {
	var day uint8
	if g.Day {
		day = 1
	}
	h := header{Version: FormatVersion, W: int32(g.W), H: int32(g.H), Day: day}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, g.cells); err != nil {
		return fmt.Errorf("write cells: %w", err)
	}
	return nil
}

// Decode reads a grid written by Encode into a new Grid.
func Decode(r io.Reader) (*Grid, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", eofToTruncated(err))
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("level version %d: %w", h.Version, ErrBadVersion)
	}
	if h.W < 1 || h.H < 1 || h.W > MaxDimension || h.H > MaxDimension {
		return nil, fmt.Errorf("level size %dx%d: %w", h.W, h.H, ErrBadDimensions)
	}
	g := &Grid{
		W:     int(h.W),
		H:     int(h.H),
		Day:   h.Day != 0,
		cells: make([]Cell, (2*h.W+1)*(2*h.H+1)),
	}
	if err := binary.Read(r, binary.LittleEndian, g.cells); err != nil {
		return nil, fmt.Errorf("read cells: %w", eofToTruncated(err))
	}
	return g, nil
}

func eofToTruncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

// Save writes g to path, creating parent directories as needed.
func Save(path string, g *Grid) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create level dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create level: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := Encode(bw, g); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush level: %w", err)
	}
	return f.Close()
}

// Load reads a level file. On error no grid is returned, so callers keep
// whatever map they already had.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level: %w", err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

// Path returns the file name used for level n inside dir.
func Path(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("level%d.dat", n))
}
