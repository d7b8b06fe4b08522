package main

import (
	"fmt"
	"image"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/warren/pkg/editor"
	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/render"
)

var (
	hudBase   = lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Foreground(lipgloss.Color("#ffffff"))
	hudFPS    = hudBase.Foreground(lipgloss.Color("#40ff40"))
	hudTitle  = hudBase.Bold(true)
	hudCount  = hudBase.Foreground(lipgloss.Color("#40ffff")).Bold(true)
	hudHint   = hudBase.Foreground(lipgloss.Color("#ffff40")).Faint(true)
	hudStatus = hudBase.Foreground(lipgloss.Color("#ff40ff")).Bold(true)
)

// hudState is what the overlay reports about the session.
type hudState struct {
	Slot      int
	Day       bool
	Fly       bool
	Texture   int
	Kind      level.Kind
	Rotation  editor.Rotation
	Selection image.Rectangle
	Cursor    *image.Point
	ClipW     int
	ClipH     int
	Quads     int
	Drawn     int
}

// HUD renders the top and bottom overlay lines.
type HUD struct {
	Visible bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time

	status      string
	statusUntil time.Time
}

// NewHUD creates a visible HUD.
func NewHUD() *HUD {
	return &HUD{Visible: true, fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Flash shows msg on the bottom line for a few seconds.
func (h *HUD) Flash(msg string, now time.Time) {
	h.status = msg
	h.statusUntil = now.Add(3 * time.Second)
}

// spread lays left, centre and right out across width cells.
func spread(width int, left, centre, right string) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(centre), lipgloss.Width(right)
	gap1 := max((width-cw)/2-lw, 1)
	gap2 := max(width-lw-gap1-cw-rw, 1)
	return left + hudBase.Render(strings.Repeat(" ", gap1)) + centre + hudBase.Render(strings.Repeat(" ", gap2)) + right
}

// Lines returns the top and bottom overlay lines for width cells.
func (h *HUD) Lines(st hudState, width int, now time.Time) (top, bottom string) {
	mode := "walk"
	if st.Fly {
		mode = "fly"
	}
	sky := "night"
	if st.Day {
		sky = "day"
	}
	top = spread(width,
		hudFPS.Render(fmt.Sprintf(" %.0f FPS ", h.fps)),
		hudTitle.Render(fmt.Sprintf(" level %d · %s · %s ", st.Slot, sky, mode)),
		hudCount.Render(fmt.Sprintf(" %d/%d quads ", st.Drawn, st.Quads)),
	)

	tool := fmt.Sprintf(" tex %d · %s · %v ", st.Texture, st.Kind, st.Rotation)
	if st.Cursor != nil {
		tool += fmt.Sprintf("· at %d,%d ", st.Cursor.X, st.Cursor.Y)
	}
	if !st.Selection.Empty() {
		tool += fmt.Sprintf("· sel %dx%d ", st.Selection.Dx(), st.Selection.Dy())
	}
	if st.ClipW > 0 {
		tool += fmt.Sprintf("· clip %dx%d ", st.ClipW, st.ClipH)
	}
	right := hudHint.Render(" ? help ")
	if h.status != "" && now.Before(h.statusUntil) {
		right = hudStatus.Render(" " + h.status + " ")
	}
	bottom = spread(width, hudBase.Render(tool), "", right)
	return top, bottom
}

// Draw overlays the HUD on the terminal.
func (h *HUD) Draw(tr *render.TerminalRenderer, st hudState, width, height int) {
	if !h.Visible || width <= 0 || height <= 0 {
		return
	}
	top, bottom := h.Lines(st, width, time.Now())
	tr.Overlay(uv.NewStyledString(top), uv.Rect(0, 0, width, 1))
	tr.Overlay(uv.NewStyledString(bottom), uv.Rect(0, height-1, width, 1))
}

const helpText = `warren: walk a maze and edit it in place

  w/s a/d       walk and strafe        left/right up/down  turn and look
  pgup/pgdown   fly up and down        x                   toggle fly mode
  home          level the view         mouse right drag    look around
  mouse left    paint surface          q                   pick surface texture
  t / f / c     paint walls/floor/ceil space               set cell kind
  + / -         next/prev texture      { / }               prev/next kind
  k             pick kind at cursor    v                   start selection
  y             copy selection         p                   paste
  r / R         rotate paste           ctrl+z              undo
  n             day / night            ctrl+n / ctrl+g     new map / new maze
  e             scatter billboards     [ / ]  , / .        draw distance, zoom
  1..9,0        level slot             ctrl+s / ctrl+o     save / load slot
  ?             toggle HUD             esc                 cancel selection, quit
`
