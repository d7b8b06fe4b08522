package main

import (
	"context"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/warren/pkg/render"
)

func newRunCmd(a *app) *cobra.Command {
	var levelPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Explore and edit a level in the terminal",
		Long:  "Explore and edit a level in the terminal.\n\n" + helpText,
		Example: `  warren run
  warren run --level maps/level3.dat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(true); err != nil {
				return err
			}
			defer a.close()
			return run(cmd.Context(), a, levelPath)
		},
	}
	cmd.Flags().StringVar(&levelPath, "level", "", "level file (default a generated maze)")
	return cmd
}

func run(ctx context.Context, a *app, levelPath string) error {
	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()

	w, err := newWorld(a.cfg, a.log, levelPath, fbWidth, fbHeight)
	if err != nil {
		return err
	}
	defer w.close()

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	fb := render.NewFramebuffer(fbWidth, fbHeight)
	rasterizer := w.rasterizer(fb)
	sess := newSession(w, a.cfg.Render.FPS)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Forward events to the frame loop, which owns all state.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	a.log.WithField("quads", len(w.scene.Quads())).Info("session started")

	// Main loop
	targetDuration := time.Second / time.Duration(a.cfg.Render.FPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

	drain:
		for {
			select {
			case ev := <-events:
				if ws, ok := ev.(uv.WindowSizeEvent); ok {
					width, height = ws.Width, ws.Height
					term.Erase()
					term.Resize(width, height)
					termRenderer = render.NewTerminalRenderer(term, width, height)
					fbWidth, fbHeight = termRenderer.FramebufferSize()
					fb.Resize(fbWidth, fbHeight)
					w.resize(fbWidth, fbHeight)
					continue
				}
				sess.handle(ev)
			default:
				break drain
			}
		}
		if sess.quit {
			a.log.Info("session ended")
			return nil
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		st := sess.step(dt, rasterizer, fb)

		// Display
		termRenderer.Render(fb)
		sess.hud.UpdateFPS()
		sess.hud.Draw(termRenderer, st, width, height)
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
