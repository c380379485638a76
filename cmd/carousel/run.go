package main

import (
	"context"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/carousel/pkg/carousel"
	"github.com/taigrr/carousel/pkg/config"
	"github.com/taigrr/carousel/pkg/ui"
)

// pointerShape maps document cursors to OSC 22 pointer names.
var pointerShape = map[string]string{
	"":        "default",
	"default": "default",
	"pointer": "pointer",
}

func run(ctx context.Context, cfg config.Config) error {
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	doc, menu, ctrl, parts, err := newScene(cfg, logger)
	if err != nil {
		return err
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b]22;default\x07")
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		term.Shutdown(shutdownCtx)
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl.Resize(width, height)
	ready := ui.NewSignal()
	report := ctrl.Boot(ctx, ready)

	// Parts are fetched off the draw loop and spliced on it.
	fetched := make(chan []ui.Fragment, 1)
	go func() {
		fetched <- parts.Fetch(ctx)
	}()

	// Terminal events are handled on the draw loop so the scene has a single
	// owner.
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

	targetDuration := time.Second / time.Duration(cfg.FPS)
	ticker := time.NewTicker(targetDuration)
	defer ticker.Stop()

	cursor := ""
	for {
		select {
		case <-ctx.Done():
			return nil

		case frags := <-fetched:
			parts.Splice(doc, frags)
			doc.Layout(width, height)
			ready.Fire()

		case rep := <-report:
			if ctrl.Build(rep) {
				logger.Info("scene ready", "resolved", rep.Resolved, "total", rep.Total, "failed", rep.Failed())
			}

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				ctrl.Resize(width, height)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("ctrl+c"):
					return nil
				case ev.MatchString("escape", "q"):
					if !projectOpen(doc) {
						return nil
					}
					menu.CloseProject()
				case ev.MatchString("tab"):
					menu.Toggle("mainToggle", "menu")
				}

			case uv.MouseMotionEvent:
				ctrl.HandleMove(pointerAt(doc, ev.X, ev.Y))

			case uv.MouseClickEvent:
				if ev.Button != uv.MouseLeft {
					break
				}
				pe := pointerAt(doc, ev.X, ev.Y)
				ctrl.HandleClick(pe)
				menu.Click(pe.Target)
			}

		case <-ticker.C:
			ctrl.Tick()

			area := term.Bounds()
			term.Clear()
			ctrl.Frame().Draw(term, area)
			doc.Draw(term)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}

			if doc.Cursor != cursor {
				cursor = doc.Cursor
				if shape, ok := pointerShape[cursor]; ok {
					fmt.Fprintf(os.Stdout, "\x1b]22;%s\x07", shape)
				}
			}
		}
	}
}

// pointerAt builds a pointer event at the center of cell (x, y), resolving
// the target once so the menu and the scene agree on it.
func pointerAt(doc *ui.Document, x, y int) carousel.PointerEvent {
	pe := carousel.MouseAt(float64(x)+0.5, float64(y)+0.5)
	pe.Target = doc.ElementAt(x, y)
	return pe
}

func projectOpen(doc *ui.Document) bool {
	for _, e := range doc.Query(".project-container") {
		if e.Visible() {
			return true
		}
	}
	return false
}
