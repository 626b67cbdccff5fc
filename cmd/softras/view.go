package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/softras/pkg/assets"
	"github.com/taigrr/softras/pkg/config"
	"github.com/taigrr/softras/pkg/engine"
	"github.com/taigrr/softras/pkg/render"
)

const (
	mouseOn  = "\x1b[?1003h\x1b[?1006h" // Any-event tracking, SGR encoding
	mouseOff = "\x1b[?1003l\x1b[?1006l"
)

func runView(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	// The terminal is ours while the view runs, so logs never go to it.
	logger, closer, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	loader := assets.NewLoader()
	eng, err := engine.Build(cfg, loader, logger)
	if err != nil {
		return err
	}

	var reloads <-chan assets.Reload
	if paths := texturePaths(cfg); len(paths) > 0 {
		w, err := assets.NewWatcher(loader, logger, paths...)
		if err != nil {
			logger.Warn("texture reload disabled", "err", err)
		} else {
			defer w.Close()
			reloads = w.Reloads()
		}
	}

	title := "default scene"
	if f.config != "" {
		title = filepath.Base(f.config)
	}
	return viewLoop(cmd.Context(), cfg, eng, reloads, newHUD(title), logger)
}

// texturePaths lists the texture files the scene was built from.
func texturePaths(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, q := range cfg.Quads {
		add(q.Texture)
	}
	for _, m := range cfg.Meshes {
		add(m.Texture)
	}
	return paths
}

func viewLoop(ctx context.Context, cfg *config.Config, eng *engine.Engine, reloads <-chan assets.Reload, h *hud, logger *log.Logger) error {
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
	fmt.Fprint(os.Stdout, mouseOn)

	defer func() {
		fmt.Fprint(os.Stdout, mouseOff)
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	tr := render.NewTerminalRenderer(term, width, height)
	fb := render.NewFramebuffer(tr.FramebufferSize())

	ctl := newControls()
	resizes := make(chan uv.WindowSizeEvent, 1)
	go func() {
		for ev := range term.Events() {
			if ev, ok := ev.(uv.WindowSizeEvent); ok {
				// Keep only the latest size.
				select {
				case <-resizes:
				default:
				}
				resizes <- ev
				continue
			}
			ctl.handle(ev, time.Now())
		}
	}()

	frameTime := time.Second / time.Duration(cfg.Render.FPS)
	for {
		now := time.Now()

		select {
		case <-ctx.Done():
			return nil
		case ev := <-resizes:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			tr = render.NewTerminalRenderer(term, width, height)
			fb = render.NewFramebuffer(tr.FramebufferSize())
		case r, ok := <-reloads:
			if !ok {
				reloads = nil
				break
			}
			n := eng.ReplaceTexture(r.Path, r.Texture)
			logger.Info("texture applied", "path", r.Path, "entries", n)
		default:
		}

		in, toggles := ctl.frame(now)
		for _, t := range toggles {
			switch t {
			case toggleWireframe:
				eng.SetWireframe(!eng.Wireframe())
			case togglePerspective:
				eng.TogglePerspective()
			case toggleHUD:
				h.visible = !h.visible
			}
		}

		stats, running := eng.Step(fb, in)
		if !running {
			return nil
		}

		tr.Render(fb)
		if err := tr.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		h.tick(now)
		h.render(os.Stdout, width, height, status{
			stats:       stats,
			wireframe:   eng.Wireframe(),
			perspective: eng.Rasterizer().Options().PerspectiveCorrect,
		})

		if elapsed := time.Since(now); elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}
}
