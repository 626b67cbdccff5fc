// softras - software triangle rasterizer
// Renders textured quads and glTF meshes on the CPU, one pixel at a time,
// into your terminal or a PNG file.
//
// Controls (view):
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	R/F         - Move up/down
//	Arrows      - Turn and look
//	Mouse drag  - Look around
//	X           - Toggle wireframe overlay
//	P           - Toggle perspective-correct texturing
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/softras/pkg/config"
)

var version = "dev"

// flags are the overrides shared by every command.
type flags struct {
	config   string
	width    int
	height   int
	texture  string
	workers  int
	fps      int
	logLevel string
	logFile  string
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "softras",
		Short: "Software triangle rasterizer",
		Long: "softras draws textured quads and glTF meshes with a brute-force CPU " +
			"rasterizer, without a depth buffer or GPU.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.config, "config", "c", "", "Scene file (TOML)")
	pf.IntVar(&f.width, "width", 0, "Framebuffer width (snapshot)")
	pf.IntVar(&f.height, "height", 0, "Framebuffer height (snapshot)")
	pf.StringVarP(&f.texture, "texture", "t", "", "Texture image for every quad (PNG/JPG/BMP/TIFF/WebP)")
	pf.IntVarP(&f.workers, "workers", "w", 0, "Goroutines per triangle")
	pf.IntVar(&f.fps, "fps", 0, "Target FPS")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&f.logFile, "log-file", "", "Write logs to this file")

	root.AddCommand(viewCmd(f), snapshotCmd(f))
	return root
}

func viewCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Fly through the scene in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, f)
		},
	}
}

// loadConfig reads the scene file, or the defaults, and applies the flags
// the user set.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("width") {
		cfg.Viewport.Width = f.width
	}
	if changed("height") {
		cfg.Viewport.Height = f.height
	}
	if changed("workers") {
		cfg.Render.Workers = f.workers
	}
	if changed("fps") {
		cfg.Render.FPS = f.fps
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if f.texture != "" {
		for i := range cfg.Quads {
			cfg.Quads[i].Texture = f.texture
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger creates the process logger. When cfg names a log file, output
// goes there and the returned closer closes it.
func newLogger(cfg *config.Config, fallback io.Writer) (*log.Logger, io.Closer, error) {
	w := fallback
	var closer io.Closer = io.NopCloser(nil)
	if cfg.Log.File != "" {
		file, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = file, file
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "softras",
		Level:           cfg.LogLevel(),
	})
	return logger, closer, nil
}
