package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/softras/pkg/assets"
	"github.com/taigrr/softras/pkg/engine"
	"github.com/taigrr/softras/pkg/render"
)

func snapshotCmd(f *flags) *cobra.Command {
	var (
		frames int
		out    string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render frames headless and save the last one as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if frames < 1 {
				return fmt.Errorf("frames must be at least 1, got %d", frames)
			}
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			logger, closer, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			eng, err := engine.Build(cfg, assets.NewLoader(), logger)
			if err != nil {
				return err
			}

			fb := render.NewFramebuffer(cfg.Viewport.Width, cfg.Viewport.Height)
			var total render.Stats
			for i := range frames {
				if i > 0 {
					eng.Update(engine.InputState{})
				}
				total.Add(eng.RenderFrame(fb))
			}

			if err := fb.SavePNG(out); err != nil {
				return err
			}
			last := eng.Stats()
			logger.Info("snapshot saved",
				"path", out,
				"frames", frames,
				"triangles", last.Drawn,
				"pixels", last.Pixels,
				"skipped", total.Behind+total.Degenerate,
			)
			return nil
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 1, "Frames to render; spin advances between frames")
	cmd.Flags().StringVarP(&out, "out", "o", "frame.png", "Output PNG path")
	return cmd
}
