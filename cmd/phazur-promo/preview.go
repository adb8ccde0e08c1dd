package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/phazur-promo/internal/asset"
	"github.com/ivlev/phazur-promo/internal/director"
	"github.com/ivlev/phazur-promo/internal/preview"
	"github.com/ivlev/phazur-promo/internal/raster"
	"github.com/ivlev/phazur-promo/internal/renderer"
)

func (a *app) previewCmd() *cobra.Command {
	var (
		start   int
		logPath string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Scrub the timeline in the terminal; reloads when the composition file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			comp, path, err := a.loadComposition(out)
			if err != nil {
				return err
			}
			tl, err := a.compile(out, comp, cfg.CacheSize)
			if err != nil {
				return err
			}

			// the screen owns the terminal, so logs go to a file
			logger := zap.NewNop()
			if logPath != "" {
				zc := zap.NewDevelopmentConfig()
				zc.OutputPaths = []string{logPath}
				zc.ErrorOutputPaths = []string{logPath}
				if logger, err = zc.Build(); err != nil {
					return err
				}
				defer logger.Sync()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var reload <-chan *director.Timeline
			if path != "" {
				load := func(p string) (*director.Timeline, error) {
					c, err := director.ReadComposition(p)
					if err != nil {
						return nil, err
					}
					if c.Width != comp.Width || c.Height != comp.Height {
						return nil, fmt.Errorf("frame size changed to %dx%d; restart the preview", c.Width, c.Height)
					}
					return director.Compile(c, renderer.NewAnimator(c.FPS, cfg.CacheSize))
				}
				reload, err = preview.Watch(ctx, path, preview.DefaultDebounce, load, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "[*] Слежение за изменениями: %s\n", filepath.Base(path))
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}

			canvas := raster.NewCanvas(comp.Width, comp.Height, asset.NewResolver(cfg.AssetDirs...), logger)
			m := preview.NewModel(tl, canvas, logger)
			m.Seek(start)
			err = m.Run(ctx, screen, reload)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&start, "at", 0, "start frame")
	cmd.Flags().StringVar(&logPath, "log", "", "write logs to this file while the preview runs")
	return cmd
}
