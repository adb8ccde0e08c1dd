package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ivlev/phazur-promo/internal/config"
	"github.com/ivlev/phazur-promo/internal/director"
	"github.com/ivlev/phazur-promo/internal/renderer"
)

var version = "dev"

// inputDir holds compositions, audio and assets when no paths are given
const inputDir = "input"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	configPath      string
	compositionPath string
	verbose         bool
	logger          *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:           "phazur-promo",
		Short:         "Render the Phazur promo video from a frame timeline",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "render config YAML (defaults apply when empty)")
	root.PersistentFlags().StringVar(&a.compositionPath, "composition", "", "composition YAML (default: newest in input/, else the built-in Phazur promo)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.renderCmd(),
		a.frameCmd(),
		a.describeCmd(),
		a.timelineCmd(),
		a.cuesCmd(),
		a.previewCmd(),
		a.initCmd(),
	)
	return root
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.LoadFile(a.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.BuildVersion = version
	if cfg.CompositionPath != "" && a.compositionPath == "" {
		a.compositionPath = cfg.CompositionPath
	}
	return cfg, nil
}

// loadComposition resolves the composition and reports its source and warnings on out.
// The returned path is empty for the built-in composition.
func (a *app) loadComposition(out io.Writer) (*director.Composition, string, error) {
	path := a.compositionPath
	if path == "" {
		if latest, err := director.FindLatestComposition(inputDir); err == nil {
			path = latest
		}
	}
	if path == "" {
		fmt.Fprintln(out, "[*] Используется встроенная композиция Phazur")
		return director.Default(), "", nil
	}

	c, err := director.ReadComposition(path)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка чтения композиции: %w", err)
	}
	fmt.Fprintf(out, "[*] Выбран файл: %s\n", path)
	return c, path, nil
}

func (a *app) compile(out io.Writer, c *director.Composition, cacheSize int) (*director.Timeline, error) {
	tl, err := director.Compile(c, renderer.NewAnimator(c.FPS, cacheSize))
	if err != nil {
		return nil, err
	}
	for _, w := range c.Warnings() {
		fmt.Fprintf(out, "[!] %s\n", w)
		a.logger.Debug("composition warning", zap.String("warning", w))
	}
	return tl, nil
}
