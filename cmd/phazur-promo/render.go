package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/phazur-promo/internal/analyzer"
	"github.com/ivlev/phazur-promo/internal/asset"
	"github.com/ivlev/phazur-promo/internal/audiosync"
	"github.com/ivlev/phazur-promo/internal/config"
	"github.com/ivlev/phazur-promo/internal/director"
	"github.com/ivlev/phazur-promo/internal/engine"
	"github.com/ivlev/phazur-promo/internal/raster"
	"github.com/ivlev/phazur-promo/internal/system"
	"github.com/ivlev/phazur-promo/internal/video"
)

// padColor letterboxes presets in the promo's navy
const padColor = "0x0B1026"

type renderFlags struct {
	output    string
	frames    string
	preset    string
	audio     string
	assets    []string
	analyzers []string
	workers   int
	batch     int
	from      int
	to        int
	quality   int
	noCues    bool
	stats     bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output video (default: output/phazur_<timestamp>.mp4)")
	fl.StringVar(&f.frames, "frames", "", "also write every frame as PNG into this directory")
	fl.StringVar(&f.preset, "preset", "", "output format: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram), 1:1")
	fl.StringVar(&f.audio, "audio", "", "music track (default: newest file in input/audio/)")
	fl.StringSliceVar(&f.assets, "assets", nil, "asset directories for logos and images")
	fl.StringSliceVar(&f.analyzers, "analyze", nil, "frame analyzers: cuts, safe-area")
	fl.IntVar(&f.workers, "workers", 0, "render workers (0: sized from CPU and free memory)")
	fl.IntVar(&f.batch, "batch", 0, "frames rendered per batch")
	fl.IntVar(&f.from, "from", 0, "first frame")
	fl.IntVar(&f.to, "to", 0, "end frame, exclusive (0: end of timeline)")
	fl.IntVar(&f.quality, "quality", 0, "video quality (0: auto; x264 CRF 1-51, VideoToolbox bitrate = Q*100 kbit/s)")
	fl.BoolVar(&f.noCues, "no-cues", false, "do not synthesize the cue track")
	fl.BoolVar(&f.stats, "stats", false, "print a performance report and append it to benchmark.log")
}

// apply copies the flags the user set over cfg
func (f *renderFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("output") {
		cfg.OutputVideo = f.output
	}
	if fl.Changed("frames") {
		cfg.FramesDir = f.frames
	}
	if fl.Changed("preset") {
		if err := cfg.ApplyPreset(f.preset); err != nil {
			return err
		}
	}
	if fl.Changed("audio") {
		cfg.AudioPath = f.audio
	}
	if fl.Changed("assets") {
		cfg.AssetDirs = f.assets
	}
	if fl.Changed("analyze") {
		cfg.Analyzers = f.analyzers
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("batch") {
		cfg.BatchSize = f.batch
	}
	if fl.Changed("from") {
		cfg.From = f.from
	}
	if fl.Changed("to") {
		cfg.To = f.to
	}
	if fl.Changed("quality") {
		cfg.Quality = f.quality
	}
	if fl.Changed("no-cues") {
		cfg.CueTrack = !f.noCues
	}
	if fl.Changed("stats") {
		cfg.ShowStats = f.stats
	}
	return nil
}

func (a *app) renderCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the composition to a video and/or PNG frames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.render(ctx, cmd.OutOrStdout(), cfg)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) render(ctx context.Context, out io.Writer, cfg *config.Config) error {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	for _, d := range []string{filepath.Join(inputDir, "audio"), filepath.Join(inputDir, "assets"), "output"} {
		os.MkdirAll(d, 0755)
	}

	if cfg.OutputVideo == "" && cfg.FramesDir == "" {
		cfg.OutputVideo = director.GenerateOutputPath("output", ".mp4")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	comp, compPath, err := a.loadComposition(out)
	if err != nil {
		return err
	}
	tl, err := a.compile(out, comp, cfg.CacheSize)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "--- [PROJECT: PHAZUR PROMO] ---")
	fmt.Fprintf(out, "[*] Сцен: %d | Кадров: %d (%s)\n", len(comp.Entries), tl.Duration(), director.Timecode(tl.Duration(), comp.FPS))
	fmt.Fprintf(out, "[*] Разрешение: %dx%d @ %d FPS\n", comp.Width, comp.Height, comp.FPS)
	fmt.Fprintln(out, "-----------------------------")

	canvas := raster.NewCanvas(comp.Width, comp.Height, asset.NewResolver(cfg.AssetDirs...), a.logger)

	var sinks []engine.Sink
	if cfg.FramesDir != "" {
		png, err := engine.NewPNGSink(cfg.FramesDir)
		if err != nil {
			return err
		}
		sinks = append(sinks, png)
	}

	var encoder *video.FFmpegEncoder
	if cfg.OutputVideo != "" {
		audio, err := a.audioInputs(out, cfg, tl)
		if err != nil {
			return err
		}

		encoderName, _ := system.GetBestH264Encoder()
		if encoderName != "libx264" {
			fmt.Fprintf(out, "[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
		}
		quality := cfg.Quality
		if quality == 0 {
			quality = config.DefaultQuality(encoderName)
		}

		os.MkdirAll(filepath.Dir(cfg.OutputVideo), 0755)
		encoder = video.NewFFmpegEncoder(video.Params{
			Width:        comp.Width,
			Height:       comp.Height,
			OutputWidth:  cfg.Width,
			OutputHeight: cfg.Height,
			FPS:          comp.FPS,
			Encoder:      encoderName,
			Quality:      quality,
			PadColor:     padColor,
			Audio:        audio,
			Output:       cfg.OutputVideo,
		})
		if err := encoder.Start(ctx); err != nil {
			return err
		}
		sinks = append(sinks, encoder)
	}
	sink := engine.MultiSink(sinks...)

	project := engine.NewProject(cfg, tl, canvas, sink, a.logger)
	for _, name := range cfg.Analyzers {
		an, err := analyzer.New(name)
		if err != nil {
			sink.Close()
			return err
		}
		if cut, ok := an.(*analyzer.CutDetector); ok {
			cut.Threshold = cfg.CutThreshold
		}
		project.Analyzers = append(project.Analyzers, an)
	}
	project.Progress = func(done, total int) {
		fmt.Fprintf(out, "[>] Ready: %d/%d\n", done, total)
	}

	stats, runErr := project.Run(ctx)
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return fmt.Errorf("ошибка проекта: %w", runErr)
	}

	for _, f := range stats.Findings {
		fmt.Fprintf(out, "[!] %s\n", f)
	}
	if cfg.ShowStats {
		fmt.Fprint(out, stats.Report(cfg.BuildVersion))
		if err := stats.AppendBenchmark("benchmark.log", cfg.BuildVersion, compPath); err != nil {
			fmt.Fprintf(out, "[!] Не удалось записать benchmark.log: %v\n", err)
		}
	}

	result := cfg.OutputVideo
	if result == "" {
		result = cfg.FramesDir
	}
	fmt.Fprintf(out, "[+++] Успех! Результат: %s\n", result)
	return nil
}

// audioInputs collects the music track and the synthesized cue track
func (a *app) audioInputs(out io.Writer, cfg *config.Config, tl *director.Timeline) ([]string, error) {
	var inputs []string

	audioPath := cfg.AudioPath
	if audioPath == "" {
		if latest, err := system.FindLatestAudio(filepath.Join(inputDir, "audio")); err == nil {
			audioPath = latest
			fmt.Fprintf(out, "[*] Выбрано аудио: %s\n", audioPath)
		}
	}
	if audioPath != "" {
		fps := tl.Composition().FPS
		if dur, err := system.GetAudioDuration(audioPath); err != nil {
			fmt.Fprintf(out, "[!] Не удалось получить длительность аудио: %v\n", err)
		} else if frames := int(dur * float64(fps)); frames < tl.Duration() {
			fmt.Fprintf(out, "[!] Аудио (%.2fs) короче видео (%s), видео будет обрезано\n", dur, director.Timecode(tl.Duration(), fps))
		}
		inputs = append(inputs, audioPath)
	}

	if cfg.CueTrack {
		cues := strings.TrimSuffix(cfg.OutputVideo, filepath.Ext(cfg.OutputVideo)) + "_cues.wav"
		comp := tl.Composition()
		if err := audiosync.WriteWAV(cues, audiosync.Moments(), comp.FPS, tl.Duration(), audiosync.DefaultSampleRate); err != nil {
			return nil, err
		}
		a.logger.Info("cue track written", zap.String("path", cues), zap.Int("moments", len(audiosync.Moments())))
		fmt.Fprintf(out, "[*] Звуковые метки: %s\n", cues)
		inputs = append(inputs, cues)
	}
	return inputs, nil
}
