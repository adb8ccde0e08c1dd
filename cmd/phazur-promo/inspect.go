package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/phazur-promo/internal/asset"
	"github.com/ivlev/phazur-promo/internal/audiosync"
	"github.com/ivlev/phazur-promo/internal/director"
	"github.com/ivlev/phazur-promo/internal/raster"
)

func (a *app) frameCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "frame <index>",
		Short: "Render a single frame to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("frame index: %w", err)
			}
			out := cmd.OutOrStdout()
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			comp, _, err := a.loadComposition(out)
			if err != nil {
				return err
			}
			tl, err := a.compile(out, comp, cfg.CacheSize)
			if err != nil {
				return err
			}
			if index < 0 || index >= tl.Duration() {
				return fmt.Errorf("frame %d outside timeline [0, %d)", index, tl.Duration())
			}

			if output == "" {
				output = filepath.Join("output", fmt.Sprintf("frame_%05d.png", index))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return err
			}

			canvas := raster.NewCanvas(comp.Width, comp.Height, asset.NewResolver(cfg.AssetDirs...), a.logger)
			img, err := canvas.Draw(tl.FrameAt(index))
			if err != nil {
				return err
			}
			defer canvas.Release(img)

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(out, "[+++] Успех! Кадр %d: %s\n", index, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG path (default: output/frame_<index>.png)")
	return cmd
}

func (a *app) describeCmd() *cobra.Command {
	frame := -1
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the scene layout, or the description tree of one frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			comp, _, err := a.loadComposition(out)
			if err != nil {
				return err
			}
			tl, err := a.compile(out, comp, cfg.CacheSize)
			if err != nil {
				return err
			}

			if frame >= 0 {
				if frame >= tl.Duration() {
					return fmt.Errorf("frame %d outside timeline [0, %d)", frame, tl.Duration())
				}
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(tl.FrameAt(frame))
			}

			fmt.Fprintf(out, "[*] %d сцен | %dx%d @ %d FPS | overlap %d | длительность %d (%s), таймлайн до %d\n",
				len(comp.Entries), comp.Width, comp.Height, comp.FPS, comp.Overlap,
				tl.Duration(), director.Timecode(tl.Duration(), comp.FPS), comp.TimelineEnd())

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tscene\tstart\tend\tframes\ttransition")
			for i, d := range tl.Layout() {
				tr := comp.Entries[i].Transition.WithDefaults()
				kind := string(tr.Kind)
				if tr.Direction != "" {
					kind += " " + string(tr.Direction)
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s/%s\n", i+1, d.Name, d.StartFrame, d.End(), d.DurationInFrames, kind, tr.Mode)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&frame, "frame", -1, "dump the layers of this frame as YAML")
	return cmd
}

func (a *app) timelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "List scene boundaries and sound moments against the beat grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			comp, _, err := a.loadComposition(out)
			if err != nil {
				return err
			}
			tl, err := a.compile(out, comp, cfg.CacheSize)
			if err != nil {
				return err
			}
			fps := comp.FPS
			layout := tl.Layout()

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "frame\ttime\tscene\tevent\tsound\tpriority\tbeat")
			for _, b := range tl.Boundaries() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\t\t%s\n", b, director.Timecode(b, fps), activeNames(tl, layout, b), "boundary", beatMark(b))
			}
			for _, m := range audiosync.MomentsBetween(0, tl.Duration()) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", m.Frame, director.Timecode(m.Frame, fps), m.Scene, m.Event, m.SuggestedSound, m.Priority, beatMark(m.Frame))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "[*] Бит: %d BPM, %d кадров; сильных долей: %d\n",
				audiosync.BPM, audiosync.BeatFrames, len(audiosync.StrongBeats(tl.Duration())))
			return nil
		},
	}
	return cmd
}

func activeNames(tl *director.Timeline, layout []director.Descriptor, frame int) string {
	var names []string
	for _, i := range tl.Active(frame) {
		names = append(names, layout[i].Name)
	}
	return strings.Join(names, "+")
}

func beatMark(frame int) string {
	switch {
	case audiosync.IsStrongBeat(frame):
		return "strong"
	case audiosync.IsOnBeat(frame, 0):
		return "beat"
	default:
		return fmt.Sprintf("~%d", audiosync.NearestBeat(frame))
	}
}

func (a *app) cuesCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "cues",
		Short: "Synthesize the cue track (beat clicks and moment sounds) as WAV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			comp, _, err := a.loadComposition(out)
			if err != nil {
				return err
			}
			tl, err := a.compile(out, comp, cfg.CacheSize)
			if err != nil {
				return err
			}
			if output == "" {
				output = director.GenerateOutputPath("output", "_cues.wav")
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return err
			}
			ms := audiosync.MomentsBetween(0, tl.Duration())
			if err := audiosync.WriteWAV(output, ms, comp.FPS, tl.Duration(), audiosync.DefaultSampleRate); err != nil {
				return err
			}
			fmt.Fprintf(out, "[+++] Успех! %d меток: %s\n", len(ms), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "WAV path (default: output/phazur_<timestamp>_cues.wav)")
	return cmd
}
