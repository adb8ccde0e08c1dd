package engine

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/phazur-promo/internal/analyzer"
	"github.com/ivlev/phazur-promo/internal/config"
	"github.com/ivlev/phazur-promo/internal/director"
	"github.com/ivlev/phazur-promo/internal/raster"
	"github.com/ivlev/phazur-promo/internal/system"
)

// buffers held per worker: the frame being drawn plus scene layers
const buffersPerWorker = 3

// Project renders a compiled timeline into a sink
type Project struct {
	Config    *config.Config
	Timeline  *director.Timeline
	Canvas    *raster.Canvas
	Sink      Sink
	Analyzers []analyzer.Analyzer
	Logger    *zap.Logger
	Session   string

	// Progress is called after each batch has been written
	Progress func(done, total int)
}

func NewProject(cfg *config.Config, tl *director.Timeline, canvas *raster.Canvas, sink Sink, logger *zap.Logger) *Project {
	if logger == nil {
		logger = zap.NewNop()
	}
	session := uuid.NewString()
	return &Project{
		Config:   cfg,
		Timeline: tl,
		Canvas:   canvas,
		Sink:     sink,
		Logger:   logger.With(zap.String("session", session)),
		Session:  session,
	}
}

// Stats summarizes one Run
type Stats struct {
	Session   string
	From, To  int
	Frames    int
	Workers   int
	Total     time.Duration
	Render    time.Duration
	Write     time.Duration
	Findings  []analyzer.Finding
	Resources system.Resources
}

// FPS is the effective output rate of the run
func (s *Stats) FPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Total.Seconds()
}

// Report is the human readable summary printed with --stats
func (s *Stats) Report(build string) string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Session: %s\n"+
			"Frames: %d [%d, %d) | Workers: %d\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"Writing: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Findings: %d\n"+
			"%s\n"+
			"----------------------------\n",
		build, s.Session, s.Frames, s.From, s.To, s.Workers,
		s.Total.Seconds(), s.Render.Seconds(), s.Write.Seconds(), s.FPS(),
		len(s.Findings), s.Resources,
	)
}

// AppendBenchmark adds a one-line record of the run to path
func (s *Stats) AppendBenchmark(path, build, input string) error {
	entry := fmt.Sprintf("[%s] Build: %s | Input: %s | Frames: %d | Workers: %d | Total: %.2fs | Render: %.2fs | Write: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		build,
		filepath.Base(input),
		s.Frames,
		s.Workers,
		s.Total.Seconds(),
		s.Render.Seconds(),
		s.Write.Seconds(),
		s.FPS(),
	)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}

// Range resolves the configured frame range against the timeline
func (p *Project) Range() (int, int, error) {
	total := p.Timeline.Duration()
	from, to := p.Config.From, p.Config.To
	if to == 0 {
		to = total
	}
	if from < 0 || to > total || from >= to {
		return 0, 0, fmt.Errorf("frame range [%d, %d) outside timeline [0, %d)", from, to, total)
	}
	return from, to, nil
}

func (p *Project) workers(res system.Resources) int {
	if p.Config.Workers > 0 {
		return p.Config.Workers
	}
	return res.RecommendedWorkers(p.Canvas.Width, p.Canvas.Height, buffersPerWorker)
}

// batches splits [from, to) into consecutive chunks of at most size frames
func batches(from, to, size int) [][2]int {
	if size <= 0 {
		size = 1
	}
	var out [][2]int
	for start := from; start < to; start += size {
		out = append(out, [2]int{start, min(start+size, to)})
	}
	return out
}

// Run renders every frame of the range. Frames of a batch are drawn in
// parallel and handed to the sink and analyzers strictly in order.
func (p *Project) Run(ctx context.Context) (*Stats, error) {
	from, to, err := p.Range()
	if err != nil {
		return nil, err
	}
	res := system.Snapshot()
	stats := &Stats{Session: p.Session, From: from, To: to, Workers: p.workers(res), Resources: res}
	start := time.Now()

	p.Logger.Info("render started",
		zap.Int("from", from),
		zap.Int("to", to),
		zap.Int("workers", stats.Workers),
		zap.Int("batch", p.Config.BatchSize),
		zap.String("resources", res.String()),
	)

	for _, b := range batches(from, to, p.Config.BatchSize) {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		renderStart := time.Now()
		frames, err := p.renderBatch(ctx, b[0], b[1], stats.Workers)
		stats.Render += time.Since(renderStart)
		if err != nil {
			return stats, err
		}

		writeStart := time.Now()
		err = p.writeBatch(b[0], frames, stats)
		stats.Write += time.Since(writeStart)
		if err != nil {
			return stats, err
		}

		p.Logger.Debug("batch written", zap.Int("from", b[0]), zap.Int("to", b[1]))
		if p.Progress != nil {
			p.Progress(stats.Frames, to-from)
		}
	}

	stats.Total = time.Since(start)
	p.Logger.Info("render finished",
		zap.Int("frames", stats.Frames),
		zap.Duration("elapsed", stats.Total),
		zap.Float64("fps", stats.FPS()),
		zap.Int("findings", len(stats.Findings)),
	)
	return stats, nil
}

func (p *Project) renderBatch(ctx context.Context, from, to, workers int) ([]*image.RGBA, error) {
	frames := make([]*image.RGBA, to-from)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range frames {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			img, err := p.Canvas.Draw(p.Timeline.FrameAt(from + i))
			if err != nil {
				return fmt.Errorf("frame %d: %w", from+i, err)
			}
			frames[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.release(frames)
		return nil, err
	}
	return frames, nil
}

func (p *Project) writeBatch(from int, frames []*image.RGBA, stats *Stats) error {
	defer p.release(frames)
	for i, img := range frames {
		index := from + i
		for _, a := range p.Analyzers {
			for _, f := range a.Analyze(index, img) {
				p.Logger.Warn("frame finding", zap.Stringer("finding", f))
				stats.Findings = append(stats.Findings, f)
			}
		}
		if err := p.Sink.WriteFrame(index, img); err != nil {
			return fmt.Errorf("write frame %d: %w", index, err)
		}
		stats.Frames++
	}
	return nil
}

func (p *Project) release(frames []*image.RGBA) {
	for _, img := range frames {
		if img != nil {
			p.Canvas.Release(img)
		}
	}
}
