package preview

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ivlev/phazur-promo/internal/director"
)

// DefaultDebounce absorbs the burst of events an editor save produces
const DefaultDebounce = 250 * time.Millisecond

// Watch reloads path after it changes and delivers each timeline that
// compiles. Failed reloads are logged and skipped. The channel is
// closed once ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, load func(string) (*director.Timeline, error), logger *zap.Logger) (<-chan *director.Timeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// editors often replace the file, so watch its directory
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return nil, err
	}

	out := make(chan *director.Timeline)
	go func() {
		defer close(out)
		defer w.Close()

		timer := time.NewTimer(debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				timer.Reset(debounce)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", zap.Error(err))
			case <-timer.C:
				tl, err := load(target)
				if err != nil {
					logger.Warn("reload failed", zap.String("path", target), zap.Error(err))
					continue
				}
				logger.Info("composition reloaded", zap.String("path", target))
				select {
				case out <- tl:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
