package preview

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/phazur-promo/internal/director"
	"github.com/ivlev/phazur-promo/internal/raster"
)

// Model is a terminal scrubber over a compiled timeline. Each cell shows
// two vertically stacked pixels as an upper half block.
type Model struct {
	Timeline *director.Timeline
	Canvas   *raster.Canvas
	Logger   *zap.Logger

	Frame   int
	Playing bool
	Status  string

	thumb *image.RGBA
}

func NewModel(tl *director.Timeline, canvas *raster.Canvas, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{Timeline: tl, Canvas: canvas, Logger: logger}
}

// Seek moves to frame, clamped to the timeline
func (m *Model) Seek(frame int) {
	m.Frame = max(0, min(frame, m.Timeline.Duration()-1))
}

// Step advances by delta frames, wrapping while playing
func (m *Model) Step(delta int) {
	total := m.Timeline.Duration()
	if m.Playing {
		m.Frame = ((m.Frame+delta)%total + total) % total
		return
	}
	m.Seek(m.Frame + delta)
}

// JumpScene moves to the start of the next (delta > 0) or previous scene
func (m *Model) JumpScene(delta int) {
	layout := m.Timeline.Layout()
	if delta > 0 {
		for _, d := range layout {
			if d.StartFrame > m.Frame {
				m.Seek(d.StartFrame)
				return
			}
		}
		return
	}
	for i := len(layout) - 1; i >= 0; i-- {
		if layout[i].StartFrame < m.Frame {
			m.Seek(layout[i].StartFrame)
			return
		}
	}
}

// SetTimeline swaps in a reloaded timeline and keeps the playhead
func (m *Model) SetTimeline(tl *director.Timeline) {
	m.Timeline = tl
	m.Seek(m.Frame)
	m.Status = fmt.Sprintf("reloaded at %s", time.Now().Format("15:04:05"))
}

// HandleKey applies a key press and reports whether the viewer should exit
func (m *Model) HandleKey(ev *tcell.EventKey) bool {
	fps := m.Timeline.Composition().FPS
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRight:
		m.Step(1)
	case tcell.KeyLeft:
		m.Step(-1)
	case tcell.KeyPgDn:
		m.Step(fps)
	case tcell.KeyPgUp:
		m.Step(-fps)
	case tcell.KeyUp:
		m.JumpScene(-1)
	case tcell.KeyDown:
		m.JumpScene(1)
	case tcell.KeyHome:
		m.Seek(0)
	case tcell.KeyEnd:
		m.Seek(m.Timeline.Duration() - 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			m.Playing = !m.Playing
		case 'l':
			m.Step(1)
		case 'h':
			m.Step(-1)
		case ']':
			m.JumpScene(1)
		case '[':
			m.JumpScene(-1)
		}
	}
	return false
}

// StatusLine describes the playhead
func (m *Model) StatusLine() string {
	tl := m.Timeline
	fps := tl.Composition().FPS
	layout := tl.Layout()
	var names []string
	for _, i := range tl.Active(m.Frame) {
		names = append(names, layout[i].Name)
	}
	state := "||"
	if m.Playing {
		state = ">"
	}
	line := fmt.Sprintf("%s %d/%d %s | %s | glow %.2f",
		state, m.Frame, tl.Duration(), director.Timecode(m.Frame, fps), strings.Join(names, "+"), tl.GlowAt(m.Frame))
	if m.Status != "" {
		line += " | " + m.Status
	}
	return line
}

// fitSize is the largest w x h with the frame's aspect ratio inside cols x rows*2 pixels
func fitSize(frameW, frameH, cols, rows int) (int, int) {
	maxW, maxH := cols, rows*2
	w := maxW
	h := w * frameH / frameW
	if h > maxH {
		h = maxH
		w = h * frameW / frameH
	}
	return max(w, 1), max(h&^1, 2)
}

// Draw renders the current frame and the status line
func (m *Model) Draw(s tcell.Screen) error {
	cols, rows := s.Size()
	s.Clear()
	if cols <= 0 || rows < 2 {
		s.Show()
		return nil
	}

	img, err := m.Canvas.Draw(m.Timeline.FrameAt(m.Frame))
	if err != nil {
		return err
	}
	w, h := fitSize(m.Canvas.Width, m.Canvas.Height, cols, rows-1)
	if m.thumb == nil || m.thumb.Rect.Dx() != w || m.thumb.Rect.Dy() != h {
		m.thumb = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	xdraw.ApproxBiLinear.Scale(m.thumb, m.thumb.Rect, img, img.Bounds(), xdraw.Src, nil)
	m.Canvas.Release(img)

	offX := (cols - w) / 2
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := m.thumb.RGBAAt(x, y)
			bottom := m.thumb.RGBAAt(x, y+1)
			st := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			s.SetContent(offX+x, y/2, '▀', nil, st)
		}
	}

	status := []rune(m.StatusLine())
	st := tcell.StyleDefault.Reverse(true)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(status) {
			r = status[x]
		}
		s.SetContent(x, rows-1, r, nil, st)
	}
	s.Show()
	return nil
}

// Run drives the viewer until the user quits or ctx ends. Run owns s
// and finalizes it on return. Timelines sent on reload replace the
// current one.
func (m *Model) Run(ctx context.Context, s tcell.Screen, reload <-chan *director.Timeline) error {
	defer s.Fini()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go s.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(time.Second / time.Duration(m.Timeline.Composition().FPS))
	defer ticker.Stop()

	redraw := func() {
		if err := m.Draw(s); err != nil {
			m.Logger.Warn("preview draw failed", zap.Int("frame", m.Frame), zap.Error(err))
			m.Status = err.Error()
		}
	}
	redraw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if m.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				s.Sync()
			}
			redraw()
		case tl, ok := <-reload:
			if !ok {
				reload = nil
				continue
			}
			m.SetTimeline(tl)
			redraw()
		case <-ticker.C:
			if m.Playing {
				m.Step(1)
				redraw()
			}
		}
	}
}
