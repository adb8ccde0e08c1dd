package effects

import (
	"math"

	"github.com/ivlev/phazur-promo/internal/renderer"
)

// ramp holds what every transition shares: the config and the session animator
type ramp struct {
	cfg  Config
	anim *renderer.Animator
}

// entry is 0 at the scene start and 1 once the entry ramp is over
func (r ramp) entry(frame, duration int) float64 {
	if !r.cfg.HasEntry() {
		return 1
	}
	n := r.cfg.RampFrames(duration)
	return r.anim.Interpolate(float64(frame), []float64{0, n}, []float64{0, 1})
}

// exit is 0 until the exit ramp starts and 1 at the scene end
func (r ramp) exit(frame, duration int) float64 {
	if !r.cfg.HasExit() {
		return 0
	}
	n := r.cfg.RampFrames(duration)
	d := float64(duration)
	return r.anim.Interpolate(float64(frame), []float64{d - n, d}, []float64{0, 1})
}

// Fade ramps opacity
type Fade struct{ ramp }

func (f *Fade) Apply(frame, duration int) Transform {
	t := Identity()
	t.Opacity = f.entry(frame, duration) * (1 - f.exit(frame, duration))
	return t
}

// Slide moves the scene in from, and out to, an off-screen offset
type Slide struct {
	ramp
	width, height float64
}

// slideSpring settles without overshoot so the edge never passes the frame
var slideSpring = renderer.SpringConfig{Mass: 1, Damping: 20, Stiffness: 100, OvershootClamping: true}

func (s *Slide) Apply(frame, duration int) Transform {
	t := Identity()

	dx, dy := 0.0, 0.0
	switch s.cfg.Direction {
	case Left:
		dx = -s.width
	case Right:
		dx = s.width
	case Up:
		dy = -s.height
	case Down:
		dy = s.height
	}

	in := 1.0
	if s.cfg.HasEntry() {
		in = s.anim.SpringValue(float64(frame), renderer.SpringOptions{
			Config:           slideSpring,
			From:             0,
			To:               1,
			DurationInFrames: s.cfg.RampFrames(duration),
		})
	}
	out := renderer.EaseInQuad(s.exit(frame, duration))

	// enter moving along the direction, keep moving the same way to leave
	t.TranslateX = -dx*(1-in) + dx*out
	t.TranslateY = -dy*(1-in) + dy*out
	return t
}

// Zoom scales from StartScale on entry and to EndScale on exit, with a fade
type Zoom struct{ ramp }

func (z *Zoom) Apply(frame, duration int) Transform {
	in := z.entry(frame, duration)
	out := z.exit(frame, duration)

	t := Identity()
	t.Scale = (z.cfg.StartScale + (1-z.cfg.StartScale)*renderer.EaseOutCubic(in)) *
		(1 + (z.cfg.EndScale-1)*renderer.EaseInQuad(out))
	t.Opacity = in * (1 - out)
	return t
}

// Wipe reveals the scene behind a moving straight edge
type Wipe struct{ ramp }

func (w *Wipe) Apply(frame, duration int) Transform {
	t := Identity()
	in := w.entry(frame, duration)
	out := w.exit(frame, duration)
	if in >= 1 && out <= 0 {
		return t
	}

	c := Clip{Kind: ClipInset}
	hidden := 1 - in
	switch w.cfg.Direction {
	case Right:
		c.Right, c.Left = hidden, out
	case Left:
		c.Left, c.Right = hidden, out
	case Down:
		c.Bottom, c.Top = hidden, out
	case Up:
		c.Top, c.Bottom = hidden, out
	case Center:
		edge := (hidden + out) / 2
		c.Top, c.Right, c.Bottom, c.Left = edge, edge, edge, edge
	}
	t.Clip = c

	// the highlight rides on whichever edge is moving
	p, pos := in, 0.0
	if in >= 1 {
		p = out
	}
	switch w.cfg.Direction {
	case Right:
		pos = 1 - c.Right
		if in >= 1 {
			pos = c.Left
		}
	case Left:
		pos = c.Left
		if in >= 1 {
			pos = 1 - c.Right
		}
	case Down:
		pos = 1 - c.Bottom
		if in >= 1 {
			pos = c.Top
		}
	case Up:
		pos = c.Top
		if in >= 1 {
			pos = 1 - c.Bottom
		}
	case Center:
		return t
	}
	t.Highlight = &Highlight{
		Position: pos,
		Vertical: w.cfg.Direction == Left || w.cfg.Direction == Right,
		Opacity:  math.Sin(math.Pi * p),
	}
	return t
}

// Morph grows the scene out of a circle in the middle of the frame
type Morph struct{ ramp }

func (m *Morph) Apply(frame, duration int) Transform {
	in := m.entry(frame, duration)
	out := m.exit(frame, duration)

	t := Identity()
	if in >= 1 && out <= 0 {
		return t
	}
	t.Clip = Clip{
		Kind:   ClipCircle,
		CX:     0.5,
		CY:     0.5,
		Radius: renderer.EaseInOutCubic(in) * (1 - renderer.EaseInOutCubic(out)),
	}
	return t
}
