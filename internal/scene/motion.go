package scene

import "github.com/ivlev/phazur-promo/internal/renderer"

const (
	defaultMotionDuration = 20
	defaultMotionDistance = 40
)

// Pose is the evaluated state of a Motion at one frame
type Pose struct {
	Opacity float64
	DX, DY  float64
	Scale   float64
	Reveal  float64
}

// RestPose is the fully entered state
func RestPose() Pose {
	return Pose{Opacity: 1, Scale: 1, Reveal: 1}
}

// Evaluate computes the pose of the index-th element using m at frame
func (m Motion) Evaluate(anim *renderer.Animator, index int, frame float64) Pose {
	start := m.Delay + float64(index)*m.Stagger
	dur := m.Duration
	if dur <= 0 {
		dur = defaultMotionDuration
	}
	dist := m.Distance
	if dist == 0 {
		dist = defaultMotionDistance
	}
	cfg := renderer.DefaultSpring()
	if m.Spring != nil {
		cfg = *m.Spring
	}
	window := []float64{start, start + dur}

	p := RestPose()
	switch m.Kind {
	case MotionFade:
		p.Opacity = anim.Interpolate(frame, window, []float64{0, 1})
	case MotionRise:
		p.Opacity = anim.Interpolate(frame, window, []float64{0, 1})
		eased := anim.Interpolate(frame, window, []float64{0, 1}, renderer.WithEasing(renderer.EaseOutCubic))
		p.DY = dist * (1 - eased)
	case MotionPop:
		p.Opacity = anim.Interpolate(frame, []float64{start, start + dur/2}, []float64{0, 1})
		p.Scale = anim.SpringValue(frame, renderer.SpringTo(start, cfg))
	case MotionSlide:
		p.Opacity = anim.Interpolate(frame, window, []float64{0, 1})
		p.DX = -dist * (1 - anim.SpringValue(frame, renderer.SpringTo(start, cfg)))
	case MotionType:
		if frame < start {
			p.Opacity = 0
		}
		p.Reveal = anim.Interpolate(frame, window, []float64{0, 1})
	}
	return p
}

// apply folds a pose into a style
func (p Pose) apply(s Style) Style {
	s.Opacity *= p.Opacity
	s.TranslateX += p.DX
	s.TranslateY += p.DY
	s.Scale *= p.Scale
	return s
}
