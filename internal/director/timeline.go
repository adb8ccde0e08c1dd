package director

import (
	"math"

	"github.com/ivlev/phazur-promo/internal/effects"
	"github.com/ivlev/phazur-promo/internal/renderer"
	"github.com/ivlev/phazur-promo/internal/scene"
)

// Layer is one scene visible in a frame
type Layer struct {
	Scene      string            `yaml:"scene"`
	LocalFrame int               `yaml:"local_frame"`
	Duration   int               `yaml:"duration"`
	Tree       *scene.Node       `yaml:"tree"`
	Transform  effects.Transform `yaml:"transform"`
}

// Frame is everything the rasterizer needs for one global frame.
// Layers are ordered bottom to top.
type Frame struct {
	Index     int         `yaml:"index"`
	Layers    []Layer     `yaml:"layers"`
	Glow      float64     `yaml:"glow"`
	GlowColor scene.Color `yaml:"glow_color"`
}

// Timeline is a validated composition ready to be sampled. It is safe for
// concurrent use.
type Timeline struct {
	comp        *Composition
	layout      []Descriptor
	end         int
	scenes      *scene.Renderer
	transitions []effects.Transition
}

// Compile validates c and prepares its transitions
func Compile(c *Composition, anim *renderer.Animator) (*Timeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if anim == nil {
		anim = renderer.NewAnimator(c.FPS, 0)
	}
	t := &Timeline{
		comp:        c,
		layout:      c.Layout(),
		end:         c.EffectiveDuration(),
		scenes:      scene.NewRenderer(c.Width, c.Height, anim),
		transitions: make([]effects.Transition, len(c.Entries)),
	}
	for i, e := range c.Entries {
		tr, err := effects.New(e.Transition, c.Width, c.Height, anim)
		if err != nil {
			return nil, err
		}
		t.transitions[i] = tr
	}
	return t, nil
}

// Composition returns the compiled composition
func (t *Timeline) Composition() *Composition { return t.comp }

// Layout returns the scene placements
func (t *Timeline) Layout() []Descriptor { return t.layout }

// Duration is the number of frames to render
func (t *Timeline) Duration() int { return t.end }

// Active returns the indexes of the scenes visible at frame, bottom to top
func (t *Timeline) Active(frame int) []int {
	if frame < 0 || frame >= t.end {
		return nil
	}
	var out []int
	last := len(t.layout) - 1
	for i, d := range t.layout {
		end := d.End()
		if i == last {
			end = t.end
		}
		if frame >= d.StartFrame && frame < end {
			out = append(out, i)
		}
	}
	return out
}

// FrameAt evaluates every visible scene at the global frame
func (t *Timeline) FrameAt(frame int) Frame {
	f := Frame{Index: frame, GlowColor: t.comp.Glow.Color}
	for _, i := range t.Active(frame) {
		d := t.layout[i]
		local := frame - d.StartFrame
		f.Layers = append(f.Layers, Layer{
			Scene:      d.Name,
			LocalFrame: local,
			Duration:   d.DurationInFrames,
			Tree:       t.scenes.Render(t.comp.Entries[i].Scene, local),
			Transform:  t.transitions[i].Apply(local, d.DurationInFrames),
		})
	}
	f.Glow = t.GlowAt(frame)
	return f
}

// Boundaries are the frames where a scene starts over the previous one
func (t *Timeline) Boundaries() []int {
	var out []int
	for _, d := range t.layout[1:] {
		out = append(out, d.StartFrame)
	}
	return out
}

// GlowAt is a half-sine pulse over each overlap window [b, b+overlap)
func (t *Timeline) GlowAt(frame int) float64 {
	o := t.comp.Overlap
	if o <= 0 || t.comp.Glow.Peak == 0 {
		return 0
	}
	for _, b := range t.Boundaries() {
		if frame >= b && frame < b+o {
			return t.comp.Glow.Peak * math.Sin(math.Pi*float64(frame-b)/float64(o))
		}
	}
	return 0
}
