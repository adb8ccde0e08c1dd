package director

import (
	"errors"
	"fmt"

	"github.com/ivlev/phazur-promo/internal/effects"
	"github.com/ivlev/phazur-promo/internal/scene"
)

var (
	// ErrInvalidComposition is returned for timings that cannot form a timeline
	ErrInvalidComposition = errors.New("invalid composition")
	// ErrUnpairedBoundary is returned when two overlapping scenes meet without a transition
	ErrUnpairedBoundary = errors.New("scene boundary has no transition")
)

// Descriptor is the placement of one scene on the global timeline
type Descriptor struct {
	Name             string `yaml:"name"`
	StartFrame       int    `yaml:"start_frame"`
	DurationInFrames int    `yaml:"duration_in_frames"`
}

// End is the first frame after the scene
func (d Descriptor) End() int {
	return d.StartFrame + d.DurationInFrames
}

// Entry is one scene of the composition with its transition wrapper
type Entry struct {
	Scene            scene.Spec     `yaml:"scene"`
	DurationInFrames int            `yaml:"duration_in_frames"`
	Transition       effects.Config `yaml:"transition"`
}

// Glow is the cosmetic pulse drawn over each scene boundary
type Glow struct {
	Peak  float64     `yaml:"peak"`
	Color scene.Color `yaml:"color"`
}

// Composition assembles scenes into one timeline. Consecutive scenes
// overlap by Overlap frames so their transitions can cross-fade.
type Composition struct {
	Version          string  `yaml:"version"`
	FPS              int     `yaml:"fps"`
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	DurationInFrames int     `yaml:"duration_in_frames"`
	Overlap          int     `yaml:"overlap"`
	Glow             Glow    `yaml:"glow"`
	Entries          []Entry `yaml:"entries"`
}

// Layout chains start frames: start_i = start_{i-1} + duration_{i-1} - overlap
func (c *Composition) Layout() []Descriptor {
	out := make([]Descriptor, len(c.Entries))
	start := 0
	for i, e := range c.Entries {
		if i > 0 {
			start += c.Entries[i-1].DurationInFrames - c.Overlap
		}
		out[i] = Descriptor{Name: e.Scene.ID, StartFrame: start, DurationInFrames: e.DurationInFrames}
	}
	return out
}

// TimelineEnd is the sum of scene durations minus (N-1) overlaps
func (c *Composition) TimelineEnd() int {
	if len(c.Entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range c.Entries {
		sum += e.DurationInFrames
	}
	return sum - (len(c.Entries)-1)*c.Overlap
}

// EffectiveDuration is the declared duration, extended to cover the
// chained timeline if that ends later. The last scene holds until then.
func (c *Composition) EffectiveDuration() int {
	return max(c.DurationInFrames, c.TimelineEnd())
}

// Validate fails fast on authoring mistakes
func (c *Composition) Validate() error {
	if len(c.Entries) == 0 {
		return fmt.Errorf("%w: no scenes", ErrInvalidComposition)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidComposition, c.FPS)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidComposition, c.Width, c.Height)
	}
	if c.DurationInFrames < 0 {
		return fmt.Errorf("%w: negative duration %d", ErrInvalidComposition, c.DurationInFrames)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: negative overlap %d", ErrInvalidComposition, c.Overlap)
	}
	if c.Glow.Peak < 0 || c.Glow.Peak > 1 {
		return fmt.Errorf("%w: glow peak must be in [0,1], got %v", ErrInvalidComposition, c.Glow.Peak)
	}

	seen := make(map[string]bool, len(c.Entries))
	for i, e := range c.Entries {
		if err := e.Scene.Validate(); err != nil {
			return fmt.Errorf("scene %d: %w", i, err)
		}
		if seen[e.Scene.ID] {
			return fmt.Errorf("%w: duplicate scene %q", ErrInvalidComposition, e.Scene.ID)
		}
		seen[e.Scene.ID] = true
		if e.DurationInFrames <= 0 {
			return fmt.Errorf("%w: scene %s: duration must be positive, got %d", ErrInvalidComposition, e.Scene.ID, e.DurationInFrames)
		}
		if c.Overlap >= e.DurationInFrames {
			return fmt.Errorf("%w: overlap %d is not shorter than scene %s (%d frames)", ErrInvalidComposition, c.Overlap, e.Scene.ID, e.DurationInFrames)
		}
		if err := e.Transition.Validate(); err != nil {
			return fmt.Errorf("scene %s transition: %w", e.Scene.ID, err)
		}
	}

	for i, d := range c.Layout() {
		if d.StartFrame < 0 {
			return fmt.Errorf("%w: scene %s starts at %d", ErrInvalidComposition, d.Name, d.StartFrame)
		}
		if i == 0 || c.Overlap == 0 {
			continue
		}
		prev, next := c.Entries[i-1], c.Entries[i]
		if !next.Transition.HasEntry() && !prev.Transition.HasExit() {
			return fmt.Errorf("%w: %s -> %s at frame %d", ErrUnpairedBoundary, prev.Scene.ID, next.Scene.ID, d.StartFrame)
		}
	}
	return nil
}

// Warnings lists legal but suspicious timing choices
func (c *Composition) Warnings() []string {
	var out []string
	layout := c.Layout()
	for i, e := range c.Entries {
		if i > 0 && e.Transition.HasEntry() {
			if ramp := e.Transition.RampFrames(e.DurationInFrames); ramp > float64(c.Overlap) {
				out = append(out, fmt.Sprintf("scene %s: entry ramp of %.1f frames outlasts the %d-frame overlap; the previous scene is gone before it finishes",
					e.Scene.ID, ramp, c.Overlap))
			}
		}
	}
	if end := c.TimelineEnd(); end != c.DurationInFrames && len(c.Entries) > 0 {
		last := c.Entries[len(c.Entries)-1]
		if end < c.DurationInFrames {
			out = append(out, fmt.Sprintf("timeline ends at frame %d, declared duration is %d; %s holds for the last %d frames",
				end, c.DurationInFrames, last.Scene.ID, c.DurationInFrames-end))
			if last.Transition.HasExit() {
				out = append(out, fmt.Sprintf("scene %s exits at frame %d and leaves the hold empty", last.Scene.ID, layout[len(layout)-1].End()))
			}
		} else {
			out = append(out, fmt.Sprintf("timeline ends at frame %d, after the declared duration %d", end, c.DurationInFrames))
		}
	}
	return out
}
