package scene

import (
	"errors"
	"fmt"

	"github.com/ivlev/phazur-promo/internal/renderer"
)

// ErrInvalidSpec is returned when a scene description cannot be rendered
var ErrInvalidSpec = errors.New("invalid scene spec")

// MotionKind selects how an element animates in
type MotionKind string

const (
	MotionNone  MotionKind = "none"
	MotionFade  MotionKind = "fade"
	MotionRise  MotionKind = "rise"
	MotionPop   MotionKind = "pop"
	MotionSlide MotionKind = "slide"
	MotionType  MotionKind = "type"
)

// Motion anchors an entry animation to local frames.
// The n-th item of a list starts at Delay + n*Stagger.
type Motion struct {
	Kind     MotionKind             `yaml:"kind"`
	Delay    float64                `yaml:"delay,omitempty"`
	Stagger  float64                `yaml:"stagger,omitempty"`
	Duration float64                `yaml:"duration,omitempty"`
	Distance float64                `yaml:"distance,omitempty"`
	Spring   *renderer.SpringConfig `yaml:"spring,omitempty"`
}

// LayoutKind arranges the items of a scene
type LayoutKind string

const (
	LayoutStack    LayoutKind = "stack"
	LayoutRow      LayoutKind = "row"
	LayoutGrid     LayoutKind = "grid"
	LayoutChat     LayoutKind = "chat"
	LayoutTimeline LayoutKind = "timeline"
	LayoutTable    LayoutKind = "table"
)

// Layout places items inside Area
type Layout struct {
	Kind    LayoutKind `yaml:"kind"`
	Area    Box        `yaml:"area"`
	Columns int        `yaml:"columns,omitempty"`
	Gap     float64    `yaml:"gap,omitempty"`
	Headers []string   `yaml:"headers,omitempty"`
}

// Background is a vertical gradient
type Background struct {
	From Color `yaml:"from"`
	To   Color `yaml:"to"`
}

// Header is the title block most scenes open with
type Header struct {
	Title         string  `yaml:"title"`
	Subtitle      string  `yaml:"subtitle,omitempty"`
	Y             float64 `yaml:"y"`
	Motion        Motion  `yaml:"motion"`
	SubtitleDelay float64 `yaml:"subtitle_delay,omitempty"`
}

// Item is one card, bubble, milestone or table row
type Item struct {
	Title  string   `yaml:"title"`
	Body   string   `yaml:"body,omitempty"`
	Icon   string   `yaml:"icon,omitempty"`
	Accent Color    `yaml:"accent,omitempty"`
	Side   Align    `yaml:"side,omitempty"`
	Value  float64  `yaml:"value,omitempty"`
	Cells  []string `yaml:"cells,omitempty"`
}

// Element is an absolutely positioned node with its own motion
type Element struct {
	ID     string `yaml:"id"`
	Kind   Kind   `yaml:"kind"`
	Box    Box    `yaml:"box"`
	Text   string `yaml:"text,omitempty"`
	Asset  string `yaml:"asset,omitempty"`
	Style  Style  `yaml:"style"`
	Motion Motion `yaml:"motion"`
}

// ParticleSpec scatters seeded decorative dots behind the content
type ParticleSpec struct {
	Seed   string  `yaml:"seed"`
	Count  int     `yaml:"count"`
	Colors []Color `yaml:"colors"`
}

// Spec is the data-driven description of one scene
type Spec struct {
	ID         string        `yaml:"id"`
	Background Background    `yaml:"background"`
	Header     *Header       `yaml:"header,omitempty"`
	Layout     Layout        `yaml:"layout,omitempty"`
	Items      []Item        `yaml:"items,omitempty"`
	ItemMotion Motion        `yaml:"item_motion,omitempty"`
	Elements   []Element     `yaml:"elements,omitempty"`
	Particles  *ParticleSpec `yaml:"particles,omitempty"`
}

// Validate reports authoring mistakes before any frame is rendered
func (s Spec) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSpec)
	}
	if len(s.Items) > 0 {
		switch s.Layout.Kind {
		case LayoutStack, LayoutRow, LayoutGrid, LayoutChat, LayoutTimeline, LayoutTable:
		default:
			return fmt.Errorf("%w: scene %s: unknown layout %q", ErrInvalidSpec, s.ID, s.Layout.Kind)
		}
		if s.Layout.Area.W <= 0 || s.Layout.Area.H <= 0 {
			return fmt.Errorf("%w: scene %s: layout area must have a size", ErrInvalidSpec, s.ID)
		}
		if s.Layout.Kind == LayoutTable {
			for i, it := range s.Items {
				if len(it.Cells) != len(s.Layout.Headers) {
					return fmt.Errorf("%w: scene %s: row %d has %d cells, table has %d columns",
						ErrInvalidSpec, s.ID, i, len(it.Cells), len(s.Layout.Headers))
				}
			}
		}
		if err := s.ItemMotion.validate(); err != nil {
			return fmt.Errorf("%w: scene %s items: %v", ErrInvalidSpec, s.ID, err)
		}
	}
	if s.Header != nil {
		if err := s.Header.Motion.validate(); err != nil {
			return fmt.Errorf("%w: scene %s header: %v", ErrInvalidSpec, s.ID, err)
		}
	}
	for _, e := range s.Elements {
		switch e.Kind {
		case KindRect, KindCircle, KindText, KindImage, KindQR, KindLine:
		default:
			return fmt.Errorf("%w: scene %s element %s: unknown kind %q", ErrInvalidSpec, s.ID, e.ID, e.Kind)
		}
		if err := e.Motion.validate(); err != nil {
			return fmt.Errorf("%w: scene %s element %s: %v", ErrInvalidSpec, s.ID, e.ID, err)
		}
	}
	if s.Particles != nil && s.Particles.Count > 0 && len(s.Particles.Colors) == 0 {
		return fmt.Errorf("%w: scene %s: particles need at least one color", ErrInvalidSpec, s.ID)
	}
	return nil
}

func (m Motion) validate() error {
	switch m.Kind {
	case "", MotionNone, MotionFade, MotionRise, MotionPop, MotionSlide, MotionType:
	default:
		return fmt.Errorf("unknown motion %q", m.Kind)
	}
	if m.Delay < 0 || m.Stagger < 0 || m.Duration < 0 {
		return fmt.Errorf("motion timings must not be negative")
	}
	if m.Spring != nil {
		return m.Spring.Validate()
	}
	return nil
}
