package effects

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/phazur-promo/internal/renderer"
)

// ErrUnknownTransition is returned for kinds, modes or directions that do not exist
var ErrUnknownTransition = errors.New("unknown transition")

// Kind selects the visual effect of a transition
type Kind string

const (
	KindNone  Kind = "none"
	KindFade  Kind = "fade"
	KindSlide Kind = "slide"
	KindZoom  Kind = "zoom"
	KindWipe  Kind = "wipe"
	KindMorph Kind = "morph"
)

// Mode picks which boundary of the scene gets a ramp
type Mode string

const (
	ModeIn   Mode = "in"
	ModeOut  Mode = "out"
	ModeBoth Mode = "both"
)

// Direction of slides and wipes
type Direction string

const (
	Left   Direction = "left"
	Right  Direction = "right"
	Up     Direction = "up"
	Down   Direction = "down"
	Center Direction = "center"
)

// DefaultFraction is the share of the scene duration spent in each ramp
const DefaultFraction = 0.15

// Config is the static, per-scene choice of transition
type Config struct {
	Kind       Kind      `yaml:"kind"`
	Mode       Mode      `yaml:"mode,omitempty"`
	Direction  Direction `yaml:"direction,omitempty"`
	Fraction   float64   `yaml:"fraction,omitempty"`
	StartScale float64   `yaml:"start_scale,omitempty"`
	EndScale   float64   `yaml:"end_scale,omitempty"`
}

// WithDefaults fills unset fields
func (c Config) WithDefaults() Config {
	if c.Kind == "" {
		c.Kind = KindNone
	}
	if c.Mode == "" {
		c.Mode = ModeIn
	}
	if c.Fraction == 0 {
		c.Fraction = DefaultFraction
	}
	if c.Direction == "" {
		switch c.Kind {
		case KindSlide:
			c.Direction = Left
		case KindWipe:
			c.Direction = Right
		}
	}
	if c.StartScale == 0 {
		c.StartScale = 0.85
	}
	if c.EndScale == 0 {
		c.EndScale = 1.15
	}
	return c
}

// Validate checks kind, mode, direction and fraction
func (c Config) Validate() error {
	c = c.WithDefaults()
	switch c.Kind {
	case KindNone, KindFade, KindSlide, KindZoom, KindWipe, KindMorph:
	default:
		return fmt.Errorf("%w kind %q", ErrUnknownTransition, c.Kind)
	}
	switch c.Mode {
	case ModeIn, ModeOut, ModeBoth:
	default:
		return fmt.Errorf("%w mode %q", ErrUnknownTransition, c.Mode)
	}
	switch c.Kind {
	case KindSlide:
		if c.Direction != Left && c.Direction != Right && c.Direction != Up && c.Direction != Down {
			return fmt.Errorf("%w: slide direction %q", ErrUnknownTransition, c.Direction)
		}
	case KindWipe:
		if c.Direction != Left && c.Direction != Right && c.Direction != Up && c.Direction != Down && c.Direction != Center {
			return fmt.Errorf("%w: wipe direction %q", ErrUnknownTransition, c.Direction)
		}
	}
	if c.Fraction <= 0 || c.Fraction > 0.5 || math.IsNaN(c.Fraction) {
		return fmt.Errorf("transition fraction must be in (0, 0.5], got %v", c.Fraction)
	}
	if c.StartScale <= 0 || c.EndScale <= 0 {
		return fmt.Errorf("zoom scales must be positive")
	}
	return nil
}

// HasEntry reports whether the transition ramps in at the scene start
func (c Config) HasEntry() bool {
	c = c.WithDefaults()
	return c.Kind != KindNone && (c.Mode == ModeIn || c.Mode == ModeBoth)
}

// HasExit reports whether the transition ramps out at the scene end
func (c Config) HasExit() bool {
	c = c.WithDefaults()
	return c.Kind != KindNone && (c.Mode == ModeOut || c.Mode == ModeBoth)
}

// RampFrames is the length of each ramp for a scene of the given duration
func (c Config) RampFrames(duration int) float64 {
	return c.WithDefaults().Fraction * float64(duration)
}

// Transition computes the wrapper transform for a local frame of a scene
type Transition interface {
	Apply(frame, duration int) Transform
}

// New builds the Transition described by cfg for a width x height frame
func New(cfg Config, width, height int, anim *renderer.Animator) (Transition, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()
	if anim == nil {
		anim = renderer.NewAnimator(30, 0)
	}
	base := ramp{cfg: cfg, anim: anim}

	switch cfg.Kind {
	case KindFade:
		return &Fade{ramp: base}, nil
	case KindSlide:
		return &Slide{ramp: base, width: float64(width), height: float64(height)}, nil
	case KindZoom:
		return &Zoom{ramp: base}, nil
	case KindWipe:
		return &Wipe{ramp: base}, nil
	case KindMorph:
		return &Morph{ramp: base}, nil
	}
	return None{}, nil
}

// None leaves the scene untouched
type None struct{}

func (None) Apply(frame, duration int) Transform { return Identity() }
