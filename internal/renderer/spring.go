package renderer

import (
	"fmt"
	"math"
)

// SpringConfig holds the physical parameters of a damped harmonic oscillator
type SpringConfig struct {
	Mass              float64 `yaml:"mass"`
	Damping           float64 `yaml:"damping"`
	Stiffness         float64 `yaml:"stiffness"`
	OvershootClamping bool    `yaml:"overshoot_clamping,omitempty"`
}

// DefaultSpring is a slightly bouncy spring
func DefaultSpring() SpringConfig {
	return SpringConfig{Mass: 1, Damping: 10, Stiffness: 100}
}

// Validate reports physically meaningless parameters
func (c SpringConfig) Validate() error {
	if c.Mass <= 0 || math.IsNaN(c.Mass) {
		return fmt.Errorf("spring mass must be positive, got %v", c.Mass)
	}
	if c.Stiffness <= 0 || math.IsNaN(c.Stiffness) {
		return fmt.Errorf("spring stiffness must be positive, got %v", c.Stiffness)
	}
	if c.Damping < 0 || math.IsNaN(c.Damping) {
		return fmt.Errorf("spring damping must not be negative, got %v", c.Damping)
	}
	return nil
}

// DampingRatio is c / (2*sqrt(k*m)); 1 means critically damped
func (c SpringConfig) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

const criticalEpsilon = 1e-9

// Spring returns the progress of a spring released at frame 0 from rest at 0
// towards 1. Frames at or before 0 return exactly 0. The value is a closed
// form of (frame/fps, mass, damping, stiffness) so it never accumulates error.
func Spring(frame float64, fps int, cfg SpringConfig) float64 {
	if frame <= 0 || fps <= 0 {
		return 0
	}
	t := frame / float64(fps)

	w0 := math.Sqrt(cfg.Stiffness / cfg.Mass)
	zeta := cfg.DampingRatio()

	// displacement from the target, starting at 1 with zero velocity
	var d float64
	switch {
	case math.Abs(zeta-1) < criticalEpsilon:
		d = math.Exp(-w0*t) * (1 + w0*t)
	case zeta < 1:
		wd := w0 * math.Sqrt(1-zeta*zeta)
		d = math.Exp(-zeta*w0*t) * (math.Cos(wd*t) + (zeta*w0/wd)*math.Sin(wd*t))
	default:
		s := math.Sqrt(zeta*zeta - 1)
		r1 := -w0 * (zeta - s)
		r2 := -w0 * (zeta + s)
		c2 := -r1 / (r2 - r1)
		c1 := 1 - c2
		d = c1*math.Exp(r1*t) + c2*math.Exp(r2*t)
	}

	p := 1 - d
	if cfg.OvershootClamping && p > 1 {
		p = 1
	}
	return p
}

// SpringOptions maps spring progress onto a value range
type SpringOptions struct {
	Config SpringConfig `yaml:"config"`
	From   float64      `yaml:"from"`
	To     float64      `yaml:"to"`
	Delay  float64      `yaml:"delay,omitempty"`
	// DurationInFrames stretches time so the spring settles at this frame
	DurationInFrames float64 `yaml:"duration_in_frames,omitempty"`
}

// SpringTo is the common 0->1 spring with a delay
func SpringTo(delay float64, cfg SpringConfig) SpringOptions {
	return SpringOptions{Config: cfg, From: 0, To: 1, Delay: delay}
}

// settleThreshold decides when a spring counts as at rest
const settleThreshold = 0.005

// Animate evaluates opts at frame
func Animate(frame float64, fps int, opts SpringOptions) float64 {
	local := frame - opts.Delay
	if opts.DurationInFrames > 0 {
		natural := float64(SpringSettleFrames(fps, opts.Config, settleThreshold))
		if natural > 0 {
			local *= natural / opts.DurationInFrames
		}
	}
	p := Spring(local, fps, opts.Config)
	return opts.From + (opts.To-opts.From)*p
}

// maxSettleFrames caps the search for springs that barely decay
const maxSettleFrames = 30 * 60

// SpringSettleFrames is the first frame after which the spring stays within
// threshold of its target
func SpringSettleFrames(fps int, cfg SpringConfig, threshold float64) int {
	settled := 0
	for f := maxSettleFrames; f >= 0; f-- {
		if math.Abs(1-Spring(float64(f), fps, cfg)) > threshold {
			settled = f + 1
			break
		}
	}
	return settled
}
