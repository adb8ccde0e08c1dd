package renderer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange is returned when an interpolation range is malformed
var ErrInvalidRange = errors.New("invalid interpolation range")

// Extrapolation decides what happens outside the input range
type Extrapolation int

const (
	// Clamp holds the first/last output value
	Clamp Extrapolation = iota
	// Extend continues the nearest segment linearly
	Extend
)

func (e Extrapolation) String() string {
	if e == Extend {
		return "extend"
	}
	return "clamp"
}

// ParseExtrapolation converts a config name into an Extrapolation
func ParseExtrapolation(s string) (Extrapolation, error) {
	switch s {
	case "clamp", "":
		return Clamp, nil
	case "extend":
		return Extend, nil
	}
	return Clamp, fmt.Errorf("unknown extrapolation %q", s)
}

// MarshalText implements encoding.TextMarshaler (used by YAML)
func (e Extrapolation) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (e *Extrapolation) UnmarshalText(b []byte) error {
	v, err := ParseExtrapolation(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

type interpOptions struct {
	left, right Extrapolation
	easing      Easing
}

// Option tunes Interpolate
type Option func(*interpOptions)

// WithExtrapolate sets both sides
func WithExtrapolate(e Extrapolation) Option {
	return func(o *interpOptions) { o.left, o.right = e, e }
}

// WithExtrapolateLeft sets the policy below the first breakpoint
func WithExtrapolateLeft(e Extrapolation) Option {
	return func(o *interpOptions) { o.left = e }
}

// WithExtrapolateRight sets the policy above the last breakpoint
func WithExtrapolateRight(e Extrapolation) Option {
	return func(o *interpOptions) { o.right = e }
}

// WithEasing applies an easing curve to the progress inside each segment
func WithEasing(fn Easing) Option {
	return func(o *interpOptions) { o.easing = fn }
}

// Range is a validated interpolation spec
type Range struct {
	Input  []float64
	Output []float64
	Left   Extrapolation
	Right  Extrapolation
	Easing Easing
}

// NewRange validates input/output and returns a reusable Range
func NewRange(input, output []float64, left, right Extrapolation) (Range, error) {
	if err := validateRange(input, output); err != nil {
		return Range{}, err
	}
	return Range{Input: input, Output: output, Left: left, Right: right}, nil
}

// At evaluates the range at frame
func (r Range) At(frame float64) float64 {
	return interpolate(frame, r.Input, r.Output, r.Left, r.Right, r.Easing)
}

func validateRange(input, output []float64) error {
	if len(input) != len(output) {
		return fmt.Errorf("%w: input has %d points, output has %d", ErrInvalidRange, len(input), len(output))
	}
	if len(input) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidRange, len(input))
	}
	for i := range input {
		if math.IsNaN(input[i]) || math.IsInf(input[i], 0) || math.IsNaN(output[i]) || math.IsInf(output[i], 0) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrInvalidRange, i)
		}
		if i > 0 && input[i] <= input[i-1] {
			return fmt.Errorf("%w: input must be strictly increasing (%v at %d after %v)", ErrInvalidRange, input[i], i, input[i-1])
		}
	}
	return nil
}

// Interpolate maps frame through the piecewise linear function defined by
// input and output. Both sides clamp unless overridden by options.
//
// Malformed ranges are a static authoring error and panic; use NewRange to
// validate ranges that come from configuration.
func Interpolate(frame float64, input, output []float64, opts ...Option) float64 {
	if err := validateRange(input, output); err != nil {
		panic(err)
	}
	o := interpOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return interpolate(frame, input, output, o.left, o.right, o.easing)
}

func interpolate(frame float64, input, output []float64, left, right Extrapolation, easing Easing) float64 {
	last := len(input) - 1
	if frame < input[0] {
		if left == Clamp {
			return output[0]
		}
		return segment(frame, input[0], input[1], output[0], output[1], nil)
	}
	if frame > input[last] {
		if right == Clamp {
			return output[last]
		}
		return segment(frame, input[last-1], input[last], output[last-1], output[last], nil)
	}

	i := 0
	for i < last-1 && frame > input[i+1] {
		i++
	}
	return segment(frame, input[i], input[i+1], output[i], output[i+1], easing)
}

func segment(frame, in0, in1, out0, out1 float64, easing Easing) float64 {
	t := (frame - in0) / (in1 - in0)
	if easing != nil {
		t = easing(t)
	}
	return lerp(out0, out1, t)
}

// InterpolateUnchecked is the two-point fast path. It performs no validation
// and no clamping: the caller guarantees in0 < in1 and in0 <= frame <= in1.
// Outside that window the result is the unclamped linear continuation.
func InterpolateUnchecked(frame, in0, in1, out0, out1 float64) float64 {
	return out0 + (out1-out0)*(frame-in0)/(in1-in0)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
