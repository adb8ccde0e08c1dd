package renderer

import (
	"math"
	"strconv"
	"strings"
)

type springKey struct {
	frame float64
	cfg   SpringConfig
}

// Animator evaluates animation primitives for one render session.
// Caches are optional and never change results.
type Animator struct {
	FPS int

	interp *Cache[string, float64]
	spring *Cache[springKey, float64]
	settle *Cache[SpringConfig, int]
}

// NewAnimator creates an Animator; cacheSize 0 disables memoization
func NewAnimator(fps int, cacheSize int) *Animator {
	a := &Animator{FPS: fps}
	if cacheSize > 0 {
		a.interp = NewCache[string, float64](cacheSize)
		a.spring = NewCache[springKey, float64](cacheSize)
		a.settle = NewCache[SpringConfig, int](64)
	}
	return a
}

// Interpolate is renderer.Interpolate with memoization
func (a *Animator) Interpolate(frame float64, input, output []float64, opts ...Option) float64 {
	o := interpOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	// easing functions cannot be part of a key
	if a.interp == nil || o.easing != nil {
		return Interpolate(frame, input, output, opts...)
	}

	key := interpKey(frame, input, output, o.left, o.right)
	if v, ok := a.interp.Get(key); ok {
		return v
	}
	v := Interpolate(frame, input, output, opts...)
	a.interp.Put(key, v)
	return v
}

func interpKey(frame float64, input, output []float64, left, right Extrapolation) string {
	var b strings.Builder
	b.Grow(16 * (2*len(input) + 2))
	writeBits := func(v float64) {
		b.WriteString(strconv.FormatUint(math.Float64bits(v), 36))
		b.WriteByte(',')
	}
	writeBits(frame)
	for _, v := range input {
		writeBits(v)
	}
	b.WriteByte('|')
	for _, v := range output {
		writeBits(v)
	}
	b.WriteByte(byte('0' + left))
	b.WriteByte(byte('0' + right))
	return b.String()
}

// Spring is renderer.Spring at the session frame rate
func (a *Animator) Spring(frame float64, cfg SpringConfig) float64 {
	if a.spring == nil {
		return Spring(frame, a.FPS, cfg)
	}
	key := springKey{frame: frame, cfg: cfg}
	if v, ok := a.spring.Get(key); ok {
		return v
	}
	v := Spring(frame, a.FPS, cfg)
	a.spring.Put(key, v)
	return v
}

// SpringValue evaluates opts at frame
func (a *Animator) SpringValue(frame float64, opts SpringOptions) float64 {
	local := frame - opts.Delay
	if opts.DurationInFrames > 0 {
		natural := float64(a.settleFrames(opts.Config))
		if natural > 0 {
			local *= natural / opts.DurationInFrames
		}
	}
	p := a.Spring(local, opts.Config)
	return opts.From + (opts.To-opts.From)*p
}

func (a *Animator) settleFrames(cfg SpringConfig) int {
	if a.settle == nil {
		return SpringSettleFrames(a.FPS, cfg, settleThreshold)
	}
	if n, ok := a.settle.Get(cfg); ok {
		return n
	}
	n := SpringSettleFrames(a.FPS, cfg, settleThreshold)
	a.settle.Put(cfg, n)
	return n
}
