package renderer

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// InterpolateColor blends between colors at the breakpoints of input.
// Outside the input range the first/last color is held. Blending happens in
// linear RGB so mid-points do not go muddy.
func InterpolateColor(frame float64, input []float64, colors []color.RGBA, opts ...Option) color.RGBA {
	idx := make([]float64, len(input))
	for i := range idx {
		idx[i] = float64(i)
	}
	opts = append(opts, WithExtrapolate(Clamp))
	pos := Interpolate(frame, input, idx, opts...)

	i := int(math.Floor(pos))
	if i >= len(colors)-1 {
		return colors[len(colors)-1]
	}
	return BlendColor(colors[i], colors[i+1], pos-float64(i))
}

// BlendColor mixes a and b; t=0 is a, t=1 is b
func BlendColor(a, b color.RGBA, t float64) color.RGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ca := toColorful(a)
	cb := toColorful(b)
	r, g, bl := ca.BlendLinearRgb(cb, t).Clamped().RGB255()
	alpha := lerp(float64(a.A), float64(b.A), t)
	return color.RGBA{R: r, G: g, B: bl, A: uint8(math.Round(alpha))}
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
