package raster

import (
	"image"
	"image/color"

	"github.com/ivlev/phazur-promo/internal/renderer"
	"github.com/ivlev/phazur-promo/internal/scene"
)

// paint converts a node color and an inherited opacity to a source color
func paint(c scene.Color, opacity float64) color.NRGBA {
	a := float64(c.A) * clamp01(opacity)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a + 0.5)}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// vgradient is a vertical two-stop gradient between y0 and y1
type vgradient struct {
	from, to color.RGBA
	y0, y1   float64
	opacity  float64
}

func (g *vgradient) ColorModel() color.Model { return color.NRGBAModel }

func (g *vgradient) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (g *vgradient) At(x, y int) color.Color {
	t := 0.0
	if g.y1 > g.y0 {
		t = clamp01((float64(y) + 0.5 - g.y0) / (g.y1 - g.y0))
	}
	c := renderer.BlendColor(g.from, g.to, t)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A)*clamp01(g.opacity) + 0.5)}
}
