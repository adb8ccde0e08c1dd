package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle
const kappa = 0.5522847498

type rect struct {
	x, y, w, h float64
}

func (r rect) inset(d float64) rect {
	return rect{r.x + d, r.y + d, r.w - 2*d, r.h - 2*d}
}

func (r rect) empty() bool { return r.w <= 0 || r.h <= 0 }

// roundRect adds a rounded rectangle to z. Reversed outlines cancel the
// coverage of forward ones, which cuts holes for strokes.
func roundRect(z *vector.Rasterizer, r rect, radius float64, reverse bool) {
	radius = math.Max(0, math.Min(radius, math.Min(r.w, r.h)/2))
	x0, y0, x1, y1 := float32(r.x), float32(r.y), float32(r.x+r.w), float32(r.y+r.h)
	rad := float32(radius)
	k := float32(radius * kappa)

	if rad == 0 {
		pts := [][2]float32{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
		if reverse {
			pts[1], pts[3] = pts[3], pts[1]
		}
		z.MoveTo(pts[0][0], pts[0][1])
		for _, p := range pts[1:] {
			z.LineTo(p[0], p[1])
		}
		z.ClosePath()
		return
	}

	if !reverse {
		z.MoveTo(x0+rad, y0)
		z.LineTo(x1-rad, y0)
		z.CubeTo(x1-rad+k, y0, x1, y0+rad-k, x1, y0+rad)
		z.LineTo(x1, y1-rad)
		z.CubeTo(x1, y1-rad+k, x1-rad+k, y1, x1-rad, y1)
		z.LineTo(x0+rad, y1)
		z.CubeTo(x0+rad-k, y1, x0, y1-rad+k, x0, y1-rad)
		z.LineTo(x0, y0+rad)
		z.CubeTo(x0, y0+rad-k, x0+rad-k, y0, x0+rad, y0)
		z.ClosePath()
		return
	}
	z.MoveTo(x0+rad, y0)
	z.CubeTo(x0+rad-k, y0, x0, y0+rad-k, x0, y0+rad)
	z.LineTo(x0, y1-rad)
	z.CubeTo(x0, y1-rad+k, x0+rad-k, y1, x0+rad, y1)
	z.LineTo(x1-rad, y1)
	z.CubeTo(x1-rad+k, y1, x1, y1-rad+k, x1, y1-rad)
	z.LineTo(x1, y0+rad)
	z.CubeTo(x1, y0+rad-k, x1-rad+k, y0, x1-rad, y0)
	z.ClosePath()
}

// ellipse adds an ellipse inscribed in r
func ellipse(z *vector.Rasterizer, r rect, reverse bool) {
	cx, cy := float32(r.x+r.w/2), float32(r.y+r.h/2)
	rx, ry := float32(r.w/2), float32(r.h/2)
	kx, ky := rx*kappa, ry*kappa

	z.MoveTo(cx+rx, cy)
	if !reverse {
		z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
		z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
		z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
		z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	} else {
		z.CubeTo(cx+rx, cy-ky, cx+kx, cy-ry, cx, cy-ry)
		z.CubeTo(cx-kx, cy-ry, cx-rx, cy-ky, cx-rx, cy)
		z.CubeTo(cx-rx, cy+ky, cx-kx, cy+ry, cx, cy+ry)
		z.CubeTo(cx+kx, cy+ry, cx+rx, cy+ky, cx+rx, cy)
	}
	z.ClosePath()
}

// segment adds a line from (x0,y0) to (x1,y1) of the given width
func segment(z *vector.Rasterizer, x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
}

// fill rasterizes the path built by add onto dst with src
func fill(dst *image.RGBA, src image.Image, add func(z *vector.Rasterizer)) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	add(z)
	z.Draw(dst, b, src, b.Min)
}

func uniform(c color.Color) image.Image {
	return image.NewUniform(c)
}
