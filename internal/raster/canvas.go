package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/ivlev/phazur-promo/internal/asset"
	"github.com/ivlev/phazur-promo/internal/director"
	"github.com/ivlev/phazur-promo/internal/effects"
	"github.com/ivlev/phazur-promo/internal/scene"
	"github.com/ivlev/phazur-promo/internal/system"
)

var (
	black     = color.RGBA{A: 0xff}
	qrInk     = color.RGBA{R: 0x0b, G: 0x10, B: 0x26, A: 0xff}
	highlight = scene.Hex(0xffffff)
)

// Canvas rasterizes director frames. It is safe for concurrent use.
type Canvas struct {
	Width  int
	Height int
	Assets asset.Loader
	Logger *zap.Logger

	pool   *system.ImagePool
	warned sync.Map
	qr     sync.Map
}

// NewCanvas creates a canvas for width x height frames
func NewCanvas(width, height int, assets asset.Loader, logger *zap.Logger) *Canvas {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Canvas{
		Width:  width,
		Height: height,
		Assets: assets,
		Logger: logger,
		pool:   system.NewImagePool(),
	}
}

func (c *Canvas) bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

// Draw renders every layer of f bottom to top, then the glow overlay.
// Hand the result back with Release once it has been written.
func (c *Canvas) Draw(f director.Frame) (*image.RGBA, error) {
	b := c.bounds()
	out := c.pool.Get(b)
	draw.Draw(out, b, image.NewUniform(black), image.Point{}, draw.Src)

	for _, l := range f.Layers {
		layer := c.pool.Get(b)
		if err := c.drawNode(layer, l.Tree, identity, 1); err != nil {
			c.pool.Put(layer)
			c.pool.Put(out)
			return nil, fmt.Errorf("frame %d scene %s: %w", f.Index, l.Scene, err)
		}
		c.composite(out, layer, l.Transform)
		c.pool.Put(layer)
	}

	if f.Glow > 0 {
		c.drawGlow(out, f.Glow, f.GlowColor)
	}
	return out, nil
}

// Release returns a frame from Draw to the buffer pool
func (c *Canvas) Release(img *image.RGBA) {
	c.pool.Put(img)
}

// affine maps node coordinates to frame pixels: p' = s*p + t
type affine struct {
	s, tx, ty float64
}

var identity = affine{s: 1}

func (a affine) box(b scene.Box) rect {
	return rect{a.s*b.X + a.tx, a.s*b.Y + a.ty, a.s * b.W, a.s * b.H}
}

// local applies the node's own transform, scaled about its box center
func (a affine) local(n *scene.Node) affine {
	st := n.Style
	cx, cy := n.Box.Center()
	l := affine{s: st.Scale, tx: cx*(1-st.Scale) + st.TranslateX, ty: cy*(1-st.Scale) + st.TranslateY}
	return affine{s: a.s * l.s, tx: a.s*l.tx + a.tx, ty: a.s*l.ty + a.ty}
}

func (c *Canvas) drawNode(dst *image.RGBA, n *scene.Node, parent affine, parentOpacity float64) error {
	if n == nil {
		return nil
	}
	op := parentOpacity * n.Style.Opacity
	if op <= 1.0/512 {
		return nil
	}
	a := parent.local(n)
	if a.s <= 0 {
		return nil
	}

	switch n.Kind {
	case scene.KindRect:
		c.drawRect(dst, n, a, op)
	case scene.KindCircle:
		c.drawCircle(dst, n, a, op)
	case scene.KindLine:
		c.drawLine(dst, n, a, op)
	case scene.KindText:
		c.drawText(dst, n, a, op)
	case scene.KindImage:
		c.drawImage(dst, n, a, op)
	case scene.KindQR:
		if err := c.drawQR(dst, n, a, op); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
	}

	for _, child := range n.Children {
		if err := c.drawNode(dst, child, a, op); err != nil {
			return err
		}
	}
	return nil
}

func (c *Canvas) fillSource(st scene.Style, r rect, opacity float64) image.Image {
	if !st.FillTo.IsZero() {
		return &vgradient{from: st.Fill.RGBA(), to: st.FillTo.RGBA(), y0: r.y, y1: r.y + r.h, opacity: opacity}
	}
	return uniform(paint(st.Fill, opacity))
}

func (c *Canvas) drawRect(dst *image.RGBA, n *scene.Node, a affine, op float64) {
	st := n.Style
	r := a.box(n.Box)
	r.w *= clamp01(st.Reveal)
	if r.empty() {
		return
	}
	radius := st.Radius * a.s
	inner := r

	if sw := st.StrokeWidth * a.s; sw > 0 && !st.Stroke.IsZero() {
		inner = r.inset(sw)
		fill(dst, uniform(paint(st.Stroke, op)), func(z *vector.Rasterizer) {
			roundRect(z, r, radius, false)
			if !inner.empty() {
				roundRect(z, inner, radius-sw, true)
			}
		})
		radius -= sw
	}
	if st.Fill.IsZero() || inner.empty() {
		return
	}
	fill(dst, c.fillSource(st, inner, op), func(z *vector.Rasterizer) {
		roundRect(z, inner, radius, false)
	})
}

func (c *Canvas) drawCircle(dst *image.RGBA, n *scene.Node, a affine, op float64) {
	st := n.Style
	r := a.box(n.Box)
	if r.empty() {
		return
	}
	inner := r
	if sw := st.StrokeWidth * a.s; sw > 0 && !st.Stroke.IsZero() {
		inner = r.inset(sw)
		fill(dst, uniform(paint(st.Stroke, op)), func(z *vector.Rasterizer) {
			ellipse(z, r, false)
			if !inner.empty() {
				ellipse(z, inner, true)
			}
		})
	}
	if st.Fill.IsZero() || inner.empty() {
		return
	}
	fill(dst, c.fillSource(st, inner, op), func(z *vector.Rasterizer) {
		ellipse(z, inner, false)
	})
}

func (c *Canvas) drawLine(dst *image.RGBA, n *scene.Node, a affine, op float64) {
	st := n.Style
	col := st.Stroke
	if col.IsZero() {
		col = st.Fill
	}
	width := st.StrokeWidth
	if width <= 0 {
		width = 2
	}
	r := a.box(n.Box)
	fill(dst, uniform(paint(col, op)), func(z *vector.Rasterizer) {
		segment(z, r.x, r.y, r.x+r.w*clamp01(st.Reveal), r.y+r.h*clamp01(st.Reveal), width*a.s)
	})
}

// fit places a src-sized image inside r keeping its aspect ratio
func fit(src image.Rectangle, r rect) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw == 0 || sh == 0 {
		return image.Rectangle{}
	}
	k := math.Min(r.w/sw, r.h/sh)
	w, h := sw*k, sh*k
	x, y := r.x+(r.w-w)/2, r.y+(r.h-h)/2
	return image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
}

// blit scales src into dr with the given opacity
func blit(dst *image.RGBA, dr image.Rectangle, src image.Image, op float64) {
	if dr.Empty() {
		return
	}
	if op >= 1 {
		xdraw.CatmullRom.Scale(dst, dr, src, src.Bounds(), xdraw.Over, nil)
		return
	}
	tmp := image.NewRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	xdraw.CatmullRom.Scale(tmp, tmp.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	mask := image.NewUniform(color.Alpha{A: uint8(clamp01(op)*255 + 0.5)})
	draw.DrawMask(dst, dr, tmp, image.Point{}, mask, image.Point{}, draw.Over)
}

func (c *Canvas) drawImage(dst *image.RGBA, n *scene.Node, a affine, op float64) {
	r := a.box(n.Box)
	var img image.Image
	var err error
	if c.Assets == nil {
		err = fmt.Errorf("%w: no asset directories", asset.ErrAssetNotFound)
	} else {
		img, err = c.Assets.Load(n.Asset)
	}
	if err != nil {
		if _, seen := c.warned.LoadOrStore(n.Asset, true); !seen {
			c.Logger.Warn("asset unavailable, drawing placeholder",
				zap.String("asset", n.Asset), zap.String("node", n.ID), zap.Error(err))
		}
		c.drawPlaceholder(dst, r, op)
		return
	}
	blit(dst, fit(img.Bounds(), r), img, op)
}

// drawPlaceholder is a ringed disc standing in for a missing logo
func (c *Canvas) drawPlaceholder(dst *image.RGBA, r rect, op float64) {
	side := math.Min(r.w, r.h)
	disc := rect{r.x + (r.w-side)/2, r.y + (r.h-side)/2, side, side}
	ring := side * 0.08
	fill(dst, uniform(paint(scene.Purple, op)), func(z *vector.Rasterizer) {
		ellipse(z, disc, false)
	})
	fill(dst, uniform(paint(scene.Cyan, op)), func(z *vector.Rasterizer) {
		ellipse(z, disc.inset(ring), false)
		ellipse(z, disc.inset(2*ring), true)
	})
}

func (c *Canvas) qrImage(text string, size int) (image.Image, error) {
	key := fmt.Sprintf("%d|%s", size, text)
	if img, ok := c.qr.Load(key); ok {
		return img.(image.Image), nil
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	q.DisableBorder = true
	q.ForegroundColor = qrInk
	q.BackgroundColor = color.Transparent
	img := q.Image(size)
	c.qr.Store(key, img)
	return img, nil
}

// drawQR draws a QR code for the node text on a rounded plate of the fill color
func (c *Canvas) drawQR(dst *image.RGBA, n *scene.Node, a affine, op float64) error {
	r := a.box(n.Box)
	side := math.Min(r.w, r.h)
	if side < 1 {
		return nil
	}
	plate := rect{r.x + (r.w-side)/2, r.y + (r.h-side)/2, side, side}
	st := n.Style
	if !st.Fill.IsZero() {
		fill(dst, uniform(paint(st.Fill, op)), func(z *vector.Rasterizer) {
			roundRect(z, plate, st.Radius*a.s, false)
		})
	}
	code := plate.inset(side * 0.08)
	img, err := c.qrImage(n.Text, int(code.w))
	if err != nil {
		return err
	}
	// nearest neighbour keeps the modules crisp
	dr := fit(img.Bounds(), code)
	if op >= 1 {
		xdraw.NearestNeighbor.Scale(dst, dr, img, img.Bounds(), xdraw.Over, nil)
		return nil
	}
	blit(dst, dr, img, op)
	return nil
}

// mask combines the transition clip and opacity into a destination mask.
// nil means fully visible.
func (c *Canvas) mask(t effects.Transform) image.Image {
	alpha := uint8(clamp01(t.Opacity)*255 + 0.5)
	if t.Clip.Kind == effects.ClipNone {
		if alpha == 0xff {
			return nil
		}
		return image.NewUniform(color.Alpha{A: alpha})
	}

	b := c.bounds()
	m := image.NewAlpha(b)
	switch t.Clip.Kind {
	case effects.ClipInset:
		w, h := float64(c.Width), float64(c.Height)
		r := image.Rect(
			int(math.Round(t.Clip.Left*w)), int(math.Round(t.Clip.Top*h)),
			int(math.Round(w-t.Clip.Right*w)), int(math.Round(h-t.Clip.Bottom*h)),
		).Intersect(b)
		draw.Draw(m, r, image.NewUniform(color.Alpha{A: alpha}), image.Point{}, draw.Src)
	case effects.ClipCircle:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := m.Pix[(y-b.Min.Y)*m.Stride:]
			for x := b.Min.X; x < b.Max.X; x++ {
				if t.Clip.ContainsPoint(float64(x)+0.5, float64(y)+0.5, c.Width, c.Height) {
					row[x-b.Min.X] = alpha
				}
			}
		}
	}
	return m
}

// composite draws a rendered layer onto out through its transition transform
func (c *Canvas) composite(out, layer *image.RGBA, t effects.Transform) {
	if t.Opacity <= 0 || t.Scale <= 0 {
		return
	}
	b := c.bounds()
	m := c.mask(t)

	if t.Scale == 1 && t.TranslateX == 0 && t.TranslateY == 0 {
		if m == nil {
			draw.Draw(out, b, layer, b.Min, draw.Over)
		} else {
			draw.DrawMask(out, b, layer, b.Min, m, b.Min, draw.Over)
		}
	} else {
		s := t.Scale
		cx, cy := float64(c.Width)/2, float64(c.Height)/2
		aff := f64.Aff3{
			s, 0, cx*(1-s) + t.TranslateX,
			0, s, cy*(1-s) + t.TranslateY,
		}
		var opts *xdraw.Options
		if m != nil {
			opts = &xdraw.Options{DstMask: m}
		}
		xdraw.ApproxBiLinear.Transform(out, aff, layer, layer.Bounds(), xdraw.Over, opts)
	}

	if h := t.Highlight; h != nil && h.Opacity > 0 {
		c.drawHighlight(out, *h, t.Opacity)
	}
}

// drawHighlight is a bright band with a soft halo on the moving wipe edge
func (c *Canvas) drawHighlight(out *image.RGBA, h effects.Highlight, opacity float64) {
	w, ht := float64(c.Width), float64(c.Height)
	band := func(half float64) rect {
		if h.Vertical {
			return rect{h.Position*w - half, 0, 2 * half, ht}
		}
		return rect{0, h.Position*ht - half, w, 2 * half}
	}
	for _, layer := range []struct{ half, alpha float64 }{{18, 0.18}, {3, 0.9}} {
		r := band(layer.half)
		fill(out, uniform(paint(highlight, h.Opacity*opacity*layer.alpha)), func(z *vector.Rasterizer) {
			roundRect(z, r, 0, false)
		})
	}
}

// radial fades from the glow color at the center to nothing at the edge
type radial struct {
	cx, cy, r float64
	c         scene.Color
	peak      float64
}

func (g *radial) ColorModel() color.Model { return color.NRGBAModel }

func (g *radial) Bounds() image.Rectangle { return image.Rect(-1e9, -1e9, 1e9, 1e9) }

func (g *radial) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-g.cx, float64(y)+0.5-g.cy) / g.r
	k := clamp01(1 - d)
	return paint(g.c, g.peak*k*k)
}

func (c *Canvas) drawGlow(out *image.RGBA, glow float64, col scene.Color) {
	if col.IsZero() {
		col = scene.Purple
	}
	w, h := float64(c.Width), float64(c.Height)
	g := &radial{cx: w / 2, cy: h / 2, r: math.Hypot(w, h) / 2, c: col, peak: glow}
	draw.Draw(out, out.Bounds(), g, image.Point{}, draw.Over)
}
