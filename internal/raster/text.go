package raster

import (
	"image"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/phazur-promo/internal/scene"
)

// basicfont.Face7x13 metrics
const (
	glyphW      = 7
	glyphH      = 13
	glyphAscent = 11

	defaultFontSize = 24
)

// wrap breaks text into lines of at most width runes, on spaces where possible
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line []rune
		for _, word := range strings.Fields(para) {
			w := []rune(word)
			for len(w) > width {
				if len(line) > 0 {
					lines = append(lines, string(line))
					line = nil
				}
				lines = append(lines, string(w[:width]))
				w = w[width:]
			}
			switch {
			case len(line) == 0:
				line = w
			case len(line)+1+len(w) <= width:
				line = append(append(line, ' '), w...)
			default:
				lines = append(lines, string(line))
				line = w
			}
		}
		lines = append(lines, string(line))
	}
	return lines
}

// drawText renders a text node with the 7x13 bitmap face scaled to its font size.
// Reveal shows the leading share of characters; the wrap is computed on the
// full text so typing does not reflow.
func (c *Canvas) drawText(dst *image.RGBA, n *scene.Node, a affine, opacity float64) {
	size := n.Style.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	scale := size * a.s / glyphH
	if scale <= 0 {
		return
	}
	b := a.box(n.Box)
	lines := wrap(n.Text, int(b.w/(glyphW*scale)))

	total := 0
	widest := 0
	for _, l := range lines {
		k := len([]rune(l))
		total += k
		widest = max(widest, k)
	}
	visible := int(float64(total)*clamp01(n.Style.Reveal) + 1e-9)
	if visible == 0 || widest == 0 {
		return
	}

	tmp := image.NewRGBA(image.Rect(0, 0, widest*glyphW, len(lines)*glyphH))
	d := &font.Drawer{Dst: tmp, Src: uniform(paint(n.Style.Fill, opacity)), Face: basicfont.Face7x13}
	for i, l := range lines {
		rs := []rune(l)
		shown := min(len(rs), visible)
		visible -= shown

		x := 0
		switch n.Style.Align {
		case scene.AlignCenter:
			x = (widest - len(rs)) * glyphW / 2
		case scene.AlignRight:
			x = (widest - len(rs)) * glyphW
		}
		d.Dot = fixed.P(x, i*glyphH+glyphAscent)
		d.DrawString(string(rs[:shown]))
		if visible == 0 {
			break
		}
	}

	w := float64(tmp.Rect.Dx()) * scale
	h := float64(tmp.Rect.Dy()) * scale
	x := b.x
	switch n.Style.Align {
	case scene.AlignCenter:
		x = b.x + (b.w-w)/2
	case scene.AlignRight:
		x = b.x + b.w - w
	}
	y := b.y
	if len(lines) == 1 {
		y = b.y + (b.h-h)/2
	}
	dr := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
	xdraw.ApproxBiLinear.Scale(dst, dr, tmp, tmp.Bounds(), xdraw.Over, nil)
}
