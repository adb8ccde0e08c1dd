package scene

import (
	"fmt"
	"math"

	"github.com/ivlev/phazur-promo/internal/renderer"
)

var (
	colorText     = Hex(0xF8FAFC)
	colorMuted    = Hex(0x94A3B8)
	colorCard     = Hex(0x1E2547)
	colorRail     = Hex(0x334155)
	colorPositive = Hex(0x34D399)
	colorNegative = Hex(0xF87171)
	colorAccent   = Hex(0x7C3AED)
)

// Renderer turns a Spec and a local frame into a visual description.
// It keeps no state between calls.
type Renderer struct {
	Width    int
	Height   int
	Animator *renderer.Animator
}

// NewRenderer creates a renderer for a width x height frame
func NewRenderer(width, height int, anim *renderer.Animator) *Renderer {
	if anim == nil {
		anim = renderer.NewAnimator(30, 0)
	}
	return &Renderer{Width: width, Height: height, Animator: anim}
}

// Render produces the tree for spec at local frame
func (r *Renderer) Render(spec Spec, frame int) *Node {
	f := float64(frame)
	full := Box{W: float64(r.Width), H: float64(r.Height)}

	root := &Node{ID: spec.ID, Kind: KindGroup, Box: full, Style: BaseStyle()}

	bg := &Node{ID: spec.ID + ".bg", Kind: KindRect, Box: full, Style: BaseStyle()}
	bg.Style.Fill = spec.Background.From
	bg.Style.FillTo = spec.Background.To
	root.Add(bg)

	if spec.Particles != nil && spec.Particles.Count > 0 {
		root.Add(r.particles(spec, f))
	}
	if spec.Header != nil {
		root.Add(r.header(spec, f)...)
	}
	if len(spec.Items) > 0 {
		root.Add(r.items(spec, f))
	}
	for _, e := range spec.Elements {
		root.Add(r.element(spec.ID, e, f))
	}
	return root
}

func (r *Renderer) text(id, s string, box Box, size float64, c Color, align Align) *Node {
	st := BaseStyle()
	st.FontSize = size
	st.Fill = c
	st.Align = align
	return &Node{ID: id, Kind: KindText, Box: box, Style: st, Text: s}
}

func (r *Renderer) header(spec Spec, f float64) []*Node {
	h := spec.Header
	w := float64(r.Width)
	title := r.text(spec.ID+".title", h.Title, Box{X: 0, Y: h.Y, W: w, H: 72}, 64, colorText, AlignCenter)
	title.Style = h.Motion.Evaluate(r.Animator, 0, f).apply(title.Style)
	out := []*Node{title}

	if h.Subtitle != "" {
		sub := r.text(spec.ID+".subtitle", h.Subtitle, Box{X: 0, Y: h.Y + 88, W: w, H: 40}, 30, colorMuted, AlignCenter)
		m := h.Motion
		m.Delay += h.SubtitleDelay
		sub.Style = m.Evaluate(r.Animator, 0, f).apply(sub.Style)
		out = append(out, sub)
	}
	return out
}

func (r *Renderer) items(spec Spec, f float64) *Node {
	l := spec.Layout
	group := &Node{ID: spec.ID + ".items", Kind: KindGroup, Box: l.Area, Style: BaseStyle()}
	boxes := l.boxes(len(spec.Items))

	switch l.Kind {
	case LayoutTimeline:
		group.Add(r.rail(spec, f)...)
	case LayoutTable:
		group.Add(r.tableHeader(spec, f))
	}

	for i, it := range spec.Items {
		id := fmt.Sprintf("%s.item.%d", spec.ID, i)
		pose := spec.ItemMotion.Evaluate(r.Animator, i, f)

		var n *Node
		switch l.Kind {
		case LayoutStack:
			n = r.stackItem(id, it, boxes[i])
		case LayoutChat:
			n = r.bubble(id, it, boxes[i], l.Area)
		case LayoutTimeline:
			n = r.milestone(id, it, boxes[i])
		case LayoutTable:
			n = r.tableRow(id, it, boxes[i], i)
		default:
			n = r.card(id, it, boxes[i])
		}
		n.Style = pose.apply(n.Style)
		n.Walk(func(c *Node) {
			if c.Kind == KindText && c.ID == id+".body" {
				c.Style.Reveal = pose.Reveal
			}
		})
		group.Add(n)
	}
	return group
}

func accentOf(it Item) Color {
	if it.Accent.IsZero() {
		return colorAccent
	}
	return it.Accent
}

func (r *Renderer) stackItem(id string, it Item, b Box) *Node {
	n := &Node{ID: id, Kind: KindGroup, Box: b, Style: BaseStyle()}
	n.Add(r.text(id+".title", it.Title, Box{X: b.X, Y: b.Y, W: b.W, H: b.H * 0.6}, 44, colorText, AlignCenter))
	if it.Body != "" {
		n.Add(r.text(id+".body", it.Body, Box{X: b.X, Y: b.Y + b.H*0.6, W: b.W, H: b.H * 0.4}, 26, colorMuted, AlignCenter))
	}
	return n
}

func (r *Renderer) card(id string, it Item, b Box) *Node {
	accent := accentOf(it)
	n := &Node{ID: id, Kind: KindGroup, Box: b, Style: BaseStyle()}

	bg := &Node{ID: id + ".card", Kind: KindRect, Box: b, Style: BaseStyle()}
	bg.Style.Fill = colorCard
	bg.Style.Stroke = accent.WithAlpha(0.6)
	bg.Style.StrokeWidth = 2
	bg.Style.Radius = 24
	n.Add(bg)

	pad := 28.0
	icon := math.Min(72, b.H*0.3)
	if it.Icon != "" {
		dot := &Node{ID: id + ".icon", Kind: KindCircle, Box: Box{X: b.X + pad, Y: b.Y + pad, W: icon, H: icon}, Style: BaseStyle()}
		dot.Style.Fill = accent
		n.Add(dot, r.text(id+".glyph", it.Icon, dot.Box, icon*0.4, colorText, AlignCenter))
	}

	ty := b.Y + pad + icon + 20
	n.Add(r.text(id+".title", it.Title, Box{X: b.X + pad, Y: ty, W: b.W - 2*pad, H: 40}, 34, colorText, AlignLeft))
	if it.Body != "" {
		n.Add(r.text(id+".body", it.Body, Box{X: b.X + pad, Y: ty + 52, W: b.W - 2*pad, H: b.Y + b.H - ty - 52 - pad}, 24, colorMuted, AlignLeft))
	}
	if it.Value > 0 {
		track := &Node{ID: id + ".track", Kind: KindRect, Box: Box{X: b.X + pad, Y: b.Y + b.H - pad - 10, W: b.W - 2*pad, H: 10}, Style: BaseStyle()}
		track.Style.Fill = colorRail
		track.Style.Radius = 5
		fill := &Node{ID: id + ".value", Kind: KindRect, Box: track.Box, Style: BaseStyle()}
		fill.Style.Fill = accent
		fill.Style.Radius = 5
		fill.Style.Reveal = it.Value
		n.Add(track, fill)
	}
	return n
}

func (r *Renderer) bubble(id string, it Item, b Box, area Box) *Node {
	side := it.Side
	if side == AlignRight {
		b.X = area.X + area.W - b.W
	}
	n := &Node{ID: id, Kind: KindGroup, Box: b, Style: BaseStyle()}

	bg := &Node{ID: id + ".bubble", Kind: KindRect, Box: b, Style: BaseStyle()}
	bg.Style.Radius = 28
	bg.Style.Fill = colorCard
	if side == AlignRight {
		bg.Style.Fill = accentOf(it)
	}
	n.Add(bg)

	pad := 24.0
	if it.Title != "" {
		n.Add(r.text(id+".title", it.Title, Box{X: b.X + pad, Y: b.Y + pad*0.6, W: b.W - 2*pad, H: 28}, 22, colorMuted, AlignLeft))
	}
	n.Add(r.text(id+".body", it.Body, Box{X: b.X + pad, Y: b.Y + pad*0.6 + 36, W: b.W - 2*pad, H: b.H - pad*1.2 - 36}, 30, colorText, AlignLeft))
	return n
}

// rail is the static line and the animated progress of a milestone timeline
func (r *Renderer) rail(spec Spec, f float64) []*Node {
	a := spec.Layout.Area
	y := a.Y + a.H/2
	line := &Node{ID: spec.ID + ".rail", Kind: KindRect, Box: Box{X: a.X, Y: y - 4, W: a.W, H: 8}, Style: BaseStyle()}
	line.Style.Fill = colorRail
	line.Style.Radius = 4

	n := len(spec.Items)
	first := spec.ItemMotion.Delay
	last := spec.ItemMotion.Delay + float64(n-1)*spec.ItemMotion.Stagger
	if last <= first {
		last = first + 1
	}
	// the bar reaches the centre of the last dot when the last milestone lands
	progress := r.Animator.Interpolate(f, []float64{first, last}, []float64{0.5 / float64(n), 1 - 0.5/float64(n)})
	if f < first {
		progress = 0
	}

	bar := &Node{ID: spec.ID + ".progress", Kind: KindRect, Box: line.Box, Style: BaseStyle()}
	bar.Style.Fill = colorAccent
	bar.Style.Radius = 4
	bar.Style.Reveal = progress
	return []*Node{line, bar}
}

func (r *Renderer) milestone(id string, it Item, b Box) *Node {
	cx, cy := b.Center()
	n := &Node{ID: id, Kind: KindGroup, Box: Box{X: cx - 40, Y: cy - 40, W: 80, H: 80}, Style: BaseStyle()}

	dot := &Node{ID: id + ".dot", Kind: KindCircle, Box: Box{X: cx - 22, Y: cy - 22, W: 44, H: 44}, Style: BaseStyle()}
	dot.Style.Fill = accentOf(it)
	dot.Style.Stroke = colorText
	dot.Style.StrokeWidth = 4
	n.Add(dot)
	n.Add(r.text(id+".title", it.Title, Box{X: b.X, Y: cy - 110, W: b.W, H: 40}, 32, colorText, AlignCenter))
	if it.Body != "" {
		n.Add(r.text(id+".body", it.Body, Box{X: b.X, Y: cy + 50, W: b.W, H: 60}, 24, colorMuted, AlignCenter))
	}
	return n
}

func (r *Renderer) tableHeader(spec Spec, f float64) *Node {
	l := spec.Layout
	h := l.Area.H / float64(len(spec.Items)+1)
	id := spec.ID + ".thead"
	n := &Node{ID: id, Kind: KindGroup, Box: Box{X: l.Area.X, Y: l.Area.Y, W: l.Area.W, H: h}, Style: BaseStyle()}
	cols := columnBoxes(n.Box, len(l.Headers))
	for i, name := range l.Headers {
		n.Add(r.text(fmt.Sprintf("%s.%d", id, i), name, cols[i], 30, colorMuted, alignForColumn(i)))
	}
	n.Style = spec.ItemMotion.Evaluate(r.Animator, 0, f-spec.ItemMotion.Stagger).apply(n.Style)
	return n
}

func (r *Renderer) tableRow(id string, it Item, b Box, index int) *Node {
	n := &Node{ID: id, Kind: KindGroup, Box: b, Style: BaseStyle()}
	if index%2 == 0 {
		stripe := &Node{ID: id + ".stripe", Kind: KindRect, Box: b, Style: BaseStyle()}
		stripe.Style.Fill = colorCard
		stripe.Style.Radius = 12
		n.Add(stripe)
	}
	cols := columnBoxes(b, len(it.Cells))
	for i, cell := range it.Cells {
		c := colorText
		switch {
		case len(cell) > 0 && cell[0] == '+':
			c = colorPositive
		case len(cell) > 0 && cell[0] == '-':
			c = colorNegative
		}
		n.Add(r.text(fmt.Sprintf("%s.cell.%d", id, i), cell, cols[i], 28, c, alignForColumn(i)))
	}
	return n
}

// columnBoxes gives the first column twice the width of the others
func columnBoxes(b Box, n int) []Box {
	if n == 0 {
		return nil
	}
	unit := b.W / float64(n+1)
	out := make([]Box, n)
	x := b.X
	for i := range out {
		w := unit
		if i == 0 {
			w = unit * 2
		}
		out[i] = Box{X: x + 16, Y: b.Y, W: w - 32, H: b.H}
		x += w
	}
	return out
}

func alignForColumn(i int) Align {
	if i == 0 {
		return AlignLeft
	}
	return AlignCenter
}

func (r *Renderer) element(sceneID string, e Element, f float64) *Node {
	st := e.Style
	if st.Scale == 0 {
		st.Scale = 1
	}
	if st.Opacity == 0 {
		st.Opacity = 1
	}
	if st.Reveal == 0 {
		st.Reveal = 1
	}
	pose := e.Motion.Evaluate(r.Animator, 0, f)
	st = pose.apply(st)
	st.Reveal *= pose.Reveal

	return &Node{
		ID:    sceneID + "." + e.ID,
		Kind:  e.Kind,
		Box:   e.Box,
		Style: st,
		Text:  e.Text,
		Asset: e.Asset,
	}
}
