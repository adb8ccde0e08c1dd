package effects

import "math"

// ClipKind selects the shape of a clip region
type ClipKind int

const (
	ClipNone ClipKind = iota
	// ClipInset keeps a rectangle shrunk by fractions of each side
	ClipInset
	// ClipCircle keeps a circle; radius is a fraction of the half diagonal
	ClipCircle
)

// Clip describes the visible region of a layer in frame-relative units
type Clip struct {
	Kind   ClipKind `yaml:"kind"`
	Top    float64  `yaml:"top,omitempty"`
	Right  float64  `yaml:"right,omitempty"`
	Bottom float64  `yaml:"bottom,omitempty"`
	Left   float64  `yaml:"left,omitempty"`
	CX     float64  `yaml:"cx,omitempty"`
	CY     float64  `yaml:"cy,omitempty"`
	Radius float64  `yaml:"radius,omitempty"`
}

// Highlight is the bright edge that follows a wipe
type Highlight struct {
	// Position along the wipe axis, 0..1 of the frame
	Position float64 `yaml:"position"`
	Vertical bool    `yaml:"vertical"`
	Opacity  float64 `yaml:"opacity"`
}

// Transform is what a transition adds on top of a scene
type Transform struct {
	Opacity    float64    `yaml:"opacity"`
	TranslateX float64    `yaml:"translate_x"`
	TranslateY float64    `yaml:"translate_y"`
	Scale      float64    `yaml:"scale"`
	Clip       Clip       `yaml:"clip"`
	Highlight  *Highlight `yaml:"highlight,omitempty"`
}

// Identity is the steady-state transform
func Identity() Transform {
	return Transform{Opacity: 1, Scale: 1}
}

// IsIdentity reports whether t leaves the layer as-is
func (t Transform) IsIdentity() bool {
	return t.Opacity == 1 && t.Scale == 1 && t.TranslateX == 0 && t.TranslateY == 0 &&
		t.Clip.Kind == ClipNone && t.Highlight == nil
}

// Compose stacks o on top of t
func (t Transform) Compose(o Transform) Transform {
	out := Transform{
		Opacity:    t.Opacity * o.Opacity,
		TranslateX: t.TranslateX + o.TranslateX,
		TranslateY: t.TranslateY + o.TranslateY,
		Scale:      t.Scale * o.Scale,
		Clip:       intersect(t.Clip, o.Clip),
		Highlight:  t.Highlight,
	}
	if o.Highlight != nil {
		out.Highlight = o.Highlight
	}
	return out
}

func intersect(a, b Clip) Clip {
	switch {
	case a.Kind == ClipNone:
		return b
	case b.Kind == ClipNone:
		return a
	case a.Kind == ClipInset && b.Kind == ClipInset:
		return Clip{
			Kind:   ClipInset,
			Top:    math.Max(a.Top, b.Top),
			Right:  math.Max(a.Right, b.Right),
			Bottom: math.Max(a.Bottom, b.Bottom),
			Left:   math.Max(a.Left, b.Left),
		}
	case a.Kind == ClipCircle && b.Kind == ClipCircle:
		if b.Radius < a.Radius {
			return b
		}
		return a
	}
	return a
}

// Coverage estimates the visible share of the frame, 0..1
func (c Clip) Coverage(width, height int) float64 {
	switch c.Kind {
	case ClipInset:
		w := math.Max(0, 1-c.Left-c.Right)
		h := math.Max(0, 1-c.Top-c.Bottom)
		return w * h
	case ClipCircle:
		const n = 64
		inside := 0
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				px := (float64(x) + 0.5) / n * float64(width)
				py := (float64(y) + 0.5) / n * float64(height)
				if c.ContainsPoint(px, py, width, height) {
					inside++
				}
			}
		}
		return float64(inside) / (n * n)
	}
	return 1
}

// ContainsPoint reports whether pixel (x, y) is visible
func (c Clip) ContainsPoint(x, y float64, width, height int) bool {
	w, h := float64(width), float64(height)
	switch c.Kind {
	case ClipInset:
		return x >= c.Left*w && x < w-c.Right*w && y >= c.Top*h && y < h-c.Bottom*h
	case ClipCircle:
		r := c.Radius * math.Hypot(w, h) / 2
		dx := x - c.CX*w
		dy := y - c.CY*h
		return dx*dx+dy*dy <= r*r
	}
	return true
}
