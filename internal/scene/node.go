package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Kind of a visual node
type Kind string

const (
	KindGroup  Kind = "group"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindQR     Kind = "qr"
	KindLine   Kind = "line"
)

// Align is the horizontal text alignment inside a box
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Color is an sRGB color with straight alpha; YAML form is #rrggbb or #rrggbbaa
type Color struct {
	R, G, B, A uint8
}

// Hex builds an opaque color from 0xRRGGBB
func Hex(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// WithAlpha returns c with alpha a in [0,1]
func (c Color) WithAlpha(a float64) Color {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}

// RGBA converts to image/color
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// FromRGBA converts from image/color
func FromRGBA(c color.RGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// IsZero reports an unset color
func (c Color) IsZero() bool { return c == Color{} }

func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Color) UnmarshalText(b []byte) error {
	s := strings.TrimPrefix(strings.TrimSpace(string(b)), "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", string(b))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("color %q: %w", string(b), err)
	}
	if len(s) == 6 {
		*c = Hex(uint32(v))
		return nil
	}
	*c = Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return nil
}

// Box is a rectangle in frame pixels
type Box struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Center returns the middle of the box
func (b Box) Center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Style holds the animated and static visual properties of a node.
// Opacity, TranslateX/Y and Scale apply to the node and all its children;
// Scale pivots around the center of the node box.
type Style struct {
	Opacity     float64 `yaml:"opacity"`
	TranslateX  float64 `yaml:"translate_x,omitempty"`
	TranslateY  float64 `yaml:"translate_y,omitempty"`
	Scale       float64 `yaml:"scale"`
	Fill        Color   `yaml:"fill,omitempty"`
	FillTo      Color   `yaml:"fill_to,omitempty"`
	Stroke      Color   `yaml:"stroke,omitempty"`
	StrokeWidth float64 `yaml:"stroke_width,omitempty"`
	Radius      float64 `yaml:"radius,omitempty"`
	FontSize    float64 `yaml:"font_size,omitempty"`
	Align       Align   `yaml:"align,omitempty"`
	// Reveal is the visible share of text characters or of a bar's width
	Reveal float64 `yaml:"reveal"`
}

// BaseStyle is fully visible and untransformed
func BaseStyle() Style {
	return Style{Opacity: 1, Scale: 1, Reveal: 1}
}

// Node is one element of the visual description tree emitted for a frame
type Node struct {
	ID       string  `yaml:"id"`
	Kind     Kind    `yaml:"kind"`
	Box      Box     `yaml:"box"`
	Style    Style   `yaml:"style"`
	Text     string  `yaml:"text,omitempty"`
	Asset    string  `yaml:"asset,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

// Add appends children and returns n
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Find returns the first node with id in a depth-first walk
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// VisibleText is the share of Text a typewriter reveal currently shows
func (n *Node) VisibleText() string {
	r := []rune(n.Text)
	k := int(float64(len(r))*n.Style.Reveal + 1e-9)
	if k < 0 {
		k = 0
	}
	if k > len(r) {
		k = len(r)
	}
	return string(r[:k])
}
