package scene

import (
	"fmt"
	"math"

	"github.com/ivlev/phazur-promo/internal/renderer"
)

// Particle is one seeded decorative dot
type Particle struct {
	X, Y    float64 // fraction of the frame
	Size    float64 // pixels
	Speed   float64 // pixels per frame, upward
	Phase   float64 // radians
	Opacity float64
	Color   int // index into the palette
}

// Particles derives count particles from seed. The result depends only on
// its arguments.
func Particles(seed string, count, colors int) []Particle {
	if colors < 1 {
		colors = 1
	}
	out := make([]Particle, count)
	for i := range out {
		rnd := func(field string) float64 {
			return renderer.RandomIndexed(seed+"."+field, i)
		}
		out[i] = Particle{
			X:       rnd("x"),
			Y:       rnd("y"),
			Size:    2 + rnd("size")*6,
			Speed:   0.2 + rnd("speed")*0.8,
			Phase:   rnd("phase") * 2 * math.Pi,
			Opacity: 0.15 + rnd("opacity")*0.45,
			Color:   int(rnd("color") * float64(colors)),
		}
	}
	return out
}

func (r *Renderer) particles(spec Spec, f float64) *Node {
	ps := spec.Particles
	w, h := float64(r.Width), float64(r.Height)
	group := &Node{ID: spec.ID + ".particles", Kind: KindGroup, Box: Box{W: w, H: h}, Style: BaseStyle()}

	for i, p := range Particles(ps.Seed, ps.Count, len(ps.Colors)) {
		y := math.Mod(p.Y*h-p.Speed*f, h)
		if y < 0 {
			y += h
		}
		x := p.X*w + 12*math.Sin(p.Phase+f/30)
		twinkle := 0.75 + 0.25*math.Sin(p.Phase+f/12)

		n := &Node{
			ID:    fmt.Sprintf("%s.particle.%d", spec.ID, i),
			Kind:  KindCircle,
			Box:   Box{X: x - p.Size/2, Y: y - p.Size/2, W: p.Size, H: p.Size},
			Style: BaseStyle(),
		}
		n.Style.Fill = ps.Colors[p.Color]
		n.Style.Opacity = p.Opacity * twinkle
		group.Add(n)
	}
	return group
}
