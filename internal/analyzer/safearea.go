package analyzer

import (
	"image"
	"math"
)

// SafeAreaDetector reports content drawn in the outer margin of the frame,
// where platform overlays and overscan cut it off. Content is found with a
// Sobel gradient, so flat backgrounds and gradients do not count.
type SafeAreaDetector struct {
	Margin        float64 // share of width/height on each side
	EdgeThreshold float64 // gradient magnitude
	MinShare      float64 // share of margin pixels that must be edges
}

// NewSafeAreaDetector creates a detector with 5% title-safe margins
func NewSafeAreaDetector() *SafeAreaDetector {
	return &SafeAreaDetector{
		Margin:        0.05,
		EdgeThreshold: 30.0,
		MinShare:      0.002,
	}
}

func (d *SafeAreaDetector) Analyze(frame int, img *image.RGBA) []Finding {
	gray, _ := grayscale(img, 1)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	mx, my := int(float64(w)*d.Margin), int(float64(h)*d.Margin)
	safe := image.Rect(mx, my, w-mx, h-my)

	edges := 0
	margin := 0
	var hit image.Rectangle
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if image.Pt(x, y).In(safe) {
				continue
			}
			margin++
			if sobel(gray, x, y) > d.EdgeThreshold {
				edges++
				hit = hit.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	if margin == 0 {
		return nil
	}
	share := float64(edges) / float64(margin)
	if share < d.MinShare {
		return nil
	}
	return []Finding{{Frame: frame, Kind: "safe-area", Score: share, Rect: hit}}
}

// sobel is the gradient magnitude at (x, y)
func sobel(g *image.Gray, x, y int) float64 {
	at := func(x, y int) float64 { return float64(g.Pix[y*g.Stride+x]) }

	gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
		at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
	gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
		at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
	return math.Sqrt(gx*gx + gy*gy)
}
