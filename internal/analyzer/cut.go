package analyzer

import (
	"image"
	"math"
	"sync"
)

// CutDetector flags frames that differ sharply from the previous one.
// Cross-fades and slides spread change over many frames; a hard cut or a
// popping element shows up as a single large jump.
type CutDetector struct {
	Threshold float64 // mean absolute luma difference, 0..1
	Step      int     // sampling step in pixels

	mu    sync.Mutex
	prev  *image.Gray
	frame int
}

// NewCutDetector creates a detector with default settings
func NewCutDetector() *CutDetector {
	return &CutDetector{
		Threshold: 0.25,
		Step:      4,
	}
}

// Analyze compares img with the frame seen before it
func (d *CutDetector) Analyze(frame int, img *image.RGBA) []Finding {
	gray, _ := grayscale(img, d.Step)

	d.mu.Lock()
	prev := d.prev
	prevFrame := d.frame
	d.prev, d.frame = gray, frame
	d.mu.Unlock()

	if prev == nil || prev.Rect != gray.Rect || frame != prevFrame+1 {
		return nil
	}
	score := Difference(prev, gray)
	if score < d.Threshold {
		return nil
	}
	return []Finding{{Frame: frame, Kind: "cut", Score: score}}
}

// Reset forgets the previous frame
func (d *CutDetector) Reset() {
	d.mu.Lock()
	d.prev = nil
	d.mu.Unlock()
}

// Difference is the mean absolute difference of two equally sized gray images, 0..1
func Difference(a, b *image.Gray) float64 {
	if len(a.Pix) == 0 || len(a.Pix) != len(b.Pix) {
		return 0
	}
	sum := 0.0
	for i := range a.Pix {
		sum += math.Abs(float64(a.Pix[i]) - float64(b.Pix[i]))
	}
	return sum / float64(len(a.Pix)) / 255
}
