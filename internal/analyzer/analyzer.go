package analyzer

import (
	"fmt"
	"image"
)

// Finding is something worth a look in a rendered frame
type Finding struct {
	Frame int             `yaml:"frame"`
	Kind  string          `yaml:"kind"`
	Score float64         `yaml:"score"`
	Rect  image.Rectangle `yaml:"-"`
}

func (f Finding) String() string {
	if f.Rect.Empty() {
		return fmt.Sprintf("frame %d: %s (%.3f)", f.Frame, f.Kind, f.Score)
	}
	return fmt.Sprintf("frame %d: %s (%.3f) at %v", f.Frame, f.Kind, f.Score, f.Rect)
}

// Analyzer inspects frames in render order
type Analyzer interface {
	Analyze(frame int, img *image.RGBA) []Finding
}

// New creates an analyzer by name
func New(name string) (Analyzer, error) {
	switch name {
	case "cuts", "":
		return NewCutDetector(), nil
	case "safe-area":
		return NewSafeAreaDetector(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer: %s", name)
	}
}

// luma is the Rec. 601 brightness of an RGBA pixel, 0..255
func luma(pix []uint8, i int) uint8 {
	return uint8((299*uint32(pix[i]) + 587*uint32(pix[i+1]) + 114*uint32(pix[i+2])) / 1000)
}

// grayscale converts img, keeping one pixel out of every step in both axes
func grayscale(img *image.RGBA, step int) (*image.Gray, int) {
	if step < 1 {
		step = 1
	}
	b := img.Bounds()
	w, h := (b.Dx()+step-1)/step, (b.Dy()+step-1)/step
	gray := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		row := img.Pix[(y*step)*img.Stride:]
		for x := 0; x < w; x++ {
			gray.Pix[y*gray.Stride+x] = luma(row, x*step*4)
		}
	}
	return gray, step
}
