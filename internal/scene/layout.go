package scene

import "math"

// boxes splits the layout area into n item boxes
func (l Layout) boxes(n int) []Box {
	if n == 0 {
		return nil
	}
	a := l.Area
	gap := l.Gap
	out := make([]Box, n)

	switch l.Kind {
	case LayoutRow:
		w := (a.W - gap*float64(n-1)) / float64(n)
		for i := range out {
			out[i] = Box{X: a.X + float64(i)*(w+gap), Y: a.Y, W: w, H: a.H}
		}
	case LayoutGrid:
		cols := l.Columns
		if cols <= 0 {
			cols = 3
		}
		rows := int(math.Ceil(float64(n) / float64(cols)))
		w := (a.W - gap*float64(cols-1)) / float64(cols)
		h := (a.H - gap*float64(rows-1)) / float64(rows)
		for i := range out {
			r, c := i/cols, i%cols
			out[i] = Box{X: a.X + float64(c)*(w+gap), Y: a.Y + float64(r)*(h+gap), W: w, H: h}
		}
	case LayoutChat:
		h := (a.H - gap*float64(n-1)) / float64(n)
		w := a.W * 0.62
		for i := range out {
			out[i] = Box{X: a.X, Y: a.Y + float64(i)*(h+gap), W: w, H: h}
		}
	case LayoutTimeline:
		w := a.W / float64(n)
		for i := range out {
			out[i] = Box{X: a.X + float64(i)*w, Y: a.Y, W: w, H: a.H}
		}
	case LayoutTable:
		// row 0 is the header
		h := a.H / float64(n+1)
		for i := range out {
			out[i] = Box{X: a.X, Y: a.Y + float64(i+1)*h, W: a.W, H: h}
		}
	default: // stack
		h := (a.H - gap*float64(n-1)) / float64(n)
		for i := range out {
			out[i] = Box{X: a.X, Y: a.Y + float64(i)*(h+gap), W: a.W, H: h}
		}
	}
	return out
}
