package renderer

import "math"

// Easing maps progress in [0,1] onto an eased progress
type Easing func(t float64) float64

// Linear is the identity easing
func Linear(t float64) float64 { return t }

// EaseInOutCubic applies smooth easing function
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutCubic decelerates towards the end
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInQuad accelerates from zero velocity
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutBack overshoots slightly before settling
func EaseOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// Bezier returns a cubic-bezier easing with control points (x1,y1) and (x2,y2),
// the same curve CSS uses. x1 and x2 are clamped into [0,1] so the curve stays
// a function of x.
func Bezier(x1, y1, x2, y2 float64) Easing {
	x1 = math.Max(0, math.Min(1, x1))
	x2 = math.Max(0, math.Min(1, x2))

	sample := func(a1, a2, t float64) float64 {
		// B(t) for P0=0, P3=1
		u := 1 - t
		return 3*u*u*t*a1 + 3*u*t*t*a2 + t*t*t
	}
	slope := func(a1, a2, t float64) float64 {
		u := 1 - t
		return 3*u*u*a1 + 6*u*t*(a2-a1) + 3*t*t*(1-a2)
	}

	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}
		if x1 == y1 && x2 == y2 {
			return x
		}

		// Newton first, bisection when the slope is too flat
		t := x
		for i := 0; i < 8; i++ {
			d := sample(x1, x2, t) - x
			if math.Abs(d) < 1e-7 {
				return sample(y1, y2, t)
			}
			s := slope(x1, x2, t)
			if math.Abs(s) < 1e-6 {
				break
			}
			t -= d / s
		}

		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < 40; i++ {
			v := sample(x1, x2, t)
			if math.Abs(v-x) < 1e-7 {
				break
			}
			if v < x {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return sample(y1, y2, t)
	}
}

// ParseEasing resolves an easing by name; unknown names are nil
func ParseEasing(name string) Easing {
	switch name {
	case "linear":
		return Linear
	case "ease-in-out", "ease-in-out-cubic":
		return EaseInOutCubic
	case "ease-out", "ease-out-cubic":
		return EaseOutCubic
	case "ease-in", "ease-in-quad":
		return EaseInQuad
	case "ease-out-back":
		return EaseOutBack
	case "ease":
		return Bezier(0.25, 0.1, 0.25, 1)
	}
	return nil
}
