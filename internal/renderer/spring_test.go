package renderer

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var springRegimes = []struct {
	name string
	cfg  SpringConfig
}{
	{"underdamped", SpringConfig{Mass: 1, Damping: 10, Stiffness: 100}},
	{"critical", SpringConfig{Mass: 1, Damping: 20, Stiffness: 100}},
	{"overdamped", SpringConfig{Mass: 1, Damping: 50, Stiffness: 100}},
	{"heavy", SpringConfig{Mass: 3, Damping: 12, Stiffness: 180}},
}

func TestSpringStartsAtRest(t *testing.T) {
	for _, tt := range springRegimes {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.0, Spring(0, 30, tt.cfg))
			assert.Equal(t, 0.0, Spring(-12, 30, tt.cfg))
		})
	}
}

func TestSpringConverges(t *testing.T) {
	for _, tt := range springRegimes {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, 1.0, Spring(900, 30, tt.cfg), 1e-6)
			t.Logf("ratio=%.3f frame30=%.4f frame60=%.4f", tt.cfg.DampingRatio(), Spring(30, 30, tt.cfg), Spring(60, 30, tt.cfg))
		})
	}
}

func TestSpringRegimeShapes(t *testing.T) {
	under := springRegimes[0].cfg
	peak := 0.0
	for f := 0.0; f < 60; f++ {
		peak = math.Max(peak, Spring(f, 30, under))
	}
	assert.Greater(t, peak, 1.0, "underdamped spring should overshoot")

	for _, cfg := range []SpringConfig{springRegimes[1].cfg, springRegimes[2].cfg} {
		prev := 0.0
		for f := 1.0; f < 200; f++ {
			v := Spring(f, 30, cfg)
			require.LessOrEqual(t, v, 1.0+1e-12)
			require.GreaterOrEqual(t, v, prev-1e-12, "non-oscillating spring must be monotonic")
			prev = v
		}
	}
}

func TestSpringOvershootClamping(t *testing.T) {
	cfg := SpringConfig{Mass: 1, Damping: 5, Stiffness: 200, OvershootClamping: true}
	for f := 0.0; f < 120; f++ {
		require.LessOrEqual(t, Spring(f, 30, cfg), 1.0)
	}
}

func TestSpringMatchesUnderdampedClosedForm(t *testing.T) {
	cfg := DefaultSpring()
	w0 := 10.0
	zeta := 0.5
	wd := w0 * math.Sqrt(1-zeta*zeta)
	for _, f := range []float64{1, 7, 15, 33} {
		tt := f / 30
		want := 1 - math.Exp(-zeta*w0*tt)*(math.Cos(wd*tt)+zeta*w0/wd*math.Sin(wd*tt))
		assert.InDelta(t, want, Spring(f, 30, cfg), 1e-12)
	}
}

func TestSpringConfigValidate(t *testing.T) {
	require.NoError(t, DefaultSpring().Validate())
	require.Error(t, SpringConfig{Mass: 0, Damping: 1, Stiffness: 1}.Validate())
	require.Error(t, SpringConfig{Mass: 1, Damping: 1, Stiffness: -1}.Validate())
	require.Error(t, SpringConfig{Mass: 1, Damping: -1, Stiffness: 1}.Validate())
}

func TestAnimateDelayAndRange(t *testing.T) {
	opts := SpringOptions{Config: DefaultSpring(), From: 0.5, To: 1, Delay: 10}
	assert.Equal(t, 0.5, Animate(10, 30, opts))
	assert.Equal(t, 0.5, Animate(3, 30, opts))
	assert.InDelta(t, 1.0, Animate(600, 30, opts), 1e-6)
}

func TestAnimateDurationStretch(t *testing.T) {
	cfg := SpringConfig{Mass: 1, Damping: 20, Stiffness: 100}
	natural := SpringSettleFrames(30, cfg, settleThreshold)
	require.Greater(t, natural, 0)

	opts := SpringOptions{Config: cfg, From: 0, To: 1, DurationInFrames: 2 * float64(natural)}
	// at twice the natural length, the stretched spring at 2x frames equals the natural one at x
	assert.InDelta(t, Spring(float64(natural)/2, 30, cfg), Animate(float64(natural), 30, opts), 1e-9)
	assert.InDelta(t, 1.0, Animate(opts.DurationInFrames, 30, opts), settleThreshold)
}

func TestSpringIsBitIdentical(t *testing.T) {
	for _, tt := range springRegimes {
		for f := 0.0; f < 90; f += 0.5 {
			a := Spring(f, 30, tt.cfg)
			b := Spring(f, 30, tt.cfg)
			if math.Float64bits(a) != math.Float64bits(b) {
				t.Fatalf("%s: frame %.1f not bit identical", tt.name, f)
			}
		}
	}
}

func TestAnimatorCacheDoesNotChangeResults(t *testing.T) {
	cached := NewAnimator(30, 64)
	plain := NewAnimator(30, 0)

	input := []float64{0, 20, 40}
	output := []float64{0, 1, 0}
	opts := SpringOptions{Config: DefaultSpring(), From: 0, To: 1, Delay: 5, DurationInFrames: 40}

	// two passes so the second one is served from the cache (with evictions, 64 < frames)
	for pass := 0; pass < 2; pass++ {
		for f := -10.0; f < 120; f++ {
			require.Equal(t, plain.Interpolate(f, input, output), cached.Interpolate(f, input, output))
			require.Equal(t,
				plain.Interpolate(f, input, output, WithExtrapolate(Extend)),
				cached.Interpolate(f, input, output, WithExtrapolate(Extend)))
			require.Equal(t, plain.Spring(f, DefaultSpring()), cached.Spring(f, DefaultSpring()))
			require.Equal(t, plain.SpringValue(f, opts), cached.SpringValue(f, opts))
			require.Equal(t, Animate(f, 30, opts), cached.SpringValue(f, opts))
		}
	}
	assert.LessOrEqual(t, cached.interp.Len(), 64)
}

func TestCacheEvictsOldestHalf(t *testing.T) {
	c := NewCache[int, int](10)
	for i := 0; i < 10; i++ {
		c.Put(i, i*i)
	}
	assert.Equal(t, 10, c.Len())

	c.Put(10, 100)
	// 11 entries > 10: the oldest 5 go away
	assert.Equal(t, 6, c.Len())
	for i := 0; i < 5; i++ {
		_, ok := c.Get(i)
		assert.False(t, ok, "entry %d should be evicted", i)
	}
	for i := 5; i <= 10; i++ {
		v, ok := c.Get(i)
		assert.True(t, ok)
		assert.Equal(t, i*i, v)
	}
}

func TestCacheConcurrentUse(t *testing.T) {
	c := NewCache[int, float64](100)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				c.Put(w*1000+i, float64(i))
				c.Get(i)
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 100)
}
