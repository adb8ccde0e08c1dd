package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/phazur-promo/internal/renderer"
)

const (
	testW = 1920
	testH = 1080
)

func mustNew(t *testing.T, cfg Config) Transition {
	t.Helper()
	tr, err := New(cfg, testW, testH, renderer.NewAnimator(30, 0))
	require.NoError(t, err)
	return tr
}

func TestWipeRightRevealsOverRamp(t *testing.T) {
	tr := mustNew(t, Config{Kind: KindWipe, Mode: ModeIn, Direction: Right})

	start := tr.Apply(0, 150)
	assert.Equal(t, ClipInset, start.Clip.Kind)
	assert.InDelta(t, 0.0, start.Clip.Coverage(testW, testH), 1e-9, "nothing revealed at frame 0")

	// 0.15 * 150 = 22.5 frames
	mid := tr.Apply(11, 150)
	assert.InDelta(t, 11/22.5, mid.Clip.Coverage(testW, testH), 1e-9)
	require.NotNil(t, mid.Highlight)
	assert.True(t, mid.Highlight.Vertical)
	assert.InDelta(t, 11/22.5, mid.Highlight.Position, 1e-9)
	assert.Greater(t, mid.Highlight.Opacity, 0.9)

	done := tr.Apply(23, 150)
	assert.InDelta(t, 1.0, done.Clip.Coverage(testW, testH), 1e-9, "fully revealed after the ramp")

	// type "in": no exit ramp, steady to the end
	assert.True(t, tr.Apply(149, 150).IsIdentity())
}

func TestWipeDirections(t *testing.T) {
	tests := []struct {
		dir   Direction
		check func(c Clip) bool
	}{
		{Left, func(c Clip) bool { return c.Left > 0 && c.Right == 0 }},
		{Right, func(c Clip) bool { return c.Right > 0 && c.Left == 0 }},
		{Up, func(c Clip) bool { return c.Top > 0 && c.Bottom == 0 }},
		{Down, func(c Clip) bool { return c.Bottom > 0 && c.Top == 0 }},
		{Center, func(c Clip) bool { return c.Top > 0 && c.Top == c.Left && c.Left == c.Bottom && c.Bottom == c.Right }},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			tr := mustNew(t, Config{Kind: KindWipe, Direction: tt.dir})
			clip := tr.Apply(5, 150).Clip
			assert.True(t, tt.check(clip), "unexpected clip %+v", clip)
		})
	}
}

func TestWipeOutHidesAtEnd(t *testing.T) {
	tr := mustNew(t, Config{Kind: KindWipe, Mode: ModeOut, Direction: Right})
	assert.True(t, tr.Apply(0, 150).IsIdentity())
	assert.InDelta(t, 0.0, tr.Apply(150, 150).Clip.Coverage(testW, testH), 1e-9)
}

func TestFadeModes(t *testing.T) {
	tests := []struct {
		mode   Mode
		frame  int
		expect float64
	}{
		{ModeIn, 0, 0},
		{ModeIn, 75, 1},
		{ModeIn, 150, 1},
		{ModeOut, 0, 1},
		{ModeOut, 150, 0},
		{ModeBoth, 0, 0},
		{ModeBoth, 75, 1},
		{ModeBoth, 150, 0},
	}

	for _, tt := range tests {
		tr := mustNew(t, Config{Kind: KindFade, Mode: tt.mode})
		got := tr.Apply(tt.frame, 150).Opacity
		if got != tt.expect {
			t.Errorf("fade %s at %d: expected %.2f, got %.2f", tt.mode, tt.frame, tt.expect, got)
		}
	}
}

func TestSlideEntersFromOffscreen(t *testing.T) {
	tests := []struct {
		dir    Direction
		wantX  float64
		wantY  float64
		exitDX float64
		exitDY float64
	}{
		{Left, testW, 0, -testW, 0},
		{Right, -testW, 0, testW, 0},
		{Up, 0, testH, 0, -testH},
		{Down, 0, -testH, 0, testH},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			tr := mustNew(t, Config{Kind: KindSlide, Mode: ModeBoth, Direction: tt.dir, Fraction: 0.2})
			start := tr.Apply(0, 150)
			assert.InDelta(t, tt.wantX, start.TranslateX, 1e-9)
			assert.InDelta(t, tt.wantY, start.TranslateY, 1e-9)

			steady := tr.Apply(75, 150)
			assert.InDelta(t, 0, steady.TranslateX, 1)
			assert.InDelta(t, 0, steady.TranslateY, 1)

			end := tr.Apply(150, 150)
			assert.InDelta(t, tt.exitDX, end.TranslateX, 1e-9)
			assert.InDelta(t, tt.exitDY, end.TranslateY, 1e-9)
		})
	}
}

func TestZoomScales(t *testing.T) {
	tr := mustNew(t, Config{Kind: KindZoom, Mode: ModeBoth, StartScale: 0.8, EndScale: 1.2})
	start := tr.Apply(0, 100)
	assert.InDelta(t, 0.8, start.Scale, 1e-9)
	assert.Equal(t, 0.0, start.Opacity)

	steady := tr.Apply(50, 100)
	assert.InDelta(t, 1.0, steady.Scale, 1e-9)
	assert.Equal(t, 1.0, steady.Opacity)

	end := tr.Apply(100, 100)
	assert.InDelta(t, 1.2, end.Scale, 1e-9)
	assert.Equal(t, 0.0, end.Opacity)
}

func TestMorphCircleGrows(t *testing.T) {
	tr := mustNew(t, Config{Kind: KindMorph})
	prev := -1.0
	for f := 0; f <= 23; f++ {
		tf := tr.Apply(f, 150)
		r := 1.0
		if tf.Clip.Kind == ClipCircle {
			r = tf.Clip.Radius
		}
		require.GreaterOrEqual(t, r, prev)
		prev = r
	}
	assert.InDelta(t, 0.0, tr.Apply(0, 150).Clip.Coverage(testW, testH), 1e-9)
	assert.True(t, tr.Apply(30, 150).IsIdentity())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, Config{Kind: KindWipe, Direction: Center}.Validate())
	require.NoError(t, Config{}.Validate())

	require.ErrorIs(t, Config{Kind: "spin"}.Validate(), ErrUnknownTransition)
	require.ErrorIs(t, Config{Kind: KindFade, Mode: "sideways"}.Validate(), ErrUnknownTransition)
	require.ErrorIs(t, Config{Kind: KindSlide, Direction: Center}.Validate(), ErrUnknownTransition)
	require.Error(t, Config{Kind: KindFade, Fraction: 0.8}.Validate())
}

func TestEntryExitFlags(t *testing.T) {
	assert.True(t, Config{Kind: KindFade}.HasEntry())
	assert.False(t, Config{Kind: KindFade}.HasExit())
	assert.True(t, Config{Kind: KindFade, Mode: ModeBoth}.HasExit())
	assert.False(t, Config{Kind: KindNone, Mode: ModeBoth}.HasEntry())
	assert.InDelta(t, 22.5, Config{Kind: KindWipe}.RampFrames(150), 1e-12)
}

func TestTransformCompose(t *testing.T) {
	a := Transform{Opacity: 0.5, Scale: 2, TranslateX: 10, Clip: Clip{Kind: ClipInset, Left: 0.2}}
	b := Transform{Opacity: 0.5, Scale: 0.5, TranslateX: 5, Clip: Clip{Kind: ClipInset, Right: 0.3}}
	c := a.Compose(b)
	assert.Equal(t, 0.25, c.Opacity)
	assert.Equal(t, 1.0, c.Scale)
	assert.Equal(t, 15.0, c.TranslateX)
	assert.Equal(t, 0.2, c.Clip.Left)
	assert.Equal(t, 0.3, c.Clip.Right)

	assert.True(t, Identity().Compose(Identity()).IsIdentity())
}
