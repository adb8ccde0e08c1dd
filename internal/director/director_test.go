package director

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/phazur-promo/internal/effects"
	"github.com/ivlev/phazur-promo/internal/renderer"
	"github.com/ivlev/phazur-promo/internal/scene"
)

func mustCompile(t *testing.T, c *Composition) *Timeline {
	t.Helper()
	tl, err := Compile(c, renderer.NewAnimator(c.FPS, 0))
	require.NoError(t, err)
	return tl
}

func TestDefaultLayout(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	layout := c.Layout()
	require.Len(t, layout, 9)
	for i, d := range layout {
		assert.Equal(t, i*(SceneDuration-TransitionOverlap), d.StartFrame, d.Name)
		assert.Equal(t, SceneDuration, d.DurationInFrames)
	}
	assert.Equal(t, "intro", layout[0].Name)
	assert.Equal(t, 130, layout[1].StartFrame, "start_2")
	assert.Equal(t, 1040, layout[8].StartFrame, "start_9")
	assert.Equal(t, "outro", layout[8].Name)

	n := len(layout)
	assert.Equal(t, n*SceneDuration-(n-1)*TransitionOverlap, c.TimelineEnd())
	assert.Equal(t, 1190, c.TimelineEnd())
	assert.Equal(t, DurationInFrames, c.EffectiveDuration())
}

func TestActiveScenes(t *testing.T) {
	tl := mustCompile(t, Default())

	tests := []struct {
		frame int
		want  []int
	}{
		{-1, nil},
		{0, []int{0}},
		{129, []int{0}},
		{130, []int{0, 1}},
		{149, []int{0, 1}},
		{150, []int{1}},
		{1040, []int{7, 8}},
		{1059, []int{7, 8}},
		{1060, []int{8}},
		// outro holds past its own end until the declared duration
		{1195, []int{8}},
		{1199, []int{8}},
		{1200, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tl.Active(tt.frame), "frame %d", tt.frame)
	}
}

func TestFrameAtCrossfade(t *testing.T) {
	tl := mustCompile(t, Default())

	f := tl.FrameAt(140)
	require.Len(t, f.Layers, 2)
	assert.Equal(t, "intro", f.Layers[0].Scene)
	assert.Equal(t, 140, f.Layers[0].LocalFrame)
	assert.Equal(t, "paths", f.Layers[1].Scene, "later scene on top")
	assert.Equal(t, 10, f.Layers[1].LocalFrame)

	// intro is type "in": steady through its overlap
	assert.True(t, f.Layers[0].Transform.IsIdentity())
	// paths moves left, entering from the right edge
	assert.Greater(t, f.Layers[1].Transform.TranslateX, 0.0)
	assert.Less(t, f.Layers[1].Transform.TranslateX, float64(Width))

	logo := tl.FrameAt(30).Layers[0].Tree.Find("intro.logo")
	require.NotNil(t, logo)
	assert.InDelta(t, 1.0, logo.Style.Opacity, 1e-9)
}

func TestGlow(t *testing.T) {
	tl := mustCompile(t, Default())

	assert.Zero(t, tl.GlowAt(0))
	assert.Zero(t, tl.GlowAt(129))
	assert.InDelta(t, 0.0, tl.GlowAt(130), 1e-12, "pulse starts at the boundary")
	assert.InDelta(t, DefaultGlowPeak, tl.GlowAt(140), 1e-12, "peak mid-window")
	assert.InDelta(t, DefaultGlowPeak*math.Sin(math.Pi/4), tl.GlowAt(1045), 1e-12)
	assert.Zero(t, tl.GlowAt(150))
	assert.Equal(t, scene.Purple, tl.FrameAt(140).GlowColor)

	assert.Equal(t, []int{130, 260, 390, 520, 650, 780, 910, 1040}, tl.Boundaries())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Composition)
		target error
	}{
		{"no entries", func(c *Composition) { c.Entries = nil }, ErrInvalidComposition},
		{"zero fps", func(c *Composition) { c.FPS = 0 }, ErrInvalidComposition},
		{"negative duration", func(c *Composition) { c.DurationInFrames = -1 }, ErrInvalidComposition},
		{"overlap too long", func(c *Composition) { c.Overlap = SceneDuration }, ErrInvalidComposition},
		{"zero scene duration", func(c *Composition) { c.Entries[3].DurationInFrames = 0 }, ErrInvalidComposition},
		{"duplicate scene", func(c *Composition) { c.Entries[2].Scene.ID = "intro" }, ErrInvalidComposition},
		{"bad scene", func(c *Composition) { c.Entries[1].Scene.ID = "" }, scene.ErrInvalidSpec},
		{"bad transition", func(c *Composition) { c.Entries[1].Transition.Kind = "spin" }, effects.ErrUnknownTransition},
		{"unpaired", func(c *Composition) { c.Entries[4].Transition = effects.Config{Kind: effects.KindNone} }, ErrUnpairedBoundary},
		{"in only on next", func(c *Composition) {
			c.Entries[4].Transition = effects.Config{Kind: effects.KindFade, Mode: effects.ModeOut}
		}, ErrUnpairedBoundary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), tt.target)
		})
	}
}

func TestValidatePairedByExit(t *testing.T) {
	c := Default()
	c.Entries[4].Transition = effects.Config{Kind: effects.KindNone}
	c.Entries[3].Transition.Mode = effects.ModeBoth
	assert.NoError(t, c.Validate())

	// a hard cut is allowed when scenes do not overlap
	c = Default()
	c.Overlap = 0
	c.Entries[4].Transition = effects.Config{Kind: effects.KindNone}
	assert.NoError(t, c.Validate())
}

func TestWarnings(t *testing.T) {
	w := Default().Warnings()
	// 0.15*150 = 22.5 frame ramps against a 20-frame overlap
	assert.Len(t, w, 9)
	assert.Contains(t, w[0], "paths")
	assert.Contains(t, w[len(w)-1], "holds for the last 10 frames")

	c := Default()
	for i := range c.Entries {
		c.Entries[i].Transition.Fraction = 0.1
	}
	c.DurationInFrames = c.TimelineEnd()
	assert.Empty(t, c.Warnings())
}

func TestCompositionYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phazur.yaml")
	in := Default()
	require.NoError(t, WriteComposition(in, path))

	out, err := ReadComposition(path)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("composition changed on disk (-written +read):\n%s", diff)
	}
	require.NoError(t, out.Validate())
}

func TestFrameAtDeterministic(t *testing.T) {
	plain := mustCompile(t, Default())
	cached, err := Compile(Default(), renderer.NewAnimator(FPS, 512))
	require.NoError(t, err)

	for _, f := range []int{0, 20, 135, 500, 1045, 1199} {
		if diff := cmp.Diff(plain.FrameAt(f), cached.FrameAt(f)); diff != "" {
			t.Fatalf("frame %d differs with memoization (-plain +cached):\n%s", f, diff)
		}
	}
}
