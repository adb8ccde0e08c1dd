package preview

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ivlev/phazur-promo/internal/director"
	"github.com/ivlev/phazur-promo/internal/effects"
	"github.com/ivlev/phazur-promo/internal/raster"
	"github.com/ivlev/phazur-promo/internal/renderer"
	"github.com/ivlev/phazur-promo/internal/scene"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func smallComposition() *director.Composition {
	return &director.Composition{
		FPS: 30, Width: 64, Height: 36,
		DurationInFrames: 58,
		Overlap:          2,
		Entries: []director.Entry{
			{
				Scene:            scene.Spec{ID: "a", Background: scene.Background{From: scene.Navy, To: scene.Navy}},
				DurationInFrames: 30,
			},
			{
				Scene:            scene.Spec{ID: "b", Background: scene.Background{From: scene.Amber, To: scene.Amber}},
				DurationInFrames: 30,
				Transition:       effects.Config{Kind: effects.KindFade},
			},
		},
	}
}

func compile(t *testing.T, c *director.Composition) *director.Timeline {
	t.Helper()
	tl, err := director.Compile(c, renderer.NewAnimator(c.FPS, 0))
	require.NoError(t, err)
	return tl
}

func newModel(t *testing.T) *Model {
	t.Helper()
	c := smallComposition()
	return NewModel(compile(t, c), raster.NewCanvas(c.Width, c.Height, nil, nil), zaptest.NewLogger(t))
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(40, 12)
	return s
}

func TestStepAndSeek(t *testing.T) {
	m := newModel(t)
	m.Step(-5)
	assert.Equal(t, 0, m.Frame)
	m.Step(100)
	assert.Equal(t, 57, m.Frame)

	m.Playing = true
	m.Step(1)
	assert.Equal(t, 0, m.Frame, "playback loops")
}

func TestJumpScene(t *testing.T) {
	m := newModel(t)
	m.JumpScene(1)
	assert.Equal(t, 28, m.Frame)
	m.JumpScene(1)
	assert.Equal(t, 28, m.Frame, "no scene after the last")
	m.JumpScene(-1)
	assert.Equal(t, 0, m.Frame)
}

func TestHandleKey(t *testing.T) {
	m := newModel(t)
	key := func(k tcell.Key, r rune) bool { return m.HandleKey(tcell.NewEventKey(k, r, tcell.ModNone)) }

	assert.False(t, key(tcell.KeyRight, 0))
	assert.False(t, key(tcell.KeyRune, 'l'))
	assert.Equal(t, 2, m.Frame)
	assert.False(t, key(tcell.KeyPgDn, 0))
	assert.Equal(t, 32, m.Frame)
	assert.False(t, key(tcell.KeyRune, ' '))
	assert.True(t, m.Playing)
	assert.False(t, key(tcell.KeyHome, 0))
	assert.Equal(t, 0, m.Frame)
	assert.True(t, key(tcell.KeyRune, 'q'))
	assert.True(t, key(tcell.KeyEscape, 0))
}

func TestStatusLine(t *testing.T) {
	m := newModel(t)
	m.Seek(29)
	line := m.StatusLine()
	assert.Contains(t, line, "29/58")
	assert.Contains(t, line, "a+b")
	assert.Contains(t, line, "00:00.29")
}

func TestFitSize(t *testing.T) {
	w, h := fitSize(1920, 1080, 80, 24)
	assert.Equal(t, 80, w)
	assert.Equal(t, 44, h)

	w, h = fitSize(1920, 1080, 200, 10)
	assert.Equal(t, 35, w)
	assert.Equal(t, 20, h)
}

func TestDrawPaintsFrame(t *testing.T) {
	m := newModel(t)
	s := newScreen(t)
	defer s.Fini()

	require.NoError(t, m.Draw(s))

	r, _, st, _ := s.GetContent(20, 2)
	assert.Equal(t, '▀', r)
	fg, _, _ := st.Decompose()
	nr, ng, nb := fg.RGB()
	navy := scene.Navy.RGBA()
	assert.InDelta(t, int32(navy.R), nr, 3)
	assert.InDelta(t, int32(navy.G), ng, 3)
	assert.InDelta(t, int32(navy.B), nb, 3)

	r, _, _, _ = s.GetContent(0, 11)
	assert.Equal(t, '|', r, "status line starts with the pause marker")
}

func TestRunQuitsOnKey(t *testing.T) {
	m := newModel(t)
	s := newScreen(t)

	s.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background(), s, nil) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	assert.Equal(t, 2, m.Frame)
}

func TestRunAppliesReload(t *testing.T) {
	m := newModel(t)
	m.Seek(57)
	s := newScreen(t)

	shorter := smallComposition()
	shorter.DurationInFrames = 0
	shorter.Entries[1].DurationInFrames = 12

	reload := make(chan *director.Timeline, 1)
	reload <- compile(t, shorter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, s, reload) }()

	require.Eventually(t, func() bool { return len(reload) == 0 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, 40, m.Timeline.Duration())
	assert.Equal(t, 39, m.Frame, "playhead clamped to the new end")
	assert.Contains(t, m.Status, "reloaded")
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "promo.yaml")
	require.NoError(t, director.WriteComposition(smallComposition(), path))

	load := func(p string) (*director.Timeline, error) {
		c, err := director.ReadComposition(p)
		if err != nil {
			return nil, err
		}
		return director.Compile(c, renderer.NewAnimator(c.FPS, 0))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := Watch(ctx, path, 20*time.Millisecond, load, zaptest.NewLogger(t))
	require.NoError(t, err)

	// unrelated files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	c := smallComposition()
	c.Entries[0].DurationInFrames = 40
	require.NoError(t, director.WriteComposition(c, path))

	select {
	case tl := <-ch:
		assert.Equal(t, 68, tl.Duration())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	for range ch {
	}
}
