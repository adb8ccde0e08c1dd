package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/phazur-promo/internal/config"
	"github.com/ivlev/phazur-promo/internal/director"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	t.Logf("phazur-promo %v:\n%s", args, out.String())
	return out.String(), err
}

func TestInitWritesEditableFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "input")

	out, err := run(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "[+++]")

	comp, err := director.ReadComposition(filepath.Join(dir, "phazur.yaml"))
	require.NoError(t, err)
	assert.Len(t, comp.Entries, 9)
	require.NoError(t, comp.Validate())

	cfg, err := config.LoadFile(filepath.Join(dir, "render.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "phazur.yaml"), cfg.CompositionPath)

	_, err = run(t, "init", dir)
	assert.Error(t, err, "refuses to overwrite")
	_, err = run(t, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestDescribe(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "встроенная композиция")
	assert.Contains(t, out, "outro")
	assert.Contains(t, out, "1040")
	assert.Contains(t, out, "holds for the last 10 frames")

	out, err = run(t, "describe", "--frame", "140")
	require.NoError(t, err)
	assert.Contains(t, out, "layers:")
	assert.Contains(t, out, "paths.title")

	_, err = run(t, "describe", "--frame", "5000")
	assert.Error(t, err)
}

func TestTimeline(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "timeline")
	require.NoError(t, err)
	assert.Contains(t, out, "boundary")
	assert.Contains(t, out, "whoosh")
	assert.Contains(t, out, "120 BPM")
}

func TestCompositionFromConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	c := director.Default()
	c.Entries = c.Entries[:2]
	c.DurationInFrames = 0
	require.NoError(t, director.WriteComposition(c, "short.yaml"))
	require.NoError(t, os.WriteFile("render.yaml", []byte("composition: short.yaml\n"), 0644))

	out, err := run(t, "describe", "--config", "render.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "short.yaml")
	assert.Contains(t, out, "2 сцен")
}

func TestFrameAndCues(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	png := filepath.Join(dir, "f.png")
	_, err := run(t, "frame", "30", "-o", png)
	require.NoError(t, err)
	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = run(t, "frame", "-1")
	assert.Error(t, err)

	wav := filepath.Join(dir, "cues.wav")
	out, err := run(t, "cues", "-o", wav)
	require.NoError(t, err)
	assert.Contains(t, out, "меток")
	_, err = os.Stat(wav)
	assert.NoError(t, err)
}

func TestRenderFramesOnly(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	frames := filepath.Join(dir, "frames")
	out, err := run(t, "render", "--frames", frames, "--from", "128", "--to", "132", "--workers", "2", "--batch", "2", "--analyze", "cuts")
	require.NoError(t, err)
	assert.Contains(t, out, "[>] Ready: 4/4")
	assert.Contains(t, out, "[+++] Успех! Результат: "+frames)

	for _, i := range []int{128, 129, 130, 131} {
		_, err := os.Stat(filepath.Join(frames, fmt.Sprintf("frame_%05d.png", i)))
		assert.NoError(t, err, "frame %d", i)
	}
}

func TestRenderRejectsBadPreset(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := run(t, "render", "--frames", "frames", "--preset", "3:2")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
