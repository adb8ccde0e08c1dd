package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ivlev/phazur-promo/internal/asset"
	"github.com/ivlev/phazur-promo/internal/director"
	"github.com/ivlev/phazur-promo/internal/effects"
	"github.com/ivlev/phazur-promo/internal/renderer"
	"github.com/ivlev/phazur-promo/internal/scene"
)

const (
	testW = 160
	testH = 90
)

var red = scene.Hex(0xff0000)

func rectNode(id string, box scene.Box, c scene.Color) *scene.Node {
	n := &scene.Node{ID: id, Kind: scene.KindRect, Box: box, Style: scene.BaseStyle()}
	n.Style.Fill = c
	return n
}

func fullRed() *scene.Node {
	return rectNode("bg", scene.Box{W: testW, H: testH}, red)
}

func singleLayer(tree *scene.Node, t effects.Transform) director.Frame {
	return director.Frame{Layers: []director.Layer{{Scene: "test", Tree: tree, Transform: t}}}
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestDrawOpaqueRect(t *testing.T) {
	c := NewCanvas(testW, testH, nil, nil)
	tree := rectNode("box", scene.Box{X: 40, Y: 20, W: 40, H: 20}, red)

	img, err := c.Draw(singleLayer(tree, effects.Identity()))
	require.NoError(t, err)
	defer c.Release(img)

	assert.Equal(t, image.Rect(0, 0, testW, testH), img.Bounds())
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, rgbaAt(img, 60, 30))
	assert.Equal(t, color.RGBA{A: 0xff}, rgbaAt(img, 10, 10), "background stays black")
}

func TestDrawLayerOpacity(t *testing.T) {
	c := NewCanvas(testW, testH, nil, nil)
	tr := effects.Identity()
	tr.Opacity = 0.5

	img, err := c.Draw(singleLayer(fullRed(), tr))
	require.NoError(t, err)

	px := rgbaAt(img, 80, 45)
	assert.InDelta(t, 128, int(px.R), 2)
	assert.Equal(t, uint8(0xff), px.A)
}

func TestDrawInsetClip(t *testing.T) {
	c := NewCanvas(testW, testH, nil, nil)
	tr := effects.Identity()
	tr.Clip = effects.Clip{Kind: effects.ClipInset, Right: 0.5}

	img, err := c.Draw(singleLayer(fullRed(), tr))
	require.NoError(t, err)

	assert.Equal(t, uint8(0xff), rgbaAt(img, 20, 45).R, "left half revealed")
	assert.Equal(t, uint8(0), rgbaAt(img, 140, 45).R, "right half still hidden")
}

func TestDrawCircleClip(t *testing.T) {
	c := NewCanvas(testW, testH, nil, nil)
	tr := effects.Identity()
	tr.Clip = effects.Clip{Kind: effects.ClipCircle, CX: 0.5, CY: 0.5, Radius: 0.2}

	img, err := c.Draw(singleLayer(fullRed(), tr))
	require.NoError(t, err)

	assert.Equal(t, uint8(0xff), rgbaAt(img, 80, 45).R)
	assert.Equal(t, uint8(0), rgbaAt(img, 2, 2).R)
}

func TestDrawScaledLayer(t *testing.T) {
	c := NewCanvas(testW, testH, nil, nil)
	tr := effects.Identity()
	tr.Scale = 0.5

	img, err := c.Draw(singleLayer(fullRed(), tr))
	require.NoError(t, err)

	assert.Equal(t, uint8(0xff), rgbaAt(img, 80, 45).R, "center covered")
	assert.Equal(t, uint8(0), rgbaAt(img, 5, 5).R, "corner uncovered after shrinking")
}

func TestDrawNodeTransforms(t *testing.T) {
	c := NewCanvas(testW, testH, nil, nil)
	tree := rectNode("box", scene.Box{X: 0, Y: 0, W: 20, H: 20}, red)
	tree.Style.TranslateX = 100

	img, err := c.Draw(singleLayer(tree, effects.Identity()))
	require.NoError(t, err)
	assert.Equal(t, uint8(0), rgbaAt(img, 10, 10).R)
	assert.Equal(t, uint8(0xff), rgbaAt(img, 110, 10).R)

	hidden := rectNode("box", scene.Box{W: testW, H: testH}, red)
	hidden.Style.Opacity = 0
	img, err = c.Draw(singleLayer(hidden, effects.Identity()))
	require.NoError(t, err)
	assert.Equal(t, uint8(0), rgbaAt(img, 80, 45).R)
}

func TestDrawTextAndReveal(t *testing.T) {
	c := NewCanvas(testW, testH, nil, nil)
	text := &scene.Node{ID: "t", Kind: scene.KindText, Box: scene.Box{W: testW, H: testH}, Style: scene.BaseStyle(), Text: "PHAZUR"}
	text.Style.FontSize = 26
	text.Style.Fill = scene.White
	text.Style.Align = scene.AlignCenter

	lit := func(img *image.RGBA) int {
		n := 0
		for i := 0; i < len(img.Pix); i += 4 {
			if img.Pix[i] > 0x80 {
				n++
			}
		}
		return n
	}

	full, err := c.Draw(singleLayer(text, effects.Identity()))
	require.NoError(t, err)
	all := lit(full)
	assert.Positive(t, all)
	c.Release(full)

	text.Style.Reveal = 0.5
	half, err := c.Draw(singleLayer(text, effects.Identity()))
	require.NoError(t, err)
	assert.Positive(t, lit(half))
	assert.Less(t, lit(half), all)

	text.Style.Reveal = 0
	none, err := c.Draw(singleLayer(text, effects.Identity()))
	require.NoError(t, err)
	assert.Zero(t, lit(none))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"learn ai", "build the", "future"}, wrap("learn ai build the future", 9))
	assert.Equal(t, []string{"abcd", "ef"}, wrap("abcdef", 4))
	assert.Equal(t, []string{"a", "b"}, wrap("a\nb", 10))
	assert.Equal(t, []string{""}, wrap("", 10))
}

func TestMissingAssetPlaceholder(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := NewCanvas(testW, testH, asset.NewResolver(t.TempDir()), zap.New(core))
	logo := &scene.Node{ID: "logo", Kind: scene.KindImage, Box: scene.Box{X: 40, Y: 5, W: 80, H: 80}, Style: scene.BaseStyle(), Asset: "missing.png"}

	for i := 0; i < 2; i++ {
		img, err := c.Draw(singleLayer(logo, effects.Identity()))
		require.NoError(t, err)
		assert.NotEqual(t, color.RGBA{A: 0xff}, rgbaAt(img, 80, 45), "placeholder drawn")
		c.Release(img)
	}
	assert.Equal(t, 1, logs.FilterMessage("asset unavailable, drawing placeholder").Len(), "warned once")
}

func TestDrawQR(t *testing.T) {
	c := NewCanvas(testW, testH, nil, nil)
	qr := &scene.Node{ID: "qr", Kind: scene.KindQR, Box: scene.Box{X: 35, Y: 0, W: 90, H: 90}, Style: scene.BaseStyle(), Text: "https://phazur.com"}
	qr.Style.Fill = scene.White

	img, err := c.Draw(singleLayer(qr, effects.Identity()))
	require.NoError(t, err)

	dark, light := 0, 0
	for y := 8; y < 82; y++ {
		for x := 43; x < 117; x++ {
			if rgbaAt(img, x, y).R > 0x80 {
				light++
			} else {
				dark++
			}
		}
	}
	assert.Positive(t, dark)
	assert.Positive(t, light)
}

func TestDrawGlow(t *testing.T) {
	c := NewCanvas(testW, testH, nil, nil)
	img, err := c.Draw(director.Frame{Glow: 0.5, GlowColor: scene.Purple})
	require.NoError(t, err)

	center := rgbaAt(img, 80, 45)
	corner := rgbaAt(img, 0, 0)
	assert.Greater(t, center.B, corner.B)
}

func TestDrawDefaultCompositionFrame(t *testing.T) {
	tl, err := director.Compile(director.Default(), renderer.NewAnimator(director.FPS, 1024))
	require.NoError(t, err)

	c := NewCanvas(director.Width, director.Height, asset.NewResolver(t.TempDir()), nil)
	for _, f := range []int{30, 140, 1100} {
		a, err := c.Draw(tl.FrameAt(f))
		require.NoError(t, err, "frame %d", f)
		b, err := c.Draw(tl.FrameAt(f))
		require.NoError(t, err)
		assert.Equal(t, a.Pix, b.Pix, "frame %d renders identically", f)
		c.Release(a)
		c.Release(b)
	}
}
