package video

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseParams() Params {
	return Params{
		Width: 1920, Height: 1080,
		FPS:     30,
		Encoder: "libx264",
		Quality: 23,
		Output:  "out.mp4",
	}
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestBuildFFmpegArgsPlain(t *testing.T) {
	args := buildFFmpegArgs(baseParams())

	assert.Equal(t, "1920x1080", argValue(args, "-video_size"))
	assert.Equal(t, "30", argValue(args, "-framerate"))
	assert.Equal(t, "0:v", argValue(args, "-map"))
	assert.Equal(t, "23", argValue(args, "-crf"))
	assert.NotContains(t, args, "-filter_complex")
	assert.NotContains(t, args, "-shortest")
	assert.Equal(t, "out.mp4", args[len(args)-1])
}

func TestBuildFFmpegArgsScaleAndAudio(t *testing.T) {
	p := baseParams()
	p.OutputWidth, p.OutputHeight = 1080, 1920
	p.PadColor = "0x0B1026"
	p.Audio = []string{"music.mp3", "cues.wav"}
	args := buildFFmpegArgs(p)

	graph := argValue(args, "-filter_complex")
	assert.Contains(t, graph, "[0:v]scale=1080:1920:force_original_aspect_ratio=decrease")
	assert.Contains(t, graph, "color=0x0B1026")
	assert.Contains(t, graph, "[1:a][2:a]amix=inputs=2")
	assert.Contains(t, strings.Join(args, " "), "-map [vout] -map [aout]")
	assert.Contains(t, args, "-shortest")
}

func TestBuildFFmpegArgsSingleAudio(t *testing.T) {
	p := baseParams()
	p.Audio = []string{"music.mp3"}
	args := buildFFmpegArgs(p)
	assert.NotContains(t, args, "-filter_complex")
	assert.Contains(t, strings.Join(args, " "), "-map 0:v -map 1:a")
}

func TestQualityArgs(t *testing.T) {
	assert.Equal(t, []string{"-b:v", "7500k"}, qualityArgs("h264_videotoolbox", 75))
	assert.Equal(t, []string{"-cq", "28"}, qualityArgs("h264_nvenc", 28))
	assert.Equal(t, []string{"-crf", "18", "-preset", "medium"}, qualityArgs("libx264", 18))
}

func TestWriteRawRGBASubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{R: 255, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	var buf bytes.Buffer
	require.NoError(t, writeRawRGBA(&buf, sub))
	assert.Equal(t, 2*2*4, buf.Len())
	assert.Equal(t, []byte{255, 0, 0, 255}, buf.Bytes()[:4])
}

func TestEncoderGuards(t *testing.T) {
	e := NewFFmpegEncoder(baseParams())
	err := e.WriteFrame(0, image.NewRGBA(image.Rect(0, 0, 1920, 1080)))
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.NoError(t, e.Close())

	e.Binary = "phazur-no-such-ffmpeg"
	assert.Error(t, e.Start(context.Background()))
}
