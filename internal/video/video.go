package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"
)

// ErrNotStarted is returned when frames are written before Start
var ErrNotStarted = errors.New("encoder not started")

// Params describes one encode. Width and Height are the size of the
// frames written; OutputWidth and OutputHeight, when set and different,
// letterbox the picture into a new frame size.
type Params struct {
	Width, Height             int
	OutputWidth, OutputHeight int
	FPS                       int
	Encoder                   string
	Quality                   int
	PadColor                  string
	Audio                     []string
	Output                    string
}

// FFmpegEncoder streams raw RGBA frames into a single ffmpeg process
type FFmpegEncoder struct {
	Params Params
	Binary string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	log    bytes.Buffer
	frames int
}

func NewFFmpegEncoder(p Params) *FFmpegEncoder {
	return &FFmpegEncoder{Params: p, Binary: "ffmpeg"}
}

// Start launches ffmpeg. The process dies with ctx.
func (e *FFmpegEncoder) Start(ctx context.Context) error {
	if e.cmd != nil {
		return fmt.Errorf("encoder already started")
	}
	cmd := exec.CommandContext(ctx, e.Binary, buildFFmpegArgs(e.Params)...)
	cmd.Stderr = &e.log

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}
	e.cmd, e.stdin = cmd, stdin
	return nil
}

// WriteFrame appends one frame. Frames must arrive in timeline order.
func (e *FFmpegEncoder) WriteFrame(index int, img *image.RGBA) error {
	if e.stdin == nil {
		return ErrNotStarted
	}
	if b := img.Bounds(); b.Dx() != e.Params.Width || b.Dy() != e.Params.Height {
		return fmt.Errorf("frame %d is %dx%d, encoder expects %dx%d", index, b.Dx(), b.Dy(), e.Params.Width, e.Params.Height)
	}
	if err := writeRawRGBA(e.stdin, img); err != nil {
		return fmt.Errorf("write raw error frame %d: %w", index, err)
	}
	e.frames++
	return nil
}

// Frames is the number of frames written so far
func (e *FFmpegEncoder) Frames() int { return e.frames }

// Close flushes stdin and waits for ffmpeg to finish the file
func (e *FFmpegEncoder) Close() error {
	if e.cmd == nil {
		return nil
	}
	e.stdin.Close()
	err := e.cmd.Wait()
	e.cmd, e.stdin = nil, nil
	if err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, tail(e.log.String(), 2000))
	}
	return nil
}

func buildFFmpegArgs(p Params) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-framerate", fmt.Sprintf("%d", p.FPS),
		"-i", "-",
	}
	for _, a := range p.Audio {
		args = append(args, "-i", a)
	}

	var graph []string
	videoOut := "0:v"
	if p.OutputWidth > 0 && p.OutputHeight > 0 && (p.OutputWidth != p.Width || p.OutputHeight != p.Height) {
		graph = append(graph, "[0:v]"+ScaleFilter(p.OutputWidth, p.OutputHeight, p.PadColor)+"[vout]")
		videoOut = "[vout]"
	}

	audioOut := ""
	switch len(p.Audio) {
	case 0:
	case 1:
		audioOut = "1:a"
	default:
		inputs := ""
		for i := range p.Audio {
			inputs += fmt.Sprintf("[%d:a]", i+1)
		}
		graph = append(graph, fmt.Sprintf("%samix=inputs=%d:duration=longest:normalize=0[aout]", inputs, len(p.Audio)))
		audioOut = "[aout]"
	}

	if len(graph) > 0 {
		args = append(args, "-filter_complex", strings.Join(graph, ";"))
	}
	args = append(args, "-map", videoOut)
	if audioOut != "" {
		args = append(args, "-map", audioOut, "-c:a", "aac", "-b:a", "192k", "-shortest")
	}

	args = append(args, "-r", fmt.Sprintf("%d", p.FPS), "-c:v", p.Encoder, "-pix_fmt", "yuv420p")
	args = append(args, qualityArgs(p.Encoder, p.Quality)...)
	args = append(args, "-movflags", "+faststart", p.Output)
	return args
}

func qualityArgs(encoder string, quality int) []string {
	// Качество в зависимости от энкодера
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox не везде понимает -q:v, используем битрейт: 75 -> 7.5 Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// ScaleFilter fits the input into w x h and pads the rest
func ScaleFilter(w, h int, pad string) string {
	if pad == "" {
		pad = "black"
	}
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s,setsar=1",
		w, h, w, h, pad)
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
