package engine

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// Sink receives rendered frames in timeline order. The image is only
// valid for the duration of the call.
type Sink interface {
	WriteFrame(index int, img *image.RGBA) error
	Close() error
}

// PNGSink writes every frame to its own numbered PNG file
type PNGSink struct {
	Dir     string
	Pattern string

	enc png.Encoder
}

func NewPNGSink(dir string) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("frames dir: %w", err)
	}
	return &PNGSink{
		Dir:     dir,
		Pattern: "frame_%05d.png",
		enc:     png.Encoder{CompressionLevel: png.BestSpeed},
	}, nil
}

// Path is the file a frame index is written to
func (s *PNGSink) Path(index int) string {
	return filepath.Join(s.Dir, fmt.Sprintf(s.Pattern, index))
}

func (s *PNGSink) WriteFrame(index int, img *image.RGBA) error {
	f, err := os.Create(s.Path(index))
	if err != nil {
		return err
	}
	if err := s.enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *PNGSink) Close() error { return nil }

type multiSink []Sink

// MultiSink fans every frame out to all sinks
func MultiSink(sinks ...Sink) Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return multiSink(sinks)
}

func (m multiSink) WriteFrame(index int, img *image.RGBA) error {
	for _, s := range m {
		if err := s.WriteFrame(index, img); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
