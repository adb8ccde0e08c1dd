package audiosync

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
)

// DefaultSampleRate of rendered cue tracks
const DefaultSampleRate = beep.SampleRate(44100)

type wave int

const (
	waveSine wave = iota
	waveSaw
	waveNoise
)

// oscillator is a mono tone or seeded noise, duplicated on both channels
type oscillator struct {
	freq     float64
	phase    float64
	position int
	duration int
	wave     wave
	rate     beep.SampleRate
	noise    *rand.Rand
}

func newOscillator(freq float64, d time.Duration, w wave, rate beep.SampleRate, seed int64) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(d),
		wave:     w,
		rate:     rate,
		noise:    rand.New(rand.NewSource(seed)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSaw:
			val = 2.0 * (o.phase - 0.5)
		case waveNoise:
			val = o.noise.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope is a linear attack and release over a fixed length
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{streamer: s, attack: rate.N(attack), release: rate.N(release), total: rate.N(d)}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if start := e.total - e.release; e.position >= start && e.release > 0 {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

func tone(freq float64, d, attack, release time.Duration, w wave, rate beep.SampleRate, seed int64) beep.Streamer {
	return newEnvelope(newOscillator(freq, d, w, rate, seed), d, attack, release, rate)
}

// Cue synthesizes the suggested sound of a moment
func Cue(s Sound, rate beep.SampleRate, seed int64) beep.Streamer {
	switch s {
	case SoundWhoosh:
		d := 400 * time.Millisecond
		return volume(tone(0, d, 250*time.Millisecond, 150*time.Millisecond, waveNoise, rate, seed), 0.35)
	case SoundImpact:
		d := 350 * time.Millisecond
		return beep.Mix(
			volume(tone(55, d, 5*time.Millisecond, 300*time.Millisecond, waveSine, rate, seed), 0.9),
			volume(tone(0, 80*time.Millisecond, 2*time.Millisecond, 70*time.Millisecond, waveNoise, rate, seed), 0.3),
		)
	case SoundChime:
		d := 600 * time.Millisecond
		return beep.Mix(
			volume(tone(1318.5, d, 5*time.Millisecond, 550*time.Millisecond, waveSine, rate, seed), 0.5),
			volume(tone(1975.5, d, 5*time.Millisecond, 400*time.Millisecond, waveSine, rate, seed), 0.2),
		)
	default:
		d := 30 * time.Millisecond
		return volume(tone(2000, d, time.Millisecond, 25*time.Millisecond, waveSaw, rate, seed), 0.25)
	}
}

func frameSamples(frame, fps int, rate beep.SampleRate) int {
	return rate.N(time.Duration(frame) * time.Second / time.Duration(fps))
}

// CueTrack lays out a cue for every moment over a soft click on each beat.
// The track is exactly totalFrames long and identical on every call.
func CueTrack(ms []Moment, fps, totalFrames int, rate beep.SampleRate) beep.Streamer {
	var layers []beep.Streamer
	for _, b := range Beats(totalFrames * FPS / fps) {
		frame := b * fps / FPS
		level := 0.08
		if IsStrongBeat(b) {
			level = 0.16
		}
		layers = append(layers, beep.Seq(
			beep.Silence(frameSamples(frame, fps, rate)),
			volume(Cue(SoundClick, rate, int64(b)), level),
		))
	}
	for i, m := range ms {
		if m.Frame < 0 || m.Frame >= totalFrames {
			continue
		}
		layers = append(layers, beep.Seq(
			beep.Silence(frameSamples(m.Frame, fps, rate)),
			volume(Cue(m.SuggestedSound, rate, int64(i+1)), m.Priority.weight()),
		))
	}

	total := frameSamples(totalFrames, fps, rate)
	return beep.Take(total, beep.Seq(beep.Mix(layers...), beep.Silence(-1)))
}

// WriteWAV renders the cue track of ms to a 16-bit stereo WAV file
func WriteWAV(path string, ms []Moment, fps, totalFrames int, rate beep.SampleRate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, CueTrack(ms, fps, totalFrames, rate), format); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
