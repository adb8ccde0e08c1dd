package audiosync

import "sort"

// Music grid of the promo
const (
	BPM         = 120
	FPS         = 30
	BeatFrames  = FPS * 60 / BPM
	BeatsPerBar = 4
)

// Sound is the kind of effect suggested for a moment
type Sound string

const (
	SoundWhoosh Sound = "whoosh"
	SoundImpact Sound = "impact"
	SoundChime  Sound = "chime"
	SoundClick  Sound = "click"
)

// Priority ranks moments when cues would collide
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) weight() float64 {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 0.7
	}
	return 0.45
}

// Moment is a point of the timeline worth a sound
type Moment struct {
	Frame          int      `yaml:"frame"`
	Scene          string   `yaml:"scene"`
	Event          string   `yaml:"event"`
	SuggestedSound Sound    `yaml:"suggested_sound"`
	Priority       Priority `yaml:"priority"`
}

var moments = []Moment{
	{0, "intro", "logo reveal", SoundWhoosh, PriorityHigh},
	{20, "intro", "wordmark rises", SoundImpact, PriorityHigh},
	{45, "intro", "tagline typing", SoundClick, PriorityLow},
	{130, "paths", "scene enters", SoundWhoosh, PriorityMedium},
	{160, "paths", "path cards", SoundClick, PriorityMedium},
	{260, "milestones", "scene enters", SoundWhoosh, PriorityMedium},
	{290, "milestones", "first milestone", SoundChime, PriorityMedium},
	{344, "milestones", "certified milestone", SoundChime, PriorityHigh},
	{390, "tutor", "scene enters", SoundWhoosh, PriorityMedium},
	{415, "tutor", "first message", SoundClick, PriorityLow},
	{520, "certification", "scene enters", SoundWhoosh, PriorityMedium},
	{580, "certification", "seal stamp", SoundImpact, PriorityHigh},
	{650, "testimonials", "scene enters", SoundWhoosh, PriorityMedium},
	{675, "testimonials", "quotes slide in", SoundClick, PriorityLow},
	{780, "features", "scene enters", SoundWhoosh, PriorityMedium},
	{810, "features", "feature grid", SoundClick, PriorityMedium},
	{910, "comparison", "scene enters", SoundWhoosh, PriorityMedium},
	{940, "comparison", "table rows", SoundClick, PriorityLow},
	{1040, "outro", "scene enters", SoundWhoosh, PriorityHigh},
	{1055, "outro", "call to action", SoundImpact, PriorityHigh},
	{1075, "outro", "qr code", SoundChime, PriorityHigh},
}

// Moments returns the sync table ordered by frame
func Moments() []Moment {
	out := make([]Moment, len(moments))
	copy(out, moments)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out
}

// MomentsBetween returns the moments with from <= frame < to
func MomentsBetween(from, to int) []Moment {
	var out []Moment
	for _, m := range Moments() {
		if m.Frame >= from && m.Frame < to {
			out = append(out, m)
		}
	}
	return out
}

// Beats lists every beat frame before total
func Beats(total int) []int {
	var out []int
	for f := 0; f < total; f += BeatFrames {
		out = append(out, f)
	}
	return out
}

// StrongBeats lists the first beat of every bar before total
func StrongBeats(total int) []int {
	var out []int
	for f := 0; f < total; f += BeatFrames * BeatsPerBar {
		out = append(out, f)
	}
	return out
}

func phase(frame int) int {
	return ((frame % BeatFrames) + BeatFrames) % BeatFrames
}

// IsOnBeat reports whether frame is within tolerance frames of a beat
func IsOnBeat(frame, tolerance int) bool {
	p := phase(frame)
	return min(p, BeatFrames-p) <= tolerance
}

// NearestBeat rounds frame to the closest beat, ties going forward
func NearestBeat(frame int) int {
	p := phase(frame)
	if p*2 >= BeatFrames {
		return frame - p + BeatFrames
	}
	return frame - p
}

// IsStrongBeat reports whether frame is exactly the first beat of a bar
func IsStrongBeat(frame int) bool {
	return frame >= 0 && frame%(BeatFrames*BeatsPerBar) == 0
}

// BeatIntensity decays linearly from 1 on a beat to just above 0 before the next
func BeatIntensity(frame int) float64 {
	return 1 - float64(phase(frame))/float64(BeatFrames)
}
