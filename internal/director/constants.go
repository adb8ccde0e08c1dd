package director

// Root composition timing
const (
	FPS               = 30
	SceneDuration     = 150
	TransitionOverlap = 20
	DurationInFrames  = 1200
	Width             = 1920
	Height            = 1080
)

// DefaultGlowPeak is the glow overlay opacity at the middle of a boundary window
const DefaultGlowPeak = 0.35
