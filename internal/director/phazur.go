package director

import (
	"github.com/ivlev/phazur-promo/internal/effects"
	"github.com/ivlev/phazur-promo/internal/scene"
)

var phazurTransitions = map[string]effects.Config{
	scene.SceneIntro:         {Kind: effects.KindFade, Mode: effects.ModeIn},
	scene.ScenePaths:         {Kind: effects.KindSlide, Mode: effects.ModeIn, Direction: effects.Left},
	scene.SceneMilestones:    {Kind: effects.KindWipe, Mode: effects.ModeIn, Direction: effects.Right},
	scene.SceneTutor:         {Kind: effects.KindZoom, Mode: effects.ModeIn},
	scene.SceneCertification: {Kind: effects.KindMorph, Mode: effects.ModeIn},
	scene.SceneTestimonials:  {Kind: effects.KindWipe, Mode: effects.ModeIn, Direction: effects.Center},
	scene.SceneFeatures:      {Kind: effects.KindSlide, Mode: effects.ModeIn, Direction: effects.Up},
	scene.SceneComparison:    {Kind: effects.KindWipe, Mode: effects.ModeIn, Direction: effects.Down},
	scene.SceneOutro:         {Kind: effects.KindFade, Mode: effects.ModeIn},
}

// Default builds the Phazur promo composition
func Default() *Composition {
	c := &Composition{
		Version:          "1.0",
		FPS:              FPS,
		Width:            Width,
		Height:           Height,
		DurationInFrames: DurationInFrames,
		Overlap:          TransitionOverlap,
		Glow:             Glow{Peak: DefaultGlowPeak, Color: scene.Purple},
	}
	for _, s := range scene.PhazurScenes() {
		c.Entries = append(c.Entries, Entry{
			Scene:            s,
			DurationInFrames: SceneDuration,
			Transition:       phazurTransitions[s.ID],
		})
	}
	return c
}
