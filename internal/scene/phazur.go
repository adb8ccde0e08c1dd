package scene

import "github.com/ivlev/phazur-promo/internal/renderer"

// Phazur palette
var (
	Navy   = Hex(0x0B1026)
	Ink    = Hex(0x151B3D)
	Purple = Hex(0x7C3AED)
	Cyan   = Hex(0x22D3EE)
	Pink   = Hex(0xF472B6)
	Green  = Hex(0x34D399)
	Amber  = Hex(0xFBBF24)
	White  = Hex(0xF8FAFC)
)

// Scene ids in narrative order
const (
	SceneIntro         = "intro"
	ScenePaths         = "paths"
	SceneMilestones    = "milestones"
	SceneTutor         = "tutor"
	SceneCertification = "certification"
	SceneTestimonials  = "testimonials"
	SceneFeatures      = "features"
	SceneComparison    = "comparison"
	SceneOutro         = "outro"
)

// LogoAsset is the static file name of the Phazur mark
const LogoAsset = "phazur-logo.png"

var titleMotion = Motion{Kind: MotionRise, Duration: 20, Distance: 30}

func gradient(to Color) Background {
	return Background{From: Navy, To: to}
}

func header(title, subtitle string) *Header {
	return &Header{Title: title, Subtitle: subtitle, Y: 110, Motion: titleMotion, SubtitleDelay: 10}
}

// contentArea is the region below a header on a 1920x1080 frame
var contentArea = Box{X: 160, Y: 300, W: 1600, H: 640}

// PhazurScenes returns the promo scenes in narrative order
func PhazurScenes() []Spec {
	return []Spec{
		intro(),
		paths(),
		milestones(),
		tutor(),
		certification(),
		testimonials(),
		features(),
		comparison(),
		outro(),
	}
}

// SceneByID looks a scene up in PhazurScenes
func SceneByID(id string) (Spec, bool) {
	for _, s := range PhazurScenes() {
		if s.ID == id {
			return s, true
		}
	}
	return Spec{}, false
}

func intro() Spec {
	glowStyle := BaseStyle()
	glowStyle.Fill = Purple.WithAlpha(0.35)

	titleStyle := BaseStyle()
	titleStyle.FontSize = 120
	titleStyle.Fill = White
	titleStyle.Align = AlignCenter

	tagStyle := BaseStyle()
	tagStyle.FontSize = 40
	tagStyle.Fill = Cyan
	tagStyle.Align = AlignCenter

	return Spec{
		ID:         SceneIntro,
		Background: Background{From: Navy, To: Ink},
		Particles:  &ParticleSpec{Seed: "intro", Count: 40, Colors: []Color{Purple, Cyan, Pink}},
		Elements: []Element{
			{
				ID: "halo", Kind: KindCircle, Box: Box{X: 760, Y: 140, W: 400, H: 400}, Style: glowStyle,
				Motion: Motion{Kind: MotionPop, Delay: 0, Duration: 30},
			},
			{
				ID: "logo", Kind: KindImage, Box: Box{X: 840, Y: 220, W: 240, H: 240}, Asset: LogoAsset,
				Style:  BaseStyle(),
				Motion: Motion{Kind: MotionFade, Delay: 0, Duration: 20},
			},
			{
				ID: "wordmark", Kind: KindText, Box: Box{X: 0, Y: 540, W: 1920, H: 140}, Text: "PHAZUR",
				Style:  titleStyle,
				Motion: Motion{Kind: MotionRise, Delay: 20, Duration: 25, Distance: 50},
			},
			{
				ID: "tagline", Kind: KindText, Box: Box{X: 0, Y: 720, W: 1920, H: 60},
				Text:   "Learn AI. Build the future.",
				Style:  tagStyle,
				Motion: Motion{Kind: MotionType, Delay: 45, Duration: 40},
			},
		},
	}
}

func paths() Spec {
	return Spec{
		ID:         ScenePaths,
		Background: gradient(Hex(0x1B1446)),
		Header:     header("Choose your path", "Curated learning tracks for every goal"),
		Layout:     Layout{Kind: LayoutRow, Area: contentArea, Gap: 48},
		Items: []Item{
			{Title: "AI Foundations", Body: "Core concepts, prompts and models", Icon: "01", Accent: Purple},
			{Title: "Automation", Body: "Agents and workflows that ship", Icon: "02", Accent: Cyan},
			{Title: "AI for Business", Body: "Strategy, ROI and adoption", Icon: "03", Accent: Pink},
		},
		ItemMotion: Motion{Kind: MotionRise, Delay: 30, Stagger: 15, Duration: 20, Distance: 60},
	}
}

func milestones() Spec {
	return Spec{
		ID:         SceneMilestones,
		Background: gradient(Hex(0x10254A)),
		Header:     header("Track every milestone", "Progress you can see"),
		Layout:     Layout{Kind: LayoutTimeline, Area: contentArea},
		Items: []Item{
			{Title: "Week 1", Body: "First prompt", Accent: Cyan},
			{Title: "Week 3", Body: "First agent", Accent: Purple},
			{Title: "Week 6", Body: "Capstone", Accent: Pink},
			{Title: "Week 8", Body: "Certified", Accent: Green},
		},
		ItemMotion: Motion{Kind: MotionPop, Delay: 30, Stagger: 18, Duration: 20},
	}
}

func tutor() Spec {
	return Spec{
		ID:         SceneTutor,
		Background: gradient(Hex(0x1A1040)),
		Header:     header("Your AI tutor, 24/7", "Ask anything, get unstuck in seconds"),
		Layout:     Layout{Kind: LayoutChat, Area: Box{X: 360, Y: 280, W: 1200, H: 680}, Gap: 28},
		Items: []Item{
			{Title: "You", Body: "How do I chain two tools in an agent?", Side: AlignRight, Accent: Purple},
			{Title: "Phazur Tutor", Body: "Pass the first tool's output as the next step's input. Want an example?", Side: AlignLeft},
			{Title: "You", Body: "Yes, with a web search.", Side: AlignRight, Accent: Purple},
		},
		ItemMotion: Motion{Kind: MotionType, Delay: 25, Stagger: 35, Duration: 30},
	}
}

func certification() Spec {
	sealStyle := BaseStyle()
	sealStyle.Fill = Amber
	sealStyle.Stroke = White
	sealStyle.StrokeWidth = 6

	return Spec{
		ID:         SceneCertification,
		Background: gradient(Hex(0x1F1535)),
		Header:     header("Earn recognized certificates", "Share your skills with employers"),
		Layout:     Layout{Kind: LayoutStack, Area: Box{X: 460, Y: 360, W: 1000, H: 360}, Gap: 20},
		Items: []Item{
			{Title: "Certificate of Completion", Body: "AI Foundations, Phazur Academy"},
		},
		ItemMotion: Motion{Kind: MotionPop, Delay: 30, Duration: 25},
		Elements: []Element{
			{
				ID: "seal", Kind: KindCircle, Box: Box{X: 1380, Y: 640, W: 160, H: 160}, Style: sealStyle,
				Motion: Motion{Kind: MotionPop, Delay: 60, Duration: 20, Spring: &renderer.SpringConfig{Mass: 1, Damping: 8, Stiffness: 140}},
			},
		},
		Particles: &ParticleSpec{Seed: "certification", Count: 24, Colors: []Color{Amber, White}},
	}
}

func testimonials() Spec {
	return Spec{
		ID:         SceneTestimonials,
		Background: gradient(Hex(0x0F2B3A)),
		Header:     header("Loved by learners", ""),
		Layout:     Layout{Kind: LayoutRow, Area: contentArea, Gap: 40},
		Items: []Item{
			{Title: "Maria, PM", Body: "\"I automated my weekly reports in two days.\"", Icon: "M", Accent: Cyan},
			{Title: "Dev, founder", Body: "\"The tutor feels like a senior engineer on call.\"", Icon: "D", Accent: Purple},
			{Title: "Lena, analyst", Body: "\"Finally a course that gets to building fast.\"", Icon: "L", Accent: Pink},
		},
		ItemMotion: Motion{Kind: MotionSlide, Delay: 25, Stagger: 20, Distance: 120},
	}
}

func features() Spec {
	return Spec{
		ID:         SceneFeatures,
		Background: gradient(Hex(0x181A4A)),
		Header:     header("Everything in one place", ""),
		Layout:     Layout{Kind: LayoutGrid, Area: contentArea, Columns: 3, Gap: 32},
		Items: []Item{
			{Title: "Live projects", Icon: "P", Accent: Purple, Value: 0.9},
			{Title: "AI tutor", Icon: "T", Accent: Cyan, Value: 1},
			{Title: "Community", Icon: "C", Accent: Pink, Value: 0.8},
			{Title: "Certificates", Icon: "R", Accent: Amber, Value: 0.7},
			{Title: "Career paths", Icon: "K", Accent: Green, Value: 0.85},
			{Title: "Weekly labs", Icon: "W", Accent: Purple, Value: 0.75},
		},
		ItemMotion: Motion{Kind: MotionPop, Delay: 30, Stagger: 8, Duration: 20},
	}
}

func comparison() Spec {
	return Spec{
		ID:         SceneComparison,
		Background: gradient(Hex(0x111836)),
		Header:     header("Why Phazur", ""),
		Layout: Layout{
			Kind:    LayoutTable,
			Area:    contentArea,
			Headers: []string{"", "Phazur", "Video courses", "Bootcamps"},
		},
		Items: []Item{
			{Cells: []string{"Personal AI tutor", "+ yes", "- no", "- no"}},
			{Cells: []string{"Hands-on projects", "+ weekly", "- rare", "+ yes"}},
			{Cells: []string{"Learn at your pace", "+ yes", "+ yes", "- no"}},
			{Cells: []string{"Price per month", "$29", "$15", "$1,200"}},
		},
		ItemMotion: Motion{Kind: MotionRise, Delay: 30, Stagger: 12, Duration: 18, Distance: 30},
	}
}

func outro() Spec {
	ctaStyle := BaseStyle()
	ctaStyle.FontSize = 84
	ctaStyle.Fill = White
	ctaStyle.Align = AlignCenter

	urlStyle := BaseStyle()
	urlStyle.FontSize = 40
	urlStyle.Fill = Cyan
	urlStyle.Align = AlignCenter

	qrStyle := BaseStyle()
	qrStyle.Fill = White
	qrStyle.Radius = 16

	return Spec{
		ID:         SceneOutro,
		Background: Background{From: Ink, To: Navy},
		Particles:  &ParticleSpec{Seed: "outro", Count: 40, Colors: []Color{Purple, Cyan, Pink}},
		Elements: []Element{
			{
				ID: "logo", Kind: KindImage, Box: Box{X: 880, Y: 120, W: 160, H: 160}, Asset: LogoAsset,
				Style: BaseStyle(), Motion: Motion{Kind: MotionPop, Delay: 5, Duration: 20},
			},
			{
				ID: "cta", Kind: KindText, Box: Box{X: 0, Y: 320, W: 1920, H: 110}, Text: "Start learning today",
				Style: ctaStyle, Motion: Motion{Kind: MotionRise, Delay: 15, Duration: 20},
			},
			{
				ID: "qr", Kind: KindQR, Box: Box{X: 840, Y: 480, W: 240, H: 240}, Text: "https://phazur.com",
				Style: qrStyle, Motion: Motion{Kind: MotionPop, Delay: 35, Duration: 20},
			},
			{
				ID: "url", Kind: KindText, Box: Box{X: 0, Y: 760, W: 1920, H: 60}, Text: "phazur.com",
				Style: urlStyle, Motion: Motion{Kind: MotionFade, Delay: 50, Duration: 20},
			},
		},
	}
}
