package composer

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/ivlev/reelframe/internal/effects"
	"github.com/ivlev/reelframe/internal/motion"
	"github.com/ivlev/reelframe/internal/renderer"
)

// ErrInvalidProps is returned when props do not fit a template's fields.
var ErrInvalidProps = errors.New("invalid props")

// NewsProps is the content of the news template. Every field is optional.
type NewsProps struct {
	Headline     string   `mapstructure:"headline" yaml:"headline" json:"headline"`
	Company      string   `mapstructure:"company" yaml:"company" json:"company"`
	MainBenefit  string   `mapstructure:"mainBenefit" yaml:"mainBenefit" json:"mainBenefit"`
	BulletPoints []string `mapstructure:"bulletPoints" yaml:"bulletPoints" json:"bulletPoints"`
	Impact       string   `mapstructure:"impact" yaml:"impact" json:"impact"`
	Hashtags     string   `mapstructure:"hashtags" yaml:"hashtags" json:"hashtags"`
}

// DecodeNewsProps reads NewsProps from a loosely typed props map. Unknown
// keys are ignored; missing keys stay empty.
func DecodeNewsProps(raw map[string]any) (NewsProps, error) {
	var props NewsProps
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &props,
		TagName: "mapstructure",
	})
	if err != nil {
		return props, err
	}
	if err := dec.Decode(raw); err != nil {
		return props, fmt.Errorf("%w: news: %w", ErrInvalidProps, err)
	}
	return props, nil
}

const (
	newsPrimary    = "#ff3366"
	newsAccent     = "#7c3aed"
	newsBackground = "linear-gradient(160deg, #0a0a14 0%, #141428 40%, #1a1a3e 100%)"
	newsFontFamily = "'Noto Sans Khmer', 'Battambang', sans-serif"
	newsFontSheet  = "https://fonts.googleapis.com/css2?family=Battambang:wght@400;700;900&family=Noto+Sans+Khmer:wght@400;600;800&display=swap"
	newsMusic      = "music/background.mp3"
	newsTagline    = "ទើបបញ្ចេញមុខងារថ្មី! 🚀"
	newsParticles  = 15
)

// Trigger frames and springs of the news template's element groups.
var (
	badgeSpring    = motion.NewSpringConfig(20, 150)
	headlineSpring = motion.NewSpringConfig(18, 100)
	subheadSpring  = motion.NewSpringConfig(15, 80)
	bulletSpring   = motion.NewSpringConfig(14, 70)
	impactSpring   = motion.NewSpringConfig(12, 50)
	hashtagSpring  = motion.NewSpringConfig(20, 100)
)

const (
	headlineTrigger = 10
	subheadTrigger  = 30
	bulletTrigger   = 60
	bulletStagger   = 10
	impactTrigger   = 340
	hashtagTrigger  = 400
)

var newsOrbs = []effects.Orb{
	{Color: newsPrimary, Phase: 0, X: 0.15, Y: 0.25, Size: 600},
	{Color: newsAccent, Phase: 3, X: 0.85, Y: 0.55, Size: 550},
	{Color: "#3b82f6", Phase: 5, X: 0.50, Y: 0.85, Size: 500},
}

// News composes the news template at frame.
func News(frame int, vc renderer.VideoConfig, props NewsProps) (*renderer.Frame, error) {
	if err := vc.CheckFrame(frame); err != nil {
		return nil, err
	}

	sp := newSprings(vc.FPS)
	w, h := float64(vc.Width), float64(vc.Height)

	progress, err := motion.Interpolate(float64(frame),
		[]float64{0, float64(vc.DurationInFrames)}, []float64{0, 100}, motion.ClampBoth)
	if err != nil {
		return nil, fmt.Errorf("progress bar: %w", err)
	}

	elements := make([]renderer.Element, 0, 16)
	elements = append(elements, newsOrbElements(frame, w, h)...)
	elements = append(elements,
		newsParticleElements(frame, w, h),
		newsProgressBar(progress, w),
		newsBrand(w),
		newsBadge(sp.at(frame, 0, badgeSpring), w),
		newsHeadline(sp.at(frame, headlineTrigger, headlineSpring), props.Headline, w),
		newsSubheading(sp.at(frame, subheadTrigger, subheadSpring), props, w),
		newsBullets(frame, sp, props.BulletPoints, w),
		newsImpact(sp.at(frame, impactTrigger, impactSpring), props.Impact, w, h),
		newsHashtags(sp.at(frame, hashtagTrigger, hashtagSpring), props.Hashtags, w, h),
	)
	if sp.err != nil {
		return nil, fmt.Errorf("%s frame %d: %w", vc.ID, frame, sp.err)
	}

	return &renderer.Frame{
		Composition: vc.ID,
		Index:       frame,
		Time:        vc.Seconds(frame),
		Width:       vc.Width,
		Height:      vc.Height,
		FPS:         vc.FPS,
		Background:  newsBackground,
		Fonts:       []string{newsFontSheet},
		Audio:       []renderer.AudioTrack{{Asset: newsMusic, Volume: 0.25}},
		Elements:    elements,
	}, nil
}

func newsOrbElements(frame int, w, h float64) []renderer.Element {
	out := make([]renderer.Element, len(newsOrbs))
	for i, orb := range newsOrbs {
		st := orb.State(frame)
		out[i] = renderer.Element{
			ID:        fmt.Sprintf("orb-%d", i),
			Kind:      renderer.KindGlow,
			Box:       renderer.Box{X: orb.X*w - orb.Size/2, Y: orb.Y*h - orb.Size/2, W: orb.Size, H: orb.Size},
			Opacity:   st.Opacity,
			Transform: renderer.Transform{Scale: st.Scale},
			Fill:      orb.Color,
			Filter:    "blur(80px)",
		}
	}
	return out
}

func newsParticleElements(frame int, w, h float64) renderer.Element {
	particles := effects.Particles(frame, newsParticles)
	children := make([]renderer.Element, len(particles))
	for i, p := range particles {
		children[i] = renderer.Element{
			ID:        fmt.Sprintf("particle-%d", i),
			Kind:      renderer.KindParticle,
			Box:       renderer.Box{X: p.X / 100 * w, Y: p.Y / 100 * h, W: p.Size, H: p.Size},
			Opacity:   p.Opacity,
			Transform: renderer.Identity(),
			Fill:      "#ffffff",
			Filter:    "blur(1px)",
		}
	}
	return renderer.Element{
		ID:        "particles",
		Kind:      renderer.KindGroup,
		Opacity:   1,
		Transform: renderer.Identity(),
		Children:  children,
	}
}

func newsProgressBar(progress, w float64) renderer.Element {
	return renderer.Element{
		ID:        "progress",
		Kind:      renderer.KindBox,
		Box:       renderer.Box{W: w, H: 8},
		Opacity:   1,
		Transform: renderer.Identity(),
		Fill:      "rgba(255,255,255,0.08)",
		Children: []renderer.Element{{
			ID:        "progress-fill",
			Kind:      renderer.KindBox,
			Box:       renderer.Box{W: w * progress / 100, H: 8},
			Opacity:   1,
			Transform: renderer.Identity(),
			Fill:      fmt.Sprintf("linear-gradient(90deg, %s, %s)", newsPrimary, newsAccent),
		}},
	}
}

func newsBrand(w float64) renderer.Element {
	const bw, bh = 260.0, 64.0
	return renderer.Element{
		ID:        "brand",
		Kind:      renderer.KindText,
		Box:       renderer.Box{X: w - 30 - bw, Y: 40, W: bw, H: bh},
		Opacity:   1,
		Transform: renderer.Identity(),
		Color:     "#ffffff",
		Fill:      "rgba(255,255,255,0.06)",
		Text:      "AI Hunter 🤖",
		Font:      &renderer.Font{Family: newsFontFamily, Size: 32, Weight: 700},
	}
}

func newsBadge(s, w float64) renderer.Element {
	const bw, bh = 440.0, 80.0
	return renderer.Element{
		ID:        "badge",
		Kind:      renderer.KindText,
		Box:       renderer.Box{X: (w - bw) / 2, Y: 160, W: bw, H: bh},
		Opacity:   clamp01(s),
		Transform: renderer.Transform{Scale: 0.8 + s*0.2},
		Color:     "#ffffff",
		Fill:      fmt.Sprintf("linear-gradient(135deg, %s40, %s40)", newsPrimary, newsAccent),
		Text:      "🔥 AI NEWS 🔥",
		Font:      &renderer.Font{Family: newsFontFamily, Size: 36, Weight: 800},
	}
}

func newsHeadline(s float64, text string, w float64) renderer.Element {
	return renderer.Element{
		ID:        "headline",
		Kind:      renderer.KindText,
		Box:       renderer.Box{X: 40, Y: 260, W: w - 80, H: 220},
		Opacity:   clamp01(s),
		Transform: renderer.Transform{Scale: 1, TranslateY: (1 - s) * 60},
		Color:     "#ffffff",
		Text:      text,
		Font:      &renderer.Font{Family: newsFontFamily, Size: 92, Weight: 900, Shadow: "0 0 80px " + newsPrimary + "50"},
	}
}

func newsSubheading(s float64, props NewsProps, w float64) renderer.Element {
	return renderer.Element{
		ID:        "subheading",
		Kind:      renderer.KindGroup,
		Box:       renderer.Box{X: 40, Y: 520, W: w - 80, H: 360},
		Opacity:   clamp01(s),
		Transform: renderer.Transform{Scale: 1, TranslateY: (1 - s) * 40},
		Children: []renderer.Element{
			{
				ID:        "company",
				Kind:      renderer.KindText,
				Box:       renderer.Box{X: 40, Y: 540, W: w - 80, H: 70},
				Opacity:   1,
				Transform: renderer.Identity(),
				Color:     newsPrimary,
				Fill:      "rgba(255,255,255,0.05)",
				Text:      props.Company,
				Font:      &renderer.Font{Family: newsFontFamily, Size: 52, Weight: 800},
			},
			{
				ID:        "tagline",
				Kind:      renderer.KindText,
				Box:       renderer.Box{X: 40, Y: 615, W: w - 80, H: 60},
				Opacity:   0.9,
				Transform: renderer.Identity(),
				Color:     "#ffffff",
				Text:      newsTagline,
				Font:      &renderer.Font{Family: newsFontFamily, Size: 44, Weight: 600},
			},
			{
				ID:        "benefit",
				Kind:      renderer.KindText,
				Box:       renderer.Box{X: 40, Y: 720, W: w - 80, H: 140},
				Opacity:   1,
				Transform: renderer.Identity(),
				Color:     "#d0d0e0",
				Text:      props.MainBenefit,
				Font:      &renderer.Font{Family: newsFontFamily, Size: 42},
			},
		},
	}
}

func newsBullets(frame int, sp *springs, points []string, w float64) renderer.Element {
	const top, rowH, gap = 920.0, 110.0, 24.0

	children := make([]renderer.Element, len(points))
	for i, point := range points {
		s := sp.at(frame, bulletTrigger+i*bulletStagger, bulletSpring)
		y := top + float64(i)*(rowH+gap)
		children[i] = renderer.Element{
			ID:        fmt.Sprintf("bullet-%d", i),
			Kind:      renderer.KindBox,
			Box:       renderer.Box{X: 60, Y: y, W: w - 120, H: rowH},
			Opacity:   clamp01(s),
			Transform: renderer.Transform{Scale: 1, TranslateY: (1 - s) * 20},
			Fill:      "rgba(255,255,255,0.1)",
			Children: []renderer.Element{
				{
					ID:        fmt.Sprintf("bullet-%d-check", i),
					Kind:      renderer.KindText,
					Box:       renderer.Box{X: 95, Y: y + 25, W: 60, H: 60},
					Opacity:   1,
					Transform: renderer.Identity(),
					Color:     "#ffffff",
					Fill:      fmt.Sprintf("linear-gradient(135deg, %s, %s)", newsPrimary, newsAccent),
					Text:      "✓",
					Font:      &renderer.Font{Size: 32, Weight: 900},
				},
				{
					ID:        fmt.Sprintf("bullet-%d-text", i),
					Kind:      renderer.KindText,
					Box:       renderer.Box{X: 185, Y: y + 20, W: w - 280, H: rowH - 40},
					Opacity:   1,
					Transform: renderer.Identity(),
					Color:     "#ffffff",
					Text:      point,
					Font:      &renderer.Font{Family: newsFontFamily, Size: 42, Weight: 600},
				},
			},
		}
	}

	return renderer.Element{
		ID:        "bullets",
		Kind:      renderer.KindGroup,
		Box:       renderer.Box{X: 60, Y: top, W: w - 120, H: float64(len(points)) * (rowH + gap)},
		Opacity:   1,
		Transform: renderer.Identity(),
		Children:  children,
	}
}

func newsImpact(s float64, impact string, w, h float64) renderer.Element {
	const bh = 150.0
	return renderer.Element{
		ID:        "impact",
		Kind:      renderer.KindBox,
		Box:       renderer.Box{X: 80, Y: h - 360, W: w - 160, H: bh},
		Opacity:   clamp01(s),
		Transform: renderer.Transform{Scale: 0.6 + s*0.4},
		Fill:      fmt.Sprintf("linear-gradient(135deg, %s40, %s40)", newsPrimary, newsAccent),
		Children: []renderer.Element{{
			ID:        "impact-text",
			Kind:      renderer.KindText,
			Box:       renderer.Box{X: 110, Y: h - 330, W: w - 220, H: bh - 60},
			Opacity:   1,
			Transform: renderer.Identity(),
			Color:     "#ffffff",
			Text:      impact + "! 🚀",
			Font:      &renderer.Font{Family: newsFontFamily, Size: 64, Weight: 900, Shadow: "0 0 40px " + newsPrimary},
		}},
	}
}

func newsHashtags(s float64, hashtags string, w, h float64) renderer.Element {
	return renderer.Element{
		ID:        "hashtags",
		Kind:      renderer.KindText,
		Box:       renderer.Box{Y: h - 35 - 40, W: w, H: 40},
		Opacity:   clamp01(s),
		Transform: renderer.Identity(),
		Color:     "rgba(255,255,255,0.5)",
		Text:      hashtags,
		Font:      &renderer.Font{Family: newsFontFamily, Size: 30, Weight: 500},
	}
}
