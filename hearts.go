package bloom

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// HeartConfig configures a HeartSystem. Common applies to floating hearts;
// Size is their edge length.
type HeartConfig struct {
	Common `mapstructure:",squash"`

	Rise          Range `mapstructure:"rise"`
	SwayAmplitude Range `mapstructure:"sway_amplitude"`
	SwaySpeed     Range `mapstructure:"sway_speed"`
	// FadeAbove is the fraction of the bounds height above which floating
	// hearts fade.
	FadeAbove float64 `mapstructure:"fade_above"`
	FadeRate  float64 `mapstructure:"fade_rate"`

	// GlyphChance is the probability a floating heart is an emoji glyph.
	GlyphChance float64  `mapstructure:"glyph_chance"`
	Glyphs      []string `mapstructure:"glyphs"`

	BurstCount   int `mapstructure:"burst_count"`
	BurstCap     int `mapstructure:"burst_cap"`
	TrailCap     int `mapstructure:"trail_cap"`
	ExplodeCount int `mapstructure:"explode_count"`
	// EffectCap bounds keyframed click and explosion hearts together.
	EffectCap int `mapstructure:"effect_cap"`

	ClickPalette   []string `mapstructure:"click_palette"`
	ExplodePalette []string `mapstructure:"explode_palette"`
}

// DefaultHeartConfig returns the stock heart settings.
func DefaultHeartConfig() HeartConfig {
	return HeartConfig{
		Common: Common{
			MaxEntities: 50,
			SpawnEvery:  500 * time.Millisecond,
			Palette:     clone(heartPalette),
			Size:        Range{20, 40},
		},
		Rise:          Range{1, 3},
		SwayAmplitude: Range{30, 80},
		SwaySpeed:     Range{0.01, 0.03},
		FadeAbove:     0.3,
		FadeRate:      0.01,
		GlyphChance:   3.0 / 11,
		Glyphs:        clone(heartGlyphs),
		BurstCount:    10,
		BurstCap:      300,
		TrailCap:      200,
		ExplodeCount:  20,
		EffectCap:     300,
		ClickPalette: []string{
			"#FF6B95", "#FF8FAB", "#FFB3C6", "#FF69B4",
			"#FF1493", "#DB7093", "#FFB6C1", "#FFC0CB",
			"#E91E63", "#F06292", "#FF4081", "#FF80AB",
		},
		ExplodePalette: clone(rainPalette),
	}
}

// DecodeHeartConfig overlays opts onto the defaults.
func DecodeHeartConfig(opts map[string]any) (HeartConfig, error) {
	c := DefaultHeartConfig()
	err := decodeOptions("hearts", opts, &c)
	return c, err
}

// HeartSystem is the heart family: hearts floating up on a timer plus
// on-demand bursts, trails, click hearts and explosions. Each kind lives in
// its own group with its own cap.
type HeartSystem struct {
	base
	cfg HeartConfig

	palette, clickPalette, explodePalette []Color

	floating *Group
	bursts   *Group
	trails   *Group
	effects  *Group
}

// NewHeartSystem validates cfg and returns a stopped system.
func NewHeartSystem(h Host, cfg HeartConfig) (*HeartSystem, error) {
	s := &HeartSystem{cfg: cfg}
	var err error
	if s.base, err = newBase("hearts", h, s.step); err != nil {
		return nil, err
	}
	if s.palette, err = cfg.validate(s.name); err != nil {
		return nil, err
	}
	if s.clickPalette, err = ParsePalette(s.name, cfg.ClickPalette); err != nil {
		return nil, err
	}
	if s.explodePalette, err = ParsePalette(s.name, cfg.ExplodePalette); err != nil {
		return nil, err
	}
	if cfg.SpawnEvery <= 0 {
		return nil, &ConfigError{s.name, "spawn_every", "must be positive"}
	}
	for _, c := range []struct {
		field string
		v     int
	}{{"burst_cap", cfg.BurstCap}, {"trail_cap", cfg.TrailCap}, {"effect_cap", cfg.EffectCap}} {
		if c.v <= 0 {
			return nil, &ConfigError{s.name, c.field, "must be positive"}
		}
	}
	if cfg.GlyphChance > 0 && len(cfg.Glyphs) == 0 {
		return nil, &ConfigError{s.name, "glyphs", "is empty but glyph_chance is set"}
	}
	if err := validRanges(s.name, "rise", cfg.Rise, "sway_amplitude", cfg.SwayAmplitude, "sway_speed", cfg.SwaySpeed); err != nil {
		return nil, err
	}
	s.floating = s.group(s.name, cfg.MaxEntities, s.float)
	s.bursts = s.group(s.name+".burst", cfg.BurstCap, nil)
	s.trails = s.group(s.name+".trail", cfg.TrailCap, nil)
	s.effects = s.group(s.name+".effect", cfg.EffectCap, nil)
	s.sched.Every(cfg.SpawnEvery, func() { s.floating.TrySpawn() })
	return s, nil
}

// Start begins floating hearts and animation.
func (s *HeartSystem) Start() { s.startSched() }

// Clear removes every heart of every kind.
func (s *HeartSystem) Clear() {
	s.floating.Clear()
	s.bursts.Clear()
	s.trails.Clear()
	s.effects.Clear()
}

// Len returns the number of live hearts of every kind.
func (s *HeartSystem) Len() int {
	return s.floating.Len() + s.bursts.Len() + s.trails.Len() + s.effects.Len()
}

func (s *HeartSystem) step(time.Duration) {
	for _, g := range [...]*Group{s.floating, s.bursts, s.trails, s.effects} {
		g.Update()
		g.Render()
	}
}

// Float spawns one floating heart now, as the timer would.
func (s *HeartSystem) Float() bool {
	return s.floating.TrySpawn()
}

func (s *HeartSystem) float(r *rand.Rand) Entity {
	c := &s.cfg
	b := s.host.Bounds
	x := b.X + 50 + r.Float64()*max(b.Width-100, 0)
	size := c.Size.Rand(r)
	p := &Particle{
		Body: Body{
			Pos:     Pt(x, b.Y+b.Height+50),
			Vel:     Pt(0, -c.Rise.Rand(r)),
			Angle:   Range{-30, 30}.Rand(r) * math.Pi / 180,
			Spin:    Range{-2, 2}.Rand(r) * math.Pi / 180,
			Scale:   Range{0.8, 1.2}.Rand(r),
			Opacity: Range{0.6, 1}.Rand(r),
			Motion:  MotionSway,
			Sway: Oscillator{
				Origin:    x,
				Phase:     float64(r.IntN(1001)),
				Speed:     c.SwaySpeed.Rand(r),
				Amplitude: c.SwayAmplitude.Rand(r),
			},
			Fade:   Fade{When: FadeAbove, Threshold: b.Y + b.Height*c.FadeAbove, Rate: c.FadeRate},
			Exit:   EdgeTop,
			Margin: 100,
		},
		Visual: KindHeart,
		Color:  pick(r, s.palette),
		Width:  size,
		Height: size,
	}
	if c.GlyphChance > 0 && r.Float64() < c.GlyphChance {
		p.Visual = KindGlyph
		p.Glyph = pick(r, c.Glyphs)
	}
	return p
}

// Burst throws count hearts radially from (x, y); they arc under gravity and
// fade out.
func (s *HeartSystem) Burst(x, y float64, count int) {
	count = clampCount(count, s.cfg.BurstCount)
	r := s.host.Rand
	for i := 0; i < count; i++ {
		angle := float64(i) / float64(count) * 2 * math.Pi
		speed := Range{3, 8}.Rand(r)
		size := Range{15, 30}.Rand(r)
		h := &Particle{
			Body: Body{
				Pos:      Pt(x, y),
				Vel:      Point{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(speed),
				Angle:    r.Float64() * 2 * math.Pi,
				Spin:     Range{-10, 10}.Rand(r) * math.Pi / 180,
				Scale:    1,
				Opacity:  1,
				Gravity:  0.15,
				Friction: 0.98,
				Fade:     Fade{When: FadeImmediately, Rate: 0.015},
			},
			Visual: KindHeart,
			Color:  pick(r, s.palette),
			Width:  size,
			Height: size,
		}
		if !s.bursts.Add(h) && s.bursts.Full() {
			return
		}
	}
}

// Trail leaves one heart at (x, y) that shrinks and fades in place.
func (s *HeartSystem) Trail(x, y float64) bool {
	r := s.host.Rand
	size := Range{10, 20}.Rand(r)
	return s.trails.Add(&Particle{
		Body: Body{
			Pos:     Pt(x, y),
			Scale:   1,
			Grow:    -0.02,
			Opacity: 0.8,
			Fade:    Fade{When: FadeImmediately, Rate: 0.03},
		},
		Visual: KindHeart,
		Color:  pick(r, s.palette),
		Width:  size,
		Height: size,
	})
}

// Click pops a heart at (x, y) that swells, drifts up and fades over one
// second.
func (s *HeartSystem) Click(x, y float64) bool {
	r := s.host.Rand
	end := Pt(x+Range{-40, 40}.Rand(r), y-Range{80, 150}.Rand(r))
	rot := Range{-60, 60}.Rand(r) * math.Pi / 180
	size := Range{25, 45}.Rand(r)
	h := &Keyframed{
		Track: NewTrack(Ticks(time.Second), ease.OutQuad,
			Keyframe{Offset: 0, X: x, Y: y, Opacity: 1, Scale: 0},
			Keyframe{Offset: 0.4, X: (x + end.X) / 2, Y: (y + end.Y) / 2, Opacity: 1, Scale: 1.5, Rotation: rot / 2},
			Keyframe{Offset: 1, X: end.X, Y: end.Y, Opacity: 0, Scale: 1, Rotation: rot},
		),
		Visual: KindHeart,
		Color:  pick(r, s.clickPalette),
		Width:  size,
		Height: size,
	}
	if r.IntN(11) > 6 && len(s.cfg.Glyphs) > 0 {
		h.Visual = KindGlyph
		h.Glyph = pick(r, s.cfg.Glyphs)
	}
	return s.effects.Add(h)
}

// Explode sends count hearts flying outward from (x, y) on arcs that lift
// before they land, spinning and fading.
func (s *HeartSystem) Explode(x, y float64, count int) {
	count = clampCount(count, s.cfg.ExplodeCount)
	r := s.host.Rand
	for i := 0; i < count; i++ {
		angle := float64(i) / float64(count) * 2 * math.Pi
		speed := Range{100, 300}.Rand(r)
		end := Pt(x+math.Cos(angle)*speed, y+math.Sin(angle)*speed)
		rot := Range{-720, 720}.Rand(r) * math.Pi / 180
		size := Range{15, 35}.Rand(r)
		h := &Keyframed{
			Track: NewTrack(DurationRange{800 * time.Millisecond, 1500 * time.Millisecond}.Ticks(r), ease.OutQuad,
				Keyframe{Offset: 0, X: x, Y: y, Opacity: 1, Scale: 0},
				Keyframe{Offset: 0.3, X: (x + end.X) / 2, Y: (y+end.Y)/2 - 50, Opacity: 1, Scale: 1.5, Rotation: rot / 2},
				Keyframe{Offset: 1, X: end.X, Y: end.Y, Opacity: 0, Scale: 0.5, Rotation: rot},
			),
			Visual: KindHeart,
			Color:  pick(r, s.explodePalette),
			Width:  size,
			Height: size,
		}
		if !s.effects.Add(h) && s.effects.Full() {
			return
		}
	}
}
