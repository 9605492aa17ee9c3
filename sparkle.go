package bloom

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// SparkleConfig configures a SparkleSystem.
type SparkleConfig struct {
	Common `mapstructure:",squash"`

	Lifetime DurationRange `mapstructure:"lifetime"`
	// Margin keeps sparkles away from the bounds edges.
	Margin float64 `mapstructure:"margin"`
	Glyph  string  `mapstructure:"glyph"`
}

// DefaultSparkleConfig returns the stock twinkle settings.
func DefaultSparkleConfig() SparkleConfig {
	return SparkleConfig{
		Common: Common{
			MaxEntities: 30,
			SpawnEvery:  200 * time.Millisecond,
			Palette:     []string{"#FFF8DC", "#FFD700"},
			Size:        Range{4, 10},
		},
		Lifetime: DurationRange{time.Second, 2 * time.Second},
		Margin:   50,
		Glyph:    "✨",
	}
}

// DecodeSparkleConfig overlays opts onto the defaults.
func DecodeSparkleConfig(opts map[string]any) (SparkleConfig, error) {
	c := DefaultSparkleConfig()
	err := decodeOptions("sparkles", opts, &c)
	return c, err
}

// SparkleSystem pops twinkles at random spots on an interval timer. Each
// sparkle scales up to 1.2 while turning half a revolution, then shrinks
// away completing the turn.
type SparkleSystem struct {
	base
	cfg      SparkleConfig
	palette  []Color
	sparkles *Group
}

// NewSparkleSystem validates cfg and returns a stopped system.
func NewSparkleSystem(h Host, cfg SparkleConfig) (*SparkleSystem, error) {
	s := &SparkleSystem{cfg: cfg}
	var err error
	if s.base, err = newBase("sparkles", h, s.step); err != nil {
		return nil, err
	}
	if s.palette, err = cfg.validate(s.name); err != nil {
		return nil, err
	}
	if cfg.SpawnEvery <= 0 {
		return nil, &ConfigError{s.name, "spawn_every", "must be positive"}
	}
	if err := validDurations(s.name, "lifetime", cfg.Lifetime); err != nil {
		return nil, err
	}
	s.sparkles = s.group(s.name, cfg.MaxEntities, s.spawn)
	s.sched.Every(cfg.SpawnEvery, func() { s.sparkles.TrySpawn() })
	return s, nil
}

// Start arms the spawn timer and begins animating.
func (s *SparkleSystem) Start() { s.startSched() }

// Clear removes every sparkle.
func (s *SparkleSystem) Clear() { s.sparkles.Clear() }

// Len returns the number of live sparkles.
func (s *SparkleSystem) Len() int { return s.sparkles.Len() }

func (s *SparkleSystem) step(time.Duration) {
	s.sparkles.Update()
	s.sparkles.Render()
}

func (s *SparkleSystem) spawn(r *rand.Rand) Entity {
	area := s.host.Bounds.Inset(s.cfg.Margin)
	x := area.X + r.Float64()*max(area.Width, 0)
	y := area.Y + r.Float64()*max(area.Height, 0)
	size := s.cfg.Size.Rand(r) * 3
	return &Keyframed{
		Track: NewTrack(s.cfg.Lifetime.Ticks(r), ease.InOutQuad,
			Keyframe{Offset: 0, X: x, Y: y, Opacity: 0, Scale: 0, Rotation: 0},
			Keyframe{Offset: 0.5, X: x, Y: y, Opacity: 1, Scale: 1.2, Rotation: math.Pi},
			Keyframe{Offset: 1, X: x, Y: y, Opacity: 0, Scale: 0, Rotation: 2 * math.Pi},
		),
		Visual: KindSparkle,
		Color:  pick(r, s.palette),
		Width:  size,
		Height: size,
		Glyph:  s.cfg.Glyph,
	}
}
