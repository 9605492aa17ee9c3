package bloom

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// HeartRainConfig configures a HeartRain.
type HeartRainConfig struct {
	Common `mapstructure:",squash"`

	// Intensity is the number of hearts released per interval.
	Intensity int           `mapstructure:"intensity"`
	FallTime  DurationRange `mapstructure:"fall_time"`
	// Sway bounds the horizontal distance a heart drifts while falling.
	Sway Range `mapstructure:"sway"`
	// SpinDegrees bounds the total rotation over the fall.
	SpinDegrees float64 `mapstructure:"spin_degrees"`
}

// DefaultHeartRainConfig returns the stock rain settings.
func DefaultHeartRainConfig() HeartRainConfig {
	return HeartRainConfig{
		Common: Common{
			MaxEntities: 200,
			SpawnEvery:  200 * time.Millisecond,
			Palette:     clone(rainPalette),
			Size:        Range{15, 40},
		},
		Intensity:   5,
		FallTime:    DurationRange{3 * time.Second, 6 * time.Second},
		Sway:        Range{50, 150},
		SpinDegrees: 360,
	}
}

// DecodeHeartRainConfig overlays opts onto the defaults.
func DecodeHeartRainConfig(opts map[string]any) (HeartRainConfig, error) {
	c := DefaultHeartRainConfig()
	err := decodeOptions("rain", opts, &c)
	return c, err
}

// HeartRain drops batches of hearts from above the bounds. Each heart follows
// a linear keyframed path: brightening through the upper third, then fading
// as it drifts to its landing point below the bottom edge.
type HeartRain struct {
	base
	cfg     HeartRainConfig
	palette []Color
	hearts  *Group
	spawner Spawner
}

// NewHeartRain validates cfg and returns a stopped system.
func NewHeartRain(h Host, cfg HeartRainConfig) (*HeartRain, error) {
	s := &HeartRain{cfg: cfg}
	var err error
	if s.base, err = newBase("rain", h, s.step); err != nil {
		return nil, err
	}
	if s.palette, err = cfg.validate(s.name); err != nil {
		return nil, err
	}
	if cfg.SpawnEvery <= 0 {
		return nil, &ConfigError{s.name, "spawn_every", "must be positive"}
	}
	if cfg.Intensity <= 0 {
		return nil, &ConfigError{s.name, "intensity", "must be positive"}
	}
	if err := validDurations(s.name, "fall_time", cfg.FallTime); err != nil {
		return nil, err
	}
	if err := validRanges(s.name, "sway", cfg.Sway); err != nil {
		return nil, err
	}
	s.hearts = s.group(s.name, cfg.MaxEntities, s.spawn)
	s.spawner = Spawner{Group: s.hearts, PerFire: cfg.Intensity}
	s.sched.Every(cfg.SpawnEvery, s.spawner.Fire)
	return s, nil
}

// Start begins the rain.
func (s *HeartRain) Start() { s.startSched() }

// Clear removes every falling heart.
func (s *HeartRain) Clear() { s.hearts.Clear() }

// Len returns the number of live hearts.
func (s *HeartRain) Len() int { return s.hearts.Len() }

func (s *HeartRain) step(time.Duration) {
	s.hearts.Update()
	s.hearts.Render()
}

func (s *HeartRain) spawn(r *rand.Rand) Entity {
	c := &s.cfg
	b := s.host.Bounds
	x := b.X + r.Float64()*b.Width
	sway := c.Sway.Rand(r)
	endX := x + Range{-sway, sway}.Rand(r)
	rot := Range{-c.SpinDegrees, c.SpinDegrees}.Rand(r) * math.Pi / 180
	size := c.Size.Rand(r)
	return &Keyframed{
		Track: NewTrack(c.FallTime.Ticks(r), ease.Linear,
			Keyframe{Offset: 0, X: x, Y: b.Y - 50, Opacity: Range{0.5, 1}.Rand(r), Scale: 0.5},
			Keyframe{Offset: 0.3, X: (x + endX) / 2, Y: b.Y + b.Height/3, Opacity: 1, Scale: 1, Rotation: rot / 2},
			Keyframe{Offset: 1, X: endX, Y: b.Y + b.Height + 50, Opacity: 0, Scale: 0.8, Rotation: rot},
		),
		Visual: KindHeart,
		Color:  pick(r, s.palette),
		Width:  size,
		Height: size,
	}
}
