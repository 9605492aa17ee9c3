package bloom

import (
	"math/rand/v2"
	"time"
)

// ParticleConfig configures a ParticleSystem.
type ParticleConfig struct {
	Common `mapstructure:",squash"`

	// DriftX is the horizontal velocity range.
	DriftX Range `mapstructure:"drift_x"`
	// Fall is the downward velocity range.
	Fall Range `mapstructure:"fall"`
	// FadeRate is the per-tick opacity loss range.
	FadeRate Range `mapstructure:"fade_rate"`
}

// DefaultParticleConfig returns the stock glowing-dust settings.
func DefaultParticleConfig() ParticleConfig {
	return ParticleConfig{
		Common: Common{
			MaxEntities: 100,
			SpawnEvery:  100 * time.Millisecond,
			Palette:     clone(brightPalette),
			Size:        Range{3, 8},
		},
		DriftX:   Range{-1, 1},
		Fall:     Range{1, 3},
		FadeRate: Range{0.005, 0.015},
	}
}

// DecodeParticleConfig overlays opts onto the defaults.
func DecodeParticleConfig(opts map[string]any) (ParticleConfig, error) {
	c := DefaultParticleConfig()
	err := decodeOptions("particles", opts, &c)
	return c, err
}

// ParticleSystem drifts small glowing dots down from the top edge. Each dot
// fades from the moment it appears.
type ParticleSystem struct {
	base
	cfg     ParticleConfig
	palette []Color
	dots    *Group
	spawner Spawner
}

// NewParticleSystem validates cfg and returns a stopped system.
func NewParticleSystem(h Host, cfg ParticleConfig) (*ParticleSystem, error) {
	s := &ParticleSystem{cfg: cfg}
	var err error
	if s.base, err = newBase("particles", h, s.step); err != nil {
		return nil, err
	}
	if s.palette, err = cfg.validate(s.name); err != nil {
		return nil, err
	}
	if err := validRanges(s.name, "drift_x", cfg.DriftX, "fall", cfg.Fall, "fade_rate", cfg.FadeRate); err != nil {
		return nil, err
	}
	if cfg.FadeRate.Max <= 0 {
		return nil, &ConfigError{s.name, "fade_rate", "must allow a positive rate"}
	}
	s.dots = s.group(s.name, cfg.MaxEntities, s.spawn)
	s.spawner = Spawner{Gate: &ElapsedGate{Min: cfg.SpawnEvery}, Group: s.dots}
	return s, nil
}

// Start begins spawning and animating.
func (s *ParticleSystem) Start() { s.startSched() }

// Clear removes every dot.
func (s *ParticleSystem) Clear() { s.dots.Clear() }

// Len returns the number of live dots.
func (s *ParticleSystem) Len() int { return s.dots.Len() }

func (s *ParticleSystem) step(now time.Duration) {
	s.spawner.Tick(now, s.host.Rand)
	s.dots.Update()
	s.dots.Render()
}

func (s *ParticleSystem) spawn(r *rand.Rand) Entity {
	b := s.host.Bounds
	size := s.cfg.Size.Rand(r)
	return &Particle{
		Body: Body{
			Pos:     Pt(b.X+r.Float64()*b.Width, b.Y-10),
			Vel:     Pt(s.cfg.DriftX.Rand(r), s.cfg.Fall.Rand(r)),
			Scale:   1,
			Opacity: 1,
			Fade:    Fade{When: FadeImmediately, Rate: s.cfg.FadeRate.Rand(r)},
			Exit:    EdgeBottom,
		},
		Visual: KindDot,
		Color:  pick(r, s.palette),
		Width:  size,
		Height: size,
	}
}
