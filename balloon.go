package bloom

import (
	"math"
	"math/rand/v2"
	"time"
)

// BalloonConfig configures a BalloonSystem. Size is the balloon width; the
// body is 1.3 times taller than wide.
type BalloonConfig struct {
	Common `mapstructure:",squash"`

	// Initial balloons are released on Start, Stagger apart.
	Initial int           `mapstructure:"initial"`
	Stagger time.Duration `mapstructure:"stagger"`

	// RiseTime is how long a balloon takes to cross the bounds.
	RiseTime      DurationRange `mapstructure:"rise_time"`
	SwayAmplitude Range         `mapstructure:"sway_amplitude"`
	// SwaySpeed is the sway phase advance per millisecond.
	SwaySpeed Range `mapstructure:"sway_speed"`
	// TiltDegrees is the peak tilt following the sway.
	TiltDegrees float64 `mapstructure:"tilt_degrees"`
}

// DefaultBalloonConfig returns the stock balloon settings.
func DefaultBalloonConfig() BalloonConfig {
	return BalloonConfig{
		Common: Common{
			MaxEntities: 10,
			SpawnEvery:  3 * time.Second,
			Palette:     clone(balloonPalette),
			Size:        Range{40, 70},
		},
		Initial:       3,
		Stagger:       500 * time.Millisecond,
		RiseTime:      DurationRange{10 * time.Second, 20 * time.Second},
		SwayAmplitude: Range{30, 80},
		SwaySpeed:     Range{0.001, 0.003},
		TiltDegrees:   10,
	}
}

// DecodeBalloonConfig overlays opts onto the defaults.
func DecodeBalloonConfig(opts map[string]any) (BalloonConfig, error) {
	c := DefaultBalloonConfig()
	err := decodeOptions("balloons", opts, &c)
	return c, err
}

// balloon tilts with its sway.
type balloon struct {
	Particle
	tilt float64
}

func (b *balloon) Attributes() Attributes {
	a := b.Particle.Attributes()
	a.Rotation = math.Sin(b.Sway.Phase*0.5) * b.tilt
	return a
}

// BalloonSystem floats balloons from below the bounds up past the top,
// swaying side to side. Motion is the sway integration mode: y rises at a
// constant rate while x follows a phase accumulator.
type BalloonSystem struct {
	base
	cfg      BalloonConfig
	palette  []Color
	balloons *Group
	pending  int
}

// NewBalloonSystem validates cfg and returns a stopped system.
func NewBalloonSystem(h Host, cfg BalloonConfig) (*BalloonSystem, error) {
	s := &BalloonSystem{cfg: cfg}
	var err error
	if s.base, err = newBase("balloons", h, s.step); err != nil {
		return nil, err
	}
	if s.palette, err = cfg.validate(s.name); err != nil {
		return nil, err
	}
	if cfg.SpawnEvery <= 0 {
		return nil, &ConfigError{s.name, "spawn_every", "must be positive"}
	}
	if cfg.Initial > 0 && cfg.Stagger <= 0 {
		return nil, &ConfigError{s.name, "stagger", "must be positive when initial > 0"}
	}
	if err := validDurations(s.name, "rise_time", cfg.RiseTime); err != nil {
		return nil, err
	}
	if err := validRanges(s.name, "sway_amplitude", cfg.SwayAmplitude, "sway_speed", cfg.SwaySpeed); err != nil {
		return nil, err
	}
	s.balloons = s.group(s.name, cfg.MaxEntities, s.spawn)
	s.sched.Every(cfg.SpawnEvery, func() { s.balloons.TrySpawn() })
	if cfg.Initial > 1 {
		s.sched.Every(cfg.Stagger, s.release)
	}
	return s, nil
}

// Start releases the initial balloons, staggered, then one per interval.
func (s *BalloonSystem) Start() {
	if !s.startSched() {
		return
	}
	if s.cfg.Initial > 0 {
		s.pending = s.cfg.Initial
		s.release()
	}
}

// Stop suspends the system. Initial balloons not yet released are dropped.
func (s *BalloonSystem) Stop() {
	s.pending = 0
	s.base.Stop()
}

// Clear removes every balloon.
func (s *BalloonSystem) Clear() { s.balloons.Clear() }

// Len returns the number of live balloons.
func (s *BalloonSystem) Len() int { return s.balloons.Len() }

func (s *BalloonSystem) release() {
	if s.pending <= 0 {
		return
	}
	s.pending--
	s.balloons.TrySpawn()
}

func (s *BalloonSystem) step(time.Duration) {
	s.balloons.Update()
	s.balloons.Render()
}

func (s *BalloonSystem) spawn(r *rand.Rand) Entity {
	c := &s.cfg
	b := s.host.Bounds
	x := b.X + 50 + r.Float64()*max(b.Width-150, 0)
	size := c.Size.Rand(r)
	ticks := c.RiseTime.Ticks(r)
	travel := b.Height + 300
	ms := float64(TickDuration) / float64(time.Millisecond)
	return &balloon{
		Particle: Particle{
			Body: Body{
				Pos:     Pt(x, b.Y+b.Height+150),
				Vel:     Pt(0, -travel/float64(ticks)),
				Scale:   1,
				Opacity: 1,
				Motion:  MotionSway,
				Sway: Oscillator{
					Origin:    x,
					Speed:     c.SwaySpeed.Rand(r) * ms,
					Amplitude: c.SwayAmplitude.Rand(r),
				},
				Exit:   EdgeTop,
				Margin: 150,
			},
			Visual: KindBalloon,
			Color:  pick(r, s.palette),
			Width:  size,
			Height: size * 1.3,
		},
		tilt: c.TiltDegrees * math.Pi / 180,
	}
}
