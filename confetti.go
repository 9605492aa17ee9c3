package bloom

import (
	"math"
	"math/rand/v2"
	"time"
)

// ConfettiConfig configures a ConfettiSystem. Size is the square edge range;
// rectangles and circles use their own ranges.
type ConfettiConfig struct {
	Common `mapstructure:",squash"`

	// Chance is the per-tick probability of an ambient spawn.
	Chance float64 `mapstructure:"chance"`
	// AmbientLimit stops ambient spawning at this population so bursts keep
	// headroom under MaxEntities.
	AmbientLimit int `mapstructure:"ambient_limit"`
	BurstCount   int `mapstructure:"burst_count"`

	RectWidth  Range `mapstructure:"rect_width"`
	RectHeight Range `mapstructure:"rect_height"`
	CircleSize Range `mapstructure:"circle_size"`

	DriftX Range `mapstructure:"drift_x"`
	Fall   Range `mapstructure:"fall"`
	// SpinDegrees is the angular velocity range in degrees per tick.
	SpinDegrees Range `mapstructure:"spin_degrees"`

	Gravity  float64 `mapstructure:"gravity"`
	Friction float64 `mapstructure:"friction"`

	WobbleAmplitude float64 `mapstructure:"wobble_amplitude"`
	WobbleSpeed     Range   `mapstructure:"wobble_speed"`

	// FadeRate applies once a piece is within FadeBand of the bottom edge.
	FadeRate float64 `mapstructure:"fade_rate"`
	FadeBand float64 `mapstructure:"fade_band"`
}

// DefaultConfettiConfig returns the stock confetti settings.
func DefaultConfettiConfig() ConfettiConfig {
	return ConfettiConfig{
		Common: Common{
			MaxEntities: 300,
			Palette:     clone(confettiPalette),
			Size:        Range{8, 15},
		},
		Chance:          0.1,
		AmbientLimit:    50,
		BurstCount:      50,
		RectWidth:       Range{5, 10},
		RectHeight:      Range{15, 25},
		CircleSize:      Range{8, 12},
		DriftX:          Range{-5, 5},
		Fall:            Range{2, 8},
		SpinDegrees:     Range{-15, 15},
		Gravity:         0.1,
		Friction:        0.99,
		WobbleAmplitude: 2,
		WobbleSpeed:     Range{0.05, 0.15},
		FadeRate:        0.02,
		FadeBand:        100,
	}
}

// DecodeConfettiConfig overlays opts onto the defaults.
func DecodeConfettiConfig(opts map[string]any) (ConfettiConfig, error) {
	c := DefaultConfettiConfig()
	err := decodeOptions("confetti", opts, &c)
	return c, err
}

type confettiShape uint8

const (
	shapeSquare confettiShape = iota
	shapeRectangle
	shapeCircle
)

// ConfettiSystem rains tumbling paper pieces. Ambient pieces appear at random
// along the top edge; Burst throws a cluster from a point.
type ConfettiSystem struct {
	base
	cfg     ConfettiConfig
	palette []Color
	pieces  *Group
	spawner Spawner
}

// NewConfettiSystem validates cfg and returns a stopped system.
func NewConfettiSystem(h Host, cfg ConfettiConfig) (*ConfettiSystem, error) {
	s := &ConfettiSystem{cfg: cfg}
	var err error
	if s.base, err = newBase("confetti", h, s.step); err != nil {
		return nil, err
	}
	if s.palette, err = cfg.validate(s.name); err != nil {
		return nil, err
	}
	if cfg.Chance < 0 || cfg.Chance > 1 {
		return nil, &ConfigError{s.name, "chance", "must be within [0, 1]"}
	}
	if cfg.Friction <= 0 || cfg.Friction > 1 {
		return nil, &ConfigError{s.name, "friction", "must be within (0, 1]"}
	}
	if err := validRanges(s.name,
		"rect_width", cfg.RectWidth, "rect_height", cfg.RectHeight, "circle_size", cfg.CircleSize,
		"drift_x", cfg.DriftX, "fall", cfg.Fall, "spin_degrees", cfg.SpinDegrees,
		"wobble_speed", cfg.WobbleSpeed); err != nil {
		return nil, err
	}
	s.pieces = s.group(s.name, cfg.MaxEntities, s.spawnAmbient)
	s.spawner = Spawner{Gate: ChanceGate{P: cfg.Chance}, Group: s.pieces, Limit: cfg.AmbientLimit}
	return s, nil
}

// Start begins ambient spawning and animation.
func (s *ConfettiSystem) Start() { s.startSched() }

// Clear removes every piece.
func (s *ConfettiSystem) Clear() { s.pieces.Clear() }

// Len returns the number of live pieces.
func (s *ConfettiSystem) Len() int { return s.pieces.Len() }

// Burst spawns count pieces at (x, y), ignoring the spawn gate and the
// ambient limit but not the cap.
func (s *ConfettiSystem) Burst(x, y float64, count int) {
	count = clampCount(count, s.cfg.BurstCount)
	r := s.host.Rand
	for i := 0; i < count; i++ {
		if !s.pieces.Add(s.piece(r, Pt(x, y))) && s.pieces.Full() {
			break
		}
	}
	s.log.Debug("burst")
}

func (s *ConfettiSystem) step(now time.Duration) {
	s.spawner.Tick(now, s.host.Rand)
	s.pieces.Update()
	s.pieces.Render()
}

func (s *ConfettiSystem) spawnAmbient(r *rand.Rand) Entity {
	b := s.host.Bounds
	return s.piece(r, Pt(b.X+r.Float64()*b.Width, b.Y-20))
}

func (s *ConfettiSystem) piece(r *rand.Rand, at Point) *Particle {
	c := &s.cfg
	b := s.host.Bounds
	p := &Particle{
		Body: Body{
			Pos:      at,
			Vel:      Pt(c.DriftX.Rand(r), c.Fall.Rand(r)),
			Angle:    float64(r.IntN(361)) * math.Pi / 180,
			Spin:     c.SpinDegrees.Rand(r) * math.Pi / 180,
			Scale:    1,
			Opacity:  1,
			Gravity:  c.Gravity,
			Friction: c.Friction,
			Wobble: Oscillator{
				Phase:     float64(r.IntN(11)),
				Speed:     c.WobbleSpeed.Rand(r),
				Amplitude: c.WobbleAmplitude,
			},
			Fade:   Fade{When: FadeBelow, Threshold: b.Y + b.Height - c.FadeBand, Rate: c.FadeRate},
			Exit:   EdgeBottom,
			Margin: 50,
		},
		Color: pick(r, s.palette),
	}
	switch confettiShape(r.IntN(3)) {
	case shapeSquare:
		p.Visual = KindRect
		p.Width = c.Size.Rand(r)
		p.Height = p.Width
	case shapeRectangle:
		p.Visual = KindRect
		p.Width = c.RectWidth.Rand(r)
		p.Height = c.RectHeight.Rand(r)
	default:
		p.Visual = KindCircle
		p.Width = c.CircleSize.Rand(r)
		p.Height = p.Width
	}
	return p
}
