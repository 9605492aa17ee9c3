package bloom

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// FireworkConfig configures a FireworkSystem. MaxEntities caps the sparks;
// SpawnEvery is the launch rate; Size is the spark diameter range.
type FireworkConfig struct {
	Common `mapstructure:",squash"`

	LaunchOnStart bool `mapstructure:"launch_on_start"`
	MaxRockets    int  `mapstructure:"max_rockets"`
	// RocketTime is the flight duration from the bottom edge to the burst.
	RocketTime DurationRange `mapstructure:"rocket_time"`
	// Sparks is the spark count range of one explosion.
	Sparks    Range         `mapstructure:"sparks"`
	SparkLife DurationRange `mapstructure:"spark_life"`
	// Gravity is in units per second squared.
	Gravity  float64 `mapstructure:"gravity"`
	Friction float64 `mapstructure:"friction"`
	// Accent is the second color of the two-tone ring pattern.
	Accent string `mapstructure:"accent"`
}

// DefaultFireworkConfig returns the stock firework settings.
func DefaultFireworkConfig() FireworkConfig {
	return FireworkConfig{
		Common: Common{
			MaxEntities: 600,
			SpawnEvery:  2 * time.Second,
			Palette:     clone(fireworkPalette),
			Size:        Range{3, 7},
		},
		LaunchOnStart: true,
		MaxRockets:    10,
		RocketTime:    DurationRange{800 * time.Millisecond, 1200 * time.Millisecond},
		Sparks:        Range{30, 60},
		SparkLife:     DurationRange{time.Second, 2 * time.Second},
		Gravity:       80,
		Friction:      0.98,
		Accent:        "#FFD700",
	}
}

// DecodeFireworkConfig overlays opts onto the defaults.
func DecodeFireworkConfig(opts map[string]any) (FireworkConfig, error) {
	c := DefaultFireworkConfig()
	err := decodeOptions("fireworks", opts, &c)
	return c, err
}

// Explosion patterns.
const (
	PatternRing      = iota // evenly spaced, base color
	PatternScatter          // random directions, palette colors
	PatternTwoTone          // jittered ring alternating base and accent
	PatternRandom           // random directions, base color
	patternCount
)

// FireworkSystem launches rockets that rise with an ease-out curve and burst
// into sparks. Sparks are kinematic; rockets are keyframed.
type FireworkSystem struct {
	base
	cfg     FireworkConfig
	palette []Color
	accent  Color
	rockets *Group
	sparks  *Group
}

// NewFireworkSystem validates cfg and returns a stopped system.
func NewFireworkSystem(h Host, cfg FireworkConfig) (*FireworkSystem, error) {
	s := &FireworkSystem{cfg: cfg}
	var err error
	if s.base, err = newBase("fireworks", h, s.step); err != nil {
		return nil, err
	}
	if s.palette, err = cfg.validate(s.name); err != nil {
		return nil, err
	}
	if s.accent, err = ParseColor(s.name, "accent", cfg.Accent); err != nil {
		return nil, err
	}
	if cfg.SpawnEvery <= 0 {
		return nil, &ConfigError{s.name, "spawn_every", "must be positive"}
	}
	if cfg.MaxRockets <= 0 {
		return nil, &ConfigError{s.name, "max_rockets", "must be positive"}
	}
	if cfg.Friction <= 0 || cfg.Friction > 1 {
		return nil, &ConfigError{s.name, "friction", "must be within (0, 1]"}
	}
	if err := validDurations(s.name, "rocket_time", cfg.RocketTime); err != nil {
		return nil, err
	}
	if err := validDurations(s.name, "spark_life", cfg.SparkLife); err != nil {
		return nil, err
	}
	if err := validRanges(s.name, "sparks", cfg.Sparks); err != nil {
		return nil, err
	}
	s.rockets = s.group(s.name+".rockets", cfg.MaxRockets, s.rocket)
	s.sparks = s.group(s.name+".sparks", cfg.MaxEntities, nil)
	s.sched.Every(cfg.SpawnEvery, s.Launch)
	return s, nil
}

// Start begins launching, immediately if LaunchOnStart is set.
func (s *FireworkSystem) Start() {
	if s.startSched() && s.cfg.LaunchOnStart {
		s.Launch()
	}
}

// Launch fires one rocket now.
func (s *FireworkSystem) Launch() {
	s.rockets.TrySpawn()
}

// Burst explodes at (x, y) without a rocket. count <= 0 draws from Sparks.
func (s *FireworkSystem) Burst(x, y float64, count int) {
	r := s.host.Rand
	s.explode(Pt(x, y), pick(r, s.palette), count)
}

// Clear removes every rocket and spark. Cleared rockets do not explode.
func (s *FireworkSystem) Clear() {
	s.rockets.Clear()
	s.sparks.Clear()
}

// Len returns the number of live rockets and sparks.
func (s *FireworkSystem) Len() int { return s.rockets.Len() + s.sparks.Len() }

func (s *FireworkSystem) step(time.Duration) {
	s.sparks.Update()
	// Rockets finishing this tick add sparks that move from the next tick.
	s.rockets.Update()
	s.rockets.Render()
	s.sparks.Render()
}

func (s *FireworkSystem) rocket(r *rand.Rand) Entity {
	b := s.host.Bounds
	x := b.X + 100 + r.Float64()*max(b.Width-200, 0)
	rise := 100 + r.Float64()*max(b.Height*0.4-100, 0)
	bottom := b.Y + b.Height
	color := pick(r, s.palette)
	return &Keyframed{
		Track: NewTrack(s.cfg.RocketTime.Ticks(r), ease.OutQuad,
			Keyframe{Offset: 0, X: x, Y: bottom, Opacity: 1, Scale: 1},
			Keyframe{Offset: 1, X: x, Y: bottom - rise, Opacity: 0.7, Scale: 1},
		),
		Visual: KindRocket,
		Color:  color,
		Width:  4,
		Height: 15,
		OnDone: func(last Keyframe) {
			s.explode(Pt(last.X, last.Y), color, 0)
		},
	}
}

func (s *FireworkSystem) explode(at Point, baseColor Color, count int) {
	r := s.host.Rand
	c := &s.cfg
	if count <= 0 {
		count = int(math.Round(c.Sparks.Rand(r)))
	}
	pattern := r.IntN(patternCount)
	perTick := float64(TicksPerSecond)
	for i := 0; i < count; i++ {
		var angle, speed float64
		color := baseColor
		switch pattern {
		case PatternRing:
			angle = float64(i) / float64(count) * 2 * math.Pi
			speed = Range{80, 150}.Rand(r)
		case PatternScatter:
			angle = r.Float64() * 2 * math.Pi
			speed = Range{50, 200}.Rand(r)
			color = pick(r, s.palette)
		case PatternTwoTone:
			angle = float64(i)/float64(count)*2*math.Pi + Range{-0.2, 0.2}.Rand(r)
			speed = Range{100, 180}.Rand(r)
			if i%2 == 1 {
				color = s.accent
			}
		default:
			angle = r.Float64() * 2 * math.Pi
			speed = Range{60, 140}.Rand(r)
		}
		life := float64(c.SparkLife.Ticks(r))
		size := c.Size.Rand(r)
		spark := &Particle{
			Body: Body{
				Pos:      at,
				Vel:      Point{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(speed / perTick),
				Scale:    1,
				Grow:     -0.5 / life,
				Opacity:  1,
				Gravity:  c.Gravity / (perTick * perTick),
				Friction: c.Friction,
				Fade:     Fade{When: FadeImmediately, Rate: 1 / life},
			},
			Visual: KindDot,
			Color:  color,
			Width:  size,
			Height: size,
		}
		if !s.sparks.Add(spark) && s.sparks.Full() {
			break
		}
	}
}
