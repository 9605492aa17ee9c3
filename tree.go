package bloom

import (
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// heartUnit is the width of a heart drawn at scale 1.
const heartUnit = 32

// TreeConfig configures a Tree. Common applies to the falling hearts shed
// once the canopy is full; Size is their scale range and Palette also colors
// the blooms.
type TreeConfig struct {
	Common `mapstructure:",squash"`

	// Branches is the branch topology. Empty means DefaultBranches.
	Branches    []BranchSpec `mapstructure:"branches"`
	GrowthStep  float64      `mapstructure:"growth_step"`
	RadiusDecay float64      `mapstructure:"radius_decay"`

	BloomCount  int     `mapstructure:"bloom_count"`
	BloomRadius float64 `mapstructure:"bloom_radius"`
	// BloomOffset lifts the canopy center above the bounds center.
	BloomOffset float64       `mapstructure:"bloom_offset"`
	BloomScale  Range         `mapstructure:"bloom_scale"`
	BloomAlpha  Range         `mapstructure:"bloom_alpha"`
	BloomGrowth float64       `mapstructure:"bloom_growth"`
	BloomDelay  time.Duration `mapstructure:"bloom_delay"`
	BloomEvery  time.Duration `mapstructure:"bloom_every"`
	BloomBatch  int           `mapstructure:"bloom_batch"`
	MaxAttempts int           `mapstructure:"max_attempts"`

	// GroundWidth of zero means 60% of the bounds width.
	GroundWidth     float64 `mapstructure:"ground_width"`
	GroundThickness float64 `mapstructure:"ground_thickness"`
	GroundSpeed     float64 `mapstructure:"ground_speed"`

	FallSpeed     Range `mapstructure:"fall_speed"`
	SwayAmplitude Range `mapstructure:"sway_amplitude"`
	SwaySpeed     Range `mapstructure:"sway_speed"`

	TrunkColor  string `mapstructure:"trunk_color"`
	GroundColor string `mapstructure:"ground_color"`
	SeedColor   string `mapstructure:"seed_color"`
}

// DefaultTreeConfig returns the stock tree settings.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		Common: Common{
			MaxEntities: 20,
			SpawnEvery:  300 * time.Millisecond,
			Palette:     clone(bloomPalette),
			Size:        Range{0.3, 0.8},
		},
		GrowthStep:      1,
		RadiusDecay:     DefaultRadiusDecay,
		BloomCount:      300,
		BloomRadius:     200,
		BloomOffset:     50,
		BloomScale:      Range{0.3, 0.8},
		BloomAlpha:      Range{0.4, 1},
		BloomGrowth:     0.02,
		BloomDelay:      500 * time.Millisecond,
		BloomEvery:      50 * time.Millisecond,
		BloomBatch:      3,
		MaxAttempts:     DefaultMaxAttempts,
		GroundThickness: 8,
		GroundSpeed:     3,
		FallSpeed:       Range{1, 3},
		SwayAmplitude:   Range{20, 50},
		SwaySpeed:       Range{0.02, 0.05},
		TrunkColor:      "#8B4513",
		GroundColor:     "#8B4513",
		SeedColor:       "#FF69B4",
	}
}

// DecodeTreeConfig overlays opts onto the defaults.
func DecodeTreeConfig(opts map[string]any) (TreeConfig, error) {
	c := DefaultTreeConfig()
	err := decodeOptions("tree", opts, &c)
	return c, err
}

// fixture is an entity that never moves or expires: branch segments, the
// seed.
type fixture struct {
	kind  VisualKind
	attrs Attributes
}

func (f *fixture) Kind() VisualKind       { return f.kind }
func (f *fixture) Step(Rect) Phase        { return Active }
func (f *fixture) Attributes() Attributes { return f.attrs }

// ground is a line that extends from its center until it reaches its width.
type ground struct {
	fixture
	length, speed float64
}

func (g *ground) Step(Rect) Phase {
	if g.length < g.attrs.Width {
		g.length = math.Min(g.length+g.speed, g.attrs.Width)
	}
	g.attrs.Scale = g.length / g.attrs.Width
	return Active
}

// Bloom is one heart-shaped blossom in the canopy. Its position is sampled
// inside the canopy heart once, when the cache is built.
type Bloom struct {
	Pos         Point
	Color       Color
	Angle       float64
	Alpha       float64
	Scale       float64
	TargetScale float64
	Growth      float64

	complete bool
}

// Complete reports whether the bloom reached its target scale.
func (b *Bloom) Complete() bool { return b.complete }

// Kind implements Entity.
func (b *Bloom) Kind() VisualKind { return KindBloom }

// Step implements Entity. Blooms grow to their target scale and stay.
func (b *Bloom) Step(Rect) Phase {
	if b.Scale < b.TargetScale {
		b.Scale += b.Growth
		if b.Scale >= b.TargetScale {
			b.Scale = b.TargetScale
			b.complete = true
		}
	}
	return Active
}

// Attributes implements Entity.
func (b *Bloom) Attributes() Attributes {
	return Attributes{
		X: b.Pos.X, Y: b.Pos.Y,
		Rotation: b.Angle,
		Scale:    b.Scale,
		Opacity:  b.Alpha,
		Color:    b.Color,
		Width:    heartUnit,
		Height:   heartUnit,
	}
}

// Tree grows a branching trunk segment by segment, fills a heart-shaped
// canopy with blooms a few at a time, and then sheds falling hearts.
//
// Stages run in order on the tree's own tick: the ground line and branches
// grow together; when every branch is complete OnGrowthComplete fires and,
// after BloomDelay, cached blooms are admitted BloomBatch at a time every
// BloomEvery; once the cache is exhausted OnBloomsComplete fires and falling
// hearts start.
type Tree struct {
	base
	cfg     TreeConfig
	palette []Color
	trunk   Color
	soil    Color
	seed    Color

	// OnGrowthComplete runs once per growth, on the tick the last branch
	// completes.
	OnGrowthComplete func()
	// OnBloomsComplete runs once every cached bloom has been admitted.
	OnBloomsComplete func()

	growth    *Growth
	cache     []*Bloom
	admitted  int
	structure *Group
	blooms    *Group
	falling   *Group

	planted       bool
	growthDone    bool
	bloomsDone    bool
	bloomStarted  bool
	nextAdmission time.Duration
}

// NewTree validates cfg, samples the bloom cache and returns a stopped tree.
func NewTree(h Host, cfg TreeConfig) (*Tree, error) {
	t := &Tree{cfg: cfg}
	var err error
	if t.base, err = newBase("tree", h, t.step); err != nil {
		return nil, err
	}
	if t.palette, err = cfg.validate(t.name); err != nil {
		return nil, err
	}
	if t.trunk, err = ParseColor(t.name, "trunk_color", cfg.TrunkColor); err != nil {
		return nil, err
	}
	if t.soil, err = ParseColor(t.name, "ground_color", cfg.GroundColor); err != nil {
		return nil, err
	}
	if t.seed, err = ParseColor(t.name, "seed_color", cfg.SeedColor); err != nil {
		return nil, err
	}
	if cfg.SpawnEvery <= 0 {
		return nil, &ConfigError{t.name, "spawn_every", "must be positive"}
	}
	if cfg.BloomCount < 0 {
		return nil, &ConfigError{t.name, "bloom_count", "must not be negative"}
	}
	if cfg.BloomBatch <= 0 {
		return nil, &ConfigError{t.name, "bloom_batch", "must be positive"}
	}
	if cfg.BloomEvery <= 0 {
		return nil, &ConfigError{t.name, "bloom_every", "must be positive"}
	}
	if cfg.RadiusDecay <= 0 || cfg.RadiusDecay > 1 {
		return nil, &ConfigError{t.name, "radius_decay", "must be within (0, 1]"}
	}
	for _, c := range []struct {
		field string
		v     float64
	}{{"growth_step", cfg.GrowthStep}, {"bloom_radius", cfg.BloomRadius}, {"bloom_growth", cfg.BloomGrowth}, {"ground_speed", cfg.GroundSpeed}} {
		if err := positive(t.name, c.field, c.v); err != nil {
			return nil, err
		}
	}
	if err := validRanges(t.name,
		"bloom_scale", cfg.BloomScale, "bloom_alpha", cfg.BloomAlpha,
		"fall_speed", cfg.FallSpeed, "sway_amplitude", cfg.SwayAmplitude, "sway_speed", cfg.SwaySpeed); err != nil {
		return nil, err
	}
	if len(t.cfg.Branches) == 0 {
		t.cfg.Branches = DefaultBranches(t.host.Bounds)
	}
	t.structure = t.group(t.name+".structure", segmentBudget(t.cfg.Branches, cfg.GrowthStep)+2, nil)
	t.blooms = t.group(t.name+".blooms", max(cfg.BloomCount, 1), nil)
	t.falling = t.group(t.name+".falling", cfg.MaxEntities, t.fallingHeart)
	t.sched.Every(cfg.SpawnEvery, func() {
		if t.bloomsDone {
			t.falling.TrySpawn()
		}
	})
	t.rebuild()
	return t, nil
}

// segmentBudget counts the growth steps of a branch tree, which bounds the
// number of segments it draws.
func segmentBudget(roots []BranchSpec, step float64) int {
	n := 0
	work := make([]*BranchSpec, 0, len(roots))
	for i := range roots {
		work = append(work, &roots[i])
	}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		n += growthSteps(newBranch(s, 0).length, step)
		for i := range s.Children {
			work = append(work, &s.Children[i])
		}
	}
	return n
}

// Start begins or resumes growing.
func (t *Tree) Start() { t.startSched() }

// Clear removes every visual and rewinds the tree to a bare seed with a
// freshly sampled canopy. A running tree keeps running and regrows.
func (t *Tree) Clear() {
	t.structure.Clear()
	t.blooms.Clear()
	t.falling.Clear()
	t.rebuild()
}

// Reset stops the tree and rewinds it.
func (t *Tree) Reset() {
	t.Stop()
	t.Clear()
	t.log.Debug("reset")
}

// Branches returns the branches instantiated so far.
func (t *Tree) Branches() []*Branch { return t.growth.Branches() }

// GrowthComplete reports whether every branch has finished growing.
func (t *Tree) GrowthComplete() bool { return t.growthDone }

// BloomsComplete reports whether every cached bloom has been admitted.
func (t *Tree) BloomsComplete() bool { return t.bloomsDone }

// CacheSize returns the number of blooms sampled into the cache. It can be
// below BloomCount when sampling gave up for some slots.
func (t *Tree) CacheSize() int { return len(t.cache) }

// Blooms returns the number of admitted blooms.
func (t *Tree) Blooms() int { return t.blooms.Len() }

// Falling returns the number of live falling hearts.
func (t *Tree) Falling() int { return t.falling.Len() }

func (t *Tree) rebuild() {
	g := NewGrowth(t.cfg.Branches)
	g.Decay = t.cfg.RadiusDecay
	g.Increment = t.cfg.GrowthStep
	t.growth = g
	t.cache = t.sampleBlooms()
	t.admitted = 0
	t.planted = false
	t.growthDone = false
	t.bloomsDone = false
	t.bloomStarted = false
}

func (t *Tree) canopyCenter() Point {
	b := t.host.Bounds
	return Pt(b.X+b.Width/2, b.Y+b.Height/2-t.cfg.BloomOffset)
}

func (t *Tree) sampleBlooms() []*Bloom {
	r := t.host.Rand
	c := &t.cfg
	center := t.canopyCenter()
	inside := HeartRegion(center, c.BloomRadius)
	cache := make([]*Bloom, 0, c.BloomCount)
	for i := 0; i < c.BloomCount; i++ {
		p, ok := SampleInRegion(r, center, c.BloomRadius, inside, c.MaxAttempts)
		if !ok {
			continue
		}
		cache = append(cache, &Bloom{
			Pos:         p,
			Color:       pick(r, t.palette),
			Alpha:       c.BloomAlpha.Rand(r),
			Angle:       r.Float64() * 2 * math.Pi,
			TargetScale: c.BloomScale.Rand(r),
			Growth:      c.BloomGrowth,
		})
	}
	if len(cache) < c.BloomCount {
		t.log.Debug("bloom cache short", zap.Int("want", c.BloomCount), zap.Int("got", len(cache)))
	}
	return cache
}

func (t *Tree) plant() {
	b := t.host.Bounds
	cx := b.X + b.Width/2
	width := t.cfg.GroundWidth
	if width <= 0 {
		width = b.Width * 0.6
	}
	t.structure.Add(&ground{
		fixture: fixture{kind: KindGround, attrs: Attributes{
			X: cx, Y: b.Y + b.Height - 20,
			Opacity: 1, Color: t.soil,
			Width: width, Height: t.cfg.GroundThickness,
		}},
		speed: t.cfg.GroundSpeed,
	})
	t.structure.Add(&fixture{kind: KindHeart, attrs: Attributes{
		X: cx, Y: b.Y + b.Height - 50,
		Scale: 1, Opacity: 1, Color: t.seed,
		Width: heartUnit, Height: heartUnit,
	}})
	t.planted = true
}

func (t *Tree) step(now time.Duration) {
	if !t.planted {
		t.plant()
	}
	if !t.growthDone {
		if t.growth.Step(t.drawSegment) {
			t.growthDone = true
			t.bloomStarted = true
			t.nextAdmission = now + t.cfg.BloomDelay
			t.log.Debug("growth complete", zap.Int("branches", len(t.growth.Branches())))
			if t.OnGrowthComplete != nil {
				t.OnGrowthComplete()
			}
		}
	}
	if t.bloomStarted && !t.bloomsDone && now >= t.nextAdmission {
		t.admit()
		t.nextAdmission = now + t.cfg.BloomEvery
	}

	t.structure.Update()
	t.blooms.Update()
	t.falling.Update()
	t.structure.Render()
	t.blooms.Render()
	t.falling.Render()
}

func (t *Tree) drawSegment(_ *Branch, p Point, radius float64) {
	t.structure.Add(&fixture{kind: KindSegment, attrs: Attributes{
		X: p.X, Y: p.Y,
		Scale: 1, Opacity: 1, Color: t.trunk,
		Width: 2 * radius, Height: 2 * radius,
	}})
}

// admit moves the next batch of cached blooms into the canopy, or finishes
// blooming when the cache is exhausted.
func (t *Tree) admit() {
	if t.admitted >= len(t.cache) {
		t.bloomsDone = true
		t.log.Debug("blooms complete", zap.Int("blooms", t.blooms.Len()))
		if t.OnBloomsComplete != nil {
			t.OnBloomsComplete()
		}
		return
	}
	for i := 0; i < t.cfg.BloomBatch && t.admitted < len(t.cache); i++ {
		t.blooms.Add(t.cache[t.admitted])
		t.admitted++
	}
}

func (t *Tree) fallingHeart(r *rand.Rand) Entity {
	c := &t.cfg
	b := t.host.Bounds
	x := b.X + 50 + r.Float64()*max(b.Width-100, 0)
	return &Particle{
		Body: Body{
			Pos:     Pt(x, b.Y-50),
			Vel:     Pt(0, c.FallSpeed.Rand(r)),
			Angle:   r.Float64() * 2 * math.Pi,
			Spin:    Range{-0.05, 0.05}.Rand(r),
			Scale:   c.Size.Rand(r),
			Opacity: Range{0.5, 1}.Rand(r),
			Motion:  MotionSway,
			Sway: Oscillator{
				Origin:    x,
				Phase:     float64(r.IntN(1001)),
				Speed:     c.SwaySpeed.Rand(r),
				Amplitude: c.SwayAmplitude.Rand(r),
			},
			Exit:   EdgeBottom,
			Margin: 50,
		},
		Visual: KindHeart,
		Color:  pick(r, t.palette),
		Width:  heartUnit,
		Height: heartUnit,
	}
}
