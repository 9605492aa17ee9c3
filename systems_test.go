package bloom

import (
	"testing"
	"time"
)

var (
	_ Burster = (*ConfettiSystem)(nil)
	_ Burster = (*FireworkSystem)(nil)
	_ Burster = (*HeartSystem)(nil)
	_ System  = (*ParticleSystem)(nil)
	_ System  = (*SparkleSystem)(nil)
	_ System  = (*BalloonSystem)(nil)
	_ System  = (*HeartRain)(nil)
	_ System  = (*Tree)(nil)
)

func TestParticleSystemCapAndExpiry(t *testing.T) {
	h, clock, surf := newTestHost(2)
	obs := newCountObserver()
	h.Observer = obs
	cfg := DefaultParticleConfig()
	cfg.MaxEntities = 10
	cfg.SpawnEvery = time.Millisecond
	s, err := NewParticleSystem(h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	for i := 0; i < 300; i++ {
		clock.Step()
		if s.Len() > 10 {
			t.Fatalf("tick %d: Len = %d over cap", i, s.Len())
		}
		if surf.Live() != s.Len() {
			t.Fatalf("tick %d: live visuals %d, entities %d", i, surf.Live(), s.Len())
		}
	}
	if obs.expired["particles"] == 0 {
		t.Error("no dot ever expired")
	}
	if obs.dropped["particles"] == 0 {
		t.Error("spawning never hit the cap")
	}
}

func TestConfettiBurstAndCap(t *testing.T) {
	h, clock, surf := newTestHost(3)
	cfg := DefaultConfettiConfig()
	cfg.Chance = 0
	s, err := NewConfettiSystem(h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Burst(640, 300, 0)
	if s.Len() != 50 {
		t.Errorf("default burst = %d, want 50", s.Len())
	}
	s.Burst(640, 300, 1000)
	if s.Len() != 300 {
		t.Errorf("Len = %d, want cap 300", s.Len())
	}

	s.Start()
	clock.Advance(600)
	if s.Len() != 0 || surf.Live() != 0 {
		t.Errorf("after 10s: %d pieces, %d visuals", s.Len(), surf.Live())
	}
}

func TestConfettiAmbientLimit(t *testing.T) {
	h, clock, _ := newTestHost(4)
	cfg := DefaultConfettiConfig()
	cfg.Chance = 1
	cfg.AmbientLimit = 5
	s, err := NewConfettiSystem(h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	clock.Advance(10)
	if s.Len() != 5 {
		t.Errorf("Len = %d, want ambient limit 5", s.Len())
	}
	s.Burst(100, 100, 10)
	if s.Len() != 15 {
		t.Errorf("burst ignored the limit: Len = %d, want 15", s.Len())
	}
	s.Clear()
	if s.Len() != 0 || !s.Running() {
		t.Errorf("Clear: Len = %d running = %v", s.Len(), s.Running())
	}
}

func TestSparkleSystem(t *testing.T) {
	h, clock, surf := newTestHost(5)
	cfg := DefaultSparkleConfig()
	cfg.MaxEntities = 5
	cfg.SpawnEvery = 50 * time.Millisecond
	s, err := NewSparkleSystem(h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	clock.Advance(60)
	if s.Len() != 5 {
		t.Errorf("Len = %d, want 5", s.Len())
	}
	if surf.CountKind(KindSparkle) != 5 {
		t.Errorf("sparkle visuals = %d", surf.CountKind(KindSparkle))
	}
	area := h.Bounds.Inset(cfg.Margin)
	for hd := Handle(1); hd <= 5; hd++ {
		v, ok := surf.Get(hd)
		if ok && !area.Contains(v.Attrs.X, v.Attrs.Y) {
			t.Errorf("sparkle %d at (%v, %v) outside the margin", hd, v.Attrs.X, v.Attrs.Y)
		}
	}
	clock.Advance(600)
	if s.Len() > 5 {
		t.Errorf("Len = %d over cap", s.Len())
	}
}

func TestBalloonStagger(t *testing.T) {
	h, clock, surf := newTestHost(6)
	s, err := NewBalloonSystem(h, DefaultBalloonConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	if s.Len() != 1 {
		t.Fatalf("Len after Start = %d, want 1", s.Len())
	}
	clock.Advance(31)
	if s.Len() != 2 {
		t.Errorf("Len after 500ms = %d, want 2", s.Len())
	}
	clock.Advance(30)
	if s.Len() != 3 {
		t.Errorf("Len after 1s = %d, want 3", s.Len())
	}
	clock.Advance(100)
	if s.Len() != 3 {
		t.Errorf("stagger released more than Initial: %d", s.Len())
	}
	v, ok := surf.Get(1)
	if !ok {
		t.Fatal("first balloon gone")
	}
	if v.Kind != KindBalloon || v.Attrs.Y >= 720+150 {
		t.Errorf("balloon %v at y=%v did not rise", v.Kind, v.Attrs.Y)
	}
	if v.Attrs.Height <= v.Attrs.Width {
		t.Errorf("balloon %vx%v is not taller than wide", v.Attrs.Width, v.Attrs.Height)
	}
}

func TestBalloonStopDropsPending(t *testing.T) {
	h, clock, _ := newTestHost(6)
	s, err := NewBalloonSystem(h, DefaultBalloonConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	s.Stop()
	s.Start()
	clock.Advance(61)
	if s.Len() != 4 {
		// One from each Start, two staggered after the second.
		t.Errorf("Len = %d, want 4", s.Len())
	}
}

func TestFireworkRocketExplodes(t *testing.T) {
	h, clock, surf := newTestHost(7)
	s, err := NewFireworkSystem(h, DefaultFireworkConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	if surf.CountKind(KindRocket) != 1 {
		t.Fatalf("rockets after Start = %d, want 1", surf.CountKind(KindRocket))
	}
	clock.Advance(80)
	if surf.CountKind(KindRocket) != 0 {
		t.Errorf("rocket still flying after 80 ticks")
	}
	sparks := surf.CountKind(KindDot)
	if sparks < 30 || sparks > 60 {
		t.Errorf("sparks = %d, want 30..60", sparks)
	}
	if s.Len() != sparks {
		t.Errorf("Len = %d, want %d", s.Len(), sparks)
	}
}

func TestFireworkBurstCapAndClear(t *testing.T) {
	h, _, surf := newTestHost(8)
	s, err := NewFireworkSystem(h, DefaultFireworkConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Burst(300, 200, 700)
	if s.Len() != 600 {
		t.Errorf("Len = %d, want spark cap 600", s.Len())
	}
	s.Clear()
	if s.Len() != 0 || surf.Live() != 0 {
		t.Errorf("after Clear: %d entities, %d visuals", s.Len(), surf.Live())
	}
}

func TestFireworkSparksFadeOut(t *testing.T) {
	h, clock, _ := newTestHost(9)
	cfg := DefaultFireworkConfig()
	cfg.LaunchOnStart = false
	cfg.SpawnEvery = time.Hour
	s, err := NewFireworkSystem(h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	s.Burst(640, 360, 40)
	clock.Advance(59)
	if s.Len() != 40 {
		t.Errorf("sparks died before 1s: %d left", s.Len())
	}
	clock.Advance(62)
	if s.Len() != 0 {
		t.Errorf("%d sparks outlived 2s", s.Len())
	}
}

func TestHeartInteractions(t *testing.T) {
	h, clock, surf := newTestHost(10)
	cfg := DefaultHeartConfig()
	cfg.SpawnEvery = time.Hour
	s, err := NewHeartSystem(h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	s.Burst(400, 300, 0)
	s.Explode(400, 300, 0)
	if !s.Click(200, 200) || !s.Trail(100, 100) {
		t.Fatal("Click or Trail refused")
	}
	if s.Len() != 10+20+1+1 {
		t.Errorf("Len = %d, want 32", s.Len())
	}
	clock.Advance(200)
	if s.Len() != 0 || surf.Live() != 0 {
		t.Errorf("after 200 ticks: %d hearts, %d visuals", s.Len(), surf.Live())
	}

	for i := 0; i < 250; i++ {
		s.Trail(float64(i), 0)
	}
	if s.trails.Len() != cfg.TrailCap {
		t.Errorf("trails = %d, want cap %d", s.trails.Len(), cfg.TrailCap)
	}
}

func TestHeartFloatRises(t *testing.T) {
	h, clock, surf := newTestHost(12)
	cfg := DefaultHeartConfig()
	cfg.SpawnEvery = time.Hour
	s, err := NewHeartSystem(h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	if !s.Float() {
		t.Fatal("Float refused")
	}
	clock.Advance(10)
	v, ok := surf.Get(1)
	if !ok {
		t.Fatal("floating heart gone")
	}
	if v.Attrs.Y >= 720+50 {
		t.Errorf("heart at y=%v did not rise", v.Attrs.Y)
	}
	if v.Kind != KindHeart && v.Kind != KindGlyph {
		t.Errorf("kind = %v", v.Kind)
	}
}

func TestHeartRainIntensity(t *testing.T) {
	h, clock, _ := newTestHost(13)
	s, err := NewHeartRain(h, DefaultHeartRainConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	clock.Advance(13)
	if s.Len() != 5 {
		t.Errorf("Len after first interval = %d, want 5", s.Len())
	}
	for i := 0; i < 600; i++ {
		clock.Step()
		if s.Len() > 200 {
			t.Fatalf("Len = %d over cap", s.Len())
		}
	}
}

func TestStopFreezesEntities(t *testing.T) {
	h, clock, surf := newTestHost(14)
	cfg := DefaultConfettiConfig()
	cfg.Chance = 0
	s, err := NewConfettiSystem(h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	s.Burst(640, 100, 20)
	clock.Advance(5)
	s.Stop()
	before, _ := surf.Get(1)
	clock.Advance(30)
	after, _ := surf.Get(1)
	if before != after {
		t.Errorf("stopped system moved: %+v -> %+v", before.Attrs, after.Attrs)
	}
	if s.Len() != 20 {
		t.Errorf("Len = %d, want 20", s.Len())
	}
}

func TestSeededRunsAreDeterministic(t *testing.T) {
	run := func() *MemorySurface {
		h, clock, surf := newTestHost(99)
		s, err := NewConfettiSystem(h, DefaultConfettiConfig())
		if err != nil {
			t.Fatal(err)
		}
		s.Start()
		s.Burst(640, 200, 30)
		clock.Advance(90)
		return surf
	}
	a, b := run(), run()
	if a.Created != b.Created || a.Live() != b.Live() {
		t.Fatalf("created %d/%d live %d/%d", a.Created, b.Created, a.Live(), b.Live())
	}
	for hd := Handle(1); int(hd) <= a.Created; hd++ {
		va, oka := a.Get(hd)
		vb, okb := b.Get(hd)
		if oka != okb || va != vb {
			t.Fatalf("visual %d differs: %+v vs %+v", hd, va, vb)
		}
	}
}
