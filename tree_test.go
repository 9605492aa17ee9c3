package bloom

import (
	"testing"
	"time"
)

func newTestTree(t *testing.T, mod func(*TreeConfig)) (*Tree, *FrameClock, *MemorySurface) {
	t.Helper()
	h, clock, surf := newTestHost(11)
	cfg := DefaultTreeConfig()
	cfg.Branches = smallTree()
	for i := range cfg.Branches {
		shiftSpec(&cfg.Branches[i], Pt(640, 700))
	}
	if mod != nil {
		mod(&cfg)
	}
	tr, err := NewTree(h, cfg)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return tr, clock, surf
}

func shiftSpec(s *BranchSpec, d Point) {
	s.Start, s.Control, s.End = s.Start.Add(d), s.Control.Add(d), s.End.Add(d)
	for i := range s.Children {
		shiftSpec(&s.Children[i], d)
	}
}

func TestTreeGrowthCompletesAtTick15(t *testing.T) {
	tr, clock, surf := newTestTree(t, nil)
	fired, at := 0, 0
	tr.OnGrowthComplete = func() { fired++ }
	tr.Start()
	for tick := 1; tick <= 40; tick++ {
		clock.Step()
		if tick == 10 && len(tr.Branches()) != 3 {
			t.Errorf("tick 10: %d branches, want 3", len(tr.Branches()))
		}
		if fired > 0 && at == 0 {
			at = tick
		}
	}
	if at != 15 {
		t.Errorf("growth complete at tick %d, want 15", at)
	}
	if fired != 1 {
		t.Errorf("OnGrowthComplete fired %d times, want 1", fired)
	}
	if got := surf.CountKind(KindSegment); got != 20 {
		t.Errorf("segments = %d, want 20", got)
	}
	if surf.CountKind(KindGround) != 1 {
		t.Error("ground line missing")
	}
}

func TestTreeBloomCacheInsideHeart(t *testing.T) {
	tr, _, _ := newTestTree(t, nil)
	if tr.CacheSize() == 0 || tr.CacheSize() > 300 {
		t.Fatalf("cache size = %d, want 1..300", tr.CacheSize())
	}
	inside := HeartRegion(tr.canopyCenter(), tr.cfg.BloomRadius)
	for i, b := range tr.cache {
		if !inside(b.Pos) {
			t.Fatalf("bloom %d at %v outside the canopy", i, b.Pos)
		}
		if b.TargetScale < 0.3 || b.TargetScale > 0.8 {
			t.Errorf("bloom %d target scale %v", i, b.TargetScale)
		}
	}
}

func TestTreeBloomsThenFallingHearts(t *testing.T) {
	tr, clock, surf := newTestTree(t, func(c *TreeConfig) {
		c.BloomCount = 30
		c.BloomBatch = 10
		c.BloomDelay = 100 * time.Millisecond
	})
	var order []string
	tr.OnGrowthComplete = func() { order = append(order, "growth") }
	tr.OnBloomsComplete = func() { order = append(order, "blooms") }
	tr.Start()

	clock.Advance(20)
	if tr.Blooms() != 0 {
		t.Errorf("blooms admitted before the delay: %d", tr.Blooms())
	}
	if tr.Falling() != 0 {
		t.Error("falling hearts before blooming finished")
	}

	clock.Advance(60)
	if !tr.BloomsComplete() {
		t.Fatal("blooms not complete")
	}
	if tr.Blooms() != tr.CacheSize() {
		t.Errorf("admitted %d of %d", tr.Blooms(), tr.CacheSize())
	}
	if len(order) != 2 || order[0] != "growth" || order[1] != "blooms" {
		t.Errorf("callback order = %v", order)
	}

	clock.Advance(120)
	if tr.Falling() == 0 {
		t.Error("no falling hearts after blooming")
	}
	if tr.Falling() > 20 {
		t.Errorf("falling = %d, over cap", tr.Falling())
	}

	// Blooms reach their target and stay.
	for _, b := range tr.cache {
		if !b.Complete() {
			t.Fatal("bloom still growing after 200 ticks")
		}
	}
	if surf.CountKind(KindBloom) != tr.CacheSize() {
		t.Errorf("bloom visuals = %d", surf.CountKind(KindBloom))
	}
}

func TestTreeReset(t *testing.T) {
	tr, clock, surf := newTestTree(t, nil)
	tr.Start()
	clock.Advance(30)
	tr.Reset()
	if tr.Running() {
		t.Error("running after Reset")
	}
	if tr.GrowthComplete() || tr.BloomsComplete() {
		t.Error("completion flags survived Reset")
	}
	if surf.Live() != 0 {
		t.Errorf("live visuals = %d after Reset", surf.Live())
	}
	if len(tr.Branches()) != 1 {
		t.Errorf("branches = %d, want 1", len(tr.Branches()))
	}

	fired := 0
	tr.OnGrowthComplete = func() { fired++ }
	tr.Start()
	clock.Advance(15)
	if fired != 1 {
		t.Errorf("regrowth fired %d times, want 1", fired)
	}
}

func TestTreeRejectsBadConfig(t *testing.T) {
	h, _, _ := newTestHost(1)
	cfg := DefaultTreeConfig()
	cfg.BloomBatch = 0
	if _, err := NewTree(h, cfg); !IsConfigError(err) {
		t.Errorf("err = %v, want ConfigError", err)
	}
	cfg = DefaultTreeConfig()
	cfg.RadiusDecay = 1.5
	if _, err := NewTree(h, cfg); !IsConfigError(err) {
		t.Errorf("err = %v, want ConfigError", err)
	}
}

func TestTreeFractionalGrowthStepFitsCap(t *testing.T) {
	h, clock, surf := newTestHost(5)
	obs := newCountObserver()
	h.Observer = obs
	cfg := DefaultTreeConfig()
	cfg.GrowthStep = 0.1
	cfg.Branches = []BranchSpec{{Start: Pt(640, 700), Control: Pt(640, 650), End: Pt(640, 600), Radius: 6, Length: 1}}
	tr, err := NewTree(h, cfg)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	tr.Start()
	clock.Advance(20)
	if !tr.GrowthComplete() {
		t.Fatal("growth not complete after 20 ticks")
	}
	if got := surf.CountKind(KindSegment); got != 10 {
		t.Errorf("segments = %d, want 10", got)
	}
	if n := obs.dropped["tree.structure"]; n != 0 {
		t.Errorf("structure dropped %d segments", n)
	}
}

func TestTreeRestartFromGrowthCallback(t *testing.T) {
	tr, clock, _ := newTestTree(t, nil)
	tr.OnGrowthComplete = func() {
		tr.Stop()
		tr.Start()
	}
	tr.Start()
	clock.Advance(15)
	if !tr.GrowthComplete() {
		t.Fatal("growth not complete after 15 ticks")
	}
	if clock.Pending() != 1 {
		t.Errorf("pending ticks = %d after restart, want 1", clock.Pending())
	}
}
