package bloom

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTrackLinear(t *testing.T) {
	tr := NewTrack(10, nil,
		Keyframe{Offset: 0, X: 0, Opacity: 1, Scale: 1},
		Keyframe{Offset: 1, X: 100, Opacity: 0, Scale: 3},
	)
	for i := 1; i <= 10; i++ {
		if tr.Done() {
			t.Fatalf("done before tick %d", i)
		}
		tr.Update()
		if got := tr.Current().X; !near(got, float64(i)*10, 1e-3) {
			t.Errorf("tick %d: X = %v, want %v", i, got, float64(i)*10)
		}
	}
	if !tr.Done() {
		t.Fatal("not done after 10 ticks")
	}
	end := tr.Current()
	if !near(end.Opacity, 0, 1e-6) || !near(end.Scale, 3, 1e-6) {
		t.Errorf("end pose = %+v", end)
	}
	tr.Update()
	if tr.Current() != end {
		t.Error("finished track kept moving")
	}
}

func TestTrackSegments(t *testing.T) {
	tr := NewTrack(20, ease.InOutQuad,
		Keyframe{Offset: 0, Scale: 0},
		Keyframe{Offset: 0.5, Scale: 1.2, Rotation: 1},
		Keyframe{Offset: 1, Scale: 0, Rotation: 2},
	)
	for i := 0; i < 10; i++ {
		tr.Update()
	}
	mid := tr.Current()
	if !near(mid.Scale, 1.2, 1e-5) || !near(mid.Rotation, 1, 1e-5) {
		t.Errorf("midpoint pose = %+v, want scale 1.2 rotation 1", mid)
	}
	peak := 0.0
	for !tr.Done() {
		tr.Update()
		peak = max(peak, tr.Current().Scale)
	}
	if peak > 1.2+1e-5 {
		t.Errorf("scale overshot to %v", peak)
	}
	if !near(tr.Current().Rotation, 2, 1e-5) {
		t.Errorf("final rotation = %v", tr.Current().Rotation)
	}
}

func TestTrackFractionalSplitKeepsLength(t *testing.T) {
	tr := NewTrack(77, nil,
		Keyframe{Offset: 0, Opacity: 0},
		Keyframe{Offset: 0.3, Opacity: 1},
		Keyframe{Offset: 0.65, Opacity: 0.5},
		Keyframe{Offset: 1, Opacity: 0},
	)
	n := 0
	for !tr.Done() {
		tr.Update()
		n++
		if n > 100 {
			t.Fatal("track never finished")
		}
	}
	if n != 77 {
		t.Errorf("track took %d ticks, want 77", n)
	}
	if !near(tr.Current().Opacity, 0, 1e-5) {
		t.Errorf("final opacity = %v", tr.Current().Opacity)
	}
}

func TestTrackDegenerate(t *testing.T) {
	if !NewTrack(10, nil).Done() {
		t.Error("empty track not done")
	}
	tr := NewTrack(0, nil, Keyframe{X: 1}, Keyframe{Offset: 1, X: 5})
	if !tr.Done() || tr.Current().X != 5 {
		t.Errorf("zero-length track: done=%v pose=%+v", tr.Done(), tr.Current())
	}
}

func TestKeyframedOnDoneOnce(t *testing.T) {
	calls := 0
	var last Keyframe
	k := &Keyframed{
		Track:  NewTrack(3, nil, Keyframe{Y: 0}, Keyframe{Offset: 1, Y: -30}),
		OnDone: func(f Keyframe) { calls++; last = f },
	}
	phases := []Phase{k.Step(testBounds), k.Step(testBounds), k.Step(testBounds), k.Step(testBounds)}
	if phases[0] != Active || phases[1] != Active || phases[2] != Expired || phases[3] != Expired {
		t.Errorf("phases = %v", phases)
	}
	if calls != 1 {
		t.Errorf("OnDone called %d times, want 1", calls)
	}
	if !near(last.Y, -30, 1e-6) {
		t.Errorf("OnDone pose Y = %v, want -30", last.Y)
	}
}
