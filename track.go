package bloom

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Keyframe is one pose of a Track. Offset is the fraction of the track's
// duration at which the pose is reached.
type Keyframe struct {
	Offset   float64
	X, Y     float64
	Opacity  float64
	Scale    float64
	Rotation float64
}

// channels in a Keyframe animated by a segment.
const trackChannels = 5

type trackSegment struct {
	tweens [trackChannels]*gween.Tween
}

// Track animates a pose through keyframes over a fixed number of ticks. Each
// segment between neighbouring keyframes runs its own gween tweens with the
// same easing, the way keyframe easing applies per interval.
//
// There is no global animation manager; the owning entity calls Update once
// per tick.
type Track struct {
	segs []trackSegment
	seg  int
	cur  Keyframe
	done bool
}

// NewTrack builds a track lasting ticks ticks through frames, which must be
// ordered by Offset. Missing start or end offsets are implied by the first and
// last frames. A nil easing is linear.
func NewTrack(ticks int, fn ease.TweenFunc, frames ...Keyframe) *Track {
	if fn == nil {
		fn = ease.Linear
	}
	t := &Track{}
	if len(frames) == 0 {
		t.done = true
		return t
	}
	t.cur = frames[0]
	for i := 0; i+1 < len(frames); i++ {
		a, b := frames[i], frames[i+1]
		// Boundaries are rounded, not the spans, so the segments sum to ticks.
		d := float32(math.Round(b.Offset*float64(ticks)) - math.Round(a.Offset*float64(ticks)))
		if d <= 0 {
			continue
		}
		var s trackSegment
		from := a.channels()
		to := b.channels()
		for c := 0; c < trackChannels; c++ {
			s.tweens[c] = gween.New(float32(from[c]), float32(to[c]), d, fn)
		}
		t.segs = append(t.segs, s)
	}
	if len(t.segs) == 0 {
		t.cur = frames[len(frames)-1]
		t.done = true
	}
	return t
}

// Update advances the track by one tick.
func (t *Track) Update() {
	if t.done {
		return
	}
	s := &t.segs[t.seg]
	var vals [trackChannels]float64
	finished := true
	for c := 0; c < trackChannels; c++ {
		v, fin := s.tweens[c].Update(1)
		vals[c] = float64(v)
		if !fin {
			finished = false
		}
	}
	t.cur.setChannels(vals)
	if finished {
		t.seg++
		if t.seg >= len(t.segs) {
			t.done = true
		}
	}
}

// Current returns the pose after the last Update.
func (t *Track) Current() Keyframe {
	return t.cur
}

// Done reports whether the last keyframe has been reached.
func (t *Track) Done() bool {
	return t.done
}

func (k Keyframe) channels() [trackChannels]float64 {
	return [trackChannels]float64{k.X, k.Y, k.Opacity, k.Scale, k.Rotation}
}

func (k *Keyframe) setChannels(v [trackChannels]float64) {
	k.X, k.Y, k.Opacity, k.Scale, k.Rotation = v[0], v[1], v[2], v[3], v[4]
}
