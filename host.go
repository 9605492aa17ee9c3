package bloom

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Handle identifies one visual on a Surface. Each entity owns its handle
// exclusively from spawn to removal.
type Handle uint32

// Surface materializes visuals. It is write-only from the engine's side.
type Surface interface {
	CreateVisual(kind VisualKind, attrs Attributes) (Handle, error)
	UpdateVisual(h Handle, attrs Attributes)
	DestroyVisual(h Handle)
}

// TickID identifies a pending per-frame callback.
type TickID uint64

// TimerID identifies a repeating interval timer.
type TimerID uint64

// Clock is the host's frame and timer source. RequestTick callbacks fire once
// at the next frame; Every callbacks repeat until cancelled. All callbacks run
// on one goroutine and never overlap.
type Clock interface {
	RequestTick(fn func(now time.Duration)) TickID
	CancelTick(id TickID)
	Every(interval time.Duration, fn func()) TimerID
	CancelTimer(id TimerID)
}

// Observer receives per-subsystem population events. Implementations must be
// cheap; they are called from inside the tick.
type Observer interface {
	Spawned(system string)
	Expired(system string)
	Dropped(system string)
	SpawnFailed(system string, err error)
}

type nopObserver struct{}

func (nopObserver) Spawned(string)            {}
func (nopObserver) Expired(string)            {}
func (nopObserver) Dropped(string)            {}
func (nopObserver) SpawnFailed(string, error) {}

// Host bundles the collaborators every subsystem needs. Clock and Surface are
// required; the rest fall back to defaults.
type Host struct {
	Clock   Clock
	Surface Surface
	// Bounds is the visible area in surface units.
	Bounds Rect
	// Rand drives every randomized parameter. Defaults to a time-seeded PCG.
	Rand     *rand.Rand
	Logger   *zap.Logger
	Observer Observer
}

// withDefaults returns a copy of h with optional fields filled in.
func (h Host) withDefaults() Host {
	if h.Rand == nil {
		h.Rand = NewRand(uint64(time.Now().UnixNano()))
	}
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	if h.Observer == nil {
		h.Observer = nopObserver{}
	}
	if h.Bounds.Width == 0 && h.Bounds.Height == 0 {
		h.Bounds = Rect{Width: 1280, Height: 720}
	}
	return h
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
