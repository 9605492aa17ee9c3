package bloom

import "math"

// Phase is an entity's lifecycle state.
type Phase uint8

const (
	Spawning Phase = iota // created, not yet ticked
	Active                // moving, fully opaque or at its initial opacity
	Fading                // fade condition met; opacity only decreases
	Expired               // ready for removal
)

var phaseNames = [...]string{"spawning", "active", "fading", "expired"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Motion selects how a Body's position integrates each tick.
type Motion uint8

const (
	// MotionVelocity applies friction and gravity to the velocity, then adds
	// the velocity to the position.
	MotionVelocity Motion = iota
	// MotionSway integrates y like MotionVelocity but sets x from a phase
	// accumulator: x = Sway.Origin + sin(Sway.Phase) * Sway.Amplitude.
	MotionSway
)

// Oscillator is a deterministic sine phase accumulator.
type Oscillator struct {
	Origin    float64 // only used by MotionSway
	Phase     float64
	Speed     float64 // phase increment per tick
	Amplitude float64
}

// FadeTrigger is the condition that starts an entity fading.
type FadeTrigger uint8

const (
	FadeNever         FadeTrigger = iota
	FadeImmediately                 // fades from the first tick
	FadeAbove                       // once y < Threshold
	FadeBelow                       // once y > Threshold
	FadeAfterTicks                  // once age >= Threshold ticks
	FadeAfterDistance               // once traveled distance >= Threshold
)

// Fade is a per-tick opacity decrement that starts once When holds and
// never stops after that.
type Fade struct {
	When      FadeTrigger
	Threshold float64
	Rate      float64
}

// Edges is a bitmask of bounds edges an entity may leave through.
type Edges uint8

const (
	EdgeTop Edges = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight

	EdgeNone Edges = 0
	EdgeAll        = EdgeTop | EdgeBottom | EdgeLeft | EdgeRight
)

// Body is the kinematic state shared by every particle-like entity.
type Body struct {
	Pos Point
	Vel Point

	Angle float64 // radians
	Spin  float64 // radians per tick

	Scale float64
	// Grow is added to Scale each tick. A negative Grow expires the body once
	// Scale reaches zero.
	Grow float64

	Opacity float64

	Gravity  float64 // added to Vel.Y each tick after friction
	Friction float64 // multiplicative damping in (0, 1]; 0 means 1

	Motion Motion
	Sway   Oscillator
	// Wobble adds sin(Phase)*Amplitude to x each tick on top of Motion.
	Wobble Oscillator

	Fade Fade

	// Exit lists the bounds edges that expire the body when crossed by more
	// than Margin.
	Exit   Edges
	Margin float64

	phase    Phase
	age      int
	traveled float64
}

// Phase returns the current lifecycle state.
func (b *Body) Phase() Phase {
	return b.phase
}

// Age returns the number of ticks stepped.
func (b *Body) Age() int {
	return b.age
}

// Traveled returns the distance moved so far.
func (b *Body) Traveled() float64 {
	return b.traveled
}

// Step advances the body by one tick and returns its new phase. Expired
// bodies are left untouched.
func (b *Body) Step(bounds Rect) Phase {
	if b.phase == Expired {
		return Expired
	}
	if b.phase == Spawning {
		b.phase = Active
	}

	prev := b.Pos
	f := b.Friction
	if f == 0 {
		f = 1
	}
	b.Vel = b.Vel.Scale(f)
	b.Vel.Y += b.Gravity

	switch b.Motion {
	case MotionSway:
		b.Pos.Y += b.Vel.Y
		b.Sway.Phase += b.Sway.Speed
		b.Pos.X = b.Sway.Origin + math.Sin(b.Sway.Phase)*b.Sway.Amplitude
	default:
		b.Pos = b.Pos.Add(b.Vel)
	}
	if b.Wobble.Amplitude != 0 {
		b.Pos.X += math.Sin(b.Wobble.Phase) * b.Wobble.Amplitude
		b.Wobble.Phase += b.Wobble.Speed
	}

	b.Angle += b.Spin
	b.Scale += b.Grow
	b.age++
	b.traveled += b.Pos.Dist(prev)

	if b.phase == Active && b.fadeTriggered() {
		b.phase = Fading
	}
	if b.phase == Fading {
		b.Opacity -= b.Fade.Rate
	}

	if b.Opacity <= 0 || b.exited(bounds) || (b.Grow < 0 && b.Scale <= 0) {
		b.phase = Expired
	}
	return b.phase
}

func (b *Body) fadeTriggered() bool {
	switch b.Fade.When {
	case FadeImmediately:
		return true
	case FadeAbove:
		return b.Pos.Y < b.Fade.Threshold
	case FadeBelow:
		return b.Pos.Y > b.Fade.Threshold
	case FadeAfterTicks:
		return float64(b.age) >= b.Fade.Threshold
	case FadeAfterDistance:
		return b.traveled >= b.Fade.Threshold
	}
	return false
}

func (b *Body) exited(r Rect) bool {
	if b.Exit == EdgeNone {
		return false
	}
	m := b.Margin
	switch {
	case b.Exit&EdgeTop != 0 && b.Pos.Y < r.Y-m:
		return true
	case b.Exit&EdgeBottom != 0 && b.Pos.Y > r.Y+r.Height+m:
		return true
	case b.Exit&EdgeLeft != 0 && b.Pos.X < r.X-m:
		return true
	case b.Exit&EdgeRight != 0 && b.Pos.X > r.X+r.Width+m:
		return true
	}
	return false
}

// attributes maps the body's state onto surface attributes.
func (b *Body) attributes() Attributes {
	op := b.Opacity
	if op < 0 {
		op = 0
	}
	return Attributes{X: b.Pos.X, Y: b.Pos.Y, Rotation: b.Angle, Scale: b.Scale, Opacity: op}
}
