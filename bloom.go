package bloom

import (
	"math/rand/v2"
	"time"
)

// TicksPerSecond is the nominal host frame rate. Motion is defined in units per
// tick, so this only converts millisecond-style durations into tick counts.
const TicksPerSecond = 60

// TickDuration is the logical duration of one tick at the nominal frame rate.
const TickDuration = time.Second / TicksPerSecond

// Ticks converts a duration to a whole number of ticks, rounding to nearest.
// Non-zero durations shorter than one tick become one tick.
func Ticks(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	n := int((d + TickDuration/2) / TickDuration)
	if n == 0 {
		n = 1
	}
	return n
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// Lerp linearly interpolates each component between c and to by t.
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: lerp(c.R, to.R, t),
		G: lerp(c.G, to.G, t),
		B: lerp(c.B, to.B, t),
		A: lerp(c.A, to.A, t),
	}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Inset shrinks the rectangle by m on every side. A negative m grows it.
func (r Rect) Inset(m float64) Rect {
	return Rect{X: r.X + m, Y: r.Y + m, Width: r.Width - 2*m, Height: r.Height - 2*m}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Range is a general-purpose min/max range.
type Range struct {
	Min float64 `mapstructure:"min" yaml:"min" toml:"min"`
	Max float64 `mapstructure:"max" yaml:"max" toml:"max"`
}

// Rand returns a uniformly distributed value in [Min, Max) drawn from r.
func (rg Range) Rand(r *rand.Rand) float64 {
	if rg.Min == rg.Max {
		return rg.Min
	}
	return rg.Min + r.Float64()*(rg.Max-rg.Min)
}

// valid reports whether Min <= Max.
func (rg Range) valid() bool {
	return rg.Min <= rg.Max
}

// VisualKind tells the Rendering Surface what shape to materialize for a handle.
type VisualKind uint8

const (
	KindDot     VisualKind = iota // glowing round particle
	KindHeart                     // filled heart outline
	KindGlyph                     // text glyph (emoji hearts, sparkles)
	KindRect                      // confetti rectangle or square
	KindCircle                    // confetti circle
	KindBalloon                   // balloon body with string
	KindRocket                    // firework rocket streak
	KindSparkle                   // star-shaped twinkle
	KindSegment                   // one disc of a growing branch
	KindBloom                     // heart-shaped blossom in the tree canopy
	KindGround                    // ground line under the tree
)

var kindNames = [...]string{
	KindDot:     "dot",
	KindHeart:   "heart",
	KindGlyph:   "glyph",
	KindRect:    "rect",
	KindCircle:  "circle",
	KindBalloon: "balloon",
	KindRocket:  "rocket",
	KindSparkle: "sparkle",
	KindSegment: "segment",
	KindBloom:   "bloom",
	KindGround:  "ground",
}

func (k VisualKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Attributes is what the engine writes to the Rendering Surface for one
// visual. X through Color change every tick; Width, Height and Glyph describe
// the visual and are fixed at creation.
type Attributes struct {
	X, Y     float64
	Rotation float64 // radians
	Scale    float64
	Opacity  float64
	Color    Color

	Width, Height float64
	Glyph         string
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// pick returns a random element of s. s must not be empty.
func pick[T any](r *rand.Rand, s []T) T {
	return s[r.IntN(len(s))]
}
