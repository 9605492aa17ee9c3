package bloom

import (
	"iter"
	"math"
)

// Point is a 2D point or vector. All methods return new values.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{x, y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Rotate returns p rotated by angle radians about the origin.
func (p Point) Rotate(angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{p.X*cos - p.Y*sin, p.X*sin + p.Y*cos}
}

// Lerp linearly interpolates between p and q by t. t is not clamped.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{lerp(p.X, q.X, t), lerp(p.Y, q.Y, t)}
}

// Len returns the magnitude of p.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns p scaled to unit length. The zero vector is returned as is.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return p
	}
	return Point{p.X / l, p.Y / l}
}

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Angle returns the direction of p in radians.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// QuadraticBezier evaluates the quadratic Bézier through p0, p1, p2 at t.
// t outside [0, 1] extrapolates.
func QuadraticBezier(p0, p1, p2 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	c := t * t
	return Point{
		a*p0.X + b*p1.X + c*p2.X,
		a*p0.Y + b*p1.Y + c*p2.Y,
	}
}

// CubicBezier evaluates the cubic Bézier through p0..p3 at t.
// t outside [0, 1] extrapolates.
func CubicBezier(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t
	a := mt2 * mt
	b := 3 * mt2 * t
	c := 3 * mt * t2
	d := t2 * t
	return Point{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// HeartCurve returns the point of the classic parametric heart at t, scaled
// by scale, with y negated so the lobes point up on screen.
func HeartCurve(t, scale float64) Point {
	s := math.Sin(t)
	x := 16 * s * s * s
	y := 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	return Point{x * scale, -y * scale}
}

// HeartPoints yields the heart outline for t stepping from 0 by step, and
// finally at t = 2π, so the first and last points coincide. A non-positive
// step defaults to 0.1.
func HeartPoints(scale, step float64) iter.Seq[Point] {
	if step <= 0 {
		step = 0.1
	}
	return func(yield func(Point) bool) {
		const full = 2 * math.Pi
		n := int(math.Ceil(full / step))
		for i := 0; i < n; i++ {
			t := float64(i) * step
			if t >= full {
				break
			}
			if !yield(HeartCurve(t, scale)) {
				return
			}
		}
		yield(HeartCurve(full, scale))
	}
}

// PointInHeart reports whether (x, y), normalized by r, satisfies the implicit
// heart inequality (x²+y²−1)³ < x²y³. The y axis points up.
func PointInHeart(x, y, r float64) bool {
	xx := x / r
	yy := y / r
	a := xx*xx + yy*yy - 1
	return a*a*a-xx*xx*yy*yy*yy < 0
}
