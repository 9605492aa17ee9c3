package bloom

import "math/rand/v2"

// DefaultMaxAttempts bounds SampleInRegion when no limit is given.
const DefaultMaxAttempts = 100

// SampleInRegion draws uniform points from the square of side 2*radius around
// center and returns the first one pred accepts. It gives up after
// maxAttempts draws (DefaultMaxAttempts if maxAttempts <= 0) and reports false.
func SampleInRegion(r *rand.Rand, center Point, radius float64, pred func(Point) bool, maxAttempts int) (Point, bool) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	for i := 0; i < maxAttempts; i++ {
		p := Point{
			X: center.X - radius + r.Float64()*2*radius,
			Y: center.Y - radius + r.Float64()*2*radius,
		}
		if pred(p) {
			return p, true
		}
	}
	return Point{}, false
}

// HeartRegion returns a predicate accepting screen points inside a heart
// centered on center, sized to 0.8 * radius. Screen y grows downward, so the
// offset is flipped before the implicit test.
func HeartRegion(center Point, radius float64) func(Point) bool {
	r := radius * 0.8
	return func(p Point) bool {
		return PointInHeart(p.X-center.X, center.Y-p.Y, r)
	}
}
