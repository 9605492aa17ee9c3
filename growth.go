package bloom

import "math"

// DefaultRadiusDecay is the per-tick geometric shrink of a growing branch.
const DefaultRadiusDecay = 0.985

// BranchSpec describes one branch and, recursively, the branches that sprout
// from it once it finishes growing.
type BranchSpec struct {
	Start   Point   `mapstructure:"start" yaml:"start" toml:"start"`
	Control Point   `mapstructure:"control" yaml:"control" toml:"control"`
	End     Point   `mapstructure:"end" yaml:"end" toml:"end"`
	Radius  float64 `mapstructure:"radius" yaml:"radius" toml:"radius"`

	// Length is the number of growth steps from Start to End.
	Length   int          `mapstructure:"length" yaml:"length" toml:"length"`
	Children []BranchSpec `mapstructure:"children" yaml:"children" toml:"children"`
}

// GrowthState is a branch's state.
type GrowthState uint8

const (
	Growing GrowthState = iota
	Complete
)

// Branch is a quadratic Bézier traversed incrementally.
type Branch struct {
	spec   *BranchSpec
	depth  int
	length float64

	progress float64
	steps    int
	radius   float64
	state    GrowthState
}

func newBranch(spec *BranchSpec, depth int) *Branch {
	l := float64(spec.Length)
	if l <= 0 {
		l = 100
	}
	r := spec.Radius
	if r <= 0 {
		r = 8
	}
	return &Branch{spec: spec, depth: depth, length: l, radius: r}
}

// Spec returns the branch's configuration.
func (b *Branch) Spec() *BranchSpec { return b.spec }

// Depth is 0 for roots, 1 for their children, and so on.
func (b *Branch) Depth() int { return b.depth }

// Progress returns how many steps have been grown.
func (b *Branch) Progress() float64 { return b.progress }

// Radius returns the current radius.
func (b *Branch) Radius() float64 { return b.radius }

// Complete reports whether the branch reached its end.
func (b *Branch) Complete() bool { return b.state == Complete }

// At evaluates the branch curve at t.
func (b *Branch) At(t float64) Point {
	return QuadraticBezier(b.spec.Start, b.spec.Control, b.spec.End, t)
}

// grow advances one step and returns the drawn point and radius. done is
// true on the step that completes the branch.
func (b *Branch) grow(step, decay float64) (p Point, radius float64, done bool) {
	p = b.At(b.progress / b.length)
	radius = b.radius
	b.steps++
	b.progress = math.Min(float64(b.steps)*step, b.length)
	b.radius *= decay
	if b.steps >= growthSteps(b.length, step) {
		b.state = Complete
		done = true
	}
	return p, radius, done
}

// growthSteps is the number of steps of size step that cover length. The
// count is exact in integers, so float rounding in the step size cannot add
// a trailing step.
func growthSteps(length, step float64) int {
	n := int(math.Ceil(length/step - 1e-9))
	return max(n, 1)
}

// Growth grows a branch tree breadth-first by depth. Branches live in an
// explicit worklist; a branch's children are appended only on the tick it
// completes, and start advancing on the following tick.
type Growth struct {
	// Decay is the per-step radius factor. Defaults to DefaultRadiusDecay.
	Decay float64
	// Increment is the progress added per step. Defaults to 1.
	Increment float64

	branches []*Branch
	pending  int
}

// NewGrowth starts a growth from root specs. Specs are referenced, not copied.
func NewGrowth(roots []BranchSpec) *Growth {
	g := &Growth{Decay: DefaultRadiusDecay, Increment: 1}
	for i := range roots {
		g.branches = append(g.branches, newBranch(&roots[i], 0))
	}
	g.pending = len(g.branches)
	return g
}

// Branches returns the instantiated branches in creation order. The returned
// slice must not be mutated.
func (g *Growth) Branches() []*Branch {
	return g.branches
}

// Done reports whether every branch, transitively, is complete.
func (g *Growth) Done() bool {
	return g.pending == 0
}

// Step advances every incomplete branch that existed when the tick began.
// emit, if non-nil, receives each drawn point. It returns Done().
func (g *Growth) Step(emit func(b *Branch, p Point, radius float64)) bool {
	decay := g.Decay
	if decay <= 0 {
		decay = DefaultRadiusDecay
	}
	inc := g.Increment
	if inc <= 0 {
		inc = 1
	}
	n := len(g.branches)
	for i := 0; i < n; i++ {
		b := g.branches[i]
		if b.Complete() {
			continue
		}
		p, r, done := b.grow(inc, decay)
		if emit != nil {
			emit(b, p, r)
		}
		if done {
			g.pending--
			for c := range b.spec.Children {
				g.branches = append(g.branches, newBranch(&b.spec.Children[c], b.depth+1))
				g.pending++
			}
		}
	}
	return g.Done()
}

// DefaultBranches returns the stock tree: one trunk with eight side branches
// fanning out symmetrically, rooted 50 units above the bottom of bounds.
func DefaultBranches(bounds Rect) []BranchSpec {
	cx := bounds.X + bounds.Width/2
	by := bounds.Y + bounds.Height - 50
	side := func(y, ctrlDX, ctrlY, endDX, endY, radius float64, length int) [2]BranchSpec {
		return [2]BranchSpec{
			{Start: Pt(cx, by-y), Control: Pt(cx-ctrlDX, by-ctrlY), End: Pt(cx-endDX, by-endY), Radius: radius, Length: length},
			{Start: Pt(cx, by-y), Control: Pt(cx+ctrlDX, by-ctrlY), End: Pt(cx+endDX, by-endY), Radius: radius, Length: length},
		}
	}
	var children []BranchSpec
	for _, pair := range [][2]BranchSpec{
		side(150, 80, 200, 120, 180, 6, 80),
		side(200, 100, 260, 150, 250, 5, 70),
		side(250, 60, 320, 100, 350, 4, 60),
		side(280, 30, 350, 50, 380, 3, 50),
	} {
		children = append(children, pair[0], pair[1])
	}
	return []BranchSpec{{
		Start:    Pt(cx, by),
		Control:  Pt(cx-20, by-150),
		End:      Pt(cx, by-280),
		Radius:   12,
		Length:   120,
		Children: children,
	}}
}
