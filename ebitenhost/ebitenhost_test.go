package ebitenhost

import (
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/bloom"
)

func TestSurfaceLifecycle(t *testing.T) {
	s := NewSurface()
	a, err := s.CreateVisual(bloom.KindDot, bloom.Attributes{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.CreateVisual(bloom.KindHeart, bloom.Attributes{X: 2})
	c, _ := s.CreateVisual(bloom.KindRect, bloom.Attributes{X: 3})
	if a == b || b == c {
		t.Fatalf("handles not unique: %d %d %d", a, b, c)
	}
	s.UpdateVisual(b, bloom.Attributes{X: 20})
	if s.live[b].attrs.X != 20 {
		t.Errorf("update lost: X = %v", s.live[b].attrs.X)
	}
	s.DestroyVisual(b)
	s.DestroyVisual(b)
	s.UpdateVisual(b, bloom.Attributes{X: 99})
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	s.compact()
	if len(s.order) != 2 || s.order[0] != a || s.order[1] != c {
		t.Errorf("order = %v, want [%d %d]", s.order, a, c)
	}
}

func TestSurfaceMaxVisuals(t *testing.T) {
	s := NewSurface()
	s.MaxVisuals = 2
	for i := 0; i < 2; i++ {
		if _, err := s.CreateVisual(bloom.KindDot, bloom.Attributes{}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.CreateVisual(bloom.KindDot, bloom.Attributes{}); !errors.Is(err, ErrTooManyVisuals) {
		t.Errorf("err = %v, want ErrTooManyVisuals", err)
	}
}

func TestFanIndices(t *testing.T) {
	m := fan([]bloom.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}})
	if len(m.verts) != 5 {
		t.Fatalf("verts = %d, want 5", len(m.verts))
	}
	want := []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 1}
	if len(m.inds) != len(want) {
		t.Fatalf("inds = %v", m.inds)
	}
	for i := range want {
		if m.inds[i] != want[i] {
			t.Fatalf("inds = %v, want %v", m.inds, want)
		}
	}
	if got := fan([]bloom.Point{{}, {}}); len(got.verts) != 0 {
		t.Error("two-point outline produced a mesh")
	}
}

func TestHeartMeshIsUnitWidth(t *testing.T) {
	m := heartMesh()
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, v := range m.verts {
		minX = math.Min(minX, float64(v.DstX))
		maxX = math.Max(maxX, float64(v.DstX))
	}
	if w := maxX - minX; math.Abs(w-1) > 0.01 {
		t.Errorf("heart width = %v, want 1", w)
	}
}

func TestAffine(t *testing.T) {
	m := affine(10, 20, math.Pi/2, 2, 3)
	src := []ebiten.Vertex{{DstX: 1, DstY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}}
	dst := make([]ebiten.Vertex, 1)
	transformVertices(src, dst, m, bloom.Color{R: 1, G: 0.5, B: 0, A: 1}, 0.5)
	// (1,0) scaled to (2,0), rotated to (0,2), moved to (10,22).
	if math.Abs(float64(dst[0].DstX)-10) > 1e-5 || math.Abs(float64(dst[0].DstY)-22) > 1e-5 {
		t.Errorf("vertex at (%v, %v), want (10, 22)", dst[0].DstX, dst[0].DstY)
	}
	if dst[0].ColorA != 0.5 || dst[0].ColorR != 0.5 || dst[0].ColorG != 0.25 {
		t.Errorf("color = %v %v %v %v, want premultiplied", dst[0].ColorR, dst[0].ColorG, dst[0].ColorB, dst[0].ColorA)
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"finale", "finale"},
		{"tree-grown", "tree-grown"},
		{"frame.01", "frame.01"},
		{"two words", "two_words"},
		{"a/b\\c", "a_b_c"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	src := []byte{64, 32, 0, 128, 10, 20, 30, 255, 0, 0, 0, 0}
	dst := make([]byte, len(src))
	unpremultiply(dst, src)
	if dst[0] != 127 || dst[1] != 63 || dst[3] != 128 {
		t.Errorf("half alpha = %v", dst[:4])
	}
	if dst[4] != 10 || dst[7] != 255 {
		t.Errorf("opaque pixel changed: %v", dst[4:8])
	}
}

func TestGameDefaultsAndHost(t *testing.T) {
	g := NewGame(RunConfig{Title: "t"})
	if w, h := g.Layout(10, 10); w != 1280 || h != 720 {
		t.Errorf("Layout = %dx%d, want 1280x720", w, h)
	}
	h := g.Host()
	if h.Clock != g.Clock || h.Surface != g.Surface {
		t.Error("Host does not expose the game's clock and surface")
	}
	if h.Bounds.Width != 1280 || h.Bounds.Height != 720 {
		t.Errorf("Bounds = %+v", h.Bounds)
	}
	g.Screenshot("one")
	g.Screenshot("two")
	if len(g.shots) != 2 || g.ScreenshotDir != "screenshots" {
		t.Errorf("shots = %v dir = %q", g.shots, g.ScreenshotDir)
	}
}

func TestGameDrivesSystems(t *testing.T) {
	g := NewGame(RunConfig{Width: 400, Height: 300})
	h := g.Host()
	h.Rand = bloom.NewRand(1)
	cfg := bloom.DefaultConfettiConfig()
	cfg.Chance = 0
	sys, err := bloom.NewConfettiSystem(h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	sys.Start()
	sys.Burst(200, 50, 10)
	for i := 0; i < 3; i++ {
		g.Clock.Step()
	}
	if g.Surface.Len() != 10 {
		t.Errorf("surface holds %d visuals, want 10", g.Surface.Len())
	}
}
