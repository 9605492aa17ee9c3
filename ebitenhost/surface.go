package ebitenhost

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/bloom"
)

// ErrTooManyVisuals is returned by CreateVisual once MaxVisuals are live.
var ErrTooManyVisuals = errors.New("ebitenhost: too many visuals")

type visual struct {
	kind  bloom.VisualKind
	attrs bloom.Attributes
}

// Surface is a bloom.Surface that draws its visuals onto an ebiten image.
// Visuals are drawn in creation order, so later spawns sit on top.
type Surface struct {
	// MaxVisuals refuses new visuals beyond this many live ones when
	// positive.
	MaxVisuals int

	next  bloom.Handle
	live  map[bloom.Handle]*visual
	order []bloom.Handle
	dead  int

	heart, star, ellipse, rect mesh
	scratch                    []ebiten.Vertex
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{
		live:    make(map[bloom.Handle]*visual),
		heart:   heartMesh(),
		star:    starMesh(),
		ellipse: ellipseMesh(24),
		rect:    rectMesh(),
	}
}

// CreateVisual implements bloom.Surface.
func (s *Surface) CreateVisual(kind bloom.VisualKind, attrs bloom.Attributes) (bloom.Handle, error) {
	if s.MaxVisuals > 0 && len(s.live) >= s.MaxVisuals {
		return 0, fmt.Errorf("create %s: %w", kind, ErrTooManyVisuals)
	}
	s.next++
	s.live[s.next] = &visual{kind: kind, attrs: attrs}
	s.order = append(s.order, s.next)
	return s.next, nil
}

// UpdateVisual implements bloom.Surface.
func (s *Surface) UpdateVisual(h bloom.Handle, attrs bloom.Attributes) {
	if v, ok := s.live[h]; ok {
		v.attrs = attrs
	}
}

// DestroyVisual implements bloom.Surface.
func (s *Surface) DestroyVisual(h bloom.Handle) {
	if _, ok := s.live[h]; !ok {
		return
	}
	delete(s.live, h)
	s.dead++
}

// Len returns the number of live visuals.
func (s *Surface) Len() int {
	return len(s.live)
}

// compact drops destroyed handles from the draw order.
func (s *Surface) compact() {
	if s.dead == 0 {
		return
	}
	keep := s.order[:0]
	for _, h := range s.order {
		if _, ok := s.live[h]; ok {
			keep = append(keep, h)
		}
	}
	clear(s.order[len(keep):])
	s.order = keep
	s.dead = 0
}

// Draw renders every live visual onto dst.
func (s *Surface) Draw(dst *ebiten.Image) {
	s.compact()
	for _, h := range s.order {
		v := s.live[h]
		s.drawVisual(dst, v.kind, &v.attrs)
	}
}

func (s *Surface) drawVisual(dst *ebiten.Image, kind bloom.VisualKind, a *bloom.Attributes) {
	alpha := a.Opacity * a.Color.A
	if alpha <= 0 || a.Scale <= 0 {
		return
	}
	w, h := a.Width*a.Scale, a.Height*a.Scale
	switch kind {
	case bloom.KindDot, bloom.KindCircle, bloom.KindSegment:
		vector.DrawFilledCircle(dst, float32(a.X), float32(a.Y), float32(w/2), nrgba(a.Color, alpha), true)
	case bloom.KindGround:
		// Scale is the grown fraction of the width; thickness does not scale.
		vector.DrawFilledRect(dst, float32(a.X-w/2), float32(a.Y-a.Height/2), float32(w), float32(a.Height), nrgba(a.Color, alpha), true)
	case bloom.KindRect, bloom.KindRocket:
		s.drawMesh(dst, &s.rect, affine(a.X, a.Y, a.Rotation, w, h), a.Color, alpha)
	case bloom.KindSparkle:
		s.drawMesh(dst, &s.star, affine(a.X, a.Y, a.Rotation, w, h), a.Color, alpha)
	case bloom.KindBalloon:
		// The string hangs from the knot and does not tilt.
		knot := a.Y + h/2
		vector.StrokeLine(dst, float32(a.X), float32(knot), float32(a.X), float32(knot+h*1.2), 1, nrgba(bloom.Color{R: 0.6, G: 0.6, B: 0.6, A: 1}, alpha), true)
		s.drawMesh(dst, &s.ellipse, affine(a.X, a.Y, a.Rotation, w, h), a.Color, alpha)
	default:
		// Hearts, blooms and heart glyphs all draw as heart polygons.
		s.drawMesh(dst, &s.heart, affine(a.X, a.Y, a.Rotation, w, h), a.Color, alpha)
	}
}

func (s *Surface) drawMesh(dst *ebiten.Image, m *mesh, xf [6]float64, tint bloom.Color, alpha float64) {
	if len(m.verts) == 0 {
		return
	}
	if cap(s.scratch) < len(m.verts) {
		s.scratch = make([]ebiten.Vertex, len(m.verts))
	}
	out := s.scratch[:len(m.verts)]
	transformVertices(m.verts, out, xf, tint, alpha)
	dst.DrawTriangles(out, m.inds, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func nrgba(c bloom.Color, alpha float64) color.NRGBA {
	return color.NRGBA{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: channel(alpha),
	}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
