package termhost

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/bloom"
)

type visual struct {
	kind  bloom.VisualKind
	attrs bloom.Attributes
}

// Surface is a bloom.Surface that draws visuals as styled runes on a tcell
// screen. Positions are in logical units; Bounds is scaled onto the screen's
// cell grid at draw time.
type Surface struct {
	Bounds bloom.Rect

	screen tcell.Screen
	next   bloom.Handle
	live   map[bloom.Handle]*visual
	order  []bloom.Handle
	dead   int
}

// NewSurface returns a surface drawing onto screen, which must already be
// initialized.
func NewSurface(screen tcell.Screen, bounds bloom.Rect) *Surface {
	return &Surface{
		Bounds: bounds,
		screen: screen,
		live:   make(map[bloom.Handle]*visual),
	}
}

// CreateVisual implements bloom.Surface. It never fails.
func (s *Surface) CreateVisual(kind bloom.VisualKind, attrs bloom.Attributes) (bloom.Handle, error) {
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
	if _, ok := s.live[h]; ok {
		delete(s.live, h)
		s.dead++
	}
}

// Len returns the number of live visuals.
func (s *Surface) Len() int { return len(s.live) }

// Cell maps a logical position to a screen cell.
func (s *Surface) Cell(x, y float64) (col, row int) {
	cols, rows := s.screen.Size()
	b := s.Bounds
	if b.Width <= 0 || b.Height <= 0 {
		return int(x), int(y)
	}
	col = int(math.Floor((x - b.X) / b.Width * float64(cols)))
	row = int(math.Floor((y - b.Y) / b.Height * float64(rows)))
	return col, row
}

// Point maps a screen cell back to the logical position of its center.
func (s *Surface) Point(col, row int) (x, y float64) {
	cols, rows := s.screen.Size()
	b := s.Bounds
	if cols == 0 || rows == 0 {
		return b.X, b.Y
	}
	x = b.X + (float64(col)+0.5)*b.Width/float64(cols)
	y = b.Y + (float64(row)+0.5)*b.Height/float64(rows)
	return x, y
}

// Draw clears the screen, draws every live visual in creation order and
// shows the result.
func (s *Surface) Draw() {
	if s.dead > 0 {
		keep := s.order[:0]
		for _, h := range s.order {
			if _, ok := s.live[h]; ok {
				keep = append(keep, h)
			}
		}
		s.order = keep
		s.dead = 0
	}
	s.screen.Clear()
	for _, h := range s.order {
		v := s.live[h]
		s.drawVisual(v.kind, &v.attrs)
	}
	s.screen.Show()
}

func (s *Surface) drawVisual(kind bloom.VisualKind, a *bloom.Attributes) {
	alpha := a.Opacity * a.Color.A
	if alpha <= 0 {
		return
	}
	st := tcell.StyleDefault.Foreground(shade(a.Color, alpha))
	col, row := s.Cell(a.X, a.Y)
	switch kind {
	case bloom.KindGround:
		// Spans its grown width.
		half := a.Width * a.Scale / 2
		c0, _ := s.Cell(a.X-half, a.Y)
		c1, _ := s.Cell(a.X+half, a.Y)
		for c := c0; c <= c1; c++ {
			s.set(c, row, '▀', st)
		}
	case bloom.KindBalloon:
		s.set(col, row, '●', st)
		s.set(col, row+1, '│', tcell.StyleDefault.Foreground(shade(bloom.Color{R: 0.6, G: 0.6, B: 0.6, A: 1}, alpha)))
	default:
		if a.Scale <= 0 {
			return
		}
		s.set(col, row, glyphFor(kind), st)
	}
}

func (s *Surface) set(col, row int, r rune, st tcell.Style) {
	cols, rows := s.screen.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return
	}
	s.screen.SetContent(col, row, r, nil, st)
}

// glyphFor picks the rune that stands in for a visual kind.
func glyphFor(kind bloom.VisualKind) rune {
	switch kind {
	case bloom.KindDot:
		return '•'
	case bloom.KindHeart, bloom.KindGlyph, bloom.KindBloom:
		return '♥'
	case bloom.KindRect:
		return '▬'
	case bloom.KindCircle:
		return '●'
	case bloom.KindRocket:
		return '|'
	case bloom.KindSparkle:
		return '✦'
	case bloom.KindSegment:
		return '█'
	}
	return '?'
}

// shade darkens c toward the black background by alpha.
func shade(c bloom.Color, alpha float64) tcell.Color {
	ch := func(v float64) int32 {
		return int32(math.Round(math.Max(0, math.Min(1, v*alpha)) * 255))
	}
	return tcell.NewRGBColor(ch(c.R), ch(c.G), ch(c.B))
}
