package bloom

import (
	"errors"
	"fmt"
)

// ErrSurfaceFull is returned by MemorySurface when it is told to fail.
var ErrSurfaceFull = errors.New("bloom: surface refused visual")

// Visual is one live visual held by a MemorySurface.
type Visual struct {
	Kind  VisualKind
	Attrs Attributes
}

// MemorySurface is a Surface that keeps visuals in a map. It backs tests and
// the headless simulator.
type MemorySurface struct {
	// FailEvery makes every n-th CreateVisual call fail when positive.
	FailEvery int

	Created   int
	Updated   int
	Destroyed int

	next  Handle
	calls int
	live  map[Handle]*Visual
	gone  []Handle
}

// NewMemorySurface returns an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{live: make(map[Handle]*Visual)}
}

// CreateVisual implements Surface.
func (s *MemorySurface) CreateVisual(kind VisualKind, attrs Attributes) (Handle, error) {
	s.calls++
	if s.FailEvery > 0 && s.calls%s.FailEvery == 0 {
		return 0, fmt.Errorf("create %s #%d: %w", kind, s.calls, ErrSurfaceFull)
	}
	s.next++
	s.live[s.next] = &Visual{Kind: kind, Attrs: attrs}
	s.Created++
	return s.next, nil
}

// UpdateVisual implements Surface. Unknown handles are ignored.
func (s *MemorySurface) UpdateVisual(h Handle, attrs Attributes) {
	v, ok := s.live[h]
	if !ok {
		return
	}
	v.Attrs = attrs
	s.Updated++
}

// DestroyVisual implements Surface. Unknown handles are ignored.
func (s *MemorySurface) DestroyVisual(h Handle) {
	if _, ok := s.live[h]; !ok {
		return
	}
	delete(s.live, h)
	s.gone = append(s.gone, h)
	s.Destroyed++
}

// Live returns the number of live visuals.
func (s *MemorySurface) Live() int {
	return len(s.live)
}

// Get returns the live visual for h.
func (s *MemorySurface) Get(h Handle) (Visual, bool) {
	v, ok := s.live[h]
	if !ok {
		return Visual{}, false
	}
	return *v, true
}

// CountKind returns the number of live visuals of kind.
func (s *MemorySurface) CountKind(kind VisualKind) int {
	n := 0
	for _, v := range s.live {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// DestroyedHandles returns every destroyed handle in destruction order.
func (s *MemorySurface) DestroyedHandles() []Handle {
	return s.gone
}
