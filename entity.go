package bloom

// Entity is one simulated visual element owned by a Group.
type Entity interface {
	// Kind is the surface visual created for this entity.
	Kind() VisualKind
	// Step advances one tick inside bounds and returns the new phase.
	Step(bounds Rect) Phase
	// Attributes returns what the surface should show after the last Step.
	Attributes() Attributes
}

// Particle is the kinematic Entity every subsystem specializes through its
// constructor constants (sparks, confetti, hearts, balloons).
type Particle struct {
	Body
	Visual        VisualKind
	Color         Color
	Width, Height float64
	Glyph         string
}

// Kind implements Entity.
func (p *Particle) Kind() VisualKind {
	return p.Visual
}

// Attributes implements Entity.
func (p *Particle) Attributes() Attributes {
	a := p.Body.attributes()
	a.Color = p.Color
	a.Width = p.Width
	a.Height = p.Height
	a.Glyph = p.Glyph
	return a
}

// Keyframed is an Entity driven by a Track instead of kinematics. It expires
// when the track finishes.
type Keyframed struct {
	Track         *Track
	Visual        VisualKind
	Color         Color
	Width, Height float64
	Glyph         string
	// OnDone runs once, on the tick the track finishes.
	OnDone func(last Keyframe)

	phase Phase
}

// Kind implements Entity.
func (k *Keyframed) Kind() VisualKind {
	return k.Visual
}

// Phase returns the lifecycle state.
func (k *Keyframed) Phase() Phase {
	return k.phase
}

// Step implements Entity.
func (k *Keyframed) Step(Rect) Phase {
	switch k.phase {
	case Expired:
		return Expired
	case Spawning:
		k.phase = Active
	}
	k.Track.Update()
	if k.Track.Done() {
		k.phase = Expired
		if k.OnDone != nil {
			k.OnDone(k.Track.Current())
			k.OnDone = nil
		}
	}
	return k.phase
}

// Attributes implements Entity.
func (k *Keyframed) Attributes() Attributes {
	f := k.Track.Current()
	return Attributes{
		X: f.X, Y: f.Y,
		Rotation: f.Rotation,
		Scale:    f.Scale,
		Opacity:  f.Opacity,
		Color:    k.Color,
		Width:    k.Width,
		Height:   k.Height,
		Glyph:    k.Glyph,
	}
}
