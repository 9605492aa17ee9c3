package bloom

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Factory builds one entity with randomized parameters. Returning nil skips
// the spawn.
type Factory func(r *rand.Rand) Entity

type slot struct {
	e Entity
	h Handle
}

// Group owns the live entities of one subsystem population. Its length never
// exceeds its cap; spawns beyond the cap are dropped, not queued.
type Group struct {
	name    string
	max     int
	factory Factory
	host    *Host
	log     *zap.Logger

	slots []slot
}

// NewGroup creates a group of at most max entities. factory may be nil for
// groups filled only through Add. A max below 1 is clamped to 1; subsystem
// constructors reject non-positive caps with a ConfigError before getting
// here.
func NewGroup(name string, max int, factory Factory, host *Host) *Group {
	if max <= 0 {
		max = 1
	}
	return &Group{
		name:    name,
		max:     max,
		factory: factory,
		host:    host,
		log:     host.Logger.Named(name),
		slots:   make([]slot, 0, min(max, 256)),
	}
}

// Name returns the group's observer label.
func (g *Group) Name() string { return g.name }

// Cap returns the population cap.
func (g *Group) Cap() int { return g.max }

// Len returns the number of live entities.
func (g *Group) Len() int { return len(g.slots) }

// Full reports whether the group is at its cap.
func (g *Group) Full() bool { return len(g.slots) >= g.max }

// TrySpawn builds an entity with the group's factory and adds it. It reports
// whether an entity was added.
func (g *Group) TrySpawn() bool {
	if g.Full() {
		g.host.Observer.Dropped(g.name)
		return false
	}
	if g.factory == nil {
		return false
	}
	e := g.factory(g.host.Rand)
	if e == nil {
		return false
	}
	return g.Add(e)
}

// Add inserts a prebuilt entity, creating its visual. A full group drops it;
// a surface failure skips it.
func (g *Group) Add(e Entity) bool {
	if g.Full() {
		g.host.Observer.Dropped(g.name)
		return false
	}
	h, err := g.host.Surface.CreateVisual(e.Kind(), e.Attributes())
	if err != nil {
		g.log.Warn("create visual failed, entity skipped",
			zap.Stringer("kind", e.Kind()), zap.Error(err))
		g.host.Observer.SpawnFailed(g.name, err)
		return false
	}
	g.slots = append(g.slots, slot{e: e, h: h})
	g.host.Observer.Spawned(g.name)
	return true
}

// Update steps every entity once, in descending index order, and removes the
// ones that expire, releasing their visuals. Removal swaps the last slot into
// the hole; that slot has already been stepped this pass.
func (g *Group) Update() {
	bounds := g.host.Bounds
	for i := len(g.slots) - 1; i >= 0; i-- {
		if g.slots[i].e.Step(bounds) != Expired {
			continue
		}
		g.remove(i)
	}
}

// Render writes every live entity's attributes to the surface.
func (g *Group) Render() {
	s := g.host.Surface
	for i := range g.slots {
		s.UpdateVisual(g.slots[i].h, g.slots[i].e.Attributes())
	}
}

// Clear removes every entity immediately, whatever its phase.
func (g *Group) Clear() {
	for i := len(g.slots) - 1; i >= 0; i-- {
		g.remove(i)
	}
}

// Each calls fn for every live entity in storage order.
func (g *Group) Each(fn func(Entity)) {
	for i := range g.slots {
		fn(g.slots[i].e)
	}
}

func (g *Group) remove(i int) {
	g.host.Surface.DestroyVisual(g.slots[i].h)
	last := len(g.slots) - 1
	g.slots[i] = g.slots[last]
	g.slots[last] = slot{}
	g.slots = g.slots[:last]
	g.host.Observer.Expired(g.name)
}

// Gate decides, once per tick, whether a spawn attempt may happen.
type Gate interface {
	Ready(now time.Duration, r *rand.Rand) bool
}

// ElapsedGate opens when at least Min has passed since it last opened. It is
// open on its first check.
type ElapsedGate struct {
	Min time.Duration

	last   time.Duration
	primed bool
}

// Ready implements Gate.
func (g *ElapsedGate) Ready(now time.Duration, _ *rand.Rand) bool {
	if g.primed && now-g.last <= g.Min {
		return false
	}
	g.primed = true
	g.last = now
	return true
}

// Reset makes the gate open on its next check.
func (g *ElapsedGate) Reset() {
	g.primed = false
}

// ChanceGate opens with probability P on each check.
type ChanceGate struct {
	P float64
}

// Ready implements Gate.
func (g ChanceGate) Ready(_ time.Duration, r *rand.Rand) bool {
	return r.Float64() < g.P
}

// Spawner ties a gate to a group. Limit, when positive and below the group
// cap, stops ambient spawning early so bursts keep headroom.
type Spawner struct {
	Gate    Gate
	Group   *Group
	Limit   int
	PerFire int
}

// Tick runs one gated spawn attempt.
func (s *Spawner) Tick(now time.Duration, r *rand.Rand) {
	if s.Gate != nil && !s.Gate.Ready(now, r) {
		return
	}
	s.Fire()
}

// Fire spawns PerFire entities (at least one) while under the limit.
func (s *Spawner) Fire() {
	n := max(s.PerFire, 1)
	for i := 0; i < n; i++ {
		if s.Limit > 0 && s.Group.Len() >= s.Limit {
			return
		}
		s.Group.TrySpawn()
	}
}
