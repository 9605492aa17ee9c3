package bloom

import (
	"time"

	"go.uber.org/zap"
)

// System is a subsystem instance: one scheduler plus the populations it
// drives. Systems are independent; suspending one never touches another.
type System interface {
	Name() string
	Start()
	Stop()
	Running() bool
	// Clear force-removes every live entity, keeping the running state.
	Clear()
}

// Burster is a System that can spawn a cluster at a point, bypassing its
// spawn gate. count <= 0 means the system's default.
type Burster interface {
	System
	Burst(x, y float64, count int)
}

// base carries what every System shares.
type base struct {
	name  string
	host  Host
	log   *zap.Logger
	sched *Scheduler
}

func newBase(name string, h Host, step func(now time.Duration)) (base, error) {
	h = h.withDefaults()
	if err := checkHost(name, &h); err != nil {
		return base{}, err
	}
	b := base{name: name, host: h, log: h.Logger.Named(name)}
	b.sched = NewScheduler(h.Clock, step)
	return b, nil
}

// Name returns the system's name, used as its logger and metrics label.
func (b *base) Name() string { return b.name }

// Running reports whether the system is ticking.
func (b *base) Running() bool { return b.sched.Running() }

// Stop suspends ticking and timers. Entities stay where the last completed
// tick left them.
func (b *base) Stop() {
	if !b.sched.Running() {
		return
	}
	b.sched.Stop()
	b.log.Debug("stopped")
}

// startSched starts the scheduler and reports whether it was stopped.
func (b *base) startSched() bool {
	if b.sched.Running() {
		return false
	}
	b.sched.Start()
	b.log.Debug("started")
	return true
}

func (b *base) group(name string, max int, f Factory) *Group {
	return NewGroup(name, max, f, &b.host)
}

// Host returns the collaborators the system was built with, after defaults.
func (b *base) Host() Host { return b.host }

func clampCount(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
