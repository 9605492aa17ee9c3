package bloom

import "time"

type pendingTick struct {
	id TickID
	fn func(now time.Duration)
}

type intervalTimer struct {
	id       TimerID
	interval time.Duration
	next     time.Duration
	fn       func()
}

// FrameClock is a Clock advanced explicitly, one frame per Step. Hosts call
// Step from their own frame callback; tests and the headless simulator call
// Advance directly.
//
// Within a frame, due interval timers fire first in registration order, then
// every tick callback requested before the frame began fires once. Callbacks
// requested during a frame run on the next one.
type FrameClock struct {
	// TickDuration is how far Now advances per Step. Defaults to TickDuration.
	TickDuration time.Duration

	now    time.Duration
	nextID uint64
	ticks  []pendingTick
	timers []*intervalTimer
	frame  []pendingTick
}

// NewFrameClock returns a FrameClock at time zero advancing by the nominal tick.
func NewFrameClock() *FrameClock {
	return &FrameClock{TickDuration: TickDuration}
}

// Now returns the clock's current time.
func (c *FrameClock) Now() time.Duration {
	return c.now
}

// Pending reports how many tick callbacks wait for the next frame.
func (c *FrameClock) Pending() int {
	return len(c.ticks)
}

// RequestTick schedules fn for the next frame.
func (c *FrameClock) RequestTick(fn func(now time.Duration)) TickID {
	c.nextID++
	id := TickID(c.nextID)
	c.ticks = append(c.ticks, pendingTick{id: id, fn: fn})
	return id
}

// CancelTick removes a pending callback. Unknown or fired IDs are ignored.
func (c *FrameClock) CancelTick(id TickID) {
	for i := range c.ticks {
		if c.ticks[i].id == id {
			c.ticks = append(c.ticks[:i], c.ticks[i+1:]...)
			return
		}
	}
	// Cancelling from inside a frame must also stop callbacks not yet run.
	for i := range c.frame {
		if c.frame[i].id == id {
			c.frame[i].fn = nil
			return
		}
	}
}

// Every fires fn each time interval elapses, starting one interval from now.
func (c *FrameClock) Every(interval time.Duration, fn func()) TimerID {
	if interval <= 0 {
		interval = c.step()
	}
	c.nextID++
	id := TimerID(c.nextID)
	c.timers = append(c.timers, &intervalTimer{id: id, interval: interval, next: c.now + interval, fn: fn})
	return id
}

// CancelTimer stops a repeating timer. Unknown IDs are ignored.
func (c *FrameClock) CancelTimer(id TimerID) {
	for i, t := range c.timers {
		if t.id == id {
			t.fn = nil
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

// Step advances the clock by one frame and runs everything due.
func (c *FrameClock) Step() {
	c.now += c.step()

	// Snapshot: timers cancelled by an earlier timer in this frame have fn nil.
	timers := append([]*intervalTimer(nil), c.timers...)
	for _, t := range timers {
		for t.fn != nil && t.next <= c.now {
			t.next += t.interval
			t.fn()
		}
	}

	c.frame = append(c.frame[:0], c.ticks...)
	c.ticks = c.ticks[:0]
	for i := range c.frame {
		if fn := c.frame[i].fn; fn != nil {
			fn(c.now)
		}
	}
	c.frame = c.frame[:0]
}

// Advance runs n frames.
func (c *FrameClock) Advance(n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

func (c *FrameClock) step() time.Duration {
	if c.TickDuration <= 0 {
		return TickDuration
	}
	return c.TickDuration
}
