package bloom

import "time"

type schedTimer struct {
	interval time.Duration
	fn       func()
	id       TimerID
}

// Scheduler drives one subsystem: while running it requests a tick from the
// clock every frame and calls step with the frame time. Interval timers
// registered with Every run only while the scheduler runs.
//
// Stopping only cancels pending callbacks; whatever the subsystem holds stays
// as it was after the last completed tick.
type Scheduler struct {
	clock Clock
	step  func(now time.Duration)

	running bool
	tick    TickID
	timers  []*schedTimer
}

// NewScheduler returns a stopped scheduler.
func NewScheduler(clock Clock, step func(now time.Duration)) *Scheduler {
	return &Scheduler{clock: clock, step: step}
}

// Running reports whether the scheduler is requesting ticks.
func (s *Scheduler) Running() bool {
	return s.running
}

// Start begins ticking and arms the interval timers. Calling Start while
// running does nothing.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	for _, t := range s.timers {
		s.arm(t)
	}
	s.tick = s.clock.RequestTick(s.frame)
}

// Stop cancels the pending tick and every interval timer. It is safe to call
// at any time, including from inside a tick or timer.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.clock.CancelTick(s.tick)
	s.tick = 0
	for _, t := range s.timers {
		if t.id != 0 {
			s.clock.CancelTimer(t.id)
			t.id = 0
		}
	}
}

// Every registers fn to run each interval while the scheduler runs. Timers
// added while running are armed at once.
func (s *Scheduler) Every(interval time.Duration, fn func()) {
	t := &schedTimer{interval: interval, fn: fn}
	s.timers = append(s.timers, t)
	if s.running {
		s.arm(t)
	}
}

func (s *Scheduler) arm(t *schedTimer) {
	t.id = s.clock.Every(t.interval, func() {
		if s.running {
			t.fn()
		}
	})
}

func (s *Scheduler) frame(now time.Duration) {
	if !s.running {
		return
	}
	served := s.tick
	if s.step != nil {
		s.step(now)
	}
	// step may have stopped us, or stopped and restarted us, in which case
	// Start already requested the next tick.
	if s.running && s.tick == served {
		s.tick = s.clock.RequestTick(s.frame)
	}
}
