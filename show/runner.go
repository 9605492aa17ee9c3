package show

import (
	"fmt"
	"time"

	"github.com/phanxgames/bloom"
	"go.uber.org/zap"
)

// Screenshotter captures the next rendered frame under a label.
type Screenshotter interface {
	Screenshot(label string)
}

type trailer interface {
	Trail(x, y float64) bool
}

type clicker interface {
	Click(x, y float64) bool
}

type exploder interface {
	Explode(x, y float64, count int)
}

type resetter interface {
	Reset()
}

// Runner plays a show's cues against a stage, one cue per frame. A wait cue
// holds the cursor for its frame count, counting its own frame.
type Runner struct {
	stage *bloom.Stage
	cues  []Cue
	shots Screenshotter
	sched *bloom.Scheduler
	log   *zap.Logger

	cursor    int
	waitCount int
	done      bool
}

// NewRunner checks every cue against stage and returns a stopped runner
// ticking on clock. shots may be nil, in which case screenshot cues only log.
func NewRunner(stage *bloom.Stage, cues []Cue, clock bloom.Clock, shots Screenshotter, log *zap.Logger) (*Runner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	for i, c := range cues {
		if err := checkCue(stage, c); err != nil {
			return nil, fmt.Errorf("cue %d: %w", i, err)
		}
	}
	r := &Runner{
		stage: stage,
		cues:  cues,
		shots: shots,
		log:   log.Named("show"),
	}
	r.sched = bloom.NewScheduler(clock, r.step)
	return r, nil
}

func checkCue(stage *bloom.Stage, c Cue) error {
	var sys bloom.System
	if c.System != "" {
		var ok bool
		if sys, ok = stage.Lookup(c.System); !ok {
			return fmt.Errorf("%s: no system %q", c.Action, c.System)
		}
	}
	need := func(what string, ok bool) error {
		if sys == nil {
			return fmt.Errorf("%s: needs a system", c.Action)
		}
		if !ok {
			return fmt.Errorf("%s: %s cannot %s", c.Action, c.System, what)
		}
		return nil
	}
	switch c.Action {
	case "start", "stop", "clear", "suspend", "resume":
		return nil
	case "burst":
		_, ok := sys.(bloom.Burster)
		return need("burst", ok)
	case "trail":
		_, ok := sys.(trailer)
		return need("trail", ok)
	case "click":
		_, ok := sys.(clicker)
		return need("click", ok)
	case "explode":
		_, ok := sys.(exploder)
		return need("explode", ok)
	case "reset":
		_, ok := sys.(resetter)
		return need("reset", ok)
	case "wait":
		if c.Frames <= 0 {
			return fmt.Errorf("wait: frames must be positive, got %d", c.Frames)
		}
		return nil
	case "screenshot":
		if c.Label == "" {
			return fmt.Errorf("screenshot: needs a label")
		}
		return nil
	}
	return fmt.Errorf("unknown action %q", c.Action)
}

// Start begins playing from the current cue.
func (r *Runner) Start() {
	if !r.done {
		r.sched.Start()
	}
}

// Stop pauses playback.
func (r *Runner) Stop() { r.sched.Stop() }

// Done reports whether every cue has run and the last wait has elapsed.
func (r *Runner) Done() bool { return r.done }

func (r *Runner) step(time.Duration) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.finishIfExhausted()
		return
	}
	if r.cursor >= len(r.cues) {
		r.finish()
		return
	}

	c := r.cues[r.cursor]
	r.cursor++
	r.run(c)
	r.finishIfExhausted()
}

func (r *Runner) finishIfExhausted() {
	if r.cursor >= len(r.cues) && r.waitCount == 0 {
		r.finish()
	}
}

func (r *Runner) finish() {
	r.done = true
	r.sched.Stop()
	r.log.Info("show finished", zap.Int("cues", len(r.cues)))
}

func (r *Runner) run(c Cue) {
	r.log.Info("cue", zap.Int("index", r.cursor-1), zap.String("action", c.Action), zap.String("system", c.System))
	var sys bloom.System
	if c.System != "" {
		sys, _ = r.stage.Lookup(c.System)
	}
	switch c.Action {
	case "start":
		if sys != nil {
			sys.Start()
		} else {
			r.stage.StartAll()
		}
	case "stop":
		if sys != nil {
			sys.Stop()
		} else {
			r.stage.StopAll()
		}
	case "clear":
		if sys != nil {
			sys.Clear()
		} else {
			r.stage.ClearAll()
		}
	case "suspend":
		r.stage.Suspend()
	case "resume":
		r.stage.Resume()
	case "burst":
		sys.(bloom.Burster).Burst(c.X, c.Y, c.Count)
	case "trail":
		sys.(trailer).Trail(c.X, c.Y)
	case "click":
		sys.(clicker).Click(c.X, c.Y)
	case "explode":
		sys.(exploder).Explode(c.X, c.Y, c.Count)
	case "reset":
		sys.(resetter).Reset()
	case "wait":
		r.waitCount = c.Frames - 1 // this frame counts as one
	case "screenshot":
		if r.shots != nil {
			r.shots.Screenshot(c.Label)
		} else {
			r.log.Warn("screenshot cue without a capturing host", zap.String("label", c.Label))
		}
	}
}
