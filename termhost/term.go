// Package termhost runs bloom systems in a terminal through tcell. Each
// visual becomes one styled cell; the frame loop is a ticker and mouse clicks
// are forwarded in logical units.
package termhost

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/bloom"
	"go.uber.org/zap"
)

// Config configures a Terminal.
type Config struct {
	// Bounds is the logical area mapped onto the cell grid. Defaults to
	// 1280x720 so systems keep their pixel-scale constants.
	Bounds bloom.Rect
	// FrameInterval is the wall-clock frame period. Defaults to
	// bloom.TickDuration.
	FrameInterval time.Duration
	Logger        *zap.Logger
}

// Terminal hosts bloom systems on a tcell screen.
type Terminal struct {
	Clock   *bloom.FrameClock
	Surface *Surface

	// OnUpdate runs after the clock steps each frame. A non-nil error ends
	// Run and is returned from it.
	OnUpdate func() error
	// OnClick receives primary-button presses in logical units.
	OnClick func(x, y float64)
	// OnDrag receives the pointer while the primary button stays down.
	OnDrag func(x, y float64)

	screen   tcell.Screen
	interval time.Duration
	down     bool
	log      *zap.Logger
}

// New returns a terminal drawing onto screen. The caller owns screen: it
// must be initialized, and the caller calls Fini when done.
func New(screen tcell.Screen, cfg Config) *Terminal {
	if cfg.Bounds.Width <= 0 || cfg.Bounds.Height <= 0 {
		cfg.Bounds = bloom.Rect{Width: 1280, Height: 720}
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = bloom.TickDuration
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	screen.EnableMouse()
	return &Terminal{
		Clock:    bloom.NewFrameClock(),
		Surface:  NewSurface(screen, cfg.Bounds),
		screen:   screen,
		interval: cfg.FrameInterval,
		log:      cfg.Logger.Named("term"),
	}
}

// Host returns the collaborators systems need to draw into this terminal.
func (t *Terminal) Host() bloom.Host {
	return bloom.Host{
		Clock:   t.Clock,
		Surface: t.Surface,
		Bounds:  t.Surface.Bounds,
		Logger:  t.log.Named("bloom"),
	}
}

// Frame steps the clock once, runs OnUpdate and redraws.
func (t *Terminal) Frame() error {
	t.Clock.Step()
	if t.OnUpdate != nil {
		if err := t.OnUpdate(); err != nil {
			return err
		}
	}
	t.Surface.Draw()
	return nil
}

// Run drives frames until ctx is done, the user quits (Esc, Ctrl-C or q),
// or OnUpdate fails. Bloom callbacks all run on the calling goroutine.
func (t *Terminal) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	// PollEvent returns nil once the owner calls Fini, ending the reader.
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	t.log.Debug("running", zap.Duration("interval", t.interval))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !t.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if err := t.Frame(); err != nil {
				return err
			}
		}
	}
}

// handleEvent reacts to one terminal event and reports whether to keep
// running.
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := t.Surface.Point(col, row)
		pressed := ev.Buttons()&tcell.Button1 != 0
		switch {
		case pressed && !t.down:
			if t.OnClick != nil {
				t.OnClick(x, y)
			}
		case pressed && t.down:
			if t.OnDrag != nil {
				t.OnDrag(x, y)
			}
		}
		t.down = pressed
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}
