package ebitenhost

import (
	"fmt"
	"os"
	"time"
)

// debugInterval is how many frames frame stats accumulate before printing.
const debugInterval = 60

// frameStats accumulates update and draw timings. Only populated when
// RunConfig.Debug is set.
type frameStats struct {
	update  time.Duration
	draw    time.Duration
	frames  int
	visuals int
}

// debugLog prints averaged timings to stderr every debugInterval frames and
// resets the totals.
func (g *Game) debugLog() {
	st := &g.stats
	if !g.debug || st.frames < debugInterval {
		return
	}
	n := time.Duration(st.frames)
	_, _ = fmt.Fprintf(os.Stderr,
		"[bloom] update: %v | draw: %v | visuals: %d | pending ticks: %d\n",
		st.update/n, st.draw/n, st.visuals, g.Clock.Pending())
	*st = frameStats{}
}
