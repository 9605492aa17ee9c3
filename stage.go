package bloom

import "fmt"

// Stage holds a set of independently scheduled systems and suspends or
// resumes them together, the way a page going hidden and visible again
// would.
type Stage struct {
	systems   []System
	byName    map[string]System
	suspended []System
}

// NewStage returns an empty stage.
func NewStage() *Stage {
	return &Stage{byName: make(map[string]System)}
}

// Add registers sys. Names must be unique.
func (st *Stage) Add(sys System) error {
	if _, ok := st.byName[sys.Name()]; ok {
		return fmt.Errorf("bloom: stage already has a system named %q", sys.Name())
	}
	st.systems = append(st.systems, sys)
	st.byName[sys.Name()] = sys
	return nil
}

// Lookup returns the system registered under name.
func (st *Stage) Lookup(name string) (System, bool) {
	sys, ok := st.byName[name]
	return sys, ok
}

// Systems returns the registered systems in registration order.
func (st *Stage) Systems() []System {
	return st.systems
}

// StartAll starts every system.
func (st *Stage) StartAll() {
	for _, sys := range st.systems {
		sys.Start()
	}
}

// StopAll stops every system and forgets any suspension.
func (st *Stage) StopAll() {
	for _, sys := range st.systems {
		sys.Stop()
	}
	st.suspended = nil
}

// Suspend stops the running systems and remembers them. Suspending twice
// keeps the first set.
func (st *Stage) Suspend() {
	if st.suspended != nil {
		return
	}
	st.suspended = []System{}
	for _, sys := range st.systems {
		if sys.Running() {
			sys.Stop()
			st.suspended = append(st.suspended, sys)
		}
	}
}

// Suspended reports whether Suspend is in effect.
func (st *Stage) Suspended() bool {
	return st.suspended != nil
}

// Resume restarts exactly the systems the last Suspend stopped.
func (st *Stage) Resume() {
	for _, sys := range st.suspended {
		sys.Start()
	}
	st.suspended = nil
}

// ClearAll force-removes every entity of every system.
func (st *Stage) ClearAll() {
	for _, sys := range st.systems {
		sys.Clear()
	}
}
