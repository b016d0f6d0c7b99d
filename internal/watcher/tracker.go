// Package watcher runs the phase-driven background automations: accepting
// ready checks, banning and picking champions, and analyzing rosters. Each
// automation is an Engine stepped by a Runner; phase transitions come from a
// PhaseTracker so actions fire on edges, not levels.
package watcher

// PhaseTracker turns a stream of polled phase readings into edge
// transitions. It is not safe for concurrent use; each engine owns its own.
type PhaseTracker struct {
	current  string
	previous string
	changed  bool
}

// Observe records a reading and reports whether it changed the phase. A
// repeated reading clears the edge predicates, so an edge fires once per
// transition no matter how often the same phase is polled.
func (t *PhaseTracker) Observe(phase string) bool {
	if phase == t.current {
		t.changed = false
		return false
	}
	t.previous = t.current
	t.current = phase
	t.changed = true
	return true
}

// Current returns the last observed phase.
func (t *PhaseTracker) Current() string { return t.current }

// Previous returns the phase before the last transition.
func (t *PhaseTracker) Previous() string { return t.previous }

// Entered reports whether the last Observe moved into phase.
func (t *PhaseTracker) Entered(phase string) bool {
	return t.changed && t.current == phase
}

// Left reports whether the last Observe moved out of phase.
func (t *PhaseTracker) Left(phase string) bool {
	return t.changed && t.previous == phase
}
