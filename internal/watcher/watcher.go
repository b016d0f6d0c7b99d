package watcher

import (
	"sync"
	"time"

	"riftwatch/internal/metrics"
)

// Engine is one automation stepped on its own cadence. Step does one unit of
// work and returns how long to wait before the next step.
type Engine interface {
	Name() string
	Step() time.Duration
}

// Runner drives an Engine on a background goroutine. Start is idempotent
// while running and re-arms after a stop; Stop is cooperative, taking effect
// at the next step boundary.
type Runner struct {
	engine Engine

	mu      sync.Mutex
	enabled bool
	running bool
}

// NewRunner wraps an engine.
func NewRunner(engine Engine) *Runner {
	return &Runner{engine: engine}
}

// Start launches the loop if it is not already running.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.enabled = true
	if r.running {
		return
	}
	r.running = true
	metrics.WatcherActions.WithLabelValues(r.engine.Name(), "start").Inc()
	go r.loop()
}

// Stop requests the loop to exit. The goroutine finishes its current step
// first.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enabled {
		metrics.WatcherActions.WithLabelValues(r.engine.Name(), "stop").Inc()
	}
	r.enabled = false
}

// Running reports whether the loop goroutine is alive.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Enabled reports whether the loop has been asked to keep going.
func (r *Runner) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

func (r *Runner) loop() {
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	for {
		if !r.Enabled() {
			return
		}
		wait := r.engine.Step()
		if wait <= 0 {
			wait = time.Second
		}
		time.Sleep(wait)
	}
}
