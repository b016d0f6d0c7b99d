package watcher

import (
	"time"

	"riftwatch/internal/lcu"
	"riftwatch/internal/metrics"
	"riftwatch/internal/state"
	"riftwatch/internal/status"
)

type acceptClient interface {
	GetGameflowPhase(cr lcu.Credentials) (string, error)
	AcceptReadyCheck(cr lcu.Credentials) error
}

// AcceptEngine accepts the matchmaking ready check. One accept per ready
// check: the flag arms when the phase is entered and stays down until the
// phase is left, so a slow server answer cannot double-fire.
type AcceptEngine struct {
	app      *state.App
	client   acceptClient
	sink     status.Sink
	interval time.Duration

	tracker  PhaseTracker
	accepted bool
}

// NewAcceptEngine builds the ready-check automation.
func NewAcceptEngine(app *state.App, client acceptClient, sink status.Sink, interval time.Duration) *AcceptEngine {
	if interval <= 0 {
		interval = time.Second
	}
	return &AcceptEngine{app: app, client: client, sink: sink, interval: interval}
}

func (e *AcceptEngine) Name() string { return "accept" }

// Step polls the phase once and accepts when a fresh ready check appears.
func (e *AcceptEngine) Step() time.Duration {
	cr := e.app.Credentials()
	if !cr.Valid() {
		return 500 * time.Millisecond
	}

	phase, err := e.client.GetGameflowPhase(cr)
	if err != nil {
		return e.interval
	}
	e.tracker.Observe(phase)

	if phase != lcu.PhaseReadyCheck {
		e.accepted = false
		return e.interval
	}
	if e.accepted {
		return e.interval
	}

	if err := e.client.AcceptReadyCheck(cr); err != nil {
		e.sink.Publish("warning", "ready check accept failed: "+err.Error())
		return e.interval
	}
	e.accepted = true
	metrics.WatcherActions.WithLabelValues(e.Name(), "accepted").Inc()
	e.sink.Publish("success", "match accepted")
	return e.interval
}
