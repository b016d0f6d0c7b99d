package watcher

import (
	"errors"
	"fmt"
	"time"

	"riftwatch/internal/lcu"
	"riftwatch/internal/metrics"
	"riftwatch/internal/state"
	"riftwatch/internal/status"
)

type connectionClient interface {
	GetGameflowPhase(cr lcu.Credentials) (string, error)
}

// ConnectionEngine keeps the session credentials fresh: while disconnected it
// runs credential discovery, while connected it probes the control API and
// drops the credentials when the client goes away. Connect and disconnect
// are narrated once per edge, also opening and closing the push-event
// socket.
type ConnectionEngine struct {
	app    *state.App
	client connectionClient
	events *lcu.EventClient
	sink   status.Sink

	discover  func() (lcu.Credentials, bool)
	interval  time.Duration
	connected bool
}

// NewConnectionEngine builds the connection monitor. discover runs credential
// discovery; events may be nil to skip the push socket.
func NewConnectionEngine(app *state.App, client connectionClient, events *lcu.EventClient, sink status.Sink, discover func() (lcu.Credentials, bool)) *ConnectionEngine {
	return &ConnectionEngine{
		app:      app,
		client:   client,
		events:   events,
		sink:     sink,
		discover: discover,
		interval: 2 * time.Second,
	}
}

func (e *ConnectionEngine) Name() string { return "connection" }

// Step performs one connect-or-verify cycle.
func (e *ConnectionEngine) Step() time.Duration {
	cr := e.app.Credentials()

	if !cr.Valid() {
		found, ok := e.discover()
		if !ok {
			if e.connected {
				e.markDisconnected()
			}
			return e.interval
		}
		cr = found
		e.app.SetCredentials(cr)
	}

	if _, err := e.client.GetGameflowPhase(cr); err != nil {
		if errors.Is(err, lcu.ErrUnavailable) || errors.Is(err, lcu.ErrNotConnected) {
			e.app.ClearCredentials()
			if e.connected {
				e.markDisconnected()
			}
		}
		return e.interval
	}

	if !e.connected {
		e.connected = true
		metrics.WatcherActions.WithLabelValues(e.Name(), "connected").Inc()
		e.sink.Publish("success", fmt.Sprintf("league client connected on port %d", cr.Port))
		e.sink.PublishData("lcu_status", map[string]any{"connected": true, "port": cr.Port})
	}

	if e.events != nil && !e.events.IsConnected() {
		if err := e.events.Connect(cr); err == nil {
			e.sink.Publish("info", "event socket connected")
		}
	}
	return e.interval
}

func (e *ConnectionEngine) markDisconnected() {
	e.connected = false
	if e.events != nil {
		e.events.Disconnect()
	}
	metrics.WatcherActions.WithLabelValues(e.Name(), "disconnected").Inc()
	e.sink.Publish("warning", "league client disconnected, waiting")
	e.sink.PublishData("lcu_status", map[string]any{"connected": false})
}
