package watcher

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"riftwatch/internal/lcu"
	"riftwatch/internal/state"
)

// captureSink records narration and events for assertions.
type captureSink struct {
	lines  []string
	events map[string]any
}

func newCaptureSink() *captureSink {
	return &captureSink{events: make(map[string]any)}
}

func (c *captureSink) Publish(kind, message string) {
	c.lines = append(c.lines, kind+": "+message)
}

func (c *captureSink) PublishData(event string, payload any) {
	c.events[event] = payload
}

func connectedApp() *state.App {
	app := state.NewApp()
	app.SetCredentials(lcu.Credentials{Token: "t", Port: 1})
	return app
}

type fakeAcceptClient struct {
	phases    []string
	phaseIdx  int
	accepts   int
	acceptErr error
}

func (f *fakeAcceptClient) GetGameflowPhase(lcu.Credentials) (string, error) {
	if f.phaseIdx >= len(f.phases) {
		return f.phases[len(f.phases)-1], nil
	}
	phase := f.phases[f.phaseIdx]
	f.phaseIdx++
	return phase, nil
}

func (f *fakeAcceptClient) AcceptReadyCheck(lcu.Credentials) error {
	f.accepts++
	return f.acceptErr
}

func TestAcceptEngineAcceptsOncePerReadyCheck(t *testing.T) {
	client := &fakeAcceptClient{phases: []string{
		lcu.PhaseMatchmaking,
		lcu.PhaseReadyCheck,
		lcu.PhaseReadyCheck, // still up while the server processes the accept
		lcu.PhaseChampSelect,
	}}
	engine := NewAcceptEngine(connectedApp(), client, newCaptureSink(), time.Second)

	for i := 0; i < 4; i++ {
		engine.Step()
	}
	assert.Equal(t, 1, client.accepts)
}

func TestAcceptEngineRearmsOnNextReadyCheck(t *testing.T) {
	client := &fakeAcceptClient{phases: []string{
		lcu.PhaseReadyCheck,
		lcu.PhaseMatchmaking, // someone else declined
		lcu.PhaseReadyCheck,
	}}
	engine := NewAcceptEngine(connectedApp(), client, newCaptureSink(), time.Second)

	for i := 0; i < 3; i++ {
		engine.Step()
	}
	assert.Equal(t, 2, client.accepts)
}

func TestAcceptEngineRetriesAfterAcceptFailure(t *testing.T) {
	client := &fakeAcceptClient{
		phases:    []string{lcu.PhaseReadyCheck},
		acceptErr: errors.New("boom"),
	}
	sink := newCaptureSink()
	engine := NewAcceptEngine(connectedApp(), client, sink, time.Second)

	engine.Step()
	client.acceptErr = nil
	engine.Step()

	assert.Equal(t, 2, client.accepts)
	assert.NotEmpty(t, sink.lines)
}

func TestAcceptEngineIdleWithoutCredentials(t *testing.T) {
	client := &fakeAcceptClient{phases: []string{lcu.PhaseReadyCheck}}
	engine := NewAcceptEngine(state.NewApp(), client, newCaptureSink(), time.Second)

	wait := engine.Step()
	assert.Equal(t, 0, client.accepts)
	assert.Equal(t, 500*time.Millisecond, wait)
}
