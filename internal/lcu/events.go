package lcu

import (
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WAMP frame opcodes used by the control API's event socket.
type eventOpcode int

const (
	opcodeSubscribe eventOpcode = 5
	opcodeEvent     eventOpcode = 8
)

const (
	eventGameflowPhase     = "OnJsonApiEvent_lol-gameflow_v1_gameflow-phase"
	eventChampSelectWidget = "OnJsonApiEvent_lol-champ-select_v1_session"
)

// PhaseEventHandler receives pushed match-flow phase changes.
type PhaseEventHandler func(phase string)

// ChampSelectEventHandler receives pushed character-select session updates;
// session is nil when the session is deleted.
type ChampSelectEventHandler func(session *ChampSelectSession, active bool)

// EventClient subscribes to the control API's push channel. It is an
// acceleration layer over polling, not a replacement: the poll loop remains
// the source of truth and the push channel merely tightens reaction time.
type EventClient struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	stop      chan struct{}

	onPhase       PhaseEventHandler
	onChampSelect ChampSelectEventHandler
}

// NewEventClient creates a disconnected event client.
func NewEventClient() *EventClient {
	return &EventClient{stop: make(chan struct{})}
}

// SetPhaseHandler registers the phase-change callback. Call before Connect.
func (e *EventClient) SetPhaseHandler(h PhaseEventHandler) { e.onPhase = h }

// SetChampSelectHandler registers the session callback. Call before Connect.
func (e *EventClient) SetChampSelectHandler(h ChampSelectEventHandler) { e.onChampSelect = h }

// Connect dials the event socket and subscribes. Idempotent while connected.
func (e *EventClient) Connect(cr Credentials) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.connected {
		return nil
	}
	if !cr.Valid() {
		return ErrNotConnected
	}

	dialer := websocket.Dialer{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	header := http.Header{}
	auth := base64.StdEncoding.EncodeToString([]byte("riot:" + cr.Token))
	header.Set("Authorization", "Basic "+auth)

	conn, _, err := dialer.Dial(fmt.Sprintf("wss://127.0.0.1:%d", cr.Port), header)
	if err != nil {
		return fmt.Errorf("%w: dial event socket: %v", ErrUnavailable, err)
	}

	for _, event := range []string{eventGameflowPhase, eventChampSelectWidget} {
		if err := conn.WriteJSON([]any{opcodeSubscribe, event}); err != nil {
			conn.Close()
			return fmt.Errorf("%w: subscribe %s: %v", ErrUnavailable, event, err)
		}
	}

	e.conn = conn
	e.connected = true
	go e.listen(conn)
	return nil
}

func (e *EventClient) listen(conn *websocket.Conn) {
	defer func() {
		e.mu.Lock()
		if e.conn == conn {
			e.connected = false
			e.conn = nil
		}
		e.mu.Unlock()
		conn.Close()
	}()

	for {
		select {
		case <-e.stop:
			return
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		e.handleFrame(message)
	}
}

func (e *EventClient) handleFrame(data []byte) {
	var frame []json.RawMessage
	if err := json.Unmarshal(data, &frame); err != nil || len(frame) < 3 {
		return
	}

	var opcode eventOpcode
	if err := json.Unmarshal(frame[0], &opcode); err != nil || opcode != opcodeEvent {
		return
	}
	var eventName string
	if err := json.Unmarshal(frame[1], &eventName); err != nil {
		return
	}

	var body struct {
		EventType string          `json:"eventType"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame[2], &body); err != nil {
		return
	}

	switch eventName {
	case eventGameflowPhase:
		if e.onPhase == nil {
			return
		}
		var phase string
		if err := json.Unmarshal(body.Data, &phase); err != nil {
			return
		}
		e.onPhase(phase)

	case eventChampSelectWidget:
		if e.onChampSelect == nil {
			return
		}
		switch body.EventType {
		case "Create", "Update":
			var session ChampSelectSession
			if err := json.Unmarshal(body.Data, &session); err != nil {
				return
			}
			e.onChampSelect(&session, true)
		case "Delete":
			e.onChampSelect(nil, false)
		}
	}
}

// Disconnect closes the socket; the client can be reconnected afterwards.
func (e *EventClient) Disconnect() {
	e.mu.Lock()
	defer e.mu.Unlock()

	close(e.stop)
	if e.conn != nil {
		e.conn.Close()
		e.conn = nil
	}
	e.connected = false
	e.stop = make(chan struct{})
}

// IsConnected reports whether the event socket is live.
func (e *EventClient) IsConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}
