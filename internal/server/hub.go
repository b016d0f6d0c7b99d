package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The service binds to loopback; the browser front end is same-host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statusFrame is the wire shape of one narration line or event.
type statusFrame struct {
	Event   string `json:"event"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Hub broadcasts status frames to every connected browser. It implements
// status.Sink so the watchers can narrate without knowing about WebSockets.
// A slow or dead client is dropped rather than allowed to stall the rest.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan statusFrame
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan statusFrame)}
}

// Publish broadcasts a narration line.
func (h *Hub) Publish(kind, message string) {
	h.broadcast(statusFrame{Event: "status_update", Kind: kind, Message: message})
}

// PublishData broadcasts a named event with a payload.
func (h *Hub) PublishData(event string, payload any) {
	h.broadcast(statusFrame{Event: event, Payload: payload})
}

func (h *Hub) broadcast(frame statusFrame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- frame:
		default:
			// Client cannot keep up; drop it.
			close(ch)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// ServeHTTP upgrades the request and streams frames until the client goes
// away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	ch := make(chan statusFrame, 64)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	go h.writeLoop(conn, ch)
	h.readLoop(conn)
}

func (h *Hub) writeLoop(conn *websocket.Conn, ch chan statusFrame) {
	for frame := range ch {
		if err := conn.WriteJSON(frame); err != nil {
			break
		}
	}
	h.drop(conn)
}

// readLoop discards inbound messages; its job is noticing the close.
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	conn.Close()
}

// ClientCount returns the number of connected browsers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
