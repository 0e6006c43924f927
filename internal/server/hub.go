package server

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Frame is one websocket push: the status plus the owner fog texture that
// changed this pass, base64 PNG encoded by the handler.
type Frame struct {
	Type    string `json:"type"` // "status" or "minimap"
	OwnerID int    `json:"owner_id,omitempty"`
	Payload any    `json:"payload"`
}

// Hub fans frames out to connected websocket clients. Slow clients are
// dropped rather than allowed to stall the tick.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan Frame
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan Frame),
		log:     log,
	}
}

func (h *Hub) add(conn *websocket.Conn) chan Frame {
	ch := make(chan Frame, 16)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	conn.Close()
}

// Broadcast queues a frame for every client; full queues drop the frame.
func (h *Hub) Broadcast(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- f:
		default:
			h.log.Debug("ws client lagging, frame dropped",
				zap.String("remote", conn.RemoteAddr().String()))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
