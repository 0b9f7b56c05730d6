package web

import (
	"sync"

	"github.com/gorilla/websocket"
)

type outbound struct {
	kind int
	data []byte
}

type client struct {
	conn *websocket.Conn
	send chan outbound
}

// hub fans frames out to clients. A client whose queue is full misses the
// frame rather than stalling the simulation.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	onDrop  func()
}

func newHub(onDrop func()) *hub {
	return &hub{clients: make(map[*client]struct{}), onDrop: onDrop}
}

func (h *hub) add(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	return len(h.clients)
}

func (h *hub) remove(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	return len(h.clients)
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast queues a copy of data for every client.
func (h *hub) broadcast(kind int, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		msg := outbound{kind: kind, data: append([]byte(nil), data...)}
		select {
		case c.send <- msg:
		default:
			if h.onDrop != nil {
				h.onDrop()
			}
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
}
