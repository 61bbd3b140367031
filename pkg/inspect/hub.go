package inspect

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	clientQueue = 16
)

// client is one websocket subscriber.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// writePump sends queued messages until the queue is closed or a write
// fails.
func (c *client) writePump(h *hub) {
	defer func() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.conn.Close()
	}()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("websocket write failed", "client", c.id, "error", err)
			h.remove(c)
			// Drain so close() callers never block.
			for range c.send {
			}
			return
		}
	}
}

// hub fans snapshots out to websocket clients. Slow clients are dropped.
type hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[string]*client
	closed  bool
}

func newHub(logger *slog.Logger) *hub {
	return &hub{logger: logger, clients: make(map[string]*client)}
}

// add registers conn and starts its writer. It returns nil when the hub
// is closed.
func (h *hub) add(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.Must(uuid.NewV7()).String(),
		conn: conn,
		send: make(chan []byte, clientQueue),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.clients[c.id] = c
	h.mu.Unlock()

	go c.writePump(h)
	h.logger.Debug("websocket client connected", "client", c.id)
	return c
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	if ok {
		c.close()
		h.logger.Debug("websocket client disconnected", "client", c.id)
	}
}

// sendTo queues msg for one client without blocking.
func (h *hub) sendTo(c *client, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	h.enqueue(c, msg)
}

// broadcast queues msg for every client without blocking.
func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.enqueue(c, msg)
	}
}

// enqueue must be called with h.mu held.
func (h *hub) enqueue(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("websocket client too slow, dropping", "client", c.id)
		delete(h.clients, c.id)
		c.close()
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
