package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub manages WebSocket connections and broadcasts progress to topic watchers.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection // connection_id -> connection
	topics      map[string][]uuid.UUID    // topic_slug -> []connection_id
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		topics:      make(map[string][]uuid.UUID),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// RegisterConnection adds a connection under its id.
func (h *Hub) RegisterConnection(connID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if old, exists := h.connections[connID]; exists {
		old.Close()
	}

	h.connections[connID] = conn
	h.logger.Debug().Str("connection_id", connID.String()).Msg("connection registered")
}

// UnregisterConnection removes a connection and all of its topic subscriptions.
func (h *Hub) UnregisterConnection(connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[connID]; exists {
		conn.Close()
		delete(h.connections, connID)
		h.logger.Debug().Str("connection_id", connID.String()).Msg("connection unregistered")
	}

	for slug, ids := range h.topics {
		h.topics[slug] = without(ids, connID)
		if len(h.topics[slug]) == 0 {
			delete(h.topics, slug)
		}
	}
}

// JoinTopic subscribes a connection to updates of one topic.
func (h *Hub) JoinTopic(slug string, connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := h.topics[slug]
	for _, id := range ids {
		if id == connID {
			return // already joined
		}
	}
	h.topics[slug] = append(ids, connID)
}

// LeaveTopic removes a connection from a topic.
func (h *Hub) LeaveTopic(slug string, connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.topics[slug] = without(h.topics[slug], connID)
	if len(h.topics[slug]) == 0 {
		delete(h.topics, slug)
	}
}

func without(ids []uuid.UUID, connID uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, id := range ids {
		if id != connID {
			out = append(out, id)
		}
	}
	return out
}

// Watchers returns how many connections follow a topic.
func (h *Hub) Watchers(slug string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[slug])
}

// BroadcastToTopic sends a message to every connection following slug.
func (h *Hub) BroadcastToTopic(slug string, msg Message) error {
	h.mu.RLock()
	ids := append([]uuid.UUID(nil), h.topics[slug]...)
	h.mu.RUnlock()

	var firstErr error
	for _, id := range ids {
		if err := h.SendTo(id, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendTo delivers a message to a specific connection.
func (h *Hub) SendTo(connID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[connID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}

	return conn.Send(msg)
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends messages from the send queue.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump receives messages and calls the handler.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
