package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type EventUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is the JSON envelope pushed to every connected client.
type Event struct {
	Type      string      `json:"type"`
	Action    string      `json:"action"`
	Data      interface{} `json:"data"`
	User      EventUser   `json:"user"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type Hub struct {
	Clients    map[Conn]bool
	Register   chan Conn
	Unregister chan Conn
	Broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	logger     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[Conn]bool),
		Register:   make(chan Conn),
		Unregister: make(chan Conn),
		Broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// Publish queues an event for broadcast. It never blocks the caller; a full queue drops the event.
// A nil hub is a no-op.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("ws event marshal failed", zap.String("type", event.Type), zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.logger.Warn("ws broadcast queue full, event dropped", zap.String("type", event.Type), zap.String("action", event.Action))
	}
}

// Join registers conn. It returns false once Run has stopped.
func (h *Hub) Join(conn Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters conn; after Run has stopped it returns immediately.
func (h *Hub) Leave(conn Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// ClientCount reports the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Run serves the register, unregister and broadcast channels until ctx is done.
// It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.logger.Debug("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Debug("ws write failed, dropping client", zap.Error(err))
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
