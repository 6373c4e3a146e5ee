package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// broadcastBuffer bounds queued messages; Publish drops when it is full
const broadcastBuffer = 64

// Conn is the part of a websocket connection the hub writes to
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is a connection bound to the session that opened it
type Client struct {
	Session string
	Conn    Conn
}

// Message is a payload addressed to one session's connections
type Message struct {
	Session string
	Payload []byte
}

type Hub struct {
	Clients    map[Conn]string
	Register   chan Client
	Unregister chan Conn
	Broadcast  chan Message
	drop       chan string
	done       chan struct{}
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[Conn]string),
		Register:   make(chan Client),
		Unregister: make(chan Conn),
		Broadcast:  make(chan Message, broadcastBuffer),
		drop:       make(chan string, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Publish encodes v as JSON and queues it for the connections of session
func (h *Hub) Publish(session string, v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.log.Error("ws payload encode failed", zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- Message{Session: session, Payload: msg}:
	default:
		h.log.Warn("ws broadcast queue full, dropping message")
	}
}

// Join registers conn for session. It returns false once the hub has stopped.
func (h *Hub) Join(session string, conn Conn) bool {
	select {
	case h.Register <- Client{Session: session, Conn: conn}:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters conn; it never blocks after the hub has stopped
func (h *Hub) Leave(conn Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Disconnect closes every connection of session
func (h *Hub) Disconnect(session string) {
	select {
	case h.drop <- session:
	case <-h.done:
	}
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Run serves the hub until ctx is cancelled, then closes every client
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

		case client := <-h.Register:
			h.mutex.Lock()
			h.Clients[client.Conn] = client.Session
			h.mutex.Unlock()
			h.log.Debug("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case session := <-h.drop:
			h.mutex.Lock()
			for conn, owner := range h.Clients {
				if owner == session {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn, owner := range h.Clients {
				if owner != message.Session {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, message.Payload); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
