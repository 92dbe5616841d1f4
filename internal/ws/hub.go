package ws

import (
	"encoding/json"
	"sync"
	"time"

	"aroma-inventory/internal/logger"

	"github.com/gofiber/contrib/websocket"
)

// Event is the JSON envelope pushed to every connected client
type Event struct {
	Type      string      `json:"type"`   // e.g. stock_update, client_update
	Action    string      `json:"action"` // e.g. stock_added, product_created
	Data      interface{} `json:"data,omitempty"`
	User      *EventUser  `json:"user,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type EventUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Publisher is what services depend on; the Hub is the production implementation
type Publisher interface {
	Publish(event Event)
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *logger.Logger
	done       chan struct{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 256),
		log:        log,
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("ws client connected", "clients", h.ClientCount())

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
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()

		case <-h.done:
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Join adds conn to the broadcast set. It returns false once the hub has
// stopped.
func (h *Hub) Join(conn *websocket.Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Leave removes conn; after Stop it returns immediately.
func (h *Hub) Leave(conn *websocket.Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Publish never blocks the caller; events are dropped when the buffer is full
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("ws event marshal failed", "action", event.Action, "error", err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.log.Warn("ws broadcast buffer full, dropping event", "action", event.Action)
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Stop ends Run and closes all connections
func (h *Hub) Stop() {
	close(h.done)
}
